package storage

import (
	"context"
	"sync"
	"time"

	"github.com/sumitjhk/Pastebin-Lite/models"
)

// MemoryStore implements RecordStore with an in-process map. It is the
// default backend for development and the reference backend for tests: the
// mutex serializes decrements, so DecrementViews is exact.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*memoryRecord
}

type memoryRecord struct {
	paste *models.Paste
	// deadline emulates backend-native TTL reclamation; zero means no TTL.
	deadline time.Time
}

// NewMemoryStore creates an empty in-memory storage backend.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*memoryRecord)}
}

// Put stores a copy of the paste, applying the native-TTL deadline when the
// paste carries a time expiry.
func (m *MemoryStore) Put(_ context.Context, paste *models.Paste) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := &memoryRecord{paste: clonePaste(paste)}
	if ttl := paste.TTLSeconds(); ttl > 0 {
		rec.deadline = time.Now().Add(time.Duration(ttl) * time.Second)
	}
	m.records[paste.ID] = rec
	return nil
}

// Get returns a copy of the stored paste, or (nil, nil) when the key is
// missing or already reclaimed by the native TTL.
func (m *MemoryStore) Get(_ context.Context, id string) (*models.Paste, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	if !rec.deadline.IsZero() && time.Now().After(rec.deadline) {
		delete(m.records, id)
		return nil, nil
	}
	return clonePaste(rec.paste), nil
}

// Delete removes the paste; absent keys are a no-op.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

// DecrementViews implements ViewDecrementer. The store mutex spans the
// read and the write, so concurrent decrements never lose an update.
func (m *MemoryStore) DecrementViews(_ context.Context, id string, _ int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return 0, ErrExhausted
	}
	if !rec.deadline.IsZero() && time.Now().After(rec.deadline) {
		delete(m.records, id)
		return 0, ErrExhausted
	}
	if rec.paste.RemainingViews == nil {
		return 0, ErrExhausted
	}
	newCount := *rec.paste.RemainingViews - 1
	if newCount <= 0 {
		delete(m.records, id)
		return 0, ErrExhausted
	}
	rec.paste.RemainingViews = &newCount
	return newCount, nil
}

// Ping always succeeds for the in-memory backend.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Close drops all records.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(map[string]*memoryRecord)
	return nil
}

// clonePaste copies a paste including its nullable fields so callers never
// share pointers with the stored record.
func clonePaste(p *models.Paste) *models.Paste {
	c := *p
	if p.ExpiresAt != nil {
		v := *p.ExpiresAt
		c.ExpiresAt = &v
	}
	if p.MaxViews != nil {
		v := *p.MaxViews
		c.MaxViews = &v
	}
	if p.RemainingViews != nil {
		v := *p.RemainingViews
		c.RemainingViews = &v
	}
	return &c
}
