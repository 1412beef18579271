package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/sumitjhk/Pastebin-Lite/config"
	"github.com/sumitjhk/Pastebin-Lite/models"
	"github.com/sumitjhk/Pastebin-Lite/storage"
	"github.com/sumitjhk/Pastebin-Lite/utils"
)

// ErrNotFound covers every reason a paste is not served: never stored,
// time-expired, or view-exhausted. Callers cannot tell these apart, so a
// probe never learns whether an ID ever existed.
var ErrNotFound = errors.New("paste not found")

// ErrValidation is the base error for malformed creation parameters.
var ErrValidation = errors.New("invalid paste request")

// Enumerated validation failures, all matching ErrValidation via errors.Is.
var (
	ErrEmptyContent    = fmt.Errorf("%w: content is required and must be a non-empty string", ErrValidation)
	ErrInvalidTTL      = fmt.Errorf("%w: ttl_seconds must be an integer >= 1", ErrValidation)
	ErrInvalidMaxViews = fmt.Errorf("%w: max_views must be an integer >= 1", ErrValidation)
)

// PasteService owns the paste lifecycle: creation, validated retrieval and
// the view-decrement protocol. It holds no state of its own; every
// operation re-reads from the store so there is never a stale cached copy.
type PasteService struct {
	store  storage.RecordStore
	config *config.Config
}

// NewPasteService creates a new paste service
func NewPasteService(store storage.RecordStore, config *config.Config) *PasteService {
	return &PasteService{
		store:  store,
		config: config,
	}
}

// CreateRequest carries validated creation parameters. Nil TTLSeconds means
// no time expiry; nil MaxViews means unlimited views.
type CreateRequest struct {
	Content    string
	TTLSeconds *int
	MaxViews   *int
}

// Validate rejects malformed parameters with an enumerated error.
func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return ErrEmptyContent
	}
	if r.TTLSeconds != nil && *r.TTLSeconds < 1 {
		return ErrInvalidTTL
	}
	if r.MaxViews != nil && *r.MaxViews < 1 {
		return ErrInvalidMaxViews
	}
	return nil
}

// Create validates the request, generates a fresh ID and persists the paste
// with its computed expiry fields. now is epoch milliseconds.
func (s *PasteService) Create(ctx context.Context, req CreateRequest, now int64) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	id, err := utils.NewID(s.config.IDLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate paste id: %w", err)
	}

	paste := &models.Paste{
		ID:        id,
		Content:   req.Content,
		CreatedAt: now,
	}
	if req.TTLSeconds != nil {
		expiresAt := now + int64(*req.TTLSeconds)*1000
		paste.ExpiresAt = &expiresAt
	}
	if req.MaxViews != nil {
		views := *req.MaxViews
		paste.MaxViews = &views
		remaining := *req.MaxViews
		paste.RemainingViews = &remaining
	}

	if err := s.store.Put(ctx, paste); err != nil {
		return "", err
	}
	return id, nil
}

// Fetch retrieves a live paste. Expiry is always re-checked against the
// supplied clock, independent of backend-native reclamation. When decrement
// is set and the paste is view-tracked, one view is consumed; a decrement
// that exhausts the budget deletes the paste and reports ErrNotFound.
// Non-decrementing fetches never mutate anything.
func (s *PasteService) Fetch(ctx context.Context, id string, now int64, decrement bool) (*models.Paste, error) {
	paste, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if paste == nil {
		return nil, ErrNotFound
	}

	if paste.IsExpired(now) {
		// Lazy expiry: the backend TTL has not fired yet (or the clock
		// is simulated). Reclaim eagerly, but the answer does not
		// depend on the delete succeeding.
		if err := s.store.Delete(ctx, id); err != nil {
			log.Printf("[ERROR] failed to delete expired paste %s: %v", id, err)
		}
		return nil, ErrNotFound
	}

	if paste.ViewsExhausted() {
		return nil, ErrNotFound
	}

	if decrement && paste.RemainingViews != nil {
		newCount, err := s.decrementViews(ctx, id, now)
		if errors.Is(err, storage.ErrExhausted) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		paste.RemainingViews = &newCount
	}
	return paste, nil
}

// decrementViews consumes one view. Backends with an atomic
// decrement-and-maybe-delete primitive are preferred; otherwise the baseline
// read-modify-write runs, which can lose an update between concurrent
// decrements on the same ID (two readers of count 2 both writing 1).
func (s *PasteService) decrementViews(ctx context.Context, id string, now int64) (int, error) {
	if vd, ok := s.store.(storage.ViewDecrementer); ok {
		return vd.DecrementViews(ctx, id, now)
	}

	paste, err := s.store.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if paste == nil || paste.RemainingViews == nil {
		return 0, storage.ErrExhausted
	}
	newCount := *paste.RemainingViews - 1
	if newCount <= 0 {
		if err := s.store.Delete(ctx, id); err != nil {
			return 0, err
		}
		return 0, storage.ErrExhausted
	}
	paste.RemainingViews = &newCount
	// ExpiresAt rides along unchanged, so logical expiry is preserved;
	// the backend re-derives its native TTL from the record on Put.
	if err := s.store.Put(ctx, paste); err != nil {
		return 0, err
	}
	return newCount, nil
}

// Delete removes a paste regardless of its state.
func (s *PasteService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
