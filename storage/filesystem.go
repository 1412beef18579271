package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sumitjhk/Pastebin-Lite/models"
)

// FilesystemStore implements RecordStore with one JSON document per paste
// under a data directory. It has no native TTL; expired files linger until
// a read of the same ID observes logical expiry and the service deletes
// them. A process-wide mutex serializes decrements.
type FilesystemStore struct {
	dataDir string
	mu      sync.Mutex
}

// NewFilesystemStore creates the data directory if needed.
func NewFilesystemStore(dataDir string) (*FilesystemStore, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", ErrUnavailable, err)
	}
	return &FilesystemStore{dataDir: dataDir}, nil
}

func (f *FilesystemStore) path(id string) string {
	return filepath.Join(f.dataDir, id+".json")
}

// Put writes the paste as a JSON document, overwriting any existing one.
func (f *FilesystemStore) Put(_ context.Context, paste *models.Paste) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(paste)
}

func (f *FilesystemStore) write(paste *models.Paste) error {
	data, err := json.Marshal(paste)
	if err != nil {
		return fmt.Errorf("%w: encode paste: %v", ErrUnavailable, err)
	}
	if err := os.WriteFile(f.path(paste.ID), data, 0o640); err != nil {
		return fmt.Errorf("%w: write paste: %v", ErrUnavailable, err)
	}
	return nil
}

// Get reads the paste document; a missing file is (nil, nil).
func (f *FilesystemStore) Get(_ context.Context, id string) (*models.Paste, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read(id)
}

func (f *FilesystemStore) read(id string) (*models.Paste, error) {
	data, err := os.ReadFile(f.path(id))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read paste: %v", ErrUnavailable, err)
	}
	var paste models.Paste
	if err := json.Unmarshal(data, &paste); err != nil {
		return nil, fmt.Errorf("%w: decode paste: %v", ErrUnavailable, err)
	}
	return &paste, nil
}

// Delete removes the paste file; a missing file is a no-op.
func (f *FilesystemStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remove(id)
}

func (f *FilesystemStore) remove(id string) error {
	if err := os.Remove(f.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: delete paste: %v", ErrUnavailable, err)
	}
	return nil
}

// DecrementViews implements ViewDecrementer. The mutex spans the
// read-modify-write, so decrements within this process are exact.
func (f *FilesystemStore) DecrementViews(_ context.Context, id string, _ int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	paste, err := f.read(id)
	if err != nil {
		return 0, err
	}
	if paste == nil || paste.RemainingViews == nil {
		return 0, ErrExhausted
	}
	newCount := *paste.RemainingViews - 1
	if newCount <= 0 {
		if err := f.remove(id); err != nil {
			return 0, err
		}
		return 0, ErrExhausted
	}
	paste.RemainingViews = &newCount
	if err := f.write(paste); err != nil {
		return 0, err
	}
	return newCount, nil
}

// Ping verifies the data directory is still accessible.
func (f *FilesystemStore) Ping(_ context.Context) error {
	if _, err := os.Stat(f.dataDir); err != nil {
		return fmt.Errorf("%w: stat data dir: %v", ErrUnavailable, err)
	}
	return nil
}

// Close is a no-op for the filesystem backend.
func (f *FilesystemStore) Close() error {
	return nil
}
