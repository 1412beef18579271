package storage

import (
	"context"
	"errors"

	"github.com/sumitjhk/Pastebin-Lite/models"
)

// ErrUnavailable marks backend I/O failures. Backends wrap the underlying
// error so callers can distinguish an outage from a missing record; the
// service layer never retries and never converts it to a not-found.
var ErrUnavailable = errors.New("store unavailable")

// ErrExhausted is returned by DecrementViews when the decrement consumed the
// last view (the record is deleted), or when the record is already absent or
// not view-tracked.
var ErrExhausted = errors.New("views exhausted")

// RecordStore is the key-value persistence layer for pastes. The store owns
// the persisted bytes only; liveness interpretation belongs to the service.
type RecordStore interface {
	// Put stores the paste under its ID, overwriting any existing value.
	// When the paste has a time expiry the backend-native TTL is applied
	// as a reclamation optimization; logical expiry is still re-checked on
	// every read.
	Put(ctx context.Context, paste *models.Paste) error

	// Get retrieves a paste by ID. A missing key is (nil, nil), never an
	// error.
	Get(ctx context.Context, id string) (*models.Paste, error)

	// Delete removes a paste. Deleting an absent key is not an error.
	Delete(ctx context.Context, id string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}

// ViewDecrementer is an optional capability: backends that can perform the
// decrement-and-maybe-delete as a single atomic operation implement it, and
// the service prefers it over the generic read-modify-write (which is
// subject to a lost-update race between concurrent decrements).
//
// DecrementViews decrements the remaining view count by one. When the count
// would reach zero the record is deleted and ErrExhausted is returned;
// ErrExhausted is also returned for an absent or untracked record. On
// success the new remaining count is returned. now is used to re-derive the
// backend TTL when the record is rewritten.
type ViewDecrementer interface {
	DecrementViews(ctx context.Context, id string, now int64) (int, error)
}

// KeyPrefix namespaces paste keys in flat keyspace backends.
const KeyPrefix = "paste:"
