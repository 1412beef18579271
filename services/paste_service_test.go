package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sumitjhk/Pastebin-Lite/config"
	"github.com/sumitjhk/Pastebin-Lite/models"
	"github.com/sumitjhk/Pastebin-Lite/storage"
	"github.com/sumitjhk/Pastebin-Lite/utils"
)

func intPtr(v int) *int { return &v }

func newTestService() (*PasteService, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	return NewPasteService(store, &config.Config{IDLength: 10}), store
}

func TestCreateValidation(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name string
		req  CreateRequest
		want error
	}{
		{"empty content", CreateRequest{Content: ""}, ErrEmptyContent},
		{"whitespace content", CreateRequest{Content: "   \n\t"}, ErrEmptyContent},
		{"zero ttl", CreateRequest{Content: "x", TTLSeconds: intPtr(0)}, ErrInvalidTTL},
		{"negative ttl", CreateRequest{Content: "x", TTLSeconds: intPtr(-5)}, ErrInvalidTTL},
		{"zero max views", CreateRequest{Content: "x", MaxViews: intPtr(0)}, ErrInvalidMaxViews},
		{"negative max views", CreateRequest{Content: "x", MaxViews: intPtr(-1)}, ErrInvalidMaxViews},
	}
	for _, tc := range cases {
		_, err := service.Create(ctx, tc.req, 1000)
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected error to match ErrValidation, got %v", tc.name, err)
		}
	}
}

func TestCreateGeneratesValidID(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	id, err := service.Create(ctx, CreateRequest{Content: "hello"}, 1000)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !utils.IsValidID(id) || len(id) != 10 {
		t.Fatalf("expected a valid 10-char ID, got %q", id)
	}
}

func TestRoundTripContent(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	content := "hello \x00 world\n\ttabs and ünïcödé"
	id, err := service.Create(ctx, CreateRequest{Content: content}, 1000)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	paste, err := service.Fetch(ctx, id, 1000, false)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if paste.Content != content {
		t.Fatalf("content did not round-trip: %q != %q", paste.Content, content)
	}
	if paste.CreatedAt != 1000 {
		t.Fatalf("expected created_at 1000, got %d", paste.CreatedAt)
	}
	if paste.ExpiresAt != nil || paste.MaxViews != nil || paste.RemainingViews != nil {
		t.Fatalf("expected no expiry fields, got %+v", paste)
	}
}

func TestFetchAbsent(t *testing.T) {
	service, _ := newTestService()
	_, err := service.Fetch(context.Background(), "never9999a", 1000, true)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for absent paste, got %v", err)
	}
}

func TestTimeExpiryBoundary(t *testing.T) {
	service, store := newTestService()
	ctx := context.Background()

	// ttl_seconds=10 at now=0 expires at 10000
	id, err := service.Create(ctx, CreateRequest{Content: "hello", TTLSeconds: intPtr(10)}, 0)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	paste, err := service.Fetch(ctx, id, 9999, false)
	if err != nil {
		t.Fatalf("expected paste live at 9999, got %v", err)
	}
	if paste.ExpiresAt == nil || *paste.ExpiresAt != 10000 {
		t.Fatalf("expected expires_at 10000, got %+v", paste.ExpiresAt)
	}

	if _, err := service.Fetch(ctx, id, 10000, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound at expiry instant, got %v", err)
	}

	// Lazy expiry also reclaims the stored record
	if got, _ := store.Get(ctx, id); got != nil {
		t.Fatalf("expected expired record reclaimed on read, got %+v", got)
	}
}

func TestViewBudget(t *testing.T) {
	service, store := newTestService()
	ctx := context.Background()

	id, err := service.Create(ctx, CreateRequest{Content: "hello", MaxViews: intPtr(3)}, 1000)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Successful decrements observe strictly decreasing counts 2, 1
	for _, want := range []int{2, 1} {
		paste, err := service.Fetch(ctx, id, 1000, true)
		if err != nil {
			t.Fatalf("decrementing fetch failed: %v", err)
		}
		if paste.RemainingViews == nil || *paste.RemainingViews != want {
			t.Fatalf("expected remaining %d, got %+v", want, paste.RemainingViews)
		}
		if paste.Content != "hello" {
			t.Fatalf("expected content on decrementing fetch, got %q", paste.Content)
		}
	}

	// The decrement that exhausts the budget deletes the record and
	// reports not-found
	if _, err := service.Fetch(ctx, id, 1000, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on exhausting fetch, got %v", err)
	}
	if got, _ := store.Get(ctx, id); got != nil {
		t.Fatalf("expected record deleted after exhaustion, got %+v", got)
	}
	if _, err := service.Fetch(ctx, id, 1000, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after exhaustion, got %v", err)
	}
}

func TestSingleViewPaste(t *testing.T) {
	service, store := newTestService()
	ctx := context.Background()

	id, err := service.Create(ctx, CreateRequest{Content: "hello", MaxViews: intPtr(1)}, 1000)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// A preview still sees it
	if _, err := service.Fetch(ctx, id, 1000, false); err != nil {
		t.Fatalf("preview of single-view paste failed: %v", err)
	}

	// The single view is consumed by its own decrement: the record is
	// deleted rather than stored at zero, and the fetch reports not-found
	if _, err := service.Fetch(ctx, id, 1000, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on single-view fetch, got %v", err)
	}
	if got, _ := store.Get(ctx, id); got != nil {
		t.Fatalf("expected record gone after single view, got %+v", got)
	}
}

func TestNonDecrementingFetchNeverMutates(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	id, err := service.Create(ctx, CreateRequest{Content: "hello", MaxViews: intPtr(3)}, 1000)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		paste, err := service.Fetch(ctx, id, 1000, false)
		if err != nil {
			t.Fatalf("preview %d failed: %v", i, err)
		}
		if paste.RemainingViews == nil || *paste.RemainingViews != 3 {
			t.Fatalf("preview %d changed remaining views: %+v", i, paste.RemainingViews)
		}
	}
}

func TestUnlimitedPaste(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	id, err := service.Create(ctx, CreateRequest{Content: "hello"}, 1000)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Live at any future instant, any number of decrementing fetches
	farFuture := int64(1) << 50
	for i := 0; i < 25; i++ {
		paste, err := service.Fetch(ctx, id, farFuture, true)
		if err != nil {
			t.Fatalf("decrementing fetch %d failed: %v", i, err)
		}
		if paste.RemainingViews != nil {
			t.Fatalf("unlimited paste grew a view count: %+v", paste.RemainingViews)
		}
	}
}

func TestTimeExpiryBeatsRemainingViews(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	// ttl_seconds=5 and max_views=3 at now=0
	id, err := service.Create(ctx, CreateRequest{
		Content:    "hello",
		TTLSeconds: intPtr(5),
		MaxViews:   intPtr(3),
	}, 0)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Two decrements before expiry succeed
	for _, want := range []int{2, 1} {
		paste, err := service.Fetch(ctx, id, 4000, true)
		if err != nil {
			t.Fatalf("pre-expiry fetch failed: %v", err)
		}
		if *paste.RemainingViews != want {
			t.Fatalf("expected remaining %d, got %d", want, *paste.RemainingViews)
		}
		// TTL is preserved across the mutation
		if paste.ExpiresAt == nil || *paste.ExpiresAt != 5000 {
			t.Fatalf("decrement changed expires_at: %+v", paste.ExpiresAt)
		}
	}

	// Past expiry the remaining view is unreachable
	if _, err := service.Fetch(ctx, id, 5000, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound past expiry despite views remaining, got %v", err)
	}
}

// plainStore hides the ViewDecrementer capability so the service falls back
// to the generic read-modify-write protocol.
type plainStore struct {
	storage.RecordStore
}

func TestGenericDecrementFallback(t *testing.T) {
	mem := storage.NewMemoryStore()
	service := NewPasteService(plainStore{mem}, &config.Config{IDLength: 10})
	ctx := context.Background()

	id, err := service.Create(ctx, CreateRequest{Content: "hello", MaxViews: intPtr(2)}, 1000)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	paste, err := service.Fetch(ctx, id, 1000, true)
	if err != nil {
		t.Fatalf("decrementing fetch failed: %v", err)
	}
	if paste.RemainingViews == nil || *paste.RemainingViews != 1 {
		t.Fatalf("expected remaining 1 via fallback, got %+v", paste.RemainingViews)
	}

	if _, err := service.Fetch(ctx, id, 1000, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on exhausting fallback fetch, got %v", err)
	}
	if got, _ := mem.Get(ctx, id); got != nil {
		t.Fatalf("expected record deleted by fallback exhaustion, got %+v", got)
	}
}

// failStore simulates a dead backend.
type failStore struct{}

func (failStore) Put(context.Context, *models.Paste) error { return fail() }
func (failStore) Get(context.Context, string) (*models.Paste, error) {
	return nil, fail()
}
func (failStore) Delete(context.Context, string) error { return fail() }
func (failStore) Ping(context.Context) error           { return fail() }
func (failStore) Close() error                         { return nil }

func fail() error {
	return fmt.Errorf("%w: connection refused", storage.ErrUnavailable)
}

func TestStoreFailureIsNeverNotFound(t *testing.T) {
	service := NewPasteService(failStore{}, &config.Config{IDLength: 10})
	ctx := context.Background()

	if _, err := service.Create(ctx, CreateRequest{Content: "hello"}, 1000); !errors.Is(err, storage.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from Create, got %v", err)
	}

	_, err := service.Fetch(ctx, "abcde12345", 1000, true)
	if !errors.Is(err, storage.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from Fetch, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("store outage must not be conflated with not-found")
	}
}
