package storage

import "testing"

// Compile-time checks: every backend satisfies RecordStore, and every
// production backend also carries the atomic decrement capability.
var (
	_ RecordStore = (*MemoryStore)(nil)
	_ RecordStore = (*FilesystemStore)(nil)
	_ RecordStore = (*RedisStore)(nil)
	_ RecordStore = (*MongoStore)(nil)
	_ RecordStore = (*DynamoStore)(nil)

	_ ViewDecrementer = (*MemoryStore)(nil)
	_ ViewDecrementer = (*FilesystemStore)(nil)
	_ ViewDecrementer = (*RedisStore)(nil)
	_ ViewDecrementer = (*MongoStore)(nil)
	_ ViewDecrementer = (*DynamoStore)(nil)
)

func TestSentinelErrorsAreDistinct(t *testing.T) {
	if ErrUnavailable.Error() == ErrExhausted.Error() {
		t.Fatalf("sentinel errors must be distinguishable")
	}
}
