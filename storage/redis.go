package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sumitjhk/Pastebin-Lite/models"
)

// RedisStore implements RecordStore on Redis. Pastes are JSON values under
// paste:<id> keys; time expiry maps onto the key TTL so Redis reclaims
// storage on its own. The view decrement runs as a Lua script, so
// decrement-and-maybe-delete is atomic server-side.
type RedisStore struct {
	client *redis.Client
}

// decrementScript decrements remaining_views inside Redis. Returns the new
// count, or -1 when the record is absent, untracked, or just exhausted (in
// which case the key is deleted). ARGV[1] is the caller's current time in
// epoch milliseconds, used to re-derive the key TTL on rewrite.
var decrementScript = redis.NewScript(`
local data = redis.call('GET', KEYS[1])
if not data then
  return -1
end
local paste = cjson.decode(data)
local remaining = paste['remaining_views']
if remaining == nil or remaining == cjson.null then
  return -1
end
local newCount = remaining - 1
if newCount <= 0 then
  redis.call('DEL', KEYS[1])
  return -1
end
paste['remaining_views'] = newCount
local expires = paste['expires_at']
if expires ~= nil and expires ~= cjson.null then
  local ttl = math.ceil((expires - tonumber(ARGV[1])) / 1000)
  if ttl < 1 then
    ttl = 1
  end
  redis.call('SET', KEYS[1], cjson.encode(paste), 'EX', ttl)
else
  redis.call('SET', KEYS[1], cjson.encode(paste))
end
return newCount
`)

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parse redis url: %v", ErrUnavailable, err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &RedisStore{client: client}, nil
}

// Put stores the paste, applying the key TTL when a time expiry is set.
func (r *RedisStore) Put(ctx context.Context, paste *models.Paste) error {
	data, err := json.Marshal(paste)
	if err != nil {
		return fmt.Errorf("%w: encode paste: %v", ErrUnavailable, err)
	}
	var expiration time.Duration
	if ttl := paste.TTLSeconds(); ttl > 0 {
		expiration = time.Duration(ttl) * time.Second
	}
	if err := r.client.Set(ctx, KeyPrefix+paste.ID, data, expiration).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Get retrieves and decodes the paste; a missing key is (nil, nil).
func (r *RedisStore) Get(ctx context.Context, id string) (*models.Paste, error) {
	data, err := r.client.Get(ctx, KeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var paste models.Paste
	if err := json.Unmarshal(data, &paste); err != nil {
		return nil, fmt.Errorf("%w: decode paste: %v", ErrUnavailable, err)
	}
	return &paste, nil
}

// Delete removes the key; DEL on an absent key is already a no-op.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, KeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// DecrementViews implements ViewDecrementer via the Lua script.
func (r *RedisStore) DecrementViews(ctx context.Context, id string, now int64) (int, error) {
	result, err := decrementScript.Run(ctx, r.client, []string{KeyPrefix + id}, now).Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if result < 0 {
		return 0, ErrExhausted
	}
	return int(result), nil
}

// Ping checks the Redis connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
