package models

// Paste represents one stored paste and its expiry metadata.
//
// Timestamps are epoch milliseconds. Nullable fields are pointers and are
// serialized as explicit JSON nulls: a paste without time expiry has
// ExpiresAt == nil, a paste without view tracking has MaxViews == nil and
// RemainingViews == nil. View tracking is all-or-nothing.
type Paste struct {
	ID             string `json:"id" bson:"_id"`
	Content        string `json:"content" bson:"content"`
	CreatedAt      int64  `json:"created_at" bson:"created_at"`
	ExpiresAt      *int64 `json:"expires_at" bson:"expires_at"`
	MaxViews       *int   `json:"max_views" bson:"max_views"`
	RemainingViews *int   `json:"remaining_views" bson:"remaining_views"`
}

// IsExpired reports whether the paste is time-expired at the given instant.
// Expiry is inclusive: a paste with ExpiresAt == now is already gone.
func (p *Paste) IsExpired(now int64) bool {
	if p.ExpiresAt == nil {
		return false
	}
	return now >= *p.ExpiresAt
}

// ViewsExhausted reports whether the view budget has been consumed. A paste
// without view tracking never exhausts.
func (p *Paste) ViewsExhausted() bool {
	return p.RemainingViews != nil && *p.RemainingViews <= 0
}

// IsLive reports whether the paste should still be served at the given
// instant: not time-expired and with views remaining (or unlimited).
func (p *Paste) IsLive(now int64) bool {
	return !p.IsExpired(now) && !p.ViewsExhausted()
}

// TTLSeconds returns the backend TTL to apply when first storing the paste,
// rounded up so the backend never reclaims the key before logical expiry.
// Returns 0 when the paste has no time expiry.
func (p *Paste) TTLSeconds() int64 {
	if p.ExpiresAt == nil {
		return 0
	}
	diff := *p.ExpiresAt - p.CreatedAt
	if diff <= 0 {
		return 0
	}
	return (diff + 999) / 1000
}

// RemainingTTLSeconds returns the backend TTL to apply when rewriting the
// paste at the given instant, floored at one second so that a near-expiry
// rewrite is never misread by the backend as "no expiry". Returns 0 when
// the paste has no time expiry.
func (p *Paste) RemainingTTLSeconds(now int64) int64 {
	if p.ExpiresAt == nil {
		return 0
	}
	ttl := (*p.ExpiresAt - now + 999) / 1000
	if ttl < 1 {
		ttl = 1
	}
	return ttl
}
