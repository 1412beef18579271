package clock

import (
	"net/http"
	"strconv"
	"time"
)

// Clock supplies the current time as epoch milliseconds. Expiry decisions
// always compare against an injected Clock so tests run without wall-clock
// dependency.
type Clock interface {
	Now() int64
}

type systemClock struct{}

func (systemClock) Now() int64 {
	return time.Now().UnixMilli()
}

// System returns the wall clock.
func System() Clock {
	return systemClock{}
}

// Fixed is a Clock pinned to a single instant.
type Fixed int64

// Now returns the pinned instant.
func (f Fixed) Now() int64 {
	return int64(f)
}

// TestHeader is the request header that overrides the current time when the
// server runs in test mode.
const TestHeader = "X-Test-Now-Ms"

// FromRequest resolves the current time for one request. When testMode is
// set and the request carries a parseable TestHeader value, that value wins;
// otherwise the fallback Clock is used.
func FromRequest(h http.Header, clk Clock, testMode bool) int64 {
	if testMode {
		if raw := h.Get(TestHeader); raw != "" {
			if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
				return ms
			}
		}
	}
	return clk.Now()
}
