package github

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/KOFI-GYIMAH/hacktrack/internal/models"
	"github.com/KOFI-GYIMAH/hacktrack/pkg/logger"
	"golang.org/x/time/rate"
)

// * RateTracker keeps the last core quota GitHub reported. Values are
// * overwritten by every response carrying X-RateLimit-* headers.
type RateTracker struct {
	mu        sync.Mutex
	remaining *int
	limit     *int
	lowWarn   int
}

func NewRateTracker() *RateTracker {
	return &RateTracker{lowWarn: 100}
}

// * Info returns a copy of the latest known values; nil means unknown
func (r *RateTracker) Info() models.RateLimitInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	var info models.RateLimitInfo
	if r.remaining != nil {
		v := *r.remaining
		info.Remaining = &v
	}
	if r.limit != nil {
		v := *r.limit
		info.Limit = &v
	}
	return info
}

// * Set records authoritative values from the explicit rate_limit check
func (r *RateTracker) Set(remaining, limit int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remaining = &remaining
	r.limit = &limit
}

func (r *RateTracker) updateFromHeaders(headers http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if remaining := headers.Get("X-RateLimit-Remaining"); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			r.remaining = &val
		}
	}

	if limit := headers.Get("X-RateLimit-Limit"); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			r.limit = &val
		}
	}

	if r.remaining != nil && *r.remaining < r.lowWarn {
		logger.Warn("[RateTracker] Low rate limit: %d remaining", *r.remaining)
	}
}

// * Middleware updates the tracker from every response, whatever its status
func (r *RateTracker) Middleware(next http.RoundTripper) http.RoundTripper {
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		resp, err := next.RoundTrip(req)
		if err != nil {
			logger.Error("Network error in RoundTrip: %v", err)
			return nil, err
		}

		r.updateFromHeaders(resp.Header)
		return resp, nil
	})
}

// * pace spaces requests out to at most perMinute; no-op when perMinute <= 0
func pace(perMinute int, next http.RoundTripper) http.RoundTripper {
	if perMinute <= 0 {
		return next
	}
	limiter := rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if err := limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
		return next.RoundTrip(req)
	})
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
