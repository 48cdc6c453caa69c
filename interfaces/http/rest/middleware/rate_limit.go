package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	pkgerrors "fillai-backend/pkg/errors"

	"golang.org/x/time/rate"
)

// idleTTL is how long an unused client limiter is kept.
const idleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client address.
type RateLimiter struct {
	mu        sync.Mutex
	limits    map[string]*clientLimiter
	rps       rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second per
// client with the given burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limits: make(map[string]*clientLimiter),
		rps:    rate.Limit(rps),
		burst:  burst,
		now:    time.Now,
	}
}

// Allow checks if a request is allowed for the given key.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).AllowN(rl.now(), 1)
}

// Size returns the number of tracked clients.
func (rl *RateLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limits)
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > idleTTL {
		for k, cl := range rl.limits {
			if now.Sub(cl.lastSeen) > idleTTL {
				delete(rl.limits, k)
			}
		}
		rl.lastSweep = now
	}

	cl, ok := rl.limits[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.limits[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// Handler rejects requests over the limit with 429.
func (rl *RateLimiter) Handler(errs *pkgerrors.ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(clientKey(r)) {
				retry := 1.0
				if rl.rps > 0 {
					retry = 1 / float64(rl.rps)
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(retry+0.5)))
				errs.Handle(w, r, pkgerrors.NewRateLimitError(float64(rl.rps), rl.burst))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey is the client IP. RealIP has already rewritten RemoteAddr
// when the request came through a proxy.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
