package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// minIdle is the shortest time a client entry is kept after its last attempt.
const minIdle = 10 * time.Minute

type loginClient struct {
	limiter *rate.Limiter
	seen    time.Time
}

// LoginLimiter throttles login attempts per client address with a token bucket.
//
// Entries idle for longer than it takes their bucket to refill are swept, so memory tracks recent clients only.
type LoginLimiter struct {
	mu        sync.Mutex
	clients   map[string]*loginClient
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewLoginLimiter allows perMinute attempts per client with the given burst.
// A non-positive perMinute disables limiting.
func NewLoginLimiter(perMinute, burst int) *LoginLimiter {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Limit(float64(perMinute) / 60)
	}
	if burst <= 0 {
		burst = 1
	}

	idle := minIdle
	if limit != rate.Inf {
		if refill := time.Duration(float64(burst) / float64(limit) * float64(time.Second)); refill > idle {
			idle = refill
		}
	}

	return &LoginLimiter{
		clients: make(map[string]*loginClient),
		limit:   limit,
		burst:   burst,
		idle:    idle,
		now:     time.Now,
	}
}

// Allow consumes one token for key.
func (l *LoginLimiter) Allow(key string) bool {
	l.mu.Lock()
	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}

	c, ok := l.clients[key]
	if !ok {
		c = &loginClient{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.seen = now
	lim := c.limiter
	l.mu.Unlock()

	return lim.AllowN(now, 1)
}

// Len reports how many clients are currently tracked.
func (l *LoginLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// sweep drops clients whose bucket has had time to refill completely. Callers hold mu.
func (l *LoginLimiter) sweep(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.seen) >= l.idle {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

// Middleware answers 429 once a client has used up its attempts.
//
// The client is keyed by the host part of RemoteAddr, which RealIP has already rewritten behind a proxy.
func (l *LoginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientKey(r)) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "Too many login attempts")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
