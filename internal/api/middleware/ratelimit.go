package middleware

import (
	"errors"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/phrazzld/library-api/internal/api/shared"
	"github.com/phrazzld/library-api/internal/config"
	"golang.org/x/time/rate"
)

// ErrRateLimited is logged when a client exceeds one of the rate limit rules.
var ErrRateLimited = errors.New("rate limit exceeded")

// clientLimiters holds one token bucket per rule for a single client.
type clientLimiters struct {
	buckets  []*rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP. A request passes only if
// every rule admits it; a rule of Limit requests per Period is a token bucket
// of Limit tokens refilled evenly over Period.
type RateLimiter struct {
	rules []config.RateLimitRule
	now   func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientLimiters
	lastSweep time.Time
	idleAfter time.Duration
}

// NewRateLimiter creates a RateLimiter enforcing rules.
func NewRateLimiter(rules []config.RateLimitRule) *RateLimiter {
	var idle time.Duration
	for _, rule := range rules {
		idle = max(idle, rule.Period)
	}

	return &RateLimiter{
		rules:     rules,
		now:       time.Now,
		clients:   make(map[string]*clientLimiters),
		idleAfter: idle,
	}
}

// Allow reserves one request for client. When any rule refuses, nothing is
// consumed and the wait until the request would be admitted is returned.
func (l *RateLimiter) Allow(client string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	c, ok := l.clients[client]
	if !ok {
		c = &clientLimiters{buckets: make([]*rate.Limiter, len(l.rules))}
		for i, rule := range l.rules {
			every := rule.Period / time.Duration(rule.Limit)
			c.buckets[i] = rate.NewLimiter(rate.Every(every), rule.Limit)
		}
		l.clients[client] = c
	}
	c.lastSeen = now

	reservations := make([]*rate.Reservation, 0, len(c.buckets))
	var wait time.Duration
	for _, bucket := range c.buckets {
		res := bucket.ReserveN(now, 1)
		reservations = append(reservations, res)
		if !res.OK() {
			wait = time.Duration(math.MaxInt64)
			continue
		}
		wait = max(wait, res.DelayFrom(now))
	}

	if wait > 0 {
		for _, res := range reservations {
			res.CancelAt(now)
		}
		return false, wait
	}
	return true, 0
}

// sweep forgets clients idle for longer than the longest rule period, at
// most once per such period. A forgotten client starts with full buckets,
// which it would have regained by then anyway.
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleAfter {
		return
	}
	for client, c := range l.clients {
		if now.Sub(c.lastSeen) >= l.idleAfter {
			delete(l.clients, client)
		}
	}
	l.lastSweep = now
}

// Clients returns the number of tracked clients.
func (l *RateLimiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Middleware rejects requests over the limit with 429 and a Retry-After
// header. Clients are identified by IP; run it after a RealIP middleware when
// behind a proxy.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, wait := l.Allow(clientIP(r))
		if !allowed {
			seconds := int64(math.Ceil(wait.Seconds()))
			if wait == time.Duration(math.MaxInt64) {
				seconds = 0
			}
			if seconds > 0 {
				w.Header().Set("Retry-After", strconv.FormatInt(seconds, 10))
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests, "Too many requests", ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
