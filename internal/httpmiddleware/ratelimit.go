package httpmiddleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"frontdesk/internal/i18n"
)

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	limit rate.Limit
	burst int
	idle  time.Duration

	mu      sync.Mutex
	clients map[string]*client
	lastGC  time.Time
	now     func() time.Time
}

type client struct {
	limiter *rate.Limiter
	seen    time.Time
}

// NewIPRateLimiter allows perMinute requests per IP with bursts of the same size.
func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	return &IPRateLimiter{
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   perMinute,
		idle:    10 * time.Minute,
		clients: make(map[string]*client),
		now:     time.Now,
	}
}

// GinMiddleware returns gin handler enforcing per-IP limits.
// The 429 notice follows Accept-Language and defaults to German.
func (l *IPRateLimiter) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !l.Allow(ip) {
			msg := i18n.Message(i18n.Negotiate(c.GetHeader("Accept-Language"), ""), i18n.RateLimited)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": msg, "code": "rate_limited"})
			return
		}
		c.Next()
	}
}

// Allow reports whether key may make a request now.
func (l *IPRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evict(now)

	cl, ok := l.clients[key]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = cl
	}
	cl.seen = now
	return cl.limiter.AllowN(now, 1)
}

// evict drops clients idle for longer than l.idle. Caller holds l.mu.
func (l *IPRateLimiter) evict(now time.Time) {
	if now.Sub(l.lastGC) < l.idle {
		return
	}
	l.lastGC = now
	for k, cl := range l.clients {
		if now.Sub(cl.seen) > l.idle {
			delete(l.clients, k)
		}
	}
}
