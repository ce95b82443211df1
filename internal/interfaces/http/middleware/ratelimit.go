package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/wms/backend/internal/interfaces/http/dto"
)

// RateLimiter keeps one token bucket per client key. A bucket holds
// limit tokens and refills at limit per window.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	limit     int
	every     rate.Limit
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window and
// per client
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		every:   rate.Limit(float64(limit) / window.Seconds()),
		idleTTL: window * 2,
		now:     time.Now,
	}
}

// Allow reports whether a request from key may proceed and the tokens left
func (rl *RateLimiter) Allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.evictIdle(now)

	c, ok := rl.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.every, rl.limit)}
		rl.clients[key] = c
	}
	c.lastSeen = now

	allowed := c.limiter.AllowN(now, 1)
	return allowed, int(c.limiter.TokensAt(now))
}

// evictIdle drops buckets unused for idleTTL, at most once per idleTTL;
// called with mu held
func (rl *RateLimiter) evictIdle(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.idleTTL {
		return
	}
	rl.lastSweep = now
	for key, c := range rl.clients {
		if now.Sub(c.lastSeen) > rl.idleTTL {
			delete(rl.clients, key)
		}
	}
}

// RateLimit returns a rate limiting middleware keyed by client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining := limiter.Allow(c.ClientIP())
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		if !allowed {
			c.Header("X-RateLimit-Remaining", "0")
			abortWithError(c, dto.ErrCodeRateLimited, "Too many requests. Please try again later.")
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Next()
	}
}
