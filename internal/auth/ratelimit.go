package auth

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/time/rate"
)

// RateLimitConfig contains configuration for the rate limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64       // Sustained rate per client (default: 10)
	Burst             int           // Bucket size (default: 20)
	IdleTTL           time.Duration // How long an idle client's bucket is kept (default: 5m)
}

// DefaultRateLimitConfig returns sensible defaults for rate limiting.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 10,
		Burst:             20,
		IdleTTL:           5 * time.Minute,
	}
}

// RateLimiter keeps one token bucket per client IP. Idle buckets expire from
// the cache after IdleTTL.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *ttlcache.Cache[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
	ttl      time.Duration
}

// NewRateLimiter creates a new rate limiter and starts its expiry loop.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	defaults := DefaultRateLimitConfig()
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaults.RequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaults.Burst
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaults.IdleTTL
	}

	rl := &RateLimiter{
		limiters: ttlcache.New(ttlcache.WithTTL[string, *rate.Limiter](cfg.IdleTTL)),
		rate:     rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.Burst,
		ttl:      cfg.IdleTTL,
	}

	go rl.limiters.Start()

	return rl
}

// Stop stops the background expiry goroutine.
func (rl *RateLimiter) Stop() {
	rl.limiters.Stop()
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if item := rl.limiters.Get(key); item != nil {
		return item.Value()
	}

	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters.Set(key, limiter, ttlcache.DefaultTTL)
	return limiter
}

// Allow reports whether a request from key may proceed now. When it may not,
// the returned duration is the time until the next token is available.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	limiter := rl.limiter(key)

	now := time.Now()
	reservation := limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, rl.ttl
	}

	delay := reservation.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	reservation.CancelAt(now)
	return false, delay
}

// Clients returns the number of tracked clients.
func (rl *RateLimiter) Clients() int {
	return rl.limiters.Len()
}

// Middleware creates Gin middleware that rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := rl.Allow(c.ClientIP())
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests",
				"code":  "rate_limited",
			})
			return
		}

		c.Next()
	}
}
