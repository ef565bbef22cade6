package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{})
	defer rl.Stop()

	assert.Equal(t, 20, rl.burst)
	assert.Equal(t, 5*time.Minute, rl.ttl)
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 2, IdleTTL: time.Minute})
	defer rl.Stop()

	allowed, _ := rl.Allow("10.0.0.1")
	assert.True(t, allowed)
	allowed, _ = rl.Allow("10.0.0.1")
	assert.True(t, allowed)

	allowed, retryAfter := rl.Allow("10.0.0.1")
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))

	// other clients have their own bucket
	allowed, _ = rl.Allow("10.0.0.2")
	assert.True(t, allowed)
	assert.Equal(t, 2, rl.Clients())
}

func TestRateLimiter_RejectedRequestsDoNotConsumeTokens(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 20, Burst: 1, IdleTTL: time.Minute})
	defer rl.Stop()

	allowed, _ := rl.Allow("client")
	assert.True(t, allowed)
	for i := 0; i < 5; i++ {
		allowed, _ = rl.Allow("client")
		assert.False(t, allowed)
	}

	assert.Eventually(t, func() bool {
		ok, _ := rl.Allow("client")
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestRateLimiter_IdleClientsExpire(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, IdleTTL: 50 * time.Millisecond})
	defer rl.Stop()

	rl.Allow("client")
	assert.Equal(t, 1, rl.Clients())

	assert.Eventually(t, func() bool { return rl.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 0.1, Burst: 1, IdleTTL: time.Minute})
	defer rl.Stop()

	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/books", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"rate_limited"`)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
