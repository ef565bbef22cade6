package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testKey = "correct-horse-battery-staple"

func TestHashAPIKey(t *testing.T) {
	hash, err := HashAPIKey(testKey, bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, testKey, hash)

	assert.NoError(t, CheckAPIKey(testKey, hash))
	assert.ErrorIs(t, CheckAPIKey("wrong-key-wrong-key", hash), ErrInvalidAPIKey)
}

func TestHashAPIKey_Length(t *testing.T) {
	_, err := HashAPIKey("short", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrAPIKeyTooShort)

	long := make([]byte, 73)
	for i := range long {
		long[i] = 'k'
	}
	_, err = HashAPIKey(string(long), bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrAPIKeyTooLong)
}

func TestCheckAPIKey_MalformedHash(t *testing.T) {
	err := CheckAPIKey(testKey, "not-a-bcrypt-hash")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidAPIKey)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer   abc  ", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"abc", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, ok := bearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}

func newAuthRouter(m *Middleware) *gin.Engine {
	router := gin.New()
	router.Use(m.Handler())
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	}
	router.GET("/books", handler)
	router.POST("/books", handler)
	router.DELETE("/books/:isbn", handler)
	return router
}

func TestMiddleware(t *testing.T) {
	hash, err := HashAPIKey(testKey, bcrypt.MinCost)
	require.NoError(t, err)
	router := newAuthRouter(NewMiddleware(hash))

	tests := []struct {
		name   string
		method string
		path   string
		header string
		status int
	}{
		{"reads are public", http.MethodGet, "/books", "", http.StatusOK},
		{"write without header", http.MethodPost, "/books", "", http.StatusUnauthorized},
		{"write with wrong scheme", http.MethodPost, "/books", "Basic " + testKey, http.StatusUnauthorized},
		{"write with wrong key", http.MethodDelete, "/books/1", "Bearer not-the-right-key", http.StatusUnauthorized},
		{"write with valid key", http.MethodPost, "/books", "Bearer " + testKey, http.StatusOK},
		{"delete with valid key", http.MethodDelete, "/books/1", "Bearer " + testKey, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), `"code":"unauthorized"`)
				assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestMiddleware_Disabled(t *testing.T) {
	m := NewMiddleware("  ")
	assert.False(t, m.IsEnabled())

	router := newAuthRouter(m)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/books", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
