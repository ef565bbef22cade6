package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// MinAPIKeyLength is the minimum accepted API key length.
const MinAPIKeyLength = 16

var (
	ErrInvalidAPIKey  = errors.New("invalid api key")
	ErrAPIKeyTooShort = errors.New("api key must be at least 16 characters")
	ErrAPIKeyTooLong  = errors.New("api key exceeds maximum length of 72 bytes")
)

// HashAPIKey creates a bcrypt hash of the key for AUTH_API_KEY_HASH.
func HashAPIKey(key string, cost int) (string, error) {
	if len(key) < MinAPIKeyLength {
		return "", ErrAPIKeyTooShort
	}
	// bcrypt has a 72-byte limit
	if len(key) > 72 {
		return "", ErrAPIKeyTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckAPIKey compares a key with its hash.
func CheckAPIKey(key, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidAPIKey
		}
		return err
	}
	return nil
}

// Middleware requires a valid bearer API key on write requests.
type Middleware struct {
	keyHash string
}

// NewMiddleware creates the API key middleware. An empty hash disables the check.
func NewMiddleware(keyHash string) *Middleware {
	return &Middleware{keyHash: strings.TrimSpace(keyHash)}
}

// IsEnabled reports whether an API key is configured.
func (m *Middleware) IsEnabled() bool {
	return m.keyHash != ""
}

// Handler returns a Gin middleware handler that authenticates write requests.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.IsEnabled() || isReadMethod(c.Request.Method) {
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", `Bearer realm="books-api"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
				"code":  "unauthorized",
			})
			return
		}

		if err := CheckAPIKey(token, m.keyHash); err != nil {
			c.Header("WWW-Authenticate", `Bearer realm="books-api", error="invalid_token"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid api key",
				"code":  "unauthorized",
			})
			return
		}

		c.Next()
	}
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func isReadMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}
