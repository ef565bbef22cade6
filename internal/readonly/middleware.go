package readonly

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Message is returned for every blocked write.
const Message = "the book catalogue is read-only"

// Middleware blocks write operations on the catalogue in read-only mode.
// Safe methods (GET, HEAD, OPTIONS) are always allowed.
type Middleware struct {
	enabled  bool
	prefixes []string
}

// NewMiddleware creates a read-only middleware guarding the given path
// prefixes. With no prefixes every path is guarded.
func NewMiddleware(enabled bool, prefixes ...string) *Middleware {
	return &Middleware{enabled: enabled, prefixes: prefixes}
}

// IsEnabled returns whether read-only mode is active.
func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

// Handler returns a Gin middleware that blocks write operations.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if !m.isGuardedPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": Message,
			"code":  "read_only",
		})
	}
}

func (m *Middleware) isGuardedPath(path string) bool {
	if len(m.prefixes) == 0 {
		return true
	}
	for _, prefix := range m.prefixes {
		if path == prefix || strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/") {
			return true
		}
	}
	return false
}

// ContextKeyReadOnly stores the read-only flag in the request context.
const ContextKeyReadOnly = "read_only"

// InjectContext adds the read-only flag to the context; the health document reports it.
func (m *Middleware) InjectContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyReadOnly, m.enabled)
		c.Next()
	}
}

// FromContext reports whether the request was served in read-only mode.
func FromContext(c *gin.Context) bool {
	return c.GetBool(ContextKeyReadOnly)
}
