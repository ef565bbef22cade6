package http

import (
	"github.com/mrlokans/books-api/internal/auth"
	"github.com/mrlokans/books-api/internal/readonly"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	BookStore BookStore
	Validator BookValidator

	// Audit trail (optional)
	Recorder ChangeRecorder
	History  HistoryReader

	// Health checks (optional)
	Database    Pinger
	BookCounter BookCounter

	// Task queue (optional)
	TaskQueue      TaskQueue
	CleanupTrigger CleanupTrigger

	// Middleware (optional)
	ReadOnly    *readonly.Middleware
	APIKey      *auth.Middleware
	RateLimiter *auth.RateLimiter

	// DisableRequestLog turns off gin's access log, e.g. in tests.
	DisableRequestLog bool

	// Application info
	Version string
}
