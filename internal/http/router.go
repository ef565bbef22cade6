package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/books-api/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	if !cfg.DisableRequestLog {
		router.Use(gin.Logger())
	}
	router.Use(gin.CustomRecovery(recoverWithEnvelope))
	router.Use(RequestIDMiddleware())
	router.Use(auth.SecurityHeadersMiddleware())
	router.Use(auth.StrictTransportSecurityMiddleware())

	if cfg.RateLimiter != nil {
		router.Use(cfg.RateLimiter.Middleware())
	}

	// Read-only mode answers before authentication so the reason is explicit.
	// The flag is injected either way so /health can report it.
	if cfg.ReadOnly != nil {
		router.Use(cfg.ReadOnly.InjectContext())
		if cfg.ReadOnly.IsEnabled() {
			router.Use(cfg.ReadOnly.Handler())
		}
	}

	if cfg.APIKey != nil && cfg.APIKey.IsEnabled() {
		router.Use(cfg.APIKey.Handler())
	}

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.BookCounter, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	// Book resource
	booksController := NewBooksController(cfg.BookStore, cfg.Validator, cfg.Recorder)
	router.GET("/books", booksController.List)
	router.POST("/books", booksController.Create)
	router.GET("/books/:isbn", booksController.Get)
	router.PUT("/books/:isbn", booksController.Update)
	router.DELETE("/books/:isbn", booksController.Delete)

	if cfg.History != nil {
		auditController := NewAuditController(cfg.History)
		router.GET("/books/:isbn/history", auditController.BookHistory)
	}

	schemaController := NewSchemaController(cfg.Validator)
	router.GET("/schema", schemaController.Get)

	// Task management endpoints
	if cfg.TaskQueue != nil {
		tasksController := NewTasksController(cfg.TaskQueue, cfg.CleanupTrigger)
		router.GET("/tasks/:id", tasksController.GetTaskStatus)
		router.POST("/tasks/audit-cleanup", tasksController.RunAuditCleanup)
	}

	return router
}
