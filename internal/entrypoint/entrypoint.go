package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/books-api/internal/audit"
	"github.com/mrlokans/books-api/internal/auth"
	"github.com/mrlokans/books-api/internal/config"
	"github.com/mrlokans/books-api/internal/database"
	auditRepo "github.com/mrlokans/books-api/internal/database/audit"
	"github.com/mrlokans/books-api/internal/database/books"
	http_controllers "github.com/mrlokans/books-api/internal/http"
	"github.com/mrlokans/books-api/internal/readonly"
	"github.com/mrlokans/books-api/internal/scheduler"
	"github.com/mrlokans/books-api/internal/schema"
	"github.com/mrlokans/books-api/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// OpenDatabase connects to the configured store. Debug logging also turns on
// gorm's SQL trace.
func OpenDatabase(cfg *config.Config) (*database.Database, error) {
	return database.Open(database.Options{
		Driver:   cfg.Database.Driver,
		DSN:      cfg.Database.ConnectionString(),
		LogLevel: gormLogLevel(cfg.Log.Level),
	})
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.Info
	case "error":
		return logger.Error
	default:
		return logger.Warn
	}
}

// LoadValidator reads the book schema (embedded unless a path is configured)
// and compiles its rules.
func LoadValidator(cfg *config.Config) (*schema.Validator, error) {
	s, err := schema.Load(cfg.Schema.Path)
	if err != nil {
		return nil, err
	}
	return schema.NewValidator(s)
}

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "host", cfg.HTTP.Host, "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if onShutdown != nil {
			onShutdown(context.Background())
		}
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	slog.Info("shutting down server", "timeout", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop accepting requests first, then release the queue and the database
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown", "error", err)
	}
	if onShutdown != nil {
		onShutdown(ctx)
	}

	slog.Info("server exiting")
	return nil
}

// Build opens every dependency named by cfg and returns the router together
// with the function that releases them.
func Build(cfg *config.Config, version string) (*gin.Engine, ShutdownFunc, error) {
	db, err := OpenDatabase(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	validator, err := LoadValidator(cfg)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to load book schema: %w", err)
	}
	slog.Info("book schema loaded", "fields", len(validator.Schema().Fields))

	bookRepo := books.NewRepository(db.DB)

	routerCfg := http_controllers.RouterConfig{
		BookStore:   bookRepo,
		Validator:   validator,
		Database:    db,
		BookCounter: bookRepo,
		ReadOnly:    readonly.NewMiddleware(cfg.ReadOnly.Enabled, "/books", "/tasks"),
		APIKey:      auth.NewMiddleware(cfg.Auth.APIKeyHash),
		Version:     version,
	}

	if cfg.ReadOnly.Enabled {
		slog.Info("read-only mode enabled, write operations will be blocked")
	}
	if routerCfg.APIKey.IsEnabled() {
		slog.Info("api key required for write operations")
	} else {
		slog.Warn("AUTH_API_KEY_HASH is not set, write operations are unauthenticated")
	}

	var rateLimiter *auth.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = auth.NewRateLimiter(auth.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		})
		routerCfg.RateLimiter = rateLimiter
	}

	var auditService *audit.Service
	if cfg.Audit.Enabled {
		auditService = audit.NewService(auditRepo.NewRepository(db.DB))
		routerCfg.Recorder = auditService
		routerCfg.History = auditService
	}

	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var cleanupScheduler *scheduler.AuditCleanupScheduler
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			if rateLimiter != nil {
				rateLimiter.Stop()
			}
			db.Close()
			return nil, nil, fmt.Errorf("failed to initialize task queue: %w", err)
		}
		routerCfg.TaskQueue = taskClient

		if auditService != nil {
			taskClient.Register(tasks.NewCleanupAuditEventsQueue(auditService))
		}

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		if auditService != nil {
			cleanupScheduler = scheduler.NewAuditCleanupScheduler(taskClient, cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays)
			if err := cleanupScheduler.Start(taskCtx); err != nil {
				slog.Error("audit cleanup scheduler disabled", "error", err)
				cleanupScheduler = nil
			} else {
				routerCfg.CleanupTrigger = cleanupScheduler
			}
		}
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
			if err := taskClient.Close(); err != nil {
				slog.Error("error closing task client", "error", err)
			}
		}
		if rateLimiter != nil {
			rateLimiter.Stop()
		}
		if auditService != nil {
			if err := auditService.Wait(ctx); err != nil {
				slog.Warn("audit writes still pending at shutdown", "error", err)
			}
		}
		if err := db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}

	return router, onShutdown, nil
}

func Run(cfg *config.Config, version string) error {
	slog.Info("starting books api", "version", version)

	router, onShutdown, err := Build(cfg, version)
	if err != nil {
		return err
	}

	return Serve(router, cfg, onShutdown)
}
