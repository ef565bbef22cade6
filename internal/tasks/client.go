package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
)

var errNoTaskID = errors.New("queue returned no task id")

// Client runs the catalogue's background tasks on backlite. The queue lives in
// its own SQLite file next to the catalogue.
type Client struct {
	queue   *backlite.Client
	db      *sql.DB
	cfg     Config
	running atomic.Bool
}

// TasksDBPath derives the queue file from the catalogue file:
// books.db -> books-tasks.db.
func TasksDBPath(mainDBPath string) string {
	ext := filepath.Ext(mainDBPath)
	return strings.TrimSuffix(mainDBPath, ext) + "-tasks" + ext
}

// NewClient opens (and if needed creates) the queue database next to
// mainDBPath and installs the backlite tables.
func NewClient(mainDBPath string, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	db, err := openQueueDB(TasksDBPath(mainDBPath), cfg.Workers)
	if err != nil {
		return nil, err
	}

	queue, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          queueLogger{log: slog.Default().With("component", "tasks")},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create task queue: %w", err)
	}
	if err := queue.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to install task queue tables: %w", err)
	}

	return &Client{queue: queue, db: db, cfg: cfg}, nil
}

func openQueueDB(path string, workers int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open task database %s: %w", path, err)
	}
	// workers plus the dispatcher and HTTP status lookups
	db.SetMaxOpenConns(workers + 5)
	db.SetMaxIdleConns(workers + 2)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// Register adds queues. Call it before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.queue.Register(q)
	}
}

// Start launches the workers. Further calls are no-ops.
func (c *Client) Start(ctx context.Context) {
	if !c.running.CompareAndSwap(false, true) {
		return
	}
	slog.Info("task queue started", "workers", c.cfg.Workers)
	c.queue.Start(ctx)
}

// Stop waits for running tasks until ctx expires and reports whether they all
// finished.
func (c *Client) Stop(ctx context.Context) bool {
	if !c.running.Load() {
		return true
	}

	if !c.queue.Stop(ctx) {
		slog.Warn("task queue stopped before all tasks finished")
		return false
	}
	slog.Info("task queue stopped")
	return true
}

// Close releases the queue database. Call it after Stop.
func (c *Client) Close() error {
	return c.db.Close()
}

// Enqueue persists one task and returns its ID.
func (c *Client) Enqueue(task backlite.Task) (string, error) {
	ids, err := c.queue.Add(task).Save()
	if err != nil {
		return "", fmt.Errorf("failed to enqueue task: %w", err)
	}
	if len(ids) == 0 {
		return "", errNoTaskID
	}
	return ids[0], nil
}

// Status looks up a task by ID.
func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.queue.Status(ctx, taskID)
}

// queueLogger routes backlite's log lines through slog.
type queueLogger struct {
	log *slog.Logger
}

func (l queueLogger) Info(message string, params ...any) {
	l.log.Info(message, params...)
}

func (l queueLogger) Error(message string, params ...any) {
	l.log.Error(message, params...)
}
