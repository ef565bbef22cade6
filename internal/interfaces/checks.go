package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/books-api/internal/audit"
	"github.com/mrlokans/books-api/internal/cli"
	"github.com/mrlokans/books-api/internal/database"
	"github.com/mrlokans/books-api/internal/database/books"
	"github.com/mrlokans/books-api/internal/http"
	"github.com/mrlokans/books-api/internal/scheduler"
	"github.com/mrlokans/books-api/internal/schema"
	"github.com/mrlokans/books-api/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// BookStore implementations
var _ http.BookStore = (*books.Repository)(nil)
var _ http.BookCounter = (*books.Repository)(nil)
var _ cli.BookCreator = (*books.Repository)(nil)

// Pinger implementations
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Validation
// =============================================================================

var _ http.BookValidator = (*schema.Validator)(nil)
var _ cli.PayloadValidator = (*schema.Validator)(nil)

// =============================================================================
// Audit Trail
// =============================================================================

var _ http.ChangeRecorder = (*audit.Service)(nil)
var _ http.HistoryReader = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ http.TaskQueue = (*tasks.Client)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ http.CleanupTrigger = (*scheduler.AuditCleanupScheduler)(nil)
