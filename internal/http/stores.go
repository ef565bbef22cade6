package http

import (
	"context"

	"github.com/mrlokans/books-api/internal/audit"
	"github.com/mrlokans/books-api/internal/entities"
	"github.com/mrlokans/books-api/internal/schema"
)

// Each controller declares the narrow interface it needs; the concrete types
// live in internal/database, internal/schema, internal/audit and internal/tasks.

// BookStore is the persistence surface of the books controller.
type BookStore interface {
	ListAll(ctx context.Context) ([]entities.Book, error)
	FindByISBN(ctx context.Context, isbn string) (*entities.Book, error)
	Create(ctx context.Context, book entities.Book) (*entities.Book, error)
	Update(ctx context.Context, isbn string, patch entities.BookPatch) (*entities.Book, error)
	Delete(ctx context.Context, isbn string) error
}

// BookValidator checks raw payloads before they reach the store.
type BookValidator interface {
	ValidateCreate(payload map[string]any) (entities.Book, error)
	ValidateUpdate(key string, payload map[string]any) (entities.BookPatch, error)
	Schema() *schema.Schema
}

// ChangeRecorder receives successful catalogue changes.
type ChangeRecorder interface {
	LogCreate(book entities.Book, meta audit.Meta)
	LogUpdate(book entities.Book, fields []string, meta audit.Meta)
	LogDelete(isbn string, meta audit.Meta)
}

// HistoryReader lists recorded changes of one book.
type HistoryReader interface {
	History(ctx context.Context, isbn string, limit, offset int) ([]entities.AuditEvent, int64, error)
}

// BookCounter reports the catalogue size for health checks.
type BookCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping() error
}
