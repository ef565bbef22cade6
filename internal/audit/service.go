package audit

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mrlokans/books-api/internal/database/audit"
	"github.com/mrlokans/books-api/internal/entities"
)

// Service provides high-level audit logging for catalogue changes.
type Service struct {
	repo    *audit.Repository
	timeout time.Duration
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo, timeout: 5 * time.Second}
}

// Meta carries request details attached to every event.
type Meta struct {
	RequestID string
	IPAddress string
}

// LogAsync records an audit event in the background (non-blocking).
// The request context is not used: the write must outlive the response.
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.repo.LogEvent(ctx, event); err != nil {
			slog.Error("failed to log audit event", "action", event.Action, "isbn", event.ISBN, "error", err)
		}
	}()
}

// Wait blocks until every background write has finished or ctx is done.
// Call it before closing the database.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogCreate records a book creation.
func (s *Service) LogCreate(book entities.Book, meta Meta) {
	s.LogAsync(newEvent(entities.AuditActionCreate, book.ISBN, "Created book: "+book.Title, "", meta))
}

// LogUpdate records a merge-update and the columns it touched.
func (s *Service) LogUpdate(book entities.Book, fields []string, meta Meta) {
	s.LogAsync(newEvent(entities.AuditActionUpdate, book.ISBN, "Updated book: "+book.Title, strings.Join(fields, ","), meta))
}

// LogDelete records a book deletion.
func (s *Service) LogDelete(isbn string, meta Meta) {
	s.LogAsync(newEvent(entities.AuditActionDelete, isbn, "Deleted book: "+isbn, "", meta))
}

// History returns the change history of one book.
func (s *Service) History(ctx context.Context, isbn string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsForISBN(ctx, isbn, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

func newEvent(action entities.AuditAction, isbn, description, fields string, meta Meta) *entities.AuditEvent {
	return &entities.AuditEvent{
		ISBN:        isbn,
		Action:      action,
		Description: truncate(description, 500),
		Fields:      truncate(fields, 500),
		RequestID:   meta.RequestID,
		IPAddress:   meta.IPAddress,
	}
}

// truncate shortens s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
