package audit

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/books-api/internal/database"
	"github.com/mrlokans/books-api/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an audit event to the database.
func (r *Repository) LogEvent(ctx context.Context, event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return database.Classify("log audit event", r.db.WithContext(ctx).Create(event).Error)
}

// GetEventsForISBN retrieves the change history of one book, most recent first.
func (r *Repository) GetEventsForISBN(ctx context.Context, isbn string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	events := []entities.AuditEvent{}
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.AuditEvent{}).Where("isbn = ?", isbn)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, database.Classify("count audit events", err)
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&events).Error
	if err != nil {
		return nil, 0, database.Classify("list audit events", err)
	}
	return events, total, nil
}

// DeleteOldEvents removes audit events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", olderThan).Delete(&entities.AuditEvent{})
	return result.RowsAffected, database.Classify("delete audit events", result.Error)
}
