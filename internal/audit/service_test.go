package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/books-api/internal/database"
	auditRepo "github.com/mrlokans/books-api/internal/database/audit"
	"github.com/mrlokans/books-api/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := database.Open(database.Options{
		DSN:      filepath.Join(t.TempDir(), "audit.db"),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewService(auditRepo.NewRepository(db.DB)), db.DB
}

func waitForEvent(t *testing.T, db *gorm.DB, action entities.AuditAction) entities.AuditEvent {
	t.Helper()
	var event entities.AuditEvent
	require.Eventually(t, func() bool {
		return db.Where("action = ?", action).First(&event).Error == nil
	}, 2*time.Second, 10*time.Millisecond)
	return event
}

func TestService_LogCreate(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogCreate(entities.Book{ISBN: "5544778", Title: "Lorelei's Ghost"}, Meta{RequestID: "req-1", IPAddress: "10.0.0.1"})

	event := waitForEvent(t, db, entities.AuditActionCreate)
	assert.Equal(t, "5544778", event.ISBN)
	assert.Equal(t, "Created book: Lorelei's Ghost", event.Description)
	assert.Equal(t, "req-1", event.RequestID)
	assert.Equal(t, "10.0.0.1", event.IPAddress)
}

func TestService_LogUpdate(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogUpdate(entities.Book{ISBN: "753854367", Title: "Mongo"}, []string{"author", "title"}, Meta{})

	event := waitForEvent(t, db, entities.AuditActionUpdate)
	assert.Equal(t, "author,title", event.Fields)
	assert.Equal(t, "Updated book: Mongo", event.Description)
}

func TestService_LogDelete(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogDelete("753854367", Meta{})

	event := waitForEvent(t, db, entities.AuditActionDelete)
	assert.Equal(t, "753854367", event.ISBN)
}

func TestService_History(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.repo.LogEvent(ctx, &entities.AuditEvent{ISBN: "753854367", Action: entities.AuditActionCreate}))
	require.NoError(t, svc.repo.LogEvent(ctx, &entities.AuditEvent{ISBN: "753854367", Action: entities.AuditActionUpdate}))

	events, total, err := svc.History(ctx, "753854367", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, events, 2)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.repo.LogEvent(ctx, &entities.AuditEvent{
		ISBN:      "old",
		Action:    entities.AuditActionDelete,
		CreatedAt: time.Now().Add(-72 * time.Hour),
	}))
	require.NoError(t, svc.repo.LogEvent(ctx, &entities.AuditEvent{ISBN: "new", Action: entities.AuditActionCreate}))

	deleted, err := svc.DeleteOldEvents(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var count int64
	db.Model(&entities.AuditEvent{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestService_WaitFlushesPendingWrites(t *testing.T) {
	svc, db := setupTestService(t)

	for i := 0; i < 10; i++ {
		svc.LogDelete("753854367", Meta{})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, svc.Wait(ctx))

	var count int64
	db.Model(&entities.AuditEvent{}).Count(&count)
	assert.Equal(t, int64(10), count)
}

func TestService_WaitHonoursContext(t *testing.T) {
	svc, _ := setupTestService(t)
	svc.pending.Add(1)
	defer svc.pending.Done()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, svc.Wait(ctx), context.Canceled)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))

	// "Кир Великий": Cyrillic runes are two bytes each
	got := truncate("Created book: Кир Великий", 20)
	assert.True(t, utf8.ValidString(got), got)
	assert.LessOrEqual(t, len(got), 20)
	assert.Equal(t, "Created book: К...", got)
}
