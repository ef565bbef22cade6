package entities

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "book_create"
	AuditActionUpdate AuditAction = "book_update"
	AuditActionDelete AuditAction = "book_delete"
)

type AuditEvent struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	ISBN        string      `gorm:"index;size:32" json:"isbn"`
	Action      AuditAction `gorm:"index;size:50" json:"action"`
	Description string      `gorm:"size:500" json:"description"`        // Human-readable summary
	Fields      string      `gorm:"size:500" json:"fields,omitempty"`   // Comma-separated changed columns
	RequestID   string      `gorm:"size:64" json:"request_id,omitempty"`
	IPAddress   string      `gorm:"size:45" json:"ip_address,omitempty"`
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
