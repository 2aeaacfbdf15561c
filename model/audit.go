package model

import "time"

// AuditLog stores field-level before/after values for order edits.
// Append-only.
type AuditLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Entity        string    `gorm:"not null;index" json:"entity"`
	EntityId      uint      `gorm:"not null;index" json:"entityId"`
	Field         string    `gorm:"not null" json:"field"`
	OldValue      string    `json:"oldValue"`
	NewValue      string    `json:"newValue"`
	ActorId       uint      `gorm:"not null" json:"actorId"`
	CorrelationId string    `gorm:"size:36;index" json:"correlationId"`
	CreatedAt     time.Time `json:"createdAt"`
}
