package domain

import "time"

// Idempotency records the resource produced by a previously processed
// request, keyed by (user_id, scope, key). Scope names the operation and
// its target, e.g. "tasks.create" or "chats/<id>/messages". A retry with
// the same key returns the recorded resource instead of creating another.
type Idempotency struct {
	ID         string    `gorm:"type:char(36);primaryKey"`
	UserID     string    `gorm:"type:varchar(64);not null;uniqueIndex:ux_idem_user_scope_key,priority:1"`
	Scope      string    `gorm:"type:varchar(128);not null;uniqueIndex:ux_idem_user_scope_key,priority:2"`
	Key        string    `gorm:"column:idem_key;type:varchar(128);not null;uniqueIndex:ux_idem_user_scope_key,priority:3"`
	ResourceID string    `gorm:"type:char(36);not null"`
	Status     int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	ExpiresAt  time.Time `gorm:"not null;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
