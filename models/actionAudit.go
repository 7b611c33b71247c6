package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit event kinds.
const (
	AuditEventCreate     = "create"
	AuditEventBulkUpdate = "bulk_update"
	AuditEventProof      = "proof_upload"
)

// ActionAudit journals a write to an action. Changes holds a JSON object
// mapping field name to the value written. There is no user column: the board
// runs without accounts.
type ActionAudit struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"-"`
	ActionID  string         `gorm:"size:20;index" json:"action_id"`
	Event     string         `gorm:"size:20" json:"event"`
	Changes   datatypes.JSON `json:"changes"`
	CreatedAt time.Time      `json:"created_at"`
}
