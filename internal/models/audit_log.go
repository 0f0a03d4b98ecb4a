package models

import "time"

type AuditAction string

const (
	AuditActionApprove    AuditAction = "approve"
	AuditActionReject     AuditAction = "reject"
	AuditActionActivate   AuditAction = "activate"
	AuditActionDeactivate AuditAction = "deactivate"
	AuditActionGrant      AuditAction = "grant"
)

// AuditLog records every privileged admin action with the entity state before
// and after. Workflow actions by buyers/suppliers are not audited here; their
// trail lives on the records themselves (quoted_by, confirmed_by, timestamps).
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ActorID   uint   `gorm:"index" json:"actor_id"`
	ActorName string `gorm:"size:100" json:"actor_name"`

	// e.g. "contact", "user"
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action      AuditAction `gorm:"size:20" json:"action"`
	Description string      `gorm:"size:255" json:"description"`

	BeforeData string `gorm:"type:jsonb" json:"before_data"`
	AfterData  string `gorm:"type:jsonb" json:"after_data"`
}
