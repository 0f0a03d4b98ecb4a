package audit

import (
	"encoding/json"
	"fmt"

	"tradeportal-backend/internal/models"

	"gorm.io/gorm"
)

type LogOptions struct {
	ActorID     uint
	ActorName   string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog records one privileged action inside the caller's transaction so a
// failed action leaves no trail.
func WriteLog(tx *gorm.DB, opts LogOptions) error {
	// jsonb columns want the JSON literal null, not an empty string.
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		ActorID:     opts.ActorID,
		ActorName:   opts.ActorName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("writing audit log: %w", err)
	}
	return nil
}
