package directory

import (
	"fmt"
	"time"

	"tradeportal-backend/internal/models"

	"gorm.io/gorm"
)

// Approval moderation. Admin reversal (approved <-> rejected) is allowed; a
// contact never goes back to pending.
var approvalTransitions = map[models.ApprovalStatus][]models.ApprovalStatus{
	models.ApprovalPending:  {models.ApprovalApproved, models.ApprovalRejected},
	models.ApprovalApproved: {models.ApprovalRejected},
	models.ApprovalRejected: {models.ApprovalApproved},
}

func CanApprovalTransition(from, to models.ApprovalStatus) bool {
	for _, s := range approvalTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func CheckApprovalTransition(from, to models.ApprovalStatus) error {
	if !CanApprovalTransition(from, to) {
		return fmt.Errorf("审批状态不允许从 %s 变更为 %s", from, to)
	}
	return nil
}

// ApproveContact marks the contact approved and activates its login principal.
// The privileged admin interface goes through here rather than editing fields.
func ApproveContact(tx *gorm.DB, contact *models.Contact, actor *models.User) error {
	if err := CheckApprovalTransition(contact.ApprovalStatus, models.ApprovalApproved); err != nil {
		return err
	}
	now := time.Now()
	contact.ApprovalStatus = models.ApprovalApproved
	contact.ApprovedAt = &now
	contact.ApprovedByID = &actor.ID
	contact.RejectionReason = ""
	if err := tx.Save(contact).Error; err != nil {
		return err
	}
	if contact.UserID != nil {
		if err := tx.Model(&models.User{}).Where("id = ?", *contact.UserID).
			Update("is_active", true).Error; err != nil {
			return err
		}
	}
	return nil
}

// RejectContact marks the contact rejected with a reason and deactivates its
// login principal.
func RejectContact(tx *gorm.DB, contact *models.Contact, actor *models.User, reason string) error {
	if err := CheckApprovalTransition(contact.ApprovalStatus, models.ApprovalRejected); err != nil {
		return err
	}
	contact.ApprovalStatus = models.ApprovalRejected
	contact.ApprovedAt = nil
	contact.ApprovedByID = &actor.ID
	contact.RejectionReason = reason
	if err := tx.Save(contact).Error; err != nil {
		return err
	}
	if contact.UserID != nil {
		if err := tx.Model(&models.User{}).Where("id = ?", *contact.UserID).
			Update("is_active", false).Error; err != nil {
			return err
		}
	}
	return nil
}
