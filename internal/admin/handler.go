package admin

import (
	"fmt"

	"tradeportal-backend/internal/audit"
	"tradeportal-backend/internal/auth"
	"tradeportal-backend/internal/database"
	"tradeportal-backend/internal/directory"
	"tradeportal-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// The admin surface is the only path that can force contact approval or flip
// principal flags, and it goes through the same validated transition functions
// as the ordinary workflow. Every mutation is audited.

func actor(c *fiber.Ctx) (*models.User, error) {
	userID, err := auth.UserID(c)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusForbidden, "无法获取管理员信息")
	}
	return &user, nil
}

// ListContactsHandler lists contacts for moderation, filterable by approval
// status and role.
func ListContactsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Preload("Company").Order("created_at DESC")
		if status := c.Query("approval_status"); status != "" {
			query = query.Where("approval_status = ?", status)
		}
		if role := c.Query("role"); role != "" {
			query = query.Where("role = ?", role)
		}

		var contacts []models.Contact
		if err := query.Find(&contacts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "联系人查询失败")
		}
		return c.JSON(fiber.Map{"contacts": contacts})
	}
}

type contactSnapshot struct {
	ApprovalStatus models.ApprovalStatus `json:"approval_status"`
	IsActive       bool                  `json:"is_active"`
}

// ApproveContactHandler moves a contact to approved and activates its login.
func ApproveContactHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminUser, err := actor(c)
		if err != nil {
			return err
		}

		var contact models.Contact
		if err := database.DB.First(&contact, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "联系人不存在")
		}
		before := contactSnapshot{contact.ApprovalStatus, contact.IsActive}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := directory.ApproveContact(tx, &contact, adminUser); err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				ActorID:     adminUser.ID,
				ActorName:   adminUser.Name,
				EntityType:  "contact",
				EntityID:    contact.ID,
				Action:      models.AuditActionApprove,
				Description: fmt.Sprintf("批准联系人 %s", contact.Name),
				Before:      before,
				After:       contactSnapshot{contact.ApprovalStatus, contact.IsActive},
			})
		})
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("审批失败：%v", err))
		}

		return c.JSON(fiber.Map{"message": fmt.Sprintf("联系人 %s 已批准。", contact.Name)})
	}
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

// RejectContactHandler moves a contact to rejected with a reason and
// deactivates its login.
func RejectContactHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminUser, err := actor(c)
		if err != nil {
			return err
		}

		var body RejectRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "无效的请求数据")
		}

		var contact models.Contact
		if err := database.DB.First(&contact, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "联系人不存在")
		}
		before := contactSnapshot{contact.ApprovalStatus, contact.IsActive}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := directory.RejectContact(tx, &contact, adminUser, body.Reason); err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				ActorID:     adminUser.ID,
				ActorName:   adminUser.Name,
				EntityType:  "contact",
				EntityID:    contact.ID,
				Action:      models.AuditActionReject,
				Description: fmt.Sprintf("拒绝联系人 %s：%s", contact.Name, body.Reason),
				Before:      before,
				After:       contactSnapshot{contact.ApprovalStatus, contact.IsActive},
			})
		})
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("审批失败：%v", err))
		}

		return c.JSON(fiber.Map{"message": fmt.Sprintf("联系人 %s 已拒绝。", contact.Name)})
	}
}

type userSnapshot struct {
	IsActive    bool `json:"is_active"`
	IsStaff     bool `json:"is_staff"`
	IsSuperuser bool `json:"is_superuser"`
}

func setUserFlag(c *fiber.Ctx, field string, value bool, action models.AuditAction, description string) error {
	adminUser, err := actor(c)
	if err != nil {
		return err
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "用户不存在")
	}
	before := userSnapshot{user.IsActive, user.IsStaff, user.IsSuperuser}
	after := before
	switch field {
	case "is_active":
		after.IsActive = value
	case "is_staff":
		after.IsStaff = value
	case "is_superuser":
		after.IsSuperuser = value
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update(field, value).Error; err != nil {
			return err
		}
		return audit.WriteLog(tx, audit.LogOptions{
			ActorID:     adminUser.ID,
			ActorName:   adminUser.Name,
			EntityType:  "user",
			EntityID:    user.ID,
			Action:      action,
			Description: fmt.Sprintf("%s %s", description, user.Email),
			Before:      before,
			After:       after,
		})
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("操作失败：%v", err))
	}

	return c.JSON(fiber.Map{"message": fmt.Sprintf("%s：%s", description, user.Email)})
}

func ActivateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return setUserFlag(c, "is_active", true, models.AuditActionActivate, "已启用账号")
	}
}

func DeactivateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return setUserFlag(c, "is_active", false, models.AuditActionDeactivate, "已停用账号")
	}
}

func GrantStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return setUserFlag(c, "is_staff", true, models.AuditActionGrant, "已授予管理员权限")
	}
}

// GrantSuperuserHandler is reachable only behind RequireSuperuser.
func GrantSuperuserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return setUserFlag(c, "is_superuser", true, models.AuditActionGrant, "已授予超级管理员权限")
	}
}

// ListAuditLogsHandler returns the privileged-action trail, newest first.
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.AuditLog{}).Order("created_at DESC").Limit(200)
		if entityType := c.Query("entity_type"); entityType != "" {
			query = query.Where("entity_type = ?", entityType)
		}

		var logs []models.AuditLog
		if err := query.Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "审计日志查询失败")
		}
		return c.JSON(fiber.Map{"audit_logs": logs})
	}
}
