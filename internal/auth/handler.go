package auth

import (
	"errors"
	"fmt"

	"tradeportal-backend/internal/config"
	"tradeportal-backend/internal/database"
	"tradeportal-backend/internal/directory"
	"tradeportal-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

type RegisterRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	CompanyName string `json:"company_name"` // required for buyers
	Country     string `json:"country"`
	Position    string `json:"position"`
	Phone       string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterBuyerHandler creates a pending buyer contact under the buyer's own
// company (get-or-create by name). The principal stays inactive until approved.
func RegisterBuyerHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "无效的请求数据")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "姓名、邮箱和密码为必填项")
		}
		if body.CompanyName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "公司名称为必填项")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			company, err := directory.GetOrCreateCompany(tx, body.CompanyName, body.Country)
			if err != nil {
				return err
			}
			return createContact(tx, company, models.RoleBuyer, &body)
		})
		if err != nil {
			return registrationError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "注册成功！您的账号正在等待管理员审批，审批通过后您将收到邮件通知。",
		})
	}
}

// RegisterSupplierHandler creates a pending supplier contact under the house
// supplier company.
func RegisterSupplierHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "无效的请求数据")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "姓名、邮箱和密码为必填项")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			company, err := directory.SupplierCompany(tx)
			if err != nil {
				return err
			}
			return createContact(tx, company, models.RoleSupplier, &body)
		})
		if err != nil {
			return registrationError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "注册成功！您的账号正在等待管理员审批，审批通过后您将收到通知。",
		})
	}
}

func createContact(tx *gorm.DB, company *models.Company, role models.ContactRole, body *RegisterRequest) error {
	user, _, err := directory.ResolvePrincipal(tx, body.Email, body.Name, body.Password, false)
	if err != nil {
		return err
	}
	contact := models.Contact{
		CompanyID:      company.ID,
		UserID:         &user.ID,
		Role:           role,
		Name:           body.Name,
		Position:       body.Position,
		Email:          directory.NormalizeEmail(body.Email),
		Phone:          body.Phone,
		ApprovalStatus: models.ApprovalPending,
	}
	return tx.Create(&contact).Error
}

func registrationError(err error) error {
	if errors.Is(err, directory.ErrEmailTaken) {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("注册失败：%v", err))
}

// LoginHandler authenticates a contact of the given role and gates on its
// approval status.
func LoginHandler(cfg *config.Config, role models.ContactRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "无效的请求数据")
		}

		email := directory.NormalizeEmail(body.Email)

		var user models.User
		if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "邮箱或密码错误。")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "邮箱或密码错误。")
		}

		var contact models.Contact
		if err := database.DB.Where("user_id = ? AND role = ?", user.ID, role).First(&contact).Error; err != nil {
			if role == models.RoleSupplier {
				return fiber.NewError(fiber.StatusForbidden, "该账号不是有效的供应商账号。")
			}
			return fiber.NewError(fiber.StatusForbidden, "该账号不是有效的买家账号。")
		}

		switch contact.ApprovalStatus {
		case models.ApprovalApproved:
			// fall through
		case models.ApprovalPending:
			return fiber.NewError(fiber.StatusForbidden, "您的账号正在等待管理员审批，请耐心等待。")
		default:
			return fiber.NewError(fiber.StatusForbidden, fmt.Sprintf("您的账号已被拒绝。原因：%s", contact.RejectionReason))
		}
		if !user.IsActive {
			return fiber.NewError(fiber.StatusForbidden, "账号已被停用。")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user, &contact)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "登录凭证生成失败")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":         user.ID,
				"name":       contact.Name,
				"email":      user.Email,
				"role":       contact.Role,
				"contact_id": contact.ID,
				"company_id": contact.CompanyID,
			},
		})
	}
}

// AdminLoginHandler authenticates staff accounts, which have no contact.
func AdminLoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "无效的请求数据")
		}

		var user models.User
		if err := database.DB.Where("email = ?", directory.NormalizeEmail(body.Email)).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "邮箱或密码错误。")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "邮箱或密码错误。")
		}
		if !user.IsStaff || !user.IsActive {
			return fiber.NewError(fiber.StatusForbidden, "仅管理员可登录后台。")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user, nil)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "登录凭证生成失败")
		}
		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":           user.ID,
				"name":         user.Name,
				"email":        user.Email,
				"is_staff":     user.IsStaff,
				"is_superuser": user.IsSuperuser,
			},
		})
	}
}

// MeHandler returns the authenticated principal with its contact and company.
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := UserID(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "用户不存在")
		}

		response := fiber.Map{
			"user_id":  user.ID,
			"name":     user.Name,
			"email":    user.Email,
			"is_staff": user.IsStaff,
		}

		var contact models.Contact
		if err := database.DB.Preload("Company").Where("user_id = ?", user.ID).First(&contact).Error; err == nil {
			response["contact"] = fiber.Map{
				"id":              contact.ID,
				"name":            contact.Name,
				"role":            contact.Role,
				"position":        contact.Position,
				"approval_status": contact.ApprovalStatus,
			}
			response["company"] = fiber.Map{
				"id":      contact.Company.ID,
				"name":    contact.Company.Name,
				"country": contact.Company.Country,
			}
		}

		return c.JSON(response)
	}
}
