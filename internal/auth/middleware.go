package auth

import (
	"fmt"
	"strings"

	"tradeportal-backend/internal/config"
	"tradeportal-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey    = "user_id"
	CtxUserRoleKey  = "user_role"
	CtxContactIDKey = "contact_id"
	CtxStaffKey     = "is_staff"
	CtxSuperuserKey = "is_superuser"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "缺少 Authorization 头")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization 格式应为 'Bearer <token>'")
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "无效或已过期的登录凭证")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "登录凭证解析失败")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserRoleKey, claims.Role)
		c.Locals(CtxContactIDKey, claims.ContactID)
		c.Locals(CtxStaffKey, claims.IsStaff)
		c.Locals(CtxSuperuserKey, claims.IsSuperuser)

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.ContactRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(CtxUserRoleKey).(models.ContactRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "无法获取角色信息")
		}
		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "您没有执行此操作的权限")
	}
}

func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if staff, ok := c.Locals(CtxStaffKey).(bool); ok && staff {
			return c.Next()
		}
		return fiber.NewError(fiber.StatusForbidden, "仅管理员可访问")
	}
}

func RequireSuperuser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if super, ok := c.Locals(CtxSuperuserKey).(bool); ok && super {
			return c.Next()
		}
		return fiber.NewError(fiber.StatusForbidden, "仅超级管理员可访问")
	}
}

// UserID pulls the authenticated principal's id from the request context.
func UserID(c *fiber.Ctx) (uint, error) {
	id, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "无法获取用户信息")
	}
	return id, nil
}

// ContactID pulls the business identity's id; absent for admin accounts.
func ContactID(c *fiber.Ctx) (uint, error) {
	ptr, ok := c.Locals(CtxContactIDKey).(*uint)
	if !ok || ptr == nil {
		return 0, fiber.NewError(fiber.StatusForbidden, "未找到联系人信息。")
	}
	return *ptr, nil
}
