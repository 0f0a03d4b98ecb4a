package health

import (
	"tradeportal-backend/internal/database"
	"tradeportal-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// DBHandler reports database reachability as {"ok": true|false}.
func DBHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := database.Ping(); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"ok":    false,
				"error": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"ok": true})
	}
}

// StorageHandler reports object-storage reachability.
func StorageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := storage.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"ok":    false,
				"error": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"ok": true})
	}
}
