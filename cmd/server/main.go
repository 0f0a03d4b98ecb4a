package main

import (
	"strings"

	"tradeportal-backend/internal/admin"
	"tradeportal-backend/internal/auth"
	"tradeportal-backend/internal/config"
	"tradeportal-backend/internal/dashboard"
	"tradeportal-backend/internal/database"
	"tradeportal-backend/internal/health"
	"tradeportal-backend/internal/inquiry"
	"tradeportal-backend/internal/logger"
	"tradeportal-backend/internal/messaging"
	"tradeportal-backend/internal/models"
	"tradeportal-backend/internal/order"
	"tradeportal-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg)
	database.Init(cfg)
	storage.Init(cfg)

	app := fiber.New(fiber.Config{
		AppName: cfg.SiteTitle,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logger.L().Error("unexpected error", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "服务器内部错误，请稍后再试",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(requestid.New())
	app.Use(logger.Middleware())

	// Health probes
	app.Get("/healthz/db", health.DBHandler())
	app.Get("/healthz/storage", health.StorageHandler())

	api := app.Group("/api")

	// Public auth
	api.Post("/buyer/register", auth.RegisterBuyerHandler(cfg))
	api.Post("/buyer/login", auth.LoginHandler(cfg, models.RoleBuyer))
	api.Post("/supplier/register", auth.RegisterSupplierHandler(cfg))
	api.Post("/supplier/login", auth.LoginHandler(cfg, models.RoleSupplier))
	api.Post("/auth/login", auth.AdminLoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Get("/dashboard", dashboard.Handler())

	// Inquiries: buyer CRUD plus shared attachments/messages. Group middleware
	// mounts on the path prefix, so the group carries the broad contact guard
	// and buyer-only routes add their own.
	buyerOnly := auth.RequireRole(models.RoleBuyer)

	inquiries := protected.Group("/inquiries", auth.RequireRole(models.RoleBuyer, models.RoleSupplier))
	inquiries.Post("", buyerOnly, inquiry.CreateHandler())
	inquiries.Get("", buyerOnly, inquiry.ListHandler())
	inquiries.Get("/:id", buyerOnly, inquiry.GetHandler())
	inquiries.Get("/:id/details", buyerOnly, inquiry.DetailsJSONHandler())
	inquiries.Post("/:id/attachments", inquiry.UploadAttachmentHandler())
	inquiries.Get("/:id/messages", messaging.ListHandler("inquiry"))
	inquiries.Post("/:id/messages", messaging.CreateHandler("inquiry"))

	orders := protected.Group("/orders", auth.RequireRole(models.RoleBuyer, models.RoleSupplier))
	orders.Post("", buyerOnly, order.CreateHandler())
	orders.Get("", buyerOnly, order.ListHandler())
	orders.Get("/:id", buyerOnly, order.GetHandler())
	orders.Post("/:id/attachments", order.UploadAttachmentHandler())
	orders.Get("/:id/messages", messaging.ListHandler("order"))
	orders.Post("/:id/messages", messaging.CreateHandler("order"))

	// Supplier workflow
	supplierRoutes := protected.Group("/supplier", auth.RequireRole(models.RoleSupplier))
	supplierRoutes.Get("/inquiries", inquiry.SupplierListHandler())
	supplierRoutes.Get("/inquiries/:id", inquiry.SupplierGetHandler())
	supplierRoutes.Post("/inquiries/:id/quote", inquiry.QuoteHandler())
	supplierRoutes.Get("/orders", order.SupplierListHandler())
	supplierRoutes.Get("/orders/:id", order.SupplierGetHandler())
	supplierRoutes.Post("/orders/:id/action", order.ActionHandler())

	// Admin moderation
	adminRoutes := protected.Group("/admin", auth.RequireStaff())
	adminRoutes.Get("/contacts", admin.ListContactsHandler())
	adminRoutes.Post("/contacts/:id/approve", admin.ApproveContactHandler())
	adminRoutes.Post("/contacts/:id/reject", admin.RejectContactHandler())
	adminRoutes.Post("/users/:id/activate", admin.ActivateUserHandler())
	adminRoutes.Post("/users/:id/deactivate", admin.DeactivateUserHandler())
	adminRoutes.Post("/users/:id/grant-staff", admin.GrantStaffHandler())
	adminRoutes.Post("/users/:id/grant-superuser", auth.RequireSuperuser(), admin.GrantSuperuserHandler())
	adminRoutes.Get("/audit-logs", admin.ListAuditLogsHandler())

	logger.L().Info("server starting",
		zap.String("port", cfg.HTTPPort),
		zap.String("site", cfg.SiteHeader),
	)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
