package dashboard

import (
	"tradeportal-backend/internal/auth"
	"tradeportal-backend/internal/database"
	"tradeportal-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Handler returns the role-appropriate overview: buyers see their own
// inquiries and orders, supplier staff see everything.
func Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(auth.CtxUserRoleKey).(models.ContactRole)
		if role == models.RoleSupplier {
			return supplierDashboard(c)
		}
		return buyerDashboard(c)
	}
}

func buyerDashboard(c *fiber.Ctx) error {
	contactID, err := auth.ContactID(c)
	if err != nil {
		return err
	}

	var inquiryCount, orderCount, pendingInquiries, pendingOrders int64
	database.DB.Model(&models.Inquiry{}).Where("contact_id = ?", contactID).Count(&inquiryCount)
	database.DB.Model(&models.Order{}).Where("contact_id = ?", contactID).Count(&orderCount)
	database.DB.Model(&models.Inquiry{}).Where("contact_id = ? AND status = ?", contactID, models.InquiryPending).Count(&pendingInquiries)
	database.DB.Model(&models.Order{}).Where("contact_id = ? AND status = ?", contactID, models.OrderPending).Count(&pendingOrders)

	var recentInquiries []models.Inquiry
	database.DB.Where("contact_id = ?", contactID).Order("created_at DESC").Limit(5).Find(&recentInquiries)
	var recentOrders []models.Order
	database.DB.Where("contact_id = ?", contactID).Order("created_at DESC").Limit(5).Find(&recentOrders)

	return c.JSON(fiber.Map{
		"inquiry_count":     inquiryCount,
		"order_count":       orderCount,
		"pending_inquiries": pendingInquiries,
		"pending_orders":    pendingOrders,
		"recent_inquiries":  recentInquiries,
		"recent_orders":     recentOrders,
	})
}

func supplierDashboard(c *fiber.Ctx) error {
	var inquiryCount, orderCount, pendingInquiries, pendingOrders int64
	database.DB.Model(&models.Inquiry{}).Count(&inquiryCount)
	database.DB.Model(&models.Order{}).Count(&orderCount)
	database.DB.Model(&models.Inquiry{}).Where("status = ?", models.InquiryPending).Count(&pendingInquiries)
	database.DB.Model(&models.Order{}).Where("status = ?", models.OrderPending).Count(&pendingOrders)

	var recentInquiries []models.Inquiry
	database.DB.Order("created_at DESC").Limit(10).Find(&recentInquiries)
	var recentOrders []models.Order
	database.DB.Order("created_at DESC").Limit(10).Find(&recentOrders)

	return c.JSON(fiber.Map{
		"inquiry_count":     inquiryCount,
		"order_count":       orderCount,
		"pending_inquiries": pendingInquiries,
		"pending_orders":    pendingOrders,
		"recent_inquiries":  recentInquiries,
		"recent_orders":     recentOrders,
	})
}
