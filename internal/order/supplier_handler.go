package order

import (
	"errors"
	"fmt"
	"time"

	"tradeportal-backend/internal/auth"
	"tradeportal-backend/internal/database"
	"tradeportal-backend/internal/models"
	"tradeportal-backend/internal/workflow"

	"github.com/gofiber/fiber/v2"
)

type ActionRequest struct {
	Action        string `json:"action"`
	DeliveryDate  string `json:"delivery_date"` // "2006-01-02", confirm only
	SupplierNotes string `json:"supplier_notes"`
}

// SupplierListHandler shows every order to supplier staff.
func SupplierListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.Order{}).
			Preload("Items").Preload("Attachments").
			Order("created_at DESC")

		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if q := c.Query("q"); q != "" {
			like := "%" + q + "%"
			query = query.Where(
				"order_number ILIKE ? OR customer_order_number ILIKE ? OR EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = orders.id AND oi.product_name ILIKE ?)",
				like, like, like,
			)
		}

		var orders []models.Order
		if err := query.Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "订单查询失败")
		}
		return c.JSON(fiber.Map{"orders": serializeList(orders)})
	}
}

// SupplierGetHandler returns any order with its lineage for supplier staff.
func SupplierGetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ord models.Order
		err := database.DB.Preload("Items").Preload("Attachments").
			Preload("Contact").Preload("Contact.Company").
			Preload("Inquiry").Preload("Inquiry.QuotedBy").Preload("ConfirmedBy").
			First(&ord, "id = ?", c.Params("id")).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "订单不存在")
		}

		resp := serializeDetail(c, &ord)
		resp["buyer"] = fiber.Map{
			"name":    ord.Contact.Name,
			"company": ord.Contact.Company.Name,
			"country": ord.Contact.Company.Country,
		}
		if responsible := workflow.ResponsibleUser(&ord); responsible != nil {
			resp["responsible_sales"] = fiber.Map{"id": responsible.ID, "name": responsible.Name}
		}
		return c.JSON(resp)
	}
}

// ActionHandler is the single supplier-side dispatch that drives the order
// lifecycle. Each precondition failure surfaces a message and mutates nothing.
func ActionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actorID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body ActionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "无效的请求数据")
		}

		var ord models.Order
		err = database.DB.Preload("Inquiry").Preload("Inquiry.QuotedBy").Preload("ConfirmedBy").
			First(&ord, "id = ?", c.Params("id")).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "订单不存在")
		}

		switch body.Action {
		case "confirm":
			return confirm(c, &ord, actorID, &body)
		case "ship":
			return ship(c, &ord, actorID)
		case "confirm_payment":
			return confirmPayment(c, &ord, actorID)
		case "complete":
			return complete(c, &ord, actorID)
		case "update_notes":
			return updateNotes(c, &ord, &body)
		default:
			return fiber.NewError(fiber.StatusBadRequest, "未知操作")
		}
	}
}

func confirm(c *fiber.Ctx, ord *models.Order, actorID uint, body *ActionRequest) error {
	if err := workflow.CheckConfirm(ord, actorID); err != nil {
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	}
	if err := workflow.CheckOrderTransition(ord.Status, models.OrderConfirmed); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	updates := map[string]interface{}{
		"status":          models.OrderConfirmed,
		"confirmed_at":    time.Now(),
		"confirmed_by_id": actorID,
	}
	if body.DeliveryDate != "" {
		d, err := time.Parse("2006-01-02", body.DeliveryDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "交货日期格式应为 'YYYY-MM-DD'")
		}
		updates["delivery_date"] = d
	}

	// Conditional update so two racing confirmations cannot both claim the
	// order: the row is only touched while unclaimed or claimed by the actor.
	res := database.DB.Model(&models.Order{}).
		Where("id = ? AND (confirmed_by_id IS NULL OR confirmed_by_id = ?)", ord.ID, actorID).
		Updates(updates)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("操作失败：%v", res.Error))
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusConflict, "该订单已由其他销售确认，不可由其他人再次确认。")
	}

	return c.JSON(fiber.Map{"message": "订单已确认！"})
}

func ship(c *fiber.Ctx, ord *models.Order, actorID uint) error {
	if err := workflow.CheckShip(ord, actorID); err != nil {
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	}
	if err := workflow.CheckOrderTransition(ord.Status, models.OrderShipped); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	err := database.DB.Model(ord).Updates(map[string]interface{}{
		"status":        models.OrderShipped,
		"shipping_date": today(),
	}).Error
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("操作失败：%v", err))
	}
	return c.JSON(fiber.Map{"message": "订单已发货！"})
}

func confirmPayment(c *fiber.Ctx, ord *models.Order, actorID uint) error {
	if err := workflow.CheckConfirmPayment(ord, actorID); err != nil {
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	}
	if err := workflow.CheckPaymentTransition(ord.PaymentStatus, models.PaymentPaid); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	err := database.DB.Model(ord).Update("payment_status", models.PaymentPaid).Error
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("操作失败：%v", err))
	}
	return c.JSON(fiber.Map{"message": "收款已确认，付款状态更新为已付款。"})
}

func complete(c *fiber.Ctx, ord *models.Order, actorID uint) error {
	if err := workflow.CheckComplete(ord, actorID); err != nil {
		status := fiber.StatusForbidden
		if errors.Is(err, workflow.ErrPaymentNotConfirmed) {
			status = fiber.StatusBadRequest
		}
		return fiber.NewError(status, err.Error())
	}
	if err := workflow.CheckOrderTransition(ord.Status, models.OrderCompleted); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	err := database.DB.Model(ord).Updates(map[string]interface{}{
		"status":          models.OrderCompleted,
		"completion_date": today(),
	}).Error
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("操作失败：%v", err))
	}
	return c.JSON(fiber.Map{"message": "订单已完成！"})
}

func updateNotes(c *fiber.Ctx, ord *models.Order, body *ActionRequest) error {
	err := database.DB.Model(ord).Update("supplier_notes", body.SupplierNotes).Error
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("操作失败：%v", err))
	}
	return c.JSON(fiber.Map{"message": "备注已更新！"})
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
