package inquiry

import (
	"errors"
	"fmt"
	"time"

	"tradeportal-backend/internal/auth"
	"tradeportal-backend/internal/database"
	"tradeportal-backend/internal/models"
	"tradeportal-backend/internal/workflow"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type QuoteItemPrice struct {
	ItemID      uint    `json:"item_id"`
	QuotedPrice float64 `json:"quoted_price"`
}

type QuoteRequest struct {
	QuotedLeadTime string           `json:"quoted_lead_time"`
	SupplierNotes  string           `json:"supplier_notes"`
	ItemPrices     []QuoteItemPrice `json:"item_prices"`
}

// SupplierListHandler shows every inquiry to supplier staff, with status and
// free-text filters.
func SupplierListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.Inquiry{}).
			Preload("Items").Preload("Attachments").
			Order("created_at DESC")

		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if q := c.Query("q"); q != "" {
			like := "%" + q + "%"
			query = query.Where(
				"inquiry_number ILIKE ? OR EXISTS (SELECT 1 FROM inquiry_items ii WHERE ii.inquiry_id = inquiries.id AND ii.product_name ILIKE ?)",
				like, like,
			)
		}

		var inquiries []models.Inquiry
		if err := query.Find(&inquiries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "询单查询失败")
		}
		return c.JSON(fiber.Map{"inquiries": serializeList(inquiries)})
	}
}

// SupplierGetHandler returns any inquiry with buyer context for quoting.
func SupplierGetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var inq models.Inquiry
		err := database.DB.Preload("Items").Preload("Attachments").
			Preload("Contact").Preload("Contact.Company").Preload("QuotedBy").
			First(&inq, "id = ?", c.Params("id")).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "询单不存在")
		}

		resp := serializeDetail(c, &inq)
		resp["buyer"] = fiber.Map{
			"name":    inq.Contact.Name,
			"company": inq.Contact.Company.Name,
			"country": inq.Contact.Company.Country,
		}
		if inq.QuotedBy != nil {
			resp["quoted_by"] = fiber.Map{"id": inq.QuotedBy.ID, "name": inq.QuotedBy.Name}
		}
		return c.JSON(resp)
	}
}

// QuoteHandler submits (or, for the owning sales person, revises) a quote.
// The first quoter becomes the permanent responsible sales person; the claim
// is a conditional update so two racing first quotes cannot both win.
func QuoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actorID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body QuoteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "无效的请求数据")
		}

		var inq models.Inquiry
		if err := database.DB.Preload("QuotedBy").Preload("Items").
			First(&inq, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "询单不存在")
		}

		if err := workflow.CheckQuote(&inq, actorID); err != nil {
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		}
		if err := workflow.CheckInquiryTransition(inq.Status, models.InquiryQuoted); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Inquiry{}).
				Where("id = ? AND (quoted_by_id IS NULL OR quoted_by_id = ?)", inq.ID, actorID).
				Updates(map[string]interface{}{
					"status":           models.InquiryQuoted,
					"quoted_lead_time": body.QuotedLeadTime,
					"supplier_notes":   body.SupplierNotes,
					"quoted_at":        time.Now(),
					"quoted_by_id":     gorm.Expr("COALESCE(quoted_by_id, ?)", actorID),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Another sales person claimed the inquiry between our read
				// and this update.
				return errors.New("该询单已由其他销售负责，请联系其处理。")
			}

			for _, p := range body.ItemPrices {
				res := tx.Model(&models.InquiryItem{}).
					Where("id = ? AND inquiry_id = ?", p.ItemID, inq.ID).
					Update("quoted_price", p.QuotedPrice)
				if res.Error != nil {
					return res.Error
				}
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("报价失败：%v", err))
		}

		return c.JSON(fiber.Map{
			"message": fmt.Sprintf("询单 %s 报价成功！", inq.InquiryNumber),
		})
	}
}
