package order

import (
	"fmt"
	"time"

	"tradeportal-backend/internal/auth"
	"tradeportal-backend/internal/database"
	"tradeportal-backend/internal/models"
	"tradeportal-backend/internal/storage"
	"tradeportal-backend/internal/workflow"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

type CreateItemRequest struct {
	ProductName    string  `json:"product_name" validate:"required,max=200"`
	MaterialName   string  `json:"material_name" validate:"max=200"`
	MaterialGrade  string  `json:"material_grade"`
	Quantity       float64 `json:"quantity" validate:"required,gt=0"`
	Unit           string  `json:"unit"`
	Specifications string  `json:"specifications"`
	UnitPrice      float64 `json:"unit_price" validate:"gte=0"`
	Notes          string  `json:"notes"`
}

type CreateOrderRequest struct {
	CustomerOrderNumber string              `json:"customer_order_number"`
	InquiryID           *uint               `json:"inquiry_id"`
	DeliveryDays        string              `json:"delivery_days"`
	CustomerNotes       string              `json:"customer_notes"`
	Items               []CreateItemRequest `json:"items" validate:"required,min=1,dive"`
}

func currentContact(c *fiber.Ctx) (*models.Contact, error) {
	contactID, err := auth.ContactID(c)
	if err != nil {
		return nil, err
	}
	var contact models.Contact
	if err := database.DB.Preload("Company").First(&contact, contactID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusForbidden, "未找到联系人信息。")
	}
	return &contact, nil
}

// CreateHandler lets a buyer place an order, standalone or derived from one of
// their inquiries. Items are supplied in the request, never copied from the
// inquiry. Deriving from an inquiry moves it to "ordered" through a guarded
// update; an inquiry that left the orderable states fails the whole request.
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		contact, err := currentContact(c)
		if err != nil {
			return err
		}

		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "无效的请求数据")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "订单至少需要一条产品明细，且数量必须大于 0")
		}

		orderNumber := fmt.Sprintf("ORD-%s", time.Now().Format("20060102150405"))

		customerNotes := body.CustomerNotes
		if body.DeliveryDays != "" {
			customerNotes = fmt.Sprintf("交货期（天）：%s\n%s", body.DeliveryDays, customerNotes)
		}

		ord := models.Order{
			OrderNumber:         orderNumber,
			CustomerOrderNumber: body.CustomerOrderNumber,
			ContactID:           contact.ID,
			InquiryID:           body.InquiryID,
			Status:              models.OrderPending,
			PaymentStatus:       models.PaymentUnpaid,
			CustomerNotes:       customerNotes,
		}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if body.InquiryID != nil {
				// Guarded transition: only an inquiry still in an orderable
				// state, owned by this buyer, may become "ordered".
				res := tx.Model(&models.Inquiry{}).
					Where("id = ? AND contact_id = ? AND status IN ?",
						*body.InquiryID, contact.ID, workflow.OrderableInquiryStatuses()).
					Update("status", models.InquiryOrdered)
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return fmt.Errorf("询单当前状态不可转为订单")
				}
			}

			if err := tx.Create(&ord).Error; err != nil {
				return err
			}
			for _, item := range body.Items {
				unit := item.Unit
				if unit == "" {
					unit = "PCS"
				}
				row := models.OrderItem{
					OrderID:        ord.ID,
					ProductName:    item.ProductName,
					MaterialName:   item.MaterialName,
					MaterialGrade:  item.MaterialGrade,
					Quantity:       item.Quantity,
					Unit:           unit,
					Specifications: item.Specifications,
					UnitPrice:      item.UnitPrice,
					Notes:          item.Notes,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("创建订单失败：%v", err))
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":      fmt.Sprintf("订单 %s 创建成功！", orderNumber),
			"id":           ord.ID,
			"order_number": orderNumber,
		})
	}
}

// ListHandler shows the buyer every order placed by their company.
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		contact, err := currentContact(c)
		if err != nil {
			return err
		}

		query := database.DB.Model(&models.Order{}).
			Joins("JOIN contacts ON contacts.id = orders.contact_id").
			Where("contacts.company_id = ?", contact.CompanyID).
			Preload("Items").Preload("Attachments").
			Order("orders.created_at DESC")

		if q := c.Query("q"); q != "" {
			like := "%" + q + "%"
			query = query.Where(
				"orders.order_number ILIKE ? OR orders.customer_order_number ILIKE ? OR EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = orders.id AND oi.product_name ILIKE ?)",
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

// GetHandler returns one of the buyer's own orders.
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		contact, err := currentContact(c)
		if err != nil {
			return err
		}

		var ord models.Order
		err = database.DB.Preload("Items").Preload("Attachments").Preload("Inquiry").
			Where("id = ? AND contact_id = ?", c.Params("id"), contact.ID).
			First(&ord).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "订单不存在")
		}
		return c.JSON(serializeDetail(c, &ord))
	}
}

// UploadAttachmentHandler stores files on an order: payment proofs from the
// buyer, shipping documents from the supplier. No lifecycle gate applies.
func UploadAttachmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		ord, err := visibleOrder(c)
		if err != nil {
			return err
		}

		form, err := c.MultipartForm()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "无效的上传请求")
		}
		files := form.File["attachments"]
		if len(files) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "未选择文件，未上传。")
		}
		description := c.FormValue("description")
		if description == "" {
			description = "付款凭证"
		}

		saved := make([]fiber.Map, 0, len(files))
		for _, fh := range files {
			if err := storage.ValidateUpload(fh.Filename, fh.Size); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			src, err := fh.Open()
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "文件读取失败")
			}
			key := storage.ObjectKey("attachments/orders", fh.Filename)
			path, err := storage.Save(c.Context(), key, src, fh.Size, fh.Header.Get("Content-Type"))
			src.Close()
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("上传失败：%v", err))
			}

			att := models.OrderAttachment{
				OrderID:      ord.ID,
				FilePath:     path,
				FileName:     fh.Filename,
				Description:  description,
				FileSize:     fh.Size,
				UploadedByID: &userID,
			}
			if err := database.DB.Create(&att).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "附件保存失败")
			}
			saved = append(saved, fiber.Map{
				"id":        att.ID,
				"file_name": att.FileName,
				"file_size": storage.FormatFileSize(att.FileSize),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":     "付款凭证已上传。",
			"attachments": saved,
		})
	}
}

// visibleOrder enforces the read-access rule: suppliers see every order,
// buyers only those of their own company.
func visibleOrder(c *fiber.Ctx) (*models.Order, error) {
	role, _ := c.Locals(auth.CtxUserRoleKey).(models.ContactRole)

	var ord models.Order
	if role == models.RoleSupplier {
		if err := database.DB.First(&ord, "id = ?", c.Params("id")).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusNotFound, "订单不存在")
		}
		return &ord, nil
	}

	contact, err := currentContact(c)
	if err != nil {
		return nil, err
	}
	err = database.DB.
		Joins("JOIN contacts ON contacts.id = orders.contact_id").
		Where("orders.id = ? AND contacts.company_id = ?", c.Params("id"), contact.CompanyID).
		First(&ord).Error
	if err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "订单不存在")
	}
	return &ord, nil
}

func serializeList(orders []models.Order) []fiber.Map {
	out := make([]fiber.Map, 0, len(orders))
	for i := range orders {
		ord := &orders[i]
		out = append(out, fiber.Map{
			"id":                    ord.ID,
			"order_number":          ord.OrderNumber,
			"customer_order_number": ord.CustomerOrderNumber,
			"status":                ord.Status,
			"payment_status":        ord.PaymentStatus,
			"item_count":            len(ord.Items),
			"total_amount":          ord.TotalAmount(),
			"delivery_date":         ord.DeliveryDate,
			"created_at":            ord.CreatedAt,
		})
	}
	return out
}

func serializeDetail(c *fiber.Ctx, ord *models.Order) fiber.Map {
	attachments := make([]fiber.Map, 0, len(ord.Attachments))
	for _, att := range ord.Attachments {
		url, _ := storage.URL(c.Context(), att.FilePath)
		attachments = append(attachments, fiber.Map{
			"id":          att.ID,
			"file_name":   att.FileName,
			"description": att.Description,
			"file_size":   storage.FormatFileSize(att.FileSize),
			"url":         url,
			"uploaded_at": att.UploadedAt,
		})
	}
	resp := fiber.Map{
		"order":        ord,
		"total_amount": ord.TotalAmount(),
		"attachments":  attachments,
	}
	if ord.Inquiry != nil {
		resp["inquiry_number"] = ord.Inquiry.InquiryNumber
	}
	return resp
}
