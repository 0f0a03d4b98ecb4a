package inquiry

import (
	"fmt"
	"time"

	"tradeportal-backend/internal/auth"
	"tradeportal-backend/internal/database"
	"tradeportal-backend/internal/models"
	"tradeportal-backend/internal/storage"

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
	Notes          string  `json:"notes"`
}

type CreateInquiryRequest struct {
	DeliveryRequirement string              `json:"delivery_requirement"`
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

// CreateHandler lets a buyer file a new inquiry with one or more line items.
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		contact, err := currentContact(c)
		if err != nil {
			return err
		}

		var body CreateInquiryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "无效的请求数据")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "询单至少需要一条产品明细，且数量必须大于 0")
		}

		inquiryNumber := fmt.Sprintf("INQ-%s", time.Now().Format("20060102150405"))

		inq := models.Inquiry{
			InquiryNumber:       inquiryNumber,
			ContactID:           contact.ID,
			Status:              models.InquiryPending,
			DeliveryRequirement: body.DeliveryRequirement,
			CustomerNotes:       body.CustomerNotes,
		}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&inq).Error; err != nil {
				return err
			}
			for _, item := range body.Items {
				unit := item.Unit
				if unit == "" {
					unit = "件"
				}
				row := models.InquiryItem{
					InquiryID:      inq.ID,
					ProductName:    item.ProductName,
					MaterialName:   item.MaterialName,
					MaterialGrade:  item.MaterialGrade,
					Quantity:       item.Quantity,
					Unit:           unit,
					Specifications: item.Specifications,
					Notes:          item.Notes,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("创建询单失败：%v", err))
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": fmt.Sprintf("询单 %s 创建成功！", inquiryNumber),
			"id":      inq.ID,
			"inquiry_number": inquiryNumber,
		})
	}
}

// ListHandler shows the buyer every inquiry filed by their company, with an
// optional free-text search over inquiry number and product names.
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		contact, err := currentContact(c)
		if err != nil {
			return err
		}

		query := database.DB.Model(&models.Inquiry{}).
			Joins("JOIN contacts ON contacts.id = inquiries.contact_id").
			Where("contacts.company_id = ?", contact.CompanyID).
			Preload("Items").Preload("Attachments").
			Order("inquiries.created_at DESC")

		if q := c.Query("q"); q != "" {
			like := "%" + q + "%"
			query = query.Where(
				"inquiries.inquiry_number ILIKE ? OR EXISTS (SELECT 1 FROM inquiry_items ii WHERE ii.inquiry_id = inquiries.id AND ii.product_name ILIKE ?)",
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

// GetHandler returns one of the buyer's own inquiries.
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		contact, err := currentContact(c)
		if err != nil {
			return err
		}

		var inq models.Inquiry
		err = database.DB.Preload("Items").Preload("Attachments").
			Where("id = ? AND contact_id = ?", c.Params("id"), contact.ID).
			First(&inq).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "询单不存在")
		}

		return c.JSON(serializeDetail(c, &inq))
	}
}

// DetailsJSONHandler mirrors the portal's inquiry-details API used to prefill
// order forms: {success, inquiry: {...}, items: [...]}.
func DetailsJSONHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		contact, err := currentContact(c)
		if err != nil {
			return err
		}

		var inq models.Inquiry
		err = database.DB.Preload("Items").
			Where("id = ? AND contact_id = ?", c.Params("id"), contact.ID).
			First(&inq).Error
		if err != nil {
			return c.JSON(fiber.Map{"success": false, "error": "询单不存在"})
		}

		items := make([]fiber.Map, 0, len(inq.Items))
		for _, item := range inq.Items {
			unitPrice := ""
			if item.QuotedPrice != nil {
				unitPrice = fmt.Sprintf("%.2f", *item.QuotedPrice)
			}
			items = append(items, fiber.Map{
				"product_name":   item.ProductName,
				"material_name":  item.MaterialName,
				"material_grade": item.MaterialGrade,
				"quantity":       fmt.Sprintf("%g", item.Quantity),
				"unit":           item.Unit,
				"specifications": item.Specifications,
				"unit_price":     unitPrice,
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"inquiry": fiber.Map{
				"inquiry_number":       inq.InquiryNumber,
				"delivery_requirement": inq.DeliveryRequirement,
				"customer_notes":       inq.CustomerNotes,
			},
			"items": items,
		})
	}
}

// UploadAttachmentHandler accepts multipart files for an inquiry. Attachments
// are allowed in any workflow state, including after the inquiry is closed.
func UploadAttachmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		inq, err := visibleInquiry(c)
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

		saved := make([]fiber.Map, 0, len(files))
		for _, fh := range files {
			if err := storage.ValidateUpload(fh.Filename, fh.Size); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			src, err := fh.Open()
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "文件读取失败")
			}
			key := storage.ObjectKey("attachments/inquiries", fh.Filename)
			path, err := storage.Save(c.Context(), key, src, fh.Size, fh.Header.Get("Content-Type"))
			src.Close()
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("上传失败：%v", err))
			}

			att := models.InquiryAttachment{
				InquiryID:    inq.ID,
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

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"attachments": saved})
	}
}

// visibleInquiry enforces the read-access rule: suppliers see every inquiry,
// buyers only those of their own company.
func visibleInquiry(c *fiber.Ctx) (*models.Inquiry, error) {
	role, _ := c.Locals(auth.CtxUserRoleKey).(models.ContactRole)

	var inq models.Inquiry
	if role == models.RoleSupplier {
		if err := database.DB.First(&inq, "id = ?", c.Params("id")).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusNotFound, "询单不存在")
		}
		return &inq, nil
	}

	contact, err := currentContact(c)
	if err != nil {
		return nil, err
	}
	err = database.DB.
		Joins("JOIN contacts ON contacts.id = inquiries.contact_id").
		Where("inquiries.id = ? AND contacts.company_id = ?", c.Params("id"), contact.CompanyID).
		First(&inq).Error
	if err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "询单不存在")
	}
	return &inq, nil
}

func serializeList(inquiries []models.Inquiry) []fiber.Map {
	out := make([]fiber.Map, 0, len(inquiries))
	for i := range inquiries {
		inq := &inquiries[i]
		out = append(out, fiber.Map{
			"id":             inq.ID,
			"inquiry_number": inq.InquiryNumber,
			"status":         inq.Status,
			"item_count":     len(inq.Items),
			"total_amount":   inq.TotalAmount(),
			"quoted_at":      inq.QuotedAt,
			"created_at":     inq.CreatedAt,
		})
	}
	return out
}

func serializeDetail(c *fiber.Ctx, inq *models.Inquiry) fiber.Map {
	attachments := make([]fiber.Map, 0, len(inq.Attachments))
	for _, att := range inq.Attachments {
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
	return fiber.Map{
		"inquiry":      inq,
		"total_amount": inq.TotalAmount(),
		"attachments":  attachments,
	}
}
