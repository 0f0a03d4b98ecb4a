package messaging

import (
	"fmt"
	"mime/multipart"

	"tradeportal-backend/internal/auth"
	"tradeportal-backend/internal/database"
	"tradeportal-backend/internal/models"
	"tradeportal-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Messages are a sidecar on one inquiry or one order. Anyone with view access
// to the parent may read and post; posting is allowed in every workflow state.

type scope struct {
	inquiryID *uint
	orderID   *uint
}

// resolveScope checks that the parent exists and is visible to the caller,
// returning the FK pair for new messages.
func resolveScope(c *fiber.Ctx, parent string) (*scope, error) {
	role, _ := c.Locals(auth.CtxUserRoleKey).(models.ContactRole)
	supplier := role == models.RoleSupplier

	var companyID uint
	if !supplier {
		contactID, err := auth.ContactID(c)
		if err != nil {
			return nil, err
		}
		var contact models.Contact
		if err := database.DB.First(&contact, contactID).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusForbidden, "未找到联系人信息。")
		}
		companyID = contact.CompanyID
	}

	switch parent {
	case "inquiry":
		var inq models.Inquiry
		query := database.DB.Model(&models.Inquiry{})
		if !supplier {
			query = query.Joins("JOIN contacts ON contacts.id = inquiries.contact_id").
				Where("contacts.company_id = ?", companyID)
		}
		if err := query.Where("inquiries.id = ?", c.Params("id")).First(&inq).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusNotFound, "询单不存在")
		}
		return &scope{inquiryID: &inq.ID}, nil
	case "order":
		var ord models.Order
		query := database.DB.Model(&models.Order{})
		if !supplier {
			query = query.Joins("JOIN contacts ON contacts.id = orders.contact_id").
				Where("contacts.company_id = ?", companyID)
		}
		if err := query.Where("orders.id = ?", c.Params("id")).First(&ord).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusNotFound, "订单不存在")
		}
		return &scope{orderID: &ord.ID}, nil
	default:
		return nil, fiber.NewError(fiber.StatusBadRequest, "无效的消息范围")
	}
}

// ListHandler returns the message thread for an inquiry or order, newest first.
func ListHandler(parent string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sc, err := resolveScope(c, parent)
		if err != nil {
			return err
		}

		query := database.DB.Preload("Attachments").Preload("Sender").Order("created_at DESC")
		if sc.inquiryID != nil {
			query = query.Where("inquiry_id = ?", *sc.inquiryID)
		} else {
			query = query.Where("order_id = ?", *sc.orderID)
		}

		var msgs []models.Message
		if err := query.Find(&msgs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "消息查询失败")
		}

		out := make([]fiber.Map, 0, len(msgs))
		for i := range msgs {
			m := &msgs[i]
			attachments := make([]fiber.Map, 0, len(m.Attachments))
			for _, att := range m.Attachments {
				url, _ := storage.URL(c.Context(), att.FilePath)
				attachments = append(attachments, fiber.Map{
					"file_name": att.FileName,
					"file_size": storage.FormatFileSize(att.FileSize),
					"url":       url,
				})
			}
			out = append(out, fiber.Map{
				"id":          m.ID,
				"sender":      m.Sender.Name,
				"sender_id":   m.SenderID,
				"content":     m.Content,
				"created_at":  m.CreatedAt,
				"attachments": attachments,
			})
		}
		return c.JSON(fiber.Map{"messages": out})
	}
}

// CreateHandler posts a message, optionally with files, as multipart form
// data. Messages are immutable once created.
func CreateHandler(parent string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		sc, err := resolveScope(c, parent)
		if err != nil {
			return err
		}

		content := c.FormValue("content")

		var files []*multipart.FileHeader
		if form, err := c.MultipartForm(); err == nil && form != nil {
			files = form.File["files"]
		}
		for _, fh := range files {
			if err := storage.ValidateUpload(fh.Filename, fh.Size); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}
		if content == "" && len(files) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "消息内容和附件不能都为空")
		}

		msg := models.Message{
			InquiryID: sc.inquiryID,
			OrderID:   sc.orderID,
			SenderID:  userID,
			Content:   content,
		}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&msg).Error; err != nil {
				return err
			}
			for _, fh := range files {
				src, err := fh.Open()
				if err != nil {
					return err
				}
				key := storage.ObjectKey("attachments/messages", fh.Filename)
				path, err := storage.Save(c.Context(), key, src, fh.Size, fh.Header.Get("Content-Type"))
				src.Close()
				if err != nil {
					return err
				}
				att := models.MessageAttachment{
					MessageID: msg.ID,
					FilePath:  path,
					FileName:  fh.Filename,
					FileSize:  fh.Size,
				}
				if err := tx.Create(&att).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("消息发送失败：%v", err))
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": msg.ID, "message": "消息已发送。"})
	}
}
