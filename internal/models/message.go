package models

import "time"

// Message: 沟通消息 - a short note scoped to exactly one inquiry or one order.
// Immutable after creation except for its attachments.
type Message struct {
	ID uint `gorm:"primaryKey" json:"id"`

	InquiryID *uint    `gorm:"index" json:"inquiry_id"`
	Inquiry   *Inquiry `gorm:"foreignKey:InquiryID;constraint:OnDelete:CASCADE" json:"-"`
	OrderID   *uint    `gorm:"index" json:"order_id"`
	Order     *Order   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`

	SenderID uint   `gorm:"index;not null" json:"sender_id"`
	Sender   User   `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
	Content  string `gorm:"size:4000" json:"content"`

	CreatedAt time.Time `json:"created_at"`

	Attachments []MessageAttachment `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"attachments"`
}

type MessageAttachment struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	MessageID uint `gorm:"index;not null" json:"message_id"`

	FilePath string `gorm:"size:500;not null" json:"file_path"`
	FileName string `gorm:"size:255" json:"file_name"`
	FileSize int64  `gorm:"default:0" json:"file_size"`

	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}
