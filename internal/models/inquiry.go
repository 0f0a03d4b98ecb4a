package models

import "time"

type InquiryStatus string

const (
	InquiryPending   InquiryStatus = "pending"   // 待报价
	InquiryQuoted    InquiryStatus = "quoted"    // 已报价
	InquiryAccepted  InquiryStatus = "accepted"  // 客户已接受
	InquiryRejected  InquiryStatus = "rejected"  // 客户已拒绝
	InquiryCancelled InquiryStatus = "cancelled" // 已取消
	InquiryOrdered   InquiryStatus = "ordered"   // 已转订单
)

// Inquiry: 询单 - a buyer's request for quotation. Quoting pins QuotedBy as the
// responsible sales person for the whole inquiry/order lineage.
type Inquiry struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	InquiryNumber string  `gorm:"size:50;uniqueIndex;not null" json:"inquiry_number"`
	ContactID     uint    `gorm:"index;not null" json:"contact_id"`
	Contact       Contact `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE" json:"-"`

	Status InquiryStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`

	// Filled by the buyer.
	DeliveryRequirement string `gorm:"size:200" json:"delivery_requirement"`
	CustomerNotes       string `gorm:"size:2000" json:"customer_notes"`

	// Filled by the quoting supplier.
	QuotedLeadTime string     `gorm:"size:200" json:"quoted_lead_time"`
	QuotedAt       *time.Time `json:"quoted_at"`
	QuotedByID     *uint      `json:"quoted_by_id"`
	QuotedBy       *User      `gorm:"foreignKey:QuotedByID;constraint:OnDelete:SET NULL" json:"-"`
	SupplierNotes  string     `gorm:"size:2000" json:"supplier_notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items       []InquiryItem       `gorm:"foreignKey:InquiryID;constraint:OnDelete:CASCADE" json:"items"`
	Attachments []InquiryAttachment `gorm:"foreignKey:InquiryID;constraint:OnDelete:CASCADE" json:"attachments"`
}

// TotalAmount sums quantity x quoted price over quoted items. Unquoted items
// contribute zero rather than erroring.
func (i *Inquiry) TotalAmount() float64 {
	var total float64
	for _, item := range i.Items {
		total += item.Subtotal()
	}
	return total
}

// InquiryItem: 询单明细 - one requested line. QuotedPrice stays nil until a
// supplier quotes it.
type InquiryItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	InquiryID uint `gorm:"index;not null" json:"inquiry_id"`

	ProductName    string  `gorm:"size:200;not null" json:"product_name"`
	MaterialName   string  `gorm:"size:200" json:"material_name"`
	MaterialGrade  string  `gorm:"size:100" json:"material_grade"`
	Quantity       float64 `gorm:"not null" json:"quantity"`
	Unit           string  `gorm:"size:50;default:'件'" json:"unit"`
	Specifications string  `gorm:"size:2000" json:"specifications"`
	DrawingPath    string  `gorm:"size:500" json:"drawing_path"`

	QuotedPrice *float64 `json:"quoted_price"` // 报价单价(USD)

	Notes     string `gorm:"size:1000" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (it *InquiryItem) Subtotal() float64 {
	if it.QuotedPrice == nil {
		return 0
	}
	return it.Quantity * *it.QuotedPrice
}

// InquiryAttachment: files exchanged on an inquiry. FileName and FileSize are
// derived from the upload when persisted, never validated against inquiry status.
type InquiryAttachment struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	InquiryID uint `gorm:"index;not null" json:"inquiry_id"`

	FilePath    string `gorm:"size:500;not null" json:"file_path"`
	FileName    string `gorm:"size:255" json:"file_name"`
	Description string `gorm:"size:200" json:"description"`
	FileSize    int64  `gorm:"default:0" json:"file_size"`

	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
	UploadedByID *uint     `json:"uploaded_by_id"`
	UploadedBy   *User     `gorm:"foreignKey:UploadedByID;constraint:OnDelete:SET NULL" json:"-"`
}
