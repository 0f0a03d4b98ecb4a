package models

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"   // 待确认
	OrderConfirmed OrderStatus = "confirmed" // 已确认（生产中）
	OrderReady     OrderStatus = "ready"     // 待提货
	OrderShipped   OrderStatus = "shipped"   // 已发货
	OrderCompleted OrderStatus = "completed" // 已完成
	OrderCancelled OrderStatus = "cancelled" // 已取消
)

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"  // 未付款
	PaymentPartial PaymentStatus = "partial" // 部分付款
	PaymentPaid    PaymentStatus = "paid"    // 已付款
)

// Order: 订单 - created by the buyer, optionally derived from an Inquiry, and
// driven through its lifecycle by supplier-side actions. ConfirmedBy pins the
// responsible sales person for all post-confirmation actions.
type Order struct {
	ID                  uint   `gorm:"primaryKey" json:"id"`
	OrderNumber         string `gorm:"size:50;uniqueIndex;not null" json:"order_number"`
	CustomerOrderNumber string `gorm:"size:100" json:"customer_order_number"`

	ContactID uint    `gorm:"index;not null" json:"contact_id"`
	Contact   Contact `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE" json:"-"`

	InquiryID *uint    `gorm:"index" json:"inquiry_id"`
	Inquiry   *Inquiry `gorm:"foreignKey:InquiryID;constraint:OnDelete:SET NULL" json:"-"`

	Status        OrderStatus   `gorm:"size:20;not null;default:'pending';index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"size:20;not null;default:'unpaid';index" json:"payment_status"`

	ConfirmedAt   *time.Time `json:"confirmed_at"`
	ConfirmedByID *uint      `json:"confirmed_by_id"`
	ConfirmedBy   *User      `gorm:"foreignKey:ConfirmedByID;constraint:OnDelete:SET NULL" json:"-"`

	DeliveryDate   *time.Time `json:"delivery_date"`
	ShippingDate   *time.Time `json:"shipping_date"`
	CompletionDate *time.Time `json:"completion_date"`

	CustomerNotes string `gorm:"size:2000" json:"customer_notes"`
	SupplierNotes string `gorm:"size:2000" json:"supplier_notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items       []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Attachments []OrderAttachment `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"attachments"`
}

// TotalAmount sums quantity x unit price over all items. Order items are always
// priced, so there is no nil case here.
func (o *Order) TotalAmount() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

// OrderItem: 订单明细 - one purchased line, always priced.
type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"index;not null" json:"order_id"`

	ProductName    string  `gorm:"size:200;not null" json:"product_name"`
	MaterialName   string  `gorm:"size:200" json:"material_name"`
	MaterialGrade  string  `gorm:"size:100" json:"material_grade"`
	Quantity       float64 `gorm:"not null" json:"quantity"`
	Unit           string  `gorm:"size:50;default:'PCS'" json:"unit"`
	Specifications string  `gorm:"size:2000" json:"specifications"`
	UnitPrice      float64 `gorm:"not null" json:"unit_price"` // 单价(USD)
	DrawingPath    string  `gorm:"size:500" json:"drawing_path"`

	Notes     string `gorm:"size:1000" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (it *OrderItem) Subtotal() float64 {
	return it.Quantity * it.UnitPrice
}

// OrderAttachment: files exchanged on an order (drawings, payment proof, ...).
type OrderAttachment struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"index;not null" json:"order_id"`

	FilePath    string `gorm:"size:500;not null" json:"file_path"`
	FileName    string `gorm:"size:255" json:"file_name"`
	Description string `gorm:"size:200" json:"description"`
	FileSize    int64  `gorm:"default:0" json:"file_size"`

	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
	UploadedByID *uint     `json:"uploaded_by_id"`
	UploadedBy   *User     `gorm:"foreignKey:UploadedByID;constraint:OnDelete:SET NULL" json:"-"`
}
