package models

import "time"

type ContactRole string

const (
	RoleBuyer    ContactRole = "buyer"
	RoleSupplier ContactRole = "supplier"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Contact: 联系人 - a named buyer or supplier person under a Company,
// optionally linked 1:1 to a login principal. Email is globally unique.
type Contact struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	CompanyID uint    `gorm:"index;not null" json:"company_id"`
	Company   Company `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"company"`

	UserID *uint `gorm:"uniqueIndex" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`

	Role ContactRole `gorm:"size:20;not null;default:'buyer';index" json:"role"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Position string `gorm:"size:100" json:"position"`
	Email    string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone    string `gorm:"size:50" json:"phone"`
	Wechat   string `gorm:"size:100" json:"wechat"`

	IsPrimary bool `gorm:"default:false" json:"is_primary"`
	IsActive  bool `gorm:"default:true" json:"is_active"`

	ApprovalStatus  ApprovalStatus `gorm:"size:20;not null;default:'pending';index" json:"approval_status"`
	ApprovedAt      *time.Time     `json:"approved_at"`
	ApprovedByID    *uint          `json:"approved_by_id"`
	ApprovedBy      *User          `gorm:"foreignKey:ApprovedByID;constraint:OnDelete:SET NULL" json:"-"`
	RejectionReason string         `gorm:"size:500" json:"rejection_reason"`

	Notes     string `gorm:"size:1000" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Contact) IsBuyer() bool {
	return c.Role == RoleBuyer
}

func (c *Contact) IsSupplier() bool {
	return c.Role == RoleSupplier
}
