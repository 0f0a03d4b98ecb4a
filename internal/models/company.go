package models

import "time"

// Company: 客户公司 (buyer companies plus the house supplier company).
// Created with get-or-create semantics at registration, never deleted by the app.
type Company struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:200;not null;uniqueIndex" json:"name"`
	Country   string `gorm:"size:100" json:"country"`
	Address   string `gorm:"size:500" json:"address"`
	Website   string `gorm:"size:255" json:"website"`
	Notes     string `gorm:"size:1000" json:"notes"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Contacts []Contact `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
}
