package domain

import (
	"time"
)

// Customer is a billing counterparty scoped to exactly one company. Its State
// field is the buyer-side jurisdiction consumed by tax resolution.
type Customer struct {
	ID         string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CompanyID  string `gorm:"type:varchar(36);not null;index" json:"company_id"`
	Name       string `gorm:"type:text;not null" json:"name"`
	AddressLine1 string `gorm:"type:text" json:"address_line1"`
	AddressLine2 string `gorm:"type:text" json:"address_line2"`
	City       string `gorm:"type:text" json:"city"`
	State      string `gorm:"type:text;not null" json:"state"`
	PostalCode string `gorm:"type:text" json:"postal_code"`
	Country    string `gorm:"type:text" json:"country"`
	GSTIN      string `gorm:"type:text" json:"gstin"`
	Email      string `gorm:"type:text" json:"email"`
	Phone      string `gorm:"type:text" json:"phone"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }

// OwnerCompanyID satisfies the tenancy guard.
func (c *Customer) OwnerCompanyID() string { return c.CompanyID }
