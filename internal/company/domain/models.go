// Package domain contains the tenant-root company model and contracts.
package domain

import (
	"time"
)

// Company is the tenant root. Every customer, product and invoice belongs to
// exactly one company, and the company's State field is the seller-side
// jurisdiction used for tax resolution.
type Company struct {
	ID      string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name    string `gorm:"type:text;not null" json:"name"`
	Address string `gorm:"type:text;not null" json:"address"`
	State   string `gorm:"type:text;not null" json:"state"`
	GSTIN   string `gorm:"type:text;uniqueIndex" json:"gstin"`
	MSME    *string `gorm:"type:text" json:"msme,omitempty"`
	Email   string `gorm:"type:text;not null" json:"email"`

	BankAccountNo     string `gorm:"type:text" json:"bank_account_no"`
	BankName          string `gorm:"type:text" json:"bank_name"`
	BankAccountHolder string `gorm:"type:text" json:"bank_account_holder"`
	BankBranch        string `gorm:"type:text" json:"bank_branch"`
	BankIFSCCode      string `gorm:"type:text" json:"bank_ifsc_code"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Company) TableName() string { return "companies" }

// OwnerCompanyID makes Company satisfy the tenancy guard; a company owns itself.
func (c *Company) OwnerCompanyID() string { return c.ID }
