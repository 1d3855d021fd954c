package domain

import (
	"time"

	"github.com/invomate/gstbill/internal/gst"
	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item scoped to one company. The three default
// rates are the percentages copied onto invoice lines at creation time;
// editing them never touches historical invoices.
type Product struct {
	ID            string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CompanyID     string          `gorm:"type:varchar(36);not null;index" json:"company_id"`
	Name          string          `gorm:"type:text;not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	HSNSACCode    string          `gorm:"type:text" json:"hsn_sac_code"`
	UnitOfMeasure string          `gorm:"type:text;not null;default:'unit'" json:"unit_of_measure"`
	UnitPrice     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unit_price"`

	DefaultCGSTRate decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"default_cgst_rate"`
	DefaultSGSTRate decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"default_sgst_rate"`
	DefaultIGSTRate decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"default_igst_rate"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }

// OwnerCompanyID satisfies the tenancy guard.
func (p *Product) OwnerCompanyID() string { return p.CompanyID }

// DefaultRates returns the product's current default rate set for resolution.
func (p *Product) DefaultRates() gst.ProductRates {
	return gst.ProductRates{
		CGST: p.DefaultCGSTRate,
		SGST: p.DefaultSGSTRate,
		IGST: p.DefaultIGSTRate,
	}
}
