package domain

import (
	"time"

	"github.com/invomate/gstbill/internal/gst"
	"github.com/shopspring/decimal"
)

// Status is the invoice payment lifecycle state.
type Status string

const (
	StatusPending       Status = "pending"
	StatusPartiallyPaid Status = "partially_paid"
	StatusPaid          Status = "paid"
	StatusCancelled     Status = "cancelled"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPartiallyPaid, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo enforces the lifecycle: pending may move to any other
// state, partially_paid may settle or be cancelled, paid and cancelled are
// terminal.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusPartiallyPaid || next == StatusPaid || next == StatusCancelled
	case StatusPartiallyPaid:
		return next == StatusPaid || next == StatusCancelled
	}
	return false
}

// Invoice is the persisted invoice header. The five money totals are written
// once by the assembly transaction and always equal the sums over the
// invoice's items; GrandTotal in particular is derived, never entered.
type Invoice struct {
	ID            string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CompanyID     string `gorm:"type:varchar(36);not null;index;uniqueIndex:ux_invoices_company_number" json:"company_id"`
	CustomerID    string `gorm:"type:varchar(36);not null;index" json:"customer_id"`
	InvoiceNumber string `gorm:"type:text;not null;uniqueIndex:ux_invoices_company_number" json:"invoice_number"`

	Status        Status     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	IssueDate     time.Time  `gorm:"not null" json:"issue_date"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	PlaceOfSupply string     `gorm:"type:text;not null" json:"place_of_supply"`
	Terms         string     `gorm:"type:text" json:"terms"`
	Notes         string     `gorm:"type:text" json:"notes"`

	Subtotal   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"subtotal"`
	TotalCGST  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_cgst"`
	TotalSGST  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_sgst"`
	TotalIGST  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_igst"`
	GrandTotal decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"grand_total"`

	// Version is bumped on every mutation and checked compare-and-swap style
	// so concurrent item replacements cannot interleave.
	Version int64 `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Items []InvoiceItem `gorm:"-" json:"items,omitempty"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// OwnerCompanyID satisfies the tenancy guard.
func (i *Invoice) OwnerCompanyID() string { return i.CompanyID }

// Totals repackages the header sums for reconciliation against the items.
func (i *Invoice) Totals() gst.Totals {
	return gst.Totals{
		Subtotal:   i.Subtotal,
		TotalCGST:  i.TotalCGST,
		TotalSGST:  i.TotalSGST,
		TotalIGST:  i.TotalIGST,
		GrandTotal: i.GrandTotal,
	}
}

// InvoiceItem is one invoice line. Name, HSN/SAC, unit price and the three
// rates are copied from the catalog at assembly time so later product edits
// never change an issued invoice.
type InvoiceItem struct {
	ID        string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	InvoiceID string `gorm:"type:varchar(36);not null;index" json:"invoice_id"`
	CompanyID string `gorm:"type:varchar(36);not null;index" json:"company_id"`
	ProductID string `gorm:"type:varchar(36);not null" json:"product_id"`
	Position  int    `gorm:"not null" json:"position"`

	ProductName   string `gorm:"type:text;not null" json:"product_name"`
	HSNSACCode    string `gorm:"type:text" json:"hsn_sac_code"`
	UnitOfMeasure string `gorm:"type:text;not null" json:"unit_of_measure"`

	Quantity  int64           `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unit_price"`

	CGSTRate decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"cgst_rate"`
	SGSTRate decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"sgst_rate"`
	IGSTRate decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"igst_rate"`

	TaxableValue decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"taxable_value"`
	CGSTAmount   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"cgst_amount"`
	SGSTAmount   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"sgst_amount"`
	IGSTAmount   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"igst_amount"`
	LineTotal    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"line_total"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceItem) TableName() string { return "invoice_items" }

// OwnerCompanyID satisfies the tenancy guard.
func (i *InvoiceItem) OwnerCompanyID() string { return i.CompanyID }

// Computation re-derives the line's money breakdown from its snapshot
// fields, for reconciling stored amounts.
func (i *InvoiceItem) Computation() (gst.LineComputation, error) {
	return gst.ComputeLine(i.UnitPrice, i.Quantity, gst.RateSet{
		CGST: i.CGSTRate,
		SGST: i.SGSTRate,
		IGST: i.IGSTRate,
	})
}
