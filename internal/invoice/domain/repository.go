package domain

import (
	"context"

	"github.com/invomate/gstbill/pkg/db/pagination"
	"gorm.io/gorm"
)

// ListFilter scopes a listing. OwnerCompanyID and CustomerGSTIN are OR'd
// together when both are set (the "either" role); a filter with neither set
// matches nothing.
type ListFilter struct {
	OwnerCompanyID string
	CustomerGSTIN  string
	Status         Status
	CustomerID     string
}

type Repository interface {
	InsertInvoice(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	InsertItems(ctx context.Context, db *gorm.DB, items []*InvoiceItem) error
	// FindByID loads a header without tenancy scoping; visibility is the
	// service's decision.
	FindByID(ctx context.Context, db *gorm.DB, id string) (*Invoice, error)
	FindItems(ctx context.Context, db *gorm.DB, invoiceID string) ([]*InvoiceItem, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Invoice, error)
	// UpdateCAS persists the header only when expectedVersion still matches,
	// bumping Version by one. Returns the number of rows updated.
	UpdateCAS(ctx context.Context, db *gorm.DB, invoice *Invoice, expectedVersion int64) (int64, error)
	DeleteItems(ctx context.Context, db *gorm.DB, invoiceID string) error
	Delete(ctx context.Context, db *gorm.DB, companyID, id string) error
}
