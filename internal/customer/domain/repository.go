package domain

import (
	"context"

	"github.com/invomate/gstbill/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, companyID, id string) (*Customer, error)
	List(ctx context.Context, db *gorm.DB, companyID string, filter ListCustomerFilter, page pagination.Pagination) ([]*Customer, error)
	Update(ctx context.Context, db *gorm.DB, customer *Customer) error
	CountInvoiceRefs(ctx context.Context, db *gorm.DB, companyID, id string) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, companyID, id string) error
}
