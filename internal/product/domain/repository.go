package domain

import (
	"context"

	"github.com/invomate/gstbill/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, companyID, id string) (*Product, error)
	// FindByIDs resolves a set of catalog ids within one company's scope.
	// Missing or foreign ids are simply absent from the result.
	FindByIDs(ctx context.Context, db *gorm.DB, companyID string, ids []string) (map[string]*Product, error)
	List(ctx context.Context, db *gorm.DB, companyID string, name string, page pagination.Pagination) ([]*Product, error)
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	Delete(ctx context.Context, db *gorm.DB, companyID, id string) error
}
