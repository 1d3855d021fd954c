package repository

import (
	"context"
	"errors"

	"github.com/invomate/gstbill/internal/customer/domain"
	"github.com/invomate/gstbill/pkg/db/option"
	"github.com/invomate/gstbill/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Create(customer).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id string) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).
		First(&customer, "company_id = ? AND id = ?", companyID, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID string, filter domain.ListCustomerFilter, page pagination.Pagination) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	stmt := db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("company_id = ?", companyID)
	if filter.Name != "" {
		stmt = stmt.Where("name = ?", filter.Name)
	}
	if filter.State != "" {
		stmt = stmt.Where("state = ?", filter.State)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Save(customer).Error
}

// invoiceRef keeps the reference count off the invoice package; only the
// table name is shared.
type invoiceRef struct {
	ID string
}

func (invoiceRef) TableName() string { return "invoices" }

func (r *repo) CountInvoiceRefs(ctx context.Context, db *gorm.DB, companyID, id string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&invoiceRef{}).
		Where("company_id = ? AND customer_id = ?", companyID, id).
		Count(&count).Error
	return count, err
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, companyID, id string) error {
	return db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&domain.Customer{}).Error
}
