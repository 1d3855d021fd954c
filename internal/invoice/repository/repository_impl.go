package repository

import (
	"context"
	"errors"

	"github.com/invomate/gstbill/internal/invoice/domain"
	"github.com/invomate/gstbill/pkg/db/option"
	"github.com/invomate/gstbill/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertInvoice(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Create(invoice).Error
}

func (r *repo) InsertItems(ctx context.Context, db *gorm.DB, items []*domain.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(items).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).
		First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *repo) FindItems(ctx context.Context, db *gorm.DB, invoiceID string) ([]*domain.InvoiceItem, error) {
	var items []*domain.InvoiceItem
	err := db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("position asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	stmt := db.WithContext(ctx).Model(&domain.Invoice{})

	switch {
	case filter.OwnerCompanyID != "" && filter.CustomerGSTIN != "":
		stmt = stmt.Where(
			"company_id = ? OR customer_id IN (?)",
			filter.OwnerCompanyID,
			db.Model(&customerRef{}).Select("id").Where("gstin = ?", filter.CustomerGSTIN),
		)
	case filter.OwnerCompanyID != "":
		stmt = stmt.Where("company_id = ?", filter.OwnerCompanyID)
	case filter.CustomerGSTIN != "":
		stmt = stmt.Where(
			"customer_id IN (?)",
			db.Model(&customerRef{}).Select("id").Where("gstin = ?", filter.CustomerGSTIN),
		)
	default:
		return nil, nil
	}

	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != "" {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) UpdateCAS(ctx context.Context, db *gorm.DB, invoice *domain.Invoice, expectedVersion int64) (int64, error) {
	invoice.Version = expectedVersion + 1
	res := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("id = ? AND version = ?", invoice.ID, expectedVersion).
		Select("*").
		Omit("id", "company_id", "created_at").
		Updates(invoice)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repo) DeleteItems(ctx context.Context, db *gorm.DB, invoiceID string) error {
	return db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&domain.InvoiceItem{}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, companyID, id string) error {
	return db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&domain.Invoice{}).Error
}

// customerRef keeps the customer-side visibility subquery local without
// importing the customer package.
type customerRef struct{}

func (customerRef) TableName() string { return "customers" }
