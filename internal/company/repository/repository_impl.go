package repository

import (
	"context"
	"errors"

	"github.com/invomate/gstbill/internal/company/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, company *domain.Company) error {
	return db.WithContext(ctx).Create(company).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.Company, error) {
	var company domain.Company
	err := db.WithContext(ctx).First(&company, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, company *domain.Company) error {
	return db.WithContext(ctx).Save(company).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id string) error {
	// Child rows cascade through database foreign keys; the explicit deletes
	// keep sqlite test databases honest when FK enforcement is off.
	if err := db.WithContext(ctx).Exec(`DELETE FROM invoice_items WHERE company_id = ?`, id).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).Exec(`DELETE FROM invoices WHERE company_id = ?`, id).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).Exec(`DELETE FROM products WHERE company_id = ?`, id).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).Exec(`DELETE FROM customers WHERE company_id = ?`, id).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).Exec(`DELETE FROM api_keys WHERE company_id = ?`, id).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(`DELETE FROM companies WHERE id = ?`, id).Error
}
