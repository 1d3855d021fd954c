// Package seed bootstraps a demo company for local environments so the API
// is usable immediately after first start.
package seed

import (
	"context"
	"errors"

	apikeydomain "github.com/invomate/gstbill/internal/apikey/domain"
	companydomain "github.com/invomate/gstbill/internal/company/domain"
	"github.com/invomate/gstbill/internal/config"
	customerdomain "github.com/invomate/gstbill/internal/customer/domain"
	productdomain "github.com/invomate/gstbill/internal/product/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	demoCompanyName  = "Demo Traders Pvt Ltd"
	demoCompanyState = "Karnataka"
	demoCompanyGSTIN = "29DEMOT1234D1Z1"
)

// EnsureDemoCompany creates the demo company with one customer, two catalog
// products and a fresh API key. Idempotent: an existing demo GSTIN means the
// seed already ran.
func EnsureDemoCompany(db *gorm.DB, apiKeySvc apikeydomain.Service, log *zap.Logger) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()

	var existing companydomain.Company
	err := db.WithContext(ctx).Where("gstin = ?", demoCompanyGSTIN).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		company := companydomain.Company{
			ID:      uuid.NewString(),
			Name:    demoCompanyName,
			Address: "21 Residency Road, Bengaluru",
			State:   demoCompanyState,
			GSTIN:   demoCompanyGSTIN,
			Email:   "billing@demotraders.example",
		}
		if err := tx.Create(&company).Error; err != nil {
			return err
		}

		customer := customerdomain.Customer{
			ID:        uuid.NewString(),
			CompanyID: company.ID,
			Name:      "Sample Buyer LLP",
			City:      "Mumbai",
			State:     "Maharashtra",
			Country:   "India",
		}
		if err := tx.Create(&customer).Error; err != nil {
			return err
		}

		products := []productdomain.Product{
			{
				ID:              uuid.NewString(),
				CompanyID:       company.ID,
				Name:            "Consulting Hours",
				HSNSACCode:      "998313",
				UnitOfMeasure:   "hour",
				UnitPrice:       decimal.RequireFromString("2500.00"),
				DefaultCGSTRate: decimal.RequireFromString("9"),
				DefaultSGSTRate: decimal.RequireFromString("9"),
				DefaultIGSTRate: decimal.RequireFromString("18"),
			},
			{
				ID:              uuid.NewString(),
				CompanyID:       company.ID,
				Name:            "Managed Hosting",
				HSNSACCode:      "998315",
				UnitOfMeasure:   "month",
				UnitPrice:       decimal.RequireFromString("4999.00"),
				DefaultCGSTRate: decimal.RequireFromString("9"),
				DefaultSGSTRate: decimal.RequireFromString("9"),
				DefaultIGSTRate: decimal.RequireFromString("18"),
			},
		}
		for i := range products {
			if err := tx.Create(&products[i]).Error; err != nil {
				return err
			}
		}

		raw, _, err := apiKeySvc.Issue(ctx, tx, company.ID, "seed")
		if err != nil {
			return err
		}

		// The raw key exists only here; print it so the operator can call
		// the API right away. Never do this outside the demo seed.
		log.Info("demo company seeded",
			zap.String("company_id", company.ID),
			zap.String("api_key", raw),
		)
		return nil
	})
}

var Module = fx.Module("seed",
	fx.Invoke(func(cfg config.Config, db *gorm.DB, apiKeySvc apikeydomain.Service, log *zap.Logger) error {
		if !cfg.SeedDemoCompany {
			return nil
		}
		return EnsureDemoCompany(db, apiKeySvc, log.Named("seed"))
	}),
)
