package migration

import (
	apikeydomain "github.com/invomate/gstbill/internal/apikey/domain"
	auditdomain "github.com/invomate/gstbill/internal/audit/domain"
	companydomain "github.com/invomate/gstbill/internal/company/domain"
	"github.com/invomate/gstbill/internal/config"
	customerdomain "github.com/invomate/gstbill/internal/customer/domain"
	invoicedomain "github.com/invomate/gstbill/internal/invoice/domain"
	productdomain "github.com/invomate/gstbill/internal/product/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// The SQL migrations are written for postgres. Other dialects (sqlite
		// for local development, mysql) derive the schema from the models.
		if cfg.DBType != "postgres" {
			return conn.AutoMigrate(
				&companydomain.Company{},
				&apikeydomain.APIKey{},
				&customerdomain.Customer{},
				&productdomain.Product{},
				&invoicedomain.Invoice{},
				&invoicedomain.InvoiceItem{},
				&auditdomain.AuditLog{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
