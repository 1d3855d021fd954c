package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	auditdomain "github.com/invomate/gstbill/internal/audit/domain"
	auditservice "github.com/invomate/gstbill/internal/audit/service"
	"github.com/invomate/gstbill/internal/companyctx"
	"github.com/invomate/gstbill/internal/customer/domain"
	customerrepository "github.com/invomate/gstbill/internal/customer/repository"
	invoicedomain "github.com/invomate/gstbill/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.Customer{},
		&invoicedomain.Invoice{},
		&auditdomain.AuditLog{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()

	auditSvc := auditservice.New(auditservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
	})

	svc := New(Params{
		DB:       db,
		Log:      log,
		Repo:     customerrepository.Provide(),
		AuditSvc: auditSvc,
	})
	return svc, db
}

func actingAs(companyID string) context.Context {
	return companyctx.WithCompanyID(context.Background(), companyID)
}

func TestCreateCustomer_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := actingAs("co_1")

	_, err := svc.Create(ctx, domain.CreateCustomerRequest{State: "Karnataka"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateCustomerRequest{Name: "Beta Traders"})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	customer, err := svc.Create(ctx, domain.CreateCustomerRequest{
		Name:  "  Beta Traders  ",
		State: "Karnataka",
	})
	require.NoError(t, err)
	assert.Equal(t, "Beta Traders", customer.Name)
	assert.Equal(t, "co_1", customer.CompanyID)
}

func TestDeleteCustomer_ReferencedByInvoiceConflicts(t *testing.T) {
	svc, db := newService(t)
	ctx := actingAs("co_1")

	customer, err := svc.Create(ctx, domain.CreateCustomerRequest{
		Name:  "Beta Traders",
		State: "Karnataka",
	})
	require.NoError(t, err)

	invoice := invoicedomain.Invoice{
		ID:            uuid.NewString(),
		CompanyID:     "co_1",
		CustomerID:    customer.ID,
		InvoiceNumber: "INV-100",
		Status:        invoicedomain.StatusPending,
		Version:       1,
	}
	require.NoError(t, db.Create(&invoice).Error)

	err = svc.Delete(ctx, customer.ID)
	assert.ErrorIs(t, err, domain.ErrInUse)

	// The customer record stays on file for the issued invoice.
	got, err := svc.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, got.ID)

	// Once the invoice is gone, deletion goes through.
	require.NoError(t, db.Delete(&invoicedomain.Invoice{}, "id = ?", invoice.ID).Error)
	require.NoError(t, svc.Delete(ctx, customer.ID))

	_, err = svc.GetByID(ctx, customer.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteCustomer_ScopedToOwner(t *testing.T) {
	svc, _ := newService(t)

	customer, err := svc.Create(actingAs("co_1"), domain.CreateCustomerRequest{
		Name:  "Beta Traders",
		State: "Karnataka",
	})
	require.NoError(t, err)

	err = svc.Delete(actingAs("co_2"), customer.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
