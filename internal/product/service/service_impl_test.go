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
	"github.com/invomate/gstbill/internal/product/domain"
	"github.com/invomate/gstbill/internal/product/repository"
	"github.com/invomate/gstbill/internal/tenancy"
	"github.com/shopspring/decimal"
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
	require.NoError(t, db.AutoMigrate(&domain.Product{}, &auditdomain.AuditLog{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()

	svc := New(Params{
		DB:   db,
		Log:  log,
		Repo: repository.Provide(),
		AuditSvc: auditservice.New(auditservice.Params{
			DB:    db,
			Log:   log,
			GenID: node,
		}),
	})
	return svc, db
}

func actingAs(companyID string) context.Context {
	return companyctx.WithCompanyID(context.Background(), companyID)
}

func TestCreateProduct_DefaultsAndValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := actingAs(uuid.NewString())

	product, err := svc.Create(ctx, domain.CreateProductRequest{
		Name:            "Widget",
		UnitPrice:       decimal.RequireFromString("100.00"),
		DefaultCGSTRate: decimal.RequireFromString("9"),
		DefaultSGSTRate: decimal.RequireFromString("9"),
		DefaultIGSTRate: decimal.RequireFromString("18"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "unit", product.UnitOfMeasure)

	_, err = svc.Create(ctx, domain.CreateProductRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateProductRequest{
		Name:      "Bad Price",
		UnitPrice: decimal.RequireFromString("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = svc.Create(ctx, domain.CreateProductRequest{
		Name:            "Bad Rate",
		UnitPrice:       decimal.RequireFromString("10"),
		DefaultCGSTRate: decimal.RequireFromString("-9"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRate)
}

func TestCreateProduct_RequiresActingCompany(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), domain.CreateProductRequest{
		Name:      "Widget",
		UnitPrice: decimal.RequireFromString("10"),
	})
	assert.ErrorIs(t, err, tenancy.ErrNoActingCompany)
}

func TestGetProduct_ScopedToOwner(t *testing.T) {
	svc, _ := newService(t)
	owner := uuid.NewString()

	product, err := svc.Create(actingAs(owner), domain.CreateProductRequest{
		Name:      "Widget",
		UnitPrice: decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	got, err := svc.GetByID(actingAs(owner), product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)

	_, err = svc.GetByID(actingAs(uuid.NewString()), product.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateProduct_PartialEdit(t *testing.T) {
	svc, _ := newService(t)
	ctx := actingAs(uuid.NewString())

	product, err := svc.Create(ctx, domain.CreateProductRequest{
		Name:            "Widget",
		UnitPrice:       decimal.RequireFromString("100.00"),
		DefaultCGSTRate: decimal.RequireFromString("9"),
		DefaultSGSTRate: decimal.RequireFromString("9"),
		DefaultIGSTRate: decimal.RequireFromString("18"),
	})
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("149.50")
	updated, err := svc.Update(ctx, domain.UpdateProductRequest{
		ID:        product.ID,
		UnitPrice: &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, "149.5", updated.UnitPrice.String())
	assert.Equal(t, "Widget", updated.Name)
	assert.Equal(t, "9", updated.DefaultCGSTRate.String())

	bad := decimal.RequireFromString("-5")
	_, err = svc.Update(ctx, domain.UpdateProductRequest{
		ID:        product.ID,
		UnitPrice: &bad,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestListProducts_CursorPagination(t *testing.T) {
	svc, _ := newService(t)
	ctx := actingAs(uuid.NewString())

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, domain.CreateProductRequest{
			Name:      fmt.Sprintf("Item %d", i),
			UnitPrice: decimal.RequireFromString("10.00"),
		})
		require.NoError(t, err)
	}

	first, err := svc.List(ctx, domain.ListProductRequest{PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, first.Products, 2)
	assert.True(t, first.HasMore)
	assert.NotEmpty(t, first.NextPageToken)
}

func TestDeleteProduct(t *testing.T) {
	svc, db := newService(t)
	ctx := actingAs(uuid.NewString())

	product, err := svc.Create(ctx, domain.CreateProductRequest{
		Name:      "Widget",
		UnitPrice: decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, product.ID))

	var count int64
	require.NoError(t, db.Model(&domain.Product{}).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, svc.Delete(ctx, product.ID), domain.ErrNotFound)
}
