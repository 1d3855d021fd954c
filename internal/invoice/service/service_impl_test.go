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
	companydomain "github.com/invomate/gstbill/internal/company/domain"
	companyrepository "github.com/invomate/gstbill/internal/company/repository"
	"github.com/invomate/gstbill/internal/companyctx"
	customerdomain "github.com/invomate/gstbill/internal/customer/domain"
	customerrepository "github.com/invomate/gstbill/internal/customer/repository"
	"github.com/invomate/gstbill/internal/invoice/domain"
	invoicerepository "github.com/invomate/gstbill/internal/invoice/repository"
	productdomain "github.com/invomate/gstbill/internal/product/domain"
	productrepository "github.com/invomate/gstbill/internal/product/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db  *gorm.DB
	svc domain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&companydomain.Company{},
		&customerdomain.Customer{},
		&productdomain.Product{},
		&domain.Invoice{},
		&domain.InvoiceItem{},
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
		DB:           db,
		Log:          log,
		Repo:         invoicerepository.Provide(),
		CompanyRepo:  companyrepository.Provide(),
		CustomerRepo: customerrepository.Provide(),
		ProductRepo:  productrepository.Provide(),
		AuditSvc:     auditSvc,
	})

	return &fixture{db: db, svc: svc}
}

func (f *fixture) seedCompany(t *testing.T, name, state, gstin string) (string, context.Context) {
	t.Helper()
	company := companydomain.Company{
		ID:      uuid.NewString(),
		Name:    name,
		Address: "14 MG Road",
		State:   state,
		GSTIN:   gstin,
	}
	require.NoError(t, f.db.Create(&company).Error)
	return company.ID, companyctx.WithCompanyID(context.Background(), company.ID)
}

func (f *fixture) seedCustomer(t *testing.T, companyID, name, state, gstin string) string {
	t.Helper()
	customer := customerdomain.Customer{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		Name:      name,
		State:     state,
		GSTIN:     gstin,
	}
	require.NoError(t, f.db.Create(&customer).Error)
	return customer.ID
}

func (f *fixture) seedProduct(t *testing.T, companyID, name string, price string, cgst, sgst, igst string) string {
	t.Helper()
	product := productdomain.Product{
		ID:              uuid.NewString(),
		CompanyID:       companyID,
		Name:            name,
		UnitOfMeasure:   "unit",
		UnitPrice:       decimal.RequireFromString(price),
		DefaultCGSTRate: decimal.RequireFromString(cgst),
		DefaultSGSTRate: decimal.RequireFromString(sgst),
		DefaultIGSTRate: decimal.RequireFromString(igst),
	}
	require.NoError(t, f.db.Create(&product).Error)
	return product.ID
}

func TestCreate_IntrastateSplitsCGSTSGST(t *testing.T) {
	f := newFixture(t)
	companyID, ctx := f.seedCompany(t, "Acme Pvt Ltd", "Karnataka", "29AAACA1111A1Z5")
	customerID := f.seedCustomer(t, companyID, "Beta Traders", "Karnataka", "")
	productID := f.seedProduct(t, companyID, "Widget", "100.00", "9", "9", "18")

	inv, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		CustomerID:    customerID,
		InvoiceNumber: "INV-001",
		Items:         []domain.LineInput{{ProductID: productID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, "200", inv.Subtotal.String())
	assert.Equal(t, "18", inv.TotalCGST.String())
	assert.Equal(t, "18", inv.TotalSGST.String())
	assert.True(t, inv.TotalIGST.IsZero())
	assert.Equal(t, "236", inv.GrandTotal.String())
	assert.Equal(t, domain.StatusPending, inv.Status)
	assert.Equal(t, "Karnataka", inv.PlaceOfSupply)
	assert.Equal(t, int64(1), inv.Version)

	require.Len(t, inv.Items, 1)
	item := inv.Items[0]
	assert.Equal(t, "9", item.CGSTRate.String())
	assert.Equal(t, "9", item.SGSTRate.String())
	assert.True(t, item.IGSTRate.IsZero())
	assert.Equal(t, "236", item.LineTotal.String())

	// Persisted header must match what was returned.
	var stored domain.Invoice
	require.NoError(t, f.db.First(&stored, "id = ?", inv.ID).Error)
	assert.Equal(t, "236", stored.GrandTotal.String())
}

func TestCreate_InterstateUsesIGSTOnly(t *testing.T) {
	f := newFixture(t)
	companyID, ctx := f.seedCompany(t, "Acme Pvt Ltd", "Karnataka", "29AAACA1111A1Z5")
	customerID := f.seedCustomer(t, companyID, "Gamma Industries", "Maharashtra", "")
	productID := f.seedProduct(t, companyID, "Widget", "100.00", "9", "9", "18")

	inv, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		CustomerID:    customerID,
		InvoiceNumber: "INV-002",
		Items:         []domain.LineInput{{ProductID: productID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, "200", inv.Subtotal.String())
	assert.True(t, inv.TotalCGST.IsZero())
	assert.True(t, inv.TotalSGST.IsZero())
	assert.Equal(t, "36", inv.TotalIGST.String())
	assert.Equal(t, "236", inv.GrandTotal.String())
	assert.Equal(t, "Maharashtra", inv.PlaceOfSupply)
}

func TestCreate_MixedLinesSumIntoHeader(t *testing.T) {
	f := newFixture(t)
	companyID, ctx := f.seedCompany(t, "Acme Pvt Ltd", "Karnataka", "29AAACA1111A1Z5")
	customerID := f.seedCustomer(t, companyID, "Beta Traders", "Karnataka", "")
	widget := f.seedProduct(t, companyID, "Widget", "100.00", "9", "9", "18")
	install := f.seedProduct(t, companyID, "Install", "300.00", "6", "6", "12")

	inv, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		CustomerID:    customerID,
		InvoiceNumber: "INV-003",
		Items: []domain.LineInput{
			{ProductID: widget, Quantity: 2},
			{ProductID: install, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "500", inv.Subtotal.String())
	assert.Equal(t, "36", inv.TotalCGST.String())
	assert.Equal(t, "36", inv.TotalSGST.String())
	assert.True(t, inv.TotalIGST.IsZero())
	assert.Equal(t, "572", inv.GrandTotal.String())
	require.Len(t, inv.Items, 2)
	assert.Equal(t, 1, inv.Items[0].Position)
	assert.Equal(t, 2, inv.Items[1].Position)
}

func TestCreate_UnknownProductRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	companyID, ctx := f.seedCompany(t, "Acme Pvt Ltd", "Karnataka", "29AAACA1111A1Z5")
	customerID := f.seedCustomer(t, companyID, "Beta Traders", "Karnataka", "")
	productID := f.seedProduct(t, companyID, "Widget", "100.00", "9", "9", "18")

	otherCompanyID, _ := f.seedCompany(t, "Rival Ltd", "Kerala", "32BBBCB2222B2Z6")
	foreignProduct := f.seedProduct(t, otherCompanyID, "Foreign", "50.00", "9", "9", "18")

	_, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		CustomerID:    customerID,
		InvoiceNumber: "INV-004",
		Items: []domain.LineInput{
			{ProductID: productID, Quantity: 1},
			{ProductID: foreignProduct, Quantity: 1},
		},
	})
	var missing *domain.MissingProductsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{foreignProduct}, missing.IDs)

	var headerCount, itemCount int64
	require.NoError(t, f.db.Model(&domain.Invoice{}).Count(&headerCount).Error)
	require.NoError(t, f.db.Model(&domain.InvoiceItem{}).Count(&itemCount).Error)
	assert.Zero(t, headerCount)
	assert.Zero(t, itemCount)
}

func TestCreate_ZeroQuantityRejected(t *testing.T) {
	f := newFixture(t)
	companyID, ctx := f.seedCompany(t, "Acme Pvt Ltd", "Karnataka", "29AAACA1111A1Z5")
	customerID := f.seedCustomer(t, companyID, "Beta Traders", "Karnataka", "")
	productID := f.seedProduct(t, companyID, "Widget", "100.00", "9", "9", "18")

	_, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		CustomerID:    customerID,
		InvoiceNumber: "INV-005",
		Items:         []domain.LineInput{{ProductID: productID, Quantity: 0}},
	})
	require.Error(t, err)
}

func TestCreate_EmptyItemsRejected(t *testing.T) {
	f := newFixture(t)
	companyID, ctx := f.seedCompany(t, "Acme Pvt Ltd", "Karnataka", "29AAACA1111A1Z5")
	customerID := f.seedCustomer(t, companyID, "Beta Traders", "Karnataka", "")

	_, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		CustomerID:    customerID,
		InvoiceNumber: "INV-006",
	})
	assert.ErrorIs(t, err, domain.ErrEmptyItems)
}

func TestCreate_DuplicateNumberWithinCompanyRejected(t *testing.T) {
	f := newFixture(t)
	companyID, ctx := f.seedCompany(t, "Acme Pvt Ltd", "Karnataka", "29AAACA1111A1Z5")
	customerID := f.seedCustomer(t, companyID, "Beta Traders", "Karnataka", "")
	productID := f.seedProduct(t, companyID, "Widget", "100.00", "9", "9", "18")

	req := domain.CreateInvoiceRequest{
		CustomerID:    customerID,
		InvoiceNumber: "INV-007",
		Items:         []domain.LineInput{{ProductID: productID, Quantity: 1}},
	}
	_, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrNumberTaken)
}

func TestSnapshot_ProductEditDoesNotTouchIssuedInvoice(t *testing.T) {
	f := newFixture(t)
	companyID, ctx := f.seedCompany(t, "Acme Pvt Ltd", "Karnataka", "29AAACA1111A1Z5")
	customerID := f.seedCustomer(t, companyID, "Beta Traders", "Karnataka", "")
	productID := f.seedProduct(t, companyID, "Widget", "100.00", "9", "9", "18")

	inv, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		CustomerID:    customerID,
		InvoiceNumber: "INV-008",
		Items:         []domain.LineInput{{ProductID: productID, Quantity: 2}},
	})
	require.NoError(t, err)

	// Reprice the product and double its rates.
	require.NoError(t, f.db.Model(&productdomain.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"unit_price":        "999.00",
			"default_cgst_rate": "18",
			"default_sgst_rate": "18",
		}).Error)

	got, err := f.svc.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "236", got.GrandTotal.String())
	require.Len(t, got.Items, 1)
	assert.Equal(t, "100", got.Items[0].UnitPrice.String())
	assert.Equal(t, "9", got.Items[0].CGSTRate.String())
}

func TestReplaceItems_RecomputesTotalsAndBumpsVersion(t *testing.T) {
	f := newFixture(t)
	companyID, ctx := f.seedCompany(t, "Acme Pvt Ltd", "Karnataka", "29AAACA1111A1Z5")
	customerID := f.seedCustomer(t, companyID, "Beta Traders", "Karnataka", "")
	widget := f.seedProduct(t, companyID, "Widget", "100.00", "9", "9", "18")
	gadget := f.seedProduct(t, companyID, "Gadget", "250.00", "6", "6", "12")

	inv, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		CustomerID:    customerID,
		InvoiceNumber: "INV-009",
		Items:         []domain.LineInput{{ProductID: widget, Quantity: 2}},
	})
	require.NoError(t, err)

	updated, err := f.svc.ReplaceItems(ctx, domain.ReplaceItemsRequest{
		InvoiceID: inv.ID,
		Version:   inv.Version,
		Items:     []domain.LineInput{{ProductID: gadget, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, "250", updated.Subtotal.String())
	assert.Equal(t, "15", updated.TotalCGST.String())
	assert.Equal(t, "15", updated.TotalSGST.String())
	assert.Equal(t, "280", updated.GrandTotal.String())
	assert.Equal(t, inv.Version+1, updated.Version)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Gadget", updated.Items[0].ProductName)

	// Old lines are gone, not orphaned.
	var itemCount int64
	require.NoError(t, f.db.Model(&domain.InvoiceItem{}).
		Where("invoice_id = ?", inv.ID).Count(&itemCount).Error)
	assert.Equal(t, int64(1), itemCount)
}

func TestReplaceItems_StaleVersionConflicts(t *testing.T) {
	f := newFixture(t)
	companyID, ctx := f.seedCompany(t, "Acme Pvt Ltd", "Karnataka", "29AAACA1111A1Z5")
	customerID := f.seedCustomer(t, companyID, "Beta Traders", "Karnataka", "")
	widget := f.seedProduct(t, companyID, "Widget", "100.00", "9", "9", "18")

	inv, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		CustomerID:    customerID,
		InvoiceNumber: "INV-010",
		Items:         []domain.LineInput{{ProductID: widget, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.svc.ReplaceItems(ctx, domain.ReplaceItemsRequest{
		InvoiceID: inv.ID,
		Version:   inv.Version,
		Items:     []domain.LineInput{{ProductID: widget, Quantity: 2}},
	})
	require.NoError(t, err)

	// Replaying with the original version must fail.
	_, err = f.svc.ReplaceItems(ctx, domain.ReplaceItemsRequest{
		InvoiceID: inv.ID,
		Version:   inv.Version,
		Items:     []domain.LineInput{{ProductID: widget, Quantity: 3}},
	})
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
}

func TestReplaceItems_PaidInvoiceNotEditable(t *testing.T) {
	f := newFixture(t)
	companyID, ctx := f.seedCompany(t, "Acme Pvt Ltd", "Karnataka", "29AAACA1111A1Z5")
	customerID := f.seedCustomer(t, companyID, "Beta Traders", "Karnataka", "")
	widget := f.seedProduct(t, companyID, "Widget", "100.00", "9", "9", "18")

	inv, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		CustomerID:    customerID,
		InvoiceNumber: "INV-011",
		Items:         []domain.LineInput{{ProductID: widget, Quantity: 1}},
	})
	require.NoError(t, err)

	paid := domain.StatusPaid
	updated, err := f.svc.Update(ctx, domain.UpdateInvoiceRequest{
		ID:      inv.ID,
		Version: inv.Version,
		Status:  &paid,
	})
	require.NoError(t, err)

	_, err = f.svc.ReplaceItems(ctx, domain.ReplaceItemsRequest{
		InvoiceID: inv.ID,
		Version:   updated.Version,
		Items:     []domain.LineInput{{ProductID: widget, Quantity: 5}},
	})
	assert.ErrorIs(t, err, domain.ErrNotEditable)
}

func TestUpdate_StatusLifecycleEnforced(t *testing.T) {
	f := newFixture(t)
	companyID, ctx := f.seedCompany(t, "Acme Pvt Ltd", "Karnataka", "29AAACA1111A1Z5")
	customerID := f.seedCustomer(t, companyID, "Beta Traders", "Karnataka", "")
	widget := f.seedProduct(t, companyID, "Widget", "100.00", "9", "9", "18")

	inv, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		CustomerID:    customerID,
		InvoiceNumber: "INV-012",
		Items:         []domain.LineInput{{ProductID: widget, Quantity: 1}},
	})
	require.NoError(t, err)

	paid := domain.StatusPaid
	updated, err := f.svc.Update(ctx, domain.UpdateInvoiceRequest{
		ID:      inv.ID,
		Version: inv.Version,
		Status:  &paid,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, updated.Status)

	// Paid is terminal.
	pending := domain.StatusPending
	_, err = f.svc.Update(ctx, domain.UpdateInvoiceRequest{
		ID:      inv.ID,
		Version: updated.Version,
		Status:  &pending,
	})
	assert.ErrorIs(t, err, domain.ErrStatusTransition)
}

func TestGetByID_CrossTenantReadsAsNotFound(t *testing.T) {
	f := newFixture(t)
	companyID, ctx := f.seedCompany(t, "Acme Pvt Ltd", "Karnataka", "29AAACA1111A1Z5")
	customerID := f.seedCustomer(t, companyID, "Beta Traders", "Karnataka", "")
	widget := f.seedProduct(t, companyID, "Widget", "100.00", "9", "9", "18")

	inv, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		CustomerID:    customerID,
		InvoiceNumber: "INV-013",
		Items:         []domain.LineInput{{ProductID: widget, Quantity: 1}},
	})
	require.NoError(t, err)

	_, otherCtx := f.seedCompany(t, "Rival Ltd", "Kerala", "32BBBCB2222B2Z6")
	_, err = f.svc.GetByID(otherCtx, inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByID_BilledCompanySeesInvoiceViaGSTIN(t *testing.T) {
	f := newFixture(t)
	sellerID, sellerCtx := f.seedCompany(t, "Acme Pvt Ltd", "Karnataka", "29AAACA1111A1Z5")
	_, buyerCtx := f.seedCompany(t, "Buyer Corp", "Maharashtra", "27CCCDC3333C3Z7")
	customerID := f.seedCustomer(t, sellerID, "Buyer Corp", "Maharashtra", "27CCCDC3333C3Z7")
	widget := f.seedProduct(t, sellerID, "Widget", "100.00", "9", "9", "18")

	inv, err := f.svc.Create(sellerCtx, domain.CreateInvoiceRequest{
		CustomerID:    customerID,
		InvoiceNumber: "INV-014",
		Items:         []domain.LineInput{{ProductID: widget, Quantity: 1}},
	})
	require.NoError(t, err)

	got, err := f.svc.GetByID(buyerCtx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, got.ID)
	assert.Equal(t, "118", got.GrandTotal.String())
}

func TestList_RoleFiltersOwnerAndCustomerSides(t *testing.T) {
	f := newFixture(t)
	sellerID, sellerCtx := f.seedCompany(t, "Acme Pvt Ltd", "Karnataka", "29AAACA1111A1Z5")
	buyerID, buyerCtx := f.seedCompany(t, "Buyer Corp", "Maharashtra", "27CCCDC3333C3Z7")
	sellerCustomer := f.seedCustomer(t, sellerID, "Buyer Corp", "Maharashtra", "27CCCDC3333C3Z7")
	widget := f.seedProduct(t, sellerID, "Widget", "100.00", "9", "9", "18")

	buyerCustomer := f.seedCustomer(t, buyerID, "Someone Else", "Gujarat", "")
	buyerProduct := f.seedProduct(t, buyerID, "Service", "500.00", "9", "9", "18")

	_, err := f.svc.Create(sellerCtx, domain.CreateInvoiceRequest{
		CustomerID:    sellerCustomer,
		InvoiceNumber: "INV-015",
		Items:         []domain.LineInput{{ProductID: widget, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.svc.Create(buyerCtx, domain.CreateInvoiceRequest{
		CustomerID:    buyerCustomer,
		InvoiceNumber: "INV-016",
		Items:         []domain.LineInput{{ProductID: buyerProduct, Quantity: 1}},
	})
	require.NoError(t, err)

	asOwner, err := f.svc.List(buyerCtx, domain.ListInvoiceRequest{Role: domain.RoleOwner})
	require.NoError(t, err)
	require.Len(t, asOwner.Invoices, 1)
	assert.Equal(t, "INV-016", asOwner.Invoices[0].InvoiceNumber)

	asCustomer, err := f.svc.List(buyerCtx, domain.ListInvoiceRequest{Role: domain.RoleCustomer})
	require.NoError(t, err)
	require.Len(t, asCustomer.Invoices, 1)
	assert.Equal(t, "INV-015", asCustomer.Invoices[0].InvoiceNumber)

	either, err := f.svc.List(buyerCtx, domain.ListInvoiceRequest{Role: domain.RoleEither})
	require.NoError(t, err)
	assert.Len(t, either.Invoices, 2)
}

func TestDelete_RemovesHeaderAndItems(t *testing.T) {
	f := newFixture(t)
	companyID, ctx := f.seedCompany(t, "Acme Pvt Ltd", "Karnataka", "29AAACA1111A1Z5")
	customerID := f.seedCustomer(t, companyID, "Beta Traders", "Karnataka", "")
	widget := f.seedProduct(t, companyID, "Widget", "100.00", "9", "9", "18")

	inv, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		CustomerID:    customerID,
		InvoiceNumber: "INV-017",
		Items:         []domain.LineInput{{ProductID: widget, Quantity: 2}},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, inv.ID))

	var headerCount, itemCount int64
	require.NoError(t, f.db.Model(&domain.Invoice{}).Count(&headerCount).Error)
	require.NoError(t, f.db.Model(&domain.InvoiceItem{}).Where("invoice_id = ?", inv.ID).Count(&itemCount).Error)
	assert.Zero(t, headerCount)
	assert.Zero(t, itemCount)
}

func TestCreate_PaiseRoundingPerLine(t *testing.T) {
	f := newFixture(t)
	companyID, ctx := f.seedCompany(t, "Acme Pvt Ltd", "Karnataka", "29AAACA1111A1Z5")
	customerID := f.seedCustomer(t, companyID, "Beta Traders", "Karnataka", "")
	productID := f.seedProduct(t, companyID, "Odd Widget", "33.33", "9", "9", "18")

	inv, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		CustomerID:    customerID,
		InvoiceNumber: "INV-018",
		Items:         []domain.LineInput{{ProductID: productID, Quantity: 3}},
	})
	require.NoError(t, err)

	// 33.33 * 3 = 99.99; 9% of that rounds to 9.00 per component.
	assert.Equal(t, "99.99", inv.Subtotal.String())
	assert.Equal(t, "9", inv.TotalCGST.String())
	assert.Equal(t, "9", inv.TotalSGST.String())
	assert.Equal(t, "117.99", inv.GrandTotal.String())
}

func TestReplaceItems_ForeignProductRollsBackWholeReplacement(t *testing.T) {
	f := newFixture(t)
	companyID, ctx := f.seedCompany(t, "Acme Pvt Ltd", "Karnataka", "29AAACA1111A1Z5")
	customerID := f.seedCustomer(t, companyID, "Beta Traders", "Karnataka", "")
	widget := f.seedProduct(t, companyID, "Widget", "100.00", "9", "9", "18")

	otherCompanyID, _ := f.seedCompany(t, "Rival Ltd", "Kerala", "32BBBCB2222B2Z6")
	foreignProduct := f.seedProduct(t, otherCompanyID, "Foreign", "50.00", "9", "9", "18")

	inv, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		CustomerID:    customerID,
		InvoiceNumber: "INV-019",
		Items:         []domain.LineInput{{ProductID: widget, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = f.svc.ReplaceItems(ctx, domain.ReplaceItemsRequest{
		InvoiceID: inv.ID,
		Version:   inv.Version,
		Items: []domain.LineInput{
			{ProductID: widget, Quantity: 1},
			{ProductID: foreignProduct, Quantity: 1},
		},
	})
	var missing *domain.MissingProductsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{foreignProduct}, missing.IDs)

	// The original lines, totals and version survive untouched.
	got, err := f.svc.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "236", got.GrandTotal.String())
	assert.Equal(t, inv.Version, got.Version)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Widget", got.Items[0].ProductName)
	assert.Equal(t, int64(2), got.Items[0].Quantity)
}

func TestReplaceItems_IdenticalItemsYieldIdenticalInvoice(t *testing.T) {
	f := newFixture(t)
	companyID, ctx := f.seedCompany(t, "Acme Pvt Ltd", "Karnataka", "29AAACA1111A1Z5")
	customerID := f.seedCustomer(t, companyID, "Beta Traders", "Karnataka", "")
	widget := f.seedProduct(t, companyID, "Widget", "100.00", "9", "9", "18")

	inv, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		CustomerID:    customerID,
		InvoiceNumber: "INV-020",
		Items:         []domain.LineInput{{ProductID: widget, Quantity: 2}},
	})
	require.NoError(t, err)

	items := []domain.LineInput{{ProductID: widget, Quantity: 2}}
	first, err := f.svc.ReplaceItems(ctx, domain.ReplaceItemsRequest{
		InvoiceID: inv.ID,
		Version:   inv.Version,
		Items:     items,
	})
	require.NoError(t, err)

	second, err := f.svc.ReplaceItems(ctx, domain.ReplaceItemsRequest{
		InvoiceID: inv.ID,
		Version:   first.Version,
		Items:     items,
	})
	require.NoError(t, err)

	// Replaying the same line set reproduces every figure; only the
	// version advances.
	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.TotalCGST.Equal(second.TotalCGST))
	assert.True(t, first.TotalSGST.Equal(second.TotalSGST))
	assert.True(t, first.TotalIGST.Equal(second.TotalIGST))
	assert.True(t, first.GrandTotal.Equal(second.GrandTotal))
	assert.Equal(t, "236", second.GrandTotal.String())
	assert.Equal(t, first.Version+1, second.Version)

	require.Len(t, second.Items, 1)
	assert.Equal(t, first.Items[0].UnitPrice.String(), second.Items[0].UnitPrice.String())
	assert.Equal(t, first.Items[0].CGSTRate.String(), second.Items[0].CGSTRate.String())
	assert.Equal(t, first.Items[0].LineTotal.String(), second.Items[0].LineTotal.String())
}
