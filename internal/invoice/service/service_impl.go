package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	auditdomain "github.com/invomate/gstbill/internal/audit/domain"
	companydomain "github.com/invomate/gstbill/internal/company/domain"
	customerdomain "github.com/invomate/gstbill/internal/customer/domain"
	"github.com/invomate/gstbill/internal/gst"
	"github.com/invomate/gstbill/internal/invoice/domain"
	productdomain "github.com/invomate/gstbill/internal/product/domain"
	"github.com/invomate/gstbill/internal/tenancy"
	"github.com/invomate/gstbill/pkg/db"
	"github.com/invomate/gstbill/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Repo         domain.Repository
	CompanyRepo  companydomain.Repository
	CustomerRepo customerdomain.Repository
	ProductRepo  productdomain.Repository
	AuditSvc     auditdomain.Service
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	repo         domain.Repository
	companyRepo  companydomain.Repository
	customerRepo customerdomain.Repository
	productRepo  productdomain.Repository
	auditSvc     auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("invoice.service"),
		repo:         p.Repo,
		companyRepo:  p.CompanyRepo,
		customerRepo: p.CustomerRepo,
		productRepo:  p.ProductRepo,
		auditSvc:     p.AuditSvc,
	}
}

// assembled is the outcome of one assembly run: fully derived items in input
// order plus the header totals summed from them.
type assembled struct {
	items         []*domain.InvoiceItem
	totals        gst.Totals
	placeOfSupply string
}

// assemble resolves every line's product inside the given transaction,
// snapshots price and rates, computes amounts and sums the totals. It is
// all-or-nothing: any unknown or foreign product id fails the whole run.
func (s *Service) assemble(ctx context.Context, tx *gorm.DB, companyID, invoiceID string, customer *customerdomain.Customer, inputs []domain.LineInput) (assembled, error) {
	company, err := s.companyRepo.FindByID(ctx, tx, companyID)
	if err != nil {
		return assembled{}, err
	}
	if company == nil {
		return assembled{}, tenancy.ErrNoActingCompany
	}

	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, tx, companyID, ids)
	if err != nil {
		return assembled{}, err
	}

	missing := tenancy.AssertAllOwned(ids, products, companyID)
	if len(missing) > 0 {
		sort.Strings(missing)
		return assembled{}, &domain.MissingProductsError{IDs: missing}
	}

	now := time.Now().UTC()
	items := make([]*domain.InvoiceItem, 0, len(inputs))
	computations := make([]gst.LineComputation, 0, len(inputs))
	for i, in := range inputs {
		product := products[in.ProductID]
		rates := gst.Resolve(company.State, customer.State, product.DefaultRates())
		comp, err := gst.ComputeLine(product.UnitPrice, in.Quantity, rates)
		if err != nil {
			return assembled{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		items = append(items, &domain.InvoiceItem{
			ID:            uuid.NewString(),
			InvoiceID:     invoiceID,
			CompanyID:     companyID,
			ProductID:     product.ID,
			Position:      i + 1,
			ProductName:   product.Name,
			HSNSACCode:    product.HSNSACCode,
			UnitOfMeasure: product.UnitOfMeasure,
			Quantity:      in.Quantity,
			UnitPrice:     product.UnitPrice,
			CGSTRate:      rates.CGST,
			SGSTRate:      rates.SGST,
			IGSTRate:      rates.IGST,
			TaxableValue:  comp.Base,
			CGSTAmount:    comp.CGSTAmount,
			SGSTAmount:    comp.SGSTAmount,
			IGSTAmount:    comp.IGSTAmount,
			LineTotal:     comp.LineTotal,
			CreatedAt:     now,
		})
		computations = append(computations, comp)
	}

	totals := gst.Aggregate(computations)

	// Re-derive every line from its snapshot fields before commit; a mismatch
	// here means the stored breakdown would not reproduce the header sums.
	rederived := make([]gst.LineComputation, 0, len(items))
	for _, item := range items {
		comp, err := item.Computation()
		if err != nil {
			return assembled{}, err
		}
		rederived = append(rederived, comp)
	}
	if !totals.Reconciles(rederived) {
		s.log.Error("invoice totals failed reconciliation",
			zap.String("invoice_id", invoiceID),
			zap.String("company_id", companyID))
		return assembled{}, domain.ErrTotalsMismatch
	}

	return assembled{
		items:         items,
		totals:        totals,
		placeOfSupply: customer.State,
	}, nil
}

func applyTotals(invoice *domain.Invoice, totals gst.Totals) {
	invoice.Subtotal = totals.Subtotal
	invoice.TotalCGST = totals.TotalCGST
	invoice.TotalSGST = totals.TotalSGST
	invoice.TotalIGST = totals.TotalIGST
	invoice.GrandTotal = totals.GrandTotal
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	companyID, err := tenancy.ActingCompany(ctx)
	if err != nil {
		return domain.Invoice{}, err
	}

	number := strings.TrimSpace(req.InvoiceNumber)
	if number == "" {
		return domain.Invoice{}, domain.ErrInvalidNumber
	}
	if len(req.Items) == 0 {
		return domain.Invoice{}, domain.ErrEmptyItems
	}

	issueDate := time.Now().UTC()
	if req.IssueDate != nil {
		issueDate = req.IssueDate.UTC()
	}

	var invoice domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.customerRepo.FindByID(ctx, tx, companyID, strings.TrimSpace(req.CustomerID))
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrCustomerNotFound
		}

		invoiceID := uuid.NewString()
		result, err := s.assemble(ctx, tx, companyID, invoiceID, customer, req.Items)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		invoice = domain.Invoice{
			ID:            invoiceID,
			CompanyID:     companyID,
			CustomerID:    customer.ID,
			InvoiceNumber: number,
			Status:        domain.StatusPending,
			IssueDate:     issueDate,
			DueDate:       req.DueDate,
			PlaceOfSupply: result.placeOfSupply,
			Terms:         strings.TrimSpace(req.Terms),
			Notes:         strings.TrimSpace(req.Notes),
			Version:       1,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		applyTotals(&invoice, result.totals)

		if err := s.repo.InsertInvoice(ctx, tx, &invoice); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrNumberTaken
			}
			return fmt.Errorf("insert invoice: %w", err)
		}
		if err := s.repo.InsertItems(ctx, tx, result.items); err != nil {
			return fmt.Errorf("insert invoice items: %w", err)
		}

		for _, item := range result.items {
			invoice.Items = append(invoice.Items, *item)
		}
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	targetID := invoice.ID
	_ = s.auditSvc.AuditLog(ctx, companyID, "invoice.created", "invoice", &targetID, map[string]any{
		"invoice_number": invoice.InvoiceNumber,
		"grand_total":    invoice.GrandTotal.String(),
		"items":          len(invoice.Items),
	})

	return invoice, nil
}

// ReplaceItems swaps the full item set and recomputes totals in one
// transaction. Only pending invoices are editable, and the caller must hold
// the current version.
func (s *Service) ReplaceItems(ctx context.Context, req domain.ReplaceItemsRequest) (domain.Invoice, error) {
	companyID, err := tenancy.ActingCompany(ctx)
	if err != nil {
		return domain.Invoice{}, err
	}

	id := strings.TrimSpace(req.InvoiceID)
	if id == "" {
		return domain.Invoice{}, domain.ErrInvalidID
	}
	if len(req.Items) == 0 {
		return domain.Invoice{}, domain.ErrEmptyItems
	}

	var invoice domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing == nil || tenancy.AssertOwned(existing, companyID) != nil {
			return domain.ErrNotFound
		}
		if existing.Status != domain.StatusPending {
			return domain.ErrNotEditable
		}

		customer, err := s.customerRepo.FindByID(ctx, tx, companyID, existing.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrCustomerNotFound
		}

		result, err := s.assemble(ctx, tx, companyID, existing.ID, customer, req.Items)
		if err != nil {
			return err
		}

		existing.PlaceOfSupply = result.placeOfSupply
		existing.UpdatedAt = time.Now().UTC()
		applyTotals(existing, result.totals)

		affected, err := s.repo.UpdateCAS(ctx, tx, existing, req.Version)
		if err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		if affected == 0 {
			return domain.ErrVersionConflict
		}
		if err := s.repo.DeleteItems(ctx, tx, existing.ID); err != nil {
			return fmt.Errorf("delete invoice items: %w", err)
		}
		if err := s.repo.InsertItems(ctx, tx, result.items); err != nil {
			return fmt.Errorf("insert invoice items: %w", err)
		}

		invoice = *existing
		for _, item := range result.items {
			invoice.Items = append(invoice.Items, *item)
		}
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	targetID := invoice.ID
	_ = s.auditSvc.AuditLog(ctx, companyID, "invoice.items_replaced", "invoice", &targetID, map[string]any{
		"grand_total": invoice.GrandTotal.String(),
		"items":       len(invoice.Items),
	})

	return invoice, nil
}

// Update edits header metadata. Totals and items never change here, so a
// status flip cannot drift the money fields.
func (s *Service) Update(ctx context.Context, req domain.UpdateInvoiceRequest) (domain.Invoice, error) {
	companyID, err := tenancy.ActingCompany(ctx)
	if err != nil {
		return domain.Invoice{}, err
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		return domain.Invoice{}, domain.ErrInvalidID
	}

	var invoice domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing == nil || tenancy.AssertOwned(existing, companyID) != nil {
			return domain.ErrNotFound
		}

		if req.Status != nil {
			next := *req.Status
			if !next.Valid() {
				return domain.ErrInvalidStatus
			}
			if !existing.Status.CanTransitionTo(next) {
				return domain.ErrStatusTransition
			}
			existing.Status = next
		}
		if req.DueDate != nil {
			existing.DueDate = req.DueDate
		}
		if req.Terms != nil {
			existing.Terms = strings.TrimSpace(*req.Terms)
		}
		if req.Notes != nil {
			existing.Notes = strings.TrimSpace(*req.Notes)
		}
		existing.UpdatedAt = time.Now().UTC()

		affected, err := s.repo.UpdateCAS(ctx, tx, existing, req.Version)
		if err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		if affected == 0 {
			return domain.ErrVersionConflict
		}

		invoice = *existing
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	targetID := invoice.ID
	_ = s.auditSvc.AuditLog(ctx, companyID, "invoice.updated", "invoice", &targetID, map[string]any{
		"status": string(invoice.Status),
	})

	return invoice, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Invoice, error) {
	companyID, err := tenancy.ActingCompany(ctx)
	if err != nil {
		return domain.Invoice{}, err
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Invoice{}, domain.ErrInvalidID
	}

	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	if invoice.CompanyID != companyID {
		visible, err := s.billedTo(ctx, invoice, companyID)
		if err != nil {
			return domain.Invoice{}, err
		}
		if !visible {
			// Cross-tenant lookups are indistinguishable from absent ids.
			return domain.Invoice{}, domain.ErrNotFound
		}
	}

	items, err := s.repo.FindItems(ctx, s.db, invoice.ID)
	if err != nil {
		return domain.Invoice{}, err
	}
	for _, item := range items {
		invoice.Items = append(invoice.Items, *item)
	}

	return *invoice, nil
}

// billedTo reports whether the acting company is the billed party of the
// invoice, matched by GSTIN between the acting company and the invoice's
// customer record.
func (s *Service) billedTo(ctx context.Context, invoice *domain.Invoice, companyID string) (bool, error) {
	acting, err := s.companyRepo.FindByID(ctx, s.db, companyID)
	if err != nil {
		return false, err
	}
	if acting == nil || acting.GSTIN == "" {
		return false, nil
	}
	customer, err := s.customerRepo.FindByID(ctx, s.db, invoice.CompanyID, invoice.CustomerID)
	if err != nil {
		return false, err
	}
	return customer != nil && customer.GSTIN != "" && customer.GSTIN == acting.GSTIN, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	companyID, err := tenancy.ActingCompany(ctx)
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	role := req.Role
	if role == "" {
		role = domain.RoleOwner
	}

	filter := domain.ListFilter{
		Status:     req.Status,
		CustomerID: strings.TrimSpace(req.CustomerID),
	}
	switch role {
	case domain.RoleOwner:
		filter.OwnerCompanyID = companyID
	case domain.RoleCustomer, domain.RoleEither:
		acting, err := s.companyRepo.FindByID(ctx, s.db, companyID)
		if err != nil {
			return domain.ListInvoiceResponse{}, err
		}
		if acting != nil {
			filter.CustomerGSTIN = acting.GSTIN
		}
		if role == domain.RoleEither {
			filter.OwnerCompanyID = companyID
		}
	default:
		return domain.ListInvoiceResponse{}, domain.ErrInvalidRoleFilter
	}

	if filter.OwnerCompanyID == "" && filter.CustomerGSTIN == "" {
		return domain.ListInvoiceResponse{}, nil
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(invoice *domain.Invoice) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        invoice.ID,
			CreatedAt: invoice.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}

	resp := domain.ListInvoiceResponse{Invoices: invoices}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	companyID, err := tenancy.ActingCompany(ctx)
	if err != nil {
		return err
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ErrInvalidID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing == nil || tenancy.AssertOwned(existing, companyID) != nil {
			return domain.ErrNotFound
		}
		if err := s.repo.DeleteItems(ctx, tx, existing.ID); err != nil {
			return fmt.Errorf("delete invoice items: %w", err)
		}
		if err := s.repo.Delete(ctx, tx, companyID, existing.ID); err != nil {
			return fmt.Errorf("delete invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	targetID := id
	_ = s.auditSvc.AuditLog(ctx, companyID, "invoice.deleted", "invoice", &targetID, nil)
	return nil
}
