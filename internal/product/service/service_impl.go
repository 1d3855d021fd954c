package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	auditdomain "github.com/invomate/gstbill/internal/audit/domain"
	"github.com/invomate/gstbill/internal/product/domain"
	"github.com/invomate/gstbill/internal/tenancy"
	"github.com/invomate/gstbill/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Repo     domain.Repository
	AuditSvc auditdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	auditSvc auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("product.service"),
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateProductRequest) (domain.Product, error) {
	companyID, err := tenancy.ActingCompany(ctx)
	if err != nil {
		return domain.Product{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Product{}, domain.ErrInvalidName
	}
	if req.UnitPrice.IsNegative() {
		return domain.Product{}, domain.ErrInvalidPrice
	}
	if req.DefaultCGSTRate.IsNegative() || req.DefaultSGSTRate.IsNegative() || req.DefaultIGSTRate.IsNegative() {
		return domain.Product{}, domain.ErrInvalidRate
	}

	unit := strings.TrimSpace(req.UnitOfMeasure)
	if unit == "" {
		unit = "unit"
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:              uuid.NewString(),
		CompanyID:       companyID,
		Name:            name,
		Description:     strings.TrimSpace(req.Description),
		HSNSACCode:      strings.TrimSpace(req.HSNSACCode),
		UnitOfMeasure:   unit,
		UnitPrice:       req.UnitPrice,
		DefaultCGSTRate: req.DefaultCGSTRate,
		DefaultSGSTRate: req.DefaultSGSTRate,
		DefaultIGSTRate: req.DefaultIGSTRate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, s.db, &product); err != nil {
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}

	targetID := product.ID
	_ = s.auditSvc.AuditLog(ctx, companyID, "product.created", "product", &targetID, map[string]any{
		"name":       product.Name,
		"unit_price": product.UnitPrice.String(),
	})

	return product, nil
}

func (s *Service) List(ctx context.Context, req domain.ListProductRequest) (domain.ListProductResponse, error) {
	companyID, err := tenancy.ActingCompany(ctx)
	if err != nil {
		return domain.ListProductResponse{}, err
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, companyID, strings.TrimSpace(req.Name), pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListProductResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(product *domain.Product) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        product.ID,
			CreatedAt: product.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	products := make([]domain.Product, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		products = append(products, *item)
	}

	resp := domain.ListProductResponse{Products: products}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Product, error) {
	companyID, err := tenancy.ActingCompany(ctx)
	if err != nil {
		return domain.Product{}, err
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Product{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, companyID, id)
	if err != nil {
		return domain.Product{}, err
	}
	if item == nil {
		return domain.Product{}, domain.ErrNotFound
	}

	return *item, nil
}

// Update edits catalog defaults. Historical invoice lines are snapshots and
// are never recomputed from the catalog, so rate edits only affect invoices
// assembled afterwards.
func (s *Service) Update(ctx context.Context, req domain.UpdateProductRequest) (domain.Product, error) {
	companyID, err := tenancy.ActingCompany(ctx)
	if err != nil {
		return domain.Product{}, err
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		return domain.Product{}, domain.ErrInvalidID
	}

	product, err := s.repo.FindByID(ctx, s.db, companyID, id)
	if err != nil {
		return domain.Product{}, err
	}
	if product == nil {
		return domain.Product{}, domain.ErrNotFound
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	applyString(&product.Name, req.Name)
	applyString(&product.Description, req.Description)
	applyString(&product.HSNSACCode, req.HSNSACCode)
	applyString(&product.UnitOfMeasure, req.UnitOfMeasure)

	applyDecimal := func(dst *decimal.Decimal, src *decimal.Decimal) {
		if src != nil {
			*dst = *src
		}
	}
	applyDecimal(&product.UnitPrice, req.UnitPrice)
	applyDecimal(&product.DefaultCGSTRate, req.DefaultCGSTRate)
	applyDecimal(&product.DefaultSGSTRate, req.DefaultSGSTRate)
	applyDecimal(&product.DefaultIGSTRate, req.DefaultIGSTRate)

	if product.Name == "" {
		return domain.Product{}, domain.ErrInvalidName
	}
	if product.UnitPrice.IsNegative() {
		return domain.Product{}, domain.ErrInvalidPrice
	}
	if product.DefaultCGSTRate.IsNegative() || product.DefaultSGSTRate.IsNegative() || product.DefaultIGSTRate.IsNegative() {
		return domain.Product{}, domain.ErrInvalidRate
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, product); err != nil {
		return domain.Product{}, fmt.Errorf("update product: %w", err)
	}

	targetID := product.ID
	_ = s.auditSvc.AuditLog(ctx, companyID, "product.updated", "product", &targetID, nil)

	return *product, nil
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

	product, err := s.repo.FindByID(ctx, s.db, companyID, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}

	if err := s.repo.Delete(ctx, s.db, companyID, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	targetID := id
	_ = s.auditSvc.AuditLog(ctx, companyID, "product.deleted", "product", &targetID, nil)
	return nil
}
