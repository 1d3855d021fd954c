package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	auditdomain "github.com/invomate/gstbill/internal/audit/domain"
	"github.com/invomate/gstbill/internal/customer/domain"
	"github.com/invomate/gstbill/internal/tenancy"
	"github.com/invomate/gstbill/pkg/db/pagination"
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
		log:      p.Log.Named("customer.service"),
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	companyID, err := tenancy.ActingCompany(ctx)
	if err != nil {
		return domain.Customer{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}
	state := strings.TrimSpace(req.State)
	if state == "" {
		return domain.Customer{}, domain.ErrInvalidState
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:           uuid.NewString(),
		CompanyID:    companyID,
		Name:         name,
		AddressLine1: strings.TrimSpace(req.AddressLine1),
		AddressLine2: strings.TrimSpace(req.AddressLine2),
		City:         strings.TrimSpace(req.City),
		State:        state,
		PostalCode:   strings.TrimSpace(req.PostalCode),
		Country:      strings.TrimSpace(req.Country),
		GSTIN:        strings.TrimSpace(req.GSTIN),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		return domain.Customer{}, fmt.Errorf("insert customer: %w", err)
	}

	targetID := customer.ID
	_ = s.auditSvc.AuditLog(ctx, companyID, "customer.created", "customer", &targetID, map[string]any{
		"name":  customer.Name,
		"state": customer.State,
	})

	return customer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (domain.ListCustomerResponse, error) {
	companyID, err := tenancy.ActingCompany(ctx)
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, companyID, domain.ListCustomerFilter{
		Name:  strings.TrimSpace(req.Name),
		State: strings.TrimSpace(req.State),
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(customer *domain.Customer) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        customer.ID,
			CreatedAt: customer.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		customers = append(customers, *item)
	}

	resp := domain.ListCustomerResponse{Customers: customers}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	companyID, err := tenancy.ActingCompany(ctx)
	if err != nil {
		return domain.Customer{}, err
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Customer{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, companyID, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	companyID, err := tenancy.ActingCompany(ctx)
	if err != nil {
		return domain.Customer{}, err
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		return domain.Customer{}, domain.ErrInvalidID
	}

	customer, err := s.repo.FindByID(ctx, s.db, companyID, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	apply(&customer.Name, req.Name)
	apply(&customer.AddressLine1, req.AddressLine1)
	apply(&customer.AddressLine2, req.AddressLine2)
	apply(&customer.City, req.City)
	apply(&customer.State, req.State)
	apply(&customer.PostalCode, req.PostalCode)
	apply(&customer.Country, req.Country)
	apply(&customer.GSTIN, req.GSTIN)
	apply(&customer.Email, req.Email)
	apply(&customer.Phone, req.Phone)

	if customer.Name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}
	if customer.State == "" {
		return domain.Customer{}, domain.ErrInvalidState
	}
	customer.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, customer); err != nil {
		return domain.Customer{}, fmt.Errorf("update customer: %w", err)
	}

	targetID := customer.ID
	_ = s.auditSvc.AuditLog(ctx, companyID, "customer.updated", "customer", &targetID, nil)

	return *customer, nil
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

	customer, err := s.repo.FindByID(ctx, s.db, companyID, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.ErrNotFound
	}

	refs, err := s.repo.CountInvoiceRefs(ctx, s.db, companyID, id)
	if err != nil {
		return fmt.Errorf("count invoice refs: %w", err)
	}
	if refs > 0 {
		return domain.ErrInUse
	}

	if err := s.repo.Delete(ctx, s.db, companyID, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}

	targetID := id
	_ = s.auditSvc.AuditLog(ctx, companyID, "customer.deleted", "customer", &targetID, nil)
	return nil
}
