package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	apikeydomain "github.com/invomate/gstbill/internal/apikey/domain"
	auditdomain "github.com/invomate/gstbill/internal/audit/domain"
	"github.com/invomate/gstbill/internal/company/domain"
	"github.com/invomate/gstbill/internal/tenancy"
	"github.com/invomate/gstbill/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Repo      domain.Repository
	APIKeySvc apikeydomain.Service
	AuditSvc  auditdomain.Service
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      domain.Repository
	apiKeySvc apikeydomain.Service
	auditSvc  auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("company.service"),
		repo:      p.Repo,
		apiKeySvc: p.APIKeySvc,
		auditSvc:  p.AuditSvc,
	}
}

// Provision creates a company together with its first API key. The raw key is
// returned once and only its hash is stored.
func (s *Service) Provision(ctx context.Context, req domain.CreateCompanyRequest) (domain.ProvisionResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ProvisionResult{}, domain.ErrInvalidName
	}
	if strings.TrimSpace(req.Address) == "" {
		return domain.ProvisionResult{}, domain.ErrInvalidAddress
	}
	state := strings.TrimSpace(req.State)
	if state == "" {
		return domain.ProvisionResult{}, domain.ErrInvalidState
	}
	gstin := strings.TrimSpace(req.GSTIN)
	if gstin == "" {
		return domain.ProvisionResult{}, domain.ErrInvalidGSTIN
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.ProvisionResult{}, domain.ErrInvalidEmail
	}

	now := time.Now().UTC()
	company := domain.Company{
		ID:                uuid.NewString(),
		Name:              name,
		Address:           strings.TrimSpace(req.Address),
		State:             state,
		GSTIN:             gstin,
		MSME:              req.MSME,
		Email:             email,
		BankAccountNo:     strings.TrimSpace(req.BankAccountNo),
		BankName:          strings.TrimSpace(req.BankName),
		BankAccountHolder: strings.TrimSpace(req.BankAccountHolder),
		BankBranch:        strings.TrimSpace(req.BankBranch),
		BankIFSCCode:      strings.TrimSpace(req.BankIFSCCode),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	var rawKey string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &company); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrGSTINTaken
			}
			return fmt.Errorf("insert company: %w", err)
		}

		raw, _, err := s.apiKeySvc.Issue(ctx, tx, company.ID, "default")
		if err != nil {
			return fmt.Errorf("issue api key: %w", err)
		}
		rawKey = raw
		return nil
	})
	if err != nil {
		return domain.ProvisionResult{}, err
	}

	targetID := company.ID
	_ = s.auditSvc.AuditLog(ctx, company.ID, "company.provisioned", "company", &targetID, map[string]any{
		"name":  company.Name,
		"gstin": company.GSTIN,
		"state": company.State,
	})

	return domain.ProvisionResult{Company: company, APIKey: rawKey}, nil
}

func (s *Service) Get(ctx context.Context) (domain.Company, error) {
	companyID, err := tenancy.ActingCompany(ctx)
	if err != nil {
		return domain.Company{}, err
	}

	company, err := s.repo.FindByID(ctx, s.db, companyID)
	if err != nil {
		return domain.Company{}, err
	}
	if company == nil {
		return domain.Company{}, domain.ErrNotFound
	}
	return *company, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCompanyRequest) (domain.Company, error) {
	companyID, err := tenancy.ActingCompany(ctx)
	if err != nil {
		return domain.Company{}, err
	}

	company, err := s.repo.FindByID(ctx, s.db, companyID)
	if err != nil {
		return domain.Company{}, err
	}
	if company == nil {
		return domain.Company{}, domain.ErrNotFound
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	applyString(&company.Name, req.Name)
	applyString(&company.Address, req.Address)
	applyString(&company.State, req.State)
	applyString(&company.Email, req.Email)
	applyString(&company.BankAccountNo, req.BankAccountNo)
	applyString(&company.BankName, req.BankName)
	applyString(&company.BankAccountHolder, req.BankAccountHolder)
	applyString(&company.BankBranch, req.BankBranch)
	applyString(&company.BankIFSCCode, req.BankIFSCCode)
	if req.MSME != nil {
		company.MSME = req.MSME
	}
	if company.Name == "" {
		return domain.Company{}, domain.ErrInvalidName
	}
	if company.State == "" {
		return domain.Company{}, domain.ErrInvalidState
	}
	company.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, company); err != nil {
		return domain.Company{}, fmt.Errorf("update company: %w", err)
	}

	targetID := company.ID
	_ = s.auditSvc.AuditLog(ctx, company.ID, "company.updated", "company", &targetID, nil)

	return *company, nil
}

func (s *Service) Delete(ctx context.Context) error {
	companyID, err := tenancy.ActingCompany(ctx)
	if err != nil {
		return err
	}

	company, err := s.repo.FindByID(ctx, s.db, companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.ErrNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Delete(ctx, tx, companyID)
	})
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}

	targetID := companyID
	_ = s.auditSvc.AuditLog(ctx, companyID, "company.deleted", "company", &targetID, nil)
	return nil
}
