package domain

import (
	"context"
	"errors"
)

type CreateCompanyRequest struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	State   string  `json:"state"`
	GSTIN   string  `json:"gstin"`
	MSME    *string `json:"msme,omitempty"`
	Email   string  `json:"email"`

	BankAccountNo     string `json:"bank_account_no"`
	BankName          string `json:"bank_name"`
	BankAccountHolder string `json:"bank_account_holder"`
	BankBranch        string `json:"bank_branch"`
	BankIFSCCode      string `json:"bank_ifsc_code"`
}

// UpdateCompanyRequest mutates header fields of the acting company. Nil
// pointers leave the stored value untouched.
type UpdateCompanyRequest struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	State   *string `json:"state,omitempty"`
	MSME    *string `json:"msme,omitempty"`
	Email   *string `json:"email,omitempty"`

	BankAccountNo     *string `json:"bank_account_no,omitempty"`
	BankName          *string `json:"bank_name,omitempty"`
	BankAccountHolder *string `json:"bank_account_holder,omitempty"`
	BankBranch        *string `json:"bank_branch,omitempty"`
	BankIFSCCode      *string `json:"bank_ifsc_code,omitempty"`
}

// ProvisionResult carries the one-time raw API key issued with a new company.
type ProvisionResult struct {
	Company Company `json:"company"`
	APIKey  string  `json:"api_key"`
}

type Service interface {
	Provision(ctx context.Context, req CreateCompanyRequest) (ProvisionResult, error)
	Get(ctx context.Context) (Company, error)
	Update(ctx context.Context, req UpdateCompanyRequest) (Company, error)
	Delete(ctx context.Context) error
}

var (
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidAddress = errors.New("invalid_address")
	ErrInvalidState   = errors.New("invalid_state")
	ErrInvalidGSTIN   = errors.New("invalid_gstin")
	ErrInvalidEmail   = errors.New("invalid_email")
	ErrGSTINTaken     = errors.New("gstin_taken")
	ErrNotFound       = errors.New("not_found")
)
