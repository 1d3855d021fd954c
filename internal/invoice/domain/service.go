package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/invomate/gstbill/pkg/db/pagination"
)

// Role selects which side of an invoice the caller wants to see when
// listing: the issuer ("owner"), the billed party ("customer"), or both.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleCustomer Role = "customer"
	RoleEither   Role = "either"
)

type LineInput struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type CreateInvoiceRequest struct {
	CustomerID    string      `json:"customer_id"`
	InvoiceNumber string      `json:"invoice_number"`
	IssueDate     *time.Time  `json:"issue_date,omitempty"`
	DueDate       *time.Time  `json:"due_date,omitempty"`
	Terms         string      `json:"terms"`
	Notes         string      `json:"notes"`
	Items         []LineInput `json:"items"`
}

// ReplaceItemsRequest swaps an invoice's full item set. Version must match
// the header's current version or the call fails with ErrVersionConflict.
type ReplaceItemsRequest struct {
	InvoiceID string      `json:"-"`
	Version   int64       `json:"version"`
	Items     []LineInput `json:"items"`
}

// UpdateInvoiceRequest edits header metadata only. Items and totals are
// untouched; use ReplaceItems to change the lines.
type UpdateInvoiceRequest struct {
	ID      string     `json:"-"`
	Version int64      `json:"version"`
	Status  *Status    `json:"status,omitempty"`
	DueDate *time.Time `json:"due_date,omitempty"`
	Terms   *string    `json:"terms,omitempty"`
	Notes   *string    `json:"notes,omitempty"`
}

type ListInvoiceRequest struct {
	PageToken  string
	PageSize   int32
	Role       Role
	Status     Status
	CustomerID string
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

type Service interface {
	Create(context.Context, CreateInvoiceRequest) (Invoice, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	List(context.Context, ListInvoiceRequest) (ListInvoiceResponse, error)
	ReplaceItems(context.Context, ReplaceItemsRequest) (Invoice, error)
	Update(context.Context, UpdateInvoiceRequest) (Invoice, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidNumber     = errors.New("invalid_invoice_number")
	ErrNumberTaken       = errors.New("invoice_number_taken")
	ErrEmptyItems        = errors.New("empty_items")
	ErrCustomerNotFound  = errors.New("customer_not_found")
	ErrNotFound          = errors.New("not_found")
	ErrNotEditable       = errors.New("invoice_not_editable")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrStatusTransition  = errors.New("invalid_status_transition")
	ErrVersionConflict   = errors.New("version_conflict")
	ErrTotalsMismatch    = errors.New("totals_mismatch")
	ErrInvalidRoleFilter = errors.New("invalid_role_filter")
)

// MissingProductsError reports catalog ids that could not be resolved within
// the acting company's scope. Assembly is all-or-nothing, so one unknown id
// fails the whole invoice and names every offender.
type MissingProductsError struct {
	IDs []string
}

func (e *MissingProductsError) Error() string {
	return fmt.Sprintf("unknown_products: %s", strings.Join(e.IDs, ","))
}
