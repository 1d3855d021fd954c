package domain

import (
	"context"
	"errors"

	"github.com/invomate/gstbill/pkg/db/pagination"
)

type CreateCustomerRequest struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	GSTIN        string `json:"gstin"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

type UpdateCustomerRequest struct {
	ID           string  `json:"id"`
	Name         *string `json:"name,omitempty"`
	AddressLine1 *string `json:"address_line1,omitempty"`
	AddressLine2 *string `json:"address_line2,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	PostalCode   *string `json:"postal_code,omitempty"`
	Country      *string `json:"country,omitempty"`
	GSTIN        *string `json:"gstin,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
}

type ListCustomerRequest struct {
	PageToken string
	PageSize  int32
	Name      string
	State     string
}

type ListCustomerFilter struct {
	Name  string
	State string
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(ctx context.Context, id string) (Customer, error)
	Update(context.Context, UpdateCustomerRequest) (Customer, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidState = errors.New("invalid_state")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")

	// ErrInUse blocks deletion while invoices still reference the customer;
	// issued invoices keep their counterparty on record.
	ErrInUse = errors.New("customer_in_use")
)
