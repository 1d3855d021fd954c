package domain

import (
	"context"
	"errors"

	"github.com/invomate/gstbill/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	HSNSACCode    string          `json:"hsn_sac_code"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	UnitPrice     decimal.Decimal `json:"unit_price"`

	DefaultCGSTRate decimal.Decimal `json:"default_cgst_rate"`
	DefaultSGSTRate decimal.Decimal `json:"default_sgst_rate"`
	DefaultIGSTRate decimal.Decimal `json:"default_igst_rate"`
}

type UpdateProductRequest struct {
	ID            string           `json:"id"`
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	HSNSACCode    *string          `json:"hsn_sac_code,omitempty"`
	UnitOfMeasure *string          `json:"unit_of_measure,omitempty"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty"`

	DefaultCGSTRate *decimal.Decimal `json:"default_cgst_rate,omitempty"`
	DefaultSGSTRate *decimal.Decimal `json:"default_sgst_rate,omitempty"`
	DefaultIGSTRate *decimal.Decimal `json:"default_igst_rate,omitempty"`
}

type ListProductRequest struct {
	PageToken string
	PageSize  int32
	Name      string
}

type ListProductResponse struct {
	pagination.PageInfo
	Products []Product `json:"products"`
}

type Service interface {
	Create(context.Context, CreateProductRequest) (Product, error)
	List(context.Context, ListProductRequest) (ListProductResponse, error)
	GetByID(ctx context.Context, id string) (Product, error)
	Update(context.Context, UpdateProductRequest) (Product, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidPrice = errors.New("invalid_unit_price")
	ErrInvalidRate  = errors.New("invalid_tax_rate")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
)
