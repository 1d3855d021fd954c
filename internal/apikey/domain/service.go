package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Service interface {
	// Issue creates a key for the company inside the caller's transaction and
	// returns the raw value exactly once.
	Issue(ctx context.Context, tx *gorm.DB, companyID, name string) (string, *APIKey, error)
	// Authenticate resolves a raw key to its company ID.
	Authenticate(ctx context.Context, raw string) (string, error)
}

var (
	ErrInvalidKey = errors.New("invalid_api_key")
)
