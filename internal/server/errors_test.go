package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	apikeydomain "github.com/invomate/gstbill/internal/apikey/domain"
	customerdomain "github.com/invomate/gstbill/internal/customer/domain"
	"github.com/invomate/gstbill/internal/gst"
	invoicedomain "github.com/invomate/gstbill/internal/invoice/domain"
	"github.com/invomate/gstbill/internal/tenancy"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{
			name:   "unknown products read as absent",
			err:    &invoicedomain.MissingProductsError{IDs: []string{"p1"}},
			status: http.StatusNotFound,
			typ:    "not_found",
		},
		{
			name:   "unresolvable customer reads as absent",
			err:    invoicedomain.ErrCustomerNotFound,
			status: http.StatusNotFound,
			typ:    "not_found",
		},
		{
			name:   "foreign entity reads as absent",
			err:    tenancy.ErrNotOwned,
			status: http.StatusNotFound,
			typ:    "not_found",
		},
		{
			name:   "referenced customer delete conflicts",
			err:    customerdomain.ErrInUse,
			status: http.StatusConflict,
			typ:    "conflict",
		},
		{
			name:   "stale version conflicts",
			err:    invoicedomain.ErrVersionConflict,
			status: http.StatusConflict,
			typ:    "conflict",
		},
		{
			name:   "terminal status transition is unprocessable",
			err:    invoicedomain.ErrStatusTransition,
			status: http.StatusUnprocessableEntity,
			typ:    "unprocessable",
		},
		{
			name:   "zero quantity is a validation error",
			err:    gst.ErrInvalidQuantity,
			status: http.StatusBadRequest,
			typ:    "validation_error",
		},
		{
			name:   "bad api key is unauthorized",
			err:    apikeydomain.ErrInvalidKey,
			status: http.StatusUnauthorized,
			typ:    "unauthorized",
		},
		{
			name:   "unexpected errors stay internal",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			typ:    "internal_error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.typ, payload.Type)

			// Wrapping must not change the classification.
			status, payload = mapError(fmt.Errorf("create invoice: %w", tc.err))
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.typ, payload.Type)
		})
	}
}

func TestMapError_UnknownProductsListEveryID(t *testing.T) {
	status, payload := mapError(&invoicedomain.MissingProductsError{IDs: []string{"p1", "p2"}})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Len(t, payload.Errors, 2)
	assert.Equal(t, "p1", payload.Errors[0].Message)
	assert.Equal(t, "unknown_product", payload.Errors[0].Code)
}
