package companyctx

import (
	"context"
	"strings"
)

// CompanyContextKey is the request context key for the acting company ID.
type CompanyContextKey struct{}

// WithCompanyID stores the acting company ID in the context.
func WithCompanyID(ctx context.Context, companyID string) context.Context {
	return context.WithValue(ctx, CompanyContextKey{}, companyID)
}

// CompanyIDFromContext returns the acting company ID from context, if set.
func CompanyIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value := ctx.Value(CompanyContextKey{})
	if typed, ok := value.(string); ok {
		typed = strings.TrimSpace(typed)
		if typed != "" {
			return typed, true
		}
	}
	return "", false
}
