// Package tenancy enforces the company-scoped ownership boundary. Every
// cross-entity reference is checked against the acting company before a read
// or mutation proceeds; an entity outside the boundary is reported as not
// found rather than forbidden so existence never leaks across tenants.
package tenancy

import (
	"context"
	"errors"

	"github.com/invomate/gstbill/internal/companyctx"
)

var (
	// ErrNotOwned marks an entity that exists but belongs to another company.
	// The HTTP layer maps it to not-found.
	ErrNotOwned = errors.New("not_owned")

	// ErrNoActingCompany marks a request that reached a scoped operation
	// without a resolved company identity.
	ErrNoActingCompany = errors.New("no_acting_company")
)

// Owned is implemented by every company-scoped entity.
type Owned interface {
	OwnerCompanyID() string
}

// ActingCompany returns the acting company ID from the request context.
func ActingCompany(ctx context.Context) (string, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return "", ErrNoActingCompany
	}
	return companyID, nil
}

// AssertOwned verifies that the entity belongs to the given company.
func AssertOwned(entity Owned, companyID string) error {
	if companyID == "" {
		return ErrNoActingCompany
	}
	if entity == nil || entity.OwnerCompanyID() != companyID {
		return ErrNotOwned
	}
	return nil
}

// AssertAllOwned checks every requested id against a resolved batch and
// returns, deduplicated, the ids that are absent or outside the boundary.
// Callers fail the whole operation on a non-empty result so a batch never
// partially succeeds.
func AssertAllOwned[T Owned](ids []string, resolved map[string]T, companyID string) []string {
	var missing []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		entity, ok := resolved[id]
		if !ok || AssertOwned(entity, companyID) != nil {
			missing = append(missing, id)
		}
	}
	return missing
}
