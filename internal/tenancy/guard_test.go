package tenancy

import (
	"context"
	"testing"

	"github.com/invomate/gstbill/internal/companyctx"
	"github.com/stretchr/testify/assert"
)

type ownedStub struct {
	id      string
	company string
}

func (o ownedStub) OwnerCompanyID() string { return o.company }

func TestActingCompany(t *testing.T) {
	_, err := ActingCompany(context.Background())
	assert.ErrorIs(t, err, ErrNoActingCompany)

	ctx := companyctx.WithCompanyID(context.Background(), "co_1")
	companyID, err := ActingCompany(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "co_1", companyID)
}

func TestAssertOwned(t *testing.T) {
	mine := ownedStub{id: "p1", company: "co_1"}
	theirs := ownedStub{id: "p2", company: "co_2"}

	assert.NoError(t, AssertOwned(mine, "co_1"))
	assert.ErrorIs(t, AssertOwned(theirs, "co_1"), ErrNotOwned)
	assert.ErrorIs(t, AssertOwned(mine, ""), ErrNoActingCompany)
}

func TestAssertAllOwned(t *testing.T) {
	resolved := map[string]ownedStub{
		"p1": {id: "p1", company: "co_1"},
		"p2": {id: "p2", company: "co_2"},
	}

	missing := AssertAllOwned([]string{"p1", "p2", "p3", "p3"}, resolved, "co_1")
	assert.Equal(t, []string{"p2", "p3"}, missing)

	assert.Empty(t, AssertAllOwned([]string{"p1"}, resolved, "co_1"))
}
