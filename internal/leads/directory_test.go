package leads

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/campaign-console/internal/domain"
)

func TestGroupingFlatList(t *testing.T) {
	d := NewDirectory(
		[]domain.Requirement{{ID: "a", Name: "Book Sellers NL"}},
		[]domain.Lead{
			{ID: "1", RequirementID: "a", Email: "a@x.com"},
			{ID: "2", RequirementID: "b"},
			{ID: "3", RequirementID: "a"},
		},
	)

	reqs := d.Requirements()
	require.Len(t, reqs, 2)
	assert.Equal(t, "Book Sellers NL", reqs[0].Name)
	// Requirement b was discovered from lead rows; id doubles as name.
	assert.Equal(t, domain.ID("b"), reqs[1].ID)
	assert.Equal(t, "b", reqs[1].Name)

	assert.Len(t, d.ForRequirement("a"), 2)
	assert.Len(t, d.ForRequirement("b"), 1)
	assert.Empty(t, d.ForRequirement("missing"))
}

func TestLeadsWithoutRequirementSkipped(t *testing.T) {
	d := NewDirectory(nil, []domain.Lead{{ID: "1"}})
	assert.Empty(t, d.Requirements())
}

func TestEmailCoverage(t *testing.T) {
	d := NewDirectory(nil, []domain.Lead{
		{ID: "1", RequirementID: "a", Email: "a@x.com"},
		{ID: "2", RequirementID: "a", Email: "  "},
		{ID: "3", RequirementID: "a", Email: "c@x.com"},
	})
	withEmail, total := d.EmailCoverage("a")
	assert.Equal(t, 2, withEmail)
	assert.Equal(t, 3, total)
}

type stubSource struct {
	reqs  []domain.Requirement
	leads []domain.Lead
}

func (s stubSource) ListLeads(context.Context) ([]domain.Lead, error)               { return s.leads, nil }
func (s stubSource) ListRequirements(context.Context) ([]domain.Requirement, error) { return s.reqs, nil }

func TestFetch(t *testing.T) {
	d, err := Fetch(context.Background(), stubSource{
		reqs:  []domain.Requirement{{ID: "a", Name: "A"}},
		leads: []domain.Lead{{ID: "1", RequirementID: "a"}},
	})
	require.NoError(t, err)
	assert.Len(t, d.ForRequirement("a"), 1)
}
