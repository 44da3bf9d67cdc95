// Package leads turns the backend's flat lead list into the per-requirement
// view the recipient picker works from. The lead endpoint returns one flat
// array with a requirement_id on each row; grouping is a client concern.
package leads

import (
	"context"
	"fmt"

	"github.com/ignite/campaign-console/internal/domain"
)

// Source is the slice of the API client the directory is built from.
type Source interface {
	ListLeads(ctx context.Context) ([]domain.Lead, error)
	ListRequirements(ctx context.Context) ([]domain.Requirement, error)
}

// Directory is an immutable grouping of leads by requirement. Build a new
// one on every refresh rather than mutating in place.
type Directory struct {
	requirements  []domain.Requirement
	byRequirement map[domain.ID][]domain.Lead
}

// NewDirectory groups a flat lead list. Requirements listed in reqs appear
// in their given order even when empty; requirement ids seen only on leads
// are appended after, in first-appearance order, with the id as the name.
func NewDirectory(reqs []domain.Requirement, flat []domain.Lead) *Directory {
	d := &Directory{byRequirement: make(map[domain.ID][]domain.Lead)}

	known := make(map[domain.ID]bool, len(reqs))
	for _, r := range reqs {
		d.requirements = append(d.requirements, r)
		known[r.ID] = true
	}

	for _, l := range flat {
		if l.RequirementID == "" {
			continue
		}
		if !known[l.RequirementID] {
			known[l.RequirementID] = true
			d.requirements = append(d.requirements, domain.Requirement{
				ID:   l.RequirementID,
				Name: l.RequirementID.String(),
			})
		}
		d.byRequirement[l.RequirementID] = append(d.byRequirement[l.RequirementID], l)
	}
	return d
}

// Fetch pulls requirements and leads from the source and groups them.
func Fetch(ctx context.Context, src Source) (*Directory, error) {
	reqs, err := src.ListRequirements(ctx)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	flat, err := src.ListLeads(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return NewDirectory(reqs, flat), nil
}

// Requirements returns the grouping order.
func (d *Directory) Requirements() []domain.Requirement {
	out := make([]domain.Requirement, len(d.requirements))
	copy(out, d.requirements)
	return out
}

// ForRequirement returns the leads belonging to one requirement.
func (d *Directory) ForRequirement(id domain.ID) []domain.Lead {
	src := d.byRequirement[id]
	out := make([]domain.Lead, len(src))
	copy(out, src)
	return out
}

// EmailCoverage reports how many of a requirement's leads carry a usable
// email, for the picker's "n of m reachable" summary.
func (d *Directory) EmailCoverage(id domain.ID) (withEmail, total int) {
	for _, l := range d.byRequirement[id] {
		total++
		if l.HasEmail() {
			withEmail++
		}
	}
	return withEmail, total
}
