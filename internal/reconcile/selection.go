package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ignite/campaign-console/internal/domain"
)

// IncompleteRecipientDataError is returned by BuildSubmission when one or
// more selected leads lack a resolvable email. Names holds the display names
// of every offending lead, never a partial list.
type IncompleteRecipientDataError struct {
	Names []string
}

func (e *IncompleteRecipientDataError) Error() string {
	return fmt.Sprintf("missing email for %d selected lead(s): %s",
		len(e.Names), strings.Join(e.Names, ", "))
}

// Submission is the reconciled recipient payload for campaign creation.
type Submission struct {
	RecipientIDs    []domain.ID
	RecipientEmails map[string]string
}

// Selection is the working set of the recipient reconciler, scoped to
// exactly one requirement at a time. Not safe for concurrent use; callers
// own the synchronization (in practice a single view drives it).
type Selection struct {
	requirementID domain.ID
	leads         map[domain.ID]domain.Lead
	order         []domain.ID

	selected map[domain.ID]struct{}
	// overrides maps lead id to an email. Presence of a key means the value
	// is authoritative even when empty; a user-cleared email must not be
	// silently refilled from upstream.
	overrides map[domain.ID]string
}

// NewSelection returns an empty selection with no active requirement.
func NewSelection() *Selection {
	return &Selection{
		leads:     make(map[domain.ID]domain.Lead),
		selected:  make(map[domain.ID]struct{}),
		overrides: make(map[domain.ID]string),
	}
}

// RequirementID returns the currently active requirement.
func (s *Selection) RequirementID() domain.ID { return s.requirementID }

// SetRequirement switches the active requirement and installs its lead list.
// Selection and overrides are always cleared, even when switching back to a
// previously visited requirement: selections are scoped to exactly one
// requirement at a time.
func (s *Selection) SetRequirement(reqID domain.ID, leads []domain.Lead) {
	s.requirementID = reqID
	s.selected = make(map[domain.ID]struct{})
	s.overrides = make(map[domain.ID]string)
	s.installLeads(leads)
}

// RefreshLeads replaces the lead list for the active requirement, e.g. when
// new enrichment data arrives. Selection survives. For any selected lead
// with no override entry that now carries an upstream email, the override is
// seeded from upstream — a one-directional fill. An override the user
// already set (including an explicitly cleared one) is never touched.
func (s *Selection) RefreshLeads(leads []domain.Lead) {
	s.installLeads(leads)
	for id := range s.selected {
		if _, ok := s.overrides[id]; ok {
			continue
		}
		if lead, ok := s.leads[id]; ok && lead.HasEmail() {
			s.overrides[id] = strings.TrimSpace(lead.Email)
		}
	}
}

func (s *Selection) installLeads(leads []domain.Lead) {
	s.leads = make(map[domain.ID]domain.Lead, len(leads))
	s.order = s.order[:0]
	for _, l := range leads {
		if _, dup := s.leads[l.ID]; !dup {
			s.order = append(s.order, l.ID)
		}
		s.leads[l.ID] = l
	}
}

// ResolvedEmail returns the email the lead would be submitted with: the
// override when one exists (authoritative even if empty), otherwise the
// lead's own record.
func (s *Selection) ResolvedEmail(id domain.ID) string {
	if email, ok := s.overrides[id]; ok {
		return strings.TrimSpace(email)
	}
	if lead, ok := s.leads[id]; ok {
		return strings.TrimSpace(lead.Email)
	}
	return ""
}

// Resolvable reports whether the lead has a usable email right now.
func (s *Selection) Resolvable(id domain.ID) bool {
	return s.ResolvedEmail(id) != ""
}

// IsSelected reports membership in the selection.
func (s *Selection) IsSelected(id domain.ID) bool {
	_, ok := s.selected[id]
	return ok
}

// Toggle flips a lead's membership in the selection. Selecting a lead with
// no resolvable email is a silent no-op (rejection, not error: the click
// must not register). On first selection the override is seeded from the
// lead's own email (copy-on-select); an existing override is never
// overwritten, so deselect/re-select keeps the original copy even if the
// upstream email changed in between.
func (s *Selection) Toggle(id domain.ID) {
	if s.IsSelected(id) {
		delete(s.selected, id)
		return
	}
	if !s.Resolvable(id) {
		return
	}
	s.selected[id] = struct{}{}
	if _, ok := s.overrides[id]; !ok {
		s.overrides[id] = s.ResolvedEmail(id)
	}
}

// SelectAll toggles the full resolvable subset of the active requirement's
// leads: if every resolvable lead is already selected it deselects them all,
// otherwise it selects them all. Unresolvable leads are never touched.
func (s *Selection) SelectAll() {
	var eligible []domain.ID
	for _, id := range s.order {
		if s.Resolvable(id) {
			eligible = append(eligible, id)
		}
	}

	allSelected := len(eligible) > 0
	for _, id := range eligible {
		if !s.IsSelected(id) {
			allSelected = false
			break
		}
	}

	if allSelected {
		for _, id := range eligible {
			delete(s.selected, id)
		}
		return
	}
	for _, id := range eligible {
		if s.IsSelected(id) {
			continue
		}
		s.selected[id] = struct{}{}
		if _, ok := s.overrides[id]; !ok {
			s.overrides[id] = s.ResolvedEmail(id)
		}
	}
}

// SetOverride records a user-supplied email correction. Membership in the
// selection is unaffected; an empty value deliberately marks the lead as
// having no usable email until the user fixes it.
func (s *Selection) SetOverride(id domain.ID, email string) {
	s.overrides[id] = strings.TrimSpace(email)
}

// Selected returns the selected lead ids in a stable sorted order.
func (s *Selection) Selected() []domain.ID {
	out := make([]domain.ID, 0, len(s.selected))
	for id := range s.selected {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Overrides returns a copy of the override map keyed by canonical id string.
func (s *Selection) Overrides() map[string]string {
	out := make(map[string]string, len(s.overrides))
	for id, email := range s.overrides {
		out[id.String()] = email
	}
	return out
}

// BuildSubmission produces the recipient payload. Every selected id must
// resolve to a non-empty email; otherwise it fails with
// IncompleteRecipientDataError naming every offending lead. This re-check is
// deliberate even though Toggle enforces resolvability at selection time: a
// concurrent lead refresh or a cleared override can invalidate a prior email.
func (s *Selection) BuildSubmission() (*Submission, error) {
	ids := s.Selected()
	emails := make(map[string]string, len(ids))
	var missing []string

	for _, id := range ids {
		email := s.ResolvedEmail(id)
		if email == "" {
			missing = append(missing, s.displayName(id))
			continue
		}
		emails[id.String()] = email
	}

	if len(missing) > 0 {
		return nil, &IncompleteRecipientDataError{Names: missing}
	}
	return &Submission{RecipientIDs: ids, RecipientEmails: emails}, nil
}

func (s *Selection) displayName(id domain.ID) string {
	if lead, ok := s.leads[id]; ok && lead.Name != "" {
		return lead.Name
	}
	return "lead " + id.String()
}
