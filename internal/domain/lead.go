package domain

import "strings"

// Lead is a prospective contact, read-only to the console. Leads belong to
// exactly one requirement (a named grouping of targets, e.g. an industry or
// market) identified by RequirementID.
type Lead struct {
	ID            ID     `json:"id"`
	RequirementID ID     `json:"requirement_id"`
	Name          string `json:"name"`
	Company       string `json:"company"`
	Title         string `json:"title"`
	Location      string `json:"location"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// HasEmail reports whether the lead record itself carries a usable address.
// Whitespace-only values count as missing; enrichment feeds sometimes emit
// a single space instead of null.
func (l *Lead) HasEmail() bool {
	return strings.TrimSpace(l.Email) != ""
}

// Requirement is a named grouping of leads from which campaign recipients
// are chosen.
type Requirement struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}
