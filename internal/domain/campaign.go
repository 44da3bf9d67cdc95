package domain

import (
	"encoding/json"
	"time"
)

// CampaignStatus enumerates the lifecycle states of a campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignSending   CampaignStatus = "sending"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
)

// statusSent is the backend's alias for a finished campaign. It is never
// stored; NormalizeStatus folds it into CampaignCompleted at the decode
// boundary so the rest of the console deals with one terminal-success state.
const statusSent CampaignStatus = "sent"

// NormalizeStatus maps a raw upstream status string onto the canonical enum.
// Unknown values pass through unchanged so a newer backend doesn't get its
// statuses silently rewritten.
func NormalizeStatus(raw string) CampaignStatus {
	s := CampaignStatus(raw)
	if s == statusSent {
		return CampaignCompleted
	}
	return s
}

// UnmarshalJSON normalizes the status during decode.
func (s *CampaignStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = NormalizeStatus(raw)
	return nil
}

// Campaign represents an email outreach job with its content, recipients,
// and lifecycle status as last reported by the backend.
type Campaign struct {
	ID           ID             `json:"id" db:"id"`
	Name         string         `json:"name" db:"name"`
	Subject      string         `json:"subject" db:"subject"`
	Body         string         `json:"body" db:"body"`
	TemplateID   ID             `json:"template_id,omitempty" db:"template_id"`
	SMTPConfigID ID             `json:"smtp_config_id,omitempty" db:"smtp_config_id"`
	Status       CampaignStatus `json:"status" db:"status"`
	ScheduledAt  *time.Time     `json:"scheduled_at,omitempty" db:"scheduled_at"`

	// Aggregate counters, written once per poll apply and never mutated
	// locally. The backend job scheduler is the only writer.
	TotalRecipients   int `json:"total_recipients" db:"total_recipients"`
	SentCount         int `json:"sent_count" db:"sent_count"`
	OpenedCount       int `json:"opened_count" db:"opened_count"`
	ClickedCount      int `json:"clicked_count" db:"clicked_count"`
	RepliedCount      int `json:"replied_count" db:"replied_count"`
	BouncedCount      int `json:"bounced_count" db:"bounced_count"`
	UnsubscribedCount int `json:"unsubscribed_count" db:"unsubscribed_count"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsTerminal returns true if the campaign is in a final state.
func (c *Campaign) IsTerminal() bool {
	return c.Status == CampaignCompleted || c.Status == CampaignCancelled
}

// Recipient is one entry of a campaign's recipient list, as returned by the
// recipients endpoint. Delivery fields are backend-owned.
type Recipient struct {
	LeadID    ID         `json:"lead_id"`
	Email     string     `json:"email"`
	Status    string     `json:"status"`
	OpenedAt  *time.Time `json:"opened_at,omitempty"`
	ClickedAt *time.Time `json:"clicked_at,omitempty"`
	RepliedAt *time.Time `json:"replied_at,omitempty"`
	BouncedAt *time.Time `json:"bounced_at,omitempty"`
}

// CampaignSubmission is the payload for creating a campaign. RecipientEmails
// is keyed by canonical lead id string.
type CampaignSubmission struct {
	Name            string            `json:"name"`
	Subject         string            `json:"subject"`
	Body            string            `json:"body"`
	TemplateID      ID                `json:"template_id,omitempty"`
	SMTPConfigID    ID                `json:"smtp_config_id,omitempty"`
	ScheduledAt     *time.Time        `json:"scheduled_at,omitempty"`
	RecipientIDs    []ID              `json:"recipient_ids"`
	RecipientEmails map[string]string `json:"recipient_emails"`
}

// CampaignUpdate holds the mutable content fields for an edit. Nil fields
// are not applied.
type CampaignUpdate struct {
	Name         *string    `json:"name,omitempty"`
	Subject      *string    `json:"subject,omitempty"`
	Body         *string    `json:"body,omitempty"`
	TemplateID   *ID        `json:"template_id,omitempty"`
	SMTPConfigID *ID        `json:"smtp_config_id,omitempty"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`
}
