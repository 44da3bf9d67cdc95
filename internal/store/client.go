package store

import (
	"context"

	"github.com/ignite/campaign-console/internal/domain"
)

// Client defines the campaign API boundary the store mediates through.
// Implementations must be safe for concurrent use; the HTTP implementation
// lives in internal/apiclient.
type Client interface {
	// ListCampaigns returns the complete campaign set. The server does not
	// paginate this collection in the current design.
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)

	// GetCampaign returns a single campaign.
	GetCampaign(ctx context.Context, id domain.ID) (*domain.Campaign, error)

	// GetRecipients returns the recipient list for a campaign.
	GetRecipients(ctx context.Context, id domain.ID) ([]domain.Recipient, error)

	// CreateCampaign submits a new campaign. The returned campaign carries
	// the server-assigned id and status.
	CreateCampaign(ctx context.Context, sub domain.CampaignSubmission) (*domain.Campaign, error)

	// UpdateCampaign modifies campaign content. Callers must check CanEdit
	// first; the backend remains the final arbiter.
	UpdateCampaign(ctx context.Context, id domain.ID, u domain.CampaignUpdate) (*domain.Campaign, error)

	// SendCampaign triggers the outbound dispatch job. Distinct from
	// UpdateCampaign because of its backend side effects.
	SendCampaign(ctx context.Context, id domain.ID) (*domain.Campaign, error)

	// UpdateStatus requests a lifecycle transition (pause, resume, cancel).
	UpdateStatus(ctx context.Context, id domain.ID, status domain.CampaignStatus) (*domain.Campaign, error)

	// DeleteCampaign removes a campaign.
	DeleteCampaign(ctx context.Context, id domain.ID) error
}
