package stubapi

import (
	"context"
	"errors"

	"github.com/ignite/campaign-console/internal/domain"
)

// Sentinel errors for the stub backend's data layer.
var (
	ErrNotFound = errors.New("campaign not found")
)

// Repository defines the data access contract for the stub backend.
// Implementations must be safe for concurrent use.
type Repository interface {
	// List returns all campaigns, newest first.
	List(ctx context.Context) ([]domain.Campaign, error)

	// Get returns a single campaign. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id domain.ID) (*domain.Campaign, error)

	// Create inserts a campaign with its recipient rows.
	Create(ctx context.Context, c *domain.Campaign, recipients []domain.Recipient) error

	// Update applies non-nil content fields.
	Update(ctx context.Context, id domain.ID, u domain.CampaignUpdate) (*domain.Campaign, error)

	// SetStatus writes the campaign status. Transition legality is the
	// handlers' concern; the repository just persists.
	SetStatus(ctx context.Context, id domain.ID, status domain.CampaignStatus) (*domain.Campaign, error)

	// Delete removes a campaign and its recipients.
	Delete(ctx context.Context, id domain.ID) error

	// Recipients returns a campaign's recipient rows.
	Recipients(ctx context.Context, id domain.ID) ([]domain.Recipient, error)

	// ListLeads returns the flat lead list (the console groups client-side).
	ListLeads(ctx context.Context) ([]domain.Lead, error)

	// ListRequirements returns the known lead groupings.
	ListRequirements(ctx context.Context) ([]domain.Requirement, error)
}
