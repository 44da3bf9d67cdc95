package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/ignite/campaign-console/internal/domain"
	"github.com/ignite/campaign-console/internal/pkg/logger"
)

// Store is the single shared mutable resource of the console. It owns the
// campaign collection, the focused campaign's recipient list, and a
// generation counter used to discard responses that complete after the view
// has moved on.
//
// All methods are safe for concurrent use.
type Store struct {
	client Client

	mu         sync.RWMutex
	campaigns  []domain.Campaign
	focusedID  domain.ID
	recipients []domain.Recipient
	generation uint64
	subs       []chan struct{}
}

// New creates a store mediating through the given client.
func New(client Client) *Store {
	return &Store{client: client}
}

// Subscribe returns a channel that receives a (coalesced) signal after every
// applied change. Late poll results that get dropped do not signal.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// notifyLocked signals subscribers. Callers hold s.mu.
func (s *Store) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Generation returns the current view generation. Capture it before an
// asynchronous fetch; the matching apply is dropped if the generation moved.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Campaigns returns a copy of the campaign collection.
func (s *Store) Campaigns() []domain.Campaign {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Campaign, len(s.campaigns))
	copy(out, s.campaigns)
	return out
}

// Focused returns the focused campaign and its recipient list, or nil when
// nothing is focused.
func (s *Store) Focused() (*domain.Campaign, []domain.Recipient) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.findLocked(s.focusedID)
	if c == nil {
		return nil, nil
	}
	cp := *c
	recs := make([]domain.Recipient, len(s.recipients))
	copy(recs, s.recipients)
	return &cp, recs
}

// Get returns the local copy of a campaign without touching the network.
func (s *Store) Get(id domain.ID) (*domain.Campaign, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.findLocked(id)
	if c == nil {
		return nil, false
	}
	cp := *c
	return &cp, true
}

// findLocked locates a campaign by canonical string id. Callers hold s.mu.
func (s *Store) findLocked(id domain.ID) *domain.Campaign {
	if id == "" {
		return nil
	}
	for i := range s.campaigns {
		if s.campaigns[i].ID.Equal(id) {
			return &s.campaigns[i]
		}
	}
	return nil
}

// Refresh replaces the full campaign collection from the backend. Partial
// pages are never merged; the server returns the complete set.
func (s *Store) Refresh(ctx context.Context) error {
	campaigns, err := s.client.ListCampaigns(ctx)
	if err != nil {
		return fmt.Errorf("list campaigns: %w", err)
	}
	s.mu.Lock()
	s.campaigns = campaigns
	s.notifyLocked()
	s.mu.Unlock()
	return nil
}

// Focus makes a campaign the focused one and invalidates any in-flight
// fetches for the previous focus by bumping the generation. The recipient
// list is cleared until the next apply so a viewer never sees the previous
// campaign's recipients under the new one.
func (s *Store) Focus(id domain.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.focusedID.Equal(id) {
		return
	}
	s.focusedID = id
	s.recipients = nil
	s.generation++
	s.notifyLocked()
}

// Load fetches a campaign, upserts it into the collection, and focuses it.
func (s *Store) Load(ctx context.Context, id domain.ID) (*domain.Campaign, error) {
	c, err := s.client.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.upsertLocked(*c)
	if !s.focusedID.Equal(c.ID) {
		s.focusedID = c.ID
		s.recipients = nil
		s.generation++
	}
	s.notifyLocked()
	s.mu.Unlock()
	cp := *c
	return &cp, nil
}

// upsertLocked replaces the matching entry or appends. Callers hold s.mu.
func (s *Store) upsertLocked(c domain.Campaign) {
	for i := range s.campaigns {
		if s.campaigns[i].ID.Equal(c.ID) {
			s.campaigns[i] = c
			return
		}
	}
	s.campaigns = append(s.campaigns, c)
}

// Create submits a new campaign. On success it is prepended to the
// collection and focused. A campaign always starts in draft unless the
// server reports otherwise.
func (s *Store) Create(ctx context.Context, sub domain.CampaignSubmission) (*domain.Campaign, error) {
	c, err := s.client.CreateCampaign(ctx, sub)
	if err != nil {
		return nil, err
	}
	if c.Status == "" {
		c.Status = domain.CampaignDraft
	}
	s.mu.Lock()
	// Prepend, replacing any duplicate a retried request may have left.
	filtered := s.campaigns[:0]
	for _, existing := range s.campaigns {
		if !existing.ID.Equal(c.ID) {
			filtered = append(filtered, existing)
		}
	}
	s.campaigns = append([]domain.Campaign{*c}, filtered...)
	s.focusedID = c.ID
	s.recipients = nil
	s.generation++
	s.notifyLocked()
	s.mu.Unlock()
	cp := *c
	return &cp, nil
}

// Update edits campaign content. Guarded by CanEdit: an illegal edit never
// reaches the network and leaves local state untouched.
func (s *Store) Update(ctx context.Context, id domain.ID, u domain.CampaignUpdate) (*domain.Campaign, error) {
	current, ok := s.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	if !domain.CanEdit(current.Status) {
		return nil, fmt.Errorf("edit in status %q: %w", current.Status, ErrInvalidTransition)
	}

	c, err := s.client.UpdateCampaign(ctx, id, u)
	if err != nil {
		return nil, err
	}
	s.applyResult(*c)
	cp := *c
	return &cp, nil
}

// Send triggers the outbound dispatch job. Guarded by CanSend.
func (s *Store) Send(ctx context.Context, id domain.ID) (*domain.Campaign, error) {
	current, ok := s.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	if !domain.CanSend(current.Status) {
		return nil, fmt.Errorf("send in status %q: %w", current.Status, ErrInvalidTransition)
	}

	c, err := s.client.SendCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	s.applyResult(*c)
	cp := *c
	return &cp, nil
}

// Transition requests a lifecycle change (pause, resume, cancel). Guarded by
// CanTransition over the local status.
func (s *Store) Transition(ctx context.Context, id domain.ID, to domain.CampaignStatus) (*domain.Campaign, error) {
	current, ok := s.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	if !domain.CanTransition(current.Status, to) {
		return nil, fmt.Errorf("%s -> %s: %w", current.Status, to, ErrInvalidTransition)
	}

	c, err := s.client.UpdateStatus(ctx, id, to)
	if err != nil {
		return nil, err
	}
	s.applyResult(*c)
	cp := *c
	return &cp, nil
}

// Delete removes a campaign. Guarded by CanDelete. If the deleted campaign
// was focused, focus is cleared.
func (s *Store) Delete(ctx context.Context, id domain.ID) error {
	current, ok := s.Get(id)
	if !ok {
		return ErrNotFound
	}
	if !domain.CanDelete(current.Status) {
		return fmt.Errorf("delete in status %q: %w", current.Status, ErrInvalidTransition)
	}

	if err := s.client.DeleteCampaign(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.campaigns[:0]
	for _, c := range s.campaigns {
		if !c.ID.Equal(id) {
			kept = append(kept, c)
		}
	}
	s.campaigns = kept
	if s.focusedID.Equal(id) {
		s.focusedID = ""
		s.recipients = nil
		s.generation++
	}
	s.notifyLocked()
	s.mu.Unlock()
	return nil
}

// applyResult upserts a mutation result returned by the backend.
func (s *Store) applyResult(c domain.Campaign) {
	s.mu.Lock()
	s.upsertLocked(c)
	s.notifyLocked()
	s.mu.Unlock()
}

// RefreshFocused is the poll operation: it fetches the campaign and its
// recipient list concurrently and applies both in one step, so observers
// never see status and recipients from two different ticks half-applied.
// A result whose generation no longer matches (the view moved on) is
// silently dropped.
func (s *Store) RefreshFocused(ctx context.Context, id domain.ID) error {
	gen := s.Generation()

	var (
		wg      sync.WaitGroup
		c       *domain.Campaign
		recs    []domain.Recipient
		cErr    error
		recsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		c, cErr = s.client.GetCampaign(ctx, id)
	}()
	go func() {
		defer wg.Done()
		recs, recsErr = s.client.GetRecipients(ctx, id)
	}()
	wg.Wait()

	if cErr != nil {
		return fmt.Errorf("fetch campaign %s: %w", id, cErr)
	}
	if recsErr != nil {
		return fmt.Errorf("fetch recipients %s: %w", id, recsErr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen || !s.focusedID.Equal(id) {
		logger.Debug("dropping stale poll result", "campaign_id", id.String())
		return nil
	}
	s.upsertLocked(*c)
	s.recipients = recs
	s.notifyLocked()
	return nil
}
