package stubapi

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/campaign-console/internal/domain"
)

// MemoryRepo is the default in-memory repository. With Simulate enabled,
// every Get of a sending campaign advances its counters a little and
// eventually completes it, which gives `console watch` something to show.
type MemoryRepo struct {
	Simulate bool

	mu         sync.Mutex
	campaigns  map[domain.ID]*domain.Campaign
	recipients map[domain.ID][]domain.Recipient
	leads      []domain.Lead
	reqs       []domain.Requirement
}

// NewMemoryRepo creates an empty in-memory repository.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		campaigns:  make(map[domain.ID]*domain.Campaign),
		recipients: make(map[domain.ID][]domain.Recipient),
	}
}

// SeedDemoData loads a small requirement/lead dataset for local play.
func (m *MemoryRepo) SeedDemoData() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reqs = []domain.Requirement{
		{ID: "1", Name: "Book Sellers NL"},
		{ID: "2", Name: "SaaS Founders DE"},
	}
	m.leads = []domain.Lead{
		{ID: "1", RequirementID: "1", Name: "Anna de Vries", Company: "Boekhandel Pegasus", Title: "Owner", Location: "Amsterdam", Email: "anna@pegasus.example", EmailVerified: true},
		{ID: "2", RequirementID: "1", Name: "Bram Jansen", Company: "De Slegte", Title: "Buyer", Location: "Rotterdam"},
		{ID: "3", RequirementID: "1", Name: "Carla Smit", Company: "Athenaeum", Title: "Manager", Location: "Amsterdam", Email: "carla@athenaeum.example"},
		{ID: "4", RequirementID: "2", Name: "Dieter Vogel", Company: "Kraftwerk Labs", Title: "CEO", Location: "Berlin", Email: "dieter@kraftwerk.example", EmailVerified: true},
	}
}

func (m *MemoryRepo) List(context.Context) ([]domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Campaign, 0, len(m.campaigns))
	for _, c := range m.campaigns {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryRepo) Get(_ context.Context, id domain.ID) (*domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, ErrNotFound
	}
	if m.Simulate && c.Status == domain.CampaignSending {
		m.advanceLocked(c)
	}
	cp := *c
	return &cp, nil
}

// advanceLocked moves a sending campaign forward: a few more sends per
// observation, opens trailing behind, completion when everything went out.
func (m *MemoryRepo) advanceLocked(c *domain.Campaign) {
	step := 1 + c.TotalRecipients/10
	c.SentCount += step
	if c.SentCount >= c.TotalRecipients {
		c.SentCount = c.TotalRecipients
		c.Status = domain.CampaignCompleted
	}
	c.OpenedCount = c.SentCount / 3
	c.ClickedCount = c.OpenedCount / 4
	c.UpdatedAt = time.Now()

	recs := m.recipients[c.ID]
	for i := range recs {
		if i < c.SentCount {
			recs[i].Status = "sent"
		}
	}
}

func (m *MemoryRepo) Create(_ context.Context, c *domain.Campaign, recipients []domain.Recipient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = domain.ID(uuid.New().String())
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = domain.CampaignDraft
	}
	c.TotalRecipients = len(recipients)
	cp := *c
	m.campaigns[c.ID] = &cp
	m.recipients[c.ID] = append([]domain.Recipient(nil), recipients...)
	return nil
}

func (m *MemoryRepo) Update(_ context.Context, id domain.ID, u domain.CampaignUpdate) (*domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, ErrNotFound
	}
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Subject != nil {
		c.Subject = *u.Subject
	}
	if u.Body != nil {
		c.Body = *u.Body
	}
	if u.TemplateID != nil {
		c.TemplateID = *u.TemplateID
	}
	if u.SMTPConfigID != nil {
		c.SMTPConfigID = *u.SMTPConfigID
	}
	if u.ScheduledAt != nil {
		c.ScheduledAt = u.ScheduledAt
	}
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

func (m *MemoryRepo) SetStatus(_ context.Context, id domain.ID, status domain.CampaignStatus) (*domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

func (m *MemoryRepo) Delete(_ context.Context, id domain.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.campaigns[id]; !ok {
		return ErrNotFound
	}
	delete(m.campaigns, id)
	delete(m.recipients, id)
	return nil
}

func (m *MemoryRepo) Recipients(_ context.Context, id domain.ID) ([]domain.Recipient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.campaigns[id]; !ok {
		return nil, ErrNotFound
	}
	return append([]domain.Recipient(nil), m.recipients[id]...), nil
}

func (m *MemoryRepo) ListLeads(context.Context) ([]domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Lead(nil), m.leads...), nil
}

func (m *MemoryRepo) ListRequirements(context.Context) ([]domain.Requirement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Requirement(nil), m.reqs...), nil
}
