// Package apiclient implements the campaign backend boundary over HTTP+JSON
// with bearer-token auth. It satisfies store.Client and also exposes the
// requirement/lead source.
//
// Reads go through a retrying client (they are idempotent and the poller
// re-issues them anyway); mutations use a plain client and are never retried
// automatically — an ambiguous create/send failure must surface to the
// caller, not be replayed.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ignite/campaign-console/internal/domain"
	"github.com/ignite/campaign-console/internal/pkg/httpretry"
)

// APIError is a server rejection (4xx/5xx with a body). Message carries the
// server-provided error text when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// Config holds connection settings for the campaign backend.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client is the HTTP campaign API client. Safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	read    httpretry.HTTPDoer
	write   httpretry.HTTPDoer
}

// New creates a client for the given backend.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	base := &http.Client{Timeout: timeout}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		read:    httpretry.NewRetryClient(base, 2),
		write:   base,
	}
}

// SetHTTPClients swaps the underlying doers (useful for testing).
func (c *Client) SetHTTPClients(read, write httpretry.HTTPDoer) {
	c.read = read
	c.write = write
}

// do performs one authenticated request and decodes the JSON response into
// out (when non-nil). Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, doer httpretry.HTTPDoer, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := doer.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage pulls the server's message out of an error body, falling back
// to the raw body for non-JSON responses.
func errorMessage(body []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return strings.TrimSpace(string(body))
}

// ListCampaigns returns the complete campaign set.
func (c *Client) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	var out []domain.Campaign
	if err := c.do(ctx, c.read, http.MethodGet, "/campaigns", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCampaign returns a single campaign.
func (c *Client) GetCampaign(ctx context.Context, id domain.ID) (*domain.Campaign, error) {
	var out domain.Campaign
	if err := c.do(ctx, c.read, http.MethodGet, "/campaigns/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRecipients returns the recipient list for a campaign.
func (c *Client) GetRecipients(ctx context.Context, id domain.ID) ([]domain.Recipient, error) {
	var out []domain.Recipient
	if err := c.do(ctx, c.read, http.MethodGet, "/campaigns/"+id.String()+"/recipients", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCampaign submits a new campaign.
func (c *Client) CreateCampaign(ctx context.Context, sub domain.CampaignSubmission) (*domain.Campaign, error) {
	var out domain.Campaign
	if err := c.do(ctx, c.write, http.MethodPost, "/campaigns", sub, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCampaign modifies campaign content.
func (c *Client) UpdateCampaign(ctx context.Context, id domain.ID, u domain.CampaignUpdate) (*domain.Campaign, error) {
	var out domain.Campaign
	if err := c.do(ctx, c.write, http.MethodPut, "/campaigns/"+id.String(), u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendCampaign triggers the outbound dispatch job.
func (c *Client) SendCampaign(ctx context.Context, id domain.ID) (*domain.Campaign, error) {
	var out domain.Campaign
	if err := c.do(ctx, c.write, http.MethodPost, "/campaigns/"+id.String()+"/send", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStatus requests a lifecycle transition via a status-changing PUT.
func (c *Client) UpdateStatus(ctx context.Context, id domain.ID, status domain.CampaignStatus) (*domain.Campaign, error) {
	body := map[string]string{"status": string(status)}
	var out domain.Campaign
	if err := c.do(ctx, c.write, http.MethodPut, "/campaigns/"+id.String()+"/status", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCampaign removes a campaign.
func (c *Client) DeleteCampaign(ctx context.Context, id domain.ID) error {
	return c.do(ctx, c.write, http.MethodDelete, "/campaigns/"+id.String(), nil, nil)
}

// ListRequirements returns the known lead groupings.
func (c *Client) ListRequirements(ctx context.Context) ([]domain.Requirement, error) {
	var out []domain.Requirement
	if err := c.do(ctx, c.read, http.MethodGet, "/requirements", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListLeads returns the flat lead list; grouping by requirement happens
// client-side (internal/leads).
func (c *Client) ListLeads(ctx context.Context) ([]domain.Lead, error) {
	var out []domain.Lead
	if err := c.do(ctx, c.read, http.MethodGet, "/leads", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
