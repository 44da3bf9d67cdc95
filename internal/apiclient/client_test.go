package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/campaign-console/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, Token: "test-token"})
}

func TestBearerAuthAttached(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})

	_, err := c.ListCampaigns(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestGetCampaignNormalizesIDAndStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/campaigns/42", r.URL.Path)
		// Numeric id and the legacy "sent" status, both normalized on decode.
		w.Write([]byte(`{"id": 42, "name": "Q3 outreach", "status": "sent", "sent_count": 10}`))
	})

	campaign, err := c.GetCampaign(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, domain.ID("42"), campaign.ID)
	assert.Equal(t, domain.CampaignCompleted, campaign.Status)
	assert.Equal(t, 10, campaign.SentCount)
}

func TestServerRejectionCarriesMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error": "campaign is already sending"}`))
	})

	_, err := c.SendCampaign(context.Background(), "42")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "campaign is already sending", apiErr.Message)
}

func TestServerRejectionNonJSONBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	})
	// Plain write client; no retry masking the error here.
	_, err := c.CreateCampaign(context.Background(), domain.CampaignSubmission{Name: "x"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "upstream unavailable", apiErr.Message)
}

func TestCreateCampaignSendsRecipientPayload(t *testing.T) {
	var gotBody []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "c-1", "status": "draft"}`))
	})

	campaign, err := c.CreateCampaign(context.Background(), domain.CampaignSubmission{
		Name:            "Book Sellers NL",
		Subject:         "Hello",
		RecipientIDs:    []domain.ID{"1", "2"},
		RecipientEmails: map[string]string{"1": "a@x.com", "2": "b@x.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignDraft, campaign.Status)
	assert.Contains(t, string(gotBody), `"recipient_ids":["1","2"]`)
	assert.Contains(t, string(gotBody), `"recipient_emails"`)
}

func TestUpdateStatusPut(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/campaigns/42/status", r.URL.Path)
		w.Write([]byte(`{"id": "42", "status": "paused"}`))
	})

	campaign, err := c.UpdateStatus(context.Background(), "42", domain.CampaignPaused)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignPaused, campaign.Status)
}

func TestDeleteCampaignNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.DeleteCampaign(context.Background(), "42"))
}

func TestListLeadsMixedIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 1, "requirement_id": 7, "name": "Anna", "email": "a@x.com", "email_verified": true},
			{"id": "2", "requirement_id": "7", "name": "Bram", "email": null}
		]`))
	})

	leads, err := c.ListLeads(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, domain.ID("1"), leads[0].ID)
	assert.Equal(t, domain.ID("7"), leads[0].RequirementID)
	assert.Equal(t, domain.ID("7"), leads[1].RequirementID)
	assert.False(t, leads[1].HasEmail())
}
