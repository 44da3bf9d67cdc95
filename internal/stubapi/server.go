package stubapi

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/campaign-console/internal/domain"
	"github.com/ignite/campaign-console/internal/pkg/httputil"
)

// Server is the stub campaign backend. It enforces the same lifecycle rules
// the console applies locally, so a console built against it behaves like one
// built against the production API.
type Server struct {
	repo    Repository
	token   string
	handler http.Handler
	server  *http.Server
}

// NewServer creates the stub backend. An empty token disables auth.
func NewServer(repo Repository, token string) *Server {
	s := &Server{repo: repo, token: token}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.OK(w, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		if s.token != "" {
			r.Use(s.requireBearer)
		}
		r.Get("/campaigns", s.listCampaigns)
		r.Post("/campaigns", s.createCampaign)
		r.Get("/campaigns/{id}", s.getCampaign)
		r.Put("/campaigns/{id}", s.updateCampaign)
		r.Delete("/campaigns/{id}", s.deleteCampaign)
		r.Get("/campaigns/{id}/recipients", s.listRecipients)
		r.Post("/campaigns/{id}/send", s.sendCampaign)
		r.Put("/campaigns/{id}/status", s.updateStatus)
		r.Get("/requirements", s.listRequirements)
		r.Get("/leads", s.listLeads)
	})

	return r
}

func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) != 1 {
			httputil.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe starts the HTTP server on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) campaignID(r *http.Request) domain.ID {
	return domain.ID(chi.URLParam(r, "id"))
}

func (s *Server) listCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.repo.List(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if campaigns == nil {
		campaigns = []domain.Campaign{}
	}
	httputil.OK(w, campaigns)
}

func (s *Server) getCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := s.repo.Get(r.Context(), s.campaignID(r))
	if errors.Is(err, ErrNotFound) {
		httputil.NotFound(w, "campaign not found")
		return
	}
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, c)
}

func (s *Server) createCampaign(w http.ResponseWriter, r *http.Request) {
	var sub domain.CampaignSubmission
	if !httputil.Decode(w, r, &sub) {
		return
	}
	if sub.Name == "" {
		httputil.BadRequest(w, "name is required")
		return
	}
	if len(sub.RecipientIDs) == 0 {
		httputil.BadRequest(w, "at least one recipient is required")
		return
	}

	recipients := make([]domain.Recipient, 0, len(sub.RecipientIDs))
	for _, id := range sub.RecipientIDs {
		email := sub.RecipientEmails[id.String()]
		if email == "" {
			httputil.BadRequest(w, fmt.Sprintf("recipient %s has no email", id))
			return
		}
		recipients = append(recipients, domain.Recipient{
			LeadID: id,
			Email:  email,
			Status: "pending",
		})
	}

	c := &domain.Campaign{
		Name:         sub.Name,
		Subject:      sub.Subject,
		Body:         sub.Body,
		TemplateID:   sub.TemplateID,
		SMTPConfigID: sub.SMTPConfigID,
		ScheduledAt:  sub.ScheduledAt,
		Status:       domain.CampaignDraft,
	}
	if sub.ScheduledAt != nil {
		c.Status = domain.CampaignScheduled
	}
	if err := s.repo.Create(r.Context(), c, recipients); err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.Created(w, c)
}

func (s *Server) updateCampaign(w http.ResponseWriter, r *http.Request) {
	id := s.campaignID(r)
	cur, err := s.repo.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		httputil.NotFound(w, "campaign not found")
		return
	}
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if !domain.CanEdit(cur.Status) {
		httputil.Conflict(w, fmt.Sprintf("cannot edit campaign in status %q", cur.Status))
		return
	}

	var u domain.CampaignUpdate
	if !httputil.Decode(w, r, &u) {
		return
	}
	c, err := s.repo.Update(r.Context(), id, u)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, c)
}

func (s *Server) sendCampaign(w http.ResponseWriter, r *http.Request) {
	id := s.campaignID(r)
	cur, err := s.repo.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		httputil.NotFound(w, "campaign not found")
		return
	}
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if !domain.CanSend(cur.Status) {
		httputil.Conflict(w, fmt.Sprintf("cannot send campaign in status %q", cur.Status))
		return
	}
	c, err := s.repo.SetStatus(r.Context(), id, domain.CampaignSending)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, c)
}

func (s *Server) updateStatus(w http.ResponseWriter, r *http.Request) {
	id := s.campaignID(r)
	var body struct {
		Status string `json:"status"`
	}
	if !httputil.Decode(w, r, &body) {
		return
	}
	target := domain.NormalizeStatus(body.Status)

	cur, err := s.repo.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		httputil.NotFound(w, "campaign not found")
		return
	}
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if !domain.CanTransition(cur.Status, target) {
		httputil.Conflict(w, fmt.Sprintf("invalid transition %s -> %s", cur.Status, target))
		return
	}
	c, err := s.repo.SetStatus(r.Context(), id, target)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, c)
}

func (s *Server) deleteCampaign(w http.ResponseWriter, r *http.Request) {
	id := s.campaignID(r)
	cur, err := s.repo.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		httputil.NotFound(w, "campaign not found")
		return
	}
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if !domain.CanDelete(cur.Status) {
		httputil.Conflict(w, fmt.Sprintf("cannot delete campaign in status %q", cur.Status))
		return
	}
	if err := s.repo.Delete(r.Context(), id); err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.NoContent(w)
}

func (s *Server) listRecipients(w http.ResponseWriter, r *http.Request) {
	recs, err := s.repo.Recipients(r.Context(), s.campaignID(r))
	if errors.Is(err, ErrNotFound) {
		httputil.NotFound(w, "campaign not found")
		return
	}
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if recs == nil {
		recs = []domain.Recipient{}
	}
	httputil.OK(w, recs)
}

func (s *Server) listRequirements(w http.ResponseWriter, r *http.Request) {
	reqs, err := s.repo.ListRequirements(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if reqs == nil {
		reqs = []domain.Requirement{}
	}
	httputil.OK(w, reqs)
}

func (s *Server) listLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := s.repo.ListLeads(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if leads == nil {
		leads = []domain.Lead{}
	}
	httputil.OK(w, leads)
}
