// Package preview renders a campaign's subject and body against a lead's
// fields using Liquid templates, so a sender can check personalization
// before submitting. Rendering here is advisory; the backend does its own
// pass at send time.
package preview

import (
	"crypto/md5"
	"fmt"
	"strings"
	"sync"

	"github.com/osteele/liquid"

	"github.com/ignite/campaign-console/internal/domain"
)

// Renderer renders Liquid templates with parse caching. Safe for
// concurrent use.
type Renderer struct {
	engine *liquid.Engine
	cache  sync.Map // md5 of source -> *liquid.Template
}

// NewRenderer creates a renderer with the console's custom filters.
func NewRenderer() *Renderer {
	engine := liquid.NewEngine()

	// {{ name | first_name }} -> "Anna" from "Anna de Vries"
	engine.RegisterFilter("first_name", func(s string) string {
		fields := strings.Fields(s)
		if len(fields) == 0 {
			return s
		}
		return fields[0]
	})

	// {{ company | possessive }} -> "Acme's"
	engine.RegisterFilter("possessive", func(s string) string {
		if s == "" {
			return s
		}
		if strings.HasSuffix(s, "s") {
			return s + "'"
		}
		return s + "'s"
	})

	return &Renderer{engine: engine}
}

// Bindings exposes the lead fields available to templates.
func Bindings(lead domain.Lead) map[string]any {
	return map[string]any{
		"name":     lead.Name,
		"company":  lead.Company,
		"title":    lead.Title,
		"location": lead.Location,
		"email":    lead.Email,
	}
}

// Render renders one template source against the given bindings.
func (r *Renderer) Render(source string, bindings map[string]any) (string, error) {
	tmpl, err := r.parse(source)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}
	out, err := tmpl.RenderString(bindings)
	if err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return out, nil
}

// RenderCampaign renders subject and body for one lead.
func (r *Renderer) RenderCampaign(c domain.Campaign, lead domain.Lead) (subject, body string, err error) {
	bindings := Bindings(lead)
	subject, err = r.Render(c.Subject, bindings)
	if err != nil {
		return "", "", fmt.Errorf("subject: %w", err)
	}
	body, err = r.Render(c.Body, bindings)
	if err != nil {
		return "", "", fmt.Errorf("body: %w", err)
	}
	return subject, body, nil
}

func (r *Renderer) parse(source string) (*liquid.Template, error) {
	key := fmt.Sprintf("%x", md5.Sum([]byte(source)))
	if cached, ok := r.cache.Load(key); ok {
		return cached.(*liquid.Template), nil
	}
	tmpl, err := r.engine.ParseString(source)
	if err != nil {
		return nil, err
	}
	r.cache.Store(key, tmpl)
	return tmpl, nil
}
