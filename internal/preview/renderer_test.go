package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/campaign-console/internal/domain"
)

func TestRenderCampaign(t *testing.T) {
	r := NewRenderer()
	c := domain.Campaign{
		Subject: "{{ name | first_name }}, quick question about {{ company }}",
		Body:    "<p>Hi {{ name | first_name }}, I saw {{ company | possessive }} work in {{ location }}.</p>",
	}
	lead := domain.Lead{
		Name: "Anna de Vries", Company: "Boekhandel Pegasus", Location: "Amsterdam",
	}

	subject, body, err := r.RenderCampaign(c, lead)
	require.NoError(t, err)
	assert.Equal(t, "Anna, quick question about Boekhandel Pegasus", subject)
	assert.Contains(t, body, "Boekhandel Pegasus' work in Amsterdam")
}

func TestPossessiveFilter(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render("{{ company | possessive }}", map[string]any{"company": "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "Acme's", out)
}

func TestMissingVariableRendersEmpty(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render("Hello {{ nickname }}!", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "Hello !", out)
}

func TestParseErrorSurfaces(t *testing.T) {
	r := NewRenderer()
	_, err := r.Render("{% if %}", map[string]any{})
	assert.Error(t, err)
}

func TestParseCacheReuse(t *testing.T) {
	r := NewRenderer()
	const src = "{{ name }}"
	_, err := r.Render(src, map[string]any{"name": "a"})
	require.NoError(t, err)
	out, err := r.Render(src, map[string]any{"name": "b"})
	require.NoError(t, err)
	assert.Equal(t, "b", out)
}
