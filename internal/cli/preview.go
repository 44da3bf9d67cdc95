package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignite/campaign-console/internal/domain"
	"github.com/ignite/campaign-console/internal/leads"
	"github.com/ignite/campaign-console/internal/preview"
)

// NewPreviewCommand creates the preview command: renders a campaign's
// templates against a real lead so placeholder mistakes surface before send.
func NewPreviewCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		campaignID string
		subject    string
		body       string
	)

	cmd := &cobra.Command{
		Use:   "preview <lead-id>",
		Short: "Render campaign templates for one lead",
		Long: `Render subject and body templates for a specific lead.

Templates come from an existing campaign (--campaign) or directly from
--subject/--body. Placeholders: {{ name }}, {{ company }}, {{ title }},
{{ location }}, {{ email }}, plus the first_name and possessive filters.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, st, err := setup(rootOpts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if campaignID != "" {
				c, err := st.Load(ctx, domain.ID(campaignID))
				if err != nil {
					return err
				}
				subject, body = c.Subject, c.Body
			}

			dir, err := leads.Fetch(ctx, client)
			if err != nil {
				return err
			}
			var lead *domain.Lead
			for _, r := range dir.Requirements() {
				for _, l := range dir.ForRequirement(r.ID) {
					if l.ID.Equal(domain.ID(args[0])) {
						lead = &l
						break
					}
				}
			}
			if lead == nil {
				return fmt.Errorf("lead %s not found", args[0])
			}

			r := preview.NewRenderer()
			renderedSubject, err := r.Render(subject, preview.Bindings(*lead))
			if err != nil {
				return fmt.Errorf("render subject: %w", err)
			}
			renderedBody, err := r.Render(body, preview.Bindings(*lead))
			if err != nil {
				return fmt.Errorf("render body: %w", err)
			}

			if rootOpts.Format == "json" {
				return printJSON(map[string]string{
					"subject": renderedSubject,
					"body":    renderedBody,
				})
			}
			fmt.Printf("To:      %s <%s>\n", lead.Name, lead.Email)
			fmt.Printf("Subject: %s\n\n%s\n", renderedSubject, renderedBody)
			return nil
		},
	}

	cmd.Flags().StringVar(&campaignID, "campaign", "", "campaign id to take templates from")
	cmd.Flags().StringVar(&subject, "subject", "", "subject template")
	cmd.Flags().StringVar(&body, "body", "", "body template")

	return cmd
}
