package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ignite/campaign-console/internal/domain"
	"github.com/ignite/campaign-console/internal/leads"
	"github.com/ignite/campaign-console/internal/reconcile"
)

// NewCampaignsCommand creates the campaigns command group.
func NewCampaignsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campaigns",
		Short: "List, create and control campaigns",
	}

	cmd.AddCommand(newCampaignsListCommand(rootOpts))
	cmd.AddCommand(newCampaignsGetCommand(rootOpts))
	cmd.AddCommand(newCampaignsCreateCommand(rootOpts))
	cmd.AddCommand(newCampaignsSendCommand(rootOpts))
	cmd.AddCommand(newTransitionCommand(rootOpts, "pause", domain.CampaignPaused, "Pause a sending campaign"))
	cmd.AddCommand(newTransitionCommand(rootOpts, "resume", domain.CampaignSending, "Resume a paused campaign"))
	cmd.AddCommand(newTransitionCommand(rootOpts, "cancel", domain.CampaignCancelled, "Cancel a campaign"))
	cmd.AddCommand(newCampaignsDeleteCommand(rootOpts))

	return cmd
}

func newCampaignsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List all campaigns",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, st, err := setup(rootOpts)
			if err != nil {
				return err
			}
			if err := st.Refresh(cmd.Context()); err != nil {
				return err
			}
			campaigns := st.Campaigns()
			if rootOpts.Format == "json" {
				return printJSON(campaigns)
			}
			if len(campaigns) == 0 {
				fmt.Println("no campaigns")
				return nil
			}
			for _, c := range campaigns {
				fmt.Printf("%-36s  %-10s  %-30s  %d/%d sent\n",
					c.ID, c.Status, c.Name, c.SentCount, c.TotalRecipients)
			}
			return nil
		},
	}
}

func newCampaignsGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "get <id>",
		Short:         "Show one campaign with its recipients",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, st, err := setup(rootOpts)
			if err != nil {
				return err
			}
			id := domain.ID(args[0])
			c, err := st.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			recipients, err := client.GetRecipients(cmd.Context(), id)
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return printJSON(map[string]any{"campaign": c, "recipients": recipients})
			}
			printCampaign(c)
			fmt.Printf("\nRecipients (%d):\n", len(recipients))
			for _, r := range recipients {
				fmt.Printf("  %-30s  %s\n", r.Email, r.Status)
			}
			return nil
		},
	}
}

func printCampaign(c *domain.Campaign) {
	fmt.Printf("ID:       %s\n", c.ID)
	fmt.Printf("Name:     %s\n", c.Name)
	fmt.Printf("Subject:  %s\n", c.Subject)
	fmt.Printf("Status:   %s\n", c.Status)
	if c.ScheduledAt != nil {
		fmt.Printf("Schedule: %s\n", c.ScheduledAt.Format(time.RFC3339))
	}
	fmt.Printf("Progress: %d/%d sent, %d opened, %d clicked, %d replied, %d bounced\n",
		c.SentCount, c.TotalRecipients, c.OpenedCount, c.ClickedCount,
		c.RepliedCount, c.BouncedCount)
}

func newCampaignsCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		name        string
		subject     string
		body        string
		requirement string
		leadIDs     []string
		selectAll   bool
		overrides   []string
		schedule    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a campaign from a requirement's leads",
		Long: `Create a campaign by selecting leads from one requirement.

Leads without a usable email cannot be selected; --all selects only those
with one. Use --override id=email to supply or replace an address.

Example:
  console campaigns create --name "Q3 Launch" --subject "Hi {{ name }}" \
    --body "Hello {{ name | first_name }}" --requirement 12 --all --override 7=ceo@corp.example`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, st, err := setup(rootOpts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			dir, err := leads.Fetch(ctx, client)
			if err != nil {
				return fmt.Errorf("fetch leads: %w", err)
			}
			reqID := domain.ID(requirement)
			pool := dir.ForRequirement(reqID)
			if len(pool) == 0 {
				return fmt.Errorf("requirement %s has no leads", requirement)
			}

			sel := reconcile.NewSelection()
			sel.SetRequirement(reqID, pool)
			for _, ov := range overrides {
				id, email, ok := strings.Cut(ov, "=")
				if !ok {
					return fmt.Errorf("invalid --override %q, want id=email", ov)
				}
				sel.SetOverride(domain.ID(id), email)
			}
			if selectAll {
				sel.SelectAll()
			}
			for _, id := range leadIDs {
				if !sel.IsSelected(domain.ID(id)) {
					sel.Toggle(domain.ID(id))
				}
				if !sel.IsSelected(domain.ID(id)) {
					return fmt.Errorf("lead %s has no email; supply one with --override %s=...", id, id)
				}
			}

			sub, err := sel.BuildSubmission()
			var incomplete *reconcile.IncompleteRecipientDataError
			if errors.As(err, &incomplete) {
				return fmt.Errorf("missing emails for: %s", strings.Join(incomplete.Names, ", "))
			}
			if err != nil {
				return err
			}
			if len(sub.RecipientIDs) == 0 {
				return errors.New("no recipients selected")
			}

			submission := domain.CampaignSubmission{
				Name:            name,
				Subject:         subject,
				Body:            body,
				RecipientIDs:    sub.RecipientIDs,
				RecipientEmails: sub.RecipientEmails,
			}
			if schedule != "" {
				at, err := time.Parse(time.RFC3339, schedule)
				if err != nil {
					return fmt.Errorf("invalid --schedule %q: %w", schedule, err)
				}
				submission.ScheduledAt = &at
			}

			c, err := st.Create(ctx, submission)
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return printJSON(c)
			}
			fmt.Printf("created campaign %s (%s) with %d recipients\n", c.ID, c.Status, c.TotalRecipients)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "campaign name (required)")
	cmd.Flags().StringVar(&subject, "subject", "", "subject template")
	cmd.Flags().StringVar(&body, "body", "", "body template")
	cmd.Flags().StringVar(&requirement, "requirement", "", "requirement id to pull leads from (required)")
	cmd.Flags().StringSliceVar(&leadIDs, "lead", nil, "lead id to include (repeatable)")
	cmd.Flags().BoolVar(&selectAll, "all", false, "include every lead with a usable email")
	cmd.Flags().StringSliceVar(&overrides, "override", nil, "email override as id=email (repeatable)")
	cmd.Flags().StringVar(&schedule, "schedule", "", "schedule time (RFC3339)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("requirement")

	return cmd
}

func newCampaignsSendCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "send <id>",
		Short:         "Start sending a draft or scheduled campaign",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, st, err := setup(rootOpts)
			if err != nil {
				return err
			}
			if _, err := st.Load(cmd.Context(), domain.ID(args[0])); err != nil {
				return err
			}
			c, err := st.Send(cmd.Context(), domain.ID(args[0]))
			if err != nil {
				return err
			}
			fmt.Printf("campaign %s is now %s\n", c.ID, c.Status)
			return nil
		},
	}
}

func newTransitionCommand(rootOpts *RootOptions, verb string, to domain.CampaignStatus, short string) *cobra.Command {
	return &cobra.Command{
		Use:           verb + " <id>",
		Short:         short,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, st, err := setup(rootOpts)
			if err != nil {
				return err
			}
			if _, err := st.Load(cmd.Context(), domain.ID(args[0])); err != nil {
				return err
			}
			c, err := st.Transition(cmd.Context(), domain.ID(args[0]), to)
			if err != nil {
				return err
			}
			fmt.Printf("campaign %s is now %s\n", c.ID, c.Status)
			return nil
		},
	}
}

func newCampaignsDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a campaign (not allowed while sending)",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, st, err := setup(rootOpts)
			if err != nil {
				return err
			}
			if _, err := st.Load(cmd.Context(), domain.ID(args[0])); err != nil {
				return err
			}
			if err := st.Delete(cmd.Context(), domain.ID(args[0])); err != nil {
				return err
			}
			fmt.Printf("deleted campaign %s\n", args[0])
			return nil
		},
	}
}
