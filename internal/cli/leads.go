package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignite/campaign-console/internal/domain"
	"github.com/ignite/campaign-console/internal/leads"
)

// NewLeadsCommand creates the leads command group.
func NewLeadsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Browse requirements and their leads",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "requirements",
		Short:         "List requirements with email coverage",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, _, err := setup(rootOpts)
			if err != nil {
				return err
			}
			dir, err := leads.Fetch(cmd.Context(), client)
			if err != nil {
				return err
			}
			reqs := dir.Requirements()
			if rootOpts.Format == "json" {
				return printJSON(reqs)
			}
			for _, r := range reqs {
				withEmail, total := dir.EmailCoverage(r.ID)
				fmt.Printf("%-10s  %-40s  %d/%d leads with email\n", r.ID, r.Name, withEmail, total)
			}
			return nil
		},
	})

	var requirement string
	list := &cobra.Command{
		Use:           "list",
		Short:         "List leads for one requirement",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, _, err := setup(rootOpts)
			if err != nil {
				return err
			}
			dir, err := leads.Fetch(cmd.Context(), client)
			if err != nil {
				return err
			}
			pool := dir.ForRequirement(domain.ID(requirement))
			if rootOpts.Format == "json" {
				return printJSON(pool)
			}
			for _, l := range pool {
				email := l.Email
				if !l.HasEmail() {
					email = "(no email)"
				}
				fmt.Printf("%-10s  %-25s  %-25s  %s\n", l.ID, l.Name, l.Company, email)
			}
			return nil
		},
	}
	list.Flags().StringVar(&requirement, "requirement", "", "requirement id (required)")
	_ = list.MarkFlagRequired("requirement")
	cmd.AddCommand(list)

	return cmd
}
