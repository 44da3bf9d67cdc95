package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ignite/campaign-console/internal/domain"
	"github.com/ignite/campaign-console/internal/poller"
	"github.com/ignite/campaign-console/internal/snapshot"
)

// NewWatchCommand creates the watch command: live campaign progress in the
// terminal, driven by the background poller.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	var intervalMS int

	cmd := &cobra.Command{
		Use:   "watch <id>",
		Short: "Follow a campaign's send progress live",
		Long: `Follow a campaign until it reaches a terminal state or Ctrl-C.

Progress is polled in the background; slow responses never stack up, and a
temporarily unreachable backend only pauses updates. With Redis snapshots
enabled, the last known campaign list is shown immediately on start and
saved again on exit.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, st, err := setup(rootOpts)
			if err != nil {
				return err
			}
			id := domain.ID(args[0])

			var cache *snapshot.Cache
			if cfg.Snapshot.Enabled {
				cache = snapshot.New(cfg.Snapshot.RedisAddr, cfg.Snapshot.RedisDB, cfg.Snapshot.TTL())
				defer cache.Close()
				if cached, err := cache.Load(cmd.Context()); err == nil && cached != nil {
					for _, c := range cached {
						if c.ID.Equal(id) {
							fmt.Printf("(snapshot) %s: %s, %d/%d sent\n",
								c.Name, c.Status, c.SentCount, c.TotalRecipients)
						}
					}
				}
			}

			interval := cfg.Polling.Interval()
			if intervalMS > 0 {
				interval = time.Duration(intervalMS) * time.Millisecond
			}

			p := poller.New(st)
			p.TerminalPollBudget = cfg.Polling.TerminalPollBudget
			updates := st.Subscribe()
			p.Start(id, interval)
			defer p.Stop()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			for {
				select {
				case <-quit:
					fmt.Println()
					saveSnapshot(cmd, cache, st)
					return nil
				case <-updates:
					c, ok := st.Get(id)
					if !ok {
						continue
					}
					fmt.Printf("%s  %-10s  %d/%d sent  %d opened  %d clicked\n",
						time.Now().Format("15:04:05"), c.Status,
						c.SentCount, c.TotalRecipients, c.OpenedCount, c.ClickedCount)
					saveSnapshot(cmd, cache, st)
					if c.IsTerminal() {
						return nil
					}
				}
			}
		},
	}

	cmd.Flags().IntVar(&intervalMS, "interval", 0, "poll interval in milliseconds (default from config)")

	return cmd
}

func saveSnapshot(cmd *cobra.Command, cache *snapshot.Cache, st interface{ Campaigns() []domain.Campaign }) {
	if cache == nil {
		return
	}
	if err := cache.Save(cmd.Context(), st.Campaigns()); err != nil {
		fmt.Fprintf(os.Stderr, "snapshot save failed: %v\n", err)
	}
}
