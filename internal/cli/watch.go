package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/runoshun/mission-control/internal/app"
	"github.com/runoshun/mission-control/internal/usecase"
)

// newWatchCommand creates the watch command.
func newWatchCommand(c *app.Container) *cobra.Command {
	var opts struct {
		As     string
		NoSeed bool
	}

	cmd := &cobra.Command{
		Use:   "watch [tasks|agents|mentions]",
		Short: "Print a summary whenever a collection is polled",
		Long: `Poll a collection and print a one-line summary of every snapshot
until interrupted. The poll interval is [watch] interval in config.toml.

While watching, agent records are re-seeded from the roster on the
[watch] seed_schedule cron spec, so agents added to config.toml appear
without a restart. Use --no-seed to disable.

Examples:
  # Watch the board
  mc watch

  # Watch unread mentions of ux
  mc watch mentions --as ux`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{usecase.WatchTasks, usecase.WatchAgents, usecase.WatchMentions},
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.WatchInput{Collection: usecase.WatchTasks}
			if len(args) > 0 {
				input.Collection = args[0]
			}
			if input.Collection == usecase.WatchMentions && actingAgentID(opts.As) != "" {
				agentID, err := resolveActingAgent(c, opts.As)
				if err != nil {
					return err
				}
				input.AgentID = agentID
			}
			if !opts.NoSeed && c.AppConfig != nil {
				input.SeedSchedule = c.AppConfig.Watch.SeedSchedule
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl-C to stop)\n", input.Collection)
			_, err := c.WatchUseCase(cmd.OutOrStdout()).Execute(ctx, input)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "For mentions: only this agent (default: $MC_AGENT)")
	cmd.Flags().BoolVar(&opts.NoSeed, "no-seed", false, "Do not re-seed agents from the roster")

	return cmd
}
