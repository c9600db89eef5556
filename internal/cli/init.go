package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/mission-control/internal/app"
	"github.com/runoshun/mission-control/internal/usecase"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the data directory",
		Long: `Initialize the data directory for mission-control.

This command creates the data directory with:
- empty task, agent and mention collections
- logs/: directory for log files
- one agent record per roster entry

Running init again is harmless: existing data is never modified and
only roster agents without a record are added.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitStoreUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitStoreInput{
				DataDir: c.Config.DataDir,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.AlreadyInitialized {
				_, _ = fmt.Fprintf(w, "Already initialized in %s\n", out.DataDir)
			} else {
				_, _ = fmt.Fprintf(w, "Initialized mission-control in %s\n", out.DataDir)
			}
			if len(out.SeededAgents) > 0 {
				_, _ = fmt.Fprintf(w, "Seeded agents: %s\n", strings.Join(out.SeededAgents, ", "))
			}
			return nil
		},
	}
}

// newSeedCommand creates the seed command.
func newSeedCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create agent records for new roster entries",
		Long: `Create an agent record for every roster entry that has none.

Existing agent records are left untouched. The roster is read from
the [[agents]] tables of config.toml, or the built-in roster.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.SeedAgentsUseCase().Execute(cmd.Context(), usecase.SeedAgentsInput{})
			if err != nil {
				return err
			}
			if len(out.Added) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No new agents")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Seeded agents: %s\n", strings.Join(out.Added, ", "))
			return nil
		},
	}
}
