// Package cli provides the command-line interface for mission-control.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/mission-control/internal/app"
	"github.com/runoshun/mission-control/internal/domain"
)

// Command group IDs.
const (
	groupSetup    = "setup"
	groupTask     = "task"
	groupWorkflow = "workflow"
	groupAgent    = "agent"
)

// EnvAgent names the environment variable holding the default acting agent.
const EnvAgent = "MC_AGENT"

// DataDirFlag is the persistent flag selecting the data directory.
// main reads it before the container is built; cobra only needs to accept it.
const DataDirFlag = "data-dir"

// NewRootCommand builds the mc command tree. c may be nil when only help or
// version output is needed.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:   "mc",
		Short: "Task tracking for a team of agents",
		Long: `mission-control tracks tasks, agents and @mentions for a small team
of human or automated agents.

Tasks move backlog -> todo -> in_progress -> review -> done. Agents pick
tasks, log progress and complete them with deliverables and pull requests.
Comments that @mention a roster agent notify that agent.

The acting agent is taken from --as or the MC_AGENT environment variable.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true, // main prints the error
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c == nil || c.AppConfig == nil {
				return nil
			}
			if c.ConfigErr != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v (using defaults)\n", c.ConfigErr)
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&dataDir, DataDirFlag, domain.DefaultDataDir, "Data directory (env MC_DATA_DIR)")

	groups := []struct {
		id       string
		title    string
		commands []func(*app.Container) *cobra.Command
	}{
		{groupSetup, "Setup Commands:", []func(*app.Container) *cobra.Command{
			newInitCommand, newConfigCommand, newSeedCommand, newWatchCommand,
		}},
		{groupTask, "Task Management:", []func(*app.Container) *cobra.Command{
			newNewCommand, newListCommand, newShowCommand, newEditCommand, newRmCommand, newCommentCommand,
		}},
		{groupWorkflow, "Agent Workflow:", []func(*app.Container) *cobra.Command{
			newPickCommand, newLogCommand, newCompleteCommand, newMineCommand,
		}},
		{groupAgent, "Agents and Mentions:", []func(*app.Container) *cobra.Command{
			newAgentsCommand, newAgentCommand, newMentionsCommand,
		}},
	}
	for _, g := range groups {
		root.AddGroup(&cobra.Group{ID: g.id, Title: g.title})
		for _, newCmd := range g.commands {
			cmd := newCmd(c)
			cmd.GroupID = g.id
			root.AddCommand(cmd)
		}
	}

	return root
}
