package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runoshun/mission-control/internal/app"
	"github.com/runoshun/mission-control/internal/domain"
	"github.com/runoshun/mission-control/internal/usecase"
)

// actingAgentID returns the --as value, falling back to $MC_AGENT.
func actingAgentID(as string) string {
	if strings.TrimSpace(as) != "" {
		return as
	}
	return os.Getenv(EnvAgent)
}

// loadRoster returns the current roster. A broken config still yields the
// fallback roster; the load error is logged.
func loadRoster(c *app.Container) *domain.Roster {
	roster, err := c.Roster.Roster()
	if err != nil {
		c.Logger.Warn("", "roster", fmt.Sprintf("load roster: %v", err))
	}
	if roster == nil {
		roster = domain.NewRoster(nil)
	}
	return roster
}

// resolveAgent normalizes id and checks it against the roster.
func resolveAgent(c *app.Container, id string) (string, error) {
	roster := loadRoster(c)
	resolved, err := roster.Resolve(id)
	if err != nil {
		if strings.TrimSpace(id) == "" {
			return "", fmt.Errorf("%w (use --as or set %s)", err, EnvAgent)
		}
		return "", fmt.Errorf("%q: %w (known: %s)", id, err, strings.Join(roster.IDs(), ", "))
	}
	return resolved, nil
}

// resolveActingAgent resolves the --as value or $MC_AGENT against the roster.
func resolveActingAgent(c *app.Container, as string) (string, error) {
	return resolveAgent(c, actingAgentID(as))
}

// newAgentsCommand creates the agents command for listing agents.
func newAgentsCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List agents",
		Long: `List every agent record with its presence and current task.

Output format is tab-separated with columns:
  ID, NAME, ROLE, STATUS, TASK, LAST SEEN`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListAgentsUseCase().Execute(cmd.Context(), usecase.ListAgentsInput{})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tNAME\tROLE\tSTATUS\tTASK\tLAST SEEN")
			for _, a := range out.Agents {
				taskStr := "-"
				if id := a.CurrentTaskID(); id != "" {
					taskStr = shortID(id)
				}
				_, _ = fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%s\t%s\n",
					a.ID,
					a.Emoji,
					a.Name,
					a.Role,
					a.Status,
					taskStr,
					formatDuration(c.Clock.Now().Sub(a.LastSeen)),
				)
			}
			return w.Flush()
		},
	}
}

// newAgentCommand creates the agent command group.
func newAgentCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage an agent record",
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(newAgentStatusCommand(c))

	return cmd
}

// newAgentStatusCommand creates the agent status subcommand.
func newAgentStatusCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Task      string
		ClearTask bool
	}

	cmd := &cobra.Command{
		Use:   "status <agent> <status>",
		Short: "Set an agent's presence",
		Long: `Set an agent's presence status: active, working, idle or offline.

Examples:
  # Mark ux as offline and release its task
  mc agent status ux offline --clear-task

  # Mark dev as working on a task
  mc agent status dev working --task 3f2a`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.ClearTask && opts.Task != "" {
				return fmt.Errorf("--task and --clear-task are mutually exclusive")
			}

			agentID, err := resolveAgent(c, args[0])
			if err != nil {
				return err
			}

			input := usecase.UpdateAgentStatusInput{
				AgentID:          agentID,
				Status:           domain.AgentStatus(strings.ToLower(strings.TrimSpace(args[1]))),
				ClearCurrentTask: opts.ClearTask,
			}
			if opts.Task != "" {
				taskID, err := resolveTaskID(c, opts.Task)
				if err != nil {
					return err
				}
				input.CurrentTask = &taskID
			}

			out, err := c.UpdateAgentStatusUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Agent %s is %s\n", out.Agent.ID, out.Agent.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Task, "task", "", "Set the current task")
	cmd.Flags().BoolVar(&opts.ClearTask, "clear-task", false, "Clear the current task")

	return cmd
}

// newMineCommand creates the mine command showing an agent's queue.
func newMineCommand(c *app.Container) *cobra.Command {
	var opts struct {
		As string
	}

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Show the acting agent's queue",
		Long: `Show the tasks assigned to the acting agent, most urgent first,
and the number of unread mentions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			agentID, err := resolveActingAgent(c, opts.As)
			if err != nil {
				return err
			}

			out, err := c.AgentQueueUseCase().Execute(cmd.Context(), usecase.AgentQueueInput{AgentID: agentID})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.Agent != nil {
				_, _ = fmt.Fprintf(w, "%s %s (%s)\n", out.Agent.Emoji, out.Agent.Name, out.Agent.Status)
			} else {
				_, _ = fmt.Fprintf(w, "%s (no agent record)\n", agentID)
			}
			_, _ = fmt.Fprintf(w, "Unread mentions: %d\n\n", out.UnreadMentions)

			if len(out.Tasks) == 0 {
				_, _ = fmt.Fprintln(w, "No assigned tasks")
				return nil
			}
			printTaskList(w, out.Tasks, c.Clock)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "Acting agent (default: $MC_AGENT)")

	return cmd
}
