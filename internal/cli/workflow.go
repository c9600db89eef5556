package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/mission-control/internal/app"
	"github.com/runoshun/mission-control/internal/domain"
	"github.com/runoshun/mission-control/internal/usecase"
)

// newPickCommand creates the pick command.
func newPickCommand(c *app.Container) *cobra.Command {
	var opts struct {
		As string
	}

	cmd := &cobra.Command{
		Use:   "pick <id>",
		Short: "Pick a task and start working on it",
		Long: `Assign a task to the acting agent and move it to in_progress.

The agent becomes 'working' with the task as its current task. If the
task was assigned to another agent who was working on it, that agent
is released.

Examples:
  mc pick 3f2a --as dev`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agentID, err := resolveActingAgent(c, opts.As)
			if err != nil {
				return err
			}
			taskID, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}

			out, err := c.PickTaskUseCase().Execute(cmd.Context(), usecase.PickTaskInput{
				TaskID:  taskID,
				AgentID: agentID,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s picked task %s: %s\n", agentID, out.Task.ID, out.Task.Title)
			if out.PreviousAgent != "" {
				_, _ = fmt.Fprintf(w, "Previously assigned to %s\n", out.PreviousAgent)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "Acting agent (default: $MC_AGENT)")

	return cmd
}

// newLogCommand creates the log command for work-log entries.
func newLogCommand(c *app.Container) *cobra.Command {
	var opts struct {
		As      string
		Blocked bool
	}

	cmd := &cobra.Command{
		Use:   "log <id> <note>",
		Short: "Record progress on a task",
		Long: `Append a progress (or blocked) entry to a task's work log.

The task status is not changed.

Examples:
  # Log progress
  mc log 3f2a "Drafted the intro" --as writer

  # Report a blocker
  mc log 3f2a "Waiting on API keys" --blocked --as dev`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			agentID, err := resolveActingAgent(c, opts.As)
			if err != nil {
				return err
			}
			taskID, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}

			action := domain.ActionProgress
			if opts.Blocked {
				action = domain.ActionBlocked
			}

			out, err := c.LogWorkUseCase().Execute(cmd.Context(), usecase.LogWorkInput{
				TaskID:  taskID,
				AgentID: agentID,
				Action:  action,
				Note:    strings.Join(args[1:], " "),
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged %s on task %s\n", out.Entry.Action, out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "Acting agent (default: $MC_AGENT)")
	cmd.Flags().BoolVar(&opts.Blocked, "blocked", false, "Record a blocker instead of progress")

	return cmd
}

// newCompleteCommand creates the complete command.
func newCompleteCommand(c *app.Container) *cobra.Command {
	var opts struct {
		As           string
		Note         string
		Deliverables []string
		PullRequests []string
	}

	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Complete a task and send it to review",
		Long: `Mark a task as completed by the acting agent.

The task moves to 'review' and the agent returns to 'active'.
Deliverables (.md paths) and pull request URLs are merged into the
task's existing lists without duplicates.

Examples:
  mc complete 3f2a --as writer --deliverable docs/launch.md

  mc complete 3f2a --as dev --note "Fixed and tested" \
    --pr https://github.com/acme/web/pull/42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agentID, err := resolveActingAgent(c, opts.As)
			if err != nil {
				return err
			}
			taskID, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}

			out, err := c.CompleteTaskUseCase().Execute(cmd.Context(), usecase.CompleteTaskInput{
				TaskID:       taskID,
				AgentID:      agentID,
				Note:         opts.Note,
				Deliverables: opts.Deliverables,
				PullRequests: opts.PullRequests,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s completed task %s (now %s)\n", agentID, out.Task.ID, out.Task.Status)
			for _, d := range out.Task.Deliverables {
				_, _ = fmt.Fprintf(w, "  deliverable: %s\n", d)
			}
			for _, pr := range out.Task.PullRequests {
				_, _ = fmt.Fprintf(w, "  pull request: %s\n", pr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "Acting agent (default: $MC_AGENT)")
	cmd.Flags().StringVar(&opts.Note, "note", "", "Completion note")
	cmd.Flags().StringArrayVar(&opts.Deliverables, "deliverable", nil, "Deliverable .md path (can specify multiple)")
	cmd.Flags().StringArrayVar(&opts.PullRequests, "pr", nil, "Pull request URL (can specify multiple)")

	return cmd
}
