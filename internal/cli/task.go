package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/mission-control/internal/app"
	"github.com/runoshun/mission-control/internal/domain"
	"github.com/runoshun/mission-control/internal/usecase"
)

// dateLayout is the accepted format for --due.
const dateLayout = "2006-01-02"

// shortIDLen is the number of id characters shown in listings.
const shortIDLen = 8

// noneValue clears an optional field on edit.
const noneValue = "none"

// errAmbiguousTaskID is returned when a task id prefix matches several tasks.
var errAmbiguousTaskID = errors.New("ambiguous task ID")

// newNewCommand creates the new command for creating tasks.
func newNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Priority    string
		Assignee    string
		Due         string
		As          string
		Tags        []string
	}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new task",
		Long: `Create a new task.

The task is created with status 'backlog'. The creator is the acting
agent (--as or MC_AGENT); an assignee must be a roster agent.

Examples:
  # Create a task
  mc new --as lead --title "Launch post" --body "Write the launch announcement"

  # Create an urgent task for dev, due on a date
  mc new --as lead --title "Fix login" --body "500 on /login" \
    --priority urgent --assignee dev --due 2026-03-14

  # Create a task with tags
  mc new --as lead --title "SEO audit" --body "Audit top pages" --tag seo --tag q2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.NewTaskInput{
				Title:       opts.Title,
				Description: opts.Description,
				Priority:    domain.Priority(strings.ToLower(strings.TrimSpace(opts.Priority))),
				CreatedBy:   domain.NormalizeAgentID(actingAgentID(opts.As)),
				Tags:        opts.Tags,
			}

			if opts.Assignee != "" {
				assignee, err := resolveAgent(c, opts.Assignee)
				if err != nil {
					return err
				}
				input.Assignee = &assignee
			}

			if opts.Due != "" {
				due, err := parseDate(opts.Due)
				if err != nil {
					return err
				}
				input.DueDate = &due
			}

			out, err := c.NewTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "Task title (required)")
	cmd.Flags().StringVar(&opts.Description, "body", "", "Task description (required)")
	cmd.Flags().StringVar(&opts.Priority, "priority", string(domain.PriorityMedium), "Priority: low, medium, high, urgent")
	cmd.Flags().StringVar(&opts.Assignee, "assignee", "", "Assign to a roster agent")
	cmd.Flags().StringVar(&opts.Due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&opts.Tags, "tag", nil, "Tags (can specify multiple)")
	cmd.Flags().StringVar(&opts.As, "as", "", "Acting agent (default: $MC_AGENT)")

	return cmd
}

// newListCommand creates the list command for listing tasks.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Status   string
		Assignee string
		Priority string
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `Display a list of tasks, newest first.

Output format is tab-separated with columns:
  ID, STATUS, PRIORITY, ASSIGNEE, DUE, UPDATED, TITLE

UPDATED is the time since the last change.

Examples:
  # List all tasks
  mc list

  # List tasks in review
  mc list --status review

  # List urgent tasks assigned to dev
  mc list --assignee dev --priority urgent`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.ListTasksInput{
				Status:   domain.Status(strings.TrimSpace(opts.Status)),
				Priority: domain.Priority(strings.TrimSpace(opts.Priority)),
				Assignee: domain.NormalizeAgentID(opts.Assignee),
			}

			out, err := c.ListTasksUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			printTaskList(cmd.OutOrStdout(), out.Tasks, c.Clock)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&opts.Assignee, "assignee", "", "Filter by assignee")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "Filter by priority")

	return cmd
}

// printTaskList prints tasks in TSV format.
func printTaskList(w io.Writer, tasks []*domain.Task, clock domain.Clock) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	// Header
	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tASSIGNEE\tDUE\tUPDATED\tTITLE")

	// Rows
	for _, task := range tasks {
		assigneeStr := "-"
		if id := task.AssigneeID(); id != "" {
			assigneeStr = id
		}

		dueStr := "-"
		if task.DueDate != nil {
			dueStr = task.DueDate.Format(dateLayout)
		}

		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(task.ID),
			task.Status,
			task.Priority,
			assigneeStr,
			dueStr,
			formatDuration(clock.Now().Sub(task.UpdatedAt)),
			task.Title,
		)
	}
}

// formatDuration formats a duration in a human-readable short format.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}

// shortID truncates an id for tabular output.
func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// newShowCommand creates the show command for displaying task details.
func newShowCommand(c *app.Container) *cobra.Command {
	var opts struct {
		JSON bool
	}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Display task details",
		Long: `Display detailed information about a task.

The ID may be any unique prefix of the task ID.

Output includes:
  - Task ID, title and description
  - Status, priority, assignee, creator, due date, tags
  - Deliverables and pull requests
  - Work log and comments

Examples:
  # Show task by ID prefix
  mc show 3f2a

  # Output in JSON format
  mc show 3f2a --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}

			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: taskID})
			if err != nil {
				return err
			}

			if opts.JSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out.Task)
			}

			printTaskDetails(cmd.OutOrStdout(), out.Task)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}

// resolveTaskID resolves a full task ID or a unique prefix of one.
func resolveTaskID(c *app.Container, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("task ID is required")
	}

	if _, err := c.Tasks.Get(arg); err == nil {
		return arg, nil
	} else if !errors.Is(err, domain.ErrTaskNotFound) {
		return "", err
	}

	tasks, err := c.Tasks.List(domain.TaskFilter{})
	if err != nil {
		return "", err
	}
	var matches []string
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s: %w", arg, domain.ErrTaskNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %d tasks", errAmbiguousTaskID, arg, len(matches))
	}
}

// parseDate parses a --due value.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// newEditCommand creates the edit command for editing task information.
func newEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title        string
		Description  string
		Status       string
		Priority     string
		Assignee     string
		Due          string
		Tags         []string
		Deliverables []string
		PullRequests []string
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit task information",
		Long: `Edit task fields. Only the flags given are changed.

Use --assignee none or --due none to clear those fields.
--tag, --deliverable and --pr replace the whole list.

Examples:
  # Move a task to todo
  mc edit 3f2a --status todo

  # Accept a reviewed task
  mc edit 3f2a --status done

  # Reassign and reprioritize
  mc edit 3f2a --assignee ux --priority high

  # Unassign and clear the due date
  mc edit 3f2a --assignee none --due none`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}

			var patch domain.TaskPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = domain.Some(opts.Title)
			}
			if flags.Changed("body") {
				patch.Description = domain.Some(opts.Description)
			}
			if flags.Changed("status") {
				patch.Status = domain.Some(domain.Status(strings.TrimSpace(opts.Status)))
			}
			if flags.Changed("priority") {
				patch.Priority = domain.Some(domain.Priority(strings.ToLower(strings.TrimSpace(opts.Priority))))
			}
			if flags.Changed("assignee") {
				if isNone(opts.Assignee) {
					patch.Assignee = domain.Null[string]()
				} else {
					assignee, err := resolveAgent(c, opts.Assignee)
					if err != nil {
						return err
					}
					patch.Assignee = domain.Some(&assignee)
				}
			}
			if flags.Changed("due") {
				if isNone(opts.Due) {
					patch.DueDate = domain.Null[time.Time]()
				} else {
					due, err := parseDate(opts.Due)
					if err != nil {
						return err
					}
					patch.DueDate = domain.Some(&due)
				}
			}
			if flags.Changed("tag") {
				patch.Tags = domain.Some(opts.Tags)
			}
			if flags.Changed("deliverable") {
				patch.Deliverables = domain.Some(opts.Deliverables)
			}
			if flags.Changed("pr") {
				patch.PullRequests = domain.Some(opts.PullRequests)
			}

			out, err := c.EditTaskUseCase().Execute(cmd.Context(), usecase.EditTaskInput{
				TaskID: taskID,
				Patch:  patch,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.Description, "body", "", "New description")
	cmd.Flags().StringVar(&opts.Status, "status", "", "New status: backlog, todo, in_progress, review, done")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "New priority: low, medium, high, urgent")
	cmd.Flags().StringVar(&opts.Assignee, "assignee", "", "New assignee (none to unassign)")
	cmd.Flags().StringVar(&opts.Due, "due", "", "New due date YYYY-MM-DD (none to clear)")
	cmd.Flags().StringArrayVar(&opts.Tags, "tag", nil, "Replace tags (can specify multiple)")
	cmd.Flags().StringArrayVar(&opts.Deliverables, "deliverable", nil, "Replace deliverables (.md paths)")
	cmd.Flags().StringArrayVar(&opts.PullRequests, "pr", nil, "Replace pull request URLs")

	return cmd
}

func isNone(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, noneValue)
}

// newRmCommand creates the rm command for deleting tasks.
func newRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Long: `Delete a task permanently.

Agents working on the task are released: their current task is cleared
and they return to 'active'. Mentions of the task are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}

			out, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{TaskID: taskID})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Deleted task %s\n", taskID)
			if len(out.ReleasedAgents) > 0 {
				_, _ = fmt.Fprintf(w, "Released agents: %s\n", strings.Join(out.ReleasedAgents, ", "))
			}
			return nil
		},
	}
}

// printTaskDetails prints a task in a human-readable layout.
func printTaskDetails(w io.Writer, task *domain.Task) {
	// Header
	_, _ = fmt.Fprintf(w, "# Task %s: %s\n\n", task.ID, task.Title)

	// Description
	if task.Description != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", task.Description)
	}

	// Fields
	_, _ = fmt.Fprintf(w, "Status: %s\n", task.Status.Display())
	_, _ = fmt.Fprintf(w, "Priority: %s\n", task.Priority)

	if id := task.AssigneeID(); id != "" {
		_, _ = fmt.Fprintf(w, "Assignee: %s\n", id)
	} else {
		_, _ = fmt.Fprintln(w, "Assignee: none")
	}

	_, _ = fmt.Fprintf(w, "Created by: %s\n", task.CreatedBy)

	if task.DueDate != nil {
		_, _ = fmt.Fprintf(w, "Due: %s\n", task.DueDate.Format(dateLayout))
	}

	if len(task.Tags) > 0 {
		_, _ = fmt.Fprintf(w, "Tags: [%s]\n", strings.Join(task.Tags, ", "))
	} else {
		_, _ = fmt.Fprintln(w, "Tags: none")
	}

	_, _ = fmt.Fprintf(w, "Created: %s\n", task.CreatedAt.Format(time.RFC3339))
	_, _ = fmt.Fprintf(w, "Updated: %s\n", task.UpdatedAt.Format(time.RFC3339))

	if len(task.Deliverables) > 0 {
		_, _ = fmt.Fprintln(w, "\nDeliverables:")
		for _, d := range task.Deliverables {
			_, _ = fmt.Fprintf(w, "  %s\n", d)
		}
	}

	if len(task.PullRequests) > 0 {
		_, _ = fmt.Fprintln(w, "\nPull requests:")
		for _, pr := range task.PullRequests {
			_, _ = fmt.Fprintf(w, "  %s\n", pr)
		}
	}

	// Work log
	if len(task.WorkLog) > 0 {
		_, _ = fmt.Fprintln(w, "\nWork log:")
		for _, e := range task.WorkLog {
			_, _ = fmt.Fprintf(w, "  [%s] %s %s: %s\n", e.CreatedAt.Format(time.RFC3339), e.Agent, e.Action, e.Note)
		}
	}

	// Comments
	if len(task.Comments) > 0 {
		_, _ = fmt.Fprintln(w, "\nComments:")
		separator := "  ─────────────────"
		for _, comment := range task.Comments {
			_, _ = fmt.Fprintln(w, separator)
			_, _ = fmt.Fprintf(w, "  [%s] %s\n", comment.CreatedAt.Format(time.RFC3339), comment.Author)
			// Indent message
			lines := strings.Split(strings.TrimSpace(comment.Content), "\n")
			for _, line := range lines {
				_, _ = fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}
}
