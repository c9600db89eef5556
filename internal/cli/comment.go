package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/mission-control/internal/app"
	"github.com/runoshun/mission-control/internal/usecase"
)

// newCommentCommand creates the comment command for adding comments to tasks.
func newCommentCommand(c *app.Container) *cobra.Command {
	var opts struct {
		As string
	}

	cmd := &cobra.Command{
		Use:   "comment <id> <message>",
		Short: "Add a comment to a task",
		Long: `Add a comment to a task.

Roster agents referenced as @id in the message receive a mention.
Unknown @tokens are ignored.

Examples:
  mc comment 3f2a "Ready for a look @ux" --as dev`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			author, err := resolveActingAgent(c, opts.As)
			if err != nil {
				return err
			}
			taskID, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}

			out, err := c.AddCommentUseCase().Execute(cmd.Context(), usecase.AddCommentInput{
				TaskID:  taskID,
				Author:  author,
				Content: strings.Join(args[1:], " "),
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Added comment to task %s\n", out.Task.ID)
			if len(out.Mentioned) > 0 {
				_, _ = fmt.Fprintf(w, "Mentioned: %s\n", strings.Join(out.Mentioned, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "Acting agent (default: $MC_AGENT)")

	return cmd
}

// newMentionsCommand creates the mentions command.
func newMentionsCommand(c *app.Container) *cobra.Command {
	var opts struct {
		As       string
		All      bool
		Everyone bool
	}

	cmd := &cobra.Command{
		Use:   "mentions",
		Short: "List mentions of the acting agent",
		Long: `List unread mentions of the acting agent, newest first.

Examples:
  # Unread mentions of ux
  mc mentions --as ux

  # Include read mentions
  mc mentions --as ux --all

  # Every agent's mentions
  mc mentions --everyone --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.ListMentionsInput{All: opts.All}
			if !opts.Everyone {
				agentID, err := resolveActingAgent(c, opts.As)
				if err != nil {
					return err
				}
				input.AgentID = agentID
			}

			out, err := c.ListMentionsUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			defer func() { _ = tw.Flush() }()
			_, _ = fmt.Fprintln(tw, "ID\tFOR\tFROM\tTASK\tREAD\tWHEN\tCONTENT")
			for _, m := range out.Mentions {
				read := "-"
				if m.Read {
					read = "yes"
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					shortID(m.ID),
					m.MentionedAgent,
					m.Author,
					m.TaskTitle,
					read,
					m.CreatedAt.Format(time.RFC3339),
					firstLine(m.Content),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "Acting agent (default: $MC_AGENT)")
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Include read mentions")
	cmd.Flags().BoolVar(&opts.Everyone, "everyone", false, "List mentions of every agent")

	cmd.AddCommand(newMentionsReadCommand(c))

	return cmd
}

// newMentionsReadCommand creates the mentions read subcommand.
func newMentionsReadCommand(c *app.Container) *cobra.Command {
	var opts struct {
		As string
	}

	cmd := &cobra.Command{
		Use:   "read [mention-id...]",
		Short: "Mark mentions as read",
		Long: `Mark the given mentions as read. Without ids, every mention of the
acting agent is marked read.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.MarkMentionsReadInput{}
			if len(args) > 0 {
				ids, err := resolveMentionIDs(c, args)
				if err != nil {
					return err
				}
				input.MentionIDs = ids
			} else {
				agentID, err := resolveActingAgent(c, opts.As)
				if err != nil {
					return err
				}
				input.AgentID = agentID
			}

			out, err := c.MarkMentionsReadUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Marked %d mention(s) as read\n", out.Marked)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "Acting agent (default: $MC_AGENT)")

	return cmd
}

// resolveMentionIDs expands id prefixes as shown by `mc mentions`.
// Prefixes that match nothing are passed through and ignored by the store.
func resolveMentionIDs(c *app.Container, args []string) ([]string, error) {
	mentions, err := c.Mentions.List()
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, arg := range args {
		var matches []string
		for _, m := range mentions {
			if m.ID == arg {
				matches = []string{m.ID}
				break
			}
			if strings.HasPrefix(m.ID, arg) {
				matches = append(matches, m.ID)
			}
		}
		switch len(matches) {
		case 0:
			ids = append(ids, arg)
		case 1:
			ids = append(ids, matches[0])
		default:
			return nil, fmt.Errorf("ambiguous mention ID %s matches %d mentions", arg, len(matches))
		}
	}
	return ids, nil
}

// firstLine returns the first line of s, truncated for tabular output.
func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	if len(line) > 60 {
		line = line[:60] + "..."
	}
	return line
}
