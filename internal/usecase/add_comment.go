package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/mission-control/internal/domain"
)

// AddCommentInput contains the parameters for adding a comment.
type AddCommentInput struct {
	TaskID  string
	Author  string
	Content string
}

// AddCommentOutput contains the result of adding a comment.
type AddCommentOutput struct {
	Task      *domain.Task
	Comment   domain.Comment
	Mentioned []string // Roster agents referenced as @id, in order of appearance
}

// AddComment appends a comment and indexes its mentions.
type AddComment struct {
	tasks    domain.TaskRepository
	mentions domain.MentionRepository
	roster   domain.RosterProvider
	clock    domain.Clock
	ids      domain.IDGenerator
	logger   domain.Logger
}

// NewAddComment creates a new AddComment use case.
func NewAddComment(tasks domain.TaskRepository, mentions domain.MentionRepository, roster domain.RosterProvider, clock domain.Clock, ids domain.IDGenerator, logger domain.Logger) *AddComment {
	return &AddComment{
		tasks:    tasks,
		mentions: mentions,
		roster:   roster,
		clock:    clock,
		ids:      ids,
		logger:   logger,
	}
}

// Execute writes the comment, then one mention per referenced agent.
func (uc *AddComment) Execute(_ context.Context, in AddCommentInput) (*AddCommentOutput, error) {
	author := strings.TrimSpace(in.Author)
	if author == "" {
		return nil, domain.ErrEmptyAuthor
	}
	// Stored as written; trimming only decides emptiness.
	content := in.Content
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyMessage
	}

	comment := domain.Comment{
		ID:      uc.ids.NewID(),
		Author:  author,
		Content: content,
	}
	task, err := uc.tasks.Mutate(in.TaskID, func(t *domain.Task) error {
		comment.CreatedAt = uc.clock.Now()
		t.Comments = append(t.Comments, comment)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	uc.info(task.ID, fmt.Sprintf("comment %s added by %s", comment.ID, author))

	out := &AddCommentOutput{Task: task, Comment: comment}

	roster, err := uc.roster.Roster()
	if err != nil {
		uc.warn(task.ID, fmt.Sprintf("load roster: %v", err))
	}
	if roster == nil {
		return out, nil
	}

	for _, agentID := range domain.ParseMentions(content, roster.IDs()) {
		if _, err := uc.mentions.Create(domain.NewMention{
			TaskID:         task.ID,
			TaskTitle:      task.Title,
			CommentID:      comment.ID,
			Author:         author,
			MentionedAgent: agentID,
			Content:        content,
		}); err != nil {
			return nil, fmt.Errorf("create mention for %s: %w", agentID, err)
		}
		out.Mentioned = append(out.Mentioned, agentID)
	}
	if len(out.Mentioned) > 0 {
		uc.info(task.ID, fmt.Sprintf("mentioned %s", strings.Join(out.Mentioned, ", ")))
	}

	return out, nil
}

func (uc *AddComment) info(taskID, msg string) {
	if uc.logger != nil {
		uc.logger.Info(taskID, "comment", msg)
	}
}

func (uc *AddComment) warn(taskID, msg string) {
	if uc.logger != nil {
		uc.logger.Warn(taskID, "comment", msg)
	}
}
