package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/mission-control/internal/domain"
)

// NewTaskInput contains the parameters for creating a new task.
// Fields are ordered to minimize memory padding.
type NewTaskInput struct {
	DueDate     *time.Time      // Optional due date
	Assignee    *string         // Optional agent ID (nil = unassigned)
	Title       string          // Task title (required)
	Description string          // Task description (required)
	Priority    domain.Priority // Priority (required)
	CreatedBy   string          // Creating agent (required, not checked against the roster)
	Tags        []string        // Tags (optional)
}

// NewTaskOutput contains the result of creating a new task.
type NewTaskOutput struct {
	Task *domain.Task
}

// NewTask is the use case for creating a new task.
type NewTask struct {
	tasks  domain.TaskRepository
	logger domain.Logger
}

// NewNewTask creates a new NewTask use case.
func NewNewTask(tasks domain.TaskRepository, logger domain.Logger) *NewTask {
	return &NewTask{
		tasks:  tasks,
		logger: logger,
	}
}

// Execute creates a backlog task.
func (uc *NewTask) Execute(_ context.Context, in NewTaskInput) (*NewTaskOutput, error) {
	createdBy := strings.TrimSpace(in.CreatedBy)
	if createdBy == "" {
		return nil, domain.ErrEmptyCreatedBy
	}

	task, err := uc.tasks.Create(domain.NewTaskInput{
		DueDate:     in.DueDate,
		Assignee:    in.Assignee,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		CreatedBy:   createdBy,
		Tags:        in.Tags,
	})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(task.ID, "task", fmt.Sprintf("created by %s: %q", createdBy, task.Title))
	}

	return &NewTaskOutput{Task: task}, nil
}
