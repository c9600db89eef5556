package usecase

import (
	"context"

	"github.com/runoshun/mission-control/internal/domain"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	TaskID string
}

// ShowTaskOutput contains the task with its comments and work log.
type ShowTaskOutput struct {
	Task *domain.Task
}

// ShowTask is the use case for displaying task details.
type ShowTask struct {
	tasks domain.TaskRepository
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(tasks domain.TaskRepository) *ShowTask {
	return &ShowTask{tasks: tasks}
}

// Execute retrieves the task.
func (uc *ShowTask) Execute(_ context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	task, err := uc.tasks.Get(in.TaskID)
	if err != nil {
		return nil, err
	}
	return &ShowTaskOutput{Task: task}, nil
}
