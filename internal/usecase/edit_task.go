package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/mission-control/internal/domain"
)

// EditTaskInput contains the parameters for editing a task.
// Only fields set in Patch are changed.
type EditTaskInput struct {
	TaskID string
	Patch  domain.TaskPatch
}

// EditTaskOutput contains the result of editing a task.
type EditTaskOutput struct {
	Task *domain.Task
}

// EditTask is the use case for generic field updates.
// This is also the only path that moves a task to done.
type EditTask struct {
	tasks  domain.TaskRepository
	logger domain.Logger
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(tasks domain.TaskRepository, logger domain.Logger) *EditTask {
	return &EditTask{
		tasks:  tasks,
		logger: logger,
	}
}

// Execute applies the patch.
func (uc *EditTask) Execute(_ context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	task, err := uc.tasks.Update(in.TaskID, in.Patch)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(task.ID, "task", "updated")
		if in.Patch.Status.Set {
			uc.logger.Info(task.ID, "task", fmt.Sprintf("status set to %s", task.Status))
		}
	}

	return &EditTaskOutput{Task: task}, nil
}
