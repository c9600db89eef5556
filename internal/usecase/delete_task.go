package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/mission-control/internal/domain"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID string
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct {
	ReleasedAgents []string // Agents whose currentTask pointed at the task
}

// DeleteTask is the use case for deleting a task.
type DeleteTask struct {
	tasks  domain.TaskRepository
	agents domain.AgentRepository
	logger domain.Logger
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(tasks domain.TaskRepository, agents domain.AgentRepository, logger domain.Logger) *DeleteTask {
	return &DeleteTask{
		tasks:  tasks,
		agents: agents,
		logger: logger,
	}
}

// Execute removes the task, then releases any agent still working on it.
// Mentions of the task are kept.
func (uc *DeleteTask) Execute(_ context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	if err := uc.tasks.Delete(in.TaskID); err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	if uc.logger != nil {
		uc.logger.Info(in.TaskID, "task", "deleted")
	}

	released, err := uc.agents.UpdateWhere(func(a *domain.Agent) bool {
		return a.CurrentTaskID() == in.TaskID
	}, domain.AgentPatch{
		Status:           ptr(domain.AgentActive),
		ClearCurrentTask: true,
	})
	if err != nil {
		return nil, fmt.Errorf("release agents: %w", err)
	}

	out := &DeleteTaskOutput{}
	for _, a := range released {
		out.ReleasedAgents = append(out.ReleasedAgents, a.ID)
	}
	return out, nil
}

func ptr[T any](v T) *T {
	return &v
}
