// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/mission-control/internal/domain"
)

// ListTasksInput contains the parameters for listing tasks.
// Empty fields do not filter.
type ListTasksInput struct {
	Status   domain.Status
	Assignee string
	Priority domain.Priority
}

// ListTasksOutput contains the result of listing tasks.
type ListTasksOutput struct {
	Tasks []*domain.Task // Newest first
}

// ListTasks is the use case for listing tasks.
type ListTasks struct {
	tasks domain.TaskRepository
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(tasks domain.TaskRepository) *ListTasks {
	return &ListTasks{tasks: tasks}
}

// Execute lists tasks matching every set filter.
func (uc *ListTasks) Execute(_ context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	if in.Status != "" && !in.Status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}
	if in.Priority != "" && !in.Priority.IsValid() {
		return nil, domain.ErrInvalidPriority
	}

	tasks, err := uc.tasks.List(domain.TaskFilter{
		Status:   in.Status,
		Assignee: in.Assignee,
		Priority: in.Priority,
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return &ListTasksOutput{Tasks: tasks}, nil
}
