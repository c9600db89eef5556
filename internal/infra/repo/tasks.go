// Package repo provides the entity repositories built on a domain.RecordStore.
//
// Every mutation reads the whole collection, changes it in memory, and writes
// the whole collection back. Nothing is written unless the in-memory change
// succeeded. There is no locking: two concurrent mutations of the same
// collection can lose one of the updates.
package repo

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/runoshun/mission-control/internal/domain"
)

// Tasks implements domain.TaskRepository.
type Tasks struct {
	store domain.RecordStore[domain.Task]
	clock domain.Clock
	ids   domain.IDGenerator
}

// NewTasks creates a task repository on top of store.
func NewTasks(store domain.RecordStore[domain.Task], clock domain.Clock, ids domain.IDGenerator) *Tasks {
	return &Tasks{
		store: store,
		clock: clock,
		ids:   ids,
	}
}

// readAll loads the collection and folds legacy fields.
func (r *Tasks) readAll() ([]domain.Task, error) {
	tasks, err := r.store.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	for i := range tasks {
		tasks[i].Normalize()
	}
	return tasks, nil
}

func (r *Tasks) writeAll(tasks []domain.Task) error {
	if err := r.store.WriteAll(tasks); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	return nil
}

// List retrieves tasks matching every set filter, newest first.
func (r *Tasks) List(filter domain.TaskFilter) ([]*domain.Task, error) {
	tasks, err := r.readAll()
	if err != nil {
		return nil, err
	}

	var result []*domain.Task
	for i := range tasks {
		t := &tasks[i]
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Assignee != "" && !t.IsAssignedTo(filter.Assignee) {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		result = append(result, t)
	}

	SortNewestFirst(result)
	return result, nil
}

// Get retrieves a task by ID.
func (r *Tasks) Get(id string) (*domain.Task, error) {
	tasks, err := r.readAll()
	if err != nil {
		return nil, err
	}
	i := indexOfTask(tasks, id)
	if i < 0 {
		return nil, domain.ErrTaskNotFound
	}
	return &tasks[i], nil
}

// Create validates in and appends a new task in the backlog.
// Any status supplied by the caller is ignored.
func (r *Tasks) Create(in domain.NewTaskInput) (*domain.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	tasks, err := r.readAll()
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	task := domain.Task{
		ID:          r.ids.NewID(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      domain.StatusBacklog,
		Priority:    in.Priority,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
		DueDate:     in.DueDate,
		Tags:        in.Tags,
		Comments:    []domain.Comment{},
		WorkLog:     []domain.WorkLogEntry{},
	}
	if in.Assignee != nil && *in.Assignee != "" {
		assignee := *in.Assignee
		task.Assignee = &assignee
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}

	tasks = append(tasks, task)
	if err := r.writeAll(tasks); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update applies the set fields of patch and refreshes UpdatedAt.
func (r *Tasks) Update(id string, patch domain.TaskPatch) (*domain.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return r.Mutate(id, func(t *domain.Task) error {
		patch.Apply(t)
		return nil
	})
}

// Delete removes a task together with its comments and work log.
func (r *Tasks) Delete(id string) error {
	tasks, err := r.readAll()
	if err != nil {
		return err
	}
	i := indexOfTask(tasks, id)
	if i < 0 {
		return domain.ErrTaskNotFound
	}
	return r.writeAll(slices.Delete(tasks, i, i+1))
}

// ListByAgent returns the agent's work queue: priority descending, then
// newest first, then id for a deterministic order.
func (r *Tasks) ListByAgent(agentID string) ([]*domain.Task, error) {
	tasks, err := r.readAll()
	if err != nil {
		return nil, err
	}

	var result []*domain.Task
	for i := range tasks {
		if tasks[i].IsAssignedTo(agentID) {
			result = append(result, &tasks[i])
		}
	}

	slices.SortFunc(result, func(a, b *domain.Task) int {
		if c := cmp.Compare(b.Priority.Rank(), a.Priority.Rank()); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return result, nil
}

// Mutate applies fn to the task, advances UpdatedAt, and writes the
// collection. If fn fails nothing is written.
func (r *Tasks) Mutate(id string, fn func(*domain.Task) error) (*domain.Task, error) {
	tasks, err := r.readAll()
	if err != nil {
		return nil, err
	}
	i := indexOfTask(tasks, id)
	if i < 0 {
		return nil, domain.ErrTaskNotFound
	}

	task := &tasks[i]
	if err := fn(task); err != nil {
		return nil, err
	}
	task.Touch(r.clock.Now())

	if err := r.writeAll(tasks); err != nil {
		return nil, err
	}
	return task, nil
}

// SortNewestFirst orders tasks by CreatedAt descending, then by id.
func SortNewestFirst(tasks []*domain.Task) {
	slices.SortFunc(tasks, func(a, b *domain.Task) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func indexOfTask(tasks []domain.Task, id string) int {
	return slices.IndexFunc(tasks, func(t domain.Task) bool {
		return t.ID == id
	})
}

// Ensure Tasks implements domain.TaskRepository.
var _ domain.TaskRepository = (*Tasks)(nil)
