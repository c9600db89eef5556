package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/mission-control/internal/domain"
)

// LogWorkInput contains the parameters for a work log entry.
type LogWorkInput struct {
	TaskID  string
	AgentID string
	Action  domain.WorkLogAction // progress or blocked
	Note    string
}

// LogWorkOutput contains the result of logging work.
type LogWorkOutput struct {
	Task  *domain.Task
	Entry domain.WorkLogEntry
}

// LogWork appends a progress or blocked entry. Task status and agent
// state are left as they are.
type LogWork struct {
	tasks  domain.TaskRepository
	clock  domain.Clock
	ids    domain.IDGenerator
	logger domain.Logger
}

// NewLogWork creates a new LogWork use case.
func NewLogWork(tasks domain.TaskRepository, clock domain.Clock, ids domain.IDGenerator, logger domain.Logger) *LogWork {
	return &LogWork{
		tasks:  tasks,
		clock:  clock,
		ids:    ids,
		logger: logger,
	}
}

// Execute appends the entry.
func (uc *LogWork) Execute(_ context.Context, in LogWorkInput) (*LogWorkOutput, error) {
	agentID := strings.TrimSpace(in.AgentID)
	if agentID == "" {
		return nil, domain.ErrEmptyAgent
	}
	if !in.Action.IsLoggable() {
		return nil, domain.ErrInvalidWorkLogAction
	}
	note := strings.TrimSpace(in.Note)
	if note == "" {
		return nil, domain.ErrEmptyNote
	}

	entry := domain.WorkLogEntry{
		ID:     uc.ids.NewID(),
		Agent:  agentID,
		Action: in.Action,
		Note:   note,
	}
	task, err := uc.tasks.Mutate(in.TaskID, func(t *domain.Task) error {
		entry.CreatedAt = uc.clock.Now()
		t.WorkLog = append(t.WorkLog, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("log work: %w", err)
	}

	if uc.logger != nil {
		if in.Action == domain.ActionBlocked {
			uc.logger.Warn(task.ID, "workflow", fmt.Sprintf("%s blocked: %s", agentID, note))
		} else {
			uc.logger.Info(task.ID, "workflow", fmt.Sprintf("%s progress: %s", agentID, note))
		}
	}

	return &LogWorkOutput{Task: task, Entry: entry}, nil
}
