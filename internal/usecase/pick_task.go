package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/runoshun/mission-control/internal/domain"
)

// PickTaskInput contains the parameters for picking a task.
type PickTaskInput struct {
	TaskID  string
	AgentID string
}

// PickTaskOutput contains the result of picking a task.
type PickTaskOutput struct {
	Task          *domain.Task
	Agent         *domain.Agent // nil when the agent has no record
	PreviousAgent string        // Assignee before the pick ("" if none or same agent)
}

// PickTask moves a task to in_progress and makes the agent work on it.
// Picking is allowed from any status; re-picking reassigns.
type PickTask struct {
	tasks  domain.TaskRepository
	agents domain.AgentRepository
	clock  domain.Clock
	ids    domain.IDGenerator
	logger domain.Logger
}

// NewPickTask creates a new PickTask use case.
func NewPickTask(tasks domain.TaskRepository, agents domain.AgentRepository, clock domain.Clock, ids domain.IDGenerator, logger domain.Logger) *PickTask {
	return &PickTask{
		tasks:  tasks,
		agents: agents,
		clock:  clock,
		ids:    ids,
		logger: logger,
	}
}

// Execute writes the task first and the agent second.
func (uc *PickTask) Execute(_ context.Context, in PickTaskInput) (*PickTaskOutput, error) {
	agentID := strings.TrimSpace(in.AgentID)
	if agentID == "" {
		return nil, domain.ErrEmptyAgent
	}

	var previous string
	task, err := uc.tasks.Mutate(in.TaskID, func(t *domain.Task) error {
		if prev := t.AssigneeID(); prev != agentID {
			previous = prev
		}
		t.Status = domain.StatusInProgress
		t.Assignee = &agentID
		t.WorkLog = append(t.WorkLog, domain.WorkLogEntry{
			ID:        uc.ids.NewID(),
			Agent:     agentID,
			Action:    domain.ActionPicked,
			Note:      fmt.Sprintf("%s picked up this task", agentID),
			CreatedAt: uc.clock.Now(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pick task: %w", err)
	}
	uc.log(task.ID, fmt.Sprintf("%s picked task", agentID))

	out := &PickTaskOutput{Task: task, PreviousAgent: previous}

	agent, err := uc.agents.Update(agentID, domain.AgentPatch{
		Status:      ptr(domain.AgentWorking),
		CurrentTask: &task.ID,
	})
	switch {
	case errors.Is(err, domain.ErrAgentNotFound):
		uc.warn(task.ID, fmt.Sprintf("agent %s has no record; agent state not updated", agentID))
	case err != nil:
		return nil, fmt.Errorf("update agent: %w", err)
	default:
		out.Agent = agent
	}

	if previous != "" {
		if _, err := uc.agents.UpdateWhere(func(a *domain.Agent) bool {
			return a.ID == previous && a.CurrentTaskID() == task.ID
		}, domain.AgentPatch{
			Status:           ptr(domain.AgentActive),
			ClearCurrentTask: true,
		}); err != nil {
			return nil, fmt.Errorf("release previous agent: %w", err)
		}
		uc.log(task.ID, fmt.Sprintf("reassigned from %s", previous))
	}

	return out, nil
}

func (uc *PickTask) log(taskID, msg string) {
	if uc.logger != nil {
		uc.logger.Info(taskID, "workflow", msg)
	}
}

func (uc *PickTask) warn(taskID, msg string) {
	if uc.logger != nil {
		uc.logger.Warn(taskID, "workflow", msg)
	}
}
