package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/runoshun/mission-control/internal/domain"
)

// CompleteTaskInput contains the parameters for completing a task.
// Fields are ordered to minimize memory padding.
type CompleteTaskInput struct {
	TaskID       string
	AgentID      string
	Note         string   // Optional; a default note is recorded when empty
	Deliverable  string   // Single deliverable path, placed first
	PullRequest  string   // Single pull request URL, placed first
	Deliverables []string // Deliverable paths (.md)
	PullRequests []string // GitHub pull request URLs
}

// CompleteTaskOutput contains the result of completing a task.
type CompleteTaskOutput struct {
	Task  *domain.Task
	Agent *domain.Agent // nil when the agent has no record
}

// CompleteTask moves a task to review and frees the agent.
type CompleteTask struct {
	tasks  domain.TaskRepository
	agents domain.AgentRepository
	clock  domain.Clock
	ids    domain.IDGenerator
	logger domain.Logger
}

// NewCompleteTask creates a new CompleteTask use case.
func NewCompleteTask(tasks domain.TaskRepository, agents domain.AgentRepository, clock domain.Clock, ids domain.IDGenerator, logger domain.Logger) *CompleteTask {
	return &CompleteTask{
		tasks:  tasks,
		agents: agents,
		clock:  clock,
		ids:    ids,
		logger: logger,
	}
}

// Execute validates attachments before anything is written.
func (uc *CompleteTask) Execute(_ context.Context, in CompleteTaskInput) (*CompleteTaskOutput, error) {
	agentID := strings.TrimSpace(in.AgentID)
	if agentID == "" {
		return nil, domain.ErrEmptyAgent
	}

	deliverables := domain.MergeUnique([]string{in.Deliverable}, in.Deliverables)
	if err := domain.ValidateDeliverables(deliverables); err != nil {
		return nil, err
	}
	if _, err := domain.NormalizePullRequests(in.PullRequest, in.PullRequests); err != nil {
		return nil, err
	}

	note := strings.TrimSpace(in.Note)
	if note == "" {
		note = fmt.Sprintf("%s completed this task", agentID)
	}

	task, err := uc.tasks.Mutate(in.TaskID, func(t *domain.Task) error {
		t.Status = domain.StatusReview
		t.WorkLog = append(t.WorkLog, domain.WorkLogEntry{
			ID:        uc.ids.NewID(),
			Agent:     agentID,
			Action:    domain.ActionCompleted,
			Note:      note,
			CreatedAt: uc.clock.Now(),
		})
		// Single values go in front of what the task already has; lists are appended.
		t.Deliverables = domain.MergeUnique([]string{in.Deliverable}, t.Deliverables, in.Deliverables)
		t.PullRequests = domain.MergeUnique([]string{in.PullRequest}, t.PullRequests, in.PullRequests)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}
	if uc.logger != nil {
		uc.logger.Info(task.ID, "workflow", fmt.Sprintf("%s completed task, now in review", agentID))
	}

	out := &CompleteTaskOutput{Task: task}

	agent, err := uc.agents.Update(agentID, domain.AgentPatch{
		Status:           ptr(domain.AgentActive),
		ClearCurrentTask: true,
	})
	switch {
	case errors.Is(err, domain.ErrAgentNotFound):
		if uc.logger != nil {
			uc.logger.Warn(task.ID, "workflow", fmt.Sprintf("agent %s has no record; agent state not updated", agentID))
		}
	case err != nil:
		return nil, fmt.Errorf("update agent: %w", err)
	default:
		out.Agent = agent
	}

	return out, nil
}
