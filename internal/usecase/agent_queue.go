package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/mission-control/internal/domain"
)

// AgentQueueInput contains the parameters for an agent's work queue.
type AgentQueueInput struct {
	AgentID string
}

// AgentQueueOutput contains the agent's queue and inbox size.
type AgentQueueOutput struct {
	Agent          *domain.Agent  // nil when the agent has no record
	Tasks          []*domain.Task // Priority desc, then newest first
	UnreadMentions int
}

// AgentQueue is the use case behind "what should I work on next".
type AgentQueue struct {
	tasks    domain.TaskRepository
	agents   domain.AgentRepository
	mentions domain.MentionRepository
}

// NewAgentQueue creates a new AgentQueue use case.
func NewAgentQueue(tasks domain.TaskRepository, agents domain.AgentRepository, mentions domain.MentionRepository) *AgentQueue {
	return &AgentQueue{
		tasks:    tasks,
		agents:   agents,
		mentions: mentions,
	}
}

// Execute gathers the queue.
func (uc *AgentQueue) Execute(_ context.Context, in AgentQueueInput) (*AgentQueueOutput, error) {
	if in.AgentID == "" {
		return nil, domain.ErrEmptyAgent
	}

	tasks, err := uc.tasks.ListByAgent(in.AgentID)
	if err != nil {
		return nil, fmt.Errorf("list agent tasks: %w", err)
	}
	unread, err := uc.mentions.ListForAgent(in.AgentID, true)
	if err != nil {
		return nil, fmt.Errorf("list mentions: %w", err)
	}

	out := &AgentQueueOutput{
		Tasks:          tasks,
		UnreadMentions: len(unread),
	}
	agent, err := uc.agents.Get(in.AgentID)
	switch {
	case errors.Is(err, domain.ErrAgentNotFound):
	case err != nil:
		return nil, fmt.Errorf("get agent: %w", err)
	default:
		out.Agent = agent
	}
	return out, nil
}
