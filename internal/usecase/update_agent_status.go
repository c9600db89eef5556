package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/mission-control/internal/domain"
)

// UpdateAgentStatusInput contains the parameters for a direct status update.
type UpdateAgentStatusInput struct {
	CurrentTask      *string // Optional; nil leaves it unchanged
	AgentID          string
	Status           domain.AgentStatus
	ClearCurrentTask bool
}

// UpdateAgentStatusOutput contains the updated agent.
type UpdateAgentStatusOutput struct {
	Agent *domain.Agent
}

// UpdateAgentStatus sets an agent's status outside the workflow.
type UpdateAgentStatus struct {
	agents domain.AgentRepository
	logger domain.Logger
}

// NewUpdateAgentStatus creates a new UpdateAgentStatus use case.
func NewUpdateAgentStatus(agents domain.AgentRepository, logger domain.Logger) *UpdateAgentStatus {
	return &UpdateAgentStatus{
		agents: agents,
		logger: logger,
	}
}

// Execute applies the update and refreshes lastSeen.
func (uc *UpdateAgentStatus) Execute(_ context.Context, in UpdateAgentStatusInput) (*UpdateAgentStatusOutput, error) {
	if in.AgentID == "" {
		return nil, domain.ErrEmptyAgent
	}
	if !in.Status.IsValid() {
		return nil, domain.ErrInvalidAgentStatus
	}

	agent, err := uc.agents.Update(in.AgentID, domain.AgentPatch{
		Status:           &in.Status,
		CurrentTask:      in.CurrentTask,
		ClearCurrentTask: in.ClearCurrentTask,
	})
	if err != nil {
		return nil, fmt.Errorf("update agent: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(agent.CurrentTaskID(), "agents", fmt.Sprintf("%s is now %s", agent.ID, agent.Status))
	}
	return &UpdateAgentStatusOutput{Agent: agent}, nil
}
