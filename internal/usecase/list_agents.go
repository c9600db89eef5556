package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/mission-control/internal/domain"
)

// ListAgentsInput contains the parameters for listing agents.
type ListAgentsInput struct{}

// ListAgentsOutput contains the result of listing agents.
type ListAgentsOutput struct {
	Agents []*domain.Agent
}

// ListAgents is the use case for listing agents.
type ListAgents struct {
	agents domain.AgentRepository
}

// NewListAgents creates a new ListAgents use case.
func NewListAgents(agents domain.AgentRepository) *ListAgents {
	return &ListAgents{agents: agents}
}

// Execute lists every agent record.
func (uc *ListAgents) Execute(_ context.Context, _ ListAgentsInput) (*ListAgentsOutput, error) {
	agents, err := uc.agents.List()
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	return &ListAgentsOutput{Agents: agents}, nil
}
