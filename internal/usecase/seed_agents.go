package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/mission-control/internal/domain"
)

// SeedAgentsInput contains the parameters for seeding agents.
type SeedAgentsInput struct{}

// SeedAgentsOutput contains the result of seeding agents.
type SeedAgentsOutput struct {
	Added []string // Agent IDs created by this run
}

// SeedAgents creates agent records for roster entries that have none.
type SeedAgents struct {
	agents domain.AgentRepository
	roster domain.RosterProvider
	logger domain.Logger
}

// NewSeedAgents creates a new SeedAgents use case.
func NewSeedAgents(agents domain.AgentRepository, roster domain.RosterProvider, logger domain.Logger) *SeedAgents {
	return &SeedAgents{
		agents: agents,
		roster: roster,
		logger: logger,
	}
}

// Execute seeds from the current roster. Existing agents are left as they are.
func (uc *SeedAgents) Execute(_ context.Context, _ SeedAgentsInput) (*SeedAgentsOutput, error) {
	roster, err := uc.roster.Roster()
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	added, err := uc.agents.Seed(roster.Agents)
	if err != nil {
		return nil, fmt.Errorf("seed agents: %w", err)
	}

	if uc.logger != nil && len(added) > 0 {
		uc.logger.Info("", "agents", fmt.Sprintf("seeded %s", strings.Join(added, ", ")))
	}
	return &SeedAgentsOutput{Added: added}, nil
}
