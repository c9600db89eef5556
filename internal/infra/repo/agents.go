package repo

import (
	"fmt"
	"slices"

	"github.com/runoshun/mission-control/internal/domain"
)

// Agents implements domain.AgentRepository.
type Agents struct {
	store domain.RecordStore[domain.Agent]
	clock domain.Clock
}

// NewAgents creates an agent repository on top of store.
func NewAgents(store domain.RecordStore[domain.Agent], clock domain.Clock) *Agents {
	return &Agents{
		store: store,
		clock: clock,
	}
}

func (r *Agents) readAll() ([]domain.Agent, error) {
	agents, err := r.store.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read agents: %w", err)
	}
	return agents, nil
}

func (r *Agents) writeAll(agents []domain.Agent) error {
	if err := r.store.WriteAll(agents); err != nil {
		return fmt.Errorf("write agents: %w", err)
	}
	return nil
}

// List returns all agents in seeding order.
func (r *Agents) List() ([]*domain.Agent, error) {
	agents, err := r.readAll()
	if err != nil {
		return nil, err
	}
	result := make([]*domain.Agent, len(agents))
	for i := range agents {
		result[i] = &agents[i]
	}
	return result, nil
}

// Get retrieves an agent by ID.
func (r *Agents) Get(id string) (*domain.Agent, error) {
	agents, err := r.readAll()
	if err != nil {
		return nil, err
	}
	i := indexOfAgent(agents, id)
	if i < 0 {
		return nil, domain.ErrAgentNotFound
	}
	return &agents[i], nil
}

// Update applies patch to one agent and refreshes LastSeen.
func (r *Agents) Update(id string, patch domain.AgentPatch) (*domain.Agent, error) {
	if patch.Status != nil && !patch.Status.IsValid() {
		return nil, domain.ErrInvalidAgentStatus
	}

	agents, err := r.readAll()
	if err != nil {
		return nil, err
	}
	i := indexOfAgent(agents, id)
	if i < 0 {
		return nil, domain.ErrAgentNotFound
	}

	patch.Apply(&agents[i], r.clock.Now())
	if err := r.writeAll(agents); err != nil {
		return nil, err
	}
	return &agents[i], nil
}

// UpdateWhere applies patch to every matching agent.
func (r *Agents) UpdateWhere(match func(*domain.Agent) bool, patch domain.AgentPatch) ([]*domain.Agent, error) {
	if patch.Status != nil && !patch.Status.IsValid() {
		return nil, domain.ErrInvalidAgentStatus
	}

	agents, err := r.readAll()
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	var updated []*domain.Agent
	for i := range agents {
		if !match(&agents[i]) {
			continue
		}
		patch.Apply(&agents[i], now)
		updated = append(updated, &agents[i])
	}
	if len(updated) == 0 {
		return nil, nil
	}

	if err := r.writeAll(agents); err != nil {
		return nil, err
	}
	return updated, nil
}

// Seed creates an active record for each roster entry that has none.
// Existing records are never touched, so seeding is idempotent.
func (r *Agents) Seed(defs []domain.AgentDefinition) ([]string, error) {
	agents, err := r.readAll()
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	var added []string
	for _, def := range defs {
		if indexOfAgent(agents, def.ID) >= 0 {
			continue
		}
		agents = append(agents, def.NewAgent(now))
		added = append(added, def.ID)
	}
	if len(added) == 0 {
		return nil, nil
	}

	if err := r.writeAll(agents); err != nil {
		return nil, err
	}
	return added, nil
}

func indexOfAgent(agents []domain.Agent, id string) int {
	return slices.IndexFunc(agents, func(a domain.Agent) bool {
		return a.ID == id
	})
}

// Ensure Agents implements domain.AgentRepository.
var _ domain.AgentRepository = (*Agents)(nil)
