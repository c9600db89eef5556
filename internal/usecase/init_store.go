package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/runoshun/mission-control/internal/domain"
)

// InitStoreInput contains the input parameters for InitStore.
type InitStoreInput struct {
	DataDir string // Data directory holding stores and logs
}

// InitStoreOutput contains the output from InitStore.
type InitStoreOutput struct {
	DataDir            string
	SeededAgents       []string // Agents created from the roster
	AlreadyInitialized bool     // True if every store already existed
}

// InitStore prepares the data directory and seeds agents from the roster.
// Running it again is harmless: existing data is never touched.
type InitStore struct {
	seed   *SeedAgents
	stores []domain.StoreInitializer
}

// NewInitStore creates a new InitStore use case.
func NewInitStore(seed *SeedAgents, stores ...domain.StoreInitializer) *InitStore {
	return &InitStore{
		seed:   seed,
		stores: stores,
	}
}

// Execute initializes every store, then seeds agents.
func (uc *InitStore) Execute(ctx context.Context, in InitStoreInput) (*InitStoreOutput, error) {
	if err := os.MkdirAll(filepath.Join(in.DataDir, "logs"), 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	out := &InitStoreOutput{DataDir: in.DataDir, AlreadyInitialized: true}
	for _, s := range uc.stores {
		if s.IsInitialized() {
			continue
		}
		out.AlreadyInitialized = false
		if err := s.Initialize(); err != nil {
			return nil, fmt.Errorf("initialize store: %w", err)
		}
	}

	seeded, err := uc.seed.Execute(ctx, SeedAgentsInput{})
	if err != nil {
		return nil, err
	}
	out.SeededAgents = seeded.Added
	return out, nil
}
