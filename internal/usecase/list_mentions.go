package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/mission-control/internal/domain"
)

// ListMentionsInput contains the parameters for listing mentions.
type ListMentionsInput struct {
	AgentID string // Empty lists every agent's mentions
	All     bool   // Include read mentions
}

// ListMentionsOutput contains the result of listing mentions.
type ListMentionsOutput struct {
	Mentions []*domain.Mention // Newest first
}

// ListMentions is the use case for an agent's mention inbox.
type ListMentions struct {
	mentions domain.MentionRepository
}

// NewListMentions creates a new ListMentions use case.
func NewListMentions(mentions domain.MentionRepository) *ListMentions {
	return &ListMentions{mentions: mentions}
}

// Execute lists mentions. Without an agent, read state is ignored.
func (uc *ListMentions) Execute(_ context.Context, in ListMentionsInput) (*ListMentionsOutput, error) {
	var (
		mentions []*domain.Mention
		err      error
	)
	if agentID := strings.TrimSpace(in.AgentID); agentID != "" {
		mentions, err = uc.mentions.ListForAgent(agentID, !in.All)
	} else {
		mentions, err = uc.mentions.List()
	}
	if err != nil {
		return nil, fmt.Errorf("list mentions: %w", err)
	}
	return &ListMentionsOutput{Mentions: mentions}, nil
}
