package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/mission-control/internal/domain"
)

// MarkMentionsReadInput contains the parameters for marking mentions read.
// Either MentionIDs or AgentID (all of the agent's mentions) must be given.
type MarkMentionsReadInput struct {
	AgentID    string
	MentionIDs []string
}

// MarkMentionsReadOutput contains the result of marking mentions read.
type MarkMentionsReadOutput struct {
	Marked int // Mentions that flipped from unread to read
}

// MarkMentionsRead flips mentions to read. Read is never flipped back.
type MarkMentionsRead struct {
	mentions domain.MentionRepository
	logger   domain.Logger
}

// NewMarkMentionsRead creates a new MarkMentionsRead use case.
func NewMarkMentionsRead(mentions domain.MentionRepository, logger domain.Logger) *MarkMentionsRead {
	return &MarkMentionsRead{
		mentions: mentions,
		logger:   logger,
	}
}

// Execute marks the given mentions, or all of the agent's when no ids are given.
func (uc *MarkMentionsRead) Execute(_ context.Context, in MarkMentionsReadInput) (*MarkMentionsReadOutput, error) {
	var (
		n   int
		err error
	)
	switch agentID := strings.TrimSpace(in.AgentID); {
	case len(in.MentionIDs) > 0:
		n, err = uc.mentions.MarkRead(in.MentionIDs)
	case agentID != "":
		n, err = uc.mentions.MarkAllRead(agentID)
	default:
		return nil, domain.ErrEmptyAgent
	}
	if err != nil {
		return nil, fmt.Errorf("mark mentions read: %w", err)
	}

	if uc.logger != nil && n > 0 {
		uc.logger.Debug("", "mentions", fmt.Sprintf("marked %d mention(s) read", n))
	}
	return &MarkMentionsReadOutput{Marked: n}, nil
}
