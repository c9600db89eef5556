package repo

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/runoshun/mission-control/internal/domain"
)

// Mentions implements domain.MentionRepository.
type Mentions struct {
	store domain.RecordStore[domain.Mention]
	clock domain.Clock
	ids   domain.IDGenerator
}

// NewMentions creates a mention repository on top of store.
func NewMentions(store domain.RecordStore[domain.Mention], clock domain.Clock, ids domain.IDGenerator) *Mentions {
	return &Mentions{
		store: store,
		clock: clock,
		ids:   ids,
	}
}

func (r *Mentions) readAll() ([]domain.Mention, error) {
	mentions, err := r.store.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read mentions: %w", err)
	}
	return mentions, nil
}

func (r *Mentions) writeAll(mentions []domain.Mention) error {
	if err := r.store.WriteAll(mentions); err != nil {
		return fmt.Errorf("write mentions: %w", err)
	}
	return nil
}

// Create records an unread mention, at most one per comment and agent.
func (r *Mentions) Create(in domain.NewMention) (*domain.Mention, error) {
	if in.MentionedAgent == "" {
		return nil, domain.ErrEmptyAgent
	}

	mentions, err := r.readAll()
	if err != nil {
		return nil, err
	}

	if i := slices.IndexFunc(mentions, func(m domain.Mention) bool {
		return m.CommentID == in.CommentID && m.MentionedAgent == in.MentionedAgent
	}); i >= 0 {
		return &mentions[i], nil
	}

	mention := domain.Mention{
		ID:             r.ids.NewID(),
		TaskID:         in.TaskID,
		TaskTitle:      in.TaskTitle,
		CommentID:      in.CommentID,
		Author:         in.Author,
		MentionedAgent: in.MentionedAgent,
		Content:        in.Content,
		CreatedAt:      r.clock.Now(),
		Read:           false,
	}
	mentions = append(mentions, mention)
	if err := r.writeAll(mentions); err != nil {
		return nil, err
	}
	return &mention, nil
}

// List returns every mention, newest first.
func (r *Mentions) List() ([]*domain.Mention, error) {
	return r.list(func(*domain.Mention) bool { return true })
}

// ListForAgent returns the agent's mentions, newest first.
func (r *Mentions) ListForAgent(agentID string, unreadOnly bool) ([]*domain.Mention, error) {
	return r.list(func(m *domain.Mention) bool {
		return m.MentionedAgent == agentID && (!unreadOnly || !m.Read)
	})
}

func (r *Mentions) list(match func(*domain.Mention) bool) ([]*domain.Mention, error) {
	mentions, err := r.readAll()
	if err != nil {
		return nil, err
	}

	var result []*domain.Mention
	for i := range mentions {
		if match(&mentions[i]) {
			result = append(result, &mentions[i])
		}
	}

	slices.SortFunc(result, func(a, b *domain.Mention) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return result, nil
}

// MarkRead flips the given mentions to read.
func (r *Mentions) MarkRead(ids []string) (int, error) {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return r.markRead(func(m *domain.Mention) bool {
		_, ok := set[m.ID]
		return ok
	})
}

// MarkAllRead flips every unread mention of the agent to read.
func (r *Mentions) MarkAllRead(agentID string) (int, error) {
	return r.markRead(func(m *domain.Mention) bool {
		return m.MentionedAgent == agentID
	})
}

// markRead only ever sets Read to true and skips the write when nothing changed.
func (r *Mentions) markRead(match func(*domain.Mention) bool) (int, error) {
	mentions, err := r.readAll()
	if err != nil {
		return 0, err
	}

	changed := 0
	for i := range mentions {
		if mentions[i].Read || !match(&mentions[i]) {
			continue
		}
		mentions[i].Read = true
		changed++
	}
	if changed == 0 {
		return 0, nil
	}

	if err := r.writeAll(mentions); err != nil {
		return 0, err
	}
	return changed, nil
}

// Ensure Mentions implements domain.MentionRepository.
var _ domain.MentionRepository = (*Mentions)(nil)
