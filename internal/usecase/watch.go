package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/runoshun/mission-control/internal/domain"
)

// Watchable collections.
const (
	WatchTasks    = "tasks"
	WatchAgents   = "agents"
	WatchMentions = "mentions"
)

// seedJobName is the scheduler job that keeps agent records in step with the roster.
const seedJobName = "seed-agents"

// WatchInput contains the parameters for watching a collection.
type WatchInput struct {
	Collection   string // tasks, agents or mentions
	AgentID      string // For mentions: count only this agent's mentions
	SeedSchedule string // cron spec for re-seeding agents ("" disables)
}

// WatchOutput is empty; Watch runs until its context ends.
type WatchOutput struct{}

// ErrUnknownCollection is returned for an unsupported WatchInput.Collection.
var ErrUnknownCollection = fmt.Errorf("%w: collection must be tasks, agents or mentions", domain.ErrValidation)

// Watch prints a one-line summary of each polled snapshot.
type Watch struct {
	notifier  domain.ChangeNotifier
	scheduler domain.Scheduler
	seed      *SeedAgents
	clock     domain.Clock
	stdout    io.Writer
	logger    domain.Logger
}

// NewWatch creates a new Watch use case.
func NewWatch(notifier domain.ChangeNotifier, scheduler domain.Scheduler, seed *SeedAgents, clock domain.Clock, stdout io.Writer, logger domain.Logger) *Watch {
	return &Watch{
		notifier:  notifier,
		scheduler: scheduler,
		seed:      seed,
		clock:     clock,
		stdout:    stdout,
		logger:    logger,
	}
}

// Execute blocks until ctx is done. Cancellation is a normal exit.
func (uc *Watch) Execute(ctx context.Context, in WatchInput) (*WatchOutput, error) {
	if in.Collection != WatchTasks && in.Collection != WatchAgents && in.Collection != WatchMentions {
		return nil, ErrUnknownCollection
	}

	if in.SeedSchedule != "" && uc.scheduler != nil && uc.seed != nil {
		if err := uc.scheduler.AddJob(seedJobName, in.SeedSchedule, func(ctx context.Context) error {
			_, err := uc.seed.Execute(ctx, SeedAgentsInput{})
			return err
		}); err != nil {
			return nil, err
		}
		uc.scheduler.Start(ctx)
		defer uc.scheduler.Stop()
	}

	var sub domain.Subscription
	switch in.Collection {
	case WatchTasks:
		sub = uc.notifier.SubscribeTasks(ctx, func(tasks []*domain.Task) {
			uc.print(summarizeTasks(tasks))
		})
	case WatchAgents:
		sub = uc.notifier.SubscribeAgents(ctx, func(agents []*domain.Agent) {
			uc.print(summarizeAgents(agents))
		})
	case WatchMentions:
		sub = uc.notifier.SubscribeMentions(ctx, func(mentions []*domain.Mention) {
			uc.print(summarizeMentions(mentions, in.AgentID))
		})
	}
	if uc.logger != nil {
		uc.logger.Info("", "watch", "watching "+in.Collection)
	}

	<-ctx.Done()
	sub.Unsubscribe()
	<-sub.Done()

	if errors.Is(ctx.Err(), context.Canceled) {
		return &WatchOutput{}, nil
	}
	return nil, ctx.Err()
}

func (uc *Watch) print(line string) {
	_, _ = fmt.Fprintf(uc.stdout, "[%s] %s\n", uc.clock.Now().Format("15:04:05"), line)
}

func summarizeTasks(tasks []*domain.Task) string {
	counts := make(map[domain.Status]int)
	for _, t := range tasks {
		counts[t.Status]++
	}
	parts := make([]string, 0, len(domain.AllStatuses()))
	for _, s := range domain.AllStatuses() {
		parts = append(parts, fmt.Sprintf("%s %d", s, counts[s]))
	}
	return fmt.Sprintf("tasks: %d (%s)", len(tasks), strings.Join(parts, ", "))
}

func summarizeAgents(agents []*domain.Agent) string {
	parts := make([]string, 0, len(agents))
	for _, a := range agents {
		part := fmt.Sprintf("%s %s", a.ID, a.Status)
		if id := a.CurrentTaskID(); id != "" {
			part += " on " + id
		}
		parts = append(parts, part)
	}
	return fmt.Sprintf("agents: %s", strings.Join(parts, ", "))
}

func summarizeMentions(mentions []*domain.Mention, agentID string) string {
	total, unread := 0, 0
	for _, m := range mentions {
		if agentID != "" && m.MentionedAgent != agentID {
			continue
		}
		total++
		if !m.Read {
			unread++
		}
	}
	if agentID != "" {
		return fmt.Sprintf("mentions for %s: %d unread of %d", agentID, unread, total)
	}
	return fmt.Sprintf("mentions: %d unread of %d", unread, total)
}
