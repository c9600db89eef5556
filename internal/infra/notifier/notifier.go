// Package notifier provides polling subscriptions over record collections.
package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/runoshun/mission-control/internal/domain"
)

// Ensure Notifier implements domain.ChangeNotifier.
var _ domain.ChangeNotifier = (*Notifier)(nil)

// Source loads the latest snapshot of a collection, already in listing order.
type Source[T any] func() ([]T, error)

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// Unsubscribe stops further polling. It does not interrupt a poll in flight
// and is safe to call more than once, including from the callback.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() { close(s.stop) })
}

// Done is closed once the poll loop has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Subscribe polls source immediately and then every interval, passing each
// snapshot to fn. Load errors are logged and the loop keeps going.
// The loop ends on Unsubscribe or when ctx is done.
func Subscribe[T any](ctx context.Context, interval time.Duration, logger domain.Logger, name string, source Source[T], fn func([]T)) *Subscription {
	sub := &Subscription{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(sub.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			records, err := source()
			if err != nil {
				logger.Warn("", "notifier", name+": poll failed: "+err.Error())
			} else {
				// Unsubscribe may race with the tick; honor it before delivering.
				select {
				case <-sub.stop:
					return
				default:
				}
				fn(records)
			}

			select {
			case <-ctx.Done():
				return
			case <-sub.stop:
				return
			case <-ticker.C:
			}
		}
	}()

	return sub
}

// Notifier re-reads the task, agent and mention collections at a fixed interval.
// Every subscriber polls independently.
type Notifier struct {
	tasks    domain.TaskRepository
	agents   domain.AgentRepository
	mentions domain.MentionRepository
	logger   domain.Logger
	interval time.Duration
}

// New creates a Notifier. A non-positive interval uses domain.DefaultWatchInterval.
func New(tasks domain.TaskRepository, agents domain.AgentRepository, mentions domain.MentionRepository, interval time.Duration, logger domain.Logger) *Notifier {
	if interval <= 0 {
		interval = domain.DefaultWatchInterval
	}
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Notifier{
		tasks:    tasks,
		agents:   agents,
		mentions: mentions,
		logger:   logger,
		interval: interval,
	}
}

// Interval returns the poll interval.
func (n *Notifier) Interval() time.Duration {
	return n.interval
}

// SubscribeTasks delivers every task, newest first.
func (n *Notifier) SubscribeTasks(ctx context.Context, fn func([]*domain.Task)) domain.Subscription {
	return Subscribe(ctx, n.interval, n.logger, "tasks", func() ([]*domain.Task, error) {
		return n.tasks.List(domain.TaskFilter{})
	}, fn)
}

// SubscribeAgents delivers every agent in roster order.
func (n *Notifier) SubscribeAgents(ctx context.Context, fn func([]*domain.Agent)) domain.Subscription {
	return Subscribe(ctx, n.interval, n.logger, "agents", n.agents.List, fn)
}

// SubscribeMentions delivers every mention, newest first.
func (n *Notifier) SubscribeMentions(ctx context.Context, fn func([]*domain.Mention)) domain.Subscription {
	return Subscribe(ctx, n.interval, n.logger, "mentions", n.mentions.List, fn)
}
