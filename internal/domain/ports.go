package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RecordStore persists one whole collection of records.
// There are no partial updates: callers read everything, mutate in memory,
// and write everything back.
type RecordStore[T any] interface {
	// ReadAll returns every persisted record. A missing or unreadable
	// backing resource yields an empty collection, not an error.
	ReadAll() ([]T, error)

	// WriteAll atomically replaces the persisted collection. On failure the
	// previous state is left untouched.
	WriteAll(records []T) error
}

// StoreInitializer prepares a backing store for first use.
type StoreInitializer interface {
	// IsInitialized reports whether the backing resource exists.
	IsInitialized() bool

	// Initialize creates an empty collection if none exists. Existing data is kept.
	Initialize() error
}

// TaskRepository manages task persistence.
type TaskRepository interface {
	// List retrieves tasks matching every set filter, newest first.
	List(filter TaskFilter) ([]*Task, error)

	// Get retrieves a task by ID. Returns ErrTaskNotFound if absent.
	Get(id string) (*Task, error)

	// Create validates in and appends a new backlog task.
	Create(in NewTaskInput) (*Task, error)

	// Update applies the set fields of patch.
	Update(id string, patch TaskPatch) (*Task, error)

	// Delete removes a task with its comments and work log.
	Delete(id string) error

	// ListByAgent returns the agent's queue: priority desc, then newest first.
	ListByAgent(agentID string) ([]*Task, error)

	// Mutate applies fn to the task and persists the collection only if fn
	// succeeds. UpdatedAt is advanced after fn returns.
	Mutate(id string, fn func(*Task) error) (*Task, error)
}

// TaskFilter specifies criteria for listing tasks.
// Empty fields do not filter.
type TaskFilter struct {
	Status   Status
	Assignee string
	Priority Priority
}

// AgentRepository manages agent records.
type AgentRepository interface {
	// List returns all agents in seeding order.
	List() ([]*Agent, error)

	// Get retrieves an agent. Returns ErrAgentNotFound if absent.
	Get(id string) (*Agent, error)

	// Update applies patch and refreshes LastSeen.
	Update(id string, patch AgentPatch) (*Agent, error)

	// UpdateWhere applies patch to every agent matching match and returns them.
	// Nothing is written when no agent matches.
	UpdateWhere(match func(*Agent) bool, patch AgentPatch) ([]*Agent, error)

	// Seed creates records for roster entries that have none.
	// Returns the ids that were added.
	Seed(defs []AgentDefinition) ([]string, error)
}

// NewMention holds the fields captured when a comment mentions an agent.
type NewMention struct {
	TaskID         string
	TaskTitle      string
	CommentID      string
	Author         string
	MentionedAgent string
	Content        string
}

// MentionRepository manages the mention ledger.
type MentionRepository interface {
	// Create records an unread mention. A second call for the same
	// comment and agent returns the existing record.
	Create(in NewMention) (*Mention, error)

	// List returns every mention, newest first.
	List() ([]*Mention, error)

	// ListForAgent returns the agent's mentions, newest first.
	ListForAgent(agentID string, unreadOnly bool) ([]*Mention, error)

	// MarkRead flips the given mentions to read. Unknown ids are ignored.
	// Returns the number of mentions that changed.
	MarkRead(ids []string) (int, error)

	// MarkAllRead flips every unread mention of the agent to read.
	MarkAllRead(agentID string) (int, error)
}

// RosterProvider supplies the current roster. Implementations may re-read
// their source on every call.
type RosterProvider interface {
	Roster() (*Roster, error)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (local + global).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// Subscription is the handle of a running change subscription.
type Subscription interface {
	// Unsubscribe stops further polling. Safe to call more than once.
	Unsubscribe()

	// Done is closed once polling has stopped.
	Done() <-chan struct{}
}

// ChangeNotifier delivers fresh snapshots of each collection, in listing
// order, to long-lived observers.
type ChangeNotifier interface {
	SubscribeTasks(ctx context.Context, fn func([]*Task)) Subscription
	SubscribeAgents(ctx context.Context, fn func([]*Agent)) Subscription
	SubscribeMentions(ctx context.Context, fn func([]*Mention)) Subscription
}

// Scheduler runs named jobs on cron schedules.
type Scheduler interface {
	AddJob(name, spec string, fn func(context.Context) error) error
	Start(ctx context.Context)
	Stop()
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// GetLocalConfigInfo returns information about the data directory config file.
	GetLocalConfigInfo() ConfigInfo

	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo

	// InitLocalConfig writes cfg to the data directory config file and returns its path.
	// Returns ErrConfigExists if the file is already there.
	InitLocalConfig(cfg *Config) (string, error)

	// InitGlobalConfig writes cfg to the global config file and returns its path.
	InitGlobalConfig(cfg *Config) (string, error)
}

// Logger records operational events. taskID may be empty for global events.
type Logger interface {
	Debug(taskID, category, msg string)
	Info(taskID, category, msg string)
	Warn(taskID, category, msg string)
	Error(taskID, category, msg string)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(_, _, _ string) {}
func (NopLogger) Info(_, _, _ string)  {}
func (NopLogger) Warn(_, _, _ string)  {}
func (NopLogger) Error(_, _, _ string) {}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time in UTC.
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// IDGenerator produces opaque unique identifiers.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates random (v4) UUIDs.
type UUIDGenerator struct{}

// NewID returns a new UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
