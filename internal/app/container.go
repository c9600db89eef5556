// Package app provides the dependency injection container for the application.
package app

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/runoshun/mission-control/internal/domain"
	"github.com/runoshun/mission-control/internal/infra/config"
	"github.com/runoshun/mission-control/internal/infra/gitstore"
	"github.com/runoshun/mission-control/internal/infra/jsonstore"
	"github.com/runoshun/mission-control/internal/infra/logging"
	"github.com/runoshun/mission-control/internal/infra/notifier"
	"github.com/runoshun/mission-control/internal/infra/repo"
	"github.com/runoshun/mission-control/internal/infra/scheduler"
	"github.com/runoshun/mission-control/internal/usecase"
)

// Collection names shared by both store backends.
const (
	collectionTasks    = "tasks"
	collectionAgents   = "agents"
	collectionMentions = "mentions"
)

// Config holds the application configuration paths.
type Config struct {
	DataDir      string // Data directory holding stores, logs and config.toml
	TasksPath    string // Path to tasks.json (json backend)
	AgentsPath   string // Path to agents.json (json backend)
	MentionsPath string // Path to mentions.json (json backend)
}

// newConfig derives all paths from the data directory.
func newConfig(dataDir string) Config {
	return Config{
		DataDir:      dataDir,
		TasksPath:    domain.TasksStorePath(dataDir),
		AgentsPath:   domain.AgentsStorePath(dataDir),
		MentionsPath: domain.MentionsStorePath(dataDir),
	}
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tasks         domain.TaskRepository
	Agents        domain.AgentRepository
	Mentions      domain.MentionRepository
	Roster        domain.RosterProvider
	Notifier      domain.ChangeNotifier
	Scheduler     domain.Scheduler
	Clock         domain.Clock
	IDs           domain.IDGenerator
	Logger        domain.Logger
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager

	// Backing stores, initialized by InitStoreUseCase
	Stores []domain.StoreInitializer

	// Effective configuration at startup
	AppConfig *domain.Config
	// Error from loading AppConfig; defaults are used when set
	ConfigErr error

	closer io.Closer

	// Configuration
	Config Config
}

// New creates a new Container rooted at the given data directory.
func New(dataDir string) (*Container, error) {
	abs, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}
	cfg := newConfig(abs)

	configLoader := config.NewLoader(cfg.DataDir)
	appConfig, configErr := configLoader.Load()
	if configErr != nil {
		appConfig = domain.NewDefaultConfig()
	}

	logger := logging.New(cfg.DataDir, logging.ParseLevel(appConfig.Log.Level))
	if configErr != nil {
		logger.Warn("", "config", fmt.Sprintf("using defaults: %v", configErr))
	}
	for _, w := range appConfig.Warnings {
		logger.Warn("", "config", w)
	}

	taskStore, agentStore, mentionStore, stores, err := openStores(cfg, appConfig, logger)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	clock := domain.RealClock{}
	ids := domain.UUIDGenerator{}
	tasks := repo.NewTasks(taskStore, clock, ids)
	agents := repo.NewAgents(agentStore, clock)
	mentions := repo.NewMentions(mentionStore, clock, ids)

	return &Container{
		Tasks:         tasks,
		Agents:        agents,
		Mentions:      mentions,
		Roster:        configLoader,
		Notifier:      notifier.New(tasks, agents, mentions, appConfig.Watch.Interval, logger),
		Scheduler:     scheduler.New(logger),
		Clock:         clock,
		IDs:           ids,
		Logger:        logger,
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(cfg.DataDir),
		Stores:        stores,
		AppConfig:     appConfig,
		ConfigErr:     configErr,
		closer:        logger,
		Config:        cfg,
	}, nil
}

// openStores builds the three record stores for the configured backend.
func openStores(cfg Config, appConfig *domain.Config, logger domain.Logger) (
	domain.RecordStore[domain.Task],
	domain.RecordStore[domain.Agent],
	domain.RecordStore[domain.Mention],
	[]domain.StoreInitializer,
	error,
) {
	switch appConfig.Store.Backend {
	case domain.StoreBackendGit:
		path := appConfig.Store.Repo
		if path == "" {
			path = cfg.DataDir
		}
		r, err := gitstore.OpenRepository(path)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		onCorrupt := func(ref, blob string, err error) {
			logger.Warn("", "store", fmt.Sprintf("corrupt snapshot %s (blob %s): %v", ref, blob, err))
		}
		ns := appConfig.Store.Namespace
		if ns == "" {
			ns = domain.DefaultNamespace
		}
		t := gitstore.New[domain.Task](r, ns, collectionTasks, onCorrupt)
		a := gitstore.New[domain.Agent](r, ns, collectionAgents, onCorrupt)
		m := gitstore.New[domain.Mention](r, ns, collectionMentions, onCorrupt)
		return t, a, m, []domain.StoreInitializer{t, a, m}, nil
	default:
		opt := jsonstore.WithCorruptHandler(func(path, quarantine string, err error) {
			logger.Warn("", "store", fmt.Sprintf("corrupt snapshot %s (copied to %q): %v", path, quarantine, err))
		})
		t := jsonstore.New[domain.Task](cfg.TasksPath, opt)
		a := jsonstore.New[domain.Agent](cfg.AgentsPath, opt)
		m := jsonstore.New[domain.Mention](cfg.MentionsPath, opt)
		return t, a, m, []domain.StoreInitializer{t, a, m}, nil
	}
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, tasks domain.TaskRepository, agents domain.AgentRepository, mentions domain.MentionRepository, roster domain.RosterProvider, clock domain.Clock, ids domain.IDGenerator, logger domain.Logger) *Container {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Container{
		Tasks:     tasks,
		Agents:    agents,
		Mentions:  mentions,
		Roster:    roster,
		Notifier:  notifier.New(tasks, agents, mentions, domain.DefaultWatchInterval, logger),
		Scheduler: scheduler.New(logger),
		Clock:     clock,
		IDs:       ids,
		Logger:    logger,
		AppConfig: domain.NewDefaultConfig(),
		Config:    cfg,
	}
}

// Close releases resources held by the container.
func (c *Container) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// UseCase factory methods

// InitStoreUseCase returns a new InitStore use case.
func (c *Container) InitStoreUseCase() *usecase.InitStore {
	return usecase.NewInitStore(c.SeedAgentsUseCase(), c.Stores...)
}

// NewTaskUseCase returns a new NewTask use case.
func (c *Container) NewTaskUseCase() *usecase.NewTask {
	return usecase.NewNewTask(c.Tasks, c.Logger)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Tasks)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Tasks)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Tasks, c.Logger)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Tasks, c.Agents, c.Logger)
}

// PickTaskUseCase returns a new PickTask use case.
func (c *Container) PickTaskUseCase() *usecase.PickTask {
	return usecase.NewPickTask(c.Tasks, c.Agents, c.Clock, c.IDs, c.Logger)
}

// LogWorkUseCase returns a new LogWork use case.
func (c *Container) LogWorkUseCase() *usecase.LogWork {
	return usecase.NewLogWork(c.Tasks, c.Clock, c.IDs, c.Logger)
}

// CompleteTaskUseCase returns a new CompleteTask use case.
func (c *Container) CompleteTaskUseCase() *usecase.CompleteTask {
	return usecase.NewCompleteTask(c.Tasks, c.Agents, c.Clock, c.IDs, c.Logger)
}

// AddCommentUseCase returns a new AddComment use case.
func (c *Container) AddCommentUseCase() *usecase.AddComment {
	return usecase.NewAddComment(c.Tasks, c.Mentions, c.Roster, c.Clock, c.IDs, c.Logger)
}

// ListMentionsUseCase returns a new ListMentions use case.
func (c *Container) ListMentionsUseCase() *usecase.ListMentions {
	return usecase.NewListMentions(c.Mentions)
}

// MarkMentionsReadUseCase returns a new MarkMentionsRead use case.
func (c *Container) MarkMentionsReadUseCase() *usecase.MarkMentionsRead {
	return usecase.NewMarkMentionsRead(c.Mentions, c.Logger)
}

// SeedAgentsUseCase returns a new SeedAgents use case.
func (c *Container) SeedAgentsUseCase() *usecase.SeedAgents {
	return usecase.NewSeedAgents(c.Agents, c.Roster, c.Logger)
}

// ListAgentsUseCase returns a new ListAgents use case.
func (c *Container) ListAgentsUseCase() *usecase.ListAgents {
	return usecase.NewListAgents(c.Agents)
}

// UpdateAgentStatusUseCase returns a new UpdateAgentStatus use case.
func (c *Container) UpdateAgentStatusUseCase() *usecase.UpdateAgentStatus {
	return usecase.NewUpdateAgentStatus(c.Agents, c.Logger)
}

// AgentQueueUseCase returns a new AgentQueue use case.
func (c *Container) AgentQueueUseCase() *usecase.AgentQueue {
	return usecase.NewAgentQueue(c.Tasks, c.Agents, c.Mentions)
}

// WatchUseCase returns a new Watch use case writing to w.
func (c *Container) WatchUseCase(w io.Writer) *usecase.Watch {
	return usecase.NewWatch(c.Notifier, c.Scheduler, c.SeedAgentsUseCase(), c.Clock, w, c.Logger)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}
