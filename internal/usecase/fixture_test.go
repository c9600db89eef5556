package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/runoshun/mission-control/internal/domain"
	"github.com/runoshun/mission-control/internal/infra/repo"
	"github.com/runoshun/mission-control/internal/testutil"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// fixture wires the real repositories over in-memory stores.
type fixture struct {
	taskStore    *testutil.MemoryStore[domain.Task]
	agentStore   *testutil.MemoryStore[domain.Agent]
	mentionStore *testutil.MemoryStore[domain.Mention]
	tasks        *repo.Tasks
	agents       *repo.Agents
	mentions     *repo.Mentions
	clock        *testutil.MockClock
	ids          *testutil.MockIDGenerator
	roster       *testutil.MockRosterProvider
	logger       *testutil.MockLogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		taskStore:    testutil.NewMemoryStore[domain.Task](),
		agentStore:   testutil.NewMemoryStore[domain.Agent](),
		mentionStore: testutil.NewMemoryStore[domain.Mention](),
		clock:        &testutil.MockClock{NowTime: baseTime, Step: time.Second},
		ids:          &testutil.MockIDGenerator{Prefix: "id"},
		roster:       &testutil.MockRosterProvider{},
		logger:       &testutil.MockLogger{},
	}
	f.tasks = repo.NewTasks(f.taskStore, f.clock, &testutil.MockIDGenerator{Prefix: "t"})
	f.agents = repo.NewAgents(f.agentStore, f.clock)
	f.mentions = repo.NewMentions(f.mentionStore, f.clock, &testutil.MockIDGenerator{Prefix: "m"})

	_, err := f.agents.Seed(domain.DefaultAgents())
	require.NoError(t, err)
	return f
}

func (f *fixture) createTask(t *testing.T, title string, priority domain.Priority) *domain.Task {
	t.Helper()
	task, err := f.tasks.Create(domain.NewTaskInput{
		Title:       title,
		Description: title + " description",
		Priority:    priority,
		CreatedBy:   "lead",
	})
	require.NoError(t, err)
	return task
}

func (f *fixture) agent(t *testing.T, id string) *domain.Agent {
	t.Helper()
	a, err := f.agents.Get(id)
	require.NoError(t, err)
	return a
}

func (f *fixture) task(t *testing.T, id string) *domain.Task {
	t.Helper()
	task, err := f.tasks.Get(id)
	require.NoError(t, err)
	return task
}
