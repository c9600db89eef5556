package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/mission-control/internal/app"
	"github.com/runoshun/mission-control/internal/domain"
	"github.com/runoshun/mission-control/internal/infra/repo"
	"github.com/runoshun/mission-control/internal/testutil"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// testEnv holds a container wired to real repositories over in-memory stores.
type testEnv struct {
	container *app.Container
	tasks     *repo.Tasks
	agents    *repo.Agents
	mentions  *repo.Mentions
	logger    *testutil.MockLogger
}

// newTestContainer creates an app.Container with in-memory dependencies
// and the default roster seeded.
func newTestContainer(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv(EnvAgent, "")

	clock := &testutil.MockClock{NowTime: testNow, Step: time.Second}
	tasks := repo.NewTasks(testutil.NewMemoryStore[domain.Task](), clock, &testutil.MockIDGenerator{Prefix: "t"})
	agents := repo.NewAgents(testutil.NewMemoryStore[domain.Agent](), clock)
	mentions := repo.NewMentions(testutil.NewMemoryStore[domain.Mention](), clock, &testutil.MockIDGenerator{Prefix: "m"})
	_, err := agents.Seed(domain.DefaultAgents())
	require.NoError(t, err)

	logger := &testutil.MockLogger{}
	container := app.NewWithDeps(
		app.Config{},
		tasks,
		agents,
		mentions,
		&testutil.MockRosterProvider{},
		clock,
		&testutil.MockIDGenerator{Prefix: "id"},
		logger,
	)
	return &testEnv{
		container: container,
		tasks:     tasks,
		agents:    agents,
		mentions:  mentions,
		logger:    logger,
	}
}

// run executes cmd with args and returns its stdout.
func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func (e *testEnv) createTask(t *testing.T, title string) *domain.Task {
	t.Helper()
	task, err := e.tasks.Create(domain.NewTaskInput{
		Title:       title,
		Description: title + " description",
		Priority:    domain.PriorityMedium,
		CreatedBy:   "lead",
	})
	require.NoError(t, err)
	return task
}

// =============================================================================
// New Command Tests
// =============================================================================

func TestNewCommand_CreateTask(t *testing.T) {
	env := newTestContainer(t)

	out, err := run(t, newNewCommand(env.container),
		"--as", " Lead ", "--title", "Launch post", "--body", "Write it",
		"--priority", "HIGH", "--tag", "blog", "--tag", "q2", "--due", "2026-03-14")

	require.NoError(t, err)
	assert.Contains(t, out, "Created task t-1")

	task, err := env.tasks.Get("t-1")
	require.NoError(t, err)
	assert.Equal(t, "Launch post", task.Title)
	assert.Equal(t, domain.StatusBacklog, task.Status)
	assert.Equal(t, domain.PriorityHigh, task.Priority)
	assert.Equal(t, "lead", task.CreatedBy)
	assert.Equal(t, []string{"blog", "q2"}, task.Tags)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2026-03-14", task.DueDate.Format(dateLayout))
	assert.Nil(t, task.Assignee)
}

func TestNewCommand_Assignee(t *testing.T) {
	env := newTestContainer(t)
	t.Setenv(EnvAgent, "lead")

	_, err := run(t, newNewCommand(env.container),
		"--title", "Fix login", "--body", "500 on /login", "--assignee", "DEV")
	require.NoError(t, err)

	task, err := env.tasks.Get("t-1")
	require.NoError(t, err)
	assert.Equal(t, "dev", task.AssigneeID())
	assert.Equal(t, "lead", task.CreatedBy)
}

func TestNewCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		wantErr error
		args    []string
	}{
		{
			name:    "unknown assignee",
			args:    []string{"--as", "lead", "--title", "T", "--body", "B", "--assignee", "ghost"},
			wantErr: domain.ErrUnknownAgent,
		},
		{
			name:    "missing creator",
			args:    []string{"--title", "T", "--body", "B"},
			wantErr: domain.ErrEmptyCreatedBy,
		},
		{
			name:    "missing title",
			args:    []string{"--as", "lead", "--body", "B"},
			wantErr: domain.ErrEmptyTitle,
		},
		{
			name:    "invalid priority",
			args:    []string{"--as", "lead", "--title", "T", "--body", "B", "--priority", "asap"},
			wantErr: domain.ErrInvalidPriority,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestContainer(t)
			_, err := run(t, newNewCommand(env.container), tt.args...)
			assert.ErrorIs(t, err, tt.wantErr)

			tasks, listErr := env.tasks.List(domain.TaskFilter{})
			require.NoError(t, listErr)
			assert.Empty(t, tasks)
		})
	}
}

func TestNewCommand_InvalidDue(t *testing.T) {
	env := newTestContainer(t)

	_, err := run(t, newNewCommand(env.container),
		"--as", "lead", "--title", "T", "--body", "B", "--due", "next week")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

// =============================================================================
// List Command Tests
// =============================================================================

func TestListCommand(t *testing.T) {
	env := newTestContainer(t)
	env.createTask(t, "First task")
	second := env.createTask(t, "Second task")
	_, err := env.tasks.Update(second.ID, domain.TaskPatch{
		Status:   domain.Some(domain.StatusTodo),
		Assignee: domain.Some(testutil.Ptr("ux")),
	})
	require.NoError(t, err)

	out, err := run(t, newListCommand(env.container))
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "First task")
	assert.Contains(t, out, "Second task")
	assert.Less(t, bytes.Index([]byte(out), []byte("Second task")), bytes.Index([]byte(out), []byte("First task")),
		"newest task first")

	out, err = run(t, newListCommand(env.container), "--status", "todo")
	require.NoError(t, err)
	assert.Contains(t, out, "Second task")
	assert.NotContains(t, out, "First task")

	out, err = run(t, newListCommand(env.container), "--assignee", "UX")
	require.NoError(t, err)
	assert.Contains(t, out, "Second task")
	assert.NotContains(t, out, "First task")
}

func TestListCommand_InvalidFilter(t *testing.T) {
	env := newTestContainer(t)

	_, err := run(t, newListCommand(env.container), "--status", "closed")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

// =============================================================================
// Show Command Tests
// =============================================================================

func TestShowCommand(t *testing.T) {
	env := newTestContainer(t)
	task := env.createTask(t, "Launch post")

	out, err := run(t, newShowCommand(env.container), task.ID)

	require.NoError(t, err)
	assert.Contains(t, out, "# Task t-1: Launch post")
	assert.Contains(t, out, "Launch post description")
	assert.Contains(t, out, "Status: Backlog")
	assert.Contains(t, out, "Assignee: none")
	assert.Contains(t, out, "Created by: lead")
}

func TestShowCommand_JSON(t *testing.T) {
	env := newTestContainer(t)
	task := env.createTask(t, "Launch post")

	out, err := run(t, newShowCommand(env.container), task.ID, "--json")
	require.NoError(t, err)

	var decoded domain.Task
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, task.ID, decoded.ID)
	assert.Equal(t, "Launch post", decoded.Title)
	assert.Equal(t, domain.StatusBacklog, decoded.Status)
}

func TestShowCommand_NotFound(t *testing.T) {
	env := newTestContainer(t)

	_, err := run(t, newShowCommand(env.container), "nope")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestResolveTaskID(t *testing.T) {
	env := newTestContainer(t)
	env.createTask(t, "One")
	env.createTask(t, "Two")

	id, err := resolveTaskID(env.container, "t-2")
	require.NoError(t, err)
	assert.Equal(t, "t-2", id)

	_, err = resolveTaskID(env.container, "t-")
	assert.ErrorIs(t, err, errAmbiguousTaskID)

	_, err = resolveTaskID(env.container, "x")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = resolveTaskID(env.container, " ")
	assert.Error(t, err)
}

// =============================================================================
// Edit Command Tests
// =============================================================================

func TestEditCommand(t *testing.T) {
	env := newTestContainer(t)
	task := env.createTask(t, "Launch post")

	out, err := run(t, newEditCommand(env.container), task.ID,
		"--title", "Launch announcement", "--status", "todo", "--priority", "urgent",
		"--assignee", "writer", "--due", "2026-04-01", "--tag", "launch")

	require.NoError(t, err)
	assert.Contains(t, out, "Updated task t-1")

	got, err := env.tasks.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Launch announcement", got.Title)
	assert.Equal(t, "Launch post description", got.Description, "unchanged fields are kept")
	assert.Equal(t, domain.StatusTodo, got.Status)
	assert.Equal(t, domain.PriorityUrgent, got.Priority)
	assert.Equal(t, "writer", got.AssigneeID())
	require.NotNil(t, got.DueDate)
	assert.Equal(t, []string{"launch"}, got.Tags)
}

func TestEditCommand_ClearFields(t *testing.T) {
	env := newTestContainer(t)
	task := env.createTask(t, "Launch post")
	due := testNow.Add(48 * time.Hour)
	_, err := env.tasks.Update(task.ID, domain.TaskPatch{
		Assignee: domain.Some(testutil.Ptr("dev")),
		DueDate:  domain.Some(&due),
	})
	require.NoError(t, err)

	_, err = run(t, newEditCommand(env.container), task.ID, "--assignee", "none", "--due", "none", "--status", "done")
	require.NoError(t, err)

	got, err := env.tasks.Get(task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Assignee)
	assert.Nil(t, got.DueDate)
	assert.Equal(t, domain.StatusDone, got.Status)
}

func TestEditCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		wantErr error
		args    []string
	}{
		{name: "no fields", args: []string{}, wantErr: domain.ErrNoFieldsToUpdate},
		{name: "invalid status", args: []string{"--status", "closed"}, wantErr: domain.ErrInvalidStatus},
		{name: "unknown assignee", args: []string{"--assignee", "ghost"}, wantErr: domain.ErrUnknownAgent},
		{name: "empty title", args: []string{"--title", " "}, wantErr: domain.ErrEmptyTitle},
		{name: "bad deliverable", args: []string{"--deliverable", "notes.txt"}, wantErr: domain.ErrInvalidDeliverable},
		{name: "bad pull request", args: []string{"--pr", "https://gitlab.com/a/b/-/merge_requests/1"}, wantErr: domain.ErrInvalidPullRequestURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestContainer(t)
			task := env.createTask(t, "Launch post")

			_, err := run(t, newEditCommand(env.container), append([]string{task.ID}, tt.args...)...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// =============================================================================
// Rm Command Tests
// =============================================================================

func TestRmCommand_ReleasesAgent(t *testing.T) {
	env := newTestContainer(t)
	task := env.createTask(t, "Launch post")
	_, err := run(t, newPickCommand(env.container), task.ID, "--as", "writer")
	require.NoError(t, err)

	out, err := run(t, newRmCommand(env.container), task.ID)

	require.NoError(t, err)
	assert.Contains(t, out, "Deleted task t-1")
	assert.Contains(t, out, "Released agents: writer")

	_, err = env.tasks.Get(task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	agent, err := env.agents.Get("writer")
	require.NoError(t, err)
	assert.Equal(t, domain.AgentActive, agent.Status)
	assert.Nil(t, agent.CurrentTask)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		want string
		d    time.Duration
	}{
		{"0s", -time.Second},
		{"42s", 42 * time.Second},
		{"5m", 5*time.Minute + 10*time.Second},
		{"3h", 3 * time.Hour},
		{"2d", 50 * time.Hour},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}
