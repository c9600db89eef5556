package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/mission-control/internal/domain"
	"github.com/runoshun/mission-control/internal/testutil"
)

func TestAgentsCommand(t *testing.T) {
	env := newTestContainer(t)
	task := env.createTask(t, "Fix login")
	_, err := run(t, newPickCommand(env.container), task.ID, "--as", "dev")
	require.NoError(t, err)

	out, err := run(t, newAgentsCommand(env.container))

	require.NoError(t, err)
	assert.Contains(t, out, "LAST SEEN")
	for _, def := range domain.DefaultAgents() {
		assert.Contains(t, out, def.ID)
	}
	assert.Contains(t, out, "working")
	assert.Contains(t, out, "t-1")
}

func TestAgentStatusCommand(t *testing.T) {
	env := newTestContainer(t)
	task := env.createTask(t, "Fix login")

	out, err := run(t, newAgentCommand(env.container), "status", "DEV", "working", "--task", task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Agent dev is working")

	agent, err := env.agents.Get("dev")
	require.NoError(t, err)
	assert.Equal(t, domain.AgentWorking, agent.Status)
	assert.Equal(t, task.ID, agent.CurrentTaskID())

	_, err = run(t, newAgentCommand(env.container), "status", "dev", "offline", "--clear-task")
	require.NoError(t, err)

	agent, err = env.agents.Get("dev")
	require.NoError(t, err)
	assert.Equal(t, domain.AgentOffline, agent.Status)
	assert.Nil(t, agent.CurrentTask)
}

func TestAgentStatusCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		wantErr error
		args    []string
	}{
		{name: "unknown agent", args: []string{"status", "ghost", "idle"}, wantErr: domain.ErrUnknownAgent},
		{name: "invalid status", args: []string{"status", "dev", "asleep"}, wantErr: domain.ErrInvalidAgentStatus},
		{name: "unknown task", args: []string{"status", "dev", "working", "--task", "nope"}, wantErr: domain.ErrTaskNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestContainer(t)
			_, err := run(t, newAgentCommand(env.container), tt.args...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	env := newTestContainer(t)
	_, err := run(t, newAgentCommand(env.container), "status", "dev", "idle", "--task", "x", "--clear-task")
	assert.Error(t, err)
}

func TestMineCommand(t *testing.T) {
	env := newTestContainer(t)
	low := env.createTask(t, "Low task")
	urgent := env.createTask(t, "Urgent task")
	env.createTask(t, "Someone else's task")
	_, err := env.tasks.Update(low.ID, domain.TaskPatch{
		Assignee: domain.Some(testutil.Ptr("dev")),
		Priority: domain.Some(domain.PriorityLow),
	})
	require.NoError(t, err)
	_, err = env.tasks.Update(urgent.ID, domain.TaskPatch{
		Assignee: domain.Some(testutil.Ptr("dev")),
		Priority: domain.Some(domain.PriorityUrgent),
	})
	require.NoError(t, err)
	_, err = run(t, newCommentCommand(env.container), low.ID, "@dev ping", "--as", "lead")
	require.NoError(t, err)

	out, err := run(t, newMineCommand(env.container), "--as", "dev")

	require.NoError(t, err)
	assert.Contains(t, out, "Dev (active)")
	assert.Contains(t, out, "Unread mentions: 1")
	assert.Contains(t, out, "Urgent task")
	assert.Contains(t, out, "Low task")
	assert.NotContains(t, out, "Someone else's task")
	assert.Less(t, strings.Index(out, "Urgent task"), strings.Index(out, "Low task"))
}

func TestMineCommand_EmptyQueue(t *testing.T) {
	env := newTestContainer(t)

	out, err := run(t, newMineCommand(env.container), "--as", "ux")
	require.NoError(t, err)
	assert.Contains(t, out, "No assigned tasks")
}

func TestResolveAgent_RosterErrorFallsBack(t *testing.T) {
	env := newTestContainer(t)
	env.container.Roster = &testutil.MockRosterProvider{Err: errors.New("broken config")}

	id, err := resolveAgent(env.container, " Lead ")

	require.NoError(t, err)
	assert.Equal(t, "lead", id)
	assert.Equal(t, 1, env.logger.Count("WARN"))
}
