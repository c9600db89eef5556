package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/mission-control/internal/domain"
)

func TestPickTask_Execute(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, "a", domain.PriorityHigh)
	uc := NewPickTask(f.tasks, f.agents, f.clock, f.ids, f.logger)

	out, err := uc.Execute(context.Background(), PickTaskInput{TaskID: task.ID, AgentID: "dev"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusInProgress, out.Task.Status)
	assert.Equal(t, "dev", out.Task.AssigneeID())
	require.Len(t, out.Task.WorkLog, 1)
	entry := out.Task.WorkLog[0]
	assert.Equal(t, domain.ActionPicked, entry.Action)
	assert.Equal(t, "dev", entry.Agent)
	assert.Equal(t, "dev picked up this task", entry.Note)
	assert.NotEmpty(t, entry.ID)
	assert.Empty(t, out.PreviousAgent)

	dev := f.agent(t, "dev")
	assert.Equal(t, domain.AgentWorking, dev.Status)
	assert.Equal(t, task.ID, dev.CurrentTaskID())
	assert.Equal(t, dev, out.Agent)
}

func TestPickTask_Execute_FromAnyStatus(t *testing.T) {
	for _, status := range domain.AllStatuses() {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			task := f.createTask(t, "a", domain.PriorityLow)
			_, err := f.tasks.Update(task.ID, domain.TaskPatch{Status: domain.Some(status)})
			require.NoError(t, err)

			out, err := NewPickTask(f.tasks, f.agents, f.clock, f.ids, f.logger).
				Execute(context.Background(), PickTaskInput{TaskID: task.ID, AgentID: "ux"})
			require.NoError(t, err)
			assert.Equal(t, domain.StatusInProgress, out.Task.Status)
		})
	}
}

func TestPickTask_Execute_ReassignReleasesPreviousAgent(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, "a", domain.PriorityLow)
	uc := NewPickTask(f.tasks, f.agents, f.clock, f.ids, f.logger)

	_, err := uc.Execute(context.Background(), PickTaskInput{TaskID: task.ID, AgentID: "dev"})
	require.NoError(t, err)
	out, err := uc.Execute(context.Background(), PickTaskInput{TaskID: task.ID, AgentID: "ux"})
	require.NoError(t, err)

	assert.Equal(t, "dev", out.PreviousAgent)
	assert.Equal(t, "ux", out.Task.AssigneeID())
	require.Len(t, out.Task.WorkLog, 2)

	dev := f.agent(t, "dev")
	assert.Nil(t, dev.CurrentTask)
	assert.Equal(t, domain.AgentActive, dev.Status)
	assert.Equal(t, task.ID, f.agent(t, "ux").CurrentTaskID())
}

func TestPickTask_Execute_PreviousAgentMovedOn(t *testing.T) {
	f := newFixture(t)
	first := f.createTask(t, "a", domain.PriorityLow)
	second := f.createTask(t, "b", domain.PriorityLow)
	uc := NewPickTask(f.tasks, f.agents, f.clock, f.ids, f.logger)

	_, err := uc.Execute(context.Background(), PickTaskInput{TaskID: first.ID, AgentID: "dev"})
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), PickTaskInput{TaskID: second.ID, AgentID: "dev"})
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), PickTaskInput{TaskID: first.ID, AgentID: "ux"})
	require.NoError(t, err)

	dev := f.agent(t, "dev")
	assert.Equal(t, second.ID, dev.CurrentTaskID())
	assert.Equal(t, domain.AgentWorking, dev.Status)
}

func TestPickTask_Execute_Repick(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, "a", domain.PriorityLow)
	uc := NewPickTask(f.tasks, f.agents, f.clock, f.ids, f.logger)

	_, err := uc.Execute(context.Background(), PickTaskInput{TaskID: task.ID, AgentID: "dev"})
	require.NoError(t, err)
	out, err := uc.Execute(context.Background(), PickTaskInput{TaskID: task.ID, AgentID: "dev"})
	require.NoError(t, err)

	assert.Empty(t, out.PreviousAgent)
	assert.Len(t, out.Task.WorkLog, 2)
	assert.Equal(t, task.ID, f.agent(t, "dev").CurrentTaskID())
}

func TestPickTask_Execute_AgentWithoutRecord(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, "a", domain.PriorityLow)

	out, err := NewPickTask(f.tasks, f.agents, f.clock, f.ids, f.logger).
		Execute(context.Background(), PickTaskInput{TaskID: task.ID, AgentID: "ghost"})
	require.NoError(t, err)
	assert.Nil(t, out.Agent)
	assert.Equal(t, "ghost", out.Task.AssigneeID())
	assert.Equal(t, 1, f.logger.Count("WARN"))
}

func TestPickTask_Execute_Errors(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, "a", domain.PriorityLow)
	uc := NewPickTask(f.tasks, f.agents, f.clock, f.ids, f.logger)

	_, err := uc.Execute(context.Background(), PickTaskInput{TaskID: "missing", AgentID: "dev"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.Equal(t, domain.AgentActive, f.agent(t, "dev").Status)

	_, err = uc.Execute(context.Background(), PickTaskInput{TaskID: task.ID, AgentID: " "})
	assert.ErrorIs(t, err, domain.ErrEmptyAgent)

	f.agentStore.WriteErr = errors.New("disk full")
	_, err = uc.Execute(context.Background(), PickTaskInput{TaskID: task.ID, AgentID: "dev"})
	assert.ErrorContains(t, err, "disk full")
	// The task write is not rolled back
	assert.Equal(t, domain.StatusInProgress, f.task(t, task.ID).Status)
}
