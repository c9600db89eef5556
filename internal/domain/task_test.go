package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_Touch(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	task := &Task{UpdatedAt: base}
	task.Touch(base.Add(time.Minute))
	assert.Equal(t, base.Add(time.Minute), task.UpdatedAt)

	// Same or earlier reading still moves forward
	task.Touch(base)
	assert.Equal(t, base.Add(time.Minute+time.Nanosecond), task.UpdatedAt)
}

func TestTask_Normalize(t *testing.T) {
	task := &Task{
		Deliverables:      []string{"b.md"},
		PullRequests:      []string{"https://github.com/a/b/pull/1"},
		LegacyDeliverable: "a.md",
		LegacyPullRequest: "https://github.com/a/b/pull/1",
	}

	task.Normalize()

	assert.Equal(t, []string{"a.md", "b.md"}, task.Deliverables)
	assert.Equal(t, []string{"https://github.com/a/b/pull/1"}, task.PullRequests)
	assert.Empty(t, task.LegacyDeliverable)
	assert.Empty(t, task.LegacyPullRequest)
}

func TestTask_Assignee(t *testing.T) {
	dev := "dev"
	task := &Task{}
	assert.Equal(t, "", task.AssigneeID())
	assert.False(t, task.IsAssignedTo("dev"))

	task.Assignee = &dev
	assert.Equal(t, "dev", task.AssigneeID())
	assert.True(t, task.IsAssignedTo("dev"))
	assert.False(t, task.IsAssignedTo("ux"))
}

func TestMergeUnique(t *testing.T) {
	tests := []struct {
		name  string
		want  []string
		lists [][]string
	}{
		{name: "nil", lists: nil, want: nil},
		{name: "trims and drops empty", lists: [][]string{{" a ", "", "  "}}, want: []string{"a"}},
		{name: "first occurrence wins", lists: [][]string{{"b", "a"}, {"a", "c", "b"}}, want: []string{"b", "a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeUnique(tt.lists...))
		})
	}
}

func TestValidateDeliverables(t *testing.T) {
	assert.NoError(t, ValidateDeliverables(nil))
	assert.NoError(t, ValidateDeliverables([]string{"docs/a.md", " b.md "}))
	assert.ErrorIs(t, ValidateDeliverables([]string{"a.pdf"}), ErrInvalidDeliverable)
	assert.ErrorIs(t, ValidateDeliverables([]string{""}), ErrInvalidDeliverable)
}

func TestNewTaskInput_Validate(t *testing.T) {
	valid := NewTaskInput{Title: "T", Description: "D", Priority: PriorityMedium}

	tests := []struct {
		wantErr error
		mutate  func(*NewTaskInput)
		name    string
	}{
		{name: "valid", mutate: func(*NewTaskInput) {}},
		{name: "blank title", mutate: func(in *NewTaskInput) { in.Title = "  " }, wantErr: ErrEmptyTitle},
		{name: "blank description", mutate: func(in *NewTaskInput) { in.Description = "" }, wantErr: ErrEmptyDescription},
		{name: "bad priority", mutate: func(in *NewTaskInput) { in.Priority = "critical" }, wantErr: ErrInvalidPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestTaskPatch_Validate(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		patch   TaskPatch
	}{
		{name: "empty", patch: TaskPatch{}, wantErr: ErrNoFieldsToUpdate},
		{name: "blank title", patch: TaskPatch{Title: Some(" ")}, wantErr: ErrEmptyTitle},
		{name: "blank description", patch: TaskPatch{Description: Some("")}, wantErr: ErrEmptyDescription},
		{name: "bad status", patch: TaskPatch{Status: Some(Status("closed"))}, wantErr: ErrInvalidStatus},
		{name: "bad priority", patch: TaskPatch{Priority: Some(Priority("p0"))}, wantErr: ErrInvalidPriority},
		{name: "bad deliverable", patch: TaskPatch{Deliverables: Some([]string{"x.txt"})}, wantErr: ErrInvalidDeliverable},
		{name: "bad pull request", patch: TaskPatch{PullRequests: Some([]string{"http://example.com"})}, wantErr: ErrInvalidPullRequestURL},
		{name: "null assignee", patch: TaskPatch{Assignee: Null[string]()}},
		{name: "status", patch: TaskPatch{Status: Some(StatusDone)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTaskPatch_Apply(t *testing.T) {
	dev := "dev"
	due := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	task := &Task{
		Title:    "Old",
		Assignee: &dev,
		DueDate:  &due,
		Tags:     []string{"x"},
		Priority: PriorityLow,
	}
	updated := task.UpdatedAt

	TaskPatch{
		Title:        Some("New"),
		Assignee:     Null[string](),
		Deliverables: Some([]string{"a.md", " a.md "}),
	}.Apply(task)

	assert.Equal(t, "New", task.Title)
	assert.Nil(t, task.Assignee)
	require.NotNil(t, task.DueDate, "unset fields are left alone")
	assert.Equal(t, []string{"x"}, task.Tags)
	assert.Equal(t, PriorityLow, task.Priority)
	assert.Equal(t, []string{"a.md"}, task.Deliverables)
	assert.Equal(t, updated, task.UpdatedAt)

	TaskPatch{DueDate: Null[time.Time]()}.Apply(task)
	assert.Nil(t, task.DueDate)
}
