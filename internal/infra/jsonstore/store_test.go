package jsonstore

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/mission-control/internal/domain"
)

func newTestStore(t *testing.T, opts ...Option) (*Store[domain.Task], string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	return New[domain.Task](path, opts...), path
}

func sampleTasks() []domain.Task {
	created := time.Date(2025, 1, 2, 3, 4, 5, 600, time.UTC)
	due := created.Add(48 * time.Hour)
	dev := "dev"
	return []domain.Task{
		{
			ID:          "t-1",
			Title:       "Write launch post",
			Description: "Draft and publish",
			Status:      domain.StatusInProgress,
			Priority:    domain.PriorityHigh,
			Assignee:    &dev,
			CreatedBy:   "lead",
			CreatedAt:   created,
			UpdatedAt:   created.Add(time.Minute),
			DueDate:     &due,
			Tags:        []string{"blog", "launch"},
			Comments: []domain.Comment{
				{ID: "c-1", Author: "lead", Content: "@dev go", CreatedAt: created},
			},
			WorkLog: []domain.WorkLogEntry{
				{ID: "w-1", Agent: "dev", Action: domain.ActionPicked, Note: "dev picked up this task", CreatedAt: created},
			},
			Deliverables: []string{"docs/post.md"},
			PullRequests: []string{"https://github.com/acme/site/pull/7"},
		},
		{
			ID:          "t-2",
			Title:       "Backlog item",
			Description: "Later",
			Status:      domain.StatusBacklog,
			Priority:    domain.PriorityLow,
			CreatedBy:   "ux",
			CreatedAt:   created,
			UpdatedAt:   created,
			Tags:        []string{},
			Comments:    []domain.Comment{},
			WorkLog:     []domain.WorkLogEntry{},
			// Empty and nil lists must both survive a round trip as written
			Deliverables: []string{},
			PullRequests: nil,
		},
	}
}

func TestStore_ReadAll_MissingFile(t *testing.T) {
	store, _ := newTestStore(t)

	got, err := store.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestStore_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	want := sampleTasks()

	require.NoError(t, store.WriteAll(want))

	got, err := store.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_WriteAll_ReplacesWholeCollection(t *testing.T) {
	store, _ := newTestStore(t)
	tasks := sampleTasks()

	require.NoError(t, store.WriteAll(tasks))
	require.NoError(t, store.WriteAll(tasks[1:]))

	got, err := store.ReadAll()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t-2", got[0].ID)
}

func TestStore_WriteAll_LeavesNoTempFiles(t *testing.T) {
	store, path := newTestStore(t)

	require.NoError(t, store.WriteAll(sampleTasks()))
	require.NoError(t, store.WriteAll(sampleTasks()))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tasks.json", entries[0].Name())
}

func TestStore_WriteAll_NilWritesEmptyArray(t *testing.T) {
	store, path := newTestStore(t)

	require.NoError(t, store.WriteAll(nil))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(content))
}

func TestStore_WriteAll_RenameFailure(t *testing.T) {
	dir := t.TempDir()
	// The target is a non-empty directory, so the final rename must fail.
	path := filepath.Join(dir, "tasks.json")
	require.NoError(t, os.MkdirAll(filepath.Join(path, "blocker"), 0o750))
	store := New[domain.Task](path)

	err := store.WriteAll(sampleTasks())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorageIO)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".tmp."), "temp file left behind: %s", e.Name())
	}
}

func TestStore_WriteAll_MarshalFailureKeepsPreviousState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	store := New[float64](path)
	require.NoError(t, store.WriteAll([]float64{1, 2.5}))

	err := store.WriteAll([]float64{math.NaN()})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorageIO)

	got, err := store.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5}, got)
}

func TestStore_WriteAll_UnwritableDirKeepsPreviousState(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for this user")
	}
	store, path := newTestStore(t)
	want := sampleTasks()
	require.NoError(t, store.WriteAll(want))

	dir := filepath.Dir(path)
	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

	err := store.WriteAll(want[1:])
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorageIO)

	got, err := store.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_ReadAll_CorruptContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"truncated JSON", `[{"id": "t-1", "title": "half`},
		{"wrong shape", `{"tasks": {}}`},
		{"garbage", `not json at all`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int
			var gotQuarantine string
			var gotErr error
			store, path := newTestStore(t, WithCorruptHandler(func(_, quarantine string, err error) {
				calls++
				gotQuarantine = quarantine
				gotErr = err
			}))
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			got, err := store.ReadAll()
			require.NoError(t, err)
			assert.Empty(t, got)

			require.Equal(t, 1, calls)
			assert.ErrorIs(t, gotErr, domain.ErrStorageCorrupt)
			require.NotEmpty(t, gotQuarantine)
			saved, err := os.ReadFile(gotQuarantine)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(saved))

			// Reading the same content again does not copy it a second time
			_, err = store.ReadAll()
			require.NoError(t, err)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestStore_ReadAll_KeepsDecodableRecords(t *testing.T) {
	var calls int
	var gotQuarantine string
	var gotErr error
	store, path := newTestStore(t, WithCorruptHandler(func(_, quarantine string, err error) {
		calls++
		gotQuarantine = quarantine
		gotErr = err
	}))
	tasks := sampleTasks()
	first, err := json.Marshal(tasks[0])
	require.NoError(t, err)
	second, err := json.Marshal(tasks[1])
	require.NoError(t, err)
	content := "[" + string(first) + `, {"id": 7, "title": ["x"]}, null, "stray", ` + string(second) + "]"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	got, err := store.ReadAll()

	require.NoError(t, err)
	assert.Equal(t, tasks, got)
	require.Equal(t, 1, calls)
	assert.ErrorIs(t, gotErr, domain.ErrStorageCorrupt)
	assert.Contains(t, gotErr.Error(), "dropped 3 of 5 records")
	saved, err := os.ReadFile(gotQuarantine)
	require.NoError(t, err)
	assert.Equal(t, content, string(saved))

	// Writing back persists only the salvaged records
	require.NoError(t, store.WriteAll(got))
	got, err = store.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, tasks, got)
	assert.Equal(t, 1, calls)
}

func TestStore_ReadAll_EmptyArray(t *testing.T) {
	called := false
	store, path := newTestStore(t, WithCorruptHandler(func(_, _ string, _ error) {
		called = true
	}))
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o600))

	got, err := store.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
	assert.False(t, called)
}

func TestStore_ReadAll_EmptyFile(t *testing.T) {
	called := false
	store, path := newTestStore(t, WithCorruptHandler(func(_, _ string, _ error) {
		called = true
	}))
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	got, err := store.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, called)
}

func TestStore_WriteAfterCorruptRecovers(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o600))

	got, err := store.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, store.WriteAll(sampleTasks()))
	got, err = store.ReadAll()
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestStore_Initialize(t *testing.T) {
	store, path := newTestStore(t)
	assert.False(t, store.IsInitialized())

	require.NoError(t, store.Initialize())
	assert.True(t, store.IsInitialized())

	// Initialize again should be idempotent and keep existing data
	require.NoError(t, store.WriteAll(sampleTasks()))
	require.NoError(t, store.Initialize())

	got, err := store.ReadAll()
	require.NoError(t, err)
	assert.Len(t, got, 2)
	_, err = os.Stat(path)
	require.NoError(t, err)
}
