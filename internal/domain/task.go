// Package domain contains core business entities and interfaces.
package domain

import (
	"strings"
	"time"
)

// Task represents a unit of work on the board.
// Fields are ordered to minimize memory padding.
type Task struct {
	CreatedAt    time.Time      `json:"createdAt" yaml:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt" yaml:"updatedAt"`
	DueDate      *time.Time     `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	Assignee     *string        `json:"assignee" yaml:"assignee"` // Agent ID (nil = unassigned)
	ID           string         `json:"id" yaml:"id"`
	Title        string         `json:"title" yaml:"title"`
	Description  string         `json:"description" yaml:"description"`
	Status       Status         `json:"status" yaml:"status"`
	Priority     Priority       `json:"priority" yaml:"priority"`
	CreatedBy    string         `json:"createdBy" yaml:"createdBy"` // Not validated against the roster
	Tags         []string       `json:"tags" yaml:"tags"`
	Comments     []Comment      `json:"comments" yaml:"comments"`
	WorkLog      []WorkLogEntry `json:"workLog" yaml:"workLog"`
	Deliverables []string       `json:"deliverables" yaml:"deliverables,omitempty"`
	PullRequests []string       `json:"pullRequests" yaml:"pullRequests,omitempty"`

	// Legacy single-value fields. Only ever read; Normalize folds them into
	// Deliverables/PullRequests and clears them so they are not written back.
	LegacyDeliverable string `json:"deliverable,omitempty" yaml:"deliverable,omitempty"`
	LegacyPullRequest string `json:"pullRequest,omitempty" yaml:"pullRequest,omitempty"`
}

// Comment is a free-text note attached to a task.
// Fields are ordered to minimize memory padding.
type Comment struct {
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	ID        string    `json:"id" yaml:"id"`
	Author    string    `json:"author" yaml:"author"`
	Content   string    `json:"content" yaml:"content"`
}

// WorkLogEntry is an immutable audit record of an agent action on a task.
// Fields are ordered to minimize memory padding.
type WorkLogEntry struct {
	CreatedAt time.Time     `json:"createdAt" yaml:"createdAt"`
	ID        string        `json:"id" yaml:"id"`
	Agent     string        `json:"agent" yaml:"agent"`
	Action    WorkLogAction `json:"action" yaml:"action"`
	Note      string        `json:"note" yaml:"note"`
}

// IsAssignedTo returns true if the task's assignee is agentID.
func (t *Task) IsAssignedTo(agentID string) bool {
	return t.Assignee != nil && *t.Assignee == agentID
}

// AssigneeID returns the assignee or "" when unassigned.
func (t *Task) AssigneeID() string {
	if t.Assignee == nil {
		return ""
	}
	return *t.Assignee
}

// Touch advances UpdatedAt to now. If now does not move the clock forward
// (coarse or repeated clock readings), UpdatedAt is bumped by one nanosecond
// so that every mutation strictly increases it.
func (t *Task) Touch(now time.Time) {
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Nanosecond)
	}
	t.UpdatedAt = now
}

// Normalize folds legacy single-value fields into their array forms.
// The single value goes to the front unless already present.
func (t *Task) Normalize() {
	if t.LegacyDeliverable != "" {
		t.Deliverables = MergeUnique([]string{t.LegacyDeliverable}, t.Deliverables)
		t.LegacyDeliverable = ""
	}
	if t.LegacyPullRequest != "" {
		t.PullRequests = MergeUnique([]string{t.LegacyPullRequest}, t.PullRequests)
		t.LegacyPullRequest = ""
	}
}

// MergeUnique concatenates lists in order, trimming whitespace and dropping
// empty values and duplicates (first occurrence wins).
func MergeUnique(lists ...[]string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, v := range list {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// ValidateDeliverables checks that every deliverable path is a markdown file.
func ValidateDeliverables(paths []string) error {
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" || !strings.HasSuffix(p, ".md") {
			return ErrInvalidDeliverable
		}
	}
	return nil
}

// NewTaskInput holds the caller-supplied fields for a new task.
// Status is accepted but ignored: new tasks always start in the backlog.
type NewTaskInput struct {
	DueDate     *time.Time
	Assignee    *string
	Title       string
	Description string
	Status      Status
	Priority    Priority
	CreatedBy   string
	Tags        []string
}

// Validate checks the required fields.
func (in NewTaskInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(in.Description) == "" {
		return ErrEmptyDescription
	}
	if !in.Priority.IsValid() {
		return ErrInvalidPriority
	}
	return nil
}

// Field is an optional patch value. Set distinguishes "absent" from the zero
// value; for pointer types, Set with a nil Value means explicit null.
type Field[T any] struct {
	Value T
	Set   bool
}

// Some returns a set Field holding v.
func Some[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// Null returns a set Field holding a nil pointer.
func Null[T any]() Field[*T] {
	return Field[*T]{Set: true}
}

// TaskPatch is a partial update. Only fields with Set=true are applied.
type TaskPatch struct {
	DueDate      Field[*time.Time]
	Assignee     Field[*string]
	Title        Field[string]
	Description  Field[string]
	Status       Field[Status]
	Priority     Field[Priority]
	Tags         Field[[]string]
	Deliverables Field[[]string]
	PullRequests Field[[]string]
}

// IsEmpty returns true if no field is set.
func (p TaskPatch) IsEmpty() bool {
	return !p.DueDate.Set && !p.Assignee.Set && !p.Title.Set && !p.Description.Set &&
		!p.Status.Set && !p.Priority.Set && !p.Tags.Set && !p.Deliverables.Set && !p.PullRequests.Set
}

// Validate rejects malformed values before anything is mutated.
func (p TaskPatch) Validate() error {
	if p.IsEmpty() {
		return ErrNoFieldsToUpdate
	}
	if p.Title.Set && strings.TrimSpace(p.Title.Value) == "" {
		return ErrEmptyTitle
	}
	if p.Description.Set && strings.TrimSpace(p.Description.Value) == "" {
		return ErrEmptyDescription
	}
	if p.Status.Set && !p.Status.Value.IsValid() {
		return ErrInvalidStatus
	}
	if p.Priority.Set && !p.Priority.Value.IsValid() {
		return ErrInvalidPriority
	}
	if p.Deliverables.Set {
		if err := ValidateDeliverables(p.Deliverables.Value); err != nil {
			return err
		}
	}
	if p.PullRequests.Set {
		if _, err := NormalizePullRequests("", p.PullRequests.Value); err != nil {
			return err
		}
	}
	return nil
}

// Apply writes the set fields onto t. It does not touch UpdatedAt.
func (p TaskPatch) Apply(t *Task) {
	if p.Title.Set {
		t.Title = p.Title.Value
	}
	if p.Description.Set {
		t.Description = p.Description.Value
	}
	if p.Status.Set {
		t.Status = p.Status.Value
	}
	if p.Priority.Set {
		t.Priority = p.Priority.Value
	}
	if p.Assignee.Set {
		t.Assignee = p.Assignee.Value
	}
	if p.DueDate.Set {
		t.DueDate = p.DueDate.Value
	}
	if p.Tags.Set {
		t.Tags = p.Tags.Value
	}
	if p.Deliverables.Set {
		t.Deliverables = MergeUnique(p.Deliverables.Value)
	}
	if p.PullRequests.Set {
		t.PullRequests = MergeUnique(p.PullRequests.Value)
	}
}
