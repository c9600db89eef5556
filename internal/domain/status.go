package domain

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusBacklog    Status = "backlog"     // Created, not yet scheduled
	StatusTodo       Status = "todo"        // Scheduled, awaiting an agent
	StatusInProgress Status = "in_progress" // Picked by an agent
	StatusReview     Status = "review"      // Completed by an agent, awaiting acceptance
	StatusDone       Status = "done"        // Accepted
)

// AllStatuses returns all valid status values in board order.
func AllStatuses() []Status {
	return []Status{
		StatusBacklog,
		StatusTodo,
		StatusInProgress,
		StatusReview,
		StatusDone,
	}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	switch s {
	case StatusBacklog, StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	default:
		return false
	}
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusBacklog:
		return "Backlog"
	case StatusTodo:
		return "Todo"
	case StatusInProgress:
		return "In Progress"
	case StatusReview:
		return "Review"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// Priority represents the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// AllPriorities returns all valid priorities from lowest to highest.
func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

// IsValid returns true if the priority is a known valid value.
func (p Priority) IsValid() bool {
	return p.Rank() > 0
}

// Rank returns the ordering weight of the priority (urgent=4 ... low=1).
// Unknown priorities rank 0 and sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// AgentStatus represents the presence of an agent.
type AgentStatus string

const (
	AgentActive  AgentStatus = "active"  // Available for work
	AgentWorking AgentStatus = "working" // Engaged on currentTask
	AgentIdle    AgentStatus = "idle"
	AgentOffline AgentStatus = "offline"
)

// IsValid returns true if the agent status is a known valid value.
func (s AgentStatus) IsValid() bool {
	switch s {
	case AgentActive, AgentWorking, AgentIdle, AgentOffline:
		return true
	default:
		return false
	}
}

// WorkLogAction is the kind of a work-log entry.
type WorkLogAction string

const (
	ActionPicked    WorkLogAction = "picked"
	ActionProgress  WorkLogAction = "progress"
	ActionBlocked   WorkLogAction = "blocked"
	ActionCompleted WorkLogAction = "completed"
	ActionDropped   WorkLogAction = "dropped"
)

// IsValid returns true if the action is a known valid value.
func (a WorkLogAction) IsValid() bool {
	switch a {
	case ActionPicked, ActionProgress, ActionBlocked, ActionCompleted, ActionDropped:
		return true
	default:
		return false
	}
}

// IsLoggable returns true if the action may be recorded through a plain work log call.
// The remaining actions are only written by the workflow transitions.
func (a WorkLogAction) IsLoggable() bool {
	return a == ActionProgress || a == ActionBlocked
}
