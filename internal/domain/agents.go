package domain

import (
	"regexp"
	"strings"
	"time"
)

// Agent is the mutable record of a roster member.
// Fields are ordered to minimize memory padding.
type Agent struct {
	LastSeen    time.Time   `json:"lastSeen" yaml:"lastSeen"`
	CurrentTask *string     `json:"currentTask" yaml:"currentTask"` // Task ID (nil = not engaged)
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Emoji       string      `json:"emoji" yaml:"emoji"`
	Role        string      `json:"role" yaml:"role"`
	Focus       string      `json:"focus" yaml:"focus"`
	Status      AgentStatus `json:"status" yaml:"status"`
}

// CurrentTaskID returns the current task or "" when not engaged.
func (a *Agent) CurrentTaskID() string {
	if a.CurrentTask == nil {
		return ""
	}
	return *a.CurrentTask
}

// AgentPatch is a partial agent update. Nil fields are left unchanged;
// ClearCurrentTask sets CurrentTask to nil.
type AgentPatch struct {
	Status           *AgentStatus
	CurrentTask      *string
	ClearCurrentTask bool
}

// Apply writes the patch onto a and refreshes LastSeen.
func (p AgentPatch) Apply(a *Agent, now time.Time) {
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.ClearCurrentTask {
		a.CurrentTask = nil
	} else if p.CurrentTask != nil {
		id := *p.CurrentTask
		a.CurrentTask = &id
	}
	a.LastSeen = now
}

// AgentDefinition is one roster entry supplied by configuration.
type AgentDefinition struct {
	ID    string `toml:"id" json:"id"`
	Name  string `toml:"name" json:"name"`
	Emoji string `toml:"emoji" json:"emoji"`
	Role  string `toml:"role" json:"role"`
	Focus string `toml:"focus" json:"focus"`
}

// NewAgent builds the seeded record for a roster entry.
func (d AgentDefinition) NewAgent(now time.Time) Agent {
	return Agent{
		ID:       d.ID,
		Name:     d.Name,
		Emoji:    d.Emoji,
		Role:     d.Role,
		Focus:    d.Focus,
		Status:   AgentActive,
		LastSeen: now,
	}
}

var agentIDPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// NormalizeAgentID trims and lower-cases an agent identity.
func NormalizeAgentID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Roster is the configured list of valid agents.
type Roster struct {
	Agents []AgentDefinition
}

// NewRoster normalizes defs: fields are trimmed, ids lower-cased, entries
// with a missing field or a malformed id are dropped, and duplicate ids keep
// the first entry. An empty result falls back to DefaultAgents.
func NewRoster(defs []AgentDefinition) *Roster {
	seen := make(map[string]struct{})
	var agents []AgentDefinition
	for _, d := range defs {
		d = AgentDefinition{
			ID:    NormalizeAgentID(d.ID),
			Name:  strings.TrimSpace(d.Name),
			Emoji: strings.TrimSpace(d.Emoji),
			Role:  strings.TrimSpace(d.Role),
			Focus: strings.TrimSpace(d.Focus),
		}
		if d.ID == "" || d.Name == "" || d.Emoji == "" || d.Role == "" || d.Focus == "" {
			continue
		}
		if !agentIDPattern.MatchString(d.ID) {
			continue
		}
		if _, ok := seen[d.ID]; ok {
			continue
		}
		seen[d.ID] = struct{}{}
		agents = append(agents, d)
	}
	if len(agents) == 0 {
		agents = DefaultAgents()
	}
	return &Roster{Agents: agents}
}

// IDs returns the agent ids in roster order.
func (r *Roster) IDs() []string {
	ids := make([]string, len(r.Agents))
	for i, a := range r.Agents {
		ids[i] = a.ID
	}
	return ids
}

// Lookup returns the definition for id.
func (r *Roster) Lookup(id string) (AgentDefinition, bool) {
	for _, a := range r.Agents {
		if a.ID == id {
			return a, true
		}
	}
	return AgentDefinition{}, false
}

// Contains reports whether id is a roster member.
func (r *Roster) Contains(id string) bool {
	_, ok := r.Lookup(id)
	return ok
}

// Resolve normalizes id and checks roster membership.
func (r *Roster) Resolve(id string) (string, error) {
	id = NormalizeAgentID(id)
	if id == "" {
		return "", ErrEmptyAgent
	}
	if !r.Contains(id) {
		return "", ErrUnknownAgent
	}
	return id, nil
}

// DefaultAgents returns the built-in roster.
func DefaultAgents() []AgentDefinition {
	return []AgentDefinition{
		{ID: "lead", Name: "Lead", Emoji: "🎯", Role: "Team Lead", Focus: "Strategy, task assignment"},
		{ID: "writer", Name: "Writer", Emoji: "✍️", Role: "Content", Focus: "Blog posts, documentation"},
		{ID: "growth", Name: "Growth", Emoji: "🚀", Role: "Marketing", Focus: "SEO, campaigns"},
		{ID: "dev", Name: "Dev", Emoji: "💻", Role: "Engineering", Focus: "Features, bugs, code"},
		{ID: "ux", Name: "UX", Emoji: "🎨", Role: "Product", Focus: "Design, activation"},
		{ID: "data", Name: "Data", Emoji: "📊", Role: "Analytics", Focus: "Metrics, reporting"},
	}
}
