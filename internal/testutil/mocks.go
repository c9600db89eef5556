// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/runoshun/mission-control/internal/domain"
)

// MockClock is a test double for domain.Clock.
// When Step is non-zero, every call to Now advances NowTime by Step.
type MockClock struct {
	NowTime time.Time
	Step    time.Duration
	mu      sync.Mutex
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.NowTime
	m.NowTime = m.NowTime.Add(m.Step)
	return now
}

// MockIDGenerator is a test double for domain.IDGenerator.
// It returns Prefix-1, Prefix-2, ...
type MockIDGenerator struct {
	Prefix string
	n      int
	mu     sync.Mutex
}

// NewID returns the next sequential id.
func (m *MockIDGenerator) NewID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	prefix := m.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s-%d", prefix, m.n)
}

// MemoryStore is an in-memory domain.RecordStore.
// Fields are ordered to minimize memory padding.
type MemoryStore[T any] struct {
	ReadErr  error
	WriteErr error
	Records  []T
	Writes   int
	mu       sync.Mutex
}

// NewMemoryStore creates a MemoryStore holding records.
func NewMemoryStore[T any](records ...T) *MemoryStore[T] {
	return &MemoryStore[T]{Records: records}
}

// ReadAll returns a copy of the records.
func (m *MemoryStore[T]) ReadAll() ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	return append([]T{}, m.Records...), nil
}

// WriteAll replaces the records unless WriteErr is set.
func (m *MemoryStore[T]) WriteAll(records []T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Records = slices.Clone(records)
	m.Writes++
	return nil
}

// LogEntry is one message captured by MockLogger.
type LogEntry struct {
	Level    string
	TaskID   string
	Category string
	Msg      string
}

// MockLogger is a test double for domain.Logger that records every call.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (m *MockLogger) add(level, taskID, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, TaskID: taskID, Category: category, Msg: msg})
}

// Debug records a debug message.
func (m *MockLogger) Debug(taskID, category, msg string) { m.add("DEBUG", taskID, category, msg) }

// Info records an info message.
func (m *MockLogger) Info(taskID, category, msg string) { m.add("INFO", taskID, category, msg) }

// Warn records a warning message.
func (m *MockLogger) Warn(taskID, category, msg string) { m.add("WARN", taskID, category, msg) }

// Error records an error message.
func (m *MockLogger) Error(taskID, category, msg string) { m.add("ERROR", taskID, category, msg) }

// Count returns the number of entries at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockRosterProvider is a test double for domain.RosterProvider.
type MockRosterProvider struct {
	Err   error
	IDs   []string
	Calls int
}

// Roster returns a roster built from IDs (or the default roster when empty).
func (m *MockRosterProvider) Roster() (*domain.Roster, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.IDs) == 0 {
		return domain.NewRoster(nil), nil
	}
	defs := make([]domain.AgentDefinition, 0, len(m.IDs))
	for _, id := range m.IDs {
		defs = append(defs, domain.AgentDefinition{ID: id, Name: id, Emoji: "*", Role: "role", Focus: "focus"})
	}
	return domain.NewRoster(defs), nil
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// MockConfigManager is a test double for domain.ConfigManager.
type MockConfigManager struct {
	InitErr          error
	Written          *domain.Config
	LocalConfigInfo  domain.ConfigInfo
	GlobalConfigInfo domain.ConfigInfo
	InitLocalCalled  bool
	InitGlobalCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{}
}

// GetLocalConfigInfo returns LocalConfigInfo.
func (m *MockConfigManager) GetLocalConfigInfo() domain.ConfigInfo {
	return m.LocalConfigInfo
}

// GetGlobalConfigInfo returns GlobalConfigInfo.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitLocalConfig records the call and fails like the real manager on existing files.
func (m *MockConfigManager) InitLocalConfig(cfg *domain.Config) (string, error) {
	m.InitLocalCalled = true
	return m.init(m.LocalConfigInfo, cfg)
}

// InitGlobalConfig records the call and fails like the real manager on existing files.
func (m *MockConfigManager) InitGlobalConfig(cfg *domain.Config) (string, error) {
	m.InitGlobalCalled = true
	return m.init(m.GlobalConfigInfo, cfg)
}

func (m *MockConfigManager) init(info domain.ConfigInfo, cfg *domain.Config) (string, error) {
	if m.InitErr != nil {
		return "", m.InitErr
	}
	if info.Exists {
		return "", domain.ErrConfigExists
	}
	m.Written = cfg
	return info.Path, nil
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config *domain.Config
	Err    error
}

// Load returns Config or Err.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Config, nil
}

// LoadGlobal returns Config or Err.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	return m.Load()
}
