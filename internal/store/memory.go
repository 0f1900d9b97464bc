package store

import (
	"slices"
	"sync"

	"github.com/calvinalkan/task-manager/internal/task"
)

// Memory is an in-process [Store] for tests.
type Memory struct {
	lock sync.RWMutex // Update / View

	mu    sync.Mutex
	tasks []task.Task

	// ReplaceErr, when set, is returned by ReplaceAll without changing
	// anything.
	ReplaceErr error
}

// NewMemory returns a store holding a copy of tasks.
func NewMemory(tasks ...task.Task) *Memory {
	return &Memory{tasks: slices.Clone(tasks)}
}

// LoadAll implements [Store].
func (m *Memory) LoadAll() ([]task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.tasks), nil
}

// Append implements [Store].
func (m *Memory) Append(t task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tasks = append(m.tasks, t)

	return nil
}

// ReplaceAll implements [Store].
func (m *Memory) ReplaceAll(tasks []task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ReplaceErr != nil {
		return m.ReplaceErr
	}

	m.tasks = slices.Clone(tasks)

	return nil
}

// CurrentRowCount implements [Store].
func (m *Memory) CurrentRowCount() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.tasks), nil
}

// NextID implements [Store].
func (m *Memory) NextID() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return task.MaxID(m.tasks) + 1, nil
}

// Update implements [Store].
func (m *Memory) Update(fn func() error) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	return fn()
}

// View implements [Store].
func (m *Memory) View(fn func() error) error {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return fn()
}

var _ Store = (*Memory)(nil)
