// Package store persists tasks in a single CSV file.
//
// The file has a header row followed by one row per task:
//
//	id,title,description,category,due_date,priority,status
//	1,Task 1,Description 1,Work,2030-12-05,High,True
//
// Rows are addressed by their id column, never by position. Appends add one
// row to the end of the file; every other mutation rewrites the whole file
// through a temp file that is atomically renamed over the original.
package store

import (
	"errors"

	"github.com/calvinalkan/task-manager/internal/task"
)

var (
	// ErrCorruptRow reports a row (or header) that cannot be parsed back into
	// a task.
	ErrCorruptRow = errors.New("corrupt row")

	// ErrIOFailure wraps filesystem failures: permission denied, disk full,
	// lock timeouts.
	ErrIOFailure = errors.New("i/o failure")
)

// Store is a mapping from task id to task backed by one tabular file.
//
// Callers wrap read-modify-write sequences in [Store.Update] and reads in
// [Store.View]; the individual methods do not lock.
type Store interface {
	// LoadAll returns every task in file order. A missing or empty file
	// yields no tasks.
	LoadAll() ([]task.Task, error)

	// Append adds one task to the end of the store without rewriting
	// existing rows.
	Append(t task.Task) error

	// ReplaceAll atomically replaces the whole store with tasks.
	ReplaceAll(tasks []task.Task) error

	// CurrentRowCount returns the number of stored tasks.
	CurrentRowCount() (int, error)

	// NextID returns the id for a new task: one more than the largest
	// stored id, or 1 for an empty store.
	NextID() (int, error)

	// Update runs fn while holding the store's exclusive lock.
	Update(fn func() error) error

	// View runs fn while holding the store's shared lock.
	View(fn func() error) error
}
