// Package task holds the task record, its field validators, and the query
// functions used by the list, remove and search commands.
package task

import (
	"strconv"
	"time"
)

// Priority values, stored title-cased.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Status values. Status is a boolean encoded as text; case is significant.
const (
	StatusTrue  = "True"
	StatusFalse = "False"
)

// DefaultDescription replaces a blank description.
const DefaultDescription = "Not specified"

// DateLayout is the on-disk and command-line format of due dates.
const DateLayout = "2006-01-02"

// Field names, in column order.
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldDueDate     = "due_date"
	FieldPriority    = "priority"
	FieldStatus      = "status"
)

// Columns is the header row of the backing file.
var Columns = []string{
	FieldID, FieldTitle, FieldDescription, FieldCategory,
	FieldDueDate, FieldPriority, FieldStatus,
}

// Task is one persisted work item.
type Task struct {
	ID          int
	Title       string
	Description string
	Category    string
	DueDate     time.Time // civil date at midnight UTC
	Priority    string
	Status      string
}

// Record returns the task as a row of strings in [Columns] order.
func (t Task) Record() []string {
	return []string{
		strconv.Itoa(t.ID),
		t.Title,
		t.Description,
		t.Category,
		t.DueDate.Format(DateLayout),
		t.Priority,
		t.Status,
	}
}

// Fields holds raw, unvalidated field input as typed on the command line.
// An empty string means the field was not supplied.
type Fields struct {
	Title       string
	Description string
	Category    string
	DueDate     string
	Priority    string
	Status      string
}

// IDSource hands out the id for a new task.
type IDSource interface {
	NextID() (int, error)
}

// Date truncates t to its calendar date in t's location and returns that
// date at midnight UTC, so dates compare independent of time zone.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Find returns the index of the task with the given id, or -1.
// Tasks are matched by their ID field, never by position.
func Find(tasks []Task, id int) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}

	return -1
}

// MaxID returns the largest id in tasks, or 0 for none.
func MaxID(tasks []Task) int {
	highest := 0
	for _, t := range tasks {
		highest = max(highest, t.ID)
	}

	return highest
}
