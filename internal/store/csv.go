package store

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/calvinalkan/task-manager/internal/task"
)

// utf8BOM is stripped from the first header cell; spreadsheet tools add it.
const utf8BOM = "\ufeff"

// decode reads a whole CSV document. An empty document has no tasks.
func decode(r io.Reader) ([]task.Task, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // column count is checked per row for better errors

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrCorruptRow, err)
	}

	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	if !slices.Equal(header, task.Columns) {
		return nil, fmt.Errorf("%w: header is %q, want %q", ErrCorruptRow, strings.Join(header, ","), strings.Join(task.Columns, ","))
	}

	var (
		tasks []task.Task
		seen  = make(map[int]bool)
	)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptRow, err)
		}

		line, _ := reader.FieldPos(0)

		t, err := decodeRecord(record)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrCorruptRow, line, err)
		}

		if seen[t.ID] {
			return nil, fmt.Errorf("%w: line %d: duplicate id %d", ErrCorruptRow, line, t.ID)
		}

		seen[t.ID] = true

		tasks = append(tasks, t)
	}

	return tasks, nil
}

var (
	errColumnCount = errors.New("wrong number of columns")
	errBadID       = errors.New("id must be a positive integer")
	errBadDate     = errors.New("due_date must be YYYY-MM-DD")
	errBadPriority = errors.New("priority must be High, Medium or Low")
	errBadStatus   = errors.New("status must be True or False")
	errBlankField  = errors.New("blank mandatory field")
)

// decodeRecord parses one row. Stored rows are trusted to be normalized, so
// values are checked exactly; due dates in the past are fine.
func decodeRecord(record []string) (task.Task, error) {
	if len(record) != len(task.Columns) {
		return task.Task{}, fmt.Errorf("%w: got %d, want %d", errColumnCount, len(record), len(task.Columns))
	}

	id, err := strconv.Atoi(record[0])
	if err != nil || id <= 0 {
		return task.Task{}, fmt.Errorf("%w: %q", errBadID, record[0])
	}

	due, err := task.ParseDate(record[4])
	if err != nil {
		return task.Task{}, fmt.Errorf("%w: %q", errBadDate, record[4])
	}

	switch record[5] {
	case task.PriorityHigh, task.PriorityMedium, task.PriorityLow:
	default:
		return task.Task{}, fmt.Errorf("%w: %q", errBadPriority, record[5])
	}

	if record[6] != task.StatusTrue && record[6] != task.StatusFalse {
		return task.Task{}, fmt.Errorf("%w: %q", errBadStatus, record[6])
	}

	if strings.TrimSpace(record[1]) == "" {
		return task.Task{}, fmt.Errorf("%w: %s", errBlankField, task.FieldTitle)
	}

	if strings.TrimSpace(record[3]) == "" {
		return task.Task{}, fmt.Errorf("%w: %s", errBlankField, task.FieldCategory)
	}

	return task.Task{
		ID:          id,
		Title:       record[1],
		Description: record[2],
		Category:    record[3],
		DueDate:     due,
		Priority:    record[5],
		Status:      record[6],
	}, nil
}

// encode writes tasks as a CSV document. withHeader controls the header row;
// Append leaves it out for files that already have one.
func encode(tasks []task.Task, withHeader bool) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)

	if withHeader {
		if err := w.Write(task.Columns); err != nil {
			return nil, err
		}
	}

	for _, t := range tasks {
		if err := w.Write(t.Record()); err != nil {
			return nil, err
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
