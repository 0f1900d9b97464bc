package task

import (
	"errors"
	"fmt"
	"time"
)

// Create validates fields and builds a new task with the next id from ids.
//
// Mandatory fields (everything but the description) are checked for presence
// first; the first blank one is returned as a MissingField error. Type
// validation runs afterwards and reports every failing field, combined with
// [errors.Join].
func Create(fields Fields, ids IDSource, today time.Time) (Task, error) {
	for _, f := range []struct{ name, value string }{
		{FieldTitle, fields.Title},
		{FieldCategory, fields.Category},
		{FieldDueDate, fields.DueDate},
		{FieldPriority, fields.Priority},
		{FieldStatus, fields.Status},
	} {
		if isBlank(f.value) {
			return Task{}, fieldErr(f.name, ErrMissingField, "The "+humanName(f.name)+" is mandatory")
		}
	}

	var (
		errs []error
		t    Task
		err  error
	)

	t.Title, err = ValidateTitle(fields.Title)
	errs = append(errs, err)

	t.Description = ValidateDescription(fields.Description)

	t.Category, err = ValidateCategory(fields.Category)
	errs = append(errs, err)

	t.DueDate, err = ValidateDueDate(fields.DueDate, today)
	errs = append(errs, err)

	t.Priority, err = ValidatePriority(fields.Priority)
	errs = append(errs, err)

	t.Status, err = ValidateStatus(fields.Status)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return Task{}, err
	}

	id, err := ids.NextID()
	if err != nil {
		return Task{}, fmt.Errorf("assigning id: %w", err)
	}

	t.ID = id

	return t, nil
}

// Patch is a partial update of an existing task. Nil fields are left
// untouched when the patch is applied.
type Patch struct {
	ID          int
	Title       *string
	Description *string
	Category    *string
	DueDate     *time.Time
	Priority    *string
	Status      *string
}

// BuildPatch validates an edit request. id must be positive. Omitted fields
// (empty strings) stay nil; whitespace-only values are rejected.
func BuildPatch(id int, fields Fields, today time.Time) (Patch, error) {
	if id <= 0 {
		return Patch{}, fmt.Errorf("%w: %d", ErrInvalidTaskID, id)
	}

	p := Patch{ID: id}

	var (
		errs []error
		err  error
	)

	p.Title, err = PatchTitle(fields.Title)
	errs = append(errs, err)

	p.Description, err = PatchDescription(fields.Description)
	errs = append(errs, err)

	p.Category, err = PatchCategory(fields.Category)
	errs = append(errs, err)

	p.DueDate, err = PatchDueDate(fields.DueDate, today)
	errs = append(errs, err)

	p.Priority, err = PatchPriority(fields.Priority)
	errs = append(errs, err)

	p.Status, err = PatchStatus(fields.Status)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return Patch{}, err
	}

	return p, nil
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil &&
		p.DueDate == nil && p.Priority == nil && p.Status == nil
}

// Apply returns t with the patch's fields applied. The id never changes.
func (p Patch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}

	if p.Description != nil {
		t.Description = *p.Description
	}

	if p.Category != nil {
		t.Category = *p.Category
	}

	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}

	if p.Priority != nil {
		t.Priority = *p.Priority
	}

	if p.Status != nil {
		t.Status = *p.Status
	}

	return t
}

func humanName(field string) string {
	if field == FieldDueDate {
		return "due date"
	}

	return field
}
