package task

import (
	"strings"
	"time"
)

// Required-field validators, used when a task is created. A blank value is an
// error everywhere except for the description, which falls back to
// [DefaultDescription].

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidateTitle rejects a blank title.
func ValidateTitle(s string) (string, error) {
	if isBlank(s) {
		return "", fieldErr(FieldTitle, ErrMissingField, "The title is mandatory")
	}

	return s, nil
}

// ValidateDescription returns s, or [DefaultDescription] if s is blank.
func ValidateDescription(s string) string {
	if isBlank(s) {
		return DefaultDescription
	}

	return s
}

// ValidateCategory rejects a blank category.
func ValidateCategory(s string) (string, error) {
	if isBlank(s) {
		return "", fieldErr(FieldCategory, ErrMissingField, "The category is mandatory")
	}

	return s, nil
}

// ValidateDueDate parses s as YYYY-MM-DD and rejects dates before today.
// Today itself is accepted.
func ValidateDueDate(s string, today time.Time) (time.Time, error) {
	if isBlank(s) {
		return time.Time{}, fieldErr(FieldDueDate, ErrMissingField, "The due date is mandatory")
	}

	due, err := ParseDate(s)
	if err != nil {
		return time.Time{}, fieldErr(FieldDueDate, ErrMalformedDate, "Input should be a valid date in the format YYYY-MM-DD, got "+quote(s))
	}

	if due.Before(Date(today)) {
		return time.Time{}, fieldErr(FieldDueDate, ErrPastDate, "Due date must be in the future or present")
	}

	return due, nil
}

// ValidatePriority accepts high, medium or low in any case and returns the
// title-cased value.
func ValidatePriority(s string) (string, error) {
	if isBlank(s) {
		return "", fieldErr(FieldPriority, ErrMissingField, "The priority is mandatory")
	}

	switch strings.ToLower(s) {
	case "high":
		return PriorityHigh, nil
	case "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	}

	return "", fieldErr(FieldPriority, ErrInvalidEnum, "Priority must be 'High', 'Medium', or 'Low', got "+quote(s))
}

// ValidateStatus accepts exactly "True" or "False".
func ValidateStatus(s string) (string, error) {
	if isBlank(s) {
		return "", fieldErr(FieldStatus, ErrMissingField, "The status is mandatory")
	}

	if s != StatusTrue && s != StatusFalse {
		return "", fieldErr(FieldStatus, ErrInvalidEnum, "Status must be 'True' or 'False', got "+quote(s))
	}

	return s, nil
}

// ParseDate parses a YYYY-MM-DD date into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// Optional-patch validators, used when a task is edited. Each returns nil for
// an omitted value (empty string) so the stored value stays untouched. A value
// made only of whitespace was supplied on purpose and is rejected.

func omitted(field, s string) (bool, error) {
	if s == "" {
		return true, nil
	}

	if isBlank(s) {
		return false, fieldErr(field, ErrMissingField, "Value must not be blank")
	}

	return false, nil
}

// PatchTitle validates an optional title.
func PatchTitle(s string) (*string, error) {
	return patchText(FieldTitle, s)
}

// PatchDescription validates an optional description.
func PatchDescription(s string) (*string, error) {
	return patchText(FieldDescription, s)
}

// PatchCategory validates an optional category.
func PatchCategory(s string) (*string, error) {
	return patchText(FieldCategory, s)
}

func patchText(field, s string) (*string, error) {
	skip, err := omitted(field, s)
	if skip || err != nil {
		return nil, err
	}

	return &s, nil
}

// PatchDueDate validates an optional due date against today.
func PatchDueDate(s string, today time.Time) (*time.Time, error) {
	skip, err := omitted(FieldDueDate, s)
	if skip || err != nil {
		return nil, err
	}

	due, err := ValidateDueDate(s, today)
	if err != nil {
		return nil, err
	}

	return &due, nil
}

// PatchPriority validates an optional priority.
func PatchPriority(s string) (*string, error) {
	skip, err := omitted(FieldPriority, s)
	if skip || err != nil {
		return nil, err
	}

	p, err := ValidatePriority(s)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// PatchStatus validates an optional status.
func PatchStatus(s string) (*string, error) {
	skip, err := omitted(FieldStatus, s)
	if skip || err != nil {
		return nil, err
	}

	st, err := ValidateStatus(s)
	if err != nil {
		return nil, err
	}

	return &st, nil
}

func quote(s string) string {
	return "'" + s + "'"
}
