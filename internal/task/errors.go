package task

import (
	"errors"
	"fmt"
)

// Validation and lookup errors. These are business outcomes: the CLI reports
// them to the user and exits 0.
var (
	ErrMissingField  = errors.New("missing field")
	ErrMalformedDate = errors.New("malformed date")
	ErrPastDate      = errors.New("date in the past")
	ErrInvalidEnum   = errors.New("invalid value")
	ErrInvalidTaskID = errors.New("invalid task ID")
	ErrNoMatch       = errors.New("no tasks matched")
	ErrNoCriteria    = errors.New("criteria not specified")
)

// FieldError reports a failed validation of a single field.
type FieldError struct {
	Field  string
	Err    error
	Reason string
}

func (e *FieldError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldErr(field string, kind error, reason string) error {
	return &FieldError{Field: field, Err: kind, Reason: reason}
}

var kindNames = []struct {
	err  error
	name string
}{
	{ErrMissingField, "MissingField"},
	{ErrMalformedDate, "MalformedDate"},
	{ErrPastDate, "PastDate"},
	{ErrInvalidEnum, "InvalidEnum"},
	{ErrInvalidTaskID, "InvalidTaskId"},
	{ErrNoMatch, "NoMatch"},
	{ErrNoCriteria, "NoCriteria"},
}

// Kind returns the taxonomy name of err ("MissingField", "PastDate", ...),
// or "" if err is not a validation or lookup error.
func Kind(err error) string {
	for _, k := range kindNames {
		if errors.Is(err, k.err) {
			return k.name
		}
	}

	return ""
}

// IsUserError reports whether err is a validation or lookup failure that
// should be reported to the user rather than treated as fatal.
func IsUserError(err error) bool {
	return Kind(err) != ""
}

// Unjoin flattens an error built with [errors.Join] into its parts.
// A plain error is returned as a single-element slice.
func Unjoin(err error) []error {
	if err == nil {
		return nil
	}

	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}

	var out []error
	for _, e := range joined.Unwrap() {
		out = append(out, Unjoin(e)...)
	}

	return out
}
