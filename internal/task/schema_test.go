package task

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type fixedIDs struct {
	next int
	err  error
}

func (f fixedIDs) NextID() (int, error) { return f.next, f.err }

func validFields() Fields {
	return Fields{
		Title:    "Task 4",
		Category: "Study",
		DueDate:  "2030-07-01",
		Priority: "low",
		Status:   "False",
	}
}

func TestCreateBuildsTask(t *testing.T) {
	t.Parallel()

	got, err := Create(validFields(), fixedIDs{next: 4}, today)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	want := Task{
		ID:          4,
		Title:       "Task 4",
		Description: DefaultDescription,
		Category:    "Study",
		DueDate:     time.Date(2030, 7, 1, 0, 0, 0, 0, time.UTC),
		Priority:    "Low",
		Status:      "False",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Create() mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateReportsFirstMissingFieldBeforeTypeErrors(t *testing.T) {
	t.Parallel()

	fields := validFields()
	fields.Title = ""
	fields.Status = " "
	fields.Priority = "Priority" // would be InvalidEnum, but presence is checked first

	_, err := Create(fields, fixedIDs{next: 1}, today)
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("error = %v, want ErrMissingField", err)
	}

	if errors.Is(err, ErrInvalidEnum) {
		t.Errorf("type validation ran before presence check: %v", err)
	}

	parts := Unjoin(err)
	if len(parts) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(parts), parts)
	}

	var fe *FieldError
	if !errors.As(parts[0], &fe) || fe.Field != FieldTitle {
		t.Errorf("error should name title, got %v", parts[0])
	}
}

func TestCreateAggregatesTypeErrors(t *testing.T) {
	t.Parallel()

	fields := validFields()
	fields.DueDate = "2024-13-04"
	fields.Priority = "urgent"
	fields.Status = "Complete"

	_, err := Create(fields, fixedIDs{next: 1}, today)

	for _, want := range []error{ErrMalformedDate, ErrInvalidEnum} {
		if !errors.Is(err, want) {
			t.Errorf("error %v should wrap %v", err, want)
		}
	}

	if got := len(Unjoin(err)); got != 3 {
		t.Errorf("got %d errors, want 3", got)
	}
}

func TestCreateDoesNotAssignIDOnFailure(t *testing.T) {
	t.Parallel()

	fields := validFields()
	fields.DueDate = "2020-01-01"

	_, err := Create(fields, fixedIDs{err: errors.New("must not be called")}, today)
	if !errors.Is(err, ErrPastDate) {
		t.Errorf("error = %v, want ErrPastDate", err)
	}
}

func TestCreatePropagatesIDSourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk gone")

	_, err := Create(validFields(), fixedIDs{err: boom}, today)
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
}

func TestBuildPatch(t *testing.T) {
	t.Parallel()

	p, err := BuildPatch(2, Fields{Title: "Task 5", Priority: "HIGH"}, today)
	if err != nil {
		t.Fatalf("BuildPatch: %v", err)
	}

	if p.ID != 2 || p.Title == nil || *p.Title != "Task 5" || p.Priority == nil || *p.Priority != "High" {
		t.Errorf("unexpected patch: %+v", p)
	}

	if p.Description != nil || p.Category != nil || p.DueDate != nil || p.Status != nil {
		t.Errorf("omitted fields should stay nil: %+v", p)
	}
}

func TestBuildPatchErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		id     int
		fields Fields
		want   error
	}{
		{"zero id", 0, Fields{Title: "x"}, ErrInvalidTaskID},
		{"negative id", -3, Fields{}, ErrInvalidTaskID},
		{"whitespace title", 1, Fields{Title: "    "}, ErrMissingField},
		{"past date", 1, Fields{DueDate: "2030-06-14"}, ErrPastDate},
		{"bad status", 1, Fields{Status: "Complete"}, ErrInvalidEnum},
		{"bad priority", 1, Fields{Priority: "None"}, ErrInvalidEnum},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := BuildPatch(tc.id, tc.fields, today)
			if !errors.Is(err, tc.want) {
				t.Errorf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestPatchApplyLeavesOmittedFieldsAndID(t *testing.T) {
	t.Parallel()

	orig := Task{
		ID: 7, Title: "a", Description: "b", Category: "c",
		DueDate: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), Priority: "Low", Status: "False",
	}

	p, err := BuildPatch(7, Fields{Status: "True", Category: "Work"}, today)
	if err != nil {
		t.Fatalf("BuildPatch: %v", err)
	}

	got := p.Apply(orig)

	want := orig
	want.Status = "True"
	want.Category = "Work"

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Apply mismatch (-want +got):\n%s", diff)
	}

	if (Patch{ID: 7}).Empty() != true || p.Empty() {
		t.Errorf("Empty() wrong")
	}
}
