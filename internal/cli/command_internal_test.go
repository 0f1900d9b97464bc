package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/task-manager/internal/store"
	"github.com/calvinalkan/task-manager/internal/task"
)

func memoryApp(tasks ...task.Task) (*app, *store.Memory) {
	mem := store.NewMemory(tasks...)

	return &app{
		store: mem,
		log:   log.New(io.Discard),
		now:   func() time.Time { return time.Date(2030, 6, 15, 9, 0, 0, 0, time.UTC) },
		env:   map[string]string{},
	}, mem
}

func runIn(a *app, args ...string) (string, string, int) {
	var out, errOut bytes.Buffer

	code := a.dispatch(context.Background(), NewIO(&out, &errOut), args, false)

	return out.String(), errOut.String(), code
}

func sampleTask(id int, category string) task.Task {
	return task.Task{
		ID:          id,
		Title:       "Task",
		Description: task.DefaultDescription,
		Category:    category,
		DueDate:     time.Date(2030, 7, 1, 0, 0, 0, 0, time.UTC),
		Priority:    task.PriorityLow,
		Status:      task.StatusFalse,
	}
}

func TestStoreFaultIsFatalAndLeavesTasks(t *testing.T) {
	t.Parallel()

	a, mem := memoryApp(sampleTask(1, "Work"), sampleTask(2, "Home"))
	mem.ReplaceErr = errors.Join(store.ErrIOFailure, errors.New("disk full"))

	stdout, stderr, code := runIn(a, "remove", "--id", "1")
	if code != exitFatal {
		t.Fatalf("exit=%d, want %d", code, exitFatal)
	}

	if stdout != "" {
		t.Fatalf("stdout=%q, want empty", stdout)
	}

	if !bytes.Contains([]byte(stderr), []byte("disk full")) {
		t.Fatalf("stderr=%q, want the store error", stderr)
	}

	left, _ := mem.LoadAll()
	if got, want := len(left), 2; got != want {
		t.Fatalf("tasks=%d, want=%d", got, want)
	}
}

func TestDatesAreCheckedAgainstInjectedClock(t *testing.T) {
	t.Parallel()

	a, mem := memoryApp(sampleTask(4, "Work"))

	stdout, _, code := runIn(a, "add", "--t", "T", "--c", "Home", "--dd", "2030-06-15", "--p", "low", "--s", "True")
	if code != exitOK || stdout != "Task 5 added.\n" {
		t.Fatalf("add on today: exit=%d stdout=%q", code, stdout)
	}

	stdout, _, _ = runIn(a, "edit", "--id", "4", "--dd", "2030-06-14")
	if got, want := stdout, "PastDate: due_date: Due date must be in the future or present\n"; got != want {
		t.Fatalf("stdout=%q, want=%q", got, want)
	}

	tasks, _ := mem.LoadAll()

	want := []int{4, 5}
	got := []int{tasks[0].ID, tasks[1].ID}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestIsUserError(t *testing.T) {
	t.Parallel()

	userErr := &task.FieldError{Field: task.FieldTitle, Err: task.ErrMissingField}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "field error", err: userErr, want: true},
		{name: "joined field errors", err: errors.Join(userErr, task.ErrNoMatch), want: true},
		{name: "store fault", err: store.ErrCorruptRow, want: false},
		{name: "mixed", err: errors.Join(userErr, store.ErrIOFailure), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := isUserError(tt.err); got != tt.want {
				t.Fatalf("isUserError(%v)=%v, want=%v", tt.err, got, tt.want)
			}
		})
	}
}

func TestSplitLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{line: "list", want: []string{"list"}},
		{line: "  list   --category  Work ", want: []string{"list", "--category", "Work"}},
		{line: `add --t "Buy milk" --d 'it''s'`, want: []string{"add", "--t", "Buy milk", "--d", "its"}},
		{line: `add --t ""`, want: []string{"add", "--t", ""}},
		{line: `search --kw a\ b`, want: []string{"search", "--kw", "a b"}},
		{line: `add --t "it's"`, want: []string{"add", "--t", "it's"}},
		{line: `search --kw "a | b"`, want: []string{"search", "--kw", "a | b"}},
		{line: `add --t "open`, wantErr: true},
		{line: `add --t trailing\`, wantErr: true},
		{line: `list | grep Work`, wantErr: true},
		{line: `list; remove --id 1`, wantErr: true},
	}

	for _, tt := range tests {
		got, err := splitLine(tt.line)
		if tt.wantErr {
			if !errors.Is(err, errBadLine) {
				t.Errorf("splitLine(%q) err=%v, want %v", tt.line, err, errBadLine)
			}

			continue
		}

		if err != nil {
			t.Errorf("splitLine(%q): %v", tt.line, err)
			continue
		}

		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("splitLine(%q) mismatch (-want +got):\n%s", tt.line, diff)
		}
	}
}

func TestCompleteCommand(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff([]string{"edit", "exit"}, completeCommand("e")); diff != "" {
		t.Fatalf("completeCommand mismatch (-want +got):\n%s", diff)
	}

	if got := completeCommand("add --t"); got != nil {
		t.Fatalf("completeCommand after first word=%v, want nil", got)
	}
}
