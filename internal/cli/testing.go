package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// CLI provides a clean interface for running CLI commands in tests.
// It manages a temp directory and environment variables.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string
}

// NewCLI creates a new test CLI with a temp directory.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	return &CLI{
		t:   t,
		Dir: t.TempDir(),
		Env: map[string]string{},
	}
}

// Run executes the CLI with the given args and returns stdout, stderr, and exit code.
// Args should not include "tm" or "--cwd" - those are added automatically.
func (r *CLI) Run(args ...string) (string, string, int) {
	return r.RunWithInput("", args...)
}

// RunWithInput executes the CLI with stdin and returns stdout, stderr, and exit code.
// stdin must be a string or io.Reader; panics otherwise.
func (r *CLI) RunWithInput(stdin any, args ...string) (string, string, int) {
	var inReader io.Reader

	switch v := stdin.(type) {
	case string:
		inReader = strings.NewReader(v)
	case io.Reader:
		inReader = v
	default:
		panic(fmt.Sprintf("stdin must be string or io.Reader, got %T", stdin))
	}

	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"tm", "--cwd", r.Dir}, args...)
	code := Run(inReader, &outBuf, &errBuf, fullArgs, r.Env, nil)

	return outBuf.String(), errBuf.String(), code
}

// MustRun executes the CLI and fails the test if the command returns non-zero.
// Returns trimmed stdout on success.
func (r *CLI) MustRun(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code != 0 {
		r.t.Fatalf("command %v failed with exit code %d\nstderr: %s", args, code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustFail executes the CLI and fails the test unless it exits with want.
// Also fails if stdout is not empty. Returns trimmed stderr.
func (r *CLI) MustFail(want int, args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code != want {
		r.t.Fatalf("command %v: exit code %d, want %d\nstdout: %s\nstderr: %s", args, code, want, stdout, stderr)
	}

	if stdout != "" {
		r.t.Fatalf("command %v failed but stdout should be empty\nstdout: %s", args, stdout)
	}

	return strings.TrimSpace(stderr)
}

// DataFile returns the path of the default task file.
func (r *CLI) DataFile() string {
	return filepath.Join(r.Dir, "misc", "task_data.csv")
}

// ReadData returns the content of the task file.
func (r *CLI) ReadData() string {
	r.t.Helper()

	content, err := os.ReadFile(r.DataFile())
	if err != nil {
		r.t.Fatalf("failed to read task file: %v", err)
	}

	return string(content)
}

// WriteData replaces the task file with content.
func (r *CLI) WriteData(content string) {
	r.t.Helper()

	err := os.MkdirAll(filepath.Dir(r.DataFile()), 0o755)
	if err == nil {
		err = os.WriteFile(r.DataFile(), []byte(content), 0o644)
	}

	if err != nil {
		r.t.Fatalf("failed to write task file: %v", err)
	}
}

// AddTask adds a valid task due in a year and returns its id line.
func (r *CLI) AddTask(title, category string) string {
	r.t.Helper()

	return r.MustRun("add", "--t", title, "--c", category, "--dd", DaysFromNow(365), "--p", "high", "--s", "False")
}

// DaysFromNow returns the local date n days from today as YYYY-MM-DD.
func DaysFromNow(n int) string {
	return time.Now().AddDate(0, 0, n).Format("2006-01-02")
}

// AssertContains fails the test if content doesn't contain substr.
func AssertContains(t *testing.T, content, substr string) {
	t.Helper()

	if !strings.Contains(content, substr) {
		t.Errorf("content should contain %q\ncontent:\n%s", substr, content)
	}
}

// AssertNotContains fails the test if content contains substr.
func AssertNotContains(t *testing.T, content, substr string) {
	t.Helper()

	if strings.Contains(content, substr) {
		t.Errorf("content should NOT contain %q\ncontent:\n%s", substr, content)
	}
}
