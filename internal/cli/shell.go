package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
)

const (
	shellPrompt = "tm> "
	historyName = ".tm_history"
)

var errBadLine = errors.New("cannot parse line")

// ShellCmd returns the shell command.
func ShellCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell",
		Short: "Interactive prompt",
		Long: `Read commands line by line and run each one as its own transaction.
Quote values containing spaces: add --t "Buy milk" --c Home ...
Type 'help' for commands, 'exit' or Ctrl-D to leave.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			p, closePrompter := a.newPrompter()
			defer closePrompter()

			return runShell(ctx, o, a, p)
		},
	}
}

// prompter reads one line of input. Satisfied by *liner.State.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func runShell(ctx context.Context, o *IO, a *app, p prompter) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := p.Prompt(shellPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				o.Println("Bye!")

				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		p.AppendHistory(line)

		args, err := splitLine(line)
		if err != nil {
			o.ErrPrintln("error:", err)
			continue
		}

		switch args[0] {
		case "exit", "quit", "q":
			o.Println("Bye!")

			return nil
		case "shell":
			o.ErrPrintln("error: already in the shell")
			continue
		}

		code := a.dispatch(ctx, o, args, false)
		a.log.Debug("shell command finished", "command", args[0], "exit", code)
	}
}

// newPrompter returns a line editor with history when reading the process's
// own stdin, and a plain line reader otherwise.
func (a *app) newPrompter() (prompter, func()) {
	if a.stdin == nil {
		return &linePrompter{scanner: bufio.NewScanner(strings.NewReader(""))}, func() {}
	}

	if f, ok := a.stdin.(*os.File); !ok || f != os.Stdin {
		return &linePrompter{scanner: bufio.NewScanner(a.stdin)}, func() {}
	}

	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetCompleter(completeCommand)

	history := ""
	if home := a.env["HOME"]; home != "" {
		history = filepath.Join(home, historyName)
	}

	if history != "" {
		if f, err := os.Open(history); err == nil {
			_, _ = state.ReadHistory(f)
			_ = f.Close()
		}
	}

	return state, func() {
		if history != "" {
			if f, err := os.Create(history); err == nil {
				_, _ = state.WriteHistory(f)
				_ = f.Close()
			}
		}

		_ = state.Close()
	}
}

// completeCommand completes the first word of a line to a command name.
func completeCommand(line string) []string {
	if strings.Contains(line, " ") {
		return nil
	}

	var out []string

	for _, cmd := range commands(nil) {
		if strings.HasPrefix(cmd.Name(), line) {
			out = append(out, cmd.Name())
		}
	}

	for _, word := range []string{"help", "exit"} {
		if strings.HasPrefix(word, line) {
			out = append(out, word)
		}
	}

	return out
}

// linePrompter reads lines from a non-terminal reader. Nothing is echoed.
type linePrompter struct {
	scanner *bufio.Scanner
}

func (p *linePrompter) Prompt(string) (string, error) {
	if p.scanner.Scan() {
		return p.scanner.Text(), nil
	}

	if err := p.scanner.Err(); err != nil {
		return "", err
	}

	return "", io.EOF
}

func (p *linePrompter) AppendHistory(string) {}

// splitLine splits a shell line into words with POSIX quoting rules. Shell
// operators such as | or ; are rejected instead of silently ending the line.
func splitLine(line string) ([]string, error) {
	p := shellwords.NewParser()

	words, err := p.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadLine, err)
	}

	if p.Position >= 0 {
		return nil, fmt.Errorf("%w: shell operators are not supported", errBadLine)
	}

	return words, nil
}
