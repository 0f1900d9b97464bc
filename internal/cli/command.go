package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/task-manager/internal/task"
)

// Exit codes.
const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

// Command defines a CLI command with unified help generation.
type Command struct {
	// Flags defines command-specific flags.
	// The FlagSet name is not used - command identity comes from Usage.
	Flags *flag.FlagSet

	// Usage is the freeform usage string shown after "tm" in help.
	// Includes the command name and flags.
	// Examples: "list [--category <c>]", "remove --id <id> | --c <category>"
	Usage string

	// Aliases are alternative names accepted on the command line.
	Aliases []string

	// Short is a one-line description for the global help listing.
	Short string

	// Long is the full description shown in command help.
	// If empty, Short is used instead.
	Long string

	// Exec runs the command after flags are parsed.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")
	return name
}

// Matches reports whether name selects this command.
func (c *Command) Matches(name string) bool {
	return c.Name() == name || slices.Contains(c.Aliases, name)
}

// HelpLine returns the short help line for the main usage display.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-40s %s", c.Usage, c.Short)
}

// PrintHelp prints the full help output for "tm <cmd> --help".
func (c *Command) PrintHelp(w func(a ...any)) {
	w("Usage: tm", c.Usage)
	w()

	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	w(desc)

	if len(c.Aliases) > 0 {
		w()
		w("Aliases:", strings.Join(c.Aliases, ", "))
	}

	if c.Flags != nil && c.Flags.HasFlags() {
		w()
		w("Flags:")

		var buf strings.Builder
		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()
		w(strings.TrimRight(buf.String(), "\n"))
	}
}

// Run parses flags and executes the command. Returns exit code.
//
// Validation and lookup failures are business outcomes: they are printed to
// stdout as "<Kind>: <reason>" and the command still exits 0. Malformed flags
// exit 2, everything else is fatal and exits 1.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(&strings.Builder{}) // discard pflag output

	err := c.Flags.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.PrintHelp(o.Println)
			return exitOK
		}

		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		c.PrintHelp(o.ErrPrintln)

		return exitUsage
	}

	if rest := c.Flags.Args(); len(rest) > 0 {
		o.ErrPrintln("error: unexpected argument:", rest[0])
		o.ErrPrintln()
		c.PrintHelp(o.ErrPrintln)

		return exitUsage
	}

	err = c.Exec(ctx, o, c.Flags.Args())
	if err == nil {
		return exitOK
	}

	if isUserError(err) {
		printUserErrors(o, err)
		return exitOK
	}

	o.ErrPrintln("error:", err)

	return exitFatal
}

// isUserError reports whether every part of err is a validation or lookup
// failure. A joined error carrying any store fault is fatal.
func isUserError(err error) bool {
	parts := task.Unjoin(err)
	if len(parts) == 0 {
		return false
	}

	for _, part := range parts {
		if !task.IsUserError(part) {
			return false
		}
	}

	return true
}

func printUserErrors(o *IO, err error) {
	for _, part := range task.Unjoin(err) {
		o.Printf("%s: %v\n", task.Kind(part), part)
	}
}
