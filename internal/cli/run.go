// Package cli implements the tm command line: global flags, configuration,
// and the list, add, edit, remove, search, print-config and shell commands.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/task-manager/internal/config"
	"github.com/calvinalkan/task-manager/internal/store"
)

// app is the state shared by every command of one invocation.
type app struct {
	cfg   config.Config
	store store.Store
	log   *log.Logger
	now   func() time.Time
	stdin io.Reader
	env   map[string]string
}

// Run is the main entry point. Returns exit code.
//
// Signals received on sigCh cancel the context handed to the command.
func Run(stdin io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	o := NewIO(out, errOut)

	globals, err := parseGlobalFlags(args)
	if err != nil {
		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		printUsage(o.ErrPrintln)

		return exitUsage
	}

	if globals.help || len(globals.rest) == 0 {
		printUsage(o.Println)

		return exitOK
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride:  globals.workDir,
		ConfigPath:       globals.configPath,
		DataFileOverride: globals.dataFile,
		Verbose:          globals.verbose,
		Env:              env,
	})
	if err != nil {
		o.ErrPrintln("error:", err)

		return exitFatal
	}

	logger, err := newLogger(errOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		o.ErrPrintln("error:", err)

		return exitFatal
	}

	st, err := store.NewFile(cfg.DataFileAbs, store.Options{
		LockTimeout: cfg.LockWait,
		Logger:      logger,
	})
	if err != nil {
		o.ErrPrintln("error:", err)

		return exitFatal
	}

	a := &app{
		cfg:   cfg,
		store: st,
		log:   logger,
		now:   time.Now,
		stdin: stdin,
		env:   env,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case sig := <-sigCh:
			logger.Debug("received signal, cancelling", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.Debug("resolved config", "data_file", cfg.DataFileAbs, "lock_timeout", cfg.LockWait)

	return a.dispatch(ctx, o, globals.rest, true)
}

// commands builds a fresh command set. Flag values live in the FlagSets, so
// every dispatch gets its own set.
func commands(a *app) []*Command {
	return []*Command{
		ListCmd(a),
		AddCmd(a),
		EditCmd(a),
		RemoveCmd(a),
		SearchCmd(a),
		PrintConfigCmd(a),
	}
}

// dispatch runs the command named by args[0]. The shell is only reachable
// from the top level.
func (a *app) dispatch(ctx context.Context, o *IO, args []string, allowShell bool) int {
	name := args[0]

	if name == "-h" || name == "--help" || name == "help" {
		printUsage(o.Println)

		return exitOK
	}

	cmds := commands(a)
	if allowShell {
		cmds = append(cmds, ShellCmd(a))
	}

	for _, cmd := range cmds {
		if !cmd.Matches(name) {
			continue
		}

		if err := ctx.Err(); err != nil {
			o.ErrPrintln("error:", err)

			return exitFatal
		}

		a.log.Debug("running command", "command", cmd.Name())

		return cmd.Run(ctx, o, args[1:])
	}

	o.ErrPrintln("error: unknown command:", name)
	printUsage(o.ErrPrintln)

	return exitUsage
}

type globalFlags struct {
	workDir    string
	configPath string
	dataFile   *string
	verbose    bool
	help       bool
	rest       []string
}

// parseGlobalFlags parses the flags in front of the command name. args[0] is
// the program name.
func parseGlobalFlags(args []string) (globalFlags, error) {
	var g globalFlags

	if len(args) < 2 {
		return g, nil
	}

	fs := flag.NewFlagSet("tm", flag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SetOutput(io.Discard)

	fs.StringVarP(&g.workDir, "cwd", "C", "", "Run as if started in `dir`")
	fs.StringVarP(&g.configPath, "config", "c", "", "Use the specified config `file`")
	dataFile := fs.String("data-file", "", "Task CSV `path` (overrides config)")
	fs.BoolVarP(&g.verbose, "verbose", "v", false, "Debug logging to stderr")
	fs.BoolVarP(&g.help, "help", "h", false, "Show help")

	if err := fs.Parse(args[1:]); err != nil {
		return globalFlags{}, err
	}

	if fs.Changed("data-file") {
		g.dataFile = dataFile
	}

	g.rest = fs.Args()

	return g, nil
}

func printUsage(w func(a ...any)) {
	w(`tm - personal task tracker backed by a CSV file

Usage: tm [options] <command> [flags]

Options:
  -C, --cwd <dir>          Run as if started in <dir>
  -c, --config <file>      Use specified config file
      --data-file <path>   Task CSV file (default misc/task_data.csv)
  -v, --verbose            Debug logging to stderr
  -h, --help               Show help

Commands:`)

	for _, cmd := range commands(nil) {
		w(cmd.HelpLine())
	}

	w(ShellCmd(nil).HelpLine())
	w()
	w("Run 'tm <command> --help' for command flags.")
}
