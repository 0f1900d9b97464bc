package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/task-manager/internal/task"
)

// ListCmd returns the list command.
func ListCmd(a *app) *Command {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	category := fs.String("category", "", "Only list tasks in `category` (exact match, any case)")

	return &Command{
		Flags:   fs,
		Usage:   "list [--category <category>]",
		Aliases: []string{"task-manager-list"},
		Short:   "List tasks",
		Long: `Print every task, header first, one pipe-delimited row per task.
With --category, only tasks whose category equals the given value
(ignoring case) are printed.`,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execList(o, a, *category)
		},
	}
}

func execList(o *IO, a *app, category string) error {
	tasks, err := a.loadAll()
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		o.Println(msgNoTasks)
		return nil
	}

	if category != "" {
		tasks = task.FilterByCategory(tasks, category)
		if len(tasks) == 0 {
			o.Println(msgNoTasksCategory)
			return nil
		}
	}

	printTasks(o, tasks)

	return nil
}
