package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/task-manager/internal/task"
)

// fieldFlags registers the six task field flags shared by add and edit.
func fieldFlags(fs *flag.FlagSet, f *task.Fields) {
	fs.StringVar(&f.Title, "t", "", "Task `title`")
	fs.StringVar(&f.Description, "d", "", "Task `description` (default \"Not specified\")")
	fs.StringVar(&f.Category, "c", "", "Task `category`")
	fs.StringVar(&f.DueDate, "dd", "", "Due `date` as YYYY-MM-DD, today or later")
	fs.StringVar(&f.Priority, "p", "", "`priority`: High, Medium or Low (any case)")
	fs.StringVar(&f.Status, "s", "", "`status`: True or False")
}

// AddCmd returns the add command.
func AddCmd(a *app) *Command {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)

	var fields task.Fields

	fieldFlags(fs, &fields)

	return &Command{
		Flags:   fs,
		Usage:   "add --t <title> --c <category> --dd <date> --p <priority> --s <status> [--d <description>]",
		Aliases: []string{"task-manager-add"},
		Short:   "Add a task",
		Long: `Validate the fields and append one task to the store.
Every field except the description is mandatory. The new task gets the
next id after the highest id in the store.`,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execAdd(o, a, fields)
		},
	}
}

func execAdd(o *IO, a *app, fields task.Fields) error {
	today := a.now()

	var created task.Task

	err := a.store.Update(func() error {
		t, err := task.Create(fields, a.store, today)
		if err != nil {
			return err
		}

		err = a.store.Append(t)
		if err != nil {
			return err
		}

		created = t

		return nil
	})
	if err != nil {
		return err
	}

	a.log.Debug("task added", "id", created.ID, "category", created.Category)
	o.Printf("Task %d added.\n", created.ID)

	return nil
}
