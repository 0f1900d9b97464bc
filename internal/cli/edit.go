package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/task-manager/internal/task"
)

// EditCmd returns the edit command.
func EditCmd(a *app) *Command {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	id := fs.Int("id", 0, "`id` of the task to edit")

	var fields task.Fields

	fieldFlags(fs, &fields)

	return &Command{
		Flags:   fs,
		Usage:   "edit --id <id> [--t <title>] [--d <description>] [--c <category>] [--dd <date>] [--p <priority>] [--s <status>]",
		Aliases: []string{"task-manager-edit"},
		Short:   "Edit a task",
		Long: `Apply the given fields to the task with this id. Omitted fields keep
their stored value; a value made only of spaces is rejected.`,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execEdit(o, a, *id, fields)
		},
	}
}

func execEdit(o *IO, a *app, id int, fields task.Fields) error {
	patch, err := task.BuildPatch(id, fields, a.now())
	if err != nil {
		return err
	}

	changed := false

	err = a.store.Update(func() error {
		tasks, err := a.store.LoadAll()
		if err != nil {
			return err
		}

		i := task.Find(tasks, patch.ID)
		if i < 0 {
			return fmt.Errorf("%w: no task with id %d", task.ErrInvalidTaskID, patch.ID)
		}

		if patch.Empty() {
			return nil
		}

		tasks[i] = patch.Apply(tasks[i])
		changed = true

		return a.store.ReplaceAll(tasks)
	})
	if err != nil {
		return err
	}

	if !changed {
		o.Printf("No changes specified for task %d.\n", patch.ID)
		return nil
	}

	a.log.Debug("task updated", "id", patch.ID)
	o.Printf("Task %d updated.\n", patch.ID)

	return nil
}
