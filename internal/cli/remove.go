package cli

import (
	"context"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/task-manager/internal/task"
)

// RemoveCmd returns the remove command.
func RemoveCmd(a *app) *Command {
	fs := flag.NewFlagSet("remove", flag.ContinueOnError)
	id := fs.Int("id", 0, "Remove the task with this `id`")
	category := fs.String("c", "", "Remove every task whose category contains `category` as a whole word")

	return &Command{
		Flags:   fs,
		Usage:   "remove --id <id> | --c <category>",
		Aliases: []string{"task-manager-remove"},
		Short:   "Remove a task by id, or all tasks of a category",
		Long: `Remove the task with the given id, or every task whose category
contains the given word (ignoring case). When both are given, --id wins.
The ids of the remaining tasks never change.`,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			if fs.Changed("id") {
				return execRemoveByID(o, a, *id)
			}

			if strings.TrimSpace(*category) != "" {
				return execRemoveByCategory(o, a, *category)
			}

			o.Println(msgNoRemoveCriteria)

			return nil
		},
	}
}

func execRemoveByID(o *IO, a *app, id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", task.ErrInvalidTaskID, id)
	}

	err := a.store.Update(func() error {
		tasks, err := a.store.LoadAll()
		if err != nil {
			return err
		}

		i := task.Find(tasks, id)
		if i < 0 {
			return fmt.Errorf("%w: no task with id %d", task.ErrInvalidTaskID, id)
		}

		return a.store.ReplaceAll(append(tasks[:i:i], tasks[i+1:]...))
	})
	if err != nil {
		return err
	}

	a.log.Debug("task removed", "id", id)
	o.Printf("Task %d removed.\n", id)

	return nil
}

func execRemoveByCategory(o *IO, a *app, category string) error {
	removed := 0

	err := a.store.Update(func() error {
		tasks, err := a.store.LoadAll()
		if err != nil {
			return err
		}

		doomed := make(map[int]bool)
		for _, t := range task.MatchCategoryWord(tasks, category) {
			doomed[t.ID] = true
		}

		if len(doomed) == 0 {
			return nil
		}

		kept := make([]task.Task, 0, len(tasks)-len(doomed))
		for _, t := range tasks {
			if !doomed[t.ID] {
				kept = append(kept, t)
			}
		}

		removed = len(doomed)

		return a.store.ReplaceAll(kept)
	})
	if err != nil {
		return err
	}

	if removed == 0 {
		o.Println(msgNoTasksCategory)
		return nil
	}

	a.log.Debug("tasks removed", "category", category, "count", removed)
	o.Printf("Removed %d task(s) from category %s.\n", removed, category)

	return nil
}
