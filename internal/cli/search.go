package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/task-manager/internal/task"
)

// SearchCmd returns the search command.
func SearchCmd(a *app) *Command {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)

	var c task.Criteria

	fs.StringVar(&c.Keyword, "kw", "", "Whole-word `keyword` in title or description")
	fs.StringVar(&c.Category, "c", "", "Whole-word match on `category`")
	fs.StringVar(&c.Status, "s", "", "`status`: True or False")

	return &Command{
		Flags:   fs,
		Usage:   "search --kw <keyword> | --c <category> | --s <status>",
		Aliases: []string{"task-manager-search"},
		Short:   "Search tasks by one criterion",
		Long: `Print the tasks matching one criterion. Keyword and category match whole
words, ignoring case. Criteria are not combined: --kw wins over --c, which
wins over --s.`,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execSearch(o, a, c)
		},
	}
}

func execSearch(o *IO, a *app, c task.Criteria) error {
	if c.Empty() {
		o.Println(msgNoSearchCriteria)
		return nil
	}

	tasks, err := a.loadAll()
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		o.Println(msgNoTasks)
		return nil
	}

	found, err := task.Search(tasks, c)
	if err != nil {
		return err
	}

	if len(found) == 0 {
		o.Println(msgNoSearchResults)
		return nil
	}

	printTasks(o, found)

	return nil
}
