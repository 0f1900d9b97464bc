package cli

import (
	"strings"

	"github.com/calvinalkan/task-manager/internal/task"
)

// Messages printed for empty results and missing criteria.
const (
	msgNoTasks          = "No tasks found."
	msgNoTasksCategory  = "No tasks found in this category."
	msgNoSearchResults  = "No tasks were found for the specified parameters."
	msgNoSearchCriteria = "Search criteria not specified."
	msgNoRemoveCriteria = "Removal criteria not specified."
)

const columnSep = " | "

// printTasks prints a header line followed by one pipe-delimited row per
// task.
func printTasks(o *IO, tasks []task.Task) {
	o.Println(strings.Join(task.Columns, columnSep))

	for _, t := range tasks {
		o.Println(strings.Join(t.Record(), columnSep))
	}
}

// loadAll reads every task under the store's shared lock.
func (a *app) loadAll() ([]task.Task, error) {
	var tasks []task.Task

	err := a.store.View(func() error {
		var err error

		tasks, err = a.store.LoadAll()

		return err
	})

	return tasks, err
}
