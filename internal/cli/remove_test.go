package cli_test

import (
	"testing"

	"github.com/calvinalkan/task-manager/internal/cli"
)

const threeTasks = header +
	"1,Task 1,Description 1,Work,2099-12-05,High,True\n" +
	"2,Task 2,Not specified,Workshop,2099-01-20,Low,False\n" +
	"3,Task 3,Not specified,Work stuff,2099-02-01,Medium,False\n"

func Test_Remove_By_ID_Keeps_Other_IDs_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteData(threeTasks)

	stdout := c.MustRun("remove", "--id", "2")
	if got, want := stdout, "Task 2 removed."; got != want {
		t.Fatalf("stdout=%q, want=%q", got, want)
	}

	want := "id | title | description | category | due_date | priority | status\n" +
		"1 | Task 1 | Description 1 | Work | 2099-12-05 | High | True\n" +
		"3 | Task 3 | Not specified | Work stuff | 2099-02-01 | Medium | False"

	if got := c.MustRun("list"); got != want {
		t.Fatalf("list mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func Test_Add_After_Remove_Does_Not_Reuse_IDs_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteData(threeTasks)

	c.MustRun("remove", "--id", "2")

	if got, want := c.AddTask("Fresh", "Home"), "Task 4 added."; got != want {
		t.Fatalf("stdout=%q, want=%q", got, want)
	}
}

func Test_Remove_Unknown_ID_Leaves_Store_Untouched_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteData(threeTasks)

	stdout := c.MustRun("remove", "--id", "7")
	cli.AssertContains(t, stdout, "InvalidTaskId:")

	if got := c.ReadData(); got != threeTasks {
		t.Fatalf("data file changed:\n%s", got)
	}
}

func Test_Remove_By_Category_Matches_Whole_Words_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteData(threeTasks)

	stdout := c.MustRun("task-manager-remove", "--c", "work")
	if got, want := stdout, "Removed 2 task(s) from category work."; got != want {
		t.Fatalf("stdout=%q, want=%q", got, want)
	}

	want := header + "2,Task 2,Not specified,Workshop,2099-01-20,Low,False\n"
	if got := c.ReadData(); got != want {
		t.Fatalf("data file mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func Test_Remove_Messages_When_Invoked(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name       string
		data       string
		args       []string
		wantStdout string
	}{
		{
			name:       "no criteria",
			data:       threeTasks,
			args:       []string{"remove"},
			wantStdout: "Removal criteria not specified.",
		},
		{
			name:       "blank category",
			data:       threeTasks,
			args:       []string{"remove", "--c", "  "},
			wantStdout: "Removal criteria not specified.",
		},
		{
			name:       "category without matches",
			data:       threeTasks,
			args:       []string{"remove", "--c", "Home"},
			wantStdout: "No tasks found in this category.",
		},
		{
			name:       "id wins over category",
			data:       threeTasks,
			args:       []string{"remove", "--c", "Work", "--id", "3"},
			wantStdout: "Task 3 removed.",
		},
		{
			name:       "empty store",
			args:       []string{"remove", "--id", "1"},
			wantStdout: "InvalidTaskId: invalid task ID: no task with id 1",
		},
		{
			name:       "non-positive id",
			data:       threeTasks,
			args:       []string{"remove", "--id", "0"},
			wantStdout: "InvalidTaskId: invalid task ID: 0",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			if tt.data != "" {
				c.WriteData(tt.data)
			}

			if got := c.MustRun(tt.args...); got != tt.wantStdout {
				t.Fatalf("stdout=%q, want=%q", got, tt.wantStdout)
			}
		})
	}
}

func Test_Remove_Everything_Then_List_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteData(threeTasks)

	c.MustRun("remove", "--id", "2")
	c.MustRun("remove", "--c", "Work")

	if got, want := c.MustRun("list"), "No tasks found."; got != want {
		t.Fatalf("stdout=%q, want=%q", got, want)
	}

	if got := c.ReadData(); got != header {
		t.Fatalf("data file=%q, want header only", got)
	}
}

func Test_Remove_Non_Integer_ID_Exits_Two_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stderr := c.MustFail(2, "remove", "--id", "two")
	cli.AssertContains(t, stderr, "invalid argument")
}

func Test_Search_And_Remove_Match_Non_ASCII_Categories_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteData(header +
		"1,Купить молоко,Not specified,Работа,2099-12-05,High,True\n" +
		"2,Order coffee,Not specified,Работающий,2099-01-20,Low,False\n" +
		"3,Pay rent,Not specified,Café,2099-02-01,Medium,False\n")

	if got, want := c.MustRun("search", "--c", "работа"), tableHeader+"\n"+
		"1 | Купить молоко | Not specified | Работа | 2099-12-05 | High | True"; got != want {
		t.Fatalf("search --c\ngot:\n%s\nwant:\n%s", got, want)
	}

	if got, want := c.MustRun("search", "--kw", "МОЛОКО"), tableHeader+"\n"+
		"1 | Купить молоко | Not specified | Работа | 2099-12-05 | High | True"; got != want {
		t.Fatalf("search --kw\ngot:\n%s\nwant:\n%s", got, want)
	}

	if got, want := c.MustRun("remove", "--c", "Работа"), "Removed 1 task(s) from category Работа."; got != want {
		t.Fatalf("remove --c=%q, want=%q", got, want)
	}

	if got, want := c.MustRun("remove", "--c", "café"), "Removed 1 task(s) from category café."; got != want {
		t.Fatalf("remove --c=%q, want=%q", got, want)
	}

	want := header + "2,Order coffee,Not specified,Работающий,2099-01-20,Low,False\n"
	if got := c.ReadData(); got != want {
		t.Fatalf("data file\ngot:\n%s\nwant:\n%s", got, want)
	}
}
