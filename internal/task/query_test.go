package task

import (
	"errors"
	"slices"
	"testing"
)

func sample() []Task {
	return []Task{
		{ID: 1, Title: "Task 1", Description: "Description 1", Category: "Work", Priority: "High", Status: "True"},
		{ID: 2, Title: "Task 2", Description: "Description 2", Category: "Personal", Priority: "Medium", Status: "False"},
		{ID: 3, Title: "Task 3", Description: "Description 3", Category: "Work", Priority: "Low", Status: "True"},
		{ID: 5, Title: "Plan workshop", Description: "Not specified", Category: "Workshop", Priority: "Low", Status: "False"},
		{ID: 6, Title: "Weekly review", Description: "home stuff", Category: "home office", Priority: "Low", Status: "False"},
	}
}

func ids(tasks []Task) []int {
	out := make([]int, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}

	return out
}

func TestFilters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  []Task
		want []int
	}{
		{"category exact ignores case", FilterByCategory(sample(), "work"), []int{1, 3}},
		{"category exact does not match words", FilterByCategory(sample(), "home"), []int{}},
		{"category word match excludes Workshop", MatchCategoryWord(sample(), "Work"), []int{1, 3}},
		{"category word match inside phrase", MatchCategoryWord(sample(), "OFFICE"), []int{6}},
		{"category word no partial", MatchCategoryWord(sample(), "KWork"), []int{}},
		{"keyword in title", FilterByKeyword(sample(), "Task 2"), []int{2}},
		{"keyword number is whole word", FilterByKeyword(sample(), "1"), []int{1}},
		{"keyword no partial number", FilterByKeyword(sample(), "112"), []int{}},
		{"keyword in description", FilterByKeyword(sample(), "HOME"), []int{6}},
		{"keyword not a word prefix", FilterByKeyword(sample(), "work"), []int{}},
		{"status ignores case", FilterByStatus(sample(), "false"), []int{2, 5, 6}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := ids(tc.got); !slices.Equal(got, tc.want) {
				t.Errorf("ids = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestKeywordIsQuoted(t *testing.T) {
	t.Parallel()

	tasks := []Task{{ID: 1, Title: "fix a.b config"}, {ID: 2, Title: "fix axb config"}}

	if got := ids(FilterByKeyword(tasks, "a.b")); !slices.Equal(got, []int{1}) {
		t.Errorf("regexp metacharacters should be literal, got %v", got)
	}
}

func TestWordMatchIsUnicodeAware(t *testing.T) {
	t.Parallel()

	tasks := []Task{
		{ID: 1, Title: "Купить молоко", Description: "Not specified", Category: "Работа"},
		{ID: 2, Title: "Молоко-2", Description: "Not specified", Category: "Работа дома"},
		{ID: 3, Title: "молокозавод", Description: "Not specified", Category: "Работающий"},
		{ID: 4, Title: "Order coffee", Description: "at the Café", Category: "Café"},
		{ID: 5, Title: "Repair", Description: "Not specified", Category: "Workshopé"},
		{ID: 6, Title: "Review", Description: "Not specified", Category: "Work·ü"},
		{ID: 7, Title: "Plan", Description: "Not specified", Category: "éWork"},
		{ID: 8, Title: "Plan", Description: "Not specified", Category: "ü Work"},
	}

	tests := []struct {
		name string
		got  []Task
		want []int
	}{
		{"cyrillic category", MatchCategoryWord(tasks, "Работа"), []int{1, 2}},
		{"cyrillic category ignores case", MatchCategoryWord(tasks, "РАБОТА"), []int{1, 2}},
		{"accented category", MatchCategoryWord(tasks, "café"), []int{4}},
		{"cyrillic keyword", FilterByKeyword(tasks, "молоко"), []int{1, 2}},
		{"accented keyword in description", FilterByKeyword(tasks, "CAFÉ"), []int{4}},
		{"Work not inside non-ASCII neighbours", MatchCategoryWord(tasks, "Work"), []int{6, 8}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := ids(tc.got); !slices.Equal(got, tc.want) {
				t.Errorf("ids = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSearchPrecedence(t *testing.T) {
	t.Parallel()

	got, err := Search(sample(), Criteria{Keyword: "Task 2", Category: "Work", Status: "True"})
	if err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(ids(got), []int{2}) {
		t.Errorf("keyword should win, got %v", ids(got))
	}

	got, err = Search(sample(), Criteria{Category: "Work", Status: "False"})
	if err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(ids(got), []int{1, 3}) {
		t.Errorf("category should win over status, got %v", ids(got))
	}
}

func TestSearchErrors(t *testing.T) {
	t.Parallel()

	if _, err := Search(sample(), Criteria{}); !errors.Is(err, ErrNoCriteria) {
		t.Errorf("empty criteria error = %v, want ErrNoCriteria", err)
	}

	if _, err := Search(sample(), Criteria{Status: "Falses"}); !errors.Is(err, ErrInvalidEnum) {
		t.Errorf("bad status error = %v, want ErrInvalidEnum", err)
	}

	got, err := Search(nil, Criteria{Keyword: "anything"})
	if err != nil || len(got) != 0 {
		t.Errorf("search over no tasks = %v, %v", got, err)
	}
}

func TestFindMatchesIDNotPosition(t *testing.T) {
	t.Parallel()

	tasks := sample() // ids 1,2,3,5,6

	if got := Find(tasks, 5); got != 3 {
		t.Errorf("Find(5) = %d, want 3", got)
	}

	if got := Find(tasks, 4); got != -1 {
		t.Errorf("Find(4) = %d, want -1", got)
	}

	if got := MaxID(tasks); got != 6 {
		t.Errorf("MaxID = %d, want 6", got)
	}
}
