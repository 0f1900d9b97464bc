package task

import (
	"regexp"
	"strings"
)

// FilterByCategory returns the tasks whose category equals category, ignoring
// case. This is the exact match used by the list view.
func FilterByCategory(tasks []Task, category string) []Task {
	return filter(tasks, func(t Task) bool {
		return strings.EqualFold(t.Category, category)
	})
}

// MatchCategoryWord returns the tasks whose category contains category as a
// whole word, ignoring case. "Work" matches "Work" and "Work stuff" but not
// "Workshop". Used by remove and search.
func MatchCategoryWord(tasks []Task, category string) []Task {
	re := wordPattern(category)

	return filter(tasks, func(t Task) bool {
		return re.MatchString(t.Category)
	})
}

// FilterByKeyword returns the tasks whose title or description contains
// keyword as a whole word, ignoring case.
func FilterByKeyword(tasks []Task, keyword string) []Task {
	re := wordPattern(keyword)

	return filter(tasks, func(t Task) bool {
		return re.MatchString(t.Title) || re.MatchString(t.Description)
	})
}

// FilterByStatus returns the tasks whose status equals status, ignoring case.
func FilterByStatus(tasks []Task, status string) []Task {
	return filter(tasks, func(t Task) bool {
		return strings.EqualFold(t.Status, status)
	})
}

// Criteria selects tasks for [Search]. Empty strings are unset.
type Criteria struct {
	Keyword  string
	Category string
	Status   string
}

// Search applies exactly one criterion, in the fixed precedence
// keyword > category > status. Criteria are never combined.
//
// Returns [ErrNoCriteria] if no criterion is set, and a validation error if
// the status criterion is not "True" or "False". An empty result is not an
// error.
func Search(tasks []Task, c Criteria) ([]Task, error) {
	switch {
	case c.Keyword != "":
		return FilterByKeyword(tasks, c.Keyword), nil
	case c.Category != "":
		return MatchCategoryWord(tasks, c.Category), nil
	case c.Status != "":
		status, err := ValidateStatus(c.Status)
		if err != nil {
			return nil, err
		}

		return FilterByStatus(tasks, status), nil
	}

	return nil, ErrNoCriteria
}

// Empty reports whether no criterion is set.
func (c Criteria) Empty() bool {
	return c.Keyword == "" && c.Category == "" && c.Status == ""
}

// wordChar is a Unicode word character. RE2's \b only knows ASCII, so
// boundaries are spelled out to make "Работа" and "Café" match as words.
const wordChar = `\p{L}\p{M}\p{N}_`

func wordPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^` + wordChar + `])` + regexp.QuoteMeta(term) + `(?:$|[^` + wordChar + `])`)
}

func filter(tasks []Task, keep func(Task) bool) []Task {
	var out []Task

	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}

	return out
}
