package domain

import (
	"sort"
	"strings"

	"zenflow/internal/clock"
)

// SortOrder selects how filtered tasks are ordered
type SortOrder string

const (
	SortDefault    SortOrder = "default"
	SortPriority   SortOrder = "priority"
	SortDueDate    SortOrder = "due-date"
	SortTitle      SortOrder = "title"
	SortDifficulty SortOrder = "difficulty"
)

// SearchOptions filters and orders a task list.
// Nil Status or Priority sets mean "any"; empty Project or Tag (or "all") mean "any".
type SearchOptions struct {
	Text     string
	Status   []TaskStatus
	Priority []Priority
	Project  string
	Tag      string
	Sort     SortOrder
}

// SearchOptionsFromFilters builds options from persisted filter preferences
func SearchOptionsFromFilters(f Filters) SearchOptions {
	return SearchOptions{
		Status:   f.Status,
		Priority: f.Priority,
		Project:  f.Project,
		Tag:      f.Tag,
	}
}

// Match reports whether task passes every filter on the given day
func (o SearchOptions) Match(t *Task, today clock.Day) bool {
	if !t.Matches(o.Text) {
		return false
	}
	if o.Status != nil && !containsStatus(o.Status, t.Status(today)) {
		return false
	}
	if o.Priority != nil && !containsPriority(o.Priority, t.Priority) {
		return false
	}
	if o.Project != "" && o.Project != FilterAll && t.ProjectID != o.Project {
		return false
	}
	if o.Tag != "" && o.Tag != FilterAll && !t.HasTag(o.Tag) {
		return false
	}
	return true
}

// Apply returns the tasks that match, sorted. The input slice is not modified.
func (o SearchOptions) Apply(tasks []*Task, today clock.Day) []*Task {
	result := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if o.Match(t, today) {
			result = append(result, t)
		}
	}
	SortTasks(result, o.Sort)
	return result
}

// SortTasks orders tasks in place. Ties keep their input order.
func SortTasks(tasks []*Task, order SortOrder) {
	var less func(a, b *Task) bool
	switch order {
	case SortPriority:
		less = func(a, b *Task) bool { return a.Priority.Rank() < b.Priority.Rank() }
	case SortDueDate:
		less = func(a, b *Task) bool {
			if a.DueDate.IsZero() || b.DueDate.IsZero() {
				return !a.DueDate.IsZero() && b.DueDate.IsZero()
			}
			return a.DueDate.Before(b.DueDate)
		}
	case SortTitle:
		less = func(a, b *Task) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	case SortDifficulty:
		less = func(a, b *Task) bool { return a.Difficulty.Weight() > b.Difficulty.Weight() }
	default:
		less = func(a, b *Task) bool {
			if a.Completed != b.Completed {
				return !a.Completed
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool { return less(tasks[i], tasks[j]) })
}

func containsStatus(set []TaskStatus, s TaskStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func containsPriority(set []Priority, p Priority) bool {
	for _, v := range set {
		if v == p {
			return true
		}
	}
	return false
}
