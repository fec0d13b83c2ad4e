package domain

import (
	"strings"
	"time"

	"zenflow/internal/clock"
)

// Priority is the urgency tier of a task, p1 most urgent
type Priority string

const (
	PriorityP1 Priority = "p1"
	PriorityP2 Priority = "p2"
	PriorityP3 Priority = "p3"
	PriorityP4 Priority = "p4"
)

// Priorities lists every tier from most to least urgent
var Priorities = []Priority{PriorityP1, PriorityP2, PriorityP3, PriorityP4}

// Rank returns 1..4 for known tiers and 5 for anything else
func (p Priority) Rank() int {
	for i, candidate := range Priorities {
		if p == candidate {
			return i + 1
		}
	}
	return len(Priorities) + 1
}

// Difficulty drives the XP and gold awarded on completion
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists every tier from easiest to hardest
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Weight orders difficulties, hard being heaviest. Unknown tiers weigh 0.
func (d Difficulty) Weight() int {
	switch d {
	case DifficultyHard:
		return 3
	case DifficultyMedium:
		return 2
	case DifficultyEasy:
		return 1
	default:
		return 0
	}
}

// Frequency describes how a task or habit repeats
type Frequency string

const (
	FrequencyNone   Frequency = "none"
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

// Interval returns the number of days between occurrences, 0 when the task does not repeat
func (f Frequency) Interval(customDays int) int {
	switch f {
	case FrequencyDaily:
		return 1
	case FrequencyWeekly:
		return 7
	case FrequencyCustom:
		if customDays > 0 {
			return customDays
		}
	}
	return 0
}

// TaskStatus is the derived state of a task for a given day
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
	StatusOverdue   TaskStatus = "overdue"
)

// TaskStatuses lists every derivable status
var TaskStatuses = []TaskStatus{StatusPending, StatusCompleted, StatusOverdue}

// Subtask is a checklist item inside a task
type Subtask struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Task is a unit of work that pays out XP and gold when completed
type Task struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Notes          string     `json:"notes"`
	DueDate        clock.Day  `json:"dueDate"`
	DueTime        string     `json:"dueTime"`
	Priority       Priority   `json:"priority"`
	Difficulty     Difficulty `json:"difficulty"`
	Flagged        bool       `json:"flagged"`
	Completed      bool       `json:"completed"`
	CompletedAt    *time.Time `json:"completedAt"`
	Frequency      Frequency  `json:"frequency"`
	CustomFreqDays int        `json:"customFreqDays"`
	Subtasks       []Subtask  `json:"subtasks"`
	Tags           []string   `json:"tags"`
	ProjectID      string     `json:"project"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	// LastRecurDay is the day this task last spawned its next occurrence
	LastRecurDay clock.Day `json:"lastRecurDay"`
}

// Status derives the task's status on the given day
func (t *Task) Status(today clock.Day) TaskStatus {
	if t.Completed {
		return StatusCompleted
	}
	if clock.IsOverdue(t.DueDate, today) {
		return StatusOverdue
	}
	return StatusPending
}

// IsRecurring reports whether the task spawns further occurrences
func (t *Task) IsRecurring() bool {
	return t.Frequency.Interval(t.CustomFreqDays) > 0
}

// HasTag reports whether the task carries the exact tag name
func (t *Task) HasTag(name string) bool {
	for _, tag := range t.Tags {
		if tag == name {
			return true
		}
	}
	return false
}

// Matches reports whether query appears, case-insensitively, in the title, notes or tags
func (t *Task) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.Title), q) || strings.Contains(strings.ToLower(t.Notes), q) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// MarkCompleted sets the completion flag and timestamp together
func (t *Task) MarkCompleted(at time.Time) {
	t.Completed = true
	t.CompletedAt = &at
	t.UpdatedAt = at
}

// MarkIncomplete clears the completion flag and timestamp together
func (t *Task) MarkIncomplete(at time.Time) {
	t.Completed = false
	t.CompletedAt = nil
	t.UpdatedAt = at
}

// CompletionDay returns the day the task was completed, or fallback when it has no timestamp
func (t *Task) CompletionDay(fallback clock.Day) clock.Day {
	if t.CompletedAt == nil {
		return fallback
	}
	return clock.DayOf(*t.CompletedAt)
}

// Clone returns a copy that shares no slices with t
func (t *Task) Clone() *Task {
	c := *t
	if t.Subtasks != nil {
		c.Subtasks = append([]Subtask(nil), t.Subtasks...)
	}
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}

// String returns the task title for display purposes.
func (t *Task) String() string {
	return t.Title
}
