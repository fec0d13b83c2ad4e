package domain

import "zenflow/internal/clock"

// TaskInput carries the user-supplied fields of a new task. Zero values take the documented defaults.
type TaskInput struct {
	Title          string     `json:"title" validate:"max=255"`
	Notes          string     `json:"notes"`
	DueDate        clock.Day  `json:"dueDate" validate:"omitempty,day"`
	DueTime        string     `json:"dueTime" validate:"omitempty,datetime=15:04"`
	Priority       Priority   `json:"priority" validate:"omitempty,oneof=p1 p2 p3 p4"`
	Difficulty     Difficulty `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Flagged        bool       `json:"flagged"`
	Frequency      Frequency  `json:"frequency" validate:"omitempty,oneof=none daily weekly custom"`
	CustomFreqDays int        `json:"customFreqDays" validate:"gte=0"`
	Subtasks       []Subtask  `json:"subtasks"`
	Tags           []string   `json:"tags" validate:"dive,required"`
	ProjectID      string     `json:"project"`
}

// TaskPatch is a partial task update. Nil fields are left unchanged.
type TaskPatch struct {
	Title          *string     `json:"title" validate:"omitempty,max=255"`
	Notes          *string     `json:"notes"`
	DueDate        *clock.Day  `json:"dueDate" validate:"omitempty,day"`
	DueTime        *string     `json:"dueTime" validate:"omitempty,datetime=15:04"`
	Priority       *Priority   `json:"priority" validate:"omitempty,oneof=p1 p2 p3 p4"`
	Difficulty     *Difficulty `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Flagged        *bool       `json:"flagged"`
	Frequency      *Frequency  `json:"frequency" validate:"omitempty,oneof=none daily weekly custom"`
	CustomFreqDays *int        `json:"customFreqDays" validate:"omitempty,gte=0"`
	Subtasks       *[]Subtask  `json:"subtasks"`
	Tags           *[]string   `json:"tags"`
	ProjectID      *string     `json:"project"`
}

// Apply merges the set fields of p into t
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.DueTime != nil {
		t.DueTime = *p.DueTime
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Difficulty != nil {
		t.Difficulty = *p.Difficulty
	}
	if p.Flagged != nil {
		t.Flagged = *p.Flagged
	}
	if p.Frequency != nil {
		t.Frequency = *p.Frequency
	}
	if p.CustomFreqDays != nil {
		t.CustomFreqDays = *p.CustomFreqDays
	}
	if p.Subtasks != nil {
		t.Subtasks = append([]Subtask(nil), (*p.Subtasks)...)
	}
	if p.Tags != nil {
		t.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.ProjectID != nil {
		t.ProjectID = *p.ProjectID
	}
}

// HabitInput carries the fields of a new or updated habit
type HabitInput struct {
	Name           string    `json:"name" validate:"required,max=255"`
	Emoji          string    `json:"emoji"`
	Frequency      Frequency `json:"frequency" validate:"omitempty,oneof=none daily weekly custom"`
	CustomFreqDays int       `json:"customFreqDays" validate:"gte=0"`
}

// ProjectInput carries the fields of a new or updated project
type ProjectInput struct {
	Name    string    `json:"name" validate:"required,max=255"`
	Emoji   string    `json:"emoji"`
	Color   string    `json:"color" validate:"omitempty,hexcolor"`
	DueDate clock.Day `json:"dueDate" validate:"omitempty,day"`
}

// TagInput carries the fields of a new or updated tag
type TagInput struct {
	Name  string `json:"name" validate:"required,max=64"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
	Emoji string `json:"emoji"`
}

// RewardInput carries the fields of a custom reward
type RewardInput struct {
	Emoji string `json:"emoji"`
	Name  string `json:"name" validate:"required,max=255"`
	Desc  string `json:"desc"`
	Cost  int    `json:"cost" validate:"gte=1"`
}
