package state

import (
	"time"

	"zenflow/internal/domain"
)

// BackgroundNone is the default background selection
const BackgroundNone = "none"

// AppState is every entity the engine owns. It is passed explicitly to each service;
// nothing in the engine holds it as a package-level variable.
type AppState struct {
	Tasks         []*domain.Task
	Projects      []*domain.Project
	Habits        []*domain.Habit
	Tags          []*domain.Tag
	User          domain.UserProfile
	Settings      domain.Settings
	Achievements  domain.Achievements
	Focus         domain.FocusState
	Streak        domain.Streak
	Stats         domain.Stats
	CustomRewards []*domain.Reward
	History       domain.CompletionHistory
	Filters       domain.Filters
	Onboarded     bool
	Background    string
	// LastOpen is when the engine was last opened, nil before the first open
	LastOpen *time.Time
}

// New returns the documented defaults for every record
func New() *AppState {
	return &AppState{
		Tasks:         []*domain.Task{},
		Projects:      []*domain.Project{},
		Habits:        []*domain.Habit{},
		Tags:          []*domain.Tag{},
		User:          domain.NewUserProfile(),
		Settings:      domain.NewSettings(),
		Achievements:  domain.NewAchievements(),
		Focus:         domain.NewFocusState(),
		Stats:         domain.NewStats(),
		CustomRewards: []*domain.Reward{},
		History:       domain.CompletionHistory{},
		Filters:       domain.NewFilters(),
		Background:    BackgroundNone,
	}
}

// repair drops nil entries from every collection and restores the profile invariants.
// It returns the bundle fields that held nil entries.
func (s *AppState) repair() []string {
	var holed []string
	note := func(field string, dropped bool) {
		if dropped {
			holed = append(holed, field)
		}
	}

	var dropped bool
	s.Tasks, dropped = compact(s.Tasks)
	note("tasks", dropped)
	s.Projects, dropped = compact(s.Projects)
	note("projects", dropped)
	s.Habits, dropped = compact(s.Habits)
	note("habits", dropped)
	s.Tags, dropped = compact(s.Tags)
	note("tags", dropped)
	s.CustomRewards, dropped = compact(s.CustomRewards)
	note("customRewards", dropped)

	s.User.Normalize()
	return holed
}

// compact removes nil pointers from items in place and reports whether any were removed
func compact[T any](items []*T) ([]*T, bool) {
	kept := items[:0]
	for _, item := range items {
		if item != nil {
			kept = append(kept, item)
		}
	}
	return kept, len(kept) != len(items)
}

// FindTask returns the task with id, or nil
func (s *AppState) FindTask(id string) *domain.Task {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// FindHabit returns the habit with id, or nil
func (s *AppState) FindHabit(id string) *domain.Habit {
	for _, h := range s.Habits {
		if h.ID == id {
			return h
		}
	}
	return nil
}

// FindProject returns the project with id, or nil
func (s *AppState) FindProject(id string) *domain.Project {
	for _, p := range s.Projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// FindTag returns the tag with id, or nil
func (s *AppState) FindTag(id string) *domain.Tag {
	for _, t := range s.Tags {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Progress snapshots the metrics achievements are measured against
func (s *AppState) Progress() domain.Progress {
	return domain.Progress{
		TasksCompleted: s.Stats.TotalTasksCompleted,
		Streak:         s.Streak.Current,
		FocusMinutes:   s.Stats.TotalFocusMinutes,
		Level:          s.User.Level,
	}
}

// Rewards returns the built-in catalogue followed by custom rewards
func (s *AppState) Rewards() []domain.Reward {
	all := append([]domain.Reward(nil), domain.DefaultRewards...)
	for _, r := range s.CustomRewards {
		all = append(all, *r)
	}
	return all
}
