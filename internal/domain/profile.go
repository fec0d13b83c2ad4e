package domain

import (
	"time"

	"zenflow/internal/clock"
)

// Character classes are flavour only
const (
	ClassWarrior = "warrior"
	ClassMage    = "mage"
	ClassRogue   = "rogue"
	ClassHealer  = "healer"
)

// UserProfile holds the progression economy of the single local user
type UserProfile struct {
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Class    string `json:"class"`
	Level    int    `json:"level"`
	XP       int    `json:"xp"`
	XPToNext int    `json:"xpToNext"`
	HP       int    `json:"hp"`
	MaxHP    int    `json:"maxHp"`
	Gold     int    `json:"gold"`
	// TotalGold and TotalXP only ever grow
	TotalGold int    `json:"totalGold"`
	TotalXP   int    `json:"totalXp"`
	Pet       string `json:"pet"`
	PetName   string `json:"petName"`
	// LastOverdueCheck is the day the overdue penalty last ran
	LastOverdueCheck clock.Day `json:"lastOverdueCheck"`
}

// NewUserProfile returns a level 1 profile with no progress
func NewUserProfile() UserProfile {
	return UserProfile{
		Name:     "Adventurer",
		Class:    ClassWarrior,
		Level:    1,
		XPToNext: XPForLevel(1),
		HP:       100,
		MaxHP:    100,
	}
}

// levelCeiling bounds the level a loaded profile can claim, keeping XPForLevel finite
const levelCeiling = 100

// Normalize restores the profile invariants on data that did not come from the engine.
// Balances never go negative, HP stays within 0..MaxHP, the level is at least 1 and
// XP stays below XPToNext. Excess XP rolls into levels without any level-up side effects.
func (u *UserProfile) Normalize() {
	u.Level = min(max(u.Level, 1), levelCeiling)
	u.XP = max(u.XP, 0)
	u.Gold = max(u.Gold, 0)
	u.TotalGold = max(u.TotalGold, 0)
	u.TotalXP = max(u.TotalXP, 0)
	if u.MaxHP <= 0 {
		u.MaxHP = NewUserProfile().MaxHP
	}
	u.HP = min(max(u.HP, 0), u.MaxHP)
	if u.XPToNext <= 0 {
		u.XPToNext = XPForLevel(u.Level)
	}

	for u.XP >= u.XPToNext && u.Level < levelCeiling {
		u.XP -= u.XPToNext
		u.Level++
		u.XPToNext = XPForLevel(u.Level)
	}
	if u.XP >= u.XPToNext {
		u.XP = u.XPToNext - 1
	}
}

// Streak tracks consecutive days with at least one qualifying activity
type Streak struct {
	Current       int       `json:"current"`
	Longest       int       `json:"longest"`
	LastActiveDay clock.Day `json:"lastActiveDate"`
}

// Stats holds rolling and lifetime activity counters
type Stats struct {
	TasksCompletedToday    int               `json:"tasksCompletedToday"`
	TasksCompletedThisWeek int               `json:"tasksCompletedThisWeek"`
	TotalTasksCompleted    int               `json:"totalTasksCompleted"`
	FocusMinutesToday      int               `json:"focusTimeToday"`
	TotalFocusMinutes      int               `json:"totalFocusTime"`
	LastResetDay           clock.Day         `json:"lastResetDate"`
	WeekResetDay           clock.Day         `json:"weekResetDate"`
	DailyCompletions       map[clock.Day]int `json:"dailyCompletions"`
	DailyFocus             map[clock.Day]int `json:"dailyFocus"`
}

// NewStats returns zeroed counters with initialised maps
func NewStats() Stats {
	return Stats{
		DailyCompletions: make(map[clock.Day]int),
		DailyFocus:       make(map[clock.Day]int),
	}
}

// RecordCompletion increments every completion counter for day
func (s *Stats) RecordCompletion(day clock.Day) {
	if s.DailyCompletions == nil {
		s.DailyCompletions = make(map[clock.Day]int)
	}
	s.TasksCompletedToday++
	s.TasksCompletedThisWeek++
	s.TotalTasksCompleted++
	s.DailyCompletions[day]++
}

// RevertCompletion decrements every completion counter for day, never below zero
func (s *Stats) RevertCompletion(day clock.Day) {
	s.TasksCompletedToday = decrement(s.TasksCompletedToday)
	s.TasksCompletedThisWeek = decrement(s.TasksCompletedThisWeek)
	s.TotalTasksCompleted = decrement(s.TotalTasksCompleted)
	if n, ok := s.DailyCompletions[day]; ok && n > 0 {
		s.DailyCompletions[day] = n - 1
	}
}

// RecordFocus adds minutes of focus time to day
func (s *Stats) RecordFocus(day clock.Day, minutes int) {
	if s.DailyFocus == nil {
		s.DailyFocus = make(map[clock.Day]int)
	}
	s.FocusMinutesToday += minutes
	s.TotalFocusMinutes += minutes
	s.DailyFocus[day] += minutes
}

func decrement(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}

// Focus duration bounds in minutes
const (
	DefaultWorkMinutes  = 25
	DefaultBreakMinutes = 5
	MinWorkMinutes      = 1
	MaxWorkMinutes      = 120
	MinBreakMinutes     = 1
	MaxBreakMinutes     = 30
)

// FocusState is the persisted focus configuration and session counters
type FocusState struct {
	WorkMinutes    int       `json:"workDuration"`
	BreakMinutes   int       `json:"breakDuration"`
	SessionsToday  int       `json:"sessionsToday"`
	TotalSessions  int       `json:"totalSessions"`
	LastSessionDay clock.Day `json:"lastSessionDate"`
}

// NewFocusState returns the default 25/5 configuration
func NewFocusState() FocusState {
	return FocusState{
		WorkMinutes:  DefaultWorkMinutes,
		BreakMinutes: DefaultBreakMinutes,
	}
}

// Settings are user interface preferences carried in exports
type Settings struct {
	Theme            string `json:"theme"`
	SoundEnabled     bool   `json:"soundEnabled"`
	SidebarCollapsed bool   `json:"sidebarCollapsed"`
}

// NewSettings returns the default preferences
func NewSettings() Settings {
	return Settings{Theme: "dark", SoundEnabled: true}
}

// FilterAll matches any project or tag
const FilterAll = "all"

// Filters are the persisted task list filter preferences
type Filters struct {
	Status   []TaskStatus `json:"status"`
	Priority []Priority   `json:"priority"`
	Project  string       `json:"project"`
	Tag      string       `json:"tag"`
}

// NewFilters returns filters that let every task through
func NewFilters() Filters {
	return Filters{
		Status:   append([]TaskStatus(nil), TaskStatuses...),
		Priority: append([]Priority(nil), Priorities...),
		Project:  FilterAll,
		Tag:      FilterAll,
	}
}

// CompletionRecord is one entry of the completion audit log
type CompletionRecord struct {
	TaskID string    `json:"taskId"`
	Title  string    `json:"title"`
	At     time.Time `json:"time"`
}

// CompletionHistory maps a day to the completions recorded on it, in order
type CompletionHistory map[clock.Day][]CompletionRecord

// Append adds a record to day
func (h CompletionHistory) Append(day clock.Day, rec CompletionRecord) {
	h[day] = append(h[day], rec)
}
