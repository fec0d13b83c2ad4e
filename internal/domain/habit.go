package domain

import (
	"time"

	"zenflow/internal/clock"
)

// Habit is a repeating activity tracked as a set of done days
type Habit struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Emoji          string             `json:"emoji"`
	Frequency      Frequency          `json:"frequency"`
	CustomFreqDays int                `json:"customFreqDays"`
	Completions    map[clock.Day]bool `json:"completions"`
	// Streak and LongestStreak are caches recomputed on every toggle
	Streak        int       `json:"streak"`
	LongestStreak int       `json:"longestStreak"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DoneOn reports whether the habit was marked done on day
func (h *Habit) DoneOn(day clock.Day) bool {
	return h.Completions[day]
}

// RefreshStreak recomputes the cached streak for today and raises the longest streak if needed
func (h *Habit) RefreshStreak(today clock.Day) {
	h.Streak = HabitStreak(h.Completions, today)
	if h.Streak > h.LongestStreak {
		h.LongestStreak = h.Streak
	}
}

// HabitStreak counts consecutive done days ending today, or ending yesterday when today
// is not yet done. It stops at the first gap.
func HabitStreak(completions map[clock.Day]bool, today clock.Day) int {
	day := today
	if !completions[day] {
		day = day.Yesterday()
	}
	streak := 0
	for completions[day] {
		streak++
		day = day.Yesterday()
	}
	return streak
}
