package services

import "zenflow/internal/clock"

// streakServiceImpl implements the StreakService interface
type streakServiceImpl struct {
	env *Env
}

// NewStreakService creates a new StreakService instance
func NewStreakService(env *Env) StreakService {
	return &streakServiceImpl{env: env}
}

// Update records activity on today. Consecutive days extend the streak and any gap restarts it at 1.
// It reports false when today was already recorded.
func (s *streakServiceImpl) Update(today clock.Day) bool {
	streak := &s.env.State.Streak
	if streak.LastActiveDay == today {
		return false
	}

	if !streak.LastActiveDay.IsZero() && streak.LastActiveDay == today.Yesterday() {
		streak.Current++
	} else {
		streak.Current = 1
	}
	if streak.Current > streak.Longest {
		streak.Longest = streak.Current
	}
	streak.LastActiveDay = today
	return true
}
