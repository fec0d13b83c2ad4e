package services

import (
	"context"
	"fmt"

	"zenflow/internal/domain"
	"zenflow/internal/state"
	"zenflow/internal/validation"
)

// focusServiceImpl implements the FocusService interface
type focusServiceImpl struct {
	env          *Env
	progression  ProgressionService
	streak       StreakService
	achievements AchievementService
	timer        *domain.FocusTimer
}

// NewFocusService creates a new FocusService with a stopped work phase
func NewFocusService(env *Env, progression ProgressionService, streak StreakService, achievements AchievementService) FocusService {
	return &focusServiceImpl{
		env:          env,
		progression:  progression,
		streak:       streak,
		achievements: achievements,
		timer:        domain.NewFocusTimer(env.State.Focus.WorkMinutes),
	}
}

// Timer returns a snapshot of the countdown
func (f *focusServiceImpl) Timer() domain.FocusTimer {
	return *f.timer
}

func (f *focusServiceImpl) Start() {
	if f.timer.Remaining <= 0 {
		f.timer.Reset(f.env.State.Focus.WorkMinutes)
	}
	f.timer.Running = true
}

// Pause stops ticking and keeps the remaining time
func (f *focusServiceImpl) Pause() {
	f.timer.Running = false
}

// Reset discards elapsed time and returns to a stopped work phase
func (f *focusServiceImpl) Reset() {
	f.timer.Reset(f.env.State.Focus.WorkMinutes)
}

// Skip ends the current phase early without any reward
func (f *focusServiceImpl) Skip() {
	focus := f.env.State.Focus
	f.timer.Switch(focus.WorkMinutes, focus.BreakMinutes)
}

// Tick advances a running timer by one second. When a work phase reaches zero the session
// is completed before the timer switches to a stopped break.
func (f *focusServiceImpl) Tick(ctx context.Context) FocusEvent {
	if !f.timer.Tick() {
		return FocusEvent{}
	}
	if f.timer.Mode == domain.FocusWork {
		return f.CompleteSession(ctx)
	}

	focus := f.env.State.Focus
	f.timer.Switch(focus.WorkMinutes, focus.BreakMinutes)
	f.env.notify(NotifyInfo, "Break over! Ready to focus?")
	return FocusEvent{PhaseEnded: true, BreakEnded: true}
}

// CompleteSession pays the focus reward for one full work phase and switches to a break
func (f *focusServiceImpl) CompleteSession(ctx context.Context) FocusEvent {
	st := f.env.State
	today := f.env.today()

	st.Focus.SessionsToday++
	st.Focus.TotalSessions++
	st.Focus.LastSessionDay = today

	levels := f.progression.AddXP(domain.FocusSessionXP)
	f.progression.AddGold(domain.FocusSessionGold)
	st.Stats.RecordFocus(today, st.Focus.WorkMinutes)
	f.env.persist(ctx, state.KeyFocus, state.KeyStats, state.KeyUser)

	if f.streak.Update(today) {
		f.env.persist(ctx, state.KeyStreak)
	}
	unlocked := f.achievements.Evaluate(ctx)

	f.env.Metrics.FocusSessionCompleted()
	f.env.notify(NotifySuccess, fmt.Sprintf("Focus session complete! +%d XP", domain.FocusSessionXP))

	f.timer.Mode = domain.FocusWork
	f.timer.Switch(st.Focus.WorkMinutes, st.Focus.BreakMinutes)
	return FocusEvent{PhaseEnded: true, SessionCompleted: true, LevelsGained: levels, Unlocked: unlocked}
}

// SetDurations stores clamped work and break minutes. A stopped timer picks up the new length.
func (f *focusServiceImpl) SetDurations(ctx context.Context, workMinutes, breakMinutes int) domain.FocusState {
	focus := &f.env.State.Focus
	focus.WorkMinutes, focus.BreakMinutes = validation.ClampFocusDurations(workMinutes, breakMinutes)
	f.env.persist(ctx, state.KeyFocus)

	if !f.timer.Running {
		if f.timer.Mode == domain.FocusWork {
			f.timer.Remaining = focus.WorkMinutes * 60
		} else {
			f.timer.Remaining = focus.BreakMinutes * 60
		}
	}
	return *focus
}
