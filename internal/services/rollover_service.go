package services

import (
	"context"
	"fmt"
	"time"

	"zenflow/internal/clock"
	"zenflow/internal/domain"
	"zenflow/internal/state"

	"go.uber.org/zap"
)

// ComebackInterval is how long the engine must have been closed to earn the comeback bonus
const ComebackInterval = time.Hour

// rolloverServiceImpl implements the RolloverService interface
type rolloverServiceImpl struct {
	env         *Env
	progression ProgressionService
	recurrence  RecurrenceService
}

// NewRolloverService creates a new RolloverService instance
func NewRolloverService(env *Env, progression ProgressionService, recurrence RecurrenceService) RolloverService {
	return &rolloverServiceImpl{env: env, progression: progression, recurrence: recurrence}
}

// Run resets the daily, focus and weekly counters, applies the overdue penalty and generates
// recurring tasks. Every step has its own day marker, so running it again on the same day changes nothing.
func (r *rolloverServiceImpl) Run(ctx context.Context) RolloverReport {
	st := r.env.State
	today := r.env.today()
	report := RolloverReport{Day: today}
	var keys []state.Key

	if st.Stats.LastResetDay != today {
		st.Stats.TasksCompletedToday = 0
		st.Stats.FocusMinutesToday = 0
		st.Stats.LastResetDay = today
		report.DailyReset = true
		keys = append(keys, state.KeyStats)
	}

	if st.Focus.LastSessionDay != today {
		st.Focus.SessionsToday = 0
		st.Focus.LastSessionDay = today
		report.FocusReset = true
		keys = append(keys, state.KeyFocus)
	}

	// a week start the app was not opened on is skipped, not caught up
	if clock.IsWeekStart(today, r.env.WeekStart) && st.Stats.WeekResetDay != today {
		st.Stats.TasksCompletedThisWeek = 0
		st.Stats.WeekResetDay = today
		report.WeeklyReset = true
		keys = append(keys, state.KeyStats)
	}

	if st.User.LastOverdueCheck != today {
		report.OverdueCheck = true
		report.OverdueCount, report.HPLost = r.applyOverduePenalty(today)
		st.User.LastOverdueCheck = today
		keys = append(keys, state.KeyUser)
	}

	r.env.persist(ctx, keys...)
	report.Spawned = r.recurrence.Generate(ctx, today)

	r.env.logger().Debug("rollover complete",
		zap.Stringer("day", today),
		zap.Bool("daily", report.DailyReset),
		zap.Bool("weekly", report.WeeklyReset),
		zap.Int("spawned", len(report.Spawned)))
	return report
}

func (r *rolloverServiceImpl) applyOverduePenalty(today clock.Day) (count, hpLost int) {
	user := &r.env.State.User
	for _, t := range r.env.State.Tasks {
		if t.Status(today) == domain.StatusOverdue {
			count++
		}
	}
	if count == 0 {
		return 0, 0
	}

	penalty := domain.OverduePenalty(count)
	hpLost = min(penalty, user.HP)
	user.HP -= hpLost

	plural := ""
	if count > 1 {
		plural = "s"
	}
	r.env.Metrics.OverduePenalty(hpLost)
	r.env.notify(NotifyWarning, fmt.Sprintf("Lost %d HP from %d overdue task%s!", penalty, count, plural))
	return count, hpLost
}

// Open starts a session: it runs the rollover, records the open time and pays the comeback
// bonus when the previous open was at least an hour ago.
func (r *rolloverServiceImpl) Open(ctx context.Context) OpenReport {
	report := OpenReport{Rollover: r.Run(ctx)}

	st := r.env.State
	now := r.env.now()
	previous := st.LastOpen
	st.LastOpen = &now
	r.env.persist(ctx, state.KeyLastOpen)

	if previous != nil && now.Sub(*previous) >= ComebackInterval {
		r.progression.AddGold(domain.ComebackGold)
		r.env.persist(ctx, state.KeyUser)
		r.env.notify(NotifyReward, fmt.Sprintf("+%d Gold for coming back!", domain.ComebackGold))
		report.ComebackGold = domain.ComebackGold
	}
	return report
}
