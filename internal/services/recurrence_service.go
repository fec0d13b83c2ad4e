package services

import (
	"context"

	"zenflow/internal/clock"
	"zenflow/internal/domain"
	"zenflow/internal/state"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// recurrenceServiceImpl implements the RecurrenceService interface
type recurrenceServiceImpl struct {
	env *Env
}

// NewRecurrenceService creates a new RecurrenceService instance
func NewRecurrenceService(env *Env) RecurrenceService {
	return &recurrenceServiceImpl{env: env}
}

// Generate spawns the next occurrence of every completed recurring task that is due by today.
// A source spawns at most once per day: its LastRecurDay is set to today on spawn. It stays
// completed, so it spawns again on any later day its next occurrence is still due.
func (r *recurrenceServiceImpl) Generate(ctx context.Context, today clock.Day) []*domain.Task {
	st := r.env.State
	now := r.env.now()

	var spawned []*domain.Task
	for _, task := range st.Tasks {
		if !task.Completed || !task.IsRecurring() {
			continue
		}
		next := task.CompletionDay(today).AddDays(task.Frequency.Interval(task.CustomFreqDays))
		if next.After(today) {
			continue
		}
		if task.LastRecurDay == today {
			continue
		}

		clone := task.Clone()
		clone.ID = uuid.NewString()
		clone.MarkIncomplete(now)
		clone.DueDate = next
		clone.CreatedAt = now
		clone.LastRecurDay = ""
		spawned = append(spawned, clone)

		task.LastRecurDay = today
		r.env.logger().Debug("recurring task spawned",
			zap.String("source", task.ID), zap.String("id", clone.ID), zap.Stringer("due", next))
	}

	st.Tasks = append(st.Tasks, spawned...)
	r.env.persist(ctx, state.KeyTasks)
	r.env.Metrics.RecurrencesSpawned(len(spawned))
	return spawned
}
