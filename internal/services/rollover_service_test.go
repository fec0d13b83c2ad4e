package services

import (
	"context"
	"testing"
	"time"

	"zenflow/internal/clock"
	"zenflow/internal/domain"
	"zenflow/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRolloverService_Run_DailyAndFocusReset(t *testing.T) {
	h := newHarness(t, monday)
	st := h.env.State
	st.Stats.TasksCompletedToday = 3
	st.Stats.FocusMinutesToday = 50
	st.Stats.TotalTasksCompleted = 9
	st.Stats.LastResetDay = monday.Yesterday()
	st.Focus.SessionsToday = 2
	st.Focus.LastSessionDay = monday.Yesterday()

	report := h.services.Rollover.Run(context.Background())

	assert.True(t, report.DailyReset)
	assert.True(t, report.FocusReset)
	assert.Equal(t, 0, st.Stats.TasksCompletedToday)
	assert.Equal(t, 0, st.Stats.FocusMinutesToday)
	assert.Equal(t, 9, st.Stats.TotalTasksCompleted, "lifetime counters survive")
	assert.Equal(t, monday, st.Stats.LastResetDay)
	assert.Equal(t, 0, st.Focus.SessionsToday)
	assert.Equal(t, monday, st.Focus.LastSessionDay)

	persisted := h.reload()
	assert.Equal(t, monday, persisted.Stats.LastResetDay)
	assert.Equal(t, monday, persisted.Focus.LastSessionDay)
}

func TestRolloverService_Run_WeeklyReset(t *testing.T) {
	tests := []struct {
		name        string
		day         clock.Day
		weekResetOn clock.Day
		wantReset   bool
		wantCount   int
	}{
		{
			name:      "should reset on the week start",
			day:       monday,
			wantReset: true,
			wantCount: 0,
		},
		{
			name:        "should reset once per week start",
			day:         monday,
			weekResetOn: monday,
			wantReset:   false,
			wantCount:   4,
		},
		{
			name:      "should skip a week start the app was not opened on",
			day:       monday.AddDays(1),
			wantReset: false,
			wantCount: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.day)
			h.env.State.Stats.TasksCompletedThisWeek = 4
			h.env.State.Stats.WeekResetDay = tt.weekResetOn

			report := h.services.Rollover.Run(context.Background())

			assert.Equal(t, tt.wantReset, report.WeeklyReset)
			assert.Equal(t, tt.wantCount, h.env.State.Stats.TasksCompletedThisWeek)
		})
	}
}

func TestRolloverService_Run_OverduePenalty(t *testing.T) {
	tests := []struct {
		name       string
		overdue    int
		hp         int
		wantHP     int
		wantLost   int
		wantNotice string
	}{
		{
			name:       "should charge 5 HP per overdue task",
			overdue:    3,
			hp:         100,
			wantHP:     85,
			wantLost:   15,
			wantNotice: "Lost 15 HP from 3 overdue tasks!",
		},
		{
			name:       "should use the singular for one task",
			overdue:    1,
			hp:         100,
			wantHP:     95,
			wantLost:   5,
			wantNotice: "Lost 5 HP from 1 overdue task!",
		},
		{
			name:       "should cap the penalty at 50",
			overdue:    12,
			hp:         100,
			wantHP:     50,
			wantLost:   50,
			wantNotice: "Lost 50 HP from 12 overdue tasks!",
		},
		{
			name:       "should never take HP below zero",
			overdue:    12,
			hp:         20,
			wantHP:     0,
			wantLost:   20,
			wantNotice: "Lost 50 HP from 12 overdue tasks!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			h := newHarness(t, monday)
			for range tt.overdue {
				h.addTask(t, domain.TaskInput{Title: "late", DueDate: monday.AddDays(-2)})
			}
			done := h.addTask(t, domain.TaskInput{Title: "late but done", DueDate: monday.AddDays(-2)})
			done.MarkCompleted(h.clock.Now())
			h.addTask(t, domain.TaskInput{Title: "due today", DueDate: monday})
			h.env.State.User.HP = tt.hp
			h.collector.Drain()

			report := h.services.Rollover.Run(ctx)

			assert.True(t, report.OverdueCheck)
			assert.Equal(t, tt.overdue, report.OverdueCount)
			assert.Equal(t, tt.wantLost, report.HPLost)
			assert.Equal(t, tt.wantHP, h.env.State.User.HP)
			assert.Equal(t, monday, h.env.State.User.LastOverdueCheck)
			assert.Equal(t, []Notification{{Kind: NotifyWarning, Message: tt.wantNotice}}, h.collector.Drain())

			again := h.services.Rollover.Run(ctx)
			assert.False(t, again.OverdueCheck, "should apply the penalty once per day")
			assert.Equal(t, tt.wantHP, h.env.State.User.HP)
			assert.Equal(t, tt.wantHP, h.reload().User.HP)
		})
	}
}

func TestRolloverService_Run_NothingOverdue(t *testing.T) {
	h := newHarness(t, monday)
	h.addTask(t, domain.TaskInput{Title: "future", DueDate: monday.AddDays(3)})
	h.addTask(t, domain.TaskInput{Title: "undated"})
	h.collector.Drain()

	report := h.services.Rollover.Run(context.Background())

	assert.True(t, report.OverdueCheck)
	assert.Zero(t, report.OverdueCount)
	assert.Equal(t, 100, h.env.State.User.HP)
	assert.Empty(t, h.collector.Drain())
}

func TestRolloverService_Run_Recurrence(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, monday)
	task := h.addTask(t, domain.TaskInput{Title: "Stretch", Frequency: domain.FrequencyDaily, Tags: []string{"health"}})
	require.NotNil(t, h.services.Ledger.CompleteTask(ctx, task.ID))

	sameDay := h.services.Rollover.Run(ctx)
	assert.Empty(t, sameDay.Spawned, "should wait until the next occurrence is due")

	h.clock.AdvanceDays(1)
	tuesday := monday.AddDays(1)
	first := h.services.Rollover.Run(ctx)

	require.Len(t, first.Spawned, 1)
	spawned := first.Spawned[0]
	assert.NotEqual(t, task.ID, spawned.ID)
	assert.Equal(t, "Stretch", spawned.Title)
	assert.Equal(t, tuesday, spawned.DueDate)
	assert.False(t, spawned.Completed)
	assert.Nil(t, spawned.CompletedAt)
	assert.Equal(t, []string{"health"}, spawned.Tags)
	assert.Equal(t, tuesday, task.LastRecurDay)
	assert.True(t, task.Completed, "should leave the source completed")

	rerun := h.services.Rollover.Run(ctx)
	assert.Empty(t, rerun.Spawned, "should not respawn on the same day")

	h.clock.AdvanceDays(1)
	later := h.services.Rollover.Run(ctx)
	require.Len(t, later.Spawned, 1, "should spawn again on a later day")
	assert.Equal(t, tuesday, later.Spawned[0].DueDate)
	assert.Equal(t, monday.AddDays(2), task.LastRecurDay)

	assert.Len(t, h.env.State.Tasks, 3)
	assert.Len(t, h.reload().Tasks, 3)
}

func TestRecurrenceService_Generate_Intervals(t *testing.T) {
	tests := []struct {
		name       string
		frequency  domain.Frequency
		customDays int
		after      int
		wantDue    int
	}{
		{"should spawn weekly tasks seven days later", domain.FrequencyWeekly, 0, 7, 7},
		{"should not spawn weekly tasks early", domain.FrequencyWeekly, 0, 6, -1},
		{"should honour a custom interval", domain.FrequencyCustom, 3, 3, 3},
		{"should date a late spawn at the missed occurrence", domain.FrequencyCustom, 3, 5, 3},
		{"should never spawn one-off tasks", domain.FrequencyNone, 0, 30, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			h := newHarness(t, monday)
			task := h.addTask(t, domain.TaskInput{Title: "repeat", Frequency: tt.frequency, CustomFreqDays: tt.customDays})
			require.NotNil(t, h.services.Ledger.CompleteTask(ctx, task.ID))

			h.clock.AdvanceDays(tt.after)
			spawned := h.services.Recurrence.Generate(ctx, clock.Today(h.clock))

			if tt.wantDue < 0 {
				assert.Empty(t, spawned)
				return
			}
			require.Len(t, spawned, 1)
			assert.Equal(t, monday.AddDays(tt.wantDue), spawned[0].DueDate)
		})
	}
}

func TestRolloverService_Run_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, monday)
	st := h.env.State
	daily := h.addTask(t, domain.TaskInput{Title: "daily", Frequency: domain.FrequencyDaily})
	h.addTask(t, domain.TaskInput{Title: "late", DueDate: monday.AddDays(-1)})
	require.NotNil(t, h.services.Ledger.CompleteTask(ctx, daily.ID))
	st.Stats.TasksCompletedThisWeek = 6
	st.Focus.SessionsToday = 3

	h.clock.AdvanceDays(7)
	h.services.Rollover.Run(ctx)
	first, err := state.Export(st, h.clock.Now())
	require.NoError(t, err)

	h.services.Rollover.Run(ctx)
	second, err := state.Export(st, h.clock.Now())
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
}

func TestRolloverService_Open(t *testing.T) {
	tests := []struct {
		name      string
		lastOpen  *time.Duration
		wantBonus int
	}{
		{name: "should not pay on the first open", lastOpen: nil, wantBonus: 0},
		{name: "should pay after two hours away", lastOpen: durationPtr(2 * time.Hour), wantBonus: domain.ComebackGold},
		{name: "should pay at exactly one hour", lastOpen: durationPtr(time.Hour), wantBonus: domain.ComebackGold},
		{name: "should not pay after thirty minutes", lastOpen: durationPtr(30 * time.Minute), wantBonus: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, monday)
			now := h.clock.Now()
			if tt.lastOpen != nil {
				previous := now.Add(-*tt.lastOpen)
				h.env.State.LastOpen = &previous
			}

			report := h.services.Rollover.Open(context.Background())

			assert.Equal(t, tt.wantBonus, report.ComebackGold)
			assert.Equal(t, tt.wantBonus, h.env.State.User.Gold)
			require.NotNil(t, h.env.State.LastOpen)
			assert.Equal(t, now, *h.env.State.LastOpen)
			assert.True(t, report.Rollover.DailyReset)

			persisted := h.reload()
			require.NotNil(t, persisted.LastOpen)
			assert.True(t, now.Equal(*persisted.LastOpen))
			assert.Equal(t, tt.wantBonus, persisted.User.Gold)
		})
	}
}

func durationPtr(d time.Duration) *time.Duration {
	return &d
}
