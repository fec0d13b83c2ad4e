package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"zenflow/internal/domain"
	"zenflow/internal/errors"
	"zenflow/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_CreateTask(t *testing.T) {
	tests := []struct {
		name           string
		input          domain.TaskInput
		want           func(t *testing.T, task *domain.Task)
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:  "should apply the documented defaults",
			input: domain.TaskInput{},
			want: func(t *testing.T, task *domain.Task) {
				assert.Equal(t, DefaultTaskTitle, task.Title)
				assert.Equal(t, domain.PriorityP4, task.Priority)
				assert.Equal(t, domain.DifficultyEasy, task.Difficulty)
				assert.Equal(t, domain.FrequencyNone, task.Frequency)
				assert.False(t, task.Completed)
				assert.Nil(t, task.CompletedAt)
			},
		},
		{
			name:  "should keep supplied fields",
			input: domain.TaskInput{Title: "  Ship it  ", Priority: domain.PriorityP1, Difficulty: domain.DifficultyHard, Tags: []string{"work"}},
			want: func(t *testing.T, task *domain.Task) {
				assert.Equal(t, "Ship it", task.Title)
				assert.Equal(t, domain.PriorityP1, task.Priority)
				assert.Equal(t, domain.DifficultyHard, task.Difficulty)
				assert.Equal(t, []string{"work"}, task.Tags)
			},
		},
		{
			name:  "should reject an over-long title",
			input: domain.TaskInput{Title: strings.Repeat("a", 256)},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
			},
		},
		{
			name:  "should reject a custom frequency without an interval",
			input: domain.TaskInput{Frequency: domain.FrequencyCustom},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, monday)

			task, err := h.services.Ledger.CreateTask(context.Background(), tt.input)

			if tt.errorAssertion != nil {
				tt.errorAssertion(t, err)
				assert.Nil(t, task)
				assert.Empty(t, h.env.State.Tasks)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, task)
			assert.NotEmpty(t, task.ID)
			assert.Equal(t, h.clock.Now(), task.CreatedAt)
			tt.want(t, task)
			assert.Equal(t, []NotificationKind{NotifySuccess}, kinds(h.collector.Drain()))
			assert.Len(t, h.reload().Tasks, 1, "should persist the new task")
		})
	}
}

func TestLedgerService_CreateTask_Prepends(t *testing.T) {
	h := newHarness(t, monday)

	first := h.addTask(t, domain.TaskInput{Title: "first"})
	second := h.addTask(t, domain.TaskInput{Title: "second"})

	require.Len(t, h.env.State.Tasks, 2)
	assert.Equal(t, second.ID, h.env.State.Tasks[0].ID)
	assert.Equal(t, first.ID, h.env.State.Tasks[1].ID)
}

func TestLedgerService_UpdateTask(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, monday)
	task := h.addTask(t, domain.TaskInput{Title: "draft", Notes: "keep me"})
	h.clock.Advance(5 * time.Minute)

	title := "final"
	priority := domain.PriorityP2
	updated, err := h.services.Ledger.UpdateTask(ctx, task.ID, domain.TaskPatch{Title: &title, Priority: &priority})

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, domain.PriorityP2, updated.Priority)
	assert.Equal(t, "keep me", updated.Notes, "should leave unset fields alone")
	assert.Equal(t, h.clock.Now(), updated.UpdatedAt)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	missing, err := h.services.Ledger.UpdateTask(ctx, "nope", domain.TaskPatch{Title: &title})
	assert.NoError(t, err)
	assert.Nil(t, missing, "should no-op for an unknown id")

	custom := domain.FrequencyCustom
	_, err = h.services.Ledger.UpdateTask(ctx, task.ID, domain.TaskPatch{Frequency: &custom})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
	assert.Equal(t, domain.FrequencyNone, h.env.State.FindTask(task.ID).Frequency, "should not apply a rejected patch")
}

func TestLedgerService_DeleteTask(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, monday)
	task := h.addTask(t, domain.TaskInput{Title: "gone"})

	assert.True(t, h.services.Ledger.DeleteTask(ctx, task.ID))
	assert.False(t, h.services.Ledger.DeleteTask(ctx, task.ID))
	assert.Empty(t, h.env.State.Tasks)
	assert.Empty(t, h.reload().Tasks)
}

func TestLedgerService_ToggleSubtask(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, monday)
	task := h.addTask(t, domain.TaskInput{Title: "list", Subtasks: []domain.Subtask{{Text: "a"}, {Text: "b"}}})
	gold := h.env.State.User.Gold

	toggled, err := h.services.Ledger.ToggleSubtask(ctx, task.ID, 1)
	require.NoError(t, err)
	assert.True(t, toggled.Subtasks[1].Done)
	assert.False(t, toggled.Completed, "should not complete the parent")
	assert.Equal(t, gold, h.env.State.User.Gold)

	_, err = h.services.Ledger.ToggleSubtask(ctx, task.ID, 5)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))

	missing, err := h.services.Ledger.ToggleSubtask(ctx, "nope", 0)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLedgerService_CompleteTask_NewProfileScenario(t *testing.T) {
	h := newHarness(t, monday)
	task := h.addTask(t, domain.TaskInput{Title: "boss fight", Difficulty: domain.DifficultyHard})
	h.collector.Drain()

	result := h.services.Ledger.CompleteTask(context.Background(), task.ID)

	require.NotNil(t, result)
	st := h.env.State
	assert.Equal(t, 20, result.XP)
	assert.Equal(t, 10, result.Gold)
	assert.Equal(t, 0, result.LevelsGained)
	assert.Equal(t, 1, st.User.Level)
	assert.Equal(t, 20, st.User.XP)
	assert.Equal(t, 1, st.Stats.TotalTasksCompleted)
	assert.Equal(t, 1, st.Streak.Current)
	assert.Equal(t, []domain.AchievementID{"tasks-1"}, result.Unlocked)
	assert.Equal(t, 10+domain.AchievementGold, st.User.Gold, "completion award plus the first-task achievement bonus")

	assert.True(t, task.Completed)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, h.clock.Now(), *task.CompletedAt)
	require.Len(t, st.History[monday], 1)
	assert.Equal(t, task.ID, st.History[monday][0].TaskID)
	assert.Equal(t, 1, st.Stats.DailyCompletions[monday])

	assert.Equal(t, []NotificationKind{NotifyAchievement, NotifySuccess}, kinds(h.collector.Drain()))

	persisted := h.reload()
	assert.Equal(t, st.User, persisted.User)
	assert.Equal(t, st.Stats, persisted.Stats)
	assert.Equal(t, st.Streak, persisted.Streak)
	assert.True(t, persisted.Achievements["tasks-1"])
}

func TestLedgerService_CompleteTask_NoOps(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, monday)
	task := h.addTask(t, domain.TaskInput{Title: "once"})

	assert.Nil(t, h.services.Ledger.CompleteTask(ctx, "nope"))
	require.NotNil(t, h.services.Ledger.CompleteTask(ctx, task.ID))
	before := h.env.State.User

	assert.Nil(t, h.services.Ledger.CompleteTask(ctx, task.ID), "should not pay twice")
	assert.Equal(t, before, h.env.State.User)
	assert.Equal(t, 1, h.env.State.Stats.TotalTasksCompleted)

	assert.Nil(t, h.services.Ledger.UncompleteTask(ctx, "nope"))
}

func TestLedgerService_CompleteThenUncomplete(t *testing.T) {
	tests := []struct {
		name       string
		difficulty domain.Difficulty
		award      int
		penalty    int
	}{
		{"should net -1 gold for easy", domain.DifficultyEasy, 2, 3},
		{"should net 0 gold for medium", domain.DifficultyMedium, 5, 5},
		{"should net 0 gold for hard", domain.DifficultyHard, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			h := newHarness(t, monday)
			h.unlockAll()
			h.env.State.User.Gold = 50
			stats := h.env.State.Stats
			task := h.addTask(t, domain.TaskInput{Title: "flip", Difficulty: tt.difficulty})

			require.NotNil(t, h.services.Ledger.CompleteTask(ctx, task.ID))
			xpAfterComplete := h.env.State.User.XP
			undo := h.services.Ledger.UncompleteTask(ctx, task.ID)

			require.NotNil(t, undo)
			assert.Equal(t, tt.penalty, undo.Penalty)
			assert.Equal(t, 50+tt.award-tt.penalty, h.env.State.User.Gold)
			assert.Equal(t, xpAfterComplete, h.env.State.User.XP, "should never reverse XP")
			assert.Equal(t, stats.TasksCompletedToday, h.env.State.Stats.TasksCompletedToday)
			assert.Equal(t, stats.TasksCompletedThisWeek, h.env.State.Stats.TasksCompletedThisWeek)
			assert.Equal(t, stats.TotalTasksCompleted, h.env.State.Stats.TotalTasksCompleted)
			assert.Equal(t, 0, h.env.State.Stats.DailyCompletions[monday])
			assert.False(t, task.Completed)
			assert.Nil(t, task.CompletedAt)
		})
	}
}

func TestLedgerService_UncompleteTask_ClampsAtZero(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, monday)
	h.unlockAll()
	task := h.addTask(t, domain.TaskInput{Title: "hard", Difficulty: domain.DifficultyHard})

	for range 3 {
		require.NotNil(t, h.services.Ledger.CompleteTask(ctx, task.ID))
		h.env.State.User.Gold = 1
		h.env.State.Stats = domain.NewStats()

		undo := h.services.Ledger.UncompleteTask(ctx, task.ID)

		require.NotNil(t, undo)
		assert.Equal(t, 1, undo.Deducted)
		assert.Equal(t, 0, h.env.State.User.Gold)
		assert.Equal(t, 0, h.env.State.Stats.TotalTasksCompleted)
		assert.Equal(t, 0, h.env.State.Stats.TasksCompletedToday)
	}
	assert.Contains(t, kinds(h.collector.Drain()), NotifyPenalty)
}

func TestLedgerService_AchievementsAreMonotonic(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, monday)
	task := h.addTask(t, domain.TaskInput{Title: "first"})

	h.services.Ledger.CompleteTask(ctx, task.ID)
	require.True(t, h.env.State.Achievements["tasks-1"])
	gold := h.env.State.User.Gold

	h.services.Ledger.UncompleteTask(ctx, task.ID)
	assert.Equal(t, 0, h.env.State.Stats.TotalTasksCompleted)
	assert.True(t, h.env.State.Achievements["tasks-1"], "should never re-lock")

	h.services.Ledger.CompleteTask(ctx, task.ID)
	assert.Equal(t, gold-domain.UndoPenalty(domain.DifficultyEasy)+2, h.env.State.User.Gold, "should not pay the bonus twice")
}

func TestLedgerService_Projects(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, monday)
	ledger := h.services.Ledger

	project, err := ledger.CreateProject(ctx, domain.ProjectInput{Name: "Launch", Color: "#336699"})
	require.NoError(t, err)
	done := h.addTask(t, domain.TaskInput{Title: "a", ProjectID: project.ID})
	h.addTask(t, domain.TaskInput{Title: "b", ProjectID: project.ID})
	h.addTask(t, domain.TaskInput{Title: "c"})
	ledger.CompleteTask(ctx, done.ID)

	progress, ok := ledger.ProjectProgress(project.ID)
	require.True(t, ok)
	assert.Equal(t, domain.ProjectProgress{Total: 2, Done: 1, Percent: 50}, progress)

	renamed, err := ledger.UpdateProject(ctx, project.ID, domain.ProjectInput{Name: "Launch v2"})
	require.NoError(t, err)
	assert.Equal(t, "Launch v2", renamed.Name)

	missing, err := ledger.UpdateProject(ctx, "nope", domain.ProjectInput{Name: "x"})
	assert.NoError(t, err)
	assert.Nil(t, missing)

	assert.True(t, ledger.DeleteProject(ctx, project.ID))
	assert.False(t, ledger.DeleteProject(ctx, project.ID))
	assert.Len(t, h.env.State.Tasks, 3, "should keep the project's tasks")
	for _, task := range h.env.State.Tasks {
		assert.Empty(t, task.ProjectID)
	}
	_, ok = ledger.ProjectProgress(project.ID)
	assert.False(t, ok)
}

func TestLedgerService_Tags(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, monday)
	ledger := h.services.Ledger

	tag, err := ledger.CreateTag(ctx, domain.TagInput{Name: "work"})
	require.NoError(t, err)
	a := h.addTask(t, domain.TaskInput{Title: "a", Tags: []string{"work", "urgent"}})
	b := h.addTask(t, domain.TaskInput{Title: "b", Tags: []string{"Work"}})
	c := h.addTask(t, domain.TaskInput{Title: "c", Tags: []string{"job", "work"}})

	_, err = ledger.UpdateTag(ctx, tag.ID, domain.TagInput{Name: "job"})
	require.NoError(t, err)

	assert.Equal(t, []string{"job", "urgent"}, a.Tags)
	assert.Equal(t, []string{"Work"}, b.Tags, "tag names are case-sensitive")
	assert.Equal(t, []string{"job"}, c.Tags, "should not duplicate an existing name")
	assert.Equal(t, []string{"job", "urgent"}, h.reload().FindTask(a.ID).Tags)

	assert.True(t, ledger.DeleteTag(ctx, tag.ID))
	assert.Equal(t, []string{"urgent"}, a.Tags)
	assert.Empty(t, c.Tags)
	assert.False(t, ledger.DeleteTag(ctx, tag.ID))

	missing, err := ledger.UpdateTag(ctx, "nope", domain.TagInput{Name: "x"})
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLedgerService_ListTasks(t *testing.T) {
	h := newHarness(t, monday)
	overdue := h.addTask(t, domain.TaskInput{Title: "Pay rent", DueDate: monday.AddDays(-1), Priority: domain.PriorityP1})
	pending := h.addTask(t, domain.TaskInput{Title: "Call mum", Notes: "about RENT", DueDate: monday.AddDays(2)})
	h.addTask(t, domain.TaskInput{Title: "Walk"})

	byText := h.services.Ledger.ListTasks(domain.SearchOptions{Text: "rent", Sort: domain.SortDueDate})
	require.Len(t, byText, 2)
	assert.Equal(t, overdue.ID, byText[0].ID)
	assert.Equal(t, pending.ID, byText[1].ID)

	onlyOverdue := h.services.Ledger.ListTasks(domain.SearchOptions{Status: []domain.TaskStatus{domain.StatusOverdue}})
	require.Len(t, onlyOverdue, 1)
	assert.Equal(t, overdue.ID, onlyOverdue[0].ID)
}

func TestLedgerService_Habits(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, monday)
	ledger := h.services.Ledger

	habit, err := ledger.CreateHabit(ctx, domain.HabitInput{Name: "Read", Emoji: "📚"})
	require.NoError(t, err)
	assert.Equal(t, domain.FrequencyDaily, habit.Frequency)

	habit.Completions[monday.AddDays(-1)] = true
	habit.Completions[monday.AddDays(-2)] = true

	on := ledger.ToggleHabit(ctx, habit.ID)
	require.NotNil(t, on)
	assert.True(t, on.Done)
	assert.Equal(t, 3, habit.Streak)
	assert.Equal(t, 3, habit.LongestStreak)
	assert.Equal(t, domain.HabitXP, h.env.State.User.XP)
	assert.Equal(t, domain.HabitGold, h.env.State.User.Gold)
	assert.Equal(t, 1, h.env.State.Streak.Current)

	off := ledger.ToggleHabit(ctx, habit.ID)
	require.NotNil(t, off)
	assert.False(t, off.Done)
	assert.False(t, habit.DoneOn(monday))
	assert.Equal(t, 2, habit.Streak, "should count back from yesterday")
	assert.Equal(t, 3, habit.LongestStreak)
	assert.Equal(t, domain.HabitGold, h.env.State.User.Gold, "unmarking has no economy effect")

	persisted := h.reload().FindHabit(habit.ID)
	require.NotNil(t, persisted)
	assert.Equal(t, 2, persisted.Streak)

	assert.Nil(t, ledger.ToggleHabit(ctx, "nope"))

	updated, err := ledger.UpdateHabit(ctx, habit.ID, domain.HabitInput{Name: "Read more", Frequency: domain.FrequencyWeekly})
	require.NoError(t, err)
	assert.Equal(t, "Read more", updated.Name)
	assert.Equal(t, domain.FrequencyWeekly, updated.Frequency)

	assert.True(t, ledger.DeleteHabit(ctx, habit.ID))
	assert.False(t, ledger.DeleteHabit(ctx, habit.ID))
}

func TestLedgerService_SaveFailureDoesNotInterrupt(t *testing.T) {
	h := newHarness(t, monday)
	failing := &failingPersister{}
	h.env.Store = failing

	task := h.addTask(t, domain.TaskInput{Title: "still works", Difficulty: domain.DifficultyMedium})
	result := h.services.Ledger.CompleteTask(context.Background(), task.ID)

	require.NotNil(t, result)
	assert.Equal(t, 10, h.env.State.User.XP)
	assert.NotZero(t, failing.calls)
}

// failingPersister drops every write, as a full disk would
type failingPersister struct {
	calls int
}

func (f *failingPersister) Persist(ctx context.Context, st *state.AppState, keys ...state.Key) {
	f.calls++
}

func (f *failingPersister) PersistAll(ctx context.Context, st *state.AppState) { f.calls++ }

func (f *failingPersister) Clear(ctx context.Context) { f.calls++ }
