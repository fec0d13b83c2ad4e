package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"zenflow/internal/clock"
	"zenflow/internal/domain"
	apperrors "zenflow/internal/errors"
	"zenflow/internal/logging"
	"zenflow/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore rejects every write
type failingStore struct {
	*store.Memory
}

func (f failingStore) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("quota exceeded")
}

func sampleState() *AppState {
	at := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
	st := New()
	st.Tasks = []*domain.Task{{
		ID:           "t1",
		Title:        "Ship release",
		Priority:     domain.PriorityP1,
		Difficulty:   domain.DifficultyHard,
		Frequency:    domain.FrequencyWeekly,
		Completed:    true,
		CompletedAt:  &at,
		Tags:         []string{"work"},
		Subtasks:     []domain.Subtask{{Text: "tag", Done: true}},
		CreatedAt:    at,
		UpdatedAt:    at,
		LastRecurDay: "2024-03-10",
	}}
	st.Habits = []*domain.Habit{{ID: "h1", Name: "Read", Completions: map[clock.Day]bool{"2024-03-10": true}, Streak: 1, LongestStreak: 4, CreatedAt: at}}
	st.Projects = []*domain.Project{{ID: "p1", Name: "Launch", CreatedAt: at}}
	st.Tags = []*domain.Tag{{ID: "g1", Name: "work"}}
	st.User.Level = 3
	st.User.XP = 17
	st.User.XPToNext = 144
	st.User.Gold = 42
	st.User.TotalGold = 80
	st.User.LastOverdueCheck = "2024-03-10"
	st.Achievements["tasks-1"] = true
	st.Streak = domain.Streak{Current: 2, Longest: 5, LastActiveDay: "2024-03-10"}
	st.Stats.TotalTasksCompleted = 12
	st.Stats.LastResetDay = "2024-03-10"
	st.Stats.WeekResetDay = "2024-03-04"
	st.Stats.DailyCompletions["2024-03-10"] = 2
	st.Focus.WorkMinutes = 40
	st.Focus.LastSessionDay = "2024-03-09"
	st.History.Append("2024-03-10", domain.CompletionRecord{TaskID: "t1", Title: "Ship release", At: at})
	st.CustomRewards = []*domain.Reward{{ID: "c1", Name: "Nap", Cost: 15}}
	st.Onboarded = true
	st.Background = "gradient-2"
	return st
}

func TestRepository_PersistAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(store.NewMemory(), logging.Nop())
	original := sampleState()

	repo.PersistAll(ctx, original)
	loaded := repo.Load(ctx)

	assert.Equal(t, original, loaded)
}

func TestRepository_LoadDefaults(t *testing.T) {
	repo := NewRepository(store.NewMemory(), nil)

	st := repo.Load(context.Background())

	assert.Equal(t, New(), st)
}

func TestRepository_CorruptRecordKeepsDefault(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.Set(ctx, string(KeyUser), []byte(`{"level":"high"`)))
	require.NoError(t, mem.Set(ctx, string(KeyStreak), []byte(`{"current":4}`)))

	var failed []Key
	repo := NewRepository(mem, logging.Nop())
	repo.OnFailure(func(key Key, err error) { failed = append(failed, key) })

	st := repo.Load(ctx)

	assert.Equal(t, domain.NewUserProfile(), st.User)
	assert.Equal(t, 4, st.Streak.Current)
	assert.Equal(t, []Key{KeyUser}, failed)
}

func TestRepository_PartialRecordMergesOverDefaults(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.Set(ctx, string(KeyAchievements), []byte(`{"streak-3":true}`)))

	st := NewRepository(mem, nil).Load(ctx)

	assert.Len(t, st.Achievements, len(domain.Catalogue))
	assert.True(t, st.Achievements["streak-3"])
	assert.False(t, st.Achievements["tasks-1"])
}

func TestRepository_SaveFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	var failed []Key
	repo := NewRepository(failingStore{store.NewMemory()}, logging.Nop())
	repo.OnFailure(func(key Key, err error) { failed = append(failed, key) })

	assert.NotPanics(t, func() {
		repo.Persist(ctx, sampleState(), KeyTasks, KeyUser)
	})
	assert.Equal(t, []Key{KeyTasks, KeyUser}, failed)
}

func TestRepository_Clear(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	repo := NewRepository(mem, nil)
	repo.PersistAll(ctx, sampleState())

	repo.Clear(ctx)

	keys, err := mem.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRepository_Exists(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(store.NewMemory(), nil)
	assert.False(t, repo.Exists(ctx, KeyFocus))

	repo.Persist(ctx, New(), KeyFocus)

	assert.True(t, repo.Exists(ctx, KeyFocus))
	assert.False(t, repo.Exists(ctx, KeyUser))
}

func TestExportImport_RoundTrip(t *testing.T) {
	original := sampleState()

	data, err := Export(original, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"exportedAt": "2024-03-10T12:00:00Z"`)

	target := New()
	keys, err := Import(target, data)
	require.NoError(t, err)

	assert.Len(t, keys, len(AllKeys())-1)
	assert.Equal(t, original, target)
}

func TestImport_MissingKeysKeepCurrent(t *testing.T) {
	st := sampleState()

	keys, err := Import(st, []byte(`{"user":{"gold":7},"tasks":null}`))
	require.NoError(t, err)

	assert.Equal(t, []Key{KeyUser}, keys)
	assert.Equal(t, 7, st.User.Gold)
	assert.Equal(t, 1, st.User.Level, "user is merged over defaults, not over current")
	assert.Len(t, st.Tasks, 1, "null tasks keep the current list")
	assert.Equal(t, "gradient-2", st.Background)
}

func TestImport_MalformedLeavesStateUntouched(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "should reject invalid json", payload: `{"tasks": [`},
		{name: "should reject a top-level array", payload: `[]`},
		{name: "should reject literal null", payload: `null`},
		{name: "should reject a mistyped field", payload: `{"user":{"gold":1},"stats":"lots"}`},
		{name: "should reject a null task", payload: `{"tasks":[null]}`},
		{name: "should reject a null among valid habits", payload: `{"habits":[{"id":"h2","name":"Run"},null]}`},
		{name: "should reject a null project", payload: `{"user":{"gold":1},"projects":[null]}`},
		{name: "should reject a null tag", payload: `{"tags":[null]}`},
		{name: "should reject a null custom reward", payload: `{"customRewards":[null]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := sampleState()

			_, err := Import(st, []byte(tt.payload))

			require.Error(t, err)
			assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeImport))
			assert.Equal(t, sampleState(), st)
		})
	}
}

func TestImport_NullEntryNamesField(t *testing.T) {
	_, err := Import(New(), []byte(`{"tasks":[],"customRewards":[{"id":"c1","name":"Nap","cost":5},null]}`))

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	field, _ := appErr.GetContext("field")
	assert.Equal(t, "customRewards", field)
}

func TestImport_NormalizesProfile(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		wantGold int
		wantHP   int
		level    int
		xp       int
	}{
		{name: "should clamp negative gold", user: `{"gold":-40,"level":2,"xpToNext":120}`, wantGold: 0, wantHP: 100, level: 2, xp: 0},
		{name: "should roll excess xp into levels", user: `{"gold":5,"xp":900,"xpToNext":100,"level":1}`, wantGold: 5, wantHP: 100, level: 6, xp: 157},
		{name: "should restore a zero level and threshold", user: `{"level":0,"xpToNext":0,"xp":50,"hp":-3}`, wantGold: 0, wantHP: 0, level: 1, xp: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := New()

			_, err := Import(st, []byte(`{"user":`+tt.user+`}`))

			require.NoError(t, err)
			assert.Equal(t, tt.wantGold, st.User.Gold)
			assert.Equal(t, tt.wantHP, st.User.HP)
			assert.Equal(t, tt.level, st.User.Level)
			assert.Equal(t, tt.xp, st.User.XP)
			assert.Less(t, st.User.XP, st.User.XPToNext)
		})
	}
}

func TestRepository_LoadDropsNullEntries(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.Set(ctx, string(KeyTasks), []byte(`[null,{"id":"t1","title":"kept"},null]`)))
	require.NoError(t, mem.Set(ctx, string(KeyHabits), []byte(`[null]`)))
	require.NoError(t, mem.Set(ctx, string(KeyUser), []byte(`{"level":1,"xpToNext":100,"gold":-9,"hp":50,"maxHp":100}`)))

	st := NewRepository(mem, logging.Nop()).Load(ctx)

	require.Len(t, st.Tasks, 1)
	assert.Equal(t, "t1", st.Tasks[0].ID)
	assert.NotNil(t, st.FindTask("t1"))
	assert.Nil(t, st.FindTask("missing"))
	assert.Empty(t, st.Habits)
	assert.Nil(t, st.FindHabit("h1"))
	assert.Equal(t, 0, st.User.Gold)
	assert.Equal(t, 50, st.User.HP)
}

func TestReset(t *testing.T) {
	st := sampleState()
	ptr := st

	Reset(st)

	assert.Same(t, ptr, st)
	assert.Equal(t, New(), st)
}

func TestAppState_Rewards(t *testing.T) {
	st := sampleState()

	rewards := st.Rewards()

	require.Len(t, rewards, len(domain.DefaultRewards)+1)
	assert.Equal(t, "r1", rewards[0].ID)
	assert.Equal(t, "c1", rewards[len(rewards)-1].ID)
}
