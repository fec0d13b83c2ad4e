package services

import (
	"context"
	"testing"

	"zenflow/internal/clock"
	"zenflow/internal/domain"
	"zenflow/internal/state"
	"zenflow/internal/store"

	"github.com/stretchr/testify/require"
)

// monday is a week start for the default schedule
const monday clock.Day = "2024-03-11"

type testHarness struct {
	env       *Env
	clock     *clock.Fixed
	store     *store.Memory
	repo      *state.Repository
	collector *Collector
	services  *ServiceContainer
}

func newHarness(t *testing.T, day clock.Day) *testHarness {
	t.Helper()
	mem := store.NewMemory()
	repo := state.NewRepository(mem, nil)
	fixed := clock.NewFixedDay(day)
	collector := NewCollector()

	env := &Env{
		State:     state.New(),
		Store:     repo,
		Clock:     fixed,
		Notifier:  collector,
		WeekStart: monday.Weekday(),
	}
	return &testHarness{
		env:       env,
		clock:     fixed,
		store:     mem,
		repo:      repo,
		collector: collector,
		services:  NewServiceContainer(env),
	}
}

func (h *testHarness) addTask(t *testing.T, in domain.TaskInput) *domain.Task {
	t.Helper()
	task, err := h.services.Ledger.CreateTask(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, task)
	return task
}

// unlockAll marks every achievement so completions pay no achievement bonus
func (h *testHarness) unlockAll() {
	for _, def := range domain.Catalogue {
		h.env.State.Achievements[def.ID] = true
	}
}

// reload reads the persisted records back into a fresh state
func (h *testHarness) reload() *state.AppState {
	return h.repo.Load(context.Background())
}

func kinds(notes []Notification) []NotificationKind {
	out := make([]NotificationKind, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Kind)
	}
	return out
}
