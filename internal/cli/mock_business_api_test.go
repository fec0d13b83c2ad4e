package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"zenflow/internal/api"
	"zenflow/internal/clock"
	"zenflow/internal/config"
	"zenflow/internal/domain"
	"zenflow/internal/errors"
	"zenflow/internal/services"
	"zenflow/internal/store"
)

const testDay clock.Day = "2024-03-11"

// mockBusinessAPI wraps a real engine and lets a test replace single operations
type mockBusinessAPI struct {
	api.BusinessAPI
	listTasks    func(ctx context.Context, opts domain.SearchOptions) ([]*domain.Task, error)
	export       func(ctx context.Context) ([]byte, error)
	getDashboard func(ctx context.Context) (*services.Dashboard, error)
}

func (m *mockBusinessAPI) ListTasks(ctx context.Context, opts domain.SearchOptions) ([]*domain.Task, error) {
	if m.listTasks != nil {
		return m.listTasks(ctx, opts)
	}
	return m.BusinessAPI.ListTasks(ctx, opts)
}

func (m *mockBusinessAPI) Export(ctx context.Context) ([]byte, error) {
	if m.export != nil {
		return m.export(ctx)
	}
	return m.BusinessAPI.Export(ctx)
}

func (m *mockBusinessAPI) GetDashboard(ctx context.Context) (*services.Dashboard, error) {
	if m.getDashboard != nil {
		return m.getDashboard(ctx)
	}
	return m.BusinessAPI.GetDashboard(ctx)
}

// testApp bundles an App over a memory store with its captured output
type testApp struct {
	*App
	out   *bytes.Buffer
	clock *clock.Fixed
	mock  *mockBusinessAPI
}

func setupTestAppWithMockBusinessAPI(t *testing.T) *testApp {
	t.Helper()
	fixed := clock.NewFixedDay(testDay)
	mock := &mockBusinessAPI{BusinessAPI: api.NewBusinessAPI(api.Dependencies{
		Store: store.NewMemory(),
		Clock: fixed,
	})}

	cfg := config.NewConfig()
	cfg.Store.Backend = config.BackendMemory
	out := &bytes.Buffer{}
	app := NewApp(mock, cfg).WithOutput(out).WithClock(fixed)
	return &testApp{App: app, out: out, clock: fixed, mock: mock}
}

// run executes a command line through the registry and returns its output
func (a *testApp) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a.out.Reset()
	err := a.Run(context.Background(), args)
	return a.out.String(), err
}

// mustRun is run for commands expected to succeed
func (a *testApp) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := a.run(t, args...)
	require.NoError(t, err)
	return out
}

// addTask creates a task directly and returns it
func (a *testApp) addTask(t *testing.T, in domain.TaskInput) *domain.Task {
	t.Helper()
	task, err := a.businessAPI.CreateTask(context.Background(), in)
	require.NoError(t, err)
	a.businessAPI.Notifications()
	return task
}

var errBoom = errors.NewStorageError("read", nil)
