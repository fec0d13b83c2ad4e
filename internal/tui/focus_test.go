package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenflow/internal/api"
	"zenflow/internal/clock"
	"zenflow/internal/domain"
	"zenflow/internal/store"
)

func setupModel(t *testing.T) (Model, api.BusinessAPI) {
	t.Helper()
	engine := api.NewBusinessAPI(api.Dependencies{
		Store: store.NewMemory(),
		Clock: clock.NewFixedDay("2024-03-11"),
	})
	_, err := engine.SetFocusDurations(context.Background(), 1, 1)
	require.NoError(t, err)
	engine.Notifications()

	m := NewModel(context.Background(), engine)
	m = run(t, m, m.loadCmd())
	return m, engine
}

// run executes cmd and feeds its message back through Update
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

func press(t *testing.T, m Model, key string) Model {
	t.Helper()
	var msg tea.KeyMsg
	if key == " " {
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	} else {
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return run(t, next.(Model), cmd)
}

func TestModel_Load(t *testing.T) {
	m, _ := setupModel(t)

	assert.True(t, m.loaded)
	assert.Equal(t, domain.FocusWork, m.status.Timer.Mode)
	assert.Equal(t, 60, m.status.Timer.Remaining)
	assert.False(t, m.status.Timer.Running)
	assert.Contains(t, m.View(), "01:00")
	assert.Contains(t, m.View(), "FOCUS")
}

func TestModel_StartPauseToggle(t *testing.T) {
	m, _ := setupModel(t)

	m = press(t, m, "s")
	assert.True(t, m.status.Timer.Running)
	assert.Contains(t, m.View(), "running")

	m = press(t, m, " ")
	assert.False(t, m.status.Timer.Running)
	assert.Contains(t, m.View(), "paused")
}

func TestModel_TickCompletesSession(t *testing.T) {
	m, engine := setupModel(t)
	m = press(t, m, "s")

	for range 60 {
		m = run(t, m, m.advanceCmd())
	}

	assert.Equal(t, domain.FocusBreak, m.status.Timer.Mode)
	assert.Equal(t, 1, m.status.State.SessionsToday)
	assert.Contains(t, m.View(), "BREAK")
	assert.NotEmpty(t, m.flash)

	dash, err := engine.GetDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.FocusSessionXP, dash.User.XP)
}

func TestModel_TickWhilePausedIsNoOp(t *testing.T) {
	m, _ := setupModel(t)

	m = run(t, m, m.advanceCmd())

	assert.Equal(t, 60, m.status.Timer.Remaining)
}

func TestModel_TickMsgSchedulesNextTick(t *testing.T) {
	m, _ := setupModel(t)

	_, cmd := m.Update(tickMsg{})

	assert.NotNil(t, cmd)
}

func TestModel_ResetAndSkip(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		wantMode  domain.FocusMode
		wantCount int
	}{
		{name: "should reset to a full work phase", key: "r", wantMode: domain.FocusWork, wantCount: 0},
		{name: "should skip to the break without a reward", key: "n", wantMode: domain.FocusBreak, wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := setupModel(t)
			m = press(t, m, "s")
			m = run(t, m, m.advanceCmd())

			m = press(t, m, tt.key)

			assert.Equal(t, tt.wantMode, m.status.Timer.Mode)
			assert.False(t, m.status.Timer.Running)
			assert.Equal(t, tt.wantCount, m.status.State.SessionsToday)
		})
	}
}

func TestModel_Quit(t *testing.T) {
	m, _ := setupModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_ErrorIsShown(t *testing.T) {
	m, _ := setupModel(t)

	next, _ := m.Update(statusMsg{err: errors.New("boom")})

	assert.Contains(t, next.View(), "error: boom")
	assert.Equal(t, 60, next.(Model).status.Timer.Remaining)
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    string
	}{
		{name: "should pad minutes and seconds", seconds: 65, want: "01:05"},
		{name: "should render a full pomodoro", seconds: 25 * 60, want: "25:00"},
		{name: "should render zero", seconds: 0, want: "00:00"},
		{name: "should floor negatives at zero", seconds: -3, want: "00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRemaining(tt.seconds))
		})
	}
}
