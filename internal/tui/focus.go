// Package tui renders the interactive focus timer.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"zenflow/internal/api"
	"zenflow/internal/domain"
	"zenflow/internal/services"
)

// focusPort is the slice of the business API the timer screen drives
type focusPort interface {
	GetFocus(ctx context.Context) (*api.FocusStatus, error)
	StartFocus(ctx context.Context) (*api.FocusStatus, error)
	PauseFocus(ctx context.Context) (*api.FocusStatus, error)
	ResetFocus(ctx context.Context) (*api.FocusStatus, error)
	SkipFocus(ctx context.Context) (*api.FocusStatus, error)
	TickFocus(ctx context.Context) (services.FocusEvent, error)
	Notifications() []services.Notification
}

// ─── async messages ───────────────────────────────────────────────────────────

type tickMsg time.Time

type statusMsg struct {
	status *api.FocusStatus
	notes  []services.Notification
	err    error
}

type tickedMsg struct {
	event  services.FocusEvent
	status *api.FocusStatus
	notes  []services.Notification
	err    error
}

const barWidth = 30

// Model is the focus timer screen. The countdown lives in the engine; the model only mirrors it.
type Model struct {
	ctx    context.Context
	port   focusPort
	status api.FocusStatus
	loaded bool
	flash  string
	err    error
	width  int
}

// NewModel creates the timer screen over port
func NewModel(ctx context.Context, port focusPort) Model {
	return Model{ctx: ctx, port: port}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) loadCmd() tea.Cmd {
	return m.statusCmd(m.port.GetFocus)
}

func (m Model) statusCmd(call func(context.Context) (*api.FocusStatus, error)) tea.Cmd {
	return func() tea.Msg {
		status, err := call(m.ctx)
		return statusMsg{status: status, notes: m.port.Notifications(), err: err}
	}
}

func (m Model) advanceCmd() tea.Cmd {
	return func() tea.Msg {
		event, err := m.port.TickFocus(m.ctx)
		if err != nil {
			return tickedMsg{err: err}
		}
		status, err := m.port.GetFocus(m.ctx)
		return tickedMsg{event: event, status: status, notes: m.port.Notifications(), err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tickMsg:
		// the engine ignores ticks while paused, so the loop never stops
		return m, tea.Batch(m.advanceCmd(), tick())

	case statusMsg:
		m.apply(msg.status, msg.notes, msg.err)

	case tickedMsg:
		m.apply(msg.status, msg.notes, msg.err)
		if msg.event.LevelsGained > 0 {
			m.flash = fmt.Sprintf("Level up! +%d", msg.event.LevelsGained)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "s", " ":
			if m.status.Timer.Running {
				return m, m.statusCmd(m.port.PauseFocus)
			}
			return m, m.statusCmd(m.port.StartFocus)
		case "r":
			return m, m.statusCmd(m.port.ResetFocus)
		case "n":
			return m, m.statusCmd(m.port.SkipFocus)
		}
	}
	return m, nil
}

func (m *Model) apply(status *api.FocusStatus, notes []services.Notification, err error) {
	m.err = err
	if status != nil {
		m.status = *status
		m.loaded = true
	}
	if len(notes) > 0 {
		m.flash = notes[len(notes)-1].Message
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if !m.loaded && m.err == nil {
		return appStyle.Render(mutedStyle.Render("loading focus timer..."))
	}

	timer := m.status.Timer
	phase := workStyle.Render("FOCUS")
	total := m.status.State.WorkMinutes * 60
	if timer.Mode == domain.FocusBreak {
		phase = breakStyle.Render("BREAK")
		total = m.status.State.BreakMinutes * 60
	}
	state := "paused"
	if timer.Running {
		state = "running"
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		phase,
		"",
		clockStyle.Render(FormatRemaining(timer.Remaining)),
		progressBar(total-timer.Remaining, total),
		mutedStyle.Render(state),
		"",
		fmt.Sprintf("Sessions today: %d   Total: %d", m.status.State.SessionsToday, m.status.State.TotalSessions),
	)

	var b strings.Builder
	b.WriteString(titleStyle.Render("ZenFlow Focus"))
	b.WriteString("\n\n")
	b.WriteString(paneStyle.Render(body))
	b.WriteString("\n")
	if m.flash != "" {
		b.WriteString(flashStyle.Render(m.flash))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("s start/pause · r reset · n skip · q quit"))
	return appStyle.Render(b.String())
}

// FormatRemaining renders seconds as MM:SS
func FormatRemaining(seconds int) string {
	seconds = max(seconds, 0)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func progressBar(done, total int) string {
	filled := 0
	if total > 0 {
		filled = domain.ClampInt(done*barWidth/total, 0, barWidth)
	}
	return barFill.Render(strings.Repeat("█", filled)) + barEmpty.Render(strings.Repeat("░", barWidth-filled))
}

// Run shows the timer full screen until the user quits or ctx ends
func Run(ctx context.Context, port focusPort) error {
	p := tea.NewProgram(NewModel(ctx, port), tea.WithAltScreen(), tea.WithContext(ctx))
	// a cancelled ctx ends the program with an error; that is a normal exit here
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("focus timer: %w", err)
	}
	return nil
}
