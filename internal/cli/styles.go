package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"zenflow/internal/clock"
	"zenflow/internal/domain"
	"zenflow/internal/services"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#b4befe"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1")).Strikethrough(true)
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")).Bold(true)
	goldStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af")).Bold(true)
	panelStyle   = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475a")).
			Padding(0, 1)

	noteStyles = map[services.NotificationKind]lipgloss.Style{
		services.NotifySuccess:     lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1")),
		services.NotifyInfo:        lipgloss.NewStyle().Foreground(lipgloss.Color("#89dceb")),
		services.NotifyWarning:     lipgloss.NewStyle().Foreground(lipgloss.Color("#fab387")),
		services.NotifyPenalty:     lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")),
		services.NotifyAchievement: lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af")).Bold(true),
		services.NotifyLevelUp:     lipgloss.NewStyle().Foreground(lipgloss.Color("#cba6f7")).Bold(true),
		services.NotifyReward:      lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af")),
	}

	priorityStyles = map[domain.Priority]lipgloss.Style{
		domain.PriorityP1: lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")),
		domain.PriorityP2: lipgloss.NewStyle().Foreground(lipgloss.Color("#fab387")),
		domain.PriorityP3: lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")),
		domain.PriorityP4: lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8")),
	}
)

var noteIcons = map[services.NotificationKind]string{
	services.NotifySuccess:     "✔",
	services.NotifyInfo:        "ℹ",
	services.NotifyWarning:     "⚠",
	services.NotifyPenalty:     "💔",
	services.NotifyAchievement: "🏆",
	services.NotifyLevelUp:     "⬆",
	services.NotifyReward:      "🎁",
}

func renderNotification(n services.Notification) string {
	style, ok := noteStyles[n.Kind]
	if !ok {
		style = mutedStyle
	}
	icon := noteIcons[n.Kind]
	if icon == "" {
		icon = "•"
	}
	return style.Render(icon + " " + n.Message)
}

// renderTask formats one task line: checkbox, short id, priority, title and metadata
func renderTask(t *domain.Task, today clock.Day) string {
	box := "[ ]"
	title := t.Title
	status := t.Status(today)
	switch status {
	case domain.StatusCompleted:
		box = "[x]"
		title = doneStyle.Render(title)
	case domain.StatusOverdue:
		title = overdueStyle.Render(title)
	}

	prio := string(t.Priority)
	if style, ok := priorityStyles[t.Priority]; ok {
		prio = style.Render(prio)
	}

	var meta []string
	if t.Flagged {
		meta = append(meta, "⚑")
	}
	if !t.DueDate.IsZero() {
		due := "due " + t.DueDate.String()
		if t.DueTime != "" {
			due += " " + t.DueTime
		}
		meta = append(meta, due)
	}
	if t.IsRecurring() {
		meta = append(meta, "↻ "+string(t.Frequency))
	}
	if len(t.Subtasks) > 0 {
		done := 0
		for _, s := range t.Subtasks {
			if s.Done {
				done++
			}
		}
		meta = append(meta, fmt.Sprintf("%d/%d", done, len(t.Subtasks)))
	}
	for _, tag := range t.Tags {
		meta = append(meta, "#"+tag)
	}

	line := fmt.Sprintf("%s %s %s %s", box, mutedStyle.Render(shortID(t.ID)), prio, title)
	if len(meta) > 0 {
		line += "  " + mutedStyle.Render(strings.Join(meta, "  "))
	}
	return line
}

// bar renders a fixed-width progress bar
func bar(value, total, width int) string {
	filled := 0
	if total > 0 {
		filled = domain.ClampInt(value*width/total, 0, width)
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
