package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"zenflow/internal/api"
	"zenflow/internal/errors"
)

const defaultHistoryDays = 7

func formatGold(n int) string {
	return fmt.Sprintf("%d gold", n)
}

// StatusCommand handles the status command
type StatusCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewStatusCommand creates a new status command handler
func NewStatusCommand(app *App) *StatusCommand {
	return &StatusCommand{app: app, businessAPI: app.businessAPI, errorHandler: NewErrorHandler()}
}

// Execute prints the profile card and today's progress
func (c *StatusCommand) Execute(ctx context.Context, args []string) error {
	dash, err := c.businessAPI.GetDashboard(ctx)
	if err != nil {
		return c.errorHandler.Handle("show status", err)
	}
	u := dash.User

	profile := []string{
		headerStyle.Render(fmt.Sprintf("%s %s  Level %d %s", u.Avatar, u.Name, u.Level, u.Class)),
		fmt.Sprintf("XP   %s %d/%d", bar(u.XP, u.XPToNext, 20), u.XP, u.XPToNext),
		fmt.Sprintf("HP   %s %d/%d", bar(u.HP, u.MaxHP, 20), u.HP, u.MaxHP),
		fmt.Sprintf("Gold %s", goldStyle.Render(strconv.Itoa(u.Gold))),
		fmt.Sprintf("Streak 🔥 %d (best %d)", dash.Streak.Current, dash.Streak.Longest),
	}
	if dash.NextPet != nil {
		profile = append(profile, mutedStyle.Render(fmt.Sprintf("Next pet: %s %s at level %d", dash.NextPet.Icon, dash.NextPet.Name, dash.NextPet.Level)))
	}

	today := []string{
		headerStyle.Render("Today"),
		fmt.Sprintf("Completed   %d", dash.CompletedToday),
		fmt.Sprintf("This week   %d", dash.CompletedWeek),
		fmt.Sprintf("All time    %d", dash.CompletedTotal),
		fmt.Sprintf("Focus       %dm (%d sessions)", dash.FocusToday, dash.SessionsToday),
		fmt.Sprintf("Pending     %d", dash.PendingCount),
	}
	if dash.OverdueCount > 0 {
		today = append(today, overdueStyle.Render(fmt.Sprintf("Overdue     %d", dash.OverdueCount)))
	}
	today = append(today, fmt.Sprintf("Achievements %d/%d", dash.Unlocked, dash.AchievementsMax))

	c.app.printf("%s\n", lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(strings.Join(profile, "\n")),
		" ",
		panelStyle.Render(strings.Join(today, "\n")),
	))
	return nil
}

// HistoryCommand handles the history command
type HistoryCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewHistoryCommand creates a new history command handler
func NewHistoryCommand(app *App) *HistoryCommand {
	return &HistoryCommand{app: app, businessAPI: app.businessAPI, errorHandler: NewErrorHandler()}
}

// Execute prints per-day completions and focus minutes, oldest first
func (c *HistoryCommand) Execute(ctx context.Context, args []string) error {
	days := defaultHistoryDays
	if len(args) > 0 {
		n, err := strconv.Atoi(strings.TrimSuffix(args[0], "d"))
		if err != nil || n <= 0 {
			return errors.NewInvalidInputError("days", args[0], "must be a positive number of days")
		}
		days = n
	}
	history, err := c.businessAPI.GetHistory(ctx, days)
	if err != nil {
		return c.errorHandler.Handle("show history", err)
	}

	peak := 1
	for _, d := range history {
		peak = max(peak, d.CompletedCount)
	}
	for _, d := range history {
		c.app.printf("%s %s %2d tasks  %3dm focus  %d habits\n",
			d.Day.Weekday().String()[:3]+" "+d.Day.String(), bar(d.CompletedCount, peak, 10),
			d.CompletedCount, d.FocusMinutes, d.HabitsDone)
	}
	return nil
}

// AchievementsCommand handles the achievements command
type AchievementsCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewAchievementsCommand creates a new achievements command handler
func NewAchievementsCommand(app *App) *AchievementsCommand {
	return &AchievementsCommand{app: app, businessAPI: app.businessAPI, errorHandler: NewErrorHandler()}
}

// Execute lists every achievement with progress toward it
func (c *AchievementsCommand) Execute(ctx context.Context, args []string) error {
	achievements, err := c.businessAPI.ListAchievements(ctx)
	if err != nil {
		return c.errorHandler.Handle("list achievements", err)
	}
	for _, a := range achievements {
		mark := "🔒"
		name := mutedStyle.Render(a.Name)
		if a.Unlocked {
			mark = "🏆"
			name = goldStyle.Render(a.Name)
		}
		c.app.printf("%s %-20s %s %d/%d\n", mark, name, bar(a.Progress, a.Threshold, 10), a.Progress, a.Threshold)
	}
	return nil
}
