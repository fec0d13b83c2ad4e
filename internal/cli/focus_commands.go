package cli

import (
	"context"

	"zenflow/internal/api"
	"zenflow/internal/domain"
	"zenflow/internal/errors"
	"zenflow/internal/tui"
)

// FocusCommand opens the interactive focus timer
type FocusCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	run          func(ctx context.Context, businessAPI api.BusinessAPI) error
}

// NewFocusCommand creates a new focus command handler
func NewFocusCommand(app *App) *FocusCommand {
	return &FocusCommand{
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		run: func(ctx context.Context, businessAPI api.BusinessAPI) error {
			return tui.Run(ctx, businessAPI)
		},
	}
}

// Execute runs the timer until the user quits
func (c *FocusCommand) Execute(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return errors.NewInvalidInputError("command", "focus", "usage: zf focus | zf focus set work=25 break=5 | zf focus status")
	}
	return c.errorHandler.HandleSimple(c.run(ctx, c.businessAPI))
}

// FocusSetCommand handles the focus set command
type FocusSetCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewFocusSetCommand creates a new focus set command handler
func NewFocusSetCommand(app *App) *FocusSetCommand {
	return &FocusSetCommand{app: app, businessAPI: app.businessAPI, errorHandler: NewErrorHandler()}
}

// Execute stores new work and break minutes. Out-of-range values are clamped.
func (c *FocusSetCommand) Execute(ctx context.Context, args []string) error {
	_, opts := parseArgs(args, "work", "break")
	if len(opts) == 0 {
		return errors.NewInvalidInputError("command", "focus set", "usage: zf focus set work=25 break=5")
	}
	current, err := c.businessAPI.GetFocus(ctx)
	if err != nil {
		return c.errorHandler.Handle("update focus", err)
	}
	work, brk := current.State.WorkMinutes, current.State.BreakMinutes
	if v, err := opts.int("work"); err != nil {
		return c.errorHandler.Handle("update focus", err)
	} else if v != nil {
		work = *v
	}
	if v, err := opts.int("break"); err != nil {
		return c.errorHandler.Handle("update focus", err)
	} else if v != nil {
		brk = *v
	}

	status, err := c.businessAPI.SetFocusDurations(ctx, work, brk)
	if err != nil {
		return c.errorHandler.Handle("update focus", err)
	}
	c.app.printf("Focus %dm, break %dm\n", status.State.WorkMinutes, status.State.BreakMinutes)
	return nil
}

// FocusStatusCommand handles the focus status command
type FocusStatusCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewFocusStatusCommand creates a new focus status command handler
func NewFocusStatusCommand(app *App) *FocusStatusCommand {
	return &FocusStatusCommand{app: app, businessAPI: app.businessAPI, errorHandler: NewErrorHandler()}
}

// Execute prints the focus configuration and session counters
func (c *FocusStatusCommand) Execute(ctx context.Context, args []string) error {
	status, err := c.businessAPI.GetFocus(ctx)
	if err != nil {
		return c.errorHandler.Handle("show focus", err)
	}
	phase := "focus"
	if status.Timer.Mode == domain.FocusBreak {
		phase = "break"
	}
	state := "stopped"
	if status.Timer.Running {
		state = "running"
	}
	c.app.printf("%s %s (%s)\n", headerStyle.Render(phase), tui.FormatRemaining(status.Timer.Remaining), mutedStyle.Render(state))
	c.app.printf("Durations: %dm focus, %dm break\n", status.State.WorkMinutes, status.State.BreakMinutes)
	c.app.printf("Sessions today: %d  Total: %d\n", status.State.SessionsToday, status.State.TotalSessions)
	return nil
}
