package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"zenflow/internal/api"
	"zenflow/internal/errors"
	"zenflow/internal/httpapi"
)

// maxImportBytes bounds the backup file read by import
const maxImportBytes = 10 << 20

// RolloverCommand handles the rollover command
type RolloverCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewRolloverCommand creates a new rollover command handler
func NewRolloverCommand(app *App) *RolloverCommand {
	return &RolloverCommand{app: app, businessAPI: app.businessAPI, errorHandler: NewErrorHandler()}
}

// Execute re-runs the day baseline and reports what it did
func (c *RolloverCommand) Execute(ctx context.Context, args []string) error {
	report, err := c.businessAPI.Rollover(ctx)
	if err != nil {
		return c.errorHandler.Handle("run rollover", err)
	}
	c.app.printf("Rollover for %s\n", report.Day)
	if report.HPLost > 0 {
		c.app.printf("  %s\n", overdueStyle.Render(fmt.Sprintf("-%d HP for %d overdue tasks", report.HPLost, report.OverdueCount)))
	}
	for _, t := range report.Spawned {
		c.app.printf("  ↻ %s due %s\n", t.Title, t.DueDate)
	}
	if !report.DailyReset && !report.WeeklyReset && !report.OverdueCheck && len(report.Spawned) == 0 {
		c.app.printf("  %s\n", mutedStyle.Render("nothing to do"))
	}
	return nil
}

// ExportCommand handles the export command
type ExportCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{app: app, businessAPI: app.businessAPI, errorHandler: NewErrorHandler()}
}

// Execute writes the backup bundle to a file, or to stdout when none is given
func (c *ExportCommand) Execute(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return errors.NewInvalidInputError("command", "export", "usage: zf export [file]")
	}
	data, err := c.businessAPI.Export(ctx)
	if err != nil {
		return c.errorHandler.Handle("export data", err)
	}
	if len(args) == 0 {
		c.app.printf("%s\n", data)
		return nil
	}
	if err := os.WriteFile(args[0], data, 0o600); err != nil {
		return fmt.Errorf("failed to export data: %w", err)
	}
	c.app.printf("Exported to %s\n", args[0])
	return nil
}

// ImportCommand handles the import command
type ImportCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewImportCommand creates a new import command handler
func NewImportCommand(app *App) *ImportCommand {
	return &ImportCommand{app: app, businessAPI: app.businessAPI, errorHandler: NewErrorHandler()}
}

// Execute replaces every record present in the backup file
func (c *ImportCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "import", "usage: zf import <file>")
	}
	info, err := os.Stat(args[0])
	if err != nil {
		return fmt.Errorf("failed to import data: %w", err)
	}
	if info.Size() > maxImportBytes {
		return errors.NewInvalidInputError("file", args[0], "backup is larger than 10 MB")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to import data: %w", err)
	}
	if err := c.businessAPI.Import(ctx, data); err != nil {
		return c.errorHandler.Handle("import data", err)
	}
	return nil
}

// ResetCommand handles the reset command
type ResetCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewResetCommand creates a new reset command handler
func NewResetCommand(app *App) *ResetCommand {
	return &ResetCommand{app: app, businessAPI: app.businessAPI, errorHandler: NewErrorHandler()}
}

// Execute erases every record. It refuses to run without confirm=yes.
func (c *ResetCommand) Execute(ctx context.Context, args []string) error {
	_, opts := parseArgs(args, "confirm")
	if v, _ := opts.last("confirm"); v != "yes" {
		return errors.NewInvalidInputError("command", "reset", "this erases all data; run zf reset confirm=yes")
	}
	if err := c.businessAPI.Reset(ctx); err != nil {
		return c.errorHandler.Handle("reset data", err)
	}
	return nil
}

// ServeCommand handles the serve command
type ServeCommand struct {
	app *App
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(app *App) *ServeCommand {
	return &ServeCommand{app: app}
}

// Execute serves the HTTP API until ctx is cancelled
func (c *ServeCommand) Execute(ctx context.Context, args []string) error {
	_, opts := parseArgs(args, "addr")
	addr := c.app.config.HTTP.Addr
	if v, ok := opts.last("addr"); ok {
		addr = v
	}
	if !c.app.config.Application.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	// the engine must be open before the first request so rollover notifications print here
	if _, err := c.app.businessAPI.Open(ctx); err != nil {
		return NewErrorHandler().Handle("open engine", err)
	}
	c.app.flushNotifications()

	router := httpapi.NewRouter(c.app.businessAPI, c.app.recorder, c.app.log)
	c.app.printf("Serving on http://%s\n", addr)
	return httpapi.Serve(ctx, addr, router, c.app.log)
}
