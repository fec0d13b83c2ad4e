package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"zenflow/internal/api"
	"zenflow/internal/clock"
	"zenflow/internal/config"
	"zenflow/internal/errors"
	"zenflow/internal/logging"
	"zenflow/internal/metrics"
)

// App represents the main CLI application
type App struct {
	businessAPI api.BusinessAPI
	config      *config.Config
	clock       clock.Clock
	recorder    *metrics.Recorder
	log         *logging.Logger
	out         io.Writer
	closer      func() error
	registry    *CommandRegistry
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(businessAPI api.BusinessAPI, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	app := &App{
		businessAPI: businessAPI,
		config:      cfg,
		clock:       clock.NewSystem(cfg.TimeLocation()),
		log:         logging.Nop(),
		out:         os.Stdout,
	}
	app.registry = NewCommandRegistry(app)
	return app
}

// WithOutput redirects command output
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithClock replaces the system clock used to label overdue tasks
func (a *App) WithClock(c clock.Clock) *App {
	a.clock = c
	return a
}

// WithMetrics attaches the recorder served by the serve command
func (a *App) WithMetrics(r *metrics.Recorder) *App {
	a.recorder = r
	return a
}

// WithLogger replaces the discard logger
func (a *App) WithLogger(l *logging.Logger) *App {
	a.log = l
	return a
}

// WithCloser registers cleanup run by Close
func (a *App) WithCloser(fn func() error) *App {
	a.closer = fn
	return a
}

// Close releases the store and flushes the logger
func (a *App) Close() error {
	_ = a.log.Sync()
	if a.closer != nil {
		return a.closer()
	}
	return nil
}

// Run executes the named command with the given arguments
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%s", a.registry.GetUsage())
	}
	name, rest := a.registry.Resolve(args)
	return a.registry.Execute(ctx, name, rest)
}

// printf writes to the command output
func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) today() clock.Day {
	return clock.Today(a.clock)
}

// flushNotifications prints every message the engine raised since the last flush
func (a *App) flushNotifications() {
	for _, note := range a.businessAPI.Notifications() {
		a.printf("%s\n", renderNotification(note))
	}
}

// resolveID matches ref against ids exactly, then as a unique prefix
func resolveID(resource, ref string, ids []string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.NewInvalidInputError(resource, ref, "an id is required")
	}
	var matches []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", errors.NewNotFoundError(resource, ref)
	case 1:
		return matches[0], nil
	default:
		return "", errors.NewInvalidInputError(resource, ref, fmt.Sprintf("ambiguous id matches %d %ss", len(matches), resource))
	}
}

// shortID is the prefix shown in listings
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
