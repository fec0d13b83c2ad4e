package main

import (
	"context"
	"fmt"
	"os"

	"zenflow/internal/api"
	"zenflow/internal/cli"
	"zenflow/internal/clock"
	"zenflow/internal/config"
	"zenflow/internal/logging"
	"zenflow/internal/metrics"
	"zenflow/internal/services"
)

func main() {
	factory := NewStoreFactory(getEnvironment())
	root := cli.NewRootCommand(config.NewLoader(), func(cfg *config.Config) (*cli.App, error) {
		return buildApp(context.Background(), factory, cfg)
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildApp wires the store, logger, metrics and engine for one invocation
func buildApp(ctx context.Context, factory *StoreFactory, cfg *config.Config) (*cli.App, error) {
	log, err := logging.New(cfg.Application.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	s, err := factory.CreateStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	recorder := metrics.New()
	loc := cfg.TimeLocation()
	c := clock.NewSystem(loc)

	businessAPI := api.NewBusinessAPI(api.Dependencies{
		Store:        s,
		Clock:        c,
		Notifier:     services.NewLogNotifier(log),
		Metrics:      recorder,
		Log:          log,
		WeekStart:    cfg.WeekStartDay(),
		WorkMinutes:  cfg.Focus.WorkMinutes,
		BreakMinutes: cfg.Focus.BreakMinutes,
	})

	return cli.NewApp(businessAPI, cfg).
		WithClock(c).
		WithMetrics(recorder).
		WithLogger(log).
		WithCloser(s.Close), nil
}
