package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenflow/internal/api"
)

func TestFocusCommand_Execute(t *testing.T) {
	app := setupTestAppWithMockBusinessAPI(t)

	t.Run("should hand the engine to the timer", func(t *testing.T) {
		var got api.BusinessAPI
		cmd := NewFocusCommand(app.App)
		cmd.run = func(ctx context.Context, businessAPI api.BusinessAPI) error {
			got = businessAPI
			return nil
		}

		require.NoError(t, cmd.Execute(context.Background(), nil))
		assert.Same(t, app.mock, got)
	})

	t.Run("should reject arguments", func(t *testing.T) {
		cmd := NewFocusCommand(app.App)
		err := cmd.Execute(context.Background(), []string{"now"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "usage: zf focus")
	})
}

func TestFocusSetAndStatusCommands(t *testing.T) {
	app := setupTestAppWithMockBusinessAPI(t)

	out := app.mustRun(t, "focus", "status")
	assert.Contains(t, out, "25:00")
	assert.Contains(t, out, "stopped")
	assert.Contains(t, out, "Durations: 25m focus, 5m break")

	tests := []struct {
		name      string
		args      []string
		want      string
		remaining string
	}{
		{name: "should set both durations", args: []string{"focus", "set", "work=50", "break=10"}, want: "Focus 50m, break 10m", remaining: "50:00"},
		{name: "should keep the break when only work is given", args: []string{"focus", "set", "work=40"}, want: "Focus 40m, break 10m", remaining: "40:00"},
		{name: "should clamp out-of-range values", args: []string{"focus", "set", "work=500", "break=0"}, want: "Focus 120m, break 1m", remaining: "120:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, app.mustRun(t, tt.args...), tt.want)
			assert.Contains(t, app.mustRun(t, "focus", "status"), tt.remaining)
		})
	}

	t.Run("should reject a missing or non-numeric value", func(t *testing.T) {
		_, err := app.run(t, "focus", "set")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "usage: zf focus set")

		_, err = app.run(t, "focus", "set", "work=long")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be a whole number")
	})
}
