package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenflow/internal/domain"
	"zenflow/internal/services"
)

func TestRewardCommands(t *testing.T) {
	app := setupTestAppWithMockBusinessAPI(t)
	ctx := context.Background()

	out := app.mustRun(t, "rewards", "ls")
	assert.Contains(t, out, "Reward shop")
	assert.Contains(t, out, "0 gold")
	assert.Contains(t, out, "Coffee Break")
	assert.Contains(t, out, "Day Off")

	t.Run("should refuse a reward the balance does not cover", func(t *testing.T) {
		_, err := app.run(t, "rewards", "redeem", "coffee break")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to redeem reward: not enough gold: need 10, have 0")
	})

	t.Run("should redeem once gold is earned", func(t *testing.T) {
		task := app.addTask(t, domain.TaskInput{Title: "Big job", Difficulty: domain.DifficultyHard})
		_, err := app.businessAPI.CompleteTask(ctx, task.ID)
		require.NoError(t, err)
		app.businessAPI.Notifications()

		out := app.mustRun(t, "rewards", "redeem", "Coffee Break")
		assert.Contains(t, out, "Redeemed ☕ Coffee Break!")

		dash, err := app.businessAPI.GetDashboard(ctx)
		require.NoError(t, err)
		assert.Equal(t, 10, dash.User.Gold)
	})

	t.Run("should add and remove custom rewards", func(t *testing.T) {
		out := app.mustRun(t, "rewards", "add", "Concert", "ticket", "cost=150", "emoji=🎵")
		assert.Contains(t, out, "Added reward 🎵 Concert ticket for 150 gold")

		out = app.mustRun(t, "rewards", "rm", "concert ticket")
		assert.Contains(t, out, "Deleted reward Concert ticket")
	})

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "should require a cost", args: []string{"rewards", "add", "Nap"}, wantErr: "usage: zf rewards add"},
		{name: "should reject a zero cost", args: []string{"rewards", "add", "Nap", "cost=0"}, wantErr: "failed to add reward"},
		{name: "should keep built-in rewards", args: []string{"rewards", "rm", "Coffee Break"}, wantErr: "failed to delete reward"},
		{name: "should report an unknown reward", args: []string{"rewards", "redeem", "yacht"}, wantErr: "reward not found: yacht"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := app.run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("should surface dashboard errors", func(t *testing.T) {
		app.mock.getDashboard = func(ctx context.Context) (*services.Dashboard, error) {
			return nil, errBoom
		}
		defer func() { app.mock.getDashboard = nil }()

		_, err := app.run(t, "rewards", "ls")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list rewards")
	})
}
