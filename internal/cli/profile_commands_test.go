package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenflow/internal/domain"
)

func TestStatusCommand_Execute(t *testing.T) {
	app := setupTestAppWithMockBusinessAPI(t)
	task := app.addTask(t, domain.TaskInput{Title: "Warm up", Difficulty: domain.DifficultyMedium})
	_, err := app.businessAPI.CompleteTask(context.Background(), task.ID)
	require.NoError(t, err)
	app.businessAPI.Notifications()

	out := app.mustRun(t, "status")
	assert.Contains(t, out, "Adventurer")
	assert.Contains(t, out, "Level 1")
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "Completed   1")
	assert.Contains(t, out, "Streak 🔥 1")
	assert.Contains(t, out, "Achievements 1/12")
}

func TestHistoryCommand_Execute(t *testing.T) {
	app := setupTestAppWithMockBusinessAPI(t)
	task := app.addTask(t, domain.TaskInput{Title: "Write"})
	_, err := app.businessAPI.CompleteTask(context.Background(), task.ID)
	require.NoError(t, err)
	app.businessAPI.Notifications()

	tests := []struct {
		name      string
		args      []string
		wantLines int
	}{
		{name: "should default to a week", args: []string{"history"}, wantLines: 7},
		{name: "should accept a day count", args: []string{"history", "3"}, wantLines: 3},
		{name: "should accept a d suffix", args: []string{"history", "14d"}, wantLines: 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := app.mustRun(t, tt.args...)
			lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
			assert.Len(t, lines, tt.wantLines)
			assert.Contains(t, lines[len(lines)-1], "Mon 2024-03-11")
			assert.Contains(t, lines[len(lines)-1], " 1 tasks")
		})
	}

	_, err = app.run(t, "history", "soon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a positive number of days")
}

func TestAchievementsCommand_Execute(t *testing.T) {
	app := setupTestAppWithMockBusinessAPI(t)

	out := app.mustRun(t, "achievements")
	assert.Equal(t, len(domain.Catalogue), strings.Count(out, "🔒"))

	task := app.addTask(t, domain.TaskInput{Title: "First"})
	_, err := app.businessAPI.CompleteTask(context.Background(), task.ID)
	require.NoError(t, err)
	app.businessAPI.Notifications()

	out = app.mustRun(t, "achievements")
	assert.Equal(t, 1, strings.Count(out, "🏆"))
	assert.Contains(t, out, "First Step")
}
