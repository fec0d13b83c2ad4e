package cli

import (
	"context"
	"fmt"
	"strings"

	"zenflow/internal/domain"
	"zenflow/internal/errors"
)

// resolveHabit turns an id, id prefix or exact name into a habit
func (c taskCommand) resolveHabit(ctx context.Context, ref string) (*domain.Habit, error) {
	habits, err := c.businessAPI.ListHabits(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(habits))
	for i, h := range habits {
		if strings.EqualFold(h.Name, ref) {
			return h, nil
		}
		ids[i] = h.ID
	}
	id, err := resolveID("habit", ref, ids)
	if err != nil {
		return nil, err
	}
	for _, h := range habits {
		if h.ID == id {
			return h, nil
		}
	}
	return nil, errors.NewNotFoundError("habit", ref)
}

func habitInput(words []string, opts options, base domain.HabitInput) (domain.HabitInput, error) {
	in := base
	if name := strings.Join(words, " "); name != "" {
		in.Name = name
	}
	if v, ok := opts.last("name"); ok {
		in.Name = v
	}
	if v, ok := opts.last("emoji"); ok {
		in.Emoji = v
	}
	if v, ok := opts.last("repeat"); ok {
		in.Frequency = domain.Frequency(strings.ToLower(v))
	}
	every, err := opts.int("every")
	if err != nil {
		return in, err
	}
	if every != nil {
		in.CustomFreqDays = *every
	}
	return in, nil
}

// HabitAddCommand handles the habit add command
type HabitAddCommand struct{ taskCommand }

// NewHabitAddCommand creates a new habit add command handler
func NewHabitAddCommand(app *App) *HabitAddCommand {
	return &HabitAddCommand{newTaskCommand(app)}
}

// Execute runs the habit add command
func (c *HabitAddCommand) Execute(ctx context.Context, args []string) error {
	words, opts := parseArgs(args, "name", "emoji", "repeat", "every")
	in, err := habitInput(words, opts, domain.HabitInput{})
	if err != nil {
		return c.errorHandler.Handle("add habit", err)
	}
	habit, err := c.businessAPI.CreateHabit(ctx, in)
	if err != nil {
		return c.errorHandler.Handle("add habit", err)
	}
	c.app.printf("Added habit %s %s %s\n", mutedStyle.Render(shortID(habit.ID)), habit.Emoji, habit.Name)
	return nil
}

// HabitEditCommand handles the habit edit command
type HabitEditCommand struct{ taskCommand }

// NewHabitEditCommand creates a new habit edit command handler
func NewHabitEditCommand(app *App) *HabitEditCommand {
	return &HabitEditCommand{newTaskCommand(app)}
}

// Execute runs the habit edit command. Completions and streaks are kept.
func (c *HabitEditCommand) Execute(ctx context.Context, args []string) error {
	words, opts := parseArgs(args, "name", "emoji", "repeat", "every")
	if len(words) != 1 || len(opts) == 0 {
		return errors.NewInvalidInputError("command", "habit edit", "usage: zf habit edit <habit> name=... emoji=... repeat=daily|weekly|custom every=N")
	}
	current, err := c.resolveHabit(ctx, words[0])
	if err != nil {
		return c.errorHandler.Handle("edit habit", err)
	}
	base := domain.HabitInput{Name: current.Name, Emoji: current.Emoji, Frequency: current.Frequency, CustomFreqDays: current.CustomFreqDays}
	in, err := habitInput(nil, opts, base)
	if err != nil {
		return c.errorHandler.Handle("edit habit", err)
	}
	habit, err := c.businessAPI.UpdateHabit(ctx, current.ID, in)
	if err != nil {
		return c.errorHandler.Handle("edit habit", err)
	}
	c.app.printf("Updated habit %s\n", habit.Name)
	return nil
}

// HabitToggleCommand handles the habit toggle command
type HabitToggleCommand struct{ taskCommand }

// NewHabitToggleCommand creates a new habit toggle command handler
func NewHabitToggleCommand(app *App) *HabitToggleCommand {
	return &HabitToggleCommand{newTaskCommand(app)}
}

// Execute marks a habit done for today, or unmarks it when already done
func (c *HabitToggleCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("command", "habit toggle", "usage: zf habit toggle <habit>")
	}
	habit, err := c.resolveHabit(ctx, strings.Join(args, " "))
	if err != nil {
		return c.errorHandler.Handle("toggle habit", err)
	}
	result, err := c.businessAPI.ToggleHabit(ctx, habit.ID)
	if err != nil {
		return c.errorHandler.Handle("toggle habit", err)
	}
	if result.Done {
		c.app.printf("%s %s done today  %s  🔥 %d\n", result.Habit.Emoji, result.Habit.Name,
			goldStyle.Render(fmt.Sprintf("+%d XP  +%d Gold", result.XP, result.Gold)), result.Habit.Streak)
		return nil
	}
	c.app.printf("%s %s unmarked  🔥 %d\n", result.Habit.Emoji, result.Habit.Name, result.Habit.Streak)
	return nil
}

// HabitRemoveCommand handles the habit rm command
type HabitRemoveCommand struct{ taskCommand }

// NewHabitRemoveCommand creates a new habit rm command handler
func NewHabitRemoveCommand(app *App) *HabitRemoveCommand {
	return &HabitRemoveCommand{newTaskCommand(app)}
}

// Execute runs the habit rm command
func (c *HabitRemoveCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("command", "habit rm", "usage: zf habit rm <habit>")
	}
	habit, err := c.resolveHabit(ctx, strings.Join(args, " "))
	if err != nil {
		return c.errorHandler.Handle("delete habit", err)
	}
	if err := c.businessAPI.DeleteHabit(ctx, habit.ID); err != nil {
		return c.errorHandler.Handle("delete habit", err)
	}
	c.app.printf("Deleted habit %s\n", habit.Name)
	return nil
}

// HabitListCommand handles the habit ls command
type HabitListCommand struct{ taskCommand }

// NewHabitListCommand creates a new habit ls command handler
func NewHabitListCommand(app *App) *HabitListCommand {
	return &HabitListCommand{newTaskCommand(app)}
}

// Execute lists habits with the last seven days of completions
func (c *HabitListCommand) Execute(ctx context.Context, args []string) error {
	habits, err := c.businessAPI.ListHabits(ctx)
	if err != nil {
		return c.errorHandler.Handle("list habits", err)
	}
	if len(habits) == 0 {
		c.app.printf("No habits found\n")
		return nil
	}
	today := c.app.today()
	for _, h := range habits {
		var week strings.Builder
		for i := 6; i >= 0; i-- {
			if h.DoneOn(today.AddDays(-i)) {
				week.WriteString("●")
			} else {
				week.WriteString("○")
			}
		}
		c.app.printf("%s %s %s  %s  🔥 %d (best %d)\n", mutedStyle.Render(shortID(h.ID)), h.Emoji, h.Name,
			week.String(), h.Streak, h.LongestStreak)
	}
	return nil
}
