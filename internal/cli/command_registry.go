package cli

import (
	"context"
	"sort"
	"strings"

	"zenflow/internal/errors"
)

// Command represents a CLI command
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// CommandRegistry manages all available commands
type CommandRegistry struct {
	app      *App
	commands map[string]Command
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry(app *App) *CommandRegistry {
	registry := &CommandRegistry{
		app:      app,
		commands: make(map[string]Command),
	}

	// Tasks
	registry.Register("add", NewAddCommand(app))
	registry.Register("list", NewListCommand(app))
	registry.Register("show", NewShowCommand(app))
	registry.Register("edit", NewEditCommand(app))
	registry.Register("done", NewDoneCommand(app))
	registry.Register("undo", NewUndoCommand(app))
	registry.Register("rm", NewRemoveCommand(app))
	registry.Register("subtask", NewSubtaskCommand(app))

	// Projects and tags
	registry.Register("project add", NewProjectAddCommand(app))
	registry.Register("project edit", NewProjectEditCommand(app))
	registry.Register("project rm", NewProjectRemoveCommand(app))
	registry.Register("project ls", NewProjectListCommand(app))
	registry.Register("tag add", NewTagAddCommand(app))
	registry.Register("tag rename", NewTagRenameCommand(app))
	registry.Register("tag rm", NewTagRemoveCommand(app))
	registry.Register("tag ls", NewTagListCommand(app))

	// Habits
	registry.Register("habit add", NewHabitAddCommand(app))
	registry.Register("habit edit", NewHabitEditCommand(app))
	registry.Register("habit toggle", NewHabitToggleCommand(app))
	registry.Register("habit rm", NewHabitRemoveCommand(app))
	registry.Register("habit ls", NewHabitListCommand(app))

	// Focus
	registry.Register("focus", NewFocusCommand(app))
	registry.Register("focus set", NewFocusSetCommand(app))
	registry.Register("focus status", NewFocusStatusCommand(app))

	// Rewards
	registry.Register("rewards ls", NewRewardListCommand(app))
	registry.Register("rewards redeem", NewRewardRedeemCommand(app))
	registry.Register("rewards add", NewRewardAddCommand(app))
	registry.Register("rewards rm", NewRewardRemoveCommand(app))

	// Profile
	registry.Register("status", NewStatusCommand(app))
	registry.Register("history", NewHistoryCommand(app))
	registry.Register("achievements", NewAchievementsCommand(app))

	// Session and data
	registry.Register("rollover", NewRolloverCommand(app))
	registry.Register("export", NewExportCommand(app))
	registry.Register("import", NewImportCommand(app))
	registry.Register("reset", NewResetCommand(app))
	registry.Register("serve", NewServeCommand(app))

	return registry
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(name string, command Command) {
	r.commands[name] = command
}

// Resolve splits args into the longest registered command name and its arguments
func (r *CommandRegistry) Resolve(args []string) (string, []string) {
	if len(args) >= 2 {
		if _, ok := r.commands[args[0]+" "+args[1]]; ok {
			return args[0] + " " + args[1], args[2:]
		}
	}
	if len(args) == 0 {
		return "", nil
	}
	return args[0], args[1:]
}

// Execute runs the specified command with the given arguments, then prints any notifications it raised
func (r *CommandRegistry) Execute(ctx context.Context, commandName string, args []string) error {
	command, exists := r.commands[commandName]
	if !exists {
		return errors.NewInvalidInputError("command", commandName, "unknown command")
	}
	err := command.Execute(ctx, args)
	r.app.flushNotifications()
	if errors.IsAppError(err) {
		return NewErrorHandler().HandleSimple(err)
	}
	return err
}

// Names lists every registered command name in order
func (r *CommandRegistry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetUsage returns the usage string for the CLI
func (r *CommandRegistry) GetUsage() string {
	return "usage: zf <command> [args]\ncommands: " + strings.Join(r.Names(), ", ")
}
