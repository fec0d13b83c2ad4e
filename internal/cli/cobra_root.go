package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"zenflow/internal/config"
)

// Builder constructs the application once configuration is final
type Builder func(cfg *config.Config) (*App, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	loader *config.Loader
	build  Builder
	config *config.Config
	app    *App
}

// commandDef describes one leaf of the command tree
type commandDef struct {
	path  string
	use   string
	short string
	long  string
	args  cobra.PositionalArgs
	// interactive commands run until the user stops them and ignore the app timeout
	interactive bool
}

var commandDefs = []commandDef{
	{path: "add", use: `add "title" [key=value...]`, short: "Add a task", args: cobra.MinimumNArgs(1),
		long: `Add a task. Options:
  due=YYYY-MM-DD|today|tomorrow  time=HH:MM  priority=p1..p4  difficulty=easy|medium|hard
  tag=a,b  project=<project>  repeat=daily|weekly|custom  every=N  note=...  subtask=...  flag=true

Examples:
  zf add "Write report" due=tomorrow priority=p1 difficulty=hard
  zf add "Water plants" repeat=custom every=3 tag=home`},
	{path: "list", use: "list [text] [key=value...]", short: "List tasks",
		long: `List tasks, optionally filtered and sorted. Options:
  status=pending,overdue,completed  priority=p1,p2  project=<project>  tag=<tag>
  sort=default|priority|due-date|title|difficulty`},
	{path: "show", use: "show <task>", short: "Show one task in detail", args: cobra.ExactArgs(1)},
	{path: "edit", use: "edit <task> key=value...", short: "Edit a task", args: cobra.MinimumNArgs(2),
		long: "Edit a task. Accepts the options of add plus title=..."},
	{path: "done", use: "done <task>", short: "Complete a task and collect XP and gold", args: cobra.ExactArgs(1)},
	{path: "undo", use: "undo <task>", short: "Reopen a completed task, paying the undo penalty", args: cobra.ExactArgs(1)},
	{path: "rm", use: "rm <task>", short: "Delete a task", args: cobra.ExactArgs(1)},
	{path: "subtask", use: "subtask <task> <n> | subtask <task> add <text>", short: "Toggle or add a subtask", args: cobra.MinimumNArgs(2)},

	{path: "project add", use: `add "name" [emoji=..] [color=#rrggbb] [due=YYYY-MM-DD]`, short: "Add a project", args: cobra.MinimumNArgs(1)},
	{path: "project edit", use: "edit <project> key=value...", short: "Edit a project", args: cobra.MinimumNArgs(2)},
	{path: "project rm", use: "rm <project>", short: "Delete a project, keeping its tasks", args: cobra.ExactArgs(1)},
	{path: "project ls", use: "ls", short: "List projects with progress", args: cobra.NoArgs},
	{path: "tag add", use: "add <name> [color=#rrggbb] [emoji=..]", short: "Add a tag", args: cobra.MinimumNArgs(1)},
	{path: "tag rename", use: "rename <tag> <new name>", short: "Rename a tag on every task", args: cobra.ExactArgs(2)},
	{path: "tag rm", use: "rm <tag>", short: "Delete a tag and remove it from tasks", args: cobra.ExactArgs(1)},
	{path: "tag ls", use: "ls", short: "List tags", args: cobra.NoArgs},

	{path: "habit add", use: `add "name" [emoji=..] [repeat=daily|weekly|custom] [every=N]`, short: "Add a habit", args: cobra.MinimumNArgs(1)},
	{path: "habit edit", use: "edit <habit> key=value...", short: "Edit a habit", args: cobra.MinimumNArgs(2)},
	{path: "habit toggle", use: "toggle <habit>", short: "Mark a habit done today, or unmark it", args: cobra.MinimumNArgs(1)},
	{path: "habit rm", use: "rm <habit>", short: "Delete a habit", args: cobra.MinimumNArgs(1)},
	{path: "habit ls", use: "ls", short: "List habits with the last seven days", args: cobra.NoArgs},

	{path: "focus", use: "focus", short: "Run the focus timer", args: cobra.NoArgs, interactive: true,
		long: "Run the pomodoro timer full screen. Keys: s start/pause, r reset, n skip, q quit."},
	{path: "focus set", use: "set work=N break=N", short: "Set focus and break minutes", args: cobra.MinimumNArgs(1)},
	{path: "focus status", use: "status", short: "Show focus settings and sessions", args: cobra.NoArgs},

	{path: "rewards ls", use: "ls", short: "Show the reward shop", args: cobra.NoArgs},
	{path: "rewards redeem", use: "redeem <reward>", short: "Spend gold on a reward", args: cobra.MinimumNArgs(1)},
	{path: "rewards add", use: `add "name" cost=N [emoji=..] [desc=..]`, short: "Add a custom reward", args: cobra.MinimumNArgs(2)},
	{path: "rewards rm", use: "rm <reward>", short: "Delete a custom reward", args: cobra.MinimumNArgs(1)},

	{path: "status", use: "status", short: "Show level, HP, gold and today's progress", args: cobra.NoArgs},
	{path: "history", use: "history [days]", short: "Show daily activity, oldest first", args: cobra.MaximumNArgs(1)},
	{path: "achievements", use: "achievements", short: "List achievements and progress", args: cobra.NoArgs},

	{path: "rollover", use: "rollover", short: "Run the daily baseline now", args: cobra.NoArgs},
	{path: "export", use: "export [file]", short: "Export a JSON backup", args: cobra.MaximumNArgs(1)},
	{path: "import", use: "import <file>", short: "Import a JSON backup", args: cobra.ExactArgs(1)},
	{path: "reset", use: "reset confirm=yes", short: "Erase all data", args: cobra.MaximumNArgs(1)},
	{path: "serve", use: "serve [addr=host:port]", short: "Serve the JSON API and metrics", args: cobra.MaximumNArgs(1), interactive: true},
}

var groupShorts = map[string]string{
	"project": "Manage projects",
	"tag":     "Manage tags",
	"habit":   "Manage habits",
	"rewards": "Browse and redeem rewards",
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(loader *config.Loader, build Builder) *RootCommand {
	root := &RootCommand{
		loader: loader,
		build:  build,
	}

	root.cmd = &cobra.Command{
		Use:   "zf",
		Short: "A gamified task, habit and focus tracker",
		Long: `ZenFlow (zf) turns your task list into a game.

FEATURES:
  • Tasks with priorities, due dates, subtasks, tags, projects and recurrence
  • XP, levels, HP, gold and a reward shop
  • Habits with streaks, a daily streak and achievements
  • A pomodoro focus timer
  • JSON backup export and import, and a local HTTP API

EXAMPLES:
  zf add "Write report" due=today difficulty=hard   # Add a task
  zf list status=pending,overdue sort=priority     # What is left
  zf done 3f2a                                     # Complete by id prefix
  zf habit toggle Meditate                         # Mark a habit for today
  zf focus                                         # Start the focus timer
  zf status                                        # Profile and progress

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > config.yaml > defaults

    ZF_STORE_BACKEND                       sqlite, memory or redis (default: sqlite)
    ZF_STORE_DIR                           Data directory (default: ~/.zenflow)
    ZF_REDIS_URL                           Redis URL for the redis backend
    ZF_FOCUS_WORK / ZF_FOCUS_BREAK         Default focus minutes (default: 25 / 5)
    ZF_WEEK_START                          First day of the week (default: monday)
    ZF_TIMEZONE                            IANA zone for day boundaries (default: local)
    ZF_APP_TIMEOUT                         Command timeout (default: 60s)
    ZF_HTTP_ADDR                           serve address (default: 127.0.0.1:7420)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command and releases the application afterwards
func (r *RootCommand) Execute() error {
	return r.ExecuteArgs(os.Args[1:])
}

// ExecuteArgs runs the root command with explicit arguments
func (r *RootCommand) ExecuteArgs(args []string) error {
	r.cmd.SetArgs(args)
	err := r.cmd.Execute()
	if r.app != nil {
		if closeErr := r.app.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	// Store configuration
	flags.String("store", "", "Store backend: sqlite, memory or redis (overrides ZF_STORE_BACKEND)")
	flags.String("store-dir", "", "Data directory (overrides ZF_STORE_DIR)")
	flags.String("store-file", "", "Sqlite filename (overrides ZF_STORE_FILENAME)")
	flags.String("redis-url", "", "Redis URL (overrides ZF_REDIS_URL)")
	flags.Duration("write-timeout", 0, "Store write timeout (overrides ZF_STORE_WRITE_TIMEOUT)")

	// Focus configuration
	flags.Int("work", 0, "Default focus minutes (overrides ZF_FOCUS_WORK)")
	flags.Int("break", 0, "Default break minutes (overrides ZF_FOCUS_BREAK)")

	// Schedule configuration
	flags.String("week-start", "", "First day of the week (overrides ZF_WEEK_START)")
	flags.String("timezone", "", "IANA time zone (overrides ZF_TIMEZONE)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Application timeout (overrides ZF_APP_TIMEOUT)")
	flags.BoolP("verbose", "v", false, "Enable debug logging (overrides ZF_APP_VERBOSE)")
	flags.String("addr", "", "HTTP listen address for serve (overrides ZF_HTTP_ADDR)")
}

// addSubcommands builds the command tree from commandDefs
func (r *RootCommand) addSubcommands() {
	parents := map[string]*cobra.Command{}

	for _, def := range commandDefs {
		parts := strings.Fields(def.path)
		cmd := &cobra.Command{
			Use:   def.use,
			Short: def.short,
			Long:  def.long,
			Args:  def.args,
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.run(cmd.Context(), def, args)
			},
		}

		if len(parts) == 1 {
			r.cmd.AddCommand(cmd)
			parents[parts[0]] = cmd
			continue
		}

		parent, ok := parents[parts[0]]
		if !ok {
			parent = &cobra.Command{Use: parts[0], Short: groupShorts[parts[0]]}
			r.cmd.AddCommand(parent)
			parents[parts[0]] = parent
		}
		parent.AddCommand(cmd)
	}
}

// run dispatches a parsed command through the registry
func (r *RootCommand) run(parent context.Context, def commandDef, args []string) error {
	if parent == nil {
		parent = context.Background()
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if def.interactive {
		ctx, cancel = signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	} else {
		ctx, cancel = context.WithTimeout(parent, r.getAppTimeout())
	}
	defer cancel()

	return r.app.registry.Execute(ctx, def.path, args)
}

// setup loads configuration with flag overrides and builds the application
func (r *RootCommand) setup() error {
	if r.app != nil {
		return nil
	}
	cfg, err := r.loader.LoadWithOverrides(r.getOverridesFromFlags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	r.config = cfg

	app, err := r.build(cfg)
	if err != nil {
		return err
	}
	r.app = app
	return nil
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// getOverridesFromFlags collects every flag the user actually set
func (r *RootCommand) getOverridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	o := &config.ConfigOverrides{}

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	num := func(name string) *int {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetInt(name)
		return &v
	}
	dur := func(name string) *time.Duration {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetDuration(name)
		return &v
	}

	o.StoreBackend = str("store")
	o.StoreDir = str("store-dir")
	o.StoreFilename = str("store-file")
	o.RedisURL = str("redis-url")
	o.WriteTimeout = dur("write-timeout")
	o.WorkMinutes = num("work")
	o.BreakMinutes = num("break")
	o.WeekStart = str("week-start")
	o.Timezone = str("timezone")
	o.Timeout = dur("app-timeout")
	o.HTTPAddr = str("addr")
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		o.Verbose = &v
	}
	return o
}
