package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"zenflow/internal/api"
	"zenflow/internal/clock"
	"zenflow/internal/domain"
	"zenflow/internal/errors"
)

var taskOptionKeys = []string{"title", "note", "due", "time", "priority", "difficulty", "flag", "repeat", "every", "tag", "project", "subtask"}

// taskCommand holds what every task command needs
type taskCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

func newTaskCommand(app *App) taskCommand {
	return taskCommand{app: app, businessAPI: app.businessAPI, errorHandler: NewErrorHandler()}
}

// resolveTask turns an id or unique id prefix into a task id
func (c taskCommand) resolveTask(ctx context.Context, ref string) (string, error) {
	tasks, err := c.businessAPI.ListTasks(ctx, domain.SearchOptions{})
	if err != nil {
		return "", err
	}
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return resolveID("task", ref, ids)
}

// resolveProject turns an id, id prefix or exact name into a project id
func (c taskCommand) resolveProject(ctx context.Context, ref string) (string, error) {
	if ref == "" || ref == domain.FilterAll {
		return ref, nil
	}
	projects, err := c.businessAPI.ListProjects(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(projects))
	for i, p := range projects {
		if strings.EqualFold(p.Project.Name, ref) {
			return p.Project.ID, nil
		}
		ids[i] = p.Project.ID
	}
	return resolveID("project", ref, ids)
}

// AddCommand handles the add command
type AddCommand struct{ taskCommand }

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{newTaskCommand(app)}
}

// Execute runs the add command
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	words, opts := parseArgs(args, taskOptionKeys...)
	title := strings.Join(words, " ")
	if t, ok := opts.last("title"); ok {
		title = t
	}
	if strings.TrimSpace(title) == "" {
		return errors.NewInvalidInputError("command", "add", `usage: zf add "task title" [due=YYYY-MM-DD] [priority=p1..p4] [difficulty=easy|medium|hard] [tag=a,b]`)
	}

	in := domain.TaskInput{Title: title, Tags: opts.list("tag")}
	patch, err := c.buildPatch(ctx, opts)
	if err != nil {
		return c.errorHandler.Handle("add task", err)
	}
	applyToInput(&in, patch)

	task, err := c.businessAPI.CreateTask(ctx, in)
	if err != nil {
		return c.errorHandler.Handle("add task", err)
	}
	c.app.printf("Added %s %s\n", mutedStyle.Render(shortID(task.ID)), task.Title)
	return nil
}

// buildPatch converts task options into a patch. Absent options stay nil.
func (c taskCommand) buildPatch(ctx context.Context, opts options) (domain.TaskPatch, error) {
	var patch domain.TaskPatch
	patch.Title = opts.str("title")
	patch.Notes = opts.str("note")
	if v, ok := opts.last("due"); ok {
		day, err := parseDue(v, c.app.today())
		if err != nil {
			return patch, err
		}
		patch.DueDate = &day
	}
	patch.DueTime = opts.str("time")
	if v, ok := opts.last("priority"); ok {
		p := domain.Priority(strings.ToLower(v))
		patch.Priority = &p
	}
	if v, ok := opts.last("difficulty"); ok {
		d := domain.Difficulty(strings.ToLower(v))
		patch.Difficulty = &d
	}
	flag, err := opts.bool("flag")
	if err != nil {
		return patch, err
	}
	patch.Flagged = flag
	if v, ok := opts.last("repeat"); ok {
		f := domain.Frequency(strings.ToLower(v))
		patch.Frequency = &f
	}
	every, err := opts.int("every")
	if err != nil {
		return patch, err
	}
	patch.CustomFreqDays = every
	if _, ok := opts["tag"]; ok {
		tags := opts.list("tag")
		patch.Tags = &tags
	}
	if v, ok := opts.last("project"); ok {
		id, err := c.resolveProject(ctx, v)
		if err != nil {
			return patch, err
		}
		patch.ProjectID = &id
	}
	if _, ok := opts["subtask"]; ok {
		subtasks := make([]domain.Subtask, 0, len(opts["subtask"]))
		for _, text := range opts["subtask"] {
			subtasks = append(subtasks, domain.Subtask{Text: text})
		}
		patch.Subtasks = &subtasks
	}
	return patch, nil
}

// applyToInput copies the set fields of patch onto a new task input
func applyToInput(in *domain.TaskInput, p domain.TaskPatch) {
	if p.Notes != nil {
		in.Notes = *p.Notes
	}
	if p.DueDate != nil {
		in.DueDate = *p.DueDate
	}
	if p.DueTime != nil {
		in.DueTime = *p.DueTime
	}
	if p.Priority != nil {
		in.Priority = *p.Priority
	}
	if p.Difficulty != nil {
		in.Difficulty = *p.Difficulty
	}
	if p.Flagged != nil {
		in.Flagged = *p.Flagged
	}
	if p.Frequency != nil {
		in.Frequency = *p.Frequency
	}
	if p.CustomFreqDays != nil {
		in.CustomFreqDays = *p.CustomFreqDays
	}
	if p.Subtasks != nil {
		in.Subtasks = *p.Subtasks
	}
	if p.ProjectID != nil {
		in.ProjectID = *p.ProjectID
	}
}

// parseDue accepts YYYY-MM-DD, today, tomorrow, or an empty value that clears the date
func parseDue(v string, today clock.Day) (clock.Day, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return "", nil
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	}
	day, err := clock.ParseDay(v)
	if err != nil {
		return "", errors.NewInvalidInputError("due", v, "expected YYYY-MM-DD, today or tomorrow")
	}
	return day, nil
}

// ListCommand handles the list command
type ListCommand struct{ taskCommand }

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{newTaskCommand(app)}
}

// Execute runs the list command
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	words, opts := parseArgs(args, "status", "priority", "project", "tag", "sort")

	search := domain.SearchOptions{Text: strings.Join(words, " ")}
	for _, s := range opts.list("status") {
		search.Status = append(search.Status, domain.TaskStatus(strings.ToLower(s)))
	}
	for _, p := range opts.list("priority") {
		search.Priority = append(search.Priority, domain.Priority(strings.ToLower(p)))
	}
	if v, ok := opts.last("project"); ok {
		id, err := c.resolveProject(ctx, v)
		if err != nil {
			return c.errorHandler.Handle("list tasks", err)
		}
		search.Project = id
	}
	if v, ok := opts.last("tag"); ok {
		search.Tag = v
	}
	if v, ok := opts.last("sort"); ok {
		search.Sort = domain.SortOrder(strings.ToLower(v))
	}

	tasks, err := c.businessAPI.ListTasks(ctx, search)
	if err != nil {
		return c.errorHandler.Handle("list tasks", err)
	}
	if len(tasks) == 0 {
		c.app.printf("No tasks found\n")
		return nil
	}
	today := c.app.today()
	for _, t := range tasks {
		c.app.printf("%s\n", renderTask(t, today))
	}
	return nil
}

// ShowCommand handles the show command
type ShowCommand struct{ taskCommand }

// NewShowCommand creates a new show command handler
func NewShowCommand(app *App) *ShowCommand {
	return &ShowCommand{newTaskCommand(app)}
}

// Execute runs the show command
func (c *ShowCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "show", "usage: zf show <task id>")
	}
	id, err := c.resolveTask(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("show task", err)
	}
	t, err := c.businessAPI.GetTask(ctx, id)
	if err != nil {
		return c.errorHandler.Handle("show task", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerStyle.Render(t.Title))
	fmt.Fprintf(&b, "id:         %s\n", t.ID)
	fmt.Fprintf(&b, "status:     %s\n", t.Status(c.app.today()))
	fmt.Fprintf(&b, "priority:   %s\n", t.Priority)
	fmt.Fprintf(&b, "difficulty: %s\n", t.Difficulty)
	if !t.DueDate.IsZero() {
		fmt.Fprintf(&b, "due:        %s %s\n", t.DueDate, t.DueTime)
	}
	if t.IsRecurring() {
		fmt.Fprintf(&b, "repeats:    %s\n", t.Frequency)
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(&b, "tags:       %s\n", strings.Join(t.Tags, ", "))
	}
	if t.Notes != "" {
		fmt.Fprintf(&b, "\n%s\n", t.Notes)
	}
	for i, s := range t.Subtasks {
		box := "[ ]"
		if s.Done {
			box = "[x]"
		}
		fmt.Fprintf(&b, "  %d. %s %s\n", i+1, box, s.Text)
	}
	c.app.printf("%s", b.String())
	return nil
}

// EditCommand handles the edit command
type EditCommand struct{ taskCommand }

// NewEditCommand creates a new edit command handler
func NewEditCommand(app *App) *EditCommand {
	return &EditCommand{newTaskCommand(app)}
}

// Execute runs the edit command
func (c *EditCommand) Execute(ctx context.Context, args []string) error {
	words, opts := parseArgs(args, taskOptionKeys...)
	if len(words) != 1 || len(opts) == 0 {
		return errors.NewInvalidInputError("command", "edit", "usage: zf edit <task id> key=value...")
	}
	id, err := c.resolveTask(ctx, words[0])
	if err != nil {
		return c.errorHandler.Handle("edit task", err)
	}
	patch, err := c.buildPatch(ctx, opts)
	if err != nil {
		return c.errorHandler.Handle("edit task", err)
	}
	task, err := c.businessAPI.UpdateTask(ctx, id, patch)
	if err != nil {
		return c.errorHandler.Handle("edit task", err)
	}
	c.app.printf("Updated %s\n", task.Title)
	return nil
}

// DoneCommand handles the done command
type DoneCommand struct{ taskCommand }

// NewDoneCommand creates a new done command handler
func NewDoneCommand(app *App) *DoneCommand {
	return &DoneCommand{newTaskCommand(app)}
}

// Execute runs the done command
func (c *DoneCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "done", "usage: zf done <task id>")
	}
	id, err := c.resolveTask(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("complete task", err)
	}
	result, err := c.businessAPI.CompleteTask(ctx, id)
	if err != nil {
		return c.errorHandler.Handle("complete task", err)
	}
	if result == nil {
		c.app.printf("Task is already completed\n")
		return nil
	}
	c.app.printf("Completed %s  %s\n", result.Task.Title,
		goldStyle.Render(fmt.Sprintf("+%d XP  +%d Gold", result.XP, result.Gold)))
	return nil
}

// UndoCommand handles the undo command
type UndoCommand struct{ taskCommand }

// NewUndoCommand creates a new undo command handler
func NewUndoCommand(app *App) *UndoCommand {
	return &UndoCommand{newTaskCommand(app)}
}

// Execute runs the undo command
func (c *UndoCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "undo", "usage: zf undo <task id>")
	}
	id, err := c.resolveTask(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("reopen task", err)
	}
	result, err := c.businessAPI.UncompleteTask(ctx, id)
	if err != nil {
		return c.errorHandler.Handle("reopen task", err)
	}
	if result == nil {
		c.app.printf("Task is not completed\n")
		return nil
	}
	c.app.printf("Reopened %s  %s\n", result.Task.Title,
		overdueStyle.Render(fmt.Sprintf("-%d Gold", result.Deducted)))
	return nil
}

// RemoveCommand handles the rm command
type RemoveCommand struct{ taskCommand }

// NewRemoveCommand creates a new rm command handler
func NewRemoveCommand(app *App) *RemoveCommand {
	return &RemoveCommand{newTaskCommand(app)}
}

// Execute runs the rm command
func (c *RemoveCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "rm", "usage: zf rm <task id>")
	}
	id, err := c.resolveTask(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("delete task", err)
	}
	if err := c.businessAPI.DeleteTask(ctx, id); err != nil {
		return c.errorHandler.Handle("delete task", err)
	}
	return nil
}

// SubtaskCommand handles the subtask command
type SubtaskCommand struct{ taskCommand }

// NewSubtaskCommand creates a new subtask command handler
func NewSubtaskCommand(app *App) *SubtaskCommand {
	return &SubtaskCommand{newTaskCommand(app)}
}

// Execute toggles subtask n (1-based) of a task, or appends one with "add <text>"
func (c *SubtaskCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.NewInvalidInputError("command", "subtask", "usage: zf subtask <task id> <n> | zf subtask <task id> add <text>")
	}
	id, err := c.resolveTask(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("update subtask", err)
	}

	if args[1] == "add" {
		text := strings.TrimSpace(strings.Join(args[2:], " "))
		if text == "" {
			return errors.NewInvalidInputError("subtask", text, "text cannot be empty")
		}
		task, err := c.businessAPI.GetTask(ctx, id)
		if err != nil {
			return c.errorHandler.Handle("add subtask", err)
		}
		subtasks := append(task.Subtasks, domain.Subtask{Text: text})
		if _, err := c.businessAPI.UpdateTask(ctx, id, domain.TaskPatch{Subtasks: &subtasks}); err != nil {
			return c.errorHandler.Handle("add subtask", err)
		}
		c.app.printf("Added subtask %d: %s\n", len(subtasks), text)
		return nil
	}

	n, err := strconv.Atoi(args[1])
	if err != nil {
		return errors.NewInvalidInputError("subtask", args[1], "must be a subtask number")
	}
	task, err := c.businessAPI.ToggleSubtask(ctx, id, n-1)
	if err != nil {
		return c.errorHandler.Handle("toggle subtask", err)
	}
	s := task.Subtasks[n-1]
	state := "open"
	if s.Done {
		state = "done"
	}
	c.app.printf("Subtask %d %s: %s\n", n, state, s.Text)
	return nil
}
