package cli

import (
	"context"
	"fmt"
	"strings"

	"zenflow/internal/domain"
	"zenflow/internal/errors"
)

// projectInput reads name, emoji, color and due options, starting from base
func (c taskCommand) projectInput(words []string, opts options, base domain.ProjectInput) (domain.ProjectInput, error) {
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
	if v, ok := opts.last("color"); ok {
		in.Color = v
	}
	if v, ok := opts.last("due"); ok {
		day, err := parseDue(v, c.app.today())
		if err != nil {
			return in, err
		}
		in.DueDate = day
	}
	return in, nil
}

// ProjectAddCommand handles the project add command
type ProjectAddCommand struct{ taskCommand }

// NewProjectAddCommand creates a new project add command handler
func NewProjectAddCommand(app *App) *ProjectAddCommand {
	return &ProjectAddCommand{newTaskCommand(app)}
}

// Execute runs the project add command
func (c *ProjectAddCommand) Execute(ctx context.Context, args []string) error {
	words, opts := parseArgs(args, "name", "emoji", "color", "due")
	in, err := c.projectInput(words, opts, domain.ProjectInput{})
	if err != nil {
		return c.errorHandler.Handle("add project", err)
	}
	project, err := c.businessAPI.CreateProject(ctx, in)
	if err != nil {
		return c.errorHandler.Handle("add project", err)
	}
	c.app.printf("Added project %s %s\n", mutedStyle.Render(shortID(project.ID)), project.Name)
	return nil
}

// ProjectEditCommand handles the project edit command
type ProjectEditCommand struct{ taskCommand }

// NewProjectEditCommand creates a new project edit command handler
func NewProjectEditCommand(app *App) *ProjectEditCommand {
	return &ProjectEditCommand{newTaskCommand(app)}
}

// Execute runs the project edit command. Fields not given keep their value.
func (c *ProjectEditCommand) Execute(ctx context.Context, args []string) error {
	words, opts := parseArgs(args, "name", "emoji", "color", "due")
	if len(words) != 1 || len(opts) == 0 {
		return errors.NewInvalidInputError("command", "project edit", "usage: zf project edit <project> name=... emoji=... color=#rrggbb due=YYYY-MM-DD")
	}
	id, err := c.resolveProject(ctx, words[0])
	if err != nil {
		return c.errorHandler.Handle("edit project", err)
	}
	current, err := c.findProject(ctx, id)
	if err != nil {
		return c.errorHandler.Handle("edit project", err)
	}
	base := domain.ProjectInput{Name: current.Name, Emoji: current.Emoji, Color: current.Color, DueDate: current.DueDate}
	in, err := c.projectInput(nil, opts, base)
	if err != nil {
		return c.errorHandler.Handle("edit project", err)
	}
	project, err := c.businessAPI.UpdateProject(ctx, id, in)
	if err != nil {
		return c.errorHandler.Handle("edit project", err)
	}
	c.app.printf("Updated project %s\n", project.Name)
	return nil
}

func (c taskCommand) findProject(ctx context.Context, id string) (*domain.Project, error) {
	projects, err := c.businessAPI.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if p.Project.ID == id {
			return p.Project, nil
		}
	}
	return nil, errors.NewNotFoundError("project", id)
}

// ProjectRemoveCommand handles the project rm command
type ProjectRemoveCommand struct{ taskCommand }

// NewProjectRemoveCommand creates a new project rm command handler
func NewProjectRemoveCommand(app *App) *ProjectRemoveCommand {
	return &ProjectRemoveCommand{newTaskCommand(app)}
}

// Execute runs the project rm command. Tasks of the project are kept and unassigned.
func (c *ProjectRemoveCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "project rm", "usage: zf project rm <project>")
	}
	id, err := c.resolveProject(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("delete project", err)
	}
	if err := c.businessAPI.DeleteProject(ctx, id); err != nil {
		return c.errorHandler.Handle("delete project", err)
	}
	return nil
}

// ProjectListCommand handles the project ls command
type ProjectListCommand struct{ taskCommand }

// NewProjectListCommand creates a new project ls command handler
func NewProjectListCommand(app *App) *ProjectListCommand {
	return &ProjectListCommand{newTaskCommand(app)}
}

// Execute runs the project ls command
func (c *ProjectListCommand) Execute(ctx context.Context, args []string) error {
	projects, err := c.businessAPI.ListProjects(ctx)
	if err != nil {
		return c.errorHandler.Handle("list projects", err)
	}
	if len(projects) == 0 {
		c.app.printf("No projects found\n")
		return nil
	}
	for _, p := range projects {
		line := fmt.Sprintf("%s %s %s  %s %d/%d (%d%%)",
			mutedStyle.Render(shortID(p.Project.ID)), p.Project.Emoji, p.Project.Name,
			bar(p.Progress.Done, p.Progress.Total, 10), p.Progress.Done, p.Progress.Total, p.Progress.Percent)
		if !p.Project.DueDate.IsZero() {
			line += mutedStyle.Render("  due " + p.Project.DueDate.String())
		}
		c.app.printf("%s\n", line)
	}
	return nil
}

// resolveTag turns an id, id prefix or exact name into a tag
func (c taskCommand) resolveTag(ctx context.Context, ref string) (*domain.Tag, error) {
	tags, err := c.businessAPI.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(tags))
	for i, t := range tags {
		if strings.EqualFold(t.Name, ref) {
			return t, nil
		}
		ids[i] = t.ID
	}
	id, err := resolveID("tag", ref, ids)
	if err != nil {
		return nil, err
	}
	for _, t := range tags {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, errors.NewNotFoundError("tag", ref)
}

// TagAddCommand handles the tag add command
type TagAddCommand struct{ taskCommand }

// NewTagAddCommand creates a new tag add command handler
func NewTagAddCommand(app *App) *TagAddCommand {
	return &TagAddCommand{newTaskCommand(app)}
}

// Execute runs the tag add command
func (c *TagAddCommand) Execute(ctx context.Context, args []string) error {
	words, opts := parseArgs(args, "color", "emoji")
	in := domain.TagInput{Name: strings.Join(words, " ")}
	if v, ok := opts.last("color"); ok {
		in.Color = v
	}
	if v, ok := opts.last("emoji"); ok {
		in.Emoji = v
	}
	tag, err := c.businessAPI.CreateTag(ctx, in)
	if err != nil {
		return c.errorHandler.Handle("add tag", err)
	}
	c.app.printf("Added tag #%s\n", tag.Name)
	return nil
}

// TagRenameCommand handles the tag rename command
type TagRenameCommand struct{ taskCommand }

// NewTagRenameCommand creates a new tag rename command handler
func NewTagRenameCommand(app *App) *TagRenameCommand {
	return &TagRenameCommand{newTaskCommand(app)}
}

// Execute renames a tag. Every task carrying the old name is relabelled.
func (c *TagRenameCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.NewInvalidInputError("command", "tag rename", "usage: zf tag rename <tag> <new name>")
	}
	tag, err := c.resolveTag(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("rename tag", err)
	}
	updated, err := c.businessAPI.UpdateTag(ctx, tag.ID, domain.TagInput{Name: args[1], Color: tag.Color, Emoji: tag.Emoji})
	if err != nil {
		return c.errorHandler.Handle("rename tag", err)
	}
	c.app.printf("Renamed #%s to #%s\n", tag.Name, updated.Name)
	return nil
}

// TagRemoveCommand handles the tag rm command
type TagRemoveCommand struct{ taskCommand }

// NewTagRemoveCommand creates a new tag rm command handler
func NewTagRemoveCommand(app *App) *TagRemoveCommand {
	return &TagRemoveCommand{newTaskCommand(app)}
}

// Execute runs the tag rm command
func (c *TagRemoveCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "tag rm", "usage: zf tag rm <tag>")
	}
	tag, err := c.resolveTag(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("delete tag", err)
	}
	if err := c.businessAPI.DeleteTag(ctx, tag.ID); err != nil {
		return c.errorHandler.Handle("delete tag", err)
	}
	c.app.printf("Deleted tag #%s\n", tag.Name)
	return nil
}

// TagListCommand handles the tag ls command
type TagListCommand struct{ taskCommand }

// NewTagListCommand creates a new tag ls command handler
func NewTagListCommand(app *App) *TagListCommand {
	return &TagListCommand{newTaskCommand(app)}
}

// Execute runs the tag ls command
func (c *TagListCommand) Execute(ctx context.Context, args []string) error {
	tags, err := c.businessAPI.ListTags(ctx)
	if err != nil {
		return c.errorHandler.Handle("list tags", err)
	}
	if len(tags) == 0 {
		c.app.printf("No tags found\n")
		return nil
	}
	for _, t := range tags {
		c.app.printf("%s %s#%s\n", mutedStyle.Render(shortID(t.ID)), t.Emoji, t.Name)
	}
	return nil
}
