package services

import (
	"context"
	"fmt"
	"strings"

	"zenflow/internal/clock"
	"zenflow/internal/domain"
	"zenflow/internal/errors"
	"zenflow/internal/state"
	"zenflow/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTaskTitle replaces an empty title
const DefaultTaskTitle = "Untitled"

// ledgerServiceImpl implements the LedgerService interface
type ledgerServiceImpl struct {
	env          *Env
	progression  ProgressionService
	streak       StreakService
	achievements AchievementService
	validator    *validation.TaskValidator
}

// NewLedgerService creates a new LedgerService instance
func NewLedgerService(env *Env, progression ProgressionService, streak StreakService, achievements AchievementService) LedgerService {
	return &ledgerServiceImpl{
		env:          env,
		progression:  progression,
		streak:       streak,
		achievements: achievements,
		validator:    validation.NewTaskValidator(),
	}
}

// CreateTask applies in over the documented defaults and prepends the new task
func (l *ledgerServiceImpl) CreateTask(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := l.validator.ValidateTaskInput(in); err != nil {
		return nil, errors.NewValidationError("invalid task", err)
	}

	now := l.env.now()
	task := &domain.Task{
		ID:             uuid.NewString(),
		Title:          in.Title,
		Notes:          in.Notes,
		DueDate:        in.DueDate,
		DueTime:        in.DueTime,
		Priority:       in.Priority,
		Difficulty:     in.Difficulty,
		Flagged:        in.Flagged,
		Frequency:      in.Frequency,
		CustomFreqDays: in.CustomFreqDays,
		Subtasks:       append([]domain.Subtask{}, in.Subtasks...),
		Tags:           append([]string{}, in.Tags...),
		ProjectID:      in.ProjectID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if task.Title == "" {
		task.Title = DefaultTaskTitle
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityP4
	}
	if task.Difficulty == "" {
		task.Difficulty = domain.DifficultyEasy
	}
	if task.Frequency == "" {
		task.Frequency = domain.FrequencyNone
	}

	l.env.State.Tasks = append([]*domain.Task{task}, l.env.State.Tasks...)
	l.env.persist(ctx, state.KeyTasks)
	l.env.notify(NotifySuccess, "Task added")
	return task, nil
}

// UpdateTask merges patch into the task. It returns nil, nil when id is unknown.
func (l *ledgerServiceImpl) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if err := l.validator.ValidateTaskPatch(patch); err != nil {
		return nil, errors.NewValidationError("invalid task update", err)
	}
	task := l.env.State.FindTask(id)
	if task == nil {
		return nil, nil
	}

	merged := task.Clone()
	patch.Apply(merged)
	merged.Title = strings.TrimSpace(merged.Title)
	if err := l.validator.ValidateTask(merged); err != nil {
		return nil, errors.NewValidationError("invalid task update", err)
	}
	if merged.Title == "" {
		merged.Title = DefaultTaskTitle
	}
	merged.UpdatedAt = l.env.now()

	*task = *merged
	l.env.persist(ctx, state.KeyTasks)
	return task, nil
}

// DeleteTask removes the task and reports whether it existed
func (l *ledgerServiceImpl) DeleteTask(ctx context.Context, id string) bool {
	st := l.env.State
	for i, t := range st.Tasks {
		if t.ID != id {
			continue
		}
		st.Tasks = append(st.Tasks[:i:i], st.Tasks[i+1:]...)
		l.env.persist(ctx, state.KeyTasks)
		l.env.notify(NotifyInfo, "Task deleted")
		return true
	}
	return false
}

// ToggleSubtask flips one checklist item. It never affects the parent or the economy.
func (l *ledgerServiceImpl) ToggleSubtask(ctx context.Context, id string, index int) (*domain.Task, error) {
	task := l.env.State.FindTask(id)
	if task == nil {
		return nil, nil
	}
	if index < 0 || index >= len(task.Subtasks) {
		return nil, errors.NewInvalidInputError("subtask", index, fmt.Sprintf("task has %d subtasks", len(task.Subtasks)))
	}
	task.Subtasks[index].Done = !task.Subtasks[index].Done
	task.UpdatedAt = l.env.now()
	l.env.persist(ctx, state.KeyTasks)
	return task, nil
}

// GetTask returns the task with id, or nil
func (l *ledgerServiceImpl) GetTask(id string) *domain.Task {
	return l.env.State.FindTask(id)
}

// ListTasks filters and sorts tasks as of today
func (l *ledgerServiceImpl) ListTasks(opts domain.SearchOptions) []*domain.Task {
	return opts.Apply(l.env.State.Tasks, l.env.today())
}

// CompleteTask marks the task done and pays out its difficulty reward.
// It returns nil when the task is unknown or already completed.
func (l *ledgerServiceImpl) CompleteTask(ctx context.Context, id string) *CompletionResult {
	st := l.env.State
	task := st.FindTask(id)
	if task == nil || task.Completed {
		return nil
	}

	now := l.env.now()
	today := l.env.today()
	task.MarkCompleted(now)

	xp, gold := domain.CompletionReward(task.Difficulty)
	levels := l.progression.AddXP(xp)
	l.progression.AddGold(gold)

	st.Stats.RecordCompletion(today)
	if st.History == nil {
		st.History = domain.CompletionHistory{}
	}
	st.History.Append(today, domain.CompletionRecord{TaskID: task.ID, Title: task.Title, At: now})
	l.env.persist(ctx, state.KeyTasks, state.KeyUser, state.KeyStats, state.KeyCompletionHistory)

	if l.streak.Update(today) {
		l.env.persist(ctx, state.KeyStreak)
	}
	unlocked := l.achievements.Evaluate(ctx)

	l.env.Metrics.TaskCompleted(string(task.Difficulty))
	l.env.logger().Debug("task completed", zap.String("id", task.ID), zap.Int("xp", xp), zap.Int("gold", gold))
	l.env.notify(NotifySuccess, fmt.Sprintf("+%d XP, +%d Gold!", xp, gold))

	return &CompletionResult{Task: task, XP: xp, Gold: gold, LevelsGained: levels, Unlocked: unlocked}
}

// UncompleteTask reopens a completed task and charges the undo penalty.
// XP, achievements and already spawned occurrences are left as they are.
// It returns nil when the task is unknown or not completed.
func (l *ledgerServiceImpl) UncompleteTask(ctx context.Context, id string) *UndoResult {
	st := l.env.State
	task := st.FindTask(id)
	if task == nil || !task.Completed {
		return nil
	}

	task.MarkIncomplete(l.env.now())

	penalty := domain.UndoPenalty(task.Difficulty)
	deducted := min(penalty, st.User.Gold)
	st.User.Gold -= deducted

	st.Stats.RevertCompletion(l.env.today())
	l.env.persist(ctx, state.KeyTasks, state.KeyUser, state.KeyStats)

	l.env.Metrics.TaskUncompleted(string(task.Difficulty))
	l.env.notify(NotifyPenalty, fmt.Sprintf("-%d Gold for undoing task", penalty))

	return &UndoResult{Task: task, Penalty: penalty, Deducted: deducted}
}

// CreateProject adds a project
func (l *ledgerServiceImpl) CreateProject(ctx context.Context, in domain.ProjectInput) (*domain.Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := l.validator.ValidateProjectInput(in); err != nil {
		return nil, errors.NewValidationError("invalid project", err)
	}
	project := &domain.Project{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Emoji:     in.Emoji,
		Color:     in.Color,
		DueDate:   in.DueDate,
		CreatedAt: l.env.now(),
	}
	l.env.State.Projects = append(l.env.State.Projects, project)
	l.env.persist(ctx, state.KeyProjects)
	l.env.notify(NotifySuccess, "Project created")
	return project, nil
}

// UpdateProject replaces the editable project fields. It returns nil, nil when id is unknown.
func (l *ledgerServiceImpl) UpdateProject(ctx context.Context, id string, in domain.ProjectInput) (*domain.Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := l.validator.ValidateProjectInput(in); err != nil {
		return nil, errors.NewValidationError("invalid project", err)
	}
	project := l.env.State.FindProject(id)
	if project == nil {
		return nil, nil
	}
	project.Name = in.Name
	project.Emoji = in.Emoji
	project.Color = in.Color
	project.DueDate = in.DueDate
	l.env.persist(ctx, state.KeyProjects)
	return project, nil
}

// DeleteProject removes the project and detaches its tasks, which are kept
func (l *ledgerServiceImpl) DeleteProject(ctx context.Context, id string) bool {
	st := l.env.State
	idx := -1
	for i, p := range st.Projects {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	st.Projects = append(st.Projects[:idx:idx], st.Projects[idx+1:]...)

	for _, t := range st.Tasks {
		if t.ProjectID == id {
			t.ProjectID = ""
		}
	}
	l.env.persist(ctx, state.KeyProjects, state.KeyTasks)
	l.env.notify(NotifyInfo, "Project deleted")
	return true
}

// ProjectProgress counts the project's tasks
func (l *ledgerServiceImpl) ProjectProgress(id string) (domain.ProjectProgress, bool) {
	project := l.env.State.FindProject(id)
	if project == nil {
		return domain.ProjectProgress{}, false
	}
	return project.Progress(l.env.State.Tasks), true
}

// CreateTag adds a tag
func (l *ledgerServiceImpl) CreateTag(ctx context.Context, in domain.TagInput) (*domain.Tag, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := l.validator.ValidateTagInput(in); err != nil {
		return nil, errors.NewValidationError("invalid tag", err)
	}
	tag := &domain.Tag{ID: uuid.NewString(), Name: in.Name, Color: in.Color, Emoji: in.Emoji}
	l.env.State.Tags = append(l.env.State.Tags, tag)
	l.env.persist(ctx, state.KeyTags)
	return tag, nil
}

// UpdateTag edits a tag. A rename rewrites the old name on every task in the same operation.
// It returns nil, nil when id is unknown.
func (l *ledgerServiceImpl) UpdateTag(ctx context.Context, id string, in domain.TagInput) (*domain.Tag, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := l.validator.ValidateTagInput(in); err != nil {
		return nil, errors.NewValidationError("invalid tag", err)
	}
	st := l.env.State
	tag := st.FindTag(id)
	if tag == nil {
		return nil, nil
	}

	keys := []state.Key{state.KeyTags}
	if oldName := tag.Name; oldName != in.Name {
		for _, t := range st.Tasks {
			if renameTag(t, oldName, in.Name) {
				t.UpdatedAt = l.env.now()
			}
		}
		keys = append(keys, state.KeyTasks)
	}
	tag.Name = in.Name
	tag.Color = in.Color
	tag.Emoji = in.Emoji

	l.env.persist(ctx, keys...)
	return tag, nil
}

// DeleteTag removes the tag and strips its name from every task
func (l *ledgerServiceImpl) DeleteTag(ctx context.Context, id string) bool {
	st := l.env.State
	for i, tag := range st.Tags {
		if tag.ID != id {
			continue
		}
		st.Tags = append(st.Tags[:i:i], st.Tags[i+1:]...)
		for _, t := range st.Tasks {
			removeTag(t, tag.Name)
		}
		l.env.persist(ctx, state.KeyTags, state.KeyTasks)
		return true
	}
	return false
}

// renameTag replaces from with to, dropping the duplicate when the task already carries to
func renameTag(t *domain.Task, from, to string) bool {
	if !t.HasTag(from) {
		return false
	}
	had := t.HasTag(to)
	tags := t.Tags[:0]
	for _, name := range t.Tags {
		switch {
		case name == from && !had:
			tags = append(tags, to)
			had = true
		case name == from:
		default:
			tags = append(tags, name)
		}
	}
	t.Tags = tags
	return true
}

func removeTag(t *domain.Task, name string) {
	tags := t.Tags[:0]
	for _, tag := range t.Tags {
		if tag != name {
			tags = append(tags, tag)
		}
	}
	t.Tags = tags
}

// CreateHabit adds a habit with no completions
func (l *ledgerServiceImpl) CreateHabit(ctx context.Context, in domain.HabitInput) (*domain.Habit, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := l.validator.ValidateHabitInput(in); err != nil {
		return nil, errors.NewValidationError("invalid habit", err)
	}
	if in.Frequency == "" {
		in.Frequency = domain.FrequencyDaily
	}
	habit := &domain.Habit{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Emoji:          in.Emoji,
		Frequency:      in.Frequency,
		CustomFreqDays: in.CustomFreqDays,
		Completions:    map[clock.Day]bool{},
		CreatedAt:      l.env.now(),
	}
	l.env.State.Habits = append(l.env.State.Habits, habit)
	l.env.persist(ctx, state.KeyHabits)
	l.env.notify(NotifySuccess, "Habit created")
	return habit, nil
}

// UpdateHabit replaces the editable habit fields. It returns nil, nil when id is unknown.
func (l *ledgerServiceImpl) UpdateHabit(ctx context.Context, id string, in domain.HabitInput) (*domain.Habit, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := l.validator.ValidateHabitInput(in); err != nil {
		return nil, errors.NewValidationError("invalid habit", err)
	}
	habit := l.env.State.FindHabit(id)
	if habit == nil {
		return nil, nil
	}
	habit.Name = in.Name
	habit.Emoji = in.Emoji
	if in.Frequency != "" {
		habit.Frequency = in.Frequency
	}
	habit.CustomFreqDays = in.CustomFreqDays
	l.env.persist(ctx, state.KeyHabits)
	return habit, nil
}

// DeleteHabit removes the habit and reports whether it existed
func (l *ledgerServiceImpl) DeleteHabit(ctx context.Context, id string) bool {
	st := l.env.State
	for i, h := range st.Habits {
		if h.ID != id {
			continue
		}
		st.Habits = append(st.Habits[:i:i], st.Habits[i+1:]...)
		l.env.persist(ctx, state.KeyHabits)
		return true
	}
	return false
}

// ToggleHabit marks or unmarks today. Marking pays the habit reward and counts as streak activity;
// unmarking has no economy effect. The cached streak is recomputed either way.
func (l *ledgerServiceImpl) ToggleHabit(ctx context.Context, id string) *HabitToggleResult {
	habit := l.env.State.FindHabit(id)
	if habit == nil {
		return nil
	}
	if habit.Completions == nil {
		habit.Completions = map[clock.Day]bool{}
	}

	today := l.env.today()
	result := &HabitToggleResult{Habit: habit}
	if habit.Completions[today] {
		delete(habit.Completions, today)
	} else {
		habit.Completions[today] = true
		result.Done = true
		result.XP, result.Gold = domain.HabitXP, domain.HabitGold
		l.progression.AddXP(domain.HabitXP)
		l.progression.AddGold(domain.HabitGold)
		l.streak.Update(today)
		l.env.persist(ctx, state.KeyUser, state.KeyStreak)
		l.env.notify(NotifySuccess, fmt.Sprintf("+%d XP for habit!", domain.HabitXP))
	}

	habit.RefreshStreak(today)
	l.env.persist(ctx, state.KeyHabits)
	if result.Done {
		l.achievements.Evaluate(ctx)
	}
	return result
}
