package api

import (
	"context"
	"sync"
	"time"

	"zenflow/internal/clock"
	"zenflow/internal/domain"
	"zenflow/internal/errors"
	"zenflow/internal/logging"
	"zenflow/internal/metrics"
	"zenflow/internal/services"
	"zenflow/internal/state"
	"zenflow/internal/store"

	"go.uber.org/zap"
)

// AchievementStatus is a catalogue entry with the user's progress toward it
type AchievementStatus struct {
	ID        domain.AchievementID `json:"id"`
	Name      string               `json:"name"`
	Metric    domain.Metric        `json:"metric"`
	Threshold int                  `json:"threshold"`
	Progress  int                  `json:"progress"`
	Unlocked  bool                 `json:"unlocked"`
}

// FocusStatus pairs the live countdown with the persisted focus counters
type FocusStatus struct {
	Timer domain.FocusTimer `json:"timer"`
	State domain.FocusState `json:"state"`
}

// BusinessAPI defines every operation the zenflow front ends use.
// Returned entities are copies; mutating them does not change the engine.
type BusinessAPI interface {
	// ========== Session ==========

	// Open loads the stored state on first use, then runs the day rollover and the comeback check
	Open(ctx context.Context) (*services.OpenReport, error)

	// Rollover re-runs the day and week baseline without counting as a new session
	Rollover(ctx context.Context) (*services.RolloverReport, error)

	// Notifications returns and clears the messages raised since the last call
	Notifications() []services.Notification

	// ========== Tasks ==========

	CreateTask(ctx context.Context, in domain.TaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	ListTasks(ctx context.Context, opts domain.SearchOptions) ([]*domain.Task, error)
	ToggleSubtask(ctx context.Context, id string, index int) (*domain.Task, error)

	// CompleteTask pays out the task reward. It returns nil, nil when the task is already completed.
	CompleteTask(ctx context.Context, id string) (*services.CompletionResult, error)

	// UncompleteTask charges the undo penalty. It returns nil, nil when the task is not completed.
	UncompleteTask(ctx context.Context, id string) (*services.UndoResult, error)

	// ========== Projects and Tags ==========

	CreateProject(ctx context.Context, in domain.ProjectInput) (*domain.Project, error)
	UpdateProject(ctx context.Context, id string, in domain.ProjectInput) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
	ListProjects(ctx context.Context) ([]services.ProjectSummary, error)
	CreateTag(ctx context.Context, in domain.TagInput) (*domain.Tag, error)
	UpdateTag(ctx context.Context, id string, in domain.TagInput) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id string) error
	ListTags(ctx context.Context) ([]*domain.Tag, error)

	// ========== Habits ==========

	CreateHabit(ctx context.Context, in domain.HabitInput) (*domain.Habit, error)
	UpdateHabit(ctx context.Context, id string, in domain.HabitInput) (*domain.Habit, error)
	DeleteHabit(ctx context.Context, id string) error
	ListHabits(ctx context.Context) ([]*domain.Habit, error)
	ToggleHabit(ctx context.Context, id string) (*services.HabitToggleResult, error)

	// ========== Focus ==========

	GetFocus(ctx context.Context) (*FocusStatus, error)
	StartFocus(ctx context.Context) (*FocusStatus, error)
	PauseFocus(ctx context.Context) (*FocusStatus, error)
	ResetFocus(ctx context.Context) (*FocusStatus, error)
	SkipFocus(ctx context.Context) (*FocusStatus, error)

	// TickFocus advances a running countdown by one second
	TickFocus(ctx context.Context) (services.FocusEvent, error)
	SetFocusDurations(ctx context.Context, workMinutes, breakMinutes int) (*FocusStatus, error)

	// ========== Rewards ==========

	ListRewards(ctx context.Context) ([]domain.Reward, error)
	RedeemReward(ctx context.Context, id string) (*domain.Reward, error)
	AddReward(ctx context.Context, in domain.RewardInput) (*domain.Reward, error)
	DeleteReward(ctx context.Context, id string) error

	// ========== Profile and Analytics ==========

	GetDashboard(ctx context.Context) (*services.Dashboard, error)
	GetHistory(ctx context.Context, days int) ([]services.DayStatistics, error)
	ListAchievements(ctx context.Context) ([]AchievementStatus, error)

	// ========== Data ==========

	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte) error
	Reset(ctx context.Context) error
}

// Dependencies are the adapters the engine runs against. Only Store is required.
type Dependencies struct {
	Store     store.Store
	Clock     clock.Clock
	Notifier  services.Notifier
	Metrics   *metrics.Recorder
	Log       *logging.Logger
	WeekStart time.Weekday
	// WorkMinutes and BreakMinutes seed the focus durations of a profile that has never stored them
	WorkMinutes  int
	BreakMinutes int
}

// businessAPIImpl implements the BusinessAPI interface
type businessAPIImpl struct {
	mu        sync.Mutex
	opened    bool
	deps      Dependencies
	env       *services.Env
	repo      *state.Repository
	services  *services.ServiceContainer
	collector *services.Collector
	log       *logging.Logger
}

// NewBusinessAPI creates a new BusinessAPI instance. Nothing is read from the store until the first call.
func NewBusinessAPI(deps Dependencies) BusinessAPI {
	if deps.Clock == nil {
		deps.Clock = clock.NewSystem(nil)
	}
	if deps.Log == nil {
		deps.Log = logging.Nop()
	}

	repo := state.NewRepository(deps.Store, deps.Log)
	recorder := deps.Metrics
	repo.OnFailure(func(key state.Key, err error) {
		recorder.PersistFailed(string(key))
	})

	collector := services.NewCollector()
	env := &services.Env{
		State:     state.New(),
		Store:     repo,
		Clock:     deps.Clock,
		Notifier:  services.Fanout{collector, deps.Notifier},
		Metrics:   deps.Metrics,
		Log:       deps.Log,
		WeekStart: deps.WeekStart,
	}

	return &businessAPIImpl{
		deps:      deps,
		env:       env,
		repo:      repo,
		services:  services.NewServiceContainer(env),
		collector: collector,
		log:       deps.Log.Named("engine"),
	}
}

// begin takes the engine lock and opens the session if no call has yet.
// The returned func releases the lock.
func (b *businessAPIImpl) begin(ctx context.Context) func() {
	b.mu.Lock()
	if !b.opened {
		b.open(ctx)
	}
	return b.mu.Unlock
}

func (b *businessAPIImpl) open(ctx context.Context) services.OpenReport {
	if !b.opened {
		*b.env.State = *b.repo.Load(ctx)
		if !b.repo.Exists(ctx, state.KeyFocus) && b.deps.WorkMinutes > 0 {
			b.services.Focus.SetDurations(ctx, b.deps.WorkMinutes, b.deps.BreakMinutes)
		}
		b.services.Focus.Reset()
		b.opened = true
	}

	report := b.services.Rollover.Open(ctx)
	b.log.Debug("session opened",
		zap.Stringer("day", report.Rollover.Day),
		zap.Int("spawned", len(report.Rollover.Spawned)),
		zap.Int("comebackGold", report.ComebackGold))
	return report
}

// ========== Session ==========

func (b *businessAPIImpl) Open(ctx context.Context) (*services.OpenReport, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	report := b.open(ctx)
	report.Rollover.Spawned = cloneTasks(report.Rollover.Spawned)
	return &report, nil
}

func (b *businessAPIImpl) Rollover(ctx context.Context) (*services.RolloverReport, error) {
	defer b.begin(ctx)()

	report := b.services.Rollover.Run(ctx)
	report.Spawned = cloneTasks(report.Spawned)
	return &report, nil
}

func (b *businessAPIImpl) Notifications() []services.Notification {
	return b.collector.Drain()
}

// ========== Tasks ==========

func (b *businessAPIImpl) CreateTask(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	defer b.begin(ctx)()

	if in.ProjectID != "" && b.env.State.FindProject(in.ProjectID) == nil {
		return nil, errors.NewNotFoundError("project", in.ProjectID)
	}
	task, err := b.services.Ledger.CreateTask(ctx, in)
	if err != nil {
		return nil, err
	}
	return task.Clone(), nil
}

func (b *businessAPIImpl) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	defer b.begin(ctx)()

	task, err := b.services.Ledger.UpdateTask(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, errors.NewNotFoundError("task", id)
	}
	return task.Clone(), nil
}

func (b *businessAPIImpl) DeleteTask(ctx context.Context, id string) error {
	defer b.begin(ctx)()

	if !b.services.Ledger.DeleteTask(ctx, id) {
		return errors.NewNotFoundError("task", id)
	}
	return nil
}

func (b *businessAPIImpl) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	defer b.begin(ctx)()

	task := b.services.Ledger.GetTask(id)
	if task == nil {
		return nil, errors.NewNotFoundError("task", id)
	}
	return task.Clone(), nil
}

func (b *businessAPIImpl) ListTasks(ctx context.Context, opts domain.SearchOptions) ([]*domain.Task, error) {
	defer b.begin(ctx)()

	return cloneTasks(b.services.Ledger.ListTasks(opts)), nil
}

func (b *businessAPIImpl) ToggleSubtask(ctx context.Context, id string, index int) (*domain.Task, error) {
	defer b.begin(ctx)()

	task, err := b.services.Ledger.ToggleSubtask(ctx, id, index)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, errors.NewNotFoundError("task", id)
	}
	return task.Clone(), nil
}

func (b *businessAPIImpl) CompleteTask(ctx context.Context, id string) (*services.CompletionResult, error) {
	defer b.begin(ctx)()

	if b.services.Ledger.GetTask(id) == nil {
		return nil, errors.NewNotFoundError("task", id)
	}
	result := b.services.Ledger.CompleteTask(ctx, id)
	if result == nil {
		return nil, nil
	}
	result.Task = result.Task.Clone()
	return result, nil
}

func (b *businessAPIImpl) UncompleteTask(ctx context.Context, id string) (*services.UndoResult, error) {
	defer b.begin(ctx)()

	if b.services.Ledger.GetTask(id) == nil {
		return nil, errors.NewNotFoundError("task", id)
	}
	result := b.services.Ledger.UncompleteTask(ctx, id)
	if result == nil {
		return nil, nil
	}
	result.Task = result.Task.Clone()
	return result, nil
}

// ========== Projects and Tags ==========

func (b *businessAPIImpl) CreateProject(ctx context.Context, in domain.ProjectInput) (*domain.Project, error) {
	defer b.begin(ctx)()

	project, err := b.services.Ledger.CreateProject(ctx, in)
	if err != nil {
		return nil, err
	}
	return cloneProject(project), nil
}

func (b *businessAPIImpl) UpdateProject(ctx context.Context, id string, in domain.ProjectInput) (*domain.Project, error) {
	defer b.begin(ctx)()

	project, err := b.services.Ledger.UpdateProject(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errors.NewNotFoundError("project", id)
	}
	return cloneProject(project), nil
}

func (b *businessAPIImpl) DeleteProject(ctx context.Context, id string) error {
	defer b.begin(ctx)()

	if !b.services.Ledger.DeleteProject(ctx, id) {
		return errors.NewNotFoundError("project", id)
	}
	return nil
}

func (b *businessAPIImpl) ListProjects(ctx context.Context) ([]services.ProjectSummary, error) {
	defer b.begin(ctx)()

	projects := b.env.State.Projects
	summaries := make([]services.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		progress, _ := b.services.Ledger.ProjectProgress(p.ID)
		summaries = append(summaries, services.ProjectSummary{Project: cloneProject(p), Progress: progress})
	}
	return summaries, nil
}

func (b *businessAPIImpl) CreateTag(ctx context.Context, in domain.TagInput) (*domain.Tag, error) {
	defer b.begin(ctx)()

	tag, err := b.services.Ledger.CreateTag(ctx, in)
	if err != nil {
		return nil, err
	}
	return cloneTag(tag), nil
}

func (b *businessAPIImpl) UpdateTag(ctx context.Context, id string, in domain.TagInput) (*domain.Tag, error) {
	defer b.begin(ctx)()

	tag, err := b.services.Ledger.UpdateTag(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, errors.NewNotFoundError("tag", id)
	}
	return cloneTag(tag), nil
}

func (b *businessAPIImpl) DeleteTag(ctx context.Context, id string) error {
	defer b.begin(ctx)()

	if !b.services.Ledger.DeleteTag(ctx, id) {
		return errors.NewNotFoundError("tag", id)
	}
	return nil
}

func (b *businessAPIImpl) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	defer b.begin(ctx)()

	tags := make([]*domain.Tag, 0, len(b.env.State.Tags))
	for _, t := range b.env.State.Tags {
		tags = append(tags, cloneTag(t))
	}
	return tags, nil
}

// ========== Habits ==========

func (b *businessAPIImpl) CreateHabit(ctx context.Context, in domain.HabitInput) (*domain.Habit, error) {
	defer b.begin(ctx)()

	habit, err := b.services.Ledger.CreateHabit(ctx, in)
	if err != nil {
		return nil, err
	}
	return cloneHabit(habit), nil
}

func (b *businessAPIImpl) UpdateHabit(ctx context.Context, id string, in domain.HabitInput) (*domain.Habit, error) {
	defer b.begin(ctx)()

	habit, err := b.services.Ledger.UpdateHabit(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if habit == nil {
		return nil, errors.NewNotFoundError("habit", id)
	}
	return cloneHabit(habit), nil
}

func (b *businessAPIImpl) DeleteHabit(ctx context.Context, id string) error {
	defer b.begin(ctx)()

	if !b.services.Ledger.DeleteHabit(ctx, id) {
		return errors.NewNotFoundError("habit", id)
	}
	return nil
}

func (b *businessAPIImpl) ListHabits(ctx context.Context) ([]*domain.Habit, error) {
	defer b.begin(ctx)()

	habits := make([]*domain.Habit, 0, len(b.env.State.Habits))
	for _, h := range b.env.State.Habits {
		habits = append(habits, cloneHabit(h))
	}
	return habits, nil
}

func (b *businessAPIImpl) ToggleHabit(ctx context.Context, id string) (*services.HabitToggleResult, error) {
	defer b.begin(ctx)()

	result := b.services.Ledger.ToggleHabit(ctx, id)
	if result == nil {
		return nil, errors.NewNotFoundError("habit", id)
	}
	result.Habit = cloneHabit(result.Habit)
	return result, nil
}

// ========== Focus ==========

func (b *businessAPIImpl) focusStatus() *FocusStatus {
	return &FocusStatus{Timer: b.services.Focus.Timer(), State: b.env.State.Focus}
}

func (b *businessAPIImpl) GetFocus(ctx context.Context) (*FocusStatus, error) {
	defer b.begin(ctx)()
	return b.focusStatus(), nil
}

func (b *businessAPIImpl) StartFocus(ctx context.Context) (*FocusStatus, error) {
	defer b.begin(ctx)()
	b.services.Focus.Start()
	return b.focusStatus(), nil
}

func (b *businessAPIImpl) PauseFocus(ctx context.Context) (*FocusStatus, error) {
	defer b.begin(ctx)()
	b.services.Focus.Pause()
	return b.focusStatus(), nil
}

func (b *businessAPIImpl) ResetFocus(ctx context.Context) (*FocusStatus, error) {
	defer b.begin(ctx)()
	b.services.Focus.Reset()
	return b.focusStatus(), nil
}

func (b *businessAPIImpl) SkipFocus(ctx context.Context) (*FocusStatus, error) {
	defer b.begin(ctx)()
	b.services.Focus.Skip()
	return b.focusStatus(), nil
}

func (b *businessAPIImpl) TickFocus(ctx context.Context) (services.FocusEvent, error) {
	defer b.begin(ctx)()
	return b.services.Focus.Tick(ctx), nil
}

func (b *businessAPIImpl) SetFocusDurations(ctx context.Context, workMinutes, breakMinutes int) (*FocusStatus, error) {
	defer b.begin(ctx)()
	b.services.Focus.SetDurations(ctx, workMinutes, breakMinutes)
	return b.focusStatus(), nil
}

// ========== Rewards ==========

func (b *businessAPIImpl) ListRewards(ctx context.Context) ([]domain.Reward, error) {
	defer b.begin(ctx)()
	return b.services.Rewards.List(), nil
}

func (b *businessAPIImpl) RedeemReward(ctx context.Context, id string) (*domain.Reward, error) {
	defer b.begin(ctx)()

	reward, err := b.services.Rewards.Redeem(ctx, id)
	if err != nil {
		return nil, err
	}
	if reward == nil {
		return nil, errors.NewNotFoundError("reward", id)
	}
	return reward, nil
}

func (b *businessAPIImpl) AddReward(ctx context.Context, in domain.RewardInput) (*domain.Reward, error) {
	defer b.begin(ctx)()

	reward, err := b.services.Rewards.AddCustom(ctx, in)
	if err != nil {
		return nil, err
	}
	copied := *reward
	return &copied, nil
}

func (b *businessAPIImpl) DeleteReward(ctx context.Context, id string) error {
	defer b.begin(ctx)()

	deleted, err := b.services.Rewards.DeleteCustom(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NewNotFoundError("reward", id)
	}
	return nil
}

// ========== Profile and Analytics ==========

func (b *businessAPIImpl) GetDashboard(ctx context.Context) (*services.Dashboard, error) {
	defer b.begin(ctx)()

	dash := b.services.Reporting.GetDashboard()
	for i := range dash.Projects {
		dash.Projects[i].Project = cloneProject(dash.Projects[i].Project)
	}
	return dash, nil
}

func (b *businessAPIImpl) GetHistory(ctx context.Context, days int) ([]services.DayStatistics, error) {
	defer b.begin(ctx)()
	return b.services.Reporting.GetHistory(days), nil
}

func (b *businessAPIImpl) ListAchievements(ctx context.Context) ([]AchievementStatus, error) {
	defer b.begin(ctx)()

	st := b.env.State
	progress := st.Progress()
	statuses := make([]AchievementStatus, 0, len(domain.Catalogue))
	for _, def := range domain.Catalogue {
		statuses = append(statuses, AchievementStatus{
			ID:        def.ID,
			Name:      def.Name,
			Metric:    def.Metric,
			Threshold: def.Threshold,
			Progress:  min(progress.Value(def.Metric), def.Threshold),
			Unlocked:  st.Achievements[def.ID],
		})
	}
	return statuses, nil
}

// ========== Data ==========

func (b *businessAPIImpl) Export(ctx context.Context) ([]byte, error) {
	defer b.begin(ctx)()

	data, err := b.services.Data.Export(ctx)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeInternal, "failed to encode backup")
	}
	return data, nil
}

func (b *businessAPIImpl) Import(ctx context.Context, data []byte) error {
	defer b.begin(ctx)()
	return b.services.Data.Import(ctx, data)
}

func (b *businessAPIImpl) Reset(ctx context.Context) error {
	defer b.begin(ctx)()

	b.services.Data.Reset(ctx)
	b.services.Focus.Reset()
	return nil
}

func cloneTasks(tasks []*domain.Task) []*domain.Task {
	out := make([]*domain.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

func cloneHabit(h *domain.Habit) *domain.Habit {
	c := *h
	c.Completions = make(map[clock.Day]bool, len(h.Completions))
	for day, done := range h.Completions {
		c.Completions[day] = done
	}
	return &c
}

func cloneProject(p *domain.Project) *domain.Project {
	c := *p
	return &c
}

func cloneTag(t *domain.Tag) *domain.Tag {
	c := *t
	return &c
}
