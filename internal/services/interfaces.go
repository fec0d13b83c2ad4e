package services

import (
	"context"
	"time"

	"zenflow/internal/clock"
	"zenflow/internal/domain"
	"zenflow/internal/logging"
	"zenflow/internal/metrics"
	"zenflow/internal/state"
)

// Persister saves records of the application state. Failures are handled, and swallowed, by the implementation.
type Persister interface {
	Persist(ctx context.Context, st *state.AppState, keys ...state.Key)
	PersistAll(ctx context.Context, st *state.AppState)
	Clear(ctx context.Context)
}

// Env is the application context passed to every service
type Env struct {
	State     *state.AppState
	Store     Persister
	Clock     clock.Clock
	Notifier  Notifier
	Metrics   *metrics.Recorder
	Log       *logging.Logger
	WeekStart time.Weekday
}

func (e *Env) now() time.Time {
	return e.Clock.Now()
}

func (e *Env) today() clock.Day {
	return clock.Today(e.Clock)
}

func (e *Env) persist(ctx context.Context, keys ...state.Key) {
	if e.Store == nil || len(keys) == 0 {
		return
	}
	e.Store.Persist(ctx, e.State, keys...)
}

func (e *Env) notify(kind NotificationKind, message string) {
	if e.Notifier == nil {
		return
	}
	e.Notifier.Notify(Notification{Kind: kind, Message: message})
}

func (e *Env) logger() *logging.Logger {
	if e.Log == nil {
		return logging.Nop()
	}
	return e.Log
}

// CompletionResult reports the economy effects of completing a task
type CompletionResult struct {
	Task         *domain.Task           `json:"task"`
	XP           int                    `json:"xp"`
	Gold         int                    `json:"gold"`
	LevelsGained int                    `json:"levelsGained"`
	Unlocked     []domain.AchievementID `json:"unlocked"`
}

// UndoResult reports the penalty of marking a completed task incomplete again
type UndoResult struct {
	Task *domain.Task `json:"task"`
	// Penalty is the nominal penalty, Deducted what the balance could actually cover
	Penalty  int `json:"penalty"`
	Deducted int `json:"deducted"`
}

// HabitToggleResult reports the state of a habit after a toggle
type HabitToggleResult struct {
	Habit *domain.Habit `json:"habit"`
	Done  bool          `json:"done"`
	XP    int           `json:"xp"`
	Gold  int           `json:"gold"`
}

// RolloverReport lists which baseline steps ran
type RolloverReport struct {
	Day          clock.Day      `json:"day"`
	DailyReset   bool           `json:"dailyReset"`
	FocusReset   bool           `json:"focusReset"`
	WeeklyReset  bool           `json:"weeklyReset"`
	OverdueCheck bool           `json:"overdueCheck"`
	OverdueCount int            `json:"overdueCount"`
	HPLost       int            `json:"hpLost"`
	Spawned      []*domain.Task `json:"spawned"`
}

// OpenReport is the result of opening the engine for a session
type OpenReport struct {
	Rollover     RolloverReport `json:"rollover"`
	ComebackGold int            `json:"comebackGold"`
}

// FocusEvent reports what a timer tick caused
type FocusEvent struct {
	PhaseEnded       bool                   `json:"phaseEnded"`
	SessionCompleted bool                   `json:"sessionCompleted"`
	BreakEnded       bool                   `json:"breakEnded"`
	LevelsGained     int                    `json:"levelsGained"`
	Unlocked         []domain.AchievementID `json:"unlocked"`
}

// ProgressionService applies XP and gold to the user profile. Callers persist the profile.
type ProgressionService interface {
	AddXP(n int) int
	AddGold(n int)
	SpendGold(n int) bool
	CheckPet() *domain.Pet
}

// StreakService tracks the daily activity streak. Callers persist the streak.
type StreakService interface {
	Update(today clock.Day) bool
}

// AchievementService unlocks catalogue entries whose threshold is met
type AchievementService interface {
	Evaluate(ctx context.Context) []domain.AchievementID
}

// LedgerService owns task, project, tag and habit collections and the completion protocol
type LedgerService interface {
	// Tasks
	CreateTask(ctx context.Context, in domain.TaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) bool
	ToggleSubtask(ctx context.Context, id string, index int) (*domain.Task, error)
	GetTask(id string) *domain.Task
	ListTasks(opts domain.SearchOptions) []*domain.Task
	CompleteTask(ctx context.Context, id string) *CompletionResult
	UncompleteTask(ctx context.Context, id string) *UndoResult

	// Projects
	CreateProject(ctx context.Context, in domain.ProjectInput) (*domain.Project, error)
	UpdateProject(ctx context.Context, id string, in domain.ProjectInput) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) bool
	ProjectProgress(id string) (domain.ProjectProgress, bool)

	// Tags
	CreateTag(ctx context.Context, in domain.TagInput) (*domain.Tag, error)
	UpdateTag(ctx context.Context, id string, in domain.TagInput) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id string) bool

	// Habits
	CreateHabit(ctx context.Context, in domain.HabitInput) (*domain.Habit, error)
	UpdateHabit(ctx context.Context, id string, in domain.HabitInput) (*domain.Habit, error)
	DeleteHabit(ctx context.Context, id string) bool
	ToggleHabit(ctx context.Context, id string) *HabitToggleResult
}

// RecurrenceService spawns the next occurrence of completed recurring tasks
type RecurrenceService interface {
	Generate(ctx context.Context, today clock.Day) []*domain.Task
}

// RolloverService establishes the day's baseline counters
type RolloverService interface {
	Run(ctx context.Context) RolloverReport
	Open(ctx context.Context) OpenReport
}

// FocusService drives the focus countdown and rewards finished work sessions
type FocusService interface {
	Timer() domain.FocusTimer
	Start()
	Pause()
	Reset()
	Skip()
	Tick(ctx context.Context) FocusEvent
	CompleteSession(ctx context.Context) FocusEvent
	SetDurations(ctx context.Context, workMinutes, breakMinutes int) domain.FocusState
}

// RewardService is the gold shop
type RewardService interface {
	List() []domain.Reward
	Redeem(ctx context.Context, id string) (*domain.Reward, error)
	AddCustom(ctx context.Context, in domain.RewardInput) (*domain.Reward, error)
	DeleteCustom(ctx context.Context, id string) (bool, error)
}

// DataService exports, imports and resets the whole state
type DataService interface {
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte) error
	Reset(ctx context.Context)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	Progression  ProgressionService
	Streak       StreakService
	Achievements AchievementService
	Ledger       LedgerService
	Recurrence   RecurrenceService
	Rollover     RolloverService
	Focus        FocusService
	Rewards      RewardService
	Data         DataService
	Reporting    ReportingService
}

// NewServiceContainer wires every service against env
func NewServiceContainer(env *Env) *ServiceContainer {
	progression := NewProgressionService(env)
	streak := NewStreakService(env)
	achievements := NewAchievementService(env, progression)
	recurrence := NewRecurrenceService(env)

	return &ServiceContainer{
		Progression:  progression,
		Streak:       streak,
		Achievements: achievements,
		Ledger:       NewLedgerService(env, progression, streak, achievements),
		Recurrence:   recurrence,
		Rollover:     NewRolloverService(env, progression, recurrence),
		Focus:        NewFocusService(env, progression, streak, achievements),
		Rewards:      NewRewardService(env, progression),
		Data:         NewDataService(env),
		Reporting:    NewReportingService(env),
	}
}
