package services

import (
	"zenflow/internal/clock"
	"zenflow/internal/domain"
)

// DefaultHistoryDays is how many days History covers when no length is given
const DefaultHistoryDays = 7

// DayStatistics summarises the activity recorded on one day
type DayStatistics struct {
	Day            clock.Day `json:"day"`
	CompletedCount int       `json:"completedCount"`
	FocusMinutes   int       `json:"focusMinutes"`
	HabitsDone     int       `json:"habitsDone"`
}

// ProjectSummary pairs a project with its progress
type ProjectSummary struct {
	Project  *domain.Project        `json:"project"`
	Progress domain.ProjectProgress `json:"progress"`
}

// Dashboard is everything the status views show
type Dashboard struct {
	User            domain.UserProfile `json:"user"`
	Streak          domain.Streak      `json:"streak"`
	Today           DayStatistics      `json:"today"`
	CompletedToday  int                `json:"completedToday"`
	CompletedWeek   int                `json:"completedThisWeek"`
	CompletedTotal  int                `json:"completedTotal"`
	FocusToday      int                `json:"focusMinutesToday"`
	FocusTotal      int                `json:"focusMinutesTotal"`
	SessionsToday   int                `json:"sessionsToday"`
	PendingCount    int                `json:"pendingCount"`
	OverdueCount    int                `json:"overdueCount"`
	NextPet         *domain.Pet        `json:"nextPet,omitempty"`
	Unlocked        int                `json:"achievementsUnlocked"`
	AchievementsMax int                `json:"achievementsTotal"`
	Projects        []ProjectSummary   `json:"projects"`
}

// ReportingService derives read-only summaries from the state
type ReportingService interface {
	GetDashboard() *Dashboard
	GetDayStatistics(day clock.Day) DayStatistics
	GetHistory(days int) []DayStatistics
}

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct {
	env *Env
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(env *Env) ReportingService {
	return &reportingServiceImpl{env: env}
}

// GetDashboard summarises the profile, today's counters and every project
func (r *reportingServiceImpl) GetDashboard() *Dashboard {
	st := r.env.State
	today := r.env.today()

	dash := &Dashboard{
		User:            st.User,
		Streak:          st.Streak,
		Today:           r.GetDayStatistics(today),
		CompletedToday:  st.Stats.TasksCompletedToday,
		CompletedWeek:   st.Stats.TasksCompletedThisWeek,
		CompletedTotal:  st.Stats.TotalTasksCompleted,
		FocusToday:      st.Stats.FocusMinutesToday,
		FocusTotal:      st.Stats.TotalFocusMinutes,
		SessionsToday:   st.Focus.SessionsToday,
		NextPet:         nextPet(st.User.Level),
		Unlocked:        st.Achievements.Unlocked(),
		AchievementsMax: len(domain.Catalogue),
		Projects:        make([]ProjectSummary, 0, len(st.Projects)),
	}

	for _, t := range st.Tasks {
		switch t.Status(today) {
		case domain.StatusPending:
			dash.PendingCount++
		case domain.StatusOverdue:
			dash.OverdueCount++
		}
	}
	for _, p := range st.Projects {
		dash.Projects = append(dash.Projects, ProjectSummary{Project: p, Progress: p.Progress(st.Tasks)})
	}
	return dash
}

// GetDayStatistics reads the per-day maps and the habit completions for day
func (r *reportingServiceImpl) GetDayStatistics(day clock.Day) DayStatistics {
	st := r.env.State
	stats := DayStatistics{
		Day:            day,
		CompletedCount: st.Stats.DailyCompletions[day],
		FocusMinutes:   st.Stats.DailyFocus[day],
	}
	for _, h := range st.Habits {
		if h.DoneOn(day) {
			stats.HabitsDone++
		}
	}
	return stats
}

// GetHistory returns statistics for the last days days, oldest first, ending today
func (r *reportingServiceImpl) GetHistory(days int) []DayStatistics {
	if days <= 0 {
		days = DefaultHistoryDays
	}
	today := r.env.today()
	history := make([]DayStatistics, days)
	for i := range days {
		history[i] = r.GetDayStatistics(today.AddDays(i - days + 1))
	}
	return history
}

func nextPet(level int) *domain.Pet {
	for i := range domain.Pets {
		if domain.Pets[i].Level > level {
			return &domain.Pets[i]
		}
	}
	return nil
}
