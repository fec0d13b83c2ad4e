package domain

// AchievementID identifies one badge in the catalogue
type AchievementID string

// Metric is the cumulative value an achievement threshold is measured against
type Metric string

const (
	MetricTasksCompleted Metric = "tasks"
	MetricStreak         Metric = "streak"
	MetricFocusMinutes   Metric = "focus"
	MetricLevel          Metric = "level"
)

// AchievementDef is a threshold predicate over one metric
type AchievementDef struct {
	ID        AchievementID
	Name      string
	Metric    Metric
	Threshold int
}

// Progress is the snapshot of metrics achievements are evaluated against
type Progress struct {
	TasksCompleted int
	Streak         int
	FocusMinutes   int
	Level          int
}

// Value returns the metric's current value
func (p Progress) Value(m Metric) int {
	switch m {
	case MetricTasksCompleted:
		return p.TasksCompleted
	case MetricStreak:
		return p.Streak
	case MetricFocusMinutes:
		return p.FocusMinutes
	case MetricLevel:
		return p.Level
	default:
		return 0
	}
}

func tier(id AchievementID, name string, m Metric, threshold int) AchievementDef {
	return AchievementDef{ID: id, Name: name, Metric: m, Threshold: threshold}
}

// Catalogue lists every achievement, ascending by threshold within each metric
var Catalogue = []AchievementDef{
	tier("tasks-1", "First Step", MetricTasksCompleted, 1),
	tier("tasks-10", "Getting Things Done", MetricTasksCompleted, 10),
	tier("tasks-50", "Productivity Pro", MetricTasksCompleted, 50),
	tier("tasks-100", "Centurion", MetricTasksCompleted, 100),
	tier("streak-3", "On Fire", MetricStreak, 3),
	tier("streak-7", "Week Warrior", MetricStreak, 7),
	tier("streak-30", "Unstoppable", MetricStreak, 30),
	tier("focus-1h", "Deep Focus", MetricFocusMinutes, 60),
	tier("focus-10h", "Zen Master", MetricFocusMinutes, 600),
	tier("pet-level5", "Pet Friend", MetricLevel, 5),
	tier("pet-level10", "Dragon Tamer", MetricLevel, 10),
	tier("pet-level20", "Fox Whisperer", MetricLevel, 20),
}

// FindAchievement looks up a catalogue entry by id
func FindAchievement(id AchievementID) (AchievementDef, bool) {
	for _, def := range Catalogue {
		if def.ID == id {
			return def, true
		}
	}
	return AchievementDef{}, false
}

// Achievements maps every catalogue id to its unlocked flag
type Achievements map[AchievementID]bool

// NewAchievements returns the catalogue with every flag locked
func NewAchievements() Achievements {
	a := make(Achievements, len(Catalogue))
	for _, def := range Catalogue {
		a[def.ID] = false
	}
	return a
}

// Unlocked counts the flags set to true
func (a Achievements) Unlocked() int {
	n := 0
	for _, v := range a {
		if v {
			n++
		}
	}
	return n
}
