package state

import "reflect"

// Key names one persisted record
type Key string

const (
	KeyTasks             Key = "zf_tasks"
	KeyProjects          Key = "zf_projects"
	KeyHabits            Key = "zf_habits"
	KeyTags              Key = "zf_tags"
	KeyUser              Key = "zf_user"
	KeySettings          Key = "zf_settings"
	KeyAchievements      Key = "zf_achievements"
	KeyFocus             Key = "zf_focus"
	KeyStreak            Key = "zf_streak"
	KeyStats             Key = "zf_stats"
	KeyCustomRewards     Key = "zf_custom_rewards"
	KeyCompletionHistory Key = "zf_completion_history"
	KeyFilters           Key = "zf_filters"
	KeyOnboarding        Key = "zf_onboarding"
	KeyBackground        Key = "zf_background"
	KeyLastOpen          Key = "zf_last_open"
)

// record binds a store key and a bundle field name to a field of AppState
type record struct {
	key Key
	// bundle is the top-level export field, empty when the record is not exported
	bundle string
	field  func(*AppState) any
}

var records = []record{
	{KeyTasks, "tasks", func(s *AppState) any { return &s.Tasks }},
	{KeyProjects, "projects", func(s *AppState) any { return &s.Projects }},
	{KeyHabits, "habits", func(s *AppState) any { return &s.Habits }},
	{KeyTags, "tags", func(s *AppState) any { return &s.Tags }},
	{KeyUser, "user", func(s *AppState) any { return &s.User }},
	{KeySettings, "settings", func(s *AppState) any { return &s.Settings }},
	{KeyAchievements, "achievements", func(s *AppState) any { return &s.Achievements }},
	{KeyFocus, "focus", func(s *AppState) any { return &s.Focus }},
	{KeyStreak, "streak", func(s *AppState) any { return &s.Streak }},
	{KeyStats, "stats", func(s *AppState) any { return &s.Stats }},
	{KeyCustomRewards, "customRewards", func(s *AppState) any { return &s.CustomRewards }},
	{KeyCompletionHistory, "completionHistory", func(s *AppState) any { return &s.History }},
	{KeyFilters, "filters", func(s *AppState) any { return &s.Filters }},
	{KeyOnboarding, "onboarded", func(s *AppState) any { return &s.Onboarded }},
	{KeyBackground, "background", func(s *AppState) any { return &s.Background }},
	{KeyLastOpen, "", func(s *AppState) any { return &s.LastOpen }},
}

// AllKeys lists every persisted record key
func AllKeys() []Key {
	keys := make([]Key, len(records))
	for i, r := range records {
		keys[i] = r.key
	}
	return keys
}

func lookup(key Key) (record, bool) {
	for _, r := range records {
		if r.key == key {
			return r, true
		}
	}
	return record{}, false
}

// copyField assigns src's value for rec onto dst
func copyField(dst, src *AppState, rec record) {
	reflect.ValueOf(rec.field(dst)).Elem().Set(reflect.ValueOf(rec.field(src)).Elem())
}
