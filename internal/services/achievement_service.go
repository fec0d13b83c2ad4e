package services

import (
	"context"
	"fmt"

	"zenflow/internal/domain"
	"zenflow/internal/state"
)

// achievementServiceImpl implements the AchievementService interface
type achievementServiceImpl struct {
	env         *Env
	progression ProgressionService
}

// NewAchievementService creates a new AchievementService instance
func NewAchievementService(env *Env, progression ProgressionService) AchievementService {
	return &achievementServiceImpl{env: env, progression: progression}
}

// Evaluate unlocks every catalogue entry whose threshold is met and that is still locked.
// Each unlock grants gold. Flags are never cleared here or anywhere else.
func (a *achievementServiceImpl) Evaluate(ctx context.Context) []domain.AchievementID {
	st := a.env.State
	if st.Achievements == nil {
		st.Achievements = domain.NewAchievements()
	}

	progress := st.Progress()
	var unlocked []domain.AchievementID
	for _, def := range domain.Catalogue {
		if st.Achievements[def.ID] || progress.Value(def.Metric) < def.Threshold {
			continue
		}
		st.Achievements[def.ID] = true
		a.progression.AddGold(domain.AchievementGold)
		a.env.Metrics.AchievementUnlocked(string(def.ID))
		a.env.notify(NotifyAchievement, fmt.Sprintf("Achievement unlocked: %s (+%d Gold)", def.Name, domain.AchievementGold))
		unlocked = append(unlocked, def.ID)
	}

	if len(unlocked) > 0 {
		a.env.persist(ctx, state.KeyAchievements, state.KeyUser)
	}
	return unlocked
}
