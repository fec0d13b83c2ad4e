package services

import (
	"fmt"

	"zenflow/internal/domain"

	"go.uber.org/zap"
)

// progressionServiceImpl implements the ProgressionService interface
type progressionServiceImpl struct {
	env *Env
}

// NewProgressionService creates a new ProgressionService instance
func NewProgressionService(env *Env) ProgressionService {
	return &progressionServiceImpl{env: env}
}

// AddXP adds n to the current and lifetime XP and rolls any overflow into levels.
// It returns the number of levels gained.
func (p *progressionServiceImpl) AddXP(n int) int {
	if n <= 0 {
		return 0
	}
	user := &p.env.State.User
	user.XP += n
	user.TotalXP += n

	if user.XPToNext <= 0 {
		user.XPToNext = domain.XPForLevel(max(user.Level, 1))
	}

	gained := 0
	for user.XP >= user.XPToNext {
		user.XP -= user.XPToNext
		user.Level++
		user.XPToNext = domain.XPForLevel(user.Level)
		gained++
		p.levelUp(user.Level)
	}

	p.env.Metrics.LevelsGained(gained)
	return gained
}

func (p *progressionServiceImpl) levelUp(level int) {
	p.env.logger().Info("level up", zap.Int("level", level))
	msg := fmt.Sprintf("Level up! You reached level %d", level)
	if pet := domain.PetUnlockedAt(level); pet != nil {
		msg += fmt.Sprintf(". New pet: %s %s!", pet.Icon, pet.Name)
	}
	p.env.notify(NotifyLevelUp, msg)
	p.CheckPet()
}

// AddGold adds n to the balance and the lifetime total
func (p *progressionServiceImpl) AddGold(n int) {
	if n <= 0 {
		return
	}
	p.env.State.User.Gold += n
	p.env.State.User.TotalGold += n
	p.env.Metrics.GoldEarned(n)
}

// SpendGold deducts n when the balance covers it. Nothing changes otherwise.
func (p *progressionServiceImpl) SpendGold(n int) bool {
	user := &p.env.State.User
	if n < 0 || user.Gold < n {
		return false
	}
	user.Gold -= n
	return true
}

// CheckPet replaces the pet with the highest tier the current level has reached
func (p *progressionServiceImpl) CheckPet() *domain.Pet {
	user := &p.env.State.User
	pet := domain.PetForLevel(user.Level)
	if pet == nil {
		return nil
	}
	user.Pet = pet.Icon
	user.PetName = pet.Name
	return pet
}
