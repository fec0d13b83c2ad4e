package services

import (
	"context"
	"fmt"
	"strings"

	"zenflow/internal/domain"
	"zenflow/internal/errors"
	"zenflow/internal/state"
	"zenflow/internal/validation"

	"github.com/google/uuid"
)

// rewardServiceImpl implements the RewardService interface
type rewardServiceImpl struct {
	env         *Env
	progression ProgressionService
	validator   *validation.TaskValidator
}

// NewRewardService creates a new RewardService instance
func NewRewardService(env *Env, progression ProgressionService) RewardService {
	return &rewardServiceImpl{env: env, progression: progression, validator: validation.NewTaskValidator()}
}

// List returns the built-in rewards followed by custom ones
func (r *rewardServiceImpl) List() []domain.Reward {
	return r.env.State.Rewards()
}

func (r *rewardServiceImpl) find(id string) *domain.Reward {
	for _, reward := range r.List() {
		if reward.ID == id {
			return &reward
		}
	}
	return nil
}

// Redeem buys a reward. An unknown id is a no-op; an uncovered cost fails without changing the balance.
func (r *rewardServiceImpl) Redeem(ctx context.Context, id string) (*domain.Reward, error) {
	reward := r.find(id)
	if reward == nil {
		return nil, nil
	}
	if !r.progression.SpendGold(reward.Cost) {
		return nil, errors.NewInsufficientFundsError(reward.Cost, r.env.State.User.Gold)
	}
	r.env.persist(ctx, state.KeyUser)
	r.env.notify(NotifyReward, fmt.Sprintf("Redeemed %s %s!", reward.Emoji, reward.Name))
	return reward, nil
}

// AddCustom appends a custom reward
func (r *rewardServiceImpl) AddCustom(ctx context.Context, in domain.RewardInput) (*domain.Reward, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := r.validator.ValidateRewardInput(in); err != nil {
		return nil, errors.NewValidationError("invalid reward", err)
	}
	reward := &domain.Reward{
		ID:    uuid.NewString(),
		Emoji: in.Emoji,
		Name:  in.Name,
		Desc:  in.Desc,
		Cost:  in.Cost,
	}
	if reward.Emoji == "" {
		reward.Emoji = "🎁"
	}
	r.env.State.CustomRewards = append(r.env.State.CustomRewards, reward)
	r.env.persist(ctx, state.KeyCustomRewards)
	return reward, nil
}

// DeleteCustom removes a custom reward. Built-in rewards cannot be deleted.
func (r *rewardServiceImpl) DeleteCustom(ctx context.Context, id string) (bool, error) {
	if domain.IsDefaultReward(id) {
		return false, errors.NewInvalidInputError("reward", id, "built-in rewards cannot be deleted")
	}
	st := r.env.State
	for i, reward := range st.CustomRewards {
		if reward.ID != id {
			continue
		}
		st.CustomRewards = append(st.CustomRewards[:i:i], st.CustomRewards[i+1:]...)
		r.env.persist(ctx, state.KeyCustomRewards)
		return true, nil
	}
	return false, nil
}
