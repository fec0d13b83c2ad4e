package cli

import (
	"context"
	"strings"

	"zenflow/internal/api"
	"zenflow/internal/domain"
	"zenflow/internal/errors"
)

type rewardCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

func newRewardCommand(app *App) rewardCommand {
	return rewardCommand{app: app, businessAPI: app.businessAPI, errorHandler: NewErrorHandler()}
}

// resolveReward turns an id, id prefix or exact name into a reward
func (c rewardCommand) resolveReward(ctx context.Context, ref string) (domain.Reward, error) {
	rewards, err := c.businessAPI.ListRewards(ctx)
	if err != nil {
		return domain.Reward{}, err
	}
	ids := make([]string, len(rewards))
	for i, r := range rewards {
		if strings.EqualFold(r.Name, ref) {
			return r, nil
		}
		ids[i] = r.ID
	}
	id, err := resolveID("reward", ref, ids)
	if err != nil {
		return domain.Reward{}, err
	}
	for _, r := range rewards {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Reward{}, errors.NewNotFoundError("reward", ref)
}

// RewardListCommand handles the rewards ls command
type RewardListCommand struct{ rewardCommand }

// NewRewardListCommand creates a new rewards ls command handler
func NewRewardListCommand(app *App) *RewardListCommand {
	return &RewardListCommand{newRewardCommand(app)}
}

// Execute lists the shop with the current balance
func (c *RewardListCommand) Execute(ctx context.Context, args []string) error {
	rewards, err := c.businessAPI.ListRewards(ctx)
	if err != nil {
		return c.errorHandler.Handle("list rewards", err)
	}
	dash, err := c.businessAPI.GetDashboard(ctx)
	if err != nil {
		return c.errorHandler.Handle("list rewards", err)
	}
	c.app.printf("%s %s\n", headerStyle.Render("Reward shop"), goldStyle.Render(formatGold(dash.User.Gold)))
	for _, r := range rewards {
		line := r.Emoji + " " + r.Name + "  " + goldStyle.Render(formatGold(r.Cost))
		if r.Cost > dash.User.Gold {
			line = mutedStyle.Render(r.Emoji + " " + r.Name + "  " + formatGold(r.Cost))
		}
		c.app.printf("%-6s %s  %s\n", shortID(r.ID), line, mutedStyle.Render(r.Desc))
	}
	return nil
}

// RewardRedeemCommand handles the rewards redeem command
type RewardRedeemCommand struct{ rewardCommand }

// NewRewardRedeemCommand creates a new rewards redeem command handler
func NewRewardRedeemCommand(app *App) *RewardRedeemCommand {
	return &RewardRedeemCommand{newRewardCommand(app)}
}

// Execute spends gold on a reward
func (c *RewardRedeemCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("command", "rewards redeem", "usage: zf rewards redeem <reward>")
	}
	reward, err := c.resolveReward(ctx, strings.Join(args, " "))
	if err != nil {
		return c.errorHandler.Handle("redeem reward", err)
	}
	if _, err := c.businessAPI.RedeemReward(ctx, reward.ID); err != nil {
		return c.errorHandler.Handle("redeem reward", err)
	}
	return nil
}

// RewardAddCommand handles the rewards add command
type RewardAddCommand struct{ rewardCommand }

// NewRewardAddCommand creates a new rewards add command handler
func NewRewardAddCommand(app *App) *RewardAddCommand {
	return &RewardAddCommand{newRewardCommand(app)}
}

// Execute adds a custom reward
func (c *RewardAddCommand) Execute(ctx context.Context, args []string) error {
	words, opts := parseArgs(args, "cost", "emoji", "desc")
	in := domain.RewardInput{Name: strings.Join(words, " ")}
	cost, err := opts.int("cost")
	if err != nil {
		return c.errorHandler.Handle("add reward", err)
	}
	if cost == nil {
		return errors.NewInvalidInputError("command", "rewards add", `usage: zf rewards add "name" cost=N [emoji=🎁] [desc=...]`)
	}
	in.Cost = *cost
	if v, ok := opts.last("emoji"); ok {
		in.Emoji = v
	}
	if v, ok := opts.last("desc"); ok {
		in.Desc = v
	}
	reward, err := c.businessAPI.AddReward(ctx, in)
	if err != nil {
		return c.errorHandler.Handle("add reward", err)
	}
	c.app.printf("Added reward %s %s for %s\n", reward.Emoji, reward.Name, formatGold(reward.Cost))
	return nil
}

// RewardRemoveCommand handles the rewards rm command
type RewardRemoveCommand struct{ rewardCommand }

// NewRewardRemoveCommand creates a new rewards rm command handler
func NewRewardRemoveCommand(app *App) *RewardRemoveCommand {
	return &RewardRemoveCommand{newRewardCommand(app)}
}

// Execute removes a custom reward. Built-in rewards cannot be removed.
func (c *RewardRemoveCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("command", "rewards rm", "usage: zf rewards rm <reward>")
	}
	reward, err := c.resolveReward(ctx, strings.Join(args, " "))
	if err != nil {
		return c.errorHandler.Handle("delete reward", err)
	}
	if err := c.businessAPI.DeleteReward(ctx, reward.ID); err != nil {
		return c.errorHandler.Handle("delete reward", err)
	}
	c.app.printf("Deleted reward %s\n", reward.Name)
	return nil
}
