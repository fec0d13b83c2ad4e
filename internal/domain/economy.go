package domain

import "math"

// Reward amounts for completing a task of each difficulty
var (
	completionXP   = map[Difficulty]int{DifficultyEasy: 5, DifficultyMedium: 10, DifficultyHard: 20}
	completionGold = map[Difficulty]int{DifficultyEasy: 2, DifficultyMedium: 5, DifficultyHard: 10}
	undoPenalty    = map[Difficulty]int{DifficultyEasy: 3, DifficultyMedium: 5, DifficultyHard: 10}
)

// Fixed amounts outside task completion
const (
	HabitXP             = 5
	HabitGold           = 2
	FocusSessionXP      = 10
	FocusSessionGold    = 5
	AchievementGold     = 10
	ComebackGold        = 5
	OverduePenaltyPerHP = 5
	OverduePenaltyCap   = 50
)

// CompletionReward returns the XP and gold paid for completing a task of difficulty d.
// Unknown difficulties pay like easy.
func CompletionReward(d Difficulty) (xp, gold int) {
	xp, ok := completionXP[d]
	if !ok {
		xp = completionXP[DifficultyEasy]
	}
	gold, ok = completionGold[d]
	if !ok {
		gold = completionGold[DifficultyEasy]
	}
	return xp, gold
}

// UndoPenalty returns the gold deducted when a completed task of difficulty d is reopened
func UndoPenalty(d Difficulty) int {
	if p, ok := undoPenalty[d]; ok {
		return p
	}
	return undoPenalty[DifficultyEasy]
}

// OverduePenalty returns the HP lost for count overdue tasks
func OverduePenalty(count int) int {
	return min(count*OverduePenaltyPerHP, OverduePenaltyCap)
}

// XPForLevel returns the XP needed to leave level: floor(100 * 1.2^(level-1))
func XPForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(100 * math.Pow(1.2, float64(level-1))))
}

// Pet is a companion unlocked at a level threshold
type Pet struct {
	Level int    `json:"level"`
	Icon  string `json:"icon"`
	Name  string `json:"name"`
}

// Pets are ordered by ascending level. A higher tier replaces a lower one.
var Pets = []Pet{
	{Level: 5, Icon: "🐣", Name: "Chick"},
	{Level: 10, Icon: "🐉", Name: "Dragon"},
	{Level: 20, Icon: "🦊", Name: "Fox"},
}

// PetForLevel returns the highest pet unlocked at level, or nil
func PetForLevel(level int) *Pet {
	var found *Pet
	for i := range Pets {
		if level >= Pets[i].Level {
			found = &Pets[i]
		}
	}
	return found
}

// PetUnlockedAt returns the pet whose threshold is exactly level, or nil
func PetUnlockedAt(level int) *Pet {
	for i := range Pets {
		if Pets[i].Level == level {
			return &Pets[i]
		}
	}
	return nil
}

// Reward is an item that can be bought with gold
type Reward struct {
	ID    string `json:"id"`
	Emoji string `json:"emoji"`
	Name  string `json:"name"`
	Desc  string `json:"desc"`
	Cost  int    `json:"cost"`
}

// DefaultRewards is the built-in shop catalogue
var DefaultRewards = []Reward{
	{ID: "r1", Emoji: "☕", Name: "Coffee Break", Desc: "Take a guilt-free 15-min break", Cost: 10},
	{ID: "r2", Emoji: "🍫", Name: "Snack Time", Desc: "Enjoy your favorite snack", Cost: 20},
	{ID: "r3", Emoji: "🎮", Name: "Game Time", Desc: "30 min of guilt-free gaming", Cost: 50},
	{ID: "r4", Emoji: "🎬", Name: "Movie Night", Desc: "Watch a movie or TV episode", Cost: 75},
	{ID: "r5", Emoji: "🏖️", Name: "Day Off", Desc: "A full day of rest", Cost: 200},
}

// IsDefaultReward reports whether id names a built-in reward
func IsDefaultReward(id string) bool {
	for _, r := range DefaultRewards {
		if r.ID == id {
			return true
		}
	}
	return false
}
