package economy

import "math/rand"

// Reward tiers as persisted on streak bonuses.
const (
	TierCommon    = "common"
	TierRare      = "rare"
	TierLegendary = "legendary"
)

// Roll tier probabilities, cumulative over one uniform draw in [0,1):
// legendary owns the first 10%, rare the next 30%, common the rest.
const (
	legendaryCutoff = 0.10
	rareCutoff      = 0.40
)

// BoxReward is one mystery-box outcome.
type BoxReward struct {
	Tier        string
	Description string
}

var legendaryRewards = []string{
	"Pick the next family movie night",
	"One homework-free evening",
	"Double coins on your next approved activity",
}

var rareRewards = []string{
	"Choose dinner this week",
	"30 extra minutes of screen time",
	"Skip one chore of your choice",
	"Stay up 30 minutes later tonight",
}

var commonRewards = []string{
	"High five from the whole family",
	"Pick the music on the next car ride",
	"First pick of weekend snacks",
	"A sticker for your streak board",
	"Choose the next board game",
}

// RollBox draws one tiered mystery-box reward for a streak milestone. The
// source only needs to be uniform; this result is never used for anything
// security-sensitive.
func RollBox(r *rand.Rand) BoxReward {
	draw := r.Float64()

	var tier string
	var pool []string
	switch {
	case draw < legendaryCutoff:
		tier = TierLegendary
		pool = legendaryRewards
	case draw < rareCutoff:
		tier = TierRare
		pool = rareRewards
	default:
		tier = TierCommon
		pool = commonRewards
	}

	return BoxReward{
		Tier:        tier,
		Description: pool[r.Intn(len(pool))],
	}
}
