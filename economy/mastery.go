package economy

// Mastery tiers per skill area, derived from the completed-activity counter.
const (
	masteryGrowingAt   = 5
	masteryConfidentAt = 10
	masteryTeachingAt  = 20
)

// MasteryTierFor maps a completed-activity count to its tier.
func MasteryTierFor(completedCount int) string {
	switch {
	case completedCount >= masteryTeachingAt:
		return "teaching"
	case completedCount >= masteryConfidentAt:
		return "confident"
	case completedCount >= masteryGrowingAt:
		return "growing"
	default:
		return "exploring"
	}
}
