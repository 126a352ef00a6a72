package economy

import (
	"math"
	"math/rand"
	"testing"
)

func TestRollBoxDistribution(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	const draws = 100000

	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		counts[RollBox(r).Tier]++
	}

	expected := map[string]float64{
		TierLegendary: 0.10,
		TierRare:      0.30,
		TierCommon:    0.60,
	}

	for tier, want := range expected {
		got := float64(counts[tier]) / draws
		if math.Abs(got-want) > 0.01 {
			t.Errorf("tier %s: frequency %.4f, want %.2f ± 0.01", tier, got, want)
		}
	}
}

func TestRollBoxDescriptionMatchesTier(t *testing.T) {
	pools := map[string][]string{
		TierLegendary: legendaryRewards,
		TierRare:      rareRewards,
		TierCommon:    commonRewards,
	}

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		box := RollBox(r)

		pool, ok := pools[box.Tier]
		if !ok {
			t.Fatalf("unknown tier %q", box.Tier)
		}

		found := false
		for _, d := range pool {
			if d == box.Description {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("description %q not in %s pool", box.Description, box.Tier)
		}
	}
}
