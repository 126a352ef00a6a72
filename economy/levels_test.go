package economy

import "testing"

func TestLevelForMonotonic(t *testing.T) {
	prev := 0
	for xp := 0; xp <= 20000; xp += 13 {
		lvl := LevelFor(xp)
		if lvl.Number < prev {
			t.Fatalf("level decreased at xp=%d: %d -> %d", xp, prev, lvl.Number)
		}
		prev = lvl.Number
	}
}

func TestLevelForThresholds(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{249, 2},
		{250, 3},
		{13000, 12},
		{999999, 12},
		{-5, 1},
	}

	for _, tt := range tests {
		if got := LevelFor(tt.xp).Number; got != tt.want {
			t.Errorf("LevelFor(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestProgressFractionBounds(t *testing.T) {
	for xp := 0; xp <= 20000; xp += 7 {
		pct := ProgressFraction(xp)
		if pct < 0 || pct > 100 {
			t.Fatalf("ProgressFraction(%d) = %d, out of [0,100]", xp, pct)
		}
	}
}

func TestProgressFraction(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 0},
		{50, 50},   // halfway from 0 to 100
		{100, 0},   // fresh level 2
		{175, 50},  // halfway from 100 to 250
		{13000, 100},
		{50000, 100}, // beyond the final threshold
	}

	for _, tt := range tests {
		if got := ProgressFraction(tt.xp); got != tt.want {
			t.Errorf("ProgressFraction(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestExperienceToNext(t *testing.T) {
	gap, ok := ExperienceToNext(0)
	if !ok || gap != 100 {
		t.Errorf("ExperienceToNext(0) = %d,%v, want 100,true", gap, ok)
	}

	gap, ok = ExperienceToNext(175)
	if !ok || gap != 75 {
		t.Errorf("ExperienceToNext(175) = %d,%v, want 75,true", gap, ok)
	}

	if _, ok := ExperienceToNext(13000); ok {
		t.Error("expected no next level at the final threshold")
	}
	if _, ok := ExperienceToNext(99999); ok {
		t.Error("expected no next level beyond the final threshold")
	}
}

// Display and reward logic must agree: the same xp always yields the same
// level no matter how often it is asked.
func TestLevelForStable(t *testing.T) {
	for i := 0; i < 100; i++ {
		if LevelFor(4321).Number != LevelFor(4321).Number {
			t.Fatal("LevelFor is not stable")
		}
	}
}
