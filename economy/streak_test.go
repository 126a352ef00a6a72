package economy

import (
	"testing"
	"time"
)

var today = time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC)

func datePtr(t time.Time) *time.Time {
	d := DateOnly(t)
	return &d
}

func TestNextStreakFirstActivity(t *testing.T) {
	res := NextStreak(nil, 0, 0, today)

	if res.NewStreak != 1 || res.NewLongest != 1 || !res.IsConsecutive {
		t.Errorf("got %+v, want streak=1 longest=1 consecutive", res)
	}
}

func TestNextStreakSameDay(t *testing.T) {
	res := NextStreak(datePtr(today), 4, 9, today)

	if res.NewStreak != 4 || res.NewLongest != 9 || res.IsConsecutive {
		t.Errorf("got %+v, want unchanged streak=4 longest=9 not consecutive", res)
	}
}

// Rule 2 must be idempotent: a second same-day evaluation returns the exact
// same unchanged result.
func TestNextStreakSameDayIdempotent(t *testing.T) {
	first := NextStreak(datePtr(today), 4, 9, today)
	second := NextStreak(datePtr(today), first.NewStreak, first.NewLongest, today)

	if second != first {
		t.Errorf("second evaluation changed result: %+v vs %+v", second, first)
	}
}

func TestNextStreakConsecutiveDay(t *testing.T) {
	yesterday := today.AddDate(0, 0, -1)

	tests := []struct {
		name        string
		current     int
		longest     int
		wantStreak  int
		wantLongest int
	}{
		{"extends streak", 4, 9, 5, 9},
		{"new record", 9, 9, 10, 10},
		{"from one", 1, 1, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NextStreak(datePtr(yesterday), tt.current, tt.longest, today)
			if res.NewStreak != tt.wantStreak || res.NewLongest != tt.wantLongest || !res.IsConsecutive {
				t.Errorf("got %+v, want streak=%d longest=%d consecutive", res, tt.wantStreak, tt.wantLongest)
			}
		})
	}
}

// Day counting is calendar based, never wall-clock based: a spring-forward
// night squeezes midnight-to-midnight to 23h and mixed UTC offsets shift it
// either way, but neither may move the day boundary.
func TestNextStreakAcrossOffsetChanges(t *testing.T) {
	est := time.FixedZone("UTC-5", -5*3600)
	edt := time.FixedZone("UTC-4", -4*3600)

	tests := []struct {
		name            string
		last            time.Time
		today           time.Time
		current         int
		longest         int
		wantStreak      int
		wantConsecutive bool
	}{
		{
			"consecutive day across spring forward",
			time.Date(2026, 3, 8, 0, 0, 0, 0, est),
			time.Date(2026, 3, 9, 0, 0, 0, 0, edt),
			4, 9, 5, true,
		},
		{
			"two-day gap across spring forward resets",
			time.Date(2026, 3, 8, 0, 0, 0, 0, est),
			time.Date(2026, 3, 10, 0, 0, 0, 0, edt),
			4, 9, 1, false,
		},
		{
			"consecutive day across fall back",
			time.Date(2026, 11, 1, 0, 0, 0, 0, edt),
			time.Date(2026, 11, 2, 0, 0, 0, 0, est),
			6, 6, 7, true,
		},
		{
			"same calendar day in different offsets",
			time.Date(2026, 3, 9, 0, 0, 0, 0, est),
			time.Date(2026, 3, 9, 23, 0, 0, 0, edt),
			4, 9, 4, false,
		},
		{
			"stored in UTC, evaluated in local offset",
			time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 8, 30, 1, 0, 0, 0, est),
			4, 9, 5, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NextStreak(&tt.last, tt.current, tt.longest, tt.today)
			if res.NewStreak != tt.wantStreak || res.IsConsecutive != tt.wantConsecutive {
				t.Errorf("got %+v, want streak=%d consecutive=%v", res, tt.wantStreak, tt.wantConsecutive)
			}
		})
	}
}

func TestNextStreakGapResets(t *testing.T) {
	threeDaysAgo := today.AddDate(0, 0, -3)

	res := NextStreak(datePtr(threeDaysAgo), 6, 11, today)

	if res.NewStreak != 1 || res.NewLongest != 11 || res.IsConsecutive {
		t.Errorf("got %+v, want streak=1 longest=11 not consecutive", res)
	}
}

// The longest >= current invariant must hold for every input shape.
func TestLongestNeverBelowCurrent(t *testing.T) {
	dates := []*time.Time{nil, datePtr(today), datePtr(today.AddDate(0, 0, -1)), datePtr(today.AddDate(0, 0, -10))}

	for _, last := range dates {
		for current := 0; current <= 15; current++ {
			res := NextStreak(last, current, current, today)
			if res.NewLongest < res.NewStreak {
				t.Fatalf("longest %d < streak %d for last=%v current=%d", res.NewLongest, res.NewStreak, last, current)
			}
		}
	}
}

func TestIsMilestone(t *testing.T) {
	tests := []struct {
		name string
		res  StreakResult
		want bool
	}{
		{"day 7 consecutive", StreakResult{NewStreak: 7, NewLongest: 7, IsConsecutive: true}, true},
		{"day 14 consecutive", StreakResult{NewStreak: 14, NewLongest: 14, IsConsecutive: true}, true},
		{"day 6", StreakResult{NewStreak: 6, NewLongest: 6, IsConsecutive: true}, false},
		{"same-day at 7", StreakResult{NewStreak: 7, NewLongest: 7, IsConsecutive: false}, false},
		{"reset", StreakResult{NewStreak: 1, NewLongest: 14, IsConsecutive: false}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMilestone(tt.res); got != tt.want {
				t.Errorf("IsMilestone(%+v) = %v, want %v", tt.res, got, tt.want)
			}
		})
	}
}
