package scoring

import (
	"math"
	"strings"

	"github.com/fitmatch/engine/internal/db"
)

// Factor budgets. They sum to 100, so the rounded point total is the score.
const (
	gymBudget          = 30
	goalBudget         = 25
	levelBudget        = 15
	styleBudget        = 10
	interestBudget     = 10
	availabilityBudget = 10

	// Points per shared (day, slot) availability pair.
	availabilityPairPoints = 2

	// Level adjacency: same level gets the full budget, one step apart gets
	// this, two steps apart gets nothing.
	adjacentLevelPoints = 10
)

// Compatibility computes the weighted similarity score between two profiles,
// an integer in [0, 100]. All factors are symmetric, so the score is too.
// Distance is deliberately not a factor; it is reported separately.
//
// Contributions accumulate as float64 and are rounded half-up once at the
// end, so fractional overlap ratios are never truncated early.
func Compatibility(a, b *db.User) int {
	var pts float64

	if a.Gym != "" && b.Gym != "" && strings.EqualFold(a.Gym, b.Gym) {
		pts += gymBudget
	}

	pts += goalBudget * overlapRatio(a.Goals, b.Goals)

	if ai, ok := a.Level.Ordinal(); ok {
		if bi, ok := b.Level.Ordinal(); ok {
			switch d := abs(ai - bi); d {
			case 0:
				pts += levelBudget
			case 1:
				pts += adjacentLevelPoints
			}
		}
	}

	if a.TrainingStyle != "" && a.TrainingStyle == b.TrainingStyle {
		pts += styleBudget
	}

	pts += interestBudget * overlapRatio(a.Interests, b.Interests)

	if shared := sharedAvailability(a.Availability, b.Availability); shared > 0 {
		pts += math.Min(float64(availabilityPairPoints*shared), availabilityBudget)
	}

	score := int(math.Round(pts))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// overlapRatio is |x ∩ y| / max(|x|, |y|, 1). The max(n, 1) denominator
// keeps empty collections safe.
func overlapRatio(x, y db.StringList) float64 {
	if len(x) == 0 || len(y) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(x))
	for _, v := range x {
		set[v] = struct{}{}
	}

	common := 0
	for _, v := range y {
		if _, ok := set[v]; ok {
			common++
			delete(set, v) // duplicates in y must not double-count
		}
	}

	denom := len(x)
	if len(y) > denom {
		denom = len(y)
	}
	return float64(common) / float64(denom)
}

// sharedAvailability counts (day, slot) pairs present in both lists. A day
// has to appear on both sides before its slots are intersected.
func sharedAvailability(a, b db.AvailabilityList) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	byDay := make(map[string]map[string]struct{}, len(a))
	for _, e := range a {
		slots, ok := byDay[e.Day]
		if !ok {
			slots = make(map[string]struct{}, len(e.Slots))
			byDay[e.Day] = slots
		}
		for _, s := range e.Slots {
			slots[s] = struct{}{}
		}
	}

	shared := 0
	for _, e := range b {
		slots, ok := byDay[e.Day]
		if !ok {
			continue
		}
		for _, s := range e.Slots {
			if _, hit := slots[s]; hit {
				shared++
				delete(slots, s)
			}
		}
	}
	return shared
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
