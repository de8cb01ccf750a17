package gacha

import (
	"errors"
	"math"
)

// ErrNoOutcomes reports a degenerate sampler input: an empty outcome
// set or one whose weights sum to zero. Reaching it means an upstream
// availability check was skipped.
var ErrNoOutcomes = errors.New("weighted choice over empty or zero-weight outcomes")

// Outcome is one cell of the roll space: which rarity pool, and for
// top-rarity pools, which color.
type Outcome struct {
	Pool  Pool
	Color Color
}

// WeightedOutcome pairs an outcome with a non-negative relative
// weight. Weights need not sum to one; selection normalizes.
type WeightedOutcome struct {
	Outcome Outcome
	Weight  float64
}

// PickOutcome draws one outcome with probability proportional to its
// weight, consuming a single uniform variate from rng. Negative, NaN
// and infinite weights are treated as zero. A cumulative scan is
// enough here: outcome sets are small and rebuilt per roll.
func PickOutcome(rng RandomSource, choices []WeightedOutcome) (Outcome, error) {
	var total float64
	for _, c := range choices {
		if w := c.Weight; w > 0 && !math.IsInf(w, 1) {
			total += w
		}
	}
	if total <= 0 {
		return Outcome{}, ErrNoOutcomes
	}
	if rng == nil {
		rng = DefaultSource()
	}
	u := rng.Float64() * total
	for _, c := range choices {
		w := c.Weight
		if w <= 0 || math.IsNaN(w) || math.IsInf(w, 1) {
			continue
		}
		if u < w {
			return c.Outcome, nil
		}
		u -= w
	}
	// float round-off can leave u just past the last positive weight
	for i := len(choices) - 1; i >= 0; i-- {
		if choices[i].Weight > 0 {
			return choices[i].Outcome, nil
		}
	}
	return Outcome{}, ErrNoOutcomes
}
