package gacha

import (
	"errors"
	"fmt"
	"math"
)

// Rates holds the starting percentages for the top rarity tier: the
// focus sub-pool and the generic five-star pool. Their sum is the base
// top-tier rate before pity escalation.
type Rates struct {
	Focus    uint8
	Fivestar uint8
}

// legendaryRates marks the rate layout whose banners always carry
// three focus units of every color.
var legendaryRates = Rates{Focus: 8, Fivestar: 0}

// Schedule is the pity curve. The top-tier probability is flat at the
// base rate while the pity counter sits at or below Floor, then gains
// Increment per roll, and the roll at Ceiling is a guaranteed top-tier
// hit. All three are operator-supplied configuration; the engine has
// no built-in game constants.
type Schedule struct {
	Floor     int
	Ceiling   int
	Increment float64

	// FourstarShare is the percentage of the non-top-tier mass that
	// falls in the four-star pool; the rest is three-star.
	FourstarShare uint8
}

var ErrBadSchedule = errors.New("invalid pity schedule")

func (s Schedule) validate() error {
	if s.Floor < 0 {
		return fmt.Errorf("%w: floor %d negative", ErrBadSchedule, s.Floor)
	}
	if s.Ceiling <= s.Floor {
		return fmt.Errorf("%w: ceiling %d must exceed floor %d", ErrBadSchedule, s.Ceiling, s.Floor)
	}
	if s.Ceiling > math.MaxUint16 {
		return fmt.Errorf("%w: ceiling %d too large", ErrBadSchedule, s.Ceiling)
	}
	if s.Increment < 0 || math.IsNaN(s.Increment) || math.IsInf(s.Increment, 0) {
		return fmt.Errorf("%w: increment %v", ErrBadSchedule, s.Increment)
	}
	if s.FourstarShare > 100 {
		return fmt.Errorf("%w: fourstar share %d%% above 100", ErrBadSchedule, s.FourstarShare)
	}
	return nil
}

// Banner describes one probability pool: how many focus units each
// color offers, the starting rates, and the pity schedule. Banners are
// value types, replaced wholesale on reconfiguration and never mutated
// while a run is in flight.
type Banner struct {
	FocusSizes [NumColors]uint8
	Rates      Rates
	Schedule   Schedule
}

var ErrBadBanner = errors.New("invalid banner")

// DefaultSchedule is a conservative curve used when no preset is
// chosen: flat to 30, half a percent per roll after, guarantee at 120.
func DefaultSchedule() Schedule {
	return Schedule{Floor: 30, Ceiling: 120, Increment: 0.005, FourstarShare: 58}
}

// DefaultBanner mirrors a plain one-focus-per-color banner at 3%/3%.
func DefaultBanner() Banner {
	b := Banner{
		FocusSizes: [NumColors]uint8{1, 1, 1, 1},
		Rates:      Rates{Focus: 3, Fivestar: 3},
		Schedule:   DefaultSchedule(),
	}
	b.normalize()
	return b
}

// NewBanner validates and normalizes a banner in one step.
func NewBanner(sizes [NumColors]uint8, rates Rates, sched Schedule) (Banner, error) {
	b := Banner{FocusSizes: sizes, Rates: rates, Schedule: sched}
	b.normalize()
	if err := b.Validate(); err != nil {
		return Banner{}, err
	}
	return b, nil
}

// normalize applies the legendary-layout rule: 8%/0% banners always
// run three focus units of every color.
func (b *Banner) normalize() {
	if b.Rates == legendaryRates {
		b.FocusSizes = [NumColors]uint8{3, 3, 3, 3}
	}
}

// Validate checks that every probability the banner can produce stays
// inside [0,1] and that the top tier is reachable at all.
func (b Banner) Validate() error {
	f, g := int(b.Rates.Focus), int(b.Rates.Fivestar)
	if f+g == 0 {
		return fmt.Errorf("%w: zero top-tier rate", ErrBadBanner)
	}
	if f+g > 100 {
		return fmt.Errorf("%w: starting rates %d%%+%d%% above 100", ErrBadBanner, f, g)
	}
	return b.Schedule.validate()
}

// TotalFocus is the number of focus units across all colors.
func (b Banner) TotalFocus() int {
	n := 0
	for _, s := range b.FocusSizes {
		n += int(s)
	}
	return n
}

// HasFocus reports whether the color offers at least one focus unit.
func (b Banner) HasFocus(c Color) bool {
	return c.Valid() && b.FocusSizes[c] > 0
}

// baseTopRate is the pre-escalation top-tier probability.
func (b Banner) baseTopRate() float64 {
	return float64(int(b.Rates.Focus)+int(b.Rates.Fivestar)) / 100
}

// focusFraction is the share of a top-tier hit that lands in the
// focus sub-pool rather than the generic five-star pool.
func (b Banner) focusFraction() float64 {
	f, g := float64(b.Rates.Focus), float64(b.Rates.Fivestar)
	if f+g == 0 {
		return 0
	}
	return f / (f + g)
}

// TopRate maps a pity counter to the top-tier hit probability for the
// next roll. It is non-decreasing in pity: flat at the base rate up to
// the floor, a linear ramp past it, and 1 once the next roll reaches
// the ceiling.
func (b Banner) TopRate(pity int) float64 {
	if pity+1 >= b.Schedule.Ceiling {
		return 1
	}
	p := b.baseTopRate()
	if pity > b.Schedule.Floor {
		p += b.Schedule.Increment * float64(pity-b.Schedule.Floor)
	}
	if p > 1 {
		p = 1
	}
	return p
}

// outcomeWeights builds the sampler input for one roll given the
// per-color pity counters. Colors at the hard ceiling exclude all
// lower-tier outcomes so the roll cannot miss.
func (b Banner) outcomeWeights(pity *[NumColors]int, dst []WeightedOutcome) []WeightedOutcome {
	dst = dst[:0]

	var forced [NumColors]bool
	anyForced := false
	for _, c := range AllColors {
		if pity[c]+1 >= b.Schedule.Ceiling {
			forced[c] = true
			anyForced = true
		}
	}

	frac := b.focusFraction()
	totalFocus := b.TotalFocus()
	topMass := 0.0
	for _, c := range AllColors {
		if anyForced && !forced[c] {
			continue
		}
		focusW := 0.0
		if totalFocus > 0 {
			// focus rate splits across units, so color share follows
			// the focus pool sizes
			focusW = b.TopRate(pity[c]) * frac * float64(b.FocusSizes[c]) / float64(totalFocus)
		}
		genericW := b.TopRate(pity[c]) * (1 - frac) / NumColors
		if anyForced && focusW == 0 && genericW == 0 {
			// ceiling hit on a color with no reachable top outcome;
			// fall back to its generic pool so the roll still lands
			genericW = 1
		}
		if focusW > 0 {
			dst = append(dst, WeightedOutcome{Outcome{PoolFocus, c}, focusW})
		}
		if genericW > 0 {
			dst = append(dst, WeightedOutcome{Outcome{PoolFivestar, c}, genericW})
		}
		topMass += focusW + genericW
	}

	if anyForced {
		return dst
	}

	rem := 1 - topMass
	if rem < 0 {
		rem = 0
	}
	four := rem * float64(b.Schedule.FourstarShare) / 100
	three := rem - four
	for _, c := range AllColors {
		if four > 0 {
			dst = append(dst, WeightedOutcome{Outcome{PoolFourstar, c}, four / NumColors})
		}
		if three > 0 {
			dst = append(dst, WeightedOutcome{Outcome{PoolThreestar, c}, three / NumColors})
		}
	}
	return dst
}
