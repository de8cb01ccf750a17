package gacha

// Sim runs single trials against one banner/goal pair. Trial state
// (roll counter, per-color pity, per-color focus inventory) lives for
// exactly one RollUntilGoal call; the Sim itself only caches the
// configuration and a scratch buffer, so it can be reused across
// trials but never across goroutines.
type Sim struct {
	banner Banner
	goal   Goal
	rng    RandomSource

	pity      [NumColors]int
	inventory [NumColors]int
	scratch   []WeightedOutcome
}

// NewSim prepares a simulator. Availability of the goal on the banner
// is a caller precondition (see Goal.IsAvailable); it is not
// re-checked inside the roll loop.
func NewSim(b Banner, g Goal, rng RandomSource) *Sim {
	if rng == nil {
		rng = DefaultSource()
	}
	return &Sim{
		banner:  b,
		goal:    g,
		rng:     rng,
		scratch: make([]WeightedOutcome, 0, NumColors*NumPools),
	}
}

// RollUntilGoal runs one trial: roll, update pity and inventory, test
// the goal, repeat. It returns the number of rolls the trial took.
func (s *Sim) RollUntilGoal() (int, error) {
	s.pity = [NumColors]int{}
	s.inventory = [NumColors]int{}

	rolls := 0
	for {
		rolls++
		s.scratch = s.banner.outcomeWeights(&s.pity, s.scratch)
		out, err := PickOutcome(s.rng, s.scratch)
		if err != nil {
			return 0, err
		}
		s.apply(out)
		if s.goal.IsSatisfied(&s.inventory) {
			return rolls, nil
		}
	}
}

// apply folds one roll outcome into the trial state. A top-rarity hit
// resets that color's pity; every other color keeps counting.
func (s *Sim) apply(out Outcome) {
	if out.Pool == PoolFocus {
		s.inventory[out.Color]++
	}
	for _, c := range AllColors {
		if out.Pool.TopRarity() && c == out.Color {
			s.pity[c] = 0
		} else {
			s.pity[c]++
		}
	}
}
