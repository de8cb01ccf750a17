package gacha

import "testing"

func TestPickOutcomeDegenerate(t *testing.T) {
	rng := NewSeededSource(1)
	if _, err := PickOutcome(rng, nil); err != ErrNoOutcomes {
		t.Fatalf("empty outcome set: want ErrNoOutcomes, got %v", err)
	}
	zero := []WeightedOutcome{
		{Outcome{PoolFocus, ColorRed}, 0},
		{Outcome{PoolFocus, ColorBlue}, 0},
	}
	if _, err := PickOutcome(rng, zero); err != ErrNoOutcomes {
		t.Fatalf("zero total weight: want ErrNoOutcomes, got %v", err)
	}
}

func TestPickOutcomeSingle(t *testing.T) {
	rng := NewSeededSource(7)
	choices := []WeightedOutcome{
		{Outcome{PoolThreestar, ColorGreen}, 0},
		{Outcome{PoolFocus, ColorRed}, 2.5},
	}
	for i := 0; i < 100; i++ {
		out, err := PickOutcome(rng, choices)
		if err != nil {
			t.Fatal(err)
		}
		if out != (Outcome{PoolFocus, ColorRed}) {
			t.Fatalf("only positive-weight outcome should win, got %v", out)
		}
	}
}

func TestPickOutcomeProportions(t *testing.T) {
	// weights need not be normalized; 7:2:1 over a total of 10
	choices := []WeightedOutcome{
		{Outcome{PoolFocus, ColorRed}, 7},
		{Outcome{PoolFocus, ColorBlue}, 2},
		{Outcome{PoolFocus, ColorGreen}, 1},
	}
	const n = 100000
	rng := NewSeededSource(42)
	counts := map[Color]int{}
	for i := 0; i < n; i++ {
		out, err := PickOutcome(rng, choices)
		if err != nil {
			t.Fatal(err)
		}
		counts[out.Color]++
	}
	for _, tc := range []struct {
		color Color
		want  float64
	}{
		{ColorRed, 0.7},
		{ColorBlue, 0.2},
		{ColorGreen, 0.1},
	} {
		freq := float64(counts[tc.color]) / n
		if diff := freq - tc.want; diff > 0.01 || diff < -0.01 {
			t.Fatalf("%v freq=%f not close to %f", tc.color, freq, tc.want)
		}
	}
}
