package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/summonstats/summonsim/internal/gacha"
)

func fastSession(t *testing.T) *Session {
	t.Helper()
	s := New()
	s.SetSeed(42)
	b, err := gacha.NewBanner([gacha.NumColors]uint8{3, 3, 3, 3},
		gacha.Rates{Focus: 90, Fivestar: 0},
		gacha.Schedule{Floor: 0, Ceiling: 10000, Increment: 0, FourstarShare: 58})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetBanner(b); err != nil {
		t.Fatal(err)
	}
	return s
}

func runOnce(t *testing.T, s *Session) {
	t.Helper()
	if err := s.Run(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if s.Summary().Count == 0 {
		t.Fatal("run recorded no trials")
	}
}

func TestRunAccumulates(t *testing.T) {
	s := fastSession(t)
	runOnce(t, s)
	sum := s.Summary()
	var bucketTotal uint64
	for _, b := range s.Buckets() {
		bucketTotal += b.Count
	}
	if bucketTotal != sum.Count {
		t.Fatalf("buckets sum to %d, summary says %d", bucketTotal, sum.Count)
	}
	if sum.Mean < 1 {
		t.Fatalf("mean %f below one roll", sum.Mean)
	}
}

func TestClearOnReconfigure(t *testing.T) {
	cases := []struct {
		name string
		poke func(*Session)
	}{
		{"banner", func(s *Session) {
			b, _ := gacha.NewBanner([gacha.NumColors]uint8{1, 1, 1, 1},
				gacha.Rates{Focus: 3, Fivestar: 3}, gacha.DefaultSchedule())
			_ = s.SetBanner(b)
		}},
		{"goal", func(s *Session) {
			var g gacha.Goal
			g.AddPart(gacha.ColorBlue, 1)
			s.SetGoal(g)
		}},
		{"preset", func(s *Session) { s.ApplyPreset(gacha.PresetAllFocus) }},
	}
	for _, tc := range cases {
		s := fastSession(t)
		runOnce(t, s)
		tc.poke(s)
		if got := s.Summary().Count; got != 0 {
			t.Fatalf("%s change left %d stale observations", tc.name, got)
		}
	}
}

func TestRunRefusesUnavailableGoal(t *testing.T) {
	s := fastSession(t)
	s.SetGoal(gacha.Goal{}) // no parts
	if s.GoalAvailable() {
		t.Fatal("empty goal must not be available")
	}
	err := s.Run(context.Background(), 10*time.Millisecond)
	if !errors.Is(err, gacha.ErrGoalUnavailable) {
		t.Fatalf("want ErrGoalUnavailable, got %v", err)
	}
}

func TestBannerSwapRederivesGoalPreset(t *testing.T) {
	s := fastSession(t)
	s.ApplyPreset(gacha.PresetAllFocus)
	if got := len(s.Goal().Parts); got != gacha.NumColors {
		t.Fatalf("all-focus on a full banner should have %d parts, got %d", gacha.NumColors, got)
	}
	b, err := gacha.NewBanner([gacha.NumColors]uint8{1, 0, 0, 0},
		gacha.Rates{Focus: 3, Fivestar: 3}, gacha.DefaultSchedule())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetBanner(b); err != nil {
		t.Fatal(err)
	}
	parts := s.Goal().Parts
	if len(parts) != 1 || parts[0].Color != gacha.ColorRed {
		t.Fatalf("preset should re-derive to the red-only banner, got %v", parts)
	}
}

func TestCancelledRunLeavesNothing(t *testing.T) {
	s := fastSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx, time.Second); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if got := s.Summary().Count; got != 0 {
		t.Fatalf("cancelled run left %d observations", got)
	}
}
