// Package session owns the in-memory state of one simulation session:
// the current banner, the current goal, and the histogram of completed
// trials. Configuration is swapped wholesale and atomically; any swap
// clears the histogram so results never span two configurations.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/summonstats/summonsim/internal/gacha"
)

// Session is safe for concurrent use by the boundary layer. Runs
// execute outside the lock; a run started under one configuration
// whose configuration changes before it finishes is discarded.
type Session struct {
	mu      sync.Mutex
	banner  gacha.Banner
	goal    gacha.Goal
	data    gacha.Counter
	gen     uint64 // bumped on every reconfiguration
	workers int
	seed    uint64
}

// New starts a session on the default banner with the any-focus goal.
func New() *Session {
	s := &Session{banner: gacha.DefaultBanner(), workers: 1}
	s.goal.SetPreset(s.banner, gacha.PresetAnyFocus)
	return s
}

// SetWorkers sets the fan-out for subsequent runs.
func (s *Session) SetWorkers(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 {
		n = 1
	}
	s.workers = n
}

// SetSeed pins the random streams of subsequent runs; 0 restores
// entropy-backed randomness.
func (s *Session) SetSeed(seed uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seed = seed
}

// SetBanner validates and installs a banner, clearing all results.
// The goal's preset is re-derived against the new banner so stale
// colors never linger in the part list.
func (s *Session) SetBanner(b gacha.Banner) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banner = b
	s.goal.SetPreset(b, s.goal.Preset)
	s.reconfigured()
	return nil
}

// SetGoal installs a goal wholesale, clearing all results.
func (s *Session) SetGoal(g gacha.Goal) {
	g.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goal = g
	s.reconfigured()
}

// ApplyPreset expands a goal preset against the current banner.
func (s *Session) ApplyPreset(p gacha.GoalPreset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goal.SetPreset(s.banner, p)
	s.reconfigured()
}

// reconfigured must run with the lock held.
func (s *Session) reconfigured() {
	s.data.Clear()
	s.gen++
}

// Banner returns the current banner value.
func (s *Session) Banner() gacha.Banner {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.banner
}

// Goal returns a copy of the current goal.
func (s *Session) Goal() gacha.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyGoal(s.goal)
}

// GoalAvailable reports whether Run would be legal right now; the
// boundary uses it to gate the run action.
func (s *Session) GoalAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goal.IsAvailable(s.banner)
}

// Run executes trials under the wall-clock budget, folding results
// into the session histogram. It returns gacha.ErrGoalUnavailable if
// the current goal cannot be met, and the context error if cancelled.
// Results of a run that was overtaken by a reconfiguration are thrown
// away rather than merged.
func (s *Session) Run(ctx context.Context, budget time.Duration) error {
	s.mu.Lock()
	banner, goal, gen := s.banner, copyGoal(s.goal), s.gen
	workers, seed := s.workers, s.seed
	s.mu.Unlock()

	runner, err := gacha.NewRunner(banner, goal, budget, workers, seed)
	if err != nil {
		return err
	}
	if err := runner.Run(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		// configuration changed mid-run; drop the stale results
		return nil
	}
	s.data.Merge(runner.Results())
	return nil
}

// Summary derives statistics from the accumulated histogram.
func (s *Session) Summary() gacha.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Summary()
}

// Buckets returns the raw histogram cells for rendering.
func (s *Session) Buckets() []gacha.Bucket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Buckets()
}

func copyGoal(g gacha.Goal) gacha.Goal {
	out := g
	out.Parts = append([]gacha.GoalPart(nil), g.Parts...)
	return out
}
