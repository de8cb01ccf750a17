package gacha

import (
	"context"
	"sync"
	"time"
)

const (
	// initialBatch keeps the first timing sample cheap; trial cost
	// varies by orders of magnitude with banner parameters.
	initialBatch = 100

	// DefaultBudget is how long one run may occupy the host before
	// yielding back to it.
	DefaultBudget = 500 * time.Millisecond
)

// Runner drives as many independent trials as fit in a wall-clock
// budget, recording each roll count into its own Counter. Batch size
// doubles after every completed batch so the time checks amortize
// while the overshoot stays bounded by one batch's duration. The
// batch/elapsed state is explicit so hosts can advance it step by
// step instead of surrendering control to a hidden loop.
type Runner struct {
	banner  Banner
	goal    Goal
	budget  time.Duration
	workers int
	seed    uint64
	spawned uint64

	batch   int
	elapsed time.Duration
	data    Counter

	// now is swapped out by tests to control elapsed time
	now func() time.Time
}

// NewRunner validates the availability precondition and prepares a
// run. seed 0 draws worker seeds from the default entropy source;
// workers <= 1 keeps the whole run on the calling goroutine.
func NewRunner(b Banner, g Goal, budget time.Duration, workers int, seed uint64) (*Runner, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if !g.IsAvailable(b) {
		return nil, ErrGoalUnavailable
	}
	if budget <= 0 {
		budget = DefaultBudget
	}
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		banner:  b,
		goal:    g,
		budget:  budget,
		workers: workers,
		seed:    seed,
		batch:   initialBatch,
		now:     time.Now,
	}, nil
}

// Results exposes the accumulated histogram. Empty until Step has
// completed at least one batch, and again after a cancelled run.
func (r *Runner) Results() *Counter { return &r.data }

// Trials is the number of completed trials so far.
func (r *Runner) Trials() uint64 { return r.data.Total() }

// Step runs one full batch and reports whether budget remains for
// another. Cancellation mid-batch discards everything this run has
// accumulated: partial results from a superseded configuration must
// never become visible.
func (r *Runner) Step(ctx context.Context) (bool, error) {
	if r.elapsed >= r.budget {
		return false, nil
	}
	start := r.now()

	var err error
	if r.workers == 1 {
		err = r.runBatch(ctx, r.batch, &r.data)
	} else {
		err = r.runBatchParallel(ctx, r.batch)
	}
	if err != nil {
		r.data.Clear()
		return false, err
	}

	r.elapsed += r.now().Sub(start)
	r.batch *= 2
	return r.elapsed < r.budget, nil
}

// Run advances Step until the budget is exhausted or ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	for {
		more, err := r.Step(ctx)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// runBatch executes n trials sequentially into dst.
func (r *Runner) runBatch(ctx context.Context, n int, dst *Counter) error {
	sim := NewSim(r.banner, r.goal, r.nextSource())
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		rolls, err := sim.RollUntilGoal()
		if err != nil {
			return err
		}
		dst.Record(rolls)
	}
	return nil
}

// runBatchParallel fans one batch out across workers. Each worker
// rolls into a private Counter; merging those under no contention at
// the end is the only synchronization the run needs.
func (r *Runner) runBatchParallel(ctx context.Context, n int) error {
	per := n / r.workers
	if per == 0 {
		per = 1
	}

	parts := make([]Counter, r.workers)
	errs := make([]error, r.workers)
	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		share := per
		if w == r.workers-1 {
			share = n - per*(r.workers-1)
			if share < per {
				share = per
			}
		}
		wg.Add(1)
		go func(w, share int, rng RandomSource) {
			defer wg.Done()
			sim := NewSim(r.banner, r.goal, rng)
			for i := 0; i < share; i++ {
				if err := ctx.Err(); err != nil {
					errs[w] = err
					return
				}
				rolls, err := sim.RollUntilGoal()
				if err != nil {
					errs[w] = err
					return
				}
				parts[w].Record(rolls)
			}
		}(w, share, r.nextSource())
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	for w := range parts {
		r.data.Merge(&parts[w])
	}
	return nil
}

// nextSource hands out an independent random stream per sim.
func (r *Runner) nextSource() RandomSource {
	if r.seed == 0 {
		return DefaultSource()
	}
	r.spawned++
	return NewSeededSource(splitSeed(r.seed, r.spawned))
}
