// Package bench drives point indexes through insert, query and remove
// phases against a dataset, with a wall-clock budget per phase. It exists
// so the index structures can be compared under identical workloads.
package bench

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/mdsearch"
	"github.com/hupe1980/mdsearch/index"
	"github.com/hupe1980/mdsearch/point"
)

// Options contains configuration options for the runner.
type Options struct {
	// Budget is the wall-clock limit per phase. A phase that exceeds it
	// is aborted at the next budget check.
	Budget time.Duration

	// OpsBetweenChecks is the number of operations between budget
	// checks.
	OpsBetweenChecks int

	// RateLimit throttles operations per second across a phase. Zero
	// means unlimited; useful for soak runs.
	RateLimit float64

	// Now returns the current time. Swappable for tests; the default
	// carries Go's monotonic clock reading.
	Now func() time.Time

	// Logger receives per-phase results.
	Logger *mdsearch.Logger
}

// DefaultOptions contains the default configuration options for the
// runner.
var DefaultOptions = Options{
	Budget:           1800 * time.Second,
	OpsBetweenChecks: 300,
	Now:              time.Now,
}

// PhaseResult is the outcome of a single phase.
type PhaseResult struct {
	// Operations is the number of operations completed.
	Operations int

	// Duration is the wall-clock time the phase took.
	Duration time.Duration

	// Aborted is true if the phase hit the budget before finishing.
	Aborted bool
}

// Report is the outcome of a full run against one index.
type Report struct {
	Name   string
	Insert PhaseResult
	Query  PhaseResult
	Remove PhaseResult
}

// Target names an index for a run.
type Target[E point.Float] struct {
	Name  string
	Index index.Index[E]
}

// Runner drives indexes through timed phases.
type Runner[E point.Float] struct {
	opts Options
}

// NewRunner creates a runner.
func NewRunner[E point.Float](optFns ...func(o *Options)) *Runner[E] {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.OpsBetweenChecks < 1 {
		opts.OpsBetweenChecks = 1
	}
	if opts.Logger == nil {
		opts.Logger = mdsearch.NoopLogger()
	}

	return &Runner[E]{opts: opts}
}

// Run drives one index through the insert, query and remove phases over
// the given points. The index is left holding whichever prefix of the
// workload completed.
func (r *Runner[E]) Run(ctx context.Context, name string, idx index.Index[E], points []point.Point[E]) (Report, error) {
	report := Report{Name: name}

	var limiter *rate.Limiter
	if r.opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.opts.RateLimit), 1)
	}

	phases := []struct {
		name string
		op   func(p point.Point[E]) bool
		out  *PhaseResult
	}{
		{"insert", idx.Insert, &report.Insert},
		{"query", idx.Query, &report.Query},
		{"remove", idx.Remove, &report.Remove},
	}

	for _, phase := range phases {
		result, err := r.runPhase(ctx, limiter, phase.op, points)
		if err != nil {
			return report, err
		}
		*phase.out = result
		r.opts.Logger.LogPhase(ctx, name, phase.name, result.Operations, result.Duration, result.Aborted)
	}

	return report, nil
}

// RunAll drives each target through a full run concurrently. The indexes
// are independent, so the fan-out changes wall-clock time only.
func (r *Runner[E]) RunAll(ctx context.Context, targets []Target[E], points []point.Point[E]) ([]Report, error) {
	reports := make([]Report, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	for i, target := range targets {
		g.Go(func() error {
			report, err := r.Run(ctx, target.Name, target.Index, points)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}

func (r *Runner[E]) runPhase(ctx context.Context, limiter *rate.Limiter, op func(p point.Point[E]) bool, points []point.Point[E]) (PhaseResult, error) {
	var result PhaseResult

	start := r.opts.Now()
	for i, p := range points {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return result, err
			}
		} else if err := ctx.Err(); err != nil {
			return result, err
		}

		op(p)
		result.Operations++

		if i%r.opts.OpsBetweenChecks == 0 && r.opts.Now().Sub(start) > r.opts.Budget {
			result.Aborted = true
			break
		}
	}
	result.Duration = r.opts.Now().Sub(start)

	return result, nil
}
