package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"github.com/torosent/arithbench/internal/dataset"
	"github.com/torosent/arithbench/internal/metrics"
	"github.com/torosent/arithbench/internal/transform"
	"github.com/torosent/arithbench/internal/tracing"
)

// Runner measures transforms with a single counter session.
type Runner struct {
	opt Options
}

func New(opt Options) *Runner {
	opt.normalize()
	return &Runner{opt: opt}
}

// newZeroSumLimiter covers one phase of one measurement.
func newZeroSumLimiter() *rate.Sometimes {
	return &rate.Sometimes{First: 3, Interval: time.Second}
}

// Repeat returns the number of timed repetitions per measurement.
func (r *Runner) Repeat() int {
	return r.opt.Repeat
}

// Measure runs op over ds: Warmup untimed repetitions, then Repeat repetitions
// each wrapped in exactly one counter session. The returned summary covers the
// timed phase only. The result buffer is shared by every repetition.
//
// Cancellation is observed between repetitions, never inside a timed window.
func Measure[T dataset.Float](ctx context.Context, r *Runner, ds dataset.Dataset[T], op transform.Op) (metrics.Summary, error) {
	fn, err := transform.Kernel[T](op)
	if err != nil {
		return metrics.Summary{}, err
	}

	ctx, span := tracing.StartMeasureSpan(ctx, r.opt.Tracer, ds.Precision.String(), op.String())
	summary, err := measure(ctx, r, ds, op, fn)
	tracing.EndSpan(span, err,
		attribute.Int("arithbench.elements", ds.Len()),
		attribute.Int("arithbench.iterations", summary.Iterations),
		attribute.Int64("arithbench.best_ns", summary.Best.Elapsed.Nanoseconds()),
	)
	return summary, err
}

func measure[T dataset.Float](ctx context.Context, r *Runner, ds dataset.Dataset[T], op transform.Op, fn transform.Func[T]) (metrics.Summary, error) {
	results := make([]T, ds.Len())
	session := r.opt.Session

	warmupLimit := newZeroSumLimiter()
	for i := 0; i < r.opt.Warmup; i++ {
		fn(ds.Pairs, results)
		checkSum(r, warmupLimit, ds, op, "warmup", i, results)
	}

	timedLimit := newZeroSumLimiter()

	agg := metrics.NewAggregate()
	for i := 0; i < r.opt.Repeat; i++ {
		if err := ctx.Err(); err != nil {
			return agg.Summary(), err
		}
		if err := session.Start(); err != nil {
			return agg.Summary(), fmt.Errorf("%s_%s: start counters: %w", ds.Precision, op, err)
		}
		fn(ds.Pairs, results)
		sample, err := session.End()
		if err != nil {
			return agg.Summary(), fmt.Errorf("%s_%s: end counters: %w", ds.Precision, op, err)
		}
		agg.Record(sample)
		checkSum(r, timedLimit, ds, op, "timed", i, results)
	}
	return agg.Summary(), nil
}

// checkSum flags a buffer that sums to exactly zero. None of the kernels can
// produce that over operands in [1, 100), so it marks a broken kernel; it is a
// smell test, not a proof of correctness. Empty buffers are not checked.
func checkSum[T dataset.Float](r *Runner, limit *rate.Sometimes, ds dataset.Dataset[T], op transform.Op, phase string, iteration int, results []T) {
	if len(results) == 0 || transform.Sum(results) != 0 {
		return
	}
	limit.Do(func() {
		r.opt.Logger.Error("bug: result buffer sums to zero",
			slog.String("precision", ds.Precision.String()),
			slog.String("transform", op.String()),
			slog.String("phase", phase),
			slog.Int("iteration", iteration),
		)
	})
}
