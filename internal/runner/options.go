package runner

import (
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/torosent/arithbench/internal/perfcounter"
)

const (
	DefaultWarmup = 10
	DefaultRepeat = 100
)

// Options configure the Runner.
type Options struct {
	Session perfcounter.Session // counter session shared by every measurement (required)
	Warmup  int                 // untimed repetitions before measuring (0 means DefaultWarmup)
	Repeat  int                 // timed repetitions (0 means DefaultRepeat)
	Logger  *slog.Logger        // diagnostics sink (nil discards)
	Tracer  trace.Tracer        // span per measurement (nil means no-op)
}

func (o *Options) normalize() {
	if o.Session == nil {
		o.Session = perfcounter.NewClockSession()
	}
	if o.Warmup <= 0 {
		o.Warmup = DefaultWarmup
	}
	if o.Repeat <= 0 {
		o.Repeat = DefaultRepeat
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Tracer == nil {
		o.Tracer = noop.NewTracerProvider().Tracer("arithbench")
	}
}
