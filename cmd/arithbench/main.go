package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"github.com/torosent/arithbench/internal/baseline"
	"github.com/torosent/arithbench/internal/config"
	"github.com/torosent/arithbench/internal/dataset"
	"github.com/torosent/arithbench/internal/output"
	"github.com/torosent/arithbench/internal/perfcounter"
	"github.com/torosent/arithbench/internal/runner"
	"github.com/torosent/arithbench/internal/threshold"
	"github.com/torosent/arithbench/internal/tracing"
	"github.com/torosent/arithbench/internal/transform"
)

const (
	shutdownTimeout = 5 * time.Second

	remediation = "I cannot access the performance counters. Make sure you run the program in privileged mode (e.g., sudo) under Linux or macOS/ARM."
)

// ErrLockHeld is returned when another run holds the lock file.
var ErrLockHeld = errors.New("another benchmark run holds the lock")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, perfcounter.Open)
	cancel()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode reports err on stderr and maps it to the process exit status.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, perfcounter.ErrNoEvents) {
		fmt.Fprintln(stderr, remediation)
	} else {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return 1
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, open perfcounter.Opener) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	thresholds, err := threshold.ParseMultiple(cfg.Thresholds)
	if err != nil {
		return err
	}

	logger, err := newLogger(stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	session, err := open()
	if err != nil {
		return fmt.Errorf("open counters: %w", err)
	}
	defer session.Close()
	if !session.HasEvents() {
		return perfcounter.ErrNoEvents
	}

	if cfg.LockFile != "" {
		lock := flock.New(cfg.LockFile)
		locked, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("lock %s: %w", cfg.LockFile, err)
		}
		if !locked {
			return fmt.Errorf("%w: %s", ErrLockHeld, cfg.LockFile)
		}
		defer lock.Unlock()
		logger.Debug("acquired run lock", slog.String("path", cfg.LockFile))
	}

	var base *baseline.Baseline
	if cfg.Baseline != "" {
		base, err = baseline.Load(cfg.Baseline)
		if err != nil {
			return err
		}
	}

	provider, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown failed", slog.Any("error", err))
		}
	}()

	logger.Debug("tracing configured", slog.Bool("export", provider.Enabled()))

	r := runner.New(runner.Options{
		Session: session,
		Logger:  logger,
		Tracer:  provider.Tracer(),
	})

	report := output.NewReport(cfg.Howmany, runner.DefaultWarmup, r.Repeat(), session.HasEvents())
	logger.Info("starting run",
		slog.String("run_id", report.RunID),
		slog.Int("howmany", cfg.Howmany),
		slog.Int("repeat", r.Repeat()),
	)

	var text io.Writer = io.Discard
	diag := stderr
	if cfg.Format == config.FormatText {
		text = stdout
		diag = stdout
	}

	if err := measureAll[float64](ctx, r, cfg.Howmany, report, text); err != nil {
		return err
	}
	output.PrintSeparator(text)
	if err := measureAll[float32](ctx, r, cfg.Howmany, report, text); err != nil {
		return err
	}

	switch cfg.Format {
	case config.FormatJSON:
		if err := output.PrintJSONReport(stdout, report); err != nil {
			return err
		}
	case config.FormatYAML:
		if err := output.PrintYAMLReport(stdout, report); err != nil {
			return err
		}
	}

	if base != nil {
		baseline.PrintComparison(diag, base, baseline.Compare(base, report.Results))
	}

	if len(thresholds) > 0 {
		results := threshold.NewEvaluator(thresholds).Evaluate(report.Results)
		fmt.Fprintln(diag)
		fmt.Fprintln(diag, "Thresholds:")
		for _, res := range results {
			fmt.Fprintf(diag, "  %s\n", res.Message)
		}
		if threshold.Failed(results) {
			return errors.New("one or more thresholds failed")
		}
	}
	return nil
}

// measureAll generates one dataset and measures every transform over it in
// report order.
func measureAll[T dataset.Float](ctx context.Context, r *runner.Runner, howmany int, report *output.Report, w io.Writer) error {
	ds := dataset.Generate[T](howmany, dataset.DefaultSeed)
	for _, op := range transform.All() {
		summary, err := runner.Measure(ctx, r, ds, op)
		if err != nil {
			return err
		}
		output.PrintResult(w, ds.Precision.String(), ds.Len(), op.String(), summary)
		report.Add(output.NewResult(ds.Precision, ds.Len(), op, summary))
	}
	return nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
	} else {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
