package runner

import (
	"testing"
)

func TestOptionsNormalizeDefaults(t *testing.T) {
	opts := Options{}
	opts.normalize()

	if opts.Warmup != DefaultWarmup {
		t.Errorf("Warmup = %d, want %d", opts.Warmup, DefaultWarmup)
	}
	if opts.Repeat != DefaultRepeat {
		t.Errorf("Repeat = %d, want %d", opts.Repeat, DefaultRepeat)
	}
	if opts.Session == nil {
		t.Fatal("expected a clock session when none is supplied")
	}
	if opts.Session.HasEvents() {
		t.Error("default session must not claim hardware events")
	}
	if opts.Logger == nil || opts.Tracer == nil {
		t.Error("expected logger and tracer defaults")
	}
}

func TestOptionsNormalizeKeepsExplicitValues(t *testing.T) {
	opts := Options{Warmup: 3, Repeat: 9}
	opts.normalize()
	if opts.Warmup != 3 || opts.Repeat != 9 {
		t.Errorf("normalize() overwrote explicit values: %+v", opts)
	}

	negative := Options{Warmup: -1, Repeat: -5}
	negative.normalize()
	if negative.Warmup != DefaultWarmup || negative.Repeat != DefaultRepeat {
		t.Errorf("expected defaults for negative values, got warmup=%d repeat=%d", negative.Warmup, negative.Repeat)
	}
}
