package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestParseScheme(t *testing.T) {
	tests := []struct {
		in   string
		want Scheme
	}{
		{"euler", SchemeEuler},
		{"Symplectic-Euler", SchemeEuler},
		{"verlet", SchemeVerlet},
		{"velocity_verlet", SchemeVerlet},
		{"rk4", SchemeRK4},
		{" RK4 ", SchemeRK4},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseScheme(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseScheme(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if _, err := ParseScheme("leapfrog"); !errors.Is(err, ErrUnknownScheme) {
		t.Errorf("expected ErrUnknownScheme, got %v", err)
	}
}

func TestSchemeRoundTrip(t *testing.T) {
	for _, s := range Schemes() {
		got, err := ParseScheme(s.String())
		if err != nil || got != s {
			t.Errorf("scheme %v did not round trip: got %v, err %v", s, got, err)
		}
	}
}

func TestDefaultStepSize(t *testing.T) {
	if SchemeRK4.DefaultStepSize() != 0.01 {
		t.Errorf("expected rk4 step 0.01, got %v", SchemeRK4.DefaultStepSize())
	}
	if SchemeEuler.DefaultStepSize() != 1 || SchemeVerlet.DefaultStepSize() != 1 {
		t.Error("euler and verlet should default to a unit step")
	}
}

func TestEffectiveStep(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.EffectiveStep(SchemeRK4, 0); got != RK4StepSize {
		t.Errorf("expected default rk4 step, got %v", got)
	}
	cfg.StepSize = 0.5
	if got := cfg.EffectiveStep(SchemeRK4, 0); got != 0.5 {
		t.Errorf("expected configured step 0.5, got %v", got)
	}
	if got := cfg.EffectiveStep(SchemeRK4, 0.016); got != 0.016 {
		t.Errorf("explicit dt should pass through unmodified, got %v", got)
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero time scale", func(c *Config) { c.TimeScale = 0 }},
		{"negative cube", func(c *Config) { c.CubeSize = -1 }},
		{"dampening above one", func(c *Config) { c.Dampening = 1.5 }},
		{"negative restitution", func(c *Config) { c.Restitution = -0.1 }},
		{"negative softening", func(c *Config) { c.Softening = -1 }},
		{"nan repulsion", func(c *Config) { c.RepulsionStrength = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestParams(t *testing.T) {
	cfg := DefaultConfig()
	for name, v := range cfg.Params() {
		var c Config
		if err := c.SetParam(name, v); err != nil {
			t.Errorf("SetParam(%q) failed: %v", name, err)
		}
		if c.Params()[name] != v {
			t.Errorf("param %q did not stick: got %v, want %v", name, c.Params()[name], v)
		}
	}
	if err := cfg.SetParam("gravity", 9.81); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for unknown param, got %v", err)
	}
}

func TestParsePolicies(t *testing.T) {
	if p, err := ParseAttractionPolicy("all-pairs"); err != nil || p != AttractAllPairs {
		t.Errorf("expected all-pairs, got %v (%v)", p, err)
	}
	if p, err := ParseAttractionPolicy(""); err != nil || p != AttractAdjacency {
		t.Errorf("empty policy should default to adjacency, got %v (%v)", p, err)
	}
	if p, err := ParseWallClampPolicy("half-size"); err != nil || p != ClampHalfSize {
		t.Errorf("expected half-size, got %v (%v)", p, err)
	}
	if _, err := ParseWallClampPolicy("sticky"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestStepError(t *testing.T) {
	err := &StepError{Step: 12, Wrapped: ErrInvalidState}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("StepError should unwrap to the wrapped error")
	}
	want := "step 12: dynamo: invalid state (NaN or Inf detected)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIndexError(t *testing.T) {
	err := IndexError(7, 5)
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}
