package forces

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/graph"
	"github.com/san-kum/particlesim/internal/particles"
	"github.com/san-kum/particlesim/internal/vecmath"
)

func quietConfig() dynamo.Config {
	return dynamo.Config{
		TimeScale:   1,
		CubeSize:    10,
		Dampening:   1,
		Restitution: 1,
		Attraction:  dynamo.AttractAdjacency,
	}
}

func pair(a, b Vec3) *particles.Set {
	s := particles.New(2, 0.05)
	s.Place(0, a, Vec3{})
	s.Place(1, b, Vec3{})
	return s
}

func TestRepulsionInverseSquare(t *testing.T) {
	cfg := quietConfig()
	cfg.RepulsionStrength = 2
	set := pair(vecmath.New(0, 0, 0), vecmath.New(2, 0, 0))
	f := New(&cfg, set, nil)

	a0, err := f.Acceleration(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// |F| = S / d^2 = 2 / 4, directed away from particle 1
	want := vecmath.New(-0.5, 0, 0)
	if !vecmath.ApproxEqual(a0, want, 1e-12) {
		t.Errorf("expected %v, got %v", want, a0)
	}

	a1, _ := f.Acceleration(1)
	if !vecmath.ApproxEqual(a1, want.Mul(-1), 1e-12) {
		t.Errorf("expected equal and opposite %v, got %v", want.Mul(-1), a1)
	}
}

func TestNegativeRepulsionAttracts(t *testing.T) {
	cfg := quietConfig()
	cfg.RepulsionStrength = -1
	set := pair(vecmath.New(0, 0, 0), vecmath.New(0, 1, 0))
	f := New(&cfg, set, nil)

	a0, _ := f.Acceleration(0)
	if a0[1] <= 0 {
		t.Errorf("negative strength should pull particle 0 toward +y, got %v", a0)
	}
}

func TestRepulsionSkipsCoincident(t *testing.T) {
	cfg := quietConfig()
	cfg.RepulsionStrength = 1
	set := pair(vecmath.New(1, 1, 1), vecmath.New(1.001, 1, 1))
	f := New(&cfg, set, nil)

	a0, err := f.Acceleration(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a0 != (Vec3{}) {
		t.Errorf("pairs inside epsilon should exert nothing, got %v", a0)
	}
}

func TestSoftening(t *testing.T) {
	cfg := quietConfig()
	cfg.RepulsionStrength = 1
	cfg.Softening = 2
	set := pair(vecmath.New(0, 0, 0), vecmath.New(1, 0, 0))
	f := New(&cfg, set, nil)

	a0, _ := f.Acceleration(0)
	if math.Abs(a0[0]+1.0/3.0) > 1e-12 {
		t.Errorf("expected -1/(1+2), got %v", a0[0])
	}
}

func TestAttractionPolicies(t *testing.T) {
	set := particles.New(3, 0.05)
	set.Place(0, vecmath.New(0, 0, 0), Vec3{})
	set.Place(1, vecmath.New(2, 0, 0), Vec3{})
	set.Place(2, vecmath.New(0, 3, 0), Vec3{})

	g, err := graph.New(3)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddEdge(0, 1); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		policy dynamo.AttractionPolicy
		graph  *graph.Graph
		want   Vec3
	}{
		{"adjacency", dynamo.AttractAdjacency, g, vecmath.New(1, 0, 0)},
		{"adjacency without graph", dynamo.AttractAdjacency, nil, Vec3{}},
		{"all pairs", dynamo.AttractAllPairs, g, vecmath.New(1, 1.5, 0)},
		{"none", dynamo.AttractNone, g, Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := quietConfig()
			cfg.AttractionStrength = 0.5
			cfg.Attraction = tt.policy
			f := New(&cfg, set, tt.graph)
			a0, err := f.Acceleration(0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !vecmath.ApproxEqual(a0, tt.want, 1e-12) {
				t.Errorf("expected %v, got %v", tt.want, a0)
			}
		})
	}
}

func TestWallForce(t *testing.T) {
	tests := []struct {
		name string
		p    Vec3
		want Vec3
	}{
		// half = 5; distances to nearer faces are 1, 4 and 5
		{"near +x", vecmath.New(4, -1, 0), vecmath.New(-1, 1.0/16, 1.0/25)},
		{"near -z", vecmath.New(0, 0, -4.5), vecmath.New(1.0/25, 1.0/25, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WallForce(tt.p, 10, 1)
			if !vecmath.ApproxEqual(got, tt.want, 1e-12) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestWallForceClampsDistance(t *testing.T) {
	got := WallForce(vecmath.New(5, 0, 0), 10, 1)
	want := -1 / (dynamo.Epsilon * dynamo.Epsilon)
	if got[0] != want {
		t.Errorf("expected clamped magnitude %v, got %v", want, got[0])
	}
	got = WallForce(vecmath.New(7, 0, 0), 10, 1)
	if math.IsInf(got[0], 0) || math.IsNaN(got[0]) || got[0] >= 0 {
		t.Errorf("outside the cube the force must stay finite and inward, got %v", got[0])
	}
}

func TestTimeScaleDividesForce(t *testing.T) {
	cfg := quietConfig()
	cfg.RepulsionStrength = 4
	cfg.TimeScale = 100
	set := pair(vecmath.New(0, 0, 0), vecmath.New(1, 0, 0))
	f := New(&cfg, set, nil)

	a0, _ := f.Acceleration(0)
	if math.Abs(a0[0]+0.04) > 1e-12 {
		t.Errorf("expected -4/100, got %v", a0[0])
	}
}

func TestZeroTimeScale(t *testing.T) {
	cfg := quietConfig()
	cfg.TimeScale = 0
	f := New(&cfg, pair(Vec3{}, vecmath.New(1, 0, 0)), nil)

	if _, err := f.Acceleration(0); !errors.Is(err, dynamo.ErrDivisionByZero) {
		t.Errorf("expected ErrDivisionByZero, got %v", err)
	}
	dst := make([]Vec3, 2)
	if err := f.AccelerationsInto(dst); !errors.Is(err, dynamo.ErrDivisionByZero) {
		t.Errorf("expected ErrDivisionByZero, got %v", err)
	}
}

func TestAccelerationOutOfRange(t *testing.T) {
	cfg := quietConfig()
	f := New(&cfg, pair(Vec3{}, vecmath.New(1, 0, 0)), nil)
	if _, err := f.Acceleration(2); !errors.Is(err, dynamo.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestAccelerationAtDoesNotMutate(t *testing.T) {
	cfg := quietConfig()
	cfg.RepulsionStrength = 1
	set := pair(vecmath.New(0, 0, 0), vecmath.New(1, 0, 0))
	f := New(&cfg, set, nil)

	before := set.Snapshot()
	if _, err := f.AccelerationAt(0, vecmath.New(0.5, 0.5, 0)); err != nil {
		t.Fatal(err)
	}
	after := set.Snapshot()
	for i := range before.Positions {
		if before.Positions[i] != after.Positions[i] {
			t.Fatalf("AccelerationAt mutated particle %d", i)
		}
	}
}

func TestConfigChangesSeenImmediately(t *testing.T) {
	cfg := quietConfig()
	set := pair(vecmath.New(0, 0, 0), vecmath.New(1, 0, 0))
	f := New(&cfg, set, nil)

	a0, _ := f.Acceleration(0)
	if a0 != (Vec3{}) {
		t.Fatalf("expected no force, got %v", a0)
	}
	cfg.RepulsionStrength = 1
	a0, _ = f.Acceleration(0)
	if a0[0] >= 0 {
		t.Errorf("expected repulsion after config change, got %v", a0)
	}
}
