package collision

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/particlesim/internal/particles"
	"github.com/san-kum/particlesim/internal/vecmath"
)

func headOn(radius float64) *particles.Set {
	set := particles.New(2, radius)
	set.Place(0, vecmath.New(-0.2, 0, 0), vecmath.New(0.1, 0, 0))
	set.Place(1, vecmath.New(0.2, 0, 0), vecmath.New(-0.1, 0, 0))
	return set
}

func TestHeadOnScenario(t *testing.T) {
	set := headOn(0.25)
	st := NewResolver(0.8).Resolve(set)

	if st.Pairs != 1 || st.Contacts != 1 || st.Impulses != 1 {
		t.Errorf("expected one pair, contact and impulse, got %+v", st)
	}
	if math.Abs(st.MaxOverlap-0.1) > 1e-12 {
		t.Errorf("expected overlap 0.1, got %v", st.MaxOverlap)
	}
	if !vecmath.ApproxEqual(set.Velocity[0], vecmath.New(-0.08, 0, 0), 1e-9) {
		t.Errorf("expected v0 = (-0.08,0,0), got %v", set.Velocity[0])
	}
	if !vecmath.ApproxEqual(set.Velocity[1], vecmath.New(0.08, 0, 0), 1e-9) {
		t.Errorf("expected v1 = (0.08,0,0), got %v", set.Velocity[1])
	}
	if n := Overlaps(set); n != 0 {
		t.Errorf("expected zero residual overlap, got %d overlapping pairs", n)
	}
}

func TestRestitutionBound(t *testing.T) {
	for _, e := range []float64{0, 0.25, 0.5, 0.8, 1} {
		set := headOn(0.25)
		before := set.Velocity[1][0] - set.Velocity[0][0]
		NewResolver(e).Resolve(set)
		after := set.Velocity[1][0] - set.Velocity[0][0]
		if math.Abs(after-(-e*before)) > 1e-9 {
			t.Errorf("e=%v: expected separation speed %v, got %v", e, -e*before, after)
		}
	}
}

func TestSeparatingPairGetsNoImpulse(t *testing.T) {
	set := headOn(0.25)
	set.Velocity[0], set.Velocity[1] = vecmath.New(-0.1, 0, 0), vecmath.New(0.1, 0, 0)

	st := NewResolver(0.5).Resolve(set)
	if st.Impulses != 0 {
		t.Errorf("expected no impulse for a separating pair, got %d", st.Impulses)
	}
	if set.Velocity[0][0] != -0.1 || set.Velocity[1][0] != 0.1 {
		t.Errorf("velocities changed: %v %v", set.Velocity[0], set.Velocity[1])
	}
	if Overlaps(set) != 0 {
		t.Error("positional correction should still separate the pair")
	}
}

func TestCoincidentUsesUnitX(t *testing.T) {
	set := particles.New(2, 0.1)
	set.Place(0, vecmath.New(1, 1, 1), Vec3{})
	set.Place(1, vecmath.New(1, 1, 1), Vec3{})

	NewResolver(1).Resolve(set)
	for i, p := range set.Position {
		if !vecmath.IsFinite(p) {
			t.Fatalf("particle %d: position not finite: %v", i, p)
		}
	}
	if set.Position[1][0] <= set.Position[0][0] {
		t.Errorf("expected particle 1 pushed along +X, got %v and %v", set.Position[0], set.Position[1])
	}
	if set.Position[0][1] != 1 || set.Position[1][2] != 1 {
		t.Errorf("only the X axis should change, got %v and %v", set.Position[0], set.Position[1])
	}
}

func TestNoContactNoChange(t *testing.T) {
	set := particles.New(2, 0.1)
	set.Place(0, vecmath.New(0, 0, 0), vecmath.New(1, 0, 0))
	set.Place(1, vecmath.New(1, 0, 0), vecmath.New(-1, 0, 0))

	st := NewResolver(1).Resolve(set)
	if st.Contacts != 0 {
		t.Errorf("expected no contacts, got %d", st.Contacts)
	}
	if set.Velocity[0][0] != 1 {
		t.Errorf("velocity changed without contact: %v", set.Velocity[0])
	}
}

func TestMomentumConserved(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	set := particles.New(30, 0.2)
	set.Seed(rng, particles.PlaceCube, 1)
	set.Jitter(rng, 0.5)

	sum := func() Vec3 {
		var p Vec3
		for _, v := range set.Velocity {
			p = p.Add(v)
		}
		return p
	}
	before := sum()
	NewResolver(0.6).Resolve(set)
	if d := vecmath.Distance(before, sum()); d > 1e-12 {
		t.Errorf("momentum changed by %v", d)
	}
}

func TestResolveUntilSeparated(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	set := particles.New(20, 0.1)
	set.Seed(rng, particles.PlaceCube, 1)

	iters, ok := NewResolver(0.8).ResolveUntilSeparated(set, 1000)
	if !ok {
		t.Fatalf("still overlapping after %d passes", iters)
	}
	if Overlaps(set) != 0 {
		t.Error("expected no overlaps")
	}
}
