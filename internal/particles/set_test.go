package particles

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/vecmath"
)

func TestNewParallelArrays(t *testing.T) {
	s := New(7, 0.05)
	if s.Len() != 7 {
		t.Fatalf("expected 7 particles, got %d", s.Len())
	}
	lengths := []int{len(s.Position), len(s.Velocity), len(s.Acceleration), len(s.PrevPosition), len(s.Radius)}
	for _, l := range lengths {
		if l != 7 {
			t.Errorf("expected every array to have length 7, got %v", lengths)
			break
		}
	}
	for i, r := range s.Radius {
		if r != 0.05 {
			t.Errorf("particle %d: expected base radius 0.05, got %v", i, r)
		}
	}
}

func TestCheck(t *testing.T) {
	s := New(3, 1)
	for _, i := range []int{-1, 3, 100} {
		if err := s.Check(i); !errors.Is(err, dynamo.ErrIndexOutOfRange) {
			t.Errorf("index %d: expected ErrIndexOutOfRange, got %v", i, err)
		}
	}
	if err := s.Check(2); err != nil {
		t.Errorf("index 2 should be valid, got %v", err)
	}
}

func TestSeedSphere(t *testing.T) {
	s := New(500, 0.05)
	s.Seed(rand.New(rand.NewSource(1)), PlaceSphere, 2.5)

	for i := range s.Position {
		if d := vecmath.Length(s.Position[i]); d > 2.5 {
			t.Fatalf("particle %d outside spread: |p| = %v", i, d)
		}
		if s.Position[i] != s.PrevPosition[i] {
			t.Fatalf("particle %d: previous position not initialised", i)
		}
		if s.Velocity[i] != (Vec3{}) {
			t.Fatalf("particle %d: expected zero velocity", i)
		}
	}
}

func TestSeedCube(t *testing.T) {
	s := New(500, 0.05)
	s.Seed(rand.New(rand.NewSource(2)), PlaceCube, 10)

	for i := range s.Position {
		for k := 0; k < 3; k++ {
			if math.Abs(s.Position[i][k]) > 10 {
				t.Fatalf("particle %d axis %d outside cube: %v", i, k, s.Position[i][k])
			}
		}
	}
}

func TestSeedDeterministic(t *testing.T) {
	a := New(50, 0.05)
	b := New(50, 0.05)
	a.Seed(rand.New(rand.NewSource(42)), PlaceSphere, 3)
	b.Seed(rand.New(rand.NewSource(42)), PlaceSphere, 3)
	for i := range a.Position {
		if a.Position[i] != b.Position[i] {
			t.Fatalf("same seed produced different positions at %d", i)
		}
	}
}

func TestScaleRadii(t *testing.T) {
	s := New(3, 0.1)
	s.ScaleRadii([]int{0, 1, 3}, 0.2)

	want := []float64{0.1, 0.12, 0.16}
	for i := range want {
		if math.Abs(s.Radius[i]-want[i]) > 1e-12 {
			t.Errorf("particle %d: expected radius %v, got %v", i, want[i], s.Radius[i])
		}
	}

	s.ScaleRadii([]int{0, 1, 3}, 0)
	for i, r := range s.Radius {
		if r != 0.1 {
			t.Errorf("particle %d: expected base radius after k=0, got %v", i, r)
		}
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := New(2, 0.1)
	s.Place(0, vecmath.New(1, 2, 3), vecmath.New(0, 1, 0))
	snap := s.Snapshot()

	s.Position[0] = vecmath.New(9, 9, 9)
	if snap.Positions[0] != vecmath.New(1, 2, 3) {
		t.Error("snapshot aliases the live position array")
	}
	if snap.Len() != 2 {
		t.Errorf("expected snapshot of 2, got %d", snap.Len())
	}
}

func TestValid(t *testing.T) {
	s := New(2, 0.1)
	if !s.Valid() {
		t.Fatal("fresh set should be valid")
	}
	s.Velocity[1][2] = math.NaN()
	if s.Valid() {
		t.Error("NaN velocity should make the set invalid")
	}
}

func TestParsePlacement(t *testing.T) {
	if p, err := ParsePlacement("cube"); err != nil || p != PlaceCube {
		t.Errorf("expected cube, got %v (%v)", p, err)
	}
	if _, err := ParsePlacement("torus"); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
