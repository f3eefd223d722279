package vecmath

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"unit x", New(3, 0, 0), New(1, 0, 0)},
		{"3-4-0", New(3, 4, 0), New(0.6, 0.8, 0)},
		{"zero", Zero, Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if !ApproxEqual(got, tt.want, 1e-12) {
				t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if !IsFinite(got) {
				t.Errorf("Normalize(%v) produced non-finite %v", tt.in, got)
			}
		})
	}
}

func TestArithmetic(t *testing.T) {
	a := New(1, 2, 3)
	b := New(4, 5, 6)

	if got := Add(a, b); got != New(5, 7, 9) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := Sub(b, a); got != New(3, 3, 3) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := Scale(a, 2); got != New(2, 4, 6) {
		t.Errorf("Scale failed: got %v", got)
	}
	if got := Dot(a, b); got != 32 {
		t.Errorf("Dot failed: got %v", got)
	}
	if got := LengthSq(a); got != 14 {
		t.Errorf("LengthSq failed: got %v", got)
	}
	if got := Length(New(2, 3, 6)); math.Abs(got-7) > 1e-12 {
		t.Errorf("Length failed: got %v", got)
	}
	if got := Distance(a, b); math.Abs(got-math.Sqrt(27)) > 1e-12 {
		t.Errorf("Distance failed: got %v", got)
	}
	if got := AddScaled(a, b, 0.5); got != New(3, 4.5, 6) {
		t.Errorf("AddScaled failed: got %v", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := New(1, 2, 3)
	c := Clone(a)
	c[0] = 99
	if a[0] != 1 {
		t.Error("Clone shares storage with the original")
	}
}

func TestAxis(t *testing.T) {
	v := New(1, 2, 3)
	if Axis(v, 2) != 3 {
		t.Errorf("expected axis 2 to be 3, got %v", Axis(v, 2))
	}
	w := SetAxis(v, 1, -5)
	if w[1] != -5 || v[1] != 2 {
		t.Errorf("SetAxis should return a modified copy, got %v from %v", w, v)
	}
}

func TestIsFinite(t *testing.T) {
	if IsFinite(New(math.NaN(), 0, 0)) {
		t.Error("NaN component reported as finite")
	}
	if IsFinite(New(0, math.Inf(1), 0)) {
		t.Error("Inf component reported as finite")
	}
	if !IsFinite(New(1, 2, 3)) {
		t.Error("finite vector reported as non-finite")
	}
}
