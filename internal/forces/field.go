// Package forces evaluates the acceleration field acting on each particle.
//
// The field is the sum of three terms, accumulated in this order:
//
//  1. inverse-square pair repulsion of magnitude S / (|r|² + softening) along
//     the line between the pair, away from the partner for S > 0 and toward
//     it for S < 0, skipped for pairs closer than dynamo.Epsilon in squared
//     distance
//  2. a zero-rest-length spring k * |d| toward each attracting partner, over
//     graph edges or over all pairs depending on the attraction policy
//  3. an inverse-square push W / d² away from the nearer face on each axis,
//     with d floored at dynamo.Epsilon
//
// and the total is divided by Config.TimeScale (unit mass). Evaluation never
// mutates the particle set, the graph or the configuration.
package forces

import (
	"math"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/graph"
	"github.com/san-kum/particlesim/internal/particles"
	"github.com/san-kum/particlesim/internal/vecmath"
)

type Vec3 = vecmath.Vec3

// Field binds the force law to the state it reads. The config pointer is
// shared with the owning simulation so run-time changes are seen on the next
// evaluation.
type Field struct {
	cfg   *dynamo.Config
	set   *particles.Set
	graph *graph.Graph
}

// New returns a field over set. g may be nil, in which case the adjacency
// policy contributes no springs.
func New(cfg *dynamo.Config, set *particles.Set, g *graph.Graph) *Field {
	return &Field{cfg: cfg, set: set, graph: g}
}

func (f *Field) Set() *particles.Set    { return f.set }
func (f *Field) Config() *dynamo.Config { return f.cfg }

// Acceleration evaluates the field for particle i at its stored position.
func (f *Field) Acceleration(i int) (Vec3, error) {
	if err := f.set.Check(i); err != nil {
		return Vec3{}, err
	}
	return f.AccelerationAt(i, f.set.Position[i])
}

// AccelerationAt evaluates the field for particle i as if it sat at p while
// every other particle stays where the set says it is.
func (f *Field) AccelerationAt(i int, p Vec3) (Vec3, error) {
	if f.cfg.TimeScale == 0 {
		return Vec3{}, dynamo.ErrDivisionByZero
	}
	force := f.repulsion(i, p)
	force = force.Add(f.attraction(i, p))
	force = force.Add(WallForce(p, f.cfg.CubeSize, f.cfg.WallRepulsionStrength))
	return force.Mul(1 / f.cfg.TimeScale), nil
}

// AccelerationsInto fills dst[i] for every particle from one consistent
// configuration. dst must have length set.Len().
func (f *Field) AccelerationsInto(dst []Vec3) error {
	for i := range dst {
		a, err := f.AccelerationAt(i, f.set.Position[i])
		if err != nil {
			return err
		}
		dst[i] = a
	}
	return nil
}

func (f *Field) repulsion(i int, p Vec3) Vec3 {
	var acc Vec3
	s := f.cfg.RepulsionStrength
	if s == 0 {
		return acc
	}
	soft := f.cfg.Softening
	for j, pj := range f.set.Position {
		if j == i {
			continue
		}
		r := pj.Sub(p)
		d2 := vecmath.LengthSq(r)
		if d2 < dynamo.Epsilon {
			continue
		}
		// positive S pushes i away from j, negative S pulls it in
		acc = vecmath.AddScaled(acc, r, -s/(math.Sqrt(d2)*(d2+soft)))
	}
	return acc
}

func (f *Field) attraction(i int, p Vec3) Vec3 {
	var acc Vec3
	k := f.cfg.AttractionStrength
	if k == 0 {
		return acc
	}
	switch f.cfg.Attraction {
	case dynamo.AttractAllPairs:
		for j, pj := range f.set.Position {
			if j != i {
				acc = acc.Add(Spring(p, pj, k))
			}
		}
	case dynamo.AttractAdjacency:
		if f.graph == nil || i >= f.graph.Len() {
			return acc
		}
		for j, linked := range f.graph.Row(i) {
			if linked {
				acc = acc.Add(Spring(p, f.set.Position[j], k))
			}
		}
	}
	return acc
}

// Spring is the zero-rest-length Hookean pull of p toward q. normalize(d)*k|d|
// reduces to k*d; pairs closer than Epsilon contribute nothing.
func Spring(p, q Vec3, k float64) Vec3 {
	d := q.Sub(p)
	if d.Len() < dynamo.Epsilon {
		return Vec3{}
	}
	return d.Mul(k)
}

// WallForce is the soft-boundary term for a point p in a cube of side
// cubeSize centred on the origin. On each axis it pushes away from the face
// nearer to p with magnitude w / d², where d is the distance to that face
// floored at Epsilon. A point exactly on the plane x = 0 is pushed toward +x.
func WallForce(p Vec3, cubeSize, w float64) Vec3 {
	var f Vec3
	if w == 0 {
		return f
	}
	half := cubeSize / 2
	for k := 0; k < 3; k++ {
		d := half - math.Abs(p[k])
		if d < dynamo.Epsilon {
			d = dynamo.Epsilon
		}
		mag := w / (d * d)
		if p[k] > 0 {
			f[k] = -mag
		} else {
			f[k] = mag
		}
	}
	return f
}
