package viz

import (
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/particlesim/internal/graph"
	"github.com/san-kum/particlesim/internal/particles"
	"github.com/san-kum/particlesim/internal/sim"
	"github.com/san-kum/particlesim/internal/vecmath"
)

type Vec3 = vecmath.Vec3

// Camera projects world coordinates onto the canvas. Extent is the world
// length that spans the shorter canvas side at zoom 1.
type Camera struct {
	RotX, RotY, RotZ float64
	Zoom             float64
	Distance         float64
	Near             float64
	Extent           float64
}

func NewCamera(extent float64) *Camera {
	if extent <= 0 {
		extent = 1
	}
	return &Camera{RotX: 0.35, RotY: -0.5, Zoom: 1, Distance: 3, Near: 0.1, Extent: extent}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// rotation applies X, then Y, then Z.
func (c *Camera) rotation() mgl64.Mat3 {
	return mgl64.Rotate3DZ(c.RotZ).Mul3(mgl64.Rotate3DY(c.RotY)).Mul3(mgl64.Rotate3DX(c.RotX))
}

// Projection is a point on the canvas in sub-pixels. Depth grows toward the
// viewer; Scale is sub-pixels per world unit at that depth.
type Projection struct {
	X, Y    int
	Depth   float64
	Scale   float64
	Visible bool
}

// Project maps p to a canvas of sw x sh sub-pixels.
func (c *Camera) Project(p Vec3, sw, sh int) Projection {
	return c.project(c.rotation(), p, sw, sh)
}

func (c *Camera) project(rot mgl64.Mat3, p Vec3, sw, sh int) Projection {
	q := rot.Mul3x1(p).Mul(c.Zoom / c.Extent)
	if q.Z() >= c.Distance-c.Near {
		return Projection{}
	}
	persp := c.Distance / (c.Distance - q.Z())
	minDim := float64(min(sw, sh))
	px := persp * minDim * 0.9
	x := int(math.Round(q.X()*px)) + sw/2
	y := int(math.Round(-q.Y()*px)) + sh/2
	return Projection{
		X:       x,
		Y:       y,
		Depth:   q.Z(),
		Scale:   px * c.Zoom / c.Extent,
		Visible: x >= 0 && x < sw && y >= 0 && y < sh,
	}
}

type Segment struct {
	Start, End Vec3
}

type Wireframe struct{ Segments []Segment }

func NewWireframe() *Wireframe           { return &Wireframe{} }
func (w *Wireframe) Add(s, e Vec3)       { w.Segments = append(w.Segments, Segment{s, e}) }
func (w *Wireframe) Clear()              { w.Segments = w.Segments[:0] }
func (w *Wireframe) Len() int            { return len(w.Segments) }
func (w *Wireframe) Extend(o *Wireframe) { w.Segments = append(w.Segments, o.Segments...) }

// CubeWireframe is the twelve edges of the containment cube of the given side.
func CubeWireframe(size float64) *Wireframe {
	w, s := NewWireframe(), size/2
	v := []Vec3{{-s, -s, -s}, {s, -s, -s}, {s, s, -s}, {-s, s, -s}, {-s, -s, s}, {s, -s, s}, {s, s, s}, {-s, s, s}}
	ei := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}
	for _, e := range ei {
		w.Add(v[e[0]], v[e[1]])
	}
	return w
}

// EdgeWireframe joins the endpoints of each graph edge.
func EdgeWireframe(positions []Vec3, edges []graph.Edge) *Wireframe {
	w := NewWireframe()
	for _, e := range edges {
		if e.I < len(positions) && e.J < len(positions) {
			w.Add(positions[e.I], positions[e.J])
		}
	}
	return w
}

// Render3D draws every segment with at least one visible end.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.PixelSize()
	rot := cam.rotation()
	for _, s := range w.Segments {
		a := cam.project(rot, s.Start, cw, ch)
		b := cam.project(rot, s.End, cw, ch)
		if a.Visible || b.Visible {
			c.DrawLine(a.X, a.Y, b.X, b.Y)
		}
	}
}

// RenderParticles draws each particle as a disc sized by its radius, far
// particles first so nearer ones keep their color. tints may be nil or
// shorter than the snapshot; missing entries use sim.Neutral. It returns how
// many particles landed on the canvas.
func RenderParticles(c *Canvas, snap particles.Snapshot, tints []color.RGBA, cam *Camera) int {
	cw, ch := c.PixelSize()
	rot := cam.rotation()
	type drawn struct {
		p Projection
		r int
		i int
	}
	list := make([]drawn, 0, len(snap.Positions))
	for i, pos := range snap.Positions {
		p := cam.project(rot, pos, cw, ch)
		if !p.Visible {
			continue
		}
		r := 0
		if i < len(snap.Radii) {
			r = int(snap.Radii[i] * p.Scale)
		}
		list = append(list, drawn{p, r, i})
	}
	sort.Slice(list, func(a, b int) bool { return list[a].p.Depth < list[b].p.Depth })
	for _, d := range list {
		tint := sim.Neutral
		if d.i < len(tints) {
			tint = tints[d.i]
		}
		c.Disc(d.p.X, d.p.Y, d.r, tint)
	}
	return len(list)
}
