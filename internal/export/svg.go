// Package export renders particle snapshots, canvases and metric traces as
// standalone SVG documents.
package export

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/particlesim/internal/particles"
	"github.com/san-kum/particlesim/internal/sim"
	"github.com/san-kum/particlesim/internal/viz"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// CanvasToSVG draws every set Braille dot as a circle, colored by its cell
// tint. scale is the spacing of one dot in SVG units.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}
	pw, ph := canvas.PixelSize()

	var sb strings.Builder
	header(&sb, float64(pw)*scale, float64(ph)*scale)
	dotRadius := scale * 0.4
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			fill := "#00ff00"
			if t := canvas.Tint[y/4][x/2]; t.A != 0 {
				fill = hex(t)
			}
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n",
				float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius, fill)
		}
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// SnapshotToSVG projects a snapshot through cam onto a width x height image:
// the containment cube as lines, then particles as circles sized by radius,
// farthest first. tints may be nil.
func SnapshotToSVG(snap particles.Snapshot, tints []color.RGBA, cam *viz.Camera, width, height int) string {
	var sb strings.Builder
	header(&sb, float64(width), float64(height))

	sb.WriteString("<g stroke=\"#444466\" stroke-width=\"1\">\n")
	for _, s := range viz.CubeWireframe(snap.CubeSize).Segments {
		a := cam.Project(s.Start, width, height)
		b := cam.Project(s.End, width, height)
		if a.Visible || b.Visible {
			fmt.Fprintf(&sb, "<line x1=\"%d\" y1=\"%d\" x2=\"%d\" y2=\"%d\"/>\n", a.X, a.Y, b.X, b.Y)
		}
	}
	sb.WriteString("</g>\n")

	type dot struct {
		p    viz.Projection
		r    float64
		fill string
	}
	dots := make([]dot, 0, len(snap.Positions))
	for i, pos := range snap.Positions {
		p := cam.Project(pos, width, height)
		if !p.Visible {
			continue
		}
		r := 1.0
		if i < len(snap.Radii) {
			r = math.Max(r, snap.Radii[i]*p.Scale)
		}
		tint := sim.Neutral
		if i < len(tints) {
			tint = tints[i]
		}
		dots = append(dots, dot{p, r, hex(tint)})
	}
	sort.Slice(dots, func(a, b int) bool { return dots[a].p.Depth < dots[b].p.Depth })
	for _, d := range dots {
		fmt.Fprintf(&sb, "<circle cx=\"%d\" cy=\"%d\" r=\"%.2f\" fill=\"%s\"/>\n", d.p.X, d.p.Y, d.r, d.fill)
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// TraceToSVG draws a metric series as a polyline scaled to fill the image
// with 10% padding. Non-finite samples are skipped. It returns "" when
// fewer than two samples are usable.
func TraceToSVG(values []float64, width, height int, strokeColor string) string {
	type point struct{ i, v float64 }
	pts := make([]point, 0, len(values))
	for i, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			pts = append(pts, point{float64(i), v})
		}
	}
	if len(pts) < 2 {
		return ""
	}

	minX, maxX := pts[0].i, pts[len(pts)-1].i
	minY, maxY := pts[0].v, pts[0].v
	for _, p := range pts {
		minY = math.Min(minY, p.v)
		maxY = math.Max(maxY, p.v)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)
	for i, p := range pts {
		x := (p.i - minX) / rangeX * float64(width)
		y := float64(height) - (p.v-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n</svg>")
	return sb.String()
}
