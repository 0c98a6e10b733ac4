// seehuhn.de/go/revector - a 2D vector graphics engine
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package tess converts paths into flat polygons in device space.
//
// Curves are flattened with a segment count chosen so that the distance
// between curve and polyline, measured in device pixels, stays below the
// tolerance. Strokes are expanded into outline polygons, including caps,
// joins and dash patterns, before they are transformed to device space.
// The output is polygon soup: overlaps are resolved later by the fill rule
// used for rasterization.
package tess

import (
	"errors"
	"fmt"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
	"seehuhn.de/go/revector/shape"
)

// ErrTooComplex is returned when the output for a path would be too large
// to construct, for example because a dash pattern is tiny compared to the
// length of the path.
var ErrTooComplex = errors.New("path too complex")

// DefaultTolerance is the default flattening tolerance in device pixels.
// Deviations of a quarter pixel are below the threshold of visual
// perception.
const DefaultTolerance = 0.25

// Tessellator flattens paths and expands strokes. A Tessellator keeps its
// internal buffers between calls, so that repeated use does not allocate.
//
// A Tessellator is not safe for concurrent use.
type Tessellator struct {
	// CTM maps user space to device space.
	CTM matrix.Matrix

	// Tolerance is the maximal deviation between a curve and its
	// flattened approximation, in device pixels. Must be positive.
	Tolerance float64

	style shape.StrokeStyle

	// stroke outline of the current polygon, in user space
	outline []vec.Vec2

	// flattened subpaths
	segs             []strokeSegment
	segsOffsets      []int
	subpathClosed    []bool
	degeneratePoints []vec.Vec2

	// dash pattern output
	dashedSegs []strokeSegment
	dashes     []dash
}

// New returns a Tessellator with the identity transformation and the
// default tolerance.
func New() *Tessellator {
	return &Tessellator{
		CTM:       matrix.Identity,
		Tolerance: DefaultTolerance,
	}
}

// Reset prepares t for use with a new transformation.
func (t *Tessellator) Reset(ctm matrix.Matrix, tolerance float64) {
	t.CTM = ctm
	t.Tolerance = tolerance
}

func (t *Tessellator) check(p *path.Data) error {
	for _, x := range t.CTM {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: non-finite transformation", shape.ErrInvalidGeometry)
		}
	}
	if !(t.Tolerance > 0) || math.IsInf(t.Tolerance, 0) {
		return fmt.Errorf("tessellation tolerance %g is not positive", t.Tolerance)
	}
	return shape.Validate(p)
}

// toDevice applies the CTM to a point.
func (t *Tessellator) toDevice(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: t.CTM[0]*v.X + t.CTM[2]*v.Y + t.CTM[4],
		Y: t.CTM[1]*v.X + t.CTM[3]*v.Y + t.CTM[5],
	}
}

// transformLinear applies only the 2×2 linear part of the CTM. It is used
// to measure user space distances in device pixels.
func (t *Tessellator) transformLinear(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: t.CTM[0]*v.X + t.CTM[2]*v.Y,
		Y: t.CTM[1]*v.X + t.CTM[3]*v.Y,
	}
}

// Fill flattens every subpath of p into a closed polygon and appends the
// polygons to out. Open subpaths are closed implicitly. Subpaths which
// enclose no area are dropped.
//
// An error is returned only for malformed input; see [shape.Validate].
func (t *Tessellator) Fill(p *path.Data, out *Polygons) error {
	if err := t.check(p); err != nil {
		return err
	}
	if p == nil {
		return nil
	}

	var current vec.Vec2
	start := len(out.Points)
	emit := func(_, to vec.Vec2) {
		out.Points = append(out.Points, t.toDevice(to))
	}

	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			out.finish(start)
			start = len(out.Points)
			current = p.Coords[k]
			out.Points = append(out.Points, t.toDevice(current))
			k++
		case path.CmdLineTo:
			emit(current, p.Coords[k])
			current = p.Coords[k]
			k++
		case path.CmdQuadTo:
			t.flattenQuadratic(current, p.Coords[k], p.Coords[k+1], emit)
			current = p.Coords[k+1]
			k += 2
		case path.CmdCubeTo:
			t.flattenCubic(current, p.Coords[k], p.Coords[k+1], p.Coords[k+2], emit)
			current = p.Coords[k+2]
			k += 3
		case path.CmdClose:
			out.finish(start)
			start = len(out.Points)
		}
	}
	out.finish(start)
	return nil
}

// Stroke expands the outline of p, stroked with the given style, into
// polygons and appends them to out. The resulting polygons must be
// rasterized with the nonzero fill rule.
//
// Stroke geometry (line width, dash lengths) is measured in user space,
// so that a non-uniform CTM distorts the stroke in the same way as the
// path.
func (t *Tessellator) Stroke(p *path.Data, style shape.StrokeStyle, out *Polygons) error {
	if err := t.check(p); err != nil {
		return err
	}
	if err := style.Validate(); err != nil {
		return err
	}
	if p == nil || style.Width == 0 {
		return nil
	}
	t.style = style

	t.flattenPath(p)
	if len(t.segsOffsets) == 0 && len(t.degeneratePoints) == 0 {
		return nil
	}

	d := style.Width / 2
	for _, pt := range t.degeneratePoints {
		switch style.Cap {
		case graphics.LineCapRound:
			t.outline = t.outline[:0]
			t.addArc(pt, d, vec.Vec2{X: 1, Y: 0}, 2*math.Pi, true)
			t.flush(out)
		case graphics.LineCapSquare:
			t.outline = t.outline[:0]
			t.addSquare(pt, vec.Vec2{X: 1, Y: 0}, d)
			t.flush(out)
		}
	}

	if len(style.Dash) > 0 {
		return t.strokeDashedSubpaths(out)
	}
	t.strokeAllSubpaths(out)
	return nil
}

// flush transforms the current outline to device space and adds it to out.
func (t *Tessellator) flush(out *Polygons) {
	start := len(out.Points)
	for _, v := range t.outline {
		out.Points = append(out.Points, t.toDevice(v))
	}
	out.finish(start)
	t.outline = t.outline[:0]
}

// Numerical tolerances.
const (
	// zeroLengthThreshold is the minimum length for a stroke segment.
	// Shorter segments are dropped.
	zeroLengthThreshold = 1e-10

	// collinearityThreshold is used to detect nearly collinear segments
	// where no join is needed.
	collinearityThreshold = 1e-6

	// cuspCosineThreshold detects a path doubling back on itself.
	// cos(179.19°) ≈ -0.9999
	cuspCosineThreshold = -0.9999
)

// Output size limits. Curves and arcs exceeding their limit are flattened
// more coarsely than the tolerance asks for.
const (
	maxCurveSegments = 1 << 16
	maxArcSegments   = 1 << 16
	maxDashes        = 1 << 18
)

// clampSegments rounds n up to an integer in the range [1, limit]. NaN
// and infinite values give limit.
func clampSegments(n float64, limit int) int {
	if !(n < float64(limit)) {
		return limit
	}
	return max(int(math.Ceil(n)), 1)
}
