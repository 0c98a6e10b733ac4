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

package tess

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// QuadSegments returns the number of uniform parameter steps needed to
// approximate the quadratic Bézier curve p0, p1, p2 within tolerance tol
// after applying the linear map lin.
//
// For a quadratic curve split into n uniform pieces, the chord error is
// exactly |p0 - 2p1 + p2| / (4n²).
//
// The result is at most 65536, even if the tolerance cannot be met.
func QuadSegments(p0, p1, p2 vec.Vec2, lin func(vec.Vec2) vec.Vec2, tol float64) int {
	e := lin(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)).Length()
	if e <= tol {
		return 1
	}
	return clampSegments(math.Sqrt(e/tol), maxCurveSegments)
}

// CubeSegments returns the number of uniform parameter steps needed to
// approximate a cubic Bézier curve within tolerance tol after applying the
// linear map lin. This is Wang's formula: n = sqrt(3 M / (4 tol)), where M
// bounds the second differences of the control polygon.
//
// The result is at most 65536, even if the tolerance cannot be met.
func CubeSegments(p0, p1, p2, p3 vec.Vec2, lin func(vec.Vec2) vec.Vec2, tol float64) int {
	d1 := lin(p0.Sub(p1.Mul(2)).Add(p2)).Length()
	d2 := lin(p1.Sub(p2.Mul(2)).Add(p3)).Length()
	m := max(d1, d2)
	if m == 0 {
		return 1
	}
	return clampSegments(math.Sqrt(3*m/(4*tol)), maxCurveSegments)
}

// flattenQuadratic approximates a quadratic Bézier curve by line segments
// and calls emit for each of them. The points are in user space, the
// tolerance applies in device space.
func (t *Tessellator) flattenQuadratic(p0, p1, p2 vec.Vec2, emit func(from, to vec.Vec2)) {
	n := QuadSegments(p0, p1, p2, t.transformLinear, t.Tolerance)

	prev := p0
	for i := 1; i <= n; i++ {
		var pt vec.Vec2
		if i == n {
			pt = p2
		} else {
			s := float64(i) / float64(n)
			u := 1 - s
			pt = p0.Mul(u * u).Add(p1.Mul(2 * u * s)).Add(p2.Mul(s * s))
		}
		emit(prev, pt)
		prev = pt
	}
}

// flattenCubic approximates a cubic Bézier curve by line segments.
func (t *Tessellator) flattenCubic(p0, p1, p2, p3 vec.Vec2, emit func(from, to vec.Vec2)) {
	n := CubeSegments(p0, p1, p2, p3, t.transformLinear, t.Tolerance)

	prev := p0
	for i := 1; i <= n; i++ {
		var pt vec.Vec2
		if i == n {
			pt = p3
		} else {
			s := float64(i) / float64(n)
			u := 1 - s
			pt = p0.Mul(u * u * u).
				Add(p1.Mul(3 * u * u * s)).
				Add(p2.Mul(3 * u * s * s)).
				Add(p3.Mul(s * s * s))
		}
		emit(prev, pt)
		prev = pt
	}
}

// strokeSegment is a straight piece of a flattened subpath, in user space.
type strokeSegment struct {
	A, B vec.Vec2 // end points
	T    vec.Vec2 // unit tangent, from A to B
	N    vec.Vec2 // unit normal, T rotated by 90° counter-clockwise
}

func (s *strokeSegment) length() float64 {
	return s.B.Sub(s.A).Length()
}

// flattenPath splits p into subpaths of straight segments. The results are
// stored in t.segs, t.segsOffsets and t.subpathClosed. Subpaths which have
// drawing commands but no extent are collected in t.degeneratePoints.
func (t *Tessellator) flattenPath(p *path.Data) {
	t.segs = t.segs[:0]
	t.segsOffsets = t.segsOffsets[:0]
	t.subpathClosed = t.subpathClosed[:0]
	t.degeneratePoints = t.degeneratePoints[:0]

	var current, start vec.Vec2
	first := 0    // index of the first segment of the current subpath
	open := false // inside a subpath
	drawn := false

	endSubpath := func(closed bool) {
		switch {
		case len(t.segs) > first:
			t.segsOffsets = append(t.segsOffsets, first)
			t.subpathClosed = append(t.subpathClosed, closed)
		case drawn || closed:
			t.degeneratePoints = append(t.degeneratePoints, start)
		}
		first = len(t.segs)
		open = false
		drawn = false
	}

	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if open {
				endSubpath(false)
			}
			current = p.Coords[k]
			start = current
			open = true
			k++
		case path.CmdLineTo:
			t.addStrokeSegment(current, p.Coords[k])
			current = p.Coords[k]
			drawn = true
			k++
		case path.CmdQuadTo:
			t.flattenQuadratic(current, p.Coords[k], p.Coords[k+1], t.addStrokeSegment)
			current = p.Coords[k+1]
			drawn = true
			k += 2
		case path.CmdCubeTo:
			t.flattenCubic(current, p.Coords[k], p.Coords[k+1], p.Coords[k+2], t.addStrokeSegment)
			current = p.Coords[k+2]
			drawn = true
			k += 3
		case path.CmdClose:
			if current != start {
				t.addStrokeSegment(current, start)
			}
			endSubpath(true)
			current = start
		}
	}
	if open {
		endSubpath(false)
	}
}

// addStrokeSegment appends the segment from a to b, unless it is too short
// to have a direction.
func (t *Tessellator) addStrokeSegment(a, b vec.Vec2) {
	d := b.Sub(a)
	l := d.Length()
	if l < zeroLengthThreshold {
		return
	}
	tangent := d.Mul(1 / l)
	t.segs = append(t.segs, strokeSegment{
		A: a,
		B: b,
		T: tangent,
		N: vec.Vec2{X: -tangent.Y, Y: tangent.X},
	})
}
