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

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// strokeAllSubpaths strokes the flattened subpaths of an undashed path.
func (t *Tessellator) strokeAllSubpaths(out *Polygons) {
	for i := range t.segsOffsets {
		t.strokeSubpath(t.subpath(i), t.subpathClosed[i], out)
	}
}

// subpath returns the segments of flattened subpath i.
func (t *Tessellator) subpath(i int) []strokeSegment {
	end := len(t.segs)
	if i+1 < len(t.segsOffsets) {
		end = t.segsOffsets[i+1]
	}
	return t.segs[t.segsOffsets[i]:end]
}

// strokeDashedSubpaths splits the flattened subpaths into dashes and
// strokes each dash separately.
func (t *Tessellator) strokeDashedSubpaths(out *Polygons) error {
	if err := t.applyDashPattern(); err != nil {
		return err
	}

	d := t.style.Width / 2
	for _, dr := range t.dashes {
		segs := t.dashedSegs[dr.start:dr.end]

		// A zero-length dash still has the direction of the underlying
		// path, which orients square caps.
		if len(segs) == 1 && segs[0].A == segs[0].B {
			switch t.style.Cap {
			case graphics.LineCapRound:
				t.addArc(segs[0].A, d, vec.Vec2{X: 1, Y: 0}, 2*math.Pi, true)
				t.flush(out)
			case graphics.LineCapSquare:
				t.addSquare(segs[0].A, segs[0].T, d)
				t.flush(out)
			}
			continue
		}

		t.strokeSubpath(segs, dr.closed, out)
	}
	return nil
}

// strokeSubpath appends the outline of one flattened subpath to out.
//
// One side of the stroke is traced by offsetting the segments along +N.
// The other side is the +N side of the reversed subpath, so that both
// passes use the same corner logic. For an open subpath both sides and
// the two caps form a single polygon. For a closed subpath each side is
// a separate ring; the rings have opposite orientation, so that under the
// nonzero rule only the area between them is covered.
func (t *Tessellator) strokeSubpath(segs []strokeSegment, closed bool, out *Polygons) {
	if len(segs) == 0 {
		return
	}
	d := t.style.Width / 2
	rev := reversed(segs)

	if closed {
		t.traceSide(segs, true, d)
		t.flush(out)
		t.traceSide(rev, true, d)
		t.flush(out)
		return
	}

	last := &segs[len(segs)-1]
	t.traceSide(segs, false, d)
	t.addCap(last.B, last.T, d)
	t.traceSide(rev, false, d)
	first := &segs[0]
	t.addCap(first.A, first.T.Mul(-1), d)
	t.flush(out)
}

// reversed returns the segments in reverse order and direction.
func reversed(segs []strokeSegment) []strokeSegment {
	res := make([]strokeSegment, len(segs))
	for i := range segs {
		s := &segs[len(segs)-1-i]
		res[i] = strokeSegment{A: s.B, B: s.A, T: s.T.Mul(-1), N: s.N.Mul(-1)}
	}
	return res
}

// traceSide appends the +N offset of a chain of segments to the outline.
// For an open chain the points start at the offset of the first point and
// end at the offset of the last point. For a closed chain, all corners
// including the one at the start point are traced.
func (t *Tessellator) traceSide(segs []strokeSegment, closed bool, d float64) {
	n := len(segs)
	if !closed {
		t.outline = append(t.outline, segs[0].A.Add(segs[0].N.Mul(d)))
		for i := 0; i+1 < n; i++ {
			t.addCorner(&segs[i], &segs[i+1], d)
		}
		t.outline = append(t.outline, segs[n-1].B.Add(segs[n-1].N.Mul(d)))
		return
	}
	for i := range n {
		t.addCorner(&segs[i], &segs[(i+1)%n], d)
	}
}

// addCorner appends the +N side outline points at the vertex where seg
// ends and next begins.
func (t *Tessellator) addCorner(seg, next *strokeSegment, d float64) {
	P := seg.B
	sinTheta := seg.T.X*next.T.Y - seg.T.Y*next.T.X
	switch {
	case math.Abs(sinTheta) < collinearityThreshold && seg.T.Dot(next.T) > 0:
		t.outline = append(t.outline, P.Add(seg.N.Mul(d)), P.Add(next.N.Mul(d)))
	case sinTheta > 0:
		// right turn in a y-down system: +N is the inner side
		if inner, ok := innerIntersection(P, seg.T, next.T, d); ok {
			t.outline = append(t.outline, inner)
		} else {
			t.outline = append(t.outline, P.Add(seg.N.Mul(d)), P.Add(next.N.Mul(d)))
		}
	default:
		t.outline = append(t.outline, P.Add(seg.N.Mul(d)))
		t.addJoin(P, seg.T, next.T, d)
		t.outline = append(t.outline, P.Add(next.N.Mul(d)))
	}
}

// innerIntersection returns the point where the two +N offset lines meet
// on the inner side of a corner. ok is false for nearly collinear
// segments.
func innerIntersection(P, T1, T2 vec.Vec2, d float64) (vec.Vec2, bool) {
	cosTheta := T1.Dot(T2)
	if cosTheta > 1-1e-9 || cosTheta < cuspCosineThreshold {
		return vec.Vec2{}, false
	}
	cosHalf := math.Sqrt((1 + cosTheta) / 2)
	if cosHalf < 1e-9 {
		return vec.Vec2{}, false
	}

	bisector := vec.Vec2{X: -T1.Y, Y: T1.X}.Add(vec.Vec2{X: -T2.Y, Y: T2.X})
	l := bisector.Length()
	if l < 1e-9 {
		return vec.Vec2{}, false
	}
	return P.Add(bisector.Mul(d / (l * cosHalf))), true
}

// addJoin appends the join geometry on the outer (+N) side of a corner
// where the direction changes from T1 to T2. The offset points of both
// segments are added by the caller.
//
// For miter joins, the distance from the vertex to the miter tip is
// d/sin(φ/2), where φ is the angle between the two segments at the
// vertex. If the ratio 1/sin(φ/2) exceeds the miter limit, a bevel is
// drawn instead.
func (t *Tessellator) addJoin(P, T1, T2 vec.Vec2, d float64) {
	cosTheta := T1.Dot(T2)
	sinTheta := T1.X*T2.Y - T1.Y*T2.X
	if math.Abs(sinTheta) < collinearityThreshold && cosTheta > 0 {
		return
	}

	if cosTheta < cuspCosineThreshold {
		// the path doubles back on itself
		t.addCap(P, T1, d)
		t.addCap(P, T2.Mul(-1), d)
		return
	}

	N1 := vec.Vec2{X: -T1.Y, Y: T1.X}
	switch t.style.Join {
	case graphics.LineJoinMiter:
		// φ = π - θ, so sin(φ/2) = cos(θ/2)
		sinHalf := math.Sqrt((1 + cosTheta) / 2)
		const miterEpsilon = 1e-10
		if sinHalf > 0 && 1/sinHalf <= t.style.MiterLimit+miterEpsilon {
			N2 := vec.Vec2{X: -T2.Y, Y: T2.X}
			bisector := N1.Add(N2)
			if l := bisector.Length(); l > zeroLengthThreshold {
				t.outline = append(t.outline, P.Add(bisector.Mul(d/(l*sinHalf))))
			}
		}
	case graphics.LineJoinRound:
		angle := math.Acos(max(-1, min(1, cosTheta)))
		if sinTheta > 0 {
			t.addArc(P, d, N1, angle, false)
		} else {
			t.addArc(P, d, N1, -angle, false)
		}
	}
}

// addCap appends a line cap at P. T points away from the line. The cap
// runs from the +N offset of T to the -N offset.
func (t *Tessellator) addCap(P, T vec.Vec2, d float64) {
	N := vec.Vec2{X: -T.Y, Y: T.X}
	switch t.style.Cap {
	case graphics.LineCapSquare:
		ext := P.Add(T.Mul(d))
		t.outline = append(t.outline, ext.Add(N.Mul(d)), ext.Sub(N.Mul(d)))
	case graphics.LineCapRound:
		t.addArc(P, d, N, -math.Pi, true)
	}
}

// addArc appends points on a circular arc around center, starting in
// direction startDir and turning by sweep radians. The number of points
// is chosen so that the sagitta of each chord, in device space, is below
// the tolerance.
func (t *Tessellator) addArc(center vec.Vec2, radius float64, startDir vec.Vec2, sweep float64, includeStart bool) {
	devRadius := max(
		t.transformLinear(vec.Vec2{X: radius}).Length(),
		t.transformLinear(vec.Vec2{Y: radius}).Length(),
	)

	n := 1
	if devRadius >= t.Tolerance {
		// a chord spanning angle α deviates from the circle by r(1-cos(α/2))
		step := 2 * math.Acos(1-t.Tolerance/devRadius)
		if !(step > 0) {
			step = math.Pi / 4
		}
		n = clampSegments(math.Abs(sweep)/step, maxArcSegments)
	}

	first := 1
	if includeStart {
		first = 0
	}
	for i := first; i <= n; i++ {
		sin, cos := math.Sincos(sweep * float64(i) / float64(n))
		dir := vec.Vec2{
			X: startDir.X*cos - startDir.Y*sin,
			Y: startDir.X*sin + startDir.Y*cos,
		}
		t.outline = append(t.outline, center.Add(dir.Mul(radius)))
	}
}

// addSquare appends a square of side 2d centred at center, with two sides
// parallel to T.
func (t *Tessellator) addSquare(center, T vec.Vec2, d float64) {
	N := vec.Vec2{X: -T.Y, Y: T.X}
	t.outline = append(t.outline,
		center.Add(T.Mul(d)).Add(N.Mul(d)),
		center.Add(T.Mul(d)).Sub(N.Mul(d)),
		center.Sub(T.Mul(d)).Sub(N.Mul(d)),
		center.Sub(T.Mul(d)).Add(N.Mul(d)),
	)
}
