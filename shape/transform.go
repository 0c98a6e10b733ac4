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

package shape

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Concat returns the transformation which first applies local and then
// parent. This is the order used when accumulating transforms down the
// scene graph: a node's device transform is Concat(node, parentDevice).
func Concat(local, parent matrix.Matrix) matrix.Matrix {
	return matrix.Matrix{
		local[0]*parent[0] + local[1]*parent[2],
		local[0]*parent[1] + local[1]*parent[3],
		local[2]*parent[0] + local[3]*parent[2],
		local[2]*parent[1] + local[3]*parent[3],
		local[4]*parent[0] + local[5]*parent[2] + parent[4],
		local[4]*parent[1] + local[5]*parent[3] + parent[5],
	}
}

// Apply maps the point v through m.
func Apply(m matrix.Matrix, v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*v.X + m[2]*v.Y + m[4],
		Y: m[1]*v.X + m[3]*v.Y + m[5],
	}
}

// Invert returns the inverse of m. ok is false if m is singular or
// contains non-finite entries.
func Invert(m matrix.Matrix) (inv matrix.Matrix, ok bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return matrix.Matrix{}, false
	}
	a := m[3] / det
	b := -m[1] / det
	c := -m[2] / det
	d := m[0] / det
	return matrix.Matrix{
		a, b,
		c, d,
		-(m[4]*a + m[5]*c),
		-(m[4]*b + m[5]*d),
	}, true
}

// Normalize maps the zero matrix, which is what an unset field holds, to
// the identity.
func Normalize(m matrix.Matrix) matrix.Matrix {
	if m == (matrix.Matrix{}) {
		return matrix.Identity
	}
	return m
}

// ScaleFactor returns the largest factor by which m stretches a unit
// vector. Tolerances given in device pixels are divided by this value to
// obtain user-space tolerances.
func ScaleFactor(m matrix.Matrix) float64 {
	// largest singular value of the 2x2 linear part
	a, b, c, d := m[0], m[1], m[2], m[3]
	s1 := a*a + b*b + c*c + d*d
	s2 := math.Sqrt((a*a+b*b-c*c-d*d)*(a*a+b*b-c*c-d*d) + 4*(a*c+b*d)*(a*c+b*d))
	return math.Sqrt((s1 + s2) / 2)
}
