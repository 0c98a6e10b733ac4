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

package testcases

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/revector/shape"
)

var curveCases = []TestCase{
	{Name: "quadratic", Path: svg("M 8 56 Q 32 -8 56 56 Z"), Width: 64, Height: 64, Op: nonZero},
	{Name: "quadratic_s_shape", Path: svg("M 8 32 Q 20 8 32 32 T 56 32"), Width: 64, Height: 64, Op: stroke(3)},
	{Name: "cubic", Path: svg("M 8 56 C 8 8 56 8 56 56 Z"), Width: 64, Height: 64, Op: nonZero},
	{Name: "cubic_loop", Path: svg("M 8 48 C 64 8 0 8 56 48"), Width: 64, Height: 64, Op: stroke(2)},
	{Name: "cubic_cusp", Path: svg("M 8 48 C 56 8 8 8 56 48"), Width: 64, Height: 64, Op: stroke(4, withJoin(graphics.LineJoinRound))},
	{Name: "cubic_nearly_straight", Path: svg("M 8 32 C 24 32.2 40 31.8 56 32"), Width: 64, Height: 64, Op: stroke(3)},
	{Name: "cubic_degenerate", Path: svg("M 32 32 C 32 32 32 32 32 32"), Width: 64, Height: 64, Op: stroke(6, withCap(graphics.LineCapRound))},
	{Name: "circle", Path: shape.Circle(32, 32, 24), Width: 64, Height: 64, Op: nonZero},
	{Name: "circle_small", Path: shape.Circle(8.5, 8.5, 1.5), Width: 16, Height: 16, Op: nonZero},
	{Name: "circle_stroked", Path: shape.Circle(32, 32, 24), Width: 64, Height: 64, Op: stroke(3)},
	{Name: "ellipse", Path: shape.Ellipse(32, 32, 28, 12), Width: 64, Height: 64, Op: nonZero},
	{Name: "arc", Path: svg("M 12 40 A 20 20 0 1 1 52 40"), Width: 64, Height: 64, Op: stroke(4, withCap(graphics.LineCapRound))},
}

var ctmCases = []TestCase{
	{Name: "scale_2x", Path: shape.Rect(4, 4, 12, 12), Width: 64, Height: 64, Op: nonZero, CTM: matrix.Matrix{2, 0, 0, 2, 0, 0}},
	{Name: "scale_10x", Path: shape.Circle(3, 3, 2), Width: 64, Height: 64, Op: nonZero, CTM: matrix.Matrix{10, 0, 0, 10, 0, 0}},
	{Name: "rotate_45deg", Path: shape.Rect(-12, -12, 24, 24), Width: 64, Height: 64, Op: nonZero, CTM: rotateAbout(45, 32, 32)},
	{Name: "rotate_5deg", Path: shape.Rect(-20, -8, 40, 16), Width: 64, Height: 64, Op: stroke(2), CTM: rotateAbout(5, 32, 32)},
	{Name: "circle_to_ellipse", Path: shape.Circle(0, 0, 10), Width: 64, Height: 64, Op: nonZero, CTM: matrix.Matrix{2.5, 0, 0, 1, 32, 32}},
	{Name: "shear_horizontal", Path: shape.Rect(8, 16, 24, 32), Width: 64, Height: 64, Op: nonZero, CTM: matrix.Matrix{1, 0, 0.5, 1, 0, 0}},
	{Name: "round_cap_nonuniform", Path: shape.Line(-8, 0, 8, 0), Width: 64, Height: 64, Op: stroke(4, withCap(graphics.LineCapRound)), CTM: matrix.Matrix{2, 0, 0, 5, 32, 32}},
	{Name: "round_join_rotated", Path: svg("M -10 10 L 0 -10 L 10 10"), Width: 64, Height: 64, Op: stroke(6, withJoin(graphics.LineJoinRound)), CTM: rotateAbout(30, 32, 32)},
	{Name: "dash_scaled", Path: shape.Line(2, 8, 30, 8), Width: 64, Height: 64, Op: stroke(2, withDash(0, 3, 2)), CTM: matrix.Matrix{2, 0, 0, 2, 0, 16}},
}

// rotateAbout rotates by deg degrees and moves the origin to (cx, cy).
func rotateAbout(deg, cx, cy float64) matrix.Matrix {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return matrix.Matrix{cos, sin, -sin, cos, cx, cy}
}
