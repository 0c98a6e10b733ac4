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
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/revector/shape"
)

var (
	nonZero = Fill{Rule: shape.NonZero}
	evenOdd = Fill{Rule: shape.EvenOdd}
)

var fillCases = []TestCase{
	{Name: "triangle_nonzero", Path: shape.Polygon(pt(10, 50), pt(32, 10), pt(54, 50)), Width: 64, Height: 64, Op: nonZero},
	{Name: "triangle_evenodd", Path: shape.Polygon(pt(10, 50), pt(32, 10), pt(54, 50)), Width: 64, Height: 64, Op: evenOdd},
	{Name: "star_nonzero", Path: star(32, 32, 25), Width: 64, Height: 64, Op: nonZero},
	{Name: "star_evenodd", Path: star(32, 32, 25), Width: 64, Height: 64, Op: evenOdd},
	{Name: "rectangle", Path: shape.Rect(10, 10, 44, 44), Width: 64, Height: 64, Op: nonZero},
	{Name: "rounded_rectangle", Path: shape.RoundedRect(8, 8, 48, 32, shape.UniformRadii(10)), Width: 64, Height: 64, Op: nonZero},
	{Name: "open_polygon", Path: svg("M 10 10 L 54 20 L 20 54"), Width: 64, Height: 64, Op: nonZero},
	{Name: "clipped", Path: shape.Rect(-20, -20, 60, 60), Width: 32, Height: 32, Op: nonZero},
}

var subpathCases = []TestCase{
	{Name: "two_triangles", Path: svg("M 4 28 L 16 4 L 28 28 Z M 36 28 L 48 4 L 60 28 Z"), Width: 64, Height: 32, Op: nonZero},
	{Name: "overlapping_rect_nonzero", Path: overlapping(), Width: 64, Height: 64, Op: nonZero},
	{Name: "overlapping_rect_evenodd", Path: overlapping(), Width: 64, Height: 64, Op: evenOdd},
	{Name: "ring_shape", Path: ring(32, 32, 24, 12), Width: 64, Height: 64, Op: nonZero},
	{Name: "ring_evenodd", Path: concentric(32, 32, 24, 12), Width: 64, Height: 64, Op: evenOdd},
	{Name: "many_small_shapes", Path: grid(8, 8, 64, 64, 2), Width: 64, Height: 64, Op: nonZero},
}

var precisionCases = []TestCase{
	{Name: "subpixel_offset_00", Path: shape.Rect(10, 10, 12, 12), Width: 32, Height: 32, Op: nonZero},
	{Name: "subpixel_offset_25", Path: shape.Rect(10.25, 10.25, 12, 12), Width: 32, Height: 32, Op: nonZero},
	{Name: "subpixel_offset_50", Path: shape.Rect(10.5, 10.5, 12, 12), Width: 32, Height: 32, Op: nonZero},
	{Name: "subpixel_offset_75", Path: shape.Rect(10.75, 10.75, 12, 12), Width: 32, Height: 32, Op: nonZero},
	{Name: "thin_line_y_integer", Path: shape.Line(4, 16, 28, 16), Width: 32, Height: 32, Op: stroke(1)},
	{Name: "thin_line_y_half", Path: shape.Line(4, 16.5, 28, 16.5), Width: 32, Height: 32, Op: stroke(1)},
	{Name: "sliver", Path: shape.Rect(4, 10, 24, 0.1), Width: 32, Height: 32, Op: nonZero},
	{Name: "large_offset", Path: shape.Rect(1e6+4, 4, 24, 24), Width: 32, Height: 32, Op: nonZero, CTM: matrix.Matrix{1, 0, 0, 1, -1e6, 0}},
}

func star(cx, cy, r float64) *path.Data {
	pts := make([]vec.Vec2, 5)
	for i := range pts {
		// connect every second point of a regular pentagon
		angle := float64(2*i%5)*2*math.Pi/5 - math.Pi/2
		pts[i] = pt(cx+r*math.Cos(angle), cy+r*math.Sin(angle))
	}
	return shape.Polygon(pts...)
}

func overlapping() *path.Data {
	return svg("M 8 8 H 40 V 40 H 8 Z M 24 24 H 56 V 56 H 24 Z")
}

// ring has an inner square with opposite orientation.
func ring(cx, cy, outer, inner float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(cx-outer, cy-outer)).LineTo(pt(cx+outer, cy-outer)).
		LineTo(pt(cx+outer, cy+outer)).LineTo(pt(cx-outer, cy+outer)).Close().
		MoveTo(pt(cx-inner, cy-inner)).LineTo(pt(cx-inner, cy+inner)).
		LineTo(pt(cx+inner, cy+inner)).LineTo(pt(cx+inner, cy-inner)).Close()
}

// concentric has both squares in the same orientation.
func concentric(cx, cy, outer, inner float64) *path.Data {
	p := shape.Rect(cx-outer, cy-outer, 2*outer, 2*outer)
	q := shape.Rect(cx-inner, cy-inner, 2*inner, 2*inner)
	p.Cmds = append(p.Cmds, q.Cmds...)
	p.Coords = append(p.Coords, q.Coords...)
	return p
}

func grid(rows, cols, width, height int, gap float64) *path.Data {
	p := &path.Data{}
	w := float64(width) / float64(cols)
	h := float64(height) / float64(rows)
	for i := range rows {
		for j := range cols {
			x := float64(j)*w + gap/2
			y := float64(i)*h + gap/2
			p = p.MoveTo(pt(x, y)).LineTo(pt(x+w-gap, y)).
				LineTo(pt(x+w-gap, y+h-gap)).LineTo(pt(x, y+h-gap)).Close()
		}
	}
	return p
}
