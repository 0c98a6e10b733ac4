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

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// kappa is the control point distance for approximating a quarter circle
// of radius 1 with a cubic Bézier curve.
const kappa = 0.5522847498307936

func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

// Rect returns the closed rectangle with top-left corner (x, y).
// The outline runs clockwise on a y-down surface.
func Rect(x, y, w, h float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x, y)).
		LineTo(pt(x+w, y)).
		LineTo(pt(x+w, y+h)).
		LineTo(pt(x, y+h)).
		Close()
}

// CornerRadii gives the radii of a rounded rectangle, starting at the
// top-left corner and proceeding clockwise.
type CornerRadii [4]float64

// UniformRadii returns equal radii for all four corners.
func UniformRadii(r float64) CornerRadii {
	return CornerRadii{r, r, r, r}
}

// RoundedRect returns a rectangle with circular corners. Radii are
// clamped to half the shorter side; a rectangle with all radii zero is
// returned as a plain rectangle.
func RoundedRect(x, y, w, h float64, radii CornerRadii) *path.Data {
	limit := math.Min(math.Abs(w), math.Abs(h)) / 2
	var r CornerRadii
	allZero := true
	for i, ri := range radii {
		r[i] = math.Max(0, math.Min(ri, limit))
		if r[i] > 0 {
			allZero = false
		}
	}
	if allZero {
		return Rect(x, y, w, h)
	}

	tl, tr, br, bl := r[0], r[1], r[2], r[3]
	p := (&path.Data{}).MoveTo(pt(x+tl, y))
	p = p.LineTo(pt(x+w-tr, y))
	if tr > 0 {
		k := tr * kappa
		p = p.CubeTo(pt(x+w-tr+k, y), pt(x+w, y+tr-k), pt(x+w, y+tr))
	}
	p = p.LineTo(pt(x+w, y+h-br))
	if br > 0 {
		k := br * kappa
		p = p.CubeTo(pt(x+w, y+h-br+k), pt(x+w-br+k, y+h), pt(x+w-br, y+h))
	}
	p = p.LineTo(pt(x+bl, y+h))
	if bl > 0 {
		k := bl * kappa
		p = p.CubeTo(pt(x+bl-k, y+h), pt(x, y+h-bl+k), pt(x, y+h-bl))
	}
	p = p.LineTo(pt(x, y+tl))
	if tl > 0 {
		k := tl * kappa
		p = p.CubeTo(pt(x, y+tl-k), pt(x+tl-k, y), pt(x+tl, y))
	}
	return p.Close()
}

// Ellipse returns an axis-aligned ellipse built from four cubic Bézier
// curves.
func Ellipse(cx, cy, rx, ry float64) *path.Data {
	kx := rx * kappa
	ky := ry * kappa

	return (&path.Data{}).
		MoveTo(pt(cx+rx, cy)).
		CubeTo(pt(cx+rx, cy+ky), pt(cx+kx, cy+ry), pt(cx, cy+ry)).
		CubeTo(pt(cx-kx, cy+ry), pt(cx-rx, cy+ky), pt(cx-rx, cy)).
		CubeTo(pt(cx-rx, cy-ky), pt(cx-kx, cy-ry), pt(cx, cy-ry)).
		CubeTo(pt(cx+kx, cy-ry), pt(cx+rx, cy-ky), pt(cx+rx, cy)).
		Close()
}

// Circle returns a circle of radius r around (cx, cy).
func Circle(cx, cy, r float64) *path.Data {
	return Ellipse(cx, cy, r, r)
}

// Line returns an open path consisting of a single straight segment.
func Line(x0, y0, x1, y1 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x0, y0)).
		LineTo(pt(x1, y1))
}

// Polygon returns the closed polygon through the given points, or an
// empty path if pts is empty.
func Polygon(pts ...vec.Vec2) *path.Data {
	p := &path.Data{}
	if len(pts) == 0 {
		return p
	}
	p = p.MoveTo(pts[0])
	for _, q := range pts[1:] {
		p = p.LineTo(q)
	}
	return p.Close()
}
