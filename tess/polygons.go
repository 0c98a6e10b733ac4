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
	"slices"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Polygons is a set of closed polygons in device coordinates. All
// vertices are stored in one contiguous buffer; Offsets gives the start
// index of each polygon. The closing edge from the last vertex of a
// polygon back to its first vertex is implicit.
//
// The polygons may overlap and self-intersect. Which areas are inside is
// decided by the fill rule used for rasterization.
type Polygons struct {
	Points  []vec.Vec2
	Offsets []int

	// Bounds is the bounding box of all points. It is only meaningful
	// if the set is not empty.
	Bounds rect.Rect
}

// Reset removes all polygons while keeping the allocated memory.
func (p *Polygons) Reset() {
	p.Points = p.Points[:0]
	p.Offsets = p.Offsets[:0]
	p.Bounds = rect.Rect{}
}

// IsEmpty reports whether p contains no polygons.
func (p *Polygons) IsEmpty() bool {
	return p == nil || len(p.Offsets) == 0
}

// Len returns the number of polygons.
func (p *Polygons) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Offsets)
}

// Polygon returns the vertices of polygon i. The returned slice aliases
// the internal buffer.
func (p *Polygons) Polygon(i int) []vec.Vec2 {
	end := len(p.Points)
	if i+1 < len(p.Offsets) {
		end = p.Offsets[i+1]
	}
	return p.Points[p.Offsets[i]:end]
}

// All iterates over the polygons.
func (p *Polygons) All(yield func([]vec.Vec2) bool) {
	for i := range p.Len() {
		if !yield(p.Polygon(i)) {
			return
		}
	}
}

// Append adds copies of all polygons in q to p.
func (p *Polygons) Append(q *Polygons) {
	for poly := range q.All {
		start := len(p.Points)
		p.Points = append(p.Points, poly...)
		p.finish(start)
	}
}

// Clone returns a deep copy of p.
func (p *Polygons) Clone() *Polygons {
	return &Polygons{
		Points:  slices.Clone(p.Points),
		Offsets: slices.Clone(p.Offsets),
		Bounds:  p.Bounds,
	}
}

// ByteSize returns the approximate memory used by the vertex data.
func (p *Polygons) ByteSize() int {
	return 16*cap(p.Points) + 8*cap(p.Offsets)
}

// finish turns the points appended since start into a polygon. Polygons
// with fewer than three vertices enclose no area and are dropped.
func (p *Polygons) finish(start int) {
	if len(p.Points)-start < 3 {
		p.Points = p.Points[:start]
		return
	}
	first := len(p.Offsets) == 0
	for _, v := range p.Points[start:] {
		if first {
			p.Bounds = rect.Rect{LLx: v.X, LLy: v.Y, URx: v.X, URy: v.Y}
			first = false
			continue
		}
		p.Bounds.LLx = min(p.Bounds.LLx, v.X)
		p.Bounds.LLy = min(p.Bounds.LLy, v.Y)
		p.Bounds.URx = max(p.Bounds.URx, v.X)
		p.Bounds.URy = max(p.Bounds.URy, v.Y)
	}
	p.Offsets = append(p.Offsets, start)
}
