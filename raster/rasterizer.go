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

// Package raster computes anti-aliased pixel coverage for device-space
// polygons.
//
// Every polygon edge deposits two values into a per-pixel accumulation
// buffer: cover, the signed vertical extent of the edge inside the pixel
// row, and area, the same value weighted by how far left of the pixel's
// right boundary the edge passes. A left-to-right prefix sum over a row
// then yields the exact signed area of the shape inside each pixel. The
// fill rule maps this winding area to coverage in [0, 1].
package raster

import (
	"cmp"
	"image"
	"math"
	"slices"

	"github.com/chewxy/math32"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/revector/shape"
	"seehuhn.de/go/revector/tess"
)

// edge is a non-horizontal polygon edge in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // (x1-x0)/(y1-y0)
}

func (e *edge) yMin() float64 { return min(e.y0, e.y1) }
func (e *edge) yMax() float64 { return max(e.y0, e.y1) }

// Rasterizer converts polygons into coverage rows. Internal buffers grow
// as needed and are reused, so that a long-lived Rasterizer does not
// allocate in steady state.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// Clip restricts the output to this pixel rectangle.
	Clip image.Rectangle

	// smallPathThreshold is the largest bounding box area, in pixels,
	// rasterized with a full 2D accumulation buffer. Larger shapes use
	// an active edge list and a single row buffer.
	smallPathThreshold int

	cover       []float32
	area        []float32
	edges       []edge
	active      []int
	rowHasEdges []bool
}

// NewRasterizer returns a Rasterizer which writes coverage inside clip.
func NewRasterizer(clip image.Rectangle) *Rasterizer {
	return &Rasterizer{
		Clip:               clip,
		smallPathThreshold: smallPathThreshold,
	}
}

// Bounds returns the pixel rectangle touched by a shape with the given
// device-space bounding box, intersected with clip.
func Bounds(b rect.Rect, clip image.Rectangle) image.Rectangle {
	if math.IsNaN(b.LLx) || math.IsNaN(b.URx) || math.IsNaN(b.LLy) || math.IsNaN(b.URy) {
		return image.Rectangle{}
	}
	r := image.Rectangle{
		Min: image.Point{X: floorClamp(b.LLx), Y: floorClamp(b.LLy)},
		Max: image.Point{X: floorClamp(b.URx) + 1, Y: floorClamp(b.URy) + 1},
	}
	return r.Intersect(clip)
}

// floorClamp rounds down and keeps the result well inside the int range.
func floorClamp(x float64) int {
	const limit = 1 << 30
	return int(math.Max(-limit, math.Min(limit, math.Floor(x))))
}

// BufferSize returns the number of bytes of accumulation buffer needed to
// rasterize a shape covering r.
func (ras *Rasterizer) BufferSize(r image.Rectangle) int {
	w, h := r.Dx(), r.Dy()
	if w*h < ras.smallPathThreshold {
		return 8*w*h + h
	}
	return 8 * w
}

// Fill rasterizes polys with the given fill rule. For every pixel row which
// has non-zero coverage, emit is called with the row index, the x
// coordinate of the first pixel, and the coverage values. Leading and
// trailing zeros are trimmed. The coverage slice is only valid during the
// call.
func (ras *Rasterizer) Fill(polys *tess.Polygons, rule shape.FillRule, emit func(y, xMin int, coverage []float32)) {
	if polys.IsEmpty() {
		return
	}
	r := Bounds(polys.Bounds, ras.Clip)
	if r.Empty() {
		return
	}
	ras.collectEdges(polys)
	if len(ras.edges) == 0 {
		return
	}

	if r.Dx()*r.Dy() < ras.smallPathThreshold {
		ras.fillSmall(r, rule, emit)
	} else {
		ras.fillLarge(r, rule, emit)
	}
}

// collectEdges builds the edge list, including the implicit closing edge
// of every polygon.
func (ras *Rasterizer) collectEdges(polys *tess.Polygons) {
	ras.edges = ras.edges[:0]
	for poly := range polys.All {
		prev := poly[len(poly)-1]
		for _, p := range poly {
			ras.addEdge(prev, p)
			prev = p
		}
	}
}

func (ras *Rasterizer) addEdge(a, b vec.Vec2) {
	dy := b.Y - a.Y
	if math.Abs(dy) < horizontalEdgeThreshold {
		return
	}
	ras.edges = append(ras.edges, edge{
		x0: a.X, y0: a.Y,
		x1: b.X, y1: b.Y,
		dxdy: (b.X - a.X) / dy,
	})
}

// accumulate adds the contribution of e within pixel row y to the row
// buffers cover and area, which start at pixel column x0 and have width
// len(cover).
//
// Edges passing left of the buffer add their full cover to the first
// pixel, since everything to their right is inside (or outside) the shape.
// Edges right of the buffer do not influence any pixel in it.
func accumulate(e *edge, y int, cover, area []float32, x0 int) {
	x1 := x0 + len(cover)

	yTop := max(float64(y), e.yMin())
	yBot := min(float64(y+1), e.yMax())
	if yBot <= yTop {
		return
	}

	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xa := e.x0 + e.dxdy*(yTop-e.y0)
	xb := e.x0 + e.dxdy*(yBot-e.y0)
	if xa > xb {
		xa, xb = xb, xa
	}
	pixLeft := int(math.Floor(xa))
	pixRight := int(math.Floor(xb))

	switch {
	case pixRight < x0:
		c := sign * float32(yBot-yTop)
		cover[0] += c
		area[0] += c
		return
	case pixLeft >= x1:
		return
	case pixLeft == pixRight:
		deposit(e, yTop, yBot, sign, pixLeft, cover, area, x0)
		return
	}

	// The edge crosses several pixel columns. Split it at the column
	// boundaries and deposit each piece separately. All columns left of
	// the buffer are handled as one piece.
	dydx := 1 / e.dxdy
	for pix := max(pixLeft, x0-1); pix <= pixRight && pix < x1; pix++ {
		left := float64(pix)
		if pix < x0 {
			left = math.Inf(-1)
		}
		ya := e.y0 + dydx*(left-e.x0)
		yb := e.y0 + dydx*(float64(pix+1)-e.x0)
		lo := max(min(ya, yb), yTop)
		hi := min(max(ya, yb), yBot)
		if hi <= lo {
			continue
		}
		deposit(e, lo, hi, sign, pix, cover, area, x0)
	}
}

// deposit adds the part of e between yTop and yBot, which lies within
// pixel column pix, to the buffers.
func deposit(e *edge, yTop, yBot float64, sign float32, pix int, cover, area []float32, x0 int) {
	c := sign * float32(yBot-yTop)
	if pix < x0 {
		cover[0] += c
		area[0] += c
		return
	}
	idx := pix - x0
	if idx >= len(cover) {
		return
	}

	xMid := e.x0 + e.dxdy*((yTop+yBot)/2-e.y0)
	frac := xMid - float64(pix)
	cover[idx] += c
	area[idx] += c * float32(1-frac)
}

// integrateNonZero turns the accumulated values of one row into coverage
// using the nonzero winding rule. The result overwrites cover.
func integrateNonZero(cover, area []float32) {
	var acc float32
	for i := range cover {
		w := acc + area[i]
		acc += cover[i]
		cover[i] = min(math32.Abs(w), 1)
	}
}

// integrateEvenOdd turns the accumulated values of one row into coverage
// using the even-odd rule: the winding area is folded with period 2.
func integrateEvenOdd(cover, area []float32) {
	var acc float32
	for i := range cover {
		w := math32.Abs(acc + area[i])
		acc += cover[i]
		m := w - 2*float32(int(w/2))
		cover[i] = 1 - math32.Abs(1-m)
	}
}

func integrate(rule shape.FillRule, cover, area []float32) {
	if rule == shape.EvenOdd {
		integrateEvenOdd(cover, area)
	} else {
		integrateNonZero(cover, area)
	}
}

// trimZeros returns the part of row between the first and the last
// non-zero value, and the index of its first element. If row is all zero,
// trimmed is nil.
func trimZeros(row []float32) (trimmed []float32, offset int) {
	lo, hi := 0, len(row)
	for lo < hi && row[lo] == 0 {
		lo++
	}
	if lo == hi {
		return nil, 0
	}
	for row[hi-1] == 0 {
		hi--
	}
	return row[lo:hi], lo
}

// fillSmall accumulates all edges into a 2D buffer covering r, and then
// integrates the rows which were touched by an edge.
func (ras *Rasterizer) fillSmall(r image.Rectangle, rule shape.FillRule, emit func(y, xMin int, coverage []float32)) {
	w, h := r.Dx(), r.Dy()
	n := w * h
	ras.cover = slices.Grow(ras.cover[:0], n)[:n]
	ras.area = slices.Grow(ras.area[:0], n)[:n]
	clear(ras.cover)
	clear(ras.area)
	ras.rowHasEdges = slices.Grow(ras.rowHasEdges[:0], h)[:h]
	clear(ras.rowHasEdges)

	for i := range ras.edges {
		e := &ras.edges[i]
		yStart := max(int(math.Floor(e.yMin())), r.Min.Y)
		yEnd := min(int(math.Floor(e.yMax()))+1, r.Max.Y)
		for y := yStart; y < yEnd; y++ {
			row := y - r.Min.Y
			off := row * w
			accumulate(e, y, ras.cover[off:off+w], ras.area[off:off+w], r.Min.X)
			ras.rowHasEdges[row] = true
		}
	}

	for row := range h {
		if !ras.rowHasEdges[row] {
			continue
		}
		off := row * w
		line := ras.cover[off : off+w]
		integrate(rule, line, ras.area[off:off+w])
		if trimmed, x := trimZeros(line); trimmed != nil {
			emit(r.Min.Y+row, r.Min.X+x, trimmed)
		}
	}
}

// fillLarge processes one row at a time, keeping a list of the edges which
// cross the current row.
func (ras *Rasterizer) fillLarge(r image.Rectangle, rule shape.FillRule, emit func(y, xMin int, coverage []float32)) {
	w := r.Dx()
	ras.cover = slices.Grow(ras.cover[:0], w)[:w]
	ras.area = slices.Grow(ras.area[:0], w)[:w]

	slices.SortFunc(ras.edges, func(a, b edge) int {
		return cmp.Compare(a.yMin(), b.yMin())
	})

	ras.active = ras.active[:0]
	next := 0
	top := float64(r.Min.Y)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		yf, yfNext := float64(y), float64(y+1)

		for next < len(ras.edges) && ras.edges[next].yMin() < yfNext {
			// edges ending above the clip rectangle never become active
			if ras.edges[next].yMax() > top {
				ras.active = append(ras.active, next)
			}
			next++
		}
		if len(ras.active) == 0 {
			if next == len(ras.edges) {
				return
			}
			continue
		}

		clear(ras.cover)
		clear(ras.area)
		touched := false
		for i := 0; i < len(ras.active); {
			e := &ras.edges[ras.active[i]]
			if e.yMax() <= yf {
				last := len(ras.active) - 1
				ras.active[i] = ras.active[last]
				ras.active = ras.active[:last]
				continue
			}
			accumulate(e, y, ras.cover, ras.area, r.Min.X)
			touched = true
			i++
		}
		if !touched {
			continue
		}

		integrate(rule, ras.cover, ras.area)
		if trimmed, x := trimZeros(ras.cover); trimmed != nil {
			emit(y, r.Min.X+x, trimmed)
		}
	}
}

const (
	// horizontalEdgeThreshold is the minimal vertical extent of an edge.
	// Flatter edges do not contribute to coverage.
	horizontalEdgeThreshold = 1e-10

	// smallPathThreshold is the default switch-over point between the
	// 2D buffer and the active edge list, in pixels.
	smallPathThreshold = 65536
)
