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

package raster

import (
	"image"
	"slices"

	"seehuhn.de/go/revector/shape"
	"seehuhn.de/go/revector/tess"
)

// Mask holds coverage values for a rectangle of pixels. Pixels outside
// Rect have coverage 0.
//
// A nil *Mask stands for "no clipping": every pixel has coverage 1.
type Mask struct {
	Rect     image.Rectangle
	Coverage []float32 // row-major, Rect.Dx() values per row
}

// NewMask returns a mask of zeros covering r.
func NewMask(r image.Rectangle) *Mask {
	return &Mask{
		Rect:     r,
		Coverage: make([]float32, r.Dx()*r.Dy()),
	}
}

// Mask rasterizes polys into a new coverage mask. The mask rectangle is
// the pixel bounding box of the polygons, intersected with ras.Clip.
func (ras *Rasterizer) Mask(polys *tess.Polygons, rule shape.FillRule) *Mask {
	if polys.IsEmpty() {
		return &Mask{}
	}
	m := NewMask(Bounds(polys.Bounds, ras.Clip))
	if m.Rect.Empty() {
		return m
	}
	w := m.Rect.Dx()
	ras.Fill(polys, rule, func(y, xMin int, coverage []float32) {
		off := (y-m.Rect.Min.Y)*w + xMin - m.Rect.Min.X
		copy(m.Coverage[off:], coverage)
	})
	return m
}

// IsEmpty reports whether no pixel of m has non-zero coverage.
// A nil mask is never empty.
func (m *Mask) IsEmpty() bool {
	if m == nil {
		return false
	}
	if m.Rect.Empty() {
		return true
	}
	return !slices.ContainsFunc(m.Coverage, func(c float32) bool { return c != 0 })
}

// At returns the coverage of pixel (x, y).
func (m *Mask) At(x, y int) float32 {
	if m == nil {
		return 1
	}
	if !(image.Point{X: x, Y: y}).In(m.Rect) {
		return 0
	}
	return m.Coverage[(y-m.Rect.Min.Y)*m.Rect.Dx()+x-m.Rect.Min.X]
}

// Row returns the coverage of the pixels from x0 (inclusive) to x1
// (exclusive) in row y, written to buf. Pixels outside the mask get 0.
func (m *Mask) Row(y, x0, x1 int, buf []float32) []float32 {
	buf = slices.Grow(buf[:0], x1-x0)[:x1-x0]
	if m == nil {
		for i := range buf {
			buf[i] = 1
		}
		return buf
	}
	clear(buf)
	if y < m.Rect.Min.Y || y >= m.Rect.Max.Y {
		return buf
	}
	a, b := max(x0, m.Rect.Min.X), min(x1, m.Rect.Max.X)
	if a >= b {
		return buf
	}
	off := (y-m.Rect.Min.Y)*m.Rect.Dx() - m.Rect.Min.X
	copy(buf[a-x0:b-x0], m.Coverage[off+a:off+b])
	return buf
}

// Intersect returns the pointwise product of m and o. The result covers
// the intersection of the two rectangles. Either argument may be nil.
func (m *Mask) Intersect(o *Mask) *Mask {
	switch {
	case m == nil:
		return o
	case o == nil:
		return m
	}

	res := NewMask(m.Rect.Intersect(o.Rect))
	w := res.Rect.Dx()
	for y := res.Rect.Min.Y; y < res.Rect.Max.Y; y++ {
		dst := res.Coverage[(y-res.Rect.Min.Y)*w:][:w]
		mOff := (y-m.Rect.Min.Y)*m.Rect.Dx() + res.Rect.Min.X - m.Rect.Min.X
		oOff := (y-o.Rect.Min.Y)*o.Rect.Dx() + res.Rect.Min.X - o.Rect.Min.X
		for i := range dst {
			dst[i] = m.Coverage[mOff+i] * o.Coverage[oOff+i]
		}
	}
	return res
}

// ByteSize returns the memory used by the coverage values.
func (m *Mask) ByteSize() int {
	if m == nil {
		return 0
	}
	return 4 * cap(m.Coverage)
}
