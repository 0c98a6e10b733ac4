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

package surface

import (
	"image"

	"seehuhn.de/go/revector/paint"
)

// Layer is a working buffer of premultiplied float32 colours covering a
// rectangle of pixels.
type Layer struct {
	Rect image.Rectangle
	Pix  []paint.Premul // row-major, Rect.Dx() colours per row
}

// NewLayer returns a transparent layer covering r.
func NewLayer(r image.Rectangle) *Layer {
	return &Layer{
		Rect: r,
		Pix:  make([]paint.Premul, r.Dx()*r.Dy()),
	}
}

// LayerBytes returns the memory needed for a layer covering r.
func LayerBytes(r image.Rectangle) int {
	return 16 * r.Dx() * r.Dy()
}

// ByteSize returns the memory used by l.
func (l *Layer) ByteSize() int {
	return 16 * cap(l.Pix)
}

// Row returns the colours of row y, from x0 (inclusive) to x1 (exclusive).
// The caller must make sure the range lies inside l.Rect. The returned
// slice aliases the layer.
func (l *Layer) Row(y, x0, x1 int) []paint.Premul {
	off := (y-l.Rect.Min.Y)*l.Rect.Dx() - l.Rect.Min.X
	return l.Pix[off+x0 : off+x1]
}

// At returns the colour of pixel (x, y), or transparent outside l.Rect.
func (l *Layer) At(x, y int) paint.Premul {
	if !(image.Point{X: x, Y: y}).In(l.Rect) {
		return paint.Premul{}
	}
	return l.Pix[(y-l.Rect.Min.Y)*l.Rect.Dx()+x-l.Rect.Min.X]
}

// Fill sets every pixel of l to c.
func (l *Layer) Fill(c paint.Premul) {
	for i := range l.Pix {
		l.Pix[i] = c
	}
}

// Load copies the pixels of s inside l.Rect into l.
func (l *Layer) Load(s *Surface) {
	r := l.Rect.Intersect(s.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := l.Row(y, r.Min.X, r.Max.X)
		for i := range row {
			row[i] = s.load(r.Min.X+i, y)
		}
	}
}

// Store writes the pixels of l inside r back to s.
func (l *Layer) Store(s *Surface, r image.Rectangle) {
	r = r.Intersect(l.Rect).Intersect(s.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := l.Row(y, r.Min.X, r.Max.X)
		for i, c := range row {
			s.store(r.Min.X+i, y, c)
		}
	}
}
