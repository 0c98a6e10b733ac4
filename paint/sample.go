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

package paint

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/revector/shape"
)

// Sampler computes the premultiplied colour of a paint at device pixels.
// A Sampler is not safe for concurrent use.
type Sampler struct {
	kind   Kind
	solid  Premul
	stops  []premulStop
	extend Extend

	// toPaint maps device space to gradient space
	toPaint matrix.Matrix
	valid   bool

	// linear gradient axis
	start, axis vec.Vec2
	axisLen2    float64

	// radial gradient
	center, focus vec.Vec2
	r0, r1        float64
	focal         bool
}

type premulStop struct {
	offset float64
	color  Premul
}

// NewSampler prepares p for sampling. deviceToUser maps device
// coordinates to the user space in which the paint geometry is given;
// the paint's own Transform is applied on top of this.
//
// If the combined transformation is singular, gradients sample as
// transparent.
func NewSampler(p Paint, deviceToUser matrix.Matrix) *Sampler {
	s := &Sampler{kind: p.Kind, extend: p.Extend, valid: true}
	if p.Kind == KindSolid {
		s.solid = p.Color.Premul()
		return s
	}

	inv, ok := shape.Invert(shape.Normalize(p.Transform))
	if !ok {
		s.valid = false
		return s
	}
	s.toPaint = shape.Concat(deviceToUser, inv)

	stops := p.Stops
	if !slicesSortedByOffset(stops) {
		stops = normalizeStops(stops)
	}
	s.stops = make([]premulStop, len(stops))
	for i, st := range stops {
		s.stops[i] = premulStop{
			offset: math.Max(0, math.Min(1, st.Offset)),
			color:  st.Color.Premul(),
		}
	}

	switch p.Kind {
	case KindLinear:
		s.start = p.Start
		s.axis = p.End.Sub(p.Start)
		s.axisLen2 = s.axis.Dot(s.axis)
	case KindRadial:
		s.center = p.Center
		s.r0, s.r1 = p.StartRadius, p.EndRadius
		if p.HasFocus && p.Focus != p.Center {
			s.focal = true
			s.focus = p.Focus
			// keep the focus strictly inside the end circle
			d := s.focus.Sub(s.center)
			if l := d.Length(); l > 0.999*s.r1 {
				s.focus = s.center.Add(d.Mul(0.999 * s.r1 / l))
			}
		}
	default:
		s.valid = false
	}
	return s
}

func slicesSortedByOffset(stops []Stop) bool {
	for i := 1; i < len(stops); i++ {
		if stops[i].Offset < stops[i-1].Offset {
			return false
		}
	}
	return true
}

// IsConstant reports whether the sampler returns the same colour at
// every pixel.
func (s *Sampler) IsConstant() bool {
	return s.kind == KindSolid
}

// At returns the paint colour at the centre of device pixel (x, y).
func (s *Sampler) At(x, y int) Premul {
	if s.kind == KindSolid {
		return s.solid
	}
	if !s.valid {
		return Premul{}
	}
	q := vec.Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5}
	q = vec.Vec2{
		X: s.toPaint[0]*q.X + s.toPaint[2]*q.Y + s.toPaint[4],
		Y: s.toPaint[1]*q.X + s.toPaint[3]*q.Y + s.toPaint[5],
	}

	var t float64
	switch s.kind {
	case KindLinear:
		if s.axisLen2 == 0 {
			return s.lastColor()
		}
		t = q.Sub(s.start).Dot(s.axis) / s.axisLen2
	case KindRadial:
		if s.focal {
			t = s.focalT(q)
		} else {
			dr := s.r1 - s.r0
			if dr == 0 {
				return s.lastColor()
			}
			t = (q.Sub(s.center).Length() - s.r0) / dr
		}
	}
	return s.colorAt(t)
}

// Row fills dst with the colours of the pixels (x0, y), (x0+1, y), ...
func (s *Sampler) Row(y, x0 int, dst []Premul) {
	if s.kind == KindSolid {
		for i := range dst {
			dst[i] = s.solid
		}
		return
	}
	for i := range dst {
		dst[i] = s.At(x0+i, y)
	}
}

// focalT finds the gradient position of q for a radial gradient whose rays
// start at the focus: t is the ratio of |q-focus| to the distance from the
// focus to the end circle along the same ray.
func (s *Sampler) focalT(q vec.Vec2) float64 {
	d := q.Sub(s.focus)
	f := s.center.Sub(s.focus)
	a := d.Dot(d)
	if a == 0 {
		return 0
	}
	b := -2 * d.Dot(f)
	c := f.Dot(f) - s.r1*s.r1
	disc := b*b - 4*a*c
	if disc < 0 {
		return 1
	}
	root := (-b + math.Sqrt(disc)) / (2 * a)
	if root <= 0 {
		return 1
	}
	return 1 / root
}

func (s *Sampler) lastColor() Premul {
	if len(s.stops) == 0 {
		return Premul{}
	}
	return s.stops[len(s.stops)-1].color
}

// colorAt returns the interpolated stop colour at gradient position t.
// At an offset shared by several stops the first of these is used.
func (s *Sampler) colorAt(t float64) Premul {
	n := len(s.stops)
	switch n {
	case 0:
		return Premul{}
	case 1:
		return s.stops[0].color
	}
	if math.IsNaN(t) {
		return Premul{}
	}
	t = applyExtend(t, s.extend)

	// first stop with offset >= t
	lo, hi := 0, n
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if s.stops[mid].offset < t {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	switch {
	case lo == n:
		return s.stops[n-1].color
	case lo == 0 || s.stops[lo].offset == t:
		return s.stops[lo].color
	}
	a, b := s.stops[lo-1], s.stops[lo]
	u := (t - a.offset) / (b.offset - a.offset)
	return a.color.Lerp(b.color, float32(u))
}

// applyExtend maps t into [0, 1] according to the extend mode.
func applyExtend(t float64, mode Extend) float64 {
	switch mode {
	case ExtendRepeat:
		t -= math.Floor(t)
	case ExtendReflect:
		t = math.Abs(t)
		period := math.Floor(t)
		t -= period
		if int64(period)%2 == 1 {
			t = 1 - t
		}
	default:
		t = math.Max(0, math.Min(1, t))
	}
	return t
}
