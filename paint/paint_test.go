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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

const eps = 1e-5

func assertPremul(t *testing.T, want, got Premul, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, want.NearlyEqual(got, eps), "want %v, got %v %v", want, got, msgAndArgs)
}

func TestColorPremul(t *testing.T) {
	c := RGBA(1, 0.5, 0, 0.5)
	p := c.Premul()
	assert.Equal(t, Premul{0.5, 0.25, 0, 0.5}, p)
	assert.Equal(t, c, p.Straight())

	assert.Equal(t, Transparent, Premul{}.Straight())
	assert.Equal(t, Color{0, 1, 0, 1}, RGBA(-3, 7, 0, 1).Clamp())
}

func TestNormalizeStops(t *testing.T) {
	red, green, blue := RGBA(1, 0, 0, 1), RGBA(0, 1, 0, 1), RGBA(0, 0, 1, 1)
	stops := normalizeStops([]Stop{
		{1.5, blue},
		{0.5, red},
		{0.5, green},
		{-1, red},
	})
	require.Len(t, stops, 4)
	assert.Equal(t, []float64{0, 0.5, 0.5, 1}, []float64{
		stops[0].Offset, stops[1].Offset, stops[2].Offset, stops[3].Offset,
	})
	// equal offsets keep their order
	assert.Equal(t, red, stops[1].Color)
	assert.Equal(t, green, stops[2].Color)
}

func TestLinearGradient(t *testing.T) {
	p := Linear(vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 10, Y: 0}, ExtendPad,
		Stop{0, Black}, Stop{1, White})
	s := NewSampler(p, matrix.Identity)

	assertPremul(t, Premul{0.05, 0.05, 0.05, 1}, s.At(0, 0))
	assertPremul(t, Premul{0.55, 0.55, 0.55, 1}, s.At(5, 3))
	assertPremul(t, Black.Premul(), s.At(-20, 0))
	assertPremul(t, White.Premul(), s.At(50, 0))

	// the axis projection ignores the perpendicular coordinate
	assert.Equal(t, s.At(4, 0), s.At(4, 99))
}

func TestGradientDuplicateStops(t *testing.T) {
	red, blue := RGBA(1, 0, 0, 1), RGBA(0, 0, 1, 1)
	p := Linear(vec.Vec2{}, vec.Vec2{X: 1}, ExtendPad,
		Stop{0, red}, Stop{0.5, red}, Stop{0.5, blue}, Stop{1, blue})
	s := NewSampler(p, matrix.Identity)

	assertPremul(t, red.Premul(), s.colorAt(0.49999))
	assertPremul(t, red.Premul(), s.colorAt(0.5))
	assertPremul(t, blue.Premul(), s.colorAt(0.50001))
}

func TestGradientPremultipliedInterpolation(t *testing.T) {
	// halfway between opaque red and transparent black
	p := Linear(vec.Vec2{}, vec.Vec2{X: 1}, ExtendPad,
		Stop{0, RGBA(1, 0, 0, 1)}, Stop{1, Transparent})
	s := NewSampler(p, matrix.Identity)
	assertPremul(t, Premul{0.5, 0, 0, 0.5}, s.colorAt(0.5))
}

func TestApplyExtend(t *testing.T) {
	tests := []struct {
		mode Extend
		in   float64
		want float64
	}{
		{ExtendPad, -0.5, 0},
		{ExtendPad, 1.5, 1},
		{ExtendPad, 0.25, 0.25},
		{ExtendRepeat, 1.25, 0.25},
		{ExtendRepeat, -0.25, 0.75},
		{ExtendReflect, 1.25, 0.75},
		{ExtendReflect, -0.25, 0.25},
		{ExtendReflect, 2.25, 0.25},
	}
	for _, tc := range tests {
		assert.InDelta(t, tc.want, applyExtend(tc.in, tc.mode), 1e-12, "%s %g", tc.mode, tc.in)
	}
}

func TestRadialGradient(t *testing.T) {
	p := Radial(vec.Vec2{X: 0.5, Y: 0.5}, 0, 10, ExtendPad, Stop{0, White}, Stop{1, Black})
	s := NewSampler(p, matrix.Identity)
	assertPremul(t, White.Premul(), s.At(0, 0))
	assertPremul(t, Premul{0.5, 0.5, 0.5, 1}, s.At(5, 0))
	assertPremul(t, Black.Premul(), s.At(30, 30))

	// with the focus at the centre, focal and simple sampling agree
	f := NewSampler(p.WithFocus(vec.Vec2{X: 0.5, Y: 0.5}), matrix.Identity)
	assert.Equal(t, s.At(3, 4), f.At(3, 4))

	// an off-centre focus maps to t=0 at the focus and t=1 on the circle
	g := NewSampler(p.WithFocus(vec.Vec2{X: 5.5, Y: 0.5}), matrix.Identity)
	assertPremul(t, White.Premul(), g.At(5, 0))
	assertPremul(t, Black.Premul(), g.At(-10, 0))
}

func TestSamplerTransform(t *testing.T) {
	p := Linear(vec.Vec2{}, vec.Vec2{X: 10}, ExtendPad, Stop{0, Black}, Stop{1, White})
	// device = 2 * user, so device pixel 9 is user 4.75
	toUser := matrix.Matrix{0.5, 0, 0, 0.5, 0, 0}
	s := NewSampler(p, toUser)
	assertPremul(t, Premul{0.475, 0.475, 0.475, 1}, s.At(9, 0))

	// singular paint transform samples as transparent
	p.Transform = matrix.Matrix{1, 0, 0, 0, 0, 0}
	assert.Equal(t, Premul{}, NewSampler(p, matrix.Identity).At(0, 0))
}

func TestBlendModes(t *testing.T) {
	red := Premul{1, 0, 0, 1}
	halfBlue := Premul{0, 0, 0.5, 0.5}
	gray := Premul{0.5, 0.5, 0.5, 1}

	assertPremul(t, Premul{0.5, 0, 0.5, 1}, Blend(SourceOver, halfBlue, red))
	assertPremul(t, Premul{0.5, 0, 0, 1}, Blend(Multiply, red, gray))
	assertPremul(t, Premul{1, 0.5, 0.5, 1}, Blend(Screen, red, gray))
	assertPremul(t, Premul{0.5, 0, 0, 1}, Blend(Darken, red, gray))
	assertPremul(t, Premul{1, 0.5, 0.5, 1}, Blend(Lighten, red, gray))
	assertPremul(t, Premul{0.5, 0.5, 0.5, 1}, Blend(Difference, red, gray))
	assertPremul(t, Premul{0.5, 0.5, 0.5, 1}, Blend(Exclusion, red, gray))
	assertPremul(t, Premul{1, 0.5, 0.5, 1}, Blend(Plus, red, gray))
	assertPremul(t, halfBlue, Blend(Source, halfBlue, red))
	assertPremul(t, Premul{}, Blend(Clear, halfBlue, red))
	assertPremul(t, Premul{0.5, 0, 0, 0.5}, Blend(DestinationOut, halfBlue, red))

	// overlay is hard light with the layers swapped
	assertPremul(t, Premul{1, 0, 0, 1}, Blend(Overlay, gray, red))

	// a transparent backdrop leaves the source unchanged
	for m := range numBlendModes {
		if m == Clear || m == DestinationOut {
			continue
		}
		assertPremul(t, halfBlue, Blend(m, halfBlue, Premul{}), m)
	}
}

func TestComposite(t *testing.T) {
	red := Premul{1, 0, 0, 1}
	white := Premul{1, 1, 1, 1}
	assertPremul(t, Premul{1, 0.5, 0.5, 1}, Composite(SourceOver, red, white, 0.5))
	assertPremul(t, Premul{1, 0.5, 0.5, 1}, Composite(Source, red, white, 0.5))
	assertPremul(t, Premul{0.5, 0.5, 0.5, 0.5}, Composite(Clear, red, white, 0.5))
	assertPremul(t, white, Composite(Multiply, red, white, 0))
}

func TestParseBlendMode(t *testing.T) {
	for m := range numBlendModes {
		got, err := ParseBlendMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseBlendMode("hue")
	assert.Error(t, err)
}
