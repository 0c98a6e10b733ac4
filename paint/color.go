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

// Package paint describes how covered pixels are coloured: colours,
// solid and gradient paints, and the blend modes used to combine a
// source colour with what is already on the surface.
//
// All colour arithmetic happens in float32 on linear channel values.
// Gradients are interpolated and all blending happens on premultiplied
// values.
package paint

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Color is a straight (non-premultiplied) RGBA colour with linear channel
// values in the range [0, 1].
type Color struct {
	R, G, B, A float32
}

// Some frequently used colours.
var (
	Transparent = Color{}
	Black       = Color{0, 0, 0, 1}
	White       = Color{1, 1, 1, 1}
)

// RGBA returns the colour with the given channel values.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Gray returns an opaque gray colour.
func Gray(v float32) Color {
	return Color{R: v, G: v, B: v, A: 1}
}

func clamp01(x float32) float32 {
	if !(x > 0) { // also catches NaN
		return 0
	}
	return math32.Min(x, 1)
}

// Clamp returns c with all channels clamped to [0, 1].
// NaN channels become 0.
func (c Color) Clamp() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
}

// Premul returns the premultiplied form of c.
func (c Color) Premul() Premul {
	c = c.Clamp()
	return Premul{c.R * c.A, c.G * c.A, c.B * c.A, c.A}
}

// IsOpaque reports whether c has full alpha.
func (c Color) IsOpaque() bool {
	return c.A >= 1
}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%.3g,%.3g,%.3g,%.3g)", c.R, c.G, c.B, c.A)
}

// Premul is a colour with premultiplied alpha. Each colour channel is at
// most A.
type Premul struct {
	R, G, B, A float32
}

// Straight converts p back to a straight colour. Fully transparent
// colours become [Transparent].
func (p Premul) Straight() Color {
	if p.A <= 0 {
		return Transparent
	}
	inv := 1 / p.A
	return Color{
		R: clamp01(p.R * inv),
		G: clamp01(p.G * inv),
		B: clamp01(p.B * inv),
		A: clamp01(p.A),
	}
}

// Scale multiplies all channels of p by f. This is how coverage and
// opacity are applied to a source colour.
func (p Premul) Scale(f float32) Premul {
	return Premul{p.R * f, p.G * f, p.B * f, p.A * f}
}

// Lerp interpolates between p and q.
func (p Premul) Lerp(q Premul, t float32) Premul {
	return Premul{
		R: p.R + t*(q.R-p.R),
		G: p.G + t*(q.G-p.G),
		B: p.B + t*(q.B-p.B),
		A: p.A + t*(q.A-p.A),
	}
}

// Over composites p on top of dst using the source-over operator.
func (p Premul) Over(dst Premul) Premul {
	k := 1 - p.A
	return Premul{
		R: p.R + dst.R*k,
		G: p.G + dst.G*k,
		B: p.B + dst.B*k,
		A: p.A + dst.A*k,
	}
}

// NearlyEqual reports whether all channels of p and q differ by at most
// eps.
func (p Premul) NearlyEqual(q Premul, eps float32) bool {
	return math32.Abs(p.R-q.R) <= eps && math32.Abs(p.G-q.G) <= eps &&
		math32.Abs(p.B-q.B) <= eps && math32.Abs(p.A-q.A) <= eps
}
