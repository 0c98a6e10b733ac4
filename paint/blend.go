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
	"fmt"

	"github.com/chewxy/math32"
)

// BlendMode determines how a source colour is combined with the
// backdrop.
//
// The separable modes follow the W3C Compositing and Blending Level 1
// recommendation. On premultiplied values the result is
//
//	co = cs (1 - αb) + cb (1 - αs) + αs αb B(Cs, Cb)
//	αo = αs + αb - αs αb
//
// where Cs and Cb are the unpremultiplied channel values.
type BlendMode uint8

// The supported blend modes. SourceOver is the zero value.
const (
	SourceOver BlendMode = iota
	Multiply
	Screen
	Overlay
	Darken
	Lighten
	Difference
	Exclusion
	Plus
	Source
	DestinationOut
	Clear

	numBlendModes
)

var blendModeNames = [numBlendModes]string{
	SourceOver:     "source-over",
	Multiply:       "multiply",
	Screen:         "screen",
	Overlay:        "overlay",
	Darken:         "darken",
	Lighten:        "lighten",
	Difference:     "difference",
	Exclusion:      "exclusion",
	Plus:           "plus",
	Source:         "source",
	DestinationOut: "destination-out",
	Clear:          "clear",
}

func (m BlendMode) String() string {
	if m < numBlendModes {
		return blendModeNames[m]
	}
	return fmt.Sprintf("BlendMode(%d)", uint8(m))
}

// ParseBlendMode converts a blend mode name, as returned by String, to a
// BlendMode. The empty string selects SourceOver.
func ParseBlendMode(s string) (BlendMode, error) {
	if s == "" {
		return SourceOver, nil
	}
	for m, name := range blendModeNames {
		if name == s {
			return BlendMode(m), nil
		}
	}
	return 0, fmt.Errorf("unknown blend mode %q", s)
}

// Valid reports whether m is one of the defined modes.
func (m BlendMode) Valid() bool {
	return m < numBlendModes
}

// Composite blends src onto dst, where src covers the pixel only
// partially. cov is the coverage in [0, 1].
//
// For modes which are linear in the source (all except Source and
// Clear) the coverage scales the source colour; for the other two the
// result is interpolated between dst and the fully covered result.
func Composite(m BlendMode, src, dst Premul, cov float32) Premul {
	switch m {
	case Source, Clear:
		full := Blend(m, src, dst)
		if cov >= 1 {
			return full
		}
		return dst.Lerp(full, cov)
	}
	if cov < 1 {
		src = src.Scale(cov)
	}
	return Blend(m, src, dst)
}

// Blend combines the source colour src with the backdrop dst.
func Blend(m BlendMode, src, dst Premul) Premul {
	switch m {
	case SourceOver:
		return src.Over(dst)
	case Source:
		return src
	case Clear:
		return Premul{}
	case DestinationOut:
		k := 1 - src.A
		return Premul{dst.R * k, dst.G * k, dst.B * k, dst.A * k}
	case Plus:
		return Premul{
			R: math32.Min(1, src.R+dst.R),
			G: math32.Min(1, src.G+dst.G),
			B: math32.Min(1, src.B+dst.B),
			A: math32.Min(1, src.A+dst.A),
		}
	case Multiply:
		return separable(src, dst, func(s, b float32) float32 { return s * b })
	case Screen:
		return separable(src, dst, func(s, b float32) float32 { return s + b - s*b })
	case Overlay:
		return separable(src, dst, func(s, b float32) float32 { return hardLight(b, s) })
	case Darken:
		return separable(src, dst, math32.Min)
	case Lighten:
		return separable(src, dst, math32.Max)
	case Difference:
		return separable(src, dst, func(s, b float32) float32 { return math32.Abs(s - b) })
	case Exclusion:
		return separable(src, dst, func(s, b float32) float32 { return s + b - 2*s*b })
	default:
		return src.Over(dst)
	}
}

func hardLight(s, b float32) float32 {
	if s <= 0.5 {
		return b * 2 * s
	}
	return b + (2*s - 1) - b*(2*s-1)
}

// separable applies a separable blend function B(Cs, Cb) to
// premultiplied colours.
func separable(src, dst Premul, f func(s, b float32) float32) Premul {
	if src.A <= 0 {
		return dst
	}
	if dst.A <= 0 {
		return src
	}
	sa, da := src.A, dst.A
	invSa, invDa := 1-sa, 1-da
	both := sa * da
	ch := func(s, b float32) float32 {
		return s*invDa + b*invSa + both*f(s/sa, b/da)
	}
	return Premul{
		R: ch(src.R, dst.R),
		G: ch(src.G, dst.G),
		B: ch(src.B, dst.B),
		A: sa + da - both,
	}
}
