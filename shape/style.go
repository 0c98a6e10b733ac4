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
	"fmt"
	"math"

	"seehuhn.de/go/pdf/graphics"
)

// FillRule determines which regions of a possibly self-overlapping path
// count as inside.
type FillRule uint8

const (
	// NonZero fills every point with a non-zero winding number.
	NonZero FillRule = iota

	// EvenOdd fills every point with an odd winding number.
	EvenOdd
)

func (r FillRule) String() string {
	switch r {
	case NonZero:
		return "nonzero"
	case EvenOdd:
		return "evenodd"
	default:
		return fmt.Sprintf("FillRule(%d)", uint8(r))
	}
}

// ParseFillRule converts the names used by String back to a FillRule.
func ParseFillRule(s string) (FillRule, error) {
	switch s {
	case "", "nonzero":
		return NonZero, nil
	case "evenodd":
		return EvenOdd, nil
	}
	return 0, fmt.Errorf("unknown fill rule %q", s)
}

// StrokeStyle describes how a path is turned into a stroke outline.
// Lengths are given in the path's own (user space) units.
type StrokeStyle struct {
	// Width is the line width. A zero width draws nothing.
	Width float64

	// Cap is the shape at open subpath ends.
	Cap graphics.LineCapStyle

	// Join is the shape at corners between segments.
	Join graphics.LineJoinStyle

	// MiterLimit bounds the length of miter joins, as a multiple of
	// half the line width. Corners exceeding the limit are beveled.
	MiterLimit float64

	// Dash alternates on and off lengths. Nil means a solid line.
	// An odd number of entries is repeated to make the length even.
	Dash []float64

	// DashPhase is the distance into the dash pattern at which each
	// subpath starts.
	DashPhase float64
}

// Default stroke parameters.
const (
	DefaultLineWidth  = 1.0
	DefaultMiterLimit = 10.0
)

// DefaultStroke returns a one unit wide solid stroke with butt caps and
// miter joins.
func DefaultStroke() StrokeStyle {
	return StrokeStyle{
		Width:      DefaultLineWidth,
		Cap:        graphics.LineCapButt,
		Join:       graphics.LineJoinMiter,
		MiterLimit: DefaultMiterLimit,
	}
}

// Validate reports parameters which cannot be used for stroking.
func (s StrokeStyle) Validate() error {
	if !finite(s.Width) || s.Width < 0 {
		return fmt.Errorf("%w: line width %g", ErrInvalidGeometry, s.Width)
	}
	if !finite(s.MiterLimit) || s.MiterLimit < 1 {
		return fmt.Errorf("%w: miter limit %g", ErrInvalidGeometry, s.MiterLimit)
	}
	switch s.Cap {
	case graphics.LineCapButt, graphics.LineCapRound, graphics.LineCapSquare:
	default:
		return fmt.Errorf("%w: line cap %d", ErrInvalidGeometry, s.Cap)
	}
	switch s.Join {
	case graphics.LineJoinMiter, graphics.LineJoinRound, graphics.LineJoinBevel:
	default:
		return fmt.Errorf("%w: line join %d", ErrInvalidGeometry, s.Join)
	}
	if len(s.Dash) > 0 {
		total := 0.0
		for _, d := range s.Dash {
			if !finite(d) || d < 0 {
				return fmt.Errorf("%w: dash length %g", ErrInvalidGeometry, d)
			}
			total += d
		}
		if total == 0 {
			return fmt.Errorf("%w: dash pattern has zero length", ErrInvalidGeometry)
		}
	}
	if !finite(s.DashPhase) {
		return fmt.Errorf("%w: dash phase %g", ErrInvalidGeometry, s.DashPhase)
	}
	return nil
}

// ParseLineCap converts "butt", "round" or "square" to a cap style.
func ParseLineCap(s string) (graphics.LineCapStyle, error) {
	switch s {
	case "", "butt":
		return graphics.LineCapButt, nil
	case "round":
		return graphics.LineCapRound, nil
	case "square":
		return graphics.LineCapSquare, nil
	}
	return 0, fmt.Errorf("unknown line cap %q", s)
}

// ParseLineJoin converts "miter", "round" or "bevel" to a join style.
func ParseLineJoin(s string) (graphics.LineJoinStyle, error) {
	switch s {
	case "", "miter":
		return graphics.LineJoinMiter, nil
	case "round":
		return graphics.LineJoinRound, nil
	case "bevel":
		return graphics.LineJoinBevel, nil
	}
	return 0, fmt.Errorf("unknown line join %q", s)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
