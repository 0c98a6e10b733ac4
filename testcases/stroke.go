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

package testcases

import (
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/revector/shape"
)

func withCap(c graphics.LineCapStyle) func(*shape.StrokeStyle) {
	return func(s *shape.StrokeStyle) { s.Cap = c }
}

func withJoin(j graphics.LineJoinStyle) func(*shape.StrokeStyle) {
	return func(s *shape.StrokeStyle) { s.Join = j }
}

func withDash(phase float64, pattern ...float64) func(*shape.StrokeStyle) {
	return func(s *shape.StrokeStyle) {
		s.Dash = pattern
		s.DashPhase = phase
	}
}

func withMiterLimit(l float64) func(*shape.StrokeStyle) {
	return func(s *shape.StrokeStyle) { s.MiterLimit = l }
}

var (
	hline  = shape.Line(12, 32, 52, 32)
	corner = svg("M 12 52 L 32 12 L 52 52")
	acute  = svg("M 8 40 L 56 32 L 8 24")
)

var strokeCases = []TestCase{
	{Name: "line_butt", Path: hline, Width: 64, Height: 64, Op: stroke(10)},
	{Name: "line_round", Path: hline, Width: 64, Height: 64, Op: stroke(10, withCap(graphics.LineCapRound))},
	{Name: "line_square", Path: hline, Width: 64, Height: 64, Op: stroke(10, withCap(graphics.LineCapSquare))},
	{Name: "corner_miter", Path: corner, Width: 64, Height: 64, Op: stroke(8)},
	{Name: "corner_round", Path: corner, Width: 64, Height: 64, Op: stroke(8, withJoin(graphics.LineJoinRound))},
	{Name: "corner_bevel", Path: corner, Width: 64, Height: 64, Op: stroke(8, withJoin(graphics.LineJoinBevel))},
	{Name: "acute_miter_limited", Path: acute, Width: 64, Height: 64, Op: stroke(6, withMiterLimit(2))},
	{Name: "acute_miter", Path: acute, Width: 64, Height: 64, Op: stroke(4, withMiterLimit(20))},
	{Name: "closed_square", Path: shape.Rect(16, 16, 32, 32), Width: 64, Height: 64, Op: stroke(6)},
	{Name: "zero_length_round", Path: shape.Line(32, 32, 32, 32), Width: 64, Height: 64, Op: stroke(12, withCap(graphics.LineCapRound))},
	{Name: "zigzag_thick", Path: svg("M 4 40 L 16 24 L 28 40 L 40 24 L 52 40 L 60 24"), Width: 64, Height: 64, Op: stroke(5, withJoin(graphics.LineJoinRound))},
	{Name: "hairline", Path: corner, Width: 64, Height: 64, Op: stroke(0.1)},
}

var dashCases = []TestCase{
	{Name: "dash_equal", Path: hline, Width: 64, Height: 64, Op: stroke(4, withDash(0, 4, 4))},
	{Name: "dash_single_element", Path: hline, Width: 64, Height: 64, Op: stroke(4, withDash(0, 6))},
	{Name: "dash_three_element", Path: hline, Width: 64, Height: 64, Op: stroke(4, withDash(0, 8, 2, 4))},
	{Name: "dash_phase_half", Path: hline, Width: 64, Height: 64, Op: stroke(4, withDash(4, 8, 8))},
	{Name: "dash_phase_negative", Path: hline, Width: 64, Height: 64, Op: stroke(4, withDash(-3, 8, 8))},
	{Name: "dash_zero_round", Path: hline, Width: 64, Height: 64, Op: stroke(6, withCap(graphics.LineCapRound), withDash(0, 0, 10))},
	{Name: "dash_zero_butt", Path: hline, Width: 64, Height: 64, Op: stroke(6, withDash(0, 0, 10))},
	{Name: "dash_corner_in_dash", Path: corner, Width: 64, Height: 64, Op: stroke(6, withDash(0, 40, 10))},
	{Name: "dash_corner_in_gap", Path: corner, Width: 64, Height: 64, Op: stroke(6, withDash(0, 30, 30))},
	{Name: "dash_closed_square", Path: shape.Rect(16, 16, 32, 32), Width: 64, Height: 64, Op: stroke(4, withDash(0, 12, 4))},
	{Name: "dash_closed_join", Path: shape.Rect(16, 16, 32, 32), Width: 64, Height: 64, Op: stroke(4, withJoin(graphics.LineJoinRound), withDash(0, 20, 12))},
	{Name: "dash_circle", Path: shape.Circle(32, 32, 20), Width: 64, Height: 64, Op: stroke(3, withCap(graphics.LineCapRound), withDash(0, 6, 4))},
}
