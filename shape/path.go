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

// Package shape describes the geometry of drawable objects: paths, fill
// rules and stroke styles.
//
// Paths are represented by [path.Data] from seehuhn.de/go/geom. Paths
// which enter the engine are checked by [Validate]; malformed geometry
// is reported as an error wrapping [ErrInvalidGeometry] and never reaches
// the tessellator.
package shape

import (
	"errors"
	"fmt"
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// ErrInvalidGeometry is returned for paths which cannot be drawn, for
// example because they contain NaN coordinates or a segment without a
// preceding move-to.
var ErrInvalidGeometry = errors.New("invalid geometry")

// GeometryError describes where a path failed validation.
type GeometryError struct {
	// Index is the position of the offending command in the path.
	Index int

	// Reason is a short, human readable description of the problem.
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("invalid geometry at command %d: %s", e.Index, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidGeometry).
func (e *GeometryError) Unwrap() error {
	return ErrInvalidGeometry
}

// coordsPerCommand gives the number of points consumed by each command.
func coordsPerCommand(cmd path.Command) (int, bool) {
	switch cmd {
	case path.CmdMoveTo, path.CmdLineTo:
		return 1, true
	case path.CmdQuadTo:
		return 2, true
	case path.CmdCubeTo:
		return 3, true
	case path.CmdClose:
		return 0, true
	default:
		return 0, false
	}
}

// Validate checks that p is well-formed:
//   - the first command is a move-to,
//   - every line, quadratic or cubic segment belongs to an open subpath
//     (a close ends the subpath; drawing resumes only after a new move-to),
//   - all coordinates are finite,
//   - the number of coordinates matches the commands.
//
// A nil or empty path is valid and draws nothing.
func Validate(p *path.Data) error {
	if p == nil || len(p.Cmds) == 0 {
		return nil
	}
	if p.Cmds[0] != path.CmdMoveTo {
		return &GeometryError{Index: 0, Reason: "path does not start with move-to"}
	}

	open := false
	k := 0
	for i, cmd := range p.Cmds {
		n, ok := coordsPerCommand(cmd)
		if !ok {
			return &GeometryError{Index: i, Reason: "unknown path command"}
		}
		if k+n > len(p.Coords) {
			return &GeometryError{Index: i, Reason: "missing coordinates"}
		}
		for _, pt := range p.Coords[k : k+n] {
			if !isFinite(pt) {
				return &GeometryError{Index: i, Reason: "non-finite coordinate"}
			}
		}
		k += n

		switch cmd {
		case path.CmdMoveTo:
			open = true
		case path.CmdClose:
			if !open {
				return &GeometryError{Index: i, Reason: "close without open subpath"}
			}
			open = false
		default:
			if !open {
				return &GeometryError{Index: i, Reason: "segment without preceding move-to"}
			}
		}
	}
	if k != len(p.Coords) {
		return &GeometryError{Index: len(p.Cmds), Reason: "extra coordinates"}
	}
	return nil
}

func isFinite(v vec.Vec2) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Builder constructs a path and checks it while doing so. The first
// error is remembered and returned by [Builder.Path]; later calls are
// ignored.
type Builder struct {
	data *path.Data
	open bool
	err  error
}

// NewBuilder returns an empty path builder.
func NewBuilder() *Builder {
	return &Builder{data: &path.Data{}}
}

func (b *Builder) fail(reason string) {
	if b.err == nil {
		b.err = &GeometryError{Index: len(b.data.Cmds), Reason: reason}
	}
}

func (b *Builder) check(pts ...vec.Vec2) bool {
	if b.err != nil {
		return false
	}
	for _, pt := range pts {
		if !isFinite(pt) {
			b.fail("non-finite coordinate")
			return false
		}
	}
	return true
}

func (b *Builder) segment(pts ...vec.Vec2) bool {
	if !b.check(pts...) {
		return false
	}
	if !b.open {
		b.fail("segment without preceding move-to")
		return false
	}
	return true
}

// MoveTo starts a new subpath at (x, y).
func (b *Builder) MoveTo(x, y float64) *Builder {
	pt := vec.Vec2{X: x, Y: y}
	if b.check(pt) {
		b.data = b.data.MoveTo(pt)
		b.open = true
	}
	return b
}

// LineTo appends a straight segment to (x, y).
func (b *Builder) LineTo(x, y float64) *Builder {
	pt := vec.Vec2{X: x, Y: y}
	if b.segment(pt) {
		b.data = b.data.LineTo(pt)
	}
	return b
}

// QuadTo appends a quadratic Bézier segment with control point (cx, cy).
func (b *Builder) QuadTo(cx, cy, x, y float64) *Builder {
	c, pt := vec.Vec2{X: cx, Y: cy}, vec.Vec2{X: x, Y: y}
	if b.segment(c, pt) {
		b.data = b.data.QuadTo(c, pt)
	}
	return b
}

// CubeTo appends a cubic Bézier segment.
func (b *Builder) CubeTo(c1x, c1y, c2x, c2y, x, y float64) *Builder {
	c1, c2, pt := vec.Vec2{X: c1x, Y: c1y}, vec.Vec2{X: c2x, Y: c2y}, vec.Vec2{X: x, Y: y}
	if b.segment(c1, c2, pt) {
		b.data = b.data.CubeTo(c1, c2, pt)
	}
	return b
}

// Close ends the current subpath with a straight line back to its start.
func (b *Builder) Close() *Builder {
	if b.err != nil {
		return b
	}
	if !b.open {
		b.fail("close without open subpath")
		return b
	}
	b.data = b.data.Close()
	b.open = false
	return b
}

// Path returns the constructed path, or the first error encountered.
// The builder must not be used after Path has been called.
func (b *Builder) Path() (*path.Data, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.data, nil
}

// Bounds returns the bounding box of all points in p, including Bézier
// control points. The result is a conservative bound for the drawn area.
// ok is false for an empty path.
func Bounds(p *path.Data) (xMin, yMin, xMax, yMax float64, ok bool) {
	if p == nil || len(p.Coords) == 0 {
		return 0, 0, 0, 0, false
	}
	xMin, yMin = p.Coords[0].X, p.Coords[0].Y
	xMax, yMax = xMin, yMin
	for _, pt := range p.Coords[1:] {
		xMin = min(xMin, pt.X)
		xMax = max(xMax, pt.X)
		yMin = min(yMin, pt.Y)
		yMax = max(yMax, pt.Y)
	}
	return xMin, yMin, xMax, yMax, true
}
