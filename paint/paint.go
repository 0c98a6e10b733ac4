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
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Kind selects the variant of a [Paint].
type Kind uint8

// These are the supported paint kinds.
const (
	KindSolid Kind = iota
	KindLinear
	KindRadial
)

func (k Kind) String() string {
	switch k {
	case KindSolid:
		return "solid"
	case KindLinear:
		return "linear"
	case KindRadial:
		return "radial"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Extend defines how a gradient continues beyond its end points.
type Extend uint8

const (
	// ExtendPad continues with the colour of the nearest end stop.
	ExtendPad Extend = iota
	// ExtendRepeat repeats the gradient.
	ExtendRepeat
	// ExtendReflect repeats the gradient, mirroring every other copy.
	ExtendReflect
)

func (e Extend) String() string {
	switch e {
	case ExtendPad:
		return "pad"
	case ExtendRepeat:
		return "repeat"
	case ExtendReflect:
		return "reflect"
	default:
		return fmt.Sprintf("Extend(%d)", uint8(e))
	}
}

// ParseExtend converts the names used by Extend.String back to a value.
func ParseExtend(s string) (Extend, error) {
	switch s {
	case "", "pad":
		return ExtendPad, nil
	case "repeat":
		return ExtendRepeat, nil
	case "reflect":
		return ExtendReflect, nil
	}
	return 0, fmt.Errorf("unknown gradient extend mode %q", s)
}

// Stop is a colour at a position along a gradient.
type Stop struct {
	Offset float64
	Color  Color
}

// Paint describes the colour of a filled or stroked area. Only the fields
// belonging to Kind are used.
//
// Gradient geometry is given in the user space of the node the paint is
// attached to, optionally modified by Transform.
type Paint struct {
	Kind Kind

	// Color is the colour of a solid paint.
	Color Color

	// Stops are the gradient colour stops. They are normalized by the
	// constructors; paints assembled by hand are normalized when a
	// sampler is created.
	Stops  []Stop
	Extend Extend

	// Start and End are the end points of a linear gradient axis.
	Start, End vec.Vec2

	// Center, StartRadius and EndRadius describe a radial gradient.
	// If HasFocus is set, rays start at Focus instead of Center and
	// StartRadius is ignored.
	Center                 vec.Vec2
	StartRadius, EndRadius float64
	Focus                  vec.Vec2
	HasFocus               bool

	// Transform maps gradient space to user space. The zero matrix is
	// treated as the identity.
	Transform matrix.Matrix
}

// Solid returns a paint of uniform colour.
func Solid(c Color) Paint {
	return Paint{Kind: KindSolid, Color: c}
}

// Linear returns a gradient along the axis from start to end.
func Linear(start, end vec.Vec2, extend Extend, stops ...Stop) Paint {
	return Paint{
		Kind:   KindLinear,
		Start:  start,
		End:    end,
		Extend: extend,
		Stops:  normalizeStops(stops),
	}
}

// Radial returns a gradient between two concentric circles.
func Radial(center vec.Vec2, r0, r1 float64, extend Extend, stops ...Stop) Paint {
	return Paint{
		Kind:        KindRadial,
		Center:      center,
		StartRadius: r0,
		EndRadius:   r1,
		Extend:      extend,
		Stops:       normalizeStops(stops),
	}
}

// WithFocus returns a copy of the radial gradient p with its focal point
// moved to f.
func (p Paint) WithFocus(f vec.Vec2) Paint {
	p.Focus = f
	p.HasFocus = true
	return p
}

// IsOpaqueSolid reports whether p paints every pixel with the same opaque
// colour.
func (p Paint) IsOpaqueSolid() bool {
	return p.Kind == KindSolid && p.Color.A >= 1
}

// Validate reports paints which cannot be sampled.
func (p Paint) Validate() error {
	switch p.Kind {
	case KindSolid:
		return nil
	case KindLinear:
		if !finiteVec(p.Start) || !finiteVec(p.End) {
			return fmt.Errorf("linear gradient: non-finite end point")
		}
	case KindRadial:
		if !finiteVec(p.Center) || !finiteVec(p.Focus) ||
			!finite(p.StartRadius) || !finite(p.EndRadius) ||
			p.StartRadius < 0 || p.EndRadius < 0 {
			return fmt.Errorf("radial gradient: bad geometry")
		}
	default:
		return fmt.Errorf("unknown paint kind %d", p.Kind)
	}
	for _, s := range p.Stops {
		if !finite(s.Offset) {
			return fmt.Errorf("%s gradient: non-finite stop offset", p.Kind)
		}
	}
	return nil
}

// normalizeStops returns a sorted copy of stops with offsets clamped to
// [0, 1]. The sort is stable, so stops with equal offsets keep the order
// in which they were given.
func normalizeStops(stops []Stop) []Stop {
	res := slices.Clone(stops)
	for i := range res {
		res[i].Offset = math.Max(0, math.Min(1, res[i].Offset))
	}
	slices.SortStableFunc(res, func(a, b Stop) int {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		}
		return 0
	})
	return res
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func finiteVec(v vec.Vec2) bool {
	return finite(v.X) && finite(v.Y)
}
