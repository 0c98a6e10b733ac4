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

package scene

import (
	"fmt"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/revector/paint"
	"seehuhn.de/go/revector/shape"
)

// Fill describes how the interior of a node's path is painted.
type Fill struct {
	Rule  shape.FillRule
	Paint paint.Paint
}

// Stroke describes how the outline of a node's path is painted.
type Stroke struct {
	Style shape.StrokeStyle
	Paint paint.Paint
}

// Clip restricts a node and its descendants to the inside of a path.
// The clip path is given in the node's own coordinate system.
type Clip struct {
	Path *path.Data
	Rule shape.FillRule
}

// Node holds the drawing state of one scene node.
//
// A node draws its fill, then its stroke, then its children in order.
// Nodes without a path are groups. Use [Shape] or [Group] to get a node
// with full opacity; the zero Node is invisible.
type Node struct {
	Path   *path.Data
	Fill   *Fill
	Stroke *Stroke

	// Transform maps the node's coordinates to its parent's. The zero
	// matrix is treated as the identity.
	Transform matrix.Matrix

	Clip *Clip

	// Opacity applies to the node and all its descendants. Values outside
	// [0, 1] are clamped when the node is stored in a scene.
	Opacity float32

	// Blend combines the node's fill and stroke with the content below.
	// For isolated nodes it is used to combine the whole layer.
	Blend paint.BlendMode

	// Isolated nodes render their content and subtree into a separate
	// layer, which is then composited as a unit.
	Isolated bool

	// Hidden nodes are skipped together with their subtree.
	Hidden bool
}

// Group returns an empty, fully opaque group node.
func Group() Node {
	return Node{Transform: matrix.Identity, Opacity: 1}
}

// Shape returns a fully opaque node which draws p with the given fill
// paint, using the nonzero rule.
func Shape(p *path.Data, fill paint.Paint) Node {
	return Node{
		Path:      p,
		Fill:      &Fill{Rule: shape.NonZero, Paint: fill},
		Transform: matrix.Identity,
		Opacity:   1,
	}
}

// Validate checks all parts of n which are not already checked at
// construction time, in particular paths built without a [shape.Builder].
func (n *Node) Validate() error {
	if n.Path != nil {
		if err := shape.Validate(n.Path); err != nil {
			return err
		}
	}
	if n.Fill != nil {
		if err := n.Fill.Paint.Validate(); err != nil {
			return fmt.Errorf("fill: %w", err)
		}
	}
	if n.Stroke != nil {
		if err := n.Stroke.Style.Validate(); err != nil {
			return fmt.Errorf("stroke: %w", err)
		}
		if err := n.Stroke.Paint.Validate(); err != nil {
			return fmt.Errorf("stroke: %w", err)
		}
	}
	if n.Clip != nil {
		if err := shape.Validate(n.Clip.Path); err != nil {
			return fmt.Errorf("clip: %w", err)
		}
	}
	for _, x := range n.Transform {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: non-finite transformation", shape.ErrInvalidGeometry)
		}
	}
	if math.IsNaN(float64(n.Opacity)) {
		return fmt.Errorf("%w: opacity is NaN", shape.ErrInvalidGeometry)
	}
	if !n.Blend.Valid() {
		return fmt.Errorf("unknown blend mode %d", n.Blend)
	}
	return nil
}

// Dirty records which parts of a node changed since the last call to
// [Scene.ClearDirty].
type Dirty uint8

const (
	DirtyPath Dirty = 1 << iota
	DirtyStyle
	DirtyPaint
	DirtyTransform
	DirtyChildren
	DirtyClip

	// dirtyGeometry are the changes which invalidate tessellated geometry.
	dirtyGeometry = DirtyPath | DirtyStyle | DirtyTransform | DirtyClip
)

var dirtyNames = []string{"path", "style", "paint", "transform", "children", "clip"}

func (d Dirty) String() string {
	if d == 0 {
		return "clean"
	}
	s := ""
	for i, name := range dirtyNames {
		if d&(1<<i) != 0 {
			if s != "" {
				s += "|"
			}
			s += name
		}
	}
	return s
}

func clampOpacity(alpha float32) float32 {
	return max(0, min(1, alpha))
}
