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

package sceneio

import (
	"errors"
	"fmt"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/revector/paint"
	"seehuhn.de/go/revector/scene"
	"seehuhn.de/go/revector/shape"
)

// Build creates a scene from the nodes of f. The returned map gives the
// IDs of all named nodes.
func (f *File) Build() (*scene.Scene, map[string]scene.NodeID, error) {
	sc := scene.New()
	names := make(map[string]scene.NodeID)
	for i := range f.Nodes {
		where := fmt.Sprintf("nodes[%d]", i)
		if err := add(sc, sc.Root(), &f.Nodes[i], where, names); err != nil {
			return nil, nil, err
		}
	}
	return sc, names, nil
}

// BackgroundColor returns the background colour of the file. ok is false
// if no background is given.
func (f *File) BackgroundColor() (c paint.Color, ok bool, err error) {
	if f.Background == "" {
		return paint.Color{}, false, nil
	}
	c, err = ParseColor(f.Background)
	if err != nil {
		return paint.Color{}, false, fmt.Errorf("background: %w", err)
	}
	return c, true, nil
}

func add(sc *scene.Scene, parent scene.NodeID, spec *NodeSpec, where string, names map[string]scene.NodeID) error {
	n, err := spec.Node()
	if err != nil {
		return fmt.Errorf("%s: %w", where, err)
	}
	id, err := sc.Add(parent, n)
	if err != nil {
		return fmt.Errorf("%s: %w", where, err)
	}
	if spec.Name != "" {
		if _, dup := names[spec.Name]; dup {
			return fmt.Errorf("%s: duplicate node name %q", where, spec.Name)
		}
		names[spec.Name] = id
	}
	for i := range spec.Children {
		if err := add(sc, id, &spec.Children[i], fmt.Sprintf("%s.children[%d]", where, i), names); err != nil {
			return err
		}
	}
	return nil
}

// Node converts spec to a scene node, without its children.
func (spec *NodeSpec) Node() (scene.Node, error) {
	n := scene.Group()

	p, err := geometry(spec.Path, spec.Rect, spec.Circle)
	if err != nil {
		return n, err
	}
	n.Path = p
	if p == nil && (spec.Fill != nil || spec.Stroke != nil) {
		return n, errors.New("fill or stroke without geometry")
	}

	if spec.Fill != nil {
		fill := &scene.Fill{}
		if fill.Paint, err = spec.Fill.Paint(); err != nil {
			return n, fmt.Errorf("fill: %w", err)
		}
		if fill.Rule, err = shape.ParseFillRule(spec.Fill.Rule); err != nil {
			return n, fmt.Errorf("fill: %w", err)
		}
		n.Fill = fill
	}
	if spec.Stroke != nil {
		stroke, err := spec.Stroke.stroke()
		if err != nil {
			return n, fmt.Errorf("stroke: %w", err)
		}
		n.Stroke = stroke
	}
	if spec.Transform != nil {
		if n.Transform, err = spec.Transform.toMatrix(); err != nil {
			return n, fmt.Errorf("transform: %w", err)
		}
	}
	if spec.Clip != nil {
		clip := &scene.Clip{}
		clip.Path, err = geometry(spec.Clip.Path, spec.Clip.Rect, spec.Clip.Circle)
		if err != nil {
			return n, fmt.Errorf("clip: %w", err)
		}
		if clip.Path == nil {
			return n, errors.New("clip: no geometry")
		}
		if clip.Rule, err = shape.ParseFillRule(spec.Clip.Rule); err != nil {
			return n, fmt.Errorf("clip: %w", err)
		}
		n.Clip = clip
	}
	if spec.Opacity != nil {
		if math.IsNaN(float64(*spec.Opacity)) {
			return n, fmt.Errorf("%w: opacity is NaN", shape.ErrInvalidGeometry)
		}
		n.Opacity = max(0, min(1, *spec.Opacity))
	}
	if spec.Blend != "" {
		if n.Blend, err = paint.ParseBlendMode(spec.Blend); err != nil {
			return n, err
		}
	}
	n.Isolated = spec.Isolated
	n.Hidden = spec.Hidden
	return n, nil
}

// geometry builds the path described by one of the alternatives. The
// result is nil if none is given.
func geometry(d string, r, c []float64) (*path.Data, error) {
	given := 0
	for _, ok := range []bool{d != "", r != nil, c != nil} {
		if ok {
			given++
		}
	}
	switch {
	case given > 1:
		return nil, errors.New("only one of path, rect and circle may be given")
	case d != "":
		return shape.ParseSVG(d)
	case r != nil:
		if len(r) != 4 && len(r) != 5 {
			return nil, fmt.Errorf("rect needs 4 or 5 numbers, got %d", len(r))
		}
		if err := finite(r...); err != nil {
			return nil, err
		}
		if len(r) == 5 && r[4] > 0 {
			return shape.RoundedRect(r[0], r[1], r[2], r[3], shape.UniformRadii(r[4])), nil
		}
		return shape.Rect(r[0], r[1], r[2], r[3]), nil
	case c != nil:
		if len(c) != 3 {
			return nil, fmt.Errorf("circle needs 3 numbers, got %d", len(c))
		}
		if err := finite(c...); err != nil {
			return nil, err
		}
		return shape.Circle(c[0], c[1], c[2]), nil
	}
	return nil, nil
}

// Paint converts spec to a paint.
func (spec *PaintSpec) Paint() (paint.Paint, error) {
	given := 0
	for _, ok := range []bool{spec.Color != "", spec.Linear != nil, spec.Radial != nil} {
		if ok {
			given++
		}
	}
	if given != 1 {
		return paint.Paint{}, errors.New("exactly one of color, linear and radial must be given")
	}

	if spec.Color != "" {
		c, err := ParseColor(spec.Color)
		if err != nil {
			return paint.Paint{}, err
		}
		return paint.Solid(c), nil
	}

	g := spec.Linear
	if g == nil {
		g = spec.Radial
	}
	extend, err := paint.ParseExtend(g.Extend)
	if err != nil {
		return paint.Paint{}, err
	}
	stops := make([]paint.Stop, len(g.Stops))
	for i, s := range g.Stops {
		c, err := ParseColor(s.Color)
		if err != nil {
			return paint.Paint{}, fmt.Errorf("stop %d: %w", i, err)
		}
		stops[i] = paint.Stop{Offset: s.Offset, Color: c}
	}

	var p paint.Paint
	if spec.Linear != nil {
		start, err := point(g.Start, "start")
		if err != nil {
			return p, err
		}
		end, err := point(g.End, "end")
		if err != nil {
			return p, err
		}
		p = paint.Linear(start, end, extend, stops...)
	} else {
		center, err := point(g.Center, "center")
		if err != nil {
			return p, err
		}
		p = paint.Radial(center, g.R0, g.R1, extend, stops...)
		if g.Focus != nil {
			focus, err := point(g.Focus, "focus")
			if err != nil {
				return p, err
			}
			p = p.WithFocus(focus)
		}
	}
	if g.Matrix != nil {
		if len(g.Matrix) != 6 {
			return p, fmt.Errorf("gradient matrix needs 6 numbers, got %d", len(g.Matrix))
		}
		if err := finite(g.Matrix...); err != nil {
			return p, err
		}
		p.Transform = matrix.Matrix(g.Matrix)
	}
	return p, p.Validate()
}

func (spec *StrokeSpec) stroke() (*scene.Stroke, error) {
	pt, err := spec.PaintSpec.Paint()
	if err != nil {
		return nil, err
	}
	st := shape.DefaultStroke()
	if spec.Width != nil {
		st.Width = *spec.Width
	}
	if st.Cap, err = shape.ParseLineCap(spec.Cap); err != nil {
		return nil, err
	}
	if st.Join, err = shape.ParseLineJoin(spec.Join); err != nil {
		return nil, err
	}
	if spec.MiterLimit != nil {
		st.MiterLimit = *spec.MiterLimit
	}
	st.Dash = spec.Dash
	st.DashPhase = spec.DashPhase
	if err := st.Validate(); err != nil {
		return nil, err
	}
	return &scene.Stroke{Style: st, Paint: pt}, nil
}

// toMatrix returns the transformation described by spec.
func (spec *TransformSpec) toMatrix() (matrix.Matrix, error) {
	if spec.Matrix != nil {
		if spec.Scale != nil || spec.Rotate != 0 || spec.Translate != nil {
			return matrix.Matrix{}, errors.New("matrix cannot be combined with scale, rotate or translate")
		}
		if len(spec.Matrix) != 6 {
			return matrix.Matrix{}, fmt.Errorf("matrix needs 6 numbers, got %d", len(spec.Matrix))
		}
		if err := finite(spec.Matrix...); err != nil {
			return matrix.Matrix{}, err
		}
		return matrix.Matrix(spec.Matrix), nil
	}

	m := matrix.Identity
	switch len(spec.Scale) {
	case 0:
	case 1:
		m[0], m[3] = spec.Scale[0], spec.Scale[0]
	case 2:
		m[0], m[3] = spec.Scale[0], spec.Scale[1]
	default:
		return matrix.Matrix{}, fmt.Errorf("scale needs 1 or 2 numbers, got %d", len(spec.Scale))
	}
	if spec.Rotate != 0 {
		sin, cos := math.Sincos(spec.Rotate * math.Pi / 180)
		m = shape.Concat(m, matrix.Matrix{cos, sin, -sin, cos, 0, 0})
	}
	if spec.Translate != nil {
		t, err := point(spec.Translate, "translate")
		if err != nil {
			return matrix.Matrix{}, err
		}
		m[4] += t.X
		m[5] += t.Y
	}
	if err := finite(m[:]...); err != nil {
		return matrix.Matrix{}, err
	}
	return m, nil
}

func point(xy []float64, what string) (vec.Vec2, error) {
	if len(xy) != 2 {
		return vec.Vec2{}, fmt.Errorf("%s needs 2 numbers, got %d", what, len(xy))
	}
	if err := finite(xy...); err != nil {
		return vec.Vec2{}, err
	}
	return vec.Vec2{X: xy[0], Y: xy[1]}, nil
}

func finite(xs ...float64) error {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: non-finite number", shape.ErrInvalidGeometry)
		}
	}
	return nil
}
