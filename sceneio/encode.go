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
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/revector/paint"
	"seehuhn.de/go/revector/scene"
	"seehuhn.de/go/revector/shape"
)

// FromScene converts the contents of sc into a scene file. Nodes listed
// in names are written with the given name. Colours are quantized to 8
// bits per channel.
func FromScene(sc *scene.Scene, names map[scene.NodeID]string) *File {
	f := &File{}
	for _, id := range sc.Children(sc.Root()) {
		f.Nodes = append(f.Nodes, encodeNode(sc, id, names))
	}
	return f
}

func encodeNode(sc *scene.Scene, id scene.NodeID, names map[scene.NodeID]string) NodeSpec {
	n, _ := sc.Get(id)
	spec := NodeSpec{
		Name:     names[id],
		Path:     FormatPath(n.Path),
		Isolated: n.Isolated,
		Hidden:   n.Hidden,
	}
	if n.Fill != nil {
		spec.Fill = &FillSpec{
			PaintSpec: encodePaint(n.Fill.Paint),
			Rule:      ruleName(n.Fill.Rule),
		}
	}
	if n.Stroke != nil {
		st := n.Stroke.Style
		ss := &StrokeSpec{
			PaintSpec: encodePaint(n.Stroke.Paint),
			Dash:      st.Dash,
			DashPhase: st.DashPhase,
		}
		if st.Width != shape.DefaultLineWidth {
			ss.Width = &st.Width
		}
		if st.MiterLimit != shape.DefaultMiterLimit {
			ss.MiterLimit = &st.MiterLimit
		}
		switch st.Cap {
		case graphics.LineCapRound:
			ss.Cap = "round"
		case graphics.LineCapSquare:
			ss.Cap = "square"
		}
		switch st.Join {
		case graphics.LineJoinRound:
			ss.Join = "round"
		case graphics.LineJoinBevel:
			ss.Join = "bevel"
		}
		spec.Stroke = ss
	}
	if m := shape.Normalize(n.Transform); m != matrix.Identity {
		spec.Transform = &TransformSpec{Matrix: m[:]}
	}
	if n.Clip != nil {
		spec.Clip = &ClipSpec{
			Path: FormatPath(n.Clip.Path),
			Rule: ruleName(n.Clip.Rule),
		}
		if n.Clip.Path == nil {
			spec.Clip.Rect = []float64{0, 0, 0, 0}
		}
	}
	if n.Opacity < 1 {
		alpha := n.Opacity
		spec.Opacity = &alpha
	}
	if n.Blend != paint.SourceOver {
		spec.Blend = n.Blend.String()
	}
	for _, child := range sc.Children(id) {
		spec.Children = append(spec.Children, encodeNode(sc, child, names))
	}
	return spec
}

func encodePaint(p paint.Paint) PaintSpec {
	if p.Kind == paint.KindSolid {
		return PaintSpec{Color: FormatColor(p.Color)}
	}

	g := &GradientSpec{Stops: make([]Stop, len(p.Stops))}
	for i, s := range p.Stops {
		g.Stops[i] = Stop{Offset: s.Offset, Color: FormatColor(s.Color)}
	}
	if p.Extend != paint.ExtendPad {
		g.Extend = p.Extend.String()
	}
	if m := shape.Normalize(p.Transform); m != matrix.Identity {
		g.Matrix = m[:]
	}
	if p.Kind == paint.KindLinear {
		g.Start = xy(p.Start)
		g.End = xy(p.End)
		return PaintSpec{Linear: g}
	}
	g.Center = xy(p.Center)
	g.R0 = p.StartRadius
	g.R1 = p.EndRadius
	if p.HasFocus {
		g.Focus = xy(p.Focus)
	}
	return PaintSpec{Radial: g}
}

func ruleName(r shape.FillRule) string {
	if r == shape.NonZero {
		return ""
	}
	return r.String()
}

func xy(v vec.Vec2) []float64 {
	return []float64{v.X, v.Y}
}
