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

package compose

import (
	"context"
	"image"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/revector/paint"
	"seehuhn.de/go/revector/raster"
	"seehuhn.de/go/revector/scene"
	"seehuhn.de/go/revector/shape"
	"seehuhn.de/go/revector/tess"
)

// frame holds the state of one call to Renderer.Render.
type frame struct {
	ctx       context.Context
	r         *Renderer
	scene     *scene.Scene
	tolerance float64
	visible   image.Rectangle
	budget    budget
	stats     Stats

	items []item

	clipBuf  []float32
	colorBuf []paint.Premul
}

// item is a visible scene node, in paint order.
type item struct {
	id       scene.NodeID
	node     scene.Node
	geomRev  uint64
	ctm      matrix.Matrix
	alpha    float32 // accumulated opacity
	children []int

	need  [numParts]bool
	parts [numParts]*tess.Polygons
}

// collect appends the subtree below id to f.items and returns the index of
// the item for id, or -1 if nothing in the subtree can be visible.
func (f *frame) collect(id scene.NodeID, parentCTM matrix.Matrix, alpha float32) int {
	n, err := f.scene.Get(id)
	if err != nil {
		return -1
	}
	f.stats.Nodes++
	if n.Hidden {
		return -1
	}
	alpha *= n.Opacity
	if alpha <= 0 {
		return -1
	}
	ctm := shape.Concat(shape.Normalize(n.Transform), parentCTM)

	idx := len(f.items)
	it := item{
		id:      id,
		node:    n,
		geomRev: f.scene.GeometryRevision(id),
		ctm:     ctm,
		alpha:   alpha,
	}
	if n.Clip != nil {
		if !f.onScreen(n.Clip.Path, ctm, 0) {
			f.stats.Culled++
			return -1
		}
		it.need[partClip] = true
	}
	if n.Path != nil {
		if n.Fill != nil {
			if f.onScreen(n.Path, ctm, 0) {
				it.need[partFill] = true
			} else {
				f.stats.Culled++
			}
		}
		if n.Stroke != nil && n.Stroke.Style.Width > 0 {
			if f.onScreen(n.Path, ctm, strokePad(n.Stroke.Style)) {
				it.need[partStroke] = true
			} else {
				f.stats.Culled++
			}
		}
	}
	f.items = append(f.items, it)

	if n.Isolated {
		// the opacity is applied when compositing the layer
		alpha = 1
	}
	for _, c := range f.scene.Children(id) {
		if k := f.collect(c, ctm, alpha); k >= 0 {
			f.items[idx].children = append(f.items[idx].children, k)
		}
	}
	return idx
}

// onScreen reports whether the path p, widened by pad user space units on
// every side and transformed by ctm, may touch the visible area.
func (f *frame) onScreen(p *path.Data, ctm matrix.Matrix, pad float64) bool {
	x0, y0, x1, y1, ok := shape.Bounds(p)
	if !ok {
		return false
	}
	corners := [4]vec.Vec2{
		{X: x0 - pad, Y: y0 - pad},
		{X: x1 + pad, Y: y0 - pad},
		{X: x0 - pad, Y: y1 + pad},
		{X: x1 + pad, Y: y1 + pad},
	}
	var box rect.Rect
	for i, c := range corners {
		d := shape.Apply(ctm, c)
		if i == 0 {
			box = rect.Rect{LLx: d.X, LLy: d.Y, URx: d.X, URy: d.Y}
			continue
		}
		box.LLx = min(box.LLx, d.X)
		box.LLy = min(box.LLy, d.Y)
		box.URx = max(box.URx, d.X)
		box.URy = max(box.URy, d.Y)
	}
	return !raster.Bounds(box, f.visible).Empty()
}

// strokePad returns how far, in user space, the outline of a stroke can
// extend beyond the control points of its path.
func strokePad(st shape.StrokeStyle) float64 {
	k := math.Sqrt2 // corners of square caps
	if st.Join == graphics.LineJoinMiter {
		k = max(k, st.MiterLimit)
	}
	return st.Width / 2 * k
}

// bounds returns the pixels touched by the subtree of item i, within clip.
func (f *frame) bounds(i int, clip image.Rectangle) image.Rectangle {
	it := &f.items[i]
	if it.need[partClip] {
		polys := it.parts[partClip]
		if polys.IsEmpty() {
			return image.Rectangle{}
		}
		clip = raster.Bounds(polys.Bounds, clip)
	}

	var r image.Rectangle
	for _, p := range []part{partFill, partStroke} {
		if polys := it.parts[p]; !polys.IsEmpty() {
			r = r.Union(raster.Bounds(polys.Bounds, clip))
		}
	}
	for _, c := range it.children {
		r = r.Union(f.bounds(c, clip))
	}
	return r
}
