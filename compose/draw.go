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
	"image"
	"slices"

	"seehuhn.de/go/revector/paint"
	"seehuhn.de/go/revector/raster"
	"seehuhn.de/go/revector/shape"
	"seehuhn.de/go/revector/surface"
	"seehuhn.de/go/revector/tess"
)

// render draws the subtree of item i into dst. A nil clip means that the
// subtree is not clipped.
func (f *frame) render(i int, dst *surface.Layer, clip *raster.Mask) error {
	if err := f.ctx.Err(); err != nil {
		return err
	}
	it := &f.items[i]
	n := &it.node

	if it.need[partClip] {
		m, size, err := f.clipMask(it.parts[partClip], it.rule(partClip), dst, clip)
		if err != nil {
			return err
		}
		defer f.budget.release(size)
		if m.IsEmpty() {
			f.stats.Culled++
			return nil
		}
		clip = m
	}

	if !n.Isolated {
		return f.renderContent(it, dst, clip, it.alpha, n.Blend)
	}

	r := f.bounds(i, visibleRect(dst, clip))
	if r.Empty() {
		f.stats.Culled++
		return nil
	}
	size := surface.LayerBytes(r)
	if err := f.budget.reserve(size, "isolation layer"); err != nil {
		return err
	}
	defer f.budget.release(size)
	layer := surface.NewLayer(r)
	f.stats.Layers++

	// the clip of the node applies when the layer is composited
	if err := f.renderContent(it, layer, nil, 1, paint.SourceOver); err != nil {
		return err
	}
	f.compositeLayer(layer, dst, clip, it.alpha, n.Blend)
	return nil
}

func (f *frame) renderContent(it *item, dst *surface.Layer, clip *raster.Mask, alpha float32, blend paint.BlendMode) error {
	for _, p := range []part{partFill, partStroke} {
		polys := it.parts[p]
		if polys.IsEmpty() {
			continue
		}
		var pt paint.Paint
		if p == partFill {
			pt = it.node.Fill.Paint
		} else {
			pt = it.node.Stroke.Paint
		}
		if err := f.draw(it, polys, it.rule(p), pt, blend, alpha, dst, clip); err != nil {
			return err
		}
	}
	for _, c := range it.children {
		if err := f.render(c, dst, clip); err != nil {
			return err
		}
	}
	return nil
}

// visibleRect returns the part of dst which clip does not hide entirely.
func visibleRect(dst *surface.Layer, clip *raster.Mask) image.Rectangle {
	if clip == nil {
		return dst.Rect
	}
	return dst.Rect.Intersect(clip.Rect)
}

// clipMask rasterizes a clip path and intersects it with the current clip.
// The returned size must be released from the budget by the caller.
func (f *frame) clipMask(polys *tess.Polygons, rule shape.FillRule, dst *surface.Layer, clip *raster.Mask) (*raster.Mask, int, error) {
	ras := f.r.ras
	ras.Clip = visibleRect(dst, clip)
	r := raster.Bounds(polys.Bounds, ras.Clip)
	size := 4*r.Dx()*r.Dy() + ras.BufferSize(r)
	if polys.IsEmpty() {
		size = 0
	}
	if clip != nil {
		size += 4 * r.Dx() * r.Dy()
	}
	if err := f.budget.reserve(size, "clip mask"); err != nil {
		return nil, 0, err
	}
	m := ras.Mask(polys, rule)
	if clip != nil {
		m = clip.Intersect(m)
	}
	return m, size, nil
}

// draw rasterizes one polygon set and composites it into dst.
func (f *frame) draw(it *item, polys *tess.Polygons, rule shape.FillRule, p paint.Paint, blend paint.BlendMode, alpha float32, dst *surface.Layer, clip *raster.Mask) error {
	ras := f.r.ras
	ras.Clip = visibleRect(dst, clip)
	r := raster.Bounds(polys.Bounds, ras.Clip)
	if r.Empty() {
		f.stats.Culled++
		return nil
	}
	toUser, ok := shape.Invert(it.ctm)
	if !ok {
		// a singular transformation leaves no area to paint
		return nil
	}
	size := ras.BufferSize(r) + 16*r.Dx()
	if err := f.budget.reserve(size, "coverage buffer"); err != nil {
		return err
	}
	defer f.budget.release(size)
	f.stats.Drawn++

	sampler := paint.NewSampler(p, toUser)
	constant := sampler.IsConstant()
	color := sampler.At(0, 0)
	direct := p.IsOpaqueSolid() && blend == paint.SourceOver && alpha >= 1

	ras.Fill(polys, rule, func(y, x0 int, cov []float32) {
		x1 := x0 + len(cov)
		row := dst.Row(y, x0, x1)
		var clipRow []float32
		if clip != nil {
			f.clipBuf = clip.Row(y, x0, x1, f.clipBuf)
			clipRow = f.clipBuf
		}
		if !constant {
			f.colorBuf = slices.Grow(f.colorBuf[:0], len(cov))[:len(cov)]
			sampler.Row(y, x0, f.colorBuf)
		}
		for k, c := range cov {
			if clipRow != nil {
				c *= clipRow[k]
			}
			if c <= 0 {
				continue
			}
			src := color
			if !constant {
				src = f.colorBuf[k]
			}
			if direct && c >= 1 {
				row[k] = src
				continue
			}
			if alpha < 1 {
				src = src.Scale(alpha)
			}
			row[k] = paint.Composite(blend, src, row[k], c)
		}
	})
	return nil
}

// compositeLayer blends an isolation layer into dst.
func (f *frame) compositeLayer(layer, dst *surface.Layer, clip *raster.Mask, alpha float32, blend paint.BlendMode) {
	r := layer.Rect.Intersect(dst.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		src := layer.Row(y, r.Min.X, r.Max.X)
		row := dst.Row(y, r.Min.X, r.Max.X)
		var clipRow []float32
		if clip != nil {
			f.clipBuf = clip.Row(y, r.Min.X, r.Max.X, f.clipBuf)
			clipRow = f.clipBuf
		}
		for k, s := range src {
			c := float32(1)
			if clipRow != nil {
				c = clipRow[k]
			}
			if c <= 0 {
				continue
			}
			if alpha < 1 {
				s = s.Scale(alpha)
			}
			row[k] = paint.Composite(blend, s, row[k], c)
		}
	}
}
