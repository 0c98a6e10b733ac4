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

// Package revector is a 2D vector graphics engine.
//
// A host creates an [Engine], announces its pixel buffer with
// [Engine.SurfaceChanged] and then calls [Engine.RenderFrame] once per
// frame with a retained [scene.Scene]:
//
//	eng := revector.New(revector.WithMemoryLimit(64 << 20))
//	defer eng.Close()
//
//	if err := eng.SurfaceChanged(w, h, surface.RGBA8Premul); err != nil {
//		return err
//	}
//	sc := scene.New()
//	sc.Add(sc.Root(), scene.Shape(shape.Circle(50, 50, 40), paint.Solid(paint.Black)))
//	err := eng.RenderFrame(ctx, sc, surf, revector.WithClear(paint.White))
//
// Paths are flattened and stroked by package tess, rasterized with
// analytic anti-aliasing by package raster and composited in linear,
// premultiplied float32 colour by package compose. A frame which fails
// leaves the surface unchanged.
package revector
