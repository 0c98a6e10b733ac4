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

// Package testcases holds geometry cases shared by the rasterizer tests,
// the benchmarks and the reference image tools.
//
// Every case draws a single path in white on a black canvas, so that the
// resulting grey levels are the pixel coverage.
package testcases

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/revector/paint"
	"seehuhn.de/go/revector/scene"
	"seehuhn.de/go/revector/shape"
)

// TestCase defines a single rendering test.
type TestCase struct {
	Name   string        // lowercase a-z and _ only
	Path   *path.Data    // the geometry to render
	Width  int           // canvas width in pixels
	Height int           // canvas height in pixels
	Op     Operation     // fill or stroke
	CTM    matrix.Matrix // transformation matrix (zero-value means no transform)
}

// Operation is the rendering operation to apply to the path.
type Operation interface {
	isOperation()
}

// Fill specifies a fill operation.
type Fill struct {
	Rule shape.FillRule
}

func (Fill) isOperation() {}

// Stroke specifies a stroke operation.
type Stroke struct {
	shape.StrokeStyle
}

func (Stroke) isOperation() {}

// Node returns a scene node which draws the case in white.
func (tc *TestCase) Node() scene.Node {
	n := scene.Group()
	n.Path = tc.Path
	n.Transform = shape.Normalize(tc.CTM)
	switch op := tc.Op.(type) {
	case Fill:
		n.Fill = &scene.Fill{Rule: op.Rule, Paint: paint.Solid(paint.White)}
	case Stroke:
		n.Stroke = &scene.Stroke{Style: op.StrokeStyle, Paint: paint.Solid(paint.White)}
	}
	return n
}

// Scene returns a scene containing only the node of the case.
func (tc *TestCase) Scene() (*scene.Scene, error) {
	sc := scene.New()
	if _, err := sc.Add(sc.Root(), tc.Node()); err != nil {
		return nil, err
	}
	return sc, nil
}

// All contains all test cases, grouped by category.
// The category name is used as a prefix in reference image filenames.
var All = map[string][]TestCase{
	"fill":      fillCases,
	"stroke":    strokeCases,
	"curve":     curveCases,
	"dash":      dashCases,
	"ctm":       ctmCases,
	"precision": precisionCases,
	"subpath":   subpathCases,
}

func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

func svg(d string) *path.Data {
	return shape.MustParseSVG(d)
}

func stroke(width float64, modify ...func(*shape.StrokeStyle)) Stroke {
	st := shape.DefaultStroke()
	st.Width = width
	for _, m := range modify {
		m(&st)
	}
	return Stroke{st}
}
