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

// Command genpdf writes every geometry test case as a single page PDF,
// white on black, and renders it to a PNG reference image using
// Ghostscript. Pass -png=false to skip the Ghostscript step.
//
// Run it from the repository root; the default output directory is where
// the raster package tests look for reference images.
package main

import (
	"flag"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/revector/shape"
	"seehuhn.de/go/revector/testcases"
)

func main() {
	refDir := flag.String("o", filepath.Join("raster", "testdata", "reference"), "output directory")
	withPNG := flag.Bool("png", true, "render PNG files using Ghostscript")
	flag.Parse()

	if err := os.MkdirAll(*refDir, 0755); err != nil {
		panic(err)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			name := category + "_" + tc.Name
			pdfPath := filepath.Join(*refDir, name+".pdf")
			pngPath := filepath.Join(*refDir, name+".png")

			if err := generatePDF(&tc, pdfPath); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			if !*withPNG {
				continue
			}
			if err := renderPNG(pdfPath, pngPath); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
		}
	}
}

func generatePDF(tc *testcases.TestCase, pdfPath string) error {
	// one point per pixel
	paper := &pdf.Rectangle{
		URx: float64(tc.Width),
		URy: float64(tc.Height),
	}

	page, err := document.CreateSinglePage(pdfPath, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	// black background, so that grey levels are coverage values
	page.SetFillColor(color.DeviceGray(0))
	page.Rectangle(0, 0, float64(tc.Width), float64(tc.Height))
	page.Fill()

	// PDF origin is bottom-left; test cases assume top-left
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, float64(tc.Height)})

	if ctm := shape.Normalize(tc.CTM); ctm != matrix.Identity {
		page.Transform(ctm)
	}

	page.SetFillColor(color.DeviceGray(1))
	page.SetStrokeColor(color.DeviceGray(1))

	// stroke parameters must be set before the path is constructed
	if op, ok := tc.Op.(testcases.Stroke); ok {
		page.SetLineWidth(op.Width)
		page.SetLineCap(op.Cap)
		page.SetLineJoin(op.Join)
		page.SetMiterLimit(op.MiterLimit)
		if len(op.Dash) > 0 {
			page.SetLineDash(op.Dash, op.DashPhase)
		}
	}

	// PDF has no quadratic Béziers
	for cmd, pts := range tc.Path.Iter().ToCubic() {
		switch cmd {
		case path.CmdMoveTo:
			page.MoveTo(pts[0].X, pts[0].Y)
		case path.CmdLineTo:
			page.LineTo(pts[0].X, pts[0].Y)
		case path.CmdCubeTo:
			page.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case path.CmdClose:
			page.ClosePath()
		}
	}

	switch op := tc.Op.(type) {
	case testcases.Fill:
		if op.Rule == shape.EvenOdd {
			page.FillEvenOdd()
		} else {
			page.Fill()
		}
	case testcases.Stroke:
		page.Stroke()
	}

	return page.Close()
}

func renderPNG(pdfPath, pngPath string) error {
	// one point per pixel, 8-bit grey, 4x4 anti-aliasing
	cmd := exec.Command(
		"gs", "-q",
		"-sDEVICE=pnggray",
		"-r72",
		"-dGraphicsAlphaBits=4",
		"-o", pngPath,
		pdfPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
