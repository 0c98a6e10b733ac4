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

package raster

import (
	"fmt"
	"image"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"golang.org/x/image/vector"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/revector/shape"
	"seehuhn.de/go/revector/tess"
)

func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

// polygons flattens p with the identity transformation.
func polygons(t testing.TB, p *path.Data) *tess.Polygons {
	t.Helper()
	out := &tess.Polygons{}
	if err := tess.New().Fill(p, out); err != nil {
		t.Fatal(err)
	}
	return out
}

// render rasterizes polys into a w×h grid of coverage values. The
// threshold selects the rasterization approach.
func render(polys *tess.Polygons, rule shape.FillRule, w, h, threshold int) []float32 {
	r := NewRasterizer(image.Rect(0, 0, w, h))
	r.smallPathThreshold = threshold
	res := make([]float32, w*h)
	r.Fill(polys, rule, func(y, xMin int, coverage []float32) {
		if y < 0 || y >= h || xMin < 0 || xMin+len(coverage) > w {
			panic(fmt.Sprintf("row %d [%d, %d) outside the clip", y, xMin, xMin+len(coverage)))
		}
		copy(res[y*w+xMin:], coverage)
	})
	return res
}

// The triangle (0,0)→(10,0)→(10,1)→close has a diagonal edge y = x/10.
// Each pixel X should have coverage (2X+1)/20: 0.05, 0.15, ..., 0.95.
func TestTriangleCoverage(t *testing.T) {
	triangle := shape.Polygon(pt(0, 0), pt(10, 0), pt(10, 1))
	for _, threshold := range []int{1 << 30, 0} {
		got := render(polygons(t, triangle), shape.NonZero, 10, 1, threshold)
		for x := range 10 {
			want := float32(2*x+1) / 20
			if math.Abs(float64(got[x]-want)) > 1e-6 {
				t.Errorf("threshold %d, pixel %d: coverage %.4f, want %.4f",
					threshold, x, got[x], want)
			}
		}
	}
}

func TestFullCoverage(t *testing.T) {
	tests := []struct {
		name       string
		p          *path.Data
		w, h       int
		inside     image.Rectangle
		totalCover float64
	}{
		{"surface", shape.Rect(0, 0, 100, 100), 100, 100, image.Rect(0, 0, 100, 100), 10000},
		{"inner", shape.Rect(10, 10, 10, 10), 40, 40, image.Rect(10, 10, 20, 20), 100},
		{"overhang", shape.Rect(-10, -5, 30, 20), 16, 16, image.Rect(0, 0, 16, 15), 16 * 15},
		{"reversed", shape.Polygon(pt(0, 0), pt(0, 8), pt(8, 8), pt(8, 0)), 8, 8, image.Rect(0, 0, 8, 8), 64},
	}
	for _, tc := range tests {
		for _, approach := range []struct {
			name      string
			threshold int
		}{{"A", 1 << 30}, {"B", 0}} {
			t.Run(tc.name+"_"+approach.name, func(t *testing.T) {
				got := render(polygons(t, tc.p), shape.NonZero, tc.w, tc.h, approach.threshold)
				total := 0.0
				for y := range tc.h {
					for x := range tc.w {
						c := got[y*tc.w+x]
						total += float64(c)
						in := image.Pt(x, y).In(tc.inside)
						if in && c != 1 {
							t.Fatalf("pixel (%d,%d): coverage %g, want 1", x, y, c)
						} else if !in && c != 0 {
							t.Fatalf("pixel (%d,%d): coverage %g, want 0", x, y, c)
						}
					}
				}
				if total != tc.totalCover {
					t.Errorf("total coverage %g, want %g", total, tc.totalCover)
				}
			})
		}
	}
}

func TestHalfPixel(t *testing.T) {
	got := render(polygons(t, shape.Rect(0.5, 0, 1, 1)), shape.NonZero, 3, 1, 1<<30)
	want := []float32{0.5, 0.5, 0}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("pixel %d: coverage %g, want %g", i, got[i], want[i])
		}
	}
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) <= 1e-5
}

// TestFillRules rasterizes shapes with regions of winding number 2. Under
// the nonzero rule these regions are filled, under the even-odd rule they
// are empty.
func TestFillRules(t *testing.T) {
	star := &path.Data{}
	for i := range 5 {
		a := float64(2*i) * 2 * math.Pi / 5
		p := pt(50+40*math.Sin(a), 50-40*math.Cos(a))
		if i == 0 {
			star = star.MoveTo(p)
		} else {
			star = star.LineTo(p)
		}
	}
	star = star.Close()

	// two loops of the same orientation, drawn as one subpath
	figureEight := (&path.Data{}).
		MoveTo(pt(10, 10)).LineTo(pt(60, 10)).LineTo(pt(60, 60)).LineTo(pt(10, 60)).
		LineTo(pt(10, 10)).LineTo(pt(40, 30)).LineTo(pt(90, 30)).LineTo(pt(90, 90)).
		LineTo(pt(40, 90)).LineTo(pt(40, 30)).
		Close()

	tests := []struct {
		name           string
		p              *path.Data
		overlap, loop  image.Point
		nzOver, eoOver float32
	}{
		{"star", star, image.Pt(50, 50), image.Pt(50, 15), 1, 0},
		{"figure eight", figureEight, image.Pt(50, 45), image.Pt(20, 20), 1, 0},
	}
	for _, tc := range tests {
		polys := polygons(t, tc.p)
		for _, threshold := range []int{1 << 30, 0} {
			nz := render(polys, shape.NonZero, 100, 100, threshold)
			eo := render(polys, shape.EvenOdd, 100, 100, threshold)
			at := func(buf []float32, p image.Point) float32 { return buf[p.Y*100+p.X] }

			if c := at(nz, tc.overlap); !near(c, tc.nzOver) {
				t.Errorf("%s: nonzero overlap coverage %g, want %g", tc.name, c, tc.nzOver)
			}
			if c := at(eo, tc.overlap); !near(c, tc.eoOver) {
				t.Errorf("%s: even-odd overlap coverage %g, want %g", tc.name, c, tc.eoOver)
			}
			if c := at(nz, tc.loop); !near(c, 1) {
				t.Errorf("%s: nonzero loop coverage %g", tc.name, c)
			}
			if c := at(eo, tc.loop); !near(c, 1) {
				t.Errorf("%s: even-odd loop coverage %g", tc.name, c)
			}
		}
	}
}

func randomPolygon(rng *rand.Rand, w, h float64) *path.Data {
	p := (&path.Data{}).MoveTo(pt(rng.Float64()*w, rng.Float64()*h))
	n := 3 + rng.IntN(10)
	for range n {
		p = p.LineTo(pt(rng.Float64()*w, rng.Float64()*h))
	}
	return p.Close()
}

// TestApproachesAgree checks that the 2D buffer and the active edge list
// give the same coverage.
func TestApproachesAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := range 50 {
		polys := polygons(t, randomPolygon(rng, 80, 60))
		polys.Append(polygons(t, shape.Circle(40, 30, 10+rng.Float64()*20)))
		for _, rule := range []shape.FillRule{shape.NonZero, shape.EvenOdd} {
			a := render(polys, rule, 70, 50, 1<<30)
			b := render(polys, rule, 70, 50, 0)
			for j := range a {
				if math.Abs(float64(a[j]-b[j])) > 1e-5 {
					t.Fatalf("shape %d, %s, pixel %d: A=%g B=%g", i, rule, j, a[j], b[j])
				}
			}
		}
	}
}

// TestAgainstExactArea compares nonzero and even-odd fills with the
// exact area of the shape inside each pixel.
func TestAgainstExactArea(t *testing.T) {
	const w, h = 64, 48
	rng := rand.New(rand.NewPCG(5, 6))
	for i := range 30 {
		var p *path.Data
		if i%3 == 0 {
			p = shape.Ellipse(32, 24, 5+rng.Float64()*30, 5+rng.Float64()*20)
		} else {
			p = randomPolygon(rng, w, h)
		}
		polys := polygons(t, p)
		for _, rule := range []shape.FillRule{shape.NonZero, shape.EvenOdd} {
			got := render(polys, rule, w, h, 1<<30)
			want := ExactCoverage(polys, rule, w, h)
			for j, c := range got {
				if math.Abs(float64(c)-want[j]) > 1.0/64 {
					t.Fatalf("shape %d, %s, pixel (%d,%d): coverage %.4f, exact %.4f",
						i, rule, j%w, j/w, c, want[j])
				}
			}
		}
	}
}

// TestExactCoverage checks the reference coverage itself on a shape
// whose pixel areas are known.
func TestExactCoverage(t *testing.T) {
	// the triangle (0,0), (4,0), (0,4) covers half of each pixel on
	// the diagonal
	tri := polygons(t, shape.Polygon(pt(0, 0), pt(4, 0), pt(0, 4)))
	c := ExactCoverage(tri, shape.NonZero, 4, 4)
	for y := range 4 {
		for x := range 4 {
			want := 0.0
			switch {
			case x+y < 3:
				want = 1
			case x+y == 3:
				want = 0.5
			}
			if math.Abs(c[y*4+x]-want) > 1e-9 {
				t.Errorf("pixel (%d,%d): %g, want %g", x, y, c[y*4+x], want)
			}
		}
	}
}

func TestClip(t *testing.T) {
	polys := polygons(t, shape.Rect(0, 0, 20, 20))
	r := NewRasterizer(image.Rect(5, 5, 10, 8))
	rows := 0
	r.Fill(polys, shape.NonZero, func(y, xMin int, coverage []float32) {
		rows++
		if y < 5 || y >= 8 || xMin != 5 || len(coverage) != 5 {
			t.Errorf("row %d: [%d, %d)", y, xMin, xMin+len(coverage))
		}
	})
	if rows != 3 {
		t.Errorf("%d rows emitted, want 3", rows)
	}

	r.Clip = image.Rect(30, 30, 40, 40)
	r.Fill(polys, shape.NonZero, func(y, _ int, _ []float32) {
		t.Errorf("unexpected row %d", y)
	})
}

func TestEmpty(t *testing.T) {
	r := NewRasterizer(image.Rect(0, 0, 10, 10))
	emit := func(y, _ int, _ []float32) { t.Errorf("unexpected row %d", y) }
	r.Fill(nil, shape.NonZero, emit)
	r.Fill(&tess.Polygons{}, shape.NonZero, emit)
	r.Fill(polygons(t, shape.Polygon(pt(1, 1), pt(5, 1), pt(9, 1))), shape.NonZero, emit)
}

func TestMask(t *testing.T) {
	r := NewRasterizer(image.Rect(0, 0, 20, 20))
	a := r.Mask(polygons(t, shape.Rect(0, 0, 10, 10)), shape.NonZero)
	b := r.Mask(polygons(t, shape.Rect(5, 5, 10, 10)), shape.NonZero)

	if a.Rect != image.Rect(0, 0, 11, 11) {
		t.Errorf("mask rectangle %v", a.Rect)
	}
	if a.At(3, 3) != 1 || a.At(10, 3) != 0 || a.At(15, 15) != 0 {
		t.Error("wrong coverage in mask a")
	}

	c := a.Intersect(b)
	if c.At(7, 7) != 1 || c.At(3, 3) != 0 || c.At(12, 12) != 0 {
		t.Error("wrong coverage in intersection")
	}
	if a.Intersect(nil) != a || (*Mask)(nil).Intersect(b) != b {
		t.Error("nil mask is not neutral")
	}

	var unclipped *Mask
	if unclipped.At(100, 100) != 1 || unclipped.IsEmpty() {
		t.Error("nil mask should cover everything")
	}

	row := c.Row(7, 0, 20, nil)
	for x, v := range row {
		want := float32(0)
		if x >= 5 && x < 10 {
			want = 1
		}
		if v != want {
			t.Errorf("row pixel %d: %g, want %g", x, v, want)
		}
	}

	disjoint := a.Intersect(r.Mask(polygons(t, shape.Rect(15, 15, 2, 2)), shape.NonZero))
	if !disjoint.IsEmpty() {
		t.Error("disjoint masks have non-empty intersection")
	}
	if !r.Mask(nil, shape.NonZero).IsEmpty() {
		t.Error("mask of no polygons is not empty")
	}
}

func TestHalfCoverageMask(t *testing.T) {
	r := NewRasterizer(image.Rect(0, 0, 4, 4))
	half := r.Mask(polygons(t, shape.Rect(0, 0, 4, 2)), shape.NonZero)
	sq := half.Intersect(half)
	if sq.At(1, 1) != 1 || sq.At(1, 2) != 0 {
		t.Error("full coverage not preserved")
	}

	edge := r.Mask(polygons(t, shape.Rect(0, 0, 4, 1.5)), shape.NonZero)
	sq = edge.Intersect(edge)
	if v := sq.At(0, 1); math.Abs(float64(v)-0.25) > 1e-6 {
		t.Errorf("product of two half-covered pixels is %g", v)
	}
}

// ring returns an annulus made of two circles of the same orientation,
// for use with the even-odd rule.
func ring(b *testing.B, size int) *tess.Polygons {
	c := float64(size) / 2
	polys := polygons(b, shape.Circle(c, c, float64(size)*0.45))
	polys.Append(polygons(b, shape.Circle(c, c, float64(size)*0.3)))
	return polys
}

func BenchmarkFill(b *testing.B) {
	for _, size := range []int{20, 200, 2000} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			polys := ring(b, size)
			r := NewRasterizer(image.Rect(0, 0, size, size))
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			emit := func(y, xMin int, coverage []float32) {
				row := dst.Pix[y*dst.Stride+xMin:]
				for i, c := range coverage {
					row[i] = uint8(c * 255)
				}
			}

			b.ReportAllocs()
			for b.Loop() {
				r.Fill(polys, shape.EvenOdd, emit)
			}
		})
	}
}

// BenchmarkVector draws the same shape with golang.org/x/image/vector,
// which has no even-odd rule; the inner circle is reversed instead.
func BenchmarkVector(b *testing.B) {
	for _, size := range []int{20, 200, 2000} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			polys := ring(b, size)
			r := vector.NewRasterizer(size, size)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))

			b.ReportAllocs()
			for b.Loop() {
				r.Reset(size, size)
				for i := range polys.Len() {
					pts := polys.Polygon(i)
					if i == 1 {
						pts = slices.Clone(pts)
						slices.Reverse(pts)
					}
					r.MoveTo(float32(pts[0].X), float32(pts[0].Y))
					for _, q := range pts[1:] {
						r.LineTo(float32(q.X), float32(q.Y))
					}
					r.ClosePath()
				}
				r.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
			}
		})
	}
}
