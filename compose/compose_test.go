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
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/revector/paint"
	"seehuhn.de/go/revector/scene"
	"seehuhn.de/go/revector/shape"
	"seehuhn.de/go/revector/surface"
)

var (
	red  = paint.RGBA(1, 0, 0, 1)
	blue = paint.RGBA(0, 0, 1, 1)
)

func newSurface(t *testing.T, w, h int, f surface.Format) *surface.Surface {
	t.Helper()
	s, err := surface.New(w, h, f)
	require.NoError(t, err)
	return s
}

func assertColor(t *testing.T, want paint.Color, s *surface.Surface, x, y int) {
	t.Helper()
	got := s.At(x, y)
	assert.InDelta(t, want.R, got.R, 1e-5, "R at (%d,%d)", x, y)
	assert.InDelta(t, want.G, got.G, 1e-5, "G at (%d,%d)", x, y)
	assert.InDelta(t, want.B, got.B, 1e-5, "B at (%d,%d)", x, y)
	assert.InDelta(t, want.A, got.A, 1e-5, "A at (%d,%d)", x, y)
}

func TestEmptyScene(t *testing.T) {
	s := newSurface(t, 100, 100, surface.RGBA8Premul)
	s.Clear(paint.White)
	orig := append([]byte(nil), s.Pix...)

	r := NewRenderer(Options{})
	stats, err := r.Render(context.Background(), scene.New(), s, nil)
	require.NoError(t, err)
	assert.Equal(t, orig, s.Pix)
	assert.Equal(t, 1, stats.Nodes)
	assert.Zero(t, stats.Drawn)

	// with a clear colour, the surface is cleared
	_, err = r.Render(context.Background(), scene.New(), s, &paint.Transparent)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, len(s.Pix)), s.Pix)
}

func TestFullSurfaceRect(t *testing.T) {
	sc := scene.New()
	_, err := sc.Add(sc.Root(), scene.Shape(shape.Rect(0, 0, 100, 100), paint.Solid(red)))
	require.NoError(t, err)

	for _, f := range []surface.Format{surface.RGBA8Premul, surface.RGBAF32Premul} {
		s := newSurface(t, 100, 100, f)
		_, err := NewRenderer(Options{}).Render(context.Background(), sc, s, nil)
		require.NoError(t, err)
		for y := range 100 {
			for x := range 100 {
				if got := s.At(x, y); got != red {
					t.Fatalf("%s: pixel (%d,%d) = %v", f, x, y, got)
				}
			}
		}
	}
}

// overlapping builds a half transparent group with a red and a blue
// rectangle, which overlap in the columns 4 and 5.
func overlapping(t *testing.T, isolated bool) *scene.Scene {
	sc := scene.New()
	g := scene.Group()
	g.Opacity = 0.5
	g.Isolated = isolated
	group, err := sc.Add(sc.Root(), g)
	require.NoError(t, err)
	_, err = sc.Add(group, scene.Shape(shape.Rect(0, 0, 6, 10), paint.Solid(red)))
	require.NoError(t, err)
	_, err = sc.Add(group, scene.Shape(shape.Rect(4, 0, 6, 10), paint.Solid(blue)))
	require.NoError(t, err)
	return sc
}

func TestIsolation(t *testing.T) {
	ctx := context.Background()

	s := newSurface(t, 10, 10, surface.RGBAF32Premul)
	stats, err := NewRenderer(Options{}).Render(ctx, overlapping(t, true), s, &paint.White)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Layers)
	assertColor(t, paint.RGBA(1, 0.5, 0.5, 1), s, 2, 5)
	assertColor(t, paint.RGBA(0.5, 0.5, 1, 1), s, 5, 5)
	assertColor(t, paint.RGBA(0.5, 0.5, 1, 1), s, 8, 5)

	s = newSurface(t, 10, 10, surface.RGBAF32Premul)
	stats, err = NewRenderer(Options{}).Render(ctx, overlapping(t, false), s, &paint.White)
	require.NoError(t, err)
	assert.Zero(t, stats.Layers)
	assertColor(t, paint.RGBA(1, 0.5, 0.5, 1), s, 2, 5)
	assertColor(t, paint.RGBA(0.5, 0.25, 0.75, 1), s, 5, 5)
	assertColor(t, paint.RGBA(0.5, 0.5, 1, 1), s, 8, 5)
}

func TestNestedClips(t *testing.T) {
	sc := scene.New()
	g := scene.Group()
	g.Clip = &scene.Clip{Path: shape.Rect(0, 0, 4.5, 10)}
	group, err := sc.Add(sc.Root(), g)
	require.NoError(t, err)
	n := scene.Shape(shape.Rect(0, 0, 10, 10), paint.Solid(paint.Black))
	n.Clip = &scene.Clip{Path: shape.Rect(0, 0, 10, 4.5)}
	_, err = sc.Add(group, n)
	require.NoError(t, err)

	s := newSurface(t, 10, 10, surface.RGBAF32Premul)
	_, err = NewRenderer(Options{}).Render(context.Background(), sc, s, nil)
	require.NoError(t, err)

	alpha := func(x, y int) float32 { return s.At(x, y).A }
	assert.InDelta(t, 1, alpha(2, 2), 1e-6)
	assert.InDelta(t, 0.5, alpha(4, 2), 1e-6)
	assert.InDelta(t, 0.5, alpha(2, 4), 1e-6)
	assert.InDelta(t, 0.25, alpha(4, 4), 1e-6)
	assert.Zero(t, alpha(6, 2))
	assert.Zero(t, alpha(2, 6))
}

func TestStroke(t *testing.T) {
	st := shape.DefaultStroke()
	st.Width = 2
	st.Cap = graphics.LineCapButt
	sc := scene.New()
	n := scene.Group()
	n.Path = shape.Line(1, 5, 9, 5)
	n.Stroke = &scene.Stroke{Style: st, Paint: paint.Solid(paint.Black)}
	_, err := sc.Add(sc.Root(), n)
	require.NoError(t, err)

	s := newSurface(t, 10, 10, surface.RGBAF32Premul)
	stats, err := NewRenderer(Options{}).Render(context.Background(), sc, s, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Drawn)
	for x := range 10 {
		want := float32(0)
		if x >= 1 && x < 9 {
			want = 1
		}
		assert.InDelta(t, want, s.At(x, 4).A, 1e-6, "x=%d", x)
		assert.InDelta(t, want, s.At(x, 5).A, 1e-6, "x=%d", x)
		assert.Zero(t, s.At(x, 3).A)
		assert.Zero(t, s.At(x, 6).A)
	}
}

func TestGradientFill(t *testing.T) {
	sc := scene.New()
	grad := paint.Linear(vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 10, Y: 0}, paint.ExtendPad,
		paint.Stop{Offset: 0, Color: paint.Black},
		paint.Stop{Offset: 1, Color: paint.White})
	n := scene.Shape(shape.Rect(0, 0, 5, 5), grad)
	n.Transform = matrix.Matrix{2, 0, 0, 2, 0, 0}
	_, err := sc.Add(sc.Root(), n)
	require.NoError(t, err)

	s := newSurface(t, 10, 10, surface.RGBAF32Premul)
	_, err = NewRenderer(Options{}).Render(context.Background(), sc, s, nil)
	require.NoError(t, err)

	// the gradient is given in user space, which is scaled by 2
	assertColor(t, paint.RGBA(0.025, 0.025, 0.025, 1), s, 0, 3)
	assertColor(t, paint.RGBA(0.475, 0.475, 0.475, 1), s, 9, 3)
}

func TestBlendMode(t *testing.T) {
	sc := scene.New()
	n := scene.Shape(shape.Rect(0, 0, 10, 10), paint.Solid(paint.Gray(0.5)))
	n.Blend = paint.Multiply
	_, err := sc.Add(sc.Root(), n)
	require.NoError(t, err)

	s := newSurface(t, 10, 10, surface.RGBAF32Premul)
	_, err = NewRenderer(Options{}).Render(context.Background(), sc, s, &paint.White)
	require.NoError(t, err)
	assertColor(t, paint.RGBA(0.5, 0.5, 0.5, 1), s, 3, 3)
}

func TestCulling(t *testing.T) {
	sc := scene.New()
	_, err := sc.Add(sc.Root(), scene.Shape(shape.Rect(200, 200, 10, 10), paint.Solid(red)))
	require.NoError(t, err)

	hidden := scene.Shape(shape.Rect(0, 0, 10, 10), paint.Solid(red))
	hidden.Hidden = true
	_, err = sc.Add(sc.Root(), hidden)
	require.NoError(t, err)

	transparent := scene.Group()
	transparent.Opacity = 0
	group, err := sc.Add(sc.Root(), transparent)
	require.NoError(t, err)
	_, err = sc.Add(group, scene.Shape(shape.Rect(0, 0, 10, 10), paint.Solid(red)))
	require.NoError(t, err)

	s := newSurface(t, 100, 100, surface.RGBA8Premul)
	stats, err := NewRenderer(Options{}).Render(context.Background(), sc, s, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Nodes)
	assert.Equal(t, 1, stats.Culled)
	assert.Zero(t, stats.Tessellated)
	assert.Zero(t, stats.Drawn)
	assert.Equal(t, make([]byte, len(s.Pix)), s.Pix)
}

func TestIdempotence(t *testing.T) {
	sc := scene.New()
	g := scene.Group()
	g.Transform = matrix.RotateDeg(10)
	g.Clip = &scene.Clip{Path: shape.Circle(32, 32, 30)}
	group, err := sc.Add(sc.Root(), g)
	require.NoError(t, err)
	n := scene.Shape(shape.RoundedRect(5, 5, 50, 40, shape.UniformRadii(8)),
		paint.Radial(vec.Vec2{X: 30, Y: 25}, 0, 30, paint.ExtendReflect,
			paint.Stop{Offset: 0, Color: red},
			paint.Stop{Offset: 1, Color: paint.RGBA(0, 0, 1, 0.5)}))
	n.Stroke = &scene.Stroke{Style: shape.DefaultStroke(), Paint: paint.Solid(paint.Black)}
	n.Stroke.Style.Width = 3
	n.Stroke.Style.Dash = []float64{6, 3}
	_, err = sc.Add(group, n)
	require.NoError(t, err)

	r := NewRenderer(Options{Cache: NewCache(), Workers: 3})
	var results [][]byte
	for range 3 {
		s := newSurface(t, 64, 64, surface.RGBA8Straight)
		_, err := r.Render(context.Background(), sc, s, nil)
		require.NoError(t, err)
		results = append(results, s.Pix)
	}
	s := newSurface(t, 64, 64, surface.RGBA8Straight)
	_, err = NewRenderer(Options{}).Render(context.Background(), sc, s, nil)
	require.NoError(t, err)
	results = append(results, s.Pix)

	assert.NotEqual(t, make([]byte, len(s.Pix)), results[0])
	for _, pix := range results[1:] {
		assert.Equal(t, results[0], pix)
	}
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	sc := scene.New()
	group, err := sc.Add(sc.Root(), scene.Group())
	require.NoError(t, err)
	id, err := sc.Add(group, scene.Shape(shape.Circle(10, 10, 8), paint.Solid(red)))
	require.NoError(t, err)

	cache := NewCache()
	r := NewRenderer(Options{Cache: cache})
	s := newSurface(t, 20, 20, surface.RGBA8Premul)
	render := func() Stats {
		t.Helper()
		stats, err := r.Render(ctx, sc, s, nil)
		require.NoError(t, err)
		return stats
	}

	stats := render()
	assert.Equal(t, 1, stats.Tessellated)
	assert.Zero(t, stats.CacheHits)
	assert.Equal(t, 1, cache.Len())

	stats = render()
	assert.Zero(t, stats.Tessellated)
	assert.Equal(t, 1, stats.CacheHits)

	// paint changes keep the geometry
	require.NoError(t, sc.SetOpacity(id, 0.5))
	require.NoError(t, sc.SetFill(id, &scene.Fill{Paint: paint.Solid(blue)}))
	stats = render()
	assert.Zero(t, stats.Tessellated)

	// a transformation of an ancestor changes the device geometry
	require.NoError(t, sc.SetTransform(group, matrix.Matrix{1, 0, 0, 1, 1, 0}))
	stats = render()
	assert.Equal(t, 1, stats.Tessellated)

	cache.Reset()
	stats = render()
	assert.Equal(t, 1, stats.Tessellated)

	require.NoError(t, sc.Remove(id))
	render()
	assert.Zero(t, cache.Len())

	cs := cache.Stats()
	assert.Equal(t, uint64(2), cs.Hits)
	assert.Equal(t, uint64(3), cs.Misses)
	assert.Equal(t, uint64(1), cs.Evictions)
}

func TestOutOfMemory(t *testing.T) {
	sc := scene.New()
	_, err := sc.Add(sc.Root(), scene.Shape(shape.Rect(0, 0, 100, 100), paint.Solid(red)))
	require.NoError(t, err)

	s := newSurface(t, 100, 100, surface.RGBA8Premul)
	s.Clear(paint.White)
	orig := append([]byte(nil), s.Pix...)

	r := NewRenderer(Options{MemoryLimit: 1000})
	_, err = r.Render(context.Background(), sc, s, nil)
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, orig, s.Pix)

	r = NewRenderer(Options{MemoryLimit: 1 << 20})
	stats, err := r.Render(context.Background(), sc, s, nil)
	require.NoError(t, err)
	assert.Greater(t, stats.PeakBytes, int64(100*100*16))
	assert.LessOrEqual(t, stats.PeakBytes, int64(1<<20))
}

func TestTinyDashesOutOfMemory(t *testing.T) {
	n := scene.Group()
	n.Path = shape.Line(0, 50, 100, 50)
	style := shape.DefaultStroke()
	style.Dash = []float64{1e-9, 1e-9}
	n.Stroke = &scene.Stroke{Style: style, Paint: paint.Solid(red)}
	sc := scene.New()
	_, err := sc.Add(sc.Root(), n)
	require.NoError(t, err)

	s := newSurface(t, 100, 100, surface.RGBA8Premul)
	s.Clear(paint.White)
	orig := append([]byte(nil), s.Pix...)

	_, err = NewRenderer(Options{}).Render(context.Background(), sc, s, nil)
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, orig, s.Pix)
}

// TestOpacityOutOfRange checks that a node stored with opacity 2 renders
// the same as one whose opacity was set to 2 later.
func TestOpacityOutOfRange(t *testing.T) {
	build := func(viaSetter bool) *scene.Scene {
		sc := scene.New()
		g := scene.Group()
		if !viaSetter {
			g.Opacity = 2
		}
		group, err := sc.Add(sc.Root(), g)
		require.NoError(t, err)
		if viaSetter {
			require.NoError(t, sc.SetOpacity(group, 2))
		}
		child := scene.Shape(shape.Rect(0, 0, 10, 10), paint.Solid(red))
		child.Opacity = 0.5
		_, err = sc.Add(group, child)
		require.NoError(t, err)
		return sc
	}

	for _, viaSetter := range []bool{false, true} {
		s := newSurface(t, 10, 10, surface.RGBAF32Premul)
		_, err := NewRenderer(Options{}).Render(context.Background(), build(viaSetter), s, &paint.White)
		require.NoError(t, err)
		assertColor(t, paint.RGBA(1, 0.5, 0.5, 1), s, 5, 5)
	}
}

func TestAbandonedFrames(t *testing.T) {
	sc := scene.New()
	_, err := sc.Add(sc.Root(), scene.Shape(shape.Rect(0, 0, 10, 10), paint.Solid(red)))
	require.NoError(t, err)
	s := newSurface(t, 10, 10, surface.BGRA8Premul)
	s.Clear(paint.White)
	orig := append([]byte(nil), s.Pix...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewRenderer(Options{}).Render(ctx, sc, s, &paint.Black)
	assert.ErrorIs(t, err, ErrFrameFailed)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, orig, s.Pix)

	r := NewRenderer(Options{})
	r.beforeTessellate = func(scene.NodeID) { panic("boom") }
	_, err = r.Render(context.Background(), sc, s, nil)
	assert.ErrorIs(t, err, ErrFrameFailed)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, orig, s.Pix)
}

func TestInvalidSurface(t *testing.T) {
	s := &surface.Surface{Width: 10, Height: 10, Format: surface.RGBA8Premul, Stride: 40}
	_, err := NewRenderer(Options{}).Render(context.Background(), scene.New(), s, nil)
	assert.True(t, errors.Is(err, surface.ErrUnsupportedSurface))
}

func TestBounds(t *testing.T) {
	sc := scene.New()
	_, err := sc.Add(sc.Root(), scene.Shape(shape.Rect(2, 3, 4, 5), paint.Solid(red)))
	require.NoError(t, err)
	g := scene.Group()
	g.Clip = &scene.Clip{Path: shape.Rect(0, 0, 20, 1)}
	group, err := sc.Add(sc.Root(), g)
	require.NoError(t, err)
	_, err = sc.Add(group, scene.Shape(shape.Rect(10, 0, 10, 10), paint.Solid(red)))
	require.NoError(t, err)

	f := &frame{ctx: context.Background(), r: NewRenderer(Options{}), scene: sc,
		tolerance: 0.25, visible: image.Rect(0, 0, 30, 30)}
	root := f.collect(sc.Root(), matrix.Identity, 1)
	require.NoError(t, f.tessellate())
	assert.Equal(t, image.Rect(2, 0, 21, 9), f.bounds(root, f.visible))
}
