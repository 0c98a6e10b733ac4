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

package revector

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/revector/paint"
	"seehuhn.de/go/revector/scene"
	"seehuhn.de/go/revector/shape"
	"seehuhn.de/go/revector/surface"
)

func newEngine(t *testing.T, w, h int, f surface.Format, opts ...Option) (*Engine, *surface.Surface) {
	t.Helper()
	e := New(opts...)
	t.Cleanup(func() { e.Close() })
	require.NoError(t, e.SurfaceChanged(w, h, f))
	s, err := surface.New(w, h, f)
	require.NoError(t, err)
	return e, s
}

func TestLifecycle(t *testing.T) {
	ctx := context.Background()
	sc := scene.New()
	s, err := surface.New(10, 10, surface.RGBA8Premul)
	require.NoError(t, err)

	e := New()
	assert.ErrorIs(t, e.RenderFrame(ctx, sc, s), ErrNoSurface)
	assert.ErrorIs(t, e.SurfaceChanged(0, 10, surface.RGBA8Premul), ErrUnsupportedSurface)
	assert.ErrorIs(t, e.SurfaceChanged(10, 10, surface.Format(99)), ErrUnsupportedSurface)

	require.NoError(t, e.SurfaceChanged(10, 10, surface.RGBA8Premul))
	assert.NoError(t, e.RenderFrame(ctx, sc, s))

	other, err := surface.New(20, 10, surface.RGBA8Premul)
	require.NoError(t, err)
	assert.ErrorIs(t, e.RenderFrame(ctx, sc, other), ErrUnsupportedSurface)

	e.SurfaceLost()
	assert.ErrorIs(t, e.RenderFrame(ctx, sc, s), ErrNoSurface)

	require.NoError(t, e.SurfaceChanged(10, 10, surface.RGBA8Premul))
	require.NoError(t, e.Close())
	require.NoError(t, e.Close())
	assert.ErrorIs(t, e.RenderFrame(ctx, sc, s), ErrClosed)
	assert.ErrorIs(t, e.SurfaceChanged(10, 10, surface.RGBA8Premul), ErrClosed)
}

func TestEmptyScene(t *testing.T) {
	e, s := newEngine(t, 100, 100, surface.RGBA8Premul)
	s.Clear(paint.RGBA(0.2, 0.4, 0.6, 1))
	orig := bytes.Clone(s.Pix)

	require.NoError(t, e.RenderFrame(context.Background(), scene.New(), s))
	assert.Equal(t, orig, s.Pix)
}

func TestOpaqueRectangle(t *testing.T) {
	e, s := newEngine(t, 100, 100, surface.RGBA8Premul)
	sc := scene.New()
	_, err := sc.Add(sc.Root(), scene.Shape(shape.Rect(0, 0, 100, 100), paint.Solid(paint.RGBA(1, 0, 0, 1))))
	require.NoError(t, err)

	require.NoError(t, e.RenderFrame(context.Background(), sc, s, WithClear(paint.White)))
	for i := 0; i < len(s.Pix); i += 4 {
		if !bytes.Equal(s.Pix[i:i+4], []byte{255, 0, 0, 255}) {
			t.Fatalf("pixel %d is %v", i/4, s.Pix[i:i+4])
		}
	}
	assert.Equal(t, 1, e.Stats().Drawn)
	assert.Equal(t, uint64(1), e.Stats().Frame)
}

func testScene(t *testing.T) (*scene.Scene, scene.NodeID) {
	t.Helper()
	sc := scene.New()
	g := scene.Group()
	g.Opacity = 0.7
	g.Isolated = true
	g.Transform = matrix.Matrix{1, 0.2, -0.2, 1, 8, 2}
	group, err := sc.Add(sc.Root(), g)
	require.NoError(t, err)

	st := shape.DefaultStroke()
	st.Width = 4
	n := scene.Shape(shape.MustParseSVG("M10 10 C 40 0 60 60 90 30 L 70 80 Z"), paint.Solid(paint.RGBA(0, 0.5, 1, 1)))
	n.Stroke = &scene.Stroke{Style: st, Paint: paint.Solid(paint.Black)}
	id, err := sc.Add(group, n)
	require.NoError(t, err)

	c := scene.Shape(shape.Circle(40, 40, 25), paint.Solid(paint.RGBA(1, 0.5, 0, 0.8)))
	c.Fill.Rule = shape.EvenOdd
	c.Blend = paint.Screen
	_, err = sc.Add(group, c)
	require.NoError(t, err)
	return sc, id
}

func TestIdempotence(t *testing.T) {
	sc, _ := testScene(t)
	var results [][]byte
	for range 2 {
		e, s := newEngine(t, 100, 100, surface.RGBA8Premul)
		require.NoError(t, e.RenderFrame(context.Background(), sc, s, WithClear(paint.White)))
		results = append(results, s.Pix)
	}
	assert.Equal(t, results[0], results[1])
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	sc, id := testScene(t)
	e, s := newEngine(t, 100, 100, surface.RGBA8Premul)

	require.NoError(t, e.RenderFrame(ctx, sc, s))
	first := e.Stats()
	assert.Equal(t, 3, first.Tessellated)
	assert.Equal(t, scene.Dirty(0), sc.Dirty(id), "dirty flags are cleared after a frame")

	require.NoError(t, e.RenderFrame(ctx, sc, s))
	assert.Zero(t, e.Stats().Tessellated)
	assert.Equal(t, 3, e.Stats().CacheHits)

	require.NoError(t, sc.SetTransform(id, matrix.Matrix{1, 0, 0, 1, 1, 1}))
	require.NoError(t, e.RenderFrame(ctx, sc, s))
	assert.Equal(t, 2, e.Stats().Tessellated)

	// a surface change invalidates the cache
	require.NoError(t, e.SurfaceChanged(100, 100, surface.RGBA8Premul))
	require.NoError(t, e.RenderFrame(ctx, sc, s))
	assert.Equal(t, 3, e.Stats().Tessellated)

	e, s = newEngine(t, 100, 100, surface.RGBA8Premul, WithCache(false))
	require.NoError(t, e.RenderFrame(ctx, sc, s))
	require.NoError(t, e.RenderFrame(ctx, sc, s))
	assert.Equal(t, 3, e.Stats().Tessellated)
	assert.Zero(t, e.Stats().CacheHits)
}

func TestFailedFrames(t *testing.T) {
	sc, id := testScene(t)
	e, s := newEngine(t, 100, 100, surface.RGBA8Straight, WithMemoryLimit(4096))
	s.Clear(paint.White)
	orig := bytes.Clone(s.Pix)

	err := e.RenderFrame(context.Background(), sc, s)
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, orig, s.Pix)
	assert.NotZero(t, sc.Dirty(id), "dirty flags are kept after a failed frame")

	e, s = newEngine(t, 100, 100, surface.RGBA8Straight)
	s.Clear(paint.White)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = e.RenderFrame(ctx, sc, s, WithClear(paint.Black))
	assert.ErrorIs(t, err, ErrFrameFailed)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, orig, s.Pix)
}

func TestFrameInProgress(t *testing.T) {
	e, s := newEngine(t, 10, 10, surface.RGBA8Premul)
	e.busy.Store(true)
	assert.ErrorIs(t, e.RenderFrame(context.Background(), scene.New(), s), ErrFrameInProgress)
	e.busy.Store(false)
	assert.NoError(t, e.RenderFrame(context.Background(), scene.New(), s))
}

func TestLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	l := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sc, _ := testScene(t)
	e, s := newEngine(t, 100, 100, surface.RGBA8Premul, WithLogger(l))
	require.NoError(t, e.RenderFrame(context.Background(), sc, s))

	out := buf.String()
	assert.Contains(t, out, "surface changed")
	assert.Contains(t, out, "frame rendered")
	assert.Contains(t, out, "tessellated=3")

	// the package logger is silent by default
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}
