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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"seehuhn.de/go/revector/compose"
	"seehuhn.de/go/revector/scene"
	"seehuhn.de/go/revector/surface"
)

// Engine renders scenes into host-provided surfaces.
//
// The methods of an Engine may be called from different goroutines, but
// only one frame is rendered at a time.
type Engine struct {
	log      *slog.Logger
	renderer *compose.Renderer
	busy     atomic.Bool

	mu      sync.Mutex
	closed  bool
	hasSurf bool
	width   int
	height  int
	format  surface.Format
	frames  uint64
	stats   Stats
}

// Stats describes the most recent successful frame.
type Stats struct {
	Frame uint64 // frames rendered successfully so far
	compose.Stats
}

// New returns an engine with the given options. Before the first frame
// the host must announce its surface with [Engine.SurfaceChanged].
func New(opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Logger()
	}

	var cache *compose.Cache
	if o.cache {
		cache = compose.NewCache()
	}
	e := &Engine{
		log: o.logger,
		renderer: compose.NewRenderer(compose.Options{
			Tolerance:   o.tolerance,
			Workers:     o.workers,
			MemoryLimit: o.memoryLimit,
			Cache:       cache,
			Logger:      o.logger,
		}),
	}
	e.log.Info("engine created",
		"tolerance", o.tolerance,
		"workers", o.workers,
		"memoryLimit", o.memoryLimit,
		"cache", o.cache)
	return e
}

// Close releases the resources of the engine. Afterwards all methods
// return [ErrClosed]. Close may be called more than once.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.hasSurf = false
	e.renderer.Cache().Reset()
	e.log.Info("engine closed", "frames", e.frames)
	return nil
}

// SurfaceChanged tells the engine about the size and pixel format of the
// surface used for the following frames. Tessellated geometry cached for
// the old surface is discarded.
func (e *Engine) SurfaceChanged(width, height int, format surface.Format) error {
	if err := surface.Check(width, height, format); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.hasSurf = true
	e.width, e.height, e.format = width, height, format
	e.renderer.Cache().Reset()
	e.log.Info("surface changed", "width", width, "height", height, "format", format)
	return nil
}

// SurfaceLost tells the engine that the current surface is gone. Frames
// fail with [ErrNoSurface] until the next call to SurfaceChanged.
func (e *Engine) SurfaceLost() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hasSurf {
		return
	}
	e.hasSurf = false
	e.renderer.Cache().Reset()
	e.log.Info("surface lost")
}

// RenderFrame renders sc into dst, which must match the parameters given
// to the last call of SurfaceChanged. After a successful frame the dirty
// flags of the scene are cleared.
//
// If an error is returned, dst is unchanged. The scene must not be
// modified while the frame is being rendered.
func (e *Engine) RenderFrame(ctx context.Context, sc *scene.Scene, dst *surface.Surface, opts ...FrameOption) error {
	if !e.busy.CompareAndSwap(false, true) {
		return ErrFrameInProgress
	}
	defer e.busy.Store(false)

	e.mu.Lock()
	closed, hasSurf := e.closed, e.hasSurf
	width, height, format := e.width, e.height, e.format
	e.mu.Unlock()
	switch {
	case closed:
		return ErrClosed
	case !hasSurf:
		return ErrNoSurface
	case sc == nil:
		return errors.New("no scene given")
	case dst == nil:
		return fmt.Errorf("%w: no surface given", ErrUnsupportedSurface)
	case dst.Width != width || dst.Height != height || dst.Format != format:
		return fmt.Errorf("%w: got %dx%d %s, expected %dx%d %s", ErrUnsupportedSurface,
			dst.Width, dst.Height, dst.Format, width, height, format)
	}

	var fo frameOptions
	for _, opt := range opts {
		opt(&fo)
	}

	stats, err := e.renderer.Render(ctx, sc, dst, fo.clear)
	if err != nil {
		return err
	}
	sc.ClearDirty()

	e.mu.Lock()
	e.frames++
	e.stats = Stats{Frame: e.frames, Stats: stats}
	e.mu.Unlock()
	return nil
}

// Stats returns statistics about the last successful frame.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}
