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

// Package compose renders a scene graph into a surface.
//
// A frame is rendered in three passes. The first pass walks the scene in
// paint order, accumulates transformations and opacity, and drops hidden,
// transparent and off-screen content. The second pass tessellates the
// remaining fills, strokes and clip paths in parallel, reusing geometry
// from earlier frames where possible. The third pass rasterizes and
// composites the nodes one after the other.
//
// All drawing happens in a float32 working layer. The surface is only
// written when the whole frame succeeded, so that a failed or cancelled
// frame leaves the previous contents intact.
package compose

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/revector/paint"
	"seehuhn.de/go/revector/raster"
	"seehuhn.de/go/revector/scene"
	"seehuhn.de/go/revector/surface"
	"seehuhn.de/go/revector/tess"
)

var (
	// ErrOutOfMemory is returned when a frame exceeds the memory limit.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrFrameFailed is returned when a frame was abandoned, for example
	// because the context was cancelled.
	ErrFrameFailed = errors.New("frame failed")
)

// Options configures a Renderer.
type Options struct {
	// Tolerance is the flattening tolerance in device pixels. Zero
	// selects [tess.DefaultTolerance].
	Tolerance float64

	// Workers limits the number of concurrent tessellation goroutines.
	// Zero selects GOMAXPROCS.
	Workers int

	// MemoryLimit is the number of bytes a single frame may allocate for
	// geometry, coverage and layers. Zero means no limit.
	MemoryLimit int64

	// Cache keeps tessellated geometry between frames. May be nil.
	Cache *Cache

	// Logger receives per-frame diagnostics. May be nil.
	Logger *slog.Logger
}

// Stats describes the work done for one frame.
type Stats struct {
	Nodes       int // scene nodes visited
	Drawn       int // fills and strokes composited
	Culled      int // fills, strokes and subtrees skipped as invisible
	Tessellated int // polygon sets computed in this frame
	CacheHits   int // polygon sets taken from the cache
	Layers      int // isolation layers
	PeakBytes   int64
	Duration    time.Duration
}

// Renderer renders frames. Only one frame may be rendered at a time.
type Renderer struct {
	tolerance float64
	workers   int
	limit     int64
	cache     *Cache
	log       *slog.Logger

	tessellators sync.Pool // *tess.Tessellator
	ras          *raster.Rasterizer
	frame        uint64

	// beforeTessellate is called by the workers; used by tests.
	beforeTessellate func(id scene.NodeID)
}

// NewRenderer returns a Renderer with the given options.
func NewRenderer(opts Options) *Renderer {
	r := &Renderer{
		tolerance: opts.Tolerance,
		workers:   opts.Workers,
		limit:     opts.MemoryLimit,
		cache:     opts.Cache,
		log:       opts.Logger,
		ras:       raster.NewRasterizer(image.Rectangle{}),
	}
	if r.tolerance <= 0 {
		r.tolerance = tess.DefaultTolerance
	}
	if r.workers <= 0 {
		r.workers = runtime.GOMAXPROCS(0)
	}
	if r.log == nil {
		r.log = slog.New(slog.DiscardHandler)
	}
	r.tessellators.New = func() any { return tess.New() }
	return r
}

// Cache returns the tessellation cache of r, or nil.
func (r *Renderer) Cache() *Cache {
	return r.cache
}

// Render draws the scene into dst. If clearColor is not nil, the surface
// is cleared to this colour first; otherwise the scene is drawn on top of
// the existing contents.
//
// On error the surface is left unchanged.
func (r *Renderer) Render(ctx context.Context, sc *scene.Scene, dst *surface.Surface, clearColor *paint.Color) (stats Stats, err error) {
	if err := dst.Validate(); err != nil {
		return Stats{}, err
	}
	start := time.Now()
	r.frame++
	f := &frame{
		ctx:       ctx,
		r:         r,
		scene:     sc,
		tolerance: r.tolerance,
		visible:   dst.Bounds(),
		budget:    budget{limit: r.limit},
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic: %v", ErrFrameFailed, p)
		}
		stats = f.stats
		stats.PeakBytes = f.budget.peak.Load()
		stats.Duration = time.Since(start)
		if err != nil {
			if !errors.Is(err, ErrOutOfMemory) && !errors.Is(err, ErrFrameFailed) {
				err = fmt.Errorf("%w: %w", ErrFrameFailed, err)
			}
			r.log.Warn("frame abandoned", "frame", r.frame, "err", err)
			return
		}
		r.log.Debug("frame rendered",
			"frame", r.frame,
			"nodes", stats.Nodes,
			"drawn", stats.Drawn,
			"culled", stats.Culled,
			"tessellated", stats.Tessellated,
			"cacheHits", stats.CacheHits,
			"peakBytes", stats.PeakBytes,
			"duration", stats.Duration)
	}()

	root := f.collect(sc.Root(), matrix.Identity, 1)
	if err := f.tessellate(); err != nil {
		return Stats{}, err
	}
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}

	var touched image.Rectangle
	if clearColor != nil {
		touched = dst.Bounds()
	} else if root >= 0 {
		touched = f.bounds(root, dst.Bounds())
	}
	if !touched.Empty() {
		if err := f.budget.reserve(surface.LayerBytes(touched), "working layer"); err != nil {
			return Stats{}, err
		}
		work := surface.NewLayer(touched)
		if clearColor != nil {
			work.Fill(clearColor.Premul())
		} else {
			work.Load(dst)
		}
		if root >= 0 {
			if err := f.render(root, work, nil); err != nil {
				return Stats{}, err
			}
		}
		if err := ctx.Err(); err != nil {
			return Stats{}, err
		}
		work.Store(dst, touched)
	}

	r.cache.commit(r.frame, f.items, f.tolerance)
	return f.stats, nil
}
