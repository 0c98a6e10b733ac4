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
	"log/slog"

	"seehuhn.de/go/revector/paint"
	"seehuhn.de/go/revector/tess"
)

// Option configures an Engine.
type Option func(*options)

type options struct {
	tolerance   float64
	workers     int
	memoryLimit int64
	logger      *slog.Logger
	cache       bool
}

func defaultOptions() options {
	return options{
		tolerance: tess.DefaultTolerance,
		cache:     true,
	}
}

// WithTolerance sets the curve flattening tolerance in device pixels.
// Values which are not positive select the default of 0.25 pixels.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		if tol > 0 {
			o.tolerance = tol
		} else {
			o.tolerance = tess.DefaultTolerance
		}
	}
}

// WithWorkers limits the number of goroutines used for tessellation.
// If n <= 0, GOMAXPROCS is used.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithMemoryLimit bounds the memory a single frame may allocate for
// geometry, coverage buffers and layers. Frames exceeding the limit fail
// with [ErrOutOfMemory]. Zero means no limit.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = max(bytes, 0)
	}
}

// WithLogger sets the logger of the engine. The default is the package
// logger, see [SetLogger].
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithCache enables or disables caching of tessellated geometry between
// frames. Caching is enabled by default.
func WithCache(enabled bool) Option {
	return func(o *options) {
		o.cache = enabled
	}
}

// FrameOption configures a single call to [Engine.RenderFrame].
type FrameOption func(*frameOptions)

type frameOptions struct {
	clear *paint.Color
}

// WithClear clears the surface to c before drawing. Without this option
// the scene is drawn on top of the existing surface contents.
func WithClear(c paint.Color) FrameOption {
	return func(o *frameOptions) {
		o.clear = &c
	}
}
