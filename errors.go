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
	"errors"

	"seehuhn.de/go/revector/compose"
	"seehuhn.de/go/revector/shape"
	"seehuhn.de/go/revector/surface"
)

// Errors returned by the engine. Use [errors.Is] to test for them; the
// returned errors carry additional detail.
var (
	// ErrInvalidGeometry reports malformed paths or transformations.
	ErrInvalidGeometry = shape.ErrInvalidGeometry

	// ErrUnsupportedSurface reports a surface with zero size, an
	// unknown pixel format or an inconsistent buffer.
	ErrUnsupportedSurface = surface.ErrUnsupportedSurface

	// ErrOutOfMemory is returned when a frame exceeds the memory limit.
	// The surface is left unchanged.
	ErrOutOfMemory = compose.ErrOutOfMemory

	// ErrFrameFailed is returned when a frame was abandoned. The surface
	// is left unchanged.
	ErrFrameFailed = compose.ErrFrameFailed

	// ErrFrameInProgress is returned by RenderFrame while another frame
	// is being rendered by the same engine.
	ErrFrameInProgress = errors.New("frame in progress")

	// ErrNoSurface is returned by RenderFrame before the first call to
	// SurfaceChanged and after SurfaceLost.
	ErrNoSurface = errors.New("no surface")

	// ErrClosed is returned when the engine has been closed.
	ErrClosed = errors.New("engine closed")
)
