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

package surface

import "fmt"

// Format is the memory layout of the pixels of a Surface.
type Format uint8

const (
	// RGBA8Premul stores 8 bits per channel in the order R, G, B, A, with
	// premultiplied alpha.
	RGBA8Premul Format = iota

	// BGRA8Premul stores 8 bits per channel in the order B, G, R, A, with
	// premultiplied alpha. This is the native layout of many window
	// systems.
	BGRA8Premul

	// RGBA8Straight stores 8 bits per channel in the order R, G, B, A,
	// without premultiplication.
	RGBA8Straight

	// RGBAF32Premul stores a little-endian float32 per channel in the
	// order R, G, B, A, with premultiplied alpha.
	RGBAF32Premul

	numFormats
)

// FormatInfo describes a pixel format.
type FormatInfo struct {
	Name            string
	BytesPerPixel   int
	IsPremultiplied bool
	IsFloat         bool

	// order gives the byte (or float) position of R, G, B and A.
	order [4]int
}

var formatInfoTable = [numFormats]FormatInfo{
	RGBA8Premul: {
		Name:            "rgba8-premul",
		BytesPerPixel:   4,
		IsPremultiplied: true,
		order:           [4]int{0, 1, 2, 3},
	},
	BGRA8Premul: {
		Name:            "bgra8-premul",
		BytesPerPixel:   4,
		IsPremultiplied: true,
		order:           [4]int{2, 1, 0, 3},
	},
	RGBA8Straight: {
		Name:          "rgba8",
		BytesPerPixel: 4,
		order:         [4]int{0, 1, 2, 3},
	},
	RGBAF32Premul: {
		Name:            "rgbaf32-premul",
		BytesPerPixel:   16,
		IsPremultiplied: true,
		IsFloat:         true,
		order:           [4]int{0, 1, 2, 3},
	},
}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	return f < numFormats
}

// Info returns the description of f. Info panics if f is not valid.
func (f Format) Info() FormatInfo {
	return formatInfoTable[f]
}

func (f Format) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
	return formatInfoTable[f].Name
}

// ParseFormat converts a format name, as returned by String, back to a
// Format.
func ParseFormat(s string) (Format, error) {
	for f := range numFormats {
		if formatInfoTable[f].Name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: pixel format %q", ErrUnsupportedSurface, s)
}
