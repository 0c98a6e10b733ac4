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

// Package surface implements the pixel buffers the engine draws into.
//
// A [Surface] is owned by the host and stores pixels in one of several
// 8-bit or float formats. While a frame is rendered, the engine works on
// a [Layer] of float32 premultiplied colours and copies the result back
// into the Surface only once the frame has succeeded.
//
// The origin is the top-left corner, with y pointing down.
package surface

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"seehuhn.de/go/revector/paint"
)

// ErrUnsupportedSurface is returned for surfaces with zero or negative
// size, an unknown pixel format, or a pixel buffer which is too small.
var ErrUnsupportedSurface = errors.New("unsupported surface")

// maxDimension bounds the width and height of a surface.
const maxDimension = 1 << 15

// Surface is a rectangular buffer of pixels.
type Surface struct {
	Width, Height int
	Format        Format

	// Stride is the distance in bytes between vertically adjacent pixels.
	Stride int
	Pix    []byte
}

// Check reports whether a surface with the given size and format can be
// used for rendering.
func Check(width, height int, format Format) error {
	if !format.Valid() {
		return fmt.Errorf("%w: unknown pixel format %d", ErrUnsupportedSurface, format)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: size %d×%d", ErrUnsupportedSurface, width, height)
	}
	if width > maxDimension || height > maxDimension {
		return fmt.Errorf("%w: size %d×%d exceeds %d", ErrUnsupportedSurface, width, height, maxDimension)
	}
	return nil
}

// New allocates a surface of transparent black pixels.
func New(width, height int, format Format) (*Surface, error) {
	if err := Check(width, height, format); err != nil {
		return nil, err
	}
	stride := width * format.Info().BytesPerPixel
	return &Surface{
		Width:  width,
		Height: height,
		Format: format,
		Stride: stride,
		Pix:    make([]byte, stride*height),
	}, nil
}

// Validate checks that the fields of s describe a usable buffer.
func (s *Surface) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: no surface", ErrUnsupportedSurface)
	}
	if err := Check(s.Width, s.Height, s.Format); err != nil {
		return err
	}
	row := s.Width * s.Format.Info().BytesPerPixel
	if s.Stride < row {
		return fmt.Errorf("%w: stride %d is less than row size %d", ErrUnsupportedSurface, s.Stride, row)
	}
	if need := s.Stride*(s.Height-1) + row; len(s.Pix) < need {
		return fmt.Errorf("%w: %d bytes of pixel data, need %d", ErrUnsupportedSurface, len(s.Pix), need)
	}
	return nil
}

// Bounds returns the pixel rectangle of s.
func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

func (s *Surface) offset(x, y int) int {
	return y*s.Stride + x*s.Format.Info().BytesPerPixel
}

// load reads pixel (x, y) as a premultiplied colour.
func (s *Surface) load(x, y int) paint.Premul {
	info := s.Format.Info()
	pix := s.Pix[s.offset(x, y):]
	var ch [4]float32
	for i, pos := range info.order {
		if info.IsFloat {
			ch[i] = math.Float32frombits(binary.LittleEndian.Uint32(pix[4*pos:]))
		} else {
			ch[i] = float32(pix[pos]) / 255
		}
	}
	c := paint.Premul{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}
	if !info.IsPremultiplied {
		c = paint.Color(c).Premul()
	}
	return c
}

// store writes a premultiplied colour to pixel (x, y).
func (s *Surface) store(x, y int, c paint.Premul) {
	info := s.Format.Info()
	if !info.IsPremultiplied {
		c = paint.Premul(c.Straight())
	}
	ch := [4]float32{c.R, c.G, c.B, c.A}
	pix := s.Pix[s.offset(x, y):]
	for i, pos := range info.order {
		if info.IsFloat {
			binary.LittleEndian.PutUint32(pix[4*pos:], math.Float32bits(ch[i]))
		} else {
			pix[pos] = quantize(ch[i])
		}
	}
}

// quantize converts a channel value in [0, 1] to 8 bits, with rounding.
func quantize(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// At returns the colour of pixel (x, y) as a straight colour. Pixels
// outside the surface are transparent.
func (s *Surface) At(x, y int) paint.Color {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return paint.Transparent
	}
	return s.load(x, y).Straight()
}

// Clear sets every pixel of s to c.
func (s *Surface) Clear(c paint.Color) {
	p := c.Premul()
	for y := range s.Height {
		for x := range s.Width {
			s.store(x, y, p)
		}
	}
}

// Image returns s as an image.Image. For RGBA8Premul and RGBA8Straight
// the image shares its pixel memory with s; other formats are converted.
func (s *Surface) Image() image.Image {
	r := s.Bounds()
	switch s.Format {
	case RGBA8Premul:
		return &image.RGBA{Pix: s.Pix, Stride: s.Stride, Rect: r}
	case RGBA8Straight:
		return &image.NRGBA{Pix: s.Pix, Stride: s.Stride, Rect: r}
	case RGBAF32Premul:
		img := image.NewRGBA64(r)
		for y := range s.Height {
			for x := range s.Width {
				c := s.load(x, y)
				img.SetRGBA64(x, y, color.RGBA64{
					R: quantize16(c.R), G: quantize16(c.G),
					B: quantize16(c.B), A: quantize16(c.A),
				})
			}
		}
		return img
	default:
		img := image.NewRGBA(r)
		for y := range s.Height {
			for x := range s.Width {
				src := s.Pix[s.offset(x, y):]
				dst := img.Pix[img.PixOffset(x, y):]
				dst[0], dst[1], dst[2], dst[3] = src[2], src[1], src[0], src[3]
			}
		}
		return img
	}
}

func quantize16(v float32) uint16 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 0xffff
	}
	return uint16(v*0xffff + 0.5)
}
