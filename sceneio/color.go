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

package sceneio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"seehuhn.de/go/revector/paint"
)

// ParseColor converts a colour given in hex notation ("#rgb", "#rgba",
// "#rrggbb" or "#rrggbbaa") to a linear colour. The RGB channels of scene
// files are sRGB encoded, alpha is linear. The names "none" and
// "transparent" stand for fully transparent black.
func ParseColor(s string) (paint.Color, error) {
	switch strings.ToLower(s) {
	case "none", "transparent":
		return paint.Transparent, nil
	}
	hex := strings.TrimPrefix(s, "#")

	alpha := 1.0
	switch len(hex) {
	case 3, 6:
	case 4, 8:
		k := len(hex) / 4
		a, err := strconv.ParseUint(hex[len(hex)-k:], 16, 8)
		if err != nil {
			return paint.Color{}, fmt.Errorf("invalid colour %q", s)
		}
		if k == 1 {
			a *= 17
		}
		alpha = float64(a) / 255
		hex = hex[:len(hex)-k]
	default:
		return paint.Color{}, fmt.Errorf("invalid colour %q", s)
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return paint.Color{}, fmt.Errorf("invalid colour %q", s)
	}
	r, g, b := c.LinearRgb()
	return paint.RGBA(float32(r), float32(g), float32(b), float32(alpha)), nil
}

// FormatColor is the inverse of ParseColor, up to 8-bit quantization.
func FormatColor(c paint.Color) string {
	if c.A <= 0 {
		return "none"
	}
	hex := colorful.LinearRgb(float64(c.R), float64(c.G), float64(c.B)).Clamped().Hex()
	if c.A >= 1 {
		return hex
	}
	return fmt.Sprintf("%s%02x", hex, uint8(c.A*255+0.5))
}
