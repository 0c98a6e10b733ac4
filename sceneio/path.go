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
	"strconv"

	"seehuhn.de/go/geom/path"
)

// FormatPath writes p as SVG path data, using absolute coordinates.
// The result can be read back with [shape.ParseSVG].
func FormatPath(p *path.Data) string {
	if p == nil {
		return ""
	}
	var buf []byte
	k := 0
	for _, cmd := range p.Cmds {
		if len(buf) > 0 {
			buf = append(buf, ' ')
		}
		var n int
		switch cmd {
		case path.CmdMoveTo:
			buf, n = append(buf, 'M'), 1
		case path.CmdLineTo:
			buf, n = append(buf, 'L'), 1
		case path.CmdQuadTo:
			buf, n = append(buf, 'Q'), 2
		case path.CmdCubeTo:
			buf, n = append(buf, 'C'), 3
		case path.CmdClose:
			buf = append(buf, 'Z')
		}
		for _, pt := range p.Coords[k : k+n] {
			buf = append(buf, ' ')
			buf = strconv.AppendFloat(buf, pt.X, 'f', -1, 64)
			buf = append(buf, ' ')
			buf = strconv.AppendFloat(buf, pt.Y, 'f', -1, 64)
		}
		k += n
	}
	return string(buf)
}
