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

package shape

import (
	"fmt"
	"math"

	"github.com/tdewolff/parse/v2/strconv"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// svgArgs gives the number of arguments taken by each SVG path command.
var svgArgs = map[byte]int{
	'M': 2,
	'Z': 0,
	'L': 2,
	'H': 1,
	'V': 1,
	'C': 6,
	'S': 4,
	'Q': 4,
	'T': 2,
	'A': 7,
}

func skipCommaWhitespace(d []byte) int {
	i := 0
	for i < len(d) && (d[i] == ' ' || d[i] == ',' || d[i] == '\n' || d[i] == '\r' || d[i] == '\t') {
		i++
	}
	return i
}

func isNumberStart(c byte) bool {
	return c >= '0' && c <= '9' || c == '.' || c == '-' || c == '+'
}

// MustParseSVG is like [ParseSVG] but panics on error.
// It is intended for tests and fixed shape tables.
func MustParseSVG(d string) *path.Data {
	p, err := ParseSVG(d)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseSVG converts SVG path data (the "d" attribute of an SVG path
// element) into a path. Elliptical arcs are approximated by cubic Bézier
// curves. A segment following a close-path command implicitly starts a
// new subpath at the start point of the closed one.
//
// Syntax errors are reported as errors wrapping [ErrInvalidGeometry].
func ParseSVG(d string) (*path.Data, error) {
	buf := []byte(d)
	i := skipCommaWhitespace(buf)
	if i >= len(buf) {
		return &path.Data{}, nil
	}
	if buf[i] != 'M' && buf[i] != 'm' {
		return nil, fmt.Errorf("%w: SVG path must start with a move-to", ErrInvalidGeometry)
	}

	var f [7]float64
	p := &path.Data{}
	var start, cur vec.Vec2
	var ctrl vec.Vec2 // last control point, for S and T
	prev := byte('z')
	open := false
	for {
		i += skipCommaWhitespace(buf[i:])
		if i >= len(buf) {
			break
		}

		cmd := prev
		repeat := true
		if cmd == 'z' || cmd == 'Z' || !isNumberStart(buf[i]) {
			cmd = buf[i]
			repeat = false
			i++
			i += skipCommaWhitespace(buf[i:])
		}

		upper := cmd
		if 'a' <= cmd && cmd <= 'z' {
			upper -= 'a' - 'A'
		}
		nArgs, known := svgArgs[upper]
		if !known {
			return nil, fmt.Errorf("%w: unknown SVG command %q at position %d",
				ErrInvalidGeometry, cmd, i)
		}
		for j := 0; j < nArgs; j++ {
			if upper == 'A' && (j == 3 || j == 4) {
				if i < len(buf) && (buf[i] == '0' || buf[i] == '1') {
					f[j] = float64(buf[i] - '0')
					i++
				} else {
					return nil, fmt.Errorf("%w: arc flag must be 0 or 1 at position %d",
						ErrInvalidGeometry, i+1)
				}
			} else {
				num, n := strconv.ParseFloat(buf[i:])
				if n == 0 {
					if repeat && j == 0 {
						return nil, fmt.Errorf("%w: unexpected %q at position %d",
							ErrInvalidGeometry, buf[i], i+1)
					}
					return nil, fmt.Errorf("%w: command %q needs %d numbers (position %d)",
						ErrInvalidGeometry, cmd, nArgs, i+1)
				}
				f[j] = num
				i += n
			}
			i += skipCommaWhitespace(buf[i:])
		}

		rel := cmd != upper
		abs := func(x, y float64) vec.Vec2 {
			v := vec.Vec2{X: x, Y: y}
			if rel {
				v = v.Add(cur)
			}
			return v
		}

		if upper != 'M' && upper != 'Z' && !open {
			p = p.MoveTo(cur)
			start = cur
			open = true
		}

		next := cur
		switch upper {
		case 'M':
			next = abs(f[0], f[1])
			p = p.MoveTo(next)
			start = next
			open = true
			// further coordinate pairs are implicit line-to commands
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'Z':
			if open {
				p = p.Close()
				open = false
			}
			next = start
		case 'L':
			next = abs(f[0], f[1])
			p = p.LineTo(next)
		case 'H':
			next.X = f[0]
			if rel {
				next.X += cur.X
			}
			p = p.LineTo(next)
		case 'V':
			next.Y = f[0]
			if rel {
				next.Y += cur.Y
			}
			p = p.LineTo(next)
		case 'C':
			c1 := abs(f[0], f[1])
			c2 := abs(f[2], f[3])
			next = abs(f[4], f[5])
			p = p.CubeTo(c1, c2, next)
			ctrl = c2
		case 'S':
			c1 := cur
			if prev == 'C' || prev == 'c' || prev == 'S' || prev == 's' {
				c1 = cur.Mul(2).Sub(ctrl)
			}
			c2 := abs(f[0], f[1])
			next = abs(f[2], f[3])
			p = p.CubeTo(c1, c2, next)
			ctrl = c2
		case 'Q':
			c := abs(f[0], f[1])
			next = abs(f[2], f[3])
			p = p.QuadTo(c, next)
			ctrl = c
		case 'T':
			c := cur
			if prev == 'Q' || prev == 'q' || prev == 'T' || prev == 't' {
				c = cur.Mul(2).Sub(ctrl)
			}
			next = abs(f[0], f[1])
			p = p.QuadTo(c, next)
			ctrl = c
		case 'A':
			next = abs(f[5], f[6])
			p = arcTo(p, cur, f[0], f[1], f[2], f[3] == 1, f[4] == 1, next)
		}
		prev = cmd
		cur = next
	}

	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// arcTo appends an SVG elliptical arc from p0 to p1 to the path, as a
// sequence of cubic Bézier curves each spanning at most a quarter turn.
func arcTo(p *path.Data, p0 vec.Vec2, rx, ry, rotDeg float64, large, sweep bool, p1 vec.Vec2) *path.Data {
	rx, ry = math.Abs(rx), math.Abs(ry)
	if p0 == p1 {
		return p
	}
	if rx == 0 || ry == 0 {
		return p.LineTo(p1)
	}

	phi := rotDeg * math.Pi / 180
	sinPhi, cosPhi := math.Sincos(phi)

	// endpoint to center parameterization
	dx := (p0.X - p1.X) / 2
	dy := (p0.Y - p1.Y) / 2
	x1 := cosPhi*dx + sinPhi*dy
	y1 := -sinPhi*dx + cosPhi*dy

	lambda := x1*x1/(rx*rx) + y1*y1/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	coef := 0.0
	if num > 0 && den > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1 / ry
	cyp := -coef * ry * x1 / rx
	cx := cosPhi*cxp - sinPhi*cyp + (p0.X+p1.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (p0.Y+p1.Y)/2

	theta1 := math.Atan2((y1-cyp)/ry, (x1-cxp)/rx)
	theta2 := math.Atan2((-y1-cyp)/ry, (-x1-cxp)/rx)
	delta := theta2 - theta1
	if sweep && delta < 0 {
		delta += 2 * math.Pi
	} else if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	}

	n := int(math.Ceil(math.Abs(delta) / (math.Pi / 2)))
	if n < 1 {
		n = 1
	}
	step := delta / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	onEllipse := func(theta float64) (pt, tangent vec.Vec2) {
		s, c := math.Sincos(theta)
		ex, ey := rx*c, ry*s
		tx, ty := -rx*s, ry*c
		pt = vec.Vec2{X: cx + cosPhi*ex - sinPhi*ey, Y: cy + sinPhi*ex + cosPhi*ey}
		tangent = vec.Vec2{X: cosPhi*tx - sinPhi*ty, Y: sinPhi*tx + cosPhi*ty}
		return pt, tangent
	}

	theta := theta1
	a, ta := onEllipse(theta)
	for j := 0; j < n; j++ {
		theta += step
		b, tb := onEllipse(theta)
		if j == n-1 {
			b = p1
		}
		p = p.CubeTo(a.Add(ta.Mul(k)), b.Sub(tb.Mul(k)), b)
		a, ta = b, tb
	}
	return p
}
