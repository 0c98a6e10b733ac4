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

package tess

import (
	"fmt"
	"math"
	"slices"
)

// dash is a run of consecutive segments in t.dashedSegs.
type dash struct {
	start, end int
	closed     bool
}

// applyDashPattern splits the flattened subpaths into dashes. The result
// is stored in t.dashedSegs and t.dashes.
//
// Each subpath starts at DashPhase into the pattern. On a closed subpath
// which is "on" both where it starts and where it ends, the last and the
// first dash are merged into one dash across the start point. A closed
// subpath covered completely by a single dash is stroked as closed.
//
// If the pattern would split the path into more than maxDashes dashes,
// an error wrapping [ErrTooComplex] is returned and nothing is stored.
func (t *Tessellator) applyDashPattern() error {
	t.dashedSegs = t.dashedSegs[:0]
	t.dashes = t.dashes[:0]

	pattern := t.style.Dash
	period := len(pattern)
	total := 0.0
	for _, d := range pattern {
		total += d
	}
	if period%2 == 1 {
		// odd patterns are repeated, swapping on and off
		period *= 2
		total *= 2
	}
	if !(total > 0) {
		return nil
	}

	length := 0.0
	for i := range t.segs {
		length += t.segs[i].length()
	}
	if n := length / total * float64(period/2); !(n <= maxDashes) {
		return fmt.Errorf("%w: dash pattern gives about %.3g dashes", ErrTooComplex, n)
	}

	phase := math.Mod(t.style.DashPhase, total)
	if phase < 0 {
		phase += total
	}

	for i := range t.segsOffsets {
		t.dashSubpath(t.subpath(i), t.subpathClosed[i], period, phase)
	}
	return nil
}

func (t *Tessellator) dashSubpath(segs []strokeSegment, closed bool, period int, phase float64) {
	pattern := t.style.Dash
	n := len(pattern)

	idx := 0
	for phase > 0 && phase >= pattern[idx%n] {
		phase -= pattern[idx%n]
		idx = (idx + 1) % period
	}
	remaining := pattern[idx%n] - phase
	on := idx%2 == 0

	startedOn := on
	split := false
	firstDash := -1 // index into t.dashes
	dashStart := len(t.dashedSegs)

	endDash := func() {
		if len(t.dashedSegs) > dashStart {
			if firstDash < 0 {
				firstDash = len(t.dashes)
			}
			t.dashes = append(t.dashes, dash{start: dashStart, end: len(t.dashedSegs)})
		}
		dashStart = len(t.dashedSegs)
	}

	for i := range segs {
		seg := &segs[i]
		l := seg.length()
		pos := 0.0
		for {
			if left := l - pos; remaining >= left {
				if on {
					t.addDashPiece(seg, pos, l, dashStart)
				}
				remaining -= left
				break
			}
			end := pos + remaining
			if on {
				t.addDashPiece(seg, pos, end, dashStart)
				endDash()
			}
			split = true
			pos = end
			idx = (idx + 1) % period
			remaining = pattern[idx%n]
			on = idx%2 == 0
		}
	}

	if len(t.dashedSegs) == dashStart {
		return
	}
	if closed && !split {
		t.dashes = append(t.dashes, dash{start: dashStart, end: len(t.dashedSegs), closed: true})
		return
	}
	if closed && startedOn && on && firstDash >= 0 {
		first := t.dashes[firstDash]
		t.dashedSegs = append(t.dashedSegs, t.dashedSegs[first.start:first.end]...)
		t.dashes = slices.Delete(t.dashes, firstDash, firstDash+1)
	}
	t.dashes = append(t.dashes, dash{start: dashStart, end: len(t.dashedSegs)})
}

// addDashPiece appends the part of seg between arc lengths from and to
// to the dash which starts at index dashStart. An empty piece is kept
// only as the first element of a dash, to mark a dot.
func (t *Tessellator) addDashPiece(seg *strokeSegment, from, to float64, dashStart int) {
	a := seg.A.Add(seg.T.Mul(from))
	if to-from <= zeroLengthThreshold {
		if len(t.dashedSegs) == dashStart {
			t.dashedSegs = append(t.dashedSegs, strokeSegment{A: a, B: a, T: seg.T, N: seg.N})
		}
		return
	}

	b := seg.B
	if to < seg.length() {
		b = seg.A.Add(seg.T.Mul(to))
	}
	piece := strokeSegment{A: a, B: b, T: seg.T, N: seg.N}

	// a dot followed by more of the dash is no longer a dot
	if len(t.dashedSegs) == dashStart+1 && t.dashedSegs[dashStart].A == t.dashedSegs[dashStart].B {
		t.dashedSegs[dashStart] = piece
		return
	}
	t.dashedSegs = append(t.dashedSegs, piece)
}
