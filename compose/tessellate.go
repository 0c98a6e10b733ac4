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

package compose

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"seehuhn.de/go/revector/shape"
	"seehuhn.de/go/revector/tess"
)

type job struct {
	item int
	part part
}

// tessellate fills in the polygons of all items, taking them from the
// cache where possible and computing the rest in parallel.
func (f *frame) tessellate() error {
	r := f.r
	var jobs []job
	for i := range f.items {
		it := &f.items[i]
		cached := r.cache.lookup(it.id, it.geomRev, it.ctm, f.tolerance)
		for p := range numParts {
			if !it.need[p] {
				continue
			}
			if polys := cached[p]; polys != nil {
				if err := f.budget.reserve(polys.ByteSize(), "cached geometry"); err != nil {
					return err
				}
				it.parts[p] = polys
				f.stats.CacheHits++
				continue
			}
			jobs = append(jobs, job{item: i, part: p})
		}
	}
	if r.cache != nil {
		r.cache.hits.Add(uint64(f.stats.CacheHits))
		r.cache.misses.Add(uint64(len(jobs)))
	}
	f.stats.Tessellated = len(jobs)

	g, ctx := errgroup.WithContext(f.ctx)
	g.SetLimit(r.workers)
	for _, j := range jobs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return f.tessellateJob(j)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return f.ctx.Err()
}

// tessellateJob runs on a worker goroutine. Different jobs write to
// different elements of the parts arrays.
func (f *frame) tessellateJob(j job) (err error) {
	it := &f.items[j.item]
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic while tessellating %s: %v", ErrFrameFailed, it.id, p)
		}
	}()
	if hook := f.r.beforeTessellate; hook != nil {
		hook(it.id)
	}

	t := f.r.tessellators.Get().(*tess.Tessellator)
	defer f.r.tessellators.Put(t)
	t.Reset(it.ctm, f.tolerance)

	out := &tess.Polygons{}
	n := &it.node
	switch j.part {
	case partFill:
		err = t.Fill(n.Path, out)
	case partStroke:
		err = t.Stroke(n.Path, n.Stroke.Style, out)
	case partClip:
		err = t.Fill(n.Clip.Path, out)
	}
	if err != nil {
		if errors.Is(err, tess.ErrTooComplex) {
			return fmt.Errorf("%w: %s: %w", ErrOutOfMemory, it.id, err)
		}
		return fmt.Errorf("%s: %w", it.id, err)
	}
	if err := f.budget.reserve(out.ByteSize(), "tessellation"); err != nil {
		return err
	}
	it.parts[j.part] = out
	return nil
}

// rule returns the fill rule for the polygons of the given part.
func (it *item) rule(p part) shape.FillRule {
	switch p {
	case partFill:
		return it.node.Fill.Rule
	case partClip:
		return it.node.Clip.Rule
	default:
		return shape.NonZero
	}
}
