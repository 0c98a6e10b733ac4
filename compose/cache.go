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
	"sync"
	"sync/atomic"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/revector/scene"
	"seehuhn.de/go/revector/tess"
)

// part selects one of the polygon sets tessellated for a node.
type part uint8

const (
	partFill part = iota
	partStroke
	partClip

	numParts
)

// Cache keeps tessellated geometry between frames.
//
// An entry is valid as long as the node's geometry revision, its
// accumulated transformation and the tolerance are unchanged. Entries for
// nodes which were not visited in a frame are evicted at the end of that
// frame. The polygons stored in the cache are never modified.
type Cache struct {
	mu      sync.Mutex
	entries map[scene.NodeID]*cacheEntry

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type cacheEntry struct {
	geomRev   uint64
	ctm       matrix.Matrix
	tolerance float64
	parts     [numParts]*tess.Polygons
	frame     uint64 // last frame which used the entry
}

// CacheStats contains cache statistics for monitoring.
type CacheStats struct {
	Entries   int
	Bytes     int64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// NewCache returns an empty tessellation cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[scene.NodeID]*cacheEntry),
	}
}

// lookup returns the cached polygons for a node, if the entry matches the
// given revision, transformation and tolerance. Parts which were never
// tessellated are nil.
func (c *Cache) lookup(id scene.NodeID, geomRev uint64, ctm matrix.Matrix, tol float64) [numParts]*tess.Polygons {
	if c == nil {
		return [numParts]*tess.Polygons{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entries[id]
	if e == nil || e.geomRev != geomRev || e.ctm != ctm || e.tolerance != tol {
		return [numParts]*tess.Polygons{}
	}
	return e.parts
}

// commit stores the geometry of a successfully rendered frame and evicts
// all entries not used by that frame.
func (c *Cache) commit(frame uint64, items []item, tol float64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range items {
		it := &items[i]
		if it.parts == ([numParts]*tess.Polygons{}) {
			continue
		}
		e := c.entries[it.id]
		if e == nil || e.geomRev != it.geomRev || e.ctm != it.ctm || e.tolerance != tol {
			e = &cacheEntry{geomRev: it.geomRev, ctm: it.ctm, tolerance: tol}
			c.entries[it.id] = e
		}
		for p, polys := range it.parts {
			if polys != nil {
				e.parts[p] = polys
			}
		}
		e.frame = frame
	}

	for id, e := range c.entries {
		if e.frame != frame {
			delete(c.entries, id)
			c.evictions.Add(1)
		}
	}
}

// Reset removes all entries.
func (c *Cache) Reset() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Len returns the number of cached nodes.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the current cache statistics.
func (c *Cache) Stats() CacheStats {
	if c == nil {
		return CacheStats{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	st := CacheStats{
		Entries:   len(c.entries),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
	for _, e := range c.entries {
		for _, polys := range e.parts {
			if polys != nil {
				st.Bytes += int64(polys.ByteSize())
			}
		}
	}
	return st
}
