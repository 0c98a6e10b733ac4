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
	"fmt"
	"sync/atomic"
)

// budget accounts for the memory allocated while rendering a frame:
// tessellated vertices, coverage buffers, masks and layers.
// It is safe for concurrent use.
type budget struct {
	limit int64 // 0 means no limit
	used  atomic.Int64
	peak  atomic.Int64
}

func (b *budget) reserve(n int, what string) error {
	used := b.used.Add(int64(n))
	if b.limit > 0 && used > b.limit {
		b.used.Add(-int64(n))
		return fmt.Errorf("%w: %s needs %d bytes, %d of %d in use",
			ErrOutOfMemory, what, n, used-int64(n), b.limit)
	}
	for {
		p := b.peak.Load()
		if used <= p || b.peak.CompareAndSwap(p, used) {
			break
		}
	}
	return nil
}

func (b *budget) release(n int) {
	b.used.Add(-int64(n))
}
