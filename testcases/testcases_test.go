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

package testcases

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/revector/compose"
	"seehuhn.de/go/revector/paint"
	"seehuhn.de/go/revector/shape"
	"seehuhn.de/go/revector/surface"
)

var validName = regexp.MustCompile(`^[a-z_0-9]+$`)

func TestNames(t *testing.T) {
	seen := make(map[string]bool)
	for category, cases := range All {
		for _, tc := range cases {
			name := category + "_" + tc.Name
			assert.Regexp(t, validName, tc.Name)
			assert.False(t, seen[name], "duplicate %s", name)
			seen[name] = true
			assert.Positive(t, tc.Width, name)
			assert.Positive(t, tc.Height, name)
			assert.NoError(t, shape.Validate(tc.Path), name)
		}
	}
}

// TestRender draws every case through the compositor.
func TestRender(t *testing.T) {
	r := compose.NewRenderer(compose.Options{})
	for category, cases := range All {
		for _, tc := range cases {
			name := category + "_" + tc.Name
			sc, err := tc.Scene()
			require.NoError(t, err, name)

			dst, err := surface.New(tc.Width, tc.Height, surface.RGBA8Premul)
			require.NoError(t, err, name)
			black := paint.Black
			stats, err := r.Render(context.Background(), sc, dst, &black)
			require.NoError(t, err, name)
			assert.Equal(t, 2, stats.Nodes, name)

			if _, isFill := tc.Op.(Fill); !isFill {
				continue
			}
			// fills are never degenerate, so some pixel must be lit
			lit := false
			for i := 0; i < len(dst.Pix); i += 4 {
				if dst.Pix[i] > 0 {
					lit = true
					break
				}
			}
			assert.True(t, lit, name)
		}
	}
}
