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

// Command export writes every geometry test case as a YAML scene file,
// which can be rendered with revector-render or loaded by other
// implementations.
package main

import (
	"flag"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"seehuhn.de/go/revector/paint"
	"seehuhn.de/go/revector/scene"
	"seehuhn.de/go/revector/sceneio"
	"seehuhn.de/go/revector/testcases"
)

func main() {
	outDir := flag.String("o", "testdata/scenes", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		panic(err)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			name := category + "_" + tc.Name
			if err := export(&tc, filepath.Join(*outDir, name+".yaml")); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
		}
	}
}

func export(tc *testcases.TestCase, fname string) error {
	sc, err := tc.Scene()
	if err != nil {
		return err
	}
	id := sc.Children(sc.Root())[0]
	f := sceneio.FromScene(sc, map[scene.NodeID]string{id: tc.Name})
	f.Width = tc.Width
	f.Height = tc.Height
	f.Background = sceneio.FormatColor(paint.Black)

	out, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := sceneio.Write(out, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
