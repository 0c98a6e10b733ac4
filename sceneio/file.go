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

// Package sceneio reads and writes scene descriptions in YAML.
//
// A scene file lists the top-level nodes of a scene:
//
//	width: 200
//	height: 200
//	background: "#ffffff"
//	nodes:
//	  - name: badge
//	    circle: [100, 100, 80]
//	    fill:
//	      radial:
//	        center: [100, 100]
//	        r1: 80
//	        stops:
//	          - {offset: 0, color: "#ffcc00"}
//	          - {offset: 1, color: "#ff6600"}
//	    stroke: {color: "#000", width: 4, join: round}
//	  - path: "M 40 40 L 160 160"
//	    stroke: {color: "#0008", width: 10, cap: round, dash: [20, 10]}
//	    transform: {rotate: 15, translate: [10, 0]}
//	    opacity: 0.5
//
// Colours are sRGB hex strings and are converted to linear colours when
// the file is read. Paths use SVG path data syntax.
package sceneio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the contents of a scene file.
type File struct {
	Width      int        `yaml:"width,omitempty"`
	Height     int        `yaml:"height,omitempty"`
	Background string     `yaml:"background,omitempty"`
	Tolerance  float64    `yaml:"tolerance,omitempty"`
	Nodes      []NodeSpec `yaml:"nodes"`
}

// NodeSpec describes one scene node. At most one of Path, Rect and Circle
// may be given; nodes without geometry are groups.
type NodeSpec struct {
	Name   string    `yaml:"name,omitempty"`
	Path   string    `yaml:"path,omitempty"`
	Rect   []float64 `yaml:"rect,omitempty,flow"`   // x, y, width, height [, radius]
	Circle []float64 `yaml:"circle,omitempty,flow"` // cx, cy, r

	Fill      *FillSpec      `yaml:"fill,omitempty"`
	Stroke    *StrokeSpec    `yaml:"stroke,omitempty"`
	Transform *TransformSpec `yaml:"transform,omitempty"`
	Clip      *ClipSpec      `yaml:"clip,omitempty"`

	Opacity  *float32 `yaml:"opacity,omitempty"`
	Blend    string   `yaml:"blend,omitempty"`
	Isolated bool     `yaml:"isolated,omitempty"`
	Hidden   bool     `yaml:"hidden,omitempty"`

	Children []NodeSpec `yaml:"children,omitempty"`
}

// PaintSpec describes a paint. Exactly one of the fields must be set.
type PaintSpec struct {
	Color  string        `yaml:"color,omitempty"`
	Linear *GradientSpec `yaml:"linear,omitempty"`
	Radial *GradientSpec `yaml:"radial,omitempty"`
}

// GradientSpec describes a linear or radial gradient.
type GradientSpec struct {
	Start  []float64 `yaml:"start,omitempty,flow"`
	End    []float64 `yaml:"end,omitempty,flow"`
	Center []float64 `yaml:"center,omitempty,flow"`
	Focus  []float64 `yaml:"focus,omitempty,flow"`
	R0     float64   `yaml:"r0,omitempty"`
	R1     float64   `yaml:"r1,omitempty"`
	Extend string    `yaml:"extend,omitempty"`
	Stops  []Stop    `yaml:"stops"`

	// Matrix maps gradient space to user space.
	Matrix []float64 `yaml:"matrix,omitempty,flow"`
}

// Stop is a gradient stop.
type Stop struct {
	Offset float64 `yaml:"offset"`
	Color  string  `yaml:"color"`
}

// FillSpec describes the fill of a node.
type FillSpec struct {
	PaintSpec `yaml:",inline"`
	Rule      string `yaml:"rule,omitempty"`
}

// StrokeSpec describes the stroke of a node. Unset fields take the
// values of [shape.DefaultStroke].
type StrokeSpec struct {
	PaintSpec  `yaml:",inline"`
	Width      *float64  `yaml:"width,omitempty"`
	Cap        string    `yaml:"cap,omitempty"`
	Join       string    `yaml:"join,omitempty"`
	MiterLimit *float64  `yaml:"miter_limit,omitempty"`
	Dash       []float64 `yaml:"dash,omitempty,flow"`
	DashPhase  float64   `yaml:"dash_phase,omitempty"`
}

// TransformSpec describes the transformation of a node. Either Matrix is
// given, or a combination of the other fields. Points are first scaled,
// then rotated by the given angle in degrees from the x axis towards the
// y axis, then translated.
type TransformSpec struct {
	Matrix    []float64 `yaml:"matrix,omitempty,flow"`
	Scale     []float64 `yaml:"scale,omitempty,flow"`
	Rotate    float64   `yaml:"rotate,omitempty"`
	Translate []float64 `yaml:"translate,omitempty,flow"`
}

// ClipSpec describes a clip path.
type ClipSpec struct {
	Path   string    `yaml:"path,omitempty"`
	Rect   []float64 `yaml:"rect,omitempty,flow"`
	Circle []float64 `yaml:"circle,omitempty,flow"`
	Rule   string    `yaml:"rule,omitempty"`
}

// Load reads a scene file.
func Load(path string) (*File, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	f, err := Read(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Read decodes a scene file. Unknown keys are an error.
func Read(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	f := &File{}
	if err := dec.Decode(f); err != nil {
		if errors.Is(err, io.EOF) {
			return f, nil
		}
		return nil, err
	}
	return f, nil
}

// Write encodes f as YAML.
func Write(w io.Writer, f *File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}
