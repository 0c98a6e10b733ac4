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

// Package scene implements a retained scene graph.
//
// Nodes are stored in an arena and addressed by [NodeID] handles. A handle
// carries a generation number, so that handles to removed nodes are
// detected even after their slot has been reused. Every mutation marks the
// node dirty and increases its revision, which the renderer uses to decide
// whether cached geometry is still valid.
//
// A Scene is not safe for concurrent mutation. It must not be modified
// while a frame is being rendered from it.
package scene

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/revector/paint"
	"seehuhn.de/go/revector/shape"
)

// ErrUnknownNode is returned when a NodeID does not refer to a live node.
var ErrUnknownNode = errors.New("unknown scene node")

// NodeID identifies a node of a Scene. The zero NodeID is never valid.
type NodeID struct {
	index uint32
	gen   uint32
}

// IsZero reports whether id is the zero NodeID.
func (id NodeID) IsZero() bool {
	return id.gen == 0
}

func (id NodeID) String() string {
	return fmt.Sprintf("node%d.%d", id.index, id.gen)
}

type record struct {
	gen      uint32
	live     bool
	node     Node
	parent   NodeID
	children []NodeID
	dirty    Dirty

	// rev increases on every change of the node, geomRev only on changes
	// which affect tessellated geometry.
	rev, geomRev uint64
}

// Scene is a tree of drawing nodes with a fixed root group.
type Scene struct {
	nodes []record
	free  []uint32
	root  NodeID
	rev   uint64
	live  int
}

// New returns a scene consisting of an empty root group.
func New() *Scene {
	s := &Scene{}
	s.root = s.alloc(Group(), NodeID{})
	return s
}

// Root returns the root group of the scene.
func (s *Scene) Root() NodeID {
	return s.root
}

// Len returns the number of live nodes, including the root.
func (s *Scene) Len() int {
	return s.live
}

// Revision returns a counter which increases with every change to the
// scene.
func (s *Scene) Revision() uint64 {
	return s.rev
}

func (s *Scene) alloc(n Node, parent NodeID) NodeID {
	s.rev++
	rec := record{
		live:    true,
		node:    n,
		parent:  parent,
		dirty:   dirtyGeometry | DirtyPaint | DirtyChildren,
		rev:     s.rev,
		geomRev: s.rev,
	}
	var idx uint32
	if k := len(s.free); k > 0 {
		idx = s.free[k-1]
		s.free = s.free[:k-1]
		rec.gen = s.nodes[idx].gen + 1
		rec.children = s.nodes[idx].children[:0]
		s.nodes[idx] = rec
	} else {
		idx = uint32(len(s.nodes))
		rec.gen = 1
		s.nodes = append(s.nodes, rec)
	}
	s.live++
	return NodeID{index: idx, gen: rec.gen}
}

func (s *Scene) get(id NodeID) (*record, error) {
	if int(id.index) >= len(s.nodes) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	rec := &s.nodes[id.index]
	if !rec.live || rec.gen != id.gen {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return rec, nil
}

// Contains reports whether id refers to a live node of s.
func (s *Scene) Contains(id NodeID) bool {
	_, err := s.get(id)
	return err == nil
}

// touch marks a node as changed.
func (s *Scene) touch(rec *record, d Dirty) {
	s.rev++
	rec.dirty |= d
	rec.rev = s.rev
	if d&dirtyGeometry != 0 {
		rec.geomRev = s.rev
	}
}

// Add appends a new child to parent and returns its ID.
func (s *Scene) Add(parent NodeID, n Node) (NodeID, error) {
	p, err := s.get(parent)
	if err != nil {
		return NodeID{}, err
	}
	return s.Insert(parent, len(p.children), n)
}

// Insert adds a new child to parent, at position index among the
// existing children.
func (s *Scene) Insert(parent NodeID, index int, n Node) (NodeID, error) {
	p, err := s.get(parent)
	if err != nil {
		return NodeID{}, err
	}
	if index < 0 || index > len(p.children) {
		return NodeID{}, fmt.Errorf("child index %d out of range [0, %d]", index, len(p.children))
	}
	if err := n.Validate(); err != nil {
		return NodeID{}, err
	}
	n.Opacity = clampOpacity(n.Opacity)

	id := s.alloc(n, parent)
	p = &s.nodes[parent.index] // alloc may have moved the arena
	p.children = slices.Insert(p.children, index, id)
	s.touch(p, DirtyChildren)
	return id, nil
}

// Remove deletes a node together with its subtree. The root cannot be
// removed.
func (s *Scene) Remove(id NodeID) error {
	rec, err := s.get(id)
	if err != nil {
		return err
	}
	if id == s.root {
		return errors.New("cannot remove the scene root")
	}
	p := &s.nodes[rec.parent.index]
	p.children = slices.DeleteFunc(p.children, func(c NodeID) bool { return c == id })
	s.touch(p, DirtyChildren)
	s.release(id)
	return nil
}

func (s *Scene) release(id NodeID) {
	rec := &s.nodes[id.index]
	for _, c := range rec.children {
		s.release(c)
	}
	rec.live = false
	rec.node = Node{}
	s.free = append(s.free, id.index)
	s.live--
}

// Move detaches a node from its parent and inserts it into newParent at
// position index. A node cannot be moved into its own subtree.
func (s *Scene) Move(id, newParent NodeID, index int) error {
	rec, err := s.get(id)
	if err != nil {
		return err
	}
	np, err := s.get(newParent)
	if err != nil {
		return err
	}
	if id == s.root {
		return errors.New("cannot move the scene root")
	}
	for a := newParent; !a.IsZero(); a = s.nodes[a.index].parent {
		if a == id {
			return fmt.Errorf("cannot move %s into its own subtree", id)
		}
	}

	old := &s.nodes[rec.parent.index]
	pos := slices.Index(old.children, id)
	n := len(np.children)
	if rec.parent == newParent {
		n--
	}
	if index < 0 || index > n {
		return fmt.Errorf("child index %d out of range [0, %d]", index, n)
	}

	old.children = slices.Delete(old.children, pos, pos+1)
	s.touch(old, DirtyChildren)
	np.children = slices.Insert(np.children, index, id)
	s.touch(np, DirtyChildren)
	rec.parent = newParent
	// the accumulated transform of the subtree may have changed
	s.touch(rec, DirtyTransform)
	return nil
}

// Get returns a copy of the node's state.
func (s *Scene) Get(id NodeID) (Node, error) {
	rec, err := s.get(id)
	if err != nil {
		return Node{}, err
	}
	return rec.node, nil
}

// Parent returns the parent of a node. The parent of the root is the zero
// NodeID.
func (s *Scene) Parent(id NodeID) (NodeID, error) {
	rec, err := s.get(id)
	if err != nil {
		return NodeID{}, err
	}
	return rec.parent, nil
}

// Children returns the children of a node in paint order. The returned
// slice must not be modified.
func (s *Scene) Children(id NodeID) []NodeID {
	rec, err := s.get(id)
	if err != nil {
		return nil
	}
	return rec.children
}

// Dirty returns the changes to a node since the last call to ClearDirty.
func (s *Scene) Dirty(id NodeID) Dirty {
	rec, err := s.get(id)
	if err != nil {
		return 0
	}
	return rec.dirty
}

// NodeRevision returns a counter which increases whenever the node
// changes.
func (s *Scene) NodeRevision(id NodeID) uint64 {
	rec, err := s.get(id)
	if err != nil {
		return 0
	}
	return rec.rev
}

// GeometryRevision returns a counter which increases whenever a change to
// the node affects its tessellated geometry: the path, the stroke style,
// the clip path or the transform.
func (s *Scene) GeometryRevision(id NodeID) uint64 {
	rec, err := s.get(id)
	if err != nil {
		return 0
	}
	return rec.geomRev
}

// ClearDirty resets the dirty flags of all nodes.
func (s *Scene) ClearDirty() {
	for i := range s.nodes {
		s.nodes[i].dirty = 0
	}
}

// Walk visits the subtree below id in pre-order. If fn returns false, the
// children of the current node are skipped.
func (s *Scene) Walk(id NodeID, fn func(id NodeID, depth int) bool) {
	s.walk(id, 0, fn)
}

func (s *Scene) walk(id NodeID, depth int, fn func(NodeID, int) bool) {
	rec, err := s.get(id)
	if err != nil || !fn(id, depth) {
		return
	}
	for _, c := range rec.children {
		s.walk(c, depth+1, fn)
	}
}

// Set replaces the whole state of a node.
func (s *Scene) Set(id NodeID, n Node) error {
	rec, err := s.get(id)
	if err != nil {
		return err
	}
	if err := n.Validate(); err != nil {
		return err
	}
	n.Opacity = clampOpacity(n.Opacity)
	rec.node = n
	s.touch(rec, dirtyGeometry|DirtyPaint)
	return nil
}

// SetPath replaces the path of a node. A nil path turns the node into a
// group.
func (s *Scene) SetPath(id NodeID, p *path.Data) error {
	rec, err := s.get(id)
	if err != nil {
		return err
	}
	if p != nil {
		if err := shape.Validate(p); err != nil {
			return err
		}
	}
	rec.node.Path = p
	s.touch(rec, DirtyPath)
	return nil
}

// SetFill sets or, with nil, removes the fill of a node.
func (s *Scene) SetFill(id NodeID, f *Fill) error {
	rec, err := s.get(id)
	if err != nil {
		return err
	}
	if f != nil {
		if err := f.Paint.Validate(); err != nil {
			return err
		}
	}
	old := rec.node.Fill
	rec.node.Fill = f
	d := DirtyPaint
	if old == nil || f == nil || old.Rule != f.Rule {
		d |= DirtyStyle
	}
	s.touch(rec, d)
	return nil
}

// SetStroke sets or, with nil, removes the stroke of a node.
func (s *Scene) SetStroke(id NodeID, st *Stroke) error {
	rec, err := s.get(id)
	if err != nil {
		return err
	}
	if st != nil {
		if err := st.Style.Validate(); err != nil {
			return err
		}
		if err := st.Paint.Validate(); err != nil {
			return err
		}
	}
	rec.node.Stroke = st
	s.touch(rec, DirtyStyle|DirtyPaint)
	return nil
}

// SetTransform sets the local transformation of a node.
func (s *Scene) SetTransform(id NodeID, m matrix.Matrix) error {
	rec, err := s.get(id)
	if err != nil {
		return err
	}
	n := rec.node
	n.Transform = m
	if err := n.Validate(); err != nil {
		return err
	}
	rec.node.Transform = m
	s.touch(rec, DirtyTransform)
	return nil
}

// SetClip sets or, with nil, removes the clip path of a node.
func (s *Scene) SetClip(id NodeID, c *Clip) error {
	rec, err := s.get(id)
	if err != nil {
		return err
	}
	if c != nil {
		if err := shape.Validate(c.Path); err != nil {
			return err
		}
	}
	rec.node.Clip = c
	s.touch(rec, DirtyClip)
	return nil
}

// SetOpacity sets the opacity of a node, clamped to [0, 1].
func (s *Scene) SetOpacity(id NodeID, alpha float32) error {
	rec, err := s.get(id)
	if err != nil {
		return err
	}
	if math.IsNaN(float64(alpha)) {
		return fmt.Errorf("%w: opacity is NaN", shape.ErrInvalidGeometry)
	}
	rec.node.Opacity = clampOpacity(alpha)
	s.touch(rec, DirtyPaint)
	return nil
}

// SetBlend sets the blend mode of a node.
func (s *Scene) SetBlend(id NodeID, m paint.BlendMode) error {
	rec, err := s.get(id)
	if err != nil {
		return err
	}
	if !m.Valid() {
		return fmt.Errorf("unknown blend mode %d", m)
	}
	rec.node.Blend = m
	s.touch(rec, DirtyPaint)
	return nil
}

// SetIsolated controls whether a node is composited as a separate layer.
func (s *Scene) SetIsolated(id NodeID, isolated bool) error {
	rec, err := s.get(id)
	if err != nil {
		return err
	}
	rec.node.Isolated = isolated
	s.touch(rec, DirtyPaint)
	return nil
}

// SetHidden shows or hides a node and its subtree.
func (s *Scene) SetHidden(id NodeID, hidden bool) error {
	rec, err := s.get(id)
	if err != nil {
		return err
	}
	rec.node.Hidden = hidden
	s.touch(rec, DirtyPaint)
	return nil
}
