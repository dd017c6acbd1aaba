// Package render provides an in-memory host surface for render trees.
package render

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/go-drift/actuate/pkg/core"
	"github.com/go-drift/actuate/pkg/errors"
)

// HostNode is one element of the host tree: a text node when Tag is empty,
// otherwise a tagged element with attributes and children.
type HostNode struct {
	ID       core.ElementID
	Tag      string
	Text     string
	Attrs    core.Attrs
	Slot     []int
	Parent   *HostNode
	Children []*HostNode
}

// IsText reports whether n is a text node.
func (n *HostNode) IsText() bool {
	return n.Tag == ""
}

// TextContent returns the text of n and its descendants in document order.
func (n *HostNode) TextContent() string {
	var b strings.Builder
	n.walk(func(node *HostNode) bool {
		if node.IsText() {
			b.WriteString(node.Text)
		}
		return true
	})
	return b.String()
}

// walk visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func (n *HostNode) walk(fn func(*HostNode) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.walk(fn)
	}
}

// Option configures a Memory renderer.
type Option func(*Memory)

// WithFace sets the font face used to measure text in Dump and TextWidth.
func WithFace(face font.Face) Option {
	return func(m *Memory) {
		if face != nil {
			m.face = face
		}
	}
}

// Memory is a renderer that keeps the host tree in memory. It is used by
// tests and by the command line demo.
//
// Memory is safe for concurrent use, but nodes returned by Root and Find must
// only be read while no frame is being applied.
type Memory struct {
	mu     sync.Mutex
	root   *HostNode
	nodes  map[core.ElementID]*HostNode
	frames int
	face   font.Face
}

// NewMemory creates an empty in-memory host tree. Text is measured with
// basicfont.Face7x13 unless WithFace is given.
func NewMemory(opts ...Option) *Memory {
	root := &HostNode{ID: uuid.Nil, Tag: "#root"}
	m := &Memory{
		root:  root,
		nodes: map[core.ElementID]*HostNode{uuid.Nil: root},
		face:  basicfont.Face7x13,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Apply applies changes in order. It stops at the first change that cannot
// be applied and returns a *errors.RenderError; earlier changes of the list
// stay applied.
func (m *Memory) Apply(changes core.ChangeList) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range changes {
		var err error
		switch c.Op {
		case core.OpInsert:
			err = m.insert(c)
		case core.OpUpdate:
			err = m.update(c)
		case core.OpRemove:
			err = m.remove(c)
		default:
			err = fmt.Errorf("unknown op %d", c.Op)
		}
		if err != nil {
			return &errors.RenderError{Op: c.Op.String(), ID: c.ID.String(), Err: err}
		}
	}
	m.frames++
	return nil
}

func (m *Memory) insert(c core.Change) error {
	if _, ok := m.nodes[c.ID]; ok {
		return errors.ErrDuplicateElement
	}
	parent, ok := m.nodes[c.Parent]
	if !ok {
		return fmt.Errorf("parent %s: %w", c.Parent, errors.ErrUnknownElement)
	}
	if parent.IsText() {
		return fmt.Errorf("parent %s is a text node", c.Parent)
	}
	node := &HostNode{
		ID:     c.ID,
		Tag:    c.Tag,
		Text:   c.Text,
		Attrs:  maps.Clone(c.Attrs),
		Slot:   slices.Clone(c.Slot),
		Parent: parent,
	}
	i, _ := slices.BinarySearchFunc(parent.Children, node.Slot, func(child *HostNode, slot []int) int {
		return slices.Compare(child.Slot, slot)
	})
	parent.Children = slices.Insert(parent.Children, i, node)
	m.nodes[c.ID] = node
	return nil
}

func (m *Memory) update(c core.Change) error {
	node, ok := m.nodes[c.ID]
	if !ok || node == m.root {
		return errors.ErrUnknownElement
	}
	if node.IsText() {
		node.Text = c.Text
		return nil
	}
	node.Attrs = maps.Clone(c.Attrs)
	return nil
}

func (m *Memory) remove(c core.Change) error {
	node, ok := m.nodes[c.ID]
	if !ok || node == m.root {
		return errors.ErrUnknownElement
	}
	parent := node.Parent
	parent.Children = slices.DeleteFunc(parent.Children, func(child *HostNode) bool {
		return child == node
	})
	node.walk(func(n *HostNode) bool {
		delete(m.nodes, n.ID)
		return true
	})
	node.Parent = nil
	return nil
}

// Root returns the synthetic root node. Host elements inserted with the nil
// parent ID are its children.
func (m *Memory) Root() *HostNode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.root
}

// Node returns the host node with the given ID.
func (m *Memory) Node(id core.ElementID) (*HostNode, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	node, ok := m.nodes[id]
	if node == m.root {
		return nil, false
	}
	return node, ok
}

// Find returns every node matching pred in document order.
func (m *Memory) Find(pred func(*HostNode) bool) []*HostNode {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found []*HostNode
	for _, child := range m.root.Children {
		child.walk(func(n *HostNode) bool {
			if pred(n) {
				found = append(found, n)
			}
			return true
		})
	}
	return found
}

// Len returns the number of host nodes in the tree.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.nodes) - 1
}

// Frames returns the number of change lists applied successfully.
func (m *Memory) Frames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

// Text returns all text of the tree in document order.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.root.TextContent()
}

// TextWidth returns the advance width of s in pixels.
func (m *Memory) TextWidth(s string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return font.MeasureString(m.face, s).Ceil()
}

// Dump returns an indented listing of the tree, one node per line. Elements
// are printed with their sorted attributes and text nodes with their width.
func (m *Memory) Dump() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var b strings.Builder
	for _, child := range m.root.Children {
		m.dump(&b, child, 0)
	}
	return b.String()
}

func (m *Memory) dump(b *strings.Builder, n *HostNode, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.IsText() {
		fmt.Fprintf(b, "%s%q (%dpx)\n", indent, n.Text, font.MeasureString(m.face, n.Text).Ceil())
		return
	}
	b.WriteString(indent)
	b.WriteString("<")
	b.WriteString(n.Tag)
	for _, key := range slices.Sorted(maps.Keys(n.Attrs)) {
		fmt.Fprintf(b, " %s=%q", key, n.Attrs[key])
	}
	b.WriteString(">\n")
	for _, child := range n.Children {
		m.dump(b, child, depth+1)
	}
}
