package core

import (
	"maps"

	"github.com/google/uuid"
)

// ElementNode is a host node with a tag, attributes and children, such as a
// DOM element or a native view.
type ElementNode struct {
	Tag      string
	Attrs    Attrs
	Children []Node
}

// El creates an element node.
func El(tag string, attrs Attrs, children ...Node) ElementNode {
	return ElementNode{Tag: tag, Attrs: attrs, Children: children}
}

func (n ElementNode) matches(next Node) bool {
	other, ok := next.(ElementNode)
	return ok && other.Tag == n.Tag
}

type hostElement struct {
	id       ElementID
	mounted  bool
	attrs    Attrs
	children childList
}

func (ElementNode) Build() Element {
	return &hostElement{id: uuid.New()}
}

func (n ElementNode) PollReady(w Waker, el Element, changed bool) Poll {
	e := el.(*hostElement)
	if e.children.poll(w, changed) || changed {
		return Ready
	}
	return Pending
}

func (n ElementNode) View(cx *ViewContext, el Element) ChangeList {
	e := el.(*hostElement)
	var changes ChangeList
	if !e.mounted {
		e.mounted = true
		e.attrs = maps.Clone(n.Attrs)
		changes = append(changes, Change{
			Op:     OpInsert,
			ID:     e.id,
			Parent: cx.Parent(),
			Slot:   cx.Slot(),
			Tag:    n.Tag,
			Attrs:  maps.Clone(n.Attrs),
		})
	} else if !maps.Equal(e.attrs, n.Attrs) {
		e.attrs = maps.Clone(n.Attrs)
		changes = append(changes, Change{Op: OpUpdate, ID: e.id, Tag: n.Tag, Attrs: maps.Clone(n.Attrs)})
	}
	changes = append(changes, e.children.view(n.Children, func(i int) *ViewContext {
		return cx.withHost(e.id, i)
	})...)
	return changes
}

// Remove emits a single removal for the host element; the renderer drops the
// whole subtree with it. Descendants are still torn down so their mailboxes
// are closed.
func (e *hostElement) Remove() ChangeList {
	e.children.teardown()
	if !e.mounted {
		return nil
	}
	e.mounted = false
	return ChangeList{{Op: OpRemove, ID: e.id}}
}

// childList holds the elements of an ordered list of child nodes together
// with the descriptions they were last viewed with.
type childList struct {
	nodes    []Node
	elements []Element
}

// poll checks every child, in build order, and reports whether any was ready.
// All children are polled so each records its own readiness for View.
func (c *childList) poll(w Waker, changed bool) bool {
	ready := false
	for i, el := range c.elements {
		if c.nodes[i].PollReady(w, el, changed) == Ready {
			ready = true
		}
	}
	return ready
}

// view reconciles next against the current children by position. Children
// past the end of next are removed after the surviving ones are viewed.
func (c *childList) view(next []Node, cxAt func(i int) *ViewContext) ChangeList {
	var changes ChangeList
	nodes := make([]Node, len(next))
	elements := make([]Element, len(next))
	for i, child := range next {
		child = orEmpty(child)
		var (
			prev Node
			el   Element
		)
		if i < len(c.elements) {
			prev, el = c.nodes[i], c.elements[i]
		}
		var childChanges ChangeList
		elements[i], childChanges = reconcile(cxAt(i), prev, el, child)
		nodes[i] = child
		changes = append(changes, childChanges...)
	}
	for i := len(next); i < len(c.elements); i++ {
		changes = append(changes, c.elements[i].Remove()...)
	}
	c.nodes = nodes
	c.elements = elements
	return changes
}

func (c *childList) remove() ChangeList {
	var changes ChangeList
	for _, el := range c.elements {
		changes = append(changes, el.Remove()...)
	}
	c.nodes = nil
	c.elements = nil
	return changes
}

// teardown removes every child and discards the changes.
func (c *childList) teardown() {
	_ = c.remove()
}
