package core

import (
	"reflect"
)

// Node is an immutable description of part of the render tree.
//
// Build allocates the element that holds the node's runtime state. PollReady
// is a non-blocking readiness check: it returns Ready when the node has output
// for this cycle (changed is true, or one of its asynchronous sources fired)
// and Pending otherwise, after arranging for w to be woken later. View emits
// the changes for the element and updates it for the next cycle; it returns
// nil when nothing visible changed. View on a freshly built element performs
// the initial render.
type Node interface {
	Build() Element
	PollReady(w Waker, el Element, changed bool) Poll
	View(cx *ViewContext, el Element) ChangeList
}

// Element is the long-lived runtime state of a Node.
type Element interface {
	// Remove tears the element down and returns the changes that remove its
	// contribution from the host surface. Children are torn down in build order.
	Remove() ChangeList
}

// Op is the kind of a Change.
type Op uint8

const (
	// OpInsert adds a host element under Parent at Slot.
	OpInsert Op = iota + 1
	// OpUpdate replaces the text or attributes of an existing host element.
	OpUpdate
	// OpRemove detaches a host element and its subtree.
	OpRemove
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Change is one structural mutation for a renderer.
type Change struct {
	Op     Op
	ID     ElementID
	Parent ElementID
	// Slot orders the element among its siblings under Parent.
	Slot []int
	// Tag is empty for text elements.
	Tag   string
	Text  string
	Attrs Attrs
}

// ChangeList is an ordered list of changes; renderers apply them in order.
// A nil ChangeList means nothing changed.
type ChangeList []Change

// Attrs are the attributes of a host element.
type Attrs map[string]string

// Keyer is implemented by nodes with an explicit identity. Two nodes with
// different keys never share an element.
type Keyer interface {
	Key() any
}

// matcher is implemented by nodes whose identity depends on more than their
// type, such as the tag of an element node.
type matcher interface {
	matches(next Node) bool
}

func keyOf(n Node) any {
	if k, ok := n.(Keyer); ok {
		return k.Key()
	}
	return nil
}

// canUpdate reports whether the element built for prev can be reused for next.
func canUpdate(prev, next Node) bool {
	if prev == nil || next == nil {
		return false
	}
	if reflect.TypeOf(prev) != reflect.TypeOf(next) {
		return false
	}
	if !reflect.DeepEqual(keyOf(prev), keyOf(next)) {
		return false
	}
	if m, ok := prev.(matcher); ok {
		return m.matches(next)
	}
	return true
}

// reconcile views next against the element built for prev. The element is
// reused when the descriptions are compatible; otherwise it is removed and a
// fresh element is built and viewed in its place.
func reconcile(cx *ViewContext, prev Node, el Element, next Node) (Element, ChangeList) {
	if el != nil && canUpdate(prev, next) {
		return el, next.View(cx, el)
	}
	var changes ChangeList
	if el != nil {
		changes = append(changes, el.Remove()...)
	}
	fresh := next.Build()
	changes = append(changes, next.View(cx, fresh)...)
	return fresh, changes
}

func orEmpty(n Node) Node {
	if n == nil {
		return EmptyNode{}
	}
	return n
}
