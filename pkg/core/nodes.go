package core

import (
	"fmt"

	"github.com/google/uuid"
)

// TextNode is a leaf host node holding a string.
type TextNode struct {
	Content string
}

// Text creates a text node.
func Text(content string) TextNode {
	return TextNode{Content: content}
}

// Textf creates a text node from a format string.
func Textf(format string, args ...any) TextNode {
	return TextNode{Content: fmt.Sprintf(format, args...)}
}

type textElement struct {
	id      ElementID
	content string
	mounted bool
}

func (TextNode) Build() Element {
	return &textElement{id: uuid.New()}
}

// PollReady is Ready only when the caller signals a change; text has no
// asynchronous sources.
func (TextNode) PollReady(_ Waker, _ Element, changed bool) Poll {
	if changed {
		return Ready
	}
	return Pending
}

func (n TextNode) View(cx *ViewContext, el Element) ChangeList {
	e := el.(*textElement)
	if !e.mounted {
		e.mounted = true
		e.content = n.Content
		return ChangeList{{Op: OpInsert, ID: e.id, Parent: cx.Parent(), Slot: cx.Slot(), Text: n.Content}}
	}
	if e.content == n.Content {
		return nil
	}
	e.content = n.Content
	return ChangeList{{Op: OpUpdate, ID: e.id, Text: n.Content}}
}

func (e *textElement) Remove() ChangeList {
	if !e.mounted {
		return nil
	}
	e.mounted = false
	return ChangeList{{Op: OpRemove, ID: e.id}}
}

// EmptyNode contributes nothing to the tree. A nil Node is treated as EmptyNode.
type EmptyNode struct{}

// Empty returns an EmptyNode.
func Empty() EmptyNode {
	return EmptyNode{}
}

type emptyElement struct{}

func (EmptyNode) Build() Element { return emptyElement{} }

func (EmptyNode) PollReady(_ Waker, _ Element, changed bool) Poll {
	if changed {
		return Ready
	}
	return Pending
}

func (EmptyNode) View(*ViewContext, Element) ChangeList { return nil }

func (emptyElement) Remove() ChangeList { return nil }

// KeyedNode gives a node an explicit identity for reconciliation.
type KeyedNode struct {
	key  any
	node Node
}

// Keyed wraps node with key. When a parent re-renders, an element is only
// reused for a node with an equal key and the same underlying type.
func Keyed(key any, node Node) KeyedNode {
	return KeyedNode{key: key, node: orEmpty(node)}
}

// Key returns the node's key.
func (k KeyedNode) Key() any { return k.key }

func (k KeyedNode) matches(next Node) bool {
	other, ok := next.(KeyedNode)
	return ok && canUpdate(k.node, other.node)
}

func (k KeyedNode) Build() Element { return k.node.Build() }

func (k KeyedNode) PollReady(w Waker, el Element, changed bool) Poll {
	return k.node.PollReady(w, el, changed)
}

func (k KeyedNode) View(cx *ViewContext, el Element) ChangeList {
	return k.node.View(cx, el)
}
