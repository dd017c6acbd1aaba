package core

import (
	"reflect"
	"slices"

	"github.com/google/uuid"
)

// contextFrame is one provider entry in a persistent stack of context values.
// Frames are never mutated; pushing returns a new head and the previous head
// stays valid for siblings.
type contextFrame struct {
	typ    reflect.Type
	value  any
	parent *contextFrame
}

func (f *contextFrame) push(typ reflect.Type, value any) *contextFrame {
	return &contextFrame{typ: typ, value: value, parent: f}
}

// lookup walks from the innermost frame outwards and returns the nearest
// value published for typ.
func (f *contextFrame) lookup(typ reflect.Type) (any, bool) {
	for frame := f; frame != nil; frame = frame.parent {
		if frame.typ == typ {
			return frame.value, true
		}
	}
	return nil, false
}

// ElementID identifies a host element (text or tagged element) for renderers.
type ElementID = uuid.UUID

// ViewContext is threaded down the tree by View. It carries the position at
// which host elements are inserted, the published context values, and the
// waker that newly built elements forward their wakes to.
//
// ViewContext values are never modified in place; derived contexts are
// returned by the with* helpers, so a parent's context is unchanged after a
// child is viewed.
type ViewContext struct {
	parent   ElementID
	slot     []int
	contexts *contextFrame
	waker    Waker
}

// NewViewContext creates the root view context. Host elements viewed directly
// under it are inserted with the nil parent ID.
func NewViewContext(waker Waker) *ViewContext {
	return &ViewContext{parent: uuid.Nil, waker: waker}
}

// Parent returns the ID of the nearest enclosing host element, or uuid.Nil at
// the root.
func (cx *ViewContext) Parent() ElementID {
	return cx.parent
}

// Slot returns the position of the current node below its host parent as a
// path of child indices. Renderers order siblings by comparing slots.
func (cx *ViewContext) Slot() []int {
	return slices.Clone(cx.slot)
}

// Waker returns the waker newly built elements forward their wakes to.
func (cx *ViewContext) Waker() Waker {
	return cx.waker
}

// withChild returns the context for the i-th child of a non-host container.
func (cx *ViewContext) withChild(i int) *ViewContext {
	next := *cx
	next.slot = append(slices.Clip(cx.slot), i)
	return &next
}

// withHost returns the context for the i-th child of the host element id.
func (cx *ViewContext) withHost(id ElementID, i int) *ViewContext {
	next := *cx
	next.parent = id
	next.slot = []int{i}
	return &next
}

func (cx *ViewContext) withWaker(waker Waker) *ViewContext {
	next := *cx
	next.waker = waker
	return &next
}

func (cx *ViewContext) withContext(typ reflect.Type, value any) *ViewContext {
	next := *cx
	next.contexts = cx.contexts.push(typ, value)
	return &next
}
