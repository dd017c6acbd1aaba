package core

import "reflect"

// ProviderNode publishes Value to every node in Child's subtree. UseContext
// calls below it observe the nearest ProviderNode of the requested type.
type ProviderNode[T any] struct {
	Value T
	Child Node
}

// Provide creates a provider node.
func Provide[T any](value T, child Node) ProviderNode[T] {
	return ProviderNode[T]{Value: value, Child: orEmpty(child)}
}

type providerElement struct {
	child Node
	el    Element
}

func (ProviderNode[T]) Build() Element {
	return &providerElement{}
}

func (n ProviderNode[T]) PollReady(w Waker, el Element, changed bool) Poll {
	e := el.(*providerElement)
	if e.el == nil {
		return Ready
	}
	if e.child.PollReady(w, e.el, changed) == Ready || changed {
		return Ready
	}
	return Pending
}

// View pushes the provider frame for the duration of the child's view. The
// caller's context is left untouched, so siblings never observe the value.
func (n ProviderNode[T]) View(cx *ViewContext, el Element) ChangeList {
	e := el.(*providerElement)
	inner := cx.withContext(reflect.TypeFor[T](), n.Value)
	next := orEmpty(n.Child)
	var changes ChangeList
	e.el, changes = reconcile(inner, e.child, e.el, next)
	e.child = next
	return changes
}

func (e *providerElement) Remove() ChangeList {
	if e.el == nil {
		return nil
	}
	changes := e.el.Remove()
	e.el = nil
	e.child = nil
	return changes
}
