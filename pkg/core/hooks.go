package core

import (
	"fmt"
	"reflect"

	"github.com/go-drift/actuate/pkg/errors"
)

// Setter updates a state hook from outside the render pass, typically from an
// event handler, a timer or another goroutine. Setters are safe for
// concurrent use. Calls made after the owning element was removed are
// silently dropped.
type Setter[T any] struct {
	idx int
	tx  *mailbox
}

// Valid reports whether s was returned by UseState. The zero Setter drops
// every update.
func (s Setter[T]) Valid() bool {
	return s.tx != nil
}

// Set schedules value as the hook's next value.
func (s Setter[T]) Set(value T) {
	if s.tx == nil {
		return
	}
	s.tx.send(Update{Index: s.idx, Kind: UpdateValue, Value: value})
}

// Update schedules fn to compute the hook's next value from its value at the
// time the update is applied. Updates apply in the order they were sent.
func (s Setter[T]) Update(fn func(T) T) {
	if s.tx == nil || fn == nil {
		return
	}
	s.tx.send(Update{Index: s.idx, Kind: UpdateFunc, Fn: func(current any) any {
		value, _ := current.(T)
		return fn(value)
	}})
}

// UseState returns the current value of the state hook at the next slot and
// a setter for it. On the first pass the slot is initialized to initial.
//
// Example:
//
//	func counter(_ struct{}, s *core.Scope) core.Node {
//	    count, setCount := core.UseState(s, 0)
//	    onTap := func() { setCount.Update(func(n int) int { return n + 1 }) }
//	    ...
//	}
func UseState[T any](s *Scope, initial T) (T, Setter[T]) {
	idx := s.next("core.UseState", initial)
	stored := s.hooks[idx]
	if stored == nil {
		var zero T
		return zero, Setter[T]{idx: idx, tx: s.tx}
	}
	value, ok := stored.(T)
	if !ok {
		panic(&errors.HookError{
			Op:         "core.UseState",
			Index:      idx,
			Reason:     fmt.Sprintf("slot holds %T, requested %s", stored, reflect.TypeFor[T]()),
			StackTrace: errors.CaptureStack(),
		})
	}
	return value, Setter[T]{idx: idx, tx: s.tx}
}

// LookupContext returns the value published by the nearest enclosing provider
// of type T, and whether one exists.
func LookupContext[T any](s *Scope) (T, bool) {
	var zero T
	value, ok := s.contexts.lookup(reflect.TypeFor[T]())
	if !ok {
		return zero, false
	}
	if value == nil {
		return zero, true
	}
	return value.(T), true
}

// UseContext returns the value published by the nearest enclosing provider of
// type T. It panics with a *errors.ContextError if no provider exists; use
// LookupContext when absence is expected.
func UseContext[T any](s *Scope) T {
	value, ok := LookupContext[T](s)
	if !ok {
		panic(&errors.ContextError{
			Type:       reflect.TypeFor[T]().String(),
			StackTrace: errors.CaptureStack(),
		})
	}
	return value
}

// UseProvider publishes value to body. The value is visible to UseContext
// calls made while body runs and, through the returned Provider node, to
// every node body produces. Siblings composed after UseProvider returns do
// not see it.
func UseProvider[T any](s *Scope, value T, body func() Node) Node {
	typ := reflect.TypeFor[T]()
	prev := s.contexts
	s.contexts = prev.push(typ, value)
	defer func() {
		s.contexts = prev
	}()
	return Provide(value, body())
}
