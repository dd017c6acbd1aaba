package core

import "reflect"

// View is implemented by view values that render themselves.
type View interface {
	Body(s *Scope) Node
}

// ViewNode combines a view value with the render function that composes it.
// It owns a Scope for the render function's hooks and re-invokes the render
// function only when one of its state hooks was updated or the caller
// signalled a change.
type ViewNode[V any] struct {
	view   V
	render func(V, *Scope) Node
}

// Compose creates a view node that renders view with render.
func Compose[V any](view V, render func(V, *Scope) Node) ViewNode[V] {
	return ViewNode[V]{view: view, render: render}
}

// Component creates a view node for a value that implements View.
func Component[V View](view V) ViewNode[V] {
	return Compose(view, func(v V, s *Scope) Node {
		return v.Body(s)
	})
}

// viewElement is the element of a ViewNode. It is unbuilt until the first
// View, which creates the scope, mailbox and wakers and performs the initial
// render.
type viewElement struct {
	state *viewState
}

type viewState struct {
	scope *Scope
	rx    *mailbox

	// rxWaker fires when a setter enqueues an update; bodyWaker fires when
	// any element below the body signals a wake. Both forward to the waker
	// this node was last polled with.
	rxWaker   *FlagWaker
	bodyWaker *FlagWaker

	body   Node
	bodyEl Element

	isRxReady   bool
	isBodyReady bool
	removed     bool
}

// matches reports whether next renders with the same function as n. View
// nodes sharing a view type but built from different render functions keep
// separate scopes, so hook slots never cross between them.
func (n ViewNode[V]) matches(next Node) bool {
	other, ok := next.(ViewNode[V])
	if !ok {
		return false
	}
	return renderPC(n.render) == renderPC(other.render)
}

func renderPC(fn any) uintptr {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.IsNil() {
		return 0
	}
	return v.Pointer()
}

func (ViewNode[V]) Build() Element {
	return &viewElement{}
}

// PollReady merges the two readiness sources of the node. Pending updates are
// applied to the scope when the mailbox was signalled; the body is polled when
// a change is forced, an update was applied, or a descendant woke it. The node
// is Ready if the caller forced a change or either source produced output.
func (n ViewNode[V]) PollReady(w Waker, el Element, changed bool) Poll {
	e := el.(*viewElement)
	st := e.state
	if st == nil {
		return Ready
	}
	if st.removed {
		return Pending
	}
	st.rxWaker.SetDelegate(w)
	st.bodyWaker.SetDelegate(w)

	rxReady := false
	if st.rxWaker.Take() {
		rxReady = st.applyUpdates() > 0
	}

	bodyChanged := changed || rxReady
	bodyReady := false
	if st.bodyWaker.Take() || bodyChanged {
		bodyReady = st.body.PollReady(st.bodyWaker, st.bodyEl, bodyChanged) == Ready
	}

	if changed || bodyReady || rxReady {
		st.isRxReady = rxReady || changed
		st.isBodyReady = bodyReady
		return Ready
	}
	return Pending
}

// View performs the initial render of an unbuilt element. On later cycles it
// re-renders once if state changed, then views the body if either readiness
// source fired.
func (n ViewNode[V]) View(cx *ViewContext, el Element) ChangeList {
	e := el.(*viewElement)
	if e.state == nil {
		return n.mount(cx, e)
	}
	st := e.state
	if st.removed {
		return nil
	}
	bodyCx := cx.withWaker(st.bodyWaker)

	if st.isRxReady {
		st.isRxReady, st.isBodyReady = false, false
		next := n.compose(st, cx)
		var changes ChangeList
		st.bodyEl, changes = reconcile(bodyCx, st.body, st.bodyEl, next)
		st.body = next
		return changes
	}
	if st.isBodyReady {
		st.isBodyReady = false
		return st.body.View(bodyCx, st.bodyEl)
	}
	return nil
}

func (n ViewNode[V]) mount(cx *ViewContext, e *viewElement) ChangeList {
	st := &viewState{
		rxWaker:   NewFlagWaker(cx.Waker()),
		bodyWaker: NewFlagWaker(cx.Waker()),
	}
	st.rx = newMailbox(st.rxWaker)
	st.scope = newScope(st.rx)
	e.state = st

	st.body = n.compose(st, cx)
	st.bodyEl = st.body.Build()
	return st.body.View(cx.withWaker(st.bodyWaker), st.bodyEl)
}

// compose runs one render pass with the hook cursor reset.
func (n ViewNode[V]) compose(st *viewState, cx *ViewContext) Node {
	st.scope.begin(cx.contexts)
	body := n.render(n.view, st.scope)
	st.scope.end()
	return orEmpty(body)
}

// applyUpdates drains the mailbox into the scope in arrival order and returns
// the number of updates applied.
func (st *viewState) applyUpdates() int {
	updates := st.rx.drain()
	for _, u := range updates {
		st.scope.apply(u)
	}
	return len(updates)
}

// Remove tears down the body and closes the mailbox. Setters captured before
// removal keep working but their updates are dropped.
func (e *viewElement) Remove() ChangeList {
	st := e.state
	if st == nil || st.removed {
		return nil
	}
	st.removed = true
	st.rx.close()
	return st.bodyEl.Remove()
}
