package core

import (
	"sync/atomic"
	"testing"
)

// countingWaker records how many times it was woken.
type countingWaker struct {
	n atomic.Int32
}

func (w *countingWaker) Wake() {
	w.n.Add(1)
}

func (w *countingWaker) count() int {
	return int(w.n.Load())
}

// harness drives a single root node the way a driver does.
type harness struct {
	t     *testing.T
	node  Node
	el    Element
	waker *countingWaker
	cx    *ViewContext
}

func newHarness(t *testing.T, node Node) (*harness, ChangeList) {
	t.Helper()
	h := &harness{t: t, node: node, waker: &countingWaker{}}
	h.cx = NewViewContext(h.waker)
	h.el = node.Build()
	changes := node.View(h.cx, h.el)
	return h, changes
}

func (h *harness) poll(changed bool) Poll {
	return h.node.PollReady(h.waker, h.el, changed)
}

// step polls once and views when ready.
func (h *harness) step(changed bool) (Poll, ChangeList) {
	p := h.poll(changed)
	if p != Ready {
		return p, nil
	}
	return p, h.node.View(h.cx, h.el)
}

// texts returns the text of every insert or update change.
func texts(changes ChangeList) []string {
	var out []string
	for _, c := range changes {
		if c.Tag == "" && c.Op != OpRemove {
			out = append(out, c.Text)
		}
	}
	return out
}

func ops(changes ChangeList) []Op {
	out := make([]Op, len(changes))
	for i, c := range changes {
		out[i] = c.Op
	}
	return out
}

// capture holds the setter and render count of a test view.
type capture[T any] struct {
	set     Setter[T]
	renders int
	last    T
}
