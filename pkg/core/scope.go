package core

import (
	"fmt"

	"github.com/go-drift/actuate/pkg/errors"
)

// Scope is the per-instance storage of a view node: ordered hook slots, the
// cursor used to hand them out, the context values visible to the node, and
// the send half of its update mailbox.
//
// A Scope is created on the first View of its node and lives until the node's
// element is removed. Render functions receive it and pass it to hooks; it
// must not be retained or used outside the render call.
type Scope struct {
	hooks    []any
	idx      int
	sealed   bool
	contexts *contextFrame
	tx       *mailbox
}

func newScope(tx *mailbox) *Scope {
	return &Scope{tx: tx}
}

// begin starts a composition pass.
func (s *Scope) begin(contexts *contextFrame) {
	s.idx = 0
	s.contexts = contexts
}

// end finishes a composition pass. The first pass fixes the number of hooks;
// later passes must call exactly that many.
func (s *Scope) end() {
	if s.sealed && s.idx != len(s.hooks) {
		panic(&errors.HookError{
			Op:         "core.Scope",
			Index:      s.idx,
			Reason:     fmt.Sprintf("render called %d hooks, previous passes called %d", s.idx, len(s.hooks)),
			StackTrace: errors.CaptureStack(),
		})
	}
	s.sealed = true
}

// next returns the slot index for the next hook call, allocating the slot with
// initial on the first pass.
func (s *Scope) next(op string, initial any) int {
	idx := s.idx
	s.idx++
	if idx < len(s.hooks) {
		return idx
	}
	if s.sealed {
		panic(&errors.HookError{
			Op:         op,
			Index:      idx,
			Reason:     fmt.Sprintf("render called more hooks than the %d of previous passes", len(s.hooks)),
			StackTrace: errors.CaptureStack(),
		})
	}
	s.hooks = append(s.hooks, initial)
	return idx
}

// apply writes a drained update into its slot. Updates addressing a slot
// that does not exist are dropped.
func (s *Scope) apply(u Update) {
	if u.Index < 0 || u.Index >= len(s.hooks) {
		return
	}
	s.hooks[u.Index] = u.apply(s.hooks[u.Index])
}

// HookCount returns the number of allocated hook slots.
func (s *Scope) HookCount() int {
	return len(s.hooks)
}
