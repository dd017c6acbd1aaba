package core

import "sync"

// UpdateKind selects how an Update changes its hook slot.
type UpdateKind int

const (
	// UpdateValue replaces the slot with Update.Value.
	UpdateValue UpdateKind = iota
	// UpdateFunc replaces the slot with Update.Fn applied to its current value.
	UpdateFunc
)

// Update is a pending change to one hook slot, sent by a setter and applied
// by the owning view node during its next readiness check.
type Update struct {
	Index int
	Kind  UpdateKind
	Value any
	Fn    func(any) any
}

func (u Update) apply(current any) any {
	if u.Kind == UpdateFunc && u.Fn != nil {
		return u.Fn(current)
	}
	return u.Value
}

// mailbox is the unbounded update channel of a Scope. Senders never block;
// the receiver drains it in arrival order. Each send wakes the receiver's
// waker. After close, sends are dropped.
type mailbox struct {
	mu     sync.Mutex
	queue  []Update
	closed bool
	waker  Waker
}

func newMailbox(waker Waker) *mailbox {
	return &mailbox{waker: waker}
}

// send enqueues u and wakes the receiver. It reports false when the mailbox
// was closed and the update was dropped.
func (m *mailbox) send(u Update) bool {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	m.queue = append(m.queue, u)
	waker := m.waker
	m.mu.Unlock()

	if waker != nil {
		waker.Wake()
	}
	return true
}

// drain removes and returns every queued update in FIFO order.
func (m *mailbox) drain() []Update {
	m.mu.Lock()
	defer m.mu.Unlock()
	queued := m.queue
	m.queue = nil
	return queued
}

// pending returns the number of queued updates.
func (m *mailbox) pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

func (m *mailbox) close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.queue = nil
}

func (m *mailbox) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
