package core

import "sync"

// Poll is the result of a cooperative readiness check.
type Poll int

const (
	// Pending means there is no new output yet. The node has registered the
	// waker it was polled with and will signal it when that changes.
	Pending Poll = iota
	// Ready means the node has new output for this cycle and View may be called.
	Ready
)

func (p Poll) String() string {
	if p == Ready {
		return "ready"
	}
	return "pending"
}

// IsReady reports whether p is Ready.
func (p Poll) IsReady() bool {
	return p == Ready
}

// Waker is signalled when a pending node may have become ready.
// Wake may be called from any goroutine.
type Waker interface {
	Wake()
}

// WakerFunc adapts a function to the Waker interface.
type WakerFunc func()

// Wake calls f. A nil WakerFunc does nothing.
func (f WakerFunc) Wake() {
	if f != nil {
		f()
	}
}

// FlagWaker remembers whether it was woken since the last Take and forwards
// every wake to its delegate. Elements install one per readiness source so a
// wake that arrives between two polls is seen by the next poll.
//
// FlagWaker is safe for concurrent use.
type FlagWaker struct {
	mu       sync.Mutex
	woken    bool
	delegate Waker
}

// NewFlagWaker creates a FlagWaker forwarding to delegate (which may be nil).
func NewFlagWaker(delegate Waker) *FlagWaker {
	return &FlagWaker{delegate: delegate}
}

// Wake records the wake and forwards it to the delegate.
func (f *FlagWaker) Wake() {
	f.mu.Lock()
	f.woken = true
	delegate := f.delegate
	f.mu.Unlock()
	if delegate != nil {
		delegate.Wake()
	}
}

// Take reports whether the waker fired since the previous Take and clears the flag.
func (f *FlagWaker) Take() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	woken := f.woken
	f.woken = false
	return woken
}

// Woken reports whether the waker fired since the previous Take without clearing it.
func (f *FlagWaker) Woken() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.woken
}

// SetDelegate replaces the waker that receives forwarded wakes.
// A nil delegate keeps the current one.
func (f *FlagWaker) SetDelegate(delegate Waker) {
	if delegate == nil {
		return
	}
	f.mu.Lock()
	f.delegate = delegate
	f.mu.Unlock()
}
