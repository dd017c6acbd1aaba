package vdom

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/go-drift/actuate/pkg/core"
	"github.com/go-drift/actuate/pkg/errors"
)

// DefaultSettleLimit bounds Settle when it is called with a non-positive limit.
const DefaultSettleLimit = 1000

// Renderer applies change lists to a host surface, in order.
type Renderer interface {
	Apply(changes core.ChangeList) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(changes core.ChangeList) error

// Apply calls f.
func (f RendererFunc) Apply(changes core.ChangeList) error {
	return f(changes)
}

// Tee returns a renderer that applies every change list to each of renderers
// in order, stopping at the first error.
func Tee(renderers ...Renderer) Renderer {
	return RendererFunc(func(changes core.ChangeList) error {
		for _, r := range renderers {
			if err := r.Apply(changes); err != nil {
				return err
			}
		}
		return nil
	})
}

// Option configures a VirtualDom.
type Option func(*VirtualDom)

// WithLogger sets the logger used for frame diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(d *VirtualDom) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMaxFrames makes Run return after n frames were applied. Zero means no limit.
func WithMaxFrames(n int) Option {
	return func(d *VirtualDom) {
		d.maxFrames = n
	}
}

// VirtualDom owns a render tree and forwards its changes to a Renderer.
type VirtualDom struct {
	mu       sync.Mutex
	root     core.Node
	el       core.Element
	cx       *core.ViewContext
	renderer Renderer
	mounted  bool
	frames   int

	wake      chan struct{}
	logger    *zap.Logger
	maxFrames int
}

// New creates a driver for root. The tree is not built until Mount or Run.
func New(root core.Node, renderer Renderer, opts ...Option) *VirtualDom {
	d := &VirtualDom{
		root:     root,
		renderer: renderer,
		wake:     make(chan struct{}, 1),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.cx = core.NewViewContext(d.Waker())
	return d
}

// Waker returns the root waker. Waking it never blocks; wakes that arrive
// while one is already pending are merged.
func (d *VirtualDom) Waker() core.Waker {
	return core.WakerFunc(func() {
		select {
		case d.wake <- struct{}{}:
		default:
		}
	})
}

// Frames returns the number of non-empty change lists applied so far.
func (d *VirtualDom) Frames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

// Mounted reports whether the tree has been built and not yet unmounted.
func (d *VirtualDom) Mounted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mounted
}

// Mount builds the root element, performs the initial view and applies it.
// Calling Mount on a mounted tree does nothing.
func (d *VirtualDom) Mount() (err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer d.recoverFrame("vdom.Mount", &err)
	return d.mountLocked()
}

func (d *VirtualDom) mountLocked() error {
	if d.mounted {
		return nil
	}
	start := time.Now()
	d.el = d.root.Build()
	changes := d.root.View(d.cx, d.el)
	d.mounted = true
	if err := d.applyLocked("vdom.Mount", changes); err != nil {
		return err
	}
	d.logger.Debug("mounted",
		zap.Int("changes", len(changes)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Step runs one cycle: it polls the root and, if it is ready, views it and
// applies the changes. It reports whether the root was ready.
func (d *VirtualDom) Step() (bool, error) {
	return d.step("vdom.Step", false)
}

// Refresh forces a change on the whole tree: every view node re-renders and
// the resulting changes are applied.
func (d *VirtualDom) Refresh() error {
	_, err := d.step("vdom.Refresh", true)
	return err
}

func (d *VirtualDom) step(op string, changed bool) (ready bool, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer d.recoverFrame(op, &err)

	if !d.mounted {
		return false, fmt.Errorf("%s: %w", op, errors.ErrNotMounted)
	}
	if d.root.PollReady(d.Waker(), d.el, changed) != core.Ready {
		return false, nil
	}
	changes := d.root.View(d.cx, d.el)
	return true, d.applyLocked(op, changes)
}

// Settle steps until the root reports Pending. It returns the number of ready
// cycles, or an error wrapping errors.ErrSettleLimit if the tree was still
// ready after limit cycles.
func (d *VirtualDom) Settle(limit int) (int, error) {
	if limit <= 0 {
		limit = DefaultSettleLimit
	}
	for cycles := 0; cycles < limit; cycles++ {
		ready, err := d.Step()
		if err != nil {
			return cycles, err
		}
		if !ready {
			return cycles, nil
		}
	}
	return limit, fmt.Errorf("vdom.Settle: %d cycles: %w", limit, errors.ErrSettleLimit)
}

// Run mounts the tree if needed and drives it until ctx is done, a frame
// fails, or the frame limit set by WithMaxFrames is reached. Panics raised by
// render functions are recovered and returned as *errors.PanicError.
func (d *VirtualDom) Run(ctx context.Context) error {
	if err := d.Mount(); err != nil {
		return err
	}
	d.logger.Info("render loop started", zap.Int("max_frames", d.maxFrames))
	defer func() {
		d.logger.Info("render loop stopped", zap.Int("frames", d.Frames()))
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.maxFrames > 0 && d.Frames() >= d.maxFrames {
			return nil
		}
		ready, err := d.Step()
		if err != nil {
			return err
		}
		if ready {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.wake:
		}
	}
}

// Unmount removes the root element and applies the teardown changes. Setters
// captured from the tree become no-ops.
func (d *VirtualDom) Unmount() (err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer d.recoverFrame("vdom.Unmount", &err)

	if !d.mounted {
		return fmt.Errorf("vdom.Unmount: %w", errors.ErrNotMounted)
	}
	changes := d.el.Remove()
	d.mounted = false
	d.el = nil
	return d.applyLocked("vdom.Unmount", changes)
}

func (d *VirtualDom) applyLocked(op string, changes core.ChangeList) error {
	if len(changes) == 0 {
		return nil
	}
	if err := d.renderer.Apply(changes); err != nil {
		return errors.Report(&errors.ActuateError{
			Op:   op,
			Kind: errors.KindRender,
			Err:  err,
		})
	}
	d.frames++
	d.logger.Debug("frame applied",
		zap.String("op", op),
		zap.Int("frame", d.frames),
		zap.Int("changes", len(changes)),
	)
	return nil
}

// recoverFrame converts a panic in render code into a *errors.PanicError,
// reports it and stores it in *errp. The tree is torn down without applying
// its changes and left unmounted.
func (d *VirtualDom) recoverFrame(op string, errp *error) {
	r := recover()
	if r == nil {
		return
	}
	perr := errors.Recovered(op, r)
	d.discardLocked(op)
	d.mounted = false
	d.el = nil
	*errp = perr
}

// discardLocked removes a root element left in an unknown state by a panic so
// that its scopes stop accepting updates. A second panic during removal is
// logged and dropped.
func (d *VirtualDom) discardLocked(op string) {
	if d.el == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn("teardown after panic incomplete", zap.String("op", op), zap.Any("panic", r))
		}
	}()
	d.el.Remove()
}
