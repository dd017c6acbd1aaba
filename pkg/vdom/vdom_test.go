package vdom

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/go-drift/actuate/pkg/core"
	"github.com/go-drift/actuate/pkg/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recorder is a Renderer that keeps every applied frame.
type recorder struct {
	mu     sync.Mutex
	frames []core.ChangeList
	texts  map[core.ElementID]string
}

func newRecorder() *recorder {
	return &recorder{texts: map[core.ElementID]string{}}
}

func (r *recorder) Apply(changes core.ChangeList) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, changes)
	for _, c := range changes {
		switch c.Op {
		case core.OpInsert, core.OpUpdate:
			if c.Tag == "" {
				r.texts[c.ID] = c.Text
			}
		case core.OpRemove:
			delete(r.texts, c.ID)
		}
	}
	return nil
}

func (r *recorder) frameCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// text returns the content of the only text element, or "".
func (r *recorder) text() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.texts {
		return t
	}
	return ""
}

type counter struct {
	mu  sync.Mutex
	set core.Setter[int]
}

func (c *counter) setter() core.Setter[int] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.set
}

func counterNode(c *counter) core.Node {
	return core.Compose("counter", func(_ string, s *core.Scope) core.Node {
		n, set := core.UseState(s, 0)
		c.mu.Lock()
		c.set = set
		c.mu.Unlock()
		return core.Textf("%d", n)
	})
}

// runaway updates its own state on every render, so it never settles.
func runaway() core.Node {
	return core.Compose("runaway", func(_ string, s *core.Scope) core.Node {
		n, set := core.UseState(s, 0)
		set.Set(n + 1)
		return core.Textf("%d", n)
	})
}

func TestMountAppliesInitialView(t *testing.T) {
	rec := newRecorder()
	dom := New(counterNode(&counter{}), rec, WithLogger(zaptest.NewLogger(t)))

	require.NoError(t, dom.Mount())
	assert.True(t, dom.Mounted())
	assert.Equal(t, 1, dom.Frames())
	assert.Equal(t, "0", rec.text())

	require.NoError(t, dom.Mount())
	assert.Equal(t, 1, rec.frameCount(), "second Mount must not re-render")
}

func TestStepBeforeMount(t *testing.T) {
	dom := New(counterNode(&counter{}), newRecorder())
	_, err := dom.Step()
	assert.ErrorIs(t, err, errors.ErrNotMounted)
}

func TestStepPendingWhenQuiet(t *testing.T) {
	rec := newRecorder()
	dom := New(counterNode(&counter{}), rec)
	require.NoError(t, dom.Mount())

	ready, err := dom.Step()
	require.NoError(t, err)
	assert.False(t, ready)
	assert.Equal(t, 1, rec.frameCount())
}

func TestSettleAppliesBatchedUpdates(t *testing.T) {
	c := &counter{}
	rec := newRecorder()
	dom := New(counterNode(c), rec)
	require.NoError(t, dom.Mount())

	set := c.setter()
	set.Set(2)
	set.Update(func(n int) int { return n + 1 })

	cycles, err := dom.Settle(0)
	require.NoError(t, err)
	assert.Equal(t, 1, cycles)
	assert.Equal(t, "3", rec.text())
	assert.Equal(t, 2, rec.frameCount())
}

func TestSettleLimit(t *testing.T) {
	dom := New(runaway(), newRecorder())
	require.NoError(t, dom.Mount())

	cycles, err := dom.Settle(5)
	assert.Equal(t, 5, cycles)
	assert.ErrorIs(t, err, errors.ErrSettleLimit)
}

func TestRefreshRerendersTree(t *testing.T) {
	renders := 0
	root := core.Compose("static", func(_ string, s *core.Scope) core.Node {
		renders++
		return core.Text("fixed")
	})
	rec := newRecorder()
	dom := New(root, rec)
	require.NoError(t, dom.Mount())

	require.NoError(t, dom.Refresh())
	assert.Equal(t, 2, renders)
	assert.Equal(t, 1, rec.frameCount(), "identical output produces no frame")
}

func TestRunStopsOnCancel(t *testing.T) {
	c := &counter{}
	rec := newRecorder()
	dom := New(counterNode(c), rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- dom.Run(ctx)
	}()

	require.Eventually(t, dom.Mounted, time.Second, time.Millisecond)
	c.setter().Set(7)
	require.Eventually(t, func() bool { return rec.text() == "7" }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunWakesFromManyGoroutines(t *testing.T) {
	c := &counter{}
	rec := newRecorder()
	dom := New(counterNode(c), rec)
	require.NoError(t, dom.Mount())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- dom.Run(ctx)
	}()

	set := c.setter()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				set.Update(func(n int) int { return n + 1 })
			}
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool { return rec.text() == "100" }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestRunMaxFrames(t *testing.T) {
	rec := newRecorder()
	dom := New(runaway(), rec, WithMaxFrames(3))

	require.NoError(t, dom.Run(context.Background()))
	assert.Equal(t, 3, dom.Frames())
	assert.Equal(t, "2", rec.text())
}

type panicRecorder struct {
	mu     sync.Mutex
	errs   []*errors.ActuateError
	panics []*errors.PanicError
}

func (h *panicRecorder) HandleError(err *errors.ActuateError) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errs = append(h.errs, err)
}

func (h *panicRecorder) HandlePanic(err *errors.PanicError) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.panics = append(h.panics, err)
}

func TestRunRecoversRenderPanic(t *testing.T) {
	handler := &panicRecorder{}
	errors.SetHandler(handler)
	t.Cleanup(func() { errors.SetHandler(nil) })

	root := core.Compose("broken", func(_ string, s *core.Scope) core.Node {
		n, set := core.UseState(s, 0)
		if n == 0 {
			set.Set(1)
			return core.Text("ok")
		}
		panic("render failed")
	})
	dom := New(root, newRecorder())

	err := dom.Run(context.Background())
	var perr *errors.PanicError
	require.True(t, stderrors.As(err, &perr), "want *errors.PanicError, got %v", err)
	assert.Equal(t, "vdom.Step", perr.Op)
	assert.Equal(t, "render failed", perr.Value)
	assert.False(t, dom.Mounted())
	assert.Len(t, handler.panics, 1)
}

func TestRunReturnsHookError(t *testing.T) {
	errors.SetHandler(&panicRecorder{})
	t.Cleanup(func() { errors.SetHandler(nil) })

	root := core.Compose("conditional", func(_ string, s *core.Scope) core.Node {
		grow, set := core.UseState(s, false)
		if grow {
			core.UseState(s, 0)
		} else {
			set.Set(true)
		}
		return nil
	})
	err := New(root, newRecorder()).Run(context.Background())

	var hookErr *errors.HookError
	assert.True(t, stderrors.As(err, &hookErr), "want *errors.HookError in chain, got %v", err)
}

func TestRendererErrorIsWrapped(t *testing.T) {
	handler := &panicRecorder{}
	errors.SetHandler(handler)
	t.Cleanup(func() { errors.SetHandler(nil) })

	boom := stderrors.New("surface lost")
	dom := New(counterNode(&counter{}), RendererFunc(func(core.ChangeList) error {
		return boom
	}))

	err := dom.Mount()
	require.ErrorIs(t, err, boom)
	var aerr *errors.ActuateError
	require.True(t, stderrors.As(err, &aerr))
	assert.Equal(t, errors.KindRender, aerr.Kind)
	assert.Equal(t, "vdom.Mount", aerr.Op)
	assert.False(t, aerr.Timestamp.IsZero())
	require.Len(t, handler.errs, 1)
	assert.Same(t, aerr, handler.errs[0])
}

func TestPanicClosesSetters(t *testing.T) {
	errors.SetHandler(&panicRecorder{})
	t.Cleanup(func() { errors.SetHandler(nil) })

	var set core.Setter[int]
	root := core.Compose("fragile", func(_ string, s *core.Scope) core.Node {
		n, setN := core.UseState(s, 0)
		set = setN
		if n == 1 {
			panic("bad state")
		}
		return core.Textf("%d", n)
	})
	dom := New(root, newRecorder())
	require.NoError(t, dom.Mount())

	set.Set(1)
	_, err := dom.Step()
	var perr *errors.PanicError
	require.True(t, stderrors.As(err, &perr), "want *errors.PanicError, got %v", err)

	select {
	case <-dom.wake:
	default:
	}
	set.Set(2)
	assert.Empty(t, dom.wake, "setter woke a torn-down tree")
}

func TestUnmountDisconnectsSetters(t *testing.T) {
	c := &counter{}
	rec := newRecorder()
	dom := New(counterNode(c), rec)
	require.NoError(t, dom.Mount())

	require.NoError(t, dom.Unmount())
	assert.Empty(t, rec.text())
	assert.False(t, dom.Mounted())

	c.setter().Set(4)
	_, err := dom.Step()
	assert.ErrorIs(t, err, errors.ErrNotMounted)
	assert.ErrorIs(t, dom.Unmount(), errors.ErrNotMounted)
}

func TestTeeStopsAtFirstError(t *testing.T) {
	boom := stderrors.New("boom")
	first, last := newRecorder(), newRecorder()
	tee := Tee(first, RendererFunc(func(core.ChangeList) error { return boom }), last)

	err := tee.Apply(core.ChangeList{{Op: core.OpRemove}})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, first.frameCount())
	assert.Equal(t, 0, last.frameCount())
}
