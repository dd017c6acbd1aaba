package testing

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/go-drift/actuate/pkg/core"
	"github.com/go-drift/actuate/pkg/errors"
	"github.com/go-drift/actuate/pkg/render"
	"github.com/go-drift/actuate/pkg/vdom"
)

// DefaultSettleFrames bounds PumpAndSettle.
const DefaultSettleFrames = 100

// ErrSettleTimeout is returned when PumpAndSettle exceeds its frame budget.
var ErrSettleTimeout = fmt.Errorf("PumpAndSettle: tree did not settle: %w", errors.ErrSettleLimit)

// ViewTester mounts a node tree over an in-memory host surface and drives it
// frame by frame without a render loop.
type ViewTester struct {
	host *render.Memory
	dom  *vdom.VirtualDom
	opts []vdom.Option
}

// NewViewTester creates a tester with an empty host surface.
// Call Cleanup when done, or use NewViewTesterWithT instead.
func NewViewTester(opts ...vdom.Option) *ViewTester {
	return &ViewTester{host: render.NewMemory(), opts: opts}
}

// NewViewTesterWithT creates a tester that unmounts its tree via t.Cleanup.
// This is the recommended constructor for tests.
func NewViewTesterWithT(t testing.TB, opts ...vdom.Option) *ViewTester {
	tester := NewViewTester(opts...)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts the current tree, if any.
func (t *ViewTester) Cleanup() {
	if t.dom != nil && t.dom.Mounted() {
		_ = t.dom.Unmount()
	}
	t.dom = nil
}

// PumpNode mounts (or remounts) root on a fresh host surface and applies the
// initial view.
func (t *ViewTester) PumpNode(root core.Node) error {
	t.Cleanup()
	t.host = render.NewMemory()
	t.dom = vdom.New(root, t.host, t.opts...)
	return t.dom.Mount()
}

// Pump runs a single frame: poll the root and apply its changes if it was
// ready. It reports whether a frame was produced.
func (t *ViewTester) Pump() (bool, error) {
	if t.dom == nil {
		return false, errors.ErrNotMounted
	}
	return t.dom.Step()
}

// PumpAndSettle pumps frames until the tree is idle. It returns
// ErrSettleTimeout if the tree is still ready after DefaultSettleFrames.
func (t *ViewTester) PumpAndSettle() error {
	if t.dom == nil {
		return errors.ErrNotMounted
	}
	if _, err := t.dom.Settle(DefaultSettleFrames); err != nil {
		if stderrors.Is(err, errors.ErrSettleLimit) {
			return ErrSettleTimeout
		}
		return err
	}
	return nil
}

// Refresh forces every view in the tree to re-render and applies the result.
func (t *ViewTester) Refresh() error {
	if t.dom == nil {
		return errors.ErrNotMounted
	}
	return t.dom.Refresh()
}

// Host returns the in-memory host surface.
func (t *ViewTester) Host() *render.Memory {
	return t.host
}

// Frames returns the number of non-empty frames applied since PumpNode.
func (t *ViewTester) Frames() int {
	if t.dom == nil {
		return 0
	}
	return t.dom.Frames()
}

// Text returns all text on the host surface in document order.
func (t *ViewTester) Text() string {
	return t.host.Text()
}

// Find evaluates a finder against the host surface.
func (t *ViewTester) Find(finder Finder) FinderResult {
	return FinderResult{
		nodes:  finder.Evaluate(t.host.Root()),
		finder: finder,
	}
}
