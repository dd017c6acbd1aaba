// Package demo contains the tick counter app rendered by the run command.
package demo

import (
	"sync"

	"github.com/go-drift/actuate/pkg/core"
)

// Theme is published to the whole app through a provider.
type Theme struct {
	Accent string
}

// DefaultTheme is the theme the app provides to its children.
var DefaultTheme = Theme{Accent: "teal"}

// Controller drives the app from outside the render loop. Tick may be called
// from any goroutine.
type Controller struct {
	mu     sync.Mutex
	set    core.Setter[int]
	issued int
	target int
	done   chan struct{}
	once   sync.Once
}

// Tick advances the counter by one. Ticks before the first render and ticks
// past the target are dropped. It reports whether the tick was sent.
func (c *Controller) Tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.set.Valid() || c.issued >= c.target {
		return false
	}
	c.issued++
	c.set.Update(func(n int) int { return n + 1 })
	return true
}

// Done is closed once the target tick count has been rendered.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

func (c *Controller) bind(set core.Setter[int]) {
	c.mu.Lock()
	c.set = set
	c.mu.Unlock()
}

func (c *Controller) rendered(ticks int) {
	if ticks >= c.target {
		c.once.Do(func() { close(c.done) })
	}
}

type app struct {
	title string
	ctrl  *Controller
}

// New returns the root node of the app and its controller. The app renders
// a heading, the current tick count and one list item per tick, and signals
// Done when target ticks have been rendered.
func New(title string, target int) (core.Node, *Controller) {
	ctrl := &Controller{target: target, done: make(chan struct{})}
	return core.Compose(app{title: title, ctrl: ctrl}, renderApp), ctrl
}

func renderApp(a app, s *core.Scope) core.Node {
	ticks, set := core.UseState(s, 0)
	a.ctrl.bind(set)
	defer a.ctrl.rendered(ticks)

	return core.UseProvider(s, DefaultTheme, func() core.Node {
		return core.El("main", core.Attrs{"title": a.title},
			core.Component(heading{text: a.title}),
			core.Compose(ticks, renderStatus),
			core.Compose(ticks, renderLog),
		)
	})
}

type heading struct {
	text string
}

func (h heading) Body(s *core.Scope) core.Node {
	theme := core.UseContext[Theme](s)
	return core.El("h1", core.Attrs{"color": theme.Accent}, core.Text(h.text))
}

func renderStatus(ticks int, s *core.Scope) core.Node {
	return core.El("p", core.Attrs{"role": "status"},
		core.Textf("ticks: %d", ticks),
	)
}

func renderLog(ticks int, s *core.Scope) core.Node {
	items := make([]core.Node, ticks)
	for i := range items {
		items[i] = core.Keyed(i, core.El("li", nil, core.Textf("tick %d", i+1)))
	}
	return core.El("ol", nil, items...)
}
