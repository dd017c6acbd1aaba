// Package testbed provides internal test views for the testing framework.
package testbed

import (
	"github.com/go-drift/actuate/pkg/core"
)

// Counter is a view that displays a count inside a button. Bind receives the
// count's setter on every render so tests can drive it.
type Counter struct {
	Initial int
	Label   string
	Bind    func(set core.Setter[int])
}

func (c Counter) Body(s *core.Scope) core.Node {
	count, set := core.UseState(s, c.Initial)
	if c.Bind != nil {
		c.Bind(set)
	}
	label := c.Label
	if label == "" {
		label = "count"
	}
	return core.El("button", core.Attrs{"label": label},
		core.Textf("%d", count),
	)
}

// Node returns the counter as a view node.
func (c Counter) Node() core.Node {
	return core.Component(c)
}

// List renders one item element per entry of its state.
type List struct {
	Items []string
	Bind  func(set core.Setter[[]string])
}

func (l List) Body(s *core.Scope) core.Node {
	items, set := core.UseState(s, l.Items)
	if l.Bind != nil {
		l.Bind(set)
	}
	children := make([]core.Node, len(items))
	for i, item := range items {
		children[i] = core.Keyed(item, core.El("li", nil, core.Text(item)))
	}
	return core.El("ul", nil, children...)
}

// Node returns the list as a view node.
func (l List) Node() core.Node {
	return core.Component(l)
}
