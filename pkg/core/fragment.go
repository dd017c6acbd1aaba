package core

// FragmentNode groups children without a host element of its own. Its
// children are inserted under the enclosing host parent, ordered after the
// fragment's own slot.
type FragmentNode struct {
	Children []Node
}

// Fragment creates a fragment node.
func Fragment(children ...Node) FragmentNode {
	return FragmentNode{Children: children}
}

type fragmentElement struct {
	children childList
}

func (FragmentNode) Build() Element {
	return &fragmentElement{}
}

func (n FragmentNode) PollReady(w Waker, el Element, changed bool) Poll {
	e := el.(*fragmentElement)
	if e.children.poll(w, changed) || changed {
		return Ready
	}
	return Pending
}

func (n FragmentNode) View(cx *ViewContext, el Element) ChangeList {
	e := el.(*fragmentElement)
	return e.children.view(n.Children, cx.withChild)
}

func (e *fragmentElement) Remove() ChangeList {
	return e.children.remove()
}
