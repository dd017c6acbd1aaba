package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/actuate/pkg/render"
)

// Finder locates nodes on the host surface.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	// The root itself is never matched.
	Evaluate(root *render.HostNode) []*render.HostNode
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*render.HostNode
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *render.HostNode {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.description()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *render.HostNode {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *render.HostNode {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.description()))
	}
	return r.nodes[index]
}

// All returns all matches in document order.
func (r FinderResult) All() []*render.HostNode {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

// Text returns the text content of the first match. Panics if no matches.
func (r FinderResult) Text() string {
	return r.First().TextContent()
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// --- Concrete finders ---

type predicateFinder struct {
	fn   func(*render.HostNode) bool
	desc string
}

func (f *predicateFinder) Evaluate(root *render.HostNode) []*render.HostNode {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByPredicate returns a finder that matches nodes satisfying fn.
func ByPredicate(fn func(*render.HostNode) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// ByTag returns a finder that matches elements with the given tag.
func ByTag(tag string) Finder {
	return &predicateFinder{
		fn:   func(n *render.HostNode) bool { return n.Tag == tag },
		desc: fmt.Sprintf("ByTag(%q)", tag),
	}
}

// ByText returns a finder that matches text nodes with exact content.
func ByText(text string) Finder {
	return &predicateFinder{
		fn:   func(n *render.HostNode) bool { return n.IsText() && n.Text == text },
		desc: fmt.Sprintf("ByText(%q)", text),
	}
}

// ByTextContaining returns a finder that matches text nodes containing substring.
func ByTextContaining(substring string) Finder {
	return &predicateFinder{
		fn:   func(n *render.HostNode) bool { return n.IsText() && strings.Contains(n.Text, substring) },
		desc: fmt.Sprintf("ByTextContaining(%q)", substring),
	}
}

// ByAttr returns a finder that matches elements whose attribute key equals value.
func ByAttr(key, value string) Finder {
	return &predicateFinder{
		fn: func(n *render.HostNode) bool {
			got, ok := n.Attrs[key]
			return ok && got == value
		},
		desc: fmt.Sprintf("ByAttr(%s=%q)", key, value),
	}
}

// descendantFinder finds nodes matching 'matching' that are descendants
// of nodes matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root *render.HostNode) []*render.HostNode {
	var results []*render.HostNode
	seen := make(map[*render.HostNode]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		for _, match := range f.matching.Evaluate(ancestor) {
			if !seen[match] {
				seen[match] = true
				results = append(results, match)
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches nodes satisfying 'matching'
// that are descendants of nodes matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// ancestorFinder finds nodes matching 'matching' that are ancestors of
// nodes matching 'of'.
type ancestorFinder struct {
	of       Finder
	matching Finder
}

func (f *ancestorFinder) Evaluate(root *render.HostNode) []*render.HostNode {
	descendants := f.of.Evaluate(root)
	if len(descendants) == 0 {
		return nil
	}
	var results []*render.HostNode
	for _, candidate := range f.matching.Evaluate(root) {
		for _, desc := range descendants {
			if isAncestorOf(candidate, desc) {
				results = append(results, candidate)
				break
			}
		}
	}
	return results
}

func (f *ancestorFinder) Description() string {
	return fmt.Sprintf("Ancestor(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Ancestor returns a finder that matches nodes satisfying 'matching'
// that are ancestors of nodes matching 'of'.
func Ancestor(of, matching Finder) Finder {
	return &ancestorFinder{of: of, matching: matching}
}

func isAncestorOf(ancestor, descendant *render.HostNode) bool {
	for n := descendant.Parent; n != nil; n = n.Parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

// collectMatches performs a depth-first pre-order traversal below root,
// collecting nodes that satisfy the predicate.
func collectMatches(root *render.HostNode, predicate func(*render.HostNode) bool) []*render.HostNode {
	var results []*render.HostNode
	for _, child := range root.Children {
		walkTree(child, func(n *render.HostNode) {
			if predicate(n) {
				results = append(results, n)
			}
		})
	}
	return results
}

func walkTree(n *render.HostNode, visit func(*render.HostNode)) {
	visit(n)
	for _, child := range n.Children {
		walkTree(child, visit)
	}
}
