// Package core provides the node and element framework that reconciles a tree
// of view descriptions into a persistent element tree and emits change lists.
//
// # Core Types
//
// Node is an immutable description of part of the tree. Nodes are rebuilt on
// every composition pass and are cheap to create.
//
// Element is the long-lived runtime state paired with a Node. It is created
// once by [Node.Build] and mutated in place by [Node.PollReady] and
// [Node.View].
//
// Change and ChangeList describe the structural mutations a renderer applies
// to its host surface (insert, update, remove).
//
// # Views and Hooks
//
// Compose turns a view value and a render function into a node. The render
// function receives a [Scope] holding the node's hook storage:
//
//	func counter(label string, s *core.Scope) core.Node {
//	    count, setCount := core.UseState(s, 0)
//	    return core.El("button", core.Attrs{"label": label},
//	        core.Textf("%d", count),
//	    )
//	}
//
//	root := core.Compose("clicks", counter)
//
// Setters never mutate hook storage directly. They enqueue an update on the
// scope's mailbox, which is drained during the owning node's next readiness
// check. Hooks are addressed by call order, so a render function must call
// the same hooks in the same order on every pass.
//
// # Readiness
//
// Driving the tree is cooperative: PollReady reports Ready when a node has new
// output (because the caller signalled a change, a state update arrived, or a
// descendant became ready) and Pending otherwise. Pending nodes are re-checked
// after a [Waker] fires. View must only be called after PollReady reported
// Ready for the cycle.
//
// # Context
//
// UseProvider and Provide publish a typed value to a subtree; UseContext reads
// the value from the nearest enclosing provider of that type.
package core
