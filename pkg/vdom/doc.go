// Package vdom drives a render tree to completion.
//
// A VirtualDom owns the root node, its element and the waker every element in
// the tree ultimately forwards to. It seeds the tree with Mount, then
// alternates between polling the root and applying the resulting change lists
// to a Renderer:
//
//	dom := vdom.New(root, render.NewMemory(), vdom.WithLogger(logger))
//	if err := dom.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
//	    return err
//	}
//
// Wakes may arrive from any goroutine. They are coalesced into a single
// pending signal, so a burst of setter calls between two frames produces one
// poll of the root.
package vdom
