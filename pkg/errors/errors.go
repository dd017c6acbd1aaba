// Package errors provides structured error handling for the actuate render core.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindHook indicates a hook-order violation inside a render function.
	KindHook
	// KindContext indicates a context lookup with no enclosing provider.
	KindContext
	// KindRender indicates a renderer failed to apply a change list.
	KindRender
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindWire indicates a change list could not be encoded or decoded.
	KindWire
	// KindConfig indicates an invalid configuration value.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindHook:
		return "hook"
	case KindContext:
		return "context"
	case KindRender:
		return "render"
	case KindPanic:
		return "panic"
	case KindWire:
		return "wire"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

var (
	// ErrUnknownElement is returned by renderers for changes that address an
	// element they never inserted.
	ErrUnknownElement = stderrors.New("unknown element")
	// ErrDuplicateElement is returned when an insert reuses a live element ID.
	ErrDuplicateElement = stderrors.New("duplicate element")
	// ErrNotMounted is returned when a driver is stepped before Mount.
	ErrNotMounted = stderrors.New("render tree not mounted")
	// ErrSettleLimit is returned when a tree keeps reporting ready past the
	// configured number of frames.
	ErrSettleLimit = stderrors.New("render tree did not settle")
)

// ActuateError represents a structured error in the render core.
type ActuateError struct {
	// Op is the operation that failed (e.g., "vdom.Step").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ActuateError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *ActuateError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "vdom.Run").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it is itself an error, so callers can
// match hook and context violations with errors.As.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// HookError reports a render function that called its hooks in a different
// order or number than in previous passes.
type HookError struct {
	// Op is the hook that detected the violation (e.g., "core.UseState").
	Op string
	// Index is the hook slot involved.
	Index int
	// Reason describes the mismatch.
	Reason string
	// StackTrace contains the call stack of the offending render.
	StackTrace string
}

func (e *HookError) Error() string {
	return fmt.Sprintf("hook order violation in %s at slot %d: %s", e.Op, e.Index, e.Reason)
}

// Kind returns KindHook.
func (e *HookError) Kind() ErrorKind { return KindHook }

// ContextError reports a context lookup with no provider of the requested type.
type ContextError struct {
	// Type is the requested context type name.
	Type string
	// StackTrace contains the call stack of the lookup.
	StackTrace string
}

func (e *ContextError) Error() string {
	return fmt.Sprintf("no provider for context %s", e.Type)
}

// Kind returns KindContext.
func (e *ContextError) Kind() ErrorKind { return KindContext }

// RenderError represents a change a renderer could not apply.
type RenderError struct {
	// Op is the change operation (insert, update, remove).
	Op string
	// ID is the element the change addressed.
	ID string
	// Err is the underlying error.
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s %s: %v", e.Op, e.ID, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by the render core.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *ActuateError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
