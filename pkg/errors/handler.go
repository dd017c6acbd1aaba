package errors

import (
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

type handlerBox struct{ h ErrorHandler }

var current atomic.Pointer[handlerBox]

func init() {
	current.Store(&handlerBox{h: &LogHandler{}})
}

// SetHandler installs h as the process-wide error handler and returns the
// previous one. Pass nil to restore a LogHandler on the global zap logger.
func SetHandler(h ErrorHandler) ErrorHandler {
	if h == nil {
		h = &LogHandler{}
	}
	return current.Swap(&handlerBox{h: h}).h
}

// Handler returns the installed error handler.
func Handler() ErrorHandler {
	return current.Load().h
}

// Report stamps err and passes it to the installed handler. It returns err
// so call sites can report and return in one statement.
func Report(err *ActuateError) *ActuateError {
	if err == nil {
		return nil
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
	return err
}

// ReportPanic stamps err and passes it to the installed handler.
func ReportPanic(err *PanicError) *PanicError {
	if err == nil {
		return nil
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandlePanic(err)
	return err
}

// Recovered builds and reports the PanicError for a value obtained from
// recover() while running op.
func Recovered(op string, value any) *PanicError {
	return ReportPanic(&PanicError{
		Op:         op,
		Value:      value,
		StackTrace: captureStack(4),
	})
}

// Recover must be deferred directly. It stops a panic in the surrounding
// function, reports it, and hands the PanicError to onPanic when non-nil.
//
//	defer errors.Recover("cmd.ticker", func(p *errors.PanicError) { err = p })
func Recover(op string, onPanic func(*PanicError)) {
	r := recover()
	if r == nil {
		return
	}
	perr := Recovered(op, r)
	if onPanic != nil {
		onPanic(perr)
	}
}

// CaptureStack formats the stack of its caller.
func CaptureStack() string {
	return captureStack(3)
}

func captureStack(skip int) string {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for more := true; more; {
		var f runtime.Frame
		f, more = frames.Next()
		sb.WriteString(f.Function + "\n\t" + f.File + ":" + strconv.Itoa(f.Line) + "\n")
	}
	return sb.String()
}
