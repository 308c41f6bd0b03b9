package errors

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// stackTrace returns the first found stack trace frame carried by given error
// or any wrapped error. It returns nil if no stack trace is found.
func stackTrace(err error) errors.StackTrace {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}

	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}

// Format works like pkg/errors, with additions.
// %s is just the error message
// %+v is the full stack trace
// %v appends a compressed [filename:line] where the error was created
func (e *wrappedError) Format(s fmt.State, verb rune) {
	// normal output here....
	if verb != 'v' {
		fmt.Fprint(s, e.Error())
		return
	}
	// work with the stack trace... whole or part
	stack := trimInternal(stackTrace(e))
	if s.Flag('+') {
		fmt.Fprintf(s, "%+v\n", stack)
		fmt.Fprint(s, e.Error())
	} else {
		fmt.Fprint(s, e.Error())
		if len(stack) > 0 {
			writeSimpleFrame(s, stack[0])
		}
	}
}

// errorsPkg is the import path of this package as seen in function names.
const errorsPkg = "github.com/iov-one/weave-escrow/errors."

// trimInternal removes the frames of this package and the go runtime from
// both ends of the stack. Frames are matched by function name, so the
// result does not depend on where the sources are checked out.
func trimInternal(st errors.StackTrace) errors.StackTrace {
	for len(st) > 0 && (isWrapFrame(st[0]) || isRuntimeFrame(st[0])) {
		st = st[1:]
	}
	for len(st) > 0 && isRuntimeFrame(st[len(st)-1]) {
		st = st[:len(st)-1]
	}
	return st
}

// isWrapFrame is true for the functions of this package that create or
// wrap errors.
func isWrapFrame(f errors.Frame) bool {
	if !strings.HasPrefix(funcName(f), errorsPkg) {
		return false
	}
	file, _ := fileLine(f)
	switch filepath.Base(file) {
	case "errors.go", "stacktrace.go":
		return true
	}
	return false
}

func isRuntimeFrame(f errors.Frame) bool {
	return strings.HasPrefix(funcName(f), "runtime.")
}

func funcName(f errors.Frame) string {
	fn := runtime.FuncForPC(uintptr(f) - 1)
	if fn == nil {
		return "unknown"
	}
	return fn.Name()
}

func fileLine(f errors.Frame) (string, int) {
	// this looks a bit like magic, but follows
	// https://github.com/pkg/errors/blob/master/stack.go#L14-L27
	// as this is where we get the Frames
	pc := uintptr(f) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown", 0
	}
	return fn.FileLine(pc)
}

// writeSimpleFrame writes the frame as [package dir/file:line].
func writeSimpleFrame(s io.Writer, f errors.Frame) {
	file, line := fileLine(f)
	short := filepath.Join(filepath.Base(filepath.Dir(file)), filepath.Base(file))
	fmt.Fprintf(s, " [%s:%d]", filepath.ToSlash(short), line)
}
