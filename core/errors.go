package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures raised while setting up or running a lesson.
type ErrorKind int

const (
	ResourceAllocationError ErrorKind = iota + 1
	CompileError
	LinkError
	MissingCapabilityError
	AttributeResolutionError
	DrawError
)

var kindNames = map[ErrorKind]string{
	ResourceAllocationError:  "resource allocation",
	CompileError:             "compile",
	LinkError:                "link",
	MissingCapabilityError:   "missing capability",
	AttributeResolutionError: "attribute resolution",
	DrawError:                "draw",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Fatal reports whether an error of this kind must abort Setup. Only draw
// errors are tolerated while running.
func (k ErrorKind) Fatal() bool { return k != DrawError }

// Sentinels for errors.Is matching on the kind alone.
var (
	ErrResourceAllocation  = &Error{Kind: ResourceAllocationError}
	ErrCompile             = &Error{Kind: CompileError}
	ErrLink                = &Error{Kind: LinkError}
	ErrMissingCapability   = &Error{Kind: MissingCapabilityError}
	ErrAttributeResolution = &Error{Kind: AttributeResolutionError}
	ErrDraw                = &Error{Kind: DrawError}
)

// Error is a classified failure. Op names the operation that failed
// ("create buffer", "compile vertex shader"), Msg carries diagnostic text
// such as a driver info log.
type Error struct {
	Kind ErrorKind
	Op   string
	Msg  string
	Err  error
}

// Errorf builds a classified error with a formatted message.
func Errorf(kind ErrorKind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	msg := e.Op
	if msg == "" {
		msg = e.Kind.String() + " error"
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so callers can test against the
// Err* sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
