package errors

import (
	"fmt"
	"strings"

	"github.com/halcyon-os/userland/sys"
)

// Op identifies the runtime operation that issued the failing kernel call.
type Op string

const (
	OpAcquire Op = "acquire" // opening or creating a kernel object
	OpDestroy Op = "destroy" // explicit destruction
	OpShare   Op = "share"   // converting an owned handle to a share token
	OpResolve Op = "resolve" // upgrading a share token for this thread
	OpUnshare Op = "unshare" // releasing a share token
)

// Kind categorizes the failure.
type Kind string

const (
	KindPermission       Kind = "permission"
	KindInvalidHandle    Kind = "invalid_handle"
	KindInvalidOperation Kind = "invalid_operation"
	KindInvalidState     Kind = "invalid_state"
	KindExhausted        Kind = "exhausted"
	KindAlreadyExists    Kind = "already_exists"
	KindNotFound         Kind = "not_found"
	KindUnknownDevice    Kind = "unknown_device"
	KindUnavailable      Kind = "unavailable"
	KindUnsupported      Kind = "unsupported"
	KindUnknown          Kind = "unknown"
)

// Error is the structured error type used throughout the runtime.
type Error struct {
	Cause  error
	Op     Op
	Kind   Kind
	Code   sys.Result
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Op))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Code != sys.OK {
		b.WriteString(": ")
		b.WriteString(e.Code.String())
	}

	if e.Detail != "" {
		b.WriteString(" - ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by Op and Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Op == t.Op && e.Kind == t.Kind
	}
	return false
}

// kindOf maps a kernel result code to a failure category.
func kindOf(r sys.Result) Kind {
	switch r {
	case sys.ErrPermission:
		return KindPermission
	case sys.ErrInvalidHandle:
		return KindInvalidHandle
	case sys.ErrInvalidOperation:
		return KindInvalidOperation
	case sys.ErrInvalidState:
		return KindInvalidState
	case sys.ErrResourceExhausted:
		return KindExhausted
	case sys.ErrAlreadyExists:
		return KindAlreadyExists
	case sys.ErrDoesNotExist:
		return KindNotFound
	case sys.ErrUnknownDevice:
		return KindUnknownDevice
	case sys.ErrDeviceUnavailable:
		return KindUnavailable
	case sys.ErrUnsupported:
		return KindUnsupported
	default:
		return KindUnknown
	}
}

// FromCode converts a kernel result code into a typed error.
// Returns nil if the code is the success sentinel.
func FromCode(op Op, r sys.Result) *Error {
	if r.Ok() {
		return nil
	}
	return &Error{Op: op, Kind: kindOf(r), Code: r}
}

// Convenience constructors for common error patterns

// Exhausted creates a resource exhaustion error not originating from a
// kernel code.
func Exhausted(op Op, detail string, args ...any) *Error {
	return &Error{
		Op:     op,
		Kind:   KindExhausted,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// InvalidHandle creates an invalid handle error.
func InvalidHandle(op Op, detail string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindInvalidHandle,
		Code:   sys.ErrInvalidHandle,
		Detail: detail,
	}
}

// Wrap wraps an existing error with operation context.
func Wrap(op Op, kind Kind, cause error, detail string) *Error {
	return &Error{
		Op:     op,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
