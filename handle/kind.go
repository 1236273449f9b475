package handle

import "github.com/halcyon-os/userland/sys"

// Object is the closed set of kernel object kinds. Each kind carries its
// destructor, selected statically from the wrapper's type parameter; no
// dynamic tag is stored next to the handle value. The unexported methods
// seal the set to this package.
type Object interface {
	destroy(sc sys.Syscalls, h sys.Handle) sys.Result
	kind() string
}

// Thread is a kernel thread handle. Destruction detaches the thread.
type Thread struct{}

func (Thread) destroy(sc sys.Syscalls, h sys.Handle) sys.Result { return sc.DetachThread(h) }
func (Thread) kind() string                                     { return "thread" }

// Debug is a debug session handle. Destruction detaches the session.
type Debug struct{}

func (Debug) destroy(sc sys.Syscalls, h sys.Handle) sys.Result { return sc.DebugDetach(h) }
func (Debug) kind() string                                     { return "debug" }

// SecurityContext is a security context handle.
type SecurityContext struct{}

func (SecurityContext) destroy(sc sys.Syscalls, h sys.Handle) sys.Result {
	return sc.DestroySecurityContext(h)
}
func (SecurityContext) kind() string { return "security-context" }

// IO is the generic I/O stream kind. Every I/O-capable kernel object is
// closable through this one primitive.
type IO struct{}

func (IO) destroy(sc sys.Syscalls, h sys.Handle) sys.Result { return sc.CloseIOStream(h) }
func (IO) kind() string                                     { return "io" }

// File is an I/O stream specialization for filesystem objects. It has no
// destructor of its own: it closes through the generic stream path.
type File struct{}

func (File) destroy(sc sys.Syscalls, h sys.Handle) sys.Result {
	return IO{}.destroy(sc, h)
}
func (File) kind() string { return "file" }

// Device is an I/O stream specialization for devices, closed like File
// through the generic stream path.
type Device struct{}

func (Device) destroy(sc sys.Syscalls, h sys.Handle) sys.Result {
	return IO{}.destroy(sc, h)
}
func (Device) kind() string { return "device" }

// Stream constrains the kinds that are valid supertype views of IO.
// The relation is fixed: only File and Device upcast, and only to IO.
type Stream interface {
	File | Device
	Object
}

// KindName names kind T without a value in hand, e.g. for observability.
func KindName[T Object]() string {
	var t T
	return t.kind()
}
