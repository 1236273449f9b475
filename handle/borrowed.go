package handle

import "github.com/halcyon-os/userland/sys"

// Borrowed is a transient, non-owning reference to a handle. It is freely
// copyable, never destroys anything, and must not outlive the Owned or
// Shared it was derived from; escaping one past its owner's destruction is
// a contract violation the kernel will surface as INVALID_HANDLE.
type Borrowed[T Object] struct {
	ptr Ptr[T]
}

// BorrowRaw wraps a raw handle value the caller knows to be live for the
// duration of use, e.g. one received across a foreign boundary.
func BorrowRaw[T Object](h sys.Handle) Borrowed[T] {
	return Borrowed[T]{ptr: Ptr[T]{raw: h}}
}

// Ptr returns the borrowed handle value.
func (b Borrowed[T]) Ptr() Ptr[T] { return b.ptr }

// Raw returns the untyped handle value.
func (b Borrowed[T]) Raw() sys.Handle { return b.ptr.raw }

// UpcastIO views a borrowed file or device handle as a generic I/O stream.
// The handle value is reinterpreted bit-for-bit without a kernel call; the
// relation is compile-time checked and limited to the Stream kinds.
func UpcastIO[T Stream](b Borrowed[T]) Borrowed[IO] {
	return Borrowed[IO]{ptr: CastIO(b.ptr)}
}
