package handle

import (
	"fmt"

	"github.com/halcyon-os/userland/sys"
)

// Ptr is an opaque kernel handle value tagged with its object kind. It is
// pure data: copyable, comparable with ==, and meaningful only to the
// kernel. The zero value is the null handle.
type Ptr[T Object] struct {
	raw sys.Handle
}

// PtrFromRaw tags a raw handle value with kind T. The caller asserts the
// value really refers to an object of that kind; the tag is not checked.
func PtrFromRaw[T Object](h sys.Handle) Ptr[T] {
	return Ptr[T]{raw: h}
}

// NullPtr returns the null handle value for kind T.
func NullPtr[T Object]() Ptr[T] {
	return Ptr[T]{}
}

// Raw returns the untyped handle value, e.g. to pass to a foreign call.
func (p Ptr[T]) Raw() sys.Handle { return p.raw }

// IsNull reports whether p is the null handle.
func (p Ptr[T]) IsNull() bool { return p.raw == sys.Null }

func (p Ptr[T]) String() string {
	return fmt.Sprintf("%s:0x%x", KindName[T](), uint64(p.raw))
}

// CastIO reinterprets a stream-kind handle value as the generic I/O kind.
// The underlying value is preserved bit-for-bit; no kernel call is made.
func CastIO[T Stream](p Ptr[T]) Ptr[IO] {
	return Ptr[IO]{raw: p.raw}
}
