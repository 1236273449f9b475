package handle

import "github.com/halcyon-os/userland/sys"

// Owned holds exactly one non-null handle and guarantees its destruction
// runs exactly once: either through Close or, if ownership is transferred
// out with Release, by whoever took it. Owned is strictly single-owner and
// must never be copied or used from two goroutines at once.
type Owned[T Object] struct {
	sc   sys.Syscalls
	ptr  Ptr[T]
	done bool
}

// Take asserts ownership of a freshly acquired handle value. The caller
// guarantees the value is a valid, currently unowned handle of kind T; a
// null value panics, since no ownership claim can exist for it. Double
// ownership cannot be checked and is a caller contract.
func Take[T Object](sc sys.Syscalls, h sys.Handle) *Owned[T] {
	if sc == nil {
		panic("handle: Take with nil syscall surface")
	}
	if h == sys.Null {
		panic("handle: Take of null handle")
	}
	o := &Owned[T]{sc: sc, ptr: Ptr[T]{raw: h}}
	emit(Event{Type: EventAcquired, Kind: KindName[T](), Handle: h})
	return o
}

// Ptr returns the underlying handle value without transferring ownership.
func (o *Owned[T]) Ptr() Ptr[T] {
	o.mustLive()
	return o.ptr
}

// Borrow produces a non-owning view of the handle, valid until the owner
// is closed or released. Borrowing from a dead owner panics.
func (o *Owned[T]) Borrow() Borrowed[T] {
	o.mustLive()
	return Borrowed[T]{ptr: o.ptr}
}

// Release transfers ownership of the raw handle value to the caller and
// disables the destructor. The caller is now responsible for destroying
// the handle, typically by handing it to a foreign call or reconstructing
// an owner with Take on the other side.
func (o *Owned[T]) Release() Ptr[T] {
	o.mustLive()
	o.done = true
	emit(Event{Type: EventReleased, Kind: KindName[T](), Handle: o.ptr.raw})
	return o.ptr
}

// Close destroys the handle through its kind's destructor. The kernel's
// result code is deliberately discarded: there is no recovery action for a
// failed destructor at teardown, and panicking would break unwind paths.
// Close is idempotent and a no-op after Release.
func (o *Owned[T]) Close() {
	if o.done {
		return
	}
	o.done = true
	var t T
	t.destroy(o.sc, o.ptr.raw)
	emit(Event{Type: EventDestroyed, Kind: KindName[T](), Handle: o.ptr.raw})
}

func (o *Owned[T]) mustLive() {
	if o.done {
		panic("handle: use of closed or released handle")
	}
}
