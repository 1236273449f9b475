package handle

import (
	"sync"
	"sync/atomic"

	"github.com/halcyon-os/userland/errors"
	"github.com/halcyon-os/userland/sys"
)

// Shared makes one kernel object usable concurrently from many threads.
// It pairs an immutable kernel share token with a per-OS-thread slot
// holding the last handle value resolved for that thread. A resolved
// thread reads its slot with no kernel call; an unresolved thread pays
// exactly one UpgradeSharedHandle call, then is cached for the cache's
// lifetime or until Invalidate.
type Shared[T Object] struct {
	sc     sys.Syscalls
	token  sys.ShareToken
	slots  sync.Map // thread id -> sys.Handle
	closed atomic.Bool
}

// Share converts exclusive ownership into a cross-thread cache, consuming
// the owned wrapper. One kernel call obtains the share token, and the
// creating thread's slot is pre-populated with the original handle value,
// so the creator never pays an upgrade call.
//
// On failure ownership is not lost: the owned wrapper is left untouched
// and its destructor will still run.
func Share[T Object](owned *Owned[T]) (*Shared[T], error) {
	owned.mustLive()

	tok, r := owned.sc.ShareHandle(owned.ptr.raw)
	if !r.Ok() {
		return nil, errors.FromCode(errors.OpShare, r)
	}

	s := &Shared[T]{sc: owned.sc, token: tok}
	s.slots.Store(threadID(), owned.ptr.raw)

	// The cache is the sole owner now; destruction rides on the token.
	owned.done = true

	emit(Event{Type: EventShared, Kind: KindName[T](), Handle: owned.ptr.raw, Token: tok})
	return s, nil
}

// Get returns the calling thread's handle value for the shared object.
// First use from a thread resolves through the kernel; on failure the
// thread stays unresolved and the next Get retries. Goroutines that want
// a stable fast path should pin with runtime.LockOSThread; an unpinned
// goroutine merely risks extra upgrade calls after migrating.
func (s *Shared[T]) Get() (Ptr[T], error) {
	s.mustLive()

	tid := threadID()
	if v, ok := s.slots.Load(tid); ok {
		return Ptr[T]{raw: v.(sys.Handle)}, nil
	}

	h, r := s.sc.UpgradeSharedHandle(s.token)
	if !r.Ok() {
		return Ptr[T]{}, errors.FromCode(errors.OpResolve, r)
	}
	s.slots.Store(tid, h)

	emit(Event{Type: EventResolved, Kind: KindName[T](), Handle: h, Token: s.token})
	return Ptr[T]{raw: h}, nil
}

// Borrow resolves the calling thread's handle and wraps it as a borrow.
func (s *Shared[T]) Borrow() (Borrowed[T], error) {
	p, err := s.Get()
	if err != nil {
		return Borrowed[T]{}, err
	}
	return Borrowed[T]{ptr: p}, nil
}

// Invalidate clears the calling thread's cached value, forcing the next
// Get on this thread to resolve through the kernel again. Call it after
// the kernel reports the cached value invalid; the cache never detects
// staleness on its own.
func (s *Shared[T]) Invalidate() {
	s.slots.Delete(threadID())
}

// Token exposes the kernel share token, e.g. to hand to a foreign call.
func (s *Shared[T]) Token() sys.ShareToken {
	return s.token
}

// Close releases the share token. The kernel retires the object with it,
// so every thread's cached value is dead afterwards. Like Owned.Close,
// the kernel's result code is discarded. Close is idempotent.
func (s *Shared[T]) Close() {
	if s.closed.Swap(true) {
		return
	}
	s.sc.UnshareHandle(s.token)
	emit(Event{Type: EventUnshared, Kind: KindName[T](), Token: s.token})
}

func (s *Shared[T]) mustLive() {
	if s.closed.Load() {
		panic("handle: use of closed shared cache")
	}
}
