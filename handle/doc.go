// Package handle provides typed kernel handle values and the ownership
// discipline around them.
//
// # Handle Lifecycle
//
// A handle has exactly one of three relationships to the code holding it:
//
//	Owned[T]    - exclusive ownership; destroyed exactly once
//	Borrowed[T] - temporary non-owning view, bounded by its owner
//	Shared[T]   - one kernel object used from many threads via a token
//
// # Kinds
//
// The kind registry is closed: Thread, Debug, SecurityContext, IO, File,
// and Device are the only kinds, and each maps to exactly one kernel
// destructor. File and Device are specializations of IO; they destroy
// through the generic stream-close primitive via an upcast, never through
// a kind-specific call. The Object interface is sealed to this package so
// the mapping stays total.
//
// # Ownership
//
//	f, err := handle.OpenFile(kern, "/etc/motd")
//	defer f.Close() // exactly one CloseIOStream, result discarded
//
//	raw := f.Release() // or: transfer out, destructor disabled
//
// Take is the unchecked inverse of Release: the caller asserts the value
// is a valid, currently unowned handle of the stated kind. Violations that
// can be detected locally (null value, use after close or release) panic;
// double ownership cannot be detected and remains a caller contract.
//
// # Sharing
//
// Share consumes an owned handle and returns a cache pairing a kernel
// share token with a per-OS-thread slot of resolved handle values. Get is
// the fast path: a resolved thread reads its slot without any kernel call;
// an unresolved thread pays exactly one UpgradeSharedHandle call. The
// creating thread is pre-populated and never pays it. Invalidate clears
// the calling thread's slot when the kernel has reported the cached value
// dead; the layer never invalidates on its own.
//
// # Failure Semantics
//
// Close discards the kernel's result code: nothing useful can be done with
// a failed destructor at teardown, and panicking there would break unwind
// paths. Every other kernel failure surfaces as a typed error from the
// errors package. This package does not log; attach an Observer (for
// example NewLogObserver) to watch lifecycle events.
package handle
