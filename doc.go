// Package userland is the resource-handle layer of a Go userspace runtime
// for the Halcyon capability microkernel.
//
// Kernel objects (threads, debug sessions, security contexts, I/O streams,
// files, devices) are referenced by opaque handle values. The kernel does
// not reference-count or garbage-collect them: every handle a process
// acquires must be destroyed exactly once. This library models the three
// relationships code can have to a handle - exclusive ownership, temporary
// borrow, and shared long-lived use across threads - and implements the
// shareable-token mechanism that lets many threads use one handle while
// paying at most one kernel call per thread.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	userland/        Root package (documentation only)
//	├── handle/      Typed handle values, ownership, borrows, shared caches
//	├── sys/         Kernel syscall surface and the in-memory Local kernel
//	├── errors/      Structured error types mapping kernel result codes
//	├── fs/          Path splitting/joining for kernel-interpreted paths
//	├── guest/       WASM guest bindings exposing handles via wazero
//	└── cmd/handles/ Demo and interactive inspector CLI
//
// # Quick Start
//
// Acquire, borrow, and destroy a handle:
//
//	kern := sys.NewLocal()
//
//	f, err := handle.OpenFile(kern, "/etc/motd")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	// Borrow for a call that only needs temporary access.
//	io := handle.UpcastIO(f.Borrow())
//	_ = io
//
// Share one handle across threads:
//
//	shared, err := handle.Share(f) // consumes f
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer shared.Close()
//
//	ptr, err := shared.Get() // one upgrade call per thread, then cached
//
// # Thread Safety
//
// Owned handles are strictly single-owner and must not be used from more
// than one goroutine at a time. Shared caches are safe for concurrent use:
// the share token is immutable, and each OS thread's resolved value lives
// in a slot only that thread touches. Goroutines that want the cached fast
// path should pin themselves with runtime.LockOSThread.
package userland
