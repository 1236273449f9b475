package handle

import (
	"github.com/google/uuid"

	"github.com/halcyon-os/userland/errors"
	"github.com/halcyon-os/userland/sys"
)

// Acquisition helpers pairing the kernel's creation calls with an owned
// wrapper, so a handle is under ownership discipline from the moment it
// exists.

// OpenFile opens a filesystem object and takes ownership of its handle.
func OpenFile(sc sys.Syscalls, path string) (*Owned[File], error) {
	h, r := sc.OpenFile(path)
	if !r.Ok() {
		return nil, errors.FromCode(errors.OpAcquire, r)
	}
	return Take[File](sc, h), nil
}

// OpenDevice opens a device by id and takes ownership of its handle.
func OpenDevice(sc sys.Syscalls, id uuid.UUID) (*Owned[Device], error) {
	h, r := sc.OpenDevice(id)
	if !r.Ok() {
		return nil, errors.FromCode(errors.OpAcquire, r)
	}
	return Take[Device](sc, h), nil
}

// NewSecurityContext creates a security context under ownership.
func NewSecurityContext(sc sys.Syscalls) (*Owned[SecurityContext], error) {
	h, r := sc.CreateSecurityContext()
	if !r.Ok() {
		return nil, errors.FromCode(errors.OpAcquire, r)
	}
	return Take[SecurityContext](sc, h), nil
}

// SpawnThread spawns a kernel thread and owns the resulting handle.
// Closing the owner detaches the thread; it does not stop it.
func SpawnThread(sc sys.Syscalls) (*Owned[Thread], error) {
	h, r := sc.SpawnThread()
	if !r.Ok() {
		return nil, errors.FromCode(errors.OpAcquire, r)
	}
	return Take[Thread](sc, h), nil
}

// DebugAttach attaches a debug session to a process and owns its handle.
func DebugAttach(sc sys.Syscalls, pid uint64) (*Owned[Debug], error) {
	h, r := sc.DebugAttach(pid)
	if !r.Ok() {
		return nil, errors.FromCode(errors.OpAcquire, r)
	}
	return Take[Debug](sc, h), nil
}
