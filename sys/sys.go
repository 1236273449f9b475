package sys

import "github.com/google/uuid"

// Handle is a raw kernel handle value. The zero value is the null handle,
// which denotes absence and is never a live object reference.
type Handle uint64

// Null is the absent handle value.
const Null Handle = 0

// ShareToken is a kernel-issued value representing a handle in a form safe
// to pass across threads. Zero is never a valid token. A token is resolved
// into a thread-usable handle with UpgradeSharedHandle.
type ShareToken uint64

// Result is a kernel result code. Zero means success; negative values
// identify a specific failure.
type Result int64

const (
	OK Result = 0

	ErrPermission        Result = -1
	ErrInvalidHandle     Result = -2
	ErrInvalidOperation  Result = -3
	ErrInvalidState      Result = -4
	ErrResourceExhausted Result = -5
	ErrAlreadyExists     Result = -6
	ErrDoesNotExist      Result = -7
	ErrUnknownDevice     Result = -8
	ErrDeviceUnavailable Result = -9
	ErrUnsupported       Result = -10
)

// Ok reports whether r is the success sentinel.
func (r Result) Ok() bool { return r == OK }

func (r Result) String() string {
	switch r {
	case OK:
		return "OK"
	case ErrPermission:
		return "PERMISSION"
	case ErrInvalidHandle:
		return "INVALID_HANDLE"
	case ErrInvalidOperation:
		return "INVALID_OPERATION"
	case ErrInvalidState:
		return "INVALID_STATE"
	case ErrResourceExhausted:
		return "RESOURCE_EXHAUSTED"
	case ErrAlreadyExists:
		return "ALREADY_EXISTS"
	case ErrDoesNotExist:
		return "DOES_NOT_EXIST"
	case ErrUnknownDevice:
		return "UNKNOWN_DEVICE"
	case ErrDeviceUnavailable:
		return "DEVICE_UNAVAILABLE"
	case ErrUnsupported:
		return "UNSUPPORTED"
	default:
		return "UNKNOWN"
	}
}

// Syscalls is the boundary between the userland runtime and the kernel.
// All calls are synchronous and may block. Implementations must be safe
// for concurrent use: the kernel itself is.
type Syscalls interface {
	// Destruction. One operation per kernel object kind. Files and
	// devices have no destructor of their own: they close through
	// CloseIOStream like every other I/O-capable object.
	DetachThread(h Handle) Result
	DebugDetach(h Handle) Result
	DestroySecurityContext(h Handle) Result
	CloseIOStream(h Handle) Result

	// Sharing. ShareHandle converts an owned handle into a token any
	// thread can upgrade; UpgradeSharedHandle resolves the token into a
	// handle usable by the calling thread; UnshareHandle releases the
	// token and, with it, the kernel's claim on the object.
	ShareHandle(h Handle) (ShareToken, Result)
	UpgradeSharedHandle(tok ShareToken) (Handle, Result)
	UnshareHandle(tok ShareToken) Result

	// Acquisition.
	OpenFile(path string) (Handle, Result)
	OpenDevice(id uuid.UUID) (Handle, Result)
	CreateSecurityContext() (Handle, Result)
	SpawnThread() (Handle, Result)
	DebugAttach(pid uint64) (Handle, Result)
}
