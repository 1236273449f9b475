package sys

import (
	"testing"

	"github.com/google/uuid"
)

func TestLocal_OpenClose(t *testing.T) {
	l := NewLocal()

	h, r := l.OpenFile("/etc/motd")
	if !r.Ok() {
		t.Fatalf("OpenFile: %v", r)
	}
	if h == Null {
		t.Fatal("Expected non-null handle")
	}

	if r := l.CloseIOStream(h); !r.Ok() {
		t.Fatalf("CloseIOStream: %v", r)
	}

	// Double close reports invalid handle.
	if r := l.CloseIOStream(h); r != ErrInvalidHandle {
		t.Fatalf("Expected INVALID_HANDLE, got %v", r)
	}
}

func TestLocal_DestroyKindMismatch(t *testing.T) {
	l := NewLocal()

	h, r := l.OpenFile("/dev/null")
	if !r.Ok() {
		t.Fatalf("OpenFile: %v", r)
	}

	// A file must not detach as a thread.
	if r := l.DetachThread(h); r != ErrInvalidOperation {
		t.Fatalf("Expected INVALID_OPERATION, got %v", r)
	}

	// The handle survives the rejected call.
	if r := l.CloseIOStream(h); !r.Ok() {
		t.Fatalf("CloseIOStream after mismatch: %v", r)
	}
}

func TestLocal_PerKindDestroy(t *testing.T) {
	l := NewLocal()

	th, r := l.SpawnThread()
	if !r.Ok() {
		t.Fatalf("SpawnThread: %v", r)
	}
	if r := l.DetachThread(th); !r.Ok() {
		t.Fatalf("DetachThread: %v", r)
	}

	dbg, r := l.DebugAttach(42)
	if !r.Ok() {
		t.Fatalf("DebugAttach: %v", r)
	}
	if r := l.DebugDetach(dbg); !r.Ok() {
		t.Fatalf("DebugDetach: %v", r)
	}

	ctx, r := l.CreateSecurityContext()
	if !r.Ok() {
		t.Fatalf("CreateSecurityContext: %v", r)
	}
	if r := l.DestroySecurityContext(ctx); !r.Ok() {
		t.Fatalf("DestroySecurityContext: %v", r)
	}

	if n := l.Live(); n != 0 {
		t.Fatalf("Expected 0 live handles, got %d", n)
	}
}

func TestLocal_Devices(t *testing.T) {
	l := NewLocal()

	id := uuid.New()
	if _, r := l.OpenDevice(id); r != ErrUnknownDevice {
		t.Fatalf("Expected UNKNOWN_DEVICE, got %v", r)
	}

	l.AddDevice(id, "null0")
	h, r := l.OpenDevice(id)
	if !r.Ok() {
		t.Fatalf("OpenDevice: %v", r)
	}

	snap := l.Snapshot()
	if len(snap) != 1 || snap[0].Kind != KindDevice || snap[0].Name != "null0" {
		t.Fatalf("Unexpected snapshot: %+v", snap)
	}

	if r := l.CloseIOStream(h); !r.Ok() {
		t.Fatalf("CloseIOStream: %v", r)
	}
}

func TestLocal_ShareUpgradeUnshare(t *testing.T) {
	l := NewLocal()

	h, r := l.OpenFile("/var/log/kern")
	if !r.Ok() {
		t.Fatalf("OpenFile: %v", r)
	}

	tok, r := l.ShareHandle(h)
	if !r.Ok() {
		t.Fatalf("ShareHandle: %v", r)
	}

	up, r := l.UpgradeSharedHandle(tok)
	if !r.Ok() {
		t.Fatalf("UpgradeSharedHandle: %v", r)
	}
	if up == h {
		t.Fatal("Expected upgrade to mint a distinct handle")
	}

	// Both handles refer to the same live object.
	if r := l.CloseIOStream(up); !r.Ok() {
		t.Fatalf("CloseIOStream(upgraded): %v", r)
	}

	if r := l.UnshareHandle(tok); !r.Ok() {
		t.Fatalf("UnshareHandle: %v", r)
	}

	// Unshare kills the object and every remaining handle to it.
	if r := l.CloseIOStream(h); r != ErrInvalidHandle {
		t.Fatalf("Expected INVALID_HANDLE after unshare, got %v", r)
	}

	// The token is gone too.
	if _, r := l.UpgradeSharedHandle(tok); r != ErrInvalidHandle {
		t.Fatalf("Expected INVALID_HANDLE for dead token, got %v", r)
	}
}

func TestLocal_ShareInvalidHandle(t *testing.T) {
	l := NewLocal()

	if _, r := l.ShareHandle(Null); r != ErrInvalidHandle {
		t.Fatalf("Expected INVALID_HANDLE, got %v", r)
	}
	if _, r := l.ShareHandle(Handle(99)); r != ErrInvalidHandle {
		t.Fatalf("Expected INVALID_HANDLE, got %v", r)
	}
}

func TestLocal_HandleLimit(t *testing.T) {
	l := NewLocal()
	l.SetHandleLimit(2)

	if _, r := l.OpenFile("/a"); !r.Ok() {
		t.Fatalf("OpenFile /a: %v", r)
	}
	b, r := l.OpenFile("/b")
	if !r.Ok() {
		t.Fatalf("OpenFile /b: %v", r)
	}
	if _, r := l.OpenFile("/c"); r != ErrResourceExhausted {
		t.Fatalf("Expected RESOURCE_EXHAUSTED, got %v", r)
	}

	// Closing frees a slot.
	if r := l.CloseIOStream(b); !r.Ok() {
		t.Fatalf("CloseIOStream: %v", r)
	}
	if _, r := l.OpenFile("/c"); !r.Ok() {
		t.Fatalf("OpenFile /c after close: %v", r)
	}
}

func TestLocal_HandleReuse(t *testing.T) {
	l := NewLocal()

	a, _ := l.OpenFile("/a")
	if r := l.CloseIOStream(a); !r.Ok() {
		t.Fatalf("CloseIOStream: %v", r)
	}

	// The freed slot is recycled for the next acquisition.
	b, r := l.OpenFile("/b")
	if !r.Ok() {
		t.Fatalf("OpenFile: %v", r)
	}
	if b != a {
		t.Fatalf("Expected slot reuse, got %v then %v", a, b)
	}
}
