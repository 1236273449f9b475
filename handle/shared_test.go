package handle

import (
	stderrors "errors"
	"runtime"
	"testing"

	"github.com/halcyon-os/userland/errors"
	"github.com/halcyon-os/userland/sys"
)

// onLockedThread runs fn in a goroutine pinned to its own OS thread and
// waits for it. While the caller is itself pinned, the two run on distinct
// threads.
func onLockedThread(t *testing.T, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		fn()
	}()
	<-done
}

func TestShare_CreatorThreadNeverUpgrades(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	f := newFakeSys()
	o := Take[File](f, 7)

	s, err := Share(o)
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	defer s.Close()

	if f.shareCalls != 1 {
		t.Fatalf("Expected 1 share call, got %d", f.shareCalls)
	}

	// The creating thread's slot was pre-populated with the original
	// handle value: no upgrade call, same bits back.
	for i := 0; i < 3; i++ {
		p, err := s.Get()
		if err != nil {
			t.Fatalf("Get %d: %v", i, err)
		}
		if p.Raw() != 7 {
			t.Fatalf("Get %d: expected original value 7, got %v", i, p.Raw())
		}
	}
	if f.upgradeCalls != 0 {
		t.Fatalf("Expected 0 upgrade calls on creator thread, got %d", f.upgradeCalls)
	}
}

func TestShare_SecondThreadUpgradesOnce(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	f := newFakeSys()
	o := Take[File](f, 7)

	s, err := Share(o)
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	defer s.Close()

	onLockedThread(t, func() {
		first, err := s.Get()
		if err != nil {
			t.Errorf("Get: %v", err)
			return
		}
		if first.IsNull() {
			t.Error("Expected a valid handle")
			return
		}
		if f.upgradeCalls != 1 {
			t.Errorf("Expected 1 upgrade call on first access, got %d", f.upgradeCalls)
			return
		}

		// Subsequent accesses from the same thread hit the cache.
		second, err := s.Get()
		if err != nil {
			t.Errorf("Second get: %v", err)
			return
		}
		if second != first {
			t.Errorf("Cached value changed: %v then %v", first, second)
		}
		if f.upgradeCalls != 1 {
			t.Errorf("Expected no further upgrade calls, got %d", f.upgradeCalls)
		}
	})

	// The creator thread is still on its pre-populated fast path.
	p, err := s.Get()
	if err != nil {
		t.Fatalf("Creator get: %v", err)
	}
	if p.Raw() != 7 {
		t.Fatalf("Creator cache corrupted: %v", p.Raw())
	}
	if f.upgradeCalls != 1 {
		t.Fatalf("Expected upgrade count unchanged, got %d", f.upgradeCalls)
	}
}

func TestShare_FailureKeepsOwnership(t *testing.T) {
	f := newFakeSys()
	f.shareResult = sys.ErrResourceExhausted

	o := Take[File](f, 9)
	_, err := Share(o)
	if err == nil {
		t.Fatal("Expected share failure")
	}
	if !stderrors.Is(err, &errors.Error{Op: errors.OpShare, Kind: errors.KindExhausted}) {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Ownership was not lost: the destructor still runs exactly once.
	o.Close()
	if _, _, _, io := f.destroyCount(); io != 1 {
		t.Fatalf("Expected one close after failed share, got %d", io)
	}
}

func TestShare_ConsumesOwner(t *testing.T) {
	f := newFakeSys()
	o := Take[File](f, 9)

	s, err := Share(o)
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	defer s.Close()

	// The cache owns the object now; the old wrapper is dead.
	o.Close()
	if _, _, _, io := f.destroyCount(); io != 0 {
		t.Fatal("Owner destructor ran after share")
	}
	mustPanic(t, "borrow after share", func() { o.Borrow() })
}

func TestShared_ResolveFailureAllowsRetry(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	f := newFakeSys()
	o := Take[File](f, 7)
	s, err := Share(o)
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	defer s.Close()

	f.upgradeResult = sys.ErrInvalidState

	onLockedThread(t, func() {
		if _, err := s.Get(); err == nil {
			t.Error("Expected resolve failure")
			return
		}
		// The slot stays unresolved: the next access retries.
		if _, err := s.Get(); err == nil {
			t.Error("Expected second resolve failure")
			return
		}
		if f.upgradeCalls != 2 {
			t.Errorf("Expected 2 upgrade attempts, got %d", f.upgradeCalls)
			return
		}

		f.upgradeResult = sys.OK
		p, err := s.Get()
		if err != nil {
			t.Errorf("Get after recovery: %v", err)
			return
		}
		if p.IsNull() {
			t.Error("Expected valid handle after recovery")
		}
		if f.upgradeCalls != 3 {
			t.Errorf("Expected 3 upgrade attempts, got %d", f.upgradeCalls)
		}

		// Resolved now; no more kernel calls.
		if _, err := s.Get(); err != nil {
			t.Errorf("Cached get: %v", err)
		}
		if f.upgradeCalls != 3 {
			t.Errorf("Expected cache hit, got %d upgrades", f.upgradeCalls)
		}
	})
}

func TestShared_InvalidateForcesReupgrade(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	f := newFakeSys()
	o := Take[File](f, 7)
	s, err := Share(o)
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	defer s.Close()

	if _, err := s.Get(); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if f.upgradeCalls != 0 {
		t.Fatalf("Creator should not upgrade, got %d", f.upgradeCalls)
	}

	s.Invalidate()

	p, err := s.Get()
	if err != nil {
		t.Fatalf("Get after invalidate: %v", err)
	}
	if f.upgradeCalls != 1 {
		t.Fatalf("Expected 1 upgrade after invalidate, got %d", f.upgradeCalls)
	}
	if p.IsNull() {
		t.Fatal("Expected valid handle after invalidate")
	}
}

func TestShared_CloseReleasesToken(t *testing.T) {
	f := newFakeSys()
	o := Take[File](f, 7)
	s, err := Share(o)
	if err != nil {
		t.Fatalf("Share: %v", err)
	}

	if s.Token() == 0 {
		t.Fatal("Expected a non-zero token")
	}

	s.Close()
	s.Close()
	if f.unshareCalls != 1 {
		t.Fatalf("Expected exactly 1 unshare, got %d", f.unshareCalls)
	}

	mustPanic(t, "get after close", func() { s.Get() })
}

func TestShared_BorrowResolves(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	f := newFakeSys()
	o := Take[File](f, 13)
	s, err := Share(o)
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	defer s.Close()

	b, err := s.Borrow()
	if err != nil {
		t.Fatalf("Borrow: %v", err)
	}
	if b.Raw() != 13 {
		t.Fatalf("Expected creator's cached value, got %v", b.Raw())
	}

	// Borrowed stream handles upcast without touching the kernel.
	if UpcastIO(b).Raw() != 13 {
		t.Fatal("Upcast changed the value")
	}
}
