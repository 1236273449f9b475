package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/halcyon-os/userland/sys"
)

func TestFromCode(t *testing.T) {
	if err := FromCode(OpShare, sys.OK); err != nil {
		t.Fatalf("Expected nil for OK, got %v", err)
	}

	err := FromCode(OpShare, sys.ErrResourceExhausted)
	if err == nil {
		t.Fatal("Expected error for nonzero code")
	}
	if err.Op != OpShare {
		t.Fatalf("Expected op %q, got %q", OpShare, err.Op)
	}
	if err.Kind != KindExhausted {
		t.Fatalf("Expected kind %q, got %q", KindExhausted, err.Kind)
	}
	if err.Code != sys.ErrResourceExhausted {
		t.Fatalf("Expected code preserved, got %v", err.Code)
	}
}

func TestFromCode_UnknownCode(t *testing.T) {
	err := FromCode(OpResolve, sys.Result(-999))
	if err.Kind != KindUnknown {
		t.Fatalf("Expected kind %q, got %q", KindUnknown, err.Kind)
	}
}

func TestErrorMessage(t *testing.T) {
	err := FromCode(OpResolve, sys.ErrInvalidHandle)
	msg := err.Error()

	for _, want := range []string{"[resolve]", "invalid_handle", "INVALID_HANDLE"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Message %q missing %q", msg, want)
		}
	}
}

func TestIs(t *testing.T) {
	err := FromCode(OpResolve, sys.ErrInvalidHandle)

	if !stderrors.Is(err, &Error{Op: OpResolve, Kind: KindInvalidHandle}) {
		t.Fatal("Expected Is match on op+kind")
	}
	if stderrors.Is(err, &Error{Op: OpShare, Kind: KindInvalidHandle}) {
		t.Fatal("Expected no match for different op")
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("transport broke")
	err := Wrap(OpAcquire, KindUnavailable, cause, "opening device")

	if !stderrors.Is(err, cause) {
		t.Fatal("Expected unwrap to reach cause")
	}
	if !strings.Contains(err.Error(), "transport broke") {
		t.Fatalf("Message %q missing cause", err.Error())
	}
}
