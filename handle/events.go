package handle

import (
	"sync/atomic"

	"github.com/halcyon-os/userland/sys"
)

// EventType identifies a handle lifecycle transition.
type EventType uint8

const (
	EventAcquired EventType = iota
	EventDestroyed
	EventReleased
	EventShared
	EventResolved
	EventUnshared
)

func (t EventType) String() string {
	switch t {
	case EventAcquired:
		return "acquired"
	case EventDestroyed:
		return "destroyed"
	case EventReleased:
		return "released"
	case EventShared:
		return "shared"
	case EventResolved:
		return "resolved"
	case EventUnshared:
		return "unshared"
	default:
		return "unknown"
	}
}

// Event describes one handle lifecycle transition.
type Event struct {
	Kind   string
	Handle sys.Handle
	Token  sys.ShareToken
	Type   EventType
}

// Observer receives notifications about handle lifecycle events.
type Observer interface {
	OnHandleEvent(Event)
}

// obsBox keeps atomic.Value stores consistently typed.
type obsBox struct {
	o Observer
}

var observer atomic.Value // obsBox

// SetObserver installs a process-wide lifecycle observer. Pass nil to
// remove it. The core never observes itself: with no observer installed
// the lifecycle paths stay silent.
func SetObserver(o Observer) {
	observer.Store(obsBox{o: o})
}

func emit(e Event) {
	v := observer.Load()
	if v == nil {
		return
	}
	if o := v.(obsBox).o; o != nil {
		o.OnHandleEvent(e)
	}
}
