package sys

import (
	"sync"

	"github.com/google/uuid"
)

// ObjectKind identifies the kind of kernel object a Local entry refers to.
type ObjectKind uint8

const (
	KindThread ObjectKind = iota
	KindDebug
	KindSecurityContext
	KindFile
	KindDevice
)

func (k ObjectKind) String() string {
	switch k {
	case KindThread:
		return "thread"
	case KindDebug:
		return "debug"
	case KindSecurityContext:
		return "security-context"
	case KindFile:
		return "file"
	case KindDevice:
		return "device"
	default:
		return "unknown"
	}
}

type localObject struct {
	name string
	kind ObjectKind
	dead bool
}

type localHandle struct {
	obj   int
	valid bool
}

// Local is an in-memory kernel implementing Syscalls. Handle values index
// an entry table; freed slots are recycled through a free list. Share
// tokens map to objects, and upgrading a token mints a fresh handle to the
// same object, so the upgraded value generally differs from the original.
type Local struct {
	mu       sync.Mutex
	objects  []localObject
	handles  []localHandle
	freeList []Handle
	tokens   map[ShareToken]int
	nextTok  ShareToken
	devices  map[uuid.UUID]string
	limit    int
}

// NewLocal creates an empty in-memory kernel.
func NewLocal() *Local {
	return &Local{
		handles:  make([]localHandle, 0, 64),
		freeList: make([]Handle, 0, 16),
		tokens:   make(map[ShareToken]int),
		devices:  make(map[uuid.UUID]string),
	}
}

// AddDevice registers a device so OpenDevice can find it.
func (l *Local) AddDevice(id uuid.UUID, label string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.devices[id] = label
}

// SetHandleLimit caps the number of live handles. Zero means unlimited.
// Acquisition and upgrade calls fail with ErrResourceExhausted at the cap.
func (l *Local) SetHandleLimit(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limit = n
}

// HandleInfo describes one live handle for inspection.
type HandleInfo struct {
	Handle Handle
	Kind   ObjectKind
	Name   string
}

// Snapshot lists all live handles.
func (l *Local) Snapshot() []HandleInfo {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []HandleInfo
	for i, h := range l.handles {
		if !h.valid {
			continue
		}
		obj := l.objects[h.obj]
		out = append(out, HandleInfo{
			Handle: Handle(i + 1),
			Kind:   obj.kind,
			Name:   obj.name,
		})
	}
	return out
}

// Live returns the number of live handles.
func (l *Local) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, h := range l.handles {
		if h.valid {
			n++
		}
	}
	return n
}

func (l *Local) newHandleLocked(obj int) (Handle, Result) {
	if l.limit > 0 {
		live := 0
		for _, h := range l.handles {
			if h.valid {
				live++
			}
		}
		if live >= l.limit {
			return Null, ErrResourceExhausted
		}
	}

	e := localHandle{obj: obj, valid: true}
	if len(l.freeList) > 0 {
		h := l.freeList[len(l.freeList)-1]
		l.freeList = l.freeList[:len(l.freeList)-1]
		l.handles[h-1] = e
		return h, OK
	}
	l.handles = append(l.handles, e)
	return Handle(len(l.handles)), OK
}

func (l *Local) newObjectLocked(kind ObjectKind, name string) (Handle, Result) {
	l.objects = append(l.objects, localObject{kind: kind, name: name})
	return l.newHandleLocked(len(l.objects) - 1)
}

func (l *Local) lookupLocked(h Handle) (*localHandle, *localObject, Result) {
	if h == Null || int(h) > len(l.handles) {
		return nil, nil, ErrInvalidHandle
	}
	e := &l.handles[h-1]
	if !e.valid {
		return nil, nil, ErrInvalidHandle
	}
	obj := &l.objects[e.obj]
	if obj.dead {
		return nil, nil, ErrInvalidHandle
	}
	return e, obj, OK
}

func (l *Local) destroy(h Handle, want func(ObjectKind) bool) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, obj, r := l.lookupLocked(h)
	if !r.Ok() {
		return r
	}
	if !want(obj.kind) {
		return ErrInvalidOperation
	}
	e.valid = false
	l.freeList = append(l.freeList, h)
	return OK
}

func (l *Local) DetachThread(h Handle) Result {
	return l.destroy(h, func(k ObjectKind) bool { return k == KindThread })
}

func (l *Local) DebugDetach(h Handle) Result {
	return l.destroy(h, func(k ObjectKind) bool { return k == KindDebug })
}

func (l *Local) DestroySecurityContext(h Handle) Result {
	return l.destroy(h, func(k ObjectKind) bool { return k == KindSecurityContext })
}

func (l *Local) CloseIOStream(h Handle) Result {
	return l.destroy(h, func(k ObjectKind) bool { return k == KindFile || k == KindDevice })
}

func (l *Local) ShareHandle(h Handle) (ShareToken, Result) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, _, r := l.lookupLocked(h)
	if !r.Ok() {
		return 0, r
	}
	l.nextTok++
	l.tokens[l.nextTok] = e.obj
	return l.nextTok, OK
}

func (l *Local) UpgradeSharedHandle(tok ShareToken) (Handle, Result) {
	l.mu.Lock()
	defer l.mu.Unlock()

	obj, ok := l.tokens[tok]
	if !ok {
		return Null, ErrInvalidHandle
	}
	if l.objects[obj].dead {
		return Null, ErrInvalidState
	}
	return l.newHandleLocked(obj)
}

// UnshareHandle releases a token. The object dies with it: every handle
// still referring to the object, upgraded or original, becomes invalid.
func (l *Local) UnshareHandle(tok ShareToken) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	obj, ok := l.tokens[tok]
	if !ok {
		return ErrInvalidHandle
	}
	delete(l.tokens, tok)
	l.objects[obj].dead = true
	for i := range l.handles {
		if l.handles[i].valid && l.handles[i].obj == obj {
			l.handles[i].valid = false
			l.freeList = append(l.freeList, Handle(i+1))
		}
	}
	return OK
}

func (l *Local) OpenFile(path string) (Handle, Result) {
	if path == "" {
		return Null, ErrDoesNotExist
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.newObjectLocked(KindFile, path)
}

func (l *Local) OpenDevice(id uuid.UUID) (Handle, Result) {
	l.mu.Lock()
	defer l.mu.Unlock()

	label, ok := l.devices[id]
	if !ok {
		return Null, ErrUnknownDevice
	}
	return l.newObjectLocked(KindDevice, label)
}

func (l *Local) CreateSecurityContext() (Handle, Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.newObjectLocked(KindSecurityContext, "")
}

func (l *Local) SpawnThread() (Handle, Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.newObjectLocked(KindThread, "")
}

func (l *Local) DebugAttach(pid uint64) (Handle, Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.newObjectLocked(KindDebug, "")
}
