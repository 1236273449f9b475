package guest

import (
	"sync"

	"github.com/halcyon-os/userland/errors"
	"github.com/halcyon-os/userland/handle"
	"github.com/halcyon-os/userland/sys"
)

// Index is a guest-visible handle table slot. Zero is reserved and always
// invalid.
type Index uint32

// ShareRef is the type-erased view of a shared cache the table hands out
// when a guest shares an entry.
type ShareRef struct {
	Token sys.ShareToken
	Get   func() (sys.Handle, error)
	Close func()
}

type entry struct {
	close   func()
	release func() sys.Handle
	share   func() (ShareRef, error)
	raw     sys.Handle
	kind    string
	valid   bool
}

// Table maps guest indices to host-side owned handles. Freed slots are
// recycled through a free list.
type Table struct {
	mu       sync.Mutex
	entries  []entry
	freeList []Index
	closed   bool
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		entries:  make([]entry, 0, 16),
		freeList: make([]Index, 0, 8),
	}
}

// Add stores an owned handle and returns its guest index. The table takes
// over ownership: the wrapper must not be used directly afterwards.
func Add[T handle.Object](t *Table, o *handle.Owned[T]) Index {
	raw := o.Ptr().Raw()
	return t.add(entry{
		raw:   raw,
		kind:  handle.KindName[T](),
		close: o.Close,
		release: func() sys.Handle {
			return o.Release().Raw()
		},
		share: func() (ShareRef, error) {
			s, err := handle.Share(o)
			if err != nil {
				return ShareRef{}, err
			}
			return ShareRef{
				Token: s.Token(),
				Get: func() (sys.Handle, error) {
					p, err := s.Get()
					if err != nil {
						return sys.Null, err
					}
					return p.Raw(), nil
				},
				Close: s.Close,
			}, nil
		},
		valid: true,
	})
}

func (t *Table) add(e entry) Index {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0
	}

	if len(t.freeList) > 0 {
		idx := t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		t.entries[idx-1] = e
		return idx
	}

	t.entries = append(t.entries, e)
	return Index(len(t.entries))
}

func (t *Table) take(idx Index) (entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if idx == 0 || int(idx) > len(t.entries) {
		return entry{}, false
	}
	e := t.entries[idx-1]
	if !e.valid {
		return entry{}, false
	}
	t.entries[idx-1] = entry{}
	t.freeList = append(t.freeList, idx)
	return e, true
}

// Get returns the raw handle value behind an index for borrowed use.
// Ownership stays with the table.
func (t *Table) Get(idx Index) (sys.Handle, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if idx == 0 || int(idx) > len(t.entries) {
		return sys.Null, false
	}
	e := t.entries[idx-1]
	if !e.valid {
		return sys.Null, false
	}
	return e.raw, true
}

// Kind names the kind of the entry at idx.
func (t *Table) Kind(idx Index) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if idx == 0 || int(idx) > len(t.entries) {
		return "", false
	}
	e := t.entries[idx-1]
	if !e.valid {
		return "", false
	}
	return e.kind, true
}

// Drop removes an index and destroys the handle behind it.
func (t *Table) Drop(idx Index) bool {
	e, ok := t.take(idx)
	if !ok {
		return false
	}
	e.close()
	return true
}

// Release removes an index and hands the raw handle value back without
// destroying it. The caller owns it now.
func (t *Table) Release(idx Index) (sys.Handle, bool) {
	e, ok := t.take(idx)
	if !ok {
		return sys.Null, false
	}
	return e.release(), true
}

// Share consumes an index and converts its handle into a shared cache.
// On failure the entry is restored and the guest keeps the index.
func (t *Table) Share(idx Index) (ShareRef, error) {
	e, ok := t.take(idx)
	if !ok {
		return ShareRef{}, errors.InvalidHandle(errors.OpShare, "unknown guest index")
	}
	ref, err := e.share()
	if err != nil {
		t.restore(idx, e)
		return ShareRef{}, err
	}
	return ref, nil
}

func (t *Table) restore(idx Index, e entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries[idx-1] = e
	for i, f := range t.freeList {
		if f == idx {
			t.freeList = append(t.freeList[:i], t.freeList[i+1:]...)
			break
		}
	}
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, e := range t.entries {
		if e.valid {
			n++
		}
	}
	return n
}

// Close drops every live entry, destroying the handles behind them.
func (t *Table) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	live := make([]entry, 0, len(t.entries))
	for i := range t.entries {
		if t.entries[i].valid {
			live = append(live, t.entries[i])
			t.entries[i] = entry{}
		}
	}
	t.entries = nil
	t.freeList = nil
	t.mu.Unlock()

	for _, e := range live {
		e.close()
	}
}
