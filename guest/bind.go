package guest

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/halcyon-os/userland/errors"
	"github.com/halcyon-os/userland/handle"
	"github.com/halcyon-os/userland/sys"
)

// HostModule is the import namespace guests link against.
const HostModule = "halcyon:handles"

// Binder wires the handle layer into a wazero runtime as host functions.
// One binder serves one guest instance's handle table.
type Binder struct {
	sc    sys.Syscalls
	table *Table

	mu     sync.Mutex
	shares map[sys.ShareToken]ShareRef
}

// NewBinder creates a binder over the given syscall surface.
func NewBinder(sc sys.Syscalls) *Binder {
	return &Binder{
		sc:     sc,
		table:  NewTable(),
		shares: make(map[sys.ShareToken]ShareRef),
	}
}

// Table exposes the guest handle table, e.g. for host-side inspection.
func (b *Binder) Table() *Table {
	return b.table
}

// Register instantiates the host module on r. The returned closer tears
// down the host module; Close on the binder tears down the handles.
func (b *Binder) Register(ctx context.Context, r wazero.Runtime) (api.Closer, error) {
	mod := r.NewHostModuleBuilder(HostModule)

	mod.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(b.openFile),
			[]api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
			[]api.ValueType{api.ValueTypeI64}).
		Export("open-file")

	mod.NewFunctionBuilder().
		WithGoFunction(api.GoFunc(b.close),
			[]api.ValueType{api.ValueTypeI32},
			[]api.ValueType{api.ValueTypeI64}).
		Export("close")

	mod.NewFunctionBuilder().
		WithGoFunction(api.GoFunc(b.release),
			[]api.ValueType{api.ValueTypeI32},
			[]api.ValueType{api.ValueTypeI64}).
		Export("release")

	mod.NewFunctionBuilder().
		WithGoFunction(api.GoFunc(b.share),
			[]api.ValueType{api.ValueTypeI32},
			[]api.ValueType{api.ValueTypeI64}).
		Export("share")

	mod.NewFunctionBuilder().
		WithGoFunction(api.GoFunc(b.upgrade),
			[]api.ValueType{api.ValueTypeI64},
			[]api.ValueType{api.ValueTypeI64}).
		Export("upgrade")

	mod.NewFunctionBuilder().
		WithGoFunction(api.GoFunc(b.unshare),
			[]api.ValueType{api.ValueTypeI64},
			[]api.ValueType{api.ValueTypeI64}).
		Export("unshare")

	return mod.Instantiate(ctx)
}

// Close drops every guest-held handle and share.
func (b *Binder) Close() {
	b.mu.Lock()
	shares := b.shares
	b.shares = make(map[sys.ShareToken]ShareRef)
	b.mu.Unlock()

	for _, ref := range shares {
		ref.Close()
	}
	b.table.Close()
}

// codeOf extracts the kernel result code from a runtime error, falling
// back to INVALID_OPERATION for host-side failures.
func codeOf(err error) int64 {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Code != sys.OK {
		return int64(e.Code)
	}
	return int64(sys.ErrInvalidOperation)
}

func (b *Binder) openFile(ctx context.Context, mod api.Module, stack []uint64) {
	ptr := uint32(stack[0])
	length := uint32(stack[1])

	buf, ok := mod.Memory().Read(ptr, length)
	if !ok {
		stack[0] = api.EncodeI64(int64(sys.ErrInvalidOperation))
		return
	}

	o, err := handle.OpenFile(b.sc, string(buf))
	if err != nil {
		stack[0] = api.EncodeI64(codeOf(err))
		return
	}

	idx := Add(b.table, o)
	if idx == 0 {
		o.Close()
		stack[0] = api.EncodeI64(int64(sys.ErrResourceExhausted))
		return
	}
	stack[0] = api.EncodeI64(int64(idx))
}

func (b *Binder) close(ctx context.Context, stack []uint64) {
	idx := Index(uint32(stack[0]))
	if !b.table.Drop(idx) {
		stack[0] = api.EncodeI64(int64(sys.ErrInvalidHandle))
		return
	}
	stack[0] = api.EncodeI64(0)
}

func (b *Binder) release(ctx context.Context, stack []uint64) {
	idx := Index(uint32(stack[0]))
	raw, ok := b.table.Release(idx)
	if !ok {
		stack[0] = api.EncodeI64(int64(sys.ErrInvalidHandle))
		return
	}
	stack[0] = api.EncodeI64(int64(raw))
}

func (b *Binder) share(ctx context.Context, stack []uint64) {
	idx := Index(uint32(stack[0]))
	ref, err := b.table.Share(idx)
	if err != nil {
		stack[0] = api.EncodeI64(codeOf(err))
		return
	}

	b.mu.Lock()
	b.shares[ref.Token] = ref
	b.mu.Unlock()

	stack[0] = api.EncodeI64(int64(ref.Token))
}

func (b *Binder) upgrade(ctx context.Context, stack []uint64) {
	tok := sys.ShareToken(stack[0])

	b.mu.Lock()
	ref, ok := b.shares[tok]
	b.mu.Unlock()
	if !ok {
		stack[0] = api.EncodeI64(int64(sys.ErrInvalidHandle))
		return
	}

	raw, err := ref.Get()
	if err != nil {
		stack[0] = api.EncodeI64(codeOf(err))
		return
	}
	stack[0] = api.EncodeI64(int64(raw))
}

func (b *Binder) unshare(ctx context.Context, stack []uint64) {
	tok := sys.ShareToken(stack[0])

	b.mu.Lock()
	ref, ok := b.shares[tok]
	delete(b.shares, tok)
	b.mu.Unlock()
	if !ok {
		stack[0] = api.EncodeI64(int64(sys.ErrInvalidHandle))
		return
	}

	ref.Close()
	stack[0] = api.EncodeI64(0)
}
