// Package errors provides the structured error type used by the handle
// runtime.
//
// Kernel calls report failures as raw result codes. This package turns a
// nonzero code into a typed error carrying the operation that issued the
// call (Op), a failure category (Kind), and the original code, so callers
// can match with errors.Is without inspecting strings:
//
//	ptr, err := shared.Get()
//	if errors.Is(err, &errors.Error{Op: errors.OpResolve, Kind: errors.KindInvalidHandle}) {
//	    shared.Invalidate()
//	}
package errors
