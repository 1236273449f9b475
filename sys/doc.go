// Package sys declares the Halcyon kernel syscall surface consumed by the
// handle layer, along with its raw scalar types and result codes.
//
// The surface is an interface rather than a set of linked foreign calls so
// that the rest of the runtime can be exercised against a fake. The package
// ships one implementation, Local, an in-memory kernel that hands out real
// handle values, enforces per-kind destruction, and implements the
// share/upgrade token protocol. Local backs the tests, the guest bindings,
// and the demo CLI; a production build would substitute the real kernel
// transport.
//
// # Result Convention
//
// Every kernel call returns a Result: zero is success, negative values
// identify a specific failure. Callers that want Go errors should map codes
// through the errors package rather than comparing Results directly.
package sys
