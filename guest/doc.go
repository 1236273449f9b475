// Package guest exposes the handle layer to sandboxed WASM guests.
//
// Guests never see raw kernel handle values while they hold ownership;
// they hold small table indices instead, and the host keeps the owned
// wrappers. Dropping an index runs the real destructor, so a guest that
// leaks indices still cannot leak kernel handles past table teardown.
//
// The Binder registers a "halcyon:handles" host module on a wazero
// runtime with the following exports (all results are i64; negative
// values are kernel result codes):
//
//	open-file(ptr: i32, len: i32) -> i64   table index
//	close(idx: i32) -> i64                 0 on success
//	release(idx: i32) -> i64               raw handle value, ownership out
//	share(idx: i32) -> i64                 share token, consumes the index
//	upgrade(tok: i64) -> i64               thread-usable raw handle value
//	unshare(tok: i64) -> i64               0 on success
package guest
