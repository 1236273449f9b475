package handle

import "golang.org/x/sys/unix"

// threadID identifies the calling OS thread. Kernel handles are resolved
// per thread, so the shared cache keys its slots by thread id: a slot is
// only ever written by the thread it belongs to, which keeps the resolved
// fast path free of locks.
func threadID() int {
	return unix.Gettid()
}
