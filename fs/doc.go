// Package fs provides path values for naming kernel filesystem objects.
//
// Paths are interpreted by the kernel, not by this package: components are
// split and joined locally, but never normalized or resolved against the
// local filesystem. "." and ".." survive as explicit components so the
// kernel's resolution rules apply, not the host's.
package fs
