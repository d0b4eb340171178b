package wasi_snapshot_preview1

// Errno is the numeric result every WASI function in this subset maps its
// outcome onto: ErrnoSuccess on success, one of the POSIX-derived codes
// below otherwise.
//
// See https://github.com/WebAssembly/WASI/blob/snapshot-01/phases/snapshot/docs.md#errno
type Errno uint32

const (
	ErrnoSuccess Errno = 0
	ErrnoBadf    Errno = 8
	ErrnoFault   Errno = 21
)
