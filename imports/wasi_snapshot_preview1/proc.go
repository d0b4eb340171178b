package wasi_snapshot_preview1

import "fmt"

// ExitError is the error invokeInternal/run surfaces back up to Runtime.Call
// when the guest invokes proc_exit. It carries the exit code the guest
// requested so an embedder can act on it, the way a process's exit status
// would. There is no panic/recover boundary between the guest and
// Runtime.Call, so proc_exit returns this error through the normal error
// path rather than unwinding via panic.
type ExitError struct {
	Code uint32
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("module exited with code %d", e.Code)
}

func (h *Handler) procExit(args []uint32) error {
	if len(args) != 1 {
		return fmt.Errorf("proc_exit: expected 1 argument, got %d", len(args))
	}
	return &ExitError{Code: args[0]}
}
