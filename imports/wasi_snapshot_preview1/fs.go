package wasi_snapshot_preview1

import (
	"encoding/binary"
	"fmt"

	"github.com/wasmkit/wasmkit/internal/wasm"
)

// fdWrite reads iovsCount (offset, length) pairs starting at iovs out of
// store's linear memory and writes each chunk, in order, to the writer fd
// resolves to, returning the total byte count written at resultSize.
//
// See https://github.com/WebAssembly/WASI/blob/snapshot-01/phases/snapshot/docs.md#fd_write
func (h *Handler) fdWrite(store *wasm.Store, args []uint32) (Errno, error) {
	if len(args) != 4 {
		return 0, fmt.Errorf("expected 4 arguments, got %d", len(args))
	}
	fd, iovs, iovsCount, resultSize := args[0], args[1], args[2], args[3]

	w, ok := h.fds[fd]
	if !ok {
		return ErrnoBadf, nil
	}
	if store.Memory == nil {
		return ErrnoFault, nil
	}
	mem := store.Memory.Data

	var nwritten uint32
	for i := uint32(0); i < iovsCount; i++ {
		iovPtr := iovs + i*8
		if uint64(iovPtr)+8 > uint64(len(mem)) {
			return ErrnoFault, nil
		}
		offset := binary.LittleEndian.Uint32(mem[iovPtr : iovPtr+4])
		length := binary.LittleEndian.Uint32(mem[iovPtr+4 : iovPtr+8])
		if uint64(offset)+uint64(length) > uint64(len(mem)) {
			return ErrnoFault, nil
		}
		n, err := w.Write(mem[offset : offset+length])
		if err != nil {
			return 0, err
		}
		nwritten += uint32(n)
	}

	if uint64(resultSize)+4 > uint64(len(mem)) {
		return ErrnoFault, nil
	}
	binary.LittleEndian.PutUint32(mem[resultSize:resultSize+4], nwritten)
	return ErrnoSuccess, nil
}
