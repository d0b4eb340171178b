package interpreter

import (
	"fmt"

	"github.com/wasmkit/wasmkit/internal/wasm"
)

const initialOperandStackHeight = 64

// valueStack is the single growable LIFO operand stack shared across
// every frame on the call stack. Values are tagged, so there is no need
// to split this into per-type stacks.
type valueStack struct {
	stack []wasm.Value
	sp    int
}

func newValueStack() *valueStack {
	return &valueStack{stack: make([]wasm.Value, initialOperandStackHeight), sp: -1}
}

// height is the number of values currently on the stack.
func (s *valueStack) height() int { return s.sp + 1 }

func (s *valueStack) push(v wasm.Value) {
	if s.sp+1 == len(s.stack) {
		s.stack = append(s.stack, v)
	} else {
		s.stack[s.sp+1] = v
	}
	s.sp++
}

func (s *valueStack) pop() (wasm.Value, error) {
	if s.sp < 0 {
		return wasm.Value{}, wasm.ErrRuntimeStackUnderflow
	}
	v := s.stack[s.sp]
	s.sp--
	return v, nil
}

func (s *valueStack) peek() (wasm.Value, error) {
	if s.sp < 0 {
		return wasm.Value{}, wasm.ErrRuntimeStackUnderflow
	}
	return s.stack[s.sp], nil
}

// truncate sets the stack height to h, discarding everything above it.
func (s *valueStack) truncate(h int) { s.sp = h - 1 }

func (s *valueStack) popI32() (int32, error) {
	v, err := s.pop()
	if err != nil {
		return 0, err
	}
	i, ok := v.I32Value()
	if !ok {
		return 0, fmt.Errorf("%w: expected i32, got %s", wasm.ErrRuntimeTypeMismatch, v.Type())
	}
	return i, nil
}

// unwind truncates the stack back to `sp`; when `arity` is greater than
// zero, the single top value is saved first and pushed back afterwards
// (only one value is kept, whatever the arity). Used by End/Return to
// collapse a frame or label to its caller's stack height.
func (s *valueStack) unwind(sp, arity int) error {
	if arity == 0 {
		s.truncate(sp)
		return nil
	}
	top, err := s.peek()
	if err != nil {
		return err
	}
	s.truncate(sp)
	s.push(top)
	return nil
}
