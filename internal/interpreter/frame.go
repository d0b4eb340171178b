package interpreter

import "github.com/wasmkit/wasmkit/internal/wasm"

// Label is pushed when entering an If block and popped by Return,
// recording where to branch to and how much of the operand stack to
// preserve on exit. End does not pop labels: it pops the whole frame,
// discarding any labels still open on it.
type Label struct {
	PC    int
	SP    int
	Arity int
}

// Frame is one function activation: its program counter, the operand
// stack height at entry, its instruction stream, its result arity, its
// open labels, and its locals (parameters followed by declared locals).
//
// pc starts at -1; the step loop pre-increments it before every dispatch
// so the first fetch lands on index 0.
type Frame struct {
	PC     int
	SP     int
	Insts  []wasm.Instruction
	Arity  int
	Labels []Label
	Locals []wasm.Value
}

func (f *Frame) pushLabel(l Label) { f.Labels = append(f.Labels, l) }

func (f *Frame) popLabel() (Label, bool) {
	if len(f.Labels) == 0 {
		return Label{}, false
	}
	l := f.Labels[len(f.Labels)-1]
	f.Labels = f.Labels[:len(f.Labels)-1]
	return l, true
}
