// Package interpreter is the stack-based step loop that executes a
// decoded Module's functions against a wasm.Store.
package interpreter

import (
	"encoding/binary"
	"fmt"

	"github.com/wasmkit/wasmkit/internal/wasm"
)

// HostFunc is the signature every imported or WASI host function is
// called with: a mutable reference to the store (so it may read/write
// linear memory) and the popped argument values, returning at most one
// result.
type HostFunc func(store *wasm.Store, args []wasm.Value) (*wasm.Value, error)

// WASIHandler is the boundary a wasi_snapshot_preview1 implementation
// satisfies. It is checked before the general import registry whenever
// an ExternalFuncInst's ModuleName is wasiModuleName.
type WASIHandler interface {
	Invoke(store *wasm.Store, funcName string, args []wasm.Value) (*wasm.Value, error)
}

// wasiModuleName is the two-level import namespace this engine special-cases.
const wasiModuleName = "wasi_snapshot_preview1"

// Interpreter is a single-threaded virtual machine over one wasm.Store.
// It is not safe for concurrent use; independent Interpreters may run on
// separate goroutines without interaction.
type Interpreter struct {
	store   *wasm.Store
	imports map[string]map[string]HostFunc
	wasi    WASIHandler

	operands *valueStack
	frames   []*Frame
}

// New returns an Interpreter over store with an empty import table and no
// WASI handler configured.
func New(store *wasm.Store) *Interpreter {
	return &Interpreter{
		store:    store,
		imports:  make(map[string]map[string]HostFunc),
		operands: newValueStack(),
	}
}

// AddImport registers or replaces the host function resolved for calls to
// moduleName.fieldName.
func (it *Interpreter) AddImport(moduleName, fieldName string, fn HostFunc) {
	m, ok := it.imports[moduleName]
	if !ok {
		m = make(map[string]HostFunc)
		it.imports[moduleName] = m
	}
	m[fieldName] = fn
}

// SetWASI binds a wasi_snapshot_preview1 handler. Calls into that module
// name are routed here instead of the general import registry.
func (it *Interpreter) SetWASI(h WASIHandler) { it.wasi = h }

// Call invokes the named export with args pushed in order, returning its
// single result if it produced one.
func (it *Interpreter) Call(name string, args []wasm.Value) (*wasm.Value, error) {
	exp, ok := it.store.Module.Exports[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, wasm.ErrExportFunctionNotFound)
	}
	if int(exp.FuncIndex) >= len(it.store.Funcs) {
		return nil, fmt.Errorf("%s: export function index %d out of range", name, exp.FuncIndex)
	}
	fn := it.store.Funcs[exp.FuncIndex]

	for _, a := range args {
		it.operands.push(a)
	}

	if fn.IsImport {
		return it.invokeExternal(fn.External)
	}
	return it.invokeInternal(fn.Internal)
}

func (it *Interpreter) invokeInternal(fn wasm.InternalFuncInst) (*wasm.Value, error) {
	if err := it.pushCallFrame(fn); err != nil {
		return nil, err
	}
	if err := it.run(); err != nil {
		return nil, err
	}
	if len(fn.Type.Results) == 0 {
		return nil, nil
	}
	v, err := it.operands.pop()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (it *Interpreter) invokeExternal(fn wasm.ExternalFuncInst) (*wasm.Value, error) {
	nparams := len(fn.Type.Params)
	if it.operands.height() < nparams {
		return nil, wasm.ErrRuntimeStackUnderflow
	}
	args := make([]wasm.Value, nparams)
	for i := nparams - 1; i >= 0; i-- {
		v, err := it.operands.pop()
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if fn.ModuleName == wasiModuleName && it.wasi != nil {
		return it.wasi.Invoke(it.store, fn.FieldName, args)
	}

	mod, ok := it.imports[fn.ModuleName]
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", fn.ModuleName, fn.FieldName, wasm.ErrImportModuleNotFound)
	}
	hostFn, ok := mod[fn.FieldName]
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", fn.ModuleName, fn.FieldName, wasm.ErrImportFunctionNotFound)
	}
	return hostFn(it.store, args)
}

// pushCallFrame pops fn's arguments off the top of the operand stack to
// form its locals, zero-initializes its declared locals, and pushes a
// new Frame onto the call stack.
func (it *Interpreter) pushCallFrame(fn wasm.InternalFuncInst) error {
	nparams := len(fn.Type.Params)
	if it.operands.height() < nparams {
		return wasm.ErrRuntimeStackUnderflow
	}
	locals := make([]wasm.Value, nparams+len(fn.Code.Locals))
	for i := nparams - 1; i >= 0; i-- {
		v, err := it.operands.pop()
		if err != nil {
			return err
		}
		locals[i] = v
	}
	for i, t := range fn.Code.Locals {
		locals[nparams+i] = wasm.ZeroValue(t)
	}

	it.frames = append(it.frames, &Frame{
		PC:     -1,
		SP:     it.operands.height(),
		Insts:  fn.Code.Body,
		Arity:  len(fn.Type.Results),
		Locals: locals,
	})
	return nil
}

// run drives the step loop until the call stack is empty: it takes the
// top frame, pre-increments its pc, fetches the instruction there, and
// dispatches by variant.
func (it *Interpreter) run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("interpreter panic: %v", r)
		}
	}()

	for len(it.frames) > 0 {
		frame := it.frames[len(it.frames)-1]
		frame.PC++
		if frame.PC < 0 || frame.PC >= len(frame.Insts) {
			return fmt.Errorf("program counter %d out of range for function body of length %d", frame.PC, len(frame.Insts))
		}
		inst := frame.Insts[frame.PC]

		switch inst.Kind {
		case wasm.InstructionLocalGet:
			if int(inst.Index) >= len(frame.Locals) {
				return fmt.Errorf("local.get: index %d out of range", inst.Index)
			}
			it.operands.push(frame.Locals[inst.Index])

		case wasm.InstructionLocalSet:
			v, err := it.operands.pop()
			if err != nil {
				return err
			}
			if int(inst.Index) >= len(frame.Locals) {
				return fmt.Errorf("local.set: index %d out of range", inst.Index)
			}
			frame.Locals[inst.Index] = v

		case wasm.InstructionI32Const:
			it.operands.push(wasm.I32(inst.I32ConstValue))

		case wasm.InstructionI32Add:
			right, err := it.operands.popI32()
			if err != nil {
				return err
			}
			left, err := it.operands.popI32()
			if err != nil {
				return err
			}
			it.operands.push(wasm.I32(left + right))

		case wasm.InstructionI32Sub:
			right, err := it.operands.popI32()
			if err != nil {
				return err
			}
			left, err := it.operands.popI32()
			if err != nil {
				return err
			}
			it.operands.push(wasm.I32(left - right))

		case wasm.InstructionI32LtS:
			right, err := it.operands.popI32()
			if err != nil {
				return err
			}
			left, err := it.operands.popI32()
			if err != nil {
				return err
			}
			if left < right {
				it.operands.push(wasm.I32(1))
			} else {
				it.operands.push(wasm.I32(0))
			}

		case wasm.InstructionI32Store:
			if err := it.execI32Store(inst); err != nil {
				return err
			}

		case wasm.InstructionIf:
			cond, err := it.operands.popI32()
			if err != nil {
				return err
			}
			if cond == 0 {
				frame.PC = inst.EndPC
			}
			frame.pushLabel(Label{PC: frame.PC, SP: it.operands.height(), Arity: inst.Block.ResultCount()})

		case wasm.InstructionReturn:
			if label, ok := frame.popLabel(); ok {
				if err := it.operands.unwind(label.SP, label.Arity); err != nil {
					return err
				}
				frame.PC = label.PC
			} else {
				it.frames = it.frames[:len(it.frames)-1]
				if err := it.operands.unwind(frame.SP, frame.Arity); err != nil {
					return err
				}
			}

		case wasm.InstructionEnd:
			it.frames = it.frames[:len(it.frames)-1]
			if err := it.operands.unwind(frame.SP, frame.Arity); err != nil {
				return err
			}

		case wasm.InstructionCall:
			if err := it.execCall(inst); err != nil {
				return err
			}

		default:
			return wasm.ErrRuntimeInvalidOpcode
		}
	}
	return nil
}

func (it *Interpreter) execI32Store(inst wasm.Instruction) error {
	if it.store.Memory == nil {
		return fmt.Errorf("i32.store: %w", wasm.ErrRuntimeOutOfBoundsMemoryAccess)
	}
	value, err := it.operands.popI32()
	if err != nil {
		return err
	}
	addr, err := it.operands.popI32()
	if err != nil {
		return err
	}
	at := int64(addr) + int64(inst.MemArg.Offset)
	if at < 0 || at+4 > int64(len(it.store.Memory.Data)) {
		return fmt.Errorf("i32.store at %d: %w", at, wasm.ErrRuntimeOutOfBoundsMemoryAccess)
	}
	binary.LittleEndian.PutUint32(it.store.Memory.Data[at:at+4], uint32(value))
	return nil
}

func (it *Interpreter) execCall(inst wasm.Instruction) error {
	if int(inst.Index) >= len(it.store.Funcs) {
		return fmt.Errorf("call: function index %d out of range", inst.Index)
	}
	callee := it.store.Funcs[inst.Index]
	if callee.IsImport {
		result, err := it.invokeExternal(callee.External)
		if err != nil {
			return err
		}
		if result != nil {
			it.operands.push(*result)
		}
		return nil
	}
	return it.pushCallFrame(callee.Internal)
}
