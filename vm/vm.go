// Package vm implements the stack-based machine executing contract
// bytecode over 256-bit words, per spec §4.6. The opcode dispatch favors a
// dense switch keyed by opcode byte, in the spirit of the design note
// preferring a per-opcode function table for branch prediction; storage
// access is delegated to a small interface so the VM has no dependency on
// the concrete state store implementation.
package vm

import (
	"github.com/aegenchain/aegen-core/aerr"
	"github.com/aegenchain/aegen-core/types"
	"github.com/aegenchain/aegen-core/word256"
)

// StorageBackend is the per-contract persistent storage the VM reads and
// writes SLOAD/SSTORE through.
type StorageBackend interface {
	GetStorage(contract types.Address, key word256.Word) word256.Word
	PutStorage(contract types.Address, key, val word256.Word)
}

// Context carries the per-call execution parameters.
type Context struct {
	Self     types.Address
	CallData []byte
	GasLimit uint64
}

// Result is the outcome of a single Execute call.
type Result struct {
	Success    bool
	ReturnData []byte
	GasUsed    uint64
	Logs       []types.Log
	RevertData []byte
}

// Machine executes contract code against a storage backend and an optional
// precompile set.
type Machine struct {
	Storage     StorageBackend
	Precompiles *PrecompileSet
}

func NewMachine(storage StorageBackend, precompiles *PrecompileSet) *Machine {
	if precompiles == nil {
		precompiles = NewPrecompileSet()
	}
	return &Machine{Storage: storage, Precompiles: precompiles}
}

// Execute interprets code under ctx and returns the result. Gas exhaustion
// halts execution with failure; consumed memory and stack state are
// discarded by the caller (the engine rolls back the state snapshot).
func (m *Machine) Execute(code []byte, ctx Context) Result {
	jumpdests := analyzeJumpdests(code)
	st := newStack()
	mem := newMemory()

	var logs []types.Log
	pc := 0
	gasUsed := uint64(0)
	gasLimit := ctx.GasLimit

	fail := func(err error) Result {
		return Result{Success: false, GasUsed: gasLimit, RevertData: []byte(err.Error())}
	}

	charge := func(g uint64) error {
		gasUsed += g
		if gasUsed > gasLimit {
			return aerr.NewVMError(aerr.OutOfGas, "")
		}
		return nil
	}

	for pc < len(code) {
		op := OpCode(code[pc])

		if width, ok := op.IsPush(); ok {
			if err := charge(3); err != nil {
				return fail(err)
			}
			end := pc + 1 + width
			var raw []byte
			if end <= len(code) {
				raw = code[pc+1 : end]
			} else {
				raw = code[pc+1:]
			}
			if err := st.push(word256.FromBigEndianBytes(raw)); err != nil {
				return fail(err)
			}
			pc += 1 + width
			continue
		}
		if n, ok := op.IsDup(); ok {
			if err := charge(3); err != nil {
				return fail(err)
			}
			if err := st.dup(n); err != nil {
				return fail(err)
			}
			pc++
			continue
		}
		if n, ok := op.IsSwap(); ok {
			if err := charge(3); err != nil {
				return fail(err)
			}
			if err := st.swap(n); err != nil {
				return fail(err)
			}
			pc++
			continue
		}
		if ntopics, ok := op.IsLog(); ok {
			if err := charge(3); err != nil {
				return fail(err)
			}
			offsetW, err := st.pop()
			if err != nil {
				return fail(err)
			}
			sizeW, err := st.pop()
			if err != nil {
				return fail(err)
			}
			topics := make([][32]byte, ntopics)
			for i := 0; i < ntopics; i++ {
				tw, err := st.pop()
				if err != nil {
					return fail(err)
				}
				topics[i] = tw.ToBigEndianBytes()
			}
			offset, size := offsetW.Uint64(), sizeW.Uint64()
			if err := charge(mem.expansionCost(offset, size)); err != nil {
				return fail(err)
			}
			data := mem.get(offset, size)
			if err := charge(gasLogBase + gasLogByte*uint64(len(data)) + gasLogTopic*uint64(ntopics)); err != nil {
				return fail(err)
			}
			logs = append(logs, types.Log{Address: ctx.Self, Topics: topics, Data: data})
			pc++
			continue
		}

		switch op {
		case STOP:
			return Result{Success: true, GasUsed: gasUsed, Logs: logs}

		case ADD, SUB, MUL, DIV, MOD, AND, OR, XOR, LT, EQ:
			if err := charge(3); err != nil {
				return fail(err)
			}
			a, err := st.pop()
			if err != nil {
				return fail(err)
			}
			b, err := st.pop()
			if err != nil {
				return fail(err)
			}
			var r word256.Word
			switch op {
			case ADD:
				r = a.Add(b)
			case SUB:
				r = a.Sub(b)
			case MUL:
				r = a.Mul(b)
			case DIV:
				r = a.Div(b)
			case MOD:
				r = a.Mod(b)
			case AND:
				r = a.And(b)
			case OR:
				r = a.Or(b)
			case XOR:
				r = a.Xor(b)
			case LT:
				if a.Cmp(b) < 0 {
					r = word256.FromUint64(1)
				}
			case EQ:
				if a.Cmp(b) == 0 {
					r = word256.FromUint64(1)
				}
			}
			if err := st.push(r); err != nil {
				return fail(err)
			}
			pc++

		case ISZERO, NOT:
			if err := charge(3); err != nil {
				return fail(err)
			}
			a, err := st.pop()
			if err != nil {
				return fail(err)
			}
			var r word256.Word
			if op == ISZERO {
				if a.IsZero() {
					r = word256.FromUint64(1)
				}
			} else {
				r = a.Not()
			}
			if err := st.push(r); err != nil {
				return fail(err)
			}
			pc++

		case POP:
			if err := charge(2); err != nil {
				return fail(err)
			}
			if _, err := st.pop(); err != nil {
				return fail(err)
			}
			pc++

		case MLOAD:
			if err := charge(3); err != nil {
				return fail(err)
			}
			offW, err := st.pop()
			if err != nil {
				return fail(err)
			}
			off := offW.Uint64()
			if err := charge(mem.expansionCost(off, 32)); err != nil {
				return fail(err)
			}
			if err := st.push(word256.FromBigEndianBytes(mem.get(off, 32))); err != nil {
				return fail(err)
			}
			pc++

		case MSTORE:
			if err := charge(3); err != nil {
				return fail(err)
			}
			offW, err := st.pop()
			if err != nil {
				return fail(err)
			}
			valW, err := st.pop()
			if err != nil {
				return fail(err)
			}
			off := offW.Uint64()
			if err := charge(mem.expansionCost(off, 32)); err != nil {
				return fail(err)
			}
			b := valW.ToBigEndianBytes()
			mem.set(off, b[:])
			pc++

		case MSTORE8:
			if err := charge(3); err != nil {
				return fail(err)
			}
			offW, err := st.pop()
			if err != nil {
				return fail(err)
			}
			valW, err := st.pop()
			if err != nil {
				return fail(err)
			}
			off := offW.Uint64()
			if err := charge(mem.expansionCost(off, 1)); err != nil {
				return fail(err)
			}
			b := valW.ToBigEndianBytes()
			mem.set(off, []byte{b[31]})
			pc++

		case SLOAD:
			if err := charge(gasSload); err != nil {
				return fail(err)
			}
			keyW, err := st.pop()
			if err != nil {
				return fail(err)
			}
			if err := st.push(m.Storage.GetStorage(ctx.Self, keyW)); err != nil {
				return fail(err)
			}
			pc++

		case SSTORE:
			if err := charge(gasSstoreSet); err != nil {
				return fail(err)
			}
			keyW, err := st.pop()
			if err != nil {
				return fail(err)
			}
			valW, err := st.pop()
			if err != nil {
				return fail(err)
			}
			m.Storage.PutStorage(ctx.Self, keyW, valW)
			pc++

		case JUMPDEST:
			pc++

		case JUMP:
			if err := charge(8); err != nil {
				return fail(err)
			}
			destW, err := st.pop()
			if err != nil {
				return fail(err)
			}
			dest := destW.Uint64()
			if dest >= uint64(len(jumpdests)) || !jumpdests[dest] {
				return fail(aerr.NewVMError(aerr.InvalidJump, ""))
			}
			pc = int(dest)

		case JUMPI:
			if err := charge(10); err != nil {
				return fail(err)
			}
			destW, err := st.pop()
			if err != nil {
				return fail(err)
			}
			condW, err := st.pop()
			if err != nil {
				return fail(err)
			}
			if condW.IsZero() {
				pc++
				continue
			}
			dest := destW.Uint64()
			if dest >= uint64(len(jumpdests)) || !jumpdests[dest] {
				return fail(aerr.NewVMError(aerr.InvalidJump, ""))
			}
			pc = int(dest)

		case RETURN:
			offW, err := st.pop()
			if err != nil {
				return fail(err)
			}
			sizeW, err := st.pop()
			if err != nil {
				return fail(err)
			}
			off, size := offW.Uint64(), sizeW.Uint64()
			if err := charge(mem.expansionCost(off, size)); err != nil {
				return fail(err)
			}
			return Result{Success: true, GasUsed: gasUsed, ReturnData: mem.get(off, size), Logs: logs}

		case REVERT:
			offW, err := st.pop()
			if err != nil {
				return fail(err)
			}
			sizeW, err := st.pop()
			if err != nil {
				return fail(err)
			}
			off, size := offW.Uint64(), sizeW.Uint64()
			if err := charge(mem.expansionCost(off, size)); err != nil {
				return fail(err)
			}
			reason := mem.get(off, size)
			return Result{Success: false, GasUsed: gasUsed, RevertData: reason}

		case INVALID:
			return Result{Success: false, GasUsed: gasLimit}

		case STATICCALL:
			if err := charge(700); err != nil {
				return fail(err)
			}
			if _, err := st.pop(); err != nil { // gas
				return fail(err)
			}
			addrW, err := st.pop()
			if err != nil {
				return fail(err)
			}
			inOffW, err := st.pop()
			if err != nil {
				return fail(err)
			}
			inSizeW, err := st.pop()
			if err != nil {
				return fail(err)
			}
			outOffW, err := st.pop()
			if err != nil {
				return fail(err)
			}
			outSizeW, err := st.pop()
			if err != nil {
				return fail(err)
			}
			input := mem.get(inOffW.Uint64(), inSizeW.Uint64())
			fn, ok := m.Precompiles.lookup(addrW)
			success := false
			var output []byte
			var pcGas uint64
			if ok {
				output, pcGas, success = fn(input)
				if err := charge(pcGas); err != nil {
					return fail(err)
				}
			}
			outSize := outSizeW.Uint64()
			if outSize > uint64(len(output)) {
				outSize = uint64(len(output))
			}
			mem.set(outOffW.Uint64(), output[:outSize])
			var r word256.Word
			if success {
				r = word256.FromUint64(1)
			}
			if err := st.push(r); err != nil {
				return fail(err)
			}
			pc++

		default:
			return fail(aerr.NewVMError(aerr.BadOpcode, ""))
		}
	}
	return Result{Success: true, GasUsed: gasUsed, Logs: logs}
}
