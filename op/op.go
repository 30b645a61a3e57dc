// Package op defines the opcode vocabulary executed by the stackvm
// interpreter. An Instr is a single decoded instruction: a Code tag plus
// whichever operand fields that tag uses. Unused fields are left at their
// zero value, matching the flat-operand style of a bytecode opcode table
// rather than a tagged union, since Go has no sum types.
package op

import "fmt"

// Code identifies the operation an Instr performs.
type Code uint8

const (
	Invalid Code = iota

	// Gen invokes generic op OpID, passing Params as its private operand
	// list. A non-nil result overwrites the frame's return slot.
	Gen

	// Call pushes a new frame for FunID, copying the locals addressed by
	// Params (in order) from the caller's locals.
	Call

	// DynCall behaves like Call but resolves FunID from the current
	// frame's dynamic-call register instead of an immediate operand.
	DynCall

	// ReturnLocal pops the current frame, moving local Index into the
	// caller's return slot (or terminating the run if there is no caller).
	ReturnLocal

	// Return pops the current frame without producing a value.
	Return

	// Branch jumps to Target iff the frame's branch flag is set. The flag
	// is never modified by Branch itself.
	Branch

	// PushRet moves the return slot's value onto the end of locals. Faults
	// if the return slot is empty.
	PushRet

	// PushLocal appends the immediate operand Value to locals.
	PushLocal

	// Dup clones local Index and appends the clone to locals.
	Dup

	// Drop removes local Index from locals.
	Drop

	// Swap exchanges locals A and B.
	Swap

	// CoYield suspends the current frame as an Active coroutine of its
	// caller, carrying local Index as the yielded value.
	CoYield

	// CoFinish terminates the current frame, registering a Finished
	// coroutine in the caller.
	CoFinish

	// CoResume pushes the current frame back onto the call stack and
	// activates coroutine Index as the new current frame.
	CoResume

	// CoFinishSetBranch sets the branch flag iff coroutine Index is
	// Finished, destroying that coroutine in the process.
	CoFinishSetBranch

	// CoDup deep-clones coroutine Index and appends the clone.
	CoDup

	// CoDrop removes coroutine Index.
	CoDrop

	// CoSwap exchanges coroutines A and B.
	CoSwap
)

// String returns the mnemonic used in disassembly and stack traces.
func (c Code) String() string {
	switch c {
	case Gen:
		return "GEN"
	case Call:
		return "CALL"
	case DynCall:
		return "DYN_CALL"
	case ReturnLocal:
		return "RETURN_LOCAL"
	case Return:
		return "RETURN"
	case Branch:
		return "BRANCH"
	case PushRet:
		return "PUSH_RET"
	case PushLocal:
		return "PUSH_LOCAL"
	case Dup:
		return "DUP"
	case Drop:
		return "DROP"
	case Swap:
		return "SWAP"
	case CoYield:
		return "CO_YIELD"
	case CoFinish:
		return "CO_FINISH"
	case CoResume:
		return "CO_RESUME"
	case CoFinishSetBranch:
		return "CO_FINISH_SET_BRANCH"
	case CoDup:
		return "CO_DUP"
	case CoDrop:
		return "CO_DROP"
	case CoSwap:
		return "CO_SWAP"
	default:
		return fmt.Sprintf("INVALID(%d)", uint8(c))
	}
}

// Instr is a single decoded instruction. The Code determines which of the
// remaining fields are meaningful:
//
//	Gen                                OpID, Params
//	Call                               FunID, Params
//	DynCall                            Params
//	ReturnLocal, Dup, Drop, CoYield    Index
//	Return, PushRet, CoFinish          (no operands)
//	Branch                             Target
//	PushLocal                          Value
//	Swap, CoSwap                       A, B
//	CoResume, CoFinishSetBranch,
//	CoDup, CoDrop                      Index
type Instr[T any] struct {
	Code   Code
	OpID   int
	FunID  int
	Index  int
	Target int
	A, B   int
	Params []int
	Value  T
}

// GenOp invokes generic op opID with the given operand list.
func GenOp[T any](opID int, params []int) Instr[T] {
	return Instr[T]{Code: Gen, OpID: opID, Params: params}
}

// CallFun pushes a new frame for funID, copying the addressed locals.
func CallFun[T any](funID int, params []int) Instr[T] {
	return Instr[T]{Code: Call, FunID: funID, Params: params}
}

// DynCallFun calls through the current frame's dynamic-call register.
func DynCallFun[T any](params []int) Instr[T] {
	return Instr[T]{Code: DynCall, Params: params}
}

// RetLocal moves local index into the caller's return slot.
func RetLocal[T any](index int) Instr[T] {
	return Instr[T]{Code: ReturnLocal, Index: index}
}

// Ret pops the current frame without producing a value.
func Ret[T any]() Instr[T] {
	return Instr[T]{Code: Return}
}

// Br jumps to target when the branch flag is set.
func Br[T any](target int) Instr[T] {
	return Instr[T]{Code: Branch, Target: target}
}

// PushReturn moves the return slot onto the end of locals.
func PushReturn[T any]() Instr[T] {
	return Instr[T]{Code: PushRet}
}

// PushImmediate appends an immediate value to locals.
func PushImmediate[T any](v T) Instr[T] {
	return Instr[T]{Code: PushLocal, Value: v}
}

// DupLocal clones local index onto the end of locals.
func DupLocal[T any](index int) Instr[T] {
	return Instr[T]{Code: Dup, Index: index}
}

// DropLocal removes local index.
func DropLocal[T any](index int) Instr[T] {
	return Instr[T]{Code: Drop, Index: index}
}

// SwapLocal exchanges locals a and b.
func SwapLocal[T any](a, b int) Instr[T] {
	return Instr[T]{Code: Swap, A: a, B: b}
}

// Yield suspends the current frame, carrying local index as the yielded
// value.
func Yield[T any](index int) Instr[T] {
	return Instr[T]{Code: CoYield, Index: index}
}

// Finish terminates the current frame as a Finished coroutine of its
// caller.
func Finish[T any]() Instr[T] {
	return Instr[T]{Code: CoFinish}
}

// Resume activates coroutine index as the new current frame.
func Resume[T any](index int) Instr[T] {
	return Instr[T]{Code: CoResume, Index: index}
}

// FinishSetBranch sets the branch flag iff coroutine index is Finished,
// destroying it if so.
func FinishSetBranch[T any](index int) Instr[T] {
	return Instr[T]{Code: CoFinishSetBranch, Index: index}
}

// DupCoroutine deep-clones coroutine index and appends the clone.
func DupCoroutine[T any](index int) Instr[T] {
	return Instr[T]{Code: CoDup, Index: index}
}

// DropCoroutine removes coroutine index.
func DropCoroutine[T any](index int) Instr[T] {
	return Instr[T]{Code: CoDrop, Index: index}
}

// SwapCoroutine exchanges coroutines a and b.
func SwapCoroutine[T any](a, b int) Instr[T] {
	return Instr[T]{Code: CoSwap, A: a, B: b}
}
