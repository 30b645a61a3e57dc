// Package dis renders stackvm functions and faults as human-readable text,
// for debugging and logging. It never participates in execution.
package dis

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/stackvm-go/stackvm/errz"
	"github.com/stackvm-go/stackvm/op"
)

var (
	mnemonicColor = color.New(color.FgCyan, color.Bold)
	operandColor  = color.New(color.FgYellow)
	faultColor    = color.New(color.FgRed, color.Bold)
	frameColor    = color.New(color.FgHiBlack)
)

// Instruction renders a single decoded instruction as "PC  MNEMONIC operands".
func Instruction[T any](pc int, instr op.Instr[T]) string {
	var operands []string
	switch instr.Code {
	case op.Gen:
		operands = append(operands, fmt.Sprintf("op=%d", instr.OpID), paramsString(instr.Params))
	case op.Call:
		operands = append(operands, fmt.Sprintf("fn=%d", instr.FunID), paramsString(instr.Params))
	case op.DynCall:
		operands = append(operands, paramsString(instr.Params))
	case op.ReturnLocal, op.Dup, op.Drop, op.CoYield, op.CoResume, op.CoFinishSetBranch, op.CoDup, op.CoDrop:
		operands = append(operands, fmt.Sprintf("%d", instr.Index))
	case op.Branch:
		operands = append(operands, fmt.Sprintf("-> %d", instr.Target))
	case op.PushLocal:
		operands = append(operands, fmt.Sprintf("%v", instr.Value))
	case op.Swap, op.CoSwap:
		operands = append(operands, fmt.Sprintf("%d, %d", instr.A, instr.B))
	}
	line := fmt.Sprintf("%4d  %-20s", pc, mnemonicColor.Sprint(instr.Code.String()))
	if len(operands) > 0 {
		line += " " + operandColor.Sprint(strings.Join(filterEmpty(operands), " "))
	}
	return line
}

// Function renders every instruction in instrs, one per line, under a
// header line giving the function's name.
func Function[T any](name string, instrs []op.Instr[T]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "fn %s:\n", name)
	for pc, instr := range instrs {
		fmt.Fprintf(&b, "  %s\n", Instruction(pc, instr))
	}
	return b.String()
}

// Trace renders a fault's stack trace, innermost frame last and highlighted.
func Trace(trace errz.StackTrace) string {
	var b strings.Builder
	for i, f := range trace {
		line := fmt.Sprintf("    %s at instruction %d", f.Function, f.PC)
		if i == len(trace)-1 {
			line = faultColor.Sprint(line)
		} else {
			line = frameColor.Sprint(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func paramsString(params []int) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func filterEmpty(items []string) []string {
	out := items[:0]
	for _, s := range items {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
