package tm

import (
	"fmt"
	"strings"
)

// Emit renders program as tab-indented text: If/While become bracketed
// blocks, Comment/InlineComment render as "// " suffixed lines, and every
// other instruction renders by its Op name. This is a direct port of
// original_source/lib/src/stack.rs's fmt_indented/fmt_nested — for humans
// only, no parser reads this format back.
func Emit(program []Instruction) string {
	var b strings.Builder
	for _, instr := range program {
		writeIndented(&b, instr, 0)
		b.WriteByte('\n')
	}
	return b.String()
}

func writeIndents(b *strings.Builder, n int) {
	for i := 0; i < n; i++ {
		b.WriteByte('\t')
	}
}

func writeIndented(b *strings.Builder, instr Instruction, indents int) {
	writeIndents(b, indents)
	switch instr.Op {
	case If:
		writeNested(b, "If", instr.Body, indents)
	case While:
		writeNested(b, "While", instr.Body, indents)
	case Comment:
		fmt.Fprintf(b, "// %s", instr.Text)
	case InlineComment:
		writeInstructionInline(b, *instr.Inner)
		fmt.Fprintf(b, " // %s", instr.Text)
	default:
		b.WriteString(opName(instr))
	}
}

// writeInstructionInline renders instr with no leading indentation, for use
// immediately after an already-written prefix (InlineComment's wrapped op).
func writeInstructionInline(b *strings.Builder, instr Instruction) {
	switch instr.Op {
	case If:
		writeNested(b, "If", instr.Body, 0)
	case While:
		writeNested(b, "While", instr.Body, 0)
	case Comment:
		fmt.Fprintf(b, "// %s", instr.Text)
	default:
		b.WriteString(opName(instr))
	}
}

func writeNested(b *strings.Builder, label string, body []Instruction, indents int) {
	fmt.Fprintf(b, "%s {\n", label)
	for _, instr := range body {
		writeIndented(b, instr, indents+1)
		b.WriteByte('\n')
	}
	writeIndents(b, indents)
	b.WriteByte('}')
}

// opName returns the debug-style name for a leaf instruction, mirroring the
// Rust enum's derived Debug output that fmt_indented falls back to for every
// variant it doesn't special-case.
func opName(instr Instruction) string {
	switch instr.Op {
	case ReadByte:
		return "ReadByte"
	case PrintChar:
		return "PrintChar"
	case PrintState:
		return "PrintState"
	case Incr:
		return "Incr"
	case Decr:
		return "Decr"
	case Save:
		return "Save"
	case Swap:
		return "Swap"
	case PushZero:
		return "PushZero"
	case PushActive:
		return "PushActive"
	case PopActive:
		return "PopActive"
	case ToggleErrors:
		return "ToggleErrors"
	case DebugPrint:
		if instr.PrintStack {
			return fmt.Sprintf("DebugPrint(%q, true)", instr.Text)
		}
		return fmt.Sprintf("DebugPrint(%q, false)", instr.Text)
	default:
		return fmt.Sprintf("Op(%d)", instr.Op)
	}
}
