package tm

import (
	"fmt"
	"io"
)

// Interpreter is the substrate's runtime state: two signed integer
// variables, one stack, and an error-handling mode. int64 holds a fully
// packed left half-tape with room to spare (spec §3: 9 base-128 digits
// plus a sign bit fit in 64 bits).
//
// The zero value has errors disabled; NewInterpreter starts with errors
// enabled, matching original_source/lib/src/stack.rs's StackMachine::new.
type Interpreter struct {
	Active        int64
	Inactive      int64
	Stack         []int64
	ErrorsEnabled bool
}

// NewInterpreter returns an Interpreter ready to run a program.
func NewInterpreter() *Interpreter {
	return &Interpreter{ErrorsEnabled: true}
}

// Run executes program in order against r and w. If/While recurse over
// their Body. Returns a non-nil error only when an I/O failure occurs with
// errors enabled, or a pop is attempted on an empty stack with errors
// enabled — the lowerer always disables errors first, so neither should
// occur for a lowered program run against well-formed input.
func (in *Interpreter) Run(program []Instruction, r io.Reader, w io.Writer) error {
	return in.execBlock(program, r, w)
}

func (in *Interpreter) execBlock(block []Instruction, r io.Reader, w io.Writer) error {
	for _, instr := range block {
		if err := in.execOne(instr, r, w); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) execOne(instr Instruction, r io.Reader, w io.Writer) error {
	switch instr.Op {
	case ReadByte:
		return in.readByte(r)
	case PrintChar:
		return in.printChar(w)
	case PrintState:
		return in.printState(w)
	case Incr:
		in.Active++
	case Decr:
		in.Active--
	case Save:
		in.Inactive = in.Active
	case Swap:
		in.Active, in.Inactive = in.Inactive, in.Active
	case PushZero:
		in.Stack = append(in.Stack, 0)
	case PushActive:
		in.Stack = append(in.Stack, in.Active)
	case PopActive:
		return in.popActive()
	case ToggleErrors:
		in.ErrorsEnabled = !in.ErrorsEnabled
	case If:
		if in.Active == in.Inactive {
			return in.execBlock(instr.Body, r, w)
		}
	case While:
		for in.Active > 0 {
			if err := in.execBlock(instr.Body, r, w); err != nil {
				return err
			}
		}
	case Comment:
		// zero-effect
	case InlineComment:
		return in.execOne(*instr.Inner, r, w)
	case DebugPrint:
		return in.debugPrint(w, instr)
	default:
		return fmt.Errorf("tm: unknown substrate op %d", instr.Op)
	}
	return nil
}

// readByte attempts exactly one 1-byte read. EOF (or any read of 0 bytes)
// leaves Active unchanged — lowered programs rely on this to terminate an
// EOF-bounded ingestion loop (spec §4.1).
func (in *Interpreter) readByte(r io.Reader) error {
	var buf [1]byte
	n, err := r.Read(buf[:])
	if n == 1 {
		in.Active = int64(buf[0])
		return nil
	}
	if err == nil || err == io.EOF {
		return nil
	}
	return in.ioFail(err)
}

// printChar emits the low byte of Active as a single output byte.
func (in *Interpreter) printChar(w io.Writer) error {
	if _, err := w.Write([]byte{byte(in.Active)}); err != nil {
		return in.ioFail(err)
	}
	return nil
}

// printState renders Active, Inactive, and the stack (top-first) — a
// direct port of stack.rs's write_stack, used by Emit-able DebugPrint and
// by the lowerer's own "PrintState" marker before the verdict check.
func (in *Interpreter) printState(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Active: %d\nInactive: %d\n-----\n", in.Active, in.Inactive); err != nil {
		return in.ioFail(err)
	}
	for i := len(in.Stack) - 1; i >= 0; i-- {
		if _, err := fmt.Fprintf(w, "- %d\n", in.Stack[i]); err != nil {
			return in.ioFail(err)
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return in.ioFail(err)
	}
	return nil
}

func (in *Interpreter) popActive() error {
	if n := len(in.Stack); n > 0 {
		in.Active = in.Stack[n-1]
		in.Stack = in.Stack[:n-1]
		return nil
	}
	if in.ErrorsEnabled {
		return ErrEmptyStackPop
	}
	in.Active = 0
	return nil
}

func (in *Interpreter) debugPrint(w io.Writer, instr Instruction) error {
	if _, err := fmt.Fprintf(w, "[DEBUG] %s\n", instr.Text); err != nil {
		return in.ioFail(err)
	}
	if instr.PrintStack {
		return in.printState(w)
	}
	return nil
}

// ioFail gates I/O error surfacing behind ErrorsEnabled (spec §7: "I/O
// errors follow the same gate" as the empty-stack pop). With errors
// disabled, a failed read/write is silently ignored.
func (in *Interpreter) ioFail(err error) error {
	if !in.ErrorsEnabled {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrIO, err)
}
