package tm

// Op identifies a substrate instruction. Let A be the active variable, I
// the inactive variable, S the stack (top on the right) — see spec §3.
type Op int

const (
	// ReadByte: if input has a next byte b, A := b; else A is unchanged.
	ReadByte Op = iota
	// PrintChar emits the low byte of A to output.
	PrintChar
	// PrintState emits a human-readable dump of A, I, and S.
	PrintState
	// Incr: A := A + 1.
	Incr
	// Decr: A := A - 1.
	Decr
	// Save: I := A.
	Save
	// Swap swaps A and I.
	Swap
	// PushZero pushes 0.
	PushZero
	// PushActive pushes A.
	PushActive
	// PopActive pops into A, or fails/zeroes per the errors-enabled flag.
	PopActive
	// ToggleErrors flips the "errors enabled" flag.
	ToggleErrors
	// If runs Body iff A == I.
	If
	// While runs Body while A > 0 (re-tested at top).
	While
	// Comment is a standalone, zero-effect debug marker.
	Comment
	// InlineComment wraps Inner with a trailing comment; Inner still runs.
	InlineComment
	// DebugPrint writes Text (and, if PrintStack, the stack) for debugging.
	DebugPrint
)

// Instruction is one node of the substrate program tree. If/While recurse
// over Body; there is no program counter and no backward jump — control
// flow is purely structural, which is what makes the lowered program a
// finite tree rather than a graph.
type Instruction struct {
	Op Op

	// Body holds the nested instructions for If and While.
	Body []Instruction

	// Inner holds the wrapped instruction for InlineComment.
	Inner *Instruction

	// Text carries the message for Comment, InlineComment, and DebugPrint.
	Text string

	// PrintStack, when DebugPrint, also dumps A/I/S after Text.
	PrintStack bool
}

func mk(op Op) Instruction { return Instruction{Op: op} }

func ifBlock(body ...Instruction) Instruction  { return Instruction{Op: If, Body: body} }
func whileBlock(body ...Instruction) Instruction { return Instruction{Op: While, Body: body} }

func comment(text string) Instruction { return Instruction{Op: Comment, Text: text} }

func inlineComment(inner Instruction, text string) Instruction {
	return Instruction{Op: InlineComment, Inner: &inner, Text: text}
}

func debugPrint(text string, printStack bool) Instruction {
	return Instruction{Op: DebugPrint, Text: text, PrintStack: printStack}
}

// repeat returns n copies of a zero-arg instruction, used throughout the
// lowerer for "Incr the active var up to a constant" idioms (spec §4.4).
func repeat(op Op, n int) []Instruction {
	out := make([]Instruction, n)
	for i := range out {
		out[i] = mk(op)
	}
	return out
}
