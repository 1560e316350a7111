package tm

import (
	"fmt"
	"sort"
)

// Lower compiles a validated program into a flat substrate program. The
// general strategy — encoding the right half of the tape plus the head char
// directly on the stack, and the left half as a single packed integer
// carried through the active/inactive variables — is a structural port of
// original_source/lib/src/compile.rs; see spec §4.4 for the full account of
// why each idiom is shaped the way it is.
//
// Throughout a dispatch iteration:
//
//	var_a: current (desired) state id, or free
//	var_i: 0
//	- LT (packed left tape)
//	- head char
//	- ...right tape
func Lower(vp ValidProgram) []Instruction {
	p := vp.Program()

	var initial *State
	for i := range p.States {
		if p.States[i].Initial {
			initial = &p.States[i]
			break
		}
	}
	// Validate guarantees exactly one initial state.

	states := make([]State, len(p.States))
	copy(states, p.States)
	sort.Slice(states, func(i, j int) bool { return states[i].ID < states[j].ID })

	out := make([]Instruction, 0, 256)
	out = append(out, lowerPrelude(*initial)...)
	out = append(out, lowerMainLoop(states)...)
	out = append(out, lowerPostlude()...)
	return out
}

// lowerPrelude disables errors, reads the (pre-reversed) input onto the
// stack, seeds the initial left tape, and sets var_a to the initial state
// id.
func lowerPrelude(initial State) []Instruction {
	out := []Instruction{
		inlineComment(mk(ToggleErrors), "Disable errors"),
		comment("Read input onto stack (in reverse)"),
		mk(ReadByte),
		whileBlock(mk(PushActive), mk(PushZero), mk(PopActive), mk(ReadByte)),
		mk(PushZero), // initial left tape = 0
		comment("Set initial state"),
	}
	out = append(out, repeat(Incr, int(initial.ID))...)
	return out
}

// lowerMainLoop emits the body that dispatches to the current state each
// iteration, then pops the next state id off the stack into var_a.
func lowerMainLoop(states []State) []Instruction {
	body := make([]Instruction, 0, 64)
	prev := StateId(0)
	for _, s := range states {
		// One Decr per unused id below s.ID keeps the countdown aligned with
		// state ids rather than block positions when ids have gaps.
		body = append(body, repeat(Decr, int(s.ID-prev-1))...)
		body = append(body, lowerState(s)...)
		prev = s.ID
	}
	body = append(body, mk(PopActive))
	return []Instruction{
		comment("Main loop"),
		whileBlock(body...),
	}
}

// lowerState compiles a single state's countdown-dispatched block.
//
// Input:  var_a = state counter, var_i = 0, S = [LT, H, ...R]
// If it matches (var_a counts down to 0):
//
//	var_a = 0, var_i = 0, S = [next state, LT, H, ...R]
//
// If it doesn't match, state is left unchanged.
func lowerState(s State) []Instruction {
	unpack := []Instruction{
		mk(PopActive), // var_a := LT
		mk(Swap),       // var_i := LT
		mk(PopActive),  // var_a := H
		mk(Swap),       // var_a := LT, var_i := H
		mk(PushActive), // re-push LT
		mk(PushZero),
		mk(PopActive), // var_a := 0
	}

	body := make([]Instruction, 0, 64)
	body = append(body, unpack...)
	body = append(body, lowerTransitions(s.Transitions)...)
	body = append(body, lowerHalt(s.Accepting)...)

	return []Instruction{
		comment(fmt.Sprintf("Check state %d", s.ID)),
		mk(Decr),
		ifBlock(body...),
	}
}

// lowerTransitions sweeps the full alphabet, matching the head char (held in
// var_i) against each declared transition in ascending character order.
//
// Input:  var_a = 0, var_i = head char, S = [LT, ...R]
// If a transition fires: var_a free, var_i = -1, S = [next state, LT, H, ...R]
// If none fire: var_a = AlphabetSize, var_i = head char, S = [LT, ...R]
func lowerTransitions(transitions []Transition) []Instruction {
	byChar := make(map[Char]Transition, len(transitions))
	for _, t := range transitions {
		byChar[t.MatchChar] = t
	}

	out := make([]Instruction, 0, AlphabetSize*2)
	for c := 0; c < AlphabetSize; c++ {
		if t, ok := byChar[Char(c)]; ok {
			out = append(out, ifBlock(lowerTransition(t)...))
		}
		out = append(out, mk(Incr))
	}
	return out
}

// lowerTransition compiles one matched transition: apply its tape
// instruction, repack the tape encoding, then push the next state id.
//
// Input:  var_a = transition char counter, var_i = head char, S = [LT, ...R]
// Output: var_a = 0, var_i = -1, S = [next state, LT', H', ...R]
func lowerTransition(t Transition) []Instruction {
	out := []Instruction{
		mk(PopActive), // pop LT
		mk(Swap),
		mk(PushActive), // push head char; var_i := LT
	}
	out = append(out, lowerTapeInstruction(t.TapeInstruction)...)
	out = append(out,
		mk(Swap), // push new LT back on the stack
		mk(PushActive),
		mk(PushZero),
		mk(PopActive), // reset both vars to 0
		mk(Save),
	)
	out = append(out, comment(fmt.Sprintf("Set next state %d", t.NextState)))
	out = append(out, repeat(Incr, int(t.NextState))...)
	out = append(out,
		mk(PushActive),
		mk(PushZero),
		mk(PopActive),
		mk(Decr),
		mk(Swap),
	)
	return out
}

// lowerTapeInstruction applies a Left/Right/Write tape action.
//
// Input:  var_a free, var_i = LT, S = [H, ...R]
// Output: var_a free, var_i = LT' (modified), S = [H', ...R] (modified)
func lowerTapeInstruction(ti TapeInstruction) []Instruction {
	switch ti.Kind {
	case TapeWrite:
		return lowerWrite(ti.WriteChar)
	case TapeRight:
		return lowerShiftRight()
	case TapeLeft:
		return lowerShiftLeft()
	default:
		panic("tm: unknown tape instruction kind")
	}
}

func lowerWrite(c Char) []Instruction {
	out := []Instruction{
		mk(PopActive), // pop old head char
		mk(PushZero),
		mk(PopActive), // reset to 0
	}
	out = append(out, repeat(Incr, int(c))...)
	out = append(out, mk(PushActive))
	return out
}

// lowerShiftLeft divides the left tape by AlphabetSize via repeated
// subtraction, overshooting by one to detect the remainder, then undoes the
// overshoot. LT is biased by +1 before the loop so the loop always
// overshoots, including when the low digit is 0 (or LT itself is 0); the
// add-back of AlphabetSize-1 removes that bias again. See spec §4.4.7 for
// the arithmetic derivation.
func lowerShiftLeft() []Instruction {
	out := []Instruction{
		comment("Move left"),
		mk(PushZero),
		mk(PopActive),
		mk(Swap),
		mk(Incr),
		whileBlock(append(repeat(Decr, AlphabetSize), mk(Swap), mk(Incr), mk(Swap))...),
	}
	out = append(out, repeat(Incr, AlphabetSize-1)...)
	out = append(out,
		mk(PushActive),
		mk(Swap),
		mk(Decr),
		mk(Swap),
	)
	return out
}

// lowerShiftRight multiplies the left tape by AlphabetSize (repeated
// addition of a saved copy of LT), then adds the old head char into the
// freed low digit. See spec §4.4.7.
func lowerShiftRight() []Instruction {
	out := []Instruction{
		comment("Move right"),
		mk(Swap),
		mk(Save),       // var_i := LT, the first of AlphabetSize copies
		mk(PushActive), // save LT_orig on the stack
	}
	addLoop := whileBlock(mk(Decr), mk(Swap), mk(Incr), mk(Swap))
	for i := 0; i < AlphabetSize-1; i++ {
		out = append(out, addLoop, mk(PopActive), mk(PushActive))
	}
	out = append(out,
		comment("Add old head to left tape"),
		mk(PopActive), // discard LT_orig
		mk(PopActive), // old head char
		whileBlock(mk(Decr), mk(Swap), mk(Incr), mk(Swap)),
	)
	return out
}

// lowerHalt handles the case where no transition matched the head char: it
// detects fall-through via the "shift and increment once" sentinel trick and
// pushes the HALT verdict (0 for ACCEPT, -1 for REJECT) as the next state.
//
// Input, if a transition fired: var_a free, var_i = -1, S = [next, LT, H, ...R]
// Input, if none fired: var_a = AlphabetSize, var_i = H, S = [LT, ...R]
// Output (either way): var_a = 0, var_i = 0, S = [next, LT, H, ...R]
func lowerHalt(accepting bool) []Instruction {
	verdict := []Instruction{
		comment("Push 0 for ACCEPT"),
		mk(PushZero),
	}
	if !accepting {
		verdict = []Instruction{
			comment("Push -1 for REJECT"),
			mk(Decr),
			mk(PushActive),
			mk(Incr),
		}
	}

	rebuild := []Instruction{
		mk(Decr), // undo the guard Incr
		mk(Swap),
		mk(PopActive), // pop LT
		mk(Swap),
		mk(PushActive), // push head char
		mk(Swap),
		mk(PushActive), // push LT
		mk(PushZero),
		mk(PopActive),
		mk(Save),
	}
	rebuild = append(rebuild, verdict...)

	return []Instruction{
		mk(Swap),
		mk(Incr), // in case head char == 0
		comment("HALT transition check - this While is really an If>0"),
		whileBlock(rebuild...),
		mk(Save),
	}
}

// lowerPostlude checks the final HALT verdict (var_a == 0 for ACCEPT,
// var_a == -1 for REJECT) and prints the matching string. PrintState and the
// DebugPrint marker are harmless noise kept for parity with the reference
// lowering; Emit shows them, and the end-to-end contract only checks the
// output's suffix.
func lowerPostlude() []Instruction {
	out := []Instruction{
		mk(PrintState),
		debugPrint("Checking result", false),
	}
	out = append(out, ifBlock(printString("ACCEPT")...))
	out = append(out, mk(Incr))
	out = append(out, ifBlock(printString("REJECT")...))
	return out
}

// printString lowers "emit s followed by a newline" by, for each character,
// zeroing var_a, incrementing it up to the character's code point, and
// emitting it.
func printString(s string) []Instruction {
	out := []Instruction{comment("Print '" + s + "'")}
	for _, c := range s + "\n" {
		out = append(out, repeat(Incr, int(c))...)
		out = append(out, mk(PrintChar), mk(PushZero), mk(PopActive))
	}
	return out
}
