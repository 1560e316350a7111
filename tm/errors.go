package tm

import (
	"errors"
	"fmt"
)

// Validator error kinds (spec §4.2). Each is returned as one of the typed
// error values below, whose Unwrap returns the matching sentinel, so callers
// can test kind with errors.Is while still getting the offending data in the
// message.
var (
	ErrInvalidStateID        = errors.New("invalid state ID")
	ErrDuplicateStateID      = errors.New("state ID defined multiple times")
	ErrNoInitialState        = errors.New("no state marked as initial")
	ErrMultipleInitialStates = errors.New("multiple states marked as initial")
	ErrUndefinedState        = errors.New("undefined state")
	ErrInvalidCharacter      = errors.New("invalid character")
)

// InvalidStateIDError reports a state whose id is 0.
type InvalidStateIDError struct{ ID StateId }

func (e *InvalidStateIDError) Error() string {
	return fmt.Sprintf("Invalid state ID: %d. Must be >=1.", e.ID)
}
func (e *InvalidStateIDError) Unwrap() error { return ErrInvalidStateID }

// DuplicateStateIDError reports a state id used by more than one state.
type DuplicateStateIDError struct{ ID StateId }

func (e *DuplicateStateIDError) Error() string {
	return fmt.Sprintf("State ID defined multiple times: %d", e.ID)
}
func (e *DuplicateStateIDError) Unwrap() error { return ErrDuplicateStateID }

// NoInitialStateError reports that no state in the program is initial.
type NoInitialStateError struct{}

func (e *NoInitialStateError) Error() string { return "No state marked as initial" }
func (e *NoInitialStateError) Unwrap() error { return ErrNoInitialState }

// MultipleInitialStatesError reports more than one initial state, in
// source order.
type MultipleInitialStatesError struct{ IDs []StateId }

func (e *MultipleInitialStatesError) Error() string {
	return fmt.Sprintf("Multiple states marked as initial: %v", e.IDs)
}
func (e *MultipleInitialStatesError) Unwrap() error { return ErrMultipleInitialStates }

// UndefinedStateError reports a transition whose NextState names no state
// in the program.
type UndefinedStateError struct{ ID StateId }

func (e *UndefinedStateError) Error() string {
	return fmt.Sprintf("Undefined state: %d", e.ID)
}
func (e *UndefinedStateError) Unwrap() error { return ErrUndefinedState }

// InvalidCharacterError reports a transition's match char, or an input
// byte, outside [1, 128).
type InvalidCharacterError struct{ Char Char }

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("Invalid character: %q", e.Char)
}
func (e *InvalidCharacterError) Unwrap() error { return ErrInvalidCharacter }

// Runtime error sentinels (spec §7). Both are returned only while substrate
// errors are enabled. The lowerer always disables errors first, and with
// errors disabled I/O failures are ignored as well, so a lowered program
// returns neither; they surface for programs built directly against the
// substrate (bypassing the lowerer) with errors left enabled.
var (
	ErrEmptyStackPop = errors.New("pop on empty stack")
	ErrIO            = errors.New("I/O error")
)
