package tm

import (
	"sort"

	"github.com/hashicorp/go-multierror"
)

// ValidProgram is a witness that a Program has passed Validate. The zero
// value is not usable; the only way to construct one is Validate, which
// mirrors original_source's Valid<T> wrapper (validate.rs) using Go's
// unexported-field idiom instead of Rust's privacy.
type ValidProgram struct {
	program Program
}

// Program returns the validated program. Safe to call on any ValidProgram
// returned by Validate.
func (v ValidProgram) Program() Program { return v.program }

// Validate checks the structural invariants from spec §4.2, reported as six
// error kinds (invariant 3 yields either NoInitialState or
// MultipleInitialStates), Go's encoding:
//
//  1. every state id is >= 1
//  2. every state id is unique
//  3. exactly one state has Initial == true
//  4. every transition's NextState names a state in the program
//  5. every transition's MatchChar is in [1, 128)
//
// All violations are accumulated (never short-circuited) into a
// *multierror.Error; Validate returns a zero ValidProgram and that error
// when non-empty, or a usable ValidProgram and nil error when the program
// is well-formed.
func Validate(p Program) (ValidProgram, error) {
	var errs *multierror.Error

	counts := make(map[StateId]int, len(p.States))
	ids := make(map[StateId]struct{}, len(p.States))
	for _, s := range p.States {
		counts[s.ID]++
		ids[s.ID] = struct{}{}
	}

	var duplicateIDs []StateId
	for id, n := range counts {
		if n > 1 {
			duplicateIDs = append(duplicateIDs, id)
		}
	}
	// Deterministic order makes test assertions and CLI output stable.
	sort.Slice(duplicateIDs, func(i, j int) bool { return duplicateIDs[i] < duplicateIDs[j] })
	for _, id := range duplicateIDs {
		errs = multierror.Append(errs, &DuplicateStateIDError{ID: id})
	}

	var initialIDs []StateId
	for _, s := range p.States {
		if s.ID == 0 {
			errs = multierror.Append(errs, &InvalidStateIDError{ID: s.ID})
		}
		if s.Initial {
			initialIDs = append(initialIDs, s.ID)
		}
		for _, t := range s.Transitions {
			if t.MatchChar == 0 || t.MatchChar >= AlphabetSize {
				errs = multierror.Append(errs, &InvalidCharacterError{Char: t.MatchChar})
			}
			if _, ok := ids[t.NextState]; !ok {
				errs = multierror.Append(errs, &UndefinedStateError{ID: t.NextState})
			}
		}
	}

	switch len(initialIDs) {
	case 0:
		errs = multierror.Append(errs, &NoInitialStateError{})
	case 1:
		// exactly one, nothing to report
	default:
		errs = multierror.Append(errs, &MultipleInitialStatesError{IDs: initialIDs})
	}

	if errs.ErrorOrNil() != nil {
		return ValidProgram{}, errs.ErrorOrNil()
	}
	return ValidProgram{program: p}, nil
}
