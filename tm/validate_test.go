package tm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneState(s State) Program {
	return Program{States: []State{s}}
}

func TestValidateAcceptsWellFormedProgram(t *testing.T) {
	p := oneState(State{ID: 1, Initial: true, Accepting: true})
	vp, err := Validate(p)
	require.NoError(t, err)
	assert.Equal(t, p, vp.Program())
}

func TestValidateInvalidStateID(t *testing.T) {
	_, err := Validate(oneState(State{ID: 0, Initial: true, Accepting: true}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidStateID)
	assert.Contains(t, err.Error(), "Invalid state ID: 0")
}

func TestValidateDuplicateStateID(t *testing.T) {
	p := Program{States: []State{
		{ID: 1, Initial: true, Accepting: true},
		{ID: 1, Initial: false, Accepting: false},
	}}
	_, err := Validate(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateStateID)
	assert.Contains(t, err.Error(), "State ID defined multiple times: 1")
}

func TestValidateNoInitialState(t *testing.T) {
	_, err := Validate(oneState(State{ID: 1, Accepting: true}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoInitialState)
	assert.Contains(t, err.Error(), "No state marked as initial")
}

func TestValidateMultipleInitialStates(t *testing.T) {
	p := Program{States: []State{
		{ID: 1, Initial: true, Accepting: true},
		{ID: 2, Initial: true, Accepting: true},
	}}
	_, err := Validate(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMultipleInitialStates)
	assert.Contains(t, err.Error(), "Multiple states marked as initial")
}

func TestValidateUndefinedNextState(t *testing.T) {
	p := oneState(State{
		ID:      1,
		Initial: true,
		Transitions: []Transition{
			{MatchChar: 'a', TapeInstruction: Left(), NextState: 2},
		},
	})
	_, err := Validate(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUndefinedState)
	assert.Contains(t, err.Error(), "Undefined state: 2")
}

func TestValidateCharacterOutOfRange(t *testing.T) {
	p := oneState(State{
		ID:      1,
		Initial: true,
		Transitions: []Transition{
			{MatchChar: 0, TapeInstruction: Left(), NextState: 1},
		},
	})
	_, err := Validate(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCharacter)

	p = oneState(State{
		ID:      1,
		Initial: true,
		Transitions: []Transition{
			{MatchChar: 128, TapeInstruction: Left(), NextState: 1},
		},
	})
	_, err = Validate(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCharacter)
}

// Validator errors must accumulate, not short-circuit.
func TestValidateAccumulatesMultipleErrors(t *testing.T) {
	p := Program{States: []State{
		{ID: 0, Initial: false, Accepting: false},
	}}
	_, err := Validate(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidStateID)
	assert.ErrorIs(t, err, ErrNoInitialState)
}
