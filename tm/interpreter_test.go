package tm

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runInstrs(t *testing.T, instrs []Instruction, input string) *Interpreter {
	t.Helper()
	in := NewInterpreter()
	err := in.Run(instrs, strings.NewReader(input), &bytes.Buffer{})
	require.NoError(t, err)
	return in
}

func TestReadByte(t *testing.T) {
	in := runInstrs(t, []Instruction{mk(ReadByte)}, "wee")
	assert.EqualValues(t, 'w', in.Active)
}

func TestReadByteAtEOFLeavesActiveUnchanged(t *testing.T) {
	in := NewInterpreter()
	in.Active = 7
	require.NoError(t, in.Run([]Instruction{mk(ReadByte)}, strings.NewReader(""), &bytes.Buffer{}))
	assert.EqualValues(t, 7, in.Active)
}

func TestIncrDecr(t *testing.T) {
	in := runInstrs(t, []Instruction{mk(Incr), mk(Incr), mk(Decr)}, "")
	assert.EqualValues(t, 1, in.Active)
}

func TestSave(t *testing.T) {
	in := runInstrs(t, []Instruction{mk(Incr), mk(Save)}, "")
	assert.EqualValues(t, 1, in.Active)
	assert.EqualValues(t, 1, in.Inactive)
}

// Substrate invariant 1: after any instruction other than Swap and Save,
// Inactive is unchanged; after Swap, (Active, Inactive) swap (Save is
// covered by TestSave above).
func TestIncrLeavesInactiveAndSwapExchanges(t *testing.T) {
	in := runInstrs(t, []Instruction{mk(Incr), mk(Swap)}, "")
	assert.EqualValues(t, 0, in.Active)
	assert.EqualValues(t, 1, in.Inactive)
}

func TestPushZeroAndPushActive(t *testing.T) {
	in := runInstrs(t, []Instruction{mk(Incr), mk(PushActive), mk(PushZero)}, "")
	assert.Equal(t, []int64{1, 0}, in.Stack)
}

func TestPopActive(t *testing.T) {
	in := runInstrs(t, []Instruction{mk(Incr), mk(PushZero), mk(PopActive)}, "")
	assert.EqualValues(t, 0, in.Active)
	assert.Empty(t, in.Stack)
}

// Substrate invariant 3: with errors disabled, popping an empty stack sets
// Active to 0 and leaves the stack empty, rather than failing.
func TestPopActiveOnEmptyStackWithErrorsDisabled(t *testing.T) {
	in := NewInterpreter()
	in.Active = 5
	in.ErrorsEnabled = false
	require.NoError(t, in.Run([]Instruction{mk(PopActive)}, strings.NewReader(""), &bytes.Buffer{}))
	assert.EqualValues(t, 0, in.Active)
	assert.Empty(t, in.Stack)
}

func TestPopActiveOnEmptyStackWithErrorsEnabledFails(t *testing.T) {
	in := NewInterpreter()
	err := in.Run([]Instruction{mk(PopActive)}, strings.NewReader(""), &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyStackPop)
}

func TestIfRunsOnlyWhenActiveEqualsInactive(t *testing.T) {
	in := runInstrs(t, []Instruction{ifBlock(mk(Incr))}, "")
	assert.EqualValues(t, 1, in.Active)

	in = runInstrs(t, []Instruction{mk(Incr), ifBlock(mk(Incr))}, "")
	assert.EqualValues(t, 1, in.Active)
}

// Substrate invariant 2: While terminates iff its body eventually drives
// Active <= 0.
func TestWhileRunsUntilActiveIsNotPositive(t *testing.T) {
	in := runInstrs(t, []Instruction{
		mk(Incr), mk(Incr), mk(Incr),
		whileBlock(mk(PushActive), mk(Decr)),
	}, "")
	assert.EqualValues(t, 0, in.Active)
	assert.Equal(t, []int64{3, 2, 1}, in.Stack)
}

func TestPrintChar(t *testing.T) {
	in := NewInterpreter()
	var buf bytes.Buffer
	in.Active = 'A'
	require.NoError(t, in.Run([]Instruction{mk(PrintChar)}, strings.NewReader(""), &buf))
	assert.Equal(t, "A", buf.String())
}

func TestCommentIsZeroEffect(t *testing.T) {
	in := runInstrs(t, []Instruction{comment("hello")}, "")
	assert.EqualValues(t, 0, in.Active)
	assert.EqualValues(t, 0, in.Inactive)
	assert.Empty(t, in.Stack)
}

func TestInlineCommentStillRunsWrappedInstruction(t *testing.T) {
	in := runInstrs(t, []Instruction{inlineComment(mk(Incr), "bump")}, "")
	assert.EqualValues(t, 1, in.Active)
}

// Substrate invariant 4: identical input and program yield identical runs.
func TestDeterministic(t *testing.T) {
	prog := []Instruction{
		mk(ReadByte), mk(PushActive), mk(ReadByte), mk(PushActive),
		whileBlock(mk(Decr)),
	}
	a := runInstrs(t, prog, "xy")
	b := runInstrs(t, prog, "xy")
	assert.Equal(t, a.Active, b.Active)
	assert.Equal(t, a.Stack, b.Stack)
}

func TestIOErrorsRespectErrorsEnabledGate(t *testing.T) {
	failing := failingWriter{}

	in := NewInterpreter()
	err := in.Run([]Instruction{mk(PrintChar)}, strings.NewReader(""), failing)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)

	in = NewInterpreter()
	in.ErrorsEnabled = false
	err = in.Run([]Instruction{mk(PrintChar)}, strings.NewReader(""), failing)
	assert.NoError(t, err)
}

var errWriteFailed = errors.New("write failed")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errWriteFailed
}
