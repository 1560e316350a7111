package tm

import (
	"bytes"
	"io"

	"github.com/hashicorp/go-multierror"
)

// CompiledTM is a Turing machine lowered onto the substrate, ready to run
// against input. It proves the substrate's Turing-completeness by
// construction: everything it does reduces to the 16 substrate ops (see Op).
type CompiledTM struct {
	program []Instruction
}

// Compile validates p and lowers it onto the substrate. Validation errors
// are returned accumulated, per §4.2.
func Compile(p Program) (*CompiledTM, error) {
	vp, err := Validate(p)
	if err != nil {
		return nil, err
	}
	return &CompiledTM{program: Lower(vp)}, nil
}

// Run validates input (each byte must be in [1, 127]) and then executes the
// compiled program against it, writing the substrate's output to out. The
// caller supplies input pre-reversed: the true leftmost tape character must
// be the last byte of input (§4.3).
func (c *CompiledTM) Run(input string, out io.Writer) error {
	var errs *multierror.Error
	for _, b := range []byte(input) {
		if b == 0 || b >= AlphabetSize {
			errs = multierror.Append(errs, &InvalidCharacterError{Char: b})
		}
	}
	if errs.ErrorOrNil() != nil {
		return errs.ErrorOrNil()
	}

	in := NewInterpreter()
	return in.Run(c.program, bytes.NewReader([]byte(input)), out)
}

// RunString runs the machine and returns everything written to output as a
// string, for callers that want the verdict without wiring up an io.Writer.
func (c *CompiledTM) RunString(input string) (string, error) {
	var buf bytes.Buffer
	if err := c.Run(input, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Emit renders the compiled substrate program as plain text, for debugging.
func (c *CompiledTM) Emit() string {
	return Emit(c.program)
}

// Accepted reports whether output ends with the ACCEPT verdict. Per §6, only
// the suffix of the output stream is contractual — everything before it is
// debug material.
func Accepted(output string) bool {
	return hasSuffixTrimmed(output, "ACCEPT")
}

// Rejected reports whether output ends with the REJECT verdict.
func Rejected(output string) bool {
	return hasSuffixTrimmed(output, "REJECT")
}

func hasSuffixTrimmed(s, suffix string) bool {
	trimmed := s
	for len(trimmed) > 0 && (trimmed[len(trimmed)-1] == '\n' || trimmed[len(trimmed)-1] == '\r' || trimmed[len(trimmed)-1] == ' ') {
		trimmed = trimmed[:len(trimmed)-1]
	}
	if len(trimmed) < len(suffix) {
		return false
	}
	return trimmed[len(trimmed)-len(suffix):] == suffix
}
