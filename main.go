// Command tmvm compiles a declarative Turing machine description onto the
// tm package's substrate and either runs it against a tape or emits the
// compiled substrate program as text.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"tmvm/internal/obslog"
	"tmvm/tm"
)

// wireProgram is the JSON shape of a machine description (§6): a single
// top-level "states" field. Decoding lives here, at the CLI boundary, and
// never inside the tm package.
type wireProgram struct {
	States []wireState `json:"states"`
}

type wireState struct {
	ID          int              `json:"id"`
	Initial     bool             `json:"initial"`
	Accepting   bool             `json:"accepting"`
	Transitions []wireTransition `json:"transitions"`
}

type wireTransition struct {
	MatchChar       json.RawMessage `json:"match_char"`
	TapeInstruction wireTapeInstr   `json:"tape_instruction"`
	NextState       int             `json:"next_state"`
}

type wireTapeInstr struct {
	Type string          `json:"type"`
	Char json.RawMessage `json:"char,omitempty"`
}

// decodeProgram reads and converts a machine description document into a
// tm.Program (C6). match_char and the Write instruction's char payload may
// be encoded either as a JSON number or a single-character JSON string.
func decodeProgram(r []byte) (tm.Program, error) {
	var w wireProgram
	if err := json.Unmarshal(r, &w); err != nil {
		return tm.Program{}, fmt.Errorf("decode machine description: %w", err)
	}

	p := tm.Program{States: make([]tm.State, len(w.States))}
	for i, ws := range w.States {
		transitions := make([]tm.Transition, len(ws.Transitions))
		for j, wt := range ws.Transitions {
			matchChar, err := decodeChar(wt.MatchChar)
			if err != nil {
				return tm.Program{}, fmt.Errorf("state %d transition %d: match_char: %w", ws.ID, j, err)
			}
			ti, err := decodeTapeInstruction(wt.TapeInstruction)
			if err != nil {
				return tm.Program{}, fmt.Errorf("state %d transition %d: %w", ws.ID, j, err)
			}
			transitions[j] = tm.Transition{
				MatchChar:       matchChar,
				TapeInstruction: ti,
				NextState:       tm.StateId(wt.NextState),
			}
		}
		p.States[i] = tm.State{
			ID:          tm.StateId(ws.ID),
			Initial:     ws.Initial,
			Accepting:   ws.Accepting,
			Transitions: transitions,
		}
	}
	return p, nil
}

func decodeChar(raw json.RawMessage) (tm.Char, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if len(asString) != 1 {
			return 0, fmt.Errorf("expected a single character, got %q", asString)
		}
		return tm.Char(asString[0]), nil
	}
	var asInt int
	if err := json.Unmarshal(raw, &asInt); err != nil {
		return 0, fmt.Errorf("expected a character or integer: %w", err)
	}
	return tm.Char(asInt), nil
}

func decodeTapeInstruction(wt wireTapeInstr) (tm.TapeInstruction, error) {
	switch wt.Type {
	case "Left":
		return tm.Left(), nil
	case "Right":
		return tm.Right(), nil
	case "Write":
		c, err := decodeChar(wt.Char)
		if err != nil {
			return tm.TapeInstruction{}, fmt.Errorf("write char: %w", err)
		}
		return tm.Write(c), nil
	default:
		return tm.TapeInstruction{}, fmt.Errorf("unknown tape instruction type %q", wt.Type)
	}
}

func printErrors(msg string, err error) {
	fmt.Fprintln(os.Stderr, msg)
	fmt.Fprintln(os.Stderr, err)
}

func loadProgram(path string) (tm.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tm.Program{}, fmt.Errorf("read %s: %w", path, err)
	}
	return decodeProgram(data)
}

func runCommand(args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	tape := fs.String("tape", "", "tape string to run against")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: tmvm run -tape <string> <description-file>")
		return 2
	}
	inputFile := fs.Arg(0)

	obslog.Info("loading machine description", "file", inputFile)
	p, err := loadProgram(inputFile)
	if err != nil {
		printErrors("Error(s) in machine description:", err)
		return 1
	}

	compiled, err := tm.Compile(p)
	if err != nil {
		printErrors("Error(s) compiling machine:", err)
		return 1
	}

	obslog.Info("running machine", "tape", *tape)
	if err := compiled.Run(*tape, os.Stdout); err != nil {
		printErrors("Error(s) in tape input:", err)
		return 1
	}
	return 0
}

func compileCommand(args []string) int {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	input := fs.String("input", "", "machine description file")
	output := fs.String("output", "", "output file for the emitted substrate program")
	fs.Parse(args)

	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "usage: tmvm compile -input <description-file> -output <emitted-file>")
		return 2
	}

	obslog.Info("loading machine description", "file", *input)
	p, err := loadProgram(*input)
	if err != nil {
		printErrors("Error(s) in machine description:", err)
		return 1
	}

	compiled, err := tm.Compile(p)
	if err != nil {
		printErrors("Error(s) compiling machine:", err)
		return 1
	}

	if err := os.WriteFile(*output, []byte(compiled.Emit()), 0o644); err != nil {
		printErrors("Error(s) writing output:", err)
		return 1
	}
	return 0
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: tmvm <run|compile> ...")
		os.Exit(2)
	}

	var code int
	switch os.Args[1] {
	case "run":
		code = runCommand(os.Args[2:])
	case "compile":
		code = compileCommand(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q; expected run or compile\n", os.Args[1])
		code = 2
	}
	os.Exit(code)
}
