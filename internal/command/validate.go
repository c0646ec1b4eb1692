package command

import (
	"fmt"
	"slices"
)

// minVectorLen is the smallest viable command: program, overwrite
// flag, input marker, input path, output path.
const minVectorLen = 5

// Validate runs the shallow structural check over an assembled vector.
// It never inspects file existence or codec validity; a nil return
// means the vector is structurally sound enough to hand to ffmpeg.
func Validate(args []string, program string) error {
	if len(args) == 0 {
		return &ValidationError{Reason: "command is empty"}
	}
	if program == "" {
		program = Program
	}
	if args[0] != program {
		return &ValidationError{Reason: fmt.Sprintf("command must start with %q", program)}
	}
	if !slices.Contains(args, "-i") {
		return &ValidationError{Reason: "no input files specified"}
	}
	if len(args) < minVectorLen {
		return &ValidationError{Reason: "no output file specified"}
	}
	return nil
}
