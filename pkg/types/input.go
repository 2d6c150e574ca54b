package types

import (
	"fmt"
	"strings"
)

// InputFileSource selects which files a processor in a pipeline receives.
type InputFileSource int

const (
	// OriginalFile hands the processor the file that matched.
	OriginalFile InputFileSource = iota
	// PreviousOutput hands it the files the previous stage produced.
	PreviousOutput
	// ParentInput hands it exactly what its enclosing pipeline received.
	ParentInput
)

var inputSourceNames = map[InputFileSource]string{
	OriginalFile:   "original",
	PreviousOutput: "previous",
	ParentInput:    "parent",
}

func (s InputFileSource) String() string {
	if name, ok := inputSourceNames[s]; ok {
		return name
	}
	return fmt.Sprintf("InputFileSource(%d)", int(s))
}

// ParseInputFileSource accepts "original", "previous" or "parent".
func ParseInputFileSource(s string) (InputFileSource, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	if needle == "" {
		return OriginalFile, nil
	}
	for k, v := range inputSourceNames {
		if v == needle {
			return k, nil
		}
	}
	return OriginalFile, fmt.Errorf("unknown input source %q (want original, previous or parent)", s)
}

// ProducesFiles declares whether a processor writes new files.
type ProducesFiles int

const (
	ProducesNever ProducesFiles = iota
	ProducesSometimes
	ProducesAlways
)

func (p ProducesFiles) String() string {
	switch p {
	case ProducesNever:
		return "never"
	case ProducesSometimes:
		return "sometimes"
	default:
		return "always"
	}
}

// Target says which file list a processor should act on.
type Target int

const (
	TargetOriginal Target = iota
	TargetGenerated
)

// ProcessInput is everything a processor gets for one matched (or tested) file.
type ProcessInput struct {
	OriginalFile   string
	Match          MatchResult
	Values         []string
	GeneratedFiles []string
	Target         Target
}

// NewProcessInput builds the input the engine hands a top-level pipeline.
func NewProcessInput(file string, match MatchResult, values []string) ProcessInput {
	if values == nil {
		values = []string{}
	}
	return ProcessInput{
		OriginalFile:   file,
		Match:          match,
		Values:         values,
		GeneratedFiles: []string{},
		Target:         TargetOriginal,
	}
}

// Files returns the file list the input targets.
func (in ProcessInput) Files() []string {
	if in.Target == TargetGenerated {
		return in.GeneratedFiles
	}
	return []string{in.OriginalFile}
}

// Resolve derives the input for a pipeline stage whose policy is source.
// parent is what the enclosing pipeline received; previous is the output of
// the stage before (empty for the first stage).
func (in ProcessInput) Resolve(source InputFileSource, previous []string) ProcessInput {
	if previous == nil {
		previous = []string{}
	}
	out := in
	switch source {
	case OriginalFile:
		out.Target = TargetOriginal
		out.GeneratedFiles = previous
	case PreviousOutput:
		out.Target = TargetGenerated
		out.GeneratedFiles = previous
	case ParentInput:
		// as received
	}
	return out
}
