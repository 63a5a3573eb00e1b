// Package analyze turns a failed attempt — an execution failure or a failing
// verdict — into a correction instruction for the next generation attempt.
// Instructions always cite concrete evidence (the missing columns, a sample of
// mismatched cells, the interpreter's error line) so each retry is strictly
// more informed than the last.
package analyze

import (
	"fmt"
	"strings"

	"github.com/tabular-agents/forge/executor"
	"github.com/tabular-agents/forge/validate"
)

// Category classifies why an attempt failed.
type Category string

const (
	Syntax         Category = "syntax"
	Runtime        Category = "runtime"
	SchemaMismatch Category = "schema_mismatch"
	ValueMismatch  Category = "value_mismatch"
	Timeout        Category = "timeout"
	Unknown        Category = "unknown"
)

// Correction is the analyzer's output: a category plus the instruction text to
// append to the conversation before the next generation attempt.
type Correction struct {
	Category    Category
	Instruction string
}

// Cell mismatches quoted verbatim in an instruction before eliding the rest.
const maxCellExamples = 5

// FromFailure classifies an execution failure. Load failures (which include
// interpreter syntax errors) map to Syntax, entry point violations to
// SchemaMismatch, raised exceptions to Runtime, and budget overruns to
// Timeout.
func FromFailure(f *executor.Failure) Correction {
	switch f.Kind {
	case executor.LoadError:
		return Correction{
			Category: Syntax,
			Instruction: fmt.Sprintf(
				"The previous parser failed to load: %s. Fix the error and return the complete corrected program.",
				f.Message),
		}
	case executor.SignatureError:
		return Correction{
			Category: SchemaMismatch,
			Instruction: fmt.Sprintf(
				"The previous parser violated the entry point contract: %s. "+
					"The program must define parse(input_path) returning the tabular result.",
				f.Message),
		}
	case executor.Timeout:
		return Correction{
			Category: Timeout,
			Instruction: fmt.Sprintf(
				"The previous parser did not finish in time: %s. "+
					"Remove unbounded loops or blocking calls and return a faster implementation.",
				f.Message),
		}
	case executor.RuntimeError:
		return Correction{
			Category: Runtime,
			Instruction: fmt.Sprintf(
				"The previous parser raised while running: %s. Fix the error and return the complete corrected program.",
				f.Message),
		}
	default:
		return Correction{
			Category:    Unknown,
			Instruction: fmt.Sprintf("The previous attempt failed: %s. Return a corrected program.", f.Message),
		}
	}
}

// FromVerdict classifies a failing validation verdict. A structural delta maps
// to SchemaMismatch, a cell-only delta to ValueMismatch.
func FromVerdict(v validate.Verdict) Correction {
	if v.Delta == nil {
		return Correction{
			Category:    Unknown,
			Instruction: "The previous attempt failed validation without diagnostic detail. Return a corrected program.",
		}
	}

	evidence := v.Delta.Describe(maxCellExamples)
	switch v.Delta.Kind {
	case validate.KindStructural:
		return Correction{
			Category: SchemaMismatch,
			Instruction: fmt.Sprintf(
				"The parser's output structure is wrong: %s Produce exactly the expected columns in order, "+
					"with one row per input record, and no invented columns.",
				evidence),
		}
	case validate.KindCell:
		return Correction{
			Category: ValueMismatch,
			Instruction: fmt.Sprintf(
				"The parser's output structure is correct but some values are wrong: %s "+
					"Check field extraction and numeric parsing for the columns listed above.",
				evidence),
		}
	default:
		return Correction{
			Category:    Unknown,
			Instruction: strings.TrimSpace("The previous attempt failed validation. " + evidence),
		}
	}
}

// NoCandidate handles an oracle response from which no program could be
// extracted. It consumes an attempt like any other failure.
func NoCandidate(reason string) Correction {
	instruction := "Your previous response contained no program. " +
		"Reply with the complete parser source inside a single fenced code block."
	if reason != "" {
		instruction = fmt.Sprintf("Your previous response contained no program (%s). ", reason) +
			"Reply with the complete parser source inside a single fenced code block."
	}
	return Correction{Category: Unknown, Instruction: instruction}
}
