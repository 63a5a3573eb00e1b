// Package executor loads and runs candidate parser programs against a sample
// input, in a subprocess so a faulty candidate shares no state with the
// control loop. Every way a candidate can fail (refusing to load, exposing
// the wrong entry point, raising at runtime, exceeding the wall-clock budget)
// is captured as a Failure value; nothing a candidate does can crash or hang
// the caller.
package executor

import (
	"context"
	"fmt"

	"github.com/tabular-agents/forge/core/tabular"
)

// Kind classifies an execution failure.
type Kind string

const (
	// LoadError means the candidate could not be loaded at all: the process
	// failed to start or the program failed to import (syntax errors land here).
	LoadError Kind = "load_error"
	// SignatureError means the candidate loaded but does not honor the entry
	// point contract: no callable parse(input_path), or a result that is not
	// tabular.
	SignatureError Kind = "signature_error"
	// RuntimeError means the entry point raised while running.
	RuntimeError Kind = "runtime_error"
	// Timeout means the candidate exceeded the wall-clock execution budget.
	Timeout Kind = "timeout"
)

// Failure is the structured record of a failed execution.
type Failure struct {
	Kind    Kind
	Message string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Executor runs a candidate program against a sample input and returns either
// its tabular result or a Failure. Implementations must never panic or block
// past their execution budget on account of candidate behavior.
type Executor interface {
	Execute(ctx context.Context, candidate, inputPath string) (*tabular.Table, *Failure)
}

// Config holds executor initialization parameters.
type Config struct {
	// Interpreter is the command prefix used to run candidates,
	// e.g. ["python3"].
	Interpreter []string `json:"interpreter,omitempty"`
	// TimeoutSeconds is the wall-clock execution budget per run.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
}

const defaultTimeoutSeconds = 60

// DefaultConfig returns the default executor configuration: python3 with a
// 60 second budget, matching the candidate entry point contract.
func DefaultConfig() Config {
	return Config{
		Interpreter:    []string{"python3"},
		TimeoutSeconds: defaultTimeoutSeconds,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if len(source.Interpreter) > 0 {
		c.Interpreter = source.Interpreter
	}
	if source.TimeoutSeconds > 0 {
		c.TimeoutSeconds = source.TimeoutSeconds
	}
}
