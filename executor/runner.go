package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/tabular-agents/forge/core/tabular"
)

// Exit codes emitted by the entry point harness. Any other nonzero exit is
// treated as a runtime failure.
const (
	exitLoad      = 3
	exitSignature = 4
	exitRuntime   = 5
)

// harnessSource loads the candidate as a module, resolves the parse(input_path)
// entry point, invokes it, and writes the result to stdout as CSV. Exit codes
// distinguish load, signature, and runtime failures so the runner can classify
// without parsing tracebacks.
const harnessSource = `import csv, importlib.util, sys

EXIT_LOAD, EXIT_SIGNATURE, EXIT_RUNTIME = 3, 4, 5

def fail(code, message):
    print(message, file=sys.stderr)
    sys.exit(code)

def main():
    mod_path, input_path = sys.argv[1], sys.argv[2]
    try:
        spec = importlib.util.spec_from_file_location("candidate", mod_path)
        module = importlib.util.module_from_spec(spec)
        spec.loader.exec_module(module)
    except BaseException as exc:
        fail(EXIT_LOAD, "%s: %s" % (type(exc).__name__, exc))
    parse = getattr(module, "parse", None)
    if not callable(parse):
        fail(EXIT_SIGNATURE, "candidate does not define a callable parse(input_path)")
    try:
        result = parse(input_path)
    except BaseException as exc:
        fail(EXIT_RUNTIME, "%s: %s" % (type(exc).__name__, exc))
    writer = csv.writer(sys.stdout)
    if hasattr(result, "columns") and hasattr(result, "itertuples"):
        writer.writerow(list(result.columns))
        for row in result.itertuples(index=False):
            writer.writerow(list(row))
    elif isinstance(result, list):
        if result and not isinstance(result[0], dict):
            fail(EXIT_SIGNATURE, "parse() must return a DataFrame or a list of dicts")
        if result:
            columns = list(result[0].keys())
            writer.writerow(columns)
            for item in result:
                writer.writerow([item.get(c, "") for c in columns])
    else:
        fail(EXIT_SIGNATURE, "parse() must return a DataFrame or a list of dicts")

main()
`

// Runner executes candidates in a subprocess under a configurable interpreter
// with a wall-clock budget. With UseHarness set (the default for python
// candidates) the candidate is loaded through the entry point harness;
// without it the candidate file itself is the interpreter's script argument,
// which keeps the runner testable with plain shell scripts.
type Runner struct {
	Interpreter []string
	Timeout     time.Duration
	UseHarness  bool

	// StderrLimit bounds how much captured stderr is folded into failure
	// messages. Zero means the default.
	StderrLimit int
}

const defaultStderrLimit = 2048

// NewRunner creates a Runner from configuration.
func NewRunner(cfg *Config) *Runner {
	return &Runner{
		Interpreter: cfg.Interpreter,
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		UseHarness:  true,
	}
}

// Execute writes the candidate to a scratch directory, runs it against
// inputPath, and parses its stdout as a CSV table. All candidate misbehavior
// is folded into the returned Failure.
func (r *Runner) Execute(ctx context.Context, candidate, inputPath string) (*tabular.Table, *Failure) {
	if len(r.Interpreter) == 0 {
		return nil, &Failure{Kind: LoadError, Message: "no interpreter configured"}
	}

	dir, err := os.MkdirTemp("", "forge-candidate-*")
	if err != nil {
		return nil, &Failure{Kind: LoadError, Message: fmt.Sprintf("scratch dir: %v", err)}
	}
	defer os.RemoveAll(dir)

	candidatePath := filepath.Join(dir, "candidate.py")
	if err := os.WriteFile(candidatePath, []byte(candidate), 0o644); err != nil {
		return nil, &Failure{Kind: LoadError, Message: fmt.Sprintf("write candidate: %v", err)}
	}

	args := append([]string{}, r.Interpreter[1:]...)
	if r.UseHarness {
		harnessPath := filepath.Join(dir, "harness.py")
		if err := os.WriteFile(harnessPath, []byte(harnessSource), 0o644); err != nil {
			return nil, &Failure{Kind: LoadError, Message: fmt.Sprintf("write harness: %v", err)}
		}
		args = append(args, harnessPath, candidatePath, inputPath)
	} else {
		args = append(args, candidatePath, inputPath)
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if r.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, r.Interpreter[0], args...)
	cmd.Dir = dir
	// Bounds Wait when a killed candidate leaves children holding the pipes.
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return nil, &Failure{
			Kind:    Timeout,
			Message: fmt.Sprintf("candidate exceeded the %s execution budget", r.Timeout),
		}
	}
	if err != nil {
		return nil, r.classify(err, &stderr)
	}

	// A clean exit with no output is an extraction that found nothing. That
	// is an empty table, not a contract violation: validation reports the
	// missing columns and rows as a structural delta.
	if len(bytes.TrimSpace(stdout.Bytes())) == 0 {
		return &tabular.Table{}, nil
	}

	table, parseErr := tabular.FromCSV(&stdout)
	if parseErr != nil {
		return nil, &Failure{
			Kind:    SignatureError,
			Message: fmt.Sprintf("candidate did not produce a tabular result: %v", parseErr),
		}
	}
	return table, nil
}

func (r *Runner) classify(err error, stderr *bytes.Buffer) *Failure {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		// The process never started: missing interpreter, permission problems.
		return &Failure{Kind: LoadError, Message: err.Error()}
	}

	kind := RuntimeError
	switch exitErr.ExitCode() {
	case exitLoad:
		kind = LoadError
	case exitSignature:
		kind = SignatureError
	case exitRuntime:
		kind = RuntimeError
	}

	msg := r.stderrTail(stderr)
	if msg == "" {
		msg = fmt.Sprintf("candidate exited with code %d", exitErr.ExitCode())
	}
	return &Failure{Kind: kind, Message: msg}
}

// stderrTail returns the trailing portion of captured stderr, which for
// interpreter failures carries the most specific line of the traceback.
func (r *Runner) stderrTail(stderr *bytes.Buffer) string {
	limit := r.StderrLimit
	if limit <= 0 {
		limit = defaultStderrLimit
	}
	s := strings.TrimSpace(stderr.String())
	if len(s) > limit {
		s = "..." + s[len(s)-limit:]
	}
	return s
}
