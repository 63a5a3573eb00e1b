// Package forge implements the bounded self-correction loop that turns a code
// oracle into a working data-extraction parser: plan an instruction from the
// target's fixture, generate a candidate, execute and validate it against the
// ground truth, and on failure feed structured evidence back into the next
// attempt, until the candidate passes, the attempt budget runs out, or a
// fatal error ends the session.
//
// The forge initializes from configuration via New, creating all subsystems
// internally. Functional options allow test overrides of any subsystem.
//
//	f, err := forge.New(&cfg)
//	result, err := f.Run(ctx, "icici")
package forge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tabular-agents/forge/analyze"
	"github.com/tabular-agents/forge/core/protocol"
	"github.com/tabular-agents/forge/executor"
	"github.com/tabular-agents/forge/fixture"
	"github.com/tabular-agents/forge/observability"
	"github.com/tabular-agents/forge/oracle"
	"github.com/tabular-agents/forge/session"
	"github.com/tabular-agents/forge/validate"
)

// Status is the terminal disposition of a run.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusExhausted Status = "exhausted"
	StatusFatal     Status = "fatal"
)

// Result holds the outcome of a Run invocation: the terminal status plus
// everything a caller needs to explain it, including the final candidate, the
// attempt count, the last verdict and failure category, and the full
// conversation history. The forge itself never prints or persists any of it.
type Result struct {
	Status    Status
	TargetID  string
	SessionID string
	// Candidate is the most recently generated program text. On
	// StatusSuccess it is the validated parser.
	Candidate string
	Attempts  int
	// Category classifies the last failure; empty on success.
	Category analyze.Category
	// Verdict is the last validation verdict, nil when no candidate ever
	// reached validation.
	Verdict *validate.Verdict
	History []protocol.Message
}

// phase enumerates the loop's state machine. Transitions are explicit in Run;
// there is no workflow graph to configure or traverse.
type phase int

const (
	phasePlanning phase = iota
	phaseGenerating
	phaseValidating
	phaseCorrecting
	phaseSucceeded
	phaseExhausted
)

func (p phase) String() string {
	switch p {
	case phasePlanning:
		return "planning"
	case phaseGenerating:
		return "generating"
	case phaseValidating:
		return "validating"
	case phaseCorrecting:
		return "correcting"
	case phaseSucceeded:
		return "succeeded"
	case phaseExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Option configures a Forge after config-driven initialization.
// Applied by New after cold start; overrides replace config-created defaults.
type Option func(*Forge)

// WithOracle overrides oracle selection entirely: the given oracle generates
// regardless of the registry contents.
func WithOracle(o oracle.Oracle) Option {
	return func(f *Forge) { f.oracle = o }
}

// WithRegistry overrides the config-created oracle registry. The generating
// oracle is still resolved by name from the replacement.
func WithRegistry(r *oracle.Registry) Option {
	return func(f *Forge) { f.registry = r }
}

// WithFixtures overrides the config-created fixture provider.
func WithFixtures(p fixture.Provider) Option {
	return func(f *Forge) { f.fixtures = p }
}

// WithExecutor overrides the config-created candidate executor.
func WithExecutor(e executor.Executor) Option {
	return func(f *Forge) { f.exec = e }
}

// WithObserver overrides the default SlogObserver.
func WithObserver(o observability.Observer) Option {
	return func(f *Forge) { f.observer = o }
}

// WithTolerance overrides the default numeric comparison tolerance.
func WithTolerance(tol validate.Tolerance) Option {
	return func(f *Forge) { f.tolerance = tol }
}

// Forge is the session runner that executes the generate/validate/correct loop.
type Forge struct {
	oracle      oracle.Oracle
	registry    *oracle.Registry
	fixtures    fixture.Provider
	exec        executor.Executor
	observer    observability.Observer
	tolerance   validate.Tolerance
	maxAttempts int
}

// DefaultOracleName is the registry name under which the primary oracle
// config section is registered.
const DefaultOracleName = "default"

// New creates a Forge from configuration. The primary oracle section is
// registered as "default" alongside every entry of the oracles section, and
// the generating oracle is resolved from the registry by cfg.OracleName.
// Fixtures and the executor are initialized from their config sections.
// Functional options applied after initialization can override any subsystem
// for testing.
func New(cfg *Config, opts ...Option) (*Forge, error) {
	registry := oracle.NewRegistry()
	if _, named := cfg.Oracles[DefaultOracleName]; !named {
		if err := registry.Register(DefaultOracleName, cfg.Oracle); err != nil {
			return nil, fmt.Errorf("failed to register oracle: %w", err)
		}
	}
	for name, ocfg := range cfg.Oracles {
		if err := registry.Register(name, ocfg); err != nil {
			return nil, fmt.Errorf("failed to register oracle %q: %w", name, err)
		}
	}

	f := &Forge{
		registry:    registry,
		fixtures:    fixture.NewFileProvider(cfg.FixtureRoot),
		exec:        executor.NewRunner(&cfg.Executor),
		observer:    observability.NewSlogObserver(slog.Default()),
		tolerance:   validate.DefaultTolerance(),
		maxAttempts: cfg.MaxAttempts,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.oracle == nil {
		name := cfg.OracleName
		if name == "" {
			name = DefaultOracleName
		}
		o, err := f.registry.Get(name)
		if err != nil {
			return nil, fmt.Errorf("failed to create oracle: %w", err)
		}
		f.oracle = o
	}

	return f, nil
}

// Registry returns the forge's oracle registry.
func (f *Forge) Registry() *oracle.Registry {
	return f.registry
}

// Run executes one generation session for the given target and returns its
// Result. Success returns a nil error; exhaustion returns the Result alongside
// ErrAttemptsExhausted; fatal conditions (fixture load failure, planning
// failure, cancellation) return immediately without consuming attempt budget
// beyond what was already spent.
//
// Attempts are strictly sequential, the conversation history grows
// monotonically, and no candidate fault (load error, raised exception,
// overrun) ever escapes the loop.
func (f *Forge) Run(ctx context.Context, targetID string) (*Result, error) {
	st := session.NewState(targetID, f.maxAttempts)

	f.emit(ctx, EventRunStart, observability.LevelInfo, map[string]any{
		"target":       targetID,
		"session":      st.ID(),
		"max_attempts": f.maxAttempts,
	})

	fx, err := f.fixtures.Load(ctx, targetID)
	if err != nil {
		return f.fatal(ctx, st, fmt.Errorf("%w: %s: %v", ErrFixtureLoad, targetID, err))
	}

	var pending analyze.Correction
	current := phasePlanning

	for {
		// Cancellation is honored between stages, never mid-execution.
		if err := ctx.Err(); err != nil {
			return f.fatal(ctx, st, fmt.Errorf("run cancelled in %s: %w", current, err))
		}

		switch current {
		case phasePlanning:
			instruction, err := planInstruction(fx)
			if err != nil {
				return f.fatal(ctx, st, fmt.Errorf("%w: %v", ErrPlanning, err))
			}
			st.Append(protocol.NewMessage(protocol.RoleUser, instruction))
			f.emit(ctx, EventPlanComplete, observability.LevelVerbose, map[string]any{
				"session": st.ID(),
			})
			current = phaseGenerating

		case phaseGenerating:
			attempt := st.NextAttempt()
			f.emit(ctx, EventAttemptStart, observability.LevelInfo, map[string]any{
				"session": st.ID(),
				"attempt": attempt,
			})

			raw, err := f.oracle.Generate(ctx, st.History())
			if err != nil {
				pending = analyze.NoCandidate(fmt.Sprintf("oracle call failed: %v", err))
				f.emit(ctx, EventCandidateMissing, observability.LevelWarning, map[string]any{
					"session": st.ID(),
					"attempt": attempt,
					"reason":  err.Error(),
				})
				current = phaseCorrecting
				continue
			}
			st.Append(protocol.NewMessage(protocol.RoleAssistant, raw))

			code, err := oracle.ExtractCandidate(raw)
			if err != nil {
				pending = analyze.NoCandidate("empty or unparsable response")
				f.emit(ctx, EventCandidateMissing, observability.LevelWarning, map[string]any{
					"session": st.ID(),
					"attempt": attempt,
				})
				current = phaseCorrecting
				continue
			}

			st.SetCandidate(code)
			f.emit(ctx, EventCandidate, observability.LevelVerbose, map[string]any{
				"session": st.ID(),
				"attempt": attempt,
				"bytes":   len(code),
			})
			current = phaseValidating

		case phaseValidating:
			table, failure := f.exec.Execute(ctx, st.Candidate(), fx.SampleInput)
			if failure != nil {
				pending = analyze.FromFailure(failure)
				f.emit(ctx, EventExecutionFailure, observability.LevelWarning, map[string]any{
					"session": st.ID(),
					"attempt": st.Attempts(),
					"kind":    string(failure.Kind),
					"message": failure.Message,
				})
				current = phaseCorrecting
				continue
			}

			verdict := validate.Compare(table, fx.Expected, f.tolerance)
			st.SetVerdict(&verdict)
			f.emit(ctx, EventVerdict, observability.LevelInfo, map[string]any{
				"session": st.ID(),
				"attempt": st.Attempts(),
				"pass":    verdict.Pass,
			})

			if verdict.Pass {
				current = phaseSucceeded
				continue
			}
			pending = analyze.FromVerdict(verdict)
			current = phaseCorrecting

		case phaseCorrecting:
			// The correction is appended even on the final attempt: the
			// history then documents why the session failed, and context
			// growth stays monotonic for every attempt.
			st.Append(protocol.NewMessage(protocol.RoleUser, pending.Instruction))
			f.emit(ctx, EventCorrection, observability.LevelVerbose, map[string]any{
				"session":  st.ID(),
				"attempt":  st.Attempts(),
				"category": string(pending.Category),
			})
			if st.Exhausted() {
				current = phaseExhausted
			} else {
				current = phaseGenerating
			}

		case phaseSucceeded:
			st.Close(session.Succeeded)
			f.emit(ctx, EventRunSuccess, observability.LevelInfo, map[string]any{
				"session":  st.ID(),
				"attempts": st.Attempts(),
			})
			return f.result(st, StatusSuccess, ""), nil

		case phaseExhausted:
			st.Close(session.Failed)
			f.emit(ctx, EventRunExhausted, observability.LevelWarning, map[string]any{
				"session":  st.ID(),
				"attempts": st.Attempts(),
				"category": string(pending.Category),
			})
			return f.result(st, StatusExhausted, pending.Category), ErrAttemptsExhausted
		}
	}
}

// fatal closes the session and reports an unrecoverable error to the caller.
func (f *Forge) fatal(ctx context.Context, st *session.State, err error) (*Result, error) {
	st.Close(session.Failed)
	f.emit(ctx, EventRunFatal, observability.LevelError, map[string]any{
		"session":  st.ID(),
		"attempts": st.Attempts(),
		"error":    err.Error(),
	})
	return f.result(st, StatusFatal, analyze.Unknown), err
}

func (f *Forge) result(st *session.State, status Status, category analyze.Category) *Result {
	return &Result{
		Status:    status,
		TargetID:  st.TargetID(),
		SessionID: st.ID(),
		Candidate: st.Candidate(),
		Attempts:  st.Attempts(),
		Category:  category,
		Verdict:   st.Verdict(),
		History:   st.History(),
	}
}

func (f *Forge) emit(ctx context.Context, typ observability.EventType, level observability.Level, data map[string]any) {
	f.observer.OnEvent(ctx, observability.Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "forge.Run",
		Data:      data,
	})
}
