package forge

import "github.com/tabular-agents/forge/observability"

// Forge event types emitted during the generation loop.
const (
	EventRunStart         observability.EventType = "forge.run.start"
	EventPlanComplete     observability.EventType = "forge.plan.complete"
	EventAttemptStart     observability.EventType = "forge.attempt.start"
	EventCandidate        observability.EventType = "forge.candidate.extracted"
	EventCandidateMissing observability.EventType = "forge.candidate.missing"
	EventExecutionFailure observability.EventType = "forge.execution.failure"
	EventVerdict          observability.EventType = "forge.verdict"
	EventCorrection       observability.EventType = "forge.correction"
	EventRunSuccess       observability.EventType = "forge.run.success"
	EventRunExhausted     observability.EventType = "forge.run.exhausted"
	EventRunFatal         observability.EventType = "forge.run.fatal"
)
