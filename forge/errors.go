package forge

import "errors"

// Sentinel errors returned by Run. Fixture and planning failures are fatal:
// they escape immediately without consuming attempt budget. Exhaustion is
// terminal but carries a full Result for diagnosis.
var (
	ErrAttemptsExhausted = errors.New("attempt budget exhausted")
	ErrFixtureLoad       = errors.New("fixture load failed")
	ErrPlanning          = errors.New("planning failed")
)
