package observability

import "context"

// NoOpObserver discards all events. Embedders that want a silent run (tests,
// callers doing their own reporting from the Result) pass it via WithObserver.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}
