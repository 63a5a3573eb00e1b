package observability

import (
	"context"
	"log/slog"
)

// SlogObserver writes generation-loop events to a slog.Logger: the event type
// ("forge.verdict", "forge.run.exhausted", ...) becomes the log message, the
// level maps via SlogLevel, and Data keys (session, attempt, category) are
// flattened as top-level slog attributes.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver creates a SlogObserver that emits to the given logger. It is
// the observer a Forge starts with before any option replaces it.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnEvent(ctx context.Context, event Event) {
	attrs := make([]slog.Attr, 0, len(event.Data)+1)
	attrs = append(attrs, slog.String("source", event.Source))
	for k, v := range event.Data {
		attrs = append(attrs, slog.Any(k, v))
	}

	o.logger.LogAttrs(ctx, event.Level.SlogLevel(), string(event.Type), attrs...)
}
