package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from a channel and persists them to the real
// sink. It keeps background processing testable without wiring queue
// implementations into the engine.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Append(ctx, event); err != nil {
				// Audit persistence must not take the engine down; log and
				// keep draining.
				w.logger.ErrorContext(ctx, "audit append failed",
					"action", event.Action,
					"submission_id", event.SubmissionID,
					"error", err,
				)
			}
		}
	}
}
