package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPublisher(t *testing.T) {
	t.Run("stamps missing timestamps", func(t *testing.T) {
		sink := NewMemorySink()
		pub := NewPublisher(sink)

		err := pub.Emit(context.Background(), Event{
			Action:       ActionCommitted,
			SubmissionID: "sub-1",
			FormKind:     "financing_application",
		})
		require.NoError(t, err)

		events := sink.Events()
		require.Len(t, events, 1)
		require.False(t, events[0].Timestamp.IsZero())
	})

	t.Run("preserves explicit timestamps", func(t *testing.T) {
		sink := NewMemorySink()
		pub := NewPublisher(sink)
		at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

		err := pub.Emit(context.Background(), Event{Timestamp: at, Action: ActionApproved})
		require.NoError(t, err)
		require.Equal(t, at, sink.Events()[0].Timestamp)
	})
}

func TestWorkerDrainsChannel(t *testing.T) {
	inbox := make(chan Event, 4)
	sink := NewMemorySink()
	worker := NewWorker(sink, inbox, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(ctx)
	}()

	pub := NewPublisher(NewChannelSink(inbox))
	for i := 0; i < 3; i++ {
		require.NoError(t, pub.Emit(ctx, Event{Action: ActionRejected, SubmissionID: "sub-1"}))
	}

	require.Eventually(t, func() bool {
		return len(sink.Events()) == 3
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestChannelSinkRespectsCancellation(t *testing.T) {
	inbox := make(chan Event) // unbuffered, nobody draining
	sink := NewChannelSink(inbox)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sink.Append(ctx, Event{Action: ActionCommitted})
	require.ErrorIs(t, err, context.Canceled)
}
