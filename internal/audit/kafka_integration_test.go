//go:build integration

package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"assetgate/pkg/testutil/containers"
)

func TestKafkaSinkIntegration(t *testing.T) {
	rp := containers.NewRedpandaContainer(t)
	ctx := context.Background()

	sink, err := NewKafkaSink(ctx, []string{rp.Broker}, "assetgate.audit.test")
	require.NoError(t, err)
	t.Cleanup(sink.Close)

	want := Event{
		Timestamp:    time.Now().UTC().Truncate(time.Millisecond),
		Action:       ActionApproved,
		SubmissionID: "sub-42",
		FormKind:     "asset_tokenization",
		Actor:        "reviewer-1",
		Decision:     "approved",
	}
	require.NoError(t, sink.Append(ctx, want))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Broker),
		kgo.ConsumeTopics("assetgate.audit.test"),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, []byte("sub-42"), records[0].Key)

	var got Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, want, got)
}
