package catalogsync

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-catalog-sync/internal/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chanReader feeds queued messages then blocks until the context ends.
type chanReader struct {
	msgs      chan kafka.Message
	mu        sync.Mutex
	committed []int64
}

func (r *chanReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *chanReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *chanReader) Close() error { return nil }

func (r *chanReader) offsets() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func TestCommandListenerRunsAndCommits(t *testing.T) {
	reader := &chanReader{msgs: make(chan kafka.Message, 3)}
	reader.msgs <- kafka.Message{Offset: 1, Value: []byte(`{"resource":"products","mode":"resync"}`)}
	reader.msgs <- kafka.Message{Offset: 2, Value: []byte(`not json`)}
	reader.msgs <- kafka.Message{Offset: 3, Value: []byte(`{"resource":"categories","requested_by":"ops"}`)}

	runner := &stubRunner{}
	l := NewCommandListener(reader, runner, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(reader.offsets()) == 3 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, []int64{1, 2, 3}, reader.offsets())
	got := runner.requests()
	require.Len(t, got, 2)
	assert.Equal(t, Request{Resource: "products", Mode: "resync", RequestedBy: "kafka"}, got[0])
	assert.Equal(t, "ops", got[1].RequestedBy)
}
