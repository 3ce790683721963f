package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bagstore/internal/domain/apperr"
	"github.com/your-org/bagstore/internal/domain/order"
	"github.com/your-org/bagstore/internal/domain/outbox"
	"github.com/your-org/bagstore/internal/pkg/logger"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type fakeUpdater struct {
	mu    sync.Mutex
	calls []order.Status
	err   error
}

func (u *fakeUpdater) UpdateStatus(_ context.Context, orderID uint, status order.Status, _ string) (*order.Order, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = append(u.calls, status)
	if u.err != nil {
		return nil, u.err
	}
	return &order.Order{ID: orderID, Status: status}, nil
}

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	for {
		r.mu.Lock()
		if len(r.queue) > 0 {
			msg := r.queue[0]
			r.queue = r.queue[1:]
			r.mu.Unlock()
			return msg, nil
		}
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return kafka.Message{}, ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func TestNewClient(t *testing.T) {
	c := NewClient([]string{" k1:9092", "", "k2:9092 "})
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Brokers)
	assert.True(t, c.Enabled())
	assert.False(t, NewClient(nil).Enabled())
}

func TestPublisherWritesMessage(t *testing.T) {
	w := &fakeWriter{}
	p := NewPublisher(w)

	err := p.Publish(context.Background(), outbox.Message{
		EventID:   "e-1",
		EventType: outbox.EventOrderCreated,
		Topic:     "orders.events",
		Key:       "42",
		Payload:   []byte(`{"order_id":42}`),
	})
	require.NoError(t, err)
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "orders.events", msg.Topic)
	assert.Equal(t, "42", string(msg.Key))
	assert.JSONEq(t, `{"order_id":42}`, string(msg.Value))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, outbox.EventOrderCreated, string(msg.Headers[0].Value))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublisherWrapsWriteError(t *testing.T) {
	p := NewPublisher(&fakeWriter{err: errors.New("no leader")})

	err := p.Publish(context.Background(), outbox.Message{EventType: "x", Topic: "t"})
	assert.ErrorContains(t, err, "no leader")
}

func TestHandleMessage(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		updaterErr error
		wantCalls  int
		wantPoison bool
		wantErr    bool
	}{
		{"applied", `{"order_id":1,"status":"sent"}`, nil, 1, false, false},
		{"malformed json", `{`, nil, 0, true, true},
		{"unknown status", `{"order_id":1,"status":"lost"}`, nil, 0, true, true},
		{"missing order", `{"status":"sent"}`, nil, 0, true, true},
		{"illegal transition", `{"order_id":1,"status":"new"}`, apperr.ErrInvalidTransition, 1, true, true},
		{"unknown order", `{"order_id":9,"status":"sent"}`, apperr.ErrNotFound, 1, true, true},
		{"database down", `{"order_id":1,"status":"sent"}`, errors.New("connection refused"), 1, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updater := &fakeUpdater{err: tt.updaterErr}
			c := NewFulfillmentConsumer(&fakeReader{}, updater, logger.Discard(), nil)

			err := c.HandleMessage(context.Background(), kafka.Message{Value: []byte(tt.value)})
			assert.Len(t, updater.calls, tt.wantCalls)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantPoison, errors.Is(err, errPoison))
		})
	}
}

func TestRunCommitsAppliedAndPoisonMessages(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{
		{Offset: 1, Value: []byte(`{"order_id":1,"status":"sent"}`)},
		{Offset: 2, Value: []byte(`not json`)},
	}}
	updater := &fakeUpdater{}
	c := NewFulfillmentConsumer(reader, updater, logger.Discard(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return len(reader.commits()) == 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, []int64{1, 2}, reader.commits())
}

func TestRunLeavesTransientFailuresUncommitted(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{
		{Offset: 1, Value: []byte(`{"order_id":1,"status":"sent"}`)},
	}}
	updater := &fakeUpdater{err: errors.New("connection refused")}
	c := NewFulfillmentConsumer(reader, updater, logger.Discard(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		updater.mu.Lock()
		defer updater.mu.Unlock()
		return len(updater.calls) == 1
	}, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Empty(t, reader.commits())
}
