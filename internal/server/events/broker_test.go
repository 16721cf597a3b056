package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (r *recorder) Send(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func newTestBroker() *Broker {
	logger := zerolog.Nop()
	return NewBroker(&logger)
}

func TestBrokerFanOut(t *testing.T) {
	b := newTestBroker()
	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return fixed }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	r1, r2 := &recorder{}, &recorder{}
	b.Subscribe(r1)
	b.Subscribe(r2)
	require.Eventually(t, func() bool { return b.SubscriberCount() == 2 }, time.Second, 5*time.Millisecond)

	b.Publish(TicketRotated, TicketRotation{AppID: "cli_1"})

	for _, r := range []*recorder{r1, r2} {
		require.Eventually(t, func() bool { return len(r.Events()) == 1 }, time.Second, 5*time.Millisecond)
		got := r.Events()[0]
		assert.Equal(t, TicketRotated, got.Type)
		assert.Equal(t, fixed, got.Timestamp.Time)
		assert.Equal(t, TicketRotation{AppID: "cli_1"}, got.Data)
	}
}

func TestBrokerSubscribeBeforeRun(t *testing.T) {
	b := newTestBroker()

	done := make(chan struct{})
	go func() {
		b.Subscribe(&recorder{})
		b.Subscribe(&recorder{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Subscribe blocked before Run")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)
	assert.Eventually(t, func() bool { return b.SubscriberCount() == 2 }, time.Second, 5*time.Millisecond)
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := newTestBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	r := &recorder{}
	b.Subscribe(r)
	require.Eventually(t, func() bool { return b.SubscriberCount() == 1 }, time.Second, 5*time.Millisecond)

	b.Unsubscribe(r)
	require.Eventually(t, func() bool { return b.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, r.Closed())
}

func TestBrokerShutdownClosesSubscribers(t *testing.T) {
	b := newTestBroker()
	ctx, cancel := context.WithCancel(context.Background())
	go b.Run(ctx)

	r := &recorder{}
	b.Subscribe(r)
	require.Eventually(t, func() bool { return b.SubscriberCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.Eventually(t, func() bool { return b.SubscriberCount() == 0 && r.Closed() }, time.Second, 5*time.Millisecond)
}

func TestBrokerPublishDropsWhenFull(t *testing.T) {
	b := newTestBroker()
	// Run is never started, so the queue fills up
	for range cap(b.events) + 5 {
		b.Publish(AuthIssued, nil)
	}
	assert.Len(t, b.events, cap(b.events))
}
