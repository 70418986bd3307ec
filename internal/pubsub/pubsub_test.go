package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBrokerPublishesToAllSubscribers(t *testing.T) {
	b := NewBroker[string]()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := b.Subscribe(ctx)
	c := b.Subscribe(ctx)
	require.Equal(t, 2, b.SubscriberCount())

	b.Publish(UpdatedEvent, "items.db")
	for _, ch := range []<-chan Event[string]{a, c} {
		evt := <-ch
		require.Equal(t, UpdatedEvent, evt.Type)
		require.Equal(t, "items.db", evt.Payload)
	}
}

func TestBrokerUnsubscribesOnCancel(t *testing.T) {
	b := NewBroker[int]()
	ctx, cancel := context.WithCancel(context.Background())
	ch := b.Subscribe(ctx)
	cancel()

	select {
	case _, ok := <-ch:
		require.False(t, ok, "channel should be closed")
	case <-time.After(time.Second):
		require.Fail(t, "subscription was not closed")
	}
	require.Equal(t, 0, b.SubscriberCount())
}

func TestBrokerShutdown(t *testing.T) {
	b := NewBroker[int]()
	ch := b.Subscribe(context.Background())
	b.Shutdown()
	b.Shutdown()

	_, ok := <-ch
	require.False(t, ok)
	b.Publish(UpdatedEvent, 1)

	late := b.Subscribe(context.Background())
	_, ok = <-late
	require.False(t, ok, "subscribing after shutdown yields a closed channel")
}

func TestBrokerDropsWhenSubscriberIsFull(t *testing.T) {
	b := NewBroker[int]()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := b.Subscribe(ctx)

	for i := 0; i < bufferSize+10; i++ {
		b.Publish(UpdatedEvent, i)
	}
	require.Len(t, ch, bufferSize)
}

func TestBrokerShutdownReleasesBackgroundSubscriptions(t *testing.T) {
	b := NewBroker[int]()
	for i := 0; i < 3; i++ {
		b.Subscribe(context.Background())
	}

	done := make(chan struct{})
	go func() {
		b.Shutdown()
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "subscription goroutines still running after shutdown")
	}
}
