package live

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func TestFeed_SubscribeReceivesCurrentValue(t *testing.T) {
	f := NewFeed[int]()
	f.Publish(7)

	ch := f.Subscribe(context.Background())
	assert.Equal(t, 7, recv(t, ch))
}

func TestFeed_NoValueBeforeFirstPublish(t *testing.T) {
	f := NewFeed[string]()
	ch := f.Subscribe(context.Background())

	select {
	case v := <-ch:
		t.Fatalf("unexpected value %q", v)
	default:
	}

	f.Publish("a")
	assert.Equal(t, "a", recv(t, ch))
}

func TestFeed_SlowSubscriberSeesLatestOnly(t *testing.T) {
	f := NewFeed[int]()
	ch := f.Subscribe(context.Background())

	for i := 1; i <= 5; i++ {
		f.Publish(i)
	}

	assert.Equal(t, 5, recv(t, ch))
	select {
	case v := <-ch:
		t.Fatalf("unexpected extra value %d", v)
	default:
	}
}

func TestFeed_CancelClosesChannel(t *testing.T) {
	f := NewFeed[int]()
	ctx, cancel := context.WithCancel(context.Background())
	ch := f.Subscribe(ctx)
	require.Equal(t, 1, f.Subscribers())

	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
	assert.Eventually(t, func() bool { return f.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
}

func TestFeed_CloseClosesAllAndDropsPublishes(t *testing.T) {
	f := NewFeed[int]()
	a := f.Subscribe(context.Background())
	b := f.Subscribe(context.Background())

	f.Close()
	f.Publish(1)

	for _, ch := range []<-chan int{a, b} {
		_, ok := <-ch
		assert.False(t, ok)
	}

	late := f.Subscribe(context.Background())
	_, ok := <-late
	assert.False(t, ok)
}
