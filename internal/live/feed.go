// Package live provides a push-based observable value.
//
// A Feed keeps the latest published value and fans it out to subscribers.
// Every subscriber gets the current value right away, then each newer one.
// A subscriber that falls behind only sees the most recent value: values may
// be skipped, never reordered.
package live

import (
	"context"
	"sync"
)

// Feed is a latest-value broadcast. The zero value is not usable; use NewFeed.
type Feed[T any] struct {
	mu     sync.Mutex
	cur    T
	has    bool
	subs   map[chan T]struct{}
	done   chan struct{}
	closed bool
}

func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{
		subs: make(map[chan T]struct{}),
		done: make(chan struct{}),
	}
}

// Publish stores v as the current value and pushes it to every subscriber.
// It never blocks on slow subscribers.
func (f *Feed[T]) Publish(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.cur, f.has = v, true
	for ch := range f.subs {
		offer(ch, v)
	}
}

// Value returns the current value and whether anything was published yet.
func (f *Feed[T]) Value() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cur, f.has
}

// Subscribe returns a channel that receives the current value (if any) and
// every later one. The channel is closed when ctx ends or the feed closes.
func (f *Feed[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		close(ch)
		return ch
	}
	if f.has {
		ch <- f.cur
	}
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-f.done:
		}
		f.unsubscribe(ch)
	}()
	return ch
}

// Subscribers reports how many channels are currently attached.
func (f *Feed[T]) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// Close detaches and closes every subscriber channel. Later publishes are dropped.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for ch := range f.subs {
		delete(f.subs, ch)
		close(ch)
	}
	close(f.done)
}

func (f *Feed[T]) unsubscribe(ch chan T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subs[ch]; !ok {
		return
	}
	delete(f.subs, ch)
	close(ch)
}

// offer replaces a stale buffered value with v. Only Publish sends, under
// f.mu, so the final send always finds room.
func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
