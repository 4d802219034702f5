package pubsub

import (
	"sync"
)

const defaultBuffer = 8

// PubSub fans out messages per topic. Each subscriber owns a buffered
// channel; a message is dropped for a subscriber whose buffer is full so a
// slow reader never blocks the publisher.
type PubSub[T any] struct {
	mu     sync.Mutex
	subs   map[string][]chan T
	buffer int
	closed bool
}

func NewPubSub[T any](buffer int) *PubSub[T] {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &PubSub[T]{
		subs:   make(map[string][]chan T),
		buffer: buffer,
	}
}

func (ps *PubSub[T]) Subscribe(topic string) <-chan T {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ch := make(chan T, ps.buffer)
	if ps.closed {
		close(ch)
		return ch
	}
	ps.subs[topic] = append(ps.subs[topic], ch)
	return ch
}

// Unsubscribe removes and closes the subscription ch of topic.
func (ps *PubSub[T]) Unsubscribe(topic string, ch <-chan T) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	subs := ps.subs[topic]
	for i, sub := range subs {
		if sub == ch {
			close(sub)
			ps.subs[topic] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(ps.subs[topic]) == 0 {
		delete(ps.subs, topic)
	}
}

// Publish sends data to every subscriber of topic and returns how many
// received it.
func (ps *PubSub[T]) Publish(topic string, data T) int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	delivered := 0
	for _, ch := range ps.subs[topic] {
		select {
		case ch <- data:
			delivered++
		default:
		}
	}
	return delivered
}

// Close closes every subscription. Later subscriptions are closed at once.
func (ps *PubSub[T]) Close() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for topic, subs := range ps.subs {
		for _, ch := range subs {
			close(ch)
		}
		delete(ps.subs, topic)
	}
	ps.closed = true
}
