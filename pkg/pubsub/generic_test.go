package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubSub_PublishToSubscribers(t *testing.T) {
	ps := NewPubSub[int](1)
	a := ps.Subscribe("standings")
	b := ps.Subscribe("standings")
	other := ps.Subscribe("other")

	assert.Equal(t, 2, ps.Publish("standings", 2023))
	assert.Equal(t, 2023, <-a)
	assert.Equal(t, 2023, <-b)
	assert.Empty(t, other)
}

func TestPubSub_FullBufferDrops(t *testing.T) {
	ps := NewPubSub[string](1)
	ch := ps.Subscribe("t")

	assert.Equal(t, 1, ps.Publish("t", "first"))
	assert.Equal(t, 0, ps.Publish("t", "second"))
	assert.Equal(t, "first", <-ch)
}

func TestPubSub_Unsubscribe(t *testing.T) {
	ps := NewPubSub[int](0)
	ch := ps.Subscribe("t")

	ps.Unsubscribe("t", ch)

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, ps.Publish("t", 1))
}

func TestPubSub_Close(t *testing.T) {
	ps := NewPubSub[int](0)
	ch := ps.Subscribe("t")

	ps.Close()

	_, open := <-ch
	require.False(t, open)

	late := ps.Subscribe("t")
	_, open = <-late
	assert.False(t, open)
}
