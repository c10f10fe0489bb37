package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishFanOut(t *testing.T) {
	h := NewHub()
	a, cancelA := h.Subscribe()
	defer cancelA()
	b, cancelB := h.Subscribe()
	defer cancelB()
	require.Equal(t, 2, h.Len())

	n := h.Publish(Event{Type: SessionLoaded, UploadID: "u1", FileName: "transactions.txt"})
	assert.Equal(t, 2, n)

	for _, ch := range []<-chan Event{a, b} {
		ev := <-ch
		assert.Equal(t, SessionLoaded, ev.Type)
		assert.Equal(t, "u1", ev.UploadID)
		assert.False(t, ev.At.IsZero(), "publish stamps a time")
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe()
	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, h.Len())
	assert.Zero(t, h.Publish(Event{Type: SessionCleared}))
}

func TestHub_SlowSubscriberDropsEvents(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer; i++ {
		require.Equal(t, 1, h.Publish(Event{Type: SessionLoaded}))
	}
	assert.Zero(t, h.Publish(Event{Type: SessionCleared}), "full buffer must not block")
	assert.Len(t, ch, subscriberBuffer)
}

func TestHub_Close(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe()
	require.NoError(t, h.Err())

	h.Close()
	assert.ErrorIs(t, h.Err(), ErrClosed)
	h.Close()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	late, _ := h.Subscribe()
	_, open = <-late
	assert.False(t, open, "subscribing to a closed hub yields a closed channel")
	assert.Zero(t, h.Publish(Event{Type: SessionLoaded}))
}

func TestHub_Concurrent(t *testing.T) {
	h := NewHub()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, cancel := h.Subscribe()
			cancel()
		}()
		go func() {
			defer wg.Done()
			h.Publish(Event{Type: SessionLoaded})
		}()
	}
	wg.Wait()
	assert.Zero(t, h.Len())
}
