package eventlog

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/stacktrace/internal/cards"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("ev-%d", n)
	}
}

func TestAppend(t *testing.T) {
	clock := quartz.NewMock(t)
	start := time.Date(2024, 3, 9, 21, 15, 0, 0, time.UTC)
	clock.Set(start)

	log := New(WithClock(clock), WithIDGenerator(sequentialIDs()))

	first := log.Append(cards.Two, "")
	clock.Advance(3 * time.Second)
	second := log.Append(cards.Ace, "High")

	assert.Equal(t, "ev-1", first.ID)
	assert.Equal(t, start, first.Timestamp)
	assert.Equal(t, cards.Two, first.Rank)
	assert.Empty(t, first.Label)

	assert.Equal(t, "ev-2", second.ID)
	assert.Equal(t, start.Add(3*time.Second), second.Timestamp)
	assert.Equal(t, "High", second.Label)

	events := log.Events()
	require.Len(t, events, 2)
	assert.Equal(t, []Event{first, second}, events)
	assert.Equal(t, 2, log.Len())

	last, ok := log.Last()
	require.True(t, ok)
	assert.Equal(t, second, last)
}

func TestDefaultIDsAreUnique(t *testing.T) {
	log := New()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ev := log.Append(cards.Five, "")
		require.NotEmpty(t, ev.ID)
		require.False(t, seen[ev.ID], "duplicate id %s", ev.ID)
		seen[ev.ID] = true
	}
}

func TestUndo(t *testing.T) {
	t.Run("removes matching tail", func(t *testing.T) {
		log := New(WithIDGenerator(sequentialIDs()))
		first := log.Append(cards.Two, "")
		before := log.Events()

		ev := log.Append(cards.Ace, "")
		assert.True(t, log.Undo(ev.ID))
		assert.Equal(t, before, log.Events())

		last, ok := log.Last()
		require.True(t, ok)
		assert.Equal(t, first, last)
	})

	t.Run("ignores stale id", func(t *testing.T) {
		log := New(WithIDGenerator(sequentialIDs()))
		stale := log.Append(cards.Two, "")
		log.Append(cards.Three, "")
		before := log.Events()

		assert.False(t, log.Undo(stale.ID))
		assert.Equal(t, before, log.Events())
	})

	t.Run("ignores unknown id", func(t *testing.T) {
		log := New(WithIDGenerator(sequentialIDs()))
		log.Append(cards.Two, "")
		assert.False(t, log.Undo("nope"))
		assert.Equal(t, 1, log.Len())
	})

	t.Run("empty log", func(t *testing.T) {
		log := New()
		assert.False(t, log.Undo(""))
		assert.False(t, log.Undo("anything"))
		_, ok := log.Last()
		assert.False(t, ok)
	})

	t.Run("same id cannot be undone twice", func(t *testing.T) {
		log := New(WithIDGenerator(sequentialIDs()))
		log.Append(cards.Two, "")
		ev := log.Append(cards.Three, "")
		assert.True(t, log.Undo(ev.ID))
		assert.False(t, log.Undo(ev.ID))
		assert.Equal(t, 1, log.Len())
	})
}

func TestEventsIsACopy(t *testing.T) {
	log := New(WithIDGenerator(sequentialIDs()))
	log.Append(cards.Two, "")

	events := log.Events()
	events[0].Rank = cards.King

	assert.Equal(t, cards.Two, log.Events()[0].Rank)
}

func TestClear(t *testing.T) {
	log := New()
	log.Append(cards.Two, "")
	log.Append(cards.Three, "")
	log.Clear()
	assert.Equal(t, 0, log.Len())
	assert.Empty(t, log.Events())
}

func TestConcurrentAppend(t *testing.T) {
	log := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				log.Append(cards.Seven, "")
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 400, log.Len())
}
