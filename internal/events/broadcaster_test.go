package events

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBroadcaster() *Broadcaster {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewBroadcaster(logger)
}

func TestBroadcasterDeliversPerGame(t *testing.T) {
	ctx := context.Background()
	b := newBroadcaster()

	gameA, gameB := uuid.New(), uuid.New()
	subA := b.Subscribe(gameA)
	subB := b.Subscribe(gameB)
	defer b.Unsubscribe(subB)

	b.Publish(ctx, Event{Type: EventNumberDrawn, GameID: gameA, Number: 42})

	ev := <-subA.Out
	assert.Equal(t, EventNumberDrawn, ev.Type)
	assert.Equal(t, 42, ev.Number)
	assert.NotZero(t, ev.Timestamp, "publish stamps the event")
	assert.Empty(t, subB.Out, "other game's subscriber sees nothing")

	require.Equal(t, 1, b.SubscriberCount(gameA))
	b.Unsubscribe(subA)
	assert.Zero(t, b.SubscriberCount(gameA))

	_, open := <-subA.Out
	assert.False(t, open, "unsubscribe closes the channel")
}

func TestBroadcasterDropsWhenFull(t *testing.T) {
	ctx := context.Background()
	b := newBroadcaster()

	gameID := uuid.New()
	sub := b.Subscribe(gameID)
	defer b.Unsubscribe(sub)

	// Overfill by one; publish must not block and the overflow is dropped.
	for i := 0; i < subscriberBuffer+1; i++ {
		b.Publish(ctx, Event{Type: EventNumberDrawn, GameID: gameID, Number: i + 1})
	}
	assert.Len(t, sub.Out, subscriberBuffer)

	first := <-sub.Out
	assert.Equal(t, 1, first.Number, "delivery order is preserved for kept events")
}

func TestFanoutAndDiscard(t *testing.T) {
	ctx := context.Background()
	b := newBroadcaster()
	gameID := uuid.New()
	sub := b.Subscribe(gameID)
	defer b.Unsubscribe(sub)

	f := Fanout{b, Discard{}}
	f.Publish(ctx, Event{Type: EventGameEnded, GameID: gameID})

	ev := <-sub.Out
	assert.Equal(t, EventGameEnded, ev.Type)
}
