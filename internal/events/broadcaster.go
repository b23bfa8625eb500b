package events

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// subscriberBuffer is the per-subscriber channel depth. A subscriber that
// falls this far behind starts losing events; it can always resync from the
// game record.
const subscriberBuffer = 32

// Subscription is one live listener on a game's event stream.
type Subscription struct {
	ID     uuid.UUID
	GameID uuid.UUID
	Out    chan Event
}

// Broadcaster fans events out to per-game websocket subscribers. It is the
// in-process analogue of a realtime-database listener set.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]map[uuid.UUID]*Subscription // gameID -> subID -> sub
	logger *logrus.Logger
}

// NewBroadcaster returns an empty registry.
func NewBroadcaster(logger *logrus.Logger) *Broadcaster {
	return &Broadcaster{
		subs:   make(map[uuid.UUID]map[uuid.UUID]*Subscription),
		logger: logger,
	}
}

// Subscribe registers a listener for one game.
func (b *Broadcaster) Subscribe(gameID uuid.UUID) *Subscription {
	sub := &Subscription{
		ID:     uuid.New(),
		GameID: gameID,
		Out:    make(chan Event, subscriberBuffer),
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[gameID] == nil {
		b.subs[gameID] = make(map[uuid.UUID]*Subscription)
	}
	b.subs[gameID][sub.ID] = sub
	return sub
}

// Unsubscribe removes a listener and closes its channel.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	group, ok := b.subs[sub.GameID]
	if !ok {
		return
	}
	if _, ok := group[sub.ID]; !ok {
		return
	}
	delete(group, sub.ID)
	if len(group) == 0 {
		delete(b.subs, sub.GameID)
	}
	close(sub.Out)
}

// Publish delivers to every subscriber of the event's game without blocking:
// full channels drop the event.
func (b *Broadcaster) Publish(_ context.Context, ev Event) {
	ev = Stamp(ev)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs[ev.GameID] {
		select {
		case sub.Out <- ev:
		default:
			if b.logger != nil {
				b.logger.WithFields(logrus.Fields{
					"game": ev.GameID,
					"sub":  sub.ID,
					"type": ev.Type,
				}).Warn("dropping event for slow subscriber")
			}
		}
	}
}

// SubscriberCount reports live listeners for a game.
func (b *Broadcaster) SubscriberCount(gameID uuid.UUID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[gameID])
}
