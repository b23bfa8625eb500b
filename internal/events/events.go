// Package events carries core game events to live subscribers and to the
// historian queue. Delivery is best-effort: a slow or dead consumer never
// affects core state.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type enumerates the broadcast event kinds.
type Type string

const (
	EventGameCreated   Type = "game_created"
	EventNumberDrawn   Type = "number_drawn"
	EventGameReset     Type = "game_reset"
	EventGameEnded     Type = "game_ended"
	EventSeatSold      Type = "seat_sold"
	EventClaimSubmit   Type = "claim_submitted"
	EventClaimResolved Type = "claim_resolved"
)

// Event is the wire shape pushed to websocket subscribers and to the
// historian queue. Subscribers distinguish a reset from normal growth by the
// event type and by TotalCalled dropping.
type Event struct {
	Type   Type      `json:"type"`
	GameID uuid.UUID `json:"gameId"`

	Number      int   `json:"number,omitempty"`
	Called      []int `json:"called,omitempty"`
	TotalCalled int   `json:"totalCalled"`

	SeatID  string    `json:"seatId,omitempty"`
	UserID  uuid.UUID `json:"uid,omitempty"`
	ClaimID uuid.UUID `json:"claimId,omitempty"`
	Pattern string    `json:"pattern,omitempty"`
	Status  string    `json:"status,omitempty"`
	Prize   int64     `json:"prize,omitempty"`

	Timestamp int64 `json:"timestamp"`
}

// Publisher delivers events somewhere. Implementations must not block the
// caller and must swallow their own delivery failures.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Stamp fills the timestamp if the producer did not.
func Stamp(ev Event) Event {
	if ev.Timestamp == 0 {
		ev.Timestamp = time.Now().UnixMilli()
	}
	return ev
}

// Fanout publishes to every member.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, ev Event) {
	ev = Stamp(ev)
	for _, p := range f {
		p.Publish(ctx, ev)
	}
}

// Discard is a no-op Publisher for tests and standalone setups.
type Discard struct{}

func (Discard) Publish(context.Context, Event) {}
