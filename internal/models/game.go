package models

import (
	"fmt"
	"time"

	"github.com/Subas2/SIANG-TAMBOLA/internal/errs"
	"github.com/google/uuid"
)

// Pattern is a named winning condition.
type Pattern string

const (
	PatternEarly5    Pattern = "early5"
	PatternTopRow    Pattern = "topRow"
	PatternMidRow    Pattern = "midRow"
	PatternBotRow    Pattern = "botRow"
	PatternFullHouse Pattern = "fullHouse"
)

// AllPatterns lists every supported pattern in display order.
var AllPatterns = []Pattern{PatternEarly5, PatternTopRow, PatternMidRow, PatternBotRow, PatternFullHouse}

// PrizeSplit maps patterns to their percentage of the total pool.
type PrizeSplit map[Pattern]int

// DefaultSplit mirrors the default room configuration.
func DefaultSplit() PrizeSplit {
	return PrizeSplit{
		PatternEarly5:    10,
		PatternTopRow:    15,
		PatternMidRow:    15,
		PatternBotRow:    15,
		PatternFullHouse: 45,
	}
}

// GameConfig is fixed at room creation.
type GameConfig struct {
	Name          string     `json:"name"`
	TicketPrice   int64      `json:"ticketPrice"`
	TotalSeats    int        `json:"totalSeats"`
	DrawInterval  int        `json:"drawInterval"` // seconds between auto draws, informational
	Patterns      []Pattern  `json:"patterns"`
	PayoutPercent int        `json:"payoutPercent"` // % of revenue that funds the pool
	Split         PrizeSplit `json:"split"`
}

// Validate enforces the configuration invariants, in particular that the
// split percentages sum to exactly 100.
func (c *GameConfig) Validate() error {
	if c.Name == "" {
		c.Name = "Tambola Room"
	}
	if c.TicketPrice <= 0 {
		return fmt.Errorf("%w: ticket price must be positive", errs.ErrInvalidArgument)
	}
	if c.TotalSeats < 1 || c.TotalSeats > 500 {
		return fmt.Errorf("%w: total seats must be 1-500", errs.ErrInvalidArgument)
	}
	if c.PayoutPercent < 0 || c.PayoutPercent > 100 {
		return fmt.Errorf("%w: payout percent must be 0-100", errs.ErrInvalidArgument)
	}
	if len(c.Patterns) == 0 {
		c.Patterns = append([]Pattern(nil), AllPatterns...)
	}
	if len(c.Split) == 0 {
		c.Split = DefaultSplit()
	}
	sum := 0
	for p, pct := range c.Split {
		if pct < 0 {
			return fmt.Errorf("%w: negative split for %s", errs.ErrInvalidArgument, p)
		}
		sum += pct
	}
	if sum != 100 {
		return fmt.Errorf("%w: prize split must sum to 100, got %d", errs.ErrInvalidArgument, sum)
	}
	return nil
}

// HasPattern reports whether the pattern is enabled for this game.
func (c *GameConfig) HasPattern(p Pattern) bool {
	for _, q := range c.Patterns {
		if q == p {
			return true
		}
	}
	return false
}

// Game is the per-room call state stored under games/{id}. The ordered Called
// sequence is the authoritative draw history; Current is the last draw.
type Game struct {
	ID     uuid.UUID  `json:"id"`
	Config GameConfig `json:"config"`

	Active      bool  `json:"active"`
	Called      []int `json:"called,omitempty"`
	Current     int   `json:"current,omitempty"`
	TotalCalled int   `json:"totalCalled"`
	SoldCount   int   `json:"soldCount"`

	CreatedAt int64 `json:"createdAt"`
	EndedAt   int64 `json:"endedAt,omitempty"`
}

// NewGame validates the config and returns a live game with empty call state.
func NewGame(cfg GameConfig) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate game id: %w", err)
	}
	return &Game{
		ID:        id,
		Config:    cfg,
		Active:    true,
		CreatedAt: time.Now().UnixMilli(),
	}, nil
}

// HasCalled reports whether n has already been drawn.
func (g *Game) HasCalled(n int) bool {
	for _, c := range g.Called {
		if c == n {
			return true
		}
	}
	return false
}

// Lobby-facing room statuses derived by Status.
const (
	GameWaiting = "waiting"
	GameLive    = "live"
	GameEnded   = "ended"
)

// Status derives the lobby-facing room status.
func (g *Game) Status() string {
	switch {
	case !g.Active:
		return GameEnded
	case g.TotalCalled > 0:
		return GameLive
	default:
		return GameWaiting
	}
}

// SeatStatus is the lifecycle of one seat.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatReserved  SeatStatus = "reserved"
	SeatSold      SeatStatus = "sold"
)

// Seat is stored under its own ledger key so reservation races resolve on a
// single conditional update.
type Seat struct {
	Number     int        `json:"seatNumber"`
	Status     SeatStatus `json:"status"`
	UserID     uuid.UUID  `json:"uid,omitempty"`
	PlayerName string     `json:"playerName,omitempty"`
	ReservedAt int64      `json:"reservedAt,omitempty"`
}

// SeatID renders the canonical zero-padded seat identifier, e.g. seat_05.
func SeatID(n int) string {
	return fmt.Sprintf("seat_%02d", n)
}
