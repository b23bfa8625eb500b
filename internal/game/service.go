// Package game owns per-room call state: creation, draws, reset and end.
// Every mutation is a single-key conditional update on the game record,
// followed by a broadcast to subscribers.
package game

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/Subas2/SIANG-TAMBOLA/internal/errs"
	"github.com/Subas2/SIANG-TAMBOLA/internal/events"
	"github.com/Subas2/SIANG-TAMBOLA/internal/ledger"
	"github.com/Subas2/SIANG-TAMBOLA/internal/models"
	"github.com/Subas2/SIANG-TAMBOLA/internal/tambola"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BoardMax is the highest callable number.
const BoardMax = 90

// Service exposes the draw operations for all rooms.
type Service struct {
	store  ledger.Store
	pub    events.Publisher
	logger *logrus.Logger
}

// NewService wires the draw service.
func NewService(store ledger.Store, pub events.Publisher, logger *logrus.Logger) *Service {
	if pub == nil {
		pub = events.Discard{}
	}
	return &Service{store: store, pub: pub, logger: logger}
}

// Create validates the config, writes the game record and its seat slots,
// and announces the room.
func (s *Service) Create(ctx context.Context, cfg models.GameConfig) (*models.Game, error) {
	g, err := models.NewGame(cfg)
	if err != nil {
		return nil, err
	}
	if err := ledger.SetJSON(ctx, s.store, ledger.GameKey(g.ID), g); err != nil {
		return nil, fmt.Errorf("failed to write game record: %w", err)
	}
	for i := 1; i <= cfg.TotalSeats; i++ {
		seat := models.Seat{Number: i, Status: models.SeatAvailable}
		if err := ledger.SetJSON(ctx, s.store, ledger.SeatKey(g.ID, models.SeatID(i)), seat); err != nil {
			return nil, fmt.Errorf("failed to init seat %d: %w", i, err)
		}
	}
	s.logger.WithFields(logrus.Fields{
		"game":  g.ID,
		"seats": cfg.TotalSeats,
		"price": cfg.TicketPrice,
	}).Info("game created")
	s.pub.Publish(ctx, events.Event{Type: events.EventGameCreated, GameID: g.ID})
	return g, nil
}

// Get loads one game record.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	var g models.Game
	if err := ledger.GetJSON(ctx, s.store, ledger.GameKey(id), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Draw appends number to the game's called sequence. A number already called
// is a no-op, reported through the second return value so the operator UI
// can tell the difference.
func (s *Service) Draw(ctx context.Context, gameID uuid.UUID, number int) (*models.Game, bool, error) {
	if number < 1 || number > BoardMax {
		return nil, false, fmt.Errorf("%w: number must be 1-%d", errs.ErrInvalidArgument, BoardMax)
	}
	return s.draw(ctx, gameID, func(g *models.Game) (int, bool) {
		if g.HasCalled(number) {
			return 0, false
		}
		return number, true
	})
}

// DrawRandom calls a uniformly random uncalled number, the original
// engine's draw behavior. Exhausted boards are a no-op.
func (s *Service) DrawRandom(ctx context.Context, gameID uuid.UUID) (*models.Game, bool, error) {
	return s.draw(ctx, gameID, func(g *models.Game) (int, bool) {
		var available []int
		for n := 1; n <= BoardMax; n++ {
			if !g.HasCalled(n) {
				available = append(available, n)
			}
		}
		if len(available) == 0 {
			return 0, false
		}
		return available[rand.Intn(len(available))], true
	})
}

// draw runs the shared conditional-update-then-broadcast path. pick decides
// the number inside the update so retries see fresh state.
func (s *Service) draw(ctx context.Context, gameID uuid.UUID, pick func(*models.Game) (int, bool)) (*models.Game, bool, error) {
	drew := false
	drawn := 0
	g, err := ledger.UpdateJSON(ctx, s.store, ledger.GameKey(gameID), func(g *models.Game, exists bool) error {
		if err := ledger.Require(exists, "game "+gameID.String()); err != nil {
			return err
		}
		if !g.Active {
			return fmt.Errorf("%w: game has ended", errs.ErrInvalidArgument)
		}
		drew = false
		n, ok := pick(g)
		if !ok {
			return nil // commit unchanged: duplicate draw or exhausted board
		}
		g.Called = append(g.Called, n)
		g.Current = n
		g.TotalCalled = len(g.Called)
		drawn = n
		drew = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if drew {
		s.logger.WithFields(logrus.Fields{"game": gameID, "number": drawn, "total": g.TotalCalled}).Info("number drawn")
		s.pub.Publish(ctx, events.Event{
			Type:        events.EventNumberDrawn,
			GameID:      gameID,
			Number:      drawn,
			Called:      g.Called,
			TotalCalled: g.TotalCalled,
		})
	}
	return g, drew, nil
}

// Reset clears the called sequence and discards the game's pending claims.
// Resolved claims stay on record; the payout trail survives a reset.
func (s *Service) Reset(ctx context.Context, gameID uuid.UUID) (*models.Game, error) {
	g, err := ledger.UpdateJSON(ctx, s.store, ledger.GameKey(gameID), func(g *models.Game, exists bool) error {
		if err := ledger.Require(exists, "game "+gameID.String()); err != nil {
			return err
		}
		g.Called = nil
		g.Current = 0
		g.TotalCalled = 0
		return nil
	})
	if err != nil {
		return nil, err
	}

	claims, err := s.store.List(ctx, ledger.ClaimPrefix(gameID))
	if err != nil {
		return nil, fmt.Errorf("failed to list claims during reset: %w", err)
	}
	discarded := 0
	for key, val := range claims {
		var c models.Claim
		if err := decode(val, &c); err != nil {
			return nil, fmt.Errorf("claim %s: %w", key, err)
		}
		if c.Status != models.ClaimPending {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			return nil, fmt.Errorf("failed to discard claim %s: %w", key, err)
		}
		discarded++
	}

	s.logger.WithFields(logrus.Fields{"game": gameID, "claimsDiscarded": discarded}).Info("game reset")
	s.pub.Publish(ctx, events.Event{Type: events.EventGameReset, GameID: gameID, TotalCalled: 0})
	return g, nil
}

// End flips the lifecycle flag; no further draws or reservations are allowed.
func (s *Service) End(ctx context.Context, gameID uuid.UUID) (*models.Game, error) {
	g, err := ledger.UpdateJSON(ctx, s.store, ledger.GameKey(gameID), func(g *models.Game, exists bool) error {
		if err := ledger.Require(exists, "game "+gameID.String()); err != nil {
			return err
		}
		g.Active = false
		g.EndedAt = nowMilli()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithField("game", gameID).Info("game ended")
	s.pub.Publish(ctx, events.Event{Type: events.EventGameEnded, GameID: gameID, TotalCalled: g.TotalCalled})
	return g, nil
}

// Seats returns the seat map keyed by seat id.
func (s *Service) Seats(ctx context.Context, gameID uuid.UUID) (map[string]models.Seat, error) {
	raw, err := s.store.List(ctx, ledger.SeatPrefix(gameID))
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.Seat, len(raw))
	for key, val := range raw {
		var seat models.Seat
		if err := decode(val, &seat); err != nil {
			return nil, fmt.Errorf("seat %s: %w", key, err)
		}
		out[strings.TrimPrefix(key, ledger.SeatPrefix(gameID))] = seat
	}
	return out, nil
}

// Pool computes the live prize pool for a game.
func (s *Service) Pool(ctx context.Context, gameID uuid.UUID) (tambola.Pool, error) {
	g, err := s.Get(ctx, gameID)
	if err != nil {
		return tambola.Pool{}, err
	}
	return tambola.GamePool(g), nil
}

// RoomSummary is the lobby view of one game.
type RoomSummary struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Status      string           `json:"status"`
	TicketPrice int64            `json:"ticketPrice"`
	DrawSpeed   int              `json:"drawSpeed"`
	SoldCount   int              `json:"soldCount"`
	TotalSeats  int              `json:"totalSeats"`
	PrizePool   int64            `json:"prizePool"`
	TotalCalled int              `json:"totalCalled"`
	Patterns    []models.Pattern `json:"patterns"`
	CreatedAt   int64            `json:"createdAt"`
}

// List builds the lobby view: live rooms first, then waiting, then (when
// requested) ended, newest first within each group.
func (s *Service) List(ctx context.Context, includeEnded bool) ([]RoomSummary, error) {
	raw, err := s.store.List(ctx, ledger.GamesPrefix)
	if err != nil {
		return nil, err
	}
	statusOrder := map[string]int{models.GameLive: 0, models.GameWaiting: 1, models.GameEnded: 2}
	var rooms []RoomSummary
	for key, val := range raw {
		if !ledger.IsGameRecord(key) {
			continue
		}
		var g models.Game
		if err := decode(val, &g); err != nil {
			return nil, fmt.Errorf("game %s: %w", key, err)
		}
		status := g.Status()
		if !includeEnded && status == models.GameEnded {
			continue
		}
		rooms = append(rooms, RoomSummary{
			ID:          g.ID,
			Name:        g.Config.Name,
			Status:      status,
			TicketPrice: g.Config.TicketPrice,
			DrawSpeed:   g.Config.DrawInterval,
			SoldCount:   g.SoldCount,
			TotalSeats:  g.Config.TotalSeats,
			PrizePool:   tambola.GamePool(&g).Total,
			TotalCalled: g.TotalCalled,
			Patterns:    g.Config.Patterns,
			CreatedAt:   g.CreatedAt,
		})
	}
	sort.Slice(rooms, func(i, j int) bool {
		if statusOrder[rooms[i].Status] != statusOrder[rooms[j].Status] {
			return statusOrder[rooms[i].Status] < statusOrder[rooms[j].Status]
		}
		return rooms[i].CreatedAt > rooms[j].CreatedAt
	})
	return rooms, nil
}
