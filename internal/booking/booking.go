// Package booking orchestrates seat reservation, wallet debit and ticket
// issuance as a compensating-transaction sequence over the ledger. There is
// no cross-key atomicity: the reserved->available rollback is what keeps a
// failed debit from stranding a seat or a balance.
package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/Subas2/SIANG-TAMBOLA/internal/errs"
	"github.com/Subas2/SIANG-TAMBOLA/internal/events"
	"github.com/Subas2/SIANG-TAMBOLA/internal/ledger"
	"github.com/Subas2/SIANG-TAMBOLA/internal/models"
	"github.com/Subas2/SIANG-TAMBOLA/internal/tambola"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Service sells seats.
type Service struct {
	store  ledger.Store
	pub    events.Publisher
	logger *logrus.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService wires the booking service with its own randomness source.
func NewService(store ledger.Store, pub events.Publisher, logger *logrus.Logger) *Service {
	if pub == nil {
		pub = events.Discard{}
	}
	return &Service{
		store:  store,
		pub:    pub,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ReserveSeat sells one seat to one user:
//
//  1. available->reserved on the seat key (the race-safety boundary; exactly
//     one concurrent caller wins),
//  2. wallet debit keyed by the booking reference,
//  3. rollback reserved->available if the debit aborts,
//  4. reserved->sold, sold-count bump, ticket generation and persistence.
func (s *Service) ReserveSeat(ctx context.Context, gameID uuid.UUID, seatID string, userID uuid.UUID, playerName string) (*models.Ticket, error) {
	g, err := s.loadActiveGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	seatKey := ledger.SeatKey(gameID, seatID)
	_, err = ledger.UpdateJSON(ctx, s.store, seatKey, func(seat *models.Seat, exists bool) error {
		if err := ledger.Require(exists, "seat "+seatID); err != nil {
			return err
		}
		if seat.Status != models.SeatAvailable {
			return fmt.Errorf("%w: seat %s is %s", errs.ErrSeatUnavailable, seatID, seat.Status)
		}
		seat.Status = models.SeatReserved
		seat.UserID = userID
		seat.PlayerName = playerName
		seat.ReservedAt = time.Now().UnixMilli()
		return nil
	})
	if err != nil {
		return nil, err
	}

	bookingRef := fmt.Sprintf("booking:%s:%s", gameID, seatID)
	_, err = ledger.UpdateJSON(ctx, s.store, ledger.WalletKey(userID), func(w *models.Wallet, exists bool) error {
		if err := ledger.Require(exists, "wallet "+userID.String()); err != nil {
			return err
		}
		return w.Debit(bookingRef, g.Config.TicketPrice, models.Transaction{
			Type:      models.TxDebit,
			Reference: gameID.String() + "/" + seatID,
		})
	})
	if err != nil {
		// Compensate: put the seat back before surfacing the debit error.
		if rbErr := s.releaseSeat(ctx, seatKey); rbErr != nil {
			s.logger.WithFields(logrus.Fields{
				"game": gameID, "seat": seatID, "user": userID, "error": rbErr,
			}).Error("seat rollback failed after debit abort")
			return nil, fmt.Errorf("%w: seat rollback failed: %v (debit: %v)", errs.ErrInvariant, rbErr, err)
		}
		return nil, err
	}

	_, err = ledger.UpdateJSON(ctx, s.store, seatKey, func(seat *models.Seat, exists bool) error {
		if err := ledger.Require(exists, "seat "+seatID); err != nil {
			return err
		}
		seat.Status = models.SeatSold
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to finalize sold seat %s: %v", errs.ErrInvariant, seatID, err)
	}

	if _, err := ledger.UpdateJSON(ctx, s.store, ledger.GameKey(gameID), func(g *models.Game, exists bool) error {
		if err := ledger.Require(exists, "game "+gameID.String()); err != nil {
			return err
		}
		g.SoldCount++
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to bump sold count: %w", err)
	}

	s.rngMu.Lock()
	grid, genErr := tambola.GenerateTicket(s.rng)
	s.rngMu.Unlock()
	if genErr != nil {
		// A generator that cannot produce a valid ticket is a defect, not a
		// condition to retry.
		s.logger.WithFields(logrus.Fields{"game": gameID, "seat": seatID, "error": genErr}).Error("ticket generation failed")
		return nil, genErr
	}

	ticket, err := models.NewTicket(gameID, userID, seatID, grid)
	if err != nil {
		return nil, err
	}
	if err := ledger.SetJSON(ctx, s.store, ledger.TicketKey(gameID, userID, seatID), ticket); err != nil {
		return nil, fmt.Errorf("failed to persist ticket: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"game": gameID, "seat": seatID, "user": userID}).Info("seat sold")
	s.pub.Publish(ctx, events.Event{Type: events.EventSeatSold, GameID: gameID, SeatID: seatID, UserID: userID})
	return ticket, nil
}

// Tickets returns all tickets the user holds in a game, ordered by seat.
func (s *Service) Tickets(ctx context.Context, gameID, userID uuid.UUID) ([]models.Ticket, error) {
	raw, err := s.store.List(ctx, ledger.TicketPrefix(gameID, userID))
	if err != nil {
		return nil, err
	}
	tickets := make([]models.Ticket, 0, len(raw))
	for key, val := range raw {
		var t models.Ticket
		if err := json.Unmarshal(val, &t); err != nil {
			return nil, fmt.Errorf("ticket %s: %w", key, err)
		}
		tickets = append(tickets, t)
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].SeatID < tickets[j].SeatID })
	return tickets, nil
}

// Ticket loads one ticket by seat.
func (s *Service) Ticket(ctx context.Context, gameID, userID uuid.UUID, seatID string) (*models.Ticket, error) {
	var t models.Ticket
	if err := ledger.GetJSON(ctx, s.store, ledger.TicketKey(gameID, userID, seatID), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) loadActiveGame(ctx context.Context, gameID uuid.UUID) (*models.Game, error) {
	var g models.Game
	if err := ledger.GetJSON(ctx, s.store, ledger.GameKey(gameID), &g); err != nil {
		return nil, err
	}
	if !g.Active {
		return nil, fmt.Errorf("%w: game has ended", errs.ErrInvalidArgument)
	}
	return &g, nil
}

func (s *Service) releaseSeat(ctx context.Context, seatKey string) error {
	_, err := ledger.UpdateJSON(ctx, s.store, seatKey, func(seat *models.Seat, exists bool) error {
		if err := ledger.Require(exists, seatKey); err != nil {
			return err
		}
		seat.Status = models.SeatAvailable
		seat.UserID = uuid.Nil
		seat.PlayerName = ""
		seat.ReservedAt = 0
		return nil
	})
	return err
}
