// Package claims handles claim submission and the approve/reject workflow.
// The pending->resolved transition on the claim key is the idempotency gate:
// only the writer who wins it performs the payout.
package claims

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Subas2/SIANG-TAMBOLA/internal/errs"
	"github.com/Subas2/SIANG-TAMBOLA/internal/events"
	"github.com/Subas2/SIANG-TAMBOLA/internal/ledger"
	"github.com/Subas2/SIANG-TAMBOLA/internal/models"
	"github.com/Subas2/SIANG-TAMBOLA/internal/tambola"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Service adjudicates claims and routes prize money.
type Service struct {
	store  ledger.Store
	pub    events.Publisher
	logger *logrus.Logger
}

// NewService wires the claim service.
func NewService(store ledger.Store, pub events.Publisher, logger *logrus.Logger) *Service {
	if pub == nil {
		pub = events.Discard{}
	}
	return &Service{store: store, pub: pub, logger: logger}
}

// Submit records a pending claim with the numbers the submitter asserts are
// matched. The pattern is NOT verified against the server's called set here;
// that happens at adjudication so client state is never trusted.
func (s *Service) Submit(ctx context.Context, gameID, userID, ticketID uuid.UUID, pattern models.Pattern, numbers []int) (*models.Claim, error) {
	var g models.Game
	if err := ledger.GetJSON(ctx, s.store, ledger.GameKey(gameID), &g); err != nil {
		return nil, err
	}
	if !g.Active {
		return nil, fmt.Errorf("%w: game has ended", errs.ErrInvalidArgument)
	}
	if !g.Config.HasPattern(pattern) {
		return nil, fmt.Errorf("%w: pattern %s not enabled for this game", errs.ErrInvalidArgument, pattern)
	}

	claim, err := models.NewClaim(gameID, userID, ticketID, pattern, numbers)
	if err != nil {
		return nil, err
	}
	if err := ledger.SetJSON(ctx, s.store, ledger.ClaimKey(gameID, claim.ID), claim); err != nil {
		return nil, fmt.Errorf("failed to record claim: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"game": gameID, "claim": claim.ID, "pattern": pattern, "user": userID}).Info("claim submitted")
	s.pub.Publish(ctx, events.Event{
		Type: events.EventClaimSubmit, GameID: gameID, ClaimID: claim.ID,
		UserID: userID, Pattern: string(pattern),
	})
	return claim, nil
}

// Plausible evaluates a player's ticket against the server-side called set
// and returns the patterns it currently satisfies, used to pre-filter claim
// submissions.
func (s *Service) Plausible(ctx context.Context, gameID, userID uuid.UUID, seatID string) ([]models.Pattern, error) {
	var g models.Game
	if err := ledger.GetJSON(ctx, s.store, ledger.GameKey(gameID), &g); err != nil {
		return nil, err
	}
	var t models.Ticket
	if err := ledger.GetJSON(ctx, s.store, ledger.TicketKey(gameID, userID, seatID), &t); err != nil {
		return nil, err
	}
	return tambola.EvaluateAll(t.Grid, tambola.CalledSet(g.Called), g.Config.Patterns), nil
}

// Get loads one claim.
func (s *Service) Get(ctx context.Context, gameID, claimID uuid.UUID) (*models.Claim, error) {
	var c models.Claim
	if err := ledger.GetJSON(ctx, s.store, ledger.ClaimKey(gameID, claimID), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByGame returns a game's claims oldest first.
func (s *Service) ListByGame(ctx context.Context, gameID uuid.UUID) ([]models.Claim, error) {
	raw, err := s.store.List(ctx, ledger.ClaimPrefix(gameID))
	if err != nil {
		return nil, err
	}
	claims := make([]models.Claim, 0, len(raw))
	for key, val := range raw {
		var c models.Claim
		if err := json.Unmarshal(val, &c); err != nil {
			return nil, fmt.Errorf("claim %s: %w", key, err)
		}
		claims = append(claims, c)
	}
	sort.Slice(claims, func(i, j int) bool {
		if claims[i].SubmittedAt != claims[j].SubmittedAt {
			return claims[i].SubmittedAt < claims[j].SubmittedAt
		}
		// UUIDv7 ids are time-ordered, so same-millisecond claims still
		// list in a stable order.
		return claims[i].ID.String() < claims[j].ID.String()
	})
	return claims, nil
}

// Resolve transitions a pending claim to approved or rejected. Approval pays
// the prize computed from the current sold count, not a snapshot taken at
// submission. It credits the winner, bumps their stats, and
// pays the referring agent's commission exactly once. Re-resolving a settled
// claim is a no-op that returns the recorded outcome.
func (s *Service) Resolve(ctx context.Context, gameID, claimID uuid.UUID, decision models.ClaimStatus) (*models.Claim, error) {
	if decision != models.ClaimApproved && decision != models.ClaimRejected {
		return nil, fmt.Errorf("%w: decision must be approved or rejected", errs.ErrInvalidArgument)
	}

	existing, err := s.Get(ctx, gameID, claimID)
	if err != nil {
		return nil, err
	}

	var prize int64
	if decision == models.ClaimApproved {
		var g models.Game
		if err := ledger.GetJSON(ctx, s.store, ledger.GameKey(gameID), &g); err != nil {
			return nil, err
		}
		prize = tambola.PatternPrize(&g, existing.Pattern)
	}

	// The idempotency gate: only the writer who flips pending->resolved
	// performs any financial effect.
	won := false
	claim, err := ledger.UpdateJSON(ctx, s.store, ledger.ClaimKey(gameID, claimID), func(c *models.Claim, exists bool) error {
		if err := ledger.Require(exists, "claim "+claimID.String()); err != nil {
			return err
		}
		won = false
		if c.Status != models.ClaimPending {
			return nil // already settled; commit unchanged
		}
		c.Status = decision
		c.ResolvedAt = time.Now().UnixMilli()
		if decision == models.ClaimApproved {
			c.Prize = prize
		}
		won = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !won {
		return claim, nil
	}

	if decision == models.ClaimRejected {
		s.logger.WithFields(logrus.Fields{"game": gameID, "claim": claimID}).Info("claim rejected")
		s.pub.Publish(ctx, events.Event{
			Type: events.EventClaimResolved, GameID: gameID, ClaimID: claimID,
			UserID: claim.UserID, Pattern: string(claim.Pattern), Status: string(models.ClaimRejected),
		})
		return claim, nil
	}

	if err := s.payout(ctx, claim); err != nil {
		return nil, err
	}
	s.pub.Publish(ctx, events.Event{
		Type: events.EventClaimResolved, GameID: gameID, ClaimID: claimID,
		UserID: claim.UserID, Pattern: string(claim.Pattern),
		Status: string(models.ClaimApproved), Prize: claim.Prize,
	})
	return claim, nil
}

// payout credits the winner and the referring agent. The wallet entries are
// keyed by the claim id, so even a replayed payout cannot double-credit.
func (s *Service) payout(ctx context.Context, claim *models.Claim) error {
	prizeRef := "claim:" + claim.ID.String()
	if _, err := ledger.UpdateJSON(ctx, s.store, ledger.WalletKey(claim.UserID), func(w *models.Wallet, exists bool) error {
		if err := ledger.Require(exists, "wallet "+claim.UserID.String()); err != nil {
			return err
		}
		return w.Credit(prizeRef, claim.Prize, models.Transaction{
			Type:      models.TxPrize,
			Reference: claim.GameID.String(),
		})
	}); err != nil {
		return fmt.Errorf("failed to credit prize: %w", err)
	}

	winner, err := ledger.UpdateJSON(ctx, s.store, ledger.UserKey(claim.UserID), func(u *models.User, exists bool) error {
		if err := ledger.Require(exists, "user "+claim.UserID.String()); err != nil {
			return err
		}
		u.GamesPlayed++
		u.GamesWon++
		u.TotalPrize += claim.Prize
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update winner stats: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"game": claim.GameID, "claim": claim.ID, "user": claim.UserID, "prize": claim.Prize,
	}).Info("claim approved and paid")

	return s.payCommission(ctx, claim, winner)
}

// payCommission walks one hop up the referral chain. No referrer, a vanished
// agent record, or a zero commission all end the workflow cleanly.
func (s *Service) payCommission(ctx context.Context, claim *models.Claim, winner *models.User) error {
	if winner.ReferredBy == uuid.Nil {
		return nil
	}

	var agent models.User
	if err := ledger.GetJSON(ctx, s.store, ledger.UserKey(winner.ReferredBy), &agent); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			s.logger.WithFields(logrus.Fields{"agent": winner.ReferredBy, "claim": claim.ID}).Warn("referring agent record missing, skipping commission")
			return nil
		}
		return err
	}
	if agent.Role != models.RoleAgent {
		return nil
	}

	commission, err := models.NewCommission(claim, agent.ID, agent.CommissionRate)
	if err != nil {
		return err
	}
	if commission.Amount <= 0 {
		return nil
	}

	commissionRef := "commission:" + claim.ID.String()
	if _, err := ledger.UpdateJSON(ctx, s.store, ledger.WalletKey(agent.ID), func(w *models.Wallet, exists bool) error {
		// An agent who has never topped up still has earnings to receive.
		return w.Credit(commissionRef, commission.Amount, models.Transaction{
			Type:      models.TxCommission,
			Reference: claim.ID.String(),
		})
	}); err != nil {
		return fmt.Errorf("failed to credit commission: %w", err)
	}

	if _, err := ledger.UpdateJSON(ctx, s.store, ledger.UserKey(agent.ID), func(u *models.User, exists bool) error {
		if err := ledger.Require(exists, "user "+agent.ID.String()); err != nil {
			return err
		}
		u.Earnings += commission.Amount
		return nil
	}); err != nil {
		return fmt.Errorf("failed to update agent earnings: %w", err)
	}

	if err := ledger.SetJSON(ctx, s.store, ledger.CommissionKey(claim.ID), commission); err != nil {
		return fmt.Errorf("failed to record commission: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"agent": agent.ID, "claim": claim.ID, "rate": commission.Rate, "amount": commission.Amount,
	}).Info("commission paid")
	return nil
}
