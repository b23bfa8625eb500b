package models

import (
	"fmt"
	"time"

	"github.com/Subas2/SIANG-TAMBOLA/internal/errs"
	"github.com/google/uuid"
)

// ClaimStatus is the adjudication state of a claim.
type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "pending"
	ClaimApproved ClaimStatus = "approved"
	ClaimRejected ClaimStatus = "rejected"
)

// Claim is a player's assertion that a ticket satisfies a pattern. Stored
// under its own ledger key; the pending->resolved transition on that key is
// the payout idempotency gate.
type Claim struct {
	ID       uuid.UUID   `json:"id"`
	GameID   uuid.UUID   `json:"gameId"`
	UserID   uuid.UUID   `json:"uid"`
	TicketID uuid.UUID   `json:"ticketId"`
	Pattern  Pattern     `json:"pattern"`
	Numbers  []int       `json:"numbers"` // submitter-asserted matched numbers
	Status   ClaimStatus `json:"status"`

	// Prize is set only on approval.
	Prize int64 `json:"prize,omitempty"`

	SubmittedAt int64 `json:"submittedAt"`
	ResolvedAt  int64 `json:"resolvedAt,omitempty"`
}

// NewClaim records a pending claim.
func NewClaim(gameID, userID, ticketID uuid.UUID, pattern Pattern, numbers []int) (*Claim, error) {
	switch pattern {
	case PatternEarly5, PatternTopRow, PatternMidRow, PatternBotRow, PatternFullHouse:
	default:
		return nil, fmt.Errorf("%w: unknown pattern %q", errs.ErrInvalidArgument, pattern)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate claim id: %w", err)
	}
	return &Claim{
		ID:          id,
		GameID:      gameID,
		UserID:      userID,
		TicketID:    ticketID,
		Pattern:     pattern,
		Numbers:     numbers,
		Status:      ClaimPending,
		SubmittedAt: time.Now().UnixMilli(),
	}, nil
}

// Commission records the agent cut of one approved claim, created exactly
// once per approved claim that has a referring agent.
type Commission struct {
	ID       uuid.UUID `json:"id"`
	ClaimID  uuid.UUID `json:"claimId"`
	GameID   uuid.UUID `json:"gameId"`
	WinnerID uuid.UUID `json:"winnerId"`
	AgentID  uuid.UUID `json:"agentId"`
	Prize    int64     `json:"prize"`
	Rate     int       `json:"rate"`
	Amount   int64     `json:"amount"`

	CreatedAt int64 `json:"createdAt"`
}

// NewCommission computes the agent cut with integer floor division.
func NewCommission(claim *Claim, agentID uuid.UUID, rate int) (*Commission, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate commission id: %w", err)
	}
	return &Commission{
		ID:        id,
		ClaimID:   claim.ID,
		GameID:    claim.GameID,
		WinnerID:  claim.UserID,
		AgentID:   agentID,
		Prize:     claim.Prize,
		Rate:      rate,
		Amount:    claim.Prize * int64(rate) / 100,
		CreatedAt: time.Now().UnixMilli(),
	}, nil
}
