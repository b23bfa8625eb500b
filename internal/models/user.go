package models

import (
	"fmt"
	"time"

	"github.com/Subas2/SIANG-TAMBOLA/internal/errs"
	"github.com/google/uuid"
)

// Role determines what a caller is entitled to do.
type Role string

const (
	RolePlayer Role = "player"
	RoleAgent  Role = "agent"
	RoleAdmin  Role = "admin"
)

// DefaultCommissionRate is applied when an admin registers an agent without
// an explicit rate.
const DefaultCommissionRate = 8

// User is the profile record stored in the ledger under users/{id}. Wallet
// balance lives in a separate Wallet record so that profile and money
// mutations never contend on the same key.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Role         Role      `json:"role"`

	// ReferredBy is the agent who referred this player. Set once at creation,
	// uuid.Nil when the player signed up without a referral code.
	ReferredBy uuid.UUID `json:"referredBy,omitempty"`

	// CommissionRate is a whole percentage 0-100, meaningful for agents only.
	CommissionRate int `json:"commissionRate,omitempty"`

	GamesPlayed int   `json:"gamesPlayed"`
	GamesWon    int   `json:"gamesWon"`
	TotalPrize  int64 `json:"totalPrize"`

	// Earnings is the agent's cumulative commission income.
	Earnings int64 `json:"earnings,omitempty"`

	CreatedAt int64 `json:"createdAt"`
}

// NewUser constructs a user record, rejecting malformed construction rather
// than letting partially populated records propagate.
func NewUser(name string, role Role, referredBy uuid.UUID) (*User, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: user name required", errs.ErrInvalidArgument)
	}
	switch role {
	case RolePlayer, RoleAgent, RoleAdmin:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", errs.ErrInvalidArgument, role)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user id: %w", err)
	}
	u := &User{
		ID:         id,
		Name:       name,
		Role:       role,
		ReferredBy: referredBy,
		CreatedAt:  time.Now().UnixMilli(),
	}
	if role == RoleAgent {
		u.CommissionRate = DefaultCommissionRate
	}
	return u, nil
}

// SetCommissionRate validates and applies an agent's rate.
func (u *User) SetCommissionRate(rate int) error {
	if u.Role != RoleAgent {
		return fmt.Errorf("%w: commission rate only applies to agents", errs.ErrInvalidArgument)
	}
	if rate < 0 || rate > 100 {
		return fmt.Errorf("%w: commission rate must be 0-100, got %d", errs.ErrInvalidArgument, rate)
	}
	u.CommissionRate = rate
	return nil
}

// WinRate is the percentage of played games this user has won.
func (u *User) WinRate() int {
	if u.GamesPlayed == 0 {
		return 0
	}
	return int(float64(u.GamesWon) / float64(u.GamesPlayed) * 100)
}

// Sanitized returns a copy safe to serialize to clients.
func (u *User) Sanitized() User {
	c := *u
	c.PasswordHash = ""
	return c
}
