// Package users manages accounts: registration (players and agents), login,
// and the leaderboard/analytics read models.
package users

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Subas2/SIANG-TAMBOLA/internal/auth"
	"github.com/Subas2/SIANG-TAMBOLA/internal/errs"
	"github.com/Subas2/SIANG-TAMBOLA/internal/ledger"
	"github.com/Subas2/SIANG-TAMBOLA/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Service owns account records in the ledger.
type Service struct {
	store  ledger.Store
	logger *logrus.Logger
}

// NewService wires the user service.
func NewService(store ledger.Store, logger *logrus.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func emailKey(email string) string {
	return "emails/" + strings.ToLower(strings.TrimSpace(email))
}

// Register creates a player account. referredBy is the optional referring
// agent, validated to actually be an agent; uuid.Nil skips the referral and
// the choice is permanent.
func (s *Service) Register(ctx context.Context, name, email, phone, password string, referredBy uuid.UUID) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", errs.ErrInvalidArgument)
	}
	if referredBy != uuid.Nil {
		var agent models.User
		if err := ledger.GetJSON(ctx, s.store, ledger.UserKey(referredBy), &agent); err != nil {
			return nil, fmt.Errorf("%w: unknown referral code", errs.ErrInvalidArgument)
		}
		if agent.Role != models.RoleAgent {
			return nil, fmt.Errorf("%w: referral code is not an agent", errs.ErrInvalidArgument)
		}
	}

	u, err := models.NewUser(name, models.RolePlayer, referredBy)
	if err != nil {
		return nil, err
	}
	u.Email = email
	u.Phone = phone
	if u.PasswordHash, err = auth.HashPassword(password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// RegisterAgent creates an agent account with its commission rate. Admin use
// only; the entitlement check is the caller's job.
func (s *Service) RegisterAgent(ctx context.Context, name, email, password string, commissionRate int) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", errs.ErrInvalidArgument)
	}
	u, err := models.NewUser(name, models.RoleAgent, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if commissionRate != 0 {
		if err := u.SetCommissionRate(commissionRate); err != nil {
			return nil, err
		}
	}
	u.Email = email
	if u.PasswordHash, err = auth.HashPassword(password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// create claims the email index first -- a conditional create, so two
// concurrent registrations of the same address resolve to one winner -- then
// writes the profile and an empty wallet.
func (s *Service) create(ctx context.Context, u *models.User) error {
	_, err := s.store.Update(ctx, emailKey(u.Email), func(current []byte) ([]byte, error) {
		if current != nil {
			return nil, fmt.Errorf("%w: email already registered", errs.ErrAlreadyExists)
		}
		return []byte(u.ID.String()), nil
	})
	if err != nil {
		return err
	}
	if err := ledger.SetJSON(ctx, s.store, ledger.UserKey(u.ID), u); err != nil {
		return fmt.Errorf("failed to write user record: %w", err)
	}
	if err := ledger.SetJSON(ctx, s.store, ledger.WalletKey(u.ID), &models.Wallet{}); err != nil {
		return fmt.Errorf("failed to init wallet: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"user": u.ID, "role": u.Role}).Info("user created")
	return nil
}

// Authenticate checks credentials and returns a signed session token. A role
// gate lets the agent/admin login surfaces reject accounts of other roles
// without leaking which part failed.
func (s *Service) Authenticate(ctx context.Context, email, password string, requiredRole models.Role) (string, *models.User, error) {
	raw, err := s.store.Get(ctx, emailKey(email))
	if err != nil {
		return "", nil, fmt.Errorf("%w: unknown account", errs.ErrUnauthenticated)
	}
	id, err := uuid.Parse(string(raw))
	if err != nil {
		return "", nil, fmt.Errorf("%w: corrupt email index entry", errs.ErrInvariant)
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	ok, err := auth.VerifyPassword(password, u.PasswordHash)
	if err != nil || !ok {
		return "", nil, fmt.Errorf("%w: invalid credentials", errs.ErrUnauthenticated)
	}
	if requiredRole != "" && u.Role != requiredRole {
		return "", nil, fmt.Errorf("%w: not a %s account", errs.ErrUnauthorized, requiredRole)
	}
	token, err := auth.CreateJWT(u.ID, u.Role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create jwt: %w", err)
	}
	return token, u, nil
}

// Get loads one user.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := ledger.GetJSON(ctx, s.store, ledger.UserKey(id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// LeaderboardEntry is the public stats row for one player.
type LeaderboardEntry struct {
	UserID     uuid.UUID `json:"uid"`
	Name       string    `json:"name"`
	GamesWon   int       `json:"gamesWon"`
	WinRate    int       `json:"winRate"`
	TotalPrize int64     `json:"totalPrize"`
}

// Leaderboard lists players by cumulative prize, richest first.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	raw, err := s.store.List(ctx, ledger.UsersPrefix)
	if err != nil {
		return nil, err
	}
	var rows []LeaderboardEntry
	for key, val := range raw {
		var u models.User
		if err := json.Unmarshal(val, &u); err != nil {
			return nil, fmt.Errorf("user %s: %w", key, err)
		}
		if u.Role != models.RolePlayer {
			continue
		}
		rows = append(rows, LeaderboardEntry{
			UserID:     u.ID,
			Name:       u.Name,
			GamesWon:   u.GamesWon,
			WinRate:    u.WinRate(),
			TotalPrize: u.TotalPrize,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalPrize != rows[j].TotalPrize {
			return rows[i].TotalPrize > rows[j].TotalPrize
		}
		return rows[i].GamesWon > rows[j].GamesWon
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
