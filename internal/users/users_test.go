package users

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/Subas2/SIANG-TAMBOLA/internal/auth"
	"github.com/Subas2/SIANG-TAMBOLA/internal/errs"
	"github.com/Subas2/SIANG-TAMBOLA/internal/ledger"
	"github.com/Subas2/SIANG-TAMBOLA/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	auth.Init()
	os.Exit(m.Run())
}

func newService(t *testing.T) (*Service, ledger.Store) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	store := ledger.NewMemory()
	return NewService(store, logger), store
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	u, err := svc.Register(ctx, "Asha", "asha@example.com", "9900112233", "hunter42", uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, models.RolePlayer, u.Role)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "hunter42", u.PasswordHash)

	// Wallet is provisioned alongside the profile.
	var w models.Wallet
	require.NoError(t, ledger.GetJSON(ctx, store, ledger.WalletKey(u.ID), &w))
	assert.Zero(t, w.Balance)

	token, got, err := svc.Authenticate(ctx, "asha@example.com", "hunter42", "")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, u.ID, got.ID)

	session, err := auth.AuthenticateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, session.UserID)
	assert.Equal(t, models.RolePlayer, session.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.Register(ctx, "First", "dup@example.com", "", "pass1", uuid.Nil)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Second", "dup@example.com", "", "pass2", uuid.Nil)
	require.ErrorIs(t, err, errs.ErrAlreadyExists)

	// Email comparison is case-insensitive.
	_, err = svc.Register(ctx, "Third", "DUP@Example.com", "", "pass3", uuid.Nil)
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestRegisterReferralValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.Register(ctx, "Orphan", "orphan@example.com", "", "pass", uuid.New())
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	player, err := svc.Register(ctx, "NotAgent", "na@example.com", "", "pass", uuid.Nil)
	require.NoError(t, err)
	_, err = svc.Register(ctx, "Misled", "misled@example.com", "", "pass", player.ID)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	agent, err := svc.RegisterAgent(ctx, "Agent", "agent@example.com", "pass", 0)
	require.NoError(t, err)
	referred, err := svc.Register(ctx, "Referred", "ref@example.com", "", "pass", agent.ID)
	require.NoError(t, err)
	assert.Equal(t, agent.ID, referred.ReferredBy)
}

func TestRegisterAgentRates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	a, err := svc.RegisterAgent(ctx, "Default", "d@example.com", "pass", 0)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAgent, a.Role)
	assert.Equal(t, models.DefaultCommissionRate, a.CommissionRate)

	b, err := svc.RegisterAgent(ctx, "Custom", "c@example.com", "pass", 12)
	require.NoError(t, err)
	assert.Equal(t, 12, b.CommissionRate)

	_, err = svc.RegisterAgent(ctx, "Bad", "b@example.com", "pass", 101)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestAuthenticateFailures(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.Register(ctx, "Asha", "asha@example.com", "", "hunter42", uuid.Nil)
	require.NoError(t, err)

	_, _, err = svc.Authenticate(ctx, "asha@example.com", "wrong", "")
	require.ErrorIs(t, err, errs.ErrUnauthenticated)

	_, _, err = svc.Authenticate(ctx, "nobody@example.com", "hunter42", "")
	require.ErrorIs(t, err, errs.ErrUnauthenticated)

	// The agent login surface rejects player accounts.
	_, _, err = svc.Authenticate(ctx, "asha@example.com", "hunter42", models.RoleAgent)
	require.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	seed := func(name string, won int, prize int64, role models.Role) {
		u, err := models.NewUser(name, role, uuid.Nil)
		require.NoError(t, err)
		u.GamesPlayed = won + 2
		u.GamesWon = won
		u.TotalPrize = prize
		require.NoError(t, ledger.SetJSON(ctx, store, ledger.UserKey(u.ID), u))
	}
	seed("bronze", 1, 100, models.RolePlayer)
	seed("gold", 5, 900, models.RolePlayer)
	seed("silver", 3, 400, models.RolePlayer)
	seed("house", 9, 9999, models.RoleAgent) // agents never rank

	rows, err := svc.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "gold", rows[0].Name)
	assert.Equal(t, "silver", rows[1].Name)
	assert.Equal(t, "bronze", rows[2].Name)

	rows, err = svc.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	agent, err := svc.RegisterAgent(ctx, "Agent", "agent@example.com", "pass", 8)
	require.NoError(t, err)
	_, err = svc.Register(ctx, "P1", "p1@example.com", "", "pass", agent.ID)
	require.NoError(t, err)
	_, err = svc.Register(ctx, "P2", "p2@example.com", "", "pass", uuid.Nil)
	require.NoError(t, err)

	g, err := models.NewGame(models.GameConfig{TicketPrice: 100, TotalSeats: 10, PayoutPercent: 80})
	require.NoError(t, err)
	g.SoldCount = 6
	g.TotalCalled = 3
	require.NoError(t, ledger.SetJSON(ctx, store, ledger.GameKey(g.ID), g))

	claim, err := models.NewClaim(g.ID, uuid.New(), uuid.New(), models.PatternFullHouse, nil)
	require.NoError(t, err)
	claim.Prize = 500
	commission, err := models.NewCommission(claim, agent.ID, 8)
	require.NoError(t, err)
	require.NoError(t, ledger.SetJSON(ctx, store, ledger.CommissionKey(claim.ID), commission))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPlayers)
	assert.Equal(t, 1, stats.TotalAgents)
	assert.Equal(t, 1, stats.TotalGames)
	assert.Equal(t, 1, stats.LiveGames)
	assert.Equal(t, int64(600), stats.TotalRevenue)
	assert.Equal(t, int64(40), stats.TotalCommission)
	require.Len(t, stats.Agents, 1)
	assert.Equal(t, 1, stats.Agents[0].Referred)
}
