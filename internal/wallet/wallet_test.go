package wallet

import (
	"context"
	"io"
	"testing"

	"github.com/Subas2/SIANG-TAMBOLA/internal/errs"
	"github.com/Subas2/SIANG-TAMBOLA/internal/ledger"
	"github.com/Subas2/SIANG-TAMBOLA/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-payment-secret"

func newService(t *testing.T) (*Service, ledger.Store, uuid.UUID) {
	t.Helper()
	store := ledger.NewMemory()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	u, err := models.NewUser("payer", models.RolePlayer, uuid.Nil)
	require.NoError(t, err)
	require.NoError(t, ledger.SetJSON(context.Background(), store, ledger.UserKey(u.ID), u))

	return NewService(store, testSecret, logger), store, u.ID
}

func signedEvent(orderID, paymentID string, amount int64) PaymentEvent {
	return PaymentEvent{
		OrderID:   orderID,
		PaymentID: paymentID,
		Amount:    amount,
		Signature: Sign(testSecret, orderID, paymentID),
	}
}

func TestTopUpCreditsOnce(t *testing.T) {
	ctx := context.Background()
	svc, _, userID := newService(t)

	balance, err := svc.TopUp(ctx, userID, signedEvent("order_1", "pay_1", 500))
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)

	// Replaying the same payment id must not credit again.
	_, err = svc.TopUp(ctx, userID, signedEvent("order_1", "pay_1", 500))
	require.ErrorIs(t, err, errs.ErrAlreadyExists)

	balance, err = svc.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)

	// A fresh payment id accumulates.
	balance, err = svc.TopUp(ctx, userID, signedEvent("order_2", "pay_2", 300))
	require.NoError(t, err)
	assert.Equal(t, int64(800), balance)
}

func TestTopUpRejectsBadSignature(t *testing.T) {
	ctx := context.Background()
	svc, _, userID := newService(t)

	ev := signedEvent("order_1", "pay_1", 500)
	ev.Signature = Sign("wrong-secret", ev.OrderID, ev.PaymentID)
	_, err := svc.TopUp(ctx, userID, ev)
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	// Tampered payment id after signing.
	ev = signedEvent("order_1", "pay_1", 500)
	ev.PaymentID = "pay_other"
	_, err = svc.TopUp(ctx, userID, ev)
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	balance, err := svc.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestTopUpBounds(t *testing.T) {
	ctx := context.Background()
	svc, _, userID := newService(t)

	for _, amount := range []int64{0, MinTopup - 1, MaxTopup + 1, -50} {
		_, err := svc.TopUp(ctx, userID, signedEvent("o", "p", amount))
		require.ErrorIs(t, err, errs.ErrInvalidArgument, "amount %d", amount)
	}

	_, err := svc.TopUp(ctx, userID, signedEvent("o_min", "p_min", MinTopup))
	require.NoError(t, err)
	_, err = svc.TopUp(ctx, userID, signedEvent("o_max", "p_max", MaxTopup))
	require.NoError(t, err)
}

func TestTopUpRequiresPaymentID(t *testing.T) {
	svc, _, userID := newService(t)
	_, err := svc.TopUp(context.Background(), userID, signedEvent("order_1", "", 100))
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestTopUpUnknownUser(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.TopUp(context.Background(), uuid.New(), signedEvent("order_1", "pay_1", 100))
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestBalanceMissingWalletIsZero(t *testing.T) {
	svc, _, _ := newService(t)
	balance, err := svc.Balance(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestTransactionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, store, userID := newService(t)

	// Seed entries with explicit timestamps so the ordering is deterministic.
	w := &models.Wallet{Balance: 600, Entries: map[string]models.Transaction{
		"pay_a": {Type: models.TxTopup, Amount: 100, Timestamp: 1000},
		"pay_b": {Type: models.TxTopup, Amount: 200, Timestamp: 3000},
		"pay_c": {Type: models.TxPrize, Amount: 300, Timestamp: 2000},
	}}
	require.NoError(t, ledger.SetJSON(ctx, store, ledger.WalletKey(userID), w))

	entries, err := svc.Transactions(ctx, userID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "pay_b", entries[0].Key)
	assert.Equal(t, "pay_c", entries[1].Key)
	assert.Equal(t, "pay_a", entries[2].Key)

	entries, err = svc.Transactions(ctx, userID, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "pay_b", entries[0].Key)
}

func TestVerifySignature(t *testing.T) {
	ev := signedEvent("order_9", "pay_9", 100)
	require.NoError(t, VerifySignature(testSecret, ev))
	require.ErrorIs(t, VerifySignature("other", ev), errs.ErrUnauthorized)
}
