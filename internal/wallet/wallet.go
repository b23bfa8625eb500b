// Package wallet exposes the top-up path and balance/history queries. The
// idempotency check and the balance change happen inside one conditional
// update on the wallet key; there is no separate existence read to race with.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Subas2/SIANG-TAMBOLA/internal/errs"
	"github.com/Subas2/SIANG-TAMBOLA/internal/ledger"
	"github.com/Subas2/SIANG-TAMBOLA/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Top-up bounds in whole currency units.
const (
	MinTopup = 10
	MaxTopup = 10000
)

// Service owns wallet reads and the verified top-up write.
type Service struct {
	store  ledger.Store
	logger *logrus.Logger
	secret string
}

// NewService wires the wallet service with the payment shared secret.
func NewService(store ledger.Store, secret string, logger *logrus.Logger) *Service {
	return &Service{store: store, logger: logger, secret: secret}
}

// TopUp verifies the payment event and credits the wallet exactly once per
// payment id. A replay returns errs.ErrAlreadyExists with the balance
// untouched.
func (s *Service) TopUp(ctx context.Context, userID uuid.UUID, ev PaymentEvent) (int64, error) {
	if ev.Amount < MinTopup || ev.Amount > MaxTopup {
		return 0, fmt.Errorf("%w: amount must be %d-%d", errs.ErrInvalidArgument, MinTopup, MaxTopup)
	}
	if ev.PaymentID == "" {
		return 0, fmt.Errorf("%w: payment id required", errs.ErrInvalidArgument)
	}
	if err := VerifySignature(s.secret, ev); err != nil {
		return 0, err
	}

	var u models.User
	if err := ledger.GetJSON(ctx, s.store, ledger.UserKey(userID), &u); err != nil {
		return 0, err
	}

	w, err := ledger.UpdateJSON(ctx, s.store, ledger.WalletKey(userID), func(w *models.Wallet, _ bool) error {
		return w.Credit(ev.PaymentID, ev.Amount, models.Transaction{
			Type:    models.TxTopup,
			OrderID: ev.OrderID,
		})
	})
	if err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"user": userID, "payment": ev.PaymentID, "amount": ev.Amount,
	}).Info("wallet topped up")
	return w.Balance, nil
}

// Balance returns the current wallet balance, zero for a wallet that has
// never seen money.
func (s *Service) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	var w models.Wallet
	if err := ledger.GetJSON(ctx, s.store, ledger.WalletKey(userID), &w); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return w.Balance, nil
}

// Entry pairs a transaction with its idempotency key for history views.
type Entry struct {
	Key string `json:"key"`
	models.Transaction
}

// Transactions returns the latest limit entries, newest first.
func (s *Service) Transactions(ctx context.Context, userID uuid.UUID, limit int) ([]Entry, error) {
	var w models.Wallet
	if err := ledger.GetJSON(ctx, s.store, ledger.WalletKey(userID), &w); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	entries := make([]Entry, 0, len(w.Entries))
	for k, tx := range w.Entries {
		entries = append(entries, Entry{Key: k, Transaction: tx})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Timestamp > entries[j].Timestamp })
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
