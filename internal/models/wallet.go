package models

import (
	"fmt"
	"time"

	"github.com/Subas2/SIANG-TAMBOLA/internal/errs"
)

// TransactionType tags a wallet ledger entry.
type TransactionType string

const (
	TxTopup      TransactionType = "topup"
	TxDebit      TransactionType = "debit"
	TxPrize      TransactionType = "prize"
	TxCommission TransactionType = "commission"
)

// Transaction is one append-only wallet log entry. Entries are keyed by an
// external identifier (payment id, claim id, booking id); the presence of a
// key is the idempotency guard against applying the same effect twice.
type Transaction struct {
	Type      TransactionType `json:"type"`
	Amount    int64           `json:"amount"`
	OrderID   string          `json:"orderId,omitempty"`
	Reference string          `json:"reference,omitempty"` // game/claim the entry relates to
	Timestamp int64           `json:"timestamp"`
	Status    string          `json:"status"`
}

// Wallet is the money record stored in the ledger under wallets/{userID}.
// Balance and the entry log live in the same record on purpose: a single
// conditional update can check the idempotency key and apply the balance
// change without a check-then-act window.
type Wallet struct {
	Balance int64                  `json:"balance"`
	Entries map[string]Transaction `json:"entries,omitempty"`
}

// Credit adds amount under the given idempotency key.
func (w *Wallet) Credit(key string, amount int64, tx Transaction) error {
	if amount <= 0 {
		return fmt.Errorf("%w: credit amount must be positive", errs.ErrInvalidArgument)
	}
	if w.Entries == nil {
		w.Entries = make(map[string]Transaction)
	}
	if _, dup := w.Entries[key]; dup {
		return fmt.Errorf("%w: transaction %s already applied", errs.ErrAlreadyExists, key)
	}
	tx.Amount = amount
	if tx.Timestamp == 0 {
		tx.Timestamp = time.Now().UnixMilli()
	}
	tx.Status = "success"
	w.Balance += amount
	w.Entries[key] = tx
	return nil
}

// Debit subtracts amount under the given idempotency key, aborting when the
// balance cannot cover it. The explicit error return distinguishes "aborted
// for insufficient funds" from a legitimate zero balance after the debit.
func (w *Wallet) Debit(key string, amount int64, tx Transaction) error {
	if amount <= 0 {
		return fmt.Errorf("%w: debit amount must be positive", errs.ErrInvalidArgument)
	}
	if w.Entries == nil {
		w.Entries = make(map[string]Transaction)
	}
	if _, dup := w.Entries[key]; dup {
		return fmt.Errorf("%w: transaction %s already applied", errs.ErrAlreadyExists, key)
	}
	if w.Balance < amount {
		return fmt.Errorf("%w: balance %d, need %d", errs.ErrInsufficientFunds, w.Balance, amount)
	}
	tx.Amount = amount
	if tx.Timestamp == 0 {
		tx.Timestamp = time.Now().UnixMilli()
	}
	tx.Status = "success"
	w.Balance -= amount
	w.Entries[key] = tx
	return nil
}
