package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Subas2/SIANG-TAMBOLA/internal/wallet"
)

// TopUpHandler credits the caller's wallet from a signed payment event.
func (s *Server) TopUpHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFrom(r)
		if err != nil {
			writeError(w, err)
			return
		}
		var ev wallet.PaymentEvent
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			http.Error(w, "invalid topup payload", http.StatusBadRequest)
			return
		}
		balance, err := s.Wallet.TopUp(r.Context(), session.UserID, ev)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
	}
}

// BalanceHandler returns the caller's balance.
func (s *Server) BalanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFrom(r)
		if err != nil {
			writeError(w, err)
			return
		}
		balance, err := s.Wallet.Balance(r.Context(), session.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
	}
}

// TransactionsHandler returns the caller's history, newest first.
func (s *Server) TransactionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFrom(r)
		if err != nil {
			writeError(w, err)
			return
		}
		limit := 50
		if q := r.URL.Query().Get("limit"); q != "" {
			n, err := strconv.Atoi(q)
			if err != nil || n < 1 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}
		entries, err := s.Wallet.Transactions(r.Context(), session.UserID, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		if entries == nil {
			entries = []wallet.Entry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}
