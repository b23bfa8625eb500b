package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Subas2/SIANG-TAMBOLA/internal/models"
)

type reserveRequest struct {
	SeatID     string `json:"seatId"`
	PlayerName string `json:"playerName"`
}

// ReserveSeatHandler sells a seat to the caller and returns the issued ticket.
func (s *Server) ReserveSeatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFrom(r)
		if err != nil {
			writeError(w, err)
			return
		}
		gameID, err := gameIDParam(r)
		if err != nil {
			writeError(w, err)
			return
		}
		var req reserveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid reserve payload", http.StatusBadRequest)
			return
		}
		if req.SeatID == "" {
			http.Error(w, "missing seatId", http.StatusBadRequest)
			return
		}
		if req.PlayerName == "" {
			if u, err := s.Users.Get(r.Context(), session.UserID); err == nil {
				req.PlayerName = u.Name
			}
		}
		ticket, err := s.Bookings.ReserveSeat(r.Context(), gameID, req.SeatID, session.UserID, req.PlayerName)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ticket)
	}
}

// MyTicketsHandler lists the caller's tickets in one game.
func (s *Server) MyTicketsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFrom(r)
		if err != nil {
			writeError(w, err)
			return
		}
		gameID, err := gameIDParam(r)
		if err != nil {
			writeError(w, err)
			return
		}
		tickets, err := s.Bookings.Tickets(r.Context(), gameID, session.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		if tickets == nil {
			tickets = []models.Ticket{}
		}
		writeJSON(w, http.StatusOK, tickets)
	}
}
