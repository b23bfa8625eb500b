package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Subas2/SIANG-TAMBOLA/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type submitClaimRequest struct {
	TicketID string         `json:"ticketId"`
	Pattern  models.Pattern `json:"pattern"`
	Numbers  []int          `json:"numbers"`
}

// SubmitClaimHandler records a pending claim for the caller.
func (s *Server) SubmitClaimHandler() http.HandlerFunc {
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
		var req submitClaimRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid claim payload", http.StatusBadRequest)
			return
		}
		ticketID, err := uuid.Parse(req.TicketID)
		if err != nil {
			http.Error(w, "invalid ticketId", http.StatusBadRequest)
			return
		}
		claim, err := s.Claims.Submit(r.Context(), gameID, session.UserID, ticketID, req.Pattern, req.Numbers)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, claim)
	}
}

// PlausibleHandler reports which patterns the caller's seat currently
// satisfies against the server-side called set.
func (s *Server) PlausibleHandler() http.HandlerFunc {
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
		seatID := r.URL.Query().Get("seat")
		if seatID == "" {
			http.Error(w, "missing seat", http.StatusBadRequest)
			return
		}
		patterns, err := s.Claims.Plausible(r.Context(), gameID, session.UserID, seatID)
		if err != nil {
			writeError(w, err)
			return
		}
		if patterns == nil {
			patterns = []models.Pattern{}
		}
		writeJSON(w, http.StatusOK, patterns)
	}
}

// ListClaimsHandler lists a game's claims for the operator view. Admin only.
func (s *Server) ListClaimsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFrom(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := session.Require(models.RoleAdmin); err != nil {
			writeError(w, err)
			return
		}
		gameID, err := gameIDParam(r)
		if err != nil {
			writeError(w, err)
			return
		}
		claims, err := s.Claims.ListByGame(r.Context(), gameID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, claims)
	}
}

type resolveClaimRequest struct {
	Decision models.ClaimStatus `json:"decision"`
}

// ResolveClaimHandler settles a pending claim. Admin only.
func (s *Server) ResolveClaimHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFrom(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := session.Require(models.RoleAdmin); err != nil {
			writeError(w, err)
			return
		}
		gameID, err := gameIDParam(r)
		if err != nil {
			writeError(w, err)
			return
		}
		claimID, err := uuid.Parse(chi.URLParam(r, "claimID"))
		if err != nil {
			http.Error(w, "invalid claim id", http.StatusBadRequest)
			return
		}
		var req resolveClaimRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid resolve payload", http.StatusBadRequest)
			return
		}
		claim, err := s.Claims.Resolve(r.Context(), gameID, claimID, req.Decision)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, claim)
	}
}
