package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Subas2/SIANG-TAMBOLA/internal/models"
)

// ListGamesHandler serves the lobby view. ?ended=1 includes finished rooms.
func (s *Server) ListGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeEnded := r.URL.Query().Get("ended") == "1"
		rooms, err := s.Games.List(r.Context(), includeEnded)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rooms)
	}
}

// GetGameHandler returns one game's full call state.
func (s *Server) GetGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, err := gameIDParam(r)
		if err != nil {
			writeError(w, err)
			return
		}
		g, err := s.Games.Get(r.Context(), gameID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

// SeatsHandler returns the seat map.
func (s *Server) SeatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, err := gameIDParam(r)
		if err != nil {
			writeError(w, err)
			return
		}
		seats, err := s.Games.Seats(r.Context(), gameID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, seats)
	}
}

// PoolHandler returns the live prize pool.
func (s *Server) PoolHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, err := gameIDParam(r)
		if err != nil {
			writeError(w, err)
			return
		}
		pool, err := s.Games.Pool(r.Context(), gameID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pool)
	}
}

// CreateGameHandler opens a new room. Admin only.
func (s *Server) CreateGameHandler() http.HandlerFunc {
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
		var cfg models.GameConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, "invalid game config payload", http.StatusBadRequest)
			return
		}
		g, err := s.Games.Create(r.Context(), cfg)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, g)
	}
}

type drawRequest struct {
	Number int `json:"number"`
}

type drawResponse struct {
	Game *models.Game `json:"game"`
	Drew bool         `json:"drew"`
}

// DrawHandler calls a specific number. Admin only.
func (s *Server) DrawHandler() http.HandlerFunc {
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
		var req drawRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid draw payload", http.StatusBadRequest)
			return
		}
		g, drew, err := s.Games.Draw(r.Context(), gameID, req.Number)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, drawResponse{Game: g, Drew: drew})
	}
}

// DrawRandomHandler calls a random uncalled number. Admin only.
func (s *Server) DrawRandomHandler() http.HandlerFunc {
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
		g, drew, err := s.Games.DrawRandom(r.Context(), gameID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, drawResponse{Game: g, Drew: drew})
	}
}

// ResetHandler wipes the call state and pending claims. Admin only.
func (s *Server) ResetHandler() http.HandlerFunc {
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
		g, err := s.Games.Reset(r.Context(), gameID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

// EndHandler closes the room. Admin only.
func (s *Server) EndHandler() http.HandlerFunc {
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
		g, err := s.Games.End(r.Context(), gameID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}
