package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Subas2/SIANG-TAMBOLA/internal/models"
	"github.com/google/uuid"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Referral string `json:"referral"` // agent id, optional
}

// RegisterHandler creates a player account and logs it in.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid register payload", http.StatusBadRequest)
			return
		}
		referredBy := uuid.Nil
		if req.Referral != "" {
			id, err := uuid.Parse(req.Referral)
			if err != nil {
				http.Error(w, "invalid referral code", http.StatusBadRequest)
				return
			}
			referredBy = id
		}
		u, err := s.Users.Register(r.Context(), req.Name, req.Email, req.Phone, req.Password, referredBy)
		if err != nil {
			writeError(w, err)
			return
		}
		token, _, err := s.Users.Authenticate(r.Context(), req.Email, req.Password, "")
		if err != nil {
			writeError(w, err)
			return
		}
		setAuthCookie(w, token)
		writeJSON(w, http.StatusCreated, u.Sanitized())
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler authenticates any account and sets the session cookie.
func (s *Server) LoginHandler() http.HandlerFunc {
	return s.login("")
}

// AgentLoginHandler is the agent portal login; player accounts are rejected.
func (s *Server) AgentLoginHandler() http.HandlerFunc {
	return s.login(models.RoleAgent)
}

func (s *Server) login(role models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid login payload", http.StatusBadRequest)
			return
		}
		token, u, err := s.Users.Authenticate(r.Context(), req.Email, req.Password, role)
		if err != nil {
			writeError(w, err)
			return
		}
		setAuthCookie(w, token)
		writeJSON(w, http.StatusOK, u.Sanitized())
	}
}

// MeHandler returns the caller's own profile.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFrom(r)
		if err != nil {
			writeError(w, err)
			return
		}
		u, err := s.Users.Get(r.Context(), session.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, u.Sanitized())
	}
}

// LeaderboardHandler is public.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if q := r.URL.Query().Get("limit"); q != "" {
			n, err := strconv.Atoi(q)
			if err != nil || n < 1 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}
		rows, err := s.Users.Leaderboard(r.Context(), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

type registerAgentRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	CommissionRate int    `json:"commissionRate"`
}

// RegisterAgentHandler lets an admin onboard an agent.
func (s *Server) RegisterAgentHandler() http.HandlerFunc {
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
		var req registerAgentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid agent payload", http.StatusBadRequest)
			return
		}
		a, err := s.Users.RegisterAgent(r.Context(), req.Name, req.Email, req.Password, req.CommissionRate)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, a.Sanitized())
	}
}

// StatsHandler serves the admin dashboard aggregate.
func (s *Server) StatsHandler() http.HandlerFunc {
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
		stats, err := s.Users.Stats(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
