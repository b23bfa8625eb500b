package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Subas2/SIANG-TAMBOLA/internal/auth"
	"github.com/Subas2/SIANG-TAMBOLA/internal/errs"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// extractCookieToken extracts a named cookie value from the "Cookie" header,
// or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// sessionFrom authenticates the request from the auth_token cookie.
func sessionFrom(r *http.Request) (auth.Session, error) {
	token := extractCookieToken(r.Header.Get("Cookie"), "auth_token")
	if token == "" {
		return auth.Session{}, errs.ErrUnauthenticated
	}
	return auth.AuthenticateJWT(token)
}

// gameIDParam parses the {gameID} route parameter.
func gameIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		return uuid.Nil, errs.ErrInvalidArgument
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps business errors onto status codes and user-facing messages.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errs.HTTPStatus(err), map[string]string{"error": errs.Message(err)})
}

func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
}
