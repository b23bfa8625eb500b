// Package handlers exposes the HTTP and websocket surface. Handlers are thin:
// decode, authenticate, delegate to a service, encode. All business rules
// live behind the service layer.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/Subas2/SIANG-TAMBOLA/internal/booking"
	"github.com/Subas2/SIANG-TAMBOLA/internal/claims"
	"github.com/Subas2/SIANG-TAMBOLA/internal/events"
	"github.com/Subas2/SIANG-TAMBOLA/internal/game"
	"github.com/Subas2/SIANG-TAMBOLA/internal/middleware"
	"github.com/Subas2/SIANG-TAMBOLA/internal/users"
	"github.com/Subas2/SIANG-TAMBOLA/internal/wallet"
)

// Server bundles the services behind the HTTP surface.
type Server struct {
	Users       *users.Service
	Wallet      *wallet.Service
	Games       *game.Service
	Bookings    *booking.Service
	Claims      *claims.Service
	Broadcaster *events.Broadcaster
	Logger      *logrus.Logger
}

// NewServer wires the handler layer.
func NewServer(u *users.Service, w *wallet.Service, g *game.Service, b *booking.Service, c *claims.Service, bc *events.Broadcaster, logger *logrus.Logger) *Server {
	return &Server{
		Users:       u,
		Wallet:      w,
		Games:       g,
		Bookings:    b,
		Claims:      c,
		Broadcaster: bc,
		Logger:      logger,
	}
}

// Routes builds the full router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.LogMiddleware(s.Logger))

	r.Post("/user/create", s.RegisterHandler())
	r.Post("/user/login", s.LoginHandler())
	r.Post("/user/login/agent", s.AgentLoginHandler())
	r.Get("/user/me", s.MeHandler())
	r.Get("/leaderboard", s.LeaderboardHandler())

	r.Post("/wallet/topup", s.TopUpHandler())
	r.Get("/wallet/balance", s.BalanceHandler())
	r.Get("/wallet/transactions", s.TransactionsHandler())

	r.Get("/game/list", s.ListGamesHandler())
	r.Route("/game/{gameID}", func(r chi.Router) {
		r.Get("/", s.GetGameHandler())
		r.Get("/seats", s.SeatsHandler())
		r.Get("/pool", s.PoolHandler())
		r.Get("/ws", s.GameWSHandler())

		r.Post("/reserve", s.ReserveSeatHandler())
		r.Get("/tickets", s.MyTicketsHandler())
		r.Get("/claimable", s.PlausibleHandler())
		r.Post("/claim", s.SubmitClaimHandler())
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/agent/create", s.RegisterAgentHandler())
		r.Get("/stats", s.StatsHandler())
		r.Post("/game/create", s.CreateGameHandler())
		r.Route("/game/{gameID}", func(r chi.Router) {
			r.Post("/draw", s.DrawHandler())
			r.Post("/draw/random", s.DrawRandomHandler())
			r.Post("/reset", s.ResetHandler())
			r.Post("/end", s.EndHandler())
			r.Get("/claims", s.ListClaimsHandler())
			r.Post("/claims/{claimID}/resolve", s.ResolveClaimHandler())
		})
	})

	return r
}
