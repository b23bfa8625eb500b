// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/Subas2/SIANG-TAMBOLA/internal/auth"
	"github.com/Subas2/SIANG-TAMBOLA/internal/booking"
	"github.com/Subas2/SIANG-TAMBOLA/internal/claims"
	"github.com/Subas2/SIANG-TAMBOLA/internal/events"
	"github.com/Subas2/SIANG-TAMBOLA/internal/game"
	"github.com/Subas2/SIANG-TAMBOLA/internal/handlers"
	"github.com/Subas2/SIANG-TAMBOLA/internal/ledger"
	"github.com/Subas2/SIANG-TAMBOLA/internal/users"
	"github.com/Subas2/SIANG-TAMBOLA/internal/wallet"
)

func main() {
	auth.Init()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	broadcaster := events.NewBroadcaster(logger)
	var pub events.Publisher = broadcaster

	// LEDGER_BACKEND=redis shares state across instances and feeds the
	// historian queue; the default in-memory ledger is for single-node and
	// local development.
	var store ledger.Store
	switch os.Getenv("LEDGER_BACKEND") {
	case "", "memory":
		store = ledger.NewMemory()
		logger.Info("using in-memory ledger")
	case "redis":
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		r, err := ledger.ConnectRedis(addr, 0)
		if err != nil {
			log.Fatalf("redis ledger: %v", err)
		}
		store = r
		pub = events.Fanout{broadcaster, events.NewQueue(r.Client(), "", logger)}
		logger.Infof("using redis ledger at %s", addr)
	default:
		log.Fatalf("unknown LEDGER_BACKEND %q", os.Getenv("LEDGER_BACKEND"))
	}

	paymentSecret := os.Getenv("PAYMENT_SECRET")
	if paymentSecret == "" {
		logger.Warn("PAYMENT_SECRET not set, wallet top-ups will reject all signatures")
	}

	srv := handlers.NewServer(
		users.NewService(store, logger),
		wallet.NewService(store, paymentSecret, logger),
		game.NewService(store, pub, logger),
		booking.NewService(store, pub, logger),
		claims.NewService(store, pub, logger),
		broadcaster,
		logger,
	)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, srv.Routes()); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
