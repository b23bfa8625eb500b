package ledger

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Key layout mirrors the realtime-database paths the data model grew up with.
// Seats, claims and tickets each get their own key so every contended
// mutation is a single-key conditional update.

func UserKey(id uuid.UUID) string { return "users/" + id.String() }

func WalletKey(id uuid.UUID) string { return "wallets/" + id.String() }

func GameKey(id uuid.UUID) string { return "games/" + id.String() }

func SeatKey(gameID uuid.UUID, seatID string) string {
	return fmt.Sprintf("games/%s/seats/%s", gameID, seatID)
}

func SeatPrefix(gameID uuid.UUID) string {
	return fmt.Sprintf("games/%s/seats/", gameID)
}

func TicketKey(gameID, userID uuid.UUID, seatID string) string {
	return fmt.Sprintf("games/%s/tickets/%s/%s", gameID, userID, seatID)
}

func TicketPrefix(gameID, userID uuid.UUID) string {
	return fmt.Sprintf("games/%s/tickets/%s/", gameID, userID)
}

func ClaimKey(gameID, claimID uuid.UUID) string {
	return fmt.Sprintf("games/%s/claims/%s", gameID, claimID)
}

func ClaimPrefix(gameID uuid.UUID) string {
	return fmt.Sprintf("games/%s/claims/", gameID)
}

func CommissionKey(claimID uuid.UUID) string { return "commissions/" + claimID.String() }

const (
	UsersPrefix       = "users/"
	GamesPrefix       = "games/"
	CommissionsPrefix = "commissions/"
)

// IsGameRecord reports whether a key under GamesPrefix is a game record
// itself rather than one of its seats/tickets/claims subkeys.
func IsGameRecord(key string) bool {
	rest := strings.TrimPrefix(key, GamesPrefix)
	return rest != key && !strings.Contains(rest, "/")
}
