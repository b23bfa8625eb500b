package tambola

import "github.com/Subas2/SIANG-TAMBOLA/internal/models"

// Pool is the revenue-derived prize breakdown for one game at one instant.
type Pool struct {
	Revenue    int64                    `json:"revenue"`
	Total      int64                    `json:"total"`
	PerPattern map[models.Pattern]int64 `json:"perPattern"`
}

// ComputePool derives the pool from ticket sales. All currency math is
// integer floor division; split percentages apply to the total pool, not to
// revenue, and are assumed validated at configuration time.
func ComputePool(ticketPrice int64, seatsSold int, payoutPercent int, split models.PrizeSplit) Pool {
	revenue := ticketPrice * int64(seatsSold)
	total := revenue * int64(payoutPercent) / 100
	per := make(map[models.Pattern]int64, len(split))
	for p, pct := range split {
		per[p] = total * int64(pct) / 100
	}
	return Pool{Revenue: revenue, Total: total, PerPattern: per}
}

// GamePool computes the pool for a game's current sold-seat count.
func GamePool(g *models.Game) Pool {
	return ComputePool(g.Config.TicketPrice, g.SoldCount, g.Config.PayoutPercent, g.Config.Split)
}

// PatternPrize is the amount a claim on this pattern pays right now. The
// pool is recomputed from the live sold count at resolution time, so an early
// claim resolved late pays at the later pool size.
func PatternPrize(g *models.Game, p models.Pattern) int64 {
	return GamePool(g).PerPattern[p]
}
