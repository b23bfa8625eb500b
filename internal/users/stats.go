package users

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Subas2/SIANG-TAMBOLA/internal/ledger"
	"github.com/Subas2/SIANG-TAMBOLA/internal/models"
	"github.com/google/uuid"
)

// AgentStats is the per-agent slice of the admin dashboard.
type AgentStats struct {
	AgentID        uuid.UUID `json:"agentId"`
	Name           string    `json:"name"`
	CommissionRate int       `json:"commissionRate"`
	Referred       int       `json:"referred"`
	Earnings       int64     `json:"earnings"`
}

// AdminStats aggregates the whole ledger for the admin dashboard.
type AdminStats struct {
	TotalPlayers    int          `json:"totalPlayers"`
	TotalAgents     int          `json:"totalAgents"`
	TotalGames      int          `json:"totalGames"`
	LiveGames       int          `json:"liveGames"`
	TotalRevenue    int64        `json:"totalRevenue"`
	TotalCommission int64        `json:"totalCommission"`
	Agents          []AgentStats `json:"agents"`
}

// Stats walks users, games and commission records and folds them into one
// dashboard payload. Full scans; the record counts make that fine here.
func (s *Service) Stats(ctx context.Context) (*AdminStats, error) {
	out := &AdminStats{}

	rawUsers, err := s.store.List(ctx, ledger.UsersPrefix)
	if err != nil {
		return nil, err
	}
	referred := make(map[uuid.UUID]int)
	var agents []models.User
	for key, val := range rawUsers {
		var u models.User
		if err := json.Unmarshal(val, &u); err != nil {
			return nil, fmt.Errorf("user %s: %w", key, err)
		}
		switch u.Role {
		case models.RoleAgent:
			out.TotalAgents++
			agents = append(agents, u)
		case models.RolePlayer:
			out.TotalPlayers++
			if u.ReferredBy != uuid.Nil {
				referred[u.ReferredBy]++
			}
		}
	}

	rawGames, err := s.store.List(ctx, ledger.GamesPrefix)
	if err != nil {
		return nil, err
	}
	for key, val := range rawGames {
		if !ledger.IsGameRecord(key) {
			continue
		}
		var g models.Game
		if err := json.Unmarshal(val, &g); err != nil {
			return nil, fmt.Errorf("game %s: %w", key, err)
		}
		out.TotalGames++
		if g.Status() == models.GameLive {
			out.LiveGames++
		}
		out.TotalRevenue += int64(g.SoldCount) * g.Config.TicketPrice
	}

	rawComms, err := s.store.List(ctx, ledger.CommissionsPrefix)
	if err != nil {
		return nil, err
	}
	for key, val := range rawComms {
		var c models.Commission
		if err := json.Unmarshal(val, &c); err != nil {
			return nil, fmt.Errorf("commission %s: %w", key, err)
		}
		out.TotalCommission += c.Amount
	}

	for _, a := range agents {
		out.Agents = append(out.Agents, AgentStats{
			AgentID:        a.ID,
			Name:           a.Name,
			CommissionRate: a.CommissionRate,
			Referred:       referred[a.ID],
			Earnings:       a.Earnings,
		})
	}
	sort.Slice(out.Agents, func(i, j int) bool {
		return out.Agents[i].Earnings > out.Agents[j].Earnings
	})
	return out, nil
}
