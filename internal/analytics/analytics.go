// Package analytics computes read-only rollups for the admin console. Every
// call works over a single store snapshot.
package analytics

import (
	"context"
	"slices"
	"time"

	"github.com/NikBoi5469/Casino/internal/game"
	"github.com/NikBoi5469/Casino/internal/store"

	"github.com/shopspring/decimal"
)

const (
	DefaultLeaderboardLimit = 10
	DefaultRecentLimit      = 10
)

type Config struct {
	ActiveWindow time.Duration
	HighRatio    decimal.Decimal
	MediumRatio  decimal.Decimal
	MinBets      int
}

func DefaultConfig() Config {
	return Config{
		ActiveWindow: 24 * time.Hour,
		HighRatio:    decimal.RequireFromString("1.5"),
		MediumRatio:  decimal.RequireFromString("1.1"),
		MinBets:      5,
	}
}

type Aggregator struct {
	store store.Store
	cfg   Config
}

func New(st store.Store, cfg Config) *Aggregator {
	return &Aggregator{store: st, cfg: cfg}
}

type GameStats struct {
	Game   game.ID         `json:"game"`
	Bets   int             `json:"bets"`
	Volume decimal.Decimal `json:"volume"`
	Payout decimal.Decimal `json:"payout"`
	// RTP is payout over volume, zero when nothing was staked.
	RTP decimal.Decimal `json:"rtp"`
}

type LeaderboardEntry struct {
	ID          int64           `json:"id"`
	Username    string          `json:"username"`
	Balance     decimal.Decimal `json:"balance"`
	TotalProfit decimal.Decimal `json:"total_profit"`
}

type Overview struct {
	TotalAccounts  int               `json:"total_users"`
	TotalBets      int               `json:"total_bets"`
	TotalVolume    decimal.Decimal   `json:"total_volume"`
	TotalPayout    decimal.Decimal   `json:"total_payout"`
	ActiveAccounts int               `json:"active_users"`
	RecentBets     []store.BetRecord `json:"recent_bets"`
	Games          []GameStats       `json:"game_stats"`
	Risk           []RiskItem        `json:"risk_analysis"`
	TakenAt        time.Time         `json:"taken_at"`
}

func (a *Aggregator) snapshot(ctx context.Context) (*store.Snapshot, error) {
	return a.store.Snapshot(ctx)
}

func (a *Aggregator) Overview(ctx context.Context) (*Overview, error) {
	snap, err := a.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := &Overview{
		TotalAccounts:  len(snap.Accounts),
		TotalBets:      len(snap.Bets),
		TotalVolume:    decimal.Zero,
		TotalPayout:    decimal.Zero,
		ActiveAccounts: len(activeAccounts(snap, a.cfg.ActiveWindow)),
		RecentBets:     recent(snap.Bets, DefaultRecentLimit),
		Games:          gameStats(snap.Bets),
		Risk:           riskAnalysis(snap, a.cfg),
		TakenAt:        snap.TakenAt,
	}
	for _, b := range snap.Bets {
		out.TotalVolume = out.TotalVolume.Add(b.Stake)
		out.TotalPayout = out.TotalPayout.Add(b.Payout)
	}
	return out, nil
}

// Leaderboard ranks accounts by balance, ties broken by id. limit is
// clamped to [1, DefaultLeaderboardLimit].
func (a *Aggregator) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > DefaultLeaderboardLimit {
		limit = DefaultLeaderboardLimit
	}
	accounts, err := a.store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(accounts, func(x, y store.Account) int {
		if c := y.Balance.Cmp(x.Balance); c != 0 {
			return c
		}
		switch {
		case x.ID < y.ID:
			return -1
		case x.ID > y.ID:
			return 1
		}
		return 0
	})
	if len(accounts) > limit {
		accounts = accounts[:limit]
	}
	out := make([]LeaderboardEntry, 0, len(accounts))
	for _, acct := range accounts {
		out = append(out, LeaderboardEntry{
			ID:          acct.ID,
			Username:    acct.Handle,
			Balance:     acct.Balance,
			TotalProfit: acct.TotalProfit,
		})
	}
	return out, nil
}

func (a *Aggregator) ActiveAccounts(ctx context.Context) ([]store.Account, error) {
	snap, err := a.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return activeAccounts(snap, a.cfg.ActiveWindow), nil
}

func (a *Aggregator) RiskAnalysis(ctx context.Context) ([]RiskItem, error) {
	snap, err := a.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return riskAnalysis(snap, a.cfg), nil
}

func activeAccounts(snap *store.Snapshot, window time.Duration) []store.Account {
	cutoff := snap.TakenAt.Add(-window)
	active := make(map[int64]bool)
	for _, b := range snap.Bets {
		// Bets are newest first.
		if b.CreatedAt.Before(cutoff) {
			break
		}
		active[b.AccountID] = true
	}
	out := []store.Account{}
	for _, acct := range snap.Accounts {
		if active[acct.ID] {
			out = append(out, acct)
		}
	}
	return out
}

func recent(bets []store.BetRecord, limit int) []store.BetRecord {
	if len(bets) > limit {
		bets = bets[:limit]
	}
	return slices.Clone(bets)
}

func gameStats(bets []store.BetRecord) []GameStats {
	byGame := make(map[game.ID]*GameStats)
	out := make([]GameStats, 0, len(game.All()))
	for _, g := range game.All() {
		byGame[g] = &GameStats{Game: g, Volume: decimal.Zero, Payout: decimal.Zero, RTP: decimal.Zero}
	}
	for _, b := range bets {
		gs, ok := byGame[b.Game]
		if !ok {
			continue
		}
		gs.Bets++
		gs.Volume = gs.Volume.Add(b.Stake)
		gs.Payout = gs.Payout.Add(b.Payout)
	}
	for _, g := range game.All() {
		gs := byGame[g]
		if gs.Volume.IsPositive() {
			gs.RTP = gs.Payout.DivRound(gs.Volume, 4)
		}
		out = append(out, *gs)
	}
	return out
}
