package analytics

import (
	"slices"

	"github.com/NikBoi5469/Casino/internal/store"

	"github.com/shopspring/decimal"
)

type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

type RiskItem struct {
	AccountID   int64           `json:"user_id"`
	Username    string          `json:"username"`
	Level       RiskLevel       `json:"level"`
	Ratio       decimal.Decimal `json:"ratio"`
	Bets        int             `json:"bets"`
	Staked      decimal.Decimal `json:"staked"`
	Paid        decimal.Decimal `json:"paid"`
	Description string          `json:"description"`
	Action      string          `json:"action"`
}

var riskText = map[RiskLevel][2]string{
	RiskHigh:   {"Payouts far above stakes over a sustained run of bets", "Review account activity and consider limits"},
	RiskMedium: {"Payouts above stakes", "Monitor"},
	RiskLow:    {"Payouts within expected range", "No action"},
}

func classify(ratio decimal.Decimal, bets int, cfg Config) RiskLevel {
	switch {
	case ratio.GreaterThanOrEqual(cfg.HighRatio) && bets >= cfg.MinBets:
		return RiskHigh
	case ratio.GreaterThanOrEqual(cfg.MediumRatio):
		return RiskMedium
	default:
		return RiskLow
	}
}

var levelRank = map[RiskLevel]int{RiskHigh: 0, RiskMedium: 1, RiskLow: 2}

// riskAnalysis covers every account with at least one bet, highest risk first.
func riskAnalysis(snap *store.Snapshot, cfg Config) []RiskItem {
	type tally struct {
		bets   int
		staked decimal.Decimal
		paid   decimal.Decimal
	}
	totals := make(map[int64]*tally)
	for _, b := range snap.Bets {
		t := totals[b.AccountID]
		if t == nil {
			t = &tally{staked: decimal.Zero, paid: decimal.Zero}
			totals[b.AccountID] = t
		}
		t.bets++
		t.staked = t.staked.Add(b.Stake)
		t.paid = t.paid.Add(b.Payout)
	}

	out := []RiskItem{}
	for _, acct := range snap.Accounts {
		t := totals[acct.ID]
		if t == nil || !t.staked.IsPositive() {
			continue
		}
		ratio := t.paid.DivRound(t.staked, 4)
		level := classify(ratio, t.bets, cfg)
		out = append(out, RiskItem{
			AccountID:   acct.ID,
			Username:    acct.Handle,
			Level:       level,
			Ratio:       ratio,
			Bets:        t.bets,
			Staked:      t.staked,
			Paid:        t.paid,
			Description: riskText[level][0],
			Action:      riskText[level][1],
		})
	}
	slices.SortStableFunc(out, func(a, b RiskItem) int {
		if c := levelRank[a.Level] - levelRank[b.Level]; c != 0 {
			return c
		}
		return b.Ratio.Cmp(a.Ratio)
	})
	return out
}
