package ledger

import (
	"context"

	"github.com/NikBoi5469/Casino/internal/events"
	"github.com/NikBoi5469/Casino/internal/game"
	"github.com/NikBoi5469/Casino/internal/money"
	"github.com/NikBoi5469/Casino/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type WagerResult struct {
	Bet     *store.BetRecord `json:"bet"`
	Account *store.Account   `json:"user"`
}

// Resolve debits stake, draws the game's multiplier and credits the payout as
// one settlement.
func (l *Ledger) Resolve(ctx context.Context, accountID int64, gameName string, stake decimal.Decimal) (*WagerResult, error) {
	if err := money.ValidatePositive(stake); err != nil {
		return nil, reject("wager", ErrInvalidStake)
	}
	g := game.ID(gameName)
	policy, err := game.PolicyFor(g)
	if err != nil {
		return nil, reject("wager", ErrUnknownGame)
	}

	res, err := l.store.Settle(ctx, accountID, func(acct store.Account) (store.Entry, error) {
		if stake.GreaterThan(acct.Balance) {
			return store.Entry{}, ErrInsufficientFunds
		}
		m := policy.Draw(l.rng)
		payout := money.Round(stake.Mul(m))
		return store.Entry{
			Balance: acct.Balance.Sub(stake).Add(payout),
			Profit:  acct.TotalProfit.Add(payout).Sub(stake),
			Bet: &store.BetRecord{
				Game:       g,
				Stake:      stake,
				Multiplier: m,
				Payout:     payout,
			},
		}, nil
	})
	if err != nil {
		return nil, reject("wager", mapStoreErr(err))
	}

	metricWagersTotal.WithLabelValues(string(g)).Inc()
	metricWagerStakeTotal.WithLabelValues(string(g)).Add(stake.InexactFloat64())
	metricWagerPayoutTotal.WithLabelValues(string(g)).Add(res.Bet.Payout.InexactFloat64())
	log.Debug().
		Int64("account_id", accountID).
		Str("game", string(g)).
		Str("stake", stake.String()).
		Str("multiplier", res.Bet.Multiplier.String()).
		Str("balance", res.Account.Balance.String()).
		Msg("wager settled")
	l.events.Publish(events.NewWagerSettled(res))

	return &WagerResult{Bet: res.Bet, Account: res.Account}, nil
}
