package ledger

import (
	"context"
	"slices"

	"github.com/NikBoi5469/Casino/internal/events"
	"github.com/NikBoi5469/Casino/internal/money"
	"github.com/NikBoi5469/Casino/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	MethodCrypto = "crypto"
	MethodCard   = "card"
	MethodPayPal = "paypal"

	// MethodAdmin marks balance edits made from the admin console. Players
	// cannot submit it.
	MethodAdmin = "admin"
)

var playerMethods = []string{MethodCrypto, MethodCard, MethodPayPal}

// Methods lists the transaction methods a player may use.
func Methods() []string {
	return slices.Clone(playerMethods)
}

type TransactionResult struct {
	Transaction *store.LedgerTransaction `json:"transaction"`
	Account     *store.Account           `json:"user"`
}

// Process applies a player deposit or withdrawal.
func (l *Ledger) Process(ctx context.Context, accountID int64, kind string, amount decimal.Decimal, method string) (*TransactionResult, error) {
	if err := money.ValidatePositive(amount); err != nil {
		return nil, reject("transaction", ErrInvalidAmount)
	}
	k := store.TransactionKind(kind)
	if k != store.KindDeposit && k != store.KindWithdraw {
		return nil, reject("transaction", ErrUnknownKind)
	}
	if !slices.Contains(playerMethods, method) {
		return nil, reject("transaction", ErrUnknownMethod)
	}
	return l.apply(ctx, accountID, "transaction", func(acct store.Account) (store.Entry, error) {
		return transactionEntry(acct, k, amount, method)
	})
}

// Adjust sets an account's balance from the admin console, recording the
// difference as an admin-method transaction. The comparison with the current
// balance happens inside the settlement.
func (l *Ledger) Adjust(ctx context.Context, accountID int64, target decimal.Decimal) (*TransactionResult, error) {
	if target.IsNegative() || !target.Equal(target.Truncate(money.Scale)) {
		return nil, reject("adjust", ErrInvalidAmount)
	}
	return l.apply(ctx, accountID, "adjust", func(acct store.Account) (store.Entry, error) {
		delta := target.Sub(acct.Balance)
		switch delta.Sign() {
		case 0:
			return store.Entry{}, ErrBalanceUnchanged
		case 1:
			return transactionEntry(acct, store.KindDeposit, delta, MethodAdmin)
		default:
			return transactionEntry(acct, store.KindWithdraw, delta.Neg(), MethodAdmin)
		}
	})
}

func transactionEntry(acct store.Account, kind store.TransactionKind, amount decimal.Decimal, method string) (store.Entry, error) {
	next := acct.Balance.Add(amount)
	if kind == store.KindWithdraw {
		if amount.GreaterThan(acct.Balance) {
			return store.Entry{}, ErrInsufficientFunds
		}
		next = acct.Balance.Sub(amount)
	}
	return store.Entry{
		Balance: next,
		Profit:  acct.TotalProfit,
		Transaction: &store.LedgerTransaction{
			Kind:   kind,
			Amount: amount,
			Method: method,
			Status: store.StatusCompleted,
		},
	}, nil
}

func (l *Ledger) apply(ctx context.Context, accountID int64, op string, fn store.SettleFunc) (*TransactionResult, error) {
	res, err := l.store.Settle(ctx, accountID, fn)
	if err != nil {
		return nil, reject(op, mapStoreErr(err))
	}
	tx := res.Transaction
	metricTransactionsTotal.WithLabelValues(string(tx.Kind), tx.Method).Inc()
	log.Debug().
		Int64("account_id", accountID).
		Str("kind", string(tx.Kind)).
		Str("method", tx.Method).
		Str("amount", tx.Amount.String()).
		Str("balance", res.Account.Balance.String()).
		Msg("transaction settled")
	l.events.Publish(events.NewTransactionSettled(res))
	return &TransactionResult{Transaction: tx, Account: res.Account}, nil
}
