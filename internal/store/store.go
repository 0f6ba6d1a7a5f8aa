// Package store defines the account and history contracts shared by the
// in-memory and Postgres backends.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidEntry = errors.New("invalid_entry")

type AccountStore interface {
	GetAccount(ctx context.Context, id int64) (*Account, error)
	GetAccountByHandle(ctx context.Context, handle string) (*Account, error)
	CreateAccount(ctx context.Context, handle, credential string) (*Account, error)
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) (*Account, error)
	ApplyPartialUpdate(ctx context.Context, id int64, patch AccountPatch) (*Account, error)
	ListAccounts(ctx context.Context) ([]Account, error)
}

type HistoryStore interface {
	AppendBet(ctx context.Context, rec BetRecord) (*BetRecord, error)
	AppendTransaction(ctx context.Context, rec LedgerTransaction) (*LedgerTransaction, error)
	BetsByAccount(ctx context.Context, accountID int64) ([]BetRecord, error)
	TransactionsByAccount(ctx context.Context, accountID int64) ([]LedgerTransaction, error)
	RecentBets(ctx context.Context, limit int) ([]BetRecord, error)
	AllBets(ctx context.Context) ([]BetRecord, error)
	AllTransactions(ctx context.Context) ([]LedgerTransaction, error)
	TotalStakedVolume(ctx context.Context) (decimal.Decimal, error)
	CountBets(ctx context.Context) (int, error)
}

type SettingsStore interface {
	GameSettings(ctx context.Context, game string) (*GameSettings, error)
	ListGameSettings(ctx context.Context) ([]GameSettings, error)
	PutGameSettings(ctx context.Context, game string, values map[string]any) (*GameSettings, error)
}

// SettleFunc computes the next state of an account. It runs inside the
// account's exclusive section; returning an error aborts without mutation.
type SettleFunc func(acct Account) (Entry, error)

type Store interface {
	AccountStore
	HistoryStore
	SettingsStore

	// Settle applies fn to the current account and commits the new balance,
	// profit and history record as one unit.
	Settle(ctx context.Context, accountID int64, fn SettleFunc) (*Settled, error)
	Snapshot(ctx context.Context) (*Snapshot, error)
	Ping(ctx context.Context) error
	Close()
}

// Validate checks the shape of an Entry before it is committed.
func (e Entry) Validate() error {
	if (e.Bet == nil) == (e.Transaction == nil) {
		return ErrInvalidEntry
	}
	if e.Balance.IsNegative() {
		return ErrNegativeBalance
	}
	return nil
}

// Newer orders history newest first: later CreatedAt, then higher id.
func Newer(aAt time.Time, aID int64, bAt time.Time, bID int64) bool {
	if !aAt.Equal(bAt) {
		return aAt.After(bAt)
	}
	return aID > bID
}
