// Package events publishes committed settlements to downstream consumers.
package events

import (
	"time"

	"github.com/NikBoi5469/Casino/internal/store"

	"github.com/shopspring/decimal"
)

type Type string

const (
	WagerSettled       Type = "wager_settled"
	TransactionSettled Type = "transaction_settled"
)

type Event struct {
	Type        Type                     `json:"type"`
	AccountID   int64                    `json:"account_id"`
	Bet         *store.BetRecord         `json:"bet,omitempty"`
	Transaction *store.LedgerTransaction `json:"transaction,omitempty"`
	Balance     decimal.Decimal          `json:"balance"`
	TsUnixMS    int64                    `json:"ts_unix_ms"`
}

func NewWagerSettled(s *store.Settled) Event {
	return Event{
		Type:      WagerSettled,
		AccountID: s.Account.ID,
		Bet:       s.Bet,
		Balance:   s.Account.Balance,
		TsUnixMS:  s.Bet.CreatedAt.UnixMilli(),
	}
}

func NewTransactionSettled(s *store.Settled) Event {
	return Event{
		Type:        TransactionSettled,
		AccountID:   s.Account.ID,
		Transaction: s.Transaction,
		Balance:     s.Account.Balance,
		TsUnixMS:    s.Transaction.CreatedAt.UnixMilli(),
	}
}

// Publisher accepts events without blocking the caller.
type Publisher interface {
	Publish(e Event)
}

type Noop struct{}

func (Noop) Publish(Event) {}

func nowMS() int64 { return time.Now().UnixMilli() }
