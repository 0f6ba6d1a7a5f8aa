package store

import (
	"time"

	"github.com/NikBoi5469/Casino/internal/game"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID          int64           `json:"id"`
	Handle      string          `json:"username"`
	Credential  string          `json:"-"`
	Balance     decimal.Decimal `json:"balance"`
	IsAdmin     bool            `json:"is_admin"`
	IsBanned    bool            `json:"is_banned"`
	TotalProfit decimal.Decimal `json:"total_profit"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AccountPatch carries the optional fields of an administrative edit.
type AccountPatch struct {
	IsAdmin    *bool
	IsBanned   *bool
	Credential *string
}

type BetRecord struct {
	ID         int64           `json:"id"`
	AccountID  int64           `json:"user_id"`
	Game       game.ID         `json:"game"`
	Stake      decimal.Decimal `json:"amount"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Payout     decimal.Decimal `json:"payout"`
	CreatedAt  time.Time       `json:"created_at"`
}

type TransactionKind string

const (
	KindDeposit  TransactionKind = "deposit"
	KindWithdraw TransactionKind = "withdraw"
)

type TransactionStatus string

const StatusCompleted TransactionStatus = "completed"

type LedgerTransaction struct {
	ID        int64             `json:"id"`
	AccountID int64             `json:"user_id"`
	Kind      TransactionKind   `json:"type"`
	Amount    decimal.Decimal   `json:"amount"`
	Method    string            `json:"method"`
	Status    TransactionStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

type GameSettings struct {
	Game      string         `json:"game"`
	Values    map[string]any `json:"settings"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Entry is what a SettleFunc decides: the account's next balance and profit,
// and exactly one history record to append alongside them.
type Entry struct {
	Balance     decimal.Decimal
	Profit      decimal.Decimal
	Bet         *BetRecord
	Transaction *LedgerTransaction
}

// Settled is the committed outcome of Settle.
type Settled struct {
	Account     *Account
	Bet         *BetRecord
	Transaction *LedgerTransaction
}

// Snapshot is one consistent view of every account and record.
type Snapshot struct {
	Accounts     []Account
	Bets         []BetRecord
	Transactions []LedgerTransaction
	TakenAt      time.Time
}
