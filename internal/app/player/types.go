package player

import (
	"github.com/NikBoi5469/Casino/internal/money"
	"github.com/NikBoi5469/Casino/internal/store"
)

type WagerInput struct {
	Game   string        `json:"game"`
	Amount money.Literal `json:"amount"`
}

type TransactionInput struct {
	Type   string        `json:"type"`
	Amount money.Literal `json:"amount"`
	Method string        `json:"method"`
}

type BetsResponse struct {
	Items []store.BetRecord `json:"items"`
}

type TransactionsResponse struct {
	Items []store.LedgerTransaction `json:"items"`
}
