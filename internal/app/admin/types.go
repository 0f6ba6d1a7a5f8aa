package admin

import (
	"github.com/NikBoi5469/Casino/internal/money"
	"github.com/NikBoi5469/Casino/internal/store"
)

// PatchUserInput is a partial account edit. Nil fields are left alone.
type PatchUserInput struct {
	IsBanned *bool          `json:"is_banned"`
	IsAdmin  *bool          `json:"is_admin"`
	Password *string        `json:"password"`
	Balance  *money.Literal `json:"balance"`
}

type GameSettingsInput struct {
	Game     string         `json:"game"`
	Settings map[string]any `json:"settings"`
}

type UsersResponse struct {
	Items []store.Account `json:"items"`
}

type BetsResponse struct {
	Items []store.BetRecord `json:"items"`
}

type TransactionsResponse struct {
	Items []store.LedgerTransaction `json:"items"`
}

type GameSettingsResponse struct {
	Items []store.GameSettings `json:"items"`
}
