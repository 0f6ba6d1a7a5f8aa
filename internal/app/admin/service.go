// Package admin is the console surface. Callers must already have checked the
// administrator flag.
package admin

import (
	"context"
	"errors"

	"github.com/NikBoi5469/Casino/internal/analytics"
	"github.com/NikBoi5469/Casino/internal/app/session"
	"github.com/NikBoi5469/Casino/internal/game"
	"github.com/NikBoi5469/Casino/internal/ledger"
	"github.com/NikBoi5469/Casino/internal/money"
	"github.com/NikBoi5469/Casino/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const recentBetsMax = 100

type Service struct {
	store  store.Store
	ledger *ledger.Ledger
	agg    *analytics.Aggregator
}

func NewService(st store.Store, l *ledger.Ledger, agg *analytics.Aggregator) *Service {
	return &Service{store: st, ledger: l, agg: agg}
}

func (s *Service) Users(ctx context.Context) (*UsersResponse, error) {
	items, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	return &UsersResponse{Items: items}, nil
}

// PatchUser validates every field before applying any of them. A balance edit
// is settled through the ledger, which compares against the balance it holds
// under the account lock.
func (s *Service) PatchUser(ctx context.Context, id int64, in PatchUserInput) (*store.Account, error) {
	if in.IsBanned == nil && in.IsAdmin == nil && in.Password == nil && in.Balance == nil {
		return nil, ErrInvalidRequest
	}
	var target *decimal.Decimal
	if in.Balance != nil {
		d, err := money.ParseBalance(string(*in.Balance))
		if err != nil {
			return nil, ledger.ErrInvalidAmount
		}
		target = &d
	}
	patch := store.AccountPatch{IsAdmin: in.IsAdmin, IsBanned: in.IsBanned}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, ErrInvalidRequest
		}
		cred, err := session.HashCredential(*in.Password)
		if err != nil {
			return nil, err
		}
		patch.Credential = &cred
	}
	hasPatch := patch.IsAdmin != nil || patch.IsBanned != nil || patch.Credential != nil

	var acct *store.Account
	adjusted := false
	if target != nil {
		res, err := s.ledger.Adjust(ctx, id, *target)
		switch {
		case err == nil:
			acct, adjusted = res.Account, true
		case errors.Is(err, ledger.ErrBalanceUnchanged):
		default:
			return nil, err
		}
	}
	var err error
	switch {
	case hasPatch:
		acct, err = s.store.ApplyPartialUpdate(ctx, id, patch)
	case acct == nil:
		acct, err = s.store.GetAccount(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	log.Info().Int64("account_id", id).
		Bool("balance", adjusted).
		Bool("flags", patch.IsAdmin != nil || patch.IsBanned != nil).
		Bool("password", patch.Credential != nil).
		Msg("account updated by admin")
	return acct, nil
}

func (s *Service) Analytics(ctx context.Context) (*analytics.Overview, error) {
	return s.agg.Overview(ctx)
}

func (s *Service) RecentBets(ctx context.Context, limit int) (*BetsResponse, error) {
	if limit <= 0 {
		limit = analytics.DefaultRecentLimit
	}
	if limit > recentBetsMax {
		limit = recentBetsMax
	}
	items, err := s.store.RecentBets(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &BetsResponse{Items: items}, nil
}

func (s *Service) Transactions(ctx context.Context) (*TransactionsResponse, error) {
	items, err := s.store.AllTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return &TransactionsResponse{Items: items}, nil
}

func (s *Service) ListGameSettings(ctx context.Context) (*GameSettingsResponse, error) {
	items, err := s.store.ListGameSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &GameSettingsResponse{Items: items}, nil
}

func (s *Service) GameSettings(ctx context.Context, name string) (*store.GameSettings, error) {
	if _, err := game.Parse(name); err != nil {
		return nil, ledger.ErrUnknownGame
	}
	return s.store.GameSettings(ctx, name)
}

func (s *Service) PutGameSettings(ctx context.Context, in GameSettingsInput) (*store.GameSettings, error) {
	if _, err := game.Parse(in.Game); err != nil {
		return nil, ledger.ErrUnknownGame
	}
	return s.store.PutGameSettings(ctx, in.Game, in.Settings)
}
