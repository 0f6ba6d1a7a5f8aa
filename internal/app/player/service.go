package player

import (
	"context"

	"github.com/NikBoi5469/Casino/internal/ledger"
	"github.com/NikBoi5469/Casino/internal/money"
	"github.com/NikBoi5469/Casino/internal/store"
)

// Service is the authenticated player surface. Callers pass the account
// already resolved from the session.
type Service struct {
	ledger *ledger.Ledger
	store  store.HistoryStore
}

func NewService(l *ledger.Ledger, st store.HistoryStore) *Service {
	return &Service{ledger: l, store: st}
}

func (s *Service) PlaceWager(ctx context.Context, acct *store.Account, in WagerInput) (*ledger.WagerResult, error) {
	if acct == nil {
		return nil, ErrInvalidRequest
	}
	stake, err := money.Parse(string(in.Amount))
	if err != nil {
		return nil, ledger.ErrInvalidStake
	}
	return s.ledger.Resolve(ctx, acct.ID, in.Game, stake)
}

func (s *Service) PlaceTransaction(ctx context.Context, acct *store.Account, in TransactionInput) (*ledger.TransactionResult, error) {
	if acct == nil {
		return nil, ErrInvalidRequest
	}
	amount, err := money.Parse(string(in.Amount))
	if err != nil {
		return nil, ledger.ErrInvalidAmount
	}
	return s.ledger.Process(ctx, acct.ID, in.Type, amount, in.Method)
}

func (s *Service) Bets(ctx context.Context, acct *store.Account) (*BetsResponse, error) {
	if acct == nil {
		return nil, ErrInvalidRequest
	}
	items, err := s.store.BetsByAccount(ctx, acct.ID)
	if err != nil {
		return nil, err
	}
	return &BetsResponse{Items: items}, nil
}

func (s *Service) Transactions(ctx context.Context, acct *store.Account) (*TransactionsResponse, error) {
	if acct == nil {
		return nil, ErrInvalidRequest
	}
	items, err := s.store.TransactionsByAccount(ctx, acct.ID)
	if err != nil {
		return nil, err
	}
	return &TransactionsResponse{Items: items}, nil
}
