// Package memstore is the in-process Store backend.
//
// Locking: writers hold epoch shared and Snapshot holds it exclusively. Inside
// an epoch the order is mu, then an account's entry lock, then history.mu.
// mu is never held while waiting on an entry lock.
package memstore

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/NikBoi5469/Casino/internal/store"

	"github.com/shopspring/decimal"
)

type entry struct {
	mu   sync.RWMutex
	acct store.Account
}

type Store struct {
	epoch sync.RWMutex

	mu       sync.RWMutex
	accounts map[int64]*entry
	byHandle map[string]int64
	nextID   int64

	hist history

	settingsMu sync.RWMutex
	settings   map[string]store.GameSettings

	startingBalance decimal.Decimal
	now             func() time.Time
}

type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(startingBalance decimal.Decimal, opts ...Option) *Store {
	s := &Store{
		accounts:        make(map[int64]*entry),
		byHandle:        make(map[string]int64),
		settings:        make(map[string]store.GameSettings),
		startingBalance: startingBalance,
		now:             time.Now,
	}
	s.hist.init()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ store.Store = (*Store)(nil)

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() {}

func (s *Store) lookup(id int64) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.accounts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return e, nil
}

func (s *Store) GetAccount(ctx context.Context, id int64) (*store.Account, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	acct := e.acct
	e.mu.RUnlock()
	return &acct, nil
}

func (s *Store) GetAccountByHandle(ctx context.Context, handle string) (*store.Account, error) {
	s.mu.RLock()
	id, ok := s.byHandle[handle]
	s.mu.RUnlock()
	if !ok {
		return nil, store.ErrNotFound
	}
	return s.GetAccount(ctx, id)
}

func (s *Store) CreateAccount(ctx context.Context, handle, credential string) (*store.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.epoch.RLock()
	defer s.epoch.RUnlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byHandle[handle]; taken {
		return nil, store.ErrDuplicateHandle
	}
	s.nextID++
	acct := store.Account{
		ID:          s.nextID,
		Handle:      handle,
		Credential:  credential,
		Balance:     s.startingBalance,
		TotalProfit: decimal.Zero,
		CreatedAt:   s.now(),
	}
	s.accounts[acct.ID] = &entry{acct: acct}
	s.byHandle[handle] = acct.ID
	return &acct, nil
}

func (s *Store) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) (*store.Account, error) {
	if balance.IsNegative() {
		return nil, store.ErrNegativeBalance
	}
	return s.mutate(ctx, id, func(a *store.Account) { a.Balance = balance })
}

func (s *Store) ApplyPartialUpdate(ctx context.Context, id int64, patch store.AccountPatch) (*store.Account, error) {
	return s.mutate(ctx, id, func(a *store.Account) {
		if patch.IsAdmin != nil {
			a.IsAdmin = *patch.IsAdmin
		}
		if patch.IsBanned != nil {
			a.IsBanned = *patch.IsBanned
		}
		if patch.Credential != nil {
			a.Credential = *patch.Credential
		}
	})
}

func (s *Store) mutate(ctx context.Context, id int64, apply func(*store.Account)) (*store.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.epoch.RLock()
	defer s.epoch.RUnlock()
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	next := e.acct
	apply(&next)
	e.acct = next
	return &next, nil
}

// ListAccounts returns every account ordered by id.
func (s *Store) ListAccounts(ctx context.Context) ([]store.Account, error) {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.accounts))
	for _, e := range s.accounts {
		entries = append(entries, e)
	}
	s.mu.RUnlock()
	out := make([]store.Account, 0, len(entries))
	for _, e := range entries {
		e.mu.RLock()
		out = append(out, e.acct)
		e.mu.RUnlock()
	}
	slices.SortFunc(out, func(a, b store.Account) int { return cmpID(a.ID, b.ID) })
	return out, nil
}

func (s *Store) Settle(ctx context.Context, accountID int64, fn store.SettleFunc) (*store.Settled, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.epoch.RLock()
	defer s.epoch.RUnlock()
	e, err := s.lookup(accountID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := fn(e.acct)
	if err != nil {
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}

	out := &store.Settled{}
	s.hist.mu.Lock()
	at := s.hist.stamp(s.now())
	if next.Bet != nil {
		rec := s.hist.appendBet(*next.Bet, accountID, at)
		out.Bet = &rec
	} else {
		rec := s.hist.appendTransaction(*next.Transaction, accountID, at)
		out.Transaction = &rec
	}
	s.hist.mu.Unlock()

	e.acct.Balance = next.Balance
	e.acct.TotalProfit = next.Profit
	acct := e.acct
	out.Account = &acct
	return out, nil
}

// Snapshot blocks writers for the duration of the copy.
func (s *Store) Snapshot(ctx context.Context) (*store.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.epoch.Lock()
	defer s.epoch.Unlock()
	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	s.hist.mu.RLock()
	defer s.hist.mu.RUnlock()
	return &store.Snapshot{
		Accounts:     accounts,
		Bets:         newestFirst(s.hist.bets),
		Transactions: newestFirst(s.hist.txs),
		TakenAt:      s.now(),
	}, nil
}

func (s *Store) GameSettings(ctx context.Context, game string) (*store.GameSettings, error) {
	s.settingsMu.RLock()
	defer s.settingsMu.RUnlock()
	gs, ok := s.settings[game]
	if !ok {
		return nil, store.ErrNotFound
	}
	gs.Values = maps.Clone(gs.Values)
	return &gs, nil
}

func (s *Store) ListGameSettings(ctx context.Context) ([]store.GameSettings, error) {
	s.settingsMu.RLock()
	defer s.settingsMu.RUnlock()
	out := make([]store.GameSettings, 0, len(s.settings))
	for _, gs := range s.settings {
		gs.Values = maps.Clone(gs.Values)
		out = append(out, gs)
	}
	slices.SortFunc(out, func(a, b store.GameSettings) int {
		switch {
		case a.Game < b.Game:
			return -1
		case a.Game > b.Game:
			return 1
		}
		return 0
	})
	return out, nil
}

func (s *Store) PutGameSettings(ctx context.Context, game string, values map[string]any) (*store.GameSettings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if values == nil {
		values = map[string]any{}
	}
	gs := store.GameSettings{Game: game, Values: maps.Clone(values), UpdatedAt: s.now()}
	s.settingsMu.Lock()
	s.settings[game] = gs
	s.settingsMu.Unlock()
	gs.Values = maps.Clone(gs.Values)
	return &gs, nil
}

func cmpID(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
