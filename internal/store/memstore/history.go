package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/NikBoi5469/Casino/internal/store"

	"github.com/shopspring/decimal"
)

// history keeps records in append order. stamp never moves backwards, so
// append order is also (CreatedAt, ID) order and newest-first is a reversal.
type history struct {
	mu sync.RWMutex

	lastAt    time.Time
	nextBetID int64
	nextTxID  int64

	bets      []store.BetRecord
	txs       []store.LedgerTransaction
	betsByAcc map[int64][]int
	txsByAcc  map[int64][]int
	staked    decimal.Decimal
}

func (h *history) init() {
	h.betsByAcc = make(map[int64][]int)
	h.txsByAcc = make(map[int64][]int)
	h.staked = decimal.Zero
}

// stamp must be called with mu held.
func (h *history) stamp(now time.Time) time.Time {
	if now.Before(h.lastAt) {
		now = h.lastAt
	}
	h.lastAt = now
	return now
}

func (h *history) appendBet(rec store.BetRecord, accountID int64, at time.Time) store.BetRecord {
	h.nextBetID++
	rec.ID = h.nextBetID
	rec.AccountID = accountID
	rec.CreatedAt = at
	h.betsByAcc[accountID] = append(h.betsByAcc[accountID], len(h.bets))
	h.bets = append(h.bets, rec)
	h.staked = h.staked.Add(rec.Stake)
	return rec
}

func (h *history) appendTransaction(rec store.LedgerTransaction, accountID int64, at time.Time) store.LedgerTransaction {
	h.nextTxID++
	rec.ID = h.nextTxID
	rec.AccountID = accountID
	rec.CreatedAt = at
	if rec.Status == "" {
		rec.Status = store.StatusCompleted
	}
	h.txsByAcc[accountID] = append(h.txsByAcc[accountID], len(h.txs))
	h.txs = append(h.txs, rec)
	return rec
}

func newestFirst[T any](in []T) []T {
	out := slices.Clone(in)
	slices.Reverse(out)
	if out == nil {
		out = []T{}
	}
	return out
}

func pick[T any](all []T, idx []int) []T {
	out := make([]T, 0, len(idx))
	for i := len(idx) - 1; i >= 0; i-- {
		out = append(out, all[idx[i]])
	}
	return out
}

// AppendBet records a bet without touching the balance.
func (s *Store) AppendBet(ctx context.Context, rec store.BetRecord) (*store.BetRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.epoch.RLock()
	defer s.epoch.RUnlock()
	e, err := s.lookup(rec.AccountID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	s.hist.mu.Lock()
	defer s.hist.mu.Unlock()
	out := s.hist.appendBet(rec, rec.AccountID, s.hist.stamp(s.now()))
	return &out, nil
}

// AppendTransaction records a transaction without touching the balance.
func (s *Store) AppendTransaction(ctx context.Context, rec store.LedgerTransaction) (*store.LedgerTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.epoch.RLock()
	defer s.epoch.RUnlock()
	e, err := s.lookup(rec.AccountID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	s.hist.mu.Lock()
	defer s.hist.mu.Unlock()
	out := s.hist.appendTransaction(rec, rec.AccountID, s.hist.stamp(s.now()))
	return &out, nil
}

// BetsByAccount holds the account's entry lock so the result always matches
// the balance readers can see.
func (s *Store) BetsByAccount(ctx context.Context, accountID int64) ([]store.BetRecord, error) {
	e, err := s.lookup(accountID)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	s.hist.mu.RLock()
	defer s.hist.mu.RUnlock()
	return pick(s.hist.bets, s.hist.betsByAcc[accountID]), nil
}

func (s *Store) TransactionsByAccount(ctx context.Context, accountID int64) ([]store.LedgerTransaction, error) {
	e, err := s.lookup(accountID)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	s.hist.mu.RLock()
	defer s.hist.mu.RUnlock()
	return pick(s.hist.txs, s.hist.txsByAcc[accountID]), nil
}

func (s *Store) RecentBets(ctx context.Context, limit int) ([]store.BetRecord, error) {
	s.hist.mu.RLock()
	defer s.hist.mu.RUnlock()
	n := len(s.hist.bets)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]store.BetRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.hist.bets[i])
	}
	return out, nil
}

func (s *Store) AllBets(ctx context.Context) ([]store.BetRecord, error) {
	s.hist.mu.RLock()
	defer s.hist.mu.RUnlock()
	return newestFirst(s.hist.bets), nil
}

func (s *Store) AllTransactions(ctx context.Context) ([]store.LedgerTransaction, error) {
	s.hist.mu.RLock()
	defer s.hist.mu.RUnlock()
	return newestFirst(s.hist.txs), nil
}

func (s *Store) TotalStakedVolume(ctx context.Context) (decimal.Decimal, error) {
	s.hist.mu.RLock()
	defer s.hist.mu.RUnlock()
	return s.hist.staked, nil
}

func (s *Store) CountBets(ctx context.Context) (int, error) {
	s.hist.mu.RLock()
	defer s.hist.mu.RUnlock()
	return len(s.hist.bets), nil
}
