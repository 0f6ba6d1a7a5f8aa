package pgstore

import (
	"context"
	"fmt"

	"github.com/NikBoi5469/Casino/internal/game"
	"github.com/NikBoi5469/Casino/internal/store"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const (
	betColumns = `id, account_id, game, stake, multiplier, payout, created_at`
	txColumns  = `id, account_id, kind, amount, method, status, created_at`
)

func scanBet(row rowScanner) (store.BetRecord, error) {
	var b store.BetRecord
	var g string
	var stake, mult, payout pgtype.Numeric
	if err := row.Scan(&b.ID, &b.AccountID, &g, &stake, &mult, &payout, &b.CreatedAt); err != nil {
		return b, err
	}
	b.Game = game.ID(g)
	var err error
	if b.Stake, err = numericVal(stake); err != nil {
		return b, err
	}
	if b.Multiplier, err = numericVal(mult); err != nil {
		return b, err
	}
	b.Payout, err = numericVal(payout)
	return b, err
}

func scanTransaction(row rowScanner) (store.LedgerTransaction, error) {
	var t store.LedgerTransaction
	var kind, status string
	var amount pgtype.Numeric
	if err := row.Scan(&t.ID, &t.AccountID, &kind, &amount, &t.Method, &status, &t.CreatedAt); err != nil {
		return t, err
	}
	t.Kind = store.TransactionKind(kind)
	t.Status = store.TransactionStatus(status)
	var err error
	t.Amount, err = numericVal(amount)
	return t, err
}

func queryBets(ctx context.Context, q querier, sql string, args ...any) ([]store.BetRecord, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []store.BetRecord{}
	for rows.Next() {
		b, err := scanBet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func queryTransactions(ctx context.Context, q querier, sql string, args ...any) ([]store.LedgerTransaction, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []store.LedgerTransaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func insertBet(ctx context.Context, q querier, rec *store.BetRecord) error {
	stake, err := numericParam(rec.Stake)
	if err != nil {
		return err
	}
	mult, err := numericParam(rec.Multiplier)
	if err != nil {
		return err
	}
	payout, err := numericParam(rec.Payout)
	if err != nil {
		return err
	}
	err = q.QueryRow(ctx, `
		INSERT INTO bets (account_id, game, stake, multiplier, payout)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, rec.AccountID, string(rec.Game), stake, mult, payout).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert bet: %w", mapForeignKey(err))
	}
	return nil
}

func insertTransaction(ctx context.Context, q querier, rec *store.LedgerTransaction) error {
	amount, err := numericParam(rec.Amount)
	if err != nil {
		return err
	}
	if rec.Status == "" {
		rec.Status = store.StatusCompleted
	}
	err = q.QueryRow(ctx, `
		INSERT INTO ledger_transactions (account_id, kind, amount, method, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, rec.AccountID, string(rec.Kind), amount, rec.Method, string(rec.Status)).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", mapForeignKey(err))
	}
	return nil
}

// AppendBet records a bet without touching the balance.
func (s *Store) AppendBet(ctx context.Context, rec store.BetRecord) (*store.BetRecord, error) {
	if err := insertBet(ctx, s.Pool, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// AppendTransaction records a transaction without touching the balance.
func (s *Store) AppendTransaction(ctx context.Context, rec store.LedgerTransaction) (*store.LedgerTransaction, error) {
	if err := insertTransaction(ctx, s.Pool, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) BetsByAccount(ctx context.Context, accountID int64) ([]store.BetRecord, error) {
	return queryBets(ctx, s.Pool, `SELECT `+betColumns+` FROM bets WHERE account_id = $1 ORDER BY created_at DESC, id DESC`, accountID)
}

func (s *Store) TransactionsByAccount(ctx context.Context, accountID int64) ([]store.LedgerTransaction, error) {
	return queryTransactions(ctx, s.Pool, `SELECT `+txColumns+` FROM ledger_transactions WHERE account_id = $1 ORDER BY created_at DESC, id DESC`, accountID)
}

func (s *Store) RecentBets(ctx context.Context, limit int) ([]store.BetRecord, error) {
	if limit <= 0 {
		return s.AllBets(ctx)
	}
	return queryBets(ctx, s.Pool, `SELECT `+betColumns+` FROM bets ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
}

func (s *Store) AllBets(ctx context.Context) ([]store.BetRecord, error) {
	return queryBets(ctx, s.Pool, `SELECT `+betColumns+` FROM bets ORDER BY created_at DESC, id DESC`)
}

func (s *Store) AllTransactions(ctx context.Context) ([]store.LedgerTransaction, error) {
	return queryTransactions(ctx, s.Pool, `SELECT `+txColumns+` FROM ledger_transactions ORDER BY created_at DESC, id DESC`)
}

func (s *Store) TotalStakedVolume(ctx context.Context) (decimal.Decimal, error) {
	var n pgtype.Numeric
	if err := s.Pool.QueryRow(ctx, `SELECT COALESCE(SUM(stake), 0) FROM bets`).Scan(&n); err != nil {
		return decimal.Zero, err
	}
	return numericVal(n)
}

func (s *Store) CountBets(ctx context.Context) (int, error) {
	var c int
	if err := s.Pool.QueryRow(ctx, `SELECT COUNT(1) FROM bets`).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}
