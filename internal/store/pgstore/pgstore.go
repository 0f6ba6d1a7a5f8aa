// Package pgstore is the Postgres Store backend. Balance updates and their
// history rows commit in one transaction under a row lock on the account.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NikBoi5469/Casino/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const uniqueViolation = "23505"

type Store struct {
	Pool            *pgxpool.Pool
	startingBalance decimal.Decimal
}

var _ store.Store = (*Store)(nil)

func New(ctx context.Context, dsn string, startingBalance decimal.Decimal) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool, startingBalance: startingBalance}, nil
}

func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Pool.Ping(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const accountColumns = `id, handle, credential, balance, total_profit, is_admin, is_banned, created_at`

func scanAccount(row rowScanner) (*store.Account, error) {
	var a store.Account
	var bal, profit pgtype.Numeric
	if err := row.Scan(&a.ID, &a.Handle, &a.Credential, &bal, &profit, &a.IsAdmin, &a.IsBanned, &a.CreatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	var err error
	if a.Balance, err = numericVal(bal); err != nil {
		return nil, err
	}
	if a.TotalProfit, err = numericVal(profit); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) GetAccount(ctx context.Context, id int64) (*store.Account, error) {
	return scanAccount(s.Pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

func (s *Store) GetAccountByHandle(ctx context.Context, handle string) (*store.Account, error) {
	return scanAccount(s.Pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE handle = $1`, handle))
}

func (s *Store) CreateAccount(ctx context.Context, handle, credential string) (*store.Account, error) {
	bal, err := numericParam(s.startingBalance)
	if err != nil {
		return nil, err
	}
	acct, err := scanAccount(s.Pool.QueryRow(ctx, `
		INSERT INTO accounts (handle, credential, balance, total_profit)
		VALUES ($1, $2, $3, 0)
		RETURNING `+accountColumns, handle, credential, bal))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, store.ErrDuplicateHandle
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return acct, nil
}

func (s *Store) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) (*store.Account, error) {
	if balance.IsNegative() {
		return nil, store.ErrNegativeBalance
	}
	bal, err := numericParam(balance)
	if err != nil {
		return nil, err
	}
	return scanAccount(s.Pool.QueryRow(ctx, `
		UPDATE accounts SET balance = $1 WHERE id = $2
		RETURNING `+accountColumns, bal, id))
}

func (s *Store) ApplyPartialUpdate(ctx context.Context, id int64, patch store.AccountPatch) (*store.Account, error) {
	return scanAccount(s.Pool.QueryRow(ctx, `
		UPDATE accounts SET
			is_admin = COALESCE($2, is_admin),
			is_banned = COALESCE($3, is_banned),
			credential = COALESCE($4, credential)
		WHERE id = $1
		RETURNING `+accountColumns, id, boolPtrParam(patch.IsAdmin), boolPtrParam(patch.IsBanned), textPtrParam(patch.Credential)))
}

func (s *Store) ListAccounts(ctx context.Context) ([]store.Account, error) {
	return listAccounts(ctx, s.Pool)
}

func listAccounts(ctx context.Context, q querier) ([]store.Account, error) {
	rows, err := q.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []store.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// Settle locks the account row, runs fn and writes the record and balance in
// one transaction.
func (s *Store) Settle(ctx context.Context, accountID int64, fn store.SettleFunc) (*store.Settled, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	acct, err := scanAccount(tx.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, accountID))
	if err != nil {
		return nil, err
	}
	next, err := fn(*acct)
	if err != nil {
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}

	out := &store.Settled{}
	if next.Bet != nil {
		rec := *next.Bet
		rec.AccountID = accountID
		if err := insertBet(ctx, tx, &rec); err != nil {
			return nil, err
		}
		out.Bet = &rec
	} else {
		rec := *next.Transaction
		rec.AccountID = accountID
		if err := insertTransaction(ctx, tx, &rec); err != nil {
			return nil, err
		}
		out.Transaction = &rec
	}

	bal, err := numericParam(next.Balance)
	if err != nil {
		return nil, err
	}
	profit, err := numericParam(next.Profit)
	if err != nil {
		return nil, err
	}
	updated, err := scanAccount(tx.QueryRow(ctx, `
		UPDATE accounts SET balance = $1, total_profit = $2 WHERE id = $3
		RETURNING `+accountColumns, bal, profit, accountID))
	if err != nil {
		return nil, fmt.Errorf("update balance: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	out.Account = updated
	return out, nil
}

// Snapshot reads everything inside one repeatable-read transaction.
func (s *Store) Snapshot(ctx context.Context) (*store.Snapshot, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var takenAt time.Time
	if err := tx.QueryRow(ctx, `SELECT now()`).Scan(&takenAt); err != nil {
		return nil, err
	}
	accounts, err := listAccounts(ctx, tx)
	if err != nil {
		return nil, err
	}
	bets, err := queryBets(ctx, tx, `SELECT `+betColumns+` FROM bets ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	txs, err := queryTransactions(ctx, tx, `SELECT `+txColumns+` FROM ledger_transactions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return &store.Snapshot{Accounts: accounts, Bets: bets, Transactions: txs, TakenAt: takenAt}, nil
}

func (s *Store) GameSettings(ctx context.Context, game string) (*store.GameSettings, error) {
	var gs store.GameSettings
	err := s.Pool.QueryRow(ctx, `SELECT game, settings, updated_at FROM game_settings WHERE game = $1`, game).
		Scan(&gs.Game, &gs.Values, &gs.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &gs, nil
}

func (s *Store) ListGameSettings(ctx context.Context) ([]store.GameSettings, error) {
	rows, err := s.Pool.Query(ctx, `SELECT game, settings, updated_at FROM game_settings ORDER BY game ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []store.GameSettings{}
	for rows.Next() {
		var gs store.GameSettings
		if err := rows.Scan(&gs.Game, &gs.Values, &gs.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, gs)
	}
	return out, rows.Err()
}

func (s *Store) PutGameSettings(ctx context.Context, game string, values map[string]any) (*store.GameSettings, error) {
	if values == nil {
		values = map[string]any{}
	}
	var gs store.GameSettings
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO game_settings (game, settings, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (game) DO UPDATE
		SET settings = EXCLUDED.settings,
		    updated_at = now()
		RETURNING game, settings, updated_at
	`, game, values).Scan(&gs.Game, &gs.Values, &gs.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("put game settings: %w", err)
	}
	return &gs, nil
}
