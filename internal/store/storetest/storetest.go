// Package storetest is the behavioral suite every store.Store backend must pass.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/NikBoi5469/Casino/internal/game"
	"github.com/NikBoi5469/Casino/internal/money"
	"github.com/NikBoi5469/Casino/internal/store"

	"github.com/shopspring/decimal"
)

// Factory opens an empty store whose new accounts start at the given balance.
type Factory func(t *testing.T, startingBalance decimal.Decimal) store.Store

var errAbort = errors.New("abort")

func Run(t *testing.T, open Factory) {
	t.Run("Accounts", func(t *testing.T) { testAccounts(t, open) })
	t.Run("Settle", func(t *testing.T) { testSettle(t, open) })
	t.Run("SettleAbort", func(t *testing.T) { testSettleAbort(t, open) })
	t.Run("History", func(t *testing.T) { testHistory(t, open) })
	t.Run("Settings", func(t *testing.T) { testSettings(t, open) })
	t.Run("Snapshot", func(t *testing.T) { testSnapshot(t, open) })
	t.Run("ConcurrentSettle", func(t *testing.T) { testConcurrentSettle(t, open) })
}

func testAccounts(t *testing.T, open Factory) {
	ctx := context.Background()
	st := open(t, money.MustParse("1000"))

	a, err := st.CreateAccount(ctx, "alice", "cred-a")
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	if !a.Balance.Equal(money.MustParse("1000")) || !a.TotalProfit.IsZero() || a.IsAdmin || a.IsBanned {
		t.Fatalf("new account = %+v, want balance 1000 and zero flags", a)
	}
	if _, err := st.CreateAccount(ctx, "alice", "other"); !errors.Is(err, store.ErrDuplicateHandle) {
		t.Fatalf("duplicate create error = %v, want %v", err, store.ErrDuplicateHandle)
	}
	b, err := st.CreateAccount(ctx, "bob", "cred-b")
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}
	if b.ID <= a.ID {
		t.Fatalf("bob id = %d, want > %d", b.ID, a.ID)
	}

	got, err := st.GetAccountByHandle(ctx, "alice")
	if err != nil || got.ID != a.ID || got.Credential != "cred-a" {
		t.Fatalf("GetAccountByHandle = %+v, %v", got, err)
	}
	if _, err := st.GetAccountByHandle(ctx, "Alice"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("case-folded lookup error = %v, want %v", err, store.ErrNotFound)
	}
	if _, err := st.GetAccount(ctx, 9999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetAccount(9999) error = %v, want %v", err, store.ErrNotFound)
	}

	updated, err := st.UpdateBalance(ctx, a.ID, money.MustParse("12.34"))
	if err != nil || !updated.Balance.Equal(money.MustParse("12.34")) {
		t.Fatalf("UpdateBalance = %+v, %v", updated, err)
	}
	if _, err := st.UpdateBalance(ctx, a.ID, money.MustParse("-1")); !errors.Is(err, store.ErrNegativeBalance) {
		t.Fatalf("negative UpdateBalance error = %v, want %v", err, store.ErrNegativeBalance)
	}
	if _, err := st.UpdateBalance(ctx, 9999, decimal.Zero); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("UpdateBalance(9999) error = %v, want %v", err, store.ErrNotFound)
	}

	yes := true
	cred := "rotated"
	patched, err := st.ApplyPartialUpdate(ctx, b.ID, store.AccountPatch{IsBanned: &yes, Credential: &cred})
	if err != nil {
		t.Fatalf("ApplyPartialUpdate: %v", err)
	}
	if !patched.IsBanned || patched.IsAdmin || patched.Credential != "rotated" {
		t.Fatalf("patched = %+v", patched)
	}
	if !patched.Balance.Equal(b.Balance) {
		t.Fatalf("patch changed balance to %s", patched.Balance)
	}
	if _, err := st.ApplyPartialUpdate(ctx, 9999, store.AccountPatch{IsAdmin: &yes}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("ApplyPartialUpdate(9999) error = %v, want %v", err, store.ErrNotFound)
	}

	list, err := st.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("ListAccounts: %v", err)
	}
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
		t.Fatalf("ListAccounts = %+v, want alice then bob", list)
	}
}

func betEntry(acct store.Account, g game.ID, stake, multiplier string) store.Entry {
	s := money.MustParse(stake)
	m := money.MustParse(multiplier)
	payout := money.Round(s.Mul(m))
	return store.Entry{
		Balance: acct.Balance.Sub(s).Add(payout),
		Profit:  acct.TotalProfit.Add(payout).Sub(s),
		Bet:     &store.BetRecord{Game: g, Stake: s, Multiplier: m, Payout: payout},
	}
}

func testSettle(t *testing.T, open Factory) {
	ctx := context.Background()
	st := open(t, money.MustParse("100"))
	a, _ := st.CreateAccount(ctx, "alice", "x")

	res, err := st.Settle(ctx, a.ID, func(acct store.Account) (store.Entry, error) {
		return betEntry(acct, game.Dice, "10", "1.5"), nil
	})
	if err != nil {
		t.Fatalf("Settle bet: %v", err)
	}
	if res.Bet == nil || res.Transaction != nil {
		t.Fatalf("Settle result = %+v, want a bet only", res)
	}
	if res.Bet.ID == 0 || res.Bet.AccountID != a.ID || res.Bet.CreatedAt.IsZero() {
		t.Fatalf("bet = %+v, want id, owner and timestamp assigned", res.Bet)
	}
	if !res.Account.Balance.Equal(money.MustParse("105")) || !res.Account.TotalProfit.Equal(money.MustParse("5")) {
		t.Fatalf("account = %+v, want balance 105 profit 5", res.Account)
	}

	res, err = st.Settle(ctx, a.ID, func(acct store.Account) (store.Entry, error) {
		amt := money.MustParse("25")
		return store.Entry{
			Balance:     acct.Balance.Add(amt),
			Profit:      acct.TotalProfit,
			Transaction: &store.LedgerTransaction{Kind: store.KindDeposit, Amount: amt, Method: "card", Status: store.StatusCompleted},
		}, nil
	})
	if err != nil {
		t.Fatalf("Settle deposit: %v", err)
	}
	if res.Transaction == nil || res.Transaction.Status != store.StatusCompleted {
		t.Fatalf("transaction = %+v", res.Transaction)
	}
	got, _ := st.GetAccount(ctx, a.ID)
	if !got.Balance.Equal(money.MustParse("130")) {
		t.Fatalf("balance = %s, want 130", got.Balance)
	}

	if _, err := st.Settle(ctx, 9999, func(store.Account) (store.Entry, error) {
		t.Fatal("fn called for missing account")
		return store.Entry{}, nil
	}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Settle(9999) error = %v, want %v", err, store.ErrNotFound)
	}
}

func testSettleAbort(t *testing.T, open Factory) {
	ctx := context.Background()
	st := open(t, money.MustParse("50"))
	a, _ := st.CreateAccount(ctx, "alice", "x")

	if _, err := st.Settle(ctx, a.ID, func(store.Account) (store.Entry, error) {
		return store.Entry{}, errAbort
	}); !errors.Is(err, errAbort) {
		t.Fatalf("Settle error = %v, want %v", err, errAbort)
	}
	if _, err := st.Settle(ctx, a.ID, func(acct store.Account) (store.Entry, error) {
		return betEntry(acct, game.Dice, "75", "0"), nil
	}); !errors.Is(err, store.ErrNegativeBalance) {
		t.Fatalf("overdraw error = %v, want %v", err, store.ErrNegativeBalance)
	}
	if _, err := st.Settle(ctx, a.ID, func(acct store.Account) (store.Entry, error) {
		return store.Entry{Balance: acct.Balance}, nil
	}); !errors.Is(err, store.ErrInvalidEntry) {
		t.Fatalf("empty entry error = %v, want %v", err, store.ErrInvalidEntry)
	}

	got, _ := st.GetAccount(ctx, a.ID)
	if !got.Balance.Equal(money.MustParse("50")) {
		t.Fatalf("balance = %s, want 50", got.Balance)
	}
	bets, _ := st.BetsByAccount(ctx, a.ID)
	txs, _ := st.TransactionsByAccount(ctx, a.ID)
	if len(bets) != 0 || len(txs) != 0 {
		t.Fatalf("history after aborts = %d bets, %d txs, want none", len(bets), len(txs))
	}
}

func testHistory(t *testing.T, open Factory) {
	ctx := context.Background()
	st := open(t, money.MustParse("1000"))
	a, _ := st.CreateAccount(ctx, "alice", "x")
	b, _ := st.CreateAccount(ctx, "bob", "x")

	for i, owner := range []int64{a.ID, b.ID, a.ID, b.ID, a.ID} {
		stake := decimal.NewFromInt(int64(i + 1))
		if _, err := st.AppendBet(ctx, store.BetRecord{AccountID: owner, Game: game.Slots, Stake: stake, Multiplier: decimal.Zero, Payout: decimal.Zero}); err != nil {
			t.Fatalf("AppendBet #%d: %v", i, err)
		}
	}
	if _, err := st.AppendBet(ctx, store.BetRecord{AccountID: 9999, Game: game.Dice, Stake: decimal.NewFromInt(1)}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("AppendBet for missing account error = %v, want %v", err, store.ErrNotFound)
	}
	if _, err := st.AppendTransaction(ctx, store.LedgerTransaction{AccountID: a.ID, Kind: store.KindDeposit, Amount: decimal.NewFromInt(3), Method: "crypto", Status: store.StatusCompleted}); err != nil {
		t.Fatalf("AppendTransaction: %v", err)
	}

	mine, _ := st.BetsByAccount(ctx, a.ID)
	if len(mine) != 3 {
		t.Fatalf("alice bets = %d, want 3", len(mine))
	}
	assertNewestFirst(t, mine)
	if !mine[0].Stake.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("newest alice stake = %s, want 5", mine[0].Stake)
	}

	recent, _ := st.RecentBets(ctx, 2)
	if len(recent) != 2 || !recent[0].Stake.Equal(decimal.NewFromInt(5)) || !recent[1].Stake.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("RecentBets(2) = %+v", recent)
	}
	all, _ := st.AllBets(ctx)
	if len(all) != 5 {
		t.Fatalf("AllBets = %d, want 5", len(all))
	}
	assertNewestFirst(t, all)

	vol, _ := st.TotalStakedVolume(ctx)
	if !vol.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("TotalStakedVolume = %s, want 15", vol)
	}
	n, _ := st.CountBets(ctx)
	if n != 5 {
		t.Fatalf("CountBets = %d, want 5", n)
	}
	txs, _ := st.AllTransactions(ctx)
	if len(txs) != 1 || txs[0].AccountID != a.ID {
		t.Fatalf("AllTransactions = %+v", txs)
	}
	bobTxs, _ := st.TransactionsByAccount(ctx, b.ID)
	if len(bobTxs) != 0 {
		t.Fatalf("bob transactions = %d, want 0", len(bobTxs))
	}
}

func assertNewestFirst(t *testing.T, bets []store.BetRecord) {
	t.Helper()
	for i := 1; i < len(bets); i++ {
		if !store.Newer(bets[i-1].CreatedAt, bets[i-1].ID, bets[i].CreatedAt, bets[i].ID) {
			t.Fatalf("bets[%d] (id %d) is not newer than bets[%d] (id %d)", i-1, bets[i-1].ID, i, bets[i].ID)
		}
	}
}

func testSettings(t *testing.T, open Factory) {
	ctx := context.Background()
	st := open(t, decimal.Zero)

	if _, err := st.GameSettings(ctx, "dice"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GameSettings before write error = %v, want %v", err, store.ErrNotFound)
	}
	if _, err := st.PutGameSettings(ctx, "slots", map[string]any{"reels": float64(5)}); err != nil {
		t.Fatalf("PutGameSettings: %v", err)
	}
	if _, err := st.PutGameSettings(ctx, "dice", map[string]any{"theme": "neon"}); err != nil {
		t.Fatalf("PutGameSettings: %v", err)
	}
	if _, err := st.PutGameSettings(ctx, "dice", map[string]any{"theme": "classic"}); err != nil {
		t.Fatalf("PutGameSettings overwrite: %v", err)
	}
	gs, err := st.GameSettings(ctx, "dice")
	if err != nil || gs.Values["theme"] != "classic" {
		t.Fatalf("GameSettings(dice) = %+v, %v", gs, err)
	}
	list, _ := st.ListGameSettings(ctx)
	if len(list) != 2 || list[0].Game != "dice" || list[1].Game != "slots" {
		t.Fatalf("ListGameSettings = %+v", list)
	}
}

func testSnapshot(t *testing.T, open Factory) {
	ctx := context.Background()
	st := open(t, money.MustParse("100"))
	a, _ := st.CreateAccount(ctx, "alice", "x")
	if _, err := st.Settle(ctx, a.ID, func(acct store.Account) (store.Entry, error) {
		return betEntry(acct, game.Crash, "10", "2"), nil
	}); err != nil {
		t.Fatalf("Settle: %v", err)
	}
	snap, err := st.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap.Accounts) != 1 || len(snap.Bets) != 1 || len(snap.Transactions) != 0 {
		t.Fatalf("snapshot sizes = %d/%d/%d", len(snap.Accounts), len(snap.Bets), len(snap.Transactions))
	}
	if !snap.Accounts[0].Balance.Equal(money.MustParse("110")) {
		t.Fatalf("snapshot balance = %s, want 110", snap.Accounts[0].Balance)
	}
}

func testConcurrentSettle(t *testing.T, open Factory) {
	ctx := context.Background()
	st := open(t, money.MustParse("100"))
	a, _ := st.CreateAccount(ctx, "alice", "x")

	const workers = 8
	const perWorker = 25
	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := st.Settle(ctx, a.ID, func(acct store.Account) (store.Entry, error) {
					return betEntry(acct, game.Dice, "1", "1.5"), nil
				})
				if err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent Settle: %v", err)
	}

	got, _ := st.GetAccount(ctx, a.ID)
	want := money.MustParse("100").Add(money.MustParse("0.5").Mul(decimal.NewFromInt(workers * perWorker)))
	if !got.Balance.Equal(want) {
		t.Fatalf("balance = %s, want %s", got.Balance, want)
	}
	bets, _ := st.BetsByAccount(ctx, a.ID)
	if len(bets) != workers*perWorker {
		t.Fatalf("bets = %d, want %d", len(bets), workers*perWorker)
	}
	seen := make(map[int64]bool, len(bets))
	for _, b := range bets {
		if seen[b.ID] {
			t.Fatalf("bet id %d reused", b.ID)
		}
		seen[b.ID] = true
	}
	assertNewestFirst(t, bets)
}
