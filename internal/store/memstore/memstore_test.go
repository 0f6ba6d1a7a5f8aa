package memstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/NikBoi5469/Casino/internal/game"
	"github.com/NikBoi5469/Casino/internal/money"
	"github.com/NikBoi5469/Casino/internal/store"
	"github.com/NikBoi5469/Casino/internal/store/storetest"

	"github.com/shopspring/decimal"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T, starting decimal.Decimal) store.Store {
		return New(starting)
	})
}

func TestStampNeverGoesBackwards(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(-time.Minute), base.Add(time.Second)}
	i := 0
	st := New(money.MustParse("10"), WithClock(func() time.Time {
		at := ticks[i%len(ticks)]
		i++
		return at
	}))
	ctx := context.Background()
	a, _ := st.CreateAccount(ctx, "alice", "x")
	for n := 0; n < 3; n++ {
		if _, err := st.AppendBet(ctx, store.BetRecord{AccountID: a.ID, Game: game.Dice, Stake: decimal.NewFromInt(1)}); err != nil {
			t.Fatalf("AppendBet: %v", err)
		}
	}
	bets, _ := st.AllBets(ctx)
	for i := 1; i < len(bets); i++ {
		if bets[i-1].CreatedAt.Before(bets[i].CreatedAt) {
			t.Fatalf("stamp went backwards: %v before %v", bets[i-1].CreatedAt, bets[i].CreatedAt)
		}
	}
	if bets[0].ID != 3 || bets[2].ID != 1 {
		t.Fatalf("order = %d,%d,%d, want 3,2,1", bets[0].ID, bets[1].ID, bets[2].ID)
	}
}

// Readers racing a writer must always see the balance and its bet together.
func TestAtomicVisibility(t *testing.T) {
	ctx := context.Background()
	st := New(money.MustParse("1000"))
	a, _ := st.CreateAccount(ctx, "alice", "x")
	stake := money.MustParse("1")

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(done)
		for i := 0; i < 500; i++ {
			_, err := st.Settle(ctx, a.ID, func(acct store.Account) (store.Entry, error) {
				return store.Entry{
					Balance: acct.Balance.Sub(stake),
					Profit:  acct.TotalProfit.Sub(stake),
					Bet:     &store.BetRecord{Game: game.Dice, Stake: stake, Multiplier: decimal.Zero, Payout: decimal.Zero},
				}, nil
			})
			if err != nil {
				t.Errorf("Settle: %v", err)
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			wg.Wait()
			return
		default:
		}
		snap, err := st.Snapshot(ctx)
		if err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
		spent := decimal.NewFromInt(int64(len(snap.Bets)))
		if !snap.Accounts[0].Balance.Equal(money.MustParse("1000").Sub(spent)) {
			t.Fatalf("balance %s does not match %d recorded bets", snap.Accounts[0].Balance, len(snap.Bets))
		}
	}
}

func TestSnapshotIsolatedFromLaterWrites(t *testing.T) {
	ctx := context.Background()
	st := New(money.MustParse("10"))
	a, _ := st.CreateAccount(ctx, "alice", "x")
	snap, _ := st.Snapshot(ctx)
	if _, err := st.UpdateBalance(ctx, a.ID, money.MustParse("99")); err != nil {
		t.Fatalf("UpdateBalance: %v", err)
	}
	if !snap.Accounts[0].Balance.Equal(money.MustParse("10")) {
		t.Fatalf("snapshot balance changed to %s", snap.Accounts[0].Balance)
	}
}
