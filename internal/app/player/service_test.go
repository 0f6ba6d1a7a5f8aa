package player

import (
	"context"
	"errors"
	"testing"

	"github.com/NikBoi5469/Casino/internal/game"
	"github.com/NikBoi5469/Casino/internal/ledger"
	"github.com/NikBoi5469/Casino/internal/money"
	"github.com/NikBoi5469/Casino/internal/store/memstore"
)

func TestPlaceWagerParsesAmount(t *testing.T) {
	st := memstore.New(money.MustParse("100"))
	ctx := context.Background()
	acct, _ := st.CreateAccount(ctx, "alice", "x")
	svc := NewService(ledger.New(st, game.NewSource(3)), st)

	for _, amt := range []money.Literal{"", "abc", "0", "-1", "0.001"} {
		if _, err := svc.PlaceWager(ctx, acct, WagerInput{Game: "dice", Amount: amt}); !errors.Is(err, ledger.ErrInvalidStake) {
			t.Fatalf("PlaceWager(%q) error = %v, want %v", amt, err, ledger.ErrInvalidStake)
		}
	}
	res, err := svc.PlaceWager(ctx, acct, WagerInput{Game: "dice", Amount: "10"})
	if err != nil {
		t.Fatalf("PlaceWager: %v", err)
	}
	bets, err := svc.Bets(ctx, acct)
	if err != nil || len(bets.Items) != 1 || bets.Items[0].ID != res.Bet.ID {
		t.Fatalf("Bets = %+v, %v", bets, err)
	}
}

func TestPlaceTransaction(t *testing.T) {
	st := memstore.New(money.MustParse("50"))
	ctx := context.Background()
	acct, _ := st.CreateAccount(ctx, "alice", "x")
	svc := NewService(ledger.New(st, game.NewSource(3)), st)

	if _, err := svc.PlaceTransaction(ctx, acct, TransactionInput{Type: "deposit", Amount: "x", Method: "card"}); !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Fatalf("bad amount error = %v, want %v", err, ledger.ErrInvalidAmount)
	}
	res, err := svc.PlaceTransaction(ctx, acct, TransactionInput{Type: "deposit", Amount: "25", Method: "card"})
	if err != nil {
		t.Fatalf("PlaceTransaction: %v", err)
	}
	if !res.Account.Balance.Equal(money.MustParse("75")) {
		t.Fatalf("balance = %s, want 75", res.Account.Balance)
	}
	txs, _ := svc.Transactions(ctx, acct)
	if len(txs.Items) != 1 {
		t.Fatalf("transactions = %d, want 1", len(txs.Items))
	}
	if _, err := svc.Bets(ctx, nil); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("Bets(nil) error = %v, want %v", err, ErrInvalidRequest)
	}
}
