package pgstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/NikBoi5469/Casino/internal/money"
	"github.com/NikBoi5469/Casino/internal/store"
	"github.com/NikBoi5469/Casino/internal/store/storetest"
	"github.com/NikBoi5469/Casino/internal/testutil"

	"github.com/shopspring/decimal"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T, starting decimal.Decimal) store.Store {
		return testutil.OpenTestStore(t, starting)
	})
}

func TestMigrateIsIdempotent(t *testing.T) {
	st := testutil.OpenTestStore(t, money.MustParse("1"))
	if err := st.Migrate(); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestAppendForMissingAccount(t *testing.T) {
	st := testutil.OpenTestStore(t, money.MustParse("1"))
	_, err := st.AppendTransaction(context.Background(), store.LedgerTransaction{
		AccountID: 42, Kind: store.KindDeposit, Amount: money.MustParse("1"), Method: "card",
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("AppendTransaction error = %v, want %v", err, store.ErrNotFound)
	}
}
