package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/NikBoi5469/Casino/internal/money"
)

func TestVerify(t *testing.T) {
	placed := []bet{
		{ID: 1, Amount: money.MustParse("10"), Payout: money.MustParse("15")},
		{ID: 2, Amount: money.MustParse("10"), Payout: money.MustParse("0")},
	}
	if err := verify(money.MustParse("100"), money.MustParse("95"), placed, placed); err != nil {
		t.Fatalf("verify() error = %v", err)
	}
	if err := verify(money.MustParse("100"), money.MustParse("96"), placed, placed); err == nil {
		t.Fatal("verify() expected balance mismatch")
	}
	if err := verify(money.MustParse("100"), money.MustParse("95"), placed, placed[:1]); err == nil {
		t.Fatal("verify() expected missing bet")
	}
}

func TestSignInFallsBackToLogin(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.URL.Path)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/register":
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "handle_taken"})
		case "/api/login":
			_ = json.NewEncoder(w).Encode(map[string]any{"token": "tok", "user": map[string]any{"id": 7, "username": "bot", "balance": "12.50"}})
		}
	}))
	defer srv.Close()

	c := newAPIClient(srv.URL)
	acct, err := c.signIn(context.Background(), "bot", "pw")
	if err != nil {
		t.Fatalf("signIn() error = %v", err)
	}
	if c.token != "tok" || acct.ID != 7 || acct.Balance.StringFixed(2) != "12.50" {
		t.Fatalf("signIn() = %+v token=%q", acct, c.token)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 2 || calls[1] != "/api/login" {
		t.Fatalf("calls = %v, want register then login", calls)
	}
}
