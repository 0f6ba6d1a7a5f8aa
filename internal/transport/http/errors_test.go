package httptransport

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	appsession "github.com/NikBoi5469/Casino/internal/app/session"
	"github.com/NikBoi5469/Casino/internal/ledger"
	"github.com/NikBoi5469/Casino/internal/store"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{ledger.ErrInvalidStake, http.StatusBadRequest, "invalid_stake"},
		{fmt.Errorf("wrap: %w", ledger.ErrUnknownMethod), http.StatusBadRequest, "unknown_method"},
		{ledger.ErrInsufficientFunds, http.StatusBadRequest, "insufficient_funds"},
		{ledger.ErrAccountNotFound, http.StatusNotFound, "account_not_found"},
		{store.ErrNotFound, http.StatusNotFound, "not_found"},
		{store.ErrDuplicateHandle, http.StatusConflict, "handle_taken"},
		{appsession.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{appsession.ErrBanned, http.StatusForbidden, "account_banned"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		status, code := errorStatus(tt.err)
		if status != tt.status || code != tt.code {
			t.Fatalf("errorStatus(%v) = %d/%q, want %d/%q", tt.err, status, code, tt.status, tt.code)
		}
	}
}

func TestParseMaybeJSONRedactsSecrets(t *testing.T) {
	got := parseMaybeJSON([]byte(`{"username":"a","password":"hunter2","nested":[{"token":"t"}]}`))
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("parseMaybeJSON returned %T", got)
	}
	if m["password"] != "***" || m["username"] != "a" {
		t.Fatalf("redacted = %v", m)
	}
	nested := m["nested"].([]any)[0].(map[string]any)
	if nested["token"] != "***" {
		t.Fatalf("nested token not redacted: %v", nested)
	}
	if parseMaybeJSON([]byte("plain")) != "plain" {
		t.Fatalf("non-JSON body should pass through")
	}
}
