package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/NikBoi5469/Casino/internal/money"
	"github.com/NikBoi5469/Casino/internal/store"
	"github.com/NikBoi5469/Casino/internal/store/memstore"
)

func newService(t *testing.T) (*Service, *memstore.Store) {
	t.Helper()
	st := memstore.New(money.MustParse("1000"))
	return NewService(st, time.Hour), st
}

func TestCredentialRoundTrip(t *testing.T) {
	stored, err := HashCredential("hunter2")
	if err != nil {
		t.Fatalf("HashCredential: %v", err)
	}
	key, salt, ok := strings.Cut(stored, ".")
	if !ok || len(key) != 128 || len(salt) != 32 {
		t.Fatalf("stored = %q, want hex(key).hex(salt)", stored)
	}
	if !VerifyCredential(stored, "hunter2") {
		t.Fatal("VerifyCredential rejected the right password")
	}
	if VerifyCredential(stored, "hunter3") {
		t.Fatal("VerifyCredential accepted the wrong password")
	}
	for _, bad := range []string{"", "nodot", "zz.zz", "abcd.00"} {
		if VerifyCredential(bad, "hunter2") {
			t.Fatalf("VerifyCredential(%q) = true", bad)
		}
	}
}

func TestRegisterLoginResolve(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "  alice ", "pw")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Account.Handle != "alice" || reg.Token == "" {
		t.Fatalf("Register = %+v", reg)
	}
	if !reg.Account.Balance.Equal(money.MustParse("1000")) {
		t.Fatalf("starting balance = %s, want 1000", reg.Account.Balance)
	}
	if _, err := svc.Register(ctx, "alice", "pw"); !errors.Is(err, store.ErrDuplicateHandle) {
		t.Fatalf("duplicate Register error = %v, want %v", err, store.ErrDuplicateHandle)
	}

	login, err := svc.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.Token == reg.Token {
		t.Fatal("Login reused the registration token")
	}
	acct, err := svc.Resolve(ctx, login.Token)
	if err != nil || acct.ID != reg.Account.ID {
		t.Fatalf("Resolve = %+v, %v", acct, err)
	}

	svc.Logout(login.Token)
	if _, err := svc.Resolve(ctx, login.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Resolve after logout error = %v, want %v", err, ErrUnauthorized)
	}
	if _, err := svc.Resolve(ctx, reg.Token); err != nil {
		t.Fatalf("other token revoked: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newService(t)
	for _, tc := range []struct{ handle, password string }{
		{"", "pw"},
		{"   ", "pw"},
		{"bob", ""},
		{strings.Repeat("x", maxHandleLen+1), "pw"},
	} {
		if _, err := svc.Register(context.Background(), tc.handle, tc.password); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("Register(%q, %q) error = %v, want %v", tc.handle, tc.password, err, ErrInvalidRequest)
		}
	}
}

func TestLoginFailures(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	reg, _ := svc.Register(ctx, "alice", "pw")

	if _, err := svc.Login(ctx, "alice", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password error = %v, want %v", err, ErrInvalidCredentials)
	}
	if _, err := svc.Login(ctx, "mallory", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown handle error = %v, want %v", err, ErrInvalidCredentials)
	}

	yes := true
	if _, err := st.ApplyPartialUpdate(ctx, reg.Account.ID, store.AccountPatch{IsBanned: &yes}); err != nil {
		t.Fatalf("ban: %v", err)
	}
	if _, err := svc.Login(ctx, "alice", "pw"); !errors.Is(err, ErrBanned) {
		t.Fatalf("banned login error = %v, want %v", err, ErrBanned)
	}
	if _, err := svc.Resolve(ctx, reg.Token); !errors.Is(err, ErrBanned) {
		t.Fatalf("banned Resolve error = %v, want %v", err, ErrBanned)
	}
}

func TestResolveSeesFreshBalance(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	reg, _ := svc.Register(ctx, "alice", "pw")
	if _, err := st.UpdateBalance(ctx, reg.Account.ID, money.MustParse("5")); err != nil {
		t.Fatalf("UpdateBalance: %v", err)
	}
	acct, err := svc.Resolve(ctx, reg.Token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !acct.Balance.Equal(money.MustParse("5")) {
		t.Fatalf("balance = %s, want 5", acct.Balance)
	}
}

func TestSessionExpiry(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	a, _ := svc.Register(ctx, "alice", "pw")
	now = now.Add(30 * time.Minute)
	b, _ := svc.Login(ctx, "alice", "pw")
	now = now.Add(45 * time.Minute)

	if _, err := svc.Resolve(ctx, a.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expired Resolve error = %v, want %v", err, ErrUnauthorized)
	}
	if got := svc.sweep(); got != 0 {
		t.Fatalf("sweep = %d, want 0 (Resolve already dropped the expired token)", got)
	}
	now = now.Add(time.Hour)
	if got := svc.sweep(); got != 1 {
		t.Fatalf("sweep = %d, want 1", got)
	}
	if _, err := svc.Resolve(ctx, b.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("swept Resolve error = %v, want %v", err, ErrUnauthorized)
	}
}

func TestEnsureAdmin(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	admin, err := svc.EnsureAdmin(ctx, "admin", "secret")
	if err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if !admin.IsAdmin || admin.ID != 1 {
		t.Fatalf("admin = %+v, want first account with admin flag", admin)
	}
	again, err := svc.EnsureAdmin(ctx, "admin", "rotated")
	if err != nil || again.ID != admin.ID {
		t.Fatalf("second EnsureAdmin = %+v, %v", again, err)
	}
	if _, err := svc.Login(ctx, "admin", "rotated"); err != nil {
		t.Fatalf("login with rotated password: %v", err)
	}
	list, _ := st.ListAccounts(ctx)
	if len(list) != 1 {
		t.Fatalf("accounts = %d, want 1", len(list))
	}
}

func TestEnsureAdminTrimsHandle(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	admin, err := svc.EnsureAdmin(ctx, " admin ", "secret")
	if err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if admin.Handle != "admin" {
		t.Fatalf("handle = %q, want admin", admin.Handle)
	}
	if _, err := svc.Login(ctx, " admin", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := svc.EnsureAdmin(ctx, "admin", "secret"); err != nil {
		t.Fatalf("second EnsureAdmin: %v", err)
	}
	if list, _ := st.ListAccounts(ctx); len(list) != 1 {
		t.Fatalf("accounts = %d, want 1", len(list))
	}
}
