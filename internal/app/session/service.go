// Package session owns registration, login and bearer tokens. It resolves a
// token to the account's current state on every call and keeps no account data.
package session

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/NikBoi5469/Casino/internal/store"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
)

const maxHandleLen = 32

type Auth struct {
	Token   string         `json:"token"`
	Account *store.Account `json:"user"`
}

type entry struct {
	accountID int64
	expiresAt time.Time
}

type Service struct {
	store store.AccountStore
	ttl   time.Duration
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]entry
}

func NewService(st store.AccountStore, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{store: st, ttl: ttl, now: time.Now, sessions: make(map[string]entry)}
}

func (s *Service) Register(ctx context.Context, handle, password string) (*Auth, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" || utf8.RuneCountInString(handle) > maxHandleLen || password == "" {
		return nil, ErrInvalidRequest
	}
	cred, err := HashCredential(password)
	if err != nil {
		return nil, err
	}
	acct, err := s.store.CreateAccount(ctx, handle, cred)
	if err != nil {
		return nil, err
	}
	log.Info().Int64("account_id", acct.ID).Str("handle", acct.Handle).Msg("account registered")
	return s.issue(acct)
}

func (s *Service) Login(ctx context.Context, handle, password string) (*Auth, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" || password == "" {
		return nil, ErrInvalidRequest
	}
	acct, err := s.store.GetAccountByHandle(ctx, handle)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !VerifyCredential(acct.Credential, password) {
		return nil, ErrInvalidCredentials
	}
	if acct.IsBanned {
		return nil, ErrBanned
	}
	return s.issue(acct)
}

func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Resolve returns the token's account as currently stored.
func (s *Service) Resolve(ctx context.Context, token string) (*store.Account, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	s.mu.Lock()
	e, ok := s.sessions[token]
	if ok && !s.now().Before(e.expiresAt) {
		delete(s.sessions, token)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrUnauthorized
	}
	acct, err := s.store.GetAccount(ctx, e.accountID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if acct.IsBanned {
		return nil, ErrBanned
	}
	return acct, nil
}

// EnsureAdmin provisions the administrator account, or promotes and
// re-keys it when the handle already exists.
func (s *Service) EnsureAdmin(ctx context.Context, handle, password string) (*store.Account, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" || password == "" {
		return nil, ErrInvalidRequest
	}
	cred, err := HashCredential(password)
	if err != nil {
		return nil, err
	}
	acct, err := s.store.GetAccountByHandle(ctx, handle)
	if errors.Is(err, store.ErrNotFound) {
		acct, err = s.store.CreateAccount(ctx, handle, cred)
	}
	if err != nil {
		return nil, err
	}
	yes := true
	return s.store.ApplyPartialUpdate(ctx, acct.ID, store.AccountPatch{IsAdmin: &yes, Credential: &cred})
}

func (s *Service) issue(acct *store.Account) (*Auth, error) {
	id, err := ulid.New(ulid.Timestamp(s.now()), rand.Reader)
	if err != nil {
		return nil, err
	}
	token := id.String()
	s.mu.Lock()
	s.sessions[token] = entry{accountID: acct.ID, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return &Auth{Token: token, Account: acct}, nil
}

func (s *Service) sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for token, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, token)
			n++
		}
	}
	return n
}

// RunJanitor drops expired sessions every interval until ctx is done.
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.sweep(); n > 0 {
				log.Debug().Int("expired", n).Msg("sessions swept")
			}
		}
	}
}
