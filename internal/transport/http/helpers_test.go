package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NikBoi5469/Casino/internal/analytics"
	appadmin "github.com/NikBoi5469/Casino/internal/app/admin"
	appplayer "github.com/NikBoi5469/Casino/internal/app/player"
	apppublic "github.com/NikBoi5469/Casino/internal/app/public"
	appsession "github.com/NikBoi5469/Casino/internal/app/session"
	"github.com/NikBoi5469/Casino/internal/chat"
	"github.com/NikBoi5469/Casino/internal/ledger"
	"github.com/NikBoi5469/Casino/internal/mcpserver"
	"github.com/NikBoi5469/Casino/internal/money"
	"github.com/NikBoi5469/Casino/internal/store/memstore"

	"github.com/go-chi/chi/v5"
)

// fixedSource never triggers the loss branch and always draws offset n
// hundredths above the game's minimum multiplier.
type fixedSource struct{ n int }

func (fixedSource) Float64() float64 { return 0.99 }
func (s fixedSource) IntN(int) int   { return s.n }

type testServer struct {
	router   *chi.Mux
	store    *memstore.Store
	sessions *appsession.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := memstore.New(money.MustParse("1000"))
	l := ledger.New(st, fixedSource{n: 150})
	agg := analytics.New(st, analytics.DefaultConfig())
	sessions := appsession.NewService(st, time.Hour)
	playerSvc := appplayer.NewService(l, st)
	publicSvc := apppublic.NewService(agg)

	router := NewRouter(Deps{
		Store:    st,
		Sessions: sessions,
		Player:   playerSvc,
		Public:   publicSvc,
		Admin:    appadmin.NewService(st, l, agg),
		Chat:     chat.NewHub(sessions),
		MCP:      mcpserver.New(sessions, playerSvc, publicSvc),
	})
	return &testServer{router: router, store: st, sessions: sessions}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(t *testing.T, handle string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/register", "", map[string]string{"username": handle, "password": "pw-" + handle})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s status = %d body=%s", handle, w.Code, w.Body.String())
	}
	var auth struct {
		Token string `json:"token"`
	}
	decodeBody(t, w, &auth)
	return auth.Token
}

func (s *testServer) admin(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	if _, err := s.sessions.EnsureAdmin(ctx, "admin", "admin-pw"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	auth, err := s.sessions.Login(ctx, "admin", "admin-pw")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	return auth.Token
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v body=%s", err, w.Body.String())
	}
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d body=%s", w.Code, status, w.Body.String())
	}
	var errResp map[string]string
	decodeBody(t, w, &errResp)
	if errResp["error"] != code {
		t.Fatalf("error = %q, want %q", errResp["error"], code)
	}
}
