package httptransport

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRoutesMounted(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected /healthz 200, got %d", w.Code)
	}

	s.do(t, http.MethodGet, "/api/games", "", nil)
	w = s.do(t, http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected /metrics 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "casino_http_requests_total") {
		t.Fatalf("metrics output missing request counter")
	}

	// A plain GET without upgrade headers proves the route exists.
	w = s.do(t, http.MethodGet, "/ws", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected /ws 400 without upgrade, got %d", w.Code)
	}

	w = s.do(t, http.MethodOptions, "/mcp", "", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected /mcp OPTIONS 204, got %d", w.Code)
	}

	initBody := []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test-client","version":"1.0.0"}}}`)
	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(initBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected /mcp POST initialize 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestErrorResponsesAreJSON(t *testing.T) {
	s := newTestServer(t)

	assertError(t, s.do(t, http.MethodPost, "/api/register", "", "{"), http.StatusBadRequest, "invalid_json")
	assertError(t, s.do(t, http.MethodGet, "/api/leaderboard?limit=ten", "", nil), http.StatusBadRequest, "invalid_request")
	assertError(t, s.do(t, http.MethodGet, "/api/user", "", nil), http.StatusUnauthorized, "unauthorized")
	assertError(t, s.do(t, http.MethodGet, "/api/user", "bogus", nil), http.StatusUnauthorized, "unauthorized")
}
