package httptransport

import (
	"net/http"
	"strconv"

	apppublic "github.com/NikBoi5469/Casino/internal/app/public"
	appsession "github.com/NikBoi5469/Casino/internal/app/session"
	"github.com/NikBoi5469/Casino/internal/store"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type PublicHandlers struct {
	store      store.Store
	publicSvc  *apppublic.Service
	sessionSvc *appsession.Service
}

func NewPublicHandlers(st store.Store, publicSvc *apppublic.Service, sessionSvc *appsession.Service) *PublicHandlers {
	return &PublicHandlers{store: st, publicSvc: publicSvc, sessionSvc: sessionSvc}
}

func (h *PublicHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "store": "down"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "store": "up"})
	}
}

func (h *PublicHandlers) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body credentialsRequest
		if !decodeJSON(w, r, &body) {
			return
		}
		auth, err := h.sessionSvc.Register(r.Context(), body.Username, body.Password)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, auth)
	}
}

func (h *PublicHandlers) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body credentialsRequest
		if !decodeJSON(w, r, &body) {
			return
		}
		auth, err := h.sessionSvc.Login(r.Context(), body.Username, body.Password)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, auth)
	}
}

func (h *PublicHandlers) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.sessionSvc.Logout(bearerToken(r))
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *PublicHandlers) Leaderboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			limit = n
		}
		resp, err := h.publicSvc.Leaderboard(r.Context(), limit)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *PublicHandlers) Games() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, h.publicSvc.Games())
	}
}
