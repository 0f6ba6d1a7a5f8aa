package httptransport

import (
	"net/http"
	"strconv"

	appadmin "github.com/NikBoi5469/Casino/internal/app/admin"

	"github.com/go-chi/chi/v5"
)

type AdminHandlers struct {
	adminSvc *appadmin.Service
}

func NewAdminHandlers(adminSvc *appadmin.Service) *AdminHandlers {
	return &AdminHandlers{adminSvc: adminSvc}
}

func (h *AdminHandlers) Users() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.adminSvc.Users(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *AdminHandlers) PatchUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id < 1 {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var body appadmin.PatchUserInput
		if !decodeJSON(w, r, &body) {
			return
		}
		acct, err := h.adminSvc.PatchUser(r.Context(), id, body)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, acct)
	}
}

func (h *AdminHandlers) Analytics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.adminSvc.Analytics(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *AdminHandlers) RecentBets() http.HandlerFunc {
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
		resp, err := h.adminSvc.RecentBets(r.Context(), limit)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *AdminHandlers) Transactions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.adminSvc.Transactions(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *AdminHandlers) ListGameSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.adminSvc.ListGameSettings(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *AdminHandlers) GameSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.adminSvc.GameSettings(r.Context(), chi.URLParam(r, "game"))
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *AdminHandlers) PutGameSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body appadmin.GameSettingsInput
		if !decodeJSON(w, r, &body) {
			return
		}
		resp, err := h.adminSvc.PutGameSettings(r.Context(), body)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
