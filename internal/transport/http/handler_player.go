package httptransport

import (
	"net/http"

	appplayer "github.com/NikBoi5469/Casino/internal/app/player"
)

type PlayerHandlers struct {
	playerSvc *appplayer.Service
}

func NewPlayerHandlers(playerSvc *appplayer.Service) *PlayerHandlers {
	return &PlayerHandlers{playerSvc: playerSvc}
}

func (h *PlayerHandlers) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acct, _ := AccountFromContext(r.Context())
		writeJSON(w, http.StatusOK, acct)
	}
}

func (h *PlayerHandlers) PlaceWager() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body appplayer.WagerInput
		if !decodeJSON(w, r, &body) {
			return
		}
		acct, _ := AccountFromContext(r.Context())
		res, err := h.playerSvc.PlaceWager(r.Context(), acct, body)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (h *PlayerHandlers) Bets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acct, _ := AccountFromContext(r.Context())
		resp, err := h.playerSvc.Bets(r.Context(), acct)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *PlayerHandlers) PlaceTransaction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body appplayer.TransactionInput
		if !decodeJSON(w, r, &body) {
			return
		}
		acct, _ := AccountFromContext(r.Context())
		res, err := h.playerSvc.PlaceTransaction(r.Context(), acct, body)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (h *PlayerHandlers) Transactions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acct, _ := AccountFromContext(r.Context())
		resp, err := h.playerSvc.Transactions(r.Context(), acct)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
