package httptransport

import (
	"errors"
	"net/http"

	appadmin "github.com/NikBoi5469/Casino/internal/app/admin"
	appplayer "github.com/NikBoi5469/Casino/internal/app/player"
	appsession "github.com/NikBoi5469/Casino/internal/app/session"
	"github.com/NikBoi5469/Casino/internal/ledger"
	"github.com/NikBoi5469/Casino/internal/store"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// errorStatus maps a domain error to its HTTP status and wire code.
func errorStatus(err error) (int, string) {
	var in *ledger.InputError
	switch {
	case errors.As(err, &in):
		return http.StatusBadRequest, in.Code
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return http.StatusBadRequest, "insufficient_funds"
	case errors.Is(err, appsession.ErrInvalidRequest),
		errors.Is(err, appplayer.ErrInvalidRequest),
		errors.Is(err, appadmin.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, appsession.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, appsession.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, appsession.ErrBanned):
		return http.StatusForbidden, "account_banned"
	case errors.Is(err, store.ErrDuplicateHandle):
		return http.StatusConflict, "handle_taken"
	case errors.Is(err, ledger.ErrAccountNotFound):
		return http.StatusNotFound, "account_not_found"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("route", routePattern(r)).
			Msg("request failed")
	}
	WriteHTTPError(w, status, code)
}
