package ledger

import (
	"errors"

	"github.com/NikBoi5469/Casino/internal/store"
)

var (
	ErrInvalidInput      = errors.New("invalid_input")
	ErrInsufficientFunds = errors.New("insufficient_funds")
	// ErrBalanceUnchanged is returned by Adjust when the target equals the
	// balance seen inside the settlement. Nothing is written.
	ErrBalanceUnchanged = errors.New("balance_unchanged")
	ErrAccountNotFound   = &NotFoundError{}
)

// InputError is a rejected request field. Every InputError is ErrInvalidInput.
type InputError struct {
	Code string
}

func (e *InputError) Error() string { return e.Code }

func (e *InputError) Unwrap() error { return ErrInvalidInput }

var (
	ErrInvalidStake  = &InputError{Code: "invalid_stake"}
	ErrUnknownGame   = &InputError{Code: "unknown_game"}
	ErrInvalidAmount = &InputError{Code: "invalid_amount"}
	ErrUnknownKind   = &InputError{Code: "unknown_kind"}
	ErrUnknownMethod = &InputError{Code: "unknown_method"}
)

// NotFoundError reports a missing account and unwraps to store.ErrNotFound.
type NotFoundError struct{}

func (e *NotFoundError) Error() string { return "account_not_found" }

func (e *NotFoundError) Unwrap() error { return store.ErrNotFound }

func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrAccountNotFound
	}
	return err
}

func reasonOf(err error) string {
	var in *InputError
	switch {
	case errors.As(err, &in):
		return in.Code
	case errors.Is(err, ErrInsufficientFunds):
		return ErrInsufficientFunds.Error()
	case errors.Is(err, ErrBalanceUnchanged):
		return ErrBalanceUnchanged.Error()
	case errors.Is(err, store.ErrNotFound):
		return ErrAccountNotFound.Error()
	default:
		return "internal"
	}
}
