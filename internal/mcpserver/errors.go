package mcpserver

import (
	"errors"
	"fmt"

	appplayer "github.com/NikBoi5469/Casino/internal/app/player"
	appsession "github.com/NikBoi5469/Casino/internal/app/session"
	"github.com/NikBoi5469/Casino/internal/ledger"
	"github.com/NikBoi5469/Casino/internal/store"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog/log"
)

func toolResult(data any) *mcp.CallToolResult {
	return mcp.NewToolResultStructuredOnly(data)
}

func toolError(code, message string) *mcp.CallToolResult {
	result := mcp.NewToolResultStructured(
		map[string]any{
			"error": map[string]any{
				"code":    code,
				"message": message,
			},
		},
		fmt.Sprintf("%s: %s", code, message),
	)
	result.IsError = true
	return result
}

func mapDomainError(err error) *mcp.CallToolResult {
	var in *ledger.InputError
	switch {
	case err == nil:
		return toolError("internal_error", "unknown error")
	case errors.As(err, &in):
		return toolError(in.Code, err.Error())
	case errors.Is(err, appplayer.ErrInvalidRequest),
		errors.Is(err, appsession.ErrInvalidRequest):
		return toolError("invalid_request", err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return toolError("insufficient_funds", err.Error())
	case errors.Is(err, appsession.ErrUnauthorized):
		return toolError("unauthorized", "invalid or expired session_token")
	case errors.Is(err, appsession.ErrBanned):
		return toolError("account_banned", err.Error())
	case errors.Is(err, ledger.ErrAccountNotFound):
		return toolError("account_not_found", err.Error())
	case errors.Is(err, store.ErrNotFound):
		return toolError("not_found", err.Error())
	default:
		log.Error().Err(err).Msg("mcp tool failed")
		return toolError("internal_error", "internal error")
	}
}
