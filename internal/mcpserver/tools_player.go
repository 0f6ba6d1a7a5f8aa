package mcpserver

import (
	"context"

	appplayer "github.com/NikBoi5469/Casino/internal/app/player"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPlayerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_account",
			mcp.WithDescription("Current balance and profile for the session's account"),
			mcp.WithString("session_token", mcp.Required(), mcp.Description("Token from /api/login or /api/register")),
		),
		s.handleGetAccount,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"place_wager",
			mcp.WithDescription("Stake an amount on one round of a game and settle it immediately"),
			mcp.WithString("session_token", mcp.Required(), mcp.Description("Session token")),
			mcp.WithString("game", mcp.Required(), mcp.Description("dice|slots|crash|mines")),
			mcp.WithString("amount", mcp.Required(), mcp.Description("Stake as a decimal string with at most 2 places, e.g. \"10.00\"")),
		),
		s.handlePlaceWager,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"place_transaction",
			mcp.WithDescription("Deposit to or withdraw from the account balance"),
			mcp.WithString("session_token", mcp.Required(), mcp.Description("Session token")),
			mcp.WithString("type", mcp.Required(), mcp.Description("deposit|withdraw")),
			mcp.WithString("amount", mcp.Required(), mcp.Description("Amount as a decimal string with at most 2 places")),
			mcp.WithString("method", mcp.Required(), mcp.Description("crypto|card|paypal")),
		),
		s.handlePlaceTransaction,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_history",
			mcp.WithDescription("Bets and transactions for the session's account, newest first"),
			mcp.WithString("session_token", mcp.Required(), mcp.Description("Session token")),
			mcp.WithString("kind", mcp.Description("bets|transactions|all, default all")),
		),
		s.handleGetHistory,
	)
}

func (s *Server) handleGetAccount(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	acct, errResp := s.authSession(ctx, request)
	if errResp != nil {
		return errResp, nil
	}
	return toolResult(map[string]any{"user": acct}), nil
}

func (s *Server) handlePlaceWager(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	acct, errResp := s.authSession(ctx, request)
	if errResp != nil {
		return errResp, nil
	}
	gameName, err := request.RequireString("game")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	amount, ok := amountArg(request, "amount")
	if !ok {
		return toolError("invalid_stake", "amount is required"), nil
	}
	res, err := s.playerSvc.PlaceWager(ctx, acct, appplayer.WagerInput{Game: gameName, Amount: amount})
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(res), nil
}

func (s *Server) handlePlaceTransaction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	acct, errResp := s.authSession(ctx, request)
	if errResp != nil {
		return errResp, nil
	}
	kind, err := request.RequireString("type")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	method, err := request.RequireString("method")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	amount, ok := amountArg(request, "amount")
	if !ok {
		return toolError("invalid_amount", "amount is required"), nil
	}
	res, err := s.playerSvc.PlaceTransaction(ctx, acct, appplayer.TransactionInput{Type: kind, Amount: amount, Method: method})
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(res), nil
}

func (s *Server) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	acct, errResp := s.authSession(ctx, request)
	if errResp != nil {
		return errResp, nil
	}
	kind := normalizeHistoryKind(request.GetString("kind", ""))
	if !isAllowedHistoryKind(kind) {
		return toolError("invalid_request", "kind must be bets|transactions|all"), nil
	}
	out := map[string]any{}
	if kind != historyTransactions {
		bets, err := s.playerSvc.Bets(ctx, acct)
		if err != nil {
			return mapDomainError(err), nil
		}
		out["bets"] = bets.Items
	}
	if kind != historyBets {
		txs, err := s.playerSvc.Transactions(ctx, acct)
		if err != nil {
			return mapDomainError(err), nil
		}
		out["transactions"] = txs.Items
	}
	return toolResult(out), nil
}
