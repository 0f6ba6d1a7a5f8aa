package mcpserver

import (
	"strconv"

	"github.com/NikBoi5469/Casino/internal/money"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	historyBets         = "bets"
	historyTransactions = "transactions"
	historyAll          = "all"
)

// amountArg reads a money argument. Strings are preferred because JSON
// numbers may already have lost precision on the client.
func amountArg(request mcp.CallToolRequest, key string) (money.Literal, bool) {
	switch v := request.GetArguments()[key].(type) {
	case string:
		return money.Literal(v), true
	case float64:
		return money.Literal(strconv.FormatFloat(v, 'f', -1, 64)), true
	default:
		return "", false
	}
}

func normalizeHistoryKind(v string) string {
	if v == "" {
		return historyAll
	}
	return v
}

func isAllowedHistoryKind(v string) bool {
	return v == historyBets || v == historyTransactions || v == historyAll
}
