package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPublicTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_games",
			mcp.WithDescription("List playable games with their payout ranges, and the accepted transaction methods"),
		),
		s.handleListGames,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_leaderboard",
			mcp.WithDescription("Top accounts by balance"),
			mcp.WithNumber("limit", mcp.Description("Number of entries, default and max 10")),
		),
		s.handleGetLeaderboard,
	)
}

func (s *Server) handleListGames(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(s.publicSvc.Games()), nil
}

func (s *Server) handleGetLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := s.publicSvc.Leaderboard(ctx, request.GetInt("limit", 0))
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(resp), nil
}
