// Package mcpserver exposes the casino to MCP clients over streamable HTTP.
// Account tools authenticate with the same session token as the REST API.
package mcpserver

import (
	"context"
	"net/http"
	"strings"

	appplayer "github.com/NikBoi5469/Casino/internal/app/player"
	apppublic "github.com/NikBoi5469/Casino/internal/app/public"
	appsession "github.com/NikBoi5469/Casino/internal/app/session"
	"github.com/NikBoi5469/Casino/internal/store"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const serverVersion = "0.1.0"

type Server struct {
	sessionSvc *appsession.Service
	playerSvc  *appplayer.Service
	publicSvc  *apppublic.Service

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
}

func New(sessionSvc *appsession.Service, playerSvc *appplayer.Service, publicSvc *apppublic.Service) *Server {
	mcpSrv := server.NewMCPServer(
		"casino",
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s := &Server{
		sessionSvc: sessionSvc,
		playerSvc:  playerSvc,
		publicSvc:  publicSvc,
		mcpServer:  mcpSrv,
		httpServer: server.NewStreamableHTTPServer(mcpSrv, server.WithStateLess(true), server.WithDisableStreaming(true)),
	}
	s.registerPublicTools()
	s.registerPlayerTools()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer
}

func (s *Server) authSession(ctx context.Context, request mcp.CallToolRequest) (*store.Account, *mcp.CallToolResult) {
	token := strings.TrimSpace(request.GetString("session_token", ""))
	if token == "" {
		return nil, toolError("invalid_request", "session_token is required")
	}
	acct, err := s.sessionSvc.Resolve(ctx, token)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return acct, nil
}
