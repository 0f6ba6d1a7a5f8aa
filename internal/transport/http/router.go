package httptransport

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	appadmin "github.com/NikBoi5469/Casino/internal/app/admin"
	appplayer "github.com/NikBoi5469/Casino/internal/app/player"
	apppublic "github.com/NikBoi5469/Casino/internal/app/public"
	appsession "github.com/NikBoi5469/Casino/internal/app/session"
	"github.com/NikBoi5469/Casino/internal/chat"
	"github.com/NikBoi5469/Casino/internal/mcpserver"
	"github.com/NikBoi5469/Casino/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Deps are the services the router dispatches to. Chat and MCP are optional.
type Deps struct {
	Store    store.Store
	Sessions *appsession.Service
	Player   *appplayer.Service
	Public   *apppublic.Service
	Admin    *appadmin.Service
	Chat     *chat.Hub
	MCP      *mcpserver.Server
}

func NewRouter(d Deps) *chi.Mux {
	publicHandlers := NewPublicHandlers(d.Store, d.Public, d.Sessions)
	playerHandlers := NewPlayerHandlers(d.Player)
	adminHandlers := NewAdminHandlers(d.Admin)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", publicHandlers.Health())
	r.Handle("/metrics", promhttp.Handler())

	if d.Chat != nil {
		r.Get("/ws", d.Chat.HandleWS)
	}
	if d.MCP != nil {
		r.With(APILogMiddleware()).MethodFunc(http.MethodOptions, "/mcp", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Allow", "POST, GET, DELETE, OPTIONS")
			w.WriteHeader(http.StatusNoContent)
		})
		r.With(APILogMiddleware()).Method(http.MethodPost, "/mcp", d.MCP.Handler())
		r.With(APILogMiddleware()).Method(http.MethodGet, "/mcp", d.MCP.Handler())
		r.With(APILogMiddleware()).Method(http.MethodDelete, "/mcp", d.MCP.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Use(MetricsMiddleware)

		r.Post("/register", publicHandlers.Register())
		r.Post("/login", publicHandlers.Login())
		r.Get("/leaderboard", publicHandlers.Leaderboard())
		r.Get("/games", publicHandlers.Games())

		r.Group(func(r chi.Router) {
			r.Use(SessionAuthMiddleware(d.Sessions))
			r.Post("/logout", publicHandlers.Logout())
			r.Get("/user", playerHandlers.Me())
			r.Post("/bet", playerHandlers.PlaceWager())
			r.Get("/bets", playerHandlers.Bets())
			r.Post("/transactions", playerHandlers.PlaceTransaction())
			r.Get("/transactions", playerHandlers.Transactions())

			r.Route("/admin", func(r chi.Router) {
				r.Use(AdminOnlyMiddleware())
				r.Use(BodyCaptureMiddleware(4096))
				r.Get("/users", adminHandlers.Users())
				r.Patch("/users/{id}", adminHandlers.PatchUser())
				r.Get("/analytics", adminHandlers.Analytics())
				r.Get("/recent-bets", adminHandlers.RecentBets())
				r.Get("/transactions", adminHandlers.Transactions())
				r.Get("/game-settings", adminHandlers.ListGameSettings())
				r.Get("/game-settings/{game}", adminHandlers.GameSettings())
				r.Post("/game-settings", adminHandlers.PutGameSettings())
			})
		})
	})
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 32)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
