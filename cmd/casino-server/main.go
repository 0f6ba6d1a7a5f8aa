package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NikBoi5469/Casino/internal/analytics"
	appadmin "github.com/NikBoi5469/Casino/internal/app/admin"
	appplayer "github.com/NikBoi5469/Casino/internal/app/player"
	apppublic "github.com/NikBoi5469/Casino/internal/app/public"
	appsession "github.com/NikBoi5469/Casino/internal/app/session"
	"github.com/NikBoi5469/Casino/internal/chat"
	"github.com/NikBoi5469/Casino/internal/config"
	"github.com/NikBoi5469/Casino/internal/events"
	"github.com/NikBoi5469/Casino/internal/game"
	"github.com/NikBoi5469/Casino/internal/ledger"
	"github.com/NikBoi5469/Casino/internal/logging"
	"github.com/NikBoi5469/Casino/internal/mcpserver"
	"github.com/NikBoi5469/Casino/internal/store"
	"github.com/NikBoi5469/Casino/internal/store/memstore"
	"github.com/NikBoi5469/Casino/internal/store/pgstore"
	httptransport "github.com/NikBoi5469/Casino/internal/transport/http"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)
	defer func() { _ = logging.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg.Server); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg config.ServerConfig) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	g, ctx := errgroup.WithContext(ctx)

	var publisher events.Publisher = events.Noop{}
	if cfg.KafkaBrokers != "" {
		sink := events.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() { _ = sink.Close() }()
		dispatcher := events.NewDispatcher(sink, events.DispatcherConfig{
			Buffer:   cfg.EventBuffer,
			RetryMax: cfg.EventRetryMax,
		})
		publisher = dispatcher
		g.Go(func() error { return dispatcher.Run(ctx) })
		log.Info().Str("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("settlement events enabled")
	}

	led := ledger.New(st, game.NewSource(cfg.RNGSeed), ledger.WithPublisher(publisher))
	agg := analytics.New(st, analytics.Config{
		ActiveWindow: cfg.ActiveWindow,
		HighRatio:    cfg.RiskHighRatio,
		MediumRatio:  cfg.RiskMediumRatio,
		MinBets:      cfg.RiskMinBets,
	})

	sessions := appsession.NewService(st, cfg.SessionTTL)
	if _, err := sessions.EnsureAdmin(ctx, cfg.AdminHandle, cfg.AdminPassword); err != nil {
		return err
	}
	g.Go(func() error { return sessions.RunJanitor(ctx, time.Minute) })

	var hubOpts []chat.Option
	var relay *chat.RedisRelay
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		relay = chat.NewRedisRelay(rdb, cfg.ChatChannel)
		hubOpts = append(hubOpts, chat.WithRelay(relay))
	}
	hub := chat.NewHub(sessions, hubOpts...)
	if relay != nil {
		g.Go(func() error { return relay.Run(ctx, hub) })
	}

	playerSvc := appplayer.NewService(led, st)
	publicSvc := apppublic.NewService(agg)
	r := httptransport.NewRouter(httptransport.Deps{
		Store:    st,
		Sessions: sessions,
		Player:   playerSvc,
		Public:   publicSvc,
		Admin:    appadmin.NewService(st, led, agg),
		Chat:     hub,
		MCP:      mcpserver.New(sessions, playerSvc, publicSvc),
	})
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openStore(ctx context.Context, cfg config.ServerConfig) (store.Store, error) {
	if cfg.PostgresDSN == "" {
		log.Info().Str("starting_balance", cfg.StartingBalance.StringFixed(2)).Msg("using in-memory store")
		return memstore.New(cfg.StartingBalance), nil
	}
	st, err := pgstore.New(ctx, cfg.PostgresDSN, cfg.StartingBalance)
	if err != nil {
		return nil, err
	}
	if err := st.Ping(ctx); err != nil {
		st.Close()
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := st.Migrate(); err != nil {
			st.Close()
			return nil, err
		}
	}
	log.Info().Msg("using postgres store")
	return st, nil
}
