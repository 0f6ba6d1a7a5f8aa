package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/NikBoi5469/Casino/internal/config"
	"github.com/NikBoi5469/Casino/internal/logging"
	"github.com/NikBoi5469/Casino/internal/money"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	if _, ok := os.LookupEnv("LOG_SERVICE"); !ok {
		logCfg.Service = "casino-bot"
	}
	logging.Init(logCfg)
	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal().Err(err).Msg("load bot config failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("bot failed")
	}
}

func run(ctx context.Context, cfg config.BotConfig) error {
	stake, err := money.Parse(cfg.Stake)
	if err != nil {
		return fmt.Errorf("BOT_STAKE: %w", err)
	}
	c := newAPIClient(cfg.BaseURL)
	if _, err := c.signIn(ctx, cfg.Handle, cfg.Password); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	start, err := c.me(ctx)
	if err != nil {
		return err
	}
	need := stake.Mul(decimal.NewFromInt(int64(cfg.Workers * cfg.Rounds)))
	if start.Balance.LessThan(need) {
		if start, err = c.deposit(ctx, need.Sub(start.Balance)); err != nil {
			return fmt.Errorf("top up: %w", err)
		}
	}
	log.Info().Str("handle", cfg.Handle).Str("balance", start.Balance.StringFixed(2)).
		Int("workers", cfg.Workers).Int("rounds", cfg.Rounds).Str("game", cfg.Game).Msg("bot starting")

	if cfg.Chat {
		if err := sayHello(ctx, cfg.BaseURL, c.token, cfg.Handle); err != nil {
			log.Warn().Err(err).Msg("chat check failed")
		}
	}

	var (
		mu     sync.Mutex
		placed []bet
	)
	began := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Workers; w++ {
		g.Go(func() error {
			for i := 0; i < cfg.Rounds; i++ {
				res, err := c.wager(gctx, cfg.Game, stake)
				var ae *apiError
				if asAPIError(err, &ae) && ae.Code == "insufficient_funds" {
					return nil
				}
				if err != nil {
					return err
				}
				mu.Lock()
				placed = append(placed, res.Bet)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(began)

	end, err := c.me(ctx)
	if err != nil {
		return err
	}
	history, err := c.bets(ctx)
	if err != nil {
		return err
	}
	if err := verify(start.Balance, end.Balance, placed, history); err != nil {
		return err
	}
	log.Info().
		Int("bets", len(placed)).
		Str("start", start.Balance.StringFixed(2)).
		Str("end", end.Balance.StringFixed(2)).
		Float64("bets_per_sec", float64(len(placed))/elapsed.Seconds()).
		Msg("conservation holds")
	return nil
}

// verify checks that the balance moved by exactly the sum of settled bet
// deltas and that every settled bet is in the account history.
func verify(start, end decimal.Decimal, placed, history []bet) error {
	want := start
	for _, b := range placed {
		want = want.Sub(b.Amount).Add(b.Payout)
	}
	if !want.Equal(end) {
		return fmt.Errorf("balance %s, want %s from %d bets", end.StringFixed(2), want.StringFixed(2), len(placed))
	}
	seen := make(map[int64]bool, len(history))
	for _, b := range history {
		seen[b.ID] = true
	}
	for _, b := range placed {
		if !seen[b.ID] {
			return fmt.Errorf("bet %d missing from history", b.ID)
		}
	}
	return nil
}

func sayHello(ctx context.Context, baseURL, token, handle string) error {
	wsURL := "ws" + strings.TrimPrefix(strings.TrimRight(baseURL, "/"), "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.WriteJSON(map[string]string{"type": "chat", "message": "hello from " + handle}); err != nil {
		return err
	}
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var echo struct {
		Username string `json:"username"`
		Message  string `json:"message"`
	}
	if err := conn.ReadJSON(&echo); err != nil {
		return err
	}
	log.Info().Str("from", echo.Username).Str("message", echo.Message).Msg("chat echo")
	return nil
}

func asAPIError(err error, target **apiError) bool {
	return err != nil && errors.As(err, target)
}
