package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/NikBoi5469/Casino/internal/game"
	"github.com/NikBoi5469/Casino/internal/money"
	"github.com/NikBoi5469/Casino/internal/store"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu       sync.Mutex
	failures int
	got      []Event
}

func (s *recordingSink) Send(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("broker unavailable")
	}
	s.got = append(s.got, e)
	return nil
}

func (s *recordingSink) Close() error { return nil }

func (s *recordingSink) events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.got...)
}

func settledBet() *store.Settled {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &store.Settled{
		Account: &store.Account{ID: 7, Balance: money.MustParse("105")},
		Bet: &store.BetRecord{
			ID: 3, AccountID: 7, Game: game.Dice, Stake: money.MustParse("10"),
			Multiplier: money.MustParse("1.5"), Payout: money.MustParse("15"), CreatedAt: at,
		},
	}
}

func TestDispatcherDelivers(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, DispatcherConfig{Buffer: 8})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	d.Publish(NewWagerSettled(settledBet()))

	require.Eventually(t, func() bool { return len(sink.events()) == 1 }, time.Second, 5*time.Millisecond)
	got := sink.events()[0]
	assert.Equal(t, WagerSettled, got.Type)
	assert.Equal(t, int64(7), got.AccountID)
	assert.True(t, got.Balance.Equal(money.MustParse("105")))
}

func TestDispatcherRetriesThenDelivers(t *testing.T) {
	sink := &recordingSink{failures: 2}
	d := NewDispatcher(sink, DispatcherConfig{Buffer: 8, RetryMax: 3, RetryBase: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	d.Publish(NewWagerSettled(settledBet()))

	require.Eventually(t, func() bool { return len(sink.events()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestDispatcherGivesUpAfterRetryMax(t *testing.T) {
	sink := &recordingSink{failures: 10}
	d := NewDispatcher(sink, DispatcherConfig{Buffer: 8, RetryMax: 1, RetryBase: time.Millisecond})
	before := promtest.ToFloat64(metricDroppedTotal)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	d.Publish(NewWagerSettled(settledBet()))

	require.Eventually(t, func() bool { return promtest.ToFloat64(metricDroppedTotal) == before+1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, sink.events())
}

func TestPublishDropsWhenQueueFull(t *testing.T) {
	d := NewDispatcher(&recordingSink{}, DispatcherConfig{Buffer: 1})
	before := promtest.ToFloat64(metricDroppedTotal)

	d.Publish(NewWagerSettled(settledBet()))
	d.Publish(NewWagerSettled(settledBet()))

	assert.Equal(t, before+1, promtest.ToFloat64(metricDroppedTotal))
	assert.Len(t, d.ch, 1)
}

func TestEncodeMessageKeyedByAccount(t *testing.T) {
	msg, err := encodeMessage(NewWagerSettled(settledBet()))
	require.NoError(t, err)
	assert.Equal(t, "7", string(msg.Key))

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "wager_settled", body["type"])
	assert.Equal(t, "105", body["balance"])
	assert.NotNil(t, body["bet"])
	assert.Nil(t, body["transaction"])
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, splitBrokers(" a:9092, ,b:9092 "))
	assert.Empty(t, splitBrokers(""))
}
