package events

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Sink delivers one event to the outside world.
type Sink interface {
	Send(ctx context.Context, e Event) error
	Close() error
}

type DispatcherConfig struct {
	Buffer      int
	RetryMax    int
	RetryBase   time.Duration
	SendTimeout time.Duration
}

type job struct {
	Event   Event
	Attempt int
}

// Dispatcher queues events in memory and hands them to a Sink from a single
// worker. Publish never blocks; a full queue drops the event.
type Dispatcher struct {
	cfg    DispatcherConfig
	sink   Sink
	ch     chan job
	done   chan struct{}
	once   sync.Once
	retryQ *retryQueue
}

func NewDispatcher(sink Sink, cfg DispatcherConfig) *Dispatcher {
	if cfg.Buffer <= 0 {
		cfg.Buffer = 1024
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 200 * time.Millisecond
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 5 * time.Second
	}
	d := &Dispatcher{
		cfg:  cfg,
		sink: sink,
		ch:   make(chan job, cfg.Buffer),
		done: make(chan struct{}),
	}
	d.retryQ = newRetryQueue(d.ch, d.done)
	return d
}

func (d *Dispatcher) Publish(e Event) {
	if e.TsUnixMS == 0 {
		e.TsUnixMS = nowMS()
	}
	select {
	case <-d.done:
		metricDroppedTotal.Inc()
		return
	default:
	}
	select {
	case d.ch <- job{Event: e}:
		metricQueueLen.Set(float64(len(d.ch)))
	default:
		metricDroppedTotal.Inc()
		log.Warn().Str("type", string(e.Type)).Int64("account_id", e.AccountID).Msg("event queue full, dropping")
	}
}

// Run drives the worker until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer d.once.Do(func() { close(d.done) })
	for {
		select {
		case <-ctx.Done():
			return nil
		case j := <-d.ch:
			metricQueueLen.Set(float64(len(d.ch)))
			d.process(ctx, j)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, j job) {
	sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
	err := d.sink.Send(sendCtx, j.Event)
	cancel()
	if err == nil {
		metricPublishedTotal.WithLabelValues(string(j.Event.Type)).Inc()
		return
	}
	metricFailedTotal.Inc()
	if j.Attempt >= d.cfg.RetryMax {
		metricDroppedTotal.Inc()
		log.Error().Err(err).Str("type", string(j.Event.Type)).Int("attempts", j.Attempt+1).Msg("event delivery failed")
		return
	}
	j.Attempt++
	metricRetryTotal.Inc()
	d.retryQ.Enqueue(j, d.cfg.RetryBase*time.Duration(1<<(j.Attempt-1)))
}
