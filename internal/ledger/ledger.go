// Package ledger settles wagers and deposit/withdraw transactions against the
// account store. Each operation runs inside store.Settle, so the balance and
// its history record commit together under the account's exclusive section.
package ledger

import (
	"github.com/NikBoi5469/Casino/internal/events"
	"github.com/NikBoi5469/Casino/internal/game"
	"github.com/NikBoi5469/Casino/internal/store"
)

type Ledger struct {
	store  store.Store
	rng    game.Source
	events events.Publisher
}

type Option func(*Ledger)

func WithPublisher(p events.Publisher) Option {
	return func(l *Ledger) { l.events = p }
}

func New(st store.Store, rng game.Source, opts ...Option) *Ledger {
	l := &Ledger{store: st, rng: rng, events: events.Noop{}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}
