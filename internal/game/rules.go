package game

import (
	"errors"

	"github.com/NikBoi5469/Casino/internal/money"

	"github.com/shopspring/decimal"
)

var ErrUnknownGame = errors.New("unknown_game")

// ID names one of the playable games.
type ID string

const (
	Dice  ID = "dice"
	Slots ID = "slots"
	Crash ID = "crash"
	Mines ID = "mines"
)

// Policy is the payout distribution of a single game. A winning draw is uniform
// over [Min, Max) in steps of one hundredth.
type Policy struct {
	LossProbability float64
	Min             decimal.Decimal
	Max             decimal.Decimal
}

var policies = map[ID]Policy{
	Dice:  {LossProbability: 0, Min: money.MustParse("0"), Max: money.MustParse("2")},
	Slots: {LossProbability: 0.3, Min: money.MustParse("2"), Max: money.MustParse("5")},
	Crash: {LossProbability: 0.5, Min: money.MustParse("1.1"), Max: money.MustParse("3")},
	Mines: {LossProbability: 0.4, Min: money.MustParse("1.5"), Max: money.MustParse("4")},
}

// All returns the playable games in display order.
func All() []ID {
	return []ID{Dice, Slots, Crash, Mines}
}

func Parse(s string) (ID, error) {
	id := ID(s)
	if _, ok := policies[id]; !ok {
		return "", ErrUnknownGame
	}
	return id, nil
}

func PolicyFor(id ID) (Policy, error) {
	p, ok := policies[id]
	if !ok {
		return Policy{}, ErrUnknownGame
	}
	return p, nil
}

// Draw samples a multiplier at money.Scale. Zero means the stake is lost.
func (p Policy) Draw(src Source) decimal.Decimal {
	if p.LossProbability > 0 && src.Float64() < p.LossProbability {
		return decimal.Zero
	}
	lo := p.Min.Shift(money.Scale).IntPart()
	hi := p.Max.Shift(money.Scale).IntPart()
	step := int64(src.IntN(int(hi - lo)))
	return decimal.New(lo+step, -money.Scale)
}

// Draw samples a multiplier for the named game.
func Draw(id ID, src Source) (decimal.Decimal, error) {
	p, err := PolicyFor(id)
	if err != nil {
		return decimal.Zero, err
	}
	return p.Draw(src), nil
}
