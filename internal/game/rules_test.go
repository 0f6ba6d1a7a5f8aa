package game

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

type fixedSource struct {
	f float64
	n int
}

func (s fixedSource) Float64() float64 { return s.f }

func (s fixedSource) IntN(n int) int {
	if s.n >= n {
		return n - 1
	}
	return s.n
}

func TestParse(t *testing.T) {
	for _, id := range All() {
		got, err := Parse(string(id))
		if err != nil || got != id {
			t.Fatalf("Parse(%q) = %q, %v", id, got, err)
		}
	}
	for _, bad := range []string{"", "trading", "DICE", "roulette"} {
		if _, err := Parse(bad); err != ErrUnknownGame {
			t.Fatalf("Parse(%q) error = %v, want %v", bad, err, ErrUnknownGame)
		}
	}
}

func TestDrawBoundaries(t *testing.T) {
	tests := []struct {
		id   ID
		src  fixedSource
		want string
	}{
		{Dice, fixedSource{f: 0, n: 0}, "0"},
		{Dice, fixedSource{f: 0.99, n: 1 << 30}, "1.99"},
		{Slots, fixedSource{f: 0.29, n: 0}, "0"},
		{Slots, fixedSource{f: 0.3, n: 0}, "2"},
		{Slots, fixedSource{f: 0.9, n: 1 << 30}, "4.99"},
		{Crash, fixedSource{f: 0.49, n: 5}, "0"},
		{Crash, fixedSource{f: 0.5, n: 0}, "1.1"},
		{Crash, fixedSource{f: 0.5, n: 1 << 30}, "2.99"},
		{Mines, fixedSource{f: 0.39, n: 0}, "0"},
		{Mines, fixedSource{f: 0.4, n: 0}, "1.5"},
		{Mines, fixedSource{f: 0.4, n: 1 << 30}, "3.99"},
	}
	for _, tt := range tests {
		got, err := Draw(tt.id, tt.src)
		if err != nil {
			t.Fatalf("Draw(%s) error = %v", tt.id, err)
		}
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Fatalf("Draw(%s, %+v) = %s, want %s", tt.id, tt.src, got, tt.want)
		}
	}
}

func TestDrawUnknownGame(t *testing.T) {
	if _, err := Draw("trading", fixedSource{}); err != ErrUnknownGame {
		t.Fatalf("Draw(trading) error = %v, want %v", err, ErrUnknownGame)
	}
}

func TestDrawDistribution(t *testing.T) {
	const trials = 40000
	src := NewSource(42)
	for _, id := range All() {
		p, _ := PolicyFor(id)
		losses := 0
		sum := 0.0
		for i := 0; i < trials; i++ {
			m := p.Draw(src)
			if m.Exponent() < -2 {
				t.Fatalf("%s multiplier %s has more than two decimals", id, m)
			}
			if m.IsZero() {
				losses++
				continue
			}
			if m.LessThan(p.Min) || !m.LessThan(p.Max) {
				t.Fatalf("%s multiplier %s outside [%s, %s)", id, m, p.Min, p.Max)
			}
			sum += m.InexactFloat64()
		}
		lossRate := float64(losses) / trials
		wantLoss := p.LossProbability
		if id == Dice {
			wantLoss = 1.0 / 200
		}
		if math.Abs(lossRate-wantLoss) > 0.015 {
			t.Fatalf("%s loss rate = %.4f, want %.4f", id, lossRate, wantLoss)
		}
		wins := trials - losses
		mean := sum / float64(wins)
		lo, hi := p.Min.InexactFloat64(), p.Max.InexactFloat64()
		wantMean := (lo + hi - 0.01) / 2
		if id == Dice {
			wantMean = (0.01 + 1.99) / 2
		}
		if math.Abs(mean-wantMean) > 0.05 {
			t.Fatalf("%s winning mean = %.4f, want %.4f", id, mean, wantMean)
		}
	}
}

func TestNewSourceIsDeterministicForSeed(t *testing.T) {
	a, b := NewSource(7), NewSource(7)
	for i := 0; i < 100; i++ {
		if a.IntN(1000) != b.IntN(1000) {
			t.Fatal("sources with equal seeds diverged")
		}
	}
}
