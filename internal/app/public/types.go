package public

import (
	"github.com/NikBoi5469/Casino/internal/analytics"
	"github.com/NikBoi5469/Casino/internal/game"

	"github.com/shopspring/decimal"
)

type LeaderboardResponse struct {
	Items []analytics.LeaderboardEntry `json:"items"`
}

type GameItem struct {
	ID              game.ID         `json:"id"`
	LossProbability float64         `json:"loss_probability"`
	MinMultiplier   decimal.Decimal `json:"min_multiplier"`
	MaxMultiplier   decimal.Decimal `json:"max_multiplier"`
}

type GamesResponse struct {
	Games   []GameItem `json:"games"`
	Methods []string   `json:"methods"`
}
