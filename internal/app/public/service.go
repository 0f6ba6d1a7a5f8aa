package public

import (
	"context"

	"github.com/NikBoi5469/Casino/internal/analytics"
	"github.com/NikBoi5469/Casino/internal/game"
	"github.com/NikBoi5469/Casino/internal/ledger"
)

type Service struct {
	agg *analytics.Aggregator
}

func NewService(agg *analytics.Aggregator) *Service {
	return &Service{agg: agg}
}

func (s *Service) Leaderboard(ctx context.Context, limit int) (*LeaderboardResponse, error) {
	items, err := s.agg.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &LeaderboardResponse{Items: items}, nil
}

func (s *Service) Games() *GamesResponse {
	ids := game.All()
	out := make([]GameItem, 0, len(ids))
	for _, id := range ids {
		p, err := game.PolicyFor(id)
		if err != nil {
			continue
		}
		out = append(out, GameItem{
			ID:              id,
			LossProbability: p.LossProbability,
			MinMultiplier:   p.Min,
			MaxMultiplier:   p.Max,
		})
	}
	return &GamesResponse{Games: out, Methods: ledger.Methods()}
}
