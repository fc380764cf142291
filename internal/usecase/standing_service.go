package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/skate-fantasy/internal/domain/standing"
	"github.com/riskibarqy/skate-fantasy/internal/platform/cache"
)

const (
	defaultStandingsLimit = 100
	maxStandingsLimit     = 1000
)

type StandingService struct {
	standingRepo standing.Repository
	loader       *cache.Loader
}

func NewStandingService(standingRepo standing.Repository, loader *cache.Loader) *StandingService {
	if loader == nil {
		loader = cache.NewLoader(nil)
	}
	return &StandingService{standingRepo: standingRepo, loader: loader}
}

func (s *StandingService) ListStandings(ctx context.Context, limit int) ([]standing.SeasonTotal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.ListStandings")
	defer span.End()

	switch {
	case limit <= 0:
		limit = defaultStandingsLimit
	case limit > maxStandingsLimit:
		limit = maxStandingsLimit
	}

	key := standingsCacheKeyPrefix + "list:" + strconv.Itoa(limit)
	return cache.Load(ctx, s.loader, key, func(ctx context.Context) ([]standing.SeasonTotal, error) {
		items, err := s.standingRepo.List(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("list standings: %w", err)
		}
		return items, nil
	})
}

func (s *StandingService) GetPlayerTotal(ctx context.Context, playerID string) (standing.SeasonTotal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.GetPlayerTotal")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return standing.SeasonTotal{}, fmt.Errorf("%w: player_id is required", ErrInvalidInput)
	}

	total, exists, err := s.standingRepo.GetByPlayer(ctx, playerID)
	if err != nil {
		return standing.SeasonTotal{}, fmt.Errorf("get season total: %w", err)
	}
	if !exists {
		return standing.SeasonTotal{PlayerID: playerID}, nil
	}
	return total, nil
}
