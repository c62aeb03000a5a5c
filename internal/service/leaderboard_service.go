package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quizly-app/quizly-api/internal/dto"
	"github.com/quizly-app/quizly-api/internal/repository"
)

const leaderboardCacheKey = "leaderboard:streaks"

// LeaderboardService produces the streak leaderboard, cached in redis with a
// short TTL. Staleness within the TTL is acceptable for a daily-cadence game.
type LeaderboardService interface {
	Top(ctx context.Context, limit int) (dto.LeaderboardResponse, error)
}

type leaderboardService struct {
	users    repository.UserRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewLeaderboardService builds the leaderboard aggregator.
func NewLeaderboardService(users repository.UserRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) LeaderboardService {
	return &leaderboardService{
		users:    users,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "leaderboard_service").Logger(),
	}
}

func (s *leaderboardService) Top(ctx context.Context, limit int) (dto.LeaderboardResponse, error) {
	if limit <= 0 {
		limit = 10
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, leaderboardCacheKey).Result(); err == nil {
			var response dto.LeaderboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil && len(response.Entries) >= limit {
				s.logger.Debug().Msg("leaderboard cache hit")
				response.Entries = response.Entries[:limit]
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read leaderboard cache")
		}
	}

	users, err := s.users.List(ctx, limit)
	if err != nil {
		return dto.LeaderboardResponse{}, err
	}

	response := dto.NewLeaderboardResponse(users)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, leaderboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store leaderboard cache")
			}
		}
	}

	return response, nil
}
