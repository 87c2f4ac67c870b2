package competition

import (
	"context"

	"github.com/wonny/jungsi/backend/internal/contracts"
	"github.com/wonny/jungsi/backend/pkg/logger"
	"github.com/wonny/jungsi/backend/pkg/redis"
)

// Service serves competition rates with a short Redis read-through cache
type Service struct {
	repo   *Repository
	cache  *redis.Cache
	logger *logger.Logger
}

// NewService creates a new competition-rate service
func NewService(repo *Repository, cache *redis.Cache, log *logger.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: log}
}

// GetRates returns the latest rates, optionally for one university
func (s *Service) GetRates(ctx context.Context, universityName string) ([]contracts.CompetitionRate, error) {
	key := redis.CompetitionKey(universityName)

	var cached []contracts.CompetitionRate
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.WithError(err).Warn("Competition cache read failed")
	} else if found {
		return cached, nil
	}

	rates, err := s.repo.GetLatest(ctx, universityName)
	if err != nil {
		return nil, err
	}

	// 실시간 경쟁률이라 TTL은 짧게
	if err := s.cache.Set(ctx, key, rates, redis.TTLShort); err != nil {
		s.logger.WithError(err).Warn("Competition cache write failed")
	}

	return rates, nil
}

// Invalidate drops cached rows after a refresh cycle
func (s *Service) Invalidate(ctx context.Context, universityNames []string) {
	for _, name := range universityNames {
		if err := s.cache.Delete(ctx, redis.CompetitionKey(name)); err != nil {
			s.logger.WithError(err).Warn("Competition cache invalidation failed")
		}
	}
	if err := s.cache.Delete(ctx, redis.CompetitionKey("")); err != nil {
		s.logger.WithError(err).Warn("Competition cache invalidation failed")
	}
}
