package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/models"
	appErrors "github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/errors"
)

type statsRepository interface {
	CountsByCenter(ctx context.Context, centerID string) (*models.CenterStatistics, error)
	CountsAllCenters(ctx context.Context) ([]models.CenterStatistics, error)
}

type statsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const (
	statsCenterKeyFormat = "stats:center:%s"
	statsRankingKey      = "stats:ranking"
)

// StatsService serves the dashboard aggregates, caching results in Redis
// for the configured TTL.
type StatsService struct {
	repo   statsRepository
	cache  statsCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewStatsService constructs the statistics service.
func NewStatsService(repo statsRepository, cache statsCache, ttl time.Duration, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &StatsService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// CenterStatistics returns the status buckets of one center.
func (s *StatsService) CenterStatistics(ctx context.Context, centerID string) (*models.CenterStatistics, error) {
	if centerID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "center id is required")
	}

	key := fmt.Sprintf(statsCenterKeyFormat, centerID)
	if s.cache != nil {
		var cached models.CenterStatistics
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	stats, err := s.repo.CountsByCenter(ctx, centerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "center not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute center statistics")
	}

	s.cacheSet(ctx, key, stats)
	return stats, nil
}

// CenterChart shapes one center's buckets for the dashboard chart widget.
func (s *StatsService) CenterChart(ctx context.Context, centerID string) (*models.ChartData, error) {
	stats, err := s.CenterStatistics(ctx, centerID)
	if err != nil {
		return nil, err
	}
	return &models.ChartData{
		Labels: []string{
			string(models.StatusAvailable),
			string(models.StatusInternship),
			string(models.StatusEmployed),
		},
		Values: []int{
			stats.Counts.Available,
			stats.Counts.Internship,
			stats.Counts.Employed,
		},
	}, nil
}

// CentersRanking orders every center by total candidate volume. Ranks are
// dense starting at 1.
func (s *StatsService) CentersRanking(ctx context.Context) ([]models.CenterRanking, error) {
	if s.cache != nil {
		var cached []models.CenterRanking
		if err := s.cache.Get(ctx, statsRankingKey, &cached); err == nil {
			return cached, nil
		}
	}

	stats, err := s.repo.CountsAllCenters(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute centers ranking")
	}

	ranking := make([]models.CenterRanking, 0, len(stats))
	for i, entry := range stats {
		ranking = append(ranking, models.CenterRanking{
			Rank:       i + 1,
			CenterID:   entry.CenterID,
			CenterName: entry.CenterName,
			Counts:     entry.Counts,
			Total:      entry.Counts.Total(),
		})
	}

	s.cacheSet(ctx, statsRankingKey, ranking)
	return ranking, nil
}

// Invalidate drops cached aggregates; called after mutating operations.
func (s *StatsService) Invalidate(ctx context.Context, centerIDs ...string) {
	if s.cache == nil {
		return
	}
	keys := []string{statsRankingKey}
	for _, id := range centerIDs {
		if id != "" {
			keys = append(keys, fmt.Sprintf(statsCenterKeyFormat, id))
		}
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("failed to invalidate stats cache", zap.Error(err))
	}
}

func (s *StatsService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("failed to cache statistics", zap.String("key", key), zap.Error(err))
	}
}
