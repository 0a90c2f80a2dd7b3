package service

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"gamehub/cache"
)

// StatsStore exposes the independent count queries behind the dashboard.
type StatsStore interface {
	CountGames(ctx context.Context) (int64, error)
	CountGenres(ctx context.Context) (int64, error)
	CountPlatforms(ctx context.Context) (int64, error)
	CountReviews(ctx context.Context) (int64, error)
	AverageRating(ctx context.Context) (float64, error)
}

type DashboardStats struct {
	TotalGames     int64   `json:"totalGames"`
	TotalGenres    int64   `json:"totalGenres"`
	TotalPlatforms int64   `json:"totalPlatforms"`
	TotalReviews   int64   `json:"totalReviews"`
	AverageRating  float64 `json:"averageRating"`
}

type StatsService struct {
	store StatsStore
	cache ListCache
	log   *logrus.Logger
}

func NewStatsService(store StatsStore, listCache ListCache, log *logrus.Logger) *StatsService {
	return &StatsService{store: store, cache: listCache, log: log}
}

// Dashboard runs every count query in its own goroutine; the queries
// are independent, so the dashboard costs one round trip instead of five.
func (s *StatsService) Dashboard(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	hit, err := s.cache.Get(ctx, cache.StatsKey, &stats)
	if err != nil {
		s.log.WithError(err).Warn("stats cache read failed")
	}
	if hit {
		return stats, nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		stats.TotalGames, err = s.store.CountGames(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		stats.TotalGenres, err = s.store.CountGenres(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		stats.TotalPlatforms, err = s.store.CountPlatforms(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		stats.TotalReviews, err = s.store.CountReviews(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		stats.AverageRating, err = s.store.AverageRating(groupCtx)
		return err
	})
	if err := group.Wait(); err != nil {
		return DashboardStats{}, err
	}

	if err := s.cache.Set(ctx, cache.StatsKey, stats, cache.StatsTTL); err != nil {
		s.log.WithError(err).Warn("stats cache write failed")
	}
	return stats, nil
}
