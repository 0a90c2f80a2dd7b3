package repository

import (
	"context"

	"gorm.io/gorm"

	"gamehub/models"
)

type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) CountGames(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Game{}).Count(&n).Error
	return n, err
}

func (r *StatsRepository) CountGenres(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Genre{}).Count(&n).Error
	return n, err
}

func (r *StatsRepository) CountPlatforms(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Platform{}).Count(&n).Error
	return n, err
}

func (r *StatsRepository) CountReviews(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).Count(&n).Error
	return n, err
}

func (r *StatsRepository) AverageRating(ctx context.Context) (float64, error) {
	var avg struct{ Avg float64 }
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) as avg").
		Scan(&avg).Error
	return avg.Avg, err
}
