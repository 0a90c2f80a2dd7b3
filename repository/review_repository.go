package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"gamehub/apperrors"
	"gamehub/models"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) ListByGame(ctx context.Context, gameID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func (r *ReviewRepository) Create(ctx context.Context, userID uint, input models.ReviewInput) (models.Review, error) {
	var game models.Game
	if err := r.db.WithContext(ctx).First(&game, input.GameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Review{}, fmt.Errorf("game %d: %w", input.GameID, apperrors.ErrNotFound)
		}
		return models.Review{}, err
	}

	review := models.Review{
		UserID:  userID,
		GameID:  input.GameID,
		Rating:  input.Rating,
		Comment: input.Comment,
	}
	if err := r.db.WithContext(ctx).Create(&review).Error; err != nil {
		return models.Review{}, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id uint) (models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Review{}, fmt.Errorf("review %d: %w", id, apperrors.ErrNotFound)
		}
		return models.Review{}, err
	}
	return review, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("review %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}
