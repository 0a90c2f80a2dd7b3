package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"gamehub/apperrors"
	"gamehub/cache"
	"gamehub/models"
)

// ReviewStore is the slice of the review repository the service needs.
type ReviewStore interface {
	ListByGame(ctx context.Context, gameID uint) ([]models.Review, error)
	Create(ctx context.Context, userID uint, input models.ReviewInput) (models.Review, error)
	GetByID(ctx context.Context, id uint) (models.Review, error)
	Delete(ctx context.Context, id uint) error
}

type ReviewService struct {
	store ReviewStore
	cache ListCache
	log   *logrus.Logger
}

func NewReviewService(store ReviewStore, listCache ListCache, log *logrus.Logger) *ReviewService {
	return &ReviewService{store: store, cache: listCache, log: log}
}

func (s *ReviewService) ListByGame(ctx context.Context, gameID uint) ([]models.Review, error) {
	key := cache.ResolveKey(cache.ReviewsKey, map[string]string{
		"gameId": strconv.FormatUint(uint64(gameID), 10),
	})

	var reviews []models.Review
	hit, err := s.cache.Get(ctx, key, &reviews)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("reviews cache read failed")
	}
	if hit {
		return reviews, nil
	}

	reviews, err = s.store.ListByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, reviews, cache.ReviewsTTL); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("reviews cache write failed")
	}
	return reviews, nil
}

func (s *ReviewService) Create(ctx context.Context, userID uint, input models.ReviewInput) (models.Review, error) {
	review, err := s.store.Create(ctx, userID, input)
	if err != nil {
		return models.Review{}, err
	}
	s.invalidateGame(ctx, input.GameID)
	return review, nil
}

// Delete removes a review. Only the author or an admin may delete it.
func (s *ReviewService) Delete(ctx context.Context, id uint, actor models.User) error {
	review, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != actor.ID && actor.Role != "admin" {
		return fmt.Errorf("review %d owned by another user: %w", id, apperrors.ErrForbidden)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateGame(ctx, review.GameID)
	return nil
}

func (s *ReviewService) invalidateGame(ctx context.Context, gameID uint) {
	key := cache.ResolveKey(cache.ReviewsKey, map[string]string{
		"gameId": strconv.FormatUint(uint64(gameID), 10),
	})
	if err := s.cache.DeletePattern(ctx, key); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("reviews cache invalidation failed")
	}
}
