package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamehub/apperrors"
	"gamehub/models"
)

type fakeReviewStore struct {
	reviews   map[uint]models.Review
	nextID    uint
	listCalls int
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{reviews: map[uint]models.Review{}}
}

func (f *fakeReviewStore) ListByGame(_ context.Context, gameID uint) ([]models.Review, error) {
	f.listCalls++
	var out []models.Review
	for _, r := range f.reviews {
		if r.GameID == gameID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviewStore) Create(_ context.Context, userID uint, input models.ReviewInput) (models.Review, error) {
	f.nextID++
	review := models.Review{
		ID:      f.nextID,
		UserID:  userID,
		GameID:  input.GameID,
		Rating:  input.Rating,
		Comment: input.Comment,
	}
	f.reviews[review.ID] = review
	return review, nil
}

func (f *fakeReviewStore) GetByID(_ context.Context, id uint) (models.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return models.Review{}, fmt.Errorf("review %d: %w", id, apperrors.ErrNotFound)
	}
	return r, nil
}

func (f *fakeReviewStore) Delete(_ context.Context, id uint) error {
	if _, ok := f.reviews[id]; !ok {
		return fmt.Errorf("review %d: %w", id, apperrors.ErrNotFound)
	}
	delete(f.reviews, id)
	return nil
}

func TestReviewService(t *testing.T) {
	ctx := context.Background()

	t.Run("listing is cached per game and invalidated on create", func(t *testing.T) {
		store := newFakeReviewStore()
		svc := NewReviewService(store, newFakeCache(), testLogger())

		_, err := svc.Create(ctx, 1, models.ReviewInput{GameID: 5, Rating: 4, Comment: "solid"})
		require.NoError(t, err)

		_, err = svc.ListByGame(ctx, 5)
		require.NoError(t, err)
		_, err = svc.ListByGame(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, 1, store.listCalls)

		_, err = svc.Create(ctx, 2, models.ReviewInput{GameID: 5, Rating: 2, Comment: "meh"})
		require.NoError(t, err)

		reviews, err := svc.ListByGame(ctx, 5)
		require.NoError(t, err)
		assert.Len(t, reviews, 2)
		assert.Equal(t, 2, store.listCalls)
	})

	t.Run("only the author or an admin may delete", func(t *testing.T) {
		store := newFakeReviewStore()
		svc := NewReviewService(store, newFakeCache(), testLogger())

		review, err := svc.Create(ctx, 1, models.ReviewInput{GameID: 5, Rating: 4})
		require.NoError(t, err)

		err = svc.Delete(ctx, review.ID, models.User{ID: 2, Role: "user"})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)

		err = svc.Delete(ctx, review.ID, models.User{ID: 2, Role: "admin"})
		require.NoError(t, err)
	})
}
