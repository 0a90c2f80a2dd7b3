package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"gamehub/apperrors"
	"gamehub/models"
)

// CatalogRepository owns the reference-data tables: genres, platforms
// and age ratings. Deletion of a genre/platform is blocked by query while
// any game still references it; the join tables carry no FK constraints.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ---- genres ----

func (r *CatalogRepository) ListGenres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	if err := r.db.WithContext(ctx).Order("id").Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}

func (r *CatalogRepository) CreateGenre(ctx context.Context, name string) (models.Genre, error) {
	if err := r.checkNameFree(ctx, &models.Genre{}, name); err != nil {
		return models.Genre{}, err
	}
	genre := models.Genre{Name: name}
	if err := r.db.WithContext(ctx).Create(&genre).Error; err != nil {
		return models.Genre{}, fmt.Errorf("create genre: %w", err)
	}
	return genre, nil
}

func (r *CatalogRepository) UpdateGenre(ctx context.Context, id uint, name string) (models.Genre, error) {
	var genre models.Genre
	if err := r.db.WithContext(ctx).First(&genre, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Genre{}, fmt.Errorf("genre %d: %w", id, apperrors.ErrNotFound)
		}
		return models.Genre{}, err
	}
	if genre.Name != name {
		if err := r.checkNameFree(ctx, &models.Genre{}, name); err != nil {
			return models.Genre{}, err
		}
	}
	genre.Name = name
	if err := r.db.WithContext(ctx).Save(&genre).Error; err != nil {
		return models.Genre{}, fmt.Errorf("update genre: %w", err)
	}
	return genre, nil
}

func (r *CatalogRepository) DeleteGenre(ctx context.Context, id uint) error {
	var genre models.Genre
	if err := r.db.WithContext(ctx).First(&genre, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("genre %d: %w", id, apperrors.ErrNotFound)
		}
		return err
	}

	var referencing int64
	if err := r.db.WithContext(ctx).
		Table("game_genres").
		Where("genre_id = ?", id).
		Count(&referencing).Error; err != nil {
		return err
	}
	if referencing > 0 {
		return fmt.Errorf("genre %d is referenced by %d games: %w", id, referencing, apperrors.ErrHasRelated)
	}

	return r.db.WithContext(ctx).Delete(&genre).Error
}

// ---- platforms ----

func (r *CatalogRepository) ListPlatforms(ctx context.Context) ([]models.Platform, error) {
	var platforms []models.Platform
	if err := r.db.WithContext(ctx).Order("id").Find(&platforms).Error; err != nil {
		return nil, fmt.Errorf("list platforms: %w", err)
	}
	return platforms, nil
}

func (r *CatalogRepository) CreatePlatform(ctx context.Context, name string) (models.Platform, error) {
	if err := r.checkNameFree(ctx, &models.Platform{}, name); err != nil {
		return models.Platform{}, err
	}
	platform := models.Platform{Name: name}
	if err := r.db.WithContext(ctx).Create(&platform).Error; err != nil {
		return models.Platform{}, fmt.Errorf("create platform: %w", err)
	}
	return platform, nil
}

func (r *CatalogRepository) UpdatePlatform(ctx context.Context, id uint, name string) (models.Platform, error) {
	var platform models.Platform
	if err := r.db.WithContext(ctx).First(&platform, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Platform{}, fmt.Errorf("platform %d: %w", id, apperrors.ErrNotFound)
		}
		return models.Platform{}, err
	}
	if platform.Name != name {
		if err := r.checkNameFree(ctx, &models.Platform{}, name); err != nil {
			return models.Platform{}, err
		}
	}
	platform.Name = name
	if err := r.db.WithContext(ctx).Save(&platform).Error; err != nil {
		return models.Platform{}, fmt.Errorf("update platform: %w", err)
	}
	return platform, nil
}

func (r *CatalogRepository) DeletePlatform(ctx context.Context, id uint) error {
	var platform models.Platform
	if err := r.db.WithContext(ctx).First(&platform, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("platform %d: %w", id, apperrors.ErrNotFound)
		}
		return err
	}

	var referencing int64
	if err := r.db.WithContext(ctx).
		Table("game_platforms").
		Where("platform_id = ?", id).
		Count(&referencing).Error; err != nil {
		return err
	}
	if referencing > 0 {
		return fmt.Errorf("platform %d is referenced by %d games: %w", id, referencing, apperrors.ErrHasRelated)
	}

	return r.db.WithContext(ctx).Delete(&platform).Error
}

// ---- age ratings ----

func (r *CatalogRepository) ListAgeRatings(ctx context.Context) ([]models.AgeRating, error) {
	var ratings []models.AgeRating
	if err := r.db.WithContext(ctx).Order("id").Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("list age ratings: %w", err)
	}
	return ratings, nil
}

func (r *CatalogRepository) CreateAgeRating(ctx context.Context, input models.AgeRatingInput) (models.AgeRating, error) {
	var existing models.AgeRating
	err := r.db.WithContext(ctx).Where("age = ?", input.Age).First(&existing).Error
	if err == nil {
		return models.AgeRating{}, fmt.Errorf("age rating %q: %w", input.Age, apperrors.ErrAlreadyExists)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.AgeRating{}, err
	}

	rating := models.AgeRating{Age: input.Age, Description: input.Description}
	if err := r.db.WithContext(ctx).Create(&rating).Error; err != nil {
		return models.AgeRating{}, fmt.Errorf("create age rating: %w", err)
	}
	return rating, nil
}

// checkNameFree reports ErrAlreadyExists when a row of the given model
// already carries the name.
func (r *CatalogRepository) checkNameFree(ctx context.Context, model interface{}, name string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where("name = ?", name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("name %q: %w", name, apperrors.ErrAlreadyExists)
	}
	return nil
}
