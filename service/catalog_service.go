package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"gamehub/cache"
	"gamehub/models"
	"gamehub/monitoring"
)

// CatalogStore is the slice of the catalog repository the service needs.
type CatalogStore interface {
	ListGenres(ctx context.Context) ([]models.Genre, error)
	CreateGenre(ctx context.Context, name string) (models.Genre, error)
	UpdateGenre(ctx context.Context, id uint, name string) (models.Genre, error)
	DeleteGenre(ctx context.Context, id uint) error

	ListPlatforms(ctx context.Context) ([]models.Platform, error)
	CreatePlatform(ctx context.Context, name string) (models.Platform, error)
	UpdatePlatform(ctx context.Context, id uint, name string) (models.Platform, error)
	DeletePlatform(ctx context.Context, id uint) error

	ListAgeRatings(ctx context.Context) ([]models.AgeRating, error)
	CreateAgeRating(ctx context.Context, input models.AgeRatingInput) (models.AgeRating, error)
}

// CatalogService fronts the reference data with a read cache. Any write
// to a genre or platform also drops the cached game listings, since
// those embed genre and platform names.
type CatalogService struct {
	store CatalogStore
	cache ListCache
	log   *logrus.Logger
}

func NewCatalogService(store CatalogStore, listCache ListCache, log *logrus.Logger) *CatalogService {
	return &CatalogService{store: store, cache: listCache, log: log}
}

// ---- genres ----

func (s *CatalogService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	if ok := s.cacheGet(ctx, cache.GenresKey, "genres", &genres); ok {
		return genres, nil
	}
	genres, err := s.store.ListGenres(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, cache.GenresKey, genres)
	return genres, nil
}

func (s *CatalogService) CreateGenre(ctx context.Context, input models.GenreInput) (models.Genre, error) {
	genre, err := s.store.CreateGenre(ctx, input.Name)
	if err != nil {
		return models.Genre{}, err
	}
	s.invalidate(ctx, cache.GenresKey)
	return genre, nil
}

func (s *CatalogService) UpdateGenre(ctx context.Context, id uint, input models.GenreInput) (models.Genre, error) {
	genre, err := s.store.UpdateGenre(ctx, id, input.Name)
	if err != nil {
		return models.Genre{}, err
	}
	s.invalidate(ctx, cache.GenresKey)
	return genre, nil
}

func (s *CatalogService) DeleteGenre(ctx context.Context, id uint) error {
	if err := s.store.DeleteGenre(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, cache.GenresKey)
	return nil
}

// ---- platforms ----

func (s *CatalogService) ListPlatforms(ctx context.Context) ([]models.Platform, error) {
	var platforms []models.Platform
	if ok := s.cacheGet(ctx, cache.PlatformsKey, "platforms", &platforms); ok {
		return platforms, nil
	}
	platforms, err := s.store.ListPlatforms(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, cache.PlatformsKey, platforms)
	return platforms, nil
}

func (s *CatalogService) CreatePlatform(ctx context.Context, input models.PlatformInput) (models.Platform, error) {
	platform, err := s.store.CreatePlatform(ctx, input.Name)
	if err != nil {
		return models.Platform{}, err
	}
	s.invalidate(ctx, cache.PlatformsKey)
	return platform, nil
}

func (s *CatalogService) UpdatePlatform(ctx context.Context, id uint, input models.PlatformInput) (models.Platform, error) {
	platform, err := s.store.UpdatePlatform(ctx, id, input.Name)
	if err != nil {
		return models.Platform{}, err
	}
	s.invalidate(ctx, cache.PlatformsKey)
	return platform, nil
}

func (s *CatalogService) DeletePlatform(ctx context.Context, id uint) error {
	if err := s.store.DeletePlatform(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, cache.PlatformsKey)
	return nil
}

// ---- age ratings ----

func (s *CatalogService) ListAgeRatings(ctx context.Context) ([]models.AgeRating, error) {
	var ratings []models.AgeRating
	if ok := s.cacheGet(ctx, cache.RatingsKey, "ratings", &ratings); ok {
		return ratings, nil
	}
	ratings, err := s.store.ListAgeRatings(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, cache.RatingsKey, ratings)
	return ratings, nil
}

func (s *CatalogService) CreateAgeRating(ctx context.Context, input models.AgeRatingInput) (models.AgeRating, error) {
	rating, err := s.store.CreateAgeRating(ctx, input)
	if err != nil {
		return models.AgeRating{}, err
	}
	s.invalidate(ctx, cache.RatingsKey)
	return rating, nil
}

// ---- cache helpers ----

func (s *CatalogService) cacheGet(ctx context.Context, key, namespace string, dest interface{}) bool {
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("catalog cache read failed")
		return false
	}
	if hit {
		monitoring.CacheHitsTotal.WithLabelValues(namespace).Inc()
	} else {
		monitoring.CacheMissesTotal.WithLabelValues(namespace).Inc()
	}
	return hit
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, cache.RefDataTTL); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("catalog cache write failed")
	}
}

func (s *CatalogService) invalidate(ctx context.Context, key string) {
	if err := s.cache.DeletePattern(ctx, key); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("catalog cache invalidation failed")
	}
	// Listing pages embed genre/platform names.
	if err := s.cache.DeletePattern(ctx, cache.GamesPattern); err != nil {
		s.log.WithError(err).Warn("games cache invalidation failed")
	}
}
