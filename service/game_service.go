package service

import (
	"context"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"gamehub/cache"
	"gamehub/models"
	"gamehub/monitoring"
	"gamehub/repository"
)

// GameStore is the slice of the game repository the service needs.
type GameStore interface {
	List(ctx context.Context, page int, sortField, sortOrder string) ([]repository.FlatGameRow, error)
	MaxPages(ctx context.Context) (int, error)
	SearchIDs(ctx context.Context, term string, page int, sortField, sortOrder string) ([]uint, error)
	MaxPagesForSearch(ctx context.Context, term string) (int, error)
	GetByID(ctx context.Context, id uint) (models.Game, error)
	Create(ctx context.Context, input models.GameInput) (models.Game, error)
	Update(ctx context.Context, id uint, input models.GameInput) (models.Game, error)
	Delete(ctx context.Context, id uint) error
}

// ListCache is the slice of the cache store the service needs.
type ListCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
}

// GameListPage is the listing response envelope.
type GameListPage struct {
	Games        []models.Game `json:"games"`
	CurrentPage  int           `json:"currentPage"`
	LastPage     int           `json:"lastPage"`
	NextPage     *int          `json:"nextPage"`
	PreviousPage *int          `json:"previousPage"`
}

// GameService runs the cache-aside listing pipeline and the search
// pipeline with its consistency guard.
type GameService struct {
	store GameStore
	cache ListCache
	log   *logrus.Logger
}

func NewGameService(store GameStore, listCache ListCache, log *logrus.Logger) *GameService {
	return &GameService{store: store, cache: listCache, log: log}
}

// GetAll returns one page of games with pagination metadata. The page
// list itself is cached for 180 seconds under a key resolved from the
// page/sort parameters; a hit is returned verbatim, a miss queries the
// store, flattens the rows and writes the result back. A page beyond the
// last one is redirected to page 1.
func (s *GameService) GetAll(ctx context.Context, page int, sortField, sortOrder string) (GameListPage, error) {
	lastPage, err := s.store.MaxPages(ctx)
	if err != nil {
		return GameListPage{}, err
	}
	if page < 1 || page > lastPage {
		page = 1
	}

	key := cache.ResolveKey(cache.GamesListKey, map[string]string{
		"page":      strconv.Itoa(page),
		"sortType":  sortField,
		"sortOrder": sortOrder,
	})

	var games []models.Game
	hit, err := s.cache.Get(ctx, key, &games)
	if err != nil {
		// Treat a broken cache as a miss; the store stays the source of truth.
		s.log.WithError(err).WithField("key", key).Warn("games cache read failed")
		hit = false
	}

	if hit {
		monitoring.CacheHitsTotal.WithLabelValues("games").Inc()
		s.log.WithField("key", key).Debug("Cache HIT: games list")
	} else {
		monitoring.CacheMissesTotal.WithLabelValues("games").Inc()
		s.log.WithField("key", key).Debug("Cache MISS: games list")

		rows, err := s.store.List(ctx, page, sortField, sortOrder)
		if err != nil {
			return GameListPage{}, err
		}
		games = make([]models.Game, 0, len(rows))
		for _, row := range rows {
			game, err := repository.FlattenRow(row)
			if err != nil {
				return GameListPage{}, err
			}
			games = append(games, game)
		}

		if err := s.cache.Set(ctx, key, games, cache.GamesListTTL); err != nil {
			s.log.WithError(err).WithField("key", key).Warn("games cache write failed")
		}
	}

	return assemblePage(games, page, lastPage), nil
}

// SearchByTerm bypasses the cache: it fetches the matching ids for the
// page, then re-fetches every full game concurrently. Completion order
// is unordered; results are reassembled in the original id order. If any
// re-fetch finds the row gone (deleted between the two queries) the
// whole search fails rather than silently returning a shorter page.
func (s *GameService) SearchByTerm(ctx context.Context, term string, page int, sortField, sortOrder string) ([]models.Game, error) {
	lastPage, err := s.store.MaxPagesForSearch(ctx, term)
	if err != nil {
		return nil, err
	}
	if page < 1 || page > lastPage {
		page = 1
	}

	ids, err := s.store.SearchIDs(ctx, term, page, sortField, sortOrder)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Game{}, nil
	}

	games := make([]models.Game, len(ids))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, id := range ids {
		group.Go(func() error {
			game, err := s.store.GetByID(groupCtx, id)
			if err != nil {
				return err
			}
			games[i] = game
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return games, nil
}

func (s *GameService) GetByID(ctx context.Context, id uint) (models.Game, error) {
	return s.store.GetByID(ctx, id)
}

func (s *GameService) Create(ctx context.Context, input models.GameInput) (models.Game, error) {
	game, err := s.store.Create(ctx, input)
	if err != nil {
		return models.Game{}, err
	}
	s.invalidateListings(ctx)
	return game, nil
}

func (s *GameService) Update(ctx context.Context, id uint, input models.GameInput) (models.Game, error) {
	game, err := s.store.Update(ctx, id, input)
	if err != nil {
		return models.Game{}, err
	}
	s.invalidateListings(ctx)
	return game, nil
}

func (s *GameService) Delete(ctx context.Context, id uint) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateListings(ctx)
	return nil
}

// invalidateListings drops every cached listing page. Best effort; the
// TTL bounds staleness when the delete fails.
func (s *GameService) invalidateListings(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, cache.GamesPattern); err != nil {
		s.log.WithError(err).Warn("games cache invalidation failed")
	}
}

func assemblePage(games []models.Game, page, lastPage int) GameListPage {
	result := GameListPage{
		Games:       games,
		CurrentPage: page,
		LastPage:    lastPage,
	}
	if page < lastPage {
		next := page + 1
		result.NextPage = &next
	}
	if page > 1 {
		prev := page - 1
		result.PreviousPage = &prev
	}
	return result
}
