package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamehub/apperrors"
	"gamehub/models"
	"gamehub/repository"
)

// fakeGameStore is a call-counting stand-in for the game repository.
type fakeGameStore struct {
	mu sync.Mutex

	rows      []repository.FlatGameRow
	games     map[uint]models.Game
	ids       []uint
	pages     int
	searchPgs int

	listCalls    int
	lastListPage int
	getCalls     int
}

func (f *fakeGameStore) List(_ context.Context, page int, _, _ string) ([]repository.FlatGameRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.lastListPage = page
	return f.rows, nil
}

func (f *fakeGameStore) MaxPages(context.Context) (int, error) { return f.pages, nil }

func (f *fakeGameStore) SearchIDs(_ context.Context, _ string, _ int, _, _ string) ([]uint, error) {
	return f.ids, nil
}

func (f *fakeGameStore) MaxPagesForSearch(context.Context, string) (int, error) {
	return f.searchPgs, nil
}

func (f *fakeGameStore) GetByID(_ context.Context, id uint) (models.Game, error) {
	f.mu.Lock()
	f.getCalls++
	f.mu.Unlock()
	game, ok := f.games[id]
	if !ok {
		return models.Game{}, fmt.Errorf("game %d: %w", id, apperrors.ErrNotFound)
	}
	return game, nil
}

func (f *fakeGameStore) Create(_ context.Context, _ models.GameInput) (models.Game, error) {
	return models.Game{}, nil
}

func (f *fakeGameStore) Update(_ context.Context, _ uint, _ models.GameInput) (models.Game, error) {
	return models.Game{}, nil
}

func (f *fakeGameStore) Delete(context.Context, uint) error { return nil }

// fakeCache keeps serialized entries in a map, pattern delete matches by
// prefix like Redis SCAN with a trailing *.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte

	sets    int
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = data
	f.sets++
	return nil
}

func (f *fakeCache) DeletePattern(_ context.Context, pattern string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range f.entries {
		if strings.HasPrefix(key, prefix) {
			delete(f.entries, key)
		}
	}
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func listingRow(id uint, name string) repository.FlatGameRow {
	return repository.FlatGameRow{
		ID:            id,
		Name:          name,
		Price:         19.99,
		ReleaseDate:   time.Date(2020, 1, int(id), 0, 0, 0, 0, time.UTC),
		AgeRatingID:   1,
		AgeRatingAge:  "12+",
		GenreIDs:      "1",
		GenreNames:    "RPG",
		PlatformIDs:   "1",
		PlatformNames: "PC",
	}
}

func TestGetAll(t *testing.T) {
	t.Run("consecutive calls hit the cache, store queried once", func(t *testing.T) {
		store := &fakeGameStore{
			rows:  []repository.FlatGameRow{listingRow(1, "Alpha"), listingRow(2, "Beta")},
			pages: 1,
		}
		svc := NewGameService(store, newFakeCache(), testLogger())

		first, err := svc.GetAll(context.Background(), 1, "releaseDate", "DESC")
		require.NoError(t, err)
		second, err := svc.GetAll(context.Background(), 1, "releaseDate", "DESC")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, store.listCalls, "second call must be served from cache")
		require.Len(t, first.Games, 2)
		assert.Equal(t, "Alpha", first.Games[0].Name)
		assert.Equal(t, "RPG", first.Games[0].Genres[0].Name)
	})

	t.Run("page beyond the last redirects to page 1", func(t *testing.T) {
		store := &fakeGameStore{rows: []repository.FlatGameRow{listingRow(1, "Alpha")}, pages: 3}
		svc := NewGameService(store, newFakeCache(), testLogger())

		result, err := svc.GetAll(context.Background(), 4, "releaseDate", "DESC")
		require.NoError(t, err)
		assert.Equal(t, 1, result.CurrentPage)
		assert.Equal(t, 1, store.lastListPage)
	})

	t.Run("pagination metadata", func(t *testing.T) {
		store := &fakeGameStore{rows: []repository.FlatGameRow{listingRow(1, "Alpha")}, pages: 3}
		svc := NewGameService(store, newFakeCache(), testLogger())

		middle, err := svc.GetAll(context.Background(), 2, "releaseDate", "ASC")
		require.NoError(t, err)
		assert.Equal(t, 2, middle.CurrentPage)
		assert.Equal(t, 3, middle.LastPage)
		require.NotNil(t, middle.NextPage)
		require.NotNil(t, middle.PreviousPage)
		assert.Equal(t, 3, *middle.NextPage)
		assert.Equal(t, 1, *middle.PreviousPage)

		first, err := svc.GetAll(context.Background(), 1, "releaseDate", "ASC")
		require.NoError(t, err)
		assert.Nil(t, first.PreviousPage)
		require.NotNil(t, first.NextPage)

		last, err := svc.GetAll(context.Background(), 3, "releaseDate", "ASC")
		require.NoError(t, err)
		assert.Nil(t, last.NextPage)
		require.NotNil(t, last.PreviousPage)
	})

	t.Run("different pages use different cache keys", func(t *testing.T) {
		cacheStore := newFakeCache()
		store := &fakeGameStore{rows: []repository.FlatGameRow{listingRow(1, "Alpha")}, pages: 2}
		svc := NewGameService(store, cacheStore, testLogger())

		_, err := svc.GetAll(context.Background(), 1, "releaseDate", "DESC")
		require.NoError(t, err)
		_, err = svc.GetAll(context.Background(), 2, "releaseDate", "DESC")
		require.NoError(t, err)

		assert.Equal(t, 2, store.listCalls)
		assert.Contains(t, cacheStore.entries, "games:1:releaseDate:DESC")
		assert.Contains(t, cacheStore.entries, "games:2:releaseDate:DESC")
	})
}

func TestSearchByTerm(t *testing.T) {
	t.Run("results keep the id order", func(t *testing.T) {
		store := &fakeGameStore{
			ids: []uint{3, 1, 2},
			games: map[uint]models.Game{
				1: {ID: 1, Name: "One"},
				2: {ID: 2, Name: "Two"},
				3: {ID: 3, Name: "Three"},
			},
			searchPgs: 1,
		}
		svc := NewGameService(store, newFakeCache(), testLogger())

		games, err := svc.SearchByTerm(context.Background(), "t", 1, "releaseDate", "DESC")
		require.NoError(t, err)
		require.Len(t, games, 3)
		assert.Equal(t, uint(3), games[0].ID)
		assert.Equal(t, uint(1), games[1].ID)
		assert.Equal(t, uint(2), games[2].ID)
	})

	t.Run("a vanished row fails the whole search", func(t *testing.T) {
		store := &fakeGameStore{
			ids: []uint{1, 2, 3},
			games: map[uint]models.Game{
				1: {ID: 1, Name: "One"},
				3: {ID: 3, Name: "Three"},
				// 2 deleted between the id query and the detail fetch
			},
			searchPgs: 1,
		}
		svc := NewGameService(store, newFakeCache(), testLogger())

		_, err := svc.SearchByTerm(context.Background(), "t", 1, "releaseDate", "DESC")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("no matches returns an empty slice", func(t *testing.T) {
		store := &fakeGameStore{searchPgs: 0}
		svc := NewGameService(store, newFakeCache(), testLogger())

		games, err := svc.SearchByTerm(context.Background(), "zzz", 1, "releaseDate", "DESC")
		require.NoError(t, err)
		assert.Empty(t, games)
	})
}

func TestWriteInvalidation(t *testing.T) {
	cacheStore := newFakeCache()
	store := &fakeGameStore{rows: []repository.FlatGameRow{listingRow(1, "Alpha")}, pages: 1}
	svc := NewGameService(store, cacheStore, testLogger())

	_, err := svc.GetAll(context.Background(), 1, "releaseDate", "DESC")
	require.NoError(t, err)
	require.Contains(t, cacheStore.entries, "games:1:releaseDate:DESC")

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.NotContains(t, cacheStore.entries, "games:1:releaseDate:DESC")
}
