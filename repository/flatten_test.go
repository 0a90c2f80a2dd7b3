package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamehub/models"
)

func flatRow() FlatGameRow {
	return FlatGameRow{
		ID:                   1,
		Name:                 "Dark Souls",
		Price:                39.99,
		Description:          "Prepare to die",
		ReleaseDate:          time.Date(2011, 9, 22, 0, 0, 0, 0, time.UTC),
		AgeRatingID:          4,
		AgeRatingAge:         "16+",
		AgeRatingDescription: "May contain realistic violence and strong language",
		GenreIDs:             "2,5,9",
		GenreNames:           "RPG,Action,Adventure",
		PlatformIDs:          "1,3",
		PlatformNames:        "PC,PlayStation",
	}
}

func TestFlattenRow(t *testing.T) {
	t.Run("reconstructs the aggregate", func(t *testing.T) {
		game, err := FlattenRow(flatRow())
		require.NoError(t, err)

		assert.Equal(t, uint(1), game.ID)
		assert.Equal(t, "Dark Souls", game.Name)
		assert.Equal(t, "16+", game.AgeRating.Age)

		require.Len(t, game.Genres, 3)
		assert.Equal(t, models.Genre{ID: 2, Name: "RPG"}, game.Genres[0])
		assert.Equal(t, models.Genre{ID: 5, Name: "Action"}, game.Genres[1])
		assert.Equal(t, models.Genre{ID: 9, Name: "Adventure"}, game.Genres[2])

		require.Len(t, game.Platforms, 2)
		assert.Equal(t, models.Platform{ID: 1, Name: "PC"}, game.Platforms[0])
		assert.Equal(t, models.Platform{ID: 3, Name: "PlayStation"}, game.Platforms[1])
	})

	t.Run("empty relation string yields zero children", func(t *testing.T) {
		row := flatRow()
		row.GenreIDs = ""
		row.GenreNames = ""

		game, err := FlattenRow(row)
		require.NoError(t, err)
		assert.Empty(t, game.Genres)
		assert.Len(t, game.Platforms, 2)
	})

	t.Run("duplicate ids are dropped, first seen wins", func(t *testing.T) {
		row := flatRow()
		row.GenreIDs = "2,5,2,5"
		row.GenreNames = "RPG,Action,RPG,Action"

		game, err := FlattenRow(row)
		require.NoError(t, err)
		require.Len(t, game.Genres, 2)
		assert.Equal(t, "RPG", game.Genres[0].Name)
		assert.Equal(t, "Action", game.Genres[1].Name)
	})

	t.Run("id and name lists must have equal length", func(t *testing.T) {
		row := flatRow()
		row.PlatformIDs = "1,3"
		row.PlatformNames = "PC"

		_, err := FlattenRow(row)
		assert.Error(t, err)
	})

	t.Run("deterministic for identical input", func(t *testing.T) {
		first, err := FlattenRow(flatRow())
		require.NoError(t, err)
		second, err := FlattenRow(flatRow())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("non-numeric id is an error", func(t *testing.T) {
		row := flatRow()
		row.GenreIDs = "2,x"
		row.GenreNames = "RPG,Action"

		_, err := FlattenRow(row)
		assert.Error(t, err)
	})
}

func TestPageCount(t *testing.T) {
	cases := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{25, 10, 3},
		{30, 10, 3},
		{31, 10, 4},
		{0, 10, 0},
		{1, 10, 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, pageCount(tc.total, tc.pageSize), "total=%d size=%d", tc.total, tc.pageSize)
	}
}

func TestOffsetFor(t *testing.T) {
	assert.Equal(t, 0, offsetFor(1, 10))
	assert.Equal(t, 0, offsetFor(0, 10))
	assert.Equal(t, 0, offsetFor(-3, 10))
	assert.Equal(t, 10, offsetFor(2, 10))
	assert.Equal(t, 40, offsetFor(5, 10))
}

func TestPrefixQuery(t *testing.T) {
	assert.Equal(t, "dark:*", prefixQuery("dark"))
	assert.Equal(t, "dark:* & sou:*", prefixQuery("dark sou"))
	assert.Equal(t, "", prefixQuery("   "))
	// tsquery operators are stripped before the prefix markers go on
	assert.Equal(t, "dark:*", prefixQuery("dark:*&|!"))
}

func TestOrderClause(t *testing.T) {
	order, err := orderClause("releaseDate", "asc")
	require.NoError(t, err)
	assert.Equal(t, "g.release_date ASC", order)

	_, err = orderClause("price", "ASC")
	assert.Error(t, err)

	_, err = orderClause("releaseDate", "sideways")
	assert.Error(t, err)
}
