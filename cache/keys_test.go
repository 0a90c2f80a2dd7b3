package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveKey(t *testing.T) {
	t.Run("substitutes every token", func(t *testing.T) {
		key := ResolveKey("games:page:sortType:sortOrder", map[string]string{
			"page":      "2",
			"sortType":  "releaseDate",
			"sortOrder": "DESC",
		})
		assert.Equal(t, "games:2:releaseDate:DESC", key)
	})

	t.Run("substitutes repeated occurrences", func(t *testing.T) {
		key := ResolveKey("page:page", map[string]string{"page": "7"})
		assert.Equal(t, "7:7", key)
	})

	t.Run("reviews key", func(t *testing.T) {
		key := ResolveKey(ReviewsKey, map[string]string{"gameId": "123"})
		assert.Equal(t, "reviews:game:123", key)
	})

	t.Run("no replacements returns template unchanged", func(t *testing.T) {
		assert.Equal(t, GenresKey, ResolveKey(GenresKey, nil))
	})

	t.Run("missing token leaves literal text", func(t *testing.T) {
		key := ResolveKey("games:page:sortType:sortOrder", map[string]string{
			"page": "1",
		})
		assert.Equal(t, "games:1:sortType:sortOrder", key)
	})
}
