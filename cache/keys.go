package cache

import (
	"strings"
	"time"
)

// Cache key templates. A template is a plain string whose placeholder
// tokens (page, sortType, sortOrder, gameId) are replaced literally by
// ResolveKey. Token names must not be substrings of each other or of the
// literal key segments around them; "games" vs "page" etc. were chosen
// with that in mind.
const (
	// GamesListKey caches one page of the flattened games listing,
	// e.g. games:2:releaseDate:DESC.
	GamesListKey = "games:page:sortType:sortOrder"

	// GamesPattern matches every key in the games namespace, used for
	// invalidation after any game/genre/platform write.
	GamesPattern = "games:*"

	// ReviewsKey caches the reviews of one game, e.g. reviews:game:123.
	ReviewsKey = "reviews:game:gameId"

	ReviewsPattern = "reviews:game:*"

	GenresKey    = "genres:all"
	PlatformsKey = "platforms:all"
	RatingsKey   = "ratings:all"

	StatsKey = "stats:dashboard"

	ResetTokenPrefix = "reset:token:"
)

// TTLs per namespace.
const (
	GamesListTTL = 180 * time.Second
	ReviewsTTL   = 10 * time.Minute
	RefDataTTL   = time.Hour
	StatsTTL     = 5 * time.Minute
	ResetTTL     = 30 * time.Minute
)

// ResolveKey substitutes every occurrence of every token with its value.
// Substitution is literal text replacement, not regex-anchored.
func ResolveKey(template string, replacements map[string]string) string {
	key := template
	for token, value := range replacements {
		key = strings.ReplaceAll(key, token, value)
	}
	return key
}
