package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gamehub/models"
)

// relationDelimiter joins the per-game genre/platform lists produced by
// string_agg in the listing query.
const relationDelimiter = ","

// FlatGameRow is the denormalized shape of one listing-query row: the
// scalar game fields plus the game's relations delivered as
// delimiter-joined strings, positionally parallel (id list and name list
// line up index by index). Rows are produced by one query execution,
// flattened immediately and discarded.
type FlatGameRow struct {
	ID                   uint      `gorm:"column:id"`
	Name                 string    `gorm:"column:name"`
	Price                float64   `gorm:"column:price"`
	Description          string    `gorm:"column:description"`
	ReleaseDate          time.Time `gorm:"column:release_date"`
	AgeRatingID          uint      `gorm:"column:age_rating_id"`
	AgeRatingAge         string    `gorm:"column:age_rating_age"`
	AgeRatingDescription string    `gorm:"column:age_rating_description"`
	GenreIDs             string    `gorm:"column:genre_ids"`
	GenreNames           string    `gorm:"column:genre_names"`
	PlatformIDs          string    `gorm:"column:platform_ids"`
	PlatformNames        string    `gorm:"column:platform_names"`
}

// FlattenRow reconstructs one Game aggregate from a denormalized row.
// Child collections keep the order of first appearance and are
// de-duplicated by id. Pure function: no I/O, deterministic output.
func FlattenRow(row FlatGameRow) (models.Game, error) {
	game := models.Game{
		ID:          row.ID,
		Name:        row.Name,
		Price:       row.Price,
		Description: row.Description,
		ReleaseDate: row.ReleaseDate,
		AgeRatingID: row.AgeRatingID,
		AgeRating: models.AgeRating{
			ID:          row.AgeRatingID,
			Age:         row.AgeRatingAge,
			Description: row.AgeRatingDescription,
		},
	}

	genrePairs, err := zipRelation(row.GenreIDs, row.GenreNames)
	if err != nil {
		return models.Game{}, fmt.Errorf("game %d genres: %w", row.ID, err)
	}
	for _, pair := range genrePairs {
		game.Genres = append(game.Genres, models.Genre{ID: pair.id, Name: pair.name})
	}

	platformPairs, err := zipRelation(row.PlatformIDs, row.PlatformNames)
	if err != nil {
		return models.Game{}, fmt.Errorf("game %d platforms: %w", row.ID, err)
	}
	for _, pair := range platformPairs {
		game.Platforms = append(game.Platforms, models.Platform{ID: pair.id, Name: pair.name})
	}

	return game, nil
}

type relationPair struct {
	id   uint
	name string
}

// zipRelation splits the two joined strings independently and pairs the
// elements by positional index, dropping repeated ids. The lists must
// have equal length; an empty string means zero elements, not one
// empty-named element.
func zipRelation(joinedIDs, joinedNames string) ([]relationPair, error) {
	ids := splitJoined(joinedIDs)
	names := splitJoined(joinedNames)

	if len(ids) != len(names) {
		return nil, fmt.Errorf("id/name length mismatch: %d ids, %d names", len(ids), len(names))
	}

	seen := make(map[uint]bool, len(ids))
	pairs := make([]relationPair, 0, len(ids))
	for i, rawID := range ids {
		id, err := strconv.ParseUint(rawID, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad id %q: %w", rawID, err)
		}
		if seen[uint(id)] {
			continue
		}
		seen[uint(id)] = true
		pairs = append(pairs, relationPair{id: uint(id), name: names[i]})
	}
	return pairs, nil
}

func splitJoined(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, relationDelimiter)
}
