package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"gamehub/apperrors"
	"gamehub/models"
)

// flatSelect is the denormalized listing projection: one row per game,
// relations collapsed with string_agg into positionally parallel lists.
// Both aggregates of a relation order by the child id so ids and names
// stay paired; duplicates from the double join are dropped by the
// flattener.
const flatSelect = `
SELECT g.id, g.name, g.price, g.description, g.release_date,
       ar.id AS age_rating_id, ar.age AS age_rating_age, ar.description AS age_rating_description,
       COALESCE(string_agg(ge.id::text, ',' ORDER BY ge.id), '') AS genre_ids,
       COALESCE(string_agg(ge.name, ',' ORDER BY ge.id), '') AS genre_names,
       COALESCE(string_agg(p.id::text, ',' ORDER BY p.id), '') AS platform_ids,
       COALESCE(string_agg(p.name, ',' ORDER BY p.id), '') AS platform_names
FROM games g
JOIN age_ratings ar ON ar.id = g.age_rating_id
LEFT JOIN game_genres gg ON gg.game_id = g.id
LEFT JOIN genres ge ON ge.id = gg.genre_id
LEFT JOIN game_platforms gp ON gp.game_id = g.id
LEFT JOIN platforms p ON p.id = gp.platform_id`

const flatGroupBy = `
GROUP BY g.id, g.name, g.price, g.description, g.release_date, ar.id, ar.age, ar.description`

// searchWhere matches the prefix tsquery against game name, genre name
// OR platform name; a game matches if any of the three does.
const searchWhere = `
WHERE to_tsvector('simple', g.name) @@ to_tsquery('simple', @q)
   OR to_tsvector('simple', COALESCE(ge.name, '')) @@ to_tsquery('simple', @q)
   OR to_tsvector('simple', COALESCE(p.name, '')) @@ to_tsquery('simple', @q)`

// GameRepository plans and executes the paginated listing and search
// queries against the multi-table join.
type GameRepository struct {
	db       *gorm.DB
	pageSize int
}

func NewGameRepository(db *gorm.DB, pageSize int) *GameRepository {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &GameRepository{db: db, pageSize: pageSize}
}

func (r *GameRepository) PageSize() int { return r.pageSize }

// List returns one page of denormalized rows ordered by release date.
// Pages are 1-based; page <= 1 means offset 0.
func (r *GameRepository) List(ctx context.Context, page int, sortField, sortOrder string) ([]FlatGameRow, error) {
	order, err := orderClause(sortField, sortOrder)
	if err != nil {
		return nil, err
	}

	query := flatSelect + flatGroupBy + "\nORDER BY " + order + "\nLIMIT ? OFFSET ?"

	var rows []FlatGameRow
	if err := r.db.WithContext(ctx).
		Raw(query, r.pageSize, offsetFor(page, r.pageSize)).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return rows, nil
}

// MaxPages counts all games with its own query rather than deriving the
// total from a page fetch, so a listing request never pulls every
// matching row just to count it.
func (r *GameRepository) MaxPages(ctx context.Context) (int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Game{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count games: %w", err)
	}
	return pageCount(total, r.pageSize), nil
}

// SearchIDs returns one page of matching game ids, ordered like List.
func (r *GameRepository) SearchIDs(ctx context.Context, term string, page int, sortField, sortOrder string) ([]uint, error) {
	order, err := orderClause(sortField, sortOrder)
	if err != nil {
		return nil, err
	}

	tsQuery := prefixQuery(term)
	if tsQuery == "" {
		return nil, nil
	}

	query := `
SELECT g.id
FROM games g
LEFT JOIN game_genres gg ON gg.game_id = g.id
LEFT JOIN genres ge ON ge.id = gg.genre_id
LEFT JOIN game_platforms gp ON gp.game_id = g.id
LEFT JOIN platforms p ON p.id = gp.platform_id` + searchWhere + `
GROUP BY g.id, g.release_date
ORDER BY ` + order + `
LIMIT @limit OFFSET @offset`

	var ids []uint
	if err := r.db.WithContext(ctx).
		Raw(query,
			map[string]interface{}{
				"q":      tsQuery,
				"limit":  r.pageSize,
				"offset": offsetFor(page, r.pageSize),
			}).
		Scan(&ids).Error; err != nil {
		return nil, fmt.Errorf("search games: %w", err)
	}
	return ids, nil
}

// MaxPagesForSearch counts matching games with a separate query, same
// two-query contract as MaxPages.
func (r *GameRepository) MaxPagesForSearch(ctx context.Context, term string) (int, error) {
	tsQuery := prefixQuery(term)
	if tsQuery == "" {
		return 0, nil
	}

	query := `
SELECT COUNT(DISTINCT g.id)
FROM games g
LEFT JOIN game_genres gg ON gg.game_id = g.id
LEFT JOIN genres ge ON ge.id = gg.genre_id
LEFT JOIN game_platforms gp ON gp.game_id = g.id
LEFT JOIN platforms p ON p.id = gp.platform_id` + searchWhere

	var total int64
	if err := r.db.WithContext(ctx).
		Raw(query, map[string]interface{}{"q": tsQuery}).
		Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("count search results: %w", err)
	}
	return pageCount(total, r.pageSize), nil
}

// GetByID fetches one game through the same flat projection and
// reconstructs the aggregate.
func (r *GameRepository) GetByID(ctx context.Context, id uint) (models.Game, error) {
	query := flatSelect + "\nWHERE g.id = ?" + flatGroupBy

	var rows []FlatGameRow
	if err := r.db.WithContext(ctx).Raw(query, id).Scan(&rows).Error; err != nil {
		return models.Game{}, fmt.Errorf("get game %d: %w", id, err)
	}
	if len(rows) == 0 {
		return models.Game{}, fmt.Errorf("game %d: %w", id, apperrors.ErrNotFound)
	}
	return FlattenRow(rows[0])
}

// Create inserts the game and its relation rows inside one transaction.
// Every referenced age rating, genre and platform must already exist;
// the first missing reference aborts the whole write.
func (r *GameRepository) Create(ctx context.Context, input models.GameInput) (models.Game, error) {
	var created models.Game

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		genres, platforms, err := checkReferences(tx, input)
		if err != nil {
			return err
		}

		game := models.Game{
			Name:        input.Name,
			Price:       input.Price,
			Description: input.Description,
			ReleaseDate: input.ReleaseDate,
			AgeRatingID: input.AgeRatingID,
			Genres:      genres,
			Platforms:   platforms,
		}
		if err := tx.Create(&game).Error; err != nil {
			return fmt.Errorf("create game: %w", err)
		}
		created = game
		return nil
	})
	if err != nil {
		return models.Game{}, err
	}
	return r.GetByID(ctx, created.ID)
}

// Update replaces the game's fields and relation sets transactionally,
// with the same reference checks as Create.
func (r *GameRepository) Update(ctx context.Context, id uint, input models.GameInput) (models.Game, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var game models.Game
		if err := tx.First(&game, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("game %d: %w", id, apperrors.ErrNotFound)
			}
			return err
		}

		genres, platforms, err := checkReferences(tx, input)
		if err != nil {
			return err
		}

		game.Name = input.Name
		game.Price = input.Price
		game.Description = input.Description
		game.ReleaseDate = input.ReleaseDate
		game.AgeRatingID = input.AgeRatingID

		if err := tx.Model(&game).Association("Genres").Replace(genres); err != nil {
			return fmt.Errorf("replace genres: %w", err)
		}
		if err := tx.Model(&game).Association("Platforms").Replace(platforms); err != nil {
			return fmt.Errorf("replace platforms: %w", err)
		}
		if err := tx.Save(&game).Error; err != nil {
			return fmt.Errorf("update game: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Game{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the game and its relation rows.
func (r *GameRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var game models.Game
		if err := tx.First(&game, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("game %d: %w", id, apperrors.ErrNotFound)
			}
			return err
		}
		if err := tx.Model(&game).Association("Genres").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&game).Association("Platforms").Clear(); err != nil {
			return err
		}
		return tx.Delete(&game).Error
	})
}

// checkReferences verifies the age rating, then each genre, then each
// platform in input order. The first missing id wins.
func checkReferences(tx *gorm.DB, input models.GameInput) ([]models.Genre, []models.Platform, error) {
	var rating models.AgeRating
	if err := tx.First(&rating, input.AgeRatingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("age rating %d: %w", input.AgeRatingID, apperrors.ErrNotFound)
		}
		return nil, nil, err
	}

	genres := make([]models.Genre, 0, len(input.GenreIDs))
	for _, genreID := range input.GenreIDs {
		var genre models.Genre
		if err := tx.First(&genre, genreID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, fmt.Errorf("genre %d: %w", genreID, apperrors.ErrNotFound)
			}
			return nil, nil, err
		}
		genres = append(genres, genre)
	}

	platforms := make([]models.Platform, 0, len(input.PlatformIDs))
	for _, platformID := range input.PlatformIDs {
		var platform models.Platform
		if err := tx.First(&platform, platformID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, fmt.Errorf("platform %d: %w", platformID, apperrors.ErrNotFound)
			}
			return nil, nil, err
		}
		platforms = append(platforms, platform)
	}

	return genres, platforms, nil
}

// orderClause whitelists the sort inputs before they are interpolated
// into SQL. Only release-date sorting is supported.
func orderClause(sortField, sortOrder string) (string, error) {
	if sortField != "releaseDate" {
		return "", fmt.Errorf("unsupported sort field %q", sortField)
	}
	order := strings.ToUpper(sortOrder)
	if order != "ASC" && order != "DESC" {
		return "", fmt.Errorf("unsupported sort order %q", sortOrder)
	}
	return "g.release_date " + order, nil
}

// offsetFor treats page <= 1 as page 1.
func offsetFor(page, pageSize int) int {
	if page <= 1 {
		return 0
	}
	return (page - 1) * pageSize
}

// pageCount is ceil(total / pageSize).
func pageCount(total int64, pageSize int) int {
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// prefixQuery turns a free-text term into a require-all prefix tsquery:
// "dark sou" -> "dark:* & sou:*". tsquery operators are stripped from
// the tokens first.
func prefixQuery(term string) string {
	sanitizer := strings.NewReplacer(
		"&", " ", "|", " ", "!", " ", "(", " ", ")", " ",
		":", " ", "*", " ", "'", " ", "\\", " ", "<", " ", ">", " ",
	)
	fields := strings.Fields(sanitizer.Replace(term))
	if len(fields) == 0 {
		return ""
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ":*"
	}
	return strings.Join(parts, " & ")
}
