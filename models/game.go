package models

import "time"

type Game struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Price       float64    `gorm:"not null" json:"price"`
	Description string     `json:"description"`
	ReleaseDate time.Time  `gorm:"not null" json:"releaseDate"`
	AgeRatingID uint       `gorm:"not null" json:"ageRatingId"`
	AgeRating   AgeRating  `gorm:"foreignKey:AgeRatingID" json:"ageRating"`
	Genres      []Genre    `gorm:"many2many:game_genres" json:"genres"`
	Platforms   []Platform `gorm:"many2many:game_platforms" json:"platforms"`
}

// GameInput - payload for creating or updating a game
type GameInput struct {
	Name        string    `json:"name" validate:"required,min=1,max=100"`
	Price       float64   `json:"price" validate:"gte=0"`
	Description string    `json:"description"`
	ReleaseDate time.Time `json:"releaseDate" validate:"required"`
	AgeRatingID uint      `json:"ageRatingId" validate:"required,gte=1"`
	GenreIDs    []uint    `json:"genreIds" validate:"required,min=1,max=4,unique"`
	PlatformIDs []uint    `json:"platformIds" validate:"required,min=1,max=4,unique"`
}
