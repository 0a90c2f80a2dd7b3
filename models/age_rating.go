package models

// AgeRating is immutable reference data, seeded at startup.
type AgeRating struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Age         string `gorm:"unique;not null" json:"age"`
	Description string `json:"description"`
}

// AgeRatingInput - payload for creating an age rating
type AgeRatingInput struct {
	Age         string `json:"age" validate:"required,min=1,max=10"`
	Description string `json:"description" validate:"required"`
}
