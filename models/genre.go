package models

type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
}

// GenreInput - payload for creating or renaming a genre
type GenreInput struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}
