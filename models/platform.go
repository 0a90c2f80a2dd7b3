package models

type Platform struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
}

// PlatformInput - payload for creating or renaming a platform
type PlatformInput struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}
