package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"gamehub/config"
	"gamehub/models"
)

// Init opens the database, runs migrations and seeds the age ratings.
// The handle is returned to the caller instead of being kept in a
// package-level variable; every query goes through gorm's pooled *sql.DB,
// so concurrent requests never share one in-flight connection.
func Init(cfg *config.Config) (*gorm.DB, error) {
	database, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := database.AutoMigrate(
		&models.AgeRating{},
		&models.Genre{},
		&models.Platform{},
		&models.Game{},
		&models.User{},
		&models.Review{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	if err := seedAgeRatings(database); err != nil {
		return nil, fmt.Errorf("failed to seed age ratings: %w", err)
	}

	return database, nil
}

// seedAgeRatings inserts the fixed reference rows once. Age ratings are
// immutable data; existing labels are left untouched.
func seedAgeRatings(database *gorm.DB) error {
	ratings := []models.AgeRating{
		{Age: "3+", Description: "Suitable for all ages"},
		{Age: "7+", Description: "May contain mild violence"},
		{Age: "12+", Description: "May contain moderate violence and mild language"},
		{Age: "16+", Description: "May contain realistic violence and strong language"},
		{Age: "18+", Description: "Adults only"},
	}

	for _, rating := range ratings {
		var existing models.AgeRating
		err := database.Where("age = ?", rating.Age).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := database.Create(&rating).Error; err != nil {
			return err
		}
	}
	return nil
}
