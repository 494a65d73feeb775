package client

import (
	"fmt"
	"solana-store-bot/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func InitSqliteClient(path string) (*gorm.DB, error) {
	// TranslateError maps sqlite UNIQUE violations to gorm.ErrDuplicatedKey,
	// which the purchase repo relies on for the single-use check.
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Product{},
		&model.Purchase{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return db, nil
}
