package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Title       string          `gorm:"size:128;not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(20,9);not null"` // SOL
	PhotoID     string          `gorm:"size:128"`                    // telegram file id, optional
	Content     string          `gorm:"type:text;not null"`          // download link or telegram file id
	IsFile      bool            `gorm:"not null;default:false"`
	FileName    string          `gorm:"size:256"`
	CreatedAt   time.Time
}

type Purchase struct {
	ID        uint   `gorm:"primaryKey"`
	BuyerID   int64  `gorm:"index;not null"`
	BuyerName string `gorm:"size:128"`
	// FK → product.id
	ProductID uint `gorm:"index;not null"`
	// price captured at purchase time, so lifetime sales survive catalog
	// removals
	Price decimal.Decimal `gorm:"type:decimal(20,9);not null"`
	// proof of payment; the unique index is what makes a signature single-use
	Signature string `gorm:"size:128;uniqueIndex;not null"`
	CreatedAt time.Time
}
