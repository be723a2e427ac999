package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoldPrice is one quoted price-per-gram for a given carat.
// Rows are insert-only — a price change is always a new row, never an UPDATE.
// The current price is the row with the latest UpdatedAt, ties broken by
// highest ID (auto-increment, so insert order decides).
type GoldPrice struct {
	ID           uint            `gorm:"primarykey"`
	PricePerGram decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Carat        string          `gorm:"type:varchar(10);not null;default:'24K'"`
	Currency     string          `gorm:"type:varchar(10);not null;default:'EGP'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time `gorm:"index"`
}

func (GoldPrice) TableName() string { return "gold_prices" }
