package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceHistory records each selling-price change of a product.
// Rows are immutable — never updated or deleted, except by cascade when the
// product itself is deleted.
type PriceHistory struct {
	ID        uint            `gorm:"primarykey"`
	ProductID uint            `gorm:"not null;index"`
	OldPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	NewPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// GoldPrice is the price-per-gram that triggered this change.
	GoldPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time

	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (PriceHistory) TableName() string { return "price_history" }
