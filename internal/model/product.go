package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item. SellingPrice is a materialized copy of the
// pricing engine's output at the time of the last recalculation; it must
// always be reproducible by replaying pricing.Compute against the product
// attributes and the gold price in effect at UpdatedAt.
type Product struct {
	ID               uint    `gorm:"primarykey"`
	Name             string  `gorm:"index;not null"`
	Description      *string `gorm:"type:text"`
	WeightGrams      decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	Carat            string          `gorm:"type:varchar(10);not null"`
	MakingChargesPct decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	ProfitMarginPct  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	SellingPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Category         *string         `gorm:"type:varchar(80);index"`
	StockQuantity    int             `gorm:"not null;default:0"`
	IsActive         bool            `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Product) TableName() string { return "products" }
