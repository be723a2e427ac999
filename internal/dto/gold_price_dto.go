package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// UpdateGoldPriceRequest triggers a full recalculation of all active products.
type UpdateGoldPriceRequest struct {
	PricePerGram decimal.Decimal `json:"price_per_gram" validate:"required"`
	Carat        *string         `json:"carat"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type GoldPriceResponse struct {
	ID           uint            `json:"id"`
	PricePerGram decimal.Decimal `json:"price_per_gram"`
	Carat        string          `json:"carat"`
	Currency     string          `json:"currency"`
	UpdatedAt    string          `json:"updated_at"`
}

// PriceChangeDetail is the per-product delta reported by a recalculation.
// PercentChange is null when the previous price was zero (change unmeasurable).
type PriceChangeDetail struct {
	ProductID     uint             `json:"product_id"`
	ProductName   string           `json:"product_name"`
	OldPrice      decimal.Decimal  `json:"old_price"`
	NewPrice      decimal.Decimal  `json:"new_price"`
	PercentChange *decimal.Decimal `json:"percent_change"`
}

type RecalculationResponse struct {
	Success      bool                `json:"success"`
	Message      string              `json:"message"`
	UpdatedCount int                 `json:"updated_count"`
	Details      []PriceChangeDetail `json:"details"`
}
