package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name          string           `json:"name"           validate:"required,min=2,max=120"`
	Description   *string          `json:"description"`
	Weight        decimal.Decimal  `json:"weight"         validate:"required"`
	Carat         string           `json:"carat"          validate:"required"`
	MakingCharges *decimal.Decimal `json:"making_charges"`
	ProfitMargin  *decimal.Decimal `json:"profit_margin"`
	Category      *string          `json:"category"`
	StockQuantity *int             `json:"stock_quantity" validate:"omitempty,min=0"`
}

type UpdateProductRequest struct {
	Name          *string          `json:"name"           validate:"omitempty,min=2,max=120"`
	Description   *string          `json:"description"`
	Weight        *decimal.Decimal `json:"weight"`
	Carat         *string          `json:"carat"`
	MakingCharges *decimal.Decimal `json:"making_charges"`
	ProfitMargin  *decimal.Decimal `json:"profit_margin"`
	Category      *string          `json:"category"`
	StockQuantity *int             `json:"stock_quantity" validate:"omitempty,min=0"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type ProductFilter struct {
	Query    string `form:"q"`
	Category string `form:"category"`
	Carat    string `form:"carat"`
	MinPrice string `form:"min_price"`
	MaxPrice string `form:"max_price"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	Weight        decimal.Decimal `json:"weight"`
	Carat         string          `json:"carat"`
	MakingCharges decimal.Decimal `json:"making_charges"`
	ProfitMargin  decimal.Decimal `json:"profit_margin"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Category      *string         `json:"category"`
	StockQuantity int             `json:"stock_quantity"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

type PriceHistoryItem struct {
	ID        uint            `json:"id"`
	ProductID uint            `json:"product_id"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
	GoldPrice decimal.Decimal `json:"gold_price"`
	ChangedAt string          `json:"changed_at"`
}

// AuditItem is one drifted product found by the consistency audit.
type AuditItem struct {
	ProductID     uint            `json:"product_id"`
	StoredPrice   decimal.Decimal `json:"stored_price"`
	ExpectedPrice decimal.Decimal `json:"expected_price"`
	Repaired      bool            `json:"repaired"`
}

type AuditResponse struct {
	Checked  int         `json:"checked"`
	Drifted  int         `json:"drifted"`
	Repaired int         `json:"repaired"`
	Items    []AuditItem `json:"items"`
}
