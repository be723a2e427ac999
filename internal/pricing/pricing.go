// Package pricing implements the selling-price formula for gold jewelry.
// It is a pure computation — no store access, no clocks, no globals — so the
// recalculation orchestrator and the audit can both replay it byte-for-byte.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned for non-positive weights/prices or negative
// percentages. The engine has no other failure mode.
var ErrInvalidInput = errors.New("invalid pricing input")

// purityFactors maps a carat label to the fraction of pure gold by mass.
// 22K uses 22/24 to four places (0.9167). Lookup is total: an unknown label
// falls back to 1.0 (pure metal) — it never fails.
var purityFactors = map[string]decimal.Decimal{
	"24K": decimal.NewFromFloat(1.000),
	"22K": decimal.NewFromFloat(0.9167),
	"21K": decimal.NewFromFloat(0.875),
	"18K": decimal.NewFromFloat(0.750),
	"14K": decimal.NewFromFloat(0.585),
	"10K": decimal.NewFromFloat(0.417),
}

// Attrs are the product attributes the formula depends on.
type Attrs struct {
	WeightGrams      decimal.Decimal
	Carat            string
	MakingChargesPct decimal.Decimal
	ProfitMarginPct  decimal.Decimal
}

// Breakdown is the step-by-step output of one computation. Every field is
// already rounded to 2 decimal places.
type Breakdown struct {
	GoldValue     decimal.Decimal `json:"gold_value"`
	MakingCharges decimal.Decimal `json:"making_charges"`
	BaseCost      decimal.Decimal `json:"base_cost"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
}

var (
	oneHundred = decimal.NewFromInt(100)
	one        = decimal.NewFromInt(1)
)

// PurityFactor returns the purity fraction for a carat label, 1.0 when the
// label is not recognized.
func PurityFactor(carat string) decimal.Decimal {
	if f, ok := purityFactors[carat]; ok {
		return f
	}
	return one
}

// KnownCarats returns the labels the factor table recognizes.
func KnownCarats() []string {
	return []string{"24K", "22K", "21K", "18K", "14K", "10K"}
}

// Compute applies the pricing formula:
//
//	goldValue     = weight × pricePerGram × purityFactor
//	makingCharges = goldValue × makingCharges%/100
//	baseCost      = goldValue + makingCharges
//	sellingPrice  = baseCost × (1 + profitMargin%/100)
//
// Each monetary step is rounded to 2 places independently (half away from
// zero, decimal.Round semantics) — rounding is NOT deferred to the end, so
// a stored price can be reproduced exactly from the same inputs.
func Compute(attrs Attrs, pricePerGram decimal.Decimal) (Breakdown, error) {
	if attrs.WeightGrams.LessThanOrEqual(decimal.Zero) {
		return Breakdown{}, fmt.Errorf("%w: weight must be greater than zero", ErrInvalidInput)
	}
	if pricePerGram.LessThanOrEqual(decimal.Zero) {
		return Breakdown{}, fmt.Errorf("%w: gold price must be greater than zero", ErrInvalidInput)
	}
	if attrs.MakingChargesPct.IsNegative() {
		return Breakdown{}, fmt.Errorf("%w: making charges cannot be negative", ErrInvalidInput)
	}
	if attrs.ProfitMarginPct.IsNegative() {
		return Breakdown{}, fmt.Errorf("%w: profit margin cannot be negative", ErrInvalidInput)
	}

	factor := PurityFactor(attrs.Carat)

	goldValue := attrs.WeightGrams.Mul(pricePerGram).Mul(factor).Round(2)
	makingCharges := goldValue.Mul(attrs.MakingChargesPct.Div(oneHundred)).Round(2)
	baseCost := goldValue.Add(makingCharges).Round(2)
	sellingPrice := baseCost.Mul(one.Add(attrs.ProfitMarginPct.Div(oneHundred))).Round(2)

	return Breakdown{
		GoldValue:     goldValue,
		MakingCharges: makingCharges,
		BaseCost:      baseCost,
		SellingPrice:  sellingPrice,
	}, nil
}
