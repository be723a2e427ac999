package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tarekelsergany/gold-ecommerce/internal/dto"
	"github.com/tarekelsergany/gold-ecommerce/internal/model"
	"github.com/tarekelsergany/gold-ecommerce/internal/pricing"
	"github.com/tarekelsergany/gold-ecommerce/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GoldPriceService owns the recalculation orchestration: a new gold price
// atomically reprices every active product and appends one history row per
// product.
type GoldPriceService interface {
	Latest(ctx context.Context) (*dto.GoldPriceResponse, error)
	ApplyNewPrice(ctx context.Context, req dto.UpdateGoldPriceRequest) (*dto.RecalculationResponse, error)
}

type goldPriceService struct {
	repo        repository.GoldPriceRepository
	productRepo repository.ProductRepository
	historyRepo repository.PriceHistoryRepository
}

func NewGoldPriceService(
	repo repository.GoldPriceRepository,
	productRepo repository.ProductRepository,
	historyRepo repository.PriceHistoryRepository,
) GoldPriceService {
	return &goldPriceService{repo: repo, productRepo: productRepo, historyRepo: historyRepo}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *goldPriceService) Latest(ctx context.Context) (*dto.GoldPriceResponse, error) {
	gp, err := s.repo.Latest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return goldPriceToResponse(gp), nil
}

// ApplyNewPrice validates the price, then runs the whole batch as one ACID
// transaction:
//  1. insert the new gold price row (never overwrite)
//  2. load all active products with FOR UPDATE — concurrent recalculations
//     serialize on these row locks instead of interleaving
//  3. per product: compute the new price, append a history row, update the
//     materialized selling_price
//  4. commit-or-rollback as one unit — a failure anywhere leaves no partial
//     state, not even the gold price row
func (s *goldPriceService) ApplyNewPrice(ctx context.Context, req dto.UpdateGoldPriceRequest) (*dto.RecalculationResponse, error) {
	if req.PricePerGram.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: price_per_gram must be a positive number", ErrInvalidInput)
	}

	carat := "24K"
	if req.Carat != nil && *req.Carat != "" {
		carat = *req.Carat
	}

	details := make([]dto.PriceChangeDetail, 0)

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		gp := &model.GoldPrice{
			PricePerGram: req.PricePerGram,
			Carat:        carat,
			Currency:     "EGP",
			UpdatedAt:    time.Now(),
		}
		if err := s.repo.CreateTx(tx, gp); err != nil {
			return err
		}

		products, err := s.productRepo.ListActiveForUpdateTx(tx)
		if err != nil {
			return err
		}

		for i := range products {
			p := &products[i]

			breakdown, err := pricing.Compute(pricing.Attrs{
				WeightGrams:      p.WeightGrams,
				Carat:            p.Carat,
				MakingChargesPct: p.MakingChargesPct,
				ProfitMarginPct:  p.ProfitMarginPct,
			}, req.PricePerGram)
			if err != nil {
				return fmt.Errorf("repricing product %d: %w", p.ID, err)
			}

			oldPrice := p.SellingPrice
			newPrice := breakdown.SellingPrice

			if err := s.historyRepo.CreateTx(tx, &model.PriceHistory{
				ProductID: p.ID,
				OldPrice:  oldPrice,
				NewPrice:  newPrice,
				GoldPrice: req.PricePerGram,
			}); err != nil {
				return err
			}
			if err := s.productRepo.UpdateSellingPriceTx(tx, p.ID, newPrice); err != nil {
				return err
			}

			details = append(details, dto.PriceChangeDetail{
				ProductID:     p.ID,
				ProductName:   p.Name,
				OldPrice:      oldPrice,
				NewPrice:      newPrice,
				PercentChange: percentChange(oldPrice, newPrice),
			})
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("price_per_gram", req.PricePerGram.String()).
		Str("carat", carat).
		Int("updated_count", len(details)).
		Msg("gold price applied")

	return &dto.RecalculationResponse{
		Success:      true,
		Message:      fmt.Sprintf("Gold price updated, %d products repriced", len(details)),
		UpdatedCount: len(details),
		Details:      details,
	}, nil
}

// percentChange returns (new-old)/old × 100 rounded to 2 places, or nil when
// the old price is zero — an unmeasurable change is reported as null, never
// as a division result.
func percentChange(oldPrice, newPrice decimal.Decimal) *decimal.Decimal {
	if oldPrice.IsZero() {
		return nil
	}
	pct := newPrice.Sub(oldPrice).
		Div(oldPrice).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	return &pct
}

func goldPriceToResponse(gp *model.GoldPrice) *dto.GoldPriceResponse {
	return &dto.GoldPriceResponse{
		ID:           gp.ID,
		PricePerGram: gp.PricePerGram,
		Carat:        gp.Carat,
		Currency:     gp.Currency,
		UpdatedAt:    gp.UpdatedAt.Format(time.RFC3339),
	}
}
