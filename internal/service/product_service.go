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

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductService is the business logic contract for the product catalog.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.ProductResponse, error)
	ListActive(ctx context.Context) ([]dto.ProductResponse, error)
	Update(ctx context.Context, id uint, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uint) error
	Search(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error)
	Categories(ctx context.Context) ([]string, error)
	History(ctx context.Context, productID uint, limit int) ([]dto.PriceHistoryItem, error)

	// AuditPrices recomputes every active product against the current gold
	// price and reports drifted rows; with repair=true drifted prices are
	// rewritten (with history rows) in one transaction.
	AuditPrices(ctx context.Context, repair bool) (*dto.AuditResponse, error)
}

type productService struct {
	repo          repository.ProductRepository
	goldPriceRepo repository.GoldPriceRepository
	historyRepo   repository.PriceHistoryRepository
}

func NewProductService(
	repo repository.ProductRepository,
	goldPriceRepo repository.GoldPriceRepository,
	historyRepo repository.PriceHistoryRepository,
) ProductService {
	return &productService{repo: repo, goldPriceRepo: goldPriceRepo, historyRepo: historyRepo}
}

// currentGoldPrice loads the latest quoted price. A catalog write needs a
// positive price to exist — creating products against a zero price would
// materialize selling prices the engine could never reproduce.
func (s *productService) currentGoldPrice(ctx context.Context) (decimal.Decimal, error) {
	gp, err := s.goldPriceRepo.Latest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, fmt.Errorf("%w: no gold price configured — set one before pricing products", ErrInvalidInput)
		}
		return decimal.Zero, err
	}
	return gp.PricePerGram, nil
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	pricePerGram, err := s.currentGoldPrice(ctx)
	if err != nil {
		return nil, err
	}

	makingCharges := decimal.Zero
	if req.MakingCharges != nil {
		makingCharges = *req.MakingCharges
	}
	profitMargin := decimal.Zero
	if req.ProfitMargin != nil {
		profitMargin = *req.ProfitMargin
	}

	breakdown, err := pricing.Compute(pricing.Attrs{
		WeightGrams:      req.Weight,
		Carat:            req.Carat,
		MakingChargesPct: makingCharges,
		ProfitMarginPct:  profitMargin,
	}, pricePerGram)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, err
	}

	stock := 0
	if req.StockQuantity != nil {
		stock = *req.StockQuantity
	}

	p := &model.Product{
		Name:             req.Name,
		Description:      req.Description,
		WeightGrams:      req.Weight,
		Carat:            req.Carat,
		MakingChargesPct: makingCharges,
		ProfitMarginPct:  profitMargin,
		SellingPrice:     breakdown.SellingPrice,
		Category:         req.Category,
		StockQuantity:    stock,
		IsActive:         true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) GetByID(ctx context.Context, id uint) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) ListActive(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return productsToResponses(products), nil
}

// Update applies a partial update. When any pricing attribute changes
// (weight, carat, making charges, profit margin) the selling price is
// recomputed against the CURRENT gold price and one history row is appended;
// otherwise the materialized price is left untouched.
func (s *productService) Update(ctx context.Context, id uint, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Category != nil {
		p.Category = req.Category
	}
	if req.StockQuantity != nil {
		p.StockQuantity = *req.StockQuantity
	}

	repricing := false
	if req.Weight != nil && !req.Weight.Equal(p.WeightGrams) {
		p.WeightGrams = *req.Weight
		repricing = true
	}
	if req.Carat != nil && *req.Carat != p.Carat {
		p.Carat = *req.Carat
		repricing = true
	}
	if req.MakingCharges != nil && !req.MakingCharges.Equal(p.MakingChargesPct) {
		p.MakingChargesPct = *req.MakingCharges
		repricing = true
	}
	if req.ProfitMargin != nil && !req.ProfitMargin.Equal(p.ProfitMarginPct) {
		p.ProfitMarginPct = *req.ProfitMargin
		repricing = true
	}

	if !repricing {
		if err := s.repo.Update(ctx, p); err != nil {
			return nil, err
		}
		return productToResponse(p), nil
	}

	pricePerGram, err := s.currentGoldPrice(ctx)
	if err != nil {
		return nil, err
	}
	breakdown, err := pricing.Compute(pricing.Attrs{
		WeightGrams:      p.WeightGrams,
		Carat:            p.Carat,
		MakingChargesPct: p.MakingChargesPct,
		ProfitMarginPct:  p.ProfitMarginPct,
	}, pricePerGram)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, err
	}

	oldPrice := p.SellingPrice
	p.SellingPrice = breakdown.SellingPrice

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.historyRepo.CreateTx(tx, &model.PriceHistory{
			ProductID: p.ID,
			OldPrice:  oldPrice,
			NewPrice:  p.SellingPrice,
			GoldPrice: pricePerGram,
		}); err != nil {
			return err
		}
		if tx == nil {
			return s.repo.Update(ctx, p)
		}
		return tx.Save(p).Error
	})
	if txErr != nil {
		return nil, txErr
	}
	return productToResponse(p), nil
}

func (s *productService) Deactivate(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.Deactivate(ctx, id)
}

func (s *productService) Search(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error) {
	products, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return productsToResponses(products), nil
}

func (s *productService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *productService) History(ctx context.Context, productID uint, limit int) ([]dto.PriceHistoryItem, error) {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rows, err := s.historyRepo.ListByProduct(ctx, productID, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PriceHistoryItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.PriceHistoryItem{
			ID:        r.ID,
			ProductID: r.ProductID,
			OldPrice:  r.OldPrice,
			NewPrice:  r.NewPrice,
			GoldPrice: r.GoldPrice,
			ChangedAt: r.CreatedAt.Format(time.RFC3339),
		})
	}
	return items, nil
}

func (s *productService) AuditPrices(ctx context.Context, repair bool) (*dto.AuditResponse, error) {
	gp, err := s.goldPriceRepo.Latest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Nothing to verify against on a fresh install.
			return &dto.AuditResponse{Items: []dto.AuditItem{}}, nil
		}
		return nil, err
	}

	products, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.AuditResponse{Checked: len(products), Items: []dto.AuditItem{}}
	for i := range products {
		p := &products[i]
		breakdown, err := pricing.Compute(pricing.Attrs{
			WeightGrams:      p.WeightGrams,
			Carat:            p.Carat,
			MakingChargesPct: p.MakingChargesPct,
			ProfitMarginPct:  p.ProfitMarginPct,
		}, gp.PricePerGram)
		if err != nil {
			return nil, fmt.Errorf("auditing product %d: %w", p.ID, err)
		}
		if breakdown.SellingPrice.Equal(p.SellingPrice) {
			continue
		}

		item := dto.AuditItem{
			ProductID:     p.ID,
			StoredPrice:   p.SellingPrice,
			ExpectedPrice: breakdown.SellingPrice,
		}
		resp.Drifted++

		if repair {
			oldPrice := p.SellingPrice
			txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
				if err := s.historyRepo.CreateTx(tx, &model.PriceHistory{
					ProductID: p.ID,
					OldPrice:  oldPrice,
					NewPrice:  breakdown.SellingPrice,
					GoldPrice: gp.PricePerGram,
				}); err != nil {
					return err
				}
				return s.repo.UpdateSellingPriceTx(tx, p.ID, breakdown.SellingPrice)
			})
			if txErr != nil {
				return nil, txErr
			}
			item.Repaired = true
			resp.Repaired++
		}
		resp.Items = append(resp.Items, item)
	}
	return resp, nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Weight:        p.WeightGrams,
		Carat:         p.Carat,
		MakingCharges: p.MakingChargesPct,
		ProfitMargin:  p.ProfitMarginPct,
		SellingPrice:  p.SellingPrice,
		Category:      p.Category,
		StockQuantity: p.StockQuantity,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     p.UpdatedAt.Format(time.RFC3339),
	}
}

func productsToResponses(products []model.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *productToResponse(&products[i]))
	}
	return out
}
