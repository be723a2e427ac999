package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/tarekelsergany/gold-ecommerce/internal/dto"
	"github.com/tarekelsergany/gold-ecommerce/internal/model"
	"github.com/tarekelsergany/gold-ecommerce/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory repository stubs ───────────────────────────────────────────────
// The stubs return a nil DB() so runTx invokes the callback directly without
// a transaction — services under test exercise the same code path.

type stubGoldPriceRepo struct {
	prices []*model.GoldPrice
	nextID uint
}

func newStubGoldPriceRepo() *stubGoldPriceRepo { return &stubGoldPriceRepo{nextID: 1} }

func (r *stubGoldPriceRepo) Latest(_ context.Context) (*model.GoldPrice, error) {
	if len(r.prices) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	latest := r.prices[0]
	for _, gp := range r.prices[1:] {
		if gp.UpdatedAt.After(latest.UpdatedAt) ||
			(gp.UpdatedAt.Equal(latest.UpdatedAt) && gp.ID > latest.ID) {
			latest = gp
		}
	}
	return latest, nil
}

func (r *stubGoldPriceRepo) CreateTx(_ *gorm.DB, gp *model.GoldPrice) error {
	gp.ID = r.nextID
	r.nextID++
	if gp.UpdatedAt.IsZero() {
		gp.UpdatedAt = time.Now()
	}
	r.prices = append(r.prices, gp)
	return nil
}

func (r *stubGoldPriceRepo) DB() *gorm.DB { return nil }

var _ repository.GoldPriceRepository = (*stubGoldPriceRepo)(nil)

type stubProductRepo struct {
	products map[uint]*model.Product
	nextID   uint
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uint]*model.Product), nextID: 1}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uint) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) ListActive(_ context.Context) ([]model.Product, error) {
	return r.activeSortedByID(), nil
}

func (r *stubProductRepo) Search(_ context.Context, filter dto.ProductFilter) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.activeSortedByID() {
		if filter.Query != "" {
			q := strings.ToLower(filter.Query)
			desc := ""
			if p.Description != nil {
				desc = *p.Description
			}
			if !strings.Contains(strings.ToLower(p.Name), q) &&
				!strings.Contains(strings.ToLower(desc), q) {
				continue
			}
		}
		if filter.Category != "" && (p.Category == nil || *p.Category != filter.Category) {
			continue
		}
		if filter.Carat != "" && p.Carat != filter.Carat {
			continue
		}
		if filter.MinPrice != "" {
			if minP, err := decimal.NewFromString(filter.MinPrice); err == nil && p.SellingPrice.LessThan(minP) {
				continue
			}
		}
		if filter.MaxPrice != "" {
			if maxP, err := decimal.NewFromString(filter.MaxPrice); err == nil && p.SellingPrice.GreaterThan(maxP) {
				continue
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *stubProductRepo) Categories(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range r.activeSortedByID() {
		if p.Category != nil && !seen[*p.Category] {
			seen[*p.Category] = true
			out = append(out, *p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	p.UpdatedAt = time.Now()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) Deactivate(_ context.Context, id uint) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.IsActive = false
	return nil
}

func (r *stubProductRepo) ListActiveForUpdateTx(_ *gorm.DB) ([]model.Product, error) {
	return r.activeSortedByID(), nil
}

func (r *stubProductRepo) UpdateSellingPriceTx(_ *gorm.DB, id uint, price decimal.Decimal) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.SellingPrice = price
	p.UpdatedAt = time.Now()
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

func (r *stubProductRepo) activeSortedByID() []model.Product {
	var out []model.Product
	for _, p := range r.products {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

type stubHistoryRepo struct {
	rows   []*model.PriceHistory
	nextID uint
}

func newStubHistoryRepo() *stubHistoryRepo { return &stubHistoryRepo{nextID: 1} }

func (r *stubHistoryRepo) CreateTx(_ *gorm.DB, h *model.PriceHistory) error {
	h.ID = r.nextID
	r.nextID++
	h.CreatedAt = time.Now()
	r.rows = append(r.rows, h)
	return nil
}

func (r *stubHistoryRepo) ListByProduct(_ context.Context, productID uint, limit int) ([]model.PriceHistory, error) {
	if limit < 1 || limit > 50 {
		limit = 50
	}
	var out []model.PriceHistory
	for i := len(r.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if r.rows[i].ProductID == productID {
			out = append(out, *r.rows[i])
		}
	}
	return out, nil
}

func (r *stubHistoryRepo) countFor(productID uint) int {
	n := 0
	for _, h := range r.rows {
		if h.ProductID == productID {
			n++
		}
	}
	return n
}

var _ repository.PriceHistoryRepository = (*stubHistoryRepo)(nil)

// ── Shared seed helpers ──────────────────────────────────────────────────────

func seedProduct(repo *stubProductRepo, name, carat string, weight, making, margin, price string, active bool) *model.Product {
	p := &model.Product{
		ID:               repo.nextID,
		Name:             name,
		Carat:            carat,
		WeightGrams:      mustDec(weight),
		MakingChargesPct: mustDec(making),
		ProfitMarginPct:  mustDec(margin),
		SellingPrice:     mustDec(price),
		IsActive:         active,
	}
	repo.nextID++
	repo.products[p.ID] = p
	return p
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
