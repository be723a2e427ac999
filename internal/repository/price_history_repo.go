package repository

import (
	"context"

	"github.com/tarekelsergany/gold-ecommerce/internal/model"

	"gorm.io/gorm"
)

type PriceHistoryRepository interface {
	// CreateTx appends one immutable history row inside an open transaction.
	CreateTx(tx *gorm.DB, h *model.PriceHistory) error

	// ListByProduct returns up to limit rows for one product, newest first
	// (append-only table, so this reflects natural insert order). The limit
	// is clamped to at most 50 rows per request.
	ListByProduct(ctx context.Context, productID uint, limit int) ([]model.PriceHistory, error)
}

type priceHistoryRepo struct{ db *gorm.DB }

func NewPriceHistoryRepository(db *gorm.DB) PriceHistoryRepository {
	return &priceHistoryRepo{db: db}
}

func (r *priceHistoryRepo) CreateTx(tx *gorm.DB, h *model.PriceHistory) error {
	return tx.Create(h).Error
}

func (r *priceHistoryRepo) ListByProduct(ctx context.Context, productID uint, limit int) ([]model.PriceHistory, error) {
	if limit < 1 || limit > 50 {
		limit = 50
	}
	var rows []model.PriceHistory
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
