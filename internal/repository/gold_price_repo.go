package repository

import (
	"context"

	"github.com/tarekelsergany/gold-ecommerce/internal/model"

	"gorm.io/gorm"
)

// GoldPriceRepository is the data access contract for the insert-only gold
// price table. Services depend on this interface, not on the concrete GORM
// implementation, enabling clean unit testing via stubs.
type GoldPriceRepository interface {
	// Latest returns the current price: max(updated_at), ties broken by max(id).
	// gorm.ErrRecordNotFound when the table is empty.
	Latest(ctx context.Context) (*model.GoldPrice, error)

	// CreateTx inserts a new price row inside an open transaction.
	CreateTx(tx *gorm.DB, gp *model.GoldPrice) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type goldPriceRepo struct{ db *gorm.DB }

func NewGoldPriceRepository(db *gorm.DB) GoldPriceRepository { return &goldPriceRepo{db: db} }

func (r *goldPriceRepo) Latest(ctx context.Context) (*model.GoldPrice, error) {
	var gp model.GoldPrice
	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Order("id DESC").
		First(&gp).Error
	if err != nil {
		return nil, err
	}
	return &gp, nil
}

func (r *goldPriceRepo) CreateTx(tx *gorm.DB, gp *model.GoldPrice) error {
	return tx.Create(gp).Error
}

func (r *goldPriceRepo) DB() *gorm.DB { return r.db }
