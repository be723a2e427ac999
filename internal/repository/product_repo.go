package repository

import (
	"context"

	"github.com/tarekelsergany/gold-ecommerce/internal/dto"
	"github.com/tarekelsergany/gold-ecommerce/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository is the data access contract for products.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	ListActive(ctx context.Context) ([]model.Product, error)
	Search(ctx context.Context, filter dto.ProductFilter) ([]model.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Update(ctx context.Context, p *model.Product) error
	Deactivate(ctx context.Context, id uint) error

	// Used inside transactions — callers must pass the tx instance.
	// ListActiveForUpdateTx locks the batch rows (FOR UPDATE) so that two
	// concurrent recalculations cannot interleave their read-modify-write
	// cycles.
	ListActiveForUpdateTx(tx *gorm.DB) ([]model.Product, error)
	UpdateSellingPriceTx(tx *gorm.DB, id uint, price decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) ListActive(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("is_active = true").
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) Search(ctx context.Context, filter dto.ProductFilter) ([]model.Product, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("is_active = true")

	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Carat != "" {
		q = q.Where("carat = ?", filter.Carat)
	}
	if filter.MinPrice != "" {
		if min, err := decimal.NewFromString(filter.MinPrice); err == nil {
			q = q.Where("selling_price >= ?", min)
		}
	}
	if filter.MaxPrice != "" {
		if max, err := decimal.NewFromString(filter.MaxPrice); err == nil {
			q = q.Where("selling_price <= ?", max)
		}
	}

	var products []model.Product
	err := q.Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("is_active = true AND category IS NOT NULL").
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Deactivate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *productRepo) ListActiveForUpdateTx(tx *gorm.DB) ([]model.Product, error) {
	var products []model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("is_active = true").
		Order("id ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) UpdateSellingPriceTx(tx *gorm.DB, id uint, price decimal.Decimal) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).
		Update("selling_price", price).Error
}

func (r *productRepo) DB() *gorm.DB { return r.db }
