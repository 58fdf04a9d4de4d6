package repository

import (
	"context"

	"golang-finance-insight/internal/entity"

	"gorm.io/gorm"
)

// JoinedProductRepository records product subscriptions.
type JoinedProductRepository interface {
	FindOption(ctx context.Context, optionID uint) (*entity.ProductOption, *entity.FinancialProduct, error)
	Create(ctx context.Context, joined *entity.JoinedProduct) error
}

// NewJoinedProductRepository creates a new GORM-based joined product repository.
func NewJoinedProductRepository(db *gorm.DB) JoinedProductRepository {
	return &joinedProductRepository{db: db}
}

type joinedProductRepository struct {
	db *gorm.DB
}

// FindOption loads the option and the product it belongs to, with the product's bank.
func (r *joinedProductRepository) FindOption(ctx context.Context, optionID uint) (*entity.ProductOption, *entity.FinancialProduct, error) {
	var option entity.ProductOption
	if err := r.db.WithContext(ctx).First(&option, optionID).Error; err != nil {
		return nil, nil, err
	}
	var product entity.FinancialProduct
	if err := r.db.WithContext(ctx).Preload("Bank").First(&product, option.ProductID).Error; err != nil {
		return nil, nil, err
	}
	return &option, &product, nil
}

func (r *joinedProductRepository) Create(ctx context.Context, joined *entity.JoinedProduct) error {
	return r.db.WithContext(ctx).Create(joined).Error
}
