package repository

import (
	"context"

	"golang-finance-insight/internal/entity"

	"gorm.io/gorm"
)

// UserRepository reads user profiles and their joined products.
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.User, error)
	JoinedProductCodes(ctx context.Context, userID uint) ([]string, error)
}

// NewUserRepository creates a new GORM-based user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) JoinedProductCodes(ctx context.Context, userID uint) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&entity.JoinedProduct{}).
		Joins("JOIN financial_products fp ON fp.id = joined_products.product_id").
		Where("joined_products.user_id = ?", userID).
		Distinct().
		Pluck("fp.code", &codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}
