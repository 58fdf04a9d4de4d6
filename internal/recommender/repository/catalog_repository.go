package repository

import (
	"context"
	"time"

	"golang-finance-insight/internal/entity"
	"golang-finance-insight/internal/recommender"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository returns a ProductCatalog backed by the products tables.
func NewCatalogRepository(db *gorm.DB) recommender.ProductCatalog {
	return &catalogRepository{db: db}
}

// ListEligibleProducts loads products that have a bank and at least one option.
func (r *catalogRepository) ListEligibleProducts(ctx context.Context) ([]entity.FinancialProduct, error) {
	var products []entity.FinancialProduct
	err := r.db.WithContext(ctx).
		Preload("Bank").
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_options.id ASC")
		}).
		Where("financial_products.bank_id IS NOT NULL").
		Where("EXISTS (SELECT 1 FROM product_options po WHERE po.product_id = financial_products.id)").
		Order("financial_products.id ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	eligible := products[:0]
	for _, p := range products {
		if p.Bank == nil {
			continue
		}
		eligible = append(eligible, p)
	}
	return eligible, nil
}

const catalogCacheKey = "eligible_products"

type cachedCatalog struct {
	next  recommender.ProductCatalog
	cache *cache.Cache
}

// NewCachedCatalog wraps next with a read-through in-memory cache. A ttl of zero disables caching.
func NewCachedCatalog(next recommender.ProductCatalog, ttl time.Duration) recommender.ProductCatalog {
	if ttl <= 0 {
		return next
	}
	return &cachedCatalog{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *cachedCatalog) ListEligibleProducts(ctx context.Context) ([]entity.FinancialProduct, error) {
	if v, ok := c.cache.Get(catalogCacheKey); ok {
		return v.([]entity.FinancialProduct), nil
	}

	products, err := c.next.ListEligibleProducts(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Set(catalogCacheKey, products, cache.DefaultExpiration)
	return products, nil
}
