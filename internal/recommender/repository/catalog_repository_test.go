package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-finance-insight/internal/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&entity.Bank{}, &entity.FinancialProduct{}, &entity.ProductOption{}))
	return db
}

func rate(v float64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromFloat(v))
}

func TestCatalogRepository_ListEligibleProducts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	bank := entity.Bank{Code: "0010001", Name: "Shinhan Bank"}
	require.NoError(t, db.Create(&bank).Error)

	term := 12
	withOptions := entity.FinancialProduct{
		BankID:      &bank.ID,
		Code:        "WR0001",
		Name:        "Sol Deposit",
		ProductType: entity.ProductTypeDeposit,
		Options: []entity.ProductOption{
			{SaveTerm: &term, BaseRate: rate(3.1), MaxRate: rate(3.6)},
		},
	}
	noOptions := entity.FinancialProduct{BankID: &bank.ID, Code: "WR0002", Name: "Empty", ProductType: entity.ProductTypeSaving}
	noBank := entity.FinancialProduct{
		Code:        "WR0003",
		Name:        "Orphan",
		ProductType: entity.ProductTypeSaving,
		Options:     []entity.ProductOption{{SaveTerm: &term, MaxRate: rate(4.0)}},
	}
	require.NoError(t, db.Create(&withOptions).Error)
	require.NoError(t, db.Create(&noOptions).Error)
	require.NoError(t, db.Create(&noBank).Error)

	products, err := NewCatalogRepository(db).ListEligibleProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "WR0001", p.Code)
	assert.Equal(t, "Shinhan Bank", p.BankName())
	require.Len(t, p.Options, 1)
	assert.True(t, p.Options[0].MaxRate.Valid)
	assert.True(t, p.Options[0].MaxRate.Decimal.Equal(decimal.NewFromFloat(3.6)))
}

type countingCatalog struct {
	calls    int
	products []entity.FinancialProduct
	err      error
}

func (c *countingCatalog) ListEligibleProducts(context.Context) ([]entity.FinancialProduct, error) {
	c.calls++
	return c.products, c.err
}

func TestCachedCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("serves repeated reads from cache", func(t *testing.T) {
		next := &countingCatalog{products: []entity.FinancialProduct{{ID: 1, Code: "A"}}}
		c := NewCachedCatalog(next, time.Minute)

		for i := 0; i < 3; i++ {
			got, err := c.ListEligibleProducts(ctx)
			require.NoError(t, err)
			assert.Len(t, got, 1)
		}
		assert.Equal(t, 1, next.calls)
	})

	t.Run("does not cache errors", func(t *testing.T) {
		next := &countingCatalog{err: errors.New("db down")}
		c := NewCachedCatalog(next, time.Minute)

		_, err := c.ListEligibleProducts(ctx)
		assert.Error(t, err)
		_, err = c.ListEligibleProducts(ctx)
		assert.Error(t, err)
		assert.Equal(t, 2, next.calls)
	})

	t.Run("zero ttl disables caching", func(t *testing.T) {
		next := &countingCatalog{}
		assert.Same(t, next, NewCachedCatalog(next, 0))
	})
}
