package recommender

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"golang-finance-insight/internal/entity"
	"golang-finance-insight/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) ListEligibleProducts(ctx context.Context) ([]entity.FinancialProduct, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]entity.FinancialProduct)
	return products, args.Error(1)
}

var testNow = time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)

var testBank = &entity.Bank{Name: "Test Bank"}

func product(id uint, name string, productType string, maxRate *float64) entity.FinancialProduct {
	opt := entity.ProductOption{SaveTerm: term(12)}
	if maxRate != nil {
		opt.MaxRate = rate(*maxRate)
	}
	return entity.FinancialProduct{
		ID:          id,
		Bank:        testBank,
		Code:        fmt.Sprintf("P%03d", id),
		Name:        name,
		ProductType: productType,
		Options:     []entity.ProductOption{opt},
	}
}

func f64(v float64) *float64 {
	return &v
}

func newTestEngine(products []entity.FinancialProduct, err error) (*Engine, *mockCatalog) {
	catalog := &mockCatalog{}
	catalog.On("ListEligibleProducts", mock.Anything).Return(products, err)
	return NewEngine(catalog, DefaultConfig(), logger.NewNop()), catalog
}

func codes(recs []ScoredRecommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Product.Code)
	}
	return out
}

func TestEngine_BackfillCannotExceedInventory(t *testing.T) {
	engine, catalog := newTestEngine([]entity.FinancialProduct{
		product(1, "Alpha", entity.ProductTypeDeposit, f64(3.0)),
		product(2, "Bravo", entity.ProductTypeDeposit, f64(0.4)),
		product(3, "Charlie", entity.ProductTypeDeposit, nil),
	}, nil)

	recs, err := engine.Recommend(context.Background(), UserProfile{UserID: 1}, 5)

	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"P001", "P002", "P003"}, codes(recs))
	assert.False(t, recs[0].Fallback)
	assert.InDelta(t, 30.0, recs[0].Score, 1e-9)
	assert.True(t, recs[1].Fallback)
	assert.InDelta(t, 2.0, recs[1].Score, 1e-9)
	assert.Equal(t, "popular product with a high rate (0.40%)", recs[1].Reason)
	assert.True(t, recs[2].Fallback)
	assert.Zero(t, recs[2].Score)
	catalog.AssertExpectations(t)
}

func TestEngine_FillsExactlyNWhenInventoryAllows(t *testing.T) {
	products := []entity.FinancialProduct{product(1, "Scored", entity.ProductTypeDeposit, f64(3.0))}
	for i := uint(2); i <= 7; i++ {
		products = append(products, product(i, fmt.Sprintf("Low %d", i), entity.ProductTypeDeposit, f64(0.1*float64(i)/2)))
	}
	engine, _ := newTestEngine(products, nil)

	recs, err := engine.Recommend(context.Background(), UserProfile{}, 5)

	require.NoError(t, err)
	require.Len(t, recs, 5)
	assert.Equal(t, "P001", recs[0].Product.Code)
	// Highest-rate leftovers come first.
	assert.Equal(t, []string{"P001", "P007", "P006", "P005", "P004"}, codes(recs))
}

func TestEngine_ExcludesJoinedProducts(t *testing.T) {
	products := []entity.FinancialProduct{
		product(1, "Alpha", entity.ProductTypeDeposit, f64(4.0)),
		product(2, "Bravo", entity.ProductTypeDeposit, f64(3.0)),
		product(3, "Charlie", entity.ProductTypeDeposit, f64(2.0)),
		product(4, "Delta", entity.ProductTypeDeposit, f64(0.1)),
	}
	engine, _ := newTestEngine(products, nil)
	profile := NewUserProfile(entity.User{ID: 1}, []string{"P001", "P004"}, testNow)

	for _, n := range []int{1, 2, 5, 10} {
		recs, err := engine.Recommend(context.Background(), profile, n)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(recs), n)
		for _, r := range recs {
			assert.NotContains(t, []string{"P001", "P004"}, r.Product.Code)
		}
	}
}

func TestEngine_SkipsIneligibleProducts(t *testing.T) {
	noOptions := product(2, "No Options", entity.ProductTypeDeposit, f64(5.0))
	noOptions.Options = nil
	noBank := product(3, "No Bank", entity.ProductTypeDeposit, f64(5.0))
	noBank.Bank = nil

	engine, _ := newTestEngine([]entity.FinancialProduct{
		product(1, "Alpha", entity.ProductTypeDeposit, f64(3.0)),
		noOptions,
		noBank,
	}, nil)

	recs, err := engine.Recommend(context.Background(), UserProfile{}, 5)

	require.NoError(t, err)
	assert.Equal(t, []string{"P001"}, codes(recs))
}

func TestEngine_EmptyCatalog(t *testing.T) {
	engine, _ := newTestEngine(nil, nil)

	recs, err := engine.Recommend(context.Background(), UserProfile{}, 5)

	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestEngine_CatalogError(t *testing.T) {
	engine, _ := newTestEngine(nil, errors.New("connection refused"))

	recs, err := engine.Recommend(context.Background(), UserProfile{}, 5)

	assert.Error(t, err)
	assert.Nil(t, recs)
}

func TestEngine_TieBreaks(t *testing.T) {
	// Both score 40 for a low-risk user: 1.0*10 + 30 for deposit vs 4.0*10 for a saving.
	engine, _ := newTestEngine([]entity.FinancialProduct{
		product(1, "Zulu", entity.ProductTypeDeposit, f64(1.0)),
		product(2, "Yankee", entity.ProductTypeSaving, f64(4.0)),
		product(3, "Bravo", entity.ProductTypeDeposit, f64(1.0)),
	}, nil)

	recs, err := engine.Recommend(context.Background(), UserProfile{RiskGrade: entity.RiskGradeLow}, 3)

	require.NoError(t, err)
	assert.Equal(t, []string{"P002", "P003", "P001"}, codes(recs))
}

func TestEngine_DefaultTopN(t *testing.T) {
	var products []entity.FinancialProduct
	for i := uint(1); i <= 8; i++ {
		products = append(products, product(i, fmt.Sprintf("Product %d", i), entity.ProductTypeDeposit, f64(3.0)))
	}
	engine, _ := newTestEngine(products, nil)

	recs, err := engine.Recommend(context.Background(), UserProfile{}, 0)

	require.NoError(t, err)
	assert.Len(t, recs, DefaultConfig().DefaultTopN)
}

func TestEngine_ScoreAtNoiseFloorIsBackfilled(t *testing.T) {
	engine, _ := newTestEngine([]entity.FinancialProduct{
		product(1, "Alpha", entity.ProductTypeDeposit, f64(0.5)),
		product(2, "Bravo", entity.ProductTypeDeposit, f64(0.6)),
	}, nil)

	recs, err := engine.Recommend(context.Background(), UserProfile{UserID: 1}, 5)

	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"P002", "P001"}, codes(recs))
	assert.False(t, recs[0].Fallback)
	assert.InDelta(t, 6.0, recs[0].Score, 1e-9)
	assert.True(t, recs[1].Fallback)
	assert.InDelta(t, 2.5, recs[1].Score, 1e-9)
	assert.Equal(t, "popular product with a high rate (0.50%)", recs[1].Reason)
}

func TestEngine_ThresholdsFromConfig(t *testing.T) {
	products := []entity.FinancialProduct{
		product(1, "Alpha", entity.ProductTypeDeposit, f64(0.5)),
		product(2, "Bravo", entity.ProductTypeDeposit, f64(0.2)),
	}
	catalog := &mockCatalog{}
	catalog.On("ListEligibleProducts", mock.Anything).Return(products, nil)
	engine := NewEngine(catalog, Config{NoiseFloor: 3, FallbackMultiplier: 2}, logger.NewNop())

	recs, err := engine.Recommend(context.Background(), UserProfile{UserID: 1}, 2)

	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"P001", "P002"}, codes(recs))
	assert.False(t, recs[0].Fallback)
	assert.InDelta(t, 5.0, recs[0].Score, 1e-9)
	assert.True(t, recs[1].Fallback)
	assert.InDelta(t, 0.4, recs[1].Score, 1e-9)
}
