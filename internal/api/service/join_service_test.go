package service

import (
	"context"
	"testing"

	"golang-finance-insight/internal/api/dto"
	"golang-finance-insight/internal/entity"
	"golang-finance-insight/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingJoinHook struct {
	joined []entity.JoinedProduct
}

func (h *recordingJoinHook) AfterJoin(_ context.Context, joined entity.JoinedProduct, _ entity.FinancialProduct) {
	h.joined = append(h.joined, joined)
}

func TestProductJoinService_Join(t *testing.T) {
	users := &mockUserRepo{}
	users.On("FindByID", mock.Anything, uint(1)).Return(&entity.User{ID: 1}, nil)
	joinedRepo := &mockJoinedRepo{}
	joinedRepo.On("FindOption", mock.Anything, uint(11)).Return(
		&entity.ProductOption{ID: 11, ProductID: 5},
		&entity.FinancialProduct{ID: 5, Code: "WR0001"},
		nil,
	)
	joinedRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.JoinedProduct")).Return(nil)
	hook := &recordingJoinHook{}

	svc := NewProductJoinService(users, joinedRepo, []JoinHook{hook, NewLogJoinHook(logger.NewNop())}, logger.NewNop())
	resp, err := svc.Join(context.Background(), 1, &dto.JoinProductRequest{OptionID: 11, Amount: 100000})

	require.NoError(t, err)
	assert.Equal(t, uint(42), resp.JoinedProductID)
	assert.Equal(t, "WR0001", resp.ProductCode)
	require.Len(t, hook.joined, 1)
	assert.Equal(t, uint(5), hook.joined[0].ProductID)
	assert.Equal(t, int64(100000), hook.joined[0].Amount)
}

func TestProductJoinService_Rejects(t *testing.T) {
	users := &mockUserRepo{}
	users.On("FindByID", mock.Anything, uint(1)).Return(&entity.User{ID: 1}, nil)
	users.On("FindByID", mock.Anything, uint(2)).Return(nil, gorm.ErrRecordNotFound)
	joinedRepo := &mockJoinedRepo{}
	joinedRepo.On("FindOption", mock.Anything, uint(99)).Return(nil, nil, gorm.ErrRecordNotFound)
	hook := &recordingJoinHook{}
	svc := NewProductJoinService(users, joinedRepo, []JoinHook{hook}, logger.NewNop())

	_, err := svc.Join(context.Background(), 1, &dto.JoinProductRequest{OptionID: 11, Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Join(context.Background(), 1, &dto.JoinProductRequest{Amount: 10})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Join(context.Background(), 2, &dto.JoinProductRequest{OptionID: 11, Amount: 10})
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = svc.Join(context.Background(), 1, &dto.JoinProductRequest{OptionID: 99, Amount: 10})
	assert.ErrorIs(t, err, ErrOptionNotFound)

	assert.Empty(t, hook.joined)
	joinedRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
