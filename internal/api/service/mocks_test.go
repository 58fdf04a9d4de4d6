package service

import (
	"context"
	"time"

	"golang-finance-insight/internal/entity"

	"github.com/stretchr/testify/mock"
)

type mockSubjectRepo struct {
	mock.Mock
}

func (m *mockSubjectRepo) GetOrCreate(ctx context.Context, userID uint, companyName string) (*entity.InterestSubject, bool, error) {
	args := m.Called(ctx, userID, companyName)
	s, _ := args.Get(0).(*entity.InterestSubject)
	return s, args.Bool(1), args.Error(2)
}

func (m *mockSubjectRepo) FindByID(ctx context.Context, id uint) (*entity.InterestSubject, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*entity.InterestSubject)
	return s, args.Error(1)
}

func (m *mockSubjectRepo) ListByUser(ctx context.Context, userID uint) ([]entity.InterestSubject, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).([]entity.InterestSubject)
	return s, args.Error(1)
}

func (m *mockSubjectRepo) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSubjectRepo) ClaimRun(ctx context.Context, analysisID uint, staleBefore time.Time) (bool, error) {
	args := m.Called(ctx, analysisID, staleBefore)
	return args.Bool(0), args.Error(1)
}

func (m *mockSubjectRepo) ReleaseRun(ctx context.Context, analysisID uint, message string) error {
	return m.Called(ctx, analysisID, message).Error(0)
}

func (m *mockSubjectRepo) ListComments(ctx context.Context, analysisID uint, limit int) ([]entity.CommentRecord, error) {
	args := m.Called(ctx, analysisID, limit)
	c, _ := args.Get(0).([]entity.CommentRecord)
	return c, args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) JoinedProductCodes(ctx context.Context, userID uint) ([]string, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).([]string)
	return c, args.Error(1)
}

type mockJoinedRepo struct {
	mock.Mock
}

func (m *mockJoinedRepo) FindOption(ctx context.Context, optionID uint) (*entity.ProductOption, *entity.FinancialProduct, error) {
	args := m.Called(ctx, optionID)
	o, _ := args.Get(0).(*entity.ProductOption)
	p, _ := args.Get(1).(*entity.FinancialProduct)
	return o, p, args.Error(2)
}

func (m *mockJoinedRepo) Create(ctx context.Context, joined *entity.JoinedProduct) error {
	args := m.Called(ctx, joined)
	if args.Error(0) == nil {
		joined.ID = 42
	}
	return args.Error(0)
}

func fixedClock() time.Time {
	return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
}
