package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-finance-insight/internal/api/dto"
	"golang-finance-insight/internal/api/repository"
	"golang-finance-insight/internal/entity"
	"golang-finance-insight/pkg/logger"
	"golang-finance-insight/pkg/utils"

	"gorm.io/gorm"
)

// JoinHook runs after a product subscription has been committed.
type JoinHook interface {
	AfterJoin(ctx context.Context, joined entity.JoinedProduct, product entity.FinancialProduct)
}

// ProductJoinService subscribes users to product options.
type ProductJoinService interface {
	Join(ctx context.Context, userID uint, req *dto.JoinProductRequest) (*dto.JoinProductResponse, error)
}

func NewProductJoinService(userRepo repository.UserRepository, joinedRepo repository.JoinedProductRepository, hooks []JoinHook, log *logger.Logger) ProductJoinService {
	return &productJoinService{
		userRepo:   userRepo,
		joinedRepo: joinedRepo,
		hooks:      hooks,
		log:        log,
		now:        utils.TimeNowKST,
	}
}

type productJoinService struct {
	userRepo   repository.UserRepository
	joinedRepo repository.JoinedProductRepository
	hooks      []JoinHook
	log        *logger.Logger
	now        func() time.Time
}

func (s *productJoinService) Join(ctx context.Context, userID uint, req *dto.JoinProductRequest) (*dto.JoinProductResponse, error) {
	if req.OptionID == 0 {
		return nil, fmt.Errorf("%w: option_id is required", ErrInvalidInput)
	}
	if req.Amount < 1 {
		return nil, fmt.Errorf("%w: amount must be at least 1", ErrInvalidInput)
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	option, product, err := s.joinedRepo.FindOption(ctx, req.OptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionNotFound
		}
		return nil, err
	}

	joined := entity.JoinedProduct{
		UserID:    userID,
		ProductID: product.ID,
		OptionID:  &option.ID,
		Amount:    req.Amount,
		JoinedAt:  s.now(),
	}
	if err := s.joinedRepo.Create(ctx, &joined); err != nil {
		s.log.Error("Failed to record product join", logger.ErrorField(err), logger.UintField("user_id", userID))
		return nil, err
	}

	for _, hook := range s.hooks {
		hook.AfterJoin(ctx, joined, *product)
	}

	return &dto.JoinProductResponse{
		Message:         "product joined",
		JoinedProductID: joined.ID,
		ProductCode:     product.Code,
	}, nil
}

type logJoinHook struct {
	log *logger.Logger
}

// NewLogJoinHook records joins in the application log.
func NewLogJoinHook(log *logger.Logger) JoinHook {
	return &logJoinHook{log: log}
}

func (h *logJoinHook) AfterJoin(_ context.Context, joined entity.JoinedProduct, product entity.FinancialProduct) {
	h.log.Info("Product joined",
		logger.UintField("user_id", joined.UserID),
		logger.UintField("joined_product_id", joined.ID),
		logger.StringField("product_code", product.Code),
		logger.StringField("bank", product.BankName()),
		logger.Field("amount", joined.Amount))
}
