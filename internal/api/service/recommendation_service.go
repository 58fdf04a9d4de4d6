package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"golang-finance-insight/internal/api/dto"
	"golang-finance-insight/internal/api/repository"
	"golang-finance-insight/internal/recommender"
	"golang-finance-insight/pkg/logger"
	"golang-finance-insight/pkg/utils"

	"gorm.io/gorm"
)

// Recommender ranks products for a profile.
type Recommender interface {
	Recommend(ctx context.Context, profile recommender.UserProfile, topN int) ([]recommender.ScoredRecommendation, error)
}

// RecommendationService builds a user's profile and returns ranked products.
type RecommendationService interface {
	Recommend(ctx context.Context, userID uint, topN int) (*dto.RecommendationResponse, error)
}

func NewRecommendationService(userRepo repository.UserRepository, engine Recommender, log *logger.Logger) RecommendationService {
	return &recommendationService{
		userRepo: userRepo,
		engine:   engine,
		log:      log,
		now:      utils.TimeNowKST,
	}
}

type recommendationService struct {
	userRepo repository.UserRepository
	engine   Recommender
	log      *logger.Logger
	now      func() time.Time
}

func (s *recommendationService) Recommend(ctx context.Context, userID uint, topN int) (*dto.RecommendationResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	joined, err := s.userRepo.JoinedProductCodes(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := recommender.NewUserProfile(*user, joined, s.now())
	recs, err := s.engine.Recommend(ctx, profile, topN)
	if err != nil {
		s.log.Error("Failed to rank products", logger.ErrorField(err), logger.UintField("user_id", userID))
		return nil, err
	}

	resp := &dto.RecommendationResponse{
		Message:         "recommended products",
		Recommendations: make([]dto.RecommendationItem, 0, len(recs)),
	}
	for _, r := range recs {
		resp.Recommendations = append(resp.Recommendations, mapToRecommendationItem(r))
	}

	if len(recs) == 0 {
		if user.RiskGrade == "" || user.BirthDate == nil {
			resp.Message = "set a risk grade and birth date in your profile to get tailored recommendations"
			resp.NeedsProfileUpdate = true
		} else {
			resp.Message = "no product matches your profile right now"
		}
	}

	s.log.Info("Recommendations served", logger.UintField("user_id", userID), logger.IntField("count", len(recs)))
	return resp, nil
}

func mapToRecommendationItem(r recommender.ScoredRecommendation) dto.RecommendationItem {
	keywords := make([]string, 0, len(r.Features.Keywords))
	for kw := range r.Features.Keywords {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)

	return dto.RecommendationItem{
		ProductID:    r.Product.ID,
		ProductCode:  r.Product.Code,
		ProductName:  r.Product.Name,
		ProductType:  r.Product.ProductType,
		BankName:     r.Features.BankName,
		MaxPromoRate: r.Features.MaxPromoRate,
		AvgBaseRate:  r.Features.AvgBaseRate,
		MinTerm:      r.Features.MinTerm,
		MaxTerm:      r.Features.MaxTerm,
		Score:        r.Score,
		Reason:       r.Reason,
		Fallback:     r.Fallback,
		Keywords:     keywords,
	}
}
