package recommender

import (
	"context"
	"fmt"
	"sort"

	"golang-finance-insight/internal/entity"
	"golang-finance-insight/pkg/logger"
)

// ProductCatalog gives read access to products with their bank and options loaded.
type ProductCatalog interface {
	ListEligibleProducts(ctx context.Context) ([]entity.FinancialProduct, error)
}

// Config tunes ranking thresholds.
type Config struct {
	DefaultTopN        int     `mapstructure:"default_top_n"`
	MaxTopN            int     `mapstructure:"max_top_n"`
	NoiseFloor         float64 `mapstructure:"noise_floor"`
	FallbackMultiplier float64 `mapstructure:"fallback_multiplier"`
}

// DefaultConfig returns the thresholds used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		DefaultTopN:        5,
		MaxTopN:            50,
		NoiseFloor:         5,
		FallbackMultiplier: 5,
	}
}

// ScoredRecommendation is one ranked product with its explanation.
type ScoredRecommendation struct {
	Product  entity.FinancialProduct
	Features ProductFeatures
	Score    float64
	Reason   string
	Fallback bool
}

// Engine ranks catalog products for a user profile.
type Engine struct {
	catalog ProductCatalog
	cfg     Config
	log     *logger.Logger
}

func NewEngine(catalog ProductCatalog, cfg Config, log *logger.Logger) *Engine {
	def := DefaultConfig()
	if cfg.DefaultTopN <= 0 {
		cfg.DefaultTopN = def.DefaultTopN
	}
	if cfg.MaxTopN <= 0 {
		cfg.MaxTopN = def.MaxTopN
	}
	if cfg.FallbackMultiplier <= 0 {
		cfg.FallbackMultiplier = def.FallbackMultiplier
	}
	return &Engine{catalog: catalog, cfg: cfg, log: log}
}

// Recommend returns at most topN products the user has not joined yet, best first.
// An empty result is not an error; only catalog failures are returned.
func (e *Engine) Recommend(ctx context.Context, profile UserProfile, topN int) ([]ScoredRecommendation, error) {
	if topN <= 0 {
		topN = e.cfg.DefaultTopN
	}
	if topN > e.cfg.MaxTopN {
		topN = e.cfg.MaxTopN
	}

	if profile.Age == nil {
		e.log.Warn("Birth date missing, age bonus skipped", logger.UintField("user_id", profile.UserID))
	}
	if profile.RiskGrade == "" {
		e.log.Warn("Risk grade missing, risk bonus skipped", logger.UintField("user_id", profile.UserID))
	}

	products, err := e.catalog.ListEligibleProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load product catalog: %w", err)
	}

	eligible := make([]entity.FinancialProduct, 0, len(products))
	for _, p := range products {
		if len(p.Options) == 0 || p.BankName() == "" || profile.HasJoined(p.Code) {
			continue
		}
		eligible = append(eligible, p)
	}
	if len(eligible) == 0 {
		return []ScoredRecommendation{}, nil
	}

	features := make(map[uint]ProductFeatures, len(eligible))
	scored := make([]ScoredRecommendation, 0, len(eligible))
	for _, p := range eligible {
		f := ExtractFeatures(p)
		features[p.ID] = f

		score, reason := Score(f, profile)
		if score <= e.cfg.NoiseFloor {
			continue
		}
		scored = append(scored, ScoredRecommendation{Product: p, Features: f, Score: score, Reason: reason})
	}

	sortRecommendations(scored)
	if len(scored) > topN {
		scored = scored[:topN]
	}

	if len(scored) < topN {
		before := len(scored)
		scored = append(scored, e.fallback(eligible, features, scored, topN-len(scored))...)
		sortRecommendations(scored)
		if len(scored) > topN {
			scored = scored[:topN]
		}
		e.log.Debug("Recommendation list backfilled",
			logger.UintField("user_id", profile.UserID),
			logger.IntField("scored", before),
			logger.IntField("total", len(scored)))
	}

	return scored, nil
}

// fallback picks the highest-rate products not selected yet and gives them a synthetic score.
func (e *Engine) fallback(eligible []entity.FinancialProduct, features map[uint]ProductFeatures, selected []ScoredRecommendation, need int) []ScoredRecommendation {
	taken := make(map[uint]struct{}, len(selected))
	for _, s := range selected {
		taken[s.Product.ID] = struct{}{}
	}

	candidates := make([]ScoredRecommendation, 0, len(eligible))
	for _, p := range eligible {
		if _, ok := taken[p.ID]; ok {
			continue
		}
		candidates = append(candidates, ScoredRecommendation{Product: p, Features: features[p.ID]})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Features.MaxPromoRate != b.Features.MaxPromoRate {
			return a.Features.MaxPromoRate > b.Features.MaxPromoRate
		}
		return a.Product.Name < b.Product.Name
	})
	if len(candidates) > need {
		candidates = candidates[:need]
	}

	for i := range candidates {
		rate := candidates[i].Features.MaxPromoRate
		candidates[i].Score = rate * e.cfg.FallbackMultiplier
		candidates[i].Reason = fmt.Sprintf("popular product with a high rate (%.2f%%)", rate)
		candidates[i].Fallback = true
	}
	return candidates
}

// sortRecommendations orders by score, then promotional rate, then product name.
func sortRecommendations(recs []ScoredRecommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Features.MaxPromoRate != b.Features.MaxPromoRate {
			return a.Features.MaxPromoRate > b.Features.MaxPromoRate
		}
		return a.Product.Name < b.Product.Name
	})
}
