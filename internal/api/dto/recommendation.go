package dto

// RecommendationItem is one ranked product.
type RecommendationItem struct {
	ProductID    uint     `json:"product_id"`
	ProductCode  string   `json:"product_code"`
	ProductName  string   `json:"product_name"`
	ProductType  string   `json:"product_type"`
	BankName     string   `json:"bank_name"`
	MaxPromoRate float64  `json:"max_promo_rate"`
	AvgBaseRate  float64  `json:"avg_base_rate"`
	MinTerm      *int     `json:"min_term,omitempty"`
	MaxTerm      *int     `json:"max_term,omitempty"`
	Score        float64  `json:"recommendation_score"`
	Reason       string   `json:"recommendation_reason"`
	Fallback     bool     `json:"is_fallback"`
	Keywords     []string `json:"keywords,omitempty"`
}

// RecommendationResponse wraps the ranked list.
type RecommendationResponse struct {
	Message            string               `json:"message"`
	Recommendations    []RecommendationItem `json:"recommended_products"`
	NeedsProfileUpdate bool                 `json:"needs_profile_update"`
}

// JoinProductRequest subscribes the user to a product option.
type JoinProductRequest struct {
	OptionID uint  `json:"option_id"`
	Amount   int64 `json:"amount"`
}

// JoinProductResponse confirms a subscription.
type JoinProductResponse struct {
	Message         string `json:"message"`
	JoinedProductID uint   `json:"joined_product_id"`
	ProductCode     string `json:"product_code"`
}
