package recommender

import (
	"strings"

	"golang-finance-insight/internal/entity"

	"github.com/shopspring/decimal"
)

var keywordSeparators = strings.NewReplacer(",", " ", ".", " ", ";", " ", "(", " ", ")", " ", "/", " ")

// ProductFeatures is the flat view of a product that the scorer works on.
type ProductFeatures struct {
	ProductType  string
	BankName     string
	MaxPromoRate float64
	AvgBaseRate  float64
	MinTerm      *int
	MaxTerm      *int
	Keywords     map[string]struct{}
}

// HasKeyword reports whether kw appears in the special-condition tokens.
func (f ProductFeatures) HasKeyword(kw string) bool {
	_, ok := f.Keywords[kw]
	return ok
}

// ExtractFeatures reduces a product and its options to ProductFeatures.
func ExtractFeatures(p entity.FinancialProduct) ProductFeatures {
	f := ProductFeatures{
		ProductType: p.ProductType,
		BankName:    p.BankName(),
		Keywords:    Tokenize(p.SpecialCondition),
	}

	var (
		maxRate   decimal.Decimal
		haveMax   bool
		baseSum   decimal.Decimal
		baseCount int64
	)
	for _, opt := range p.Options {
		if opt.MaxRate.Valid && (!haveMax || opt.MaxRate.Decimal.GreaterThan(maxRate)) {
			maxRate = opt.MaxRate.Decimal
			haveMax = true
		}
		if opt.BaseRate.Valid {
			baseSum = baseSum.Add(opt.BaseRate.Decimal)
			baseCount++
		}
		if opt.SaveTerm != nil {
			term := *opt.SaveTerm
			if f.MinTerm == nil || term < *f.MinTerm {
				f.MinTerm = intPtr(term)
			}
			if f.MaxTerm == nil || term > *f.MaxTerm {
				f.MaxTerm = intPtr(term)
			}
		}
	}

	if haveMax {
		f.MaxPromoRate = maxRate.InexactFloat64()
	}
	if baseCount > 0 {
		f.AvgBaseRate = baseSum.Div(decimal.NewFromInt(baseCount)).Round(2).InexactFloat64()
	}
	return f
}

// Tokenize lower-cases text, turns separator punctuation into spaces and returns the unique tokens.
func Tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(keywordSeparators.Replace(strings.ToLower(text))) {
		tokens[tok] = struct{}{}
	}
	return tokens
}

func intPtr(v int) *int {
	return &v
}
