package recommender

import (
	"fmt"
	"sort"
	"strings"

	"golang-finance-insight/internal/entity"
)

const defaultReason = "recommended product"

var (
	youthKeywords  = []string{"청년", "young", "2030", "mz"}
	seniorKeywords = []string{"시니어", "은퇴", "50+", "골든", "노후"}
)

// Score rates features against the profile and explains the result.
// It is a pure function of its inputs.
func Score(f ProductFeatures, p UserProfile) (float64, string) {
	var (
		score   float64
		reasons []string
	)

	if f.MaxPromoRate > 0 {
		score += f.MaxPromoRate * 10
		if f.MaxPromoRate >= 3.5 {
			reasons = append(reasons, fmt.Sprintf("high top rate (%.2f%%)", f.MaxPromoRate))
		}
	}

	switch p.RiskGrade {
	case entity.RiskGradeLow:
		if f.ProductType == entity.ProductTypeDeposit {
			score += 30
			reasons = append(reasons, "stable deposit")
		}
		if f.AvgBaseRate >= 2.0 {
			score += 10
		}
	case entity.RiskGradeMiddle:
		if f.ProductType == entity.ProductTypeSaving {
			score += 20
			reasons = append(reasons, "goal-savings product")
		} else {
			score += 10
		}
		if f.MaxPromoRate >= 3.0 {
			score += 10
		}
	case entity.RiskGradeHigh:
		if f.ProductType == entity.ProductTypeSaving {
			score += 30
			reasons = append(reasons, "high-yield savings pursuit")
		}
		if f.MaxPromoRate >= 4.0 {
			score += 20
		}
	}

	if p.Age != nil {
		age := *p.Age
		switch {
		case age >= 20 && age < 35:
			if kw, ok := firstMatch(f, youthKeywords); ok {
				score += 25
				reasons = append(reasons, kw+" target product")
			}
			if f.MinTerm != nil && *f.MinTerm <= 12 {
				score += 10
			}
		case age >= 50:
			if kw, ok := firstMatch(f, seniorKeywords); ok {
				score += 20
				reasons = append(reasons, kw+" tailored product")
			}
			if f.ProductType == entity.ProductTypeDeposit {
				score += 10
			}
			if f.MaxTerm != nil && *f.MaxTerm >= 24 {
				score += 5
			}
		}
	}

	if p.PreferredBank != "" && strings.Contains(strings.ToLower(f.BankName), strings.ToLower(p.PreferredBank)) {
		score += 20
		reasons = append(reasons, "preferred-bank product")
	}

	return score, joinReasons(reasons)
}

// firstMatch returns the lexicographically smallest keyword of set present in the features.
func firstMatch(f ProductFeatures, set []string) (string, bool) {
	var matched []string
	for _, kw := range set {
		if f.HasKeyword(kw) {
			matched = append(matched, kw)
		}
	}
	if len(matched) == 0 {
		return "", false
	}
	sort.Strings(matched)
	return matched[0], true
}

func joinReasons(reasons []string) string {
	if len(reasons) == 0 {
		return defaultReason
	}

	seen := make(map[string]struct{}, len(reasons))
	unique := make([]string, 0, len(reasons))
	for _, r := range reasons {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		unique = append(unique, r)
	}
	sort.Strings(unique)

	if len(unique) > 3 {
		return strings.Join(unique[:3], ", ") + " etc."
	}
	return strings.Join(unique, ", ")
}
