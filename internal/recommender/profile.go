package recommender

import (
	"time"

	"golang-finance-insight/internal/entity"
)

// UserProfile is an immutable snapshot of the user attributes used for scoring.
type UserProfile struct {
	UserID        uint
	Age           *int
	RiskGrade     string
	AnnualIncome  int64
	PreferredBank string
	joined        map[string]struct{}
}

// NewUserProfile builds a profile from the user row and the codes of products already joined.
func NewUserProfile(u entity.User, joinedCodes []string, now time.Time) UserProfile {
	joined := make(map[string]struct{}, len(joinedCodes))
	for _, c := range joinedCodes {
		joined[c] = struct{}{}
	}

	p := UserProfile{
		UserID:        u.ID,
		RiskGrade:     u.RiskGrade,
		AnnualIncome:  u.AnnualIncome,
		PreferredBank: u.PreferredBank,
		joined:        joined,
	}
	if u.BirthDate != nil {
		age := AgeAt(*u.BirthDate, now)
		p.Age = &age
	}
	return p
}

// HasJoined reports whether the user already owns the product with the given code.
func (p UserProfile) HasJoined(code string) bool {
	_, ok := p.joined[code]
	return ok
}

// AgeAt returns full years between birth and now.
func AgeAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}
