package entity

import "time"

const (
	RiskGradeLow    = "low"
	RiskGradeMiddle = "middle"
	RiskGradeHigh   = "high"
)

type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Username      string     `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	BirthDate     *time.Time `gorm:"type:date" json:"birth_date"`
	RiskGrade     string     `gorm:"type:varchar(10)" json:"risk_grade"`
	AnnualIncome  int64      `gorm:"not null;default:0" json:"annual_income"`
	PreferredBank string     `gorm:"type:varchar(100)" json:"preferred_bank"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
