package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProductTypeDeposit = "deposit"
	ProductTypeSaving  = "saving"
)

// Bank is a financial institution offering products.
type Bank struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Bank) TableName() string {
	return "banks"
}

// FinancialProduct is a deposit or saving product published by a bank.
type FinancialProduct struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	BankID           *uint           `json:"bank_id"`
	Bank             *Bank           `gorm:"foreignKey:BankID" json:"bank,omitempty"`
	Code             string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name             string          `gorm:"type:varchar(200);not null" json:"name"`
	ProductType      string          `gorm:"type:varchar(10);not null" json:"product_type"`
	JoinWay          string          `gorm:"type:text" json:"join_way"`
	SpecialCondition string          `gorm:"type:text" json:"special_condition"`
	JoinMember       string          `gorm:"type:text" json:"join_member"`
	MaxLimit         *int64          `json:"max_limit"`
	Options          []ProductOption `gorm:"foreignKey:ProductID" json:"options,omitempty"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FinancialProduct) TableName() string {
	return "financial_products"
}

// BankName returns the bank's display name or empty when the bank is unknown.
func (p FinancialProduct) BankName() string {
	if p.Bank == nil {
		return ""
	}
	return p.Bank.Name
}

// ProductOption is one rate/term combination of a product.
type ProductOption struct {
	ID                   uint                `gorm:"primaryKey" json:"id"`
	ProductID            uint                `gorm:"index;not null" json:"product_id"`
	InterestRateType     string              `gorm:"type:varchar(10)" json:"interest_rate_type"`
	InterestRateTypeName string              `gorm:"type:varchar(20)" json:"interest_rate_type_name"`
	ReserveType          string              `gorm:"type:varchar(10)" json:"reserve_type"`
	ReserveTypeName      string              `gorm:"type:varchar(20)" json:"reserve_type_name"`
	SaveTerm             *int                `json:"save_term"`
	BaseRate             decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"base_rate"`
	MaxRate              decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"max_rate"`
}

func (ProductOption) TableName() string {
	return "product_options"
}

// JoinedProduct records that a user subscribed to a product option.
type JoinedProduct struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	UserID    uint              `gorm:"index;not null" json:"user_id"`
	ProductID uint              `gorm:"not null" json:"product_id"`
	Product   *FinancialProduct `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	OptionID  *uint             `json:"option_id"`
	Amount    int64             `gorm:"not null;default:0" json:"amount"`
	JoinedAt  time.Time         `gorm:"autoCreateTime" json:"joined_at"`
}

func (JoinedProduct) TableName() string {
	return "joined_products"
}
