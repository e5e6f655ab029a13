package models

import "github.com/shopspring/decimal"

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeBank       AccountType = "bank"
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeStock      AccountType = "stock"
	AccountTypeMutualFund AccountType = "mutual_fund"
)

// FinancialPosition classifies an account on the net-worth statement.
type FinancialPosition string

const (
	FinancialPositionAsset     FinancialPosition = "asset"
	FinancialPositionLiability FinancialPosition = "liability"
)

// Account represents a financial account in the system. Type-specific
// fields are populated only for the matching account type.
type Account struct {
	Base
	UserID              string            `gorm:"type:uuid;not null;index" json:"user_id"`
	Name                string            `gorm:"not null" json:"name"`
	Type                AccountType       `gorm:"not null" json:"type"`
	Description         string            `json:"description"`
	FinancialPosition   FinancialPosition `json:"financial_position,omitempty"`
	ExcludeFromNetAsset bool              `gorm:"not null;default:false" json:"exclude_from_net_asset"`

	// For bank accounts. Last4 is AES-256-GCM encrypted at rest.
	OpeningBalance *decimal.Decimal `gorm:"type:numeric(19,4)" json:"opening_balance,omitempty"`
	Last4          string           `json:"last4,omitempty"`

	// For credit card accounts. StatementPassword is encrypted at rest
	// and never serialized.
	CreditLimit       *decimal.Decimal `gorm:"type:numeric(19,4)" json:"credit_limit,omitempty"`
	PaymentDueDay     *int             `json:"payment_due_day,omitempty"`
	GracePeriodDays   *int             `json:"grace_period_days,omitempty"`
	StatementPassword string           `json:"-"`

	// For stock and mutual fund accounts. LastTradedPrice feeds
	// position valuation; nil means no price data.
	InstrumentCode  string           `json:"instrument_code,omitempty"`
	LastTradedPrice *decimal.Decimal `gorm:"type:numeric(19,4)" json:"last_traded_price,omitempty"`

	// Relationships
	Transactions   []Transaction           `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
	InvestmentTxns []InvestmentTransaction `gorm:"foreignKey:AccountID" json:"investment_transactions,omitempty"`
}

// IsInvestment reports whether the account can hold investment transactions.
func (a *Account) IsInvestment() bool {
	return a.Type == AccountTypeStock || a.Type == AccountTypeMutualFund
}
