package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentTransactionType represents the side of an investment trade.
type InvestmentTransactionType string

const (
	InvestmentTransactionBuy  InvestmentTransactionType = "buy"
	InvestmentTransactionSell InvestmentTransactionType = "sell"
)

// InvestmentTransaction represents a buy or sell of instrument units
// against a stock or mutual fund account. Rows are immutable once
// created; positions are always recomputed from the full history.
// CreatedAt doubles as the tie-breaker for same-date FIFO ordering.
type InvestmentTransaction struct {
	Base
	UserID    string                    `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountID string                    `gorm:"type:uuid;not null;index" json:"account_id"`
	Type      InvestmentTransactionType `gorm:"not null" json:"type"`
	Quantity  decimal.Decimal           `gorm:"type:numeric(19,8);not null" json:"quantity"`
	Price     decimal.Decimal           `gorm:"type:numeric(19,4);not null" json:"price"`
	// Date is the calendar date of the trade, stored at midnight UTC.
	Date     time.Time `gorm:"not null" json:"date"`
	Metadata JSONMap   `gorm:"type:jsonb" json:"metadata,omitempty"`

	// Relationships
	Account Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}
