package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a ledger transaction.
// Amounts are stored unsigned; the API accepts signed amounts where
// negative maps to debit and positive to credit.
type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "debit"
	TransactionTypeCredit TransactionType = "credit"
)

// TransactionSource records how a transaction entered the system.
type TransactionSource string

const (
	TransactionSourceManual TransactionSource = "manual"
	TransactionSourceEmail  TransactionSource = "email"
)

// Transaction represents a ledger entry for an account.
type Transaction struct {
	Base
	UserID      string            `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountID   string            `gorm:"type:uuid;not null;index" json:"account_id"`
	Date        time.Time         `gorm:"not null" json:"date"`
	Amount      decimal.Decimal   `gorm:"type:numeric(19,4);not null" json:"amount"`
	Type        TransactionType   `gorm:"not null" json:"type"`
	Description string            `gorm:"not null" json:"description"`
	Category    string            `json:"category,omitempty"`
	Subcategory string            `json:"subcategory,omitempty"`
	SpentFor    string            `json:"spent_for,omitempty"`
	Source      TransactionSource `gorm:"not null" json:"source"`
	// OriginalHash deduplicates re-ingested transactions.
	OriginalHash string  `gorm:"uniqueIndex;not null" json:"original_hash"`
	Metadata     JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`

	// Relationships
	Account Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}
