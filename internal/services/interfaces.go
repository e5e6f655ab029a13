package services

import (
	"time"

	"github.com/shopspring/decimal"

	"financeos/internal/models"
	"financeos/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// AccountInput carries the type-specific fields for account creation
// and update. Only the fields matching the account type are used.
type AccountInput struct {
	Name                string
	Type                models.AccountType
	Description         string
	FinancialPosition   models.FinancialPosition
	ExcludeFromNetAsset bool

	// bank
	OpeningBalance *decimal.Decimal
	Last4          string

	// credit card
	CreditLimit       *decimal.Decimal
	PaymentDueDay     *int
	GracePeriodDays   *int
	StatementPassword string

	// stock / mutual fund
	InstrumentCode  string
	LastTradedPrice *decimal.Decimal
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID string, input AccountInput) (*models.Account, error)
	GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(userID, accountID string) (*models.Account, error)
	UpdateAccount(userID, accountID string, input AccountInput) (*models.Account, error)
	DeleteAccount(userID, accountID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	AccountID *string
	Type      *models.TransactionType
	Category  *string
}

// TransactionInput is the payload for creating a ledger transaction.
// Amount is signed: negative becomes a debit, positive a credit.
type TransactionInput struct {
	AccountID    string
	Date         time.Time
	Amount       decimal.Decimal
	Description  string
	Category     string
	Subcategory  string
	SpentFor     string
	Source       models.TransactionSource
	OriginalHash string
	Metadata     models.JSONMap
}

// TransactionServicer defines the contract for ledger transactions.
type TransactionServicer interface {
	CreateTransaction(userID string, input TransactionInput) (*models.Transaction, error)
	GetTransactions(userID string, filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
}

// TradeInput is the payload for creating an investment transaction.
type TradeInput struct {
	AccountID string
	Type      models.InvestmentTransactionType
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	Date      time.Time
	Metadata  models.JSONMap
}

// Position is a computed holding for one investment account. It is
// derived fresh from the transaction history on every query and never
// persisted. Price-dependent fields are nil when the instrument has no
// last traded price.
type Position struct {
	AccountID                 string           `json:"account_id"`
	InstrumentCode            string           `json:"instrument_code"`
	AccountName               string           `json:"account_name"`
	Quantity                  decimal.Decimal  `json:"quantity"`
	AverageCost               decimal.Decimal  `json:"average_cost"`
	TotalCost                 decimal.Decimal  `json:"total_cost"`
	LastTradedPrice           *decimal.Decimal `json:"last_traded_price"`
	CurrentValue              *decimal.Decimal `json:"current_value"`
	UnrealizedGainLoss        *decimal.Decimal `json:"unrealized_gain_loss"`
	UnrealizedGainLossPercent *decimal.Decimal `json:"unrealized_gain_loss_percent"`
}

// InvestmentServicer defines the contract for investment tracking.
type InvestmentServicer interface {
	CreateTrade(userID string, input TradeInput) (*models.InvestmentTransaction, error)
	GetTrades(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.InvestmentTransaction], error)
	GetAccountTrades(userID, accountID string, page pagination.PageRequest) (*pagination.PageResponse[models.InvestmentTransaction], error)
	GetPositions(userID string) ([]Position, error)
}

// RuleServicer defines the contract for transaction categorization rules.
type RuleServicer interface {
	CreateRule(userID, pattern, category, subcategory, spentFor string) (*models.Rule, error)
	GetUserRules(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Rule], error)
	DeleteRule(userID, ruleID string) error
	ApplyRules(userID string) (int64, error)
	Categorize(userID string, tx *models.Transaction) error
}

// DashboardSummary aggregates net worth and the current month's cash flow.
type DashboardSummary struct {
	NetWorth          decimal.Decimal     `json:"net_worth"`
	TotalAssets       decimal.Decimal     `json:"total_assets"`
	TotalLiabilities  decimal.Decimal     `json:"total_liabilities"`
	MonthlyIncome     decimal.Decimal     `json:"monthly_income"`
	MonthlyExpenses   decimal.Decimal     `json:"monthly_expenses"`
	CategoryBreakdown []CategoryBreakdown `json:"category_breakdown"`
}

// CategoryBreakdown is one category's share of the current month's expenses.
type CategoryBreakdown struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// DashboardServicer defines the contract for dashboard aggregation.
type DashboardServicer interface {
	GetSummary(userID string, now time.Time) (*DashboardSummary, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
