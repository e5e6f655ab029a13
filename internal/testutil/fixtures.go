package testutil

import (
	"encoding/base64"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"financeos/internal/crypto"
	"financeos/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewTestEncryptor returns an Encryptor with a fixed test key.
func NewTestEncryptor(t *testing.T) *crypto.Encryptor {
	t.Helper()

	key := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	enc, err := crypto.NewEncryptor(key)
	if err != nil {
		t.Fatalf("failed to create test encryptor: %v", err)
	}
	return enc
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBankAccount creates a bank account with a zero opening balance.
func CreateTestBankAccount(t *testing.T, db *gorm.DB, userID string) *models.Account {
	t.Helper()

	opening := decimal.Zero
	account := &models.Account{
		UserID:            userID,
		Name:              fmt.Sprintf("Test Bank Account %d", nextID()),
		Type:              models.AccountTypeBank,
		FinancialPosition: models.FinancialPositionAsset,
		OpeningBalance:    &opening,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test bank account: %v", err)
	}
	return account
}

// CreateTestStockAccount creates a stock account with an instrument code
// and no last traded price.
func CreateTestStockAccount(t *testing.T, db *gorm.DB, userID string) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:            userID,
		Name:              fmt.Sprintf("Test Stock Account %d", nextID()),
		Type:              models.AccountTypeStock,
		FinancialPosition: models.FinancialPositionAsset,
		InstrumentCode:    fmt.Sprintf("TICK%d", nextID()),
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test stock account: %v", err)
	}
	return account
}

// CreateTestStockAccountWithPrice creates a stock account with a last traded price.
func CreateTestStockAccountWithPrice(t *testing.T, db *gorm.DB, userID string, price decimal.Decimal) *models.Account {
	t.Helper()

	account := CreateTestStockAccount(t, db, userID)
	if err := db.Model(account).Update("last_traded_price", price).Error; err != nil {
		t.Fatalf("failed to set last traded price: %v", err)
	}
	account.LastTradedPrice = &price
	return account
}

// CreateTestMutualFundAccount creates a mutual fund account.
func CreateTestMutualFundAccount(t *testing.T, db *gorm.DB, userID string) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:            userID,
		Name:              fmt.Sprintf("Test Mutual Fund %d", nextID()),
		Type:              models.AccountTypeMutualFund,
		FinancialPosition: models.FinancialPositionAsset,
		InstrumentCode:    fmt.Sprintf("FUND%d", nextID()),
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test mutual fund account: %v", err)
	}
	return account
}

// CreateTestCreditCardAccount creates a credit card account.
func CreateTestCreditCardAccount(t *testing.T, db *gorm.DB, userID string) *models.Account {
	t.Helper()

	limit := decimal.NewFromInt(5000)
	account := &models.Account{
		UserID:            userID,
		Name:              fmt.Sprintf("Test Credit Card %d", nextID()),
		Type:              models.AccountTypeCreditCard,
		FinancialPosition: models.FinancialPositionLiability,
		CreditLimit:       &limit,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test credit card account: %v", err)
	}
	return account
}

// CreateTestTrade creates an investment transaction on the given date.
// Quantity and price are decimal strings.
func CreateTestTrade(t *testing.T, db *gorm.DB, userID, accountID string, side models.InvestmentTransactionType, quantity, price string, date time.Time) *models.InvestmentTransaction {
	t.Helper()

	trade := &models.InvestmentTransaction{
		UserID:    userID,
		AccountID: accountID,
		Type:      side,
		Quantity:  decimal.RequireFromString(quantity),
		Price:     decimal.RequireFromString(price),
		Date:      date,
	}
	if err := db.Create(trade).Error; err != nil {
		t.Fatalf("failed to create test trade: %v", err)
	}
	return trade
}

// CreateTestTransaction creates a ledger transaction with a unique hash.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID string, txType models.TransactionType, amount string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:       userID,
		AccountID:    accountID,
		Type:         txType,
		Amount:       decimal.RequireFromString(amount),
		Description:  fmt.Sprintf("Test Transaction %d", nextID()),
		Source:       models.TransactionSourceManual,
		OriginalHash: fmt.Sprintf("hash-%d", nextID()),
		Date:         date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestRule creates a categorization rule.
func CreateTestRule(t *testing.T, db *gorm.DB, userID, pattern, category string) *models.Rule {
	t.Helper()

	rule := &models.Rule{
		UserID:   userID,
		Pattern:  pattern,
		Category: category,
	}
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("failed to create test rule: %v", err)
	}
	return rule
}
