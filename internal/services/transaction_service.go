package services

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "financeos/internal/errors"
	"financeos/internal/models"
	"financeos/internal/pagination"
)

// transactionService handles ledger transaction business logic.
type transactionService struct {
	db             *gorm.DB
	accountService AccountServicer
	ruleService    RuleServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer, ruleService RuleServicer) TransactionServicer {
	return &transactionService{db: db, accountService: accountService, ruleService: ruleService}
}

// originalHash derives a stable dedup hash for a transaction when the
// source did not supply one (email-synced rows carry their own).
func originalHash(input TransactionInput) string {
	payload := fmt.Sprintf("%s|%s|%s|%s",
		input.AccountID,
		input.Date.Format("2006-01-02"),
		input.Amount.String(),
		input.Description,
	)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// CreateTransaction records a ledger entry. The signed amount maps to an
// unsigned amount plus debit/credit type; a zero amount is rejected.
// Duplicate original hashes are rejected so re-ingested histories stay
// idempotent. Uncategorized entries run through the categorization rules.
func (s *transactionService) CreateTransaction(userID string, input TransactionInput) (*models.Transaction, error) {
	if input.Amount.IsZero() {
		return nil, apperrors.ErrZeroAmount
	}

	account, err := s.accountService.GetAccountByID(userID, input.AccountID)
	if err != nil {
		return nil, err
	}

	txType := models.TransactionTypeCredit
	if input.Amount.IsNegative() {
		txType = models.TransactionTypeDebit
	}

	hash := input.OriginalHash
	if hash == "" {
		hash = originalHash(input)
	}

	var count int64
	s.db.Model(&models.Transaction{}).Where("original_hash = ?", hash).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateTransaction
	}

	source := input.Source
	if source == "" {
		source = models.TransactionSourceManual
	}

	tx := &models.Transaction{
		UserID:       userID,
		AccountID:    account.ID,
		Date:         input.Date,
		Amount:       input.Amount.Abs(),
		Type:         txType,
		Description:  input.Description,
		Category:     input.Category,
		Subcategory:  input.Subcategory,
		SpentFor:     input.SpentFor,
		Source:       source,
		OriginalHash: hash,
		Metadata:     input.Metadata,
	}

	if tx.Category == "" && s.ruleService != nil {
		if err := s.ruleService.Categorize(userID, tx); err != nil {
			return nil, err
		}
	}

	if err := s.db.Create(tx).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return tx, nil
}

// GetTransactions returns a filtered, paginated list of the user's
// transactions, newest first.
func (s *transactionService) GetTransactions(userID string, filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	query := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	if filter.FromDate != nil {
		query = query.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", *filter.ToDate)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := query.Order("date DESC, created_at DESC").
		Scopes(pagination.Paginate(page)).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID returns a transaction if it belongs to the user.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &tx, nil
}
