package services

import (
	"errors"

	"gorm.io/gorm"

	"financeos/internal/crypto"
	apperrors "financeos/internal/errors"
	"financeos/internal/models"
	"financeos/internal/pagination"
)

// accountService handles account-related business logic. Sensitive
// fields (card last-4, statement password) are encrypted before they
// reach the database and decrypted on the way out, except the
// statement password which is write-only.
type accountService struct {
	db        *gorm.DB
	encryptor *crypto.Encryptor
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB, encryptor *crypto.Encryptor) AccountServicer {
	return &accountService{db: db, encryptor: encryptor}
}

// applyInput copies type-relevant fields from input onto the account,
// encrypting sensitive values. Fields for other account types are
// cleared so a bank account never carries instrument data and so on.
func (s *accountService) applyInput(account *models.Account, input AccountInput) error {
	account.Name = input.Name
	account.Description = input.Description
	account.FinancialPosition = input.FinancialPosition
	account.ExcludeFromNetAsset = input.ExcludeFromNetAsset

	account.OpeningBalance = nil
	account.Last4 = ""
	account.CreditLimit = nil
	account.PaymentDueDay = nil
	account.GracePeriodDays = nil
	account.StatementPassword = ""
	account.InstrumentCode = ""
	account.LastTradedPrice = nil

	switch account.Type {
	case models.AccountTypeBank:
		account.OpeningBalance = input.OpeningBalance
		last4, err := s.encryptor.Encrypt(input.Last4)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		account.Last4 = last4
	case models.AccountTypeCreditCard:
		account.CreditLimit = input.CreditLimit
		account.PaymentDueDay = input.PaymentDueDay
		account.GracePeriodDays = input.GracePeriodDays
		last4, err := s.encryptor.Encrypt(input.Last4)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		account.Last4 = last4
		password, err := s.encryptor.Encrypt(input.StatementPassword)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		account.StatementPassword = password
	case models.AccountTypeStock, models.AccountTypeMutualFund:
		account.InstrumentCode = input.InstrumentCode
		account.LastTradedPrice = input.LastTradedPrice
	}
	return nil
}

// decryptForRead replaces encrypted fields with their plaintext for API
// responses. The statement password stays encrypted and is never returned.
func (s *accountService) decryptForRead(account *models.Account) error {
	if account.Last4 == "" {
		return nil
	}
	last4, err := s.encryptor.Decrypt(account.Last4)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	account.Last4 = last4
	return nil
}

// CreateAccount creates an account of any supported type for a user.
func (s *accountService) CreateAccount(userID string, input AccountInput) (*models.Account, error) {
	account := &models.Account{
		UserID: userID,
		Type:   input.Type,
	}
	if err := s.applyInput(account, input); err != nil {
		return nil, err
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.decryptForRead(account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetUserAccounts returns a paginated list of the user's accounts.
func (s *accountService) GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Account{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Scopes(pagination.Paginate(page)).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range accounts {
		if err := s.decryptForRead(&accounts[i]); err != nil {
			return nil, err
		}
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountByID returns an account if it belongs to the user.
func (s *accountService) GetAccountByID(userID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.decryptForRead(&account); err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateAccount updates an account in place. The account type is fixed
// at creation; requests that try to change it are rejected.
func (s *accountService) UpdateAccount(userID, accountID string, input AccountInput) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if input.Type != "" && input.Type != account.Type {
		return nil, apperrors.ErrAccountTypeChange
	}

	if err := s.applyInput(&account, input); err != nil {
		return nil, err
	}

	if err := s.db.Save(&account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.decryptForRead(&account); err != nil {
		return nil, err
	}
	return &account, nil
}

// DeleteAccount soft-deletes an account belonging to the user.
func (s *accountService) DeleteAccount(userID, accountID string) error {
	result := s.db.Where("id = ? AND user_id = ?", accountID, userID).Delete(&models.Account{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}
