package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "financeos/internal/errors"
	"financeos/internal/models"
	"financeos/internal/pagination"
	"financeos/internal/position"
)

// investmentService handles investment tracking. Positions are never
// stored: every read replays the account's full trade history through
// the FIFO engine, so the transaction log stays the single source of
// truth.
type investmentService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewInvestmentService creates a new InvestmentServicer.
func NewInvestmentService(db *gorm.DB, accountService AccountServicer) InvestmentServicer {
	return &investmentService{db: db, accountService: accountService}
}

// tradeHistory loads an account's trades ordered for replay: date
// ascending, then ingestion time ascending. This ordering decides FIFO
// lot age for same-date trades.
func (s *investmentService) tradeHistory(accountID string) ([]position.Trade, error) {
	var rows []models.InvestmentTransaction
	if err := s.db.Where("account_id = ?", accountID).
		Order("date ASC, created_at ASC").Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	trades := make([]position.Trade, len(rows))
	for i, row := range rows {
		trades[i] = position.Trade{
			Side:       position.Side(row.Type),
			Quantity:   row.Quantity,
			Price:      row.Price,
			Date:       row.Date,
			RecordedAt: row.CreatedAt,
		}
	}
	return trades, nil
}

// CreateTrade records a buy or sell against a stock or mutual fund
// account. Sells are validated against the replayed holding first and
// rejected with the available quantity when they exceed it.
func (s *investmentService) CreateTrade(userID string, input TradeInput) (*models.InvestmentTransaction, error) {
	account, err := s.accountService.GetAccountByID(userID, input.AccountID)
	if err != nil {
		return nil, err
	}
	if !account.IsInvestment() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAccountType,
			"Investment transactions can only be added to stock or mutual fund accounts")
	}

	if !input.Quantity.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Quantity must be positive")
	}
	if input.Price.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Price must be non-negative")
	}

	if input.Type == models.InvestmentTransactionSell {
		trades, err := s.tradeHistory(account.ID)
		if err != nil {
			return nil, err
		}
		if err := position.CheckSell(trades, input.Quantity); err != nil {
			overSell := err.(*position.OverSellError)
			return nil, apperrors.WithMessage(apperrors.ErrInsufficientHoldings,
				fmt.Sprintf("Cannot sell more than current holdings. Available: %s", overSell.Available))
		}
	}

	trade := &models.InvestmentTransaction{
		UserID:    userID,
		AccountID: account.ID,
		Type:      input.Type,
		Quantity:  input.Quantity,
		Price:     input.Price,
		Date:      input.Date,
		Metadata:  input.Metadata,
	}

	if err := s.db.Create(trade).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return trade, nil
}

// GetTrades returns a paginated list of the user's investment
// transactions across all accounts, newest first.
func (s *investmentService) GetTrades(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.InvestmentTransaction], error) {
	return s.listTrades(s.db.Model(&models.InvestmentTransaction{}).Where("user_id = ?", userID), page)
}

// GetAccountTrades returns a paginated list of trades for one account.
func (s *investmentService) GetAccountTrades(userID, accountID string, page pagination.PageRequest) (*pagination.PageResponse[models.InvestmentTransaction], error) {
	if _, err := s.accountService.GetAccountByID(userID, accountID); err != nil {
		return nil, err
	}
	return s.listTrades(s.db.Model(&models.InvestmentTransaction{}).Where("account_id = ?", accountID), page)
}

func (s *investmentService) listTrades(query *gorm.DB, page pagination.PageRequest) (*pagination.PageResponse[models.InvestmentTransaction], error) {
	page.Defaults()

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var trades []models.InvestmentTransaction
	if err := query.Order("date DESC, created_at DESC").
		Scopes(pagination.Paginate(page)).Find(&trades).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(trades, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetPositions computes the current holding for every account of the
// user that has investment transactions. Accounts whose replay leaves
// no holding are omitted, as are accounts that have since been deleted.
// Valuation fields depend on the account's last traded price and are
// nil without one.
func (s *investmentService) GetPositions(userID string) ([]Position, error) {
	var accountIDs []string
	if err := s.db.Model(&models.InvestmentTransaction{}).
		Where("user_id = ?", userID).
		Distinct("account_id").
		Pluck("account_id", &accountIDs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	positions := make([]Position, 0, len(accountIDs))
	for _, accountID := range accountIDs {
		account, err := s.accountService.GetAccountByID(userID, accountID)
		if err != nil {
			// Trades outlive a deleted account; skip it rather than
			// failing the whole listing.
			if errors.Is(err, apperrors.ErrAccountNotFound) {
				continue
			}
			return nil, err
		}

		trades, err := s.tradeHistory(accountID)
		if err != nil {
			return nil, err
		}

		valuation, ok := position.Replay(trades).Valuate(account.LastTradedPrice)
		if !ok {
			continue
		}

		positions = append(positions, Position{
			AccountID:                 account.ID,
			InstrumentCode:            account.InstrumentCode,
			AccountName:               account.Name,
			Quantity:                  valuation.Quantity,
			AverageCost:               valuation.AverageCost,
			TotalCost:                 valuation.TotalCost,
			LastTradedPrice:           valuation.LastTradedPrice,
			CurrentValue:              valuation.CurrentValue,
			UnrealizedGainLoss:        valuation.UnrealizedGainLoss,
			UnrealizedGainLossPercent: valuation.UnrealizedGainLossPercent,
		})
	}

	return positions, nil
}
