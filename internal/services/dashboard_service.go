package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "financeos/internal/errors"
	"financeos/internal/models"
)

// dashboardService aggregates accounts, transactions, and computed
// positions into a net-worth and cash-flow summary.
type dashboardService struct {
	db                *gorm.DB
	investmentService InvestmentServicer
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB, investmentService InvestmentServicer) DashboardServicer {
	return &dashboardService{db: db, investmentService: investmentService}
}

// accountValue estimates one account's contribution to net worth:
// opening balance plus the signed sum of its ledger transactions for
// bank and credit card accounts, or the current market value (cost
// basis when no price is known) for investment accounts.
func (s *dashboardService) accountValue(account *models.Account, positionsByAccount map[string]Position) (decimal.Decimal, error) {
	if account.IsInvestment() {
		pos, ok := positionsByAccount[account.ID]
		if !ok {
			return decimal.Zero, nil
		}
		if pos.CurrentValue != nil {
			return *pos.CurrentValue, nil
		}
		return pos.TotalCost, nil
	}

	value := decimal.Zero
	if account.OpeningBalance != nil {
		value = *account.OpeningBalance
	}

	var transactions []models.Transaction
	if err := s.db.Where("account_id = ?", account.ID).Find(&transactions).Error; err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, tx := range transactions {
		if tx.Type == models.TransactionTypeCredit {
			value = value.Add(tx.Amount)
		} else {
			value = value.Sub(tx.Amount)
		}
	}
	return value, nil
}

// GetSummary computes the dashboard summary as of now: net worth split
// into assets and liabilities, plus the current calendar month's income,
// expenses, and expense breakdown by category.
func (s *dashboardService) GetSummary(userID string, now time.Time) (*DashboardSummary, error) {
	var accounts []models.Account
	if err := s.db.Where("user_id = ?", userID).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	positions, err := s.investmentService.GetPositions(userID)
	if err != nil {
		return nil, err
	}
	positionsByAccount := make(map[string]Position, len(positions))
	for _, pos := range positions {
		positionsByAccount[pos.AccountID] = pos
	}

	summary := &DashboardSummary{
		NetWorth:          decimal.Zero,
		TotalAssets:       decimal.Zero,
		TotalLiabilities:  decimal.Zero,
		MonthlyIncome:     decimal.Zero,
		MonthlyExpenses:   decimal.Zero,
		CategoryBreakdown: []CategoryBreakdown{},
	}

	for i := range accounts {
		account := &accounts[i]
		if account.ExcludeFromNetAsset {
			continue
		}

		value, err := s.accountValue(account, positionsByAccount)
		if err != nil {
			return nil, err
		}

		if account.FinancialPosition == models.FinancialPositionLiability {
			summary.TotalLiabilities = summary.TotalLiabilities.Add(value.Abs())
		} else {
			summary.TotalAssets = summary.TotalAssets.Add(value)
		}
	}
	summary.NetWorth = summary.TotalAssets.Sub(summary.TotalLiabilities)

	// Current calendar month cash flow.
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var monthly []models.Transaction
	if err := s.db.Where("user_id = ? AND date >= ? AND date < ?", userID, monthStart, monthEnd).
		Find(&monthly).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	expensesByCategory := map[string]decimal.Decimal{}
	for _, tx := range monthly {
		if tx.Type == models.TransactionTypeCredit {
			summary.MonthlyIncome = summary.MonthlyIncome.Add(tx.Amount)
			continue
		}
		summary.MonthlyExpenses = summary.MonthlyExpenses.Add(tx.Amount)
		category := tx.Category
		if category == "" {
			category = "uncategorized"
		}
		expensesByCategory[category] = expensesByCategory[category].Add(tx.Amount)
	}

	if summary.MonthlyExpenses.IsPositive() {
		hundred := decimal.NewFromInt(100)
		for category, amount := range expensesByCategory {
			summary.CategoryBreakdown = append(summary.CategoryBreakdown, CategoryBreakdown{
				Category:   category,
				Amount:     amount,
				Percentage: amount.DivRound(summary.MonthlyExpenses, 4).Mul(hundred),
			})
		}
		sort.Slice(summary.CategoryBreakdown, func(i, j int) bool {
			a, b := summary.CategoryBreakdown[i], summary.CategoryBreakdown[j]
			if !a.Amount.Equal(b.Amount) {
				return a.Amount.GreaterThan(b.Amount)
			}
			return a.Category < b.Category
		})
	}

	return summary, nil
}
