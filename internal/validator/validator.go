// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"financeos/internal/models"
)

// validAccountType validates the account_type binding tag.
func validAccountType(fl validator.FieldLevel) bool {
	switch models.AccountType(fl.Field().String()) {
	case models.AccountTypeBank, models.AccountTypeCreditCard,
		models.AccountTypeStock, models.AccountTypeMutualFund:
		return true
	}
	return false
}

// validTradeSide validates the trade_side binding tag.
func validTradeSide(fl validator.FieldLevel) bool {
	switch models.InvestmentTransactionType(fl.Field().String()) {
	case models.InvestmentTransactionBuy, models.InvestmentTransactionSell:
		return true
	}
	return false
}

// validTransactionSource validates the tx_source binding tag.
func validTransactionSource(fl validator.FieldLevel) bool {
	switch models.TransactionSource(fl.Field().String()) {
	case models.TransactionSourceManual, models.TransactionSourceEmail:
		return true
	}
	return false
}

// validFinancialPosition validates the financial_position binding tag.
func validFinancialPosition(fl validator.FieldLevel) bool {
	switch models.FinancialPosition(fl.Field().String()) {
	case models.FinancialPositionAsset, models.FinancialPositionLiability:
		return true
	}
	return false
}

// Register installs all custom validators on Gin's binding engine.
// Call once at startup before routes are served.
func Register() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("account_type", validAccountType)
	_ = v.RegisterValidation("trade_side", validTradeSide)
	_ = v.RegisterValidation("tx_source", validTransactionSource)
	_ = v.RegisterValidation("financial_position", validFinancialPosition)
}
