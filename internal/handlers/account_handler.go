package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "financeos/internal/errors"
	"financeos/internal/models"
	"financeos/internal/pagination"
	"financeos/internal/services"
)

// AccountHandler handles account-related requests
type AccountHandler struct {
	accountService services.AccountServicer
	auditService   services.AuditServicer
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService services.AccountServicer, auditService services.AuditServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService, auditService: auditService}
}

// AccountRequest represents the account creation/update payload.
// Type-specific fields outside the declared type are ignored.
type AccountRequest struct {
	Name                string `json:"name" binding:"required,max=255"`
	Type                string `json:"type" binding:"required,account_type"`
	Description         string `json:"description" binding:"max=1000"`
	FinancialPosition   string `json:"financial_position" binding:"omitempty,financial_position"`
	ExcludeFromNetAsset bool   `json:"exclude_from_net_asset"`

	OpeningBalance *decimal.Decimal `json:"opening_balance"`
	Last4          string           `json:"last4" binding:"omitempty,len=4,numeric"`

	CreditLimit       *decimal.Decimal `json:"credit_limit"`
	PaymentDueDay     *int             `json:"payment_due_day" binding:"omitempty,min=1,max=31"`
	GracePeriodDays   *int             `json:"grace_period_days" binding:"omitempty,min=0,max=90"`
	StatementPassword string           `json:"statement_password" binding:"max=255"`

	InstrumentCode  string           `json:"instrument_code" binding:"max=64"`
	LastTradedPrice *decimal.Decimal `json:"last_traded_price"`
}

func (r *AccountRequest) toInput() services.AccountInput {
	return services.AccountInput{
		Name:                r.Name,
		Type:                models.AccountType(r.Type),
		Description:         r.Description,
		FinancialPosition:   models.FinancialPosition(r.FinancialPosition),
		ExcludeFromNetAsset: r.ExcludeFromNetAsset,
		OpeningBalance:      r.OpeningBalance,
		Last4:               r.Last4,
		CreditLimit:         r.CreditLimit,
		PaymentDueDay:       r.PaymentDueDay,
		GracePeriodDays:     r.GracePeriodDays,
		StatementPassword:   r.StatementPassword,
		InstrumentCode:      r.InstrumentCode,
		LastTradedPrice:     r.LastTradedPrice,
	}
}

// CreateAccount creates a new account for the authenticated user
// @Summary     Create an account
// @Description Create a new financial account (bank, credit_card, stock, or mutual_fund)
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AccountRequest true "Account data"
// @Success     201 {object} models.Account "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.CreateAccount(userID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "account.create", "account", account.ID, c.ClientIP(), map[string]any{
		"name": account.Name,
		"type": string(account.Type),
	})

	c.JSON(http.StatusCreated, account)
}

// GetAccounts lists the authenticated user's accounts
// @Summary     List accounts
// @Description Get a paginated list of the authenticated user's accounts
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Success     200 {object} pagination.PageResponse[models.Account] "Accounts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /accounts [get]
func (h *AccountHandler) GetAccounts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	accounts, err := h.accountService.GetUserAccounts(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, accounts)
}

// GetAccount returns a single account by ID
// @Summary     Get an account
// @Description Get one of the authenticated user's accounts by ID
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} models.Account "Account"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// UpdateAccount updates an existing account
// @Summary     Update an account
// @Description Update one of the authenticated user's accounts. The account type cannot change.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Param       request body AccountRequest true "Account data"
// @Success     200 {object} models.Account "Account updated"
// @Failure     400 {object} ErrorResponse "Invalid input or type change"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.UpdateAccount(userID, accountID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "account.update", "account", account.ID, c.ClientIP(), map[string]any{
		"name": account.Name,
	})

	c.JSON(http.StatusOK, account)
}

// DeleteAccount soft-deletes an account
// @Summary     Delete an account
// @Description Soft-delete one of the authenticated user's accounts
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     204 "Account deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.accountService.DeleteAccount(userID, accountID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "account.delete", "account", accountID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
