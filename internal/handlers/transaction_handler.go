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

// TransactionHandler handles ledger transaction requests
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionRequest represents the transaction creation payload.
// Amount is signed: negative amounts are recorded as debits, positive as credits.
type TransactionRequest struct {
	AccountID   string          `json:"account_id" binding:"required,uuid"`
	Date        string          `json:"date" binding:"required,datetime=2006-01-02"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required,max=1000"`
	Category    string          `json:"category" binding:"max=100"`
	Subcategory string          `json:"subcategory" binding:"max=100"`
	SpentFor    string          `json:"spent_for" binding:"max=100"`
	Source      string          `json:"source" binding:"omitempty,tx_source"`
	Metadata    models.JSONMap  `json:"metadata"`
}

// TransactionListQuery holds the query parameters for listing transactions
type TransactionListQuery struct {
	pagination.PageRequest
	FromDate  string `form:"from_date" binding:"omitempty,datetime=2006-01-02"`
	ToDate    string `form:"to_date" binding:"omitempty,datetime=2006-01-02"`
	AccountID string `form:"account_id" binding:"omitempty,uuid"`
	Type      string `form:"type" binding:"omitempty,oneof=debit credit"`
	Category  string `form:"category" binding:"omitempty,max=100"`
}

// CreateTransaction records a new ledger transaction
// @Summary     Create a transaction
// @Description Record a ledger transaction. Negative amounts become debits, positive amounts credits.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TransactionRequest true "Transaction data"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input or zero amount"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     409 {object} ErrorResponse "Duplicate transaction"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.CreateTransaction(userID, services.TransactionInput{
		AccountID:   req.AccountID,
		Date:        date,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		SpentFor:    req.SpentFor,
		Source:      models.TransactionSource(req.Source),
		Metadata:    req.Metadata,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tx)
}

// GetTransactions lists the authenticated user's transactions
// @Summary     List transactions
// @Description Get a paginated list of transactions, optionally filtered by date range, account, type, or category
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Param       from_date query string false "Start date (YYYY-MM-DD)"
// @Param       to_date query string false "End date (YYYY-MM-DD)"
// @Param       account_id query string false "Filter by account ID"
// @Param       type query string false "Filter by type (debit or credit)"
// @Param       category query string false "Filter by category"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid query"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query TransactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := query.toFilter()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.transactionService.GetTransactions(userID, filter, query.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

func (q *TransactionListQuery) toFilter() (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if q.FromDate != "" {
		from, err := parseDate(q.FromDate)
		if err != nil {
			return filter, err
		}
		filter.FromDate = &from
	}
	if q.ToDate != "" {
		to, err := parseDate(q.ToDate)
		if err != nil {
			return filter, err
		}
		filter.ToDate = &to
	}
	if q.AccountID != "" {
		filter.AccountID = &q.AccountID
	}
	if q.Type != "" {
		t := models.TransactionType(q.Type)
		filter.Type = &t
	}
	if q.Category != "" {
		filter.Category = &q.Category
	}

	return filter, nil
}

// GetTransaction returns a single transaction by ID
// @Summary     Get a transaction
// @Description Get one of the authenticated user's transactions by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, tx)
}
