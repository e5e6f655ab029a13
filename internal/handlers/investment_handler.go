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

// InvestmentHandler handles investment transaction and position requests
type InvestmentHandler struct {
	investmentService services.InvestmentServicer
}

// NewInvestmentHandler creates a new InvestmentHandler
func NewInvestmentHandler(investmentService services.InvestmentServicer) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService}
}

// TradeRequest represents the investment transaction creation payload
type TradeRequest struct {
	AccountID string          `json:"account_id" binding:"required,uuid"`
	Type      string          `json:"type" binding:"required,trade_side"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Price     decimal.Decimal `json:"price" binding:"required"`
	Date      string          `json:"date" binding:"required,datetime=2006-01-02"`
	Metadata  models.JSONMap  `json:"metadata"`
}

// CreateTrade records a buy or sell on an investment account
// @Summary     Create an investment transaction
// @Description Record a buy or sell. Sells that exceed current holdings are rejected.
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TradeRequest true "Trade data"
// @Success     201 {object} models.InvestmentTransaction "Trade recorded"
// @Failure     400 {object} ErrorResponse "Invalid input, wrong account type, or insufficient holdings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /investments/transactions [post]
func (h *InvestmentHandler) CreateTrade(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	trade, err := h.investmentService.CreateTrade(userID, services.TradeInput{
		AccountID: req.AccountID,
		Type:      models.InvestmentTransactionType(req.Type),
		Quantity:  req.Quantity,
		Price:     req.Price,
		Date:      date,
		Metadata:  req.Metadata,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, trade)
}

// GetTrades lists investment transactions
// @Summary     List investment transactions
// @Description Get a paginated list of investment transactions, optionally scoped to one account
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Param       account_id query string false "Filter by account ID"
// @Success     200 {object} pagination.PageResponse[models.InvestmentTransaction] "Trades"
// @Failure     400 {object} ErrorResponse "Invalid query"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /investments/transactions [get]
func (h *InvestmentHandler) GetTrades(c *gin.Context) {
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

	if accountID := c.Query("account_id"); accountID != "" {
		trades, err := h.investmentService.GetAccountTrades(userID, accountID, page)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, trades)
		return
	}

	trades, err := h.investmentService.GetTrades(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, trades)
}

// GetPositions returns current holdings across all investment accounts
// @Summary     Get positions
// @Description Compute current positions from the full trade history using FIFO cost basis
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.Position "Positions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /investments/position [get]
func (h *InvestmentHandler) GetPositions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	positions, err := h.investmentService.GetPositions(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, positions)
}
