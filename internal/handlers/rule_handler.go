package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "financeos/internal/errors"
	"financeos/internal/pagination"
	"financeos/internal/services"
)

// RuleHandler handles categorization rule requests
type RuleHandler struct {
	ruleService services.RuleServicer
}

// NewRuleHandler creates a new RuleHandler
func NewRuleHandler(ruleService services.RuleServicer) *RuleHandler {
	return &RuleHandler{ruleService: ruleService}
}

// RuleRequest represents the rule creation payload
type RuleRequest struct {
	Pattern     string `json:"pattern" binding:"required,max=255"`
	Category    string `json:"category" binding:"required,max=100"`
	Subcategory string `json:"subcategory" binding:"max=100"`
	SpentFor    string `json:"spent_for" binding:"max=100"`
}

// CreateRule creates a new categorization rule
// @Summary     Create a rule
// @Description Create a rule that assigns a category to transactions whose description contains the pattern
// @Tags        rules
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RuleRequest true "Rule data"
// @Success     201 {object} models.Rule "Rule created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /rules [post]
func (h *RuleHandler) CreateRule(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	rule, err := h.ruleService.CreateRule(userID, req.Pattern, req.Category, req.Subcategory, req.SpentFor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rule)
}

// GetRules lists the authenticated user's rules
// @Summary     List rules
// @Description Get a paginated list of the authenticated user's categorization rules
// @Tags        rules
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Success     200 {object} pagination.PageResponse[models.Rule] "Rules"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /rules [get]
func (h *RuleHandler) GetRules(c *gin.Context) {
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

	rules, err := h.ruleService.GetUserRules(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, rules)
}

// DeleteRule deletes a rule
// @Summary     Delete a rule
// @Description Delete one of the authenticated user's categorization rules
// @Tags        rules
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Rule ID"
// @Success     204 "Rule deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Rule not found"
// @Router      /rules/{id} [delete]
func (h *RuleHandler) DeleteRule(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ruleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ruleService.DeleteRule(userID, ruleID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ApplyRules re-categorizes uncategorized transactions
// @Summary     Apply rules
// @Description Run all rules against the user's uncategorized transactions and return the number updated
// @Tags        rules
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]int64 "Number of transactions updated"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /rules/apply [post]
func (h *RuleHandler) ApplyRules(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	updated, err := h.ruleService.ApplyRules(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
