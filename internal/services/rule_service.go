package services

import (
	"strings"

	"gorm.io/gorm"

	apperrors "financeos/internal/errors"
	"financeos/internal/models"
	"financeos/internal/pagination"
)

// ruleService handles transaction categorization rules.
type ruleService struct {
	db *gorm.DB
}

// NewRuleService creates a new RuleServicer.
func NewRuleService(db *gorm.DB) RuleServicer {
	return &ruleService{db: db}
}

// CreateRule creates a categorization rule for the user.
func (s *ruleService) CreateRule(userID, pattern, category, subcategory, spentFor string) (*models.Rule, error) {
	if pattern == "" || category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "pattern and category are required")
	}

	rule := &models.Rule{
		UserID:      userID,
		Pattern:     pattern,
		Category:    category,
		Subcategory: subcategory,
		SpentFor:    spentFor,
	}
	if err := s.db.Create(rule).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rule, nil
}

// GetUserRules returns a paginated list of the user's rules.
func (s *ruleService) GetUserRules(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Rule], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Rule{}).Where("user_id = ?", userID).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var rules []models.Rule
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC").
		Scopes(pagination.Paginate(page)).Find(&rules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(rules, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeleteRule removes a rule belonging to the user.
func (s *ruleService) DeleteRule(userID, ruleID string) error {
	result := s.db.Where("id = ? AND user_id = ?", ruleID, userID).Delete(&models.Rule{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrRuleNotFound
	}
	return nil
}

// Categorize applies the first matching rule to the transaction in
// memory. Matching is a case-insensitive substring test against the
// description; rules are tried oldest first.
func (s *ruleService) Categorize(userID string, tx *models.Transaction) error {
	var rules []models.Rule
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&rules).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	description := strings.ToLower(tx.Description)
	for _, rule := range rules {
		if strings.Contains(description, strings.ToLower(rule.Pattern)) {
			tx.Category = rule.Category
			tx.Subcategory = rule.Subcategory
			tx.SpentFor = rule.SpentFor
			return nil
		}
	}
	return nil
}

// ApplyRules re-categorizes all of the user's uncategorized transactions
// and returns how many were updated.
func (s *ruleService) ApplyRules(userID string) (int64, error) {
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND (category = '' OR category IS NULL)", userID).
		Find(&transactions).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var updated int64
	for i := range transactions {
		tx := &transactions[i]
		if err := s.Categorize(userID, tx); err != nil {
			return updated, err
		}
		if tx.Category == "" {
			continue
		}
		if err := s.db.Model(tx).Updates(map[string]interface{}{
			"category":    tx.Category,
			"subcategory": tx.Subcategory,
			"spent_for":   tx.SpentFor,
		}).Error; err != nil {
			return updated, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updated++
	}
	return updated, nil
}
