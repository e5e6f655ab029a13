package models

// Rule categorizes transactions whose description matches Pattern
// (case-insensitive substring). Applied to new transactions on create
// and to existing uncategorized ones via the rules apply endpoint.
type Rule struct {
	Base
	UserID      string `gorm:"type:uuid;not null;index" json:"user_id"`
	Pattern     string `gorm:"not null" json:"pattern"`
	Category    string `gorm:"not null" json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
	SpentFor    string `json:"spent_for,omitempty"`
}
