package models

import "strings"

// Budget is the spending cap of a user for one category.
type Budget struct {
	ID       int64   `json:"id" db:"id"`
	UserID   int64   `json:"userId" db:"user_id"`
	Category string  `json:"category" db:"category"`
	Amount   float64 `json:"amount" db:"amount"`
}

// CreateBudgetRequest is the body of a budget creation request.
type CreateBudgetRequest struct {
	UserID   int64   `json:"userId" validate:"required"`
	Category string  `json:"category" validate:"required"`
	Amount   float64 `json:"amount" validate:"gte=0"`
}

// UpdateBudgetRequest is a sparse patch of a budget.
type UpdateBudgetRequest struct {
	ID       int64   `json:"id" validate:"required"`
	Category *string `json:"category"`
	Amount   float64 `json:"amount" validate:"gte=0"`
}

// Apply copies the present fields of r onto b. A zero or negative amount
// counts as not provided.
func (r UpdateBudgetRequest) Apply(b *Budget) {
	if r.Category != nil {
		b.Category = *r.Category
	}
	if r.Amount > 0 {
		b.Amount = r.Amount
	}
}

// NormalizeCategory folds a free-text category for grouping. Whitespace is
// significant: "Food " and "Food" are different categories.
func NormalizeCategory(category string) string {
	return strings.ToLower(category)
}
