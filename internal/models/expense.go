package models

// Expense represents a logged expense for a user and category.
type Expense struct {
	ID          int64   `json:"id" db:"id"`
	UserID      int64   `json:"userId" db:"user_id"`
	Category    string  `json:"category" db:"category"`
	Amount      float64 `json:"amount" db:"amount"`
	Description string  `json:"description" db:"description"`
}

// CreateExpenseRequest is the body of an expense creation request.
type CreateExpenseRequest struct {
	UserID      int64   `json:"userId" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	Description string  `json:"description" validate:"required"`
}

// UpdateExpenseRequest is a sparse patch of an expense. Nil strings and a
// non-positive amount leave the stored value untouched.
type UpdateExpenseRequest struct {
	ID          int64   `json:"id" validate:"required"`
	UserID      int64   `json:"userId" validate:"required"`
	Category    *string `json:"category"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	Description *string `json:"description"`
}

// Apply copies the present fields of r onto e.
func (r UpdateExpenseRequest) Apply(e *Expense) {
	if r.Category != nil {
		e.Category = *r.Category
	}
	if r.Description != nil {
		e.Description = *r.Description
	}
	if r.Amount > 0 {
		e.Amount = r.Amount
	}
}

// CategorySummary is the spending of a user in one category.
type CategorySummary struct {
	Category   string  `json:"category"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ExpenseSummary breaks the spending of a user down by category.
type ExpenseSummary struct {
	UserID     int64             `json:"userId"`
	Total      float64           `json:"total"`
	Categories []CategorySummary `json:"categories"`
}
