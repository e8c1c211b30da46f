package models

import "time"

// BudgetExceeded carries everything needed to tell a user that the total of
// a category went over its cap.
type BudgetExceeded struct {
	Category    string  `json:"budgetCategory"`
	Cap         float64 `json:"budgetAmount"`
	Description string  `json:"expenseDescription"`
	Total       float64 `json:"expenseAmount"`
	Email       string  `json:"userEmail"`
}

// Notification is one dispatched (or attempted) budget notification.
type Notification struct {
	ID        uint64         `json:"id"`
	Event     BudgetExceeded `json:"event"`
	Text      string         `json:"text"`
	Delivered bool           `json:"delivered"`
	Error     string         `json:"error,omitempty"`
	SentAt    time.Time      `json:"sentAt"`
}
