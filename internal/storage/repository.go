package storage

import (
	"context"

	"finance-manager/internal/models"
)

// UserRepository persists users.
type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	UserCount(ctx context.Context) (int, error)
}

// BudgetRepository persists budgets. Category arguments are matched
// case-insensitively.
type BudgetRepository interface {
	CreateBudget(ctx context.Context, b *models.Budget) error
	GetBudget(ctx context.Context, id int64) (*models.Budget, error)
	ListBudgetsByUser(ctx context.Context, userID int64) ([]models.Budget, error)
	GetBudgetByUserCategory(ctx context.Context, userID int64, category string) (*models.Budget, error)
	UpdateBudget(ctx context.Context, b *models.Budget) error
	DeleteBudget(ctx context.Context, id int64) error
}

// ExpenseRepository persists expenses. Category arguments are matched
// case-insensitively.
type ExpenseRepository interface {
	CreateExpense(ctx context.Context, e *models.Expense) error
	GetExpense(ctx context.Context, id int64) (*models.Expense, error)
	ListExpensesByUser(ctx context.Context, userID int64) ([]models.Expense, error)
	ListExpensesByUserCategory(ctx context.Context, userID int64, category string) ([]models.Expense, error)
	SumExpensesByUserCategory(ctx context.Context, userID int64, category string) (float64, error)
	UpdateExpense(ctx context.Context, e *models.Expense) error
	DeleteExpense(ctx context.Context, id int64) error
}

var (
	_ UserRepository    = (*DB)(nil)
	_ BudgetRepository  = (*DB)(nil)
	_ ExpenseRepository = (*DB)(nil)
)
