package storage

import (
	"context"

	"finance-manager/internal/models"
)

const budgetColumns = "id, user_id, category, amount"

// CreateBudget inserts b and sets its ID.
func (db *DB) CreateBudget(ctx context.Context, b *models.Budget) error {
	err := db.conn.QueryRowxContext(ctx,
		db.conn.Rebind("INSERT INTO budgets (user_id, category, amount) VALUES (?, ?, ?) RETURNING id"),
		b.UserID, b.Category, b.Amount,
	).Scan(&b.ID)
	return mapError(err)
}

// GetBudget retrieves a budget by ID.
func (db *DB) GetBudget(ctx context.Context, id int64) (*models.Budget, error) {
	var b models.Budget
	err := db.conn.GetContext(ctx, &b,
		db.conn.Rebind("SELECT "+budgetColumns+" FROM budgets WHERE id = ?"), id)
	if err != nil {
		return nil, mapError(err)
	}
	return &b, nil
}

// ListBudgetsByUser retrieves all budgets of a user ordered by ID.
func (db *DB) ListBudgetsByUser(ctx context.Context, userID int64) ([]models.Budget, error) {
	var budgets []models.Budget
	err := db.conn.SelectContext(ctx, &budgets,
		db.conn.Rebind("SELECT "+budgetColumns+" FROM budgets WHERE user_id = ? ORDER BY id"), userID)
	return budgets, err
}

// GetBudgetByUserCategory retrieves the budget of a user for a category.
func (db *DB) GetBudgetByUserCategory(ctx context.Context, userID int64, category string) (*models.Budget, error) {
	var b models.Budget
	err := db.conn.GetContext(ctx, &b,
		db.conn.Rebind("SELECT "+budgetColumns+" FROM budgets WHERE user_id = ? AND lower(category) = lower(?)"),
		userID, category,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &b, nil
}

// UpdateBudget overwrites the stored category and amount of b.
func (db *DB) UpdateBudget(ctx context.Context, b *models.Budget) error {
	res, err := db.conn.ExecContext(ctx,
		db.conn.Rebind("UPDATE budgets SET category = ?, amount = ? WHERE id = ?"),
		b.Category, b.Amount, b.ID,
	)
	return affected(res, err)
}

// DeleteBudget removes a budget by ID.
func (db *DB) DeleteBudget(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, db.conn.Rebind("DELETE FROM budgets WHERE id = ?"), id)
	return affected(res, err)
}
