package storage

import (
	"context"
	"database/sql"

	"finance-manager/internal/models"
)

const expenseColumns = "id, user_id, category, amount, description"

// CreateExpense inserts e and sets its ID.
func (db *DB) CreateExpense(ctx context.Context, e *models.Expense) error {
	err := db.conn.QueryRowxContext(ctx,
		db.conn.Rebind("INSERT INTO expenses (user_id, category, amount, description) VALUES (?, ?, ?, ?) RETURNING id"),
		e.UserID, e.Category, e.Amount, e.Description,
	).Scan(&e.ID)
	return mapError(err)
}

// GetExpense retrieves a single expense by ID.
func (db *DB) GetExpense(ctx context.Context, id int64) (*models.Expense, error) {
	var e models.Expense
	err := db.conn.GetContext(ctx, &e,
		db.conn.Rebind("SELECT "+expenseColumns+" FROM expenses WHERE id = ?"), id)
	if err != nil {
		return nil, mapError(err)
	}
	return &e, nil
}

// ListExpensesByUser retrieves all expenses of a user ordered by ID.
func (db *DB) ListExpensesByUser(ctx context.Context, userID int64) ([]models.Expense, error) {
	var expenses []models.Expense
	err := db.conn.SelectContext(ctx, &expenses,
		db.conn.Rebind("SELECT "+expenseColumns+" FROM expenses WHERE user_id = ? ORDER BY id"), userID)
	return expenses, err
}

// ListExpensesByUserCategory retrieves the expenses of a user for a category.
func (db *DB) ListExpensesByUserCategory(ctx context.Context, userID int64, category string) ([]models.Expense, error) {
	var expenses []models.Expense
	err := db.conn.SelectContext(ctx, &expenses,
		db.conn.Rebind("SELECT "+expenseColumns+" FROM expenses WHERE user_id = ? AND lower(category) = lower(?) ORDER BY id"),
		userID, category,
	)
	return expenses, err
}

// SumExpensesByUserCategory returns the total amount a user spent in a
// category. It returns ErrNotFound when the user has no such expenses.
func (db *DB) SumExpensesByUserCategory(ctx context.Context, userID int64, category string) (float64, error) {
	var total sql.NullFloat64
	err := db.conn.GetContext(ctx, &total,
		db.conn.Rebind("SELECT SUM(amount) FROM expenses WHERE user_id = ? AND lower(category) = lower(?)"),
		userID, category,
	)
	if err != nil {
		return 0, mapError(err)
	}
	if !total.Valid {
		return 0, &Error{Sentinel: ErrNotFound, Cause: sql.ErrNoRows}
	}
	return total.Float64, nil
}

// UpdateExpense overwrites the stored fields of e.
func (db *DB) UpdateExpense(ctx context.Context, e *models.Expense) error {
	res, err := db.conn.ExecContext(ctx,
		db.conn.Rebind("UPDATE expenses SET user_id = ?, category = ?, amount = ?, description = ? WHERE id = ?"),
		e.UserID, e.Category, e.Amount, e.Description, e.ID,
	)
	return affected(res, err)
}

// DeleteExpense removes an expense by ID.
func (db *DB) DeleteExpense(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, db.conn.Rebind("DELETE FROM expenses WHERE id = ?"), id)
	return affected(res, err)
}

// affected turns a mutation that touched no rows into ErrNotFound.
func affected(res sql.Result, err error) error {
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &Error{Sentinel: ErrNotFound, Cause: sql.ErrNoRows}
	}
	return nil
}
