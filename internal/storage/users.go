package storage

import (
	"context"

	"finance-manager/internal/models"
)

// CreateUser inserts u and sets its ID.
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	err := db.conn.QueryRowxContext(ctx,
		db.conn.Rebind("INSERT INTO users (name, email) VALUES (?, ?) RETURNING id"),
		u.Name, u.Email,
	).Scan(&u.ID)
	return mapError(err)
}

// GetUser retrieves a user by ID.
func (db *DB) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := db.conn.GetContext(ctx, &u,
		db.conn.Rebind("SELECT id, name, email FROM users WHERE id = ?"), id)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

// GetUserByEmail retrieves a user by email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := db.conn.GetContext(ctx, &u,
		db.conn.Rebind("SELECT id, name, email FROM users WHERE email = ?"), email)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

// UpdateUser overwrites the stored name and email of u.
func (db *DB) UpdateUser(ctx context.Context, u *models.User) error {
	res, err := db.conn.ExecContext(ctx,
		db.conn.Rebind("UPDATE users SET name = ?, email = ? WHERE id = ?"),
		u.Name, u.Email, u.ID,
	)
	return affected(res, err)
}

// DeleteUser removes a user by ID.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, db.conn.Rebind("DELETE FROM users WHERE id = ?"), id)
	return affected(res, err)
}

// UserCount returns the number of users in the database.
func (db *DB) UserCount(ctx context.Context) (int, error) {
	var count int
	err := db.conn.GetContext(ctx, &count, "SELECT COUNT(*) FROM users")
	return count, err
}
