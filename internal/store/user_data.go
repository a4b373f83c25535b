package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"data-processor/internal/observability"
)

// UserData is the non-secret projection of a user_data row. The hashed and
// encrypted columns never leave this package.
type UserData struct {
	ID        int64     `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CreateUserDataParams represents parameters for creating a user_data row.
// Secret fields must already be hashed or encrypted by the caller.
type CreateUserDataParams struct {
	Username            string
	PasswordHash        string
	CreditCardEncrypted *string
	SSNEncrypted        *string
}

const sqlEnsureUserDataTable = `
CREATE TABLE IF NOT EXISTS user_data (
    id SERIAL PRIMARY KEY,
    username TEXT NOT NULL,
    password_hash TEXT,
    credit_card_encrypted TEXT,
    ssn_encrypted TEXT,
    created_at TIMESTAMP DEFAULT now()
)`

const sqlSelectUserDataByID = `
SELECT
    id,
    username,
    created_at
FROM user_data
WHERE id = $1`

const sqlInsertUserData = `
INSERT INTO user_data (username, password_hash, credit_card_encrypted, ssn_encrypted)
VALUES ($1, $2, $3, $4)
RETURNING id, username, created_at`

const sqlDeleteUserDataByID = `
DELETE FROM user_data
WHERE id = $1`

// EnsureSchema creates the user_data table if it does not exist
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqlEnsureUserDataTable); err != nil {
		return fmt.Errorf("failed to ensure user_data table: %w", err)
	}
	return nil
}

// GetUserDataByID fetches the non-secret projection of a user_data row.
// Returns ErrNotFound when no row matches.
func (s *Store) GetUserDataByID(ctx context.Context, id int64) (UserData, error) {
	var user UserData
	err := s.db.GetContext(ctx, &user, sqlSelectUserDataByID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserData{}, ErrNotFound
		}
		return UserData{}, fmt.Errorf("failed to get user data: %w", err)
	}
	return user, nil
}

// CreateUserData inserts a user_data row and returns its projection
func (s *Store) CreateUserData(ctx context.Context, params CreateUserDataParams) (UserData, error) {
	var user UserData
	err := s.db.GetContext(ctx, &user, sqlInsertUserData,
		params.Username, params.PasswordHash, params.CreditCardEncrypted, params.SSNEncrypted)
	if err != nil {
		return UserData{}, fmt.Errorf("failed to create user data: %w", err)
	}
	return user, nil
}

// DeleteUserDataByID deletes a user_data row and returns the number of rows
// affected. Deleting an absent id is not an error; the count is 0.
func (s *Store) DeleteUserDataByID(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, sqlDeleteUserDataByID, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user data: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	s.logger.Info(observability.WithFields(ctx,
		observability.Field{Key: "user_id", Value: id},
		observability.Field{Key: "rows_affected", Value: rows},
	), "deleted user data")
	return rows, nil
}
