package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gaurav7717/PurchaseInvoice/internal/domain"
)

// UserRecord carries a stored user with its password hash; the hash
// never leaves the service layer.
type UserRecord struct {
	User         domain.User
	PasswordHash string
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*UserRecord, error) {
	var record UserRecord
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users WHERE username = $1
	`, username).Scan(
		&record.User.ID,
		&record.User.Username,
		&record.PasswordHash,
		&record.User.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &record, nil
}

// EnsureUser inserts a user if the username is still free; an existing
// user is left untouched.
func (r *Repository) EnsureUser(ctx context.Context, username, passwordHash string) error {
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (username) DO NOTHING
	`, username, passwordHash); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}
